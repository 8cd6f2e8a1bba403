package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amterp/gig/internal/config"
	"github.com/amterp/gig/internal/id"
	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/store"
	"github.com/amterp/gig/internal/version"
)

// IssueSeverity indicates how critical an issue is.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes for diagnostic results.
const (
	// Data file integrity (errors)
	CodeMalformedDataFile = "MALFORMED_DATA_FILE"
	CodeDuplicateClientID = "DUPLICATE_CLIENT_ID"
	CodeDuplicateOrderID  = "DUPLICATE_ORDER_ID"
	CodeOrphanedOrder     = "ORPHANED_ORDER"
	CodeInvalidClient     = "INVALID_CLIENT"
	CodeInvalidOrder      = "INVALID_ORDER"

	// Data file hygiene (warnings)
	CodeMissingDataFile    = "MISSING_DATA_FILE"
	CodeCorruptBackupFound = "CORRUPT_BACKUP_FOUND"

	// Settings (warnings)
	CodeMalformedSettings      = "MALFORMED_SETTINGS"
	CodeSettingsSchemaOutdated = "SETTINGS_SCHEMA_OUTDATED"
	CodeInvalidStatusOrder     = "INVALID_STATUS_ORDER"
)

// Issue represents a single diagnostic finding.
type Issue struct {
	Severity  IssueSeverity `json:"severity"`
	Code      string        `json:"code"`
	EntityID  string        `json:"entity_id,omitempty"`
	Message   string        `json:"message"`
	Fixable   bool          `json:"fixable"`
	FixAction string        `json:"fix_action,omitempty"`
	FixError  string        `json:"fix_error,omitempty"`
}

// DatasetDiagnostic contains stats for the data file.
type DatasetDiagnostic struct {
	Path            string `json:"path"`
	Clients         int    `json:"clients"`
	ArchivedClients int    `json:"archived_clients"`
	Orders          int    `json:"orders"`
	Seeded          bool   `json:"seeded"`
}

// ReportSummary summarizes the diagnostic results.
type ReportSummary struct {
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Fixed     int `json:"fixed"`
	FixFailed int `json:"fix_failed,omitempty"`
}

// DiagnosticReport contains all diagnostic results.
type DiagnosticReport struct {
	Dataset DatasetDiagnostic `json:"dataset"`
	Issues  []Issue           `json:"issues"`
	Summary ReportSummary     `json:"summary"`
}

// HasErrors returns true if there are any error-level issues.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

func (r *DiagnosticReport) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

func (r *DiagnosticReport) summarize() {
	r.Summary.Errors = 0
	r.Summary.Warnings = 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			r.Summary.Errors++
		} else {
			r.Summary.Warnings++
		}
	}
}

// DoctorService checks the data and settings files for consistency issues.
// It reads files directly and never seeds or rewrites data unless Fix is called.
type DoctorService struct {
	paths    *config.Paths
	payloads *store.FilePayloadStore
	settings *store.FileSettingsStore
}

// NewDoctorService creates a new diagnostic service.
func NewDoctorService(paths *config.Paths) *DoctorService {
	return &DoctorService{
		paths:    paths,
		payloads: store.NewPayloadStore(paths.DataFilePath()),
		settings: store.NewSettingsStore(paths.SettingsPath()),
	}
}

// Diagnose analyzes the data file and settings.
func (s *DoctorService) Diagnose() (*DiagnosticReport, error) {
	report := &DiagnosticReport{
		Dataset: DatasetDiagnostic{Path: s.paths.DataFilePath()},
		Issues:  []Issue{},
	}

	s.checkSettings(report)
	s.checkBackups(report)
	s.checkDataFile(report)

	report.summarize()
	return report, nil
}

// Fix applies automatic fixes for issues that have deterministic solutions.
// Returns a new report showing remaining issues and what was fixed.
func (s *DoctorService) Fix(report *DiagnosticReport) (*DiagnosticReport, error) {
	var payload *model.Payload
	payloadChanged := false
	fixed := 0
	fixFailed := 0
	remaining := []Issue{}

	for _, issue := range report.Issues {
		if !issue.Fixable {
			remaining = append(remaining, issue)
			continue
		}

		var err error
		switch issue.Code {
		case CodeDuplicateClientID, CodeDuplicateOrderID, CodeOrphanedOrder:
			if payload == nil {
				payload, err = s.payloads.ReadExisting()
			}
			if err == nil {
				err = applyPayloadFix(payload, issue)
				payloadChanged = payloadChanged || err == nil
			}
		case CodeInvalidStatusOrder:
			err = s.fixStatusOrder()
		default:
			remaining = append(remaining, issue)
			continue
		}

		if err != nil {
			issue.FixError = err.Error()
			remaining = append(remaining, issue)
			fixFailed++
		} else {
			fixed++
		}
	}

	if payloadChanged {
		if err := s.payloads.Save(payload); err != nil {
			return nil, fmt.Errorf("failed to save repaired data file: %w", err)
		}
	}

	newReport := &DiagnosticReport{
		Dataset: report.Dataset,
		Issues:  remaining,
		Summary: ReportSummary{
			Fixed:     fixed,
			FixFailed: fixFailed,
		},
	}
	newReport.summarize()
	return newReport, nil
}

func (s *DoctorService) checkSettings(report *DiagnosticReport) {
	path := s.paths.SettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return // No settings file is fine
		}
		report.add(Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedSettings,
			Message:  fmt.Sprintf("Cannot read settings: %v", err),
		})
		return
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		report.add(Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedSettings,
			Message:  fmt.Sprintf("Invalid TOML in settings: %v", err),
		})
		return
	}

	if schema, ok := raw["gig_schema"].(string); ok && schema != version.CurrentSettingsSchema() {
		report.add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeSettingsSchemaOutdated,
			Message:   fmt.Sprintf("Settings have schema %s, current is %s", schema, version.CurrentSettingsSchema()),
			FixAction: "Remove gig_schema from the settings file or upgrade gig",
		})
	}

	var settings config.Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return
	}
	if len(settings.StatusOrder) > 0 {
		if _, err := settings.ParsedStatusOrder(); err != nil {
			report.add(Issue{
				Severity:  SeverityWarning,
				Code:      CodeInvalidStatusOrder,
				Message:   fmt.Sprintf("status_order is invalid: %v", err),
				Fixable:   true,
				FixAction: "Reset status_order to the default",
			})
		}
	}
}

func (s *DoctorService) checkBackups(report *DiagnosticReport) {
	backups, _ := filepath.Glob(s.paths.DataFilePath() + ".corrupt-*")
	for _, backup := range backups {
		report.add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeCorruptBackupFound,
			Message:   fmt.Sprintf("Unreadable data file was moved aside to %s", filepath.Base(backup)),
			FixAction: "Inspect it and import any data worth keeping, then delete it",
		})
	}
}

func (s *DoctorService) checkDataFile(report *DiagnosticReport) {
	payload, err := s.payloads.ReadExisting()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			report.add(Issue{
				Severity: SeverityWarning,
				Code:     CodeMissingDataFile,
				Message:  "No data file yet; sample data will be created on first use",
			})
			return
		}
		report.add(Issue{
			Severity:  SeverityError,
			Code:      CodeMalformedDataFile,
			Message:   fmt.Sprintf("Data file cannot be parsed: %v", err),
			FixAction: "Restore from an export, or run any command to move it aside and reseed",
		})
		return
	}

	report.Dataset.Clients = len(payload.Clients)
	report.Dataset.Orders = len(payload.Orders)
	report.Dataset.Seeded = payload.SeededAt != nil

	clientIDs := make(map[string]bool, len(payload.Clients))
	for _, c := range payload.Clients {
		if c.IsArchived {
			report.Dataset.ArchivedClients++
		}
		if clientIDs[c.ID] {
			report.add(Issue{
				Severity:  SeverityError,
				Code:      CodeDuplicateClientID,
				EntityID:  c.ID,
				Message:   fmt.Sprintf("Client ID %s is used more than once", c.ID),
				Fixable:   true,
				FixAction: "Give the later duplicates new IDs",
			})
		}
		clientIDs[c.ID] = true
		if err := c.Validate(); err != nil {
			report.add(Issue{
				Severity: SeverityError,
				Code:     CodeInvalidClient,
				EntityID: c.ID,
				Message:  fmt.Sprintf("Client %s is invalid: %v", c.ID, err),
			})
		}
	}

	orderIDs := make(map[string]bool, len(payload.Orders))
	for _, o := range payload.Orders {
		if orderIDs[o.ID] {
			report.add(Issue{
				Severity:  SeverityError,
				Code:      CodeDuplicateOrderID,
				EntityID:  o.ID,
				Message:   fmt.Sprintf("Order ID %s is used more than once", o.ID),
				Fixable:   true,
				FixAction: "Give the later duplicates new IDs",
			})
		}
		orderIDs[o.ID] = true
		if !clientIDs[o.ClientID] {
			report.add(Issue{
				Severity:  SeverityError,
				Code:      CodeOrphanedOrder,
				EntityID:  o.ID,
				Message:   fmt.Sprintf("Order %s references missing client %s", o.ID, o.ClientID),
				Fixable:   true,
				FixAction: "Delete the order",
			})
		}
		if err := o.Validate(); err != nil {
			report.add(Issue{
				Severity: SeverityError,
				Code:     CodeInvalidOrder,
				EntityID: o.ID,
				Message:  fmt.Sprintf("Order %s is invalid: %v", o.ID, err),
			})
		}
	}
}

func applyPayloadFix(payload *model.Payload, issue Issue) error {
	switch issue.Code {
	case CodeDuplicateClientID:
		return renameDuplicateClients(payload, issue.EntityID)
	case CodeDuplicateOrderID:
		return renameDuplicateOrders(payload, issue.EntityID)
	case CodeOrphanedOrder:
		return removeOrder(payload, issue.EntityID)
	}
	return fmt.Errorf("no fix for %s", issue.Code)
}

// renameDuplicateClients gives every client after the first with the given
// ID a fresh ID. Orders stay with the first client since their owner is
// ambiguous.
func renameDuplicateClients(payload *model.Payload, clientID string) error {
	seen := false
	for i := range payload.Clients {
		if payload.Clients[i].ID != clientID {
			continue
		}
		if seen {
			payload.Clients[i].ID = id.Generate(id.Client)
		}
		seen = true
	}
	if !seen {
		return fmt.Errorf("client %s no longer exists", clientID)
	}
	return nil
}

func renameDuplicateOrders(payload *model.Payload, orderID string) error {
	seen := false
	for i := range payload.Orders {
		if payload.Orders[i].ID != orderID {
			continue
		}
		if seen {
			payload.Orders[i].ID = id.Generate(id.Order)
		}
		seen = true
	}
	if !seen {
		return fmt.Errorf("order %s no longer exists", orderID)
	}
	return nil
}

func removeOrder(payload *model.Payload, orderID string) error {
	for i, o := range payload.Orders {
		if o.ID == orderID {
			payload.Orders = append(payload.Orders[:i], payload.Orders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("order %s no longer exists", orderID)
}

func (s *DoctorService) fixStatusOrder() error {
	data, err := os.ReadFile(s.paths.SettingsPath())
	if err != nil {
		return err
	}
	var settings config.Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return err
	}
	settings.StatusOrder = model.DefaultStatusOrder().Strings()
	if strings.TrimSpace(settings.GigSchema) != "" && settings.GigSchema != version.CurrentSettingsSchema() {
		return fmt.Errorf("settings schema %s is not supported", settings.GigSchema)
	}
	return s.settings.Save(&settings)
}
