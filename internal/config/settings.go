package config

import (
	"os"
	"strings"

	"github.com/amterp/gig/internal/model"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultCurrency   = "USD"
	DefaultPeriodDays = 30
)

// Settings holds user preferences.
// Stored at <home>/config.toml
// Schema changes require a version bump. See internal/version/version.go.
type Settings struct {
	GigSchema       string   `toml:"gig_schema"`
	Currency        string   `toml:"currency,omitempty"`
	PeriodDays      int      `toml:"period_days,omitempty"`
	StatusOrder     []string `toml:"status_order,omitempty"`
	VisibleStatuses []string `toml:"visible_statuses,omitempty"`
	Editor          string   `toml:"editor,omitempty"`
	DataLocation    string   `toml:"data_location,omitempty"`
}

// DefaultSettings returns settings with every field populated.
func DefaultSettings() *Settings {
	return &Settings{
		Currency:    DefaultCurrency,
		PeriodDays:  DefaultPeriodDays,
		StatusOrder: model.DefaultStatusOrder().Strings(),
	}
}

// Normalize fills missing fields with defaults.
// An invalid status order is replaced by the default one so the permutation
// invariant holds for everything downstream.
func (s *Settings) Normalize() {
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	s.Currency = strings.ToUpper(s.Currency)
	if s.PeriodDays <= 0 {
		s.PeriodDays = DefaultPeriodDays
	}
	if _, err := s.ParsedStatusOrder(); err != nil {
		if len(s.StatusOrder) > 0 {
			log.WithError(err).Warn("Ignoring invalid status_order in settings")
		}
		s.StatusOrder = model.DefaultStatusOrder().Strings()
	}
}

// ParsedStatusOrder converts the configured status order into a validated StatusOrder.
func (s *Settings) ParsedStatusOrder() (model.StatusOrder, error) {
	order := make(model.StatusOrder, 0, len(s.StatusOrder))
	for _, token := range s.StatusOrder {
		status, err := model.ParseStatus(token)
		if err != nil {
			return nil, err
		}
		order = append(order, status)
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// ParsedVisibleStatuses returns the statuses selected for display. Empty means all.
func (s *Settings) ParsedVisibleStatuses() ([]model.OrderStatus, error) {
	return model.ParseStatuses(strings.Join(s.VisibleStatuses, ","))
}

// ApplyEnv overrides settings from environment variables.
func (s *Settings) ApplyEnv() {
	if currency := os.Getenv(EnvCurrency); currency != "" {
		s.Currency = strings.ToUpper(currency)
	}
}

// LoadEnvFile loads variables from $GIG_ENV_FILE (default ".env") if it exists.
// Variables already set in the environment win.
func LoadEnvFile() {
	envFile := os.Getenv(EnvEnvFile)
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err != nil {
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		log.WithError(err).WithField("path", envFile).Warn("Failed to load env file")
	}
}

// ConfigureLogging sets the logrus level from $GIG_LOG_LEVEL, falling back to def.
func ConfigureLogging(def log.Level) {
	level := def
	if raw := os.Getenv(EnvLogLevel); raw != "" {
		parsed, err := log.ParseLevel(raw)
		if err != nil {
			log.WithField("value", raw).Warn("Unknown log level, using default")
		} else {
			level = parsed
		}
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
}
