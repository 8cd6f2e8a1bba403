package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/amterp/gig/internal/model"
	log "github.com/sirupsen/logrus"
)

// FilePayloadStore persists the whole dataset as a single JSON document.
type FilePayloadStore struct {
	path string
	now  func() time.Time

	// last holds the bytes most recently written or adopted, so reloads can
	// tell our own saves apart from external edits.
	mu   sync.Mutex
	last []byte
}

// NewPayloadStore creates a store backed by the file at path.
func NewPayloadStore(path string) *FilePayloadStore {
	return &FilePayloadStore{path: path, now: time.Now}
}

// WithClock overrides the clock used for seeding.
func (s *FilePayloadStore) WithClock(now func() time.Time) *FilePayloadStore {
	s.now = now
	return s
}

// Path returns the location of the data file.
func (s *FilePayloadStore) Path() string {
	return s.path
}

// Load reads the dataset. A missing file produces the seed dataset.
// An unreadable or unparseable file is moved aside and also replaced by
// the seed dataset, so Load never fails on bad content.
func (s *FilePayloadStore) Load() (*model.Payload, error) {
	logger := log.WithField("path", s.path)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("No data file found, seeding sample data")
			return s.Seed()
		}
		logger.WithError(err).Warn("Failed to read data file, seeding sample data")
		s.quarantine()
		return s.Seed()
	}

	payload, err := DecodePayload(data)
	if err != nil {
		logger.WithError(err).Warn("Failed to parse data file, seeding sample data")
		s.quarantine()
		return s.Seed()
	}

	logger.WithFields(log.Fields{
		"clients": len(payload.Clients),
		"orders":  len(payload.Orders),
	}).Debug("Loaded data file")
	s.remember(data)
	return payload, nil
}

// ReadExisting reads the data file without any fallback behavior.
// Used by read-only consumers such as shell completion and diagnostics.
func (s *FilePayloadStore) ReadExisting() (*model.Payload, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return DecodePayload(data)
}

// ReadIfChanged reads the data file without any fallback behavior and
// reports whether its content differs from what this store last wrote or
// loaded. An unchanged file returns a nil payload.
func (s *FilePayloadStore) ReadIfChanged() (*model.Payload, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	unchanged := s.last != nil && bytes.Equal(data, s.last)
	s.mu.Unlock()
	if unchanged {
		return nil, false, nil
	}

	payload, err := DecodePayload(data)
	if err != nil {
		return nil, false, err
	}
	s.remember(data)
	return payload, true, nil
}

// Save atomically replaces the data file with the encoded payload.
// Failures are logged and returned; nothing is retried.
func (s *FilePayloadStore) Save(payload *model.Payload) error {
	data, err := EncodePayload(payload)
	if err != nil {
		log.WithError(err).Error("Failed to encode data file")
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		log.WithError(err).WithField("path", s.path).Error("Failed to save data file")
		return err
	}
	s.remember(data)
	return nil
}

// Seed builds the sample dataset, saves it, and returns it.
// A failed save is logged by Save and does not prevent the dataset
// from being returned.
func (s *FilePayloadStore) Seed() (*model.Payload, error) {
	payload := SeedPayload(s.now())
	_ = s.Save(payload)
	return payload, nil
}

// Clear deletes the data file. A missing file is not an error.
func (s *FilePayloadStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete data file: %w", err)
	}
	return nil
}

func (s *FilePayloadStore) remember(data []byte) {
	s.mu.Lock()
	s.last = data
	s.mu.Unlock()
}

// quarantine moves a bad data file aside so seeding does not destroy it.
func (s *FilePayloadStore) quarantine() {
	target := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
	if err := os.Rename(s.path, target); err != nil {
		log.WithError(err).WithField("path", s.path).Warn("Failed to move bad data file aside")
		return
	}
	log.WithField("backup", target).Warn("Moved bad data file aside")
}
