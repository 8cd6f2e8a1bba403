package service

import (
	"fmt"
	"sync"
	"time"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/amterp/gig/internal/metrics"
	"github.com/amterp/gig/internal/model"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/currency"
)

// Persister reads and writes the whole dataset.
// store.FilePayloadStore satisfies it.
type Persister interface {
	Load() (*model.Payload, error)
	Save(payload *model.Payload) error
	// ReadIfChanged reads the stored dataset without seeding or repairing it.
	// changed is false when the content is what the persister last wrote.
	ReadIfChanged() (payload *model.Payload, changed bool, err error)
}

// DataStore owns the in-memory dataset and is the only thing that mutates it.
// Every mutation validates its input, updates memory, persists the full
// payload and then notifies subscribers. A failed write does not roll back
// the in-memory change; it is logged and reported through ChangeEvent.Persisted.
type DataStore struct {
	mu sync.RWMutex

	payload   *model.Payload
	persister Persister

	now     func() time.Time
	metrics *metrics.Metrics
	logger  *log.Entry

	statusOrder  model.StatusOrder
	currency     currency.Unit
	filter       Filter
	autoPersist  bool
	dirty        bool
	lastPersist  error
	subscribers  map[int]func(ChangeEvent)
	nextSubID    int
	subscriberMu sync.Mutex
}

// Option configures a DataStore.
type Option func(*DataStore) error

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *DataStore) error {
		s.now = now
		return nil
	}
}

// WithStatusOrder sets the workflow column order.
func WithStatusOrder(order model.StatusOrder) Option {
	return func(s *DataStore) error {
		if err := order.Validate(); err != nil {
			return err
		}
		s.statusOrder = order.Clone()
		return nil
	}
}

// WithCurrency sets the ISO 4217 currency used by FormatCurrency.
func WithCurrency(code string) Option {
	return func(s *DataStore) error {
		unit, err := parseCurrency(code)
		if err != nil {
			return err
		}
		s.currency = unit
		return nil
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *DataStore) error {
		s.metrics = m
		return nil
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *log.Entry) Option {
	return func(s *DataStore) error {
		s.logger = logger
		return nil
	}
}

// NewDataStore creates a store over payload. A nil persister keeps the
// dataset purely in memory.
func NewDataStore(payload *model.Payload, persister Persister, opts ...Option) (*DataStore, error) {
	s := &DataStore{
		payload:     payload.Clone(),
		persister:   persister,
		now:         time.Now,
		logger:      log.WithField("component", "datastore"),
		statusOrder: model.DefaultStatusOrder(),
		currency:    currency.USD,
		autoPersist: persister != nil,
		subscribers: make(map[int]func(ChangeEvent)),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to configure data store: %w", err)
		}
	}
	s.metrics.DatasetSize(len(s.payload.Clients), len(s.payload.Orders))
	return s, nil
}

// SetAutoPersist toggles the write that follows every mutation.
func (s *DataStore) SetAutoPersist(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoPersist = enabled && s.persister != nil
}

// Dirty reports whether memory holds changes that have not been written.
func (s *DataStore) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// LastPersistError returns the error from the most recent failed write,
// or nil if the last write succeeded.
func (s *DataStore) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPersist
}

// Persist writes the full dataset through the persister.
func (s *DataStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persister == nil {
		return fmt.Errorf("data store has no persister")
	}
	return s.persistLocked()
}

// Payload returns a snapshot copy of the dataset.
func (s *DataStore) Payload() *model.Payload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payload.Clone()
}

// ReplaceAll adopts a new dataset, e.g. from an import, and persists it.
// Every client and order must be well formed, IDs must be unique and every
// order must reference a client in the dataset.
func (s *DataStore) ReplaceAll(payload *model.Payload) error {
	if err := validatePayload(payload); err != nil {
		return err
	}

	s.mu.Lock()
	s.payload = payload.Clone()
	persisted := s.commitLocked(ChangeDatasetReplaced)
	s.mu.Unlock()

	s.emit(ChangeDatasetReplaced, "", persisted)
	return nil
}

// Reload re-reads the dataset from the persister and adopts it without
// writing it back. Used when the file changes on disk. Content this store
// wrote itself is skipped. An unreadable or invalid dataset is rejected and
// the in-memory dataset is kept.
func (s *DataStore) Reload() error {
	if s.persister == nil {
		return fmt.Errorf("data store has no persister")
	}
	payload, changed, err := s.persister.ReadIfChanged()
	if err != nil {
		return fmt.Errorf("failed to reload dataset: %w", err)
	}
	if !changed {
		s.logger.Debug("Data file unchanged, skipping reload")
		return nil
	}
	if err := validatePayload(payload); err != nil {
		return fmt.Errorf("rejected reloaded dataset: %w", err)
	}

	s.mu.Lock()
	s.payload = payload.Clone()
	s.dirty = false
	s.lastPersist = nil
	s.metrics.Mutation(string(ChangeDatasetReplaced))
	s.metrics.DatasetSize(len(s.payload.Clients), len(s.payload.Orders))
	s.mu.Unlock()

	s.logger.WithFields(log.Fields{
		"clients": len(payload.Clients),
		"orders":  len(payload.Orders),
	}).Info("Reloaded dataset from disk")
	s.emit(ChangeDatasetReplaced, "", true)
	return nil
}

// commitLocked records a mutation and persists it when auto-persist is on.
// Returns whether the change reached disk.
func (s *DataStore) commitLocked(kind ChangeKind) bool {
	s.dirty = true
	s.metrics.Mutation(string(kind))
	s.metrics.DatasetSize(len(s.payload.Clients), len(s.payload.Orders))
	if !s.autoPersist {
		return false
	}
	return s.persistLocked() == nil
}

func (s *DataStore) persistLocked() error {
	start := time.Now()
	err := s.persister.Save(s.payload)
	s.metrics.Persisted(time.Since(start), err)
	if err != nil {
		s.lastPersist = err
		s.dirty = true
		s.logger.WithError(err).Error("Failed to persist dataset")
		return err
	}
	s.lastPersist = nil
	s.dirty = false
	return nil
}

// validatePayload checks each entity, ID uniqueness and that every order
// references a client in the same payload.
func validatePayload(payload *model.Payload) error {
	if payload == nil {
		return nil
	}
	clientIDs := make(map[string]bool, len(payload.Clients))
	for _, c := range payload.Clients {
		if err := c.Validate(); err != nil {
			return err
		}
		if clientIDs[c.ID] {
			return gigerr.ClientAlreadyExists(c.ID)
		}
		clientIDs[c.ID] = true
	}
	orderIDs := make(map[string]bool, len(payload.Orders))
	for _, o := range payload.Orders {
		if err := o.Validate(); err != nil {
			return err
		}
		if orderIDs[o.ID] {
			return gigerr.OrderAlreadyExists(o.ID)
		}
		orderIDs[o.ID] = true
		if !clientIDs[o.ClientID] {
			return gigerr.InvalidField("clientId", fmt.Sprintf("order %s references unknown client %s", o.ID, o.ClientID))
		}
	}
	return nil
}
