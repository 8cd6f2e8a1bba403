package testutil

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amterp/gig/internal/config"
	"github.com/amterp/gig/internal/model"
)

// FixedNow is the reference time used by fixtures.
var FixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

// Clock returns a time source that always reports now.
func Clock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// TestClient returns a client with sensible test defaults.
func TestClient(id, name string) model.Client {
	return model.Client{
		ID:        id,
		Name:      name,
		CreatedAt: FixedNow.Add(-48 * time.Hour),
	}
}

// TestOrder returns an order with sensible test defaults.
func TestOrder(id, clientID string, status model.OrderStatus, price float64, date time.Time) model.Order {
	return model.Order{
		ID:              id,
		ClientID:        clientID,
		ServiceName:     "Standard Service",
		ServiceIcon:     "wrench.and.screwdriver",
		ServiceColorHex: "#10b981",
		Price:           price,
		Date:            date,
		Status:          status,
		CreatedAt:       FixedNow.Add(-24 * time.Hour),
	}
}

// TestPayload returns a small dataset: two clients, four orders.
//
//	cl_anna: or_1 (new), or_2 (done, 30, today)
//	cl_bob:  or_3 (inProgress), or_4 (done, 70, 40 days ago)
func TestPayload() *model.Payload {
	return &model.Payload{
		Clients: []model.Client{
			TestClient("cl_anna", "Anna Petrova"),
			TestClient("cl_bob", "Bob Stone"),
		},
		Orders: []model.Order{
			TestOrder("or_1", "cl_anna", model.StatusNew, 50, FixedNow.Add(2*time.Hour)),
			TestOrder("or_2", "cl_anna", model.StatusDone, 30, FixedNow.Add(-2*time.Hour)),
			TestOrder("or_3", "cl_bob", model.StatusInProgress, 80, FixedNow.Add(-time.Hour)),
			TestOrder("or_4", "cl_bob", model.StatusDone, 70, FixedNow.AddDate(0, 0, -40)),
		},
	}
}

// NewTestPaths creates Paths rooted at a fresh temp directory.
func NewTestPaths(t *testing.T) *config.Paths {
	t.Helper()
	return config.NewPaths(t.TempDir(), "")
}

// ErrSaveFailed is returned by a MemoryPersister configured to fail.
var ErrSaveFailed = errors.New("save failed")

// MemoryPersister keeps the last saved payload in memory.
// Assigning Saved directly simulates an external edit; ReadErr makes
// ReadIfChanged fail like an unparseable file.
type MemoryPersister struct {
	mu      sync.Mutex
	Saved   *model.Payload
	Saves   int
	FailAll bool
	ReadErr error

	written *model.Payload
}

// Load returns the last saved payload, or an empty one.
func (p *MemoryPersister) Load() (*model.Payload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Saved.Clone(), nil
}

// Save records the payload, or fails if FailAll is set.
func (p *MemoryPersister) Save(payload *model.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailAll {
		return ErrSaveFailed
	}
	p.Saves++
	p.Saved = payload.Clone()
	p.written = p.Saved
	return nil
}

// ReadIfChanged returns Saved when it was replaced since the last Save.
func (p *MemoryPersister) ReadIfChanged() (*model.Payload, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ReadErr != nil {
		return nil, false, p.ReadErr
	}
	if p.Saved == p.written {
		return nil, false, nil
	}
	p.written = p.Saved
	return p.Saved.Clone(), true, nil
}

// SaveCount returns how many saves succeeded.
func (p *MemoryPersister) SaveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Saves
}
