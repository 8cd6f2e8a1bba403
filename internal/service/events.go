package service

import "time"

// ChangeKind names what a mutation did.
type ChangeKind string

const (
	ChangeClientAdded     ChangeKind = "client_added"
	ChangeClientUpdated   ChangeKind = "client_updated"
	ChangeClientDeleted   ChangeKind = "client_deleted"
	ChangeOrderAdded      ChangeKind = "order_added"
	ChangeOrderUpdated    ChangeKind = "order_updated"
	ChangeOrderDeleted    ChangeKind = "order_deleted"
	ChangeDatasetReplaced ChangeKind = "dataset_replaced"
)

// ChangeEvent is emitted after every mutation.
// Persisted is false when the write failed or auto-persist is off.
type ChangeEvent struct {
	Kind      ChangeKind `json:"kind"`
	EntityID  string     `json:"entityId,omitempty"`
	Persisted bool       `json:"persisted"`
	At        time.Time  `json:"at"`
}

// Subscribe registers fn for change events and returns a function that
// removes it. Callbacks run synchronously on the mutating goroutine after
// the store lock is released.
func (s *DataStore) Subscribe(fn func(ChangeEvent)) func() {
	s.subscriberMu.Lock()
	defer s.subscriberMu.Unlock()

	subID := s.nextSubID
	s.nextSubID++
	s.subscribers[subID] = fn

	return func() {
		s.subscriberMu.Lock()
		defer s.subscriberMu.Unlock()
		delete(s.subscribers, subID)
	}
}

func (s *DataStore) emit(kind ChangeKind, entityID string, persisted bool) {
	event := ChangeEvent{
		Kind:      kind,
		EntityID:  entityID,
		Persisted: persisted,
		At:        s.now(),
	}

	s.subscriberMu.Lock()
	subs := make([]func(ChangeEvent), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subscriberMu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}
