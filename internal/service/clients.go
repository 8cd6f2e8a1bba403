package service

import (
	"sort"
	"strings"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/amterp/gig/internal/id"
	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/util"
)

// Clients returns every client sorted by name, then ID.
func (s *DataStore) Clients() []model.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedClients(s.payload.Clients, false)
}

// ActiveClients returns non-archived clients sorted by name, then ID.
func (s *DataStore) ActiveClients() []model.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedClients(s.payload.Clients, true)
}

// Client returns the client with the given ID.
func (s *DataStore) Client(clientID string) (model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.clientIndexLocked(clientID)
	if idx < 0 {
		return model.Client{}, gigerr.ClientNotFound(clientID)
	}
	return s.payload.Clients[idx], nil
}

// AddClient creates a client. The name is trimmed and must not be empty.
func (s *DataStore) AddClient(name, note string) (model.Client, error) {
	client := model.Client{
		ID:        id.Generate(id.Client),
		Name:      strings.TrimSpace(name),
		Note:      strings.TrimSpace(note),
		CreatedAt: s.now(),
	}
	if err := client.Validate(); err != nil {
		return model.Client{}, err
	}

	s.mu.Lock()
	s.payload.Clients = append(s.payload.Clients, client)
	persisted := s.commitLocked(ChangeClientAdded)
	s.mu.Unlock()

	s.emit(ChangeClientAdded, client.ID, persisted)
	return client, nil
}

// UpdateClient replaces the name, note and archived flag of a client.
func (s *DataStore) UpdateClient(clientID, name, note string, archived bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return gigerr.InvalidField("name", "must not be empty")
	}

	s.mu.Lock()
	idx := s.clientIndexLocked(clientID)
	if idx < 0 {
		s.mu.Unlock()
		return gigerr.ClientNotFound(clientID)
	}
	client := &s.payload.Clients[idx]
	client.Name = name
	client.Note = strings.TrimSpace(note)
	client.IsArchived = archived
	persisted := s.commitLocked(ChangeClientUpdated)
	s.mu.Unlock()

	s.emit(ChangeClientUpdated, clientID, persisted)
	return nil
}

// DeleteClient removes a client together with all of its orders.
func (s *DataStore) DeleteClient(clientID string) error {
	s.mu.Lock()
	idx := s.clientIndexLocked(clientID)
	if idx < 0 {
		s.mu.Unlock()
		return gigerr.ClientNotFound(clientID)
	}

	s.payload.Clients = append(s.payload.Clients[:idx], s.payload.Clients[idx+1:]...)
	kept := s.payload.Orders[:0]
	removed := 0
	for _, o := range s.payload.Orders {
		if o.ClientID == clientID {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	s.payload.Orders = kept
	persisted := s.commitLocked(ChangeClientDeleted)
	s.mu.Unlock()

	if removed > 0 {
		s.logger.WithField("client_id", clientID).WithField("orders", removed).Debug("Deleted client orders")
	}
	s.emit(ChangeClientDeleted, clientID, persisted)
	return nil
}

func (s *DataStore) clientIndexLocked(clientID string) int {
	for i, c := range s.payload.Clients {
		if c.ID == clientID {
			return i
		}
	}
	return -1
}

func (s *DataStore) clientNamesLocked() map[string]string {
	names := make(map[string]string, len(s.payload.Clients))
	for _, c := range s.payload.Clients {
		names[c.ID] = c.Name
	}
	return names
}

func sortedClients(clients []model.Client, activeOnly bool) []model.Client {
	result := make([]model.Client, 0, len(clients))
	for _, c := range clients {
		if activeOnly && c.IsArchived {
			continue
		}
		result = append(result, c)
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := util.Fold(result[i].Name), util.Fold(result[j].Name)
		if a != b {
			return a < b
		}
		return result[i].ID < result[j].ID
	})
	return result
}
