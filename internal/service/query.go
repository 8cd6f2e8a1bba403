package service

import (
	"sort"
	"strings"

	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/util"
)

// Filter narrows which orders are visible.
type Filter struct {
	// Query is matched against client name, service name and note.
	// Blank matches everything.
	Query string
	// Statuses limits visible statuses. Empty shows all.
	Statuses []model.OrderStatus
}

func (f Filter) allows(status model.OrderStatus) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (f Filter) matches(o model.Order, names map[string]string) bool {
	query := strings.TrimSpace(f.Query)
	if query == "" {
		return true
	}
	return util.ContainsFold(names[o.ClientID], query) ||
		util.ContainsFold(o.ServiceName, query) ||
		util.ContainsFold(o.Note, query)
}

// Column is one workflow column of the board.
type Column struct {
	Status model.OrderStatus `json:"status"`
	Orders []model.Order     `json:"orders"`
}

// SetSearchQuery sets the free-text filter. Blank matches everything.
func (s *DataStore) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Query = query
}

// SearchQuery returns the active free-text filter.
func (s *DataStore) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Query
}

// SetSelectedStatuses limits which statuses are shown. Empty shows all.
func (s *DataStore) SetSelectedStatuses(statuses []model.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Statuses = append([]model.OrderStatus(nil), statuses...)
}

// SelectedStatuses returns the status selection. Empty means all.
func (s *DataStore) SelectedStatuses() []model.OrderStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.OrderStatus(nil), s.filter.Statuses...)
}

// SetStatusOrder replaces the workflow order. It must be a permutation of
// the four statuses.
func (s *DataStore) SetStatusOrder(order model.StatusOrder) error {
	if err := order.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusOrder = order.Clone()
	return nil
}

// StatusOrder returns a copy of the workflow order.
func (s *DataStore) StatusOrder() model.StatusOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusOrder.Clone()
}

// OrdersFor returns the visible orders with the given status, earliest first.
func (s *DataStore) OrdersFor(status model.OrderStatus) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ordersForLocked(status, s.filter, s.clientNamesLocked())
}

// AllOrdersFiltered returns every order passing the status selection and
// search filter, in storage order.
func (s *DataStore) AllOrdersFiltered() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredLocked(s.filter)
}

// Board returns one column per entry of the status order.
func (s *DataStore) Board() []Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boardLocked(s.filter)
}

// OrdersMatching is AllOrdersFiltered with an explicit filter instead of
// the store's own view state.
func (s *DataStore) OrdersMatching(f Filter) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredLocked(f)
}

// BoardMatching is Board with an explicit filter instead of the store's
// own view state.
func (s *DataStore) BoardMatching(f Filter) []Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boardLocked(f)
}

// Matches reports whether an order matches the search query on client name,
// service name or note.
func (s *DataStore) Matches(order model.Order) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.matches(order, s.clientNamesLocked())
}

func (s *DataStore) filteredLocked(f Filter) []model.Order {
	names := s.clientNamesLocked()
	var result []model.Order
	for _, o := range s.payload.Orders {
		if f.allows(o.Status) && f.matches(o, names) {
			result = append(result, o)
		}
	}
	return result
}

func (s *DataStore) boardLocked(f Filter) []Column {
	names := s.clientNamesLocked()
	columns := make([]Column, 0, len(s.statusOrder))
	for _, status := range s.statusOrder {
		columns = append(columns, Column{
			Status: status,
			Orders: s.ordersForLocked(status, f, names),
		})
	}
	return columns
}

func (s *DataStore) ordersForLocked(status model.OrderStatus, f Filter, names map[string]string) []model.Order {
	result := []model.Order{}
	if !f.allows(status) {
		return result
	}
	for _, o := range s.payload.Orders {
		if o.Status == status && f.matches(o, names) {
			result = append(result, o)
		}
	}
	SortOrders(result)
	return result
}

// SortOrders sorts by date ascending; ties by creation time, then ID.
func SortOrders(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
