package service

import (
	"strings"
	"time"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/amterp/gig/internal/id"
	"github.com/amterp/gig/internal/model"
	log "github.com/sirupsen/logrus"
)

// OrderInput holds explicit values for a new order.
// Empty icon, color, status and a zero date are filled with defaults.
type OrderInput struct {
	ClientID        string
	ServiceName     string
	ServiceIcon     string
	ServiceColorHex string
	Price           float64
	Date            time.Time
	Note            string
	Status          model.OrderStatus
}

// OrderPatch is a partial update. Nil fields are left unchanged.
type OrderPatch struct {
	Status *model.OrderStatus
	Price  *float64
	Date   *time.Time
	Note   *string
}

// IsEmpty returns true if the patch changes nothing.
func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.Price == nil && p.Date == nil && p.Note == nil
}

// Orders returns every order sorted by date.
func (s *DataStore) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := append([]model.Order(nil), s.payload.Orders...)
	SortOrders(result)
	return result
}

// Order returns the order with the given ID.
func (s *DataStore) Order(orderID string) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.orderIndexLocked(orderID)
	if idx < 0 {
		return model.Order{}, gigerr.OrderNotFound(orderID)
	}
	return s.payload.Orders[idx], nil
}

// OrdersForClient returns a client's orders sorted by date.
func (s *DataStore) OrdersForClient(clientID string) []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []model.Order
	for _, o := range s.payload.Orders {
		if o.ClientID == clientID {
			result = append(result, o)
		}
	}
	SortOrders(result)
	return result
}

// AddOrder creates an order from explicit values.
func (s *DataStore) AddOrder(input OrderInput) (model.Order, error) {
	now := s.now()
	order := model.Order{
		ID:              id.Generate(id.Order),
		ClientID:        input.ClientID,
		ServiceName:     strings.TrimSpace(input.ServiceName),
		ServiceIcon:     input.ServiceIcon,
		ServiceColorHex: input.ServiceColorHex,
		Price:           input.Price,
		Date:            input.Date,
		Note:            strings.TrimSpace(input.Note),
		Status:          input.Status,
		CreatedAt:       now,
	}
	if order.Status == "" {
		order.Status = model.StatusNew
	}
	if order.Date.IsZero() {
		order.Date = now
	}
	if order.ServiceIcon == "" {
		order.ServiceIcon = model.DefaultServiceIcon
	}

	s.mu.Lock()
	if s.clientIndexLocked(order.ClientID) < 0 {
		s.mu.Unlock()
		return model.Order{}, gigerr.ClientNotFound(order.ClientID)
	}
	if order.ServiceColorHex == "" {
		order.ServiceColorHex = s.serviceColorLocked(order.ServiceName)
	}
	if err := order.Validate(); err != nil {
		s.mu.Unlock()
		return model.Order{}, err
	}
	s.payload.Orders = append(s.payload.Orders, order)
	persisted := s.commitLocked(ChangeOrderAdded)
	s.mu.Unlock()

	s.emit(ChangeOrderAdded, order.ID, persisted)
	return order, nil
}

// AddOrderFromTemplate creates an order pre-filled from a template.
// A nil price uses the template's base price.
func (s *DataStore) AddOrderFromTemplate(clientID string, tmpl model.ServiceTemplate, price *float64, date time.Time, note string) (model.Order, error) {
	return s.AddOrder(TemplateOrderInput(clientID, tmpl, price, date, note))
}

// TemplateOrderInput builds the input for an order based on tmpl. A nil
// price falls back to the template's base price.
func TemplateOrderInput(clientID string, tmpl model.ServiceTemplate, price *float64, date time.Time, note string) OrderInput {
	input := OrderInput{
		ClientID:        clientID,
		ServiceName:     tmpl.Name,
		ServiceIcon:     tmpl.Icon,
		ServiceColorHex: tmpl.ColorHex,
		Price:           tmpl.BasePrice,
		Date:            date,
		Note:            note,
	}
	if price != nil {
		input.Price = *price
	}
	return input
}

// UpdateOrder applies a partial patch to an order.
func (s *DataStore) UpdateOrder(orderID string, patch OrderPatch) error {
	if patch.Status != nil && !patch.Status.IsValid() {
		return gigerr.InvalidField("status", "unknown status "+string(*patch.Status))
	}
	if patch.Price != nil {
		if err := model.ValidatePrice(*patch.Price); err != nil {
			return err
		}
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return gigerr.InvalidField("date", "must be set")
	}

	s.mu.Lock()
	idx := s.orderIndexLocked(orderID)
	if idx < 0 {
		s.mu.Unlock()
		return gigerr.OrderNotFound(orderID)
	}
	order := &s.payload.Orders[idx]
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.Price != nil {
		order.Price = *patch.Price
	}
	if patch.Date != nil {
		order.Date = *patch.Date
	}
	if patch.Note != nil {
		order.Note = strings.TrimSpace(*patch.Note)
	}
	persisted := s.commitLocked(ChangeOrderUpdated)
	s.mu.Unlock()

	s.emit(ChangeOrderUpdated, orderID, persisted)
	return nil
}

// DeleteOrder removes an order.
func (s *DataStore) DeleteOrder(orderID string) error {
	s.mu.Lock()
	idx := s.orderIndexLocked(orderID)
	if idx < 0 {
		s.mu.Unlock()
		return gigerr.OrderNotFound(orderID)
	}
	s.payload.Orders = append(s.payload.Orders[:idx], s.payload.Orders[idx+1:]...)
	persisted := s.commitLocked(ChangeOrderDeleted)
	s.mu.Unlock()

	s.emit(ChangeOrderDeleted, orderID, persisted)
	return nil
}

// DuplicateOrder copies an order onto a new date. The copy gets a fresh ID
// and creation time; everything else, status included, is kept.
func (s *DataStore) DuplicateOrder(orderID string, newDate time.Time) (model.Order, error) {
	if newDate.IsZero() {
		return model.Order{}, gigerr.InvalidField("date", "must be set")
	}

	s.mu.Lock()
	idx := s.orderIndexLocked(orderID)
	if idx < 0 {
		s.mu.Unlock()
		return model.Order{}, gigerr.OrderNotFound(orderID)
	}
	dup := s.payload.Orders[idx]
	dup.ID = id.Generate(id.Order)
	dup.CreatedAt = s.now()
	dup.Date = newDate
	s.payload.Orders = append(s.payload.Orders, dup)
	persisted := s.commitLocked(ChangeOrderAdded)
	s.mu.Unlock()

	s.emit(ChangeOrderAdded, dup.ID, persisted)
	return dup, nil
}

// CycleStatusForward advances an order to the next status in the status
// order, wrapping from the last back to the first. An order whose status is
// missing from the status order is left alone.
func (s *DataStore) CycleStatusForward(orderID string) error {
	s.mu.Lock()
	idx := s.orderIndexLocked(orderID)
	if idx < 0 {
		s.mu.Unlock()
		return gigerr.OrderNotFound(orderID)
	}
	order := &s.payload.Orders[idx]
	next, ok := s.statusOrder.Next(order.Status)
	if !ok {
		s.mu.Unlock()
		s.logger.WithFields(log.Fields{
			"order_id": orderID,
			"status":   order.Status,
		}).Warn("Order status not in status order, not advancing")
		return nil
	}
	order.Status = next
	persisted := s.commitLocked(ChangeOrderUpdated)
	s.mu.Unlock()

	s.emit(ChangeOrderUpdated, orderID, persisted)
	return nil
}

// Move sets an order's status directly.
func (s *DataStore) Move(orderID string, status model.OrderStatus) error {
	return s.UpdateOrder(orderID, OrderPatch{Status: &status})
}

func (s *DataStore) orderIndexLocked(orderID string) int {
	for i, o := range s.payload.Orders {
		if o.ID == orderID {
			return i
		}
	}
	return -1
}

// serviceColorLocked reuses the color of an existing service with the same
// name, otherwise picks the next palette color.
func (s *DataStore) serviceColorLocked(serviceName string) string {
	seen := make(map[string]bool)
	for _, o := range s.payload.Orders {
		if strings.EqualFold(o.ServiceName, serviceName) && o.ServiceColorHex != "" {
			return o.ServiceColorHex
		}
		seen[strings.ToLower(o.ServiceName)] = true
	}
	return model.NextServiceColor(len(seen))
}
