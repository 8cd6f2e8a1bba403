package model

import (
	"strings"
	"time"

	gigerr "github.com/amterp/gig/internal/errors"
)

// Order is a scheduled service engagement for a client.
type Order struct {
	ID              string      `json:"id"`
	ClientID        string      `json:"clientId"`
	ServiceName     string      `json:"serviceName"`
	ServiceIcon     string      `json:"serviceIcon"`
	ServiceColorHex string      `json:"serviceColorHex"`
	Price           float64     `json:"price"`
	Date            time.Time   `json:"date"`
	Note            string      `json:"note,omitempty"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Validate rejects orders that could not have come from a validated entry point.
// Client existence is checked by the data store, not here.
func (o Order) Validate() error {
	if o.ID == "" {
		return gigerr.InvalidField("order id", "cannot be empty")
	}
	if o.ClientID == "" {
		return gigerr.InvalidField("client id", "cannot be empty")
	}
	if strings.TrimSpace(o.ServiceName) == "" {
		return gigerr.InvalidField("service name", "cannot be empty")
	}
	if err := ValidatePrice(o.Price); err != nil {
		return err
	}
	if !o.Status.IsValid() {
		return gigerr.InvalidField("status", "unknown status "+string(o.Status))
	}
	if o.Date.IsZero() {
		return gigerr.InvalidField("date", "must be set")
	}
	if o.CreatedAt.IsZero() {
		return gigerr.InvalidField("order createdAt", "must be set")
	}
	return nil
}

// ValidatePrice checks that a price is strictly positive.
func ValidatePrice(price float64) error {
	if !(price > 0) {
		return gigerr.InvalidField("price", "must be greater than zero")
	}
	return nil
}
