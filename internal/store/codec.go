package store

import (
	"fmt"
	"time"

	"github.com/amterp/gig/internal/model"
	"github.com/goccy/go-json"
)

// Document types mirror the on-disk shape. Fields are declared in
// alphabetical order of their keys so encoded output has sorted keys.

type payloadDoc struct {
	Clients  []clientDoc `json:"clients" yaml:"clients"`
	Orders   []orderDoc  `json:"orders" yaml:"orders"`
	SeededAt *string     `json:"seededAt" yaml:"seededAt"`
}

type clientDoc struct {
	CreatedAt  string `json:"createdAt" yaml:"createdAt"`
	ID         string `json:"id" yaml:"id"`
	IsArchived bool   `json:"isArchived" yaml:"isArchived"`
	Name       string `json:"name" yaml:"name"`
	Note       string `json:"note,omitempty" yaml:"note,omitempty"`
}

type orderDoc struct {
	ClientID        string            `json:"clientId" yaml:"clientId"`
	CreatedAt       string            `json:"createdAt" yaml:"createdAt"`
	Date            string            `json:"date" yaml:"date"`
	ID              string            `json:"id" yaml:"id"`
	Note            string            `json:"note,omitempty" yaml:"note,omitempty"`
	Price           float64           `json:"price" yaml:"price"`
	ServiceColorHex string            `json:"serviceColorHex" yaml:"serviceColorHex"`
	ServiceIcon     string            `json:"serviceIcon" yaml:"serviceIcon"`
	ServiceName     string            `json:"serviceName" yaml:"serviceName"`
	Status          model.OrderStatus `json:"status" yaml:"status"`
}

// EncodePayload serializes a payload with sorted keys and RFC 3339 UTC dates
// at whole-second precision.
func EncodePayload(p *model.Payload) ([]byte, error) {
	data, err := json.MarshalIndent(toDoc(p), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return data, nil
}

// DecodePayload parses a payload produced by EncodePayload.
func DecodePayload(data []byte) (*model.Payload, error) {
	var doc payloadDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return fromDoc(&doc)
}

func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return t.UTC(), nil
}

func toDoc(p *model.Payload) *payloadDoc {
	doc := &payloadDoc{
		Clients: make([]clientDoc, 0, len(p.Clients)),
		Orders:  make([]orderDoc, 0, len(p.Orders)),
	}
	for _, c := range p.Clients {
		doc.Clients = append(doc.Clients, clientDoc{
			CreatedAt:  formatTime(c.CreatedAt),
			ID:         c.ID,
			IsArchived: c.IsArchived,
			Name:       c.Name,
			Note:       c.Note,
		})
	}
	for _, o := range p.Orders {
		doc.Orders = append(doc.Orders, orderDoc{
			ClientID:        o.ClientID,
			CreatedAt:       formatTime(o.CreatedAt),
			Date:            formatTime(o.Date),
			ID:              o.ID,
			Note:            o.Note,
			Price:           o.Price,
			ServiceColorHex: o.ServiceColorHex,
			ServiceIcon:     o.ServiceIcon,
			ServiceName:     o.ServiceName,
			Status:          o.Status,
		})
	}
	if p.SeededAt != nil {
		seeded := formatTime(*p.SeededAt)
		doc.SeededAt = &seeded
	}
	return doc
}

func fromDoc(doc *payloadDoc) (*model.Payload, error) {
	p := &model.Payload{
		Clients: make([]model.Client, 0, len(doc.Clients)),
		Orders:  make([]model.Order, 0, len(doc.Orders)),
	}
	for _, c := range doc.Clients {
		createdAt, err := parseTime("client createdAt", c.CreatedAt)
		if err != nil {
			return nil, err
		}
		p.Clients = append(p.Clients, model.Client{
			ID:         c.ID,
			Name:       c.Name,
			Note:       c.Note,
			CreatedAt:  createdAt,
			IsArchived: c.IsArchived,
		})
	}
	for _, o := range doc.Orders {
		if !o.Status.IsValid() {
			return nil, fmt.Errorf("order %s has unknown status %q", o.ID, o.Status)
		}
		date, err := parseTime("order date", o.Date)
		if err != nil {
			return nil, err
		}
		createdAt, err := parseTime("order createdAt", o.CreatedAt)
		if err != nil {
			return nil, err
		}
		p.Orders = append(p.Orders, model.Order{
			ID:              o.ID,
			ClientID:        o.ClientID,
			ServiceName:     o.ServiceName,
			ServiceIcon:     o.ServiceIcon,
			ServiceColorHex: o.ServiceColorHex,
			Price:           o.Price,
			Date:            date,
			Note:            o.Note,
			Status:          o.Status,
			CreatedAt:       createdAt,
		})
	}
	if doc.SeededAt != nil {
		seeded, err := parseTime("seededAt", *doc.SeededAt)
		if err != nil {
			return nil, err
		}
		p.SeededAt = &seeded
	}
	return p, nil
}
