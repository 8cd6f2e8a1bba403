package model

import "time"

// Payload is the unit of persistence: a full snapshot of the dataset.
type Payload struct {
	Clients  []Client   `json:"clients"`
	Orders   []Order    `json:"orders"`
	SeededAt *time.Time `json:"seededAt"`
}

// Clone returns a deep copy of the payload.
func (p *Payload) Clone() *Payload {
	if p == nil {
		return &Payload{Clients: []Client{}, Orders: []Order{}}
	}
	clone := &Payload{
		Clients: append(make([]Client, 0, len(p.Clients)), p.Clients...),
		Orders:  append(make([]Order, 0, len(p.Orders)), p.Orders...),
	}
	if p.SeededAt != nil {
		seeded := *p.SeededAt
		clone.SeededAt = &seeded
	}
	return clone
}
