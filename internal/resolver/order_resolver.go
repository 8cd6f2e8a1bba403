package resolver

import (
	"fmt"
	"strings"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/amterp/gig/internal/id"
	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/prompt"
	"github.com/amterp/gig/internal/util"
)

// OrderSource lists orders and the clients they belong to.
// service.DataStore satisfies it.
type OrderSource interface {
	ClientSource
	Orders() []model.Order
}

// OrderResolver turns user input into an order.
type OrderResolver struct {
	source   OrderSource
	prompter prompt.Prompter
}

// NewOrderResolver creates a new order resolver.
func NewOrderResolver(source OrderSource, prompter prompt.Prompter) *OrderResolver {
	return &OrderResolver{source: source, prompter: prompter}
}

// Resolve finds an order by full ID or unique ID prefix. The "or_" prefix
// may be omitted. An empty query prompts when interactive.
func (r *OrderResolver) Resolve(query string, interactive bool) (model.Order, error) {
	query = strings.TrimSpace(query)
	orders := r.source.Orders()

	if query == "" {
		if len(orders) == 0 {
			return model.Order{}, fmt.Errorf("no orders yet; add one with 'gig order add'")
		}
		if !interactive {
			return model.Order{}, gigerr.InvalidField("order", "required in non-interactive mode")
		}
		return r.choose("Select order", orders)
	}

	full := query
	if !strings.HasPrefix(full, string(id.Order)+"_") {
		full = string(id.Order) + "_" + full
	}

	var matches []model.Order
	for _, o := range orders {
		if o.ID == query || o.ID == full {
			return o, nil
		}
		if strings.HasPrefix(o.ID, full) {
			matches = append(matches, o)
		}
	}

	switch {
	case len(matches) == 1:
		return matches[0], nil
	case len(matches) > 1:
		if !interactive {
			return model.Order{}, gigerr.AmbiguousMatch("order", query, len(matches))
		}
		return r.choose(fmt.Sprintf("Several orders match %q", query), matches)
	}
	return model.Order{}, gigerr.OrderNotFound(query)
}

func (r *OrderResolver) choose(title string, orders []model.Order) (model.Order, error) {
	names := make(map[string]string)
	for _, c := range r.source.Clients() {
		names[c.ID] = c.Name
	}

	options := make([]prompt.Option, len(orders))
	for i, o := range orders {
		options[i] = prompt.Option{Label: OrderLabel(o, names[o.ClientID]), Value: o.ID}
	}
	chosen, err := r.prompter.Select(title, options)
	if err != nil {
		return model.Order{}, err
	}
	for _, o := range orders {
		if o.ID == chosen {
			return o, nil
		}
	}
	return model.Order{}, gigerr.OrderNotFound(chosen)
}

// OrderLabel renders an order for selection lists.
func OrderLabel(o model.Order, clientName string) string {
	if clientName == "" {
		clientName = "unknown client"
	}
	return fmt.Sprintf("%s  %s for %s [%s] (%s)",
		util.FormatTime(o.Date), o.ServiceName, clientName, o.Status.Label(), o.ID)
}
