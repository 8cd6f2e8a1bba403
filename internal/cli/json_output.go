package cli

import (
	"fmt"
	"time"

	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/service"
	"github.com/goccy/go-json"
)

// clientJson represents a client for JSON output.
//
// SYNC WARNING: This struct must stay in sync with model.Client fields.
// If you add fields to model.Client, add them here too. See TestClientJsonFieldSync.
type clientJson struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	IsArchived bool      `json:"is_archived"`
	OrderCount int       `json:"order_count"`
}

func clientToJson(c model.Client, orderCount int) clientJson {
	return clientJson{
		ID:         c.ID,
		Name:       c.Name,
		Note:       c.Note,
		CreatedAt:  c.CreatedAt,
		IsArchived: c.IsArchived,
		OrderCount: orderCount,
	}
}

// orderJson represents an order for JSON output, with the client name resolved.
//
// SYNC WARNING: This struct must stay in sync with model.Order fields.
// See TestOrderJsonFieldSync.
type orderJson struct {
	ID              string            `json:"id"`
	ClientID        string            `json:"client_id"`
	ClientName      string            `json:"client_name"`
	ServiceName     string            `json:"service_name"`
	ServiceIcon     string            `json:"service_icon"`
	ServiceColorHex string            `json:"service_color_hex"`
	Price           float64           `json:"price"`
	Date            time.Time         `json:"date"`
	Note            string            `json:"note,omitempty"`
	Status          model.OrderStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

func orderToJson(o model.Order, clientName string) orderJson {
	return orderJson{
		ID:              o.ID,
		ClientID:        o.ClientID,
		ClientName:      clientName,
		ServiceName:     o.ServiceName,
		ServiceIcon:     o.ServiceIcon,
		ServiceColorHex: o.ServiceColorHex,
		Price:           o.Price,
		Date:            o.Date,
		Note:            o.Note,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
	}
}

func ordersToJson(orders []model.Order, names func(string) string) []orderJson {
	result := make([]orderJson, 0, len(orders))
	for _, o := range orders {
		result = append(result, orderToJson(o, names(o.ClientID)))
	}
	return result
}

// ClientOutput wraps a single client for JSON output.
type ClientOutput struct {
	Client clientJson `json:"client"`
}

// ClientsOutput wraps a list of clients for JSON output.
type ClientsOutput struct {
	Clients []clientJson `json:"clients"`
}

// NewClientsOutput creates a ClientsOutput.
// Always returns an empty array (not null) when there are no clients.
func NewClientsOutput(clients []model.Client, orderCounts map[string]int) ClientsOutput {
	result := make([]clientJson, 0, len(clients))
	for _, c := range clients {
		result = append(result, clientToJson(c, orderCounts[c.ID]))
	}
	return ClientsOutput{Clients: result}
}

// OrderOutput wraps a single order for JSON output.
type OrderOutput struct {
	Order orderJson `json:"order"`
}

// NewOrderOutput creates an OrderOutput.
func NewOrderOutput(order model.Order, clientName string) OrderOutput {
	return OrderOutput{Order: orderToJson(order, clientName)}
}

// OrdersOutput wraps a list of orders for JSON output.
type OrdersOutput struct {
	Orders []orderJson `json:"orders"`
}

// NewOrdersOutput creates an OrdersOutput.
// Always returns an empty array (not null) when there are no orders.
func NewOrdersOutput(orders []model.Order, names func(string) string) OrdersOutput {
	return OrdersOutput{Orders: ordersToJson(orders, names)}
}

// columnJson is one board column for JSON output.
type columnJson struct {
	Status model.OrderStatus `json:"status"`
	Label  string            `json:"label"`
	Orders []orderJson       `json:"orders"`
}

// BoardOutput wraps the board for JSON output.
type BoardOutput struct {
	Query    string       `json:"query,omitempty"`
	Statuses []string     `json:"statuses,omitempty"`
	Columns  []columnJson `json:"columns"`
}

// NewBoardOutput creates a BoardOutput from board columns.
func NewBoardOutput(columns []service.Column, filter service.Filter, names func(string) string) BoardOutput {
	out := BoardOutput{Query: filter.Query, Columns: make([]columnJson, 0, len(columns))}
	for _, s := range filter.Statuses {
		out.Statuses = append(out.Statuses, string(s))
	}
	for _, col := range columns {
		out.Columns = append(out.Columns, columnJson{
			Status: col.Status,
			Label:  col.Status.Label(),
			Orders: ordersToJson(col.Orders, names),
		})
	}
	return out
}

// StatsOutput wraps analytics for JSON output.
type StatsOutput struct {
	PeriodDays int                    `json:"period_days"`
	Currency   string                 `json:"currency"`
	Count      int                    `json:"count"`
	Revenue    float64                `json:"revenue"`
	Avg        float64                `json:"avg"`
	Breakdown  []service.ServiceTotal `json:"breakdown"`
}

// NewStatsOutput creates a StatsOutput.
// Always returns an empty breakdown array (not null).
func NewStatsOutput(days int, currency string, totals service.Totals, breakdown []service.ServiceTotal) StatsOutput {
	if breakdown == nil {
		breakdown = []service.ServiceTotal{}
	}
	return StatsOutput{
		PeriodDays: days,
		Currency:   currency,
		Count:      totals.Count,
		Revenue:    totals.Revenue,
		Avg:        totals.Avg,
		Breakdown:  breakdown,
	}
}

// StatusOrderOutput wraps the status order for JSON output.
type StatusOrderOutput struct {
	StatusOrder []string `json:"status_order"`
}

// TemplatesOutput wraps the template catalog for JSON output.
type TemplatesOutput struct {
	Templates []model.ServiceTemplate `json:"templates"`
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// warnJsonNotSupported prints a warning to stderr when --json is used on an unsupported command.
func warnJsonNotSupported(command string) {
	PrintWarning("--json is not supported for '%s' (flag ignored)", command)
}
