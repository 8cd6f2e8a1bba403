package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/service"
	"github.com/amterp/gig/internal/util"
	"github.com/goccy/go-json"
)

// Handler contains all HTTP handlers for the API.
//
// The server is single-user and local: every request works on the same
// DataStore, which serializes access with its own lock.
type Handler struct {
	store      *service.DataStore
	periodDays int
	now        func() time.Time
}

// NewHandler creates a new handler. periodDays is the default stats window.
func NewHandler(store *service.DataStore, periodDays int) *Handler {
	return &Handler{store: store, periodDays: periodDays, now: time.Now}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/board", h.GetBoard)

	// Client routes
	mux.HandleFunc("GET /api/v1/clients", h.ListClients)
	mux.HandleFunc("POST /api/v1/clients", h.CreateClient)
	mux.HandleFunc("PUT /api/v1/clients/{id}", h.UpdateClient)
	mux.HandleFunc("DELETE /api/v1/clients/{id}", h.DeleteClient)

	// Order routes
	mux.HandleFunc("GET /api/v1/orders", h.ListOrders)
	mux.HandleFunc("POST /api/v1/orders", h.CreateOrder)
	mux.HandleFunc("PATCH /api/v1/orders/{id}", h.UpdateOrder)
	mux.HandleFunc("DELETE /api/v1/orders/{id}", h.DeleteOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/advance", h.AdvanceOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/duplicate", h.DuplicateOrder)
	mux.HandleFunc("PATCH /api/v1/orders/{id}/move", h.MoveOrder)

	mux.HandleFunc("GET /api/v1/stats", h.GetStats)
	mux.HandleFunc("GET /api/v1/templates", h.ListTemplates)
}

// decode reads a JSON body into target. An empty body leaves target untouched.
func decode(r *http.Request, target any) error {
	err := json.NewDecoder(r.Body).Decode(target)
	if err == io.EOF {
		return nil
	}
	return err
}

// filterFromQuery reads ?q= and ?status=a,b.
func filterFromQuery(r *http.Request) (service.Filter, error) {
	statuses, err := model.ParseStatuses(r.URL.Query().Get("status"))
	if err != nil {
		return service.Filter{}, gigerr.InvalidField("status", err.Error())
	}
	return service.Filter{Query: r.URL.Query().Get("q"), Statuses: statuses}, nil
}

// --- Board ---

// BoardResponse is the JSON response for the board.
type BoardResponse struct {
	StatusOrder []model.OrderStatus `json:"statusOrder"`
	Columns     []service.Column    `json:"columns"`
	Clients     []model.Client      `json:"clients"`
}

// GetBoard returns every workflow column with its orders.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, BoardResponse{
		StatusOrder: h.store.StatusOrder(),
		Columns:     h.store.BoardMatching(filter),
		Clients:     h.store.Clients(),
	})
}

// --- Clients ---

// ClientRequest is the JSON body for creating or updating a client.
type ClientRequest struct {
	Name       string `json:"name"`
	Note       string `json:"note,omitempty"`
	IsArchived bool   `json:"isArchived,omitempty"`
}

// ListClients returns active clients, or all with ?archived=true.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients := h.store.ActiveClients()
	if r.URL.Query().Get("archived") == "true" {
		clients = h.store.Clients()
	}
	JSON(w, http.StatusOK, map[string]any{"clients": clients})
}

// CreateClient adds a client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	client, err := h.store.AddClient(req.Name, req.Note)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, client)
}

// UpdateClient replaces a client's name, note and archived flag.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("id")
	var req ClientRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if err := h.store.UpdateClient(clientID, req.Name, req.Note, req.IsArchived); err != nil {
		Error(w, err)
		return
	}
	client, err := h.store.Client(clientID)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, client)
}

// DeleteClient removes a client and its orders.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteClient(r.PathValue("id")); err != nil {
		Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Orders ---

// CreateOrderRequest is the JSON body for creating an order. When Template
// is set, its values fill the service fields and price unless given.
type CreateOrderRequest struct {
	ClientID        string   `json:"clientId"`
	Template        string   `json:"template,omitempty"`
	ServiceName     string   `json:"serviceName,omitempty"`
	ServiceIcon     string   `json:"serviceIcon,omitempty"`
	ServiceColorHex string   `json:"serviceColorHex,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	Date            string   `json:"date,omitempty"`
	Note            string   `json:"note,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// UpdateOrderRequest is the JSON body for patching an order.
// Omitted fields are left unchanged.
type UpdateOrderRequest struct {
	Status *string  `json:"status,omitempty"`
	Price  *float64 `json:"price,omitempty"`
	Date   *string  `json:"date,omitempty"`
	Note   *string  `json:"note,omitempty"`
}

// ListOrders returns orders sorted by date, optionally filtered by
// ?client=, ?q= and ?status=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		Error(w, err)
		return
	}
	clientID := r.URL.Query().Get("client")

	orders := []model.Order{}
	for _, o := range h.store.OrdersMatching(filter) {
		if clientID == "" || o.ClientID == clientID {
			orders = append(orders, o)
		}
	}
	service.SortOrders(orders)
	JSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// CreateOrder adds an order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	date, err := h.parseOptionalDate(req.Date)
	if err != nil {
		Error(w, err)
		return
	}

	status, err := parseOptionalStatus(req.Status)
	if err != nil {
		Error(w, err)
		return
	}

	var input service.OrderInput
	if req.Template != "" {
		tmpl, ok := model.FindTemplate(req.Template)
		if !ok {
			Error(w, gigerr.TemplateNotFound(req.Template))
			return
		}
		input = service.TemplateOrderInput(req.ClientID, tmpl, req.Price, date, req.Note)
	} else {
		input = service.OrderInput{
			ClientID:        req.ClientID,
			ServiceName:     req.ServiceName,
			ServiceIcon:     req.ServiceIcon,
			ServiceColorHex: req.ServiceColorHex,
			Date:            date,
			Note:            req.Note,
		}
		if req.Price != nil {
			input.Price = *req.Price
		}
	}
	input.Status = status

	order, err := h.store.AddOrder(input)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, order)
}

// UpdateOrder applies a partial patch to an order.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	var req UpdateOrderRequest
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	patch := service.OrderPatch{Price: req.Price, Note: req.Note}
	if req.Status != nil {
		status, err := model.ParseStatus(*req.Status)
		if err != nil {
			Error(w, gigerr.InvalidField("status", err.Error()))
			return
		}
		patch.Status = &status
	}
	if req.Date != nil {
		date, err := util.ParseDate(*req.Date, h.now())
		if err != nil {
			Error(w, gigerr.InvalidField("date", err.Error()))
			return
		}
		patch.Date = &date
	}

	if err := h.store.UpdateOrder(orderID, patch); err != nil {
		Error(w, err)
		return
	}
	h.writeOrder(w, http.StatusOK, orderID)
}

// DeleteOrder removes an order.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteOrder(r.PathValue("id")); err != nil {
		Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdvanceOrder moves an order to the next status in the status order.
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if err := h.store.CycleStatusForward(orderID); err != nil {
		Error(w, err)
		return
	}
	h.writeOrder(w, http.StatusOK, orderID)
}

// DuplicateOrder copies an order onto a new date (default: now).
func (h *Handler) DuplicateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	date, err := h.parseOptionalDate(req.Date)
	if err != nil {
		Error(w, err)
		return
	}
	if date.IsZero() {
		date = h.now()
	}
	dup, err := h.store.DuplicateOrder(r.PathValue("id"), date)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, dup)
}

// MoveOrder sets an order's status directly.
func (h *Handler) MoveOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	var req struct {
		Status string `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	status, err := model.ParseStatus(req.Status)
	if err != nil {
		Error(w, gigerr.InvalidField("status", err.Error()))
		return
	}
	if err := h.store.Move(orderID, status); err != nil {
		Error(w, err)
		return
	}
	h.writeOrder(w, http.StatusOK, orderID)
}

func (h *Handler) writeOrder(w http.ResponseWriter, status int, orderID string) {
	order, err := h.store.Order(orderID)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, status, order)
}

func (h *Handler) parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	date, err := util.ParseDate(s, h.now())
	if err != nil {
		return time.Time{}, gigerr.InvalidField("date", err.Error())
	}
	return date, nil
}

// parseOptionalStatus parses s, allowing blank to mean the default status.
func parseOptionalStatus(s string) (model.OrderStatus, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	status, err := model.ParseStatus(s)
	if err != nil {
		return "", gigerr.InvalidField("status", err.Error())
	}
	return status, nil
}

// --- Stats and templates ---

// StatsResponse is the JSON response for analytics.
type StatsResponse struct {
	PeriodDays       int                    `json:"periodDays"`
	Currency         string                 `json:"currency"`
	Totals           service.Totals         `json:"totals"`
	RevenueFormatted string                 `json:"revenueFormatted"`
	AvgFormatted     string                 `json:"avgFormatted"`
	Breakdown        []service.ServiceTotal `json:"breakdown"`
}

// GetStats returns totals and the per-service breakdown for ?days=N.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	days := h.periodDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			BadRequest(w, "days must be a positive integer")
			return
		}
		days = parsed
	}

	totals := h.store.Totals(days)
	JSON(w, http.StatusOK, StatsResponse{
		PeriodDays:       days,
		Currency:         h.store.Currency(),
		Totals:           totals,
		RevenueFormatted: h.store.FormatCurrency(totals.Revenue),
		AvgFormatted:     h.store.FormatCurrency(totals.Avg),
		Breakdown:        h.store.ServiceBreakdown(days),
	})
}

// ListTemplates returns the built-in service templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"templates": model.DefaultTemplates()})
}
