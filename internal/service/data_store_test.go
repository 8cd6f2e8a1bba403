package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gigerr "github.com/amterp/gig/internal/errors"
	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/internal/store"
	"github.com/amterp/gig/testutil"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newTestStore(t *testing.T) (*DataStore, *testutil.MemoryPersister) {
	t.Helper()
	persister := &testutil.MemoryPersister{}
	s, err := NewDataStore(testutil.TestPayload(), persister, WithClock(testutil.Clock(testutil.FixedNow)))
	if err != nil {
		t.Fatalf("NewDataStore failed: %v", err)
	}
	return s, persister
}

func recordEvents(s *DataStore) *[]ChangeEvent {
	var events []ChangeEvent
	s.Subscribe(func(e ChangeEvent) {
		events = append(events, e)
	})
	return &events
}

func orderIDs(orders []model.Order) []string {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewDataStore_RejectsBadOptions(t *testing.T) {
	if _, err := NewDataStore(nil, nil, WithCurrency("NOPE")); err == nil {
		t.Error("expected error for unknown currency")
	}
	bad := model.StatusOrder{model.StatusNew, model.StatusNew, model.StatusDone, model.StatusCanceled}
	if _, err := NewDataStore(nil, nil, WithStatusOrder(bad)); err == nil {
		t.Error("expected error for invalid status order")
	}
}

func TestDataStore_NilPayloadIsEmpty(t *testing.T) {
	s, err := NewDataStore(nil, nil)
	if err != nil {
		t.Fatalf("NewDataStore failed: %v", err)
	}
	if len(s.Clients()) != 0 || len(s.Orders()) != 0 {
		t.Error("expected empty dataset")
	}
	if err := s.Persist(); err == nil {
		t.Error("expected Persist to fail without a persister")
	}
}

func TestDataStore_AddClient(t *testing.T) {
	s, persister := newTestStore(t)
	events := recordEvents(s)

	client, err := s.AddClient("  Carol King  ", " likes tea ")
	if err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}
	if client.Name != "Carol King" || client.Note != "likes tea" {
		t.Errorf("expected trimmed fields, got %+v", client)
	}
	if !client.CreatedAt.Equal(testutil.FixedNow) {
		t.Errorf("expected createdAt from clock, got %v", client.CreatedAt)
	}
	if got, err := s.Client(client.ID); err != nil || got.Name != "Carol King" {
		t.Errorf("Client(%s) = %+v, %v", client.ID, got, err)
	}
	if persister.SaveCount() != 1 {
		t.Errorf("expected one save, got %d", persister.SaveCount())
	}
	if len(*events) != 1 || (*events)[0].Kind != ChangeClientAdded || !(*events)[0].Persisted {
		t.Errorf("unexpected events: %+v", *events)
	}
}

func TestDataStore_AddClientRejectsEmptyName(t *testing.T) {
	s, persister := newTestStore(t)
	events := recordEvents(s)

	_, err := s.AddClient("   ", "note")
	if !gigerr.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(s.Clients()) != 2 {
		t.Error("state should be untouched")
	}
	if persister.SaveCount() != 0 || len(*events) != 0 {
		t.Error("rejected input should not persist or emit")
	}
}

func TestDataStore_ClientsSortedByName(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.AddClient("aaron", ""); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}

	clients := s.Clients()
	names := []string{clients[0].Name, clients[1].Name, clients[2].Name}
	want := []string{"aaron", "Anna Petrova", "Bob Stone"}
	if !equalIDs(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestDataStore_UpdateClient(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.UpdateClient("cl_anna", "Anna P.", "new note", true); err != nil {
		t.Fatalf("UpdateClient failed: %v", err)
	}
	client, _ := s.Client("cl_anna")
	if client.Name != "Anna P." || client.Note != "new note" || !client.IsArchived {
		t.Errorf("unexpected client %+v", client)
	}
	if len(s.ActiveClients()) != 1 {
		t.Errorf("expected archived client hidden from active list")
	}

	err := s.UpdateClient("cl_missing", "X", "", false)
	if !gigerr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := s.UpdateClient("cl_anna", " ", "", false); !gigerr.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDataStore_DeleteClientCascades(t *testing.T) {
	s, _ := newTestStore(t)
	events := recordEvents(s)

	if err := s.DeleteClient("cl_anna"); err != nil {
		t.Fatalf("DeleteClient failed: %v", err)
	}
	for _, o := range s.Orders() {
		if o.ClientID == "cl_anna" {
			t.Errorf("order %s still references deleted client", o.ID)
		}
	}
	if len(s.Orders()) != 2 {
		t.Errorf("expected bob's 2 orders to remain, got %d", len(s.Orders()))
	}
	if (*events)[0].Kind != ChangeClientDeleted || (*events)[0].EntityID != "cl_anna" {
		t.Errorf("unexpected event %+v", (*events)[0])
	}
	if err := s.DeleteClient("cl_anna"); !gigerr.IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestDataStore_DeleteClientCascadeProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("no order references a deleted client", prop.ForAll(
		func(owners []int, victim int) bool {
			clientIDs := []string{"cl_0", "cl_1", "cl_2", "cl_3"}
			payload := &model.Payload{}
			for _, cid := range clientIDs {
				payload.Clients = append(payload.Clients, testutil.TestClient(cid, cid))
			}
			for i, owner := range owners {
				payload.Orders = append(payload.Orders, testutil.TestOrder(
					"or_"+string(rune('a'+i%26))+clientIDs[owner], clientIDs[owner],
					model.StatusNew, 10, testutil.FixedNow))
			}
			s, err := NewDataStore(payload, nil)
			if err != nil {
				return false
			}
			if err := s.DeleteClient(clientIDs[victim]); err != nil {
				return false
			}
			for _, o := range s.Orders() {
				if o.ClientID == clientIDs[victim] {
					return false
				}
			}
			expected := 0
			for _, owner := range owners {
				if owner != victim {
					expected++
				}
			}
			return len(s.Orders()) == expected
		},
		gen.SliceOf(gen.IntRange(0, 3)),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}

func TestDataStore_AddOrder(t *testing.T) {
	s, _ := newTestStore(t)

	order, err := s.AddOrder(OrderInput{
		ClientID:    "cl_bob",
		ServiceName: " Window cleaning ",
		Price:       45,
	})
	if err != nil {
		t.Fatalf("AddOrder failed: %v", err)
	}
	if order.Status != model.StatusNew {
		t.Errorf("expected default status new, got %s", order.Status)
	}
	if order.ServiceName != "Window cleaning" {
		t.Errorf("expected trimmed service name, got %q", order.ServiceName)
	}
	if order.ServiceIcon != model.DefaultServiceIcon || order.ServiceColorHex == "" {
		t.Errorf("expected default icon and a color, got %q %q", order.ServiceIcon, order.ServiceColorHex)
	}
	if !order.Date.Equal(testutil.FixedNow) {
		t.Errorf("expected date to default to now, got %v", order.Date)
	}

	// Same service name reuses its color.
	again, err := s.AddOrder(OrderInput{ClientID: "cl_anna", ServiceName: "window cleaning", Price: 45})
	if err != nil {
		t.Fatalf("AddOrder failed: %v", err)
	}
	if again.ServiceColorHex != order.ServiceColorHex {
		t.Errorf("expected reused color %s, got %s", order.ServiceColorHex, again.ServiceColorHex)
	}
}

func TestDataStore_AddOrderValidation(t *testing.T) {
	tests := []struct {
		name     string
		input    OrderInput
		notFound bool
	}{
		{"unknown client", OrderInput{ClientID: "cl_missing", ServiceName: "S", Price: 10}, true},
		{"empty service", OrderInput{ClientID: "cl_anna", ServiceName: "  ", Price: 10}, false},
		{"zero price", OrderInput{ClientID: "cl_anna", ServiceName: "S", Price: 0}, false},
		{"negative price", OrderInput{ClientID: "cl_anna", ServiceName: "S", Price: -5}, false},
		{"bad status", OrderInput{ClientID: "cl_anna", ServiceName: "S", Price: 5, Status: "paused"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, persister := newTestStore(t)
			_, err := s.AddOrder(tt.input)
			if tt.notFound && !gigerr.IsNotFound(err) {
				t.Errorf("expected not found, got %v", err)
			}
			if !tt.notFound && !gigerr.IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
			if len(s.Orders()) != 4 || persister.SaveCount() != 0 {
				t.Error("state should be untouched")
			}
		})
	}
}

func TestDataStore_AddOrderFromTemplate(t *testing.T) {
	s, _ := newTestStore(t)
	tmpl, _ := model.FindTemplate("premium")
	date := testutil.FixedNow.Add(24 * time.Hour)

	order, err := s.AddOrderFromTemplate("cl_anna", tmpl, nil, date, "")
	if err != nil {
		t.Fatalf("AddOrderFromTemplate failed: %v", err)
	}
	if order.Price != tmpl.BasePrice || order.ServiceName != tmpl.Name ||
		order.ServiceIcon != tmpl.Icon || order.ServiceColorHex != tmpl.ColorHex {
		t.Errorf("expected template values, got %+v", order)
	}
	if !order.Date.Equal(date) {
		t.Errorf("expected date %v, got %v", date, order.Date)
	}

	override := 175.0
	order, err = s.AddOrderFromTemplate("cl_anna", tmpl, &override, date, "rush")
	if err != nil {
		t.Fatalf("AddOrderFromTemplate failed: %v", err)
	}
	if order.Price != 175 || order.Note != "rush" {
		t.Errorf("expected override price and note, got %+v", order)
	}
}

func TestDataStore_UpdateOrderPartialPatch(t *testing.T) {
	s, _ := newTestStore(t)
	before, _ := s.Order("or_1")

	price := 99.0
	if err := s.UpdateOrder("or_1", OrderPatch{Price: &price}); err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}

	after, _ := s.Order("or_1")
	if after.Price != 99 {
		t.Errorf("expected price 99, got %v", after.Price)
	}
	if after.Status != before.Status || !after.Date.Equal(before.Date) || after.Note != before.Note {
		t.Errorf("unpatched fields changed: before %+v after %+v", before, after)
	}

	note := "call first"
	date := testutil.FixedNow.Add(72 * time.Hour)
	status := model.StatusDone
	if err := s.UpdateOrder("or_1", OrderPatch{Note: &note, Date: &date, Status: &status}); err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	after, _ = s.Order("or_1")
	if after.Note != note || !after.Date.Equal(date) || after.Status != status || after.Price != 99 {
		t.Errorf("unexpected order %+v", after)
	}
}

func TestDataStore_UpdateOrderErrors(t *testing.T) {
	s, _ := newTestStore(t)

	zero := 0.0
	if err := s.UpdateOrder("or_1", OrderPatch{Price: &zero}); !gigerr.IsValidationError(err) {
		t.Errorf("expected validation error for zero price, got %v", err)
	}
	bad := model.OrderStatus("paused")
	if err := s.UpdateOrder("or_1", OrderPatch{Status: &bad}); !gigerr.IsValidationError(err) {
		t.Errorf("expected validation error for bad status, got %v", err)
	}
	if err := s.UpdateOrder("or_missing", OrderPatch{}); !gigerr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if o, _ := s.Order("or_1"); o.Price != 50 {
		t.Errorf("price should be unchanged, got %v", o.Price)
	}
}

func TestDataStore_DeleteOrder(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.DeleteOrder("or_2"); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if _, err := s.Order("or_2"); !gigerr.IsNotFound(err) {
		t.Errorf("expected deleted order to be gone, got %v", err)
	}
	if err := s.DeleteOrder("or_2"); !gigerr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDataStore_DuplicateOrder(t *testing.T) {
	later := testutil.FixedNow.Add(time.Hour)
	s, err := NewDataStore(testutil.TestPayload(), nil, WithClock(testutil.Clock(later)))
	if err != nil {
		t.Fatalf("NewDataStore failed: %v", err)
	}
	original, _ := s.Order("or_3")
	newDate := testutil.FixedNow.AddDate(0, 0, 7)

	dup, err := s.DuplicateOrder("or_3", newDate)
	if err != nil {
		t.Fatalf("DuplicateOrder failed: %v", err)
	}
	if dup.ID == original.ID || dup.ID == "" {
		t.Errorf("expected fresh ID, got %q", dup.ID)
	}
	if !dup.CreatedAt.Equal(later) || !dup.Date.Equal(newDate) {
		t.Errorf("expected createdAt %v and date %v, got %+v", later, newDate, dup)
	}
	if dup.ClientID != original.ClientID || dup.ServiceName != original.ServiceName ||
		dup.Price != original.Price || dup.Status != original.Status || dup.Note != original.Note {
		t.Errorf("expected copied fields, got %+v from %+v", dup, original)
	}
	if len(s.Orders()) != 5 {
		t.Errorf("expected 5 orders, got %d", len(s.Orders()))
	}
}

func TestDataStore_CycleStatusForward(t *testing.T) {
	tests := []struct {
		from model.OrderStatus
		want model.OrderStatus
	}{
		{model.StatusNew, model.StatusInProgress},
		{model.StatusInProgress, model.StatusDone},
		{model.StatusDone, model.StatusCanceled},
		{model.StatusCanceled, model.StatusNew},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			s, _ := newTestStore(t)
			if err := s.Move("or_1", tt.from); err != nil {
				t.Fatalf("Move failed: %v", err)
			}
			if err := s.CycleStatusForward("or_1"); err != nil {
				t.Fatalf("CycleStatusForward failed: %v", err)
			}
			if o, _ := s.Order("or_1"); o.Status != tt.want {
				t.Errorf("got %s, want %s", o.Status, tt.want)
			}
		})
	}
}

func TestDataStore_CycleStatusForwardFourTimesIsIdentity(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("four advances return the original status", prop.ForAll(
		func(start int) bool {
			s, err := NewDataStore(testutil.TestPayload(), nil)
			if err != nil {
				return false
			}
			status := model.AllStatuses()[start]
			if err := s.Move("or_1", status); err != nil {
				return false
			}
			for i := 0; i < 4; i++ {
				if err := s.CycleStatusForward("or_1"); err != nil {
					return false
				}
			}
			o, _ := s.Order("or_1")
			return o.Status == status
		},
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}

func TestDataStore_CycleStatusForwardFollowsCustomOrder(t *testing.T) {
	order := model.StatusOrder{model.StatusDone, model.StatusNew, model.StatusCanceled, model.StatusInProgress}
	s, err := NewDataStore(testutil.TestPayload(), nil, WithStatusOrder(order))
	if err != nil {
		t.Fatalf("NewDataStore failed: %v", err)
	}
	if err := s.CycleStatusForward("or_1"); err != nil {
		t.Fatalf("CycleStatusForward failed: %v", err)
	}
	if o, _ := s.Order("or_1"); o.Status != model.StatusCanceled {
		t.Errorf("expected canceled after new, got %s", o.Status)
	}
}

func TestDataStore_CycleStatusForwardUnknownStatusIsNoop(t *testing.T) {
	payload := testutil.TestPayload()
	payload.Orders[0].Status = "paused"
	s, err := NewDataStore(payload, nil)
	if err != nil {
		t.Fatalf("NewDataStore failed: %v", err)
	}
	events := recordEvents(s)

	if err := s.CycleStatusForward("or_1"); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if o, _ := s.Order("or_1"); o.Status != "paused" {
		t.Errorf("expected status unchanged, got %s", o.Status)
	}
	if len(*events) != 0 {
		t.Errorf("expected no events, got %+v", *events)
	}
	if err := s.CycleStatusForward("or_missing"); !gigerr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDataStore_PersistFailureKeepsMutation(t *testing.T) {
	s, persister := newTestStore(t)
	persister.FailAll = true
	events := recordEvents(s)

	client, err := s.AddClient("Dora", "")
	if err != nil {
		t.Fatalf("AddClient should not surface persist errors: %v", err)
	}
	if _, err := s.Client(client.ID); err != nil {
		t.Error("mutation should stand after a failed save")
	}
	if len(*events) != 1 || (*events)[0].Persisted {
		t.Errorf("expected one unpersisted event, got %+v", *events)
	}
	if !s.Dirty() || s.LastPersistError() == nil {
		t.Error("expected dirty state with a recorded error")
	}

	persister.FailAll = false
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if s.Dirty() || s.LastPersistError() != nil {
		t.Error("expected clean state after successful persist")
	}
	if len(persister.Saved.Clients) != 3 {
		t.Errorf("expected saved payload to include new client")
	}
}

func TestDataStore_AutoPersistDisabled(t *testing.T) {
	s, persister := newTestStore(t)
	s.SetAutoPersist(false)

	if err := s.DeleteOrder("or_1"); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if persister.SaveCount() != 0 {
		t.Errorf("expected no saves, got %d", persister.SaveCount())
	}
	if !s.Dirty() {
		t.Error("expected dirty state")
	}
}

func TestDataStore_Subscribe(t *testing.T) {
	s, _ := newTestStore(t)
	count := 0
	unsubscribe := s.Subscribe(func(ChangeEvent) { count++ })

	s.DeleteOrder("or_1")
	unsubscribe()
	s.DeleteOrder("or_2")

	if count != 1 {
		t.Errorf("expected 1 event before unsubscribe, got %d", count)
	}
}

func TestDataStore_ReplaceAllAndReload(t *testing.T) {
	s, persister := newTestStore(t)
	events := recordEvents(s)

	replacement := &model.Payload{
		Clients: []model.Client{testutil.TestClient("cl_x", "Xena")},
		Orders:  []model.Order{},
	}
	if err := s.ReplaceAll(replacement); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if len(s.Clients()) != 1 || len(persister.Saved.Clients) != 1 {
		t.Error("expected replaced and persisted dataset")
	}

	invalid := &model.Payload{Clients: []model.Client{{ID: "cl_y"}}}
	if err := s.ReplaceAll(invalid); !gigerr.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	persister.Saved = testutil.TestPayload()
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(s.Clients()) != 2 {
		t.Errorf("expected reloaded dataset, got %d clients", len(s.Clients()))
	}
	last := (*events)[len(*events)-1]
	if last.Kind != ChangeDatasetReplaced {
		t.Errorf("expected dataset_replaced event, got %s", last.Kind)
	}
}

func TestDataStore_ReplaceAllRejectsBrokenReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.Payload)
		check  func(error) bool
	}{
		{
			name: "order with unknown client",
			mutate: func(p *model.Payload) {
				p.Orders = append(p.Orders, testutil.TestOrder("or_ghost", "cl_ghost", model.StatusNew, 10, testutil.FixedNow))
			},
			check: gigerr.IsValidationError,
		},
		{
			name: "duplicate order id",
			mutate: func(p *model.Payload) {
				p.Orders = append(p.Orders, p.Orders[0])
			},
			check: gigerr.IsAlreadyExists,
		},
		{
			name: "duplicate client id",
			mutate: func(p *model.Payload) {
				p.Clients = append(p.Clients, testutil.TestClient("cl_anna", "Another Anna"))
			},
			check: gigerr.IsAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, persister := newTestStore(t)
			events := recordEvents(s)
			payload := testutil.TestPayload()
			tt.mutate(payload)

			if err := s.ReplaceAll(payload); !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(s.Clients()) != 2 || len(s.Orders()) != 4 {
				t.Errorf("dataset changed: %d clients, %d orders", len(s.Clients()), len(s.Orders()))
			}
			if persister.SaveCount() != 0 || len(*events) != 0 {
				t.Error("rejected dataset should not be persisted or announced")
			}
		})
	}
}

func newFileBackedStore(t *testing.T) (*DataStore, *store.FilePayloadStore) {
	t.Helper()
	payloads := store.NewPayloadStore(filepath.Join(t.TempDir(), "gig.json")).
		WithClock(testutil.Clock(testutil.FixedNow))
	s, err := NewDataStore(testutil.TestPayload(), payloads, WithClock(testutil.Clock(testutil.FixedNow)))
	if err != nil {
		t.Fatalf("NewDataStore failed: %v", err)
	}
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	return s, payloads
}

func TestDataStore_ReloadKeepsMemoryOnCorruptFile(t *testing.T) {
	s, payloads := newFileBackedStore(t)
	events := recordEvents(s)

	if err := os.WriteFile(payloads.Path(), []byte(`{"clients": [`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := s.Reload(); err == nil {
		t.Fatal("expected reload of a truncated file to fail")
	}

	if _, err := s.Client("cl_anna"); err != nil {
		t.Errorf("in-memory dataset should survive a bad reload: %v", err)
	}
	if len(s.Orders()) != 4 || len(*events) != 0 {
		t.Errorf("expected untouched dataset and no events, got %d orders, %d events", len(s.Orders()), len(*events))
	}
	raw, _ := os.ReadFile(payloads.Path())
	if string(raw) != `{"clients": [` {
		t.Errorf("reload should not rewrite the file, got %q", raw)
	}
	backups, _ := filepath.Glob(payloads.Path() + ".corrupt-*")
	if len(backups) != 0 {
		t.Errorf("reload should not move the file aside, found %v", backups)
	}
}

func TestDataStore_ReloadSkipsOwnSaves(t *testing.T) {
	s, payloads := newFileBackedStore(t)
	if _, err := s.AddClient("Carla", ""); err != nil {
		t.Fatalf("AddClient failed: %v", err)
	}
	events := recordEvents(s)

	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(*events) != 0 {
		t.Errorf("own save should not trigger a reload, got %+v", *events)
	}

	edited := s.Payload()
	edited.Clients[0].Name = "Edited Elsewhere"
	data, err := store.EncodePayload(edited)
	if err != nil {
		t.Fatalf("EncodePayload failed: %v", err)
	}
	if err := os.WriteFile(payloads.Path(), data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(*events) != 1 || (*events)[0].Kind != ChangeDatasetReplaced {
		t.Errorf("expected one dataset_replaced event, got %+v", *events)
	}
	if c, _ := s.Client(edited.Clients[0].ID); c.Name != "Edited Elsewhere" {
		t.Errorf("expected external edit to be adopted, got %q", c.Name)
	}
}

func TestDataStore_ReloadRejectsInvalidDataset(t *testing.T) {
	s, persister := newTestStore(t)

	orphaned := testutil.TestPayload()
	orphaned.Orders[0].ClientID = "cl_ghost"
	persister.Saved = orphaned
	if err := s.Reload(); !gigerr.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if o, _ := s.Order("or_1"); o.ClientID != "cl_anna" {
		t.Errorf("expected in-memory order untouched, got client %s", o.ClientID)
	}

	persister.ReadErr = os.ErrNotExist
	if err := s.Reload(); err == nil {
		t.Error("expected read error to be returned")
	}
	if len(s.Clients()) != 2 {
		t.Errorf("expected dataset kept, got %d clients", len(s.Clients()))
	}
}

func TestDataStore_PayloadIsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	snapshot := s.Payload()
	snapshot.Clients[0].Name = "Mutated"
	if c, _ := s.Client(snapshot.Clients[0].ID); c.Name == "Mutated" {
		t.Error("payload snapshot should not alias store state")
	}
}
