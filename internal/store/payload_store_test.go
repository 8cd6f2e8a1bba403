package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amterp/gig/internal/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func setupTestPayloadStore(t *testing.T) (*FilePayloadStore, string) {
	t.Helper()
	dir := t.TempDir()
	return NewPayloadStore(filepath.Join(dir, "gig.json")), dir
}

func samplePayload() *model.Payload {
	created := time.Date(2026, 3, 1, 8, 30, 15, 123456789, time.UTC)
	seeded := created
	return &model.Payload{
		Clients: []model.Client{
			{ID: "cl_a", Name: "Anna", Note: "vip", CreatedAt: created},
			{ID: "cl_b", Name: "Bob", CreatedAt: created, IsArchived: true},
		},
		Orders: []model.Order{
			{
				ID:              "or_1",
				ClientID:        "cl_a",
				ServiceName:     "Repair",
				ServiceIcon:     "hammer",
				ServiceColorHex: "#ef4444",
				Price:           120.5,
				Date:            time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
				Note:            "bring tools",
				Status:          model.StatusInProgress,
				CreatedAt:       created,
			},
		},
		SeededAt: &seeded,
	}
}

func assertPayloadsEqual(t *testing.T, want, got *model.Payload) {
	t.Helper()
	if len(got.Clients) != len(want.Clients) || len(got.Orders) != len(want.Orders) {
		t.Fatalf("size mismatch: got %d clients/%d orders, want %d/%d",
			len(got.Clients), len(got.Orders), len(want.Clients), len(want.Orders))
	}
	for i, w := range want.Clients {
		g := got.Clients[i]
		if g.ID != w.ID || g.Name != w.Name || g.Note != w.Note || g.IsArchived != w.IsArchived {
			t.Errorf("client %d: got %+v, want %+v", i, g, w)
		}
		if !g.CreatedAt.Equal(w.CreatedAt.Truncate(time.Second)) {
			t.Errorf("client %d createdAt: got %v, want %v", i, g.CreatedAt, w.CreatedAt)
		}
	}
	for i, w := range want.Orders {
		g := got.Orders[i]
		if g.ID != w.ID || g.ClientID != w.ClientID || g.ServiceName != w.ServiceName ||
			g.ServiceIcon != w.ServiceIcon || g.ServiceColorHex != w.ServiceColorHex ||
			g.Price != w.Price || g.Note != w.Note || g.Status != w.Status {
			t.Errorf("order %d: got %+v, want %+v", i, g, w)
		}
		if !g.Date.Equal(w.Date.Truncate(time.Second)) {
			t.Errorf("order %d date: got %v, want %v", i, g.Date, w.Date)
		}
		if !g.CreatedAt.Equal(w.CreatedAt.Truncate(time.Second)) {
			t.Errorf("order %d createdAt: got %v, want %v", i, g.CreatedAt, w.CreatedAt)
		}
	}
	if (want.SeededAt == nil) != (got.SeededAt == nil) {
		t.Fatalf("seededAt presence mismatch: got %v, want %v", got.SeededAt, want.SeededAt)
	}
	if want.SeededAt != nil && !got.SeededAt.Equal(want.SeededAt.Truncate(time.Second)) {
		t.Errorf("seededAt: got %v, want %v", got.SeededAt, want.SeededAt)
	}
}

func TestFilePayloadStore_SaveAndLoad(t *testing.T) {
	store, _ := setupTestPayloadStore(t)
	payload := samplePayload()

	if err := store.Save(payload); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertPayloadsEqual(t, payload, loaded)
}

func TestFilePayloadStore_SaveLeavesNoTempFiles(t *testing.T) {
	store, dir := setupTestPayloadStore(t)

	for i := 0; i < 3; i++ {
		if err := store.Save(samplePayload()); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "gig.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only gig.json, found %v", names)
	}
}

func TestFilePayloadStore_SaveCreatesPrivateFile(t *testing.T) {
	dir := t.TempDir()
	store := NewPayloadStore(filepath.Join(dir, "nested", "gig.json"))

	if err := store.Save(samplePayload()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected file mode 0600, got %o", perm)
	}
}

func TestFilePayloadStore_SaveFailureReturnsError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := NewPayloadStore(filepath.Join(blocker, "gig.json"))
	if err := store.Save(samplePayload()); err == nil {
		t.Error("expected error when parent is a file")
	}
}

func TestFilePayloadStore_LoadMissingSeeds(t *testing.T) {
	store, _ := setupTestPayloadStore(t)

	first, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(first.Clients) != 3 || len(first.Orders) != 3 {
		t.Fatalf("expected 3 clients and 3 orders, got %d/%d", len(first.Clients), len(first.Orders))
	}
	if first.SeededAt == nil {
		t.Error("expected seededAt to be set")
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("expected seed to be saved: %v", err)
	}

	// A second load reads the saved seed instead of seeding again.
	second, err := NewPayloadStore(store.Path()).Load()
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	assertPayloadsEqual(t, first, second)
}

func TestFilePayloadStore_LoadCorruptFileQuarantinesAndSeeds(t *testing.T) {
	store, dir := setupTestPayloadStore(t)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	payload, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(payload.Clients) != 3 {
		t.Errorf("expected seeded clients, got %d", len(payload.Clients))
	}

	backups, _ := filepath.Glob(filepath.Join(dir, "gig.json.corrupt-*"))
	if len(backups) != 1 {
		t.Fatalf("expected one quarantined file, got %v", backups)
	}
	data, _ := os.ReadFile(backups[0])
	if string(data) != "{not json" {
		t.Errorf("quarantined content changed: %q", data)
	}
}

func TestFilePayloadStore_ReadExistingDoesNotSeed(t *testing.T) {
	store, _ := setupTestPayloadStore(t)

	if _, err := store.ReadExisting(); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("ReadExisting should not create the data file")
	}
}

func TestFilePayloadStore_ReadIfChanged(t *testing.T) {
	store, dir := setupTestPayloadStore(t)
	if err := store.Save(samplePayload()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	payload, changed, err := store.ReadIfChanged()
	if err != nil || changed || payload != nil {
		t.Fatalf("own save should read as unchanged, got changed=%v payload=%v err=%v", changed, payload, err)
	}

	edited := samplePayload()
	edited.Clients[0].Name = "Anna Edited"
	data, err := EncodePayload(edited)
	if err != nil {
		t.Fatalf("EncodePayload failed: %v", err)
	}
	if err := os.WriteFile(store.Path(), data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	payload, changed, err = store.ReadIfChanged()
	if err != nil || !changed {
		t.Fatalf("expected external edit to be reported, got changed=%v err=%v", changed, err)
	}
	if payload.Clients[0].Name != "Anna Edited" {
		t.Errorf("expected edited name, got %q", payload.Clients[0].Name)
	}
	if _, changed, _ := store.ReadIfChanged(); changed {
		t.Error("adopted content should read as unchanged the second time")
	}

	if err := os.WriteFile(store.Path(), []byte(`{"clients": [`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, _, err := store.ReadIfChanged(); err == nil {
		t.Error("expected parse error for truncated file")
	}
	backups, _ := filepath.Glob(filepath.Join(dir, "gig.json.corrupt-*"))
	if len(backups) != 0 {
		t.Errorf("ReadIfChanged should not quarantine, found %v", backups)
	}
	raw, _ := os.ReadFile(store.Path())
	if string(raw) != `{"clients": [` {
		t.Errorf("ReadIfChanged should not rewrite the file, got %q", raw)
	}
}

func TestFilePayloadStore_Clear(t *testing.T) {
	store, _ := setupTestPayloadStore(t)

	if err := store.Clear(); err != nil {
		t.Errorf("Clear on missing file should succeed: %v", err)
	}
	if err := store.Save(samplePayload()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("expected data file to be removed")
	}
}

func TestSeedPayload(t *testing.T) {
	now := time.Date(2026, 5, 10, 13, 45, 30, 999, time.Local)
	payload := SeedPayload(now)

	statuses := map[model.OrderStatus]bool{}
	clientIDs := map[string]bool{}
	for _, c := range payload.Clients {
		clientIDs[c.ID] = true
	}
	for _, o := range payload.Orders {
		statuses[o.Status] = true
		if !clientIDs[o.ClientID] {
			t.Errorf("order %s references unknown client %s", o.ID, o.ClientID)
		}
		if err := o.Validate(); err != nil {
			t.Errorf("seed order invalid: %v", err)
		}
	}
	for _, s := range []model.OrderStatus{model.StatusNew, model.StatusInProgress, model.StatusDone} {
		if !statuses[s] {
			t.Errorf("expected a seed order with status %s", s)
		}
	}
	if payload.SeededAt == nil || payload.SeededAt.Nanosecond() != 0 {
		t.Errorf("expected seededAt truncated to seconds, got %v", payload.SeededAt)
	}
	if !strings.HasPrefix(payload.Clients[0].Name, "Anna") {
		t.Errorf("expected first seed client to be Anna, got %q", payload.Clients[0].Name)
	}
}

func TestEncodePayload_Shape(t *testing.T) {
	payload := samplePayload()
	payload.SeededAt = nil

	data, err := EncodePayload(payload)
	if err != nil {
		t.Fatalf("EncodePayload failed: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`"createdAt": "2026-03-01T08:30:15Z"`,
		`"date": "2026-03-02T10:00:00Z"`,
		`"seededAt": null`,
		`"isArchived": true`,
		`"status": "inProgress"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s\n%s", want, out)
		}
	}

	// Keys within an order object are sorted.
	keys := []string{`"clientId"`, `"createdAt"`, `"date"`, `"id"`, `"note"`, `"price"`,
		`"serviceColorHex"`, `"serviceIcon"`, `"serviceName"`, `"status"`}
	orderStart := strings.Index(out, `"orders"`)
	last := orderStart
	for _, k := range keys {
		idx := strings.Index(out[orderStart:], k) + orderStart
		if idx < last {
			t.Errorf("key %s out of order", k)
		}
		last = idx
	}

	// Empty notes are omitted.
	if strings.Count(out, `"note"`) != 2 {
		t.Errorf("expected two note keys, got %d", strings.Count(out, `"note"`))
	}
}

func TestDecodePayload_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"clients": [`},
		{"bad date", `{"clients":[{"id":"c","name":"A","createdAt":"yesterday","isArchived":false}],"orders":[],"seededAt":null}`},
		{"unknown status", `{"clients":[],"orders":[{"id":"o","clientId":"c","serviceName":"S","serviceIcon":"i","serviceColorHex":"#fff","price":1,"date":"2026-01-01T00:00:00Z","createdAt":"2026-01-01T00:00:00Z","status":"paused"}],"seededAt":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePayload([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDecodePayload_AcceptsFractionalSeconds(t *testing.T) {
	data := `{"clients":[{"id":"c","name":"A","createdAt":"2026-01-01T10:00:00.5+02:00","isArchived":false}],"orders":[],"seededAt":null}`
	payload, err := DecodePayload([]byte(data))
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	want := time.Date(2026, 1, 1, 8, 0, 0, 500000000, time.UTC)
	if !payload.Clients[0].CreatedAt.Equal(want) {
		t.Errorf("got %v, want %v", payload.Clients[0].CreatedAt, want)
	}
}

func TestPayloadCodec_RoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("encode then decode preserves orders", prop.ForAll(
		func(name string, note string, price float64, offsetSecs int64) bool {
			date := time.Unix(1767225600+offsetSecs, 0).UTC()
			payload := &model.Payload{
				Clients: []model.Client{{ID: "cl_x", Name: name, CreatedAt: date}},
				Orders: []model.Order{{
					ID: "or_x", ClientID: "cl_x", ServiceName: name, ServiceIcon: "star",
					ServiceColorHex: "#000000", Price: price, Date: date, Note: note,
					Status: model.StatusDone, CreatedAt: date,
				}},
			}
			data, err := EncodePayload(payload)
			if err != nil {
				return false
			}
			got, err := DecodePayload(data)
			if err != nil || len(got.Orders) != 1 {
				return false
			}
			o := got.Orders[0]
			return o.ServiceName == name && o.Note == note && o.Price == price &&
				o.Date.Equal(date) && got.Clients[0].Name == name && got.SeededAt == nil
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Float64Range(0.01, 100000),
		gen.Int64Range(0, 10*365*24*3600),
	))

	properties.TestingRun(t)
}
