package service

import (
	"strings"
	"testing"
	"time"

	"github.com/amterp/gig/internal/model"
	"github.com/amterp/gig/testutil"
)

func TestDataStore_Totals(t *testing.T) {
	now := testutil.FixedNow
	payload := &model.Payload{
		Clients: []model.Client{testutil.TestClient("cl_a", "A")},
		Orders: []model.Order{
			testutil.TestOrder("or_1", "cl_a", model.StatusDone, 30, now),
			testutil.TestOrder("or_2", "cl_a", model.StatusDone, 70, now.AddDate(0, 0, -40)),
			testutil.TestOrder("or_3", "cl_a", model.StatusNew, 50, now),
		},
	}
	s, _ := NewDataStore(payload, nil, WithClock(testutil.Clock(now)))

	got := s.Totals(30)
	want := Totals{Count: 1, Revenue: 30, Avg: 30}
	if got != want {
		t.Errorf("Totals(30) = %+v, want %+v", got, want)
	}

	got = s.Totals(60)
	want = Totals{Count: 2, Revenue: 100, Avg: 50}
	if got != want {
		t.Errorf("Totals(60) = %+v, want %+v", got, want)
	}
}

func TestDataStore_TotalsWindowBounds(t *testing.T) {
	now := testutil.FixedNow
	payload := &model.Payload{
		Clients: []model.Client{testutil.TestClient("cl_a", "A")},
		Orders: []model.Order{
			testutil.TestOrder("or_edge", "cl_a", model.StatusDone, 10, now.Add(-7*24*time.Hour)),
			testutil.TestOrder("or_before", "cl_a", model.StatusDone, 20, now.Add(-7*24*time.Hour-time.Second)),
			testutil.TestOrder("or_future", "cl_a", model.StatusDone, 40, now.Add(time.Second)),
		},
	}
	s, _ := NewDataStore(payload, nil, WithClock(testutil.Clock(now)))

	got := s.Totals(7)
	if got.Count != 1 || got.Revenue != 10 {
		t.Errorf("expected only the order on the lower bound, got %+v", got)
	}
}

func TestDataStore_TotalsEmpty(t *testing.T) {
	s, _ := NewDataStore(nil, nil)
	if got := s.Totals(30); got != (Totals{}) {
		t.Errorf("expected zero totals, got %+v", got)
	}
}

func TestDataStore_ServiceBreakdown(t *testing.T) {
	now := testutil.FixedNow
	order := func(id, service string, price float64, status model.OrderStatus) model.Order {
		o := testutil.TestOrder(id, "cl_a", status, price, now.Add(-time.Hour))
		o.ServiceName = service
		return o
	}
	payload := &model.Payload{
		Clients: []model.Client{testutil.TestClient("cl_a", "A")},
		Orders: []model.Order{
			order("or_1", "Repair", 120, model.StatusDone),
			order("or_2", "Consultation", 50, model.StatusDone),
			order("or_3", "Consultation", 70, model.StatusDone),
			order("or_4", "Follow-up", 200, model.StatusNew),
			order("or_5", "Audit", 120, model.StatusDone),
		},
	}
	s, _ := NewDataStore(payload, nil, WithClock(testutil.Clock(now)))

	got := s.ServiceBreakdown(30)
	want := []ServiceTotal{
		{Name: "Audit", Total: 120},
		{Name: "Consultation", Total: 120},
		{Name: "Repair", Total: 120},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDataStore_FormatCurrency(t *testing.T) {
	s, _ := NewDataStore(nil, nil)

	out := s.FormatCurrency(30)
	if !strings.Contains(out, "$") || !strings.Contains(out, "30") {
		t.Errorf("unexpected USD format %q", out)
	}

	if err := s.SetCurrency("eur"); err != nil {
		t.Fatalf("SetCurrency failed: %v", err)
	}
	if s.Currency() != "EUR" {
		t.Errorf("expected EUR, got %s", s.Currency())
	}
	if out := s.FormatCurrency(12.5); !strings.Contains(out, "€") {
		t.Errorf("unexpected EUR format %q", out)
	}

	if err := s.SetCurrency("NOPE"); err == nil {
		t.Error("expected error for unknown currency")
	}
	if s.Currency() != "EUR" {
		t.Error("currency should be unchanged after a rejected code")
	}
}
