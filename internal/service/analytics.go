package service

import (
	"sort"
	"time"

	"github.com/amterp/gig/internal/model"
)

// Totals summarizes completed orders in a period.
type Totals struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
	Avg     float64 `json:"avg"`
}

// ServiceTotal is the revenue of one service in a period.
type ServiceTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Totals sums done orders dated within the last periodDays days, now included.
func (s *DataStore) Totals(periodDays int) Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var totals Totals
	for _, o := range s.completedInWindowLocked(periodDays) {
		totals.Count++
		totals.Revenue += o.Price
	}
	if totals.Count > 0 {
		totals.Avg = totals.Revenue / float64(totals.Count)
	}
	return totals
}

// ServiceBreakdown groups the same orders as Totals by service name, highest
// total first. Equal totals are ordered by name.
func (s *DataStore) ServiceBreakdown(periodDays int) []ServiceTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byName := make(map[string]float64)
	for _, o := range s.completedInWindowLocked(periodDays) {
		byName[o.ServiceName] += o.Price
	}

	result := make([]ServiceTotal, 0, len(byName))
	for name, total := range byName {
		result = append(result, ServiceTotal{Name: name, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Name < result[j].Name
	})
	return result
}

func (s *DataStore) completedInWindowLocked(periodDays int) []model.Order {
	if periodDays < 0 {
		periodDays = 0
	}
	now := s.now()
	start := now.Add(-time.Duration(periodDays) * 24 * time.Hour)

	var result []model.Order
	for _, o := range s.payload.Orders {
		if o.Status != model.StatusDone {
			continue
		}
		if o.Date.Before(start) || o.Date.After(now) {
			continue
		}
		result = append(result, o)
	}
	return result
}
