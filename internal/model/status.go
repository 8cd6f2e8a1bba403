package model

import (
	"fmt"
	"strings"
)

// OrderStatus is the workflow state of an order.
// No status is terminal; an order may move between any two statuses.
type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusInProgress OrderStatus = "inProgress"
	StatusDone       OrderStatus = "done"
	StatusCanceled   OrderStatus = "canceled"
)

// AllStatuses returns the four canonical statuses in their default order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusNew, StatusInProgress, StatusDone, StatusCanceled}
}

// IsValid returns true if s is one of the canonical statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// Label returns a human-readable name for the status.
func (s OrderStatus) Label() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	case StatusCanceled:
		return "Canceled"
	}
	return string(s)
}

// Color returns the board column color for the status.
func (s OrderStatus) Color() string {
	switch s {
	case StatusNew:
		return "#3b82f6"
	case StatusInProgress:
		return "#f59e0b"
	case StatusDone:
		return "#10b981"
	case StatusCanceled:
		return "#6b7280"
	}
	return ""
}

// ParseStatus parses a status token. Matching is case-insensitive and accepts
// the common spellings users type on the command line.
func ParseStatus(s string) (OrderStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "new":
		return StatusNew, nil
	case "inprogress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	case "canceled", "cancelled":
		return StatusCanceled, nil
	}
	return "", fmt.Errorf("unknown status %q (expected one of: new, inProgress, done, canceled)", s)
}

// ParseStatuses parses a comma-separated list of statuses.
func ParseStatuses(s string) ([]OrderStatus, error) {
	var result []OrderStatus
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		status, err := ParseStatus(part)
		if err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, nil
}

// StatusOrder is the ordered sequence of statuses used for board columns and
// for the cyclic "advance" transition. It must always be a permutation of the
// four canonical statuses.
type StatusOrder []OrderStatus

// DefaultStatusOrder returns new → inProgress → done → canceled.
func DefaultStatusOrder() StatusOrder {
	return StatusOrder(AllStatuses())
}

// Validate checks that the order is a permutation of the canonical statuses.
func (o StatusOrder) Validate() error {
	if len(o) != len(AllStatuses()) {
		return fmt.Errorf("status order must contain exactly %d statuses, got %d", len(AllStatuses()), len(o))
	}
	seen := make(map[OrderStatus]bool, len(o))
	for _, s := range o {
		if !s.IsValid() {
			return fmt.Errorf("status order contains unknown status %q", s)
		}
		if seen[s] {
			return fmt.Errorf("status order contains %q more than once", s)
		}
		seen[s] = true
	}
	return nil
}

// Index returns the position of s, or -1 if absent.
func (o StatusOrder) Index(s OrderStatus) int {
	for i, candidate := range o {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Next returns the status after s, wrapping from the last entry to the first.
// Returns false if s is not in the order.
func (o StatusOrder) Next(s OrderStatus) (OrderStatus, bool) {
	idx := o.Index(s)
	if idx < 0 {
		return "", false
	}
	return o[(idx+1)%len(o)], true
}

// Move returns a copy with the status at index from relocated to index to.
// Out-of-range indexes return an unchanged copy.
func (o StatusOrder) Move(from, to int) StatusOrder {
	result := o.Clone()
	if from < 0 || from >= len(result) || to < 0 || to >= len(result) || from == to {
		return result
	}
	moved := result[from]
	result = append(result[:from], result[from+1:]...)
	result = append(result[:to], append(StatusOrder{moved}, result[to:]...)...)
	return result
}

// Clone returns an independent copy.
func (o StatusOrder) Clone() StatusOrder {
	return append(StatusOrder{}, o...)
}

// Strings returns the status tokens, for config files.
func (o StatusOrder) Strings() []string {
	result := make([]string, len(o))
	for i, s := range o {
		result[i] = string(s)
	}
	return result
}
