package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 5, 20, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"today", now},
		{"", now},
		{"tomorrow", now.AddDate(0, 0, 1)},
		{"yesterday", now.AddDate(0, 0, -1)},
		{"2026-06-01", time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)},
		{"2026-06-01 16:45", time.Date(2026, 6, 1, 16, 45, 0, 0, time.UTC)},
		{"2026-06-01T08:15:00+02:00", time.Date(2026, 6, 1, 6, 15, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, now)
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseDate("next week", now); err == nil {
		t.Error("Expected error for unsupported date")
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 5, 20, 14, 30, 12, 99, time.UTC)
	want := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	if got := StartOfDay(in); !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

func TestDaysAgo(t *testing.T) {
	now := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	if got := DaysAgo(now, 30); !got.Equal(now.Add(-720 * time.Hour)) {
		t.Errorf("DaysAgo(30) = %v", got)
	}
}
