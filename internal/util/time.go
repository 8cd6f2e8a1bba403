package util

import (
	"time"

	"github.com/dustin/go-humanize"
)

const (
	// DateLayout is the day format accepted on the command line.
	DateLayout = "2006-01-02"
	// DateTimeLayout is the date+time format accepted on the command line.
	DateTimeLayout = "2006-01-02 15:04"
)

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysAgo returns t shifted back by the given number of days.
func DaysAgo(t time.Time, days int) time.Time {
	return t.Add(-time.Duration(days) * 24 * time.Hour)
}

// ParseDate parses "today", "tomorrow", "yesterday", RFC 3339, or
// YYYY-MM-DD [HH:MM] in now's timezone. Bare dates resolve to 09:00.
func ParseDate(s string, now time.Time) (time.Time, error) {
	switch s {
	case "", "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateTimeLayout, s, now.Location()); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(9 * time.Hour), nil
}

// FormatTime formats a time in a human-readable way.
func FormatTime(t time.Time) string {
	return t.Local().Format(DateTimeLayout)
}

// FormatRelative formats a time relative to now, e.g. "3 days ago".
func FormatRelative(t time.Time) string {
	return humanize.Time(t)
}
