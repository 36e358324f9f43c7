package models

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf truncates t to its calendar date in loc, returned as UTC midnight.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last day of a month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// ParseMonth parses YYYY-MM.
func ParseMonth(value string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", value, err)
	}
	return t.Year(), t.Month(), nil
}
