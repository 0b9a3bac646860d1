package utils

import (
	"fmt"
	"regexp"
	"time"
)

const DateLayout = "2006-01-02"

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ParseDate reads a calendar date (YYYY-MM-DD) at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// TruncateDate drops the clock part, keeping the calendar day in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TripDays counts calendar days from start to end, both inclusive.
func TripDays(start, end time.Time) int {
	s, e := TruncateDate(start), TruncateDate(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// IsClock reports whether s is an HH:MM wall-clock time.
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ClockMinutes converts HH:MM to minutes after midnight; -1 when not a clock.
func ClockMinutes(s string) int {
	if !IsClock(s) {
		return -1
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return -1
	}
	return h*60 + m
}
