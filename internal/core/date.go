package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ISODateLayout is the storage format of Expense.Date.
	ISODateLayout = "2006-01-02"
	// DisplayDateLayout is the day/month/year format used for grouping and reports.
	DisplayDateLayout = "02/01/2006"
)

// ParseISODate parses a stored expense date as midnight UTC.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(ISODateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a stored YYYY-MM-DD date as DD/MM/YYYY.
// Values that do not parse are returned unchanged.
func FormatDate(iso string) string {
	t, err := ParseISODate(iso)
	if err != nil {
		return iso
	}
	return t.Format(DisplayDateLayout)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// startOfWeek returns the Sunday that opens t's week.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func endOfWeek(t time.Time) time.Time {
	return endOfDay(startOfWeek(t).AddDate(0, 0, 6))
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func endOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
