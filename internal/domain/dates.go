package domain

import (
	"fmt"
	"time"
)

// DateLayout is the storage and wire format of civil dates.
const DateLayout = "2006-01-02"

// DateOf drops the time of day from t, keeping the calendar date as seen in
// t's own location. The result is midnight UTC so that date arithmetic is
// never affected by DST transitions.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a civil date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// DaysBetween returns the whole number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// AddDays shifts a civil date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// FormatDate renders a civil date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
