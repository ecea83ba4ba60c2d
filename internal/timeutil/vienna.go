package timeutil

import (
	"time"
)

// Vienna is the Central European Time location the application runs in.
// All business dates (Rechnungsdatum, Faelligkeitsdatum, "today" checks)
// are evaluated in this zone.
var Vienna *time.Location

func init() {
	var err error
	Vienna, err = time.LoadLocation("Europe/Vienna")
	if err != nil {
		// Fallback: fixed CET if the tz database is not available
		Vienna = time.FixedZone("CET", 1*60*60)
	}
}

// Now returns the current time in Vienna local time.
func Now() time.Time {
	return time.Now().In(Vienna)
}

// Today returns the current date in Vienna, truncated to midnight.
func Today() time.Time {
	n := Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, Vienna)
}

// ParseDate parses an ISO date (YYYY-MM-DD) in Vienna local time.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, Vienna)
}

// FormatDate formats a time as an ISO date string.
func FormatDate(t time.Time) string {
	return t.In(Vienna).Format("2006-01-02")
}
