// Package validation holds small helpers for optional values, dates and
// user supplied string lists.
package validation

import "time"

func StringPtr(s string) *string {
	return &s
}

// FormatTime renders t as RFC3339 with millisecond precision in UTC, the
// layout browsers produce for Date.toISOString.
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOMillis)
}
