package validation

import (
	"fmt"
	"time"
)

// ISOMillis is the ISO-8601 layout with millisecond precision.
const ISOMillis = "2006-01-02T15:04:05.000Z07:00"

// ParseFlexibleDate tries to parse a date string using multiple common formats.
// ISO-8601 forms are tried first.
func ParseFlexibleDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05", // ISO without zone, read as UTC
		time.DateOnly,         // YYYY-MM-DD
		"01/02/2006",          // MM/DD/YYYY (4-digit year)
		"01/02/06",            // MM/DD/YY (2-digit year)
		"01-02-2006",          // MM-DD-YYYY
		"2006/01/02",          // YYYY/MM/DD
		"02/01/2006",          // DD/MM/YYYY (European)
		"02-01-2006",          // DD-MM-YYYY
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
