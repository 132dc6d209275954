package feature

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimestamp is returned when a timestamp matches none of the accepted layouts.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Fractional seconds are accepted after any layout that has seconds.
//
//nolint:gochecknoglobals // read-only table
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses an ISO-8601 style date-time. A stated zone offset is kept,
// so Hour reports the wall clock of the sender; naive values are read as written.
func ParseTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}

// ParseHour returns the 0-23 hour component of a timestamp.
func ParseHour(raw string) (int, error) {
	t, err := ParseTime(raw)
	if err != nil {
		return 0, err
	}
	return t.Hour(), nil
}
