package parser

import (
	"time"

	"github.com/rtn-cli/rtn/internal/apperr"
)

// ParseInstant parses a fully-qualified RFC 3339 date-time string.
// The string must carry an explicit UTC offset or the "Z" designator:
// an instant without a zone is not a point in time, and every stored
// timestamp must replay to the same derived state later.
//
// Accepted: "2026-01-31T09:00:00+09:00", "2026-01-31T00:00:00Z"
// Rejected: "2026-01-31T09:00:00" (no offset), "2026-01-31 09:00:00"
func ParseInstant(input string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return time.Time{}, apperr.New(apperr.CodeInvalidTime,
			"invalid instant %q: want RFC 3339 with explicit offset, e.g. 2026-01-31T09:00:00+09:00", input)
	}
	return t, nil
}

// ParseCalendarDate parses a plain yyyy-mm-dd string and rejects
// calendrically impossible dates (e.g. 2026-04-31). The returned time is
// midnight UTC of that date; callers anchor it in a timezone themselves.
func ParseCalendarDate(input string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", input)
	if err != nil {
		return time.Time{}, apperr.New(apperr.CodeInvalidTime,
			"invalid date %q: want yyyy-mm-dd, e.g. 2026-01-31", input)
	}
	return t, nil
}

// SecondsBetween returns b minus a in whole seconds, truncated toward zero
func SecondsBetween(a, b time.Time) int64 {
	return int64(b.Sub(a) / time.Second)
}

// IsBefore reports whether a is strictly before b
func IsBefore(a, b time.Time) bool {
	return a.Before(b)
}

// IsAfter reports whether a is strictly after b
func IsAfter(a, b time.Time) bool {
	return a.After(b)
}
