package datanorm

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTimestamp parses a submission timestamp in any of the layouts the
// sheet export produces. A zone offset, when present, is dropped and the
// wall-clock fields kept. ok is false when the value does not parse.
func ParseTimestamp(raw string) (t time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}, false
	}
	return naive(parsed), true
}

func naive(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

// sameDay reports whether the naive timestamp falls on now's calendar date
// as read in now's own location. No zone conversion is applied to ts.
func sameDay(ts time.Time, now time.Time) bool {
	y1, m1, d1 := ts.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
