// FILE: timestamp.go
// Package timestamp – Nanosecond-since-epoch value type shared across the
// backtesting core.
//
// Timestamp is a plain int64 alias with SQL-style parsing: it accepts
// "YYYY-MM-DD HH:MM:SS" and "YYYY-MM-DD" (midnight UTC) and rejects anything
// else with ErrInvalidFormat. Ordering is just integer ordering, which is
// what every subsystem (tick store pruning, replay queue, equity curve)
// relies on.
package timestamp

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFormat is returned by Parse when a string matches neither the
// "YYYY-MM-DD HH:MM:SS" nor "YYYY-MM-DD" layout.
var ErrInvalidFormat = errors.New("timestamp: invalid format")

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDateOnly = "2006-01-02"
)

// Timestamp is nanoseconds since the Unix epoch, UTC, with total order.
type Timestamp int64

// Zero reports whether ts is the zero timestamp (epoch).
func (ts Timestamp) Zero() bool { return ts == 0 }

// Before reports whether ts occurs strictly before other.
func (ts Timestamp) Before(other Timestamp) bool { return ts < other }

// After reports whether ts occurs strictly after other.
func (ts Timestamp) After(other Timestamp) bool { return ts > other }

// Time converts ts to a UTC time.Time for formatting/interop.
func (ts Timestamp) Time() time.Time {
	return time.Unix(0, int64(ts)).UTC()
}

// Format renders ts as "YYYY-MM-DD HH:MM:SS" in UTC.
func (ts Timestamp) Format() string {
	return ts.Time().Format(layoutDateTime)
}

// String implements fmt.Stringer.
func (ts Timestamp) String() string { return ts.Format() }

// FromTime converts a time.Time to a Timestamp, truncating to nanosecond
// precision.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

// Parse accepts "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD" (midnight UTC) and
// fails with ErrInvalidFormat otherwise.
func Parse(s string) (Timestamp, error) {
	if t, err := time.Parse(layoutDateTime, s); err == nil {
		return FromTime(t.UTC()), nil
	}
	if t, err := time.Parse(layoutDateOnly, s); err == nil {
		return FromTime(t.UTC()), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// MustParse is Parse but panics on error; useful in tests and literals.
func MustParse(s string) Timestamp {
	ts, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ts
}
