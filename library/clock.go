package library

import (
	"time"
)

// Clock is the time source for creation timestamps, loan dates, and overdue calculations.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time in UTC, truncated to the precision the storage keeps.
func (SystemClock) Now() time.Time {
	return Normalize(time.Now())
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return Normalize(f())
}

// Normalize converts t to UTC with microsecond precision.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
