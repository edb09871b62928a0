package clock

import "time"

// Clock provides time-related functionality that can be mocked for testing.
type Clock interface {
	// Now returns the current time
	Now() time.Time
}

// Real implements Clock using real system time.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed implements Clock with a fixed time for testing.
type Fixed struct {
	fixedTime time.Time
}

// NewFixed creates a new Fixed clock with the given time.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{fixedTime: t}
}

// Now returns the fixed time.
func (f *Fixed) Now() time.Time {
	return f.fixedTime
}

// SetTime updates the fixed time (useful for testing time progression).
func (f *Fixed) SetTime(t time.Time) {
	f.fixedTime = t
}

// Advance adds a duration to the current fixed time.
func (f *Fixed) Advance(d time.Duration) {
	f.fixedTime = f.fixedTime.Add(d)
}
