package engine

import "sync/atomic"

// Clock is a monotonic sequence used to number dispatcher jobs. Log lines
// of one job share its number, so interleaved submissions stay readable.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the value without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
