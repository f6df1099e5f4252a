package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a wall clock for tests. Every call to Now returns
// the start time plus one more step, so stored timestamps are stable.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	n     int64
}

// NewDeterministicClock starts at 2024-01-01T00:00:00Z with one-second
// steps. The first call to Now returns the start time.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)
}

// NewDeterministicClockAt starts at start with the given step.
func NewDeterministicClockAt(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{start: start, step: step}
}

// Now returns the next timestamp.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Calls returns how many times Now was called.
func (c *DeterministicClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Reset rewinds the clock to its start.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
