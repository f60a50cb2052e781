package testutil

import (
	"sync"
	"time"
)

// FixedClock is a thread-safe manual clock for tests.
//
// Unlike time.Now, FixedClock only moves when told to, so snapshot
// timestamps are reproducible across runs and golden file comparison is
// exact.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at the given instant.
func NewFixedClock(start time.Time) *FixedClock {
	return &FixedClock{now: start.UTC()}
}

// Now returns the current instant without advancing.
// Pass this method as the engine's clock: engine.WithNow(clock.Now).
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
