package testutil

import (
	"sync"
	"time"
)

// Epoch is the starting time of a ManualClock created with NewManualClock.
// It is non-zero so the first accepted save has a real timestamp.
var Epoch = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

// ManualClock is a clock that only moves when the test says so.
//
// It satisfies history.Clock. Throttle behavior becomes a pure function of
// the Advance calls a test makes, so scenarios replay identically.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock set to Epoch.
func NewManualClock() *ManualClock {
	return &ManualClock{now: Epoch}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
// Negative durations are ignored; the clock never runs backwards.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return c.now
}

// Set jumps the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Reset returns the clock to Epoch. Used for test reuse.
func (c *ManualClock) Reset() {
	c.Set(Epoch)
}
