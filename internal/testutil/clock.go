package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first instant returned by a new DeterministicClock:
// 2025-01-04 14:13:20 UTC, or Unix millisecond 1736000000000.
var DefaultEpoch = time.UnixMilli(1736000000000).UTC()

// DeterministicClock is a thread-safe wall clock for tests.
//
// Each call to Now returns the current instant and then advances it by Step,
// so records stamped from it get distinct, increasing ids.
type DeterministicClock struct {
	mu    sync.Mutex
	now   time.Time
	start time.Time
	Step  time.Duration
}

// NewDeterministicClock creates a clock starting at start (DefaultEpoch if
// zero) that advances one millisecond per call.
func NewDeterministicClock(start time.Time) *DeterministicClock {
	if start.IsZero() {
		start = DefaultEpoch
	}
	return &DeterministicClock{now: start, start: start, Step: time.Millisecond}
}

// Now returns the current instant and advances the clock by Step.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.Step)
	return t
}

// Peek returns the current instant without advancing.
func (c *DeterministicClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *DeterministicClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Reset returns the clock to its starting instant.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
