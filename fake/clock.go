// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the core interfaces.

package fake

import (
	"sync"

	"github.com/momentics/pacekit/api"
)

// Clock is a manually driven api.Clock for deterministic timing tests.
// Time only moves when the test calls Advance or when a pacer sleeps:
// SleepUntil never blocks, it steps the virtual time forward to the
// deadline and counts the call.
type Clock struct {
	mu     sync.Mutex
	id     api.ClockID
	now    api.Stamp
	sleeps int
}

// NewClock returns a fake monotonic clock starting at zero.
func NewClock() *Clock {
	return &Clock{id: api.ClockMonotonic}
}

func (c *Clock) Domain() api.ClockID { return c.id }

func (c *Clock) Now() api.Stamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the virtual time forward by ns nanoseconds, simulating
// work performed by the caller.
func (c *Clock) Advance(ns int64) {
	c.mu.Lock()
	c.now = c.now.Add(ns)
	c.mu.Unlock()
}

func (c *Clock) SleepUntil(t api.Stamp) {
	c.mu.Lock()
	c.sleeps++
	if c.now.Before(t) {
		c.now = t
	}
	c.mu.Unlock()
}

// Sleeps returns how many times SleepUntil was called, regardless of
// whether the deadline was in the future.
func (c *Clock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}
