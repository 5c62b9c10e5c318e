// Package timectrl supplies the clock the simulated devices read. Services
// run against the wall clock; tests drive a ManualClock.
package timectrl

import (
	"sync"
	"time"
)

// Clock is the time source a device backend depends on.
type Clock interface {
	Now() time.Time
}

// WallClock reads real time, optionally shifted so a device can start at a
// configured epoch (for example the TLE epoch) while still advancing in real
// time.
type WallClock struct {
	offset time.Duration
}

// NewWallClock returns a clock that reads start now and advances with real
// time. A zero start means no shift.
func NewWallClock(start time.Time) *WallClock {
	if start.IsZero() {
		return &WallClock{}
	}
	return &WallClock{offset: time.Until(start)}
}

// Now implements Clock.
func (c *WallClock) Now() time.Time {
	return time.Now().Add(c.offset).UTC()
}

// ManualClock only moves when told to.
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time

	listeners []func(time.Time)
}

// NewManualClock constructs a clock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set jumps the clock to t and notifies listeners.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	listeners := append(([]func(time.Time))(nil), c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(t)
	}
}

// Advance moves the clock forward by d and returns the new time.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	t := c.Now().Add(d)
	c.Set(t)
	return t
}

// AddListener registers a callback invoked after every Set or Advance.
func (c *ManualClock) AddListener(fn func(time.Time)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
