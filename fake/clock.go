// Package fake
// Author: momentics <momentics@gmail.com>

package fake

import (
	"sync/atomic"
	"time"
)

// Clock is a manually advanced nanosecond clock.
type Clock struct {
	now atomic.Int64
}

// NewClock starts at start nanoseconds.
func NewClock(start int64) *Clock {
	c := &Clock{}
	c.now.Store(start)
	return c
}

// Nanos satisfies api.NanoClock when passed as a method value.
func (c *Clock) Nanos() int64 { return c.now.Load() }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.now.Add(int64(d)) }

// Set jumps to an absolute time.
func (c *Clock) Set(ns int64) { c.now.Store(ns) }
