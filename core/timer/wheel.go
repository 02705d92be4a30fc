// File: core/timer/wheel.go
// Package timer
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Wheel is a tick-based hashed timer wheel for deadlines driven by an
// external clock. Timers hash to bucket tick&mask and carry their absolute
// deadline, so a bucket may hold timers for later laps; a sweep fires only
// those whose deadline has passed.
//
// The wheel is not safe for concurrent use. It is owned by one agent
// goroutine and callbacks run synchronously inside ExpireTimers.

package timer

import (
	"sort"
	"time"

	"github.com/momentics/hioload-mediadriver/api"
)

// TimerID identifies a scheduled timer. NullTimer is never issued.
type TimerID uint64

const (
	// NullTimer is returned when no timer was scheduled.
	NullTimer TimerID = 0
	// NoTimers is the delay reported when nothing is scheduled.
	NoTimers int64 = -1
)

type timer struct {
	id       TimerID
	deadline int64
	fn       func()
	bucket   int
	index    int
}

// Wheel holds timers in power-of-two buckets of one tick each.
type Wheel struct {
	clock       api.NanoClock
	tickNs      int64
	mask        int64
	startTime   int64
	currentTick int64
	sweepTick   int64
	buckets     [][]*timer
	timers      map[TimerID]*timer
	nextID      TimerID
	due         []*timer
}

// NewWheel creates a wheel anchored at the clock's current time.
// ticksPerWheel is rounded up to a power of two.
func NewWheel(clock api.NanoClock, tickDuration time.Duration, ticksPerWheel int) *Wheel {
	if tickDuration <= 0 {
		tickDuration = time.Millisecond
	}
	size := 1
	for size < ticksPerWheel {
		size <<= 1
	}
	return &Wheel{
		clock:     clock,
		tickNs:    int64(tickDuration),
		mask:      int64(size - 1),
		startTime: clock(),
		buckets:   make([][]*timer, size),
		timers:    make(map[TimerID]*timer),
	}
}

// Clock returns the clock driving the wheel.
func (w *Wheel) Clock() api.NanoClock {
	return w.clock
}

// Now reads the wheel clock.
func (w *Wheel) Now() int64 {
	return w.clock()
}

// TickDuration returns the duration of one bucket.
func (w *Wheel) TickDuration() time.Duration {
	return time.Duration(w.tickNs)
}

// TicksPerWheel returns the number of buckets.
func (w *Wheel) TicksPerWheel() int {
	return len(w.buckets)
}

// Len returns the number of pending timers.
func (w *Wheel) Len() int {
	return len(w.timers)
}

func (w *Wheel) tickFor(deadline int64) int64 {
	tick := (deadline - w.startTime) / w.tickNs
	floor := w.currentTick
	// timers added by callbacks must land in a bucket the next sweep scans
	if w.sweepTick > floor {
		floor = w.sweepTick
	}
	if tick < floor {
		return floor
	}
	return tick
}

// ScheduleAt registers fn to run once the clock reaches deadline (ns).
// Deadlines already in the past fire on the next sweep.
func (w *Wheel) ScheduleAt(deadline int64, fn func()) TimerID {
	w.nextID++
	t := &timer{
		id:       w.nextID,
		deadline: deadline,
		fn:       fn,
		bucket:   int(w.tickFor(deadline) & w.mask),
	}
	t.index = len(w.buckets[t.bucket])
	w.buckets[t.bucket] = append(w.buckets[t.bucket], t)
	w.timers[t.id] = t
	return t.id
}

// Schedule registers fn to run after delay from now.
func (w *Wheel) Schedule(delay time.Duration, fn func()) TimerID {
	return w.ScheduleAt(w.clock()+int64(delay), fn)
}

// Reschedule moves an active timer to a new deadline, keeping its callback.
// It returns the new id, or NullTimer if id is no longer active.
func (w *Wheel) Reschedule(id TimerID, deadline int64) TimerID {
	t, ok := w.timers[id]
	if !ok {
		return NullTimer
	}
	w.remove(t)
	return w.ScheduleAt(deadline, t.fn)
}

// Cancel removes a pending timer. Cancelling a fired or cancelled timer
// is a no-op and returns false.
func (w *Wheel) Cancel(id TimerID) bool {
	t, ok := w.timers[id]
	if !ok {
		return false
	}
	w.remove(t)
	return true
}

// IsActive reports whether id is still pending.
func (w *Wheel) IsActive(id TimerID) bool {
	_, ok := w.timers[id]
	return ok
}

// Deadline returns the deadline of a pending timer.
func (w *Wheel) Deadline(id TimerID) (int64, bool) {
	t, ok := w.timers[id]
	if !ok {
		return 0, false
	}
	return t.deadline, true
}

func (w *Wheel) remove(t *timer) {
	b := w.buckets[t.bucket]
	last := len(b) - 1
	if t.index != last {
		b[t.index] = b[last]
		b[t.index].index = t.index
	}
	b[last] = nil
	w.buckets[t.bucket] = b[:last]
	delete(w.timers, t.id)
}

// ExpireTimers fires, in non-decreasing deadline order, up to max timers
// whose deadline is at or before now, and returns how many fired.
func (w *Wheel) ExpireTimers(now int64, max int) int {
	if len(w.timers) == 0 {
		w.advanceTo(now)
		return 0
	}
	if max <= 0 {
		return 0
	}

	targetTick := (now - w.startTime) / w.tickNs
	if targetTick < w.currentTick {
		targetTick = w.currentTick
	}
	span := targetTick - w.currentTick + 1
	if span > int64(len(w.buckets)) {
		span = int64(len(w.buckets))
	}

	w.due = w.due[:0]
	for i := int64(0); i < span; i++ {
		for _, t := range w.buckets[(w.currentTick+i)&w.mask] {
			if t.deadline <= now {
				w.due = append(w.due, t)
			}
		}
	}
	sort.Slice(w.due, func(i, j int) bool {
		if w.due[i].deadline != w.due[j].deadline {
			return w.due[i].deadline < w.due[j].deadline
		}
		return w.due[i].id < w.due[j].id
	})

	w.sweepTick = targetTick
	defer func() { w.sweepTick = 0 }()

	fired, processed := 0, 0
	for _, t := range w.due {
		if fired == max {
			break
		}
		processed++
		// an earlier callback in this sweep may have cancelled it
		if _, ok := w.timers[t.id]; !ok {
			continue
		}
		w.remove(t)
		fired++
		t.fn()
	}
	if processed == len(w.due) {
		w.currentTick = targetTick
	}
	for i := range w.due {
		w.due[i] = nil
	}
	return fired
}

func (w *Wheel) advanceTo(now int64) {
	if tick := (now - w.startTime) / w.tickNs; tick > w.currentTick {
		w.currentTick = tick
	}
}

// CalculateDelay returns the time from now until the earliest pending
// deadline, zero if one is already due, or NoTimers when the wheel is empty.
func (w *Wheel) CalculateDelay(now int64) time.Duration {
	if len(w.timers) == 0 {
		return time.Duration(NoTimers)
	}
	earliest := int64(0)
	first := true
	for _, t := range w.timers {
		if first || t.deadline < earliest {
			earliest = t.deadline
			first = false
		}
	}
	if earliest <= now {
		return 0
	}
	return time.Duration(earliest - now)
}

// CalculateDelayInMs is CalculateDelay against the wheel clock, in whole
// milliseconds rounded up, or NoTimers.
func (w *Wheel) CalculateDelayInMs() int64 {
	d := w.CalculateDelay(w.clock())
	if d < 0 {
		return NoTimers
	}
	return int64((d + time.Millisecond - 1) / time.Millisecond)
}
