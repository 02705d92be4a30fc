// File: core/concurrency/ring.go
// Package concurrency implements lock-free ring buffers.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RingBuffer is a bounded circular queue of typed items with atomic
// head/tail, padded to prevent false sharing. It carries work orders
// between the conductor and the sender/receiver contexts.
// Implements api.Ring for cross-package consistency.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-mediadriver/api"
)

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*RingBuffer[any])(nil)

type cell[T any] struct {
	sequence atomic.Uint64
	data     T
}

// RingBuffer is a lock-free ring buffer (MPMC API).
// Sequence numbers per cell follow the Vyukov bounded queue.
type RingBuffer[T any] struct {
	_     cpu.CacheLinePad
	head  atomic.Uint64
	_     cpu.CacheLinePad
	tail  atomic.Uint64
	_     cpu.CacheLinePad
	mask  uint64
	cells []cell[T]
}

// NewRingBuffer allocates a ring buffer of power-of-two size.
func NewRingBuffer[T any](size uint64) *RingBuffer[T] {
	if size < 2 {
		size = 2
	}
	size = nextPowerOfTwo(size)
	r := &RingBuffer[T]{
		mask:  size - 1,
		cells: make([]cell[T], size),
	}
	for i := range r.cells {
		r.cells[i].sequence.Store(uint64(i))
	}
	return r
}

func nextPowerOfTwo(n uint64) uint64 {
	if n&(n-1) == 0 {
		return n
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// Enqueue adds item; returns false if full.
func (r *RingBuffer[T]) Enqueue(item T) bool {
	for {
		tail := r.tail.Load()
		c := &r.cells[tail&r.mask]
		dif := int64(c.sequence.Load()) - int64(tail)

		switch {
		case dif == 0:
			if r.tail.CompareAndSwap(tail, tail+1) {
				c.data = item
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false // full
		}
	}
}

// Dequeue removes and returns item; ok false if empty.
func (r *RingBuffer[T]) Dequeue() (T, bool) {
	for {
		head := r.head.Load()
		c := &r.cells[head&r.mask]
		dif := int64(c.sequence.Load()) - int64(head+1)

		switch {
		case dif == 0:
			if r.head.CompareAndSwap(head, head+1) {
				item := c.data
				var zero T
				c.data = zero
				c.sequence.Store(head + r.mask + 1)
				return item, true
			}
		case dif < 0:
			var zero T
			return zero, false // empty
		}
	}
}

// Drain dequeues up to limit items into fn and returns how many were handled.
func (r *RingBuffer[T]) Drain(fn func(T), limit int) int {
	n := 0
	for n < limit {
		item, ok := r.Dequeue()
		if !ok {
			break
		}
		fn(item)
		n++
	}
	return n
}

// Len returns number of items currently in buffer.
func (r *RingBuffer[T]) Len() int {
	head := r.head.Load()
	tail := r.tail.Load()
	return int(tail - head)
}

// Cap returns fixed buffer capacity.
func (r *RingBuffer[T]) Cap() int {
	return len(r.cells)
}
