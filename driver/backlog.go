// File: driver/backlog.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

import (
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-mediadriver/core/concurrency"
)

// backloggedQueue is a bounded lock-free queue whose producer side spills
// into an unbounded FIFO when the queue is full. The spill FIFO is owned by
// the single producer (the conductor) and is moved into the queue by flush.
// Ordering across queue and backlog is preserved.
type backloggedQueue[T any] struct {
	ring    *concurrency.RingBuffer[T]
	backlog *queue.Queue
	spilled atomic.Uint64
}

func newBackloggedQueue[T any](capacity int) *backloggedQueue[T] {
	return &backloggedQueue[T]{
		ring:    concurrency.NewRingBuffer[T](uint64(capacity)),
		backlog: queue.New(),
	}
}

func (q *backloggedQueue[T]) offer(item T) {
	if q.backlog.Length() == 0 && q.ring.Enqueue(item) {
		return
	}
	q.spilled.Add(1)
	q.backlog.Add(item)
}

// flush moves backlog items into the queue while it has room.
func (q *backloggedQueue[T]) flush() int {
	moved := 0
	for q.backlog.Length() > 0 {
		if !q.ring.Enqueue(q.backlog.Peek().(T)) {
			break
		}
		q.backlog.Remove()
		moved++
	}
	return moved
}

func (q *backloggedQueue[T]) drain(fn func(T), limit int) int {
	return q.ring.Drain(fn, limit)
}

func (q *backloggedQueue[T]) pending() int {
	return q.ring.Len() + q.backlog.Length()
}
