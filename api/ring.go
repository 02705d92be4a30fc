// Package api
// Author: momentics@gmail.com
//
// Queue and byte-ring contracts for cross-thread producer/consumer.

package api

import "github.com/momentics/hioload-mediadriver/core/buffer"

// Ring is a lock-free queue of typed items.
type Ring[T any] interface {
	// Enqueue adds an item, returns false if full.
	Enqueue(item T) bool
	// Dequeue removes oldest item, returns false if empty.
	Dequeue() (T, bool)
	// Len returns current number of items.
	Len() int
	// Cap returns buffer capacity.
	Cap() int
}

// MessageHandler receives one record read from a ByteRing. The payload at
// [offset, offset+length) of buf is valid only for the duration of the call.
type MessageHandler func(typeID int32, buf *buffer.AtomicBuffer, offset, length int)

// ByteRing carries variable length typed records between threads.
type ByteRing interface {
	// Write copies length bytes of src starting at srcOffset as one record.
	// A full ring is reported as an error, never by blocking.
	Write(typeID int32, src *buffer.AtomicBuffer, srcOffset, length int) error
	// Read delivers up to limit records in FIFO order and returns the count.
	Read(handler MessageHandler, limit int) int
	// NextCorrelationID returns a process-wide unique id.
	NextCorrelationID() int64
	// Capacity returns the byte capacity of the data region.
	Capacity() int
	// MaxMsgLength is the largest payload accepted by Write.
	MaxMsgLength() int
}

// Broadcaster publishes typed records to every attached reader. A slow
// reader loses records instead of blocking the writer.
type Broadcaster interface {
	// Transmit copies length bytes of src starting at srcOffset as one record.
	Transmit(typeID int32, src *buffer.AtomicBuffer, srcOffset, length int) error
	// MaxMsgLength is the largest payload accepted by Transmit.
	MaxMsgLength() int
}
