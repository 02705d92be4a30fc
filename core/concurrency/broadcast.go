// File: core/concurrency/broadcast.go
// Package concurrency
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Broadcast buffer: one transmitter publishes typed records that every
// receiver sees. Receivers keep private cursors and never move shared
// state, so any number of processes can follow the same buffer. A slow
// receiver is lapped rather than blocking the transmitter.
//
// Data region of capacity bytes (power of two), followed by the trailer:
//
//	capacity+0    tail intent counter
//	capacity+128  tail counter
//	capacity+256  latest record position
//
// Records use the same header and alignment as ManyToOneRingBuffer.

package concurrency

import (
	"fmt"

	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/core/buffer"
)

const (
	tailIntentCounterOffset = 0
	tailCounterOffset       = tailIntentCounterOffset + counterPad
	latestCounterOffset     = tailCounterOffset + counterPad

	// BroadcastTrailerLength is appended to the data region of a broadcast buffer.
	BroadcastTrailerLength = latestCounterOffset + counterPad
)

var _ api.Broadcaster = (*BroadcastTransmitter)(nil)

type broadcastLayout struct {
	buf          *buffer.AtomicBuffer
	capacity     int
	mask         int64
	maxMsgLength int

	tailIntentIndex int
	tailIndex       int
	latestIndex     int
}

func newBroadcastLayout(buf *buffer.AtomicBuffer) (broadcastLayout, error) {
	capacity := buf.Capacity() - BroadcastTrailerLength
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return broadcastLayout{}, fmt.Errorf("%w: %d", ErrCapacityNotPowerOfTwo, capacity)
	}
	return broadcastLayout{
		buf:             buf,
		capacity:        capacity,
		mask:            int64(capacity - 1),
		maxMsgLength:    capacity / 8,
		tailIntentIndex: capacity + tailIntentCounterOffset,
		tailIndex:       capacity + tailCounterOffset,
		latestIndex:     capacity + latestCounterOffset,
	}, nil
}

// Capacity returns the size of the data region.
func (l *broadcastLayout) Capacity() int { return l.capacity }

// MaxMsgLength returns the largest payload a record may carry.
func (l *broadcastLayout) MaxMsgLength() int { return l.maxMsgLength }

// Buffer returns the underlying buffer.
func (l *broadcastLayout) Buffer() *buffer.AtomicBuffer { return l.buf }

// Tail returns the position after the last published record.
func (l *broadcastLayout) Tail() int64 { return l.buf.GetInt64Volatile(l.tailIndex) }

// BroadcastTransmitter is the single writer of a broadcast buffer.
type BroadcastTransmitter struct {
	broadcastLayout
}

// NewBroadcastTransmitter wraps buf. buf.Capacity()-BroadcastTrailerLength
// must be a power of two.
func NewBroadcastTransmitter(buf *buffer.AtomicBuffer) (*BroadcastTransmitter, error) {
	layout, err := newBroadcastLayout(buf)
	if err != nil {
		return nil, err
	}
	return &BroadcastTransmitter{broadcastLayout: layout}, nil
}

// Transmit publishes src[srcOffset:srcOffset+length] as one record. It never
// blocks; records older than one capacity are overwritten.
func (t *BroadcastTransmitter) Transmit(typeID int32, src *buffer.AtomicBuffer, srcOffset, length int) error {
	if typeID < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidTypeID, typeID)
	}
	if length > t.maxMsgLength {
		return fmt.Errorf("%w: length=%d max=%d", ErrMessageTooLong, length, t.maxMsgLength)
	}
	if err := src.CheckBounds(srcOffset, length); err != nil {
		return err
	}

	currentTail := t.buf.GetInt64(t.tailIndex)
	recordIndex := int(currentTail & t.mask)
	recordLength := length + RecordHeaderLength
	aligned := align(recordLength, RecordAlignment)
	newTail := currentTail + int64(aligned)

	toEnd := t.capacity - recordIndex
	if toEnd < aligned {
		t.buf.PutInt64Ordered(t.tailIntentIndex, newTail+int64(toEnd))
		t.buf.PutInt32(lengthOffset(recordIndex), int32(toEnd))
		t.buf.PutInt32(typeOffset(recordIndex), PaddingMsgTypeID)
		currentTail += int64(toEnd)
		recordIndex = 0
		newTail = currentTail + int64(aligned)
	} else {
		t.buf.PutInt64Ordered(t.tailIntentIndex, newTail)
	}

	t.buf.PutInt32(lengthOffset(recordIndex), int32(recordLength))
	t.buf.PutInt32(typeOffset(recordIndex), typeID)
	t.buf.PutBuffer(encodedMsgOffset(recordIndex), src, srcOffset, length)

	t.buf.PutInt64Ordered(t.latestIndex, currentTail)
	t.buf.PutInt64Ordered(t.tailIndex, newTail)
	return nil
}

// BroadcastReceiver follows a broadcast buffer from the tail it saw when
// created. Each record is copied out and revalidated before delivery, so a
// handler never sees bytes the transmitter overwrote. Use from one goroutine.
type BroadcastReceiver struct {
	broadcastLayout
	scratch    *buffer.AtomicBuffer
	nextRecord int64
	lapped     uint64
}

// NewBroadcastReceiver wraps buf and starts at its current tail.
func NewBroadcastReceiver(buf *buffer.AtomicBuffer) (*BroadcastReceiver, error) {
	layout, err := newBroadcastLayout(buf)
	if err != nil {
		return nil, err
	}
	r := &BroadcastReceiver{
		broadcastLayout: layout,
		scratch:         buffer.Make(layout.maxMsgLength),
	}
	r.nextRecord = r.Tail()
	return r, nil
}

// LappedCount is how many times the transmitter overtook this receiver.
// Records skipped while lapped are lost to it.
func (r *BroadcastReceiver) LappedCount() uint64 { return r.lapped }

// Receive delivers up to limit records to handler and returns the count.
func (r *BroadcastReceiver) Receive(handler api.MessageHandler, limit int) int {
	received := 0
	for received < limit {
		tail := r.buf.GetInt64Volatile(r.tailIndex)
		cursor := r.nextRecord
		if tail <= cursor {
			break
		}
		if !r.valid(cursor) {
			r.lapped++
			cursor = r.buf.GetInt64Volatile(r.latestIndex)
		}

		recordIndex := int(cursor & r.mask)
		recordLength := int(r.buf.GetInt32(lengthOffset(recordIndex)))
		typeID := r.buf.GetInt32(typeOffset(recordIndex))
		next := cursor + int64(align(recordLength, RecordAlignment))
		if typeID == PaddingMsgTypeID {
			cursor = next
			recordIndex = 0
			recordLength = int(r.buf.GetInt32(lengthOffset(0)))
			typeID = r.buf.GetInt32(typeOffset(0))
			next = cursor + int64(align(recordLength, RecordAlignment))
		}

		payload := recordLength - RecordHeaderLength
		if payload < 0 || payload > r.maxMsgLength {
			r.lapped++
			r.nextRecord = r.buf.GetInt64Volatile(r.tailIndex)
			continue
		}
		r.scratch.PutBuffer(0, r.buf, encodedMsgOffset(recordIndex), payload)
		if !r.valid(cursor) {
			r.lapped++
			r.nextRecord = r.buf.GetInt64Volatile(r.latestIndex)
			continue
		}

		r.nextRecord = next
		received++
		handler(typeID, r.scratch, 0, payload)
	}
	return received
}

// valid reports whether the record at cursor has not been overwritten.
func (r *BroadcastReceiver) valid(cursor int64) bool {
	return cursor+int64(r.capacity) > r.buf.GetInt64Volatile(r.tailIntentIndex)
}
