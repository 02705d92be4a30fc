// File: core/concurrency/many_to_one_ring_buffer.go
// Package concurrency
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ManyToOneRingBuffer passes variable length records from any number of
// producer threads, possibly in other processes, to a single consumer.
// All state lives in the wrapped AtomicBuffer so the ring works unchanged
// over a memory-mapped file. Producers claim space by CAS on the tail and
// publish by an ordered store of the record length.

package concurrency

import (
	"fmt"

	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/core/buffer"
)

var _ api.ByteRing = (*ManyToOneRingBuffer)(nil)

// ManyToOneRingBuffer is a lock-free MPSC ring of typed records.
type ManyToOneRingBuffer struct {
	buf          *buffer.AtomicBuffer
	capacity     int
	mask         int64
	maxMsgLength int

	tailPositionIndex       int
	headCachePositionIndex  int
	headPositionIndex       int
	correlationCounterIndex int
	consumerHeartbeatIndex  int
}

// NewManyToOneRingBuffer wraps buf. buf.Capacity()-TrailerLength must be a
// power of two.
func NewManyToOneRingBuffer(buf *buffer.AtomicBuffer) (*ManyToOneRingBuffer, error) {
	capacity := buf.Capacity() - TrailerLength
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrCapacityNotPowerOfTwo, capacity)
	}
	return &ManyToOneRingBuffer{
		buf:                     buf,
		capacity:                capacity,
		mask:                    int64(capacity - 1),
		maxMsgLength:            capacity / 8,
		tailPositionIndex:       capacity + tailPositionOffset,
		headCachePositionIndex:  capacity + headCachePositionOffset,
		headPositionIndex:       capacity + headPositionOffset,
		correlationCounterIndex: capacity + correlationCounterOffset,
		consumerHeartbeatIndex:  capacity + consumerHeartbeatOffset,
	}, nil
}

// Capacity returns the size of the data region.
func (r *ManyToOneRingBuffer) Capacity() int {
	return r.capacity
}

// MaxMsgLength returns the largest payload accepted by Write.
func (r *ManyToOneRingBuffer) MaxMsgLength() int {
	return r.maxMsgLength
}

// Buffer returns the underlying buffer.
func (r *ManyToOneRingBuffer) Buffer() *buffer.AtomicBuffer {
	return r.buf
}

// Write copies src[srcOffset:srcOffset+length] into the ring as one record.
// It returns ErrInsufficientCapacity when the record does not fit.
func (r *ManyToOneRingBuffer) Write(typeID int32, src *buffer.AtomicBuffer, srcOffset, length int) error {
	if typeID < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidTypeID, typeID)
	}
	if length > r.maxMsgLength {
		return fmt.Errorf("%w: length=%d max=%d", ErrMessageTooLong, length, r.maxMsgLength)
	}
	if err := src.CheckBounds(srcOffset, length); err != nil {
		return err
	}

	recordLength := length + RecordHeaderLength
	required := align(recordLength, RecordAlignment)
	recordIndex, ok := r.claimCapacity(required)
	if !ok {
		return ErrInsufficientCapacity
	}

	r.buf.PutInt32Ordered(lengthOffset(recordIndex), -int32(recordLength))
	r.buf.PutInt32(typeOffset(recordIndex), typeID)
	r.buf.PutBuffer(encodedMsgOffset(recordIndex), src, srcOffset, length)
	r.buf.PutInt32Ordered(lengthOffset(recordIndex), int32(recordLength))
	return nil
}

func (r *ManyToOneRingBuffer) claimCapacity(required int) (int, bool) {
	capacity := int64(r.capacity)
	head := r.buf.GetInt64Volatile(r.headCachePositionIndex)

	for {
		tail := r.buf.GetInt64Volatile(r.tailPositionIndex)
		if int64(required) > capacity-(tail-head) {
			head = r.buf.GetInt64Volatile(r.headPositionIndex)
			if int64(required) > capacity-(tail-head) {
				return 0, false
			}
			r.buf.PutInt64Ordered(r.headCachePositionIndex, head)
		}

		padding := 0
		tailIndex := int(tail & r.mask)
		toBufferEnd := r.capacity - tailIndex
		if required > toBufferEnd {
			headIndex := int(head & r.mask)
			if required > headIndex {
				head = r.buf.GetInt64Volatile(r.headPositionIndex)
				headIndex = int(head & r.mask)
				if required > headIndex {
					return 0, false
				}
				r.buf.PutInt64Ordered(r.headCachePositionIndex, head)
			}
			padding = toBufferEnd
		}

		if r.buf.CompareAndSetInt64(r.tailPositionIndex, tail, tail+int64(required+padding)) {
			if padding != 0 {
				r.buf.PutInt32(typeOffset(tailIndex), PaddingMsgTypeID)
				r.buf.PutInt32Ordered(lengthOffset(tailIndex), int32(padding))
				tailIndex = 0
			}
			return tailIndex, true
		}
	}
}

// Read delivers up to limit published records to handler in FIFO order
// and returns the number delivered. Consumed bytes are zeroed before the
// head moves so producers always claim clean memory.
func (r *ManyToOneRingBuffer) Read(handler api.MessageHandler, limit int) int {
	head := r.buf.GetInt64(r.headPositionIndex)
	headIndex := int(head & r.mask)
	contiguous := r.capacity - headIndex
	bytesRead := 0
	messagesRead := 0

	defer func() {
		if bytesRead != 0 {
			r.buf.SetMemory(headIndex, bytesRead, 0)
			r.buf.PutInt64Ordered(r.headPositionIndex, head+int64(bytesRead))
		}
	}()

	for bytesRead < contiguous && messagesRead < limit {
		recordIndex := headIndex + bytesRead
		recordLength := int(r.buf.GetInt32Volatile(lengthOffset(recordIndex)))
		if recordLength <= 0 {
			break
		}
		bytesRead += align(recordLength, RecordAlignment)

		typeID := r.buf.GetInt32(typeOffset(recordIndex))
		if typeID == PaddingMsgTypeID {
			continue
		}
		messagesRead++
		handler(typeID, r.buf, encodedMsgOffset(recordIndex), recordLength-RecordHeaderLength)
	}
	return messagesRead
}

// NextCorrelationID returns a ring-wide unique id. Ids start at zero.
func (r *ManyToOneRingBuffer) NextCorrelationID() int64 {
	return r.buf.GetAndAddInt64(r.correlationCounterIndex, 1)
}

// Size is the number of bytes currently occupied by unread records.
func (r *ManyToOneRingBuffer) Size() int {
	for {
		before := r.buf.GetInt64Volatile(r.headPositionIndex)
		tail := r.buf.GetInt64Volatile(r.tailPositionIndex)
		after := r.buf.GetInt64Volatile(r.headPositionIndex)
		if before == after {
			return int(tail - after)
		}
	}
}

// ConsumerHeartbeatTime returns the last time the consumer reported itself alive.
func (r *ManyToOneRingBuffer) ConsumerHeartbeatTime() int64 {
	return r.buf.GetInt64Volatile(r.consumerHeartbeatIndex)
}

// SetConsumerHeartbeatTime records consumer liveness for producers to observe.
func (r *ManyToOneRingBuffer) SetConsumerHeartbeatTime(t int64) {
	r.buf.PutInt64Ordered(r.consumerHeartbeatIndex, t)
}
