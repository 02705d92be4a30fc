// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Byte layout of the shared-memory record ring.
//
// Data region of capacity bytes (power of two), followed by the trailer:
//
//	capacity+0    tail position
//	capacity+128  head cache position
//	capacity+256  head position
//	capacity+384  correlation counter
//	capacity+512  consumer heartbeat
//
// Each record: recordLength i32@0, typeId i32@4, payload@8, aligned to 8.
// recordLength counts header plus payload and is negative while the
// producer is still copying.

package concurrency

const (
	// counterPad keeps each trailer counter on its own pair of cache lines.
	counterPad = 128

	tailPositionOffset       = 0
	headCachePositionOffset  = tailPositionOffset + counterPad
	headPositionOffset       = headCachePositionOffset + counterPad
	correlationCounterOffset = headPositionOffset + counterPad
	consumerHeartbeatOffset  = correlationCounterOffset + counterPad

	// TrailerLength is appended to the data region of every ring.
	TrailerLength = consumerHeartbeatOffset + counterPad

	// RecordHeaderLength precedes each payload.
	RecordHeaderLength = 8
	// RecordAlignment is the alignment of every record.
	RecordAlignment = 8

	// PaddingMsgTypeID marks skipped tail space on wrap-around.
	PaddingMsgTypeID int32 = -1
)

func lengthOffset(recordIndex int) int {
	return recordIndex
}

func typeOffset(recordIndex int) int {
	return recordIndex + 4
}

func encodedMsgOffset(recordIndex int) int {
	return recordIndex + RecordHeaderLength
}

func align(v, alignment int) int {
	return (v + alignment - 1) &^ (alignment - 1)
}
