// File: protocol/command/publication_ready.go
// Package command
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Publication ready: ON_PUBLICATION_READY response describing where the
// log buffers of a new publication live.
//
//	 0                   1                   2                   3
//	+---------------------------------------------------------------+
//	|                        Correlation ID                         |
//	|                                                               |
//	+---------------------------------------------------------------+
//	|                          Session ID                           |
//	+---------------------------------------------------------------+
//	|                           Stream ID                           |
//	+---------------------------------------------------------------+
//	|                            Term ID                            |
//	+---------------------------------------------------------------+
//	|                   Buffer Offset 0..5 (6 x 4)                 ...
//	+---------------------------------------------------------------+
//	|                   Buffer Length 0..5 (6 x 4)                 ...
//	+---------------------------------------------------------------+
//	|                  Location End 0..6 (7 x 4)                   ...
//	+---------------------------------------------------------------+
//	|           Location 0..5 then Channel, back to back           ...
//	+---------------------------------------------------------------+
//
// Variable fields carry no length prefix. Location i starts where location
// i-1 ends, so they must be written in index order.

package command

import (
	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/protocol"
)

const (
	readyCorrelationIDOffset = 0
	readySessionIDOffset     = 8
	readyStreamIDOffset      = 12
	readyTermIDOffset        = 16
	readyBufferOffsetOffset  = 20

	// PayloadBufferCount is the number of indexed buffers described.
	PayloadBufferCount = 6
	// ChannelIndex is the location index used for the channel string.
	ChannelIndex = PayloadBufferCount

	readyBufferLengthOffset = readyBufferOffsetOffset + PayloadBufferCount*buffer.SizeOfInt32
	readyLocationEndOffset  = readyBufferLengthOffset + PayloadBufferCount*buffer.SizeOfInt32

	// PublicationReadyHeaderLength is the size of the fixed part.
	PublicationReadyHeaderLength = readyLocationEndOffset + (PayloadBufferCount+1)*buffer.SizeOfInt32
)

// PublicationReady views an ON_PUBLICATION_READY response.
type PublicationReady struct {
	protocol.Flyweight
}

// CorrelationID returns the correlation id of the ADD_PUBLICATION request.
func (m *PublicationReady) CorrelationID() int64 {
	return m.Buffer().GetInt64(m.Offset() + readyCorrelationIDOffset)
}

// SetCorrelationID sets the correlation id.
func (m *PublicationReady) SetCorrelationID(v int64) *PublicationReady {
	m.Buffer().PutInt64(m.Offset()+readyCorrelationIDOffset, v)
	return m
}

// SessionID returns the session id.
func (m *PublicationReady) SessionID() int32 {
	return m.Buffer().GetInt32(m.Offset() + readySessionIDOffset)
}

// SetSessionID sets the session id.
func (m *PublicationReady) SetSessionID(v int32) *PublicationReady {
	m.Buffer().PutInt32(m.Offset()+readySessionIDOffset, v)
	return m
}

// StreamID returns the stream id.
func (m *PublicationReady) StreamID() int32 {
	return m.Buffer().GetInt32(m.Offset() + readyStreamIDOffset)
}

// SetStreamID sets the stream id.
func (m *PublicationReady) SetStreamID(v int32) *PublicationReady {
	m.Buffer().PutInt32(m.Offset()+readyStreamIDOffset, v)
	return m
}

// TermID returns the initial term id.
func (m *PublicationReady) TermID() int32 {
	return m.Buffer().GetInt32(m.Offset() + readyTermIDOffset)
}

// SetTermID sets the initial term id.
func (m *PublicationReady) SetTermID(v int32) *PublicationReady {
	m.Buffer().PutInt32(m.Offset()+readyTermIDOffset, v)
	return m
}

// BufferOffset returns the offset of buffer i within its location.
func (m *PublicationReady) BufferOffset(i int) int32 {
	return m.Buffer().GetInt32(m.Offset() + readyBufferOffsetOffset + i*buffer.SizeOfInt32)
}

// SetBufferOffset sets the offset of buffer i.
func (m *PublicationReady) SetBufferOffset(i int, v int32) *PublicationReady {
	m.Buffer().PutInt32(m.Offset()+readyBufferOffsetOffset+i*buffer.SizeOfInt32, v)
	return m
}

// BufferLength returns the length of buffer i.
func (m *PublicationReady) BufferLength(i int) int32 {
	return m.Buffer().GetInt32(m.Offset() + readyBufferLengthOffset + i*buffer.SizeOfInt32)
}

// SetBufferLength sets the length of buffer i.
func (m *PublicationReady) SetBufferLength(i int, v int32) *PublicationReady {
	m.Buffer().PutInt32(m.Offset()+readyBufferLengthOffset+i*buffer.SizeOfInt32, v)
	return m
}

func (m *PublicationReady) locationEnd(i int) int {
	return int(m.Buffer().GetInt32(m.Offset() + readyLocationEndOffset + i*buffer.SizeOfInt32))
}

func (m *PublicationReady) locationStart(i int) int {
	if i == 0 {
		return PublicationReadyHeaderLength
	}
	return m.locationEnd(i - 1)
}

// Location returns the string stored at index i (ChannelIndex for the channel).
func (m *PublicationReady) Location(i int) string {
	start := m.locationStart(i)
	return m.Buffer().GetStringWithoutLengthUtf8(m.Offset()+start, m.locationEnd(i)-start)
}

// SetLocation writes the string for index i directly after index i-1.
func (m *PublicationReady) SetLocation(i int, s string) *PublicationReady {
	start := m.locationStart(i)
	n := m.Buffer().PutStringWithoutLengthUtf8(m.Offset()+start, s)
	m.Buffer().PutInt32(m.Offset()+readyLocationEndOffset+i*buffer.SizeOfInt32, int32(start+n))
	return m
}

// Channel returns the channel URI.
func (m *PublicationReady) Channel() string {
	return m.Location(ChannelIndex)
}

// SetChannel writes the channel after the last location.
func (m *PublicationReady) SetChannel(channel string) *PublicationReady {
	return m.SetLocation(ChannelIndex, channel)
}

// Length returns the end of the last variable field written, or the fixed
// header length when none has been written.
func (m *PublicationReady) Length() int {
	for i := ChannelIndex; i >= 0; i-- {
		if end := m.locationEnd(i); end != 0 {
			return end
		}
	}
	return PublicationReadyHeaderLength
}
