// File: driver/event_logger.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Binary event log. Producers encode compact records into a ring; the
// EventReader agent decodes them off the hot path and writes them through
// zerolog.
//
// Record payloads (all start with a nanosecond timestamp at 0):
//
//	EXCEPTION  message string@8
//	CMD_IN     command type i32@8, captured length i32@12, bytes@16
//	FRAME_*    frame length i32@8, captured length i32@12, bytes@16

package driver

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/protocol"
	"github.com/momentics/hioload-mediadriver/protocol/command"
)

// Event record type ids.
const (
	EventException int32 = 1
	EventCommandIn int32 = 2
	EventFrameIn   int32 = 3
	EventFrameOut  int32 = 4
)

const (
	eventTimestampOffset  = 0
	eventMessageOffset    = 8
	eventTypeOffset       = 8
	eventLengthOffset     = 8
	eventCapturedOffset   = 12
	eventBodyOffset       = 16
	maxEventCaptureLength = 512
	maxEventMessageLength = 1024
)

// EventName returns a printable name for an event type id.
func EventName(typeID int32) string {
	switch typeID {
	case EventException:
		return "EXCEPTION"
	case EventCommandIn:
		return "CMD_IN"
	case EventFrameIn:
		return "FRAME_IN"
	case EventFrameOut:
		return "FRAME_OUT"
	}
	return "UNKNOWN"
}

// EventLogger is safe for concurrent use. A nil *EventLogger discards everything.
type EventLogger struct {
	ring    api.ByteRing
	clock   api.NanoClock
	pool    *buffer.Pool
	dropped atomic.Uint64
}

// NewEventLogger writes records into ring, timestamped by clock.
func NewEventLogger(ring api.ByteRing, clock api.NanoClock) *EventLogger {
	if clock == nil {
		clock = api.SystemNanoClock
	}
	return &EventLogger{ring: ring, clock: clock, pool: buffer.NewPool()}
}

// LogException records err.
func (l *EventLogger) LogException(err error) {
	if l == nil || err == nil {
		return
	}
	msg := err.Error()
	if len(msg) > maxEventMessageLength {
		msg = msg[:maxEventMessageLength]
	}
	scratch := l.pool.Get(eventMessageOffset + buffer.SizeOfInt32 + len(msg))
	defer l.pool.Put(scratch)

	scratch.PutInt64(eventTimestampOffset, l.clock())
	n := scratch.PutStringUtf8(eventMessageOffset, msg)
	l.write(EventException, scratch, eventMessageOffset+n)
}

// LogCommand records an inbound command record.
func (l *EventLogger) LogCommand(typeID int32, src *buffer.AtomicBuffer, offset, length int) {
	if l == nil {
		return
	}
	l.capture(EventCommandIn, typeID, src, offset, length)
}

// LogFrameIn records a received frame.
func (l *EventLogger) LogFrameIn(src *buffer.AtomicBuffer, offset, length int) {
	if l == nil {
		return
	}
	l.capture(EventFrameIn, int32(length), src, offset, length)
}

// LogFrameOut records a sent frame.
func (l *EventLogger) LogFrameOut(src *buffer.AtomicBuffer, offset, length int) {
	if l == nil {
		return
	}
	l.capture(EventFrameOut, int32(length), src, offset, length)
}

// Dropped counts records lost because the ring was full.
func (l *EventLogger) Dropped() uint64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

func (l *EventLogger) capture(eventType, field int32, src *buffer.AtomicBuffer, offset, length int) {
	captured := length
	if captured > maxEventCaptureLength {
		captured = maxEventCaptureLength
	}
	if captured < 0 {
		captured = 0
	}
	scratch := l.pool.Get(eventBodyOffset + captured)
	defer l.pool.Put(scratch)

	scratch.PutInt64(eventTimestampOffset, l.clock())
	scratch.PutInt32(eventTypeOffset, field)
	scratch.PutInt32(eventCapturedOffset, int32(captured))
	if captured > 0 {
		scratch.PutBuffer(eventBodyOffset, src, offset, captured)
	}
	l.write(eventType, scratch, eventBodyOffset+captured)
}

func (l *EventLogger) write(eventType int32, scratch *buffer.AtomicBuffer, length int) {
	if err := l.ring.Write(eventType, scratch, 0, length); err != nil {
		l.dropped.Add(1)
	}
}

// EventReader drains the event ring into a zerolog logger.
type EventReader struct {
	ring   api.ByteRing
	logger zerolog.Logger
	limit  int

	view       *buffer.AtomicBuffer
	header     protocol.HeaderFlyweight
	data       protocol.DataHeaderFlyweight
	correlated command.CorrelatedMessage
}

// NewEventReader reads up to limit records per DoWork.
func NewEventReader(ring api.ByteRing, logger zerolog.Logger, limit int) *EventReader {
	if limit <= 0 {
		limit = 64
	}
	return &EventReader{
		ring:   ring,
		logger: logger.With().Str("component", "event-log").Logger(),
		limit:  limit,
		view:   buffer.Wrap(nil),
	}
}

// Read decodes up to limit records and returns the count.
func (r *EventReader) Read(limit int) int {
	return r.ring.Read(r.onEvent, limit)
}

func (r *EventReader) DoWork() int { return r.Read(r.limit) }

func (r *EventReader) RoleName() string { return "event-reader" }

// OnClose flushes whatever is left in the ring.
func (r *EventReader) OnClose() {
	for r.Read(r.limit) > 0 {
	}
}

func (r *EventReader) onEvent(typeID int32, buf *buffer.AtomicBuffer, offset, length int) {
	ts := buf.GetInt64(offset + eventTimestampOffset)
	switch typeID {
	case EventException:
		msg, _ := buf.GetStringUtf8(offset + eventMessageOffset)
		r.logger.Error().
			Str("event", EventName(typeID)).
			Int64("ts_ns", ts).
			Msg(msg)

	case EventCommandIn:
		cmdType := buf.GetInt32(offset + eventTypeOffset)
		captured := int(buf.GetInt32(offset + eventCapturedOffset))
		e := r.logger.Debug().
			Str("event", EventName(typeID)).
			Int64("ts_ns", ts).
			Str("command", command.TypeName(cmdType)).
			Int("length", captured)
		if captured >= command.CorrelatedMessageLength {
			r.view.Rewrap(buf.Slice(offset+eventBodyOffset, captured))
			r.correlated.Wrap(r.view, 0)
			e = e.Int64("client_id", r.correlated.ClientID()).
				Int64("correlation_id", r.correlated.CorrelationID())
		}
		e.Msg("command")

	case EventFrameIn, EventFrameOut:
		frameLength := buf.GetInt32(offset + eventLengthOffset)
		captured := int(buf.GetInt32(offset + eventCapturedOffset))
		e := r.logger.Debug().
			Str("event", EventName(typeID)).
			Int64("ts_ns", ts).
			Int32("frame_length", frameLength)
		if captured >= protocol.HeaderLength {
			r.view.Rewrap(buf.Slice(offset+eventBodyOffset, captured))
			r.header.Wrap(r.view, 0)
			e = e.Str("frame", protocol.HdrTypeName(r.header.HeaderType())).
				Uint8("flags", r.header.Flags())
			if r.header.HeaderType() == protocol.HdrTypeData && captured >= protocol.DataHeaderLength {
				r.data.Wrap(r.view, 0)
				e = e.Int32("session_id", r.data.SessionID()).
					Int32("stream_id", r.data.StreamID()).
					Int32("term_id", r.data.TermID()).
					Int32("term_offset", r.data.TermOffset())
			}
		}
		e.Msg("frame")

	default:
		r.logger.Warn().
			Int32("event_type", typeID).
			Int("length", length).
			Msg("unknown event record")
	}
}
