// File: client/response_reader.go
// Package client
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package client

import (
	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/core/concurrency"
	"github.com/momentics/hioload-mediadriver/protocol/command"
)

// BufferLocation says where one log buffer of a publication is mapped.
type BufferLocation struct {
	Location string
	Offset   int32
	Length   int32
}

// PublicationReady is a decoded ON_PUBLICATION_READY.
type PublicationReady struct {
	CorrelationID int64
	SessionID     int32
	StreamID      int32
	TermID        int32
	Channel       string
	Buffers       [api.BufferCount]BufferLocation
}

// NewConnection is a decoded ON_NEW_CONNECTION.
type NewConnection struct {
	CorrelationID int64
	SessionID     int32
	StreamID      int32
	TermID        int32
	Channel       string
}

// DriverListener receives decoded responses.
type DriverListener interface {
	OnPublicationReady(r PublicationReady)
	OnOperationSucceeded(correlationID int64)
	OnError(correlationID int64, code api.ErrorCode, message string)
	OnNewConnection(c NewConnection)
}

// ResponseReader decodes the to-clients broadcast. Use from one goroutine.
// A reader built by Connect delivers only responses to its own requests;
// ON_ERROR without a correlation id reaches every reader.
type ResponseReader struct {
	receiver *concurrency.BroadcastReceiver
	listener DriverListener
	requests *requestTracker
	lapped   uint64

	ready      command.PublicationReady
	errorResp  command.ErrorResponse
	correlated command.CorrelatedMessage
	connection command.ConnectionMessage
}

// NewResponseReader delivers every response read from receiver.
func NewResponseReader(receiver *concurrency.BroadcastReceiver, listener DriverListener) *ResponseReader {
	return &ResponseReader{receiver: receiver, listener: listener}
}

// Poll dispatches up to limit responses and returns how many were read,
// including those filtered out. Responses lost because the driver lapped
// this reader are reported as an ON_ERROR with correlation id -1.
func (r *ResponseReader) Poll(limit int) int {
	n := r.receiver.Receive(r.onResponse, limit)
	if lapped := r.receiver.LappedCount(); lapped != r.lapped {
		r.lapped = lapped
		r.listener.OnError(-1, api.ErrCodeGeneric, "responses lost: client fell behind the driver")
	}
	return n
}

func (r *ResponseReader) onResponse(typeID int32, buf *buffer.AtomicBuffer, offset, _ int) {
	switch typeID {
	case command.OnPublicationReady:
		r.ready.Wrap(buf, offset)
		if !r.requests.complete(r.ready.CorrelationID(), true) {
			return
		}
		msg := PublicationReady{
			CorrelationID: r.ready.CorrelationID(),
			SessionID:     r.ready.SessionID(),
			StreamID:      r.ready.StreamID(),
			TermID:        r.ready.TermID(),
			Channel:       r.ready.Channel(),
		}
		for i := range msg.Buffers {
			msg.Buffers[i] = BufferLocation{
				Location: r.ready.Location(i),
				Offset:   r.ready.BufferOffset(i),
				Length:   r.ready.BufferLength(i),
			}
		}
		r.listener.OnPublicationReady(msg)

	case command.OnOperationSucceeded:
		r.correlated.Wrap(buf, offset)
		if r.requests.complete(r.correlated.CorrelationID(), true) {
			r.listener.OnOperationSucceeded(r.correlated.CorrelationID())
		}

	case command.OnError:
		r.errorResp.Wrap(buf, offset)
		id := r.errorResp.OffendingCorrelationID()
		if id == -1 || r.requests.complete(id, false) {
			r.listener.OnError(id, r.errorResp.ErrorCode(), r.errorResp.ErrorMessage())
		}

	case command.OnNewConnection:
		r.connection.Wrap(buf, offset)
		if !r.requests.owns(r.connection.CorrelationID()) {
			return
		}
		r.listener.OnNewConnection(NewConnection{
			CorrelationID: r.connection.CorrelationID(),
			SessionID:     r.connection.SessionID(),
			StreamID:      r.connection.StreamID(),
			TermID:        r.connection.TermID(),
			Channel:       r.connection.Channel(),
		})
	}
}
