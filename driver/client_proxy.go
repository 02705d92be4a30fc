// File: driver/client_proxy.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ClientProxy encodes conductor responses into the to-clients broadcast.

package driver

import (
	"sync/atomic"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/protocol/command"
)

const maxResponseLength = 64 << 10

// ClientProxy is used only by the conductor goroutine.
type ClientProxy struct {
	ring    api.Broadcaster
	scratch *buffer.AtomicBuffer
	logger  zerolog.Logger
	failed  atomic.Uint64

	ready      command.PublicationReady
	errorResp  command.ErrorResponse
	correlated command.CorrelatedMessage
	connection command.ConnectionMessage
}

var _ api.ClientProxy = (*ClientProxy)(nil)

// NewClientProxy transmits responses on ring.
func NewClientProxy(ring api.Broadcaster, logger zerolog.Logger) *ClientProxy {
	size := ring.MaxMsgLength()
	if size > maxResponseLength {
		size = maxResponseLength
	}
	return &ClientProxy{
		ring:    ring,
		scratch: buffer.Make(size),
		logger:  logger.With().Str("component", "client-proxy").Logger(),
	}
}

func (p *ClientProxy) OnPublicationReady(channel string, sessionID, streamID, termID int32, buffers api.TermBuffers, correlationID int64) bool {
	p.scratch.SetMemory(0, command.PublicationReadyHeaderLength, 0)
	p.ready.Wrap(p.scratch, 0)
	p.ready.SetCorrelationID(correlationID).
		SetSessionID(sessionID).
		SetStreamID(streamID).
		SetTermID(termID)
	for i := 0; i < command.PayloadBufferCount; i++ {
		p.ready.SetBufferOffset(i, buffers.Offset(i)).
			SetBufferLength(i, buffers.Length(i)).
			SetLocation(i, buffers.Location(i))
	}
	p.ready.SetChannel(channel)
	return p.transmit(command.OnPublicationReady, p.ready.Length(), correlationID)
}

func (p *ClientProxy) OperationSucceeded(correlationID int64) bool {
	p.correlated.Wrap(p.scratch, 0)
	p.correlated.SetClientID(0).SetCorrelationID(correlationID)
	return p.transmit(command.OnOperationSucceeded, p.correlated.Length(), correlationID)
}

func (p *ClientProxy) OnError(code api.ErrorCode, message string, correlationID int64) bool {
	message = truncateUTF8(message, p.scratch.Capacity()-16)
	p.errorResp.Wrap(p.scratch, 0)
	p.errorResp.SetOffendingCorrelationID(correlationID).
		SetErrorCode(code).
		SetErrorMessage(message)
	return p.transmit(command.OnError, p.errorResp.Length(), correlationID)
}

func (p *ClientProxy) OnNewConnection(channel string, sessionID, streamID, termID int32, correlationID int64) bool {
	p.connection.Wrap(p.scratch, 0)
	p.connection.SetCorrelationID(correlationID).
		SetSessionID(sessionID).
		SetStreamID(streamID).
		SetTermID(termID).
		SetChannel(channel)
	return p.transmit(command.OnNewConnection, p.connection.Length(), correlationID)
}

// Failed counts responses that could not be transmitted.
func (p *ClientProxy) Failed() uint64 { return p.failed.Load() }

func (p *ClientProxy) transmit(typeID int32, length int, correlationID int64) bool {
	if err := p.ring.Transmit(typeID, p.scratch, 0, length); err != nil {
		p.failed.Add(1)
		p.logger.Warn().
			Err(err).
			Str("response", command.TypeName(typeID)).
			Int64("correlation_id", correlationID).
			Msg("response dropped")
		return false
	}
	return true
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
