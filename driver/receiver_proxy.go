// File: driver/receiver_proxy.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

import "github.com/momentics/hioload-mediadriver/api"

// ReceiverCommandType enumerates conductor to receiver hand-offs.
type ReceiverCommandType uint8

const (
	ReceiverRegisterEndpoint ReceiverCommandType = iota + 1
	ReceiverAddSubscription
	ReceiverRemoveSubscription
	ReceiverCloseEndpoint
)

// ReceiverCommand is one queued hand-off. StreamID is set for subscription changes.
type ReceiverCommand struct {
	Type     ReceiverCommandType
	Endpoint api.ReceiveEndpoint
	StreamID int32
}

// ReceiverProxy queues endpoint and subscription changes for the receiver context.
type ReceiverProxy struct {
	q *backloggedQueue[ReceiverCommand]
}

var _ api.ReceiverProxy = (*ReceiverProxy)(nil)

func NewReceiverProxy(capacity int) *ReceiverProxy {
	return &ReceiverProxy{q: newBackloggedQueue[ReceiverCommand](capacity)}
}

func (p *ReceiverProxy) RegisterEndpoint(ep api.ReceiveEndpoint) bool {
	p.q.offer(ReceiverCommand{Type: ReceiverRegisterEndpoint, Endpoint: ep})
	return true
}

func (p *ReceiverProxy) AddSubscription(ep api.ReceiveEndpoint, streamID int32) bool {
	p.q.offer(ReceiverCommand{Type: ReceiverAddSubscription, Endpoint: ep, StreamID: streamID})
	return true
}

func (p *ReceiverProxy) RemoveSubscription(ep api.ReceiveEndpoint, streamID int32) bool {
	p.q.offer(ReceiverCommand{Type: ReceiverRemoveSubscription, Endpoint: ep, StreamID: streamID})
	return true
}

func (p *ReceiverProxy) CloseReceiveChannelEndpoint(ep api.ReceiveEndpoint) bool {
	p.q.offer(ReceiverCommand{Type: ReceiverCloseEndpoint, Endpoint: ep})
	return true
}

func (p *ReceiverProxy) Flush() int { return p.q.flush() }

func (p *ReceiverProxy) Drain(fn func(ReceiverCommand), limit int) int { return p.q.drain(fn, limit) }

func (p *ReceiverProxy) Pending() int { return p.q.pending() }

func (p *ReceiverProxy) Spilled() uint64 { return p.q.spilled.Load() }
