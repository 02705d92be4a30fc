// Package fake
// Author: momentics <momentics@gmail.com>
//
// Recording proxies. Every call is appended to Calls and reported as accepted.

package fake

import (
	"sync"

	"github.com/momentics/hioload-mediadriver/api"
)

// SenderCall is one recorded SenderProxy call.
type SenderCall struct {
	Op          string
	Publication api.Publication
}

// SenderProxy records sender hand-offs.
type SenderProxy struct {
	mu    sync.Mutex
	Calls []SenderCall
}

func (p *SenderProxy) NewPublication(pub api.Publication) bool {
	return p.record("NewPublication", pub)
}

func (p *SenderProxy) ClosePublication(pub api.Publication) bool {
	return p.record("ClosePublication", pub)
}

func (p *SenderProxy) record(op string, pub api.Publication) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, SenderCall{Op: op, Publication: pub})
	return true
}

// Count returns how many calls of op were recorded.
func (p *SenderProxy) Count(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// ReceiverCall is one recorded ReceiverProxy call.
type ReceiverCall struct {
	Op       string
	Endpoint api.ReceiveEndpoint
	Channel  string
	StreamID int32
}

// ReceiverProxy records receiver hand-offs.
type ReceiverProxy struct {
	mu    sync.Mutex
	Calls []ReceiverCall
}

func (p *ReceiverProxy) RegisterEndpoint(ep api.ReceiveEndpoint) bool {
	return p.record("RegisterEndpoint", ep, 0)
}

func (p *ReceiverProxy) AddSubscription(ep api.ReceiveEndpoint, streamID int32) bool {
	return p.record("AddSubscription", ep, streamID)
}

func (p *ReceiverProxy) RemoveSubscription(ep api.ReceiveEndpoint, streamID int32) bool {
	return p.record("RemoveSubscription", ep, streamID)
}

func (p *ReceiverProxy) CloseReceiveChannelEndpoint(ep api.ReceiveEndpoint) bool {
	return p.record("CloseReceiveChannelEndpoint", ep, 0)
}

func (p *ReceiverProxy) record(op string, ep api.ReceiveEndpoint, streamID int32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, ReceiverCall{Op: op, Endpoint: ep, Channel: ep.Channel(), StreamID: streamID})
	return true
}

// Count returns how many calls of op were recorded.
func (p *ReceiverProxy) Count(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Response is one recorded ClientProxy call. Unused fields stay zero.
type Response struct {
	Op            string
	CorrelationID int64
	Code          api.ErrorCode
	Message       string
	Channel       string
	SessionID     int32
	StreamID      int32
	TermID        int32
	Buffers       api.TermBuffers
}

// ClientProxy records responses to clients.
type ClientProxy struct {
	mu        sync.Mutex
	Responses []Response
}

func (p *ClientProxy) OnPublicationReady(channel string, sessionID, streamID, termID int32, buffers api.TermBuffers, correlationID int64) bool {
	return p.record(Response{
		Op:            "OnPublicationReady",
		CorrelationID: correlationID,
		Channel:       channel,
		SessionID:     sessionID,
		StreamID:      streamID,
		TermID:        termID,
		Buffers:       buffers,
	})
}

func (p *ClientProxy) OperationSucceeded(correlationID int64) bool {
	return p.record(Response{Op: "OperationSucceeded", CorrelationID: correlationID})
}

func (p *ClientProxy) OnError(code api.ErrorCode, message string, correlationID int64) bool {
	return p.record(Response{Op: "OnError", CorrelationID: correlationID, Code: code, Message: message})
}

func (p *ClientProxy) OnNewConnection(channel string, sessionID, streamID, termID int32, correlationID int64) bool {
	return p.record(Response{
		Op:            "OnNewConnection",
		CorrelationID: correlationID,
		Channel:       channel,
		SessionID:     sessionID,
		StreamID:      streamID,
		TermID:        termID,
	})
}

func (p *ClientProxy) record(r Response) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Responses = append(p.Responses, r)
	return true
}

// Last returns the most recent response, or the zero Response.
func (p *ClientProxy) Last() Response {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Responses) == 0 {
		return Response{}
	}
	return p.Responses[len(p.Responses)-1]
}

// Count returns how many responses of op were recorded.
func (p *ClientProxy) Count(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, r := range p.Responses {
		if r.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded responses.
func (p *ClientProxy) Reset() {
	p.mu.Lock()
	p.Responses = nil
	p.mu.Unlock()
}
