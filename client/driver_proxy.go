// File: client/driver_proxy.go
// Package client
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// DriverProxy encodes client commands into the driver's command ring.
// Correlation ids come from the ring's shared counter so they are unique
// across every client of the same driver.

package client

import (
	"fmt"
	"sync"

	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/protocol/command"
)

const scratchLength = 4096

// DriverProxy is safe for concurrent use.
type DriverProxy struct {
	ring     api.ByteRing
	clientID int64
	requests *requestTracker

	mu      sync.Mutex
	scratch *buffer.AtomicBuffer
	pub     command.PublicationMessage
	sub     command.SubscriptionMessage
	remove  command.RemoveMessage
	corr    command.CorrelatedMessage
}

// NewDriverProxy binds a proxy to ring. A clientID of zero allocates one
// from the ring's correlation counter.
func NewDriverProxy(ring api.ByteRing, clientID int64) *DriverProxy {
	for clientID == 0 {
		clientID = ring.NextCorrelationID()
	}
	return &DriverProxy{ring: ring, clientID: clientID, scratch: buffer.Make(scratchLength)}
}

// ClientID identifies this client to the driver.
func (p *DriverProxy) ClientID() int64 { return p.clientID }

// AddPublication requests a publication and returns the correlation id,
// which becomes its registration id.
func (p *DriverProxy) AddPublication(channel string, sessionID, streamID int32) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkChannel(command.PublicationMessageLength(channel)); err != nil {
		return 0, err
	}
	id := p.nextRequest(request{})
	p.pub.Wrap(p.scratch, 0)
	p.pub.SetClientID(p.clientID).SetCorrelationID(id)
	p.pub.SetSessionID(sessionID).SetStreamID(streamID).SetChannel(channel)
	return id, p.send(id, command.AddPublication, p.pub.Length())
}

// RemovePublication releases one registration of a publication.
func (p *DriverProxy) RemovePublication(registrationID int64, sessionID, streamID int32) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextRequest(request{})
	p.remove.Wrap(p.scratch, 0)
	p.remove.SetClientID(p.clientID).SetCorrelationID(id)
	p.remove.SetRegistrationID(registrationID).SetSessionID(sessionID).SetStreamID(streamID)
	return id, p.send(id, command.RemovePublication, p.remove.Length())
}

// AddSubscription requests a subscription and returns its registration id.
func (p *DriverProxy) AddSubscription(channel string, streamID int32) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkChannel(command.SubscriptionMessageLength(channel)); err != nil {
		return 0, err
	}
	id := p.nextRequest(request{subscription: true})
	p.sub.Wrap(p.scratch, 0)
	p.sub.SetClientID(p.clientID).SetCorrelationID(id)
	p.sub.SetRegistrationCorrelationID(-1).SetStreamID(streamID).SetChannel(channel)
	return id, p.send(id, command.AddSubscription, p.sub.Length())
}

// RemoveSubscription releases the subscription registered as registrationID.
func (p *DriverProxy) RemoveSubscription(registrationID int64, channel string, streamID int32) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkChannel(command.SubscriptionMessageLength(channel)); err != nil {
		return 0, err
	}
	id := p.nextRequest(request{releases: registrationID, hasRelease: true})
	p.sub.Wrap(p.scratch, 0)
	p.sub.SetClientID(p.clientID).SetCorrelationID(id)
	p.sub.SetRegistrationCorrelationID(registrationID).SetStreamID(streamID).SetChannel(channel)
	return id, p.send(id, command.RemoveSubscription, p.sub.Length())
}

// SendClientKeepalive tells the driver this client is alive.
func (p *DriverProxy) SendClientKeepalive() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.corr.Wrap(p.scratch, 0)
	p.corr.SetClientID(p.clientID).SetCorrelationID(0)
	return p.write(command.ClientKeepalive, p.corr.Length())
}

func (p *DriverProxy) checkChannel(length int) error {
	if length > p.scratch.Capacity() {
		return fmt.Errorf("%w: command of %d bytes exceeds %d", api.ErrInvalidArgument, length, p.scratch.Capacity())
	}
	return nil
}

// nextRequest allocates a correlation id and tracks it before the command
// is visible to the driver.
func (p *DriverProxy) nextRequest(req request) int64 {
	id := p.ring.NextCorrelationID()
	p.requests.expect(id, req)
	return id
}

func (p *DriverProxy) send(correlationID int64, typeID int32, length int) error {
	if err := p.write(typeID, length); err != nil {
		p.requests.forget(correlationID)
		return err
	}
	return nil
}

func (p *DriverProxy) write(typeID int32, length int) error {
	if err := p.ring.Write(typeID, p.scratch, 0, length); err != nil {
		return fmt.Errorf("%s: %w", command.TypeName(typeID), err)
	}
	return nil
}
