// File: driver/conductor_proxy.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

import "github.com/momentics/hioload-mediadriver/core/concurrency"

// ConnectionCommand reports a new remote publisher seen by the receiver.
type ConnectionCommand struct {
	Channel   string
	SessionID int32
	StreamID  int32
	TermID    int32
}

// DriverConductorProxy carries receiver notifications into the conductor.
// Any goroutine may produce; only the conductor consumes.
type DriverConductorProxy struct {
	ring *concurrency.RingBuffer[ConnectionCommand]
}

func NewDriverConductorProxy(capacity int) *DriverConductorProxy {
	return &DriverConductorProxy{ring: concurrency.NewRingBuffer[ConnectionCommand](uint64(capacity))}
}

// CreateConnection queues a new-connection notification; false when full.
func (p *DriverConductorProxy) CreateConnection(channel string, sessionID, streamID, termID int32) bool {
	return p.ring.Enqueue(ConnectionCommand{
		Channel:   channel,
		SessionID: sessionID,
		StreamID:  streamID,
		TermID:    termID,
	})
}

func (p *DriverConductorProxy) drain(fn func(ConnectionCommand), limit int) int {
	return p.ring.Drain(fn, limit)
}

func (p *DriverConductorProxy) Len() int { return p.ring.Len() }
