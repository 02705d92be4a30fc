// File: driver/publication.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

import (
	"fmt"

	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/core/timer"
)

// PublicationState is the lifecycle stage of a publication.
type PublicationState int32

const (
	PublicationActive PublicationState = iota
	PublicationDraining
	PublicationClosed
)

func (s PublicationState) String() string {
	switch s {
	case PublicationActive:
		return "ACTIVE"
	case PublicationDraining:
		return "DRAINING"
	case PublicationClosed:
		return "CLOSED"
	}
	return fmt.Sprintf("PublicationState(%d)", int32(s))
}

// Publication is a (channel, sessionId, streamId) stream owned by the
// conductor and handed to the sender. Only the conductor goroutine mutates it.
type Publication struct {
	registrationID int64
	clientID       int64
	sessionID      int32
	streamID       int32
	initialTermID  int32
	channel        *UdpChannel
	termBuffers    api.TermBuffers
	createdNs      int64

	refCount       int
	state          PublicationState
	lingerDeadline int64
	lingerTimer    timer.TimerID
}

var _ api.Publication = (*Publication)(nil)

func newPublication(registrationID, clientID int64, sessionID, streamID, initialTermID int32, ch *UdpChannel, tb api.TermBuffers, now int64) *Publication {
	return &Publication{
		registrationID: registrationID,
		clientID:       clientID,
		sessionID:      sessionID,
		streamID:       streamID,
		initialTermID:  initialTermID,
		channel:        ch,
		termBuffers:    tb,
		createdNs:      now,
		refCount:       1,
		state:          PublicationActive,
	}
}

// RegistrationID is the correlation id of the ADD that created the publication.
func (p *Publication) RegistrationID() int64 { return p.registrationID }

func (p *Publication) SessionID() int32 { return p.sessionID }

func (p *Publication) StreamID() int32 { return p.streamID }

// Channel returns the URI given by the creating client.
func (p *Publication) Channel() string { return p.channel.URI() }

func (p *Publication) UdpChannel() *UdpChannel { return p.channel }

func (p *Publication) TermBuffers() api.TermBuffers { return p.termBuffers }

func (p *Publication) InitialTermID() int32 { return p.initialTermID }

func (p *Publication) CreatedNs() int64 { return p.createdNs }

func (p *Publication) RefCount() int { return p.refCount }

func (p *Publication) State() PublicationState { return p.state }

// LingerDeadline is meaningful only while draining.
func (p *Publication) LingerDeadline() int64 { return p.lingerDeadline }

func (p *Publication) key() publicationKey {
	return publicationKey{channel: p.channel.CanonicalForm(), sessionID: p.sessionID, streamID: p.streamID}
}

type publicationKey struct {
	channel   string
	sessionID int32
	streamID  int32
}

// publicationRegistration binds one client ADD to a publication. Duplicate
// ADDs of a live triple share the publication through separate registrations.
type publicationRegistration struct {
	id          int64
	clientID    int64
	publication *Publication
}
