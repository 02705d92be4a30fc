// File: driver/subscription.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

// Subscription is one client's interest in a stream on a receive endpoint.
type Subscription struct {
	registrationID int64
	clientID       int64
	streamID       int32
	endpoint       *ReceiveChannelEndpoint
}

func (s *Subscription) RegistrationID() int64 { return s.registrationID }

func (s *Subscription) ClientID() int64 { return s.clientID }

func (s *Subscription) StreamID() int32 { return s.streamID }

func (s *Subscription) Endpoint() *ReceiveChannelEndpoint { return s.endpoint }
