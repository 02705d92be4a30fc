// File: api/proxy.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One-way hand-off contracts between the conductor and the other execution
// contexts of the driver. Every operation is non-blocking and returns false
// when the hand-off could not be queued.

package api

// Publication is the view of a publication handed to the sender.
type Publication interface {
	RegistrationID() int64
	SessionID() int32
	StreamID() int32
	Channel() string
	TermBuffers() TermBuffers
}

// ReceiveEndpoint is the view of a receive channel endpoint handed to the receiver.
type ReceiveEndpoint interface {
	Channel() string
	StreamCount() int
}

// SenderProxy hands publications to the sender context.
type SenderProxy interface {
	NewPublication(pub Publication) bool
	ClosePublication(pub Publication) bool
}

// ReceiverProxy hands endpoint and subscription changes to the receiver context.
type ReceiverProxy interface {
	RegisterEndpoint(ep ReceiveEndpoint) bool
	AddSubscription(ep ReceiveEndpoint, streamID int32) bool
	RemoveSubscription(ep ReceiveEndpoint, streamID int32) bool
	CloseReceiveChannelEndpoint(ep ReceiveEndpoint) bool
}

// ClientProxy delivers responses to client processes.
type ClientProxy interface {
	OnPublicationReady(channel string, sessionID, streamID, termID int32, buffers TermBuffers, correlationID int64) bool
	OperationSucceeded(correlationID int64) bool
	OnError(code ErrorCode, message string, correlationID int64) bool
	OnNewConnection(channel string, sessionID, streamID, termID int32, correlationID int64) bool
}
