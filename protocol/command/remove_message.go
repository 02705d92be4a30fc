// Package command
// Author: momentics <momentics@gmail.com>
//
// Remove message: REMOVE_PUBLICATION request. The registration id is the
// handle; session and stream must match the registered publication.

package command

const (
	removeRegistrationIDOffset = 16
	removeSessionIDOffset      = 24
	removeStreamIDOffset       = 28

	// RemoveMessageLength is the encoded size of a RemoveMessage.
	RemoveMessageLength = 32
)

// RemoveMessage views a REMOVE_PUBLICATION command.
type RemoveMessage struct {
	CorrelatedMessage
}

// RegistrationID returns the id of the publication to remove.
func (m *RemoveMessage) RegistrationID() int64 {
	return m.Buffer().GetInt64(m.Offset() + removeRegistrationIDOffset)
}

// SetRegistrationID sets the registration id.
func (m *RemoveMessage) SetRegistrationID(v int64) *RemoveMessage {
	m.Buffer().PutInt64(m.Offset()+removeRegistrationIDOffset, v)
	return m
}

// SessionID returns the session id.
func (m *RemoveMessage) SessionID() int32 {
	return m.Buffer().GetInt32(m.Offset() + removeSessionIDOffset)
}

// SetSessionID sets the session id.
func (m *RemoveMessage) SetSessionID(v int32) *RemoveMessage {
	m.Buffer().PutInt32(m.Offset()+removeSessionIDOffset, v)
	return m
}

// StreamID returns the stream id.
func (m *RemoveMessage) StreamID() int32 {
	return m.Buffer().GetInt32(m.Offset() + removeStreamIDOffset)
}

// SetStreamID sets the stream id.
func (m *RemoveMessage) SetStreamID(v int32) *RemoveMessage {
	m.Buffer().PutInt32(m.Offset()+removeStreamIDOffset, v)
	return m
}

// Length returns the encoded length.
func (m *RemoveMessage) Length() int {
	return RemoveMessageLength
}
