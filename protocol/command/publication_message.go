// Package command
// Author: momentics <momentics@gmail.com>
//
// Publication message: ADD_PUBLICATION request.
//
//	 0                   1                   2                   3
//	+---------------------------------------------------------------+
//	|                    Correlated Message (16)                    |
//	+---------------------------------------------------------------+
//	|                          Session ID                           |
//	+---------------------------------------------------------------+
//	|                           Stream ID                           |
//	+---------------------------------------------------------------+
//	|                        Channel Length                         |
//	+---------------------------------------------------------------+
//	|                        Channel (UTF-8)                       ...
//	+---------------------------------------------------------------+

package command

const (
	pubSessionIDOffset = 16
	pubStreamIDOffset  = 20
	pubChannelOffset   = 24
)

// PublicationMessage views an ADD_PUBLICATION command.
type PublicationMessage struct {
	CorrelatedMessage
}

// SessionID returns the session id.
func (m *PublicationMessage) SessionID() int32 {
	return m.Buffer().GetInt32(m.Offset() + pubSessionIDOffset)
}

// SetSessionID sets the session id.
func (m *PublicationMessage) SetSessionID(v int32) *PublicationMessage {
	m.Buffer().PutInt32(m.Offset()+pubSessionIDOffset, v)
	return m
}

// StreamID returns the stream id.
func (m *PublicationMessage) StreamID() int32 {
	return m.Buffer().GetInt32(m.Offset() + pubStreamIDOffset)
}

// SetStreamID sets the stream id.
func (m *PublicationMessage) SetStreamID(v int32) *PublicationMessage {
	m.Buffer().PutInt32(m.Offset()+pubStreamIDOffset, v)
	return m
}

// Channel returns the channel URI.
func (m *PublicationMessage) Channel() string {
	s, _ := m.Buffer().GetStringUtf8(m.Offset() + pubChannelOffset)
	return s
}

// SetChannel sets the channel URI.
func (m *PublicationMessage) SetChannel(channel string) *PublicationMessage {
	m.Buffer().PutStringUtf8(m.Offset()+pubChannelOffset, channel)
	return m
}

// Length returns the encoded length including the channel.
func (m *PublicationMessage) Length() int {
	return pubChannelOffset + 4 + int(m.Buffer().GetInt32(m.Offset()+pubChannelOffset))
}

// PublicationMessageLength is the encoded length of a message carrying channel.
func PublicationMessageLength(channel string) int {
	return pubChannelOffset + 4 + len(channel)
}
