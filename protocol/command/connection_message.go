// Package command
// Author: momentics <momentics@gmail.com>
//
// Connection message: ON_NEW_CONNECTION, sent to subscribers when a new
// remote publisher session appears on a subscribed stream.

package command

import "github.com/momentics/hioload-mediadriver/protocol"

const (
	connCorrelationIDOffset = 0
	connSessionIDOffset     = 8
	connStreamIDOffset      = 12
	connTermIDOffset        = 16
	connChannelOffset       = 20
)

// ConnectionMessage views an ON_NEW_CONNECTION response.
type ConnectionMessage struct {
	protocol.Flyweight
}

// CorrelationID returns the registration id of the matching subscription.
func (m *ConnectionMessage) CorrelationID() int64 {
	return m.Buffer().GetInt64(m.Offset() + connCorrelationIDOffset)
}

// SetCorrelationID sets the correlation id.
func (m *ConnectionMessage) SetCorrelationID(v int64) *ConnectionMessage {
	m.Buffer().PutInt64(m.Offset()+connCorrelationIDOffset, v)
	return m
}

// SessionID returns the remote session id.
func (m *ConnectionMessage) SessionID() int32 {
	return m.Buffer().GetInt32(m.Offset() + connSessionIDOffset)
}

// SetSessionID sets the session id.
func (m *ConnectionMessage) SetSessionID(v int32) *ConnectionMessage {
	m.Buffer().PutInt32(m.Offset()+connSessionIDOffset, v)
	return m
}

// StreamID returns the stream id.
func (m *ConnectionMessage) StreamID() int32 {
	return m.Buffer().GetInt32(m.Offset() + connStreamIDOffset)
}

// SetStreamID sets the stream id.
func (m *ConnectionMessage) SetStreamID(v int32) *ConnectionMessage {
	m.Buffer().PutInt32(m.Offset()+connStreamIDOffset, v)
	return m
}

// TermID returns the initial term id.
func (m *ConnectionMessage) TermID() int32 {
	return m.Buffer().GetInt32(m.Offset() + connTermIDOffset)
}

// SetTermID sets the initial term id.
func (m *ConnectionMessage) SetTermID(v int32) *ConnectionMessage {
	m.Buffer().PutInt32(m.Offset()+connTermIDOffset, v)
	return m
}

// Channel returns the channel URI.
func (m *ConnectionMessage) Channel() string {
	s, _ := m.Buffer().GetStringUtf8(m.Offset() + connChannelOffset)
	return s
}

// SetChannel sets the channel URI.
func (m *ConnectionMessage) SetChannel(channel string) *ConnectionMessage {
	m.Buffer().PutStringUtf8(m.Offset()+connChannelOffset, channel)
	return m
}

// Length returns the encoded length including the channel.
func (m *ConnectionMessage) Length() int {
	return connChannelOffset + 4 + int(m.Buffer().GetInt32(m.Offset()+connChannelOffset))
}
