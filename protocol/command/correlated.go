// Package command
// Author: momentics <momentics@gmail.com>
//
// Correlated message: the common prefix of every client command and the
// whole body of a keepalive.
//
//	 0                   1                   2                   3
//	+---------------------------------------------------------------+
//	|                           Client ID                           |
//	|                                                               |
//	+---------------------------------------------------------------+
//	|                        Correlation ID                         |
//	|                                                               |
//	+---------------------------------------------------------------+

package command

import "github.com/momentics/hioload-mediadriver/protocol"

const (
	clientIDOffset      = 0
	correlationIDOffset = 8

	// CorrelatedMessageLength is the encoded size of a CorrelatedMessage.
	CorrelatedMessageLength = 16
)

// CorrelatedMessage views (clientId, correlationId).
type CorrelatedMessage struct {
	protocol.Flyweight
}

// ClientID returns the id of the sending client.
func (m *CorrelatedMessage) ClientID() int64 {
	return m.Buffer().GetInt64(m.Offset() + clientIDOffset)
}

// SetClientID sets the client id.
func (m *CorrelatedMessage) SetClientID(v int64) *CorrelatedMessage {
	m.Buffer().PutInt64(m.Offset()+clientIDOffset, v)
	return m
}

// CorrelationID returns the id used to match the response.
func (m *CorrelatedMessage) CorrelationID() int64 {
	return m.Buffer().GetInt64(m.Offset() + correlationIDOffset)
}

// SetCorrelationID sets the correlation id.
func (m *CorrelatedMessage) SetCorrelationID(v int64) *CorrelatedMessage {
	m.Buffer().PutInt64(m.Offset()+correlationIDOffset, v)
	return m
}

// Length returns the encoded length.
func (m *CorrelatedMessage) Length() int {
	return CorrelatedMessageLength
}
