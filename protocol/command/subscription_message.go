// Package command
// Author: momentics <momentics@gmail.com>
//
// Subscription message: ADD_SUBSCRIPTION and REMOVE_SUBSCRIPTION requests.
// A removal names the registration it removes via RegistrationCorrelationID.

package command

const (
	subRegistrationCorrelationIDOffset = 16
	subStreamIDOffset                  = 24
	subChannelOffset                   = 28
)

// SubscriptionMessage views a subscription command.
type SubscriptionMessage struct {
	CorrelatedMessage
}

// RegistrationCorrelationID returns the correlation id of the original ADD_SUBSCRIPTION.
func (m *SubscriptionMessage) RegistrationCorrelationID() int64 {
	return m.Buffer().GetInt64(m.Offset() + subRegistrationCorrelationIDOffset)
}

// SetRegistrationCorrelationID sets the registration correlation id.
func (m *SubscriptionMessage) SetRegistrationCorrelationID(v int64) *SubscriptionMessage {
	m.Buffer().PutInt64(m.Offset()+subRegistrationCorrelationIDOffset, v)
	return m
}

// StreamID returns the stream id.
func (m *SubscriptionMessage) StreamID() int32 {
	return m.Buffer().GetInt32(m.Offset() + subStreamIDOffset)
}

// SetStreamID sets the stream id.
func (m *SubscriptionMessage) SetStreamID(v int32) *SubscriptionMessage {
	m.Buffer().PutInt32(m.Offset()+subStreamIDOffset, v)
	return m
}

// Channel returns the channel URI.
func (m *SubscriptionMessage) Channel() string {
	s, _ := m.Buffer().GetStringUtf8(m.Offset() + subChannelOffset)
	return s
}

// SetChannel sets the channel URI.
func (m *SubscriptionMessage) SetChannel(channel string) *SubscriptionMessage {
	m.Buffer().PutStringUtf8(m.Offset()+subChannelOffset, channel)
	return m
}

// Length returns the encoded length including the channel.
func (m *SubscriptionMessage) Length() int {
	return subChannelOffset + 4 + int(m.Buffer().GetInt32(m.Offset()+subChannelOffset))
}

// SubscriptionMessageLength is the encoded length of a message carrying channel.
func SubscriptionMessageLength(channel string) int {
	return subChannelOffset + 4 + len(channel)
}
