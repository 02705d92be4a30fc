// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Status message: receiver feedback on consumption progress and window.

package protocol

const (
	completedTermOffsetFieldOffset = 20
	receiverWindowFieldOffset      = 24
)

// StatusMessageFlyweight views an SM frame.
type StatusMessageFlyweight struct {
	HeaderFlyweight
}

// SessionID returns the session id.
func (s *StatusMessageFlyweight) SessionID() int32 {
	return s.buf.GetInt32(s.offset + sessionIDFieldOffset)
}

// SetSessionID sets the session id.
func (s *StatusMessageFlyweight) SetSessionID(v int32) *StatusMessageFlyweight {
	s.buf.PutInt32(s.offset+sessionIDFieldOffset, v)
	return s
}

// StreamID returns the stream id.
func (s *StatusMessageFlyweight) StreamID() int32 {
	return s.buf.GetInt32(s.offset + streamIDFieldOffset)
}

// SetStreamID sets the stream id.
func (s *StatusMessageFlyweight) SetStreamID(v int32) *StatusMessageFlyweight {
	s.buf.PutInt32(s.offset+streamIDFieldOffset, v)
	return s
}

// TermID returns the term the receiver is consuming.
func (s *StatusMessageFlyweight) TermID() int32 {
	return s.buf.GetInt32(s.offset + termIDFieldOffset)
}

// SetTermID sets the term id.
func (s *StatusMessageFlyweight) SetTermID(v int32) *StatusMessageFlyweight {
	s.buf.PutInt32(s.offset+termIDFieldOffset, v)
	return s
}

// CompletedTermOffset returns the highest contiguous offset received.
func (s *StatusMessageFlyweight) CompletedTermOffset() int32 {
	return s.buf.GetInt32(s.offset + completedTermOffsetFieldOffset)
}

// SetCompletedTermOffset sets the completed term offset.
func (s *StatusMessageFlyweight) SetCompletedTermOffset(v int32) *StatusMessageFlyweight {
	s.buf.PutInt32(s.offset+completedTermOffsetFieldOffset, v)
	return s
}

// ReceiverWindow returns the receiver window in bytes.
func (s *StatusMessageFlyweight) ReceiverWindow() int32 {
	return s.buf.GetInt32(s.offset + receiverWindowFieldOffset)
}

// SetReceiverWindow sets the receiver window.
func (s *StatusMessageFlyweight) SetReceiverWindow(v int32) *StatusMessageFlyweight {
	s.buf.PutInt32(s.offset+receiverWindowFieldOffset, v)
	return s
}
