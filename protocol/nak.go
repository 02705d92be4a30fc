// Package protocol
// Author: momentics <momentics@gmail.com>
//
// NAK frame: identifies a byte range of a term that must be retransmitted.

package protocol

const nakLengthFieldOffset = 24

// NakFlyweight views a NAK frame.
type NakFlyweight struct {
	HeaderFlyweight
}

// SessionID returns the session id.
func (n *NakFlyweight) SessionID() int32 {
	return n.buf.GetInt32(n.offset + sessionIDFieldOffset)
}

// SetSessionID sets the session id.
func (n *NakFlyweight) SetSessionID(v int32) *NakFlyweight {
	n.buf.PutInt32(n.offset+sessionIDFieldOffset, v)
	return n
}

// StreamID returns the stream id.
func (n *NakFlyweight) StreamID() int32 {
	return n.buf.GetInt32(n.offset + streamIDFieldOffset)
}

// SetStreamID sets the stream id.
func (n *NakFlyweight) SetStreamID(v int32) *NakFlyweight {
	n.buf.PutInt32(n.offset+streamIDFieldOffset, v)
	return n
}

// TermID returns the term id of the missing range.
func (n *NakFlyweight) TermID() int32 {
	return n.buf.GetInt32(n.offset + termIDFieldOffset)
}

// SetTermID sets the term id.
func (n *NakFlyweight) SetTermID(v int32) *NakFlyweight {
	n.buf.PutInt32(n.offset+termIDFieldOffset, v)
	return n
}

// TermOffset returns the start of the missing range.
func (n *NakFlyweight) TermOffset() int32 {
	return n.buf.GetInt32(n.offset + termOffsetFieldOffset)
}

// SetTermOffset sets the start of the missing range.
func (n *NakFlyweight) SetTermOffset(v int32) *NakFlyweight {
	n.buf.PutInt32(n.offset+termOffsetFieldOffset, v)
	return n
}

// Length returns the byte length of the missing range.
func (n *NakFlyweight) Length() int32 {
	return n.buf.GetInt32(n.offset + nakLengthFieldOffset)
}

// SetLength sets the byte length of the missing range.
func (n *NakFlyweight) SetLength(v int32) *NakFlyweight {
	n.buf.PutInt32(n.offset+nakLengthFieldOffset, v)
	return n
}
