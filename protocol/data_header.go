// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Data frame header: generic header followed by stream addressing fields.

package protocol

const (
	sessionIDFieldOffset  = 8
	streamIDFieldOffset   = 12
	termIDFieldOffset     = 16
	termOffsetFieldOffset = 20
)

// DataHeaderFlyweight views a DATA frame header.
type DataHeaderFlyweight struct {
	HeaderFlyweight
}

// SessionID returns the session id.
func (d *DataHeaderFlyweight) SessionID() int32 {
	return d.buf.GetInt32(d.offset + sessionIDFieldOffset)
}

// SetSessionID sets the session id.
func (d *DataHeaderFlyweight) SetSessionID(v int32) *DataHeaderFlyweight {
	d.buf.PutInt32(d.offset+sessionIDFieldOffset, v)
	return d
}

// StreamID returns the stream id.
func (d *DataHeaderFlyweight) StreamID() int32 {
	return d.buf.GetInt32(d.offset + streamIDFieldOffset)
}

// SetStreamID sets the stream id.
func (d *DataHeaderFlyweight) SetStreamID(v int32) *DataHeaderFlyweight {
	d.buf.PutInt32(d.offset+streamIDFieldOffset, v)
	return d
}

// TermID returns the term id.
func (d *DataHeaderFlyweight) TermID() int32 {
	return d.buf.GetInt32(d.offset + termIDFieldOffset)
}

// SetTermID sets the term id.
func (d *DataHeaderFlyweight) SetTermID(v int32) *DataHeaderFlyweight {
	d.buf.PutInt32(d.offset+termIDFieldOffset, v)
	return d
}

// TermOffset returns the offset of the frame within its term.
func (d *DataHeaderFlyweight) TermOffset() int32 {
	return d.buf.GetInt32(d.offset + termOffsetFieldOffset)
}

// SetTermOffset sets the term offset.
func (d *DataHeaderFlyweight) SetTermOffset(v int32) *DataHeaderFlyweight {
	d.buf.PutInt32(d.offset+termOffsetFieldOffset, v)
	return d
}

// DataOffset is the buffer index of the first payload byte.
func (d *DataHeaderFlyweight) DataOffset() int {
	return d.offset + DataHeaderLength
}
