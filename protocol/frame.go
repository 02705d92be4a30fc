// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Generic frame header shared by every wire frame.
//
//	 0               1               2               3
//	+---------------+---------------+---------------+---------------+
//	|    Version    |     Flags     |     Type      |   Reserved    |
//	+---------------+---------------+---------------+---------------+
//	|                         Frame Length                          |
//	+---------------------------------------------------------------+

package protocol

const (
	versionFieldOffset     = 0
	flagsFieldOffset       = 1
	typeFieldOffset        = 2
	frameLengthFieldOffset = 4
)

// HeaderFlyweight reads and writes the generic 8-byte header.
type HeaderFlyweight struct {
	Flyweight
}

// Version returns the protocol version.
func (h *HeaderFlyweight) Version() uint8 {
	return h.buf.GetUint8(h.offset + versionFieldOffset)
}

// SetVersion sets the protocol version.
func (h *HeaderFlyweight) SetVersion(v uint8) *HeaderFlyweight {
	h.buf.PutUint8(h.offset+versionFieldOffset, v)
	return h
}

// Flags returns the flags byte.
func (h *HeaderFlyweight) Flags() uint8 {
	return h.buf.GetUint8(h.offset + flagsFieldOffset)
}

// SetFlags sets the flags byte.
func (h *HeaderFlyweight) SetFlags(v uint8) *HeaderFlyweight {
	h.buf.PutUint8(h.offset+flagsFieldOffset, v)
	return h
}

// HeaderType returns the frame type.
func (h *HeaderFlyweight) HeaderType() uint8 {
	return h.buf.GetUint8(h.offset + typeFieldOffset)
}

// SetHeaderType sets the frame type.
func (h *HeaderFlyweight) SetHeaderType(v uint8) *HeaderFlyweight {
	h.buf.PutUint8(h.offset+typeFieldOffset, v)
	return h
}

// FrameLength is the byte length of the whole frame, payload included.
func (h *HeaderFlyweight) FrameLength() int32 {
	return h.buf.GetInt32(h.offset + frameLengthFieldOffset)
}

// SetFrameLength sets the frame length.
func (h *HeaderFlyweight) SetFrameLength(v int32) *HeaderFlyweight {
	h.buf.PutInt32(h.offset+frameLengthFieldOffset, v)
	return h
}
