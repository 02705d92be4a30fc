// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Wire protocol constants: frame types, flags and fixed header lengths.

package protocol

const (
	// CurrentVersion is written into the version field of every frame.
	CurrentVersion uint8 = 1

	// Frame types.
	HdrTypePad  uint8 = 0x00
	HdrTypeData uint8 = 0x01
	HdrTypeNak  uint8 = 0x02
	HdrTypeSM   uint8 = 0x03
	HdrTypeErr  uint8 = 0x04

	// Data frame flags.
	BeginFlag        uint8 = 0x80
	EndFlag          uint8 = 0x40
	BeginAndEndFlags       = BeginFlag | EndFlag

	// Fixed header lengths in bytes.
	HeaderLength        = 8
	DataHeaderLength    = 24
	NakHeaderLength     = 28
	StatusMessageLength = 28
	ErrorHeaderLength   = 12

	// FrameAlignment is the alignment of frames inside a term.
	FrameAlignment = 8
)

// HdrTypeName returns a printable name for a frame type.
func HdrTypeName(t uint8) string {
	switch t {
	case HdrTypePad:
		return "PAD"
	case HdrTypeData:
		return "DATA"
	case HdrTypeNak:
		return "NAK"
	case HdrTypeSM:
		return "SM"
	case HdrTypeErr:
		return "ERR"
	default:
		return "UNKNOWN"
	}
}

// minFrameLength is the smallest legal frameLength for each known type.
func minFrameLength(t uint8) (int, bool) {
	switch t {
	case HdrTypePad:
		return HeaderLength, true
	case HdrTypeData:
		return DataHeaderLength, true
	case HdrTypeNak:
		return NakHeaderLength, true
	case HdrTypeSM:
		return StatusMessageLength, true
	case HdrTypeErr:
		return ErrorHeaderLength, true
	default:
		return 0, false
	}
}
