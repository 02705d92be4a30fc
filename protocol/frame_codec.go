// File: protocol/frame_codec.go
// Package protocol
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Validation of inbound frames before any typed flyweight is trusted.
// Malformed frames are rejected with an error, never by panicking.

package protocol

import (
	"errors"
	"fmt"

	"github.com/momentics/hioload-mediadriver/core/buffer"
)

var (
	ErrFrameTooShort      = errors.New("frame too short")
	ErrFrameLengthInvalid = errors.New("frame length invalid")
	ErrUnknownFrameType   = errors.New("unknown frame type")
	ErrVersionMismatch    = errors.New("unsupported protocol version")
)

// ValidateHeader checks the frame starting at offset against the number of
// bytes actually available and returns its frame type and length.
func ValidateHeader(buf *buffer.AtomicBuffer, offset, available int) (uint8, int, error) {
	if available < HeaderLength {
		return 0, 0, ErrFrameTooShort
	}
	if err := buf.CheckBounds(offset, available); err != nil {
		return 0, 0, fmt.Errorf("validate header: %w", err)
	}

	var h HeaderFlyweight
	h.Wrap(buf, offset)
	if v := h.Version(); v != CurrentVersion {
		return 0, 0, fmt.Errorf("%w: %d", ErrVersionMismatch, v)
	}
	t := h.HeaderType()
	minLen, ok := minFrameLength(t)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %#x", ErrUnknownFrameType, t)
	}
	length := int(h.FrameLength())
	if length < minLen || length > available {
		return 0, 0, fmt.Errorf("%w: type=%s length=%d available=%d", ErrFrameLengthInvalid, HdrTypeName(t), length, available)
	}
	if t == HdrTypeErr {
		var e ErrorFlyweight
		e.Wrap(buf, offset)
		if ol := int(e.OffendingHeaderLength()); ol < 0 || ol > length-ErrorHeaderLength {
			return 0, 0, fmt.Errorf("%w: offending header length %d", ErrFrameLengthInvalid, ol)
		}
	}
	return t, length, nil
}

// AlignedLength rounds length up to FrameAlignment.
func AlignedLength(length int) int {
	return (length + FrameAlignment - 1) &^ (FrameAlignment - 1)
}
