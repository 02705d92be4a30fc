// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Error frame: header, the raw bytes of the offending frame, then optional
// UTF-8 error text. The text length is derived from frameLength.

package protocol

const offendingHeaderLengthFieldOffset = 8

// ErrorFlyweight views an ERR frame.
type ErrorFlyweight struct {
	HeaderFlyweight
}

// OffendingHeaderLength is the byte length of the embedded frame.
func (e *ErrorFlyweight) OffendingHeaderLength() int32 {
	return e.buf.GetInt32(e.offset + offendingHeaderLengthFieldOffset)
}

// OffendingHeaderOffset is the buffer index where the embedded frame begins.
func (e *ErrorFlyweight) OffendingHeaderOffset() int {
	return e.offset + ErrorHeaderLength
}

// SetOffendingHeader copies length bytes of the frame viewed by src into
// this frame and records their length.
func (e *ErrorFlyweight) SetOffendingHeader(src View, length int) *ErrorFlyweight {
	e.buf.PutInt32(e.offset+offendingHeaderLengthFieldOffset, int32(length))
	e.buf.PutBuffer(e.OffendingHeaderOffset(), src.Buffer(), src.Offset(), length)
	return e
}

// ErrorMessageOffset is the buffer index of the first error text byte.
func (e *ErrorFlyweight) ErrorMessageOffset() int {
	return e.OffendingHeaderOffset() + int(e.OffendingHeaderLength())
}

// ErrorStringLength is frameLength minus the header and embedded frame.
func (e *ErrorFlyweight) ErrorStringLength() int {
	return int(e.FrameLength()) - ErrorHeaderLength - int(e.OffendingHeaderLength())
}

// SetErrorMessage writes the error text after the embedded frame.
func (e *ErrorFlyweight) SetErrorMessage(msg []byte) *ErrorFlyweight {
	e.buf.PutBytes(e.ErrorMessageOffset(), msg)
	return e
}

// ErrorMessage copies out the error text.
func (e *ErrorFlyweight) ErrorMessage() []byte {
	n := e.ErrorStringLength()
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	e.buf.GetBytes(e.ErrorMessageOffset(), out)
	return out
}
