// File: protocol/flyweight.go
// Package protocol
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Flyweight is the re-bindable base of every frame view. It holds nothing but
// the (buffer, offset) pair it was last wrapped onto.

package protocol

import "github.com/momentics/hioload-mediadriver/core/buffer"

// View is satisfied by every flyweight.
type View interface {
	Buffer() *buffer.AtomicBuffer
	Offset() int
}

// Flyweight overlays typed field access on a region of an AtomicBuffer.
type Flyweight struct {
	buf    *buffer.AtomicBuffer
	offset int
}

// Wrap binds the view to buf at offset. Each call is a full reset.
func (f *Flyweight) Wrap(buf *buffer.AtomicBuffer, offset int) {
	f.buf = buf
	f.offset = offset
}

// Buffer returns the wrapped buffer.
func (f *Flyweight) Buffer() *buffer.AtomicBuffer {
	return f.buf
}

// Offset returns the base offset of the view.
func (f *Flyweight) Offset() int {
	return f.offset
}
