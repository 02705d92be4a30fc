// File: core/buffer/atomic_buffer.go
// Package buffer
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// AtomicBuffer is a bounds-checked view over a byte region that may live on
// the Go heap or in a memory-mapped file shared with other processes.
// All multi-byte accessors are little-endian.

package buffer

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"unsafe"
)

// SizeOfInt32 and SizeOfInt64 are the field widths used by flyweights.
const (
	SizeOfInt32 = 4
	SizeOfInt64 = 8
)

// BoundsError reports an access outside the wrapped region.
type BoundsError struct {
	Index    int
	Length   int
	Capacity int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("index out of bounds: index=%d length=%d capacity=%d", e.Index, e.Length, e.Capacity)
}

// AtomicBuffer never owns its memory; it is a window onto b.
type AtomicBuffer struct {
	b []byte
}

// Wrap creates a view over b.
func Wrap(b []byte) *AtomicBuffer {
	return &AtomicBuffer{b: b}
}

// Make allocates a zeroed heap region of the given capacity.
func Make(capacity int) *AtomicBuffer {
	return &AtomicBuffer{b: make([]byte, capacity)}
}

// Rewrap points the view at a new region.
func (a *AtomicBuffer) Rewrap(b []byte) {
	a.b = b
}

// Capacity returns the byte length of the region.
func (a *AtomicBuffer) Capacity() int {
	return len(a.b)
}

// Bytes exposes the raw region.
func (a *AtomicBuffer) Bytes() []byte {
	return a.b
}

// CheckBounds returns a *BoundsError when [index, index+length) is not inside the region.
func (a *AtomicBuffer) CheckBounds(index, length int) error {
	if index < 0 || length < 0 || index > len(a.b)-length {
		return &BoundsError{Index: index, Length: length, Capacity: len(a.b)}
	}
	return nil
}

func (a *AtomicBuffer) boundsCheck(index, length int) {
	if err := a.CheckBounds(index, length); err != nil {
		panic(err)
	}
}

// GetUint8 reads one byte.
func (a *AtomicBuffer) GetUint8(index int) uint8 {
	a.boundsCheck(index, 1)
	return a.b[index]
}

// PutUint8 writes one byte.
func (a *AtomicBuffer) PutUint8(index int, v uint8) {
	a.boundsCheck(index, 1)
	a.b[index] = v
}

// GetInt32 reads a little-endian int32.
func (a *AtomicBuffer) GetInt32(index int) int32 {
	a.boundsCheck(index, SizeOfInt32)
	return int32(binary.LittleEndian.Uint32(a.b[index:]))
}

// PutInt32 writes a little-endian int32.
func (a *AtomicBuffer) PutInt32(index int, v int32) {
	a.boundsCheck(index, SizeOfInt32)
	binary.LittleEndian.PutUint32(a.b[index:], uint32(v))
}

// GetInt64 reads a little-endian int64.
func (a *AtomicBuffer) GetInt64(index int) int64 {
	a.boundsCheck(index, SizeOfInt64)
	return int64(binary.LittleEndian.Uint64(a.b[index:]))
}

// PutInt64 writes a little-endian int64.
func (a *AtomicBuffer) PutInt64(index int, v int64) {
	a.boundsCheck(index, SizeOfInt64)
	binary.LittleEndian.PutUint64(a.b[index:], uint64(v))
}

// GetBytes copies length bytes starting at index into dst.
func (a *AtomicBuffer) GetBytes(index int, dst []byte) {
	a.boundsCheck(index, len(dst))
	copy(dst, a.b[index:index+len(dst)])
}

// PutBytes copies src into the region at index.
func (a *AtomicBuffer) PutBytes(index int, src []byte) {
	a.boundsCheck(index, len(src))
	copy(a.b[index:], src)
}

// PutBuffer copies length bytes from src at srcIndex into this region at index.
func (a *AtomicBuffer) PutBuffer(index int, src *AtomicBuffer, srcIndex, length int) {
	a.boundsCheck(index, length)
	src.boundsCheck(srcIndex, length)
	copy(a.b[index:index+length], src.b[srcIndex:srcIndex+length])
}

// Slice returns the sub-slice [index, index+length) without copying.
func (a *AtomicBuffer) Slice(index, length int) []byte {
	a.boundsCheck(index, length)
	return a.b[index : index+length : index+length]
}

// SetMemory fills length bytes at index with v.
func (a *AtomicBuffer) SetMemory(index, length int, v byte) {
	a.boundsCheck(index, length)
	region := a.b[index : index+length]
	for i := range region {
		region[i] = v
	}
}

// GetStringUtf8 reads a length-prefixed UTF-8 string and returns it with the
// total number of bytes it occupies (prefix included).
func (a *AtomicBuffer) GetStringUtf8(index int) (string, int) {
	n := int(a.GetInt32(index))
	a.boundsCheck(index+SizeOfInt32, n)
	return string(a.b[index+SizeOfInt32 : index+SizeOfInt32+n]), SizeOfInt32 + n
}

// PutStringUtf8 writes s as a 4-byte byte-count prefix followed by its raw
// bytes and returns the number of bytes written.
func (a *AtomicBuffer) PutStringUtf8(index int, s string) int {
	a.boundsCheck(index, SizeOfInt32+len(s))
	binary.LittleEndian.PutUint32(a.b[index:], uint32(len(s)))
	copy(a.b[index+SizeOfInt32:], s)
	return SizeOfInt32 + len(s)
}

// GetStringWithoutLengthUtf8 reads length raw bytes as a string.
func (a *AtomicBuffer) GetStringWithoutLengthUtf8(index, length int) string {
	a.boundsCheck(index, length)
	return string(a.b[index : index+length])
}

// PutStringWithoutLengthUtf8 writes the raw bytes of s and returns len(s).
func (a *AtomicBuffer) PutStringWithoutLengthUtf8(index int, s string) int {
	a.boundsCheck(index, len(s))
	copy(a.b[index:], s)
	return len(s)
}

func (a *AtomicBuffer) int64Ptr(index int) *int64 {
	a.boundsCheck(index, SizeOfInt64)
	p := unsafe.Pointer(&a.b[index])
	if uintptr(p)%SizeOfInt64 != 0 {
		panic(fmt.Sprintf("unaligned int64 access at index %d", index))
	}
	return (*int64)(p)
}

func (a *AtomicBuffer) int32Ptr(index int) *int32 {
	a.boundsCheck(index, SizeOfInt32)
	p := unsafe.Pointer(&a.b[index])
	if uintptr(p)%SizeOfInt32 != 0 {
		panic(fmt.Sprintf("unaligned int32 access at index %d", index))
	}
	return (*int32)(p)
}

// GetInt64Volatile performs an atomic load.
func (a *AtomicBuffer) GetInt64Volatile(index int) int64 {
	return atomic.LoadInt64(a.int64Ptr(index))
}

// PutInt64Ordered performs an atomic store.
func (a *AtomicBuffer) PutInt64Ordered(index int, v int64) {
	atomic.StoreInt64(a.int64Ptr(index), v)
}

// CompareAndSetInt64 swaps in update when the current value equals expected.
func (a *AtomicBuffer) CompareAndSetInt64(index int, expected, update int64) bool {
	return atomic.CompareAndSwapInt64(a.int64Ptr(index), expected, update)
}

// GetAndAddInt64 adds delta and returns the previous value.
func (a *AtomicBuffer) GetAndAddInt64(index int, delta int64) int64 {
	return atomic.AddInt64(a.int64Ptr(index), delta) - delta
}

// GetInt32Volatile performs an atomic load.
func (a *AtomicBuffer) GetInt32Volatile(index int) int32 {
	return atomic.LoadInt32(a.int32Ptr(index))
}

// PutInt32Ordered performs an atomic store.
func (a *AtomicBuffer) PutInt32Ordered(index int, v int32) {
	atomic.StoreInt32(a.int32Ptr(index), v)
}
