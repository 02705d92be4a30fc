// Package api
// Author: momentics <momentics@gmail.com>
//
// Term buffer allocation contract. The conductor never looks inside term
// buffers; it only forwards their locations to clients.

package api

// BufferCount is the number of mapped regions per publication:
// three term buffers followed by three state buffers.
const BufferCount = 6

// TermBuffers is an allocated set of log buffers for one stream.
type TermBuffers interface {
	// Location returns the file path (or other locator) of buffer i.
	Location(i int) string
	// Offset returns the byte offset of buffer i inside its location.
	Offset(i int) int32
	// Length returns the byte length of buffer i.
	Length(i int) int32
	// Close releases the underlying mappings.
	Close() error
}

// TermBuffersFactory allocates term buffers for a new stream.
type TermBuffersFactory interface {
	NewPublication(channel string, sessionID, streamID int32) (TermBuffers, error)
}
