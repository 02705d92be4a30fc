// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import "errors"

var (
	// ErrCapacityNotPowerOfTwo indicates a ring data region of illegal size
	ErrCapacityNotPowerOfTwo = errors.New("ring capacity must be a positive power of two")

	// ErrInvalidTypeID indicates a record type id below 1
	ErrInvalidTypeID = errors.New("record type id must be greater than zero")

	// ErrMessageTooLong indicates a record larger than MaxMsgLength
	ErrMessageTooLong = errors.New("message exceeds max length")

	// ErrInsufficientCapacity indicates the ring has no room for the record right now
	ErrInsufficientCapacity = errors.New("insufficient capacity in ring")

	// ErrAgentRunning indicates Run was called on a runner that is already running
	ErrAgentRunning = errors.New("agent already running")
)
