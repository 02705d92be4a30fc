// Package api
// Author: momentics <momentics@gmail.com>
//
// Clock abstraction so time-driven components can be tested deterministically.

package api

import "time"

// NanoClock returns a monotonic timestamp in nanoseconds.
type NanoClock func() int64

var processStart = time.Now()

// SystemNanoClock is a NanoClock backed by the runtime monotonic clock.
func SystemNanoClock() int64 {
	return int64(time.Since(processStart))
}
