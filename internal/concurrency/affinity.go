// File: internal/concurrency/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-platform CPU affinity management.

package concurrency

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrAffinityNotSupported indicates CPU affinity is not supported on this platform.
var ErrAffinityNotSupported = errors.New("CPU affinity not supported")

// PinCurrentThread locks the calling goroutine to its OS thread and binds
// that thread to cpuID. The goroutine stays locked even if binding fails.
func PinCurrentThread(cpuID int) error {
	if cpuID < 0 || cpuID >= runtime.NumCPU() {
		return fmt.Errorf("pin: cpu %d out of range [0,%d)", cpuID, runtime.NumCPU())
	}
	runtime.LockOSThread()
	return platformPinCurrentThread(cpuID)
}

// UnpinCurrentThread restores the process-wide affinity and unlocks the thread.
func UnpinCurrentThread() error {
	defer runtime.UnlockOSThread()
	return platformUnpinCurrentThread()
}

// NumCPUs returns the number of logical CPUs.
func NumCPUs() int {
	return runtime.NumCPU()
}
