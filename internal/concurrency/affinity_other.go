//go:build !linux && !windows
// +build !linux,!windows

// File: internal/concurrency/affinity_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

func platformPinCurrentThread(cpuID int) error {
	return ErrAffinityNotSupported
}

func platformUnpinCurrentThread() error {
	return nil
}

// AllowedCPUs lists every logical CPU; the platform cannot restrict it.
func AllowedCPUs() ([]int, error) {
	out := make([]int, NumCPUs())
	for i := range out {
		out[i] = i
	}
	return out, nil
}
