//go:build linux
// +build linux

// File: internal/concurrency/affinity_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	processMaskOnce sync.Once
	processMask     unix.CPUSet
	processMaskErr  error
)

func loadProcessMask() {
	processMaskErr = unix.SchedGetaffinity(0, &processMask)
}

func platformPinCurrentThread(cpuID int) error {
	processMaskOnce.Do(loadProcessMask)
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("sched_setaffinity cpu=%d: %w", cpuID, err)
	}
	return nil
}

func platformUnpinCurrentThread() error {
	processMaskOnce.Do(loadProcessMask)
	if processMaskErr != nil {
		return processMaskErr
	}
	return unix.SchedSetaffinity(0, &processMask)
}

// AllowedCPUs lists the CPUs the process may currently run on.
func AllowedCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}
	out := make([]int, 0, set.Count())
	for i := 0; i < NumCPUs(); i++ {
		if set.IsSet(i) {
			out = append(out, i)
		}
	}
	return out, nil
}
