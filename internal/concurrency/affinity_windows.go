//go:build windows
// +build windows

// File: internal/concurrency/affinity_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reference: https://learn.microsoft.com/en-us/windows/win32/api/winbase/nf-winbase-setthreadaffinitymask

package concurrency

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask  = modkernel32.NewProc("SetThreadAffinityMask")
	procGetProcessAffinityMask = modkernel32.NewProc("GetProcessAffinityMask")
)

func processAffinityMask() (uintptr, error) {
	var process, system uintptr
	ok, _, err := procGetProcessAffinityMask.Call(uintptr(windows.CurrentProcess()),
		uintptr(unsafe.Pointer(&process)), uintptr(unsafe.Pointer(&system)))
	if ok == 0 {
		return 0, fmt.Errorf("GetProcessAffinityMask: %w", err)
	}
	return process, nil
}

func platformPinCurrentThread(cpuID int) error {
	if cpuID >= 64 {
		return fmt.Errorf("pin: cpu %d beyond a single processor group", cpuID)
	}
	old, _, err := procSetThreadAffinityMask.Call(uintptr(windows.CurrentThread()), uintptr(1)<<uint(cpuID))
	if old == 0 {
		return fmt.Errorf("SetThreadAffinityMask cpu=%d: %w", cpuID, err)
	}
	return nil
}

func platformUnpinCurrentThread() error {
	process, err := processAffinityMask()
	if err != nil {
		return err
	}
	old, _, callErr := procSetThreadAffinityMask.Call(uintptr(windows.CurrentThread()), process)
	if old == 0 {
		return callErr
	}
	return nil
}

// AllowedCPUs lists the CPUs the process may currently run on.
func AllowedCPUs() ([]int, error) {
	process, err := processAffinityMask()
	if err != nil {
		return nil, err
	}
	var out []int
	for i := 0; i < 64 && i < NumCPUs(); i++ {
		if process&(1<<uint(i)) != 0 {
			out = append(out, i)
		}
	}
	return out, nil
}
