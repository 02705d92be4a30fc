//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific debug probes.

package control

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// RegisterPlatformProbes sets Linux-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.pid", func() any {
		return os.Getpid()
	})
	dp.RegisterProbe("platform.shm_free_bytes", func() any {
		var st unix.Statfs_t
		if err := unix.Statfs("/dev/shm", &st); err != nil {
			return int64(-1)
		}
		return int64(st.Bavail) * int64(st.Bsize)
	})
}
