//go:build unix

// File: internal/shm/mmap_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package shm

import (
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(file *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func unmapFile(_ *os.File, mem []byte) error {
	return unix.Munmap(mem)
}
