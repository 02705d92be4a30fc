//go:build !unix

// File: internal/shm/mmap_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Heap-backed fallback: the region is read from the file on map and written
// back on unmap, so it is private to this process while open.

package shm

import (
	"io"
	"os"
)

func mapFile(file *os.File, size int) ([]byte, error) {
	mem := make([]byte, size)
	if _, err := file.ReadAt(mem, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return mem, nil
}

func unmapFile(file *os.File, mem []byte) error {
	_, err := file.WriteAt(mem, 0)
	return err
}
