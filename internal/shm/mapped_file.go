// File: internal/shm/mapped_file.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package shm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidSize is returned for non-positive mapping sizes.
var ErrInvalidSize = errors.New("shm: mapping size must be positive")

// MappedFile is a file mapped read-write into the process.
type MappedFile struct {
	path string
	file *os.File
	mem  []byte
}

// DefaultDir returns /dev/shm when it is a usable directory, else the temp dir.
func DefaultDir() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

// Create creates (or truncates) path to size bytes and maps it.
// The mapping is zero filled.
func Create(path string, size int) (*MappedFile, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("shm: create dir for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shm: create %s: %w", path, err)
	}
	cleanup := func() {
		file.Close()
		os.Remove(path)
	}
	if err := file.Truncate(int64(size)); err != nil {
		cleanup()
		return nil, fmt.Errorf("shm: resize %s: %w", path, err)
	}
	mem, err := mapFile(file, size)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("shm: map %s: %w", path, err)
	}
	return &MappedFile{path: path, file: file, mem: mem}, nil
}

// Open maps an existing file in full.
func Open(path string) (*MappedFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("shm: open %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("shm: stat %s: %w", path, err)
	}
	if info.Size() <= 0 {
		file.Close()
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidSize, path)
	}
	mem, err := mapFile(file, int(info.Size()))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("shm: map %s: %w", path, err)
	}
	return &MappedFile{path: path, file: file, mem: mem}, nil
}

// Bytes returns the mapped region.
func (m *MappedFile) Bytes() []byte {
	return m.mem
}

// Path returns the backing file path.
func (m *MappedFile) Path() string {
	return m.path
}

// Close unmaps the region and closes the file. The file is kept.
func (m *MappedFile) Close() error {
	var firstErr error
	if m.mem != nil {
		if err := unmapFile(m.file, m.mem); err != nil {
			firstErr = err
		}
		m.mem = nil
	}
	if m.file != nil {
		if err := m.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.file = nil
	}
	return firstErr
}

// CloseAndRemove closes the mapping and deletes the backing file.
func (m *MappedFile) CloseAndRemove() error {
	err := m.Close()
	if rmErr := os.Remove(m.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}
