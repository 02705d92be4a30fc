// File: driver/term_buffers.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Memory-mapped log buffers. One file per publication holds the three
// terms followed by the three term state buffers:
//
//	| term 0 | term 1 | term 2 | state 0 | state 1 | state 2 |

package driver

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"sync/atomic"

	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/internal/shm"
)

const (
	termCount = 3
	// TermStateBufferLength is the size of each term state buffer.
	TermStateBufferLength = 4096
	publicationsDir       = "publications"
)

// MappedTermBuffersFactory creates log buffer files under dir/publications.
type MappedTermBuffersFactory struct {
	dir        string
	termLength int
	nextID     atomic.Uint64
}

var _ api.TermBuffersFactory = (*MappedTermBuffersFactory)(nil)

func NewMappedTermBuffersFactory(dir string, termLength int) *MappedTermBuffersFactory {
	return &MappedTermBuffersFactory{dir: dir, termLength: termLength}
}

// NewPublication maps a fresh, zeroed log buffer file.
func (f *MappedTermBuffersFactory) NewPublication(channel string, sessionID, streamID int32) (api.TermBuffers, error) {
	h := fnv.New32a()
	h.Write([]byte(channel))
	name := fmt.Sprintf("%08x-%d-%d-%d.logbuffer", h.Sum32(), sessionID, streamID, f.nextID.Add(1))
	path := filepath.Join(f.dir, publicationsDir, name)

	size := termCount*f.termLength + termCount*TermStateBufferLength
	mf, err := shm.Create(path, size)
	if err != nil {
		return nil, fmt.Errorf("map term buffers for %s session=%d stream=%d: %w", channel, sessionID, streamID, err)
	}
	return &MappedTermBuffers{file: mf, termLength: f.termLength}, nil
}

// MappedTermBuffers is one publication's log buffer file.
type MappedTermBuffers struct {
	file       *shm.MappedFile
	termLength int
}

var _ api.TermBuffers = (*MappedTermBuffers)(nil)

func (b *MappedTermBuffers) Location(int) string { return b.file.Path() }

func (b *MappedTermBuffers) Offset(i int) int32 {
	if i < termCount {
		return int32(i * b.termLength)
	}
	return int32(termCount*b.termLength + (i-termCount)*TermStateBufferLength)
}

func (b *MappedTermBuffers) Length(i int) int32 {
	if i < termCount {
		return int32(b.termLength)
	}
	return TermStateBufferLength
}

// Buffer returns a view of buffer i.
func (b *MappedTermBuffers) Buffer(i int) *buffer.AtomicBuffer {
	off := int(b.Offset(i))
	return buffer.Wrap(b.file.Bytes()[off : off+int(b.Length(i))])
}

// Close unmaps and deletes the file.
func (b *MappedTermBuffers) Close() error {
	return b.file.CloseAndRemove()
}
