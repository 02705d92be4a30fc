// Package fake
// Author: momentics <momentics@gmail.com>

package fake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/momentics/hioload-mediadriver/api"
)

// ErrAllocationFailed is returned by TermBuffersFactory when Fail is set.
var ErrAllocationFailed = errors.New("fake: term buffer allocation failed")

// TermBuffers is an in-memory api.TermBuffers that only records Close.
type TermBuffers struct {
	Name       string
	TermLength int32

	mu     sync.Mutex
	closed int
}

func (b *TermBuffers) Location(i int) string { return fmt.Sprintf("mem://%s/%d", b.Name, i) }

func (b *TermBuffers) Offset(int) int32 { return 0 }

func (b *TermBuffers) Length(int) int32 { return b.TermLength }

func (b *TermBuffers) Close() error {
	b.mu.Lock()
	b.closed++
	b.mu.Unlock()
	return nil
}

// Closed returns how many times Close was called.
func (b *TermBuffers) Closed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// TermBuffersFactory hands out TermBuffers and remembers them.
type TermBuffersFactory struct {
	Fail bool

	mu      sync.Mutex
	Created []*TermBuffers
}

func (f *TermBuffersFactory) NewPublication(channel string, sessionID, streamID int32) (api.TermBuffers, error) {
	if f.Fail {
		return nil, ErrAllocationFailed
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tb := &TermBuffers{
		Name:       fmt.Sprintf("%s/%d/%d/%d", channel, sessionID, streamID, len(f.Created)),
		TermLength: 64 << 10,
	}
	f.Created = append(f.Created, tb)
	return tb, nil
}
