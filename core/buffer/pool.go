// File: core/buffer/pool.go
// Package buffer
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Size-classed pool of heap AtomicBuffers used as encode scratch space by
// producers that may run on any goroutine.

package buffer

import "sync"

// Predefined (power-of-two) size classes in bytes.
var sizeClasses = [...]int{
	256,
	1024,
	4 * 1024,
	16 * 1024,
	64 * 1024,
	256 * 1024,
	1024 * 1024,
}

// sizeClassUpperBound returns the smallest class >= size, or size itself
// when it exceeds every class.
func sizeClassUpperBound(size int) int {
	for _, c := range sizeClasses {
		if size <= c {
			return c
		}
	}
	return size
}

// Pool hands out zeroed-on-allocation buffers of at least the requested size.
type Pool struct {
	mu      sync.RWMutex
	classes map[int]*sync.Pool
}

// NewPool creates an empty pool; class sub-pools are created lazily.
func NewPool() *Pool {
	return &Pool{classes: make(map[int]*sync.Pool)}
}

// Get returns a buffer whose capacity is the size class covering size.
// Contents are unspecified for recycled buffers.
func (p *Pool) Get(size int) *AtomicBuffer {
	clz := sizeClassUpperBound(size)
	return p.classPool(clz).Get().(*AtomicBuffer)
}

// Put recycles ab. Buffers not matching a size class are dropped.
func (p *Pool) Put(ab *AtomicBuffer) {
	if ab == nil || sizeClassUpperBound(ab.Capacity()) != ab.Capacity() {
		return
	}
	p.classPool(ab.Capacity()).Put(ab)
}

func (p *Pool) classPool(class int) *sync.Pool {
	p.mu.RLock()
	sp, ok := p.classes[class]
	p.mu.RUnlock()
	if ok {
		return sp
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if sp, ok = p.classes[class]; ok {
		return sp
	}
	sp = &sync.Pool{New: func() any { return Make(class) }}
	p.classes[class] = sp
	return sp
}
