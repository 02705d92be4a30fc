// File: driver/sender_proxy.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

import "github.com/momentics/hioload-mediadriver/api"

// SenderCommandType enumerates conductor to sender hand-offs.
type SenderCommandType uint8

const (
	SenderNewPublication SenderCommandType = iota + 1
	SenderClosePublication
)

// SenderCommand is one queued hand-off.
type SenderCommand struct {
	Type        SenderCommandType
	Publication api.Publication
}

// SenderProxy queues publication changes for the sender context.
// Producer methods are called only from the conductor; Drain only from the sender.
type SenderProxy struct {
	q *backloggedQueue[SenderCommand]
}

var _ api.SenderProxy = (*SenderProxy)(nil)

func NewSenderProxy(capacity int) *SenderProxy {
	return &SenderProxy{q: newBackloggedQueue[SenderCommand](capacity)}
}

func (p *SenderProxy) NewPublication(pub api.Publication) bool {
	p.q.offer(SenderCommand{Type: SenderNewPublication, Publication: pub})
	return true
}

func (p *SenderProxy) ClosePublication(pub api.Publication) bool {
	p.q.offer(SenderCommand{Type: SenderClosePublication, Publication: pub})
	return true
}

// Flush retries backlogged commands. Conductor side.
func (p *SenderProxy) Flush() int { return p.q.flush() }

// Drain delivers up to limit queued commands. Sender side.
func (p *SenderProxy) Drain(fn func(SenderCommand), limit int) int { return p.q.drain(fn, limit) }

// Pending counts queued plus backlogged commands.
func (p *SenderProxy) Pending() int { return p.q.pending() }

// Spilled counts commands that overflowed into the backlog.
func (p *SenderProxy) Spilled() uint64 { return p.q.spilled.Load() }
