// File: core/concurrency/agent.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// AgentRunner drives a duty-cycle Agent on a dedicated goroutine. When a
// cycle reports no work the runner backs off with an exponentially growing
// sleep, capped at maxBackoff, and snaps back to busy polling as soon as
// work appears again.

package concurrency

import (
	"context"
	"sync/atomic"
	"time"
)

// Agent is a unit of single-threaded work polled in a loop.
type Agent interface {
	// DoWork performs one duty cycle and returns the amount of work done.
	DoWork() int
	// RoleName identifies the agent in logs.
	RoleName() string
	// OnClose is called once on the agent goroutine after the loop exits.
	OnClose()
}

// AgentRunner runs one Agent until Stop or context cancellation.
type AgentRunner struct {
	agent      Agent
	maxBackoff time.Duration
	onStart    func()
	onError    func(any)

	quitCh  chan struct{}
	doneCh  chan struct{}
	running atomic.Bool
	cycles  atomic.Uint64
}

// NewAgentRunner creates a runner for agent. onStart runs on the agent
// goroutine before the first cycle (thread pinning goes there); onError
// receives panics recovered from DoWork. Both may be nil.
func NewAgentRunner(agent Agent, maxBackoff time.Duration, onStart func(), onError func(any)) *AgentRunner {
	if maxBackoff <= 0 {
		maxBackoff = time.Millisecond
	}
	return &AgentRunner{
		agent:      agent,
		maxBackoff: maxBackoff,
		onStart:    onStart,
		onError:    onError,
		quitCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Run executes the duty cycle on the calling goroutine until ctx is done or
// Stop is called.
func (r *AgentRunner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAgentRunning
	}
	defer func() {
		r.agent.OnClose()
		close(r.doneCh)
	}()
	if r.onStart != nil {
		r.onStart()
	}

	backoff := time.Duration(1)

	// Reusable timer, initially stopped
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.quitCh:
			return nil
		default:
		}

		work := r.doWork()
		r.cycles.Add(1)
		if work > 0 {
			backoff = 1
			continue
		}

		timer.Reset(backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.quitCh:
			return nil
		case <-timer.C:
			backoff *= 2
			if backoff > r.maxBackoff {
				backoff = r.maxBackoff
			}
		}
	}
}

func (r *AgentRunner) doWork() (work int) {
	defer func() {
		if p := recover(); p != nil {
			if r.onError != nil {
				r.onError(p)
			}
			work = 0
		}
	}()
	return r.agent.DoWork()
}

// Cycles returns the number of completed duty cycles.
func (r *AgentRunner) Cycles() uint64 {
	return r.cycles.Load()
}

// Stop signals the loop to exit and waits for completion if it was started.
func (r *AgentRunner) Stop() {
	select {
	case <-r.quitCh:
	default:
		close(r.quitCh)
	}
	if r.running.Load() {
		<-r.doneCh
	}
}
