// File: client/requests.go
// Package client
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// requestTracker remembers which correlation ids this client issued so that
// responses broadcast to every client can be filtered to their requester.

package client

import "sync"

// request describes one outstanding command. Subscriptions stay tracked
// after success to receive connections; a successful remove stops tracking
// the subscription named by releases.
type request struct {
	subscription bool
	releases     int64
	hasRelease   bool
}

type requestTracker struct {
	mu      sync.Mutex
	pending map[int64]request
}

func newRequestTracker() *requestTracker {
	return &requestTracker{pending: make(map[int64]request)}
}

func (t *requestTracker) expect(correlationID int64, req request) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.pending[correlationID] = req
	t.mu.Unlock()
}

func (t *requestTracker) forget(correlationID int64) {
	if t == nil {
		return
	}
	t.mu.Lock()
	delete(t.pending, correlationID)
	t.mu.Unlock()
}

// complete reports whether correlationID belongs to this client and settles
// it. Successful subscriptions remain tracked.
func (t *requestTracker) complete(correlationID int64, succeeded bool) bool {
	if t == nil {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	req, ok := t.pending[correlationID]
	if !ok {
		return false
	}
	if !succeeded || !req.subscription {
		delete(t.pending, correlationID)
	}
	if succeeded && req.hasRelease {
		delete(t.pending, req.releases)
	}
	return true
}

// owns reports whether correlationID is a live subscription of this client.
func (t *requestTracker) owns(correlationID int64) bool {
	if t == nil {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	req, ok := t.pending[correlationID]
	return ok && req.subscription
}

func (t *requestTracker) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
