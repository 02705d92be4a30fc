// File: driver/client_liveness.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

import (
	"sort"

	"github.com/momentics/hioload-mediadriver/core/timer"
)

type registrationKind uint8

const (
	publicationRegistrationKind registrationKind = iota + 1
	subscriptionRegistrationKind
)

// clientLiveness tracks one client process and the registrations it owns.
type clientLiveness struct {
	clientID      int64
	lastKeepalive int64
	// deadline is the last instant the client is still live; its timer
	// fires strictly after it.
	deadline int64
	timerID       timer.TimerID
	registrations map[int64]registrationKind
}

func newClientLiveness(clientID, now int64) *clientLiveness {
	return &clientLiveness{
		clientID:      clientID,
		lastKeepalive: now,
		registrations: make(map[int64]registrationKind),
	}
}

func (c *clientLiveness) own(registrationID int64, kind registrationKind) {
	c.registrations[registrationID] = kind
}

func (c *clientLiveness) disown(registrationID int64) {
	delete(c.registrations, registrationID)
}

// ownedIDs returns registration ids in creation order.
func (c *clientLiveness) ownedIDs() []int64 {
	ids := make([]int64, 0, len(c.registrations))
	for id := range c.registrations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
