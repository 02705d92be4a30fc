// File: driver/receive_channel_endpoint.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package driver

import (
	"sort"

	"github.com/momentics/hioload-mediadriver/api"
)

// ReceiveChannelEndpoint groups the subscribed streams of one channel.
// It exists in the conductor's index iff at least one stream is subscribed.
type ReceiveChannelEndpoint struct {
	channel *UdpChannel
	streams map[int32]int
}

var _ api.ReceiveEndpoint = (*ReceiveChannelEndpoint)(nil)

func newReceiveChannelEndpoint(ch *UdpChannel) *ReceiveChannelEndpoint {
	return &ReceiveChannelEndpoint{channel: ch, streams: make(map[int32]int)}
}

// Channel returns the canonical form of the endpoint's channel.
func (e *ReceiveChannelEndpoint) Channel() string { return e.channel.CanonicalForm() }

func (e *ReceiveChannelEndpoint) UdpChannel() *UdpChannel { return e.channel }

// StreamCount returns the number of distinct subscribed stream ids.
func (e *ReceiveChannelEndpoint) StreamCount() int { return len(e.streams) }

// RefCount returns the number of subscriptions for streamID.
func (e *ReceiveChannelEndpoint) RefCount(streamID int32) int { return e.streams[streamID] }

// StreamIDs returns subscribed stream ids in ascending order.
func (e *ReceiveChannelEndpoint) StreamIDs() []int32 {
	ids := make([]int32, 0, len(e.streams))
	for id := range e.streams {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// incRef reports whether streamID gained its first subscriber.
func (e *ReceiveChannelEndpoint) incRef(streamID int32) bool {
	e.streams[streamID]++
	return e.streams[streamID] == 1
}

// decRef reports whether streamID lost its last subscriber.
func (e *ReceiveChannelEndpoint) decRef(streamID int32) bool {
	n, ok := e.streams[streamID]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(e.streams, streamID)
		return true
	}
	e.streams[streamID] = n - 1
	return false
}
