// File: client/client.go
// Package client
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Client attaches to a running media driver through its CnC file.

package client

import (
	"fmt"

	"github.com/momentics/hioload-mediadriver/internal/cnc"
)

// Client pairs a command encoder with a response reader over one CnC file.
// Any number of clients may attach to the same driver; each sees only the
// responses to its own requests.
type Client struct {
	*DriverProxy
	responses *ResponseReader
	file      *cnc.File
}

// Connect maps the CnC file at path and allocates a client id.
func Connect(path string, listener DriverListener) (*Client, error) {
	f, err := cnc.Open(path)
	if err != nil {
		return nil, fmt.Errorf("connect to driver: %w", err)
	}
	receiver, err := f.NewToClientsReceiver()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("connect to driver: %w", err)
	}
	requests := newRequestTracker()
	proxy := NewDriverProxy(f.CommandRing(), 0)
	proxy.requests = requests
	responses := NewResponseReader(receiver, listener)
	responses.requests = requests
	return &Client{
		DriverProxy: proxy,
		responses:   responses,
		file:        f,
	}, nil
}

// Poll dispatches up to limit pending responses to the listener.
func (c *Client) Poll(limit int) int {
	return c.responses.Poll(limit)
}

// Outstanding is the number of requests and subscriptions still tracked.
func (c *Client) Outstanding() int { return c.responses.requests.size() }

// Close unmaps the CnC file.
func (c *Client) Close() error {
	return c.file.Close()
}
