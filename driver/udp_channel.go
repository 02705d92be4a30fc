// File: driver/udp_channel.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// UdpChannel is the parsed identity of a channel URI of the form
//
//	udp://[interface@]host:port
//
// Hosts are kept literally; no name resolution happens here so the
// conductor never blocks on DNS. Two URIs address the same endpoint iff
// their canonical forms are equal.

package driver

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// ErrInvalidChannel is wrapped by every channel parse failure.
var ErrInvalidChannel = errors.New("invalid channel")

// UdpChannel describes a UDP transport endpoint.
type UdpChannel struct {
	uri            string
	localInterface string
	host           string
	port           int
	multicast      bool
	canonical      string
}

// ParseUdpChannel parses and validates uri.
func ParseUdpChannel(uri string) (*UdpChannel, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidChannel, uri, err)
	}
	if u.Scheme != "udp" {
		return nil, fmt.Errorf("%w: %q: scheme must be udp", ErrInvalidChannel, uri)
	}
	if u.Opaque != "" || (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("%w: %q: unexpected path or query", ErrInvalidChannel, uri)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidChannel, uri, err)
	}
	if host == "" {
		return nil, fmt.Errorf("%w: %q: missing host", ErrInvalidChannel, uri)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: %q: port must be 1-65535", ErrInvalidChannel, uri)
	}

	ch := &UdpChannel{
		uri:  uri,
		host: strings.ToLower(host),
		port: port,
	}
	if u.User != nil {
		ch.localInterface = u.User.Username()
		if ch.localInterface == "" {
			return nil, fmt.Errorf("%w: %q: empty interface", ErrInvalidChannel, uri)
		}
	}
	if ip := net.ParseIP(host); ip != nil {
		ch.multicast = ip.IsMulticast()
		ch.host = ip.String()
	}

	hostPort := net.JoinHostPort(ch.host, portStr)
	if ch.localInterface != "" {
		ch.canonical = "udp://" + ch.localInterface + "@" + hostPort
	} else {
		ch.canonical = "udp://" + hostPort
	}
	return ch, nil
}

// URI returns the text the channel was parsed from.
func (c *UdpChannel) URI() string { return c.uri }

// Host returns the remote host or group.
func (c *UdpChannel) Host() string { return c.host }

// Port returns the UDP port.
func (c *UdpChannel) Port() int { return c.port }

// LocalInterface returns the interface named before '@', if any.
func (c *UdpChannel) LocalInterface() string { return c.localInterface }

// IsMulticast reports whether host is a multicast group literal.
func (c *UdpChannel) IsMulticast() bool { return c.multicast }

// CanonicalForm is the identity used to key endpoints.
func (c *UdpChannel) CanonicalForm() string { return c.canonical }

func (c *UdpChannel) String() string { return c.canonical }

// channelCache memoizes parses by raw URI.
type channelCache struct {
	cache *lru.Cache
}

func newChannelCache(size int) (*channelCache, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &channelCache{cache: c}, nil
}

// parse returns the cached channel for uri or parses and caches it.
// Failures are not cached.
func (cc *channelCache) parse(uri string) (*UdpChannel, error) {
	if v, ok := cc.cache.Get(uri); ok {
		return v.(*UdpChannel), nil
	}
	ch, err := ParseUdpChannel(uri)
	if err != nil {
		return nil, err
	}
	cc.cache.Add(uri, ch)
	return ch, nil
}
