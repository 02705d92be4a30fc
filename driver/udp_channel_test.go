package driver

import (
	"errors"
	"testing"
)

func TestParseUdpChannel_Valid(t *testing.T) {
	cases := []struct {
		uri       string
		canonical string
		iface     string
		multicast bool
	}{
		{"udp://localhost:4000", "udp://localhost:4000", "", false},
		{"udp://LocalHost:4000", "udp://localhost:4000", "", false},
		{"udp://eth0@224.0.1.1:40456", "udp://eth0@224.0.1.1:40456", "eth0", true},
		{"udp://[FF02::1]:5000", "udp://[ff02::1]:5000", "", true},
		{"udp://127.0.0.1:65535", "udp://127.0.0.1:65535", "", false},
	}
	for _, tc := range cases {
		ch, err := ParseUdpChannel(tc.uri)
		if err != nil {
			t.Errorf("%s: %v", tc.uri, err)
			continue
		}
		if ch.CanonicalForm() != tc.canonical || ch.LocalInterface() != tc.iface || ch.IsMulticast() != tc.multicast {
			t.Errorf("%s: got (%s, %q, %v)", tc.uri, ch.CanonicalForm(), ch.LocalInterface(), ch.IsMulticast())
		}
		if ch.URI() != tc.uri {
			t.Errorf("URI = %q", ch.URI())
		}
	}
}

func TestParseUdpChannel_Invalid(t *testing.T) {
	for _, uri := range []string{
		"",
		"tcp://localhost:4000",
		"udp://localhost",
		"udp://:4000",
		"udp://localhost:0",
		"udp://localhost:70000",
		"udp://localhost:4000/path",
		"udp://localhost:4000?x=1",
		"udp://@localhost:4000",
		"not a uri at all",
	} {
		if _, err := ParseUdpChannel(uri); !errors.Is(err, ErrInvalidChannel) {
			t.Errorf("%q: err = %v, want ErrInvalidChannel", uri, err)
		}
	}
}

func TestChannelCache_ReturnsSameInstance(t *testing.T) {
	cc, err := newChannelCache(2)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := cc.parse("udp://localhost:4000")
	b, _ := cc.parse("udp://localhost:4000")
	if a != b {
		t.Error("cached parse returned a new instance")
	}
	if _, err := cc.parse("udp://bad"); err == nil {
		t.Error("expected parse error")
	}
	if cc.cache.Contains("udp://bad") {
		t.Error("failure was cached")
	}
}
