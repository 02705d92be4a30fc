// Package api
// Author: momentics
//
// Named probes sampled on demand by the driver's control surface.

package api

// Debug is a registry of named probes.
type Debug interface {
	// DumpState samples every probe.
	DumpState() map[string]any

	// RegisterProbe adds or replaces a probe.
	RegisterProbe(name string, fn func() any)
}
