// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control over the control package primitives.

package adapters

import (
	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/control"
)

// ControlAdapter merges a config store, a metrics registry and debug probes
// behind api.Control.
type ControlAdapter struct {
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
}

var _ api.Control = (*ControlAdapter)(nil)

// NewControlAdapter wraps the given registries. Nil arguments are replaced
// by empty ones. Platform probes are registered on the debug registry.
func NewControlAdapter(cfg *control.ConfigStore, metrics *control.MetricsRegistry, debug *control.DebugProbes) *ControlAdapter {
	if cfg == nil {
		cfg = control.NewConfigStore()
	}
	if metrics == nil {
		metrics = control.NewMetricsRegistry()
	}
	if debug == nil {
		debug = control.NewDebugProbes()
	}
	control.RegisterPlatformProbes(debug)
	return &ControlAdapter{config: cfg, metrics: metrics, debug: debug}
}

func (c *ControlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

func (c *ControlAdapter) SetConfig(cfg map[string]any) error {
	c.config.SetConfig(cfg)
	return nil
}

// Stats returns metrics plus every probe under a "debug." prefix.
func (c *ControlAdapter) Stats() map[string]any {
	stats := c.metrics.GetSnapshot()
	debugStats := c.debug.DumpState()
	combined := make(map[string]any, len(stats)+len(debugStats))
	for k, v := range stats {
		combined[k] = v
	}
	for k, v := range debugStats {
		combined["debug."+k] = v
	}
	return combined
}

func (c *ControlAdapter) OnReload(fn func(map[string]any)) {
	c.config.OnReload(fn)
}

func (c *ControlAdapter) SetMetric(key string, value any) {
	c.metrics.Set(key, value)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

// Metrics exposes the underlying registry for producers.
func (c *ControlAdapter) Metrics() *control.MetricsRegistry {
	return c.metrics
}
