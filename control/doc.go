// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, configuration snapshot and debug introspection for the
// media driver.
//
// Provides concurrent-safe primitives readable from any goroutine while the
// conductor owns all mutation of driver state:
//   - ConfigStore publishes the effective configuration
//   - MetricsRegistry holds gauges and monotonically increasing counters
//   - DebugProbes exposes named state dumps
package control
