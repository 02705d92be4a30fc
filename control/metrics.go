// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector.
// Gauges are set by value; counters only grow and are read as int64.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds gauges and counters.
type MetricsRegistry struct {
	mu       sync.RWMutex
	metrics  map[string]any
	counters map[string]int64
	updated  time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics:  make(map[string]any),
		counters: make(map[string]int64),
	}
}

// Set sets or updates a gauge.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Add increments counter key by delta and returns the new value.
func (mr *MetricsRegistry) Add(key string, delta int64) int64 {
	mr.mu.Lock()
	v := mr.counters[key] + delta
	mr.counters[key] = v
	mr.updated = time.Now()
	mr.mu.Unlock()
	return v
}

// Inc increments counter key by one.
func (mr *MetricsRegistry) Inc(key string) {
	mr.Add(key, 1)
}

// Counter returns the current value of counter key.
func (mr *MetricsRegistry) Counter(key string) int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.counters[key]
}

// Updated returns the time of the last mutation.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}

// GetSnapshot returns gauges and counters merged into one map.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics)+len(mr.counters))
	for k, v := range mr.metrics {
		out[k] = v
	}
	for k, v := range mr.counters {
		out[k] = v
	}
	return out
}
