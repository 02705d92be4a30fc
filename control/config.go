// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with snapshot reads and change listeners.

package control

import (
	"sync"
)

// ConfigStore is a key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func(map[string]any)
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config: make(map[string]any),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cloneMap(cs.config)
}

// SetConfig merges new values and notifies listeners with the merged snapshot.
// Listeners run synchronously on the caller's goroutine after the lock is released.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	snapshot := cloneMap(cs.config)
	listeners := append([]func(map[string]any){}, cs.listeners...)
	cs.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// OnReload registers a listener called on every SetConfig.
func (cs *ConfigStore) OnReload(fn func(map[string]any)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
