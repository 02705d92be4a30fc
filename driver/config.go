// File: driver/config.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Media driver configuration: defaults, YAML loading and validation.

package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-mediadriver/internal/shm"
)

// Config holds every tunable of the media driver.
type Config struct {
	// Dir holds the CnC file and publication log buffers.
	Dir string `yaml:"dir"`
	// DeleteDirOnClose removes Dir when the driver closes.
	DeleteDirOnClose bool `yaml:"delete_dir_on_close"`

	// Ring data region sizes. Each must be a power of two.
	CommandBufferLength   int `yaml:"command_buffer_length"`
	ToClientsBufferLength int `yaml:"to_clients_buffer_length"`
	EventBufferLength     int `yaml:"event_buffer_length"`

	// TermBufferLength is the size of each of the three terms of a publication.
	TermBufferLength int `yaml:"term_buffer_length"`

	ConductorTick         time.Duration `yaml:"conductor_tick"`
	TicksPerWheel         int           `yaml:"ticks_per_wheel"`
	ClientLivenessTimeout time.Duration `yaml:"client_liveness_timeout"`
	PublicationLinger     time.Duration `yaml:"publication_linger"`
	MaxIdleBackoff        time.Duration `yaml:"max_idle_backoff"`

	// ConductorCPU pins the conductor goroutine's thread; -1 disables pinning.
	ConductorCPU int `yaml:"conductor_cpu"`

	MaxTimersPerCycle  int `yaml:"max_timers_per_cycle"`
	CommandsPerCycle   int `yaml:"commands_per_cycle"`
	ProxyQueueCapacity int `yaml:"proxy_queue_capacity"`
	ChannelCacheSize   int `yaml:"channel_cache_size"`

	EventLogEnabled bool   `yaml:"event_log_enabled"`
	LogLevel        string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Dir:                   filepath.Join(shm.DefaultDir(), "hioload-mediadriver"),
		CommandBufferLength:   1 << 20,
		ToClientsBufferLength: 1 << 20,
		EventBufferLength:     1 << 20,
		TermBufferLength:      1 << 16,
		ConductorTick:         10 * time.Millisecond,
		TicksPerWheel:         1024,
		ClientLivenessTimeout: 5 * time.Second,
		PublicationLinger:     5 * time.Second,
		MaxIdleBackoff:        time.Millisecond,
		ConductorCPU:          -1,
		MaxTimersPerCycle:     64,
		CommandsPerCycle:      16,
		ProxyQueueCapacity:    1024,
		ChannelCacheSize:      256,
		EventLogEnabled:       true,
		LogLevel:              "info",
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	if c.Dir == "" {
		errs = append(errs, errors.New("dir is required"))
	}
	for name, v := range map[string]int{
		"command_buffer_length":    c.CommandBufferLength,
		"to_clients_buffer_length": c.ToClientsBufferLength,
		"event_buffer_length":      c.EventBufferLength,
		"term_buffer_length":       c.TermBufferLength,
	} {
		if v < 1024 || v&(v-1) != 0 {
			errs = append(errs, fmt.Errorf("%s must be a power of two >= 1024, got %d", name, v))
		}
	}
	if c.ConductorTick <= 0 {
		errs = append(errs, errors.New("conductor_tick must be positive"))
	}
	if c.TicksPerWheel <= 0 {
		errs = append(errs, errors.New("ticks_per_wheel must be positive"))
	}
	if c.ClientLivenessTimeout <= 0 {
		errs = append(errs, errors.New("client_liveness_timeout must be positive"))
	}
	if c.PublicationLinger < 0 {
		errs = append(errs, errors.New("publication_linger must not be negative"))
	}
	if c.MaxIdleBackoff <= 0 {
		errs = append(errs, errors.New("max_idle_backoff must be positive"))
	}
	if c.MaxTimersPerCycle <= 0 || c.CommandsPerCycle <= 0 || c.ProxyQueueCapacity <= 0 {
		errs = append(errs, errors.New("per-cycle limits and queue capacity must be positive"))
	}
	return errors.Join(errs...)
}

// CnCPath is the location of the command-and-control file.
func (c *Config) CnCPath() string {
	return filepath.Join(c.Dir, CnCFileName)
}

// ToMap flattens the config for control.ConfigStore.
func (c *Config) ToMap() map[string]any {
	return map[string]any{
		"dir":                      c.Dir,
		"delete_dir_on_close":      c.DeleteDirOnClose,
		"command_buffer_length":    c.CommandBufferLength,
		"to_clients_buffer_length": c.ToClientsBufferLength,
		"event_buffer_length":      c.EventBufferLength,
		"term_buffer_length":       c.TermBufferLength,
		"conductor_tick":           c.ConductorTick.String(),
		"ticks_per_wheel":          c.TicksPerWheel,
		"client_liveness_timeout":  c.ClientLivenessTimeout.String(),
		"publication_linger":       c.PublicationLinger.String(),
		"max_idle_backoff":         c.MaxIdleBackoff.String(),
		"conductor_cpu":            c.ConductorCPU,
		"max_timers_per_cycle":     c.MaxTimersPerCycle,
		"commands_per_cycle":       c.CommandsPerCycle,
		"proxy_queue_capacity":     c.ProxyQueueCapacity,
		"channel_cache_size":       c.ChannelCacheSize,
		"event_log_enabled":        c.EventLogEnabled,
		"log_level":                c.LogLevel,
	}
}
