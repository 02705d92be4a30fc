// File: driver/media_driver.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// MediaDriver assembles the control plane: it creates the CnC file shared
// with clients, builds the conductor with its proxies and event log, and
// runs the agents on dedicated goroutines.

package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-mediadriver/adapters"
	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/control"
	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/core/concurrency"
	"github.com/momentics/hioload-mediadriver/internal/cnc"
	affinity "github.com/momentics/hioload-mediadriver/internal/concurrency"
)

// CnCFileName is the name of the command-and-control file inside Config.Dir.
const CnCFileName = "cnc.dat"

// ErrDriverClosed is returned by Run after Close.
var ErrDriverClosed = errors.New("media driver closed")

// DriverOption customises a MediaDriver.
type DriverOption func(*MediaDriver)

// WithDriverLogger sets the base logger for every component.
func WithDriverLogger(logger zerolog.Logger) DriverOption {
	return func(d *MediaDriver) { d.logger = logger }
}

// WithDriverClock replaces the system clock.
func WithDriverClock(clock api.NanoClock) DriverOption {
	return func(d *MediaDriver) { d.clock = clock }
}

// WithDriverTermBuffersFactory replaces the memory-mapped log buffer allocator.
func WithDriverTermBuffersFactory(f api.TermBuffersFactory) DriverOption {
	return func(d *MediaDriver) { d.termBuffers = f }
}

// MediaDriver owns the CnC file and the agents serving it.
type MediaDriver struct {
	cfg         *Config
	logger      zerolog.Logger
	clock       api.NanoClock
	termBuffers api.TermBuffersFactory

	cnc         *cnc.File
	events      *EventLogger
	eventReader *EventReader
	sender      *SenderProxy
	receiver    *ReceiverProxy
	inbound     *DriverConductorProxy
	clients     *ClientProxy
	conductor   *Conductor
	transport   *proxyAgent
	control     *adapters.ControlAdapter

	mu      sync.Mutex
	runners []*concurrency.AgentRunner
	running bool
	closed  bool
	done    chan struct{}
	stopped chan struct{}
}

// NewMediaDriver validates cfg, creates the CnC file and wires the conductor.
func NewMediaDriver(cfg *Config, opts ...DriverOption) (*MediaDriver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &MediaDriver{
		cfg:     cfg,
		logger:  zerolog.Nop(),
		clock:   api.SystemNanoClock,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With().Str("driver_dir", cfg.Dir).Logger()

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create driver dir: %w", err)
	}
	file, err := cnc.Create(cfg.CnCPath(), cfg.CommandBufferLength, cfg.ToClientsBufferLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create cnc file: %w", err)
	}
	d.cnc = file

	if cfg.EventLogEnabled {
		ring, err := concurrency.NewManyToOneRingBuffer(buffer.Make(cfg.EventBufferLength + concurrency.TrailerLength))
		if err != nil {
			file.CloseAndRemove()
			return nil, fmt.Errorf("failed to create event ring: %w", err)
		}
		d.events = NewEventLogger(ring, d.clock)
		d.eventReader = NewEventReader(ring, d.logger, cfg.CommandsPerCycle*4)
	}

	if d.termBuffers == nil {
		d.termBuffers = NewMappedTermBuffersFactory(cfg.Dir, cfg.TermBufferLength)
	}
	d.sender = NewSenderProxy(cfg.ProxyQueueCapacity)
	d.receiver = NewReceiverProxy(cfg.ProxyQueueCapacity)
	d.inbound = NewDriverConductorProxy(cfg.ProxyQueueCapacity)
	d.clients = NewClientProxy(file.ToClients(), d.logger)
	d.control = adapters.NewControlAdapter(nil, nil, nil)

	d.conductor, err = NewConductor(cfg, file.CommandRing(),
		WithClock(d.clock),
		WithLogger(d.logger),
		WithEventLogger(d.events),
		WithMetrics(d.control.Metrics()),
		WithSenderProxy(d.sender),
		WithReceiverProxy(d.receiver),
		WithClientProxy(d.clients),
		WithTermBuffersFactory(d.termBuffers),
		WithConductorProxy(d.inbound),
	)
	if err != nil {
		file.CloseAndRemove()
		return nil, err
	}
	d.transport = newProxyAgent(d.sender, d.receiver, d.logger)

	d.registerControl()
	d.logger.Info().
		Str("cnc", file.Path()).
		Int("command_buffer_length", cfg.CommandBufferLength).
		Int("to_clients_buffer_length", cfg.ToClientsBufferLength).
		Msg("media driver created")
	return d, nil
}

func (d *MediaDriver) registerControl() {
	d.control.SetConfig(d.cfg.ToMap())
	d.control.OnReload(func(snapshot map[string]any) {
		raw, ok := snapshot["log_level"].(string)
		if !ok {
			return
		}
		level, err := zerolog.ParseLevel(raw)
		if err != nil {
			d.logger.Warn().Err(err).Str("log_level", raw).Msg("ignoring invalid log level")
			return
		}
		zerolog.SetGlobalLevel(level)
	})
	d.control.RegisterDebugProbe("events.dropped", func() any { return d.events.Dropped() })
	d.control.RegisterDebugProbe("clients.failed_responses", func() any { return d.clients.Failed() })
	d.control.RegisterDebugProbe("sender.spilled", func() any { return d.sender.Spilled() })
	d.control.RegisterDebugProbe("receiver.spilled", func() any { return d.receiver.Spilled() })
	d.control.RegisterDebugProbe("cnc.consumer_heartbeat_ns", func() any {
		return d.cnc.CommandRing().ConsumerHeartbeatTime()
	})
}

// Run starts the conductor, the event reader and the proxy agent and blocks
// until ctx is done or Close is called. The agents are stopped before Run returns.
func (d *MediaDriver) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDriverClosed
	}
	if d.running {
		d.mu.Unlock()
		return concurrency.ErrAgentRunning
	}
	d.running = true
	defer close(d.stopped)

	d.runners = append(d.runners, concurrency.NewAgentRunner(d.conductor, d.cfg.MaxIdleBackoff, d.pinConductor, d.onAgentError(d.conductor)))
	d.runners = append(d.runners, concurrency.NewAgentRunner(d.transport, d.cfg.MaxIdleBackoff, nil, d.onAgentError(d.transport)))
	if d.eventReader != nil {
		d.runners = append(d.runners, concurrency.NewAgentRunner(d.eventReader, d.cfg.MaxIdleBackoff, nil, d.onAgentError(d.eventReader)))
	}
	runners := d.runners
	d.mu.Unlock()

	var wg sync.WaitGroup
	for _, r := range runners {
		wg.Add(1)
		go func(r *concurrency.AgentRunner) {
			defer wg.Done()
			if err := r.Run(ctx); err != nil && ctx.Err() == nil {
				d.logger.Error().Err(err).Msg("agent stopped")
			}
		}(r)
	}
	d.logger.Info().Int("agents", len(runners)).Msg("media driver running")

	select {
	case <-ctx.Done():
	case <-d.done:
	}
	for _, r := range runners {
		r.Stop()
	}
	wg.Wait()
	d.logger.Info().Msg("media driver stopped")
	return nil
}

func (d *MediaDriver) isRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running && !d.closed
}

func (d *MediaDriver) pinConductor() {
	cpu := d.cfg.ConductorCPU
	if cpu < 0 {
		return
	}
	if err := affinity.PinCurrentThread(cpu); err != nil {
		d.logger.Warn().Err(err).Int("cpu", cpu).Msg("conductor thread not pinned")
		return
	}
	d.logger.Info().Int("cpu", cpu).Msg("conductor thread pinned")
}

func (d *MediaDriver) onAgentError(agent concurrency.Agent) func(any) {
	return func(p any) {
		err := fmt.Errorf("agent %s panicked: %v", agent.RoleName(), p)
		d.events.LogException(err)
		d.control.Metrics().Inc(MetricErrors)
		d.logger.Error().Str("agent", agent.RoleName()).Interface("panic", p).Msg("agent duty cycle failed")
	}
}

// Close stops the agents, releases every publication and unmaps the CnC
// file. It is safe to call more than once.
func (d *MediaDriver) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.done)
	running := d.running
	d.mu.Unlock()

	if running {
		<-d.stopped
	}
	// Without Run the agents never executed OnClose.
	d.conductor.Close()
	d.transport.OnClose()
	if d.eventReader != nil {
		d.eventReader.OnClose()
	}

	var err error
	if d.cfg.DeleteDirOnClose {
		err = errors.Join(d.cnc.CloseAndRemove(), os.RemoveAll(d.cfg.Dir))
	} else {
		err = d.cnc.Close()
	}
	d.logger.Info().Err(err).Msg("media driver closed")
	return err
}

// CnCPath returns the path clients connect to.
func (d *MediaDriver) CnCPath() string { return d.cnc.Path() }

// Conductor exposes the conductor for inspection.
func (d *MediaDriver) Conductor() *Conductor { return d.conductor }

// ConductorProxy is the queue the receiver uses to report new connections.
func (d *MediaDriver) ConductorProxy() *DriverConductorProxy { return d.inbound }

// EventLogger returns the driver's event log, nil when disabled.
func (d *MediaDriver) EventLogger() *EventLogger { return d.events }

// Control exposes runtime config, metrics and debug probes.
func (d *MediaDriver) Control() api.Control { return d.control }

// Metrics exposes the registry the conductor updates.
func (d *MediaDriver) Metrics() *control.MetricsRegistry { return d.control.Metrics() }
