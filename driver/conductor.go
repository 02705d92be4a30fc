// File: driver/conductor.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Conductor is the single-threaded control loop of the media driver. It
// drains client commands, owns all publication, subscription, endpoint and
// client state, drives the timer wheel and hands work to the sender and
// receiver through proxies. No lock protects its state: only the goroutine
// calling DoWork may touch it.

package driver

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-mediadriver/api"
	"github.com/momentics/hioload-mediadriver/control"
	"github.com/momentics/hioload-mediadriver/core/buffer"
	"github.com/momentics/hioload-mediadriver/core/timer"
	"github.com/momentics/hioload-mediadriver/protocol/command"
)

// Metric keys maintained by the conductor.
const (
	MetricCommands          = "conductor.commands"
	MetricErrors            = "conductor.errors"
	MetricClientTimeouts    = "conductor.client_timeouts"
	MetricPublications      = "conductor.publications"
	MetricDraining          = "conductor.publications_draining"
	MetricSubscriptions     = "conductor.subscriptions"
	MetricEndpoints         = "conductor.endpoints"
	MetricClients           = "conductor.clients"
	MetricNewConnections    = "conductor.new_connections"
	MetricPublicationsFreed = "conductor.publications_closed"
)

const noCorrelationID int64 = -1

// Flusher is implemented by proxies that keep a retry backlog.
type Flusher interface {
	Flush() int
}

type heartbeater interface {
	SetConsumerHeartbeatTime(t int64)
}

// ConductorOption customises a Conductor.
type ConductorOption func(*Conductor)

// WithClock replaces the system clock.
func WithClock(clock api.NanoClock) ConductorOption {
	return func(c *Conductor) { c.clock = clock }
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) ConductorOption {
	return func(c *Conductor) { c.logger = logger }
}

// WithEventLogger sets the binary event log.
func WithEventLogger(events *EventLogger) ConductorOption {
	return func(c *Conductor) { c.events = events }
}

// WithMetrics sets the registry updated by the conductor.
func WithMetrics(metrics *control.MetricsRegistry) ConductorOption {
	return func(c *Conductor) { c.metrics = metrics }
}

// WithSenderProxy sets the sender hand-off.
func WithSenderProxy(p api.SenderProxy) ConductorOption {
	return func(c *Conductor) { c.sender = p }
}

// WithReceiverProxy sets the receiver hand-off.
func WithReceiverProxy(p api.ReceiverProxy) ConductorOption {
	return func(c *Conductor) { c.receiver = p }
}

// WithClientProxy sets the response channel.
func WithClientProxy(p api.ClientProxy) ConductorOption {
	return func(c *Conductor) { c.clients = p }
}

// WithTermBuffersFactory sets the log buffer allocator.
func WithTermBuffersFactory(f api.TermBuffersFactory) ConductorOption {
	return func(c *Conductor) { c.termBuffers = f }
}

// WithConductorProxy sets the inbound receiver notification queue.
func WithConductorProxy(p *DriverConductorProxy) ConductorOption {
	return func(c *Conductor) { c.inbound = p }
}

// WithInitialTermIDs replaces the random initial term id source.
func WithInitialTermIDs(next func() int32) ConductorOption {
	return func(c *Conductor) { c.nextTermID = next }
}

// Conductor implements concurrency.Agent.
type Conductor struct {
	cfg         *Config
	logger      zerolog.Logger
	events      *EventLogger
	metrics     *control.MetricsRegistry
	clock       api.NanoClock
	wheel       *timer.Wheel
	commands    api.ByteRing
	inbound     *DriverConductorProxy
	sender      api.SenderProxy
	receiver    api.ReceiverProxy
	clients     api.ClientProxy
	termBuffers api.TermBuffersFactory
	flushers    []Flusher
	channels    *channelCache
	nextTermID  func() int32

	publications     map[publicationKey]*Publication
	pubRegistrations map[int64]*publicationRegistration
	draining         map[int64]*Publication
	subscriptions    map[int64]*Subscription
	endpoints        map[string]*ReceiveChannelEndpoint
	clientSessions   map[int64]*clientLiveness

	commandView   *buffer.AtomicBuffer
	correlated    command.CorrelatedMessage
	pubMessage    command.PublicationMessage
	subMessage    command.SubscriptionMessage
	removeMessage command.RemoveMessage

	closed bool
}

// NewConductor builds a conductor reading commands from commands.
// Sender, receiver, client proxies and a term buffers factory are required.
func NewConductor(cfg *Config, commands api.ByteRing, opts ...ConductorOption) (*Conductor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if commands == nil {
		return nil, fmt.Errorf("%w: command ring is required", api.ErrInvalidArgument)
	}
	c := &Conductor{
		cfg:              cfg,
		logger:           zerolog.Nop(),
		clock:            api.SystemNanoClock,
		commands:         commands,
		nextTermID:       rand.Int32,
		publications:     make(map[publicationKey]*Publication),
		pubRegistrations: make(map[int64]*publicationRegistration),
		draining:         make(map[int64]*Publication),
		subscriptions:    make(map[int64]*Subscription),
		endpoints:        make(map[string]*ReceiveChannelEndpoint),
		clientSessions:   make(map[int64]*clientLiveness),
		commandView:      buffer.Wrap(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sender == nil || c.receiver == nil || c.clients == nil || c.termBuffers == nil {
		return nil, fmt.Errorf("%w: sender, receiver and client proxies and a term buffers factory are required", api.ErrInvalidArgument)
	}
	if c.metrics == nil {
		c.metrics = control.NewMetricsRegistry()
	}
	c.logger = c.logger.With().Str("component", "conductor").Logger()

	channels, err := newChannelCache(cfg.ChannelCacheSize)
	if err != nil {
		return nil, fmt.Errorf("channel cache: %w", err)
	}
	c.channels = channels
	c.wheel = timer.NewWheel(c.clock, cfg.ConductorTick, cfg.TicksPerWheel)

	for _, p := range []any{c.sender, c.receiver} {
		if f, ok := p.(Flusher); ok {
			c.flushers = append(c.flushers, f)
		}
	}
	return c, nil
}

func (c *Conductor) RoleName() string { return "driver-conductor" }

// OnClose releases every resource still held.
func (c *Conductor) OnClose() { c.Close() }

// DoWork runs one duty cycle and returns the amount of work done.
func (c *Conductor) DoWork() int {
	work := 0
	if c.inbound != nil {
		work += c.inbound.drain(c.onCreateConnection, c.cfg.CommandsPerCycle)
	}
	work += c.commands.Read(c.onCommand, c.cfg.CommandsPerCycle)

	now := c.clock()
	work += c.wheel.ExpireTimers(now, c.cfg.MaxTimersPerCycle)
	if hb, ok := c.commands.(heartbeater); ok {
		hb.SetConsumerHeartbeatTime(now)
	}
	for _, f := range c.flushers {
		work += f.Flush()
	}
	return work
}

// Wheel exposes the timer wheel, e.g. for idle sleep calculation.
func (c *Conductor) Wheel() *timer.Wheel { return c.wheel }

// ReceiverChannelEndpoint returns the endpoint for ch, or nil.
func (c *Conductor) ReceiverChannelEndpoint(ch *UdpChannel) *ReceiveChannelEndpoint {
	return c.endpoints[ch.CanonicalForm()]
}

// SenderChannelPublicationCount counts live publications on ch.
func (c *Conductor) SenderChannelPublicationCount(ch *UdpChannel) int {
	n := 0
	for key := range c.publications {
		if key.channel == ch.CanonicalForm() {
			n++
		}
	}
	return n
}

// Publication returns the live or draining publication registered under
// registrationID, or nil.
func (c *Conductor) Publication(registrationID int64) *Publication {
	if reg, ok := c.pubRegistrations[registrationID]; ok {
		return reg.publication
	}
	return c.draining[registrationID]
}

// Subscription returns the subscription registered under registrationID, or nil.
func (c *Conductor) Subscription(registrationID int64) *Subscription {
	return c.subscriptions[registrationID]
}

// ClientCount returns the number of live clients.
func (c *Conductor) ClientCount() int { return len(c.clientSessions) }

// Close closes every publication, its term buffers and every endpoint.
// Subsequent DoWork calls still drain the rings.
func (c *Conductor) Close() {
	if c.closed {
		return
	}
	c.closed = true

	pubs := make([]*Publication, 0, len(c.publications)+len(c.draining))
	for _, p := range c.publications {
		pubs = append(pubs, p)
	}
	for _, p := range c.draining {
		pubs = append(pubs, p)
	}
	sort.Slice(pubs, func(i, j int) bool { return pubs[i].registrationID < pubs[j].registrationID })
	for _, p := range pubs {
		c.wheel.Cancel(p.lingerTimer)
		c.closePublication(p)
	}

	keys := make([]string, 0, len(c.endpoints))
	for k := range c.endpoints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.receiver.CloseReceiveChannelEndpoint(c.endpoints[k])
	}
	for _, cl := range c.clientSessions {
		c.wheel.Cancel(cl.timerID)
	}

	clear(c.publications)
	clear(c.pubRegistrations)
	clear(c.draining)
	clear(c.subscriptions)
	clear(c.endpoints)
	clear(c.clientSessions)
	for _, f := range c.flushers {
		f.Flush()
	}
	c.publishGauges()
	c.logger.Info().Int("publications", len(pubs)).Int("endpoints", len(keys)).Msg("conductor closed")
}

func (c *Conductor) onCommand(typeID int32, buf *buffer.AtomicBuffer, offset, length int) {
	c.metrics.Inc(MetricCommands)
	c.events.LogCommand(typeID, buf, offset, length)

	// Flyweights see only this record so a short payload surfaces as a
	// *BoundsError instead of reading the next record.
	c.commandView.Rewrap(buf.Slice(offset, length))
	defer c.recoverMalformed(typeID)

	switch typeID {
	case command.AddPublication:
		c.pubMessage.Wrap(c.commandView, 0)
		c.onAddPublication(&c.pubMessage)
	case command.RemovePublication:
		c.removeMessage.Wrap(c.commandView, 0)
		c.onRemovePublication(&c.removeMessage)
	case command.AddSubscription:
		c.subMessage.Wrap(c.commandView, 0)
		c.onAddSubscription(&c.subMessage)
	case command.RemoveSubscription:
		c.subMessage.Wrap(c.commandView, 0)
		c.onRemoveSubscription(&c.subMessage)
	case command.ClientKeepalive:
		c.correlated.Wrap(c.commandView, 0)
		c.onClientKeepalive(c.correlated.ClientID())
	default:
		correlationID := noCorrelationID
		if length >= command.CorrelatedMessageLength {
			c.correlated.Wrap(c.commandView, 0)
			correlationID = c.correlated.CorrelationID()
		}
		c.onError(api.ErrCodeUnknownCommand,
			fmt.Sprintf("unknown command type %#x length=%d", typeID, length), correlationID)
	}
}

func (c *Conductor) recoverMalformed(typeID int32) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	var be *buffer.BoundsError
	if !ok || !errors.As(err, &be) {
		panic(r)
	}
	correlationID := noCorrelationID
	if c.commandView.Capacity() >= command.CorrelatedMessageLength {
		c.correlated.Wrap(c.commandView, 0)
		correlationID = c.correlated.CorrelationID()
	}
	c.onError(api.ErrCodeMalformedCommand,
		fmt.Sprintf("malformed %s: %v", command.TypeName(typeID), be), correlationID)
}

func (c *Conductor) onAddPublication(msg *command.PublicationMessage) {
	clientID := msg.ClientID()
	correlationID := msg.CorrelationID()
	sessionID := msg.SessionID()
	streamID := msg.StreamID()
	uri := msg.Channel()
	client := c.touchClient(clientID)

	if c.isRegistered(correlationID) {
		c.onError(api.ErrCodeGeneric, fmt.Sprintf("duplicate registration id %d", correlationID), correlationID)
		return
	}
	ch, err := c.channels.parse(uri)
	if err != nil {
		c.onError(api.ErrCodeInvalidChannel, err.Error(), correlationID)
		return
	}

	key := publicationKey{channel: ch.CanonicalForm(), sessionID: sessionID, streamID: streamID}
	pub, ok := c.publications[key]
	if ok {
		pub.refCount++
	} else {
		tb, err := c.termBuffers.NewPublication(ch.CanonicalForm(), sessionID, streamID)
		if err != nil {
			c.onError(api.ErrCodeGeneric, err.Error(), correlationID)
			return
		}
		pub = newPublication(correlationID, clientID, sessionID, streamID, c.nextTermID(), ch, tb, c.clock())
		c.publications[key] = pub
		c.sender.NewPublication(pub)
		c.logger.Debug().
			Int64("registration_id", correlationID).
			Str("channel", ch.CanonicalForm()).
			Int32("session_id", sessionID).
			Int32("stream_id", streamID).
			Msg("publication added")
	}

	c.pubRegistrations[correlationID] = &publicationRegistration{id: correlationID, clientID: clientID, publication: pub}
	client.own(correlationID, publicationRegistrationKind)
	c.publishGauges()
	c.clients.OnPublicationReady(uri, sessionID, streamID, pub.initialTermID, pub.termBuffers, correlationID)
}

func (c *Conductor) onRemovePublication(msg *command.RemoveMessage) {
	correlationID := msg.CorrelationID()
	registrationID := msg.RegistrationID()
	sessionID := msg.SessionID()
	streamID := msg.StreamID()
	c.touchClient(msg.ClientID())

	reg, ok := c.pubRegistrations[registrationID]
	if !ok || reg.publication.sessionID != sessionID || reg.publication.streamID != streamID {
		c.onError(api.ErrCodeUnknownPublication,
			fmt.Sprintf("unknown publication registration=%d session=%d stream=%d", registrationID, sessionID, streamID),
			correlationID)
		return
	}
	c.removePublicationRegistration(reg)
	c.clients.OperationSucceeded(correlationID)
}

func (c *Conductor) removePublicationRegistration(reg *publicationRegistration) {
	delete(c.pubRegistrations, reg.id)
	if cl := c.clientSessions[reg.clientID]; cl != nil {
		cl.disown(reg.id)
	}

	pub := reg.publication
	pub.refCount--
	if pub.refCount > 0 {
		return
	}

	delete(c.publications, pub.key())
	pub.state = PublicationDraining
	pub.lingerDeadline = c.clock() + int64(c.cfg.PublicationLinger)
	pub.lingerTimer = c.wheel.ScheduleAt(pub.lingerDeadline, func() { c.onPublicationLinger(pub) })
	c.draining[pub.registrationID] = pub
	c.publishGauges()
}

func (c *Conductor) onPublicationLinger(pub *Publication) {
	delete(c.draining, pub.registrationID)
	c.closePublication(pub)
	c.metrics.Inc(MetricPublicationsFreed)
	c.publishGauges()
	c.logger.Debug().
		Int64("registration_id", pub.registrationID).
		Int32("session_id", pub.sessionID).
		Int32("stream_id", pub.streamID).
		Msg("publication closed")
}

func (c *Conductor) closePublication(pub *Publication) {
	pub.state = PublicationClosed
	pub.lingerTimer = timer.NullTimer
	c.sender.ClosePublication(pub)
	if err := pub.termBuffers.Close(); err != nil {
		c.logException(fmt.Errorf("close term buffers of publication %d: %w", pub.registrationID, err))
	}
}

func (c *Conductor) onAddSubscription(msg *command.SubscriptionMessage) {
	clientID := msg.ClientID()
	correlationID := msg.CorrelationID()
	streamID := msg.StreamID()
	uri := msg.Channel()
	client := c.touchClient(clientID)

	if c.isRegistered(correlationID) {
		c.onError(api.ErrCodeGeneric, fmt.Sprintf("duplicate registration id %d", correlationID), correlationID)
		return
	}
	ch, err := c.channels.parse(uri)
	if err != nil {
		c.onError(api.ErrCodeInvalidChannel, err.Error(), correlationID)
		return
	}

	ep, ok := c.endpoints[ch.CanonicalForm()]
	if !ok {
		ep = newReceiveChannelEndpoint(ch)
		c.endpoints[ch.CanonicalForm()] = ep
		c.receiver.RegisterEndpoint(ep)
	}
	if ep.incRef(streamID) {
		c.receiver.AddSubscription(ep, streamID)
	}

	c.subscriptions[correlationID] = &Subscription{
		registrationID: correlationID,
		clientID:       clientID,
		streamID:       streamID,
		endpoint:       ep,
	}
	client.own(correlationID, subscriptionRegistrationKind)
	c.publishGauges()
	c.clients.OperationSucceeded(correlationID)
}

func (c *Conductor) onRemoveSubscription(msg *command.SubscriptionMessage) {
	correlationID := msg.CorrelationID()
	registrationID := msg.RegistrationCorrelationID()
	streamID := msg.StreamID()
	uri := msg.Channel()
	c.touchClient(msg.ClientID())

	ch, err := c.channels.parse(uri)
	if err != nil {
		c.onError(api.ErrCodeInvalidChannel, err.Error(), correlationID)
		return
	}
	sub, ok := c.subscriptions[registrationID]
	if !ok || sub.streamID != streamID || sub.endpoint.Channel() != ch.CanonicalForm() {
		c.onError(api.ErrCodeUnknownSubscription,
			fmt.Sprintf("unknown subscription registration=%d stream=%d channel=%s", registrationID, streamID, uri),
			correlationID)
		return
	}
	c.removeSubscription(sub)
	c.clients.OperationSucceeded(correlationID)
}

func (c *Conductor) removeSubscription(sub *Subscription) {
	delete(c.subscriptions, sub.registrationID)
	if cl := c.clientSessions[sub.clientID]; cl != nil {
		cl.disown(sub.registrationID)
	}

	ep := sub.endpoint
	if ep.decRef(sub.streamID) {
		c.receiver.RemoveSubscription(ep, sub.streamID)
	}
	if ep.StreamCount() == 0 {
		delete(c.endpoints, ep.Channel())
		c.receiver.CloseReceiveChannelEndpoint(ep)
	}
	c.publishGauges()
}

func (c *Conductor) onClientKeepalive(clientID int64) {
	cl, ok := c.clientSessions[clientID]
	if !ok {
		c.touchClient(clientID)
		return
	}
	now := c.clock()
	cl.lastKeepalive = now
	cl.deadline = now + int64(c.cfg.ClientLivenessTimeout)
	cl.timerID = c.wheel.Reschedule(cl.timerID, cl.deadline+1)
}

// touchClient returns the liveness record for clientID, registering the
// client and arming its timer on first contact.
func (c *Conductor) touchClient(clientID int64) *clientLiveness {
	if cl, ok := c.clientSessions[clientID]; ok {
		return cl
	}
	now := c.clock()
	cl := newClientLiveness(clientID, now)
	cl.deadline = now + int64(c.cfg.ClientLivenessTimeout)
	cl.timerID = c.wheel.ScheduleAt(cl.deadline+1, func() { c.onClientTimeout(cl) })
	c.clientSessions[clientID] = cl
	c.publishGauges()
	c.logger.Debug().Int64("client_id", clientID).Msg("client registered")
	return cl
}

func (c *Conductor) onClientTimeout(cl *clientLiveness) {
	if c.clientSessions[cl.clientID] != cl {
		return
	}
	owned := cl.ownedIDs()
	for _, id := range owned {
		switch cl.registrations[id] {
		case publicationRegistrationKind:
			if reg, ok := c.pubRegistrations[id]; ok {
				c.removePublicationRegistration(reg)
			}
		case subscriptionRegistrationKind:
			if sub, ok := c.subscriptions[id]; ok {
				c.removeSubscription(sub)
			}
		}
	}
	delete(c.clientSessions, cl.clientID)
	c.metrics.Inc(MetricClientTimeouts)
	c.publishGauges()
	c.logger.Info().
		Int64("client_id", cl.clientID).
		Int("registrations", len(owned)).
		Dur("silent_for", time.Duration(c.clock()-cl.lastKeepalive)).
		Msg("client timed out")
}

func (c *Conductor) onCreateConnection(cmd ConnectionCommand) {
	ch, err := c.channels.parse(cmd.Channel)
	if err != nil {
		c.logException(fmt.Errorf("create connection: %w", err))
		return
	}
	ep, ok := c.endpoints[ch.CanonicalForm()]
	if !ok || ep.RefCount(cmd.StreamID) == 0 {
		return
	}

	ids := make([]int64, 0, ep.RefCount(cmd.StreamID))
	for id, sub := range c.subscriptions {
		if sub.endpoint == ep && sub.streamID == cmd.StreamID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c.clients.OnNewConnection(cmd.Channel, cmd.SessionID, cmd.StreamID, cmd.TermID, id)
	}
	c.metrics.Inc(MetricNewConnections)
}

func (c *Conductor) isRegistered(id int64) bool {
	if _, ok := c.pubRegistrations[id]; ok {
		return true
	}
	_, ok := c.subscriptions[id]
	return ok
}

func (c *Conductor) onError(code api.ErrorCode, message string, correlationID int64) {
	c.metrics.Inc(MetricErrors)
	c.logException(api.NewError(code, message).WithContext("correlation_id", correlationID))
	c.clients.OnError(code, message, correlationID)
}

func (c *Conductor) logException(err error) {
	c.events.LogException(err)
	c.logger.Warn().Err(err).Msg("conductor error")
}

func (c *Conductor) publishGauges() {
	c.metrics.Set(MetricPublications, len(c.publications))
	c.metrics.Set(MetricDraining, len(c.draining))
	c.metrics.Set(MetricSubscriptions, len(c.subscriptions))
	c.metrics.Set(MetricEndpoints, len(c.endpoints))
	c.metrics.Set(MetricClients, len(c.clientSessions))
}
