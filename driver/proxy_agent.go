// File: driver/proxy_agent.go
// Package driver
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// proxyAgent consumes the sender and receiver hand-off queues. It keeps the
// view of active publications and endpoints those contexts would hold; the
// UDP transport itself is not part of this driver.

package driver

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

const proxyDrainLimit = 64

type proxyAgent struct {
	sender   *SenderProxy
	receiver *ReceiverProxy
	logger   zerolog.Logger

	publications map[int64]string
	endpoints    map[string]int

	activePublications atomic.Int64
	activeEndpoints    atomic.Int64
}

func newProxyAgent(sender *SenderProxy, receiver *ReceiverProxy, logger zerolog.Logger) *proxyAgent {
	return &proxyAgent{
		sender:       sender,
		receiver:     receiver,
		logger:       logger.With().Str("component", "proxy-agent").Logger(),
		publications: make(map[int64]string),
		endpoints:    make(map[string]int),
	}
}

func (a *proxyAgent) RoleName() string { return "sender-receiver" }

func (a *proxyAgent) DoWork() int {
	return a.sender.Drain(a.onSenderCommand, proxyDrainLimit) +
		a.receiver.Drain(a.onReceiverCommand, proxyDrainLimit)
}

// OnClose drains what is queued; it may run twice.
func (a *proxyAgent) OnClose() {
	for a.DoWork() > 0 {
	}
}

func (a *proxyAgent) onSenderCommand(cmd SenderCommand) {
	pub := cmd.Publication
	switch cmd.Type {
	case SenderNewPublication:
		a.publications[pub.RegistrationID()] = pub.Channel()
		a.logger.Debug().
			Int64("registration_id", pub.RegistrationID()).
			Int32("session_id", pub.SessionID()).
			Int32("stream_id", pub.StreamID()).
			Str("channel", pub.Channel()).
			Msg("sender publication added")
	case SenderClosePublication:
		delete(a.publications, pub.RegistrationID())
		a.logger.Debug().
			Int64("registration_id", pub.RegistrationID()).
			Msg("sender publication closed")
	}
	a.activePublications.Store(int64(len(a.publications)))
}

func (a *proxyAgent) onReceiverCommand(cmd ReceiverCommand) {
	channel := cmd.Endpoint.Channel()
	switch cmd.Type {
	case ReceiverRegisterEndpoint:
		a.endpoints[channel] = 0
	case ReceiverAddSubscription:
		a.endpoints[channel]++
	case ReceiverRemoveSubscription:
		if a.endpoints[channel] > 0 {
			a.endpoints[channel]--
		}
	case ReceiverCloseEndpoint:
		delete(a.endpoints, channel)
	}
	a.activeEndpoints.Store(int64(len(a.endpoints)))
	a.logger.Debug().
		Str("channel", channel).
		Int32("stream_id", cmd.StreamID).
		Uint8("command", uint8(cmd.Type)).
		Msg("receiver command")
}

// ActivePublications is the number of publications the sender holds.
func (a *proxyAgent) ActivePublications() int64 { return a.activePublications.Load() }

// ActiveEndpoints is the number of endpoints the receiver holds.
func (a *proxyAgent) ActiveEndpoints() int64 { return a.activeEndpoints.Load() }
