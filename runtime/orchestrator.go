// Package runtime handles connection tracking, presence and event delivery.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"chat-live/contract"
	"chat-live/runtime/workers"
	"context"
	"log/slog"
	"sync"
	"time"
)

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	supervisor     contract.ISupervisor
	registry       *Registry
	presence       *Presence
	dispatcher     *Dispatcher
	relay          contract.IRelay
	metricInterval time.Duration
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry *Registry, presence *Presence, dispatcher *Dispatcher,
	metricInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		log:            log,
		supervisor:     supervisor,
		registry:       registry,
		presence:       presence,
		dispatcher:     dispatcher,
		metricInterval: metricInterval,
	}
}

// WithRelay plugs a cluster relay on both sides: outgoing events are published
// by the dispatcher and incoming ones are consumed by a supervised worker.
func (o *Orchestrator) WithRelay(relay contract.IRelay) *Orchestrator {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.relay = relay
	o.dispatcher.WithRelay(relay)
	return o
}

func (o *Orchestrator) Registry() *Registry     { return o.registry }
func (o *Orchestrator) Presence() *Presence     { return o.presence }
func (o *Orchestrator) Dispatcher() *Dispatcher { return o.dispatcher }

// Start registers the background workers and blocks until the supervisor returns.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	o.supervisor.Add(workers.NewHeartbeatWorker(o.log, o.registry, o.presence, o.metricInterval))
	if o.relay != nil {
		o.supervisor.Add(workers.NewRelayWorker(o.log, o.relay, o.dispatcher.OnRelay))
	}
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

// Stop cancels the supervised context; workers stop on ctx.Done.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
	if o.relay != nil {
		o.relay.Close()
	}
}
