package runtime

import (
	"chat-live/contract"
	"chat-live/domain/event"
	"context"
	"log/slog"
	"time"
)

// Dispatcher resolves a scope into sinks and pushes the event to each of them.
// A slow or dead connection costs at most sinkTimeout and never fails the caller.
type Dispatcher struct {
	log         *slog.Logger
	registry    contract.IRegistry
	relay       contract.IRelay
	sinkTimeout time.Duration
}

func NewDispatcher(log *slog.Logger, registry contract.IRegistry, sinkTimeout time.Duration) *Dispatcher {
	return &Dispatcher{log: log, registry: registry, sinkTimeout: sinkTimeout}
}

// WithRelay makes room and global events reach the other nodes of a cluster.
func (d *Dispatcher) WithRelay(relay contract.IRelay) *Dispatcher {
	d.relay = relay
	return d
}

func (d *Dispatcher) Send(ctx context.Context, scope event.Scope, e event.Event) {
	d.DeliverLocal(ctx, scope, e)

	if d.relay == nil || !scope.Relayable() {
		return
	}
	if err := d.relay.Publish(ctx, scope, e); err != nil {
		d.log.Warn("Unable to relay event", "event", e.Name(), "scope", scope.Kind.String(), "error", err)
	}
}

// DeliverLocal only targets connections held by this node.
func (d *Dispatcher) DeliverLocal(ctx context.Context, scope event.Scope, e event.Event) {
	for _, sink := range d.sinksFor(scope) {
		d.deliver(ctx, sink, e)
	}
}

func (d *Dispatcher) sinksFor(scope event.Scope) []contract.EventSink {
	switch scope.Kind {
	case event.ScopeConnection:
		sink, ok := d.registry.Sink(scope.Connection)
		if !ok {
			d.log.Debug("Connection is gone", "conn_id", scope.Connection)
			return nil
		}
		return []contract.EventSink{sink}
	case event.ScopeRoom:
		return d.registry.SinksForRoom(scope.Room, scope.Except)
	case event.ScopeGlobal, event.ScopeNode:
		return d.registry.Sinks()
	default:
		d.log.Warn("Unknown scope", "scope", scope.Kind.String())
		return nil
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sink contract.EventSink, e event.Event) {
	sinkCtx, cancel := context.WithTimeout(ctx, d.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, e); err != nil {
		d.log.Debug("Event not delivered", "event", e.Name(), "error", err)
	}
}

// OnRelay is the inbound side of the relay: peer events only go to local sinks.
func (d *Dispatcher) OnRelay(ctx context.Context, scope event.Scope, e event.Raw) {
	d.DeliverLocal(ctx, scope, e)
}
