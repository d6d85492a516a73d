package nats

import (
	"chat-live/contract"
	"chat-live/domain"
	"chat-live/domain/event"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
)

// envelope is what travels between nodes.
type envelope struct {
	Node    string          `json:"node"`
	Kind    event.ScopeKind `json:"kind"`
	Room    domain.RoomID   `json:"room,omitempty"`
	Except  string          `json:"except,omitempty"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Relay publishes room and global events on NATS core subjects and hands the
// events of the other nodes to a handler. Delivery is at-most-once.
type Relay struct {
	log     *slog.Logger
	conn    *nats.Conn
	subject string
	nodeID  string

	mu  sync.Mutex
	sub *nats.Subscription
}

var _ contract.IRelay = (*Relay)(nil)

// Connect dials the NATS server at url.
func Connect(log *slog.Logger, url, subject, nodeID string) (*Relay, error) {
	conn, err := nats.Connect(url,
		nats.Name("chat-live-"+nodeID),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewRelay(log, conn, subject, nodeID), nil
}

func NewRelay(log *slog.Logger, conn *nats.Conn, subject, nodeID string) *Relay {
	return &Relay{log: log, conn: conn, subject: subject, nodeID: nodeID}
}

func (r *Relay) Publish(_ context.Context, scope event.Scope, e event.Event) error {
	data, err := r.encode(scope, e)
	if err != nil {
		return err
	}
	subject := r.subjectFor(scope)
	if err := r.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to subject '%s': %w", subject, err)
	}
	return nil
}

// Subscribe listens to every scope of the cluster subject until ctx is done or Close is called.
func (r *Relay) Subscribe(ctx context.Context, handler contract.RelayHandler) error {
	sub, err := r.conn.Subscribe(r.subject+".>", func(msg *nats.Msg) {
		r.handle(ctx, msg, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to '%s': %w", r.subject, err)
	}

	r.mu.Lock()
	r.sub = sub
	r.mu.Unlock()

	r.log.Info("Subscribed to cluster relay", "subject", r.subject, "node_id", r.nodeID)
	return nil
}

func (r *Relay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sub != nil {
		_ = r.sub.Unsubscribe()
		r.sub = nil
	}
	if r.conn != nil {
		r.conn.Close()
	}
}

func (r *Relay) handle(ctx context.Context, msg *nats.Msg, handler contract.RelayHandler) {
	var env envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		r.log.Warn("Dropping malformed relay message", "subject", msg.Subject, "error", err)
		return
	}
	// Our own events were already delivered locally.
	if env.Node == r.nodeID {
		return
	}

	scope := event.Scope{Kind: env.Kind, Room: env.Room, Except: domain.ConnectionID(env.Except)}
	if !scope.Relayable() {
		r.log.Warn("Dropping relay message with local scope", "scope", scope.Kind.String())
		return
	}
	handler(ctx, scope, event.Raw{EventName: env.Event, Payload: env.Payload})
}

func (r *Relay) encode(scope event.Scope, e event.Event) ([]byte, error) {
	payload, err := json.Marshal(e.Data())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", e.Name(), err)
	}
	return json.Marshal(envelope{
		Node:    r.nodeID,
		Kind:    scope.Kind,
		Room:    scope.Room,
		Except:  string(scope.Except),
		Event:   e.Name(),
		Payload: payload,
	})
}

func (r *Relay) subjectFor(scope event.Scope) string {
	if scope.Kind == event.ScopeGlobal {
		return r.subject + ".global"
	}
	return r.subject + ".room"
}
