//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-live/domain"
	"chat-live/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one live connection able to receive events.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// IRegistry tracks live connections and the rooms they joined.
type IRegistry interface {
	Connect(conn domain.ConnectionID, sink EventSink)
	Disconnect(conn domain.ConnectionID) []domain.RoomID
	Join(conn domain.ConnectionID, room domain.RoomID) bool
	Leave(conn domain.ConnectionID, room domain.RoomID) bool
	RoomsOf(conn domain.ConnectionID) []domain.RoomID
	Sink(conn domain.ConnectionID) (EventSink, bool)
	SinksForRoom(room domain.RoomID, except domain.ConnectionID) []EventSink
	Sinks() []EventSink
	Count() int
}

// IPresence maps connections to the user they announced.
// Every mutation returns the snapshot taken under the same lock.
type IPresence interface {
	Register(conn domain.ConnectionID, user domain.UserID) []domain.UserID
	Unregister(conn domain.ConnectionID) []domain.UserID
	Snapshot() []domain.UserID
}

// IDispatcher delivers an event to every connection of a scope.
// Delivery is fire-and-forget: failures are logged, never returned.
type IDispatcher interface {
	Send(ctx context.Context, scope event.Scope, e event.Event)
}

// RelayHandler receives events published by another node.
type RelayHandler func(ctx context.Context, scope event.Scope, e event.Raw)

// IRelay forwards room and global events between nodes of a cluster.
type IRelay interface {
	Publish(ctx context.Context, scope event.Scope, e event.Event) error
	Subscribe(ctx context.Context, handler RelayHandler) error
	Close()
}
