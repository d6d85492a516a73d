package runtime

import (
	"chat-live/domain"
	"chat-live/domain/event"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	id string
}

func (s Sink) Consume(ctx context.Context, e event.Event) error {
	return nil
}

func newConn() domain.ConnectionID {
	return domain.ConnectionID(uuid.NewString())
}

func TestRegistry_Join_One_Room_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := newConn()
	room := domain.RoomID("general")
	sink := Sink{id: "1"}

	// Given no connection is registered
	req.Zero(registry.Count())
	req.Empty(registry.SinksForRoom(room, ""))

	// When a connection joins a room
	registry.Connect(conn, sink)
	req.True(registry.Join(conn, room))

	// Then
	req.Equal(1, registry.Count())
	req.Equal([]domain.RoomID{room}, registry.RoomsOf(conn))
	req.Len(registry.SinksForRoom(room, ""), 1)
	req.Contains(registry.SinksForRoom(room, ""), sink)
}

func TestRegistry_Join_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := newConn()
	room := domain.RoomID("general")

	registry.Connect(conn, Sink{})
	req.True(registry.Join(conn, room))

	// When the same connection joins twice
	req.False(registry.Join(conn, room))

	// Then it is only delivered once
	req.Len(registry.SinksForRoom(room, ""), 1)
}

func TestRegistry_Unknown_Connection_Cannot_Join(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.False(registry.Join(newConn(), "general"))
	req.Empty(registry.SinksForRoom("general", ""))
}

func TestRegistry_Connection_In_Many_Rooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn1, conn2 := newConn(), newConn()
	sink1, sink2 := Sink{id: "1"}, Sink{id: "2"}

	registry.Connect(conn1, sink1)
	registry.Connect(conn2, sink2)
	registry.Join(conn1, "r1")
	registry.Join(conn1, "r2")
	registry.Join(conn2, "r2")

	req.ElementsMatch([]domain.RoomID{"r1", "r2"}, registry.RoomsOf(conn1))
	req.Len(registry.SinksForRoom("r1", ""), 1)
	req.ElementsMatch(toAny(registry.SinksForRoom("r2", "")), []any{sink1, sink2})

	// When sender is excluded
	req.Equal([]any{sink2}, toAny(registry.SinksForRoom("r2", conn1)))
}

func TestRegistry_Leave(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := newConn()

	registry.Connect(conn, Sink{})
	registry.Join(conn, "r1")

	req.True(registry.Leave(conn, "r1"))
	req.False(registry.Leave(conn, "r1"))
	req.Empty(registry.SinksForRoom("r1", ""))
	req.Empty(registry.roomMembers)
	// Still connected
	req.Equal(1, registry.Count())
}

func TestRegistry_Disconnect_Vacates_Every_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn, other := newConn(), newConn()

	registry.Connect(conn, Sink{id: "1"})
	registry.Connect(other, Sink{id: "2"})
	registry.Join(conn, "r1")
	registry.Join(conn, "r2")
	registry.Join(other, "r2")

	// When the connection drops
	left := registry.Disconnect(conn)

	// Then no room delivers to it anymore
	req.ElementsMatch([]domain.RoomID{"r1", "r2"}, left)
	req.Empty(registry.SinksForRoom("r1", ""))
	req.Equal([]any{Sink{id: "2"}}, toAny(registry.SinksForRoom("r2", "")))
	req.Empty(registry.RoomsOf(conn))
	_, ok := registry.Sink(conn)
	req.False(ok)
	req.Equal(1, registry.Count())
	req.Len(registry.Sinks(), 1)
}

func TestRegistry_Disconnect_Unknown_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.Empty(registry.Disconnect(newConn()))
}

func toAny[T any](items []T) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
