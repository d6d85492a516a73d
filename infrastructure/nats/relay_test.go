package nats

import (
	"chat-live/domain"
	"chat-live/domain/event"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

type received struct {
	scope event.Scope
	raw   event.Raw
}

func capture(into *[]received) func(ctx context.Context, scope event.Scope, e event.Raw) {
	return func(_ context.Context, scope event.Scope, e event.Raw) {
		*into = append(*into, received{scope: scope, raw: e})
	}
}

func TestRelay_Delivers_Peer_Room_Event(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given an event published by node-a
	publisher := NewRelay(log, nil, "chat", "node-a")
	data, err := publisher.encode(event.ToRoom("general", "conn-1"), event.Deleted{ID: "42"})
	req.NoError(err)

	// When node-b receives it
	var got []received
	subscriber := NewRelay(log, nil, "chat", "node-b")
	subscriber.handle(context.Background(), &nats.Msg{Subject: "chat.room", Data: data}, capture(&got))

	// Then the handler gets the same scope and the raw payload
	req.Len(got, 1)
	req.Equal(event.ScopeRoom, got[0].scope.Kind)
	req.Equal(domain.RoomID("general"), got[0].scope.Room)
	req.Equal(domain.ConnectionID("conn-1"), got[0].scope.Except)
	req.Equal(event.MessageDeleted, got[0].raw.Name())
	req.JSONEq(`{"id":"42"}`, string(got[0].raw.Payload))
}

func TestRelay_Skips_Own_Events(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given an event published by this very node
	relay := NewRelay(log, nil, "chat", "node-a")
	data, err := relay.encode(event.ToAll(), event.OnlineUsersEvent{Users: []domain.UserID{"u1"}})
	req.NoError(err)

	// When it comes back from the server
	var got []received
	relay.handle(context.Background(), &nats.Msg{Subject: "chat.global", Data: data}, capture(&got))

	// Then nothing is delivered twice
	req.Empty(got)
}

func TestRelay_Drops_Malformed_And_Local_Scopes(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	relay := NewRelay(log, nil, "chat", "node-b")

	// Given a garbage frame and a connection-scoped frame
	local, err := json.Marshal(envelope{Node: "node-a", Kind: event.ScopeConnection, Event: event.MessageNotFound})
	req.NoError(err)

	// When both arrive
	var got []received
	relay.handle(context.Background(), &nats.Msg{Data: []byte("not json")}, capture(&got))
	relay.handle(context.Background(), &nats.Msg{Data: local}, capture(&got))

	// Then neither reaches the handler
	req.Empty(got)
}

func TestRelay_Subject_Per_Scope(t *testing.T) {
	req := require.New(t)
	relay := NewRelay(logs.GetLoggerFromLevel(slog.LevelDebug), nil, "chat", "node-a")

	req.Equal("chat.global", relay.subjectFor(event.ToAll()))
	req.Equal("chat.room", relay.subjectFor(event.ToRoom("general", "")))
}
