package ws

import (
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"chat-live/repositories"
	"chat-live/runtime"
	"chat-live/services"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stack struct {
	server   *httptest.Server
	registry *runtime.Registry
	messages repositories.MessageRepository
	users    repositories.IUserRepository
	clock    *clock
}

func newStack(t *testing.T) stack {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	messages := repositories.NewMessageRepository(db, log, nil)
	rooms := repositories.NewRoomRepository(db)
	users := repositories.NewUserRepository(db)
	registry := runtime.NewRegistry()
	dispatcher := runtime.NewDispatcher(log, registry, time.Second)
	c := &clock{now: time.Now().UTC()}

	chat := services.NewChatService(log, messages, rooms, users, dispatcher, domain.DefaultEditWindow).WithClock(c.Now)
	presence := services.NewPresenceService(log, runtime.NewPresence(), registry, dispatcher)
	router := NewRouter(log, chat, presence, services.NewSignalService(dispatcher), dispatcher)
	handler := NewHandler(log, presence, router, Options{BufferSize: 64, MaxMessageSize: 4096, AllowedOrigins: []string{"*"}})

	mux := http.NewServeMux()
	mux.Handle("GET /ws", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return stack{server: server, registry: registry, messages: messages, users: users, clock: c}
}

func (s stack) dial(t *testing.T) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func emit(t *testing.T, conn *websocket.Conn, name string, data any) {
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	frame, err := json.Marshal(event.Envelope{Event: name, Data: payload})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

// expect reads the next event and checks its name, returning the raw data.
func expect(t *testing.T, conn *websocket.Conn, name string) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	var envelope event.Envelope
	require.NoError(t, json.Unmarshal(frame, &envelope))
	require.Equal(t, name, envelope.Event, "unexpected event %s", string(frame))
	return envelope.Data
}

// expectSilence fails if an event arrives within a short delay.
func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, frame, err := conn.ReadMessage()
	require.Error(t, err, "unexpected frame %s", string(frame))
}

func decodeAs[T any](t *testing.T, data json.RawMessage) T {
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestHandler_Chat_Scenarios(t *testing.T) {
	req := require.New(t)
	s := newStack(t)
	alice, err := s.users.CreateUser("alice", "hash")
	req.NoError(err)

	// Scenario 1: presence snapshots in registration order
	a := s.dial(t)
	emit(t, a, event.UserOnline, alice.ID)
	req.Equal([]domain.UserID{alice.ID}, decodeAs[[]domain.UserID](t, expect(t, a, event.OnlineUsers)))

	b := s.dial(t)
	emit(t, b, event.UserOnline, "u2")
	req.Equal([]domain.UserID{alice.ID, "u2"}, decodeAs[[]domain.UserID](t, expect(t, a, event.OnlineUsers)))
	req.Equal([]domain.UserID{alice.ID, "u2"}, decodeAs[[]domain.UserID](t, expect(t, b, event.OnlineUsers)))

	// Scenario 2: both join r1, A sends a message
	emit(t, a, event.JoinRoom, "r1")
	emit(t, b, event.JoinRoom, "r1")
	req.Eventually(func() bool { return len(s.registry.SinksForRoom("r1", "")) == 2 }, time.Second, 10*time.Millisecond)

	emit(t, a, event.SendMessage, map[string]string{"senderId": string(alice.ID), "text": "hi", "roomId": "r1"})
	received := decodeAs[domain.Message](t, expect(t, a, event.ReceiveMessage))
	req.Equal(domain.StatusSent, received.Status)
	req.Equal("alice", received.Sender.Username)
	req.False(received.Edited)
	status := decodeAs[event.StatusUpdated](t, expect(t, a, event.MessageStatusUpdate))
	req.Equal(event.StatusUpdated{ID: received.ID, Status: domain.StatusSent}, status)

	req.Equal(received.ID, decodeAs[domain.Message](t, expect(t, b, event.ReceiveMessage)).ID)

	// Scenario 3: B acknowledges delivery, the whole room is told
	emit(t, b, event.MarkDelivered, received.ID.String())
	delivered := event.StatusUpdated{ID: received.ID, Status: domain.StatusDelivered}
	req.Equal(delivered, decodeAs[event.StatusUpdated](t, expect(t, a, event.MessageStatusUpdate)))
	req.Equal(delivered, decodeAs[event.StatusUpdated](t, expect(t, b, event.MessageStatusUpdate)))

	// Typing reaches B, never A
	emit(t, a, event.StartTyping, map[string]string{"roomId": "r1", "username": "alice"})
	req.Equal("alice", decodeAs[string](t, expect(t, b, event.UserTyping)))

	// Scenario 4: editing 16 minutes later fails for A only
	s.clock.Advance(16 * time.Minute)
	emit(t, a, event.EditMessage, map[string]string{"messageId": received.ID.String(), "newText": "edited"})
	rejected := decodeAs[event.EditRejected](t, expect(t, a, event.EditFailed))
	req.Equal(event.EditRejected{MessageID: received.ID.String(), Reason: "Time limit passed"}, rejected)
	stored, err := s.messages.FindMessage(received.ID)
	req.NoError(err)
	req.Equal("hi", stored.Content)

	// Scenario 5: delete for everyone
	emit(t, a, event.DeleteMessage, map[string]any{"messageId": received.ID.String(), "forEveryone": true})
	req.Equal(event.Deleted{ID: received.ID.String()}, decodeAs[event.Deleted](t, expect(t, a, event.MessageDeleted)))
	req.Equal(event.Deleted{ID: received.ID.String()}, decodeAs[event.Deleted](t, expect(t, b, event.MessageDeleted)))
	_, err = s.messages.FindMessage(received.ID)
	req.ErrorIs(err, errors.ErrMessageNotFound)
	expectSilence(t, b)

	// B leaves: A sees the remaining users
	req.NoError(b.Close())
	req.Equal([]domain.UserID{alice.ID}, decodeAs[[]domain.UserID](t, expect(t, a, event.OnlineUsers)))
	req.Eventually(func() bool { return len(s.registry.SinksForRoom("r1", "")) == 1 }, time.Second, 10*time.Millisecond)
}

func TestHandler_Acknowledgments_And_Errors(t *testing.T) {
	req := require.New(t)
	s := newStack(t)
	a := s.dial(t)
	missing := uuid.NewString()

	// Unknown message
	emit(t, a, event.EditMessage, map[string]string{"messageId": missing, "newText": "x"})
	req.Equal(event.NotFound{MessageID: missing, Operation: event.EditMessage},
		decodeAs[event.NotFound](t, expect(t, a, event.MessageNotFound)))

	// Empty text
	emit(t, a, event.SendMessage, map[string]string{"senderId": "u1", "text": "", "roomId": "r1"})
	failed := decodeAs[event.Failed](t, expect(t, a, event.OperationFailed))
	req.Equal(event.SendMessage, failed.Operation)
	req.Equal(errors.ErrEmptyText.Error(), failed.Reason)

	// Unknown event
	emit(t, a, "shout", "hello")
	failed = decodeAs[event.Failed](t, expect(t, a, event.OperationFailed))
	req.Equal("shout", failed.Operation)
	req.Contains(failed.Reason, "unknown event")

	// Malformed frame
	req.NoError(a.WriteMessage(websocket.TextMessage, []byte("{not json")))
	failed = decodeAs[event.Failed](t, expect(t, a, event.OperationFailed))
	req.Contains(failed.Reason, "invalid payload")

	// markRead with unknown ids stays silent
	emit(t, a, event.MarkRead, []string{missing})
	expectSilence(t, a)
}

func TestHandler_Rejects_Disallowed_Origin(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	policy := NewOriginPolicy(log, []string{"https://chat.example.com", "not a url"})

	allowed := httptest.NewRequest(http.MethodGet, "/ws", nil)
	allowed.Header.Set("Origin", "HTTPS://Chat.Example.com")
	req.True(policy.Check(allowed))

	blocked := httptest.NewRequest(http.MethodGet, "/ws", nil)
	blocked.Header.Set("Origin", "https://evil.example.com")
	req.False(policy.Check(blocked))

	// Non-browser clients do not send an origin
	req.True(policy.Check(httptest.NewRequest(http.MethodGet, "/ws", nil)))
}
