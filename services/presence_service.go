//go:generate go run go.uber.org/mock/mockgen -source=presence_service.go -destination=../mocks/mock_presence_service.go -package=mocks
package services

import (
	"chat-live/contract"
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"context"
	"log/slog"
	"sync"
)

type IPresenceService interface {
	Connect(conn domain.ConnectionID, sink contract.EventSink)
	GoOnline(ctx context.Context, conn domain.ConnectionID, user domain.UserID)
	GoOffline(ctx context.Context, conn domain.ConnectionID, user domain.UserID)
	Disconnect(ctx context.Context, conn domain.ConnectionID)
	JoinRoom(ctx context.Context, conn domain.ConnectionID, room domain.RoomID) error
	LeaveRoom(ctx context.Context, conn domain.ConnectionID, room domain.RoomID) error
}

// PresenceService keeps presence and room memberships in line with live connections.
// Every mutation takes a numbered snapshot under mu; snapshots are dispatched
// outside of it, and one older than the last dispatched is dropped, so clients
// never see the list go back in time and a slow client never delays a mutation.
// Presence is node-local: onlineUsers lists the connections of this process.
type PresenceService struct {
	mu  sync.Mutex
	seq uint64

	sendMu sync.Mutex
	sent   uint64

	log        *slog.Logger
	presence   contract.IPresence
	registry   contract.IRegistry
	dispatcher contract.IDispatcher
}

type presenceSnapshot struct {
	seq   uint64
	users []domain.UserID
}

func NewPresenceService(log *slog.Logger, presence contract.IPresence,
	registry contract.IRegistry, dispatcher contract.IDispatcher) *PresenceService {
	return &PresenceService{
		log:        log,
		presence:   presence,
		registry:   registry,
		dispatcher: dispatcher,
	}
}

func (s *PresenceService) Connect(conn domain.ConnectionID, sink contract.EventSink) {
	s.registry.Connect(conn, sink)
	s.log.Debug("Connection opened", "conn_id", conn)
}

func (s *PresenceService) GoOnline(ctx context.Context, conn domain.ConnectionID, user domain.UserID) {
	s.broadcast(ctx, s.mutate(func() []domain.UserID {
		return s.presence.Register(conn, user)
	}))
}

// GoOffline removes the entry of conn. The user is informational only.
func (s *PresenceService) GoOffline(ctx context.Context, conn domain.ConnectionID, user domain.UserID) {
	s.log.Debug("User offline", "conn_id", conn, "user_id", user)
	s.broadcast(ctx, s.mutate(func() []domain.UserID {
		return s.presence.Unregister(conn)
	}))
}

// Disconnect vacates every room of conn and broadcasts the remaining users.
func (s *PresenceService) Disconnect(ctx context.Context, conn domain.ConnectionID) {
	rooms := s.registry.Disconnect(conn)
	s.log.Debug("Connection closed", "conn_id", conn, "rooms_left", len(rooms))

	s.broadcast(ctx, s.mutate(func() []domain.UserID {
		return s.presence.Unregister(conn)
	}))
}

func (s *PresenceService) JoinRoom(_ context.Context, conn domain.ConnectionID, room domain.RoomID) error {
	if room.Empty() {
		return errors.ErrInvalidPayload
	}
	if !s.registry.Join(conn, room) {
		s.log.Debug("Room already joined", "conn_id", conn, "room_id", room)
	}
	return nil
}

func (s *PresenceService) LeaveRoom(_ context.Context, conn domain.ConnectionID, room domain.RoomID) error {
	if room.Empty() {
		return errors.ErrInvalidPayload
	}
	s.registry.Leave(conn, room)
	return nil
}

func (s *PresenceService) mutate(apply func() []domain.UserID) presenceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return presenceSnapshot{seq: s.seq, users: apply()}
}

func (s *PresenceService) broadcast(ctx context.Context, snapshot presenceSnapshot) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if snapshot.seq <= s.sent {
		s.log.Debug("Skipping stale presence snapshot", "seq", snapshot.seq, "sent", s.sent)
		return
	}
	s.sent = snapshot.seq
	s.dispatcher.Send(ctx, event.ToNode(), event.OnlineUsersEvent{Users: snapshot.users})
}
