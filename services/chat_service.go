//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"chat-live/contract"
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"chat-live/repositories"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	SendMessage(ctx context.Context, conn domain.ConnectionID, cmd domain.SendMessageCommand) (domain.Message, error)
	PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error)
	MarkDelivered(ctx context.Context, conn domain.ConnectionID, messageID string) error
	MarkRead(ctx context.Context, conn domain.ConnectionID, messageIDs []string) error
	EditMessage(ctx context.Context, conn domain.ConnectionID, cmd domain.EditMessageCommand) error
	DeleteMessage(ctx context.Context, conn domain.ConnectionID, cmd domain.DeleteMessageCommand) error
	GetMessages(ctx context.Context, room *domain.RoomID) ([]domain.Message, error)
	GetRooms(ctx context.Context) ([]domain.Room, error)
	GetRoom(ctx context.Context, id domain.RoomID) (domain.Room, error)
	CreateRoom(ctx context.Context, cmd domain.CreateRoomCommand) (domain.Room, error)
	SeedRooms(ctx context.Context) ([]domain.Room, error)
}

// ChatService drives the message lifecycle: every mutation is persisted
// before the resulting event is handed to the dispatcher.
type ChatService struct {
	log        *slog.Logger
	messages   repositories.IMessageRepository
	rooms      repositories.IRoomRepository
	users      repositories.IUserRepository
	dispatcher contract.IDispatcher
	editWindow time.Duration
	now        func() time.Time
}

func NewChatService(log *slog.Logger,
	messages repositories.IMessageRepository,
	rooms repositories.IRoomRepository,
	users repositories.IUserRepository,
	dispatcher contract.IDispatcher,
	editWindow time.Duration) *ChatService {
	return &ChatService{
		log:        log,
		messages:   messages,
		rooms:      rooms,
		users:      users,
		dispatcher: dispatcher,
		editWindow: editWindow,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, mostly for tests around the edit window.
func (s *ChatService) WithClock(now func() time.Time) *ChatService {
	s.now = now
	return s
}

// SendMessage stores a message straight in the sent status. The room gets the
// message, the sender alone gets the status confirmation.
func (s *ChatService) SendMessage(ctx context.Context, conn domain.ConnectionID, cmd domain.SendMessageCommand) (domain.Message, error) {
	message, err := s.create(cmd.SenderID, cmd.Room, cmd.Text, domain.StatusSent, s.now())
	if err != nil {
		return domain.Message{}, err
	}

	s.dispatcher.Send(ctx, event.ToRoom(message.Room, ""), event.MessageReceived{Message: message})
	s.dispatcher.Send(ctx, event.ToConnection(conn), event.StatusUpdated{ID: message.ID, Status: message.Status})
	return message, nil
}

// PostMessage is the request/response flavour: the message stays pending
// until a live client acknowledges it.
func (s *ChatService) PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error) {
	if _, err := s.rooms.FindByID(cmd.Room); err != nil {
		return domain.Message{}, err
	}
	at := cmd.CreatedAt
	if at.IsZero() {
		at = s.now()
	}
	message, err := s.create(cmd.SenderID, cmd.Room, cmd.Text, domain.StatusPending, at)
	if err != nil {
		return domain.Message{}, err
	}

	s.dispatcher.Send(ctx, event.ToRoom(message.Room, ""), event.MessageReceived{Message: message})
	return message, nil
}

func (s *ChatService) create(sender domain.UserID, room domain.RoomID, text string, status domain.Status, at time.Time) (domain.Message, error) {
	if text == "" {
		return domain.Message{}, errors.ErrEmptyText
	}
	if room.Empty() || sender == "" {
		return domain.Message{}, errors.ErrInvalidPayload
	}

	disk := repositories.DiskMessage{
		ID:        uuid.New(),
		Room:      room,
		Author:    sender,
		Content:   text,
		Status:    status,
		At:        at,
		UpdatedAt: at,
	}
	if err := s.messages.CreateMessage(disk); err != nil {
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}
	return toMessage(disk, s.sender(sender)), nil
}

// MarkDelivered moves one message to delivered and tells its room.
// A message already read stays read and nothing is broadcast.
func (s *ChatService) MarkDelivered(ctx context.Context, conn domain.ConnectionID, messageID string) error {
	id, err := parseMessageID(messageID)
	if err != nil {
		return err
	}

	updated, err := s.messages.UpdateStatus(id, domain.StatusDelivered)
	switch {
	case stderrors.Is(err, errors.ErrMessageNotFound):
		s.notFound(ctx, conn, messageID, event.MarkDelivered)
		return err
	case stderrors.Is(err, errors.ErrInvalidTransition):
		s.log.Debug("Message already beyond delivered", "message_id", id)
		return nil
	case err != nil:
		return fmt.Errorf("mark delivered: %w", err)
	}

	s.dispatcher.Send(ctx, event.ToRoom(updated.Room, ""), event.StatusUpdated{ID: updated.ID, Status: updated.Status})
	return nil
}

// MarkRead updates the whole batch in one transaction. Unknown or malformed ids are skipped.
func (s *ChatService) MarkRead(ctx context.Context, conn domain.ConnectionID, messageIDs []string) error {
	ids := lo.FilterMap(messageIDs, func(raw string, _ int) (uuid.UUID, bool) {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.log.Debug("Skipping malformed message id", "conn_id", conn, "message_id", raw)
			return uuid.Nil, false
		}
		return id, true
	})
	if len(ids) == 0 {
		return nil
	}

	updated, err := s.messages.UpdateStatuses(ids, domain.StatusRead)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	for _, message := range updated {
		s.dispatcher.Send(ctx, event.ToRoom(message.Room, ""), event.StatusUpdated{ID: message.ID, Status: message.Status})
	}
	return nil
}

// EditMessage replaces the text while the edit window is open.
// Past the window the requester gets editFailed and the store is untouched.
func (s *ChatService) EditMessage(ctx context.Context, conn domain.ConnectionID, cmd domain.EditMessageCommand) error {
	if cmd.NewText == "" {
		return errors.ErrEmptyText
	}
	id, err := parseMessageID(cmd.MessageID)
	if err != nil {
		return err
	}

	found, err := s.find(ctx, conn, id, event.EditMessage)
	if err != nil {
		return err
	}

	now := s.now()
	if !toMessage(found, domain.Sender{}).Editable(now, s.editWindow) {
		s.dispatcher.Send(ctx, event.ToConnection(conn), event.EditRejected{
			MessageID: cmd.MessageID,
			Reason:    domain.EditTimeLimitReason,
		})
		return errors.ErrEditWindowExpired
	}

	updated, err := s.messages.UpdateText(id, cmd.NewText, now)
	if err != nil {
		if stderrors.Is(err, errors.ErrMessageNotFound) {
			s.notFound(ctx, conn, cmd.MessageID, event.EditMessage)
			return err
		}
		return fmt.Errorf("edit message: %w", err)
	}

	s.dispatcher.Send(ctx, event.ToRoom(updated.Room, ""), event.Edited{ID: updated.ID, NewText: updated.Content})
	return nil
}

// DeleteMessage removes the message for the whole room, or only hides it
// for the requester when forEveryone is false.
func (s *ChatService) DeleteMessage(ctx context.Context, conn domain.ConnectionID, cmd domain.DeleteMessageCommand) error {
	id, err := parseMessageID(cmd.MessageID)
	if err != nil {
		return err
	}

	if _, err = s.find(ctx, conn, id, event.DeleteMessage); err != nil {
		return err
	}

	if !cmd.ForEveryone {
		s.dispatcher.Send(ctx, event.ToConnection(conn), event.DeletedForMe{ID: cmd.MessageID})
		return nil
	}

	deleted, err := s.messages.DeleteMessage(id)
	if err != nil {
		if stderrors.Is(err, errors.ErrMessageNotFound) {
			s.notFound(ctx, conn, cmd.MessageID, event.DeleteMessage)
			return err
		}
		return fmt.Errorf("delete message: %w", err)
	}

	s.dispatcher.Send(ctx, event.ToRoom(deleted.Room, ""), event.Deleted{ID: cmd.MessageID})
	return nil
}

// GetMessages lists messages oldest first with their sender resolved.
func (s *ChatService) GetMessages(_ context.Context, room *domain.RoomID) ([]domain.Message, error) {
	messages, err := s.messages.FindMessages(room)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}

	senders := make(map[domain.UserID]domain.Sender)
	return lo.Map(messages, func(item repositories.DiskMessage, _ int) domain.Message {
		sender, ok := senders[item.Author]
		if !ok {
			sender = s.sender(item.Author)
			senders[item.Author] = sender
		}
		return toMessage(item, sender)
	}), nil
}

func (s *ChatService) GetRooms(_ context.Context) ([]domain.Room, error) {
	rooms, err := s.rooms.FindAll()
	if err != nil {
		return nil, err
	}
	if rooms == nil {
		return []domain.Room{}, nil
	}
	return rooms, nil
}

func (s *ChatService) GetRoom(_ context.Context, id domain.RoomID) (domain.Room, error) {
	return s.rooms.FindByID(id)
}

func (s *ChatService) CreateRoom(_ context.Context, cmd domain.CreateRoomCommand) (domain.Room, error) {
	room, err := s.rooms.CreateRoom(cmd.Name, cmd.Participants)
	if err != nil {
		return domain.Room{}, err
	}
	s.log.Info("Room created", "room_id", room.ID, "name", room.Name)
	return room, nil
}

// SeedRooms replaces every room by the default set.
func (s *ChatService) SeedRooms(_ context.Context) ([]domain.Room, error) {
	rooms, err := s.rooms.ReplaceAll(domain.DefaultRooms)
	if err != nil {
		return nil, err
	}
	s.log.Info(fmt.Sprintf("%d rooms seeded", len(rooms)))
	return rooms, nil
}

// find loads a message and acknowledges a missing one to the requester.
func (s *ChatService) find(ctx context.Context, conn domain.ConnectionID, id uuid.UUID, operation string) (repositories.DiskMessage, error) {
	found, err := s.messages.FindMessage(id)
	if stderrors.Is(err, errors.ErrMessageNotFound) {
		s.notFound(ctx, conn, id.String(), operation)
		return repositories.DiskMessage{}, err
	}
	if err != nil {
		return repositories.DiskMessage{}, fmt.Errorf("%s: %w", operation, err)
	}
	return found, nil
}

func (s *ChatService) notFound(ctx context.Context, conn domain.ConnectionID, messageID, operation string) {
	s.dispatcher.Send(ctx, event.ToConnection(conn), event.NotFound{MessageID: messageID, Operation: operation})
}

// sender resolves the display name of a user. An unknown user keeps its id as name.
func (s *ChatService) sender(id domain.UserID) domain.Sender {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		if !stderrors.Is(err, errors.ErrUserNotFound) {
			s.log.Warn("Unable to resolve sender", "user_id", id, "error", err)
		}
		return domain.Sender{ID: id, Username: string(id)}
	}
	return domain.Sender{ID: id, Username: user.Username}
}

func parseMessageID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: message id %q", errors.ErrInvalidPayload, raw)
	}
	return id, nil
}

func toMessage(disk repositories.DiskMessage, sender domain.Sender) domain.Message {
	return domain.Message{
		ID:        disk.ID,
		Sender:    sender,
		Room:      disk.Room,
		Text:      disk.Content,
		Edited:    disk.Edited,
		Status:    disk.Status,
		CreatedAt: disk.At,
		UpdatedAt: disk.UpdatedAt,
	}
}
