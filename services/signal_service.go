//go:generate go run go.uber.org/mock/mockgen -source=signal_service.go -destination=../mocks/mock_signal_service.go -package=mocks
package services

import (
	"chat-live/contract"
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"context"
)

type ISignalService interface {
	Typing(ctx context.Context, conn domain.ConnectionID, cmd domain.TypingCommand) error
	StopTyping(ctx context.Context, conn domain.ConnectionID, cmd domain.TypingCommand) error
}

// SignalService relays typing signals to the other members of a room. Nothing is stored.
type SignalService struct {
	dispatcher contract.IDispatcher
}

func NewSignalService(dispatcher contract.IDispatcher) *SignalService {
	return &SignalService{dispatcher: dispatcher}
}

func (s *SignalService) Typing(ctx context.Context, conn domain.ConnectionID, cmd domain.TypingCommand) error {
	return s.relay(ctx, conn, cmd, false)
}

func (s *SignalService) StopTyping(ctx context.Context, conn domain.ConnectionID, cmd domain.TypingCommand) error {
	return s.relay(ctx, conn, cmd, true)
}

func (s *SignalService) relay(ctx context.Context, conn domain.ConnectionID, cmd domain.TypingCommand, stopped bool) error {
	if cmd.Room.Empty() {
		return errors.ErrInvalidPayload
	}
	s.dispatcher.Send(ctx, event.ToRoom(cmd.Room, conn), event.Typing{Username: cmd.Username, Stopped: stopped})
	return nil
}
