package ws

import (
	"chat-live/contract"
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"chat-live/services"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

// Router decodes inbound envelopes and calls the matching service.
// Errors that did not already produce a client event are answered with an
// "error" event to the requester.
type Router struct {
	log        *slog.Logger
	validate   *validator.Validate
	chat       services.IChatService
	presence   services.IPresenceService
	signals    services.ISignalService
	dispatcher contract.IDispatcher
}

func NewRouter(log *slog.Logger, chat services.IChatService, presence services.IPresenceService,
	signals services.ISignalService, dispatcher contract.IDispatcher) *Router {
	return &Router{
		log:        log,
		validate:   validator.New(),
		chat:       chat,
		presence:   presence,
		signals:    signals,
		dispatcher: dispatcher,
	}
}

func (r *Router) Route(ctx context.Context, conn domain.ConnectionID, frame []byte) {
	var envelope event.Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		r.fail(ctx, conn, "", fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err))
		return
	}
	if err := r.route(ctx, conn, envelope); err != nil {
		r.fail(ctx, conn, envelope.Event, err)
	}
}

func (r *Router) route(ctx context.Context, conn domain.ConnectionID, envelope event.Envelope) error {
	switch envelope.Event {
	case event.UserOnline, event.UserOffline:
		var user domain.UserID
		if err := r.decode(envelope.Data, &user); err != nil {
			return err
		}
		if user == "" {
			return errors.ErrInvalidPayload
		}
		if envelope.Event == event.UserOnline {
			r.presence.GoOnline(ctx, conn, user)
		} else {
			r.presence.GoOffline(ctx, conn, user)
		}
		return nil

	case event.JoinRoom, event.LeaveRoom:
		var room domain.RoomID
		if err := r.decode(envelope.Data, &room); err != nil {
			return err
		}
		if envelope.Event == event.JoinRoom {
			return r.presence.JoinRoom(ctx, conn, room)
		}
		return r.presence.LeaveRoom(ctx, conn, room)

	case event.SendMessage:
		var cmd domain.SendMessageCommand
		if err := r.decode(envelope.Data, &cmd); err != nil {
			return err
		}
		_, err := r.chat.SendMessage(ctx, conn, cmd)
		return err

	case event.MarkDelivered:
		var id string
		if err := r.decode(envelope.Data, &id); err != nil {
			return err
		}
		return r.chat.MarkDelivered(ctx, conn, id)

	case event.MarkRead:
		var ids []string
		if err := r.decode(envelope.Data, &ids); err != nil {
			return err
		}
		return r.chat.MarkRead(ctx, conn, ids)

	case event.EditMessage:
		var cmd domain.EditMessageCommand
		if err := r.decode(envelope.Data, &cmd); err != nil {
			return err
		}
		return r.chat.EditMessage(ctx, conn, cmd)

	case event.DeleteMessage:
		var cmd domain.DeleteMessageCommand
		if err := r.decode(envelope.Data, &cmd); err != nil {
			return err
		}
		return r.chat.DeleteMessage(ctx, conn, cmd)

	case event.StartTyping, event.StopTyping:
		var cmd domain.TypingCommand
		if err := r.decode(envelope.Data, &cmd); err != nil {
			return err
		}
		if envelope.Event == event.StartTyping {
			return r.signals.Typing(ctx, conn, cmd)
		}
		return r.signals.StopTyping(ctx, conn, cmd)

	default:
		return fmt.Errorf("%w: %q", errors.ErrUnknownEvent, envelope.Event)
	}
}

// decode unmarshals the payload and validates structs carrying validate tags.
func (r *Router) decode(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", errors.ErrInvalidPayload)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	switch dst.(type) {
	case *domain.SendMessageCommand, *domain.EditMessageCommand, *domain.DeleteMessageCommand, *domain.TypingCommand:
		if err := r.validate.Struct(dst); err != nil {
			return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
		}
	}
	return nil
}

func (r *Router) fail(ctx context.Context, conn domain.ConnectionID, operation string, err error) {
	if errors.Acknowledged(err) {
		return
	}
	internal := errors.Internal(err)
	if internal {
		r.log.Error("Operation failed", "conn_id", conn, "operation", operation, "error", err)
	} else {
		r.log.Debug("Operation rejected", "conn_id", conn, "operation", operation, "error", err)
	}
	r.dispatcher.Send(ctx, event.ToConnection(conn), event.NewFailed(operation, err, internal))
}
