package services

import (
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"chat-live/mocks"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSignalService_Typing_Excludes_Sender(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockIDispatcher(ctrl)
	sends := recordSends(dispatcher)
	svc := NewSignalService(dispatcher)
	cmd := domain.TypingCommand{Room: "r1", Username: "alice"}

	req.NoError(svc.Typing(context.Background(), "conn-a", cmd))
	req.NoError(svc.StopTyping(context.Background(), "conn-a", cmd))

	// Then each signal produces exactly one broadcast, never back to the sender
	req.Equal([]sent{
		{scope: event.ToRoom("r1", "conn-a"), event: event.Typing{Username: "alice"}},
		{scope: event.ToRoom("r1", "conn-a"), event: event.Typing{Username: "alice", Stopped: true}},
	}, *sends)
	req.Equal(event.UserTyping, (*sends)[0].event.Name())
	req.Equal(event.UserStoppedTyping, (*sends)[1].event.Name())
}

func TestSignalService_Typing_Without_Room(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockIDispatcher(ctrl)
	dispatcher.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := NewSignalService(dispatcher).Typing(context.Background(), "conn-a", domain.TypingCommand{Username: "alice"})

	req.ErrorIs(err, errors.ErrInvalidPayload)
}
