package event

import (
	"chat-live/domain"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEncode_Envelope(t *testing.T) {
	req := require.New(t)
	id := uuid.New()

	bytes, err := Encode(StatusUpdated{ID: id, Status: domain.StatusDelivered})
	req.NoError(err)

	var envelope Envelope
	req.NoError(json.Unmarshal(bytes, &envelope))
	req.Equal(MessageStatusUpdate, envelope.Event)
	req.JSONEq(fmt.Sprintf(`{"id":%q,"status":"delivered"}`, id), string(envelope.Data))
}

func TestEncode_Typing_Is_A_Bare_Username(t *testing.T) {
	req := require.New(t)

	bytes, err := Encode(Typing{Username: "alice"})
	req.NoError(err)
	req.JSONEq(`{"event":"userTyping","data":"alice"}`, string(bytes))

	bytes, err = Encode(Typing{Username: "alice", Stopped: true})
	req.NoError(err)
	req.JSONEq(`{"event":"userStoppedTyping","data":"alice"}`, string(bytes))
}

func TestEncode_OnlineUsers_Never_Null(t *testing.T) {
	req := require.New(t)

	bytes, err := Encode(OnlineUsersEvent{})
	req.NoError(err)
	req.JSONEq(`{"event":"onlineUsers","data":[]}`, string(bytes))

	bytes, err = Encode(OnlineUsersEvent{Users: []domain.UserID{"u1", "u1", "u2"}})
	req.NoError(err)
	req.JSONEq(`{"event":"onlineUsers","data":["u1","u1","u2"]}`, string(bytes))
}

func TestEncode_Raw_Keeps_Payload(t *testing.T) {
	req := require.New(t)

	bytes, err := Encode(Raw{EventName: MessageDeleted, Payload: json.RawMessage(`{"id":"42"}`)})
	req.NoError(err)
	req.JSONEq(`{"event":"messageDeleted","data":{"id":"42"}}`, string(bytes))
}

func TestNewFailed_Hides_Internal_Errors(t *testing.T) {
	req := require.New(t)

	req.Equal("internal error", NewFailed("sendMessage", fmt.Errorf("disk full"), true).Reason)
	req.Equal("message text required", NewFailed("sendMessage", fmt.Errorf("message text required"), false).Reason)
}

func TestScope_Relayable(t *testing.T) {
	req := require.New(t)

	req.False(ToConnection("c1").Relayable())
	req.True(ToRoom("r1", "c1").Relayable())
	req.True(ToAll().Relayable())
	req.False(ToNode().Relayable())
}
