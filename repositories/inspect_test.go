package repositories

import (
	"chat-live/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestInspectMapper_Renders_Known_Records(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	// Given a message, a room and a user as stored on disk
	message := DiskMessage{ID: uuid.New(), Room: "general", Author: "u1", Content: "hello", Status: domain.StatusSent, At: at, UpdatedAt: at}
	room := domain.Room{ID: "r1", Name: "Alice", Participants: []domain.UserID{"u1", "u2"}}
	user := domain.User{ID: "u1", Username: "alice", PasswordHash: "$argon2id$secret", CreatedAt: at}

	// When the inspector maps them
	messageRow := InspectMapper(string(messageKey(message.ID)), encodeMessage(message))
	roomRow := InspectMapper(string(roomKey(room.ID)), encodeRoom(room))
	userRow := InspectMapper(userPrefix+user.Username, encodeUser(user))

	// Then each row is typed and readable, without the password hash
	req.Equal("MESSAGE", messageRow.Type)
	req.Equal("[general] u1: hello (sent)", messageRow.Detail)
	req.Equal("ROOM", roomRow.Type)
	req.Equal("Alice (2 participants)", roomRow.Detail)
	req.Equal("USER", userRow.Type)
	req.NotContains(userRow.Detail, "argon2id")
}

func TestInspectMapper_Corrupted_Message(t *testing.T) {
	req := require.New(t)

	row := InspectMapper(messagePrefix+uuid.NewString(), []byte{0xff, 0xff, 0xff})

	req.Equal("Error: decode failed", row.Detail)
}
