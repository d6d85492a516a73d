package domain

import (
	"time"
)

type Command interface {
	RoomID() RoomID
}

// SendMessageCommand is issued by a live connection; the message is stored as sent.
type SendMessageCommand struct {
	SenderID UserID `json:"senderId" validate:"required"`
	Text     string `json:"text"`
	Room     RoomID `json:"roomId" validate:"required"`
}

func (c SendMessageCommand) RoomID() RoomID {
	return c.Room
}

// PostMessageCommand is issued over request/response; the message is stored as pending.
type PostMessageCommand struct {
	SenderID  UserID
	Text      string
	Room      RoomID
	CreatedAt time.Time
}

func (c PostMessageCommand) RoomID() RoomID {
	return c.Room
}

type EditMessageCommand struct {
	MessageID string `json:"messageId" validate:"required,uuid"`
	NewText   string `json:"newText"`
}

type DeleteMessageCommand struct {
	MessageID   string `json:"messageId" validate:"required,uuid"`
	ForEveryone bool   `json:"forEveryone"`
}

type TypingCommand struct {
	Room     RoomID `json:"roomId" validate:"required"`
	Username string `json:"username"`
}

func (c TypingCommand) RoomID() RoomID {
	return c.Room
}

type CreateRoomCommand struct {
	Name         string   `json:"name" validate:"required,max=64"`
	Participants []UserID `json:"participants"`
}
