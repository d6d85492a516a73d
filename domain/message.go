// Package domain contains core concepts of the chat system.
// This file defines Message records and the status state machine.
package domain

import (
	"chat-live/errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultEditWindow is how long after creation a message text can still be changed.
const DefaultEditWindow = 15 * time.Minute

// EditTimeLimitReason is sent back to a client whose edit came too late.
const EditTimeLimitReason = "Time limit passed"

type MessageID = uuid.UUID

// Status is the delivery state of a message.
// Values are ordered: a message only moves forward along pending, sent, delivered, read.
type Status int

const (
	StatusPending Status = iota
	StatusSent
	StatusDelivered
	StatusRead
)

var statusNames = map[Status]string{
	StatusPending:   "pending",
	StatusSent:      "sent",
	StatusDelivered: "delivered",
	StatusRead:      "read",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func ParseStatus(value string) (Status, error) {
	for status, name := range statusNames {
		if name == value {
			return status, nil
		}
	}
	return StatusPending, fmt.Errorf("%w: %q", errors.ErrUnknownStatus, value)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", errors.ErrUnknownStatus, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	status, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Advance returns the status reached when moving to target.
// Backward moves are rejected with ErrInvalidTransition, staying on the same status is a no-op.
// A forward jump (sent -> read) is accepted because reading implies delivery.
func (s Status) Advance(target Status) (Status, error) {
	if !target.Valid() {
		return s, fmt.Errorf("%w: %d", errors.ErrUnknownStatus, int(target))
	}
	if target < s {
		return s, fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, s, target)
	}
	return target, nil
}

// Sender is the author of a message with its resolved display name.
type Sender struct {
	ID       UserID `json:"_id"`
	Username string `json:"username"`
}

// Message is a persisted chat message as seen by clients.
type Message struct {
	ID        MessageID `json:"_id"`
	Sender    Sender    `json:"sender"`
	Room      RoomID    `json:"room"`
	Text      string    `json:"text"`
	Edited    bool      `json:"edited"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Editable reports whether the text can still be changed at instant now.
// The boundary is inclusive: an edit exactly at the end of the window succeeds.
func (m Message) Editable(now time.Time, window time.Duration) bool {
	return now.Sub(m.CreatedAt) <= window
}
