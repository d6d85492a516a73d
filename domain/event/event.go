package event

import (
	"chat-live/domain"
	"encoding/json"
)

// Names of the events pushed to clients.
const (
	OnlineUsers           = "onlineUsers"
	ReceiveMessage        = "receiveMessage"
	MessageStatusUpdate   = "messageStatusUpdate"
	MessageEdited         = "messageEdited"
	EditFailed            = "editFailed"
	MessageDeleted        = "messageDeleted"
	MessageDeletedForMe   = "messageDeletedForMe"
	MessageNotFound       = "messageNotFound"
	UserTyping            = "userTyping"
	UserStoppedTyping     = "userStoppedTyping"
	OperationFailed       = "error"
	internalFailureReason = "internal error"
)

// Event is anything that can be pushed to a connection.
// The payload returned by Data is serialized as the "data" field of the envelope.
type Event interface {
	Name() string
	Data() any
}

// Envelope is the wire format shared by inbound and outbound frames.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func Encode(e Event) ([]byte, error) {
	data, err := json.Marshal(e.Data())
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: e.Name(), Data: data})
}

type OnlineUsersEvent struct {
	Users []domain.UserID
}

func (e OnlineUsersEvent) Name() string { return OnlineUsers }

// Data never renders null so clients always receive an array.
func (e OnlineUsersEvent) Data() any {
	if e.Users == nil {
		return []domain.UserID{}
	}
	return e.Users
}

type MessageReceived struct {
	Message domain.Message
}

func (e MessageReceived) Name() string { return ReceiveMessage }
func (e MessageReceived) Data() any    { return e.Message }

type StatusUpdated struct {
	ID     domain.MessageID `json:"id"`
	Status domain.Status    `json:"status"`
}

func (e StatusUpdated) Name() string { return MessageStatusUpdate }
func (e StatusUpdated) Data() any    { return e }

type Edited struct {
	ID      domain.MessageID `json:"id"`
	NewText string           `json:"newText"`
}

func (e Edited) Name() string { return MessageEdited }
func (e Edited) Data() any    { return e }

type EditRejected struct {
	MessageID string `json:"messageId"`
	Reason    string `json:"reason"`
}

func (e EditRejected) Name() string { return EditFailed }
func (e EditRejected) Data() any    { return e }

type Deleted struct {
	ID string `json:"id"`
}

func (e Deleted) Name() string { return MessageDeleted }
func (e Deleted) Data() any    { return e }

type DeletedForMe struct {
	ID string `json:"id"`
}

func (e DeletedForMe) Name() string { return MessageDeletedForMe }
func (e DeletedForMe) Data() any    { return e }

type NotFound struct {
	MessageID string `json:"messageId"`
	Operation string `json:"operation"`
}

func (e NotFound) Name() string { return MessageNotFound }
func (e NotFound) Data() any    { return e }

// Typing carries a bare username, as clients expect.
type Typing struct {
	Username string
	Stopped  bool
}

func (e Typing) Name() string {
	if e.Stopped {
		return UserStoppedTyping
	}
	return UserTyping
}

func (e Typing) Data() any { return e.Username }

type Failed struct {
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

func (e Failed) Name() string { return OperationFailed }
func (e Failed) Data() any    { return e }

// NewFailed hides infrastructure details from clients.
func NewFailed(operation string, err error, internal bool) Failed {
	reason := internalFailureReason
	if !internal && err != nil {
		reason = err.Error()
	}
	return Failed{Operation: operation, Reason: reason}
}

// Raw is an already encoded event, received from a peer node.
type Raw struct {
	EventName string
	Payload   json.RawMessage
}

func (e Raw) Name() string { return e.EventName }
func (e Raw) Data() any    { return e.Payload }
