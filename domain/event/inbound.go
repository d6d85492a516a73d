package event

// Names of the events sent by clients. They double as operation names
// in acknowledgments and failures.
const (
	UserOnline    = "userOnline"
	UserOffline   = "userOffline"
	JoinRoom      = "joinRoom"
	LeaveRoom     = "leaveRoom"
	SendMessage   = "sendMessage"
	MarkDelivered = "markDelivered"
	MarkRead      = "markRead"
	EditMessage   = "editMessage"
	DeleteMessage = "deleteMessage"
	StartTyping   = "typing"
	StopTyping    = "stopTyping"
)
