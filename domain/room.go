package domain

import "strings"

type RoomID string

type UserID string

// ConnectionID identifies one live socket. A user may hold several of them.
type ConnectionID string

// Room is a named broadcast scope. Participants are informational only:
// any connection may join any room id.
type Room struct {
	ID           RoomID   `json:"_id"`
	Name         string   `json:"name"`
	Participants []UserID `json:"participants"`
}

// DefaultRooms are the rooms created by the seeding operation.
var DefaultRooms = []string{"Alice", "Bob", "Charlie"}

func (r RoomID) Empty() bool {
	return strings.TrimSpace(string(r)) == ""
}
