package repositories

import (
	"fmt"
	"strings"

	"github.com/mama165/sdk-go/database"
)

// InspectMapper renders stored values for the Badger debug inspector.
// Index keys carry no value worth showing and keep the default rendering.
func InspectMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	switch {
	case strings.HasPrefix(key, messagePrefix):
		message, err := decodeMessage(val)
		if err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		row.Type = "MESSAGE"
		row.Detail = fmt.Sprintf("[%s] %s: %s (%s)", message.Room, message.Author, message.Content, message.Status)
	case strings.HasPrefix(key, roomPrefix):
		room, err := decodeRoom(val)
		if err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		row.Type = "ROOM"
		row.Detail = fmt.Sprintf("%s (%d participants)", room.Name, len(room.Participants))
	case strings.HasPrefix(key, userPrefix):
		user, err := decodeUser(val)
		if err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		// never show the hash
		row.Type = "USER"
		row.Detail = fmt.Sprintf("%s (%s)", user.Username, user.ID)
	case strings.HasPrefix(key, userIDPrefix):
		row.Type = "USER_INDEX"
		row.Detail = string(val)
	}
	return row
}
