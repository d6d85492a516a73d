// Package domain contains core concepts of the chat system.
// This file defines users and their transient presence.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

type User struct {
	ID           UserID
	Username     string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

// PresenceEntry binds a live connection to the user it announced.
type PresenceEntry struct {
	Connection ConnectionID
	User       UserID
}
