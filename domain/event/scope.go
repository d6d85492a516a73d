package event

import (
	"chat-live/domain"
	"fmt"
)

type ScopeKind int

const (
	ScopeConnection ScopeKind = iota
	ScopeRoom
	ScopeGlobal
	ScopeNode
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeConnection:
		return "connection"
	case ScopeRoom:
		return "room"
	case ScopeGlobal:
		return "global"
	case ScopeNode:
		return "node"
	default:
		return fmt.Sprintf("scope(%d)", int(k))
	}
}

// Scope is the set of connections an event is delivered to.
type Scope struct {
	Kind       ScopeKind
	Connection domain.ConnectionID
	Room       domain.RoomID
	Except     domain.ConnectionID
}

func ToConnection(conn domain.ConnectionID) Scope {
	return Scope{Kind: ScopeConnection, Connection: conn}
}

// ToRoom targets every connection joined to room except the optional sender.
func ToRoom(room domain.RoomID, except domain.ConnectionID) Scope {
	return Scope{Kind: ScopeRoom, Room: room, Except: except}
}

func ToAll() Scope {
	return Scope{Kind: ScopeGlobal}
}

// ToNode targets every connection held by this process and is never relayed.
// Used for state that only describes the local node, like presence.
func ToNode() Scope {
	return Scope{Kind: ScopeNode}
}

// Relayable reports whether peers of a cluster must also deliver the event.
func (s Scope) Relayable() bool {
	return s.Kind == ScopeRoom || s.Kind == ScopeGlobal
}
