package runtime

import (
	"chat-live/contract"
	"chat-live/domain"
	"sync"

	"github.com/samber/lo"
)

type Set[T comparable] map[T]struct{}

// Registry tracks live connections and the rooms each of them joined.
// A connection may be in any number of rooms and a room holds any number of connections.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[domain.ConnectionID]contract.EventSink
	roomMembers map[domain.RoomID]Set[domain.ConnectionID]
	memberships map[domain.ConnectionID]Set[domain.RoomID]
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[domain.ConnectionID]contract.EventSink),
		roomMembers: make(map[domain.RoomID]Set[domain.ConnectionID]),
		memberships: make(map[domain.ConnectionID]Set[domain.RoomID]),
	}
}

// Connect registers the sink of a freshly opened connection.
func (r *Registry) Connect(conn domain.ConnectionID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[conn] = sink
	if _, ok := r.memberships[conn]; !ok {
		r.memberships[conn] = make(Set[domain.RoomID])
	}
}

// Disconnect forgets the connection and vacates every room it joined.
// It returns the rooms that were left.
func (r *Registry) Disconnect(conn domain.ConnectionID) []domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, conn)
	rooms := lo.Keys(r.memberships[conn])
	for _, room := range rooms {
		r.removeMember(room, conn)
	}
	delete(r.memberships, conn)
	return rooms
}

// Join adds conn to room. Joining twice is a no-op: it returns false.
// Unknown connections cannot join.
func (r *Registry) Join(conn domain.ConnectionID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms, ok := r.memberships[conn]
	if !ok {
		return false
	}
	if _, already := rooms[room]; already {
		return false
	}
	rooms[room] = struct{}{}
	if _, ok := r.roomMembers[room]; !ok {
		r.roomMembers[room] = make(Set[domain.ConnectionID])
	}
	r.roomMembers[room][conn] = struct{}{}
	return true
}

func (r *Registry) Leave(conn domain.ConnectionID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms, ok := r.memberships[conn]
	if !ok {
		return false
	}
	if _, member := rooms[room]; !member {
		return false
	}
	delete(rooms, room)
	r.removeMember(room, conn)
	return true
}

func (r *Registry) RoomsOf(conn domain.ConnectionID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.memberships[conn])
}

func (r *Registry) Sink(conn domain.ConnectionID) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sessions[conn]
	return sink, ok
}

// SinksForRoom resolves the members of a room into their sinks, skipping except.
// Returns nil if the room has no members.
func (r *Registry) SinksForRoom(room domain.RoomID, except domain.ConnectionID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[room]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for conn := range members {
		if conn == except {
			continue
		}
		if sink, exists := r.sessions[conn]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

func (r *Registry) Sinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.sessions)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// removeMember must be called with the lock held.
// Empty rooms are dropped so the map does not grow forever.
func (r *Registry) removeMember(room domain.RoomID, conn domain.ConnectionID) {
	members, ok := r.roomMembers[room]
	if !ok {
		return
	}
	delete(members, conn)
	if len(members) == 0 {
		delete(r.roomMembers, room)
	}
}
