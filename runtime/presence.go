package runtime

import (
	"chat-live/domain"
	"sync"

	"github.com/samber/lo"
)

// Presence maps live connections to the user they announced.
// Entries keep their first insertion order; re-registering a connection
// replaces its user in place. A user with two connections appears twice.
type Presence struct {
	mu      sync.Mutex
	entries []domain.PresenceEntry
}

func NewPresence() *Presence {
	return &Presence{}
}

func (p *Presence) Register(conn domain.ConnectionID, user domain.UserID) []domain.UserID {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, index, found := lo.FindIndexOf(p.entries, func(e domain.PresenceEntry) bool {
		return e.Connection == conn
	})
	if found {
		p.entries[index].User = user
	} else {
		p.entries = append(p.entries, domain.PresenceEntry{Connection: conn, User: user})
	}
	return p.snapshot()
}

// Unregister removes the entry of conn, if any, and returns the remaining users.
func (p *Presence) Unregister(conn domain.ConnectionID) []domain.UserID {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = lo.Reject(p.entries, func(e domain.PresenceEntry, _ int) bool {
		return e.Connection == conn
	})
	return p.snapshot()
}

func (p *Presence) Snapshot() []domain.UserID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

func (p *Presence) snapshot() []domain.UserID {
	users := make([]domain.UserID, 0, len(p.entries))
	for _, e := range p.entries {
		users = append(users, e.User)
	}
	return users
}

func (p *Presence) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
