package runtime

import (
	"chat-live/domain"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresence_Register_Keeps_Insertion_Order(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	req.Equal([]domain.UserID{"u1"}, presence.Register("c1", "u1"))
	req.Equal([]domain.UserID{"u1", "u2"}, presence.Register("c2", "u2"))

	// When c1 announces another user, it keeps its place
	req.Equal([]domain.UserID{"u3", "u2"}, presence.Register("c1", "u3"))
}

func TestPresence_Same_User_On_Two_Connections(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()

	presence.Register("c1", "u1")
	snapshot := presence.Register("c2", "u1")

	// Then the user appears once per connection
	req.Equal([]domain.UserID{"u1", "u1"}, snapshot)

	// When one connection goes away
	req.Equal([]domain.UserID{"u1"}, presence.Unregister("c1"))
}

func TestPresence_Unregister_Unknown_Connection(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()
	presence.Register("c1", "u1")

	req.Equal([]domain.UserID{"u1"}, presence.Unregister("unknown"))
	req.Equal([]domain.UserID{}, presence.Unregister("c1"))
	req.Zero(presence.Count())
}

func TestPresence_Concurrent_Registrations(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()
	var wg sync.WaitGroup

	// When many connections register at the same time
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			presence.Register(domain.ConnectionID(fmt.Sprintf("c%d", i)), domain.UserID(fmt.Sprintf("u%d", i)))
		}(i)
	}
	wg.Wait()

	// Then no registration is lost
	req.Len(presence.Snapshot(), 100)
}
