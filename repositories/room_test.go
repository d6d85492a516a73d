package repositories

import (
	"chat-live/domain"
	"chat-live/errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Create_And_Find_Rooms(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openDB(t))

	general, err := repository.CreateRoom("general", []domain.UserID{"u1", "u2", "u1"})
	req.NoError(err)
	random, err := repository.CreateRoom("random", nil)
	req.NoError(err)

	found, err := repository.FindByID(general.ID)
	req.NoError(err)
	req.Equal("general", found.Name)
	req.Equal([]domain.UserID{"u1", "u2"}, found.Participants)

	rooms, err := repository.FindAll()
	req.NoError(err)
	req.Equal([]domain.RoomID{general.ID, random.ID}, lo.Map(rooms, func(r domain.Room, _ int) domain.RoomID { return r.ID }))

	_, err = repository.FindByID("missing")
	req.ErrorIs(err, errors.ErrRoomNotFound)
}

func Test_Replace_All_Rooms(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openDB(t))
	_, err := repository.CreateRoom("old", nil)
	req.NoError(err)

	seeded, err := repository.ReplaceAll(domain.DefaultRooms)
	req.NoError(err)
	req.Len(seeded, 3)

	rooms, err := repository.FindAll()
	req.NoError(err)
	req.Equal(domain.DefaultRooms, lo.Map(rooms, func(r domain.Room, _ int) string { return r.Name }))
}
