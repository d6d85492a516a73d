//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"chat-live/domain"
	"chat-live/errors"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protowire"
)

const roomPrefix = "room:"

type IRoomRepository interface {
	CreateRoom(name string, participants []domain.UserID) (domain.Room, error)
	FindAll() ([]domain.Room, error)
	FindByID(id domain.RoomID) (domain.Room, error)
	ReplaceAll(names []string) ([]domain.Room, error)
}

type RoomRepository struct {
	db *badger.DB
}

func NewRoomRepository(db *badger.DB) RoomRepository {
	return RoomRepository{db: db}
}

// CreateRoom stores a room under a time-ordered UUIDv7, so a prefix scan lists rooms
// in creation order.
func (r RoomRepository) CreateRoom(name string, participants []domain.UserID) (domain.Room, error) {
	room, err := newRoom(name, participants)
	if err != nil {
		return domain.Room{}, err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(roomKey(room.ID), encodeRoom(room))
	})
	return room, err
}

func (r RoomRepository) FindAll() ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(roomPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				room, err := decodeRoom(value)
				if err != nil {
					return err
				}
				rooms = append(rooms, room)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rooms, err
}

func (r RoomRepository) FindByID(id domain.RoomID) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(id))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", errors.ErrRoomNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			room, err = decodeRoom(value)
			return err
		})
	})
	return room, err
}

// ReplaceAll deletes every room then inserts one room per name, atomically.
func (r RoomRepository) ReplaceAll(names []string) ([]domain.Room, error) {
	rooms := make([]domain.Room, 0, len(names))
	for _, name := range names {
		room, err := newRoom(name, nil)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(roomPrefix)})
		var existing [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			existing = append(existing, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range existing {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for _, room := range rooms {
			if err := txn.Set(roomKey(room.ID), encodeRoom(room)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func newRoom(name string, participants []domain.UserID) (domain.Room, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.Room{}, err
	}
	return domain.Room{
		ID:           domain.RoomID(id.String()),
		Name:         name,
		Participants: lo.Uniq(participants),
	}, nil
}

func roomKey(id domain.RoomID) []byte {
	return []byte(roomPrefix + string(id))
}

func encodeRoom(room domain.Room) []byte {
	var b []byte
	b = appendString(b, 1, string(room.ID))
	b = appendString(b, 2, room.Name)
	for _, participant := range room.Participants {
		b = appendString(b, 3, string(participant))
	}
	return b
}

func decodeRoom(b []byte) (domain.Room, error) {
	var room domain.Room
	var id string
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &id)
		case 2:
			return consumeString(num, typ, b, &room.Name)
		case 3:
			var participant string
			n, err := consumeString(num, typ, b, &participant)
			room.Participants = append(room.Participants, domain.UserID(participant))
			return n, err
		default:
			return skipField(num, typ, b)
		}
	})
	if err != nil {
		return domain.Room{}, fmt.Errorf("decode room: %w", err)
	}
	room.ID = domain.RoomID(id)
	if room.Participants == nil {
		room.Participants = []domain.UserID{}
	}
	return room, nil
}
