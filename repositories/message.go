//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-live/domain"
	"chat-live/errors"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	messagePrefix   = "msg:id:"
	roomIndexPrefix = "msg:room:"
	timeIndexPrefix = "msg:time:"
)

type IMessageRepository interface {
	CreateMessage(message DiskMessage) error
	FindMessage(id uuid.UUID) (DiskMessage, error)
	UpdateStatus(id uuid.UUID, status domain.Status) (DiskMessage, error)
	UpdateStatuses(ids []uuid.UUID, status domain.Status) ([]DiskMessage, error)
	UpdateText(id uuid.UUID, text string, at time.Time) (DiskMessage, error)
	DeleteMessage(id uuid.UUID) (DiskMessage, error)
	FindMessages(room *domain.RoomID) ([]DiskMessage, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type DiskMessage struct {
	ID        uuid.UUID
	Room      domain.RoomID
	Author    domain.UserID
	Content   string
	Edited    bool
	Status    domain.Status
	At        time.Time
	UpdatedAt time.Time
}

// CreateMessage persists a message and its two ordering indexes in one transaction.
// Index keys are formatted as "msg:room:{room_id}:{timestamp_padded}:{uuid}" and
// "msg:time:{timestamp_padded}:{uuid}": the 19-digit zero padding keeps the
// lexicographical order chronological and the UUID separates messages created
// at the same nanosecond.
func (m MessageRepository) CreateMessage(message DiskMessage) error {
	bytes := encodeMessage(message)
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageKey(message.ID), bytes); err != nil {
			return err
		}
		if err := txn.Set(roomIndexKey(message), nil); err != nil {
			return err
		}
		return txn.Set(timeIndexKey(message), nil)
	})
}

func (m MessageRepository) FindMessage(id uuid.UUID) (DiskMessage, error) {
	var message DiskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = getMessage(txn, id)
		return err
	})
	return message, err
}

// UpdateStatus moves a single message forward. Backward moves are refused by the
// status transition rule and leave the record untouched.
func (m MessageRepository) UpdateStatus(id uuid.UUID, status domain.Status) (DiskMessage, error) {
	var updated DiskMessage
	err := m.db.Update(func(txn *badger.Txn) error {
		message, err := getMessage(txn, id)
		if err != nil {
			return err
		}
		next, err := message.Status.Advance(status)
		if err != nil {
			return err
		}
		message.Status = next
		updated = message
		return txn.Set(messageKey(id), encodeMessage(message))
	})
	return updated, err
}

// UpdateStatuses applies the same status to a batch of messages in a single transaction:
// either every existing message is updated or none is.
// Unknown ids and messages that cannot move to status are skipped.
func (m MessageRepository) UpdateStatuses(ids []uuid.UUID, status domain.Status) ([]DiskMessage, error) {
	var updated []DiskMessage
	err := m.db.Update(func(txn *badger.Txn) error {
		updated = nil
		for _, id := range lo.Uniq(ids) {
			message, err := getMessage(txn, id)
			if stderrors.Is(err, errors.ErrMessageNotFound) {
				m.log.Debug("Skipping unknown message", "message_id", id)
				continue
			}
			if err != nil {
				return err
			}
			next, err := message.Status.Advance(status)
			if err != nil {
				m.log.Debug("Skipping message", "message_id", id, "error", err)
				continue
			}
			message.Status = next
			if err = txn.Set(messageKey(id), encodeMessage(message)); err != nil {
				return err
			}
			updated = append(updated, message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (m MessageRepository) UpdateText(id uuid.UUID, text string, at time.Time) (DiskMessage, error) {
	var updated DiskMessage
	err := m.db.Update(func(txn *badger.Txn) error {
		message, err := getMessage(txn, id)
		if err != nil {
			return err
		}
		message.Content = text
		message.Edited = true
		message.UpdatedAt = at
		updated = message
		return txn.Set(messageKey(id), encodeMessage(message))
	})
	return updated, err
}

// DeleteMessage removes the record and its indexes. It returns the deleted message.
func (m MessageRepository) DeleteMessage(id uuid.UUID) (DiskMessage, error) {
	var deleted DiskMessage
	err := m.db.Update(func(txn *badger.Txn) error {
		message, err := getMessage(txn, id)
		if err != nil {
			return err
		}
		deleted = message
		for _, key := range [][]byte{messageKey(id), roomIndexKey(message), timeIndexKey(message)} {
			if err = txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	return deleted, err
}

// FindMessages returns messages oldest first, optionally restricted to one room.
// With a limit, only the most recent messages are kept.
// The index is read backwards from the newest key, as a "9999999999999999999" seek would do,
// so the limit applies to the tail of the conversation.
func (m MessageRepository) FindMessages(room *domain.RoomID) ([]DiskMessage, error) {
	prefix := []byte(timeIndexPrefix)
	if room != nil {
		prefix = []byte(fmt.Sprintf("%s%s:", roomIndexPrefix, *room))
	}

	var messages []DiskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			id, err := idFromIndexKey(it.Item().Key())
			if err != nil {
				return err
			}
			message, err := getMessage(txn, id)
			if err != nil {
				return err
			}
			// room ids may contain ':', so "r1" also prefixes the keys of "r1:x"
			if room != nil && message.Room != *room {
				continue
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lo.Reverse(messages), nil
}

func getMessage(txn *badger.Txn, id uuid.UUID) (DiskMessage, error) {
	item, err := txn.Get(messageKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return DiskMessage{}, fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	}
	if err != nil {
		return DiskMessage{}, err
	}
	var message DiskMessage
	err = item.Value(func(value []byte) error {
		message, err = decodeMessage(value)
		return err
	})
	return message, err
}

func messageKey(id uuid.UUID) []byte {
	return []byte(messagePrefix + id.String())
}

func roomIndexKey(message DiskMessage) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", roomIndexPrefix, message.Room, message.At.UnixNano(), message.ID))
}

func timeIndexKey(message DiskMessage) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", timeIndexPrefix, message.At.UnixNano(), message.ID))
}

// idFromIndexKey reads the trailing uuid of an index key.
func idFromIndexKey(key []byte) (uuid.UUID, error) {
	const uuidLength = 36
	if len(key) < uuidLength {
		return uuid.Nil, fmt.Errorf("malformed index key %q", key)
	}
	return uuid.Parse(string(key[len(key)-uuidLength:]))
}

func encodeMessage(message DiskMessage) []byte {
	var b []byte
	b = appendString(b, 1, message.ID.String())
	b = appendString(b, 2, string(message.Room))
	b = appendString(b, 3, string(message.Author))
	b = appendString(b, 4, message.Content)
	b = appendVarint(b, 5, protowire.EncodeBool(message.Edited))
	b = appendVarint(b, 6, uint64(message.Status))
	b = appendTime(b, 7, message.At)
	b = appendTime(b, 8, message.UpdatedAt)
	return b
}

func decodeMessage(b []byte) (DiskMessage, error) {
	var message DiskMessage
	var id, room, author string
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		var v uint64
		switch num {
		case 1:
			return consumeString(num, typ, b, &id)
		case 2:
			return consumeString(num, typ, b, &room)
		case 3:
			return consumeString(num, typ, b, &author)
		case 4:
			return consumeString(num, typ, b, &message.Content)
		case 5:
			n, err := consumeVarint(num, typ, b, &v)
			message.Edited = protowire.DecodeBool(v)
			return n, err
		case 6:
			n, err := consumeVarint(num, typ, b, &v)
			message.Status = domain.Status(v)
			return n, err
		case 7:
			return consumeTime(num, typ, b, &message.At)
		case 8:
			return consumeTime(num, typ, b, &message.UpdatedAt)
		default:
			return skipField(num, typ, b)
		}
	})
	if err != nil {
		return DiskMessage{}, fmt.Errorf("decode message: %w", err)
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return DiskMessage{}, err
	}
	message.ID = parsedID
	message.Room = domain.RoomID(room)
	message.Author = domain.UserID(author)
	return message, nil
}
