//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"chat-live/domain"
	"chat-live/errors"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	userPrefix   = "user:"
	userIDPrefix = "user-id:"
)

type IUserRepository interface {
	CreateUser(username, hashedPassword string) (domain.User, error)
	GetUserByUsername(username string) (domain.User, error)
	GetUserByID(id domain.UserID) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// CreateUser persists the user under its username and keeps an id -> username
// pointer for display name resolution.
func (u UserRepository) CreateUser(username, hashedPassword string) (domain.User, error) {
	user := domain.User{
		ID:           domain.UserID(uuid.NewString()),
		Username:     username,
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
		CreatedAt:    time.Now().UTC(),
	}

	err := u.db.Update(func(txn *badger.Txn) error {
		key := []byte(userPrefix + username)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(key, encodeUser(user)); err != nil {
			return err
		}
		return txn.Set([]byte(userIDPrefix+string(user.ID)), []byte(username))
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u UserRepository) GetUserByUsername(username string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, username)
		return err
	})
	return user, err
}

func (u UserRepository) GetUserByID(id domain.UserID) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userIDPrefix + string(id)))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", errors.ErrUserNotFound, id)
		}
		if err != nil {
			return err
		}
		username, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		user, err = getUser(txn, string(username))
		return err
	})
	return user, err
}

func getUser(txn *badger.Txn, username string) (domain.User, error) {
	item, err := txn.Get([]byte(userPrefix + username))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, fmt.Errorf("%w: %s", errors.ErrUserNotFound, username)
	}
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	err = item.Value(func(value []byte) error {
		user, err = decodeUser(value)
		return err
	})
	return user, err
}

func encodeUser(user domain.User) []byte {
	var b []byte
	b = appendString(b, 1, string(user.ID))
	b = appendString(b, 2, user.Username)
	b = appendString(b, 3, user.PasswordHash)
	for _, role := range user.Roles {
		b = appendString(b, 4, role)
	}
	b = appendTime(b, 5, user.CreatedAt)
	return b
}

func decodeUser(b []byte) (domain.User, error) {
	var user domain.User
	var id string
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &id)
		case 2:
			return consumeString(num, typ, b, &user.Username)
		case 3:
			return consumeString(num, typ, b, &user.PasswordHash)
		case 4:
			var role string
			n, err := consumeString(num, typ, b, &role)
			user.Roles = append(user.Roles, role)
			return n, err
		case 5:
			return consumeTime(num, typ, b, &user.CreatedAt)
		default:
			return skipField(num, typ, b)
		}
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	user.ID = domain.UserID(id)
	return user, nil
}
