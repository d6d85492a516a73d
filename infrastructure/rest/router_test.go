package rest

import (
	"chat-live/auth"
	"chat-live/domain"
	"chat-live/errors"
	"chat-live/mocks"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	auth    *mocks.MockIAuthService
	chat    *mocks.MockIChatService
	tokens  auth.Tokens
	handler http.Handler
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	f := fixture{
		auth:   mocks.NewMockIAuthService(ctrl),
		chat:   mocks.NewMockIChatService(ctrl),
		tokens: auth.NewTokens("secret", time.Hour),
	}
	f.handler = NewRouter(log, f.auth, f.chat, f.tokens).Handler(nil)
	return f
}

func (f fixture) do(t *testing.T, method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if authenticated {
		token, err := f.tokens.GenerateToken("u1", []string{"user"})
		require.NoError(t, err)
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestRouter_Signup(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.auth.EXPECT().Signup("alice", "ComplexPass123!").Return(domain.User{ID: "u1", Username: "alice"}, nil)
	w := f.do(t, http.MethodPost, "/api/auth/signup", `{"username":"alice","password":"ComplexPass123!"}`, false)
	req.Equal(http.StatusCreated, w.Code)
	body := decodeBody[map[string]any](t, w)
	req.Equal("User created successfully", body["message"])

	f.auth.EXPECT().Signup("alice", gomock.Any()).Return(domain.User{}, errors.ErrUserAlreadyExists)
	w = f.do(t, http.MethodPost, "/api/auth/signup", `{"username":"alice","password":"ComplexPass123!"}`, false)
	req.Equal(http.StatusBadRequest, w.Code)
	req.Equal(map[string]string{"message": "user already exists"}, decodeBody[map[string]string](t, w))

	w = f.do(t, http.MethodPost, "/api/auth/signup", `{not json`, false)
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestRouter_Login(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.auth.EXPECT().Login("alice", "pw").Return("jwt", domain.User{ID: "u1", Username: "alice", PasswordHash: "secret-hash"}, nil)
	w := f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"pw"}`, false)

	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`{"message":"Login successful","token":"jwt","user":{"_id":"u1","username":"alice"}}`, w.Body.String())

	f.auth.EXPECT().Login("alice", "bad").Return("", domain.User{}, errors.ErrInvalidCredentials)
	w = f.do(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"bad"}`, false)
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestRouter_Protected_Routes_Need_Token(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	for _, path := range []string{"/api/secure-data", "/api/chat/rooms", "/api/chat/messages", "/api/chat/r1"} {
		w := f.do(t, http.MethodGet, path, "", false)
		req.Equal(http.StatusUnauthorized, w.Code, path)
		req.JSONEq(`{"message":"No token provided"}`, w.Body.String())
	}

	w := f.do(t, http.MethodGet, "/api/secure-data", "", true)
	req.Equal(http.StatusOK, w.Code)
	req.Contains(w.Body.String(), "You are authorized!")
}

func TestRouter_Rooms(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	rooms := []domain.Room{{ID: "1", Name: "Alice", Participants: []domain.UserID{}}}

	f.chat.EXPECT().GetRooms(gomock.Any()).Return(rooms, nil)
	w := f.do(t, http.MethodGet, "/api/chat/rooms", "", true)
	req.Equal(http.StatusOK, w.Code)
	req.Equal(rooms, decodeBody[[]domain.Room](t, w))

	f.chat.EXPECT().CreateRoom(gomock.Any(), domain.CreateRoomCommand{Name: "General"}).Return(domain.Room{ID: "2", Name: "General"}, nil)
	w = f.do(t, http.MethodPost, "/api/chat/rooms", `{"name":"General"}`, true)
	req.Equal(http.StatusCreated, w.Code)

	// Name is required
	w = f.do(t, http.MethodPost, "/api/chat/rooms", `{}`, true)
	req.Equal(http.StatusBadRequest, w.Code)

	// Seeding is public and wins over the room route
	f.chat.EXPECT().SeedRooms(gomock.Any()).Return(rooms, nil)
	w = f.do(t, http.MethodPost, "/api/chat/seed", "", false)
	req.Equal(http.StatusOK, w.Code)
}

func TestRouter_Messages(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	room := domain.RoomID("r1")
	message := domain.Message{ID: uuid.New(), Room: room, Text: "hi", Status: domain.StatusPending}

	f.chat.EXPECT().GetMessages(gomock.Any(), &room).Return(nil, nil)
	w := f.do(t, http.MethodGet, "/api/chat/r1", "", true)
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`[]`, w.Body.String())

	f.chat.EXPECT().GetMessages(gomock.Any(), (*domain.RoomID)(nil)).Return([]domain.Message{message}, nil)
	w = f.do(t, http.MethodGet, "/api/chat/messages", "", true)
	req.Equal(http.StatusOK, w.Code)
	req.Len(decodeBody[[]domain.Message](t, w), 1)

	f.chat.EXPECT().PostMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, cmd domain.PostMessageCommand) (domain.Message, error) {
			req.Equal(domain.UserID("u1"), cmd.SenderID)
			req.Equal(room, cmd.Room)
			return message, nil
		})
	w = f.do(t, http.MethodPost, "/api/chat/r1", `{"text":"hi"}`, true)
	req.Equal(http.StatusCreated, w.Code)
	req.Contains(w.Body.String(), `"status":"pending"`)

	f.chat.EXPECT().PostMessage(gomock.Any(), gomock.Any()).Return(domain.Message{}, errors.ErrEmptyText)
	w = f.do(t, http.MethodPost, "/api/chat/r1", `{"text":""}`, true)
	req.Equal(http.StatusBadRequest, w.Code)

	f.chat.EXPECT().GetMessages(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("badger: disk full"))
	w = f.do(t, http.MethodGet, "/api/chat/messages", "", true)
	req.Equal(http.StatusInternalServerError, w.Code)
	req.JSONEq(`{"message":"internal error"}`, w.Body.String())
}

func TestRouter_Banner_Health_And_Cors(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/", "", false)
	req.Equal(http.StatusOK, w.Code)
	req.Equal(banner, w.Body.String())

	w = f.do(t, http.MethodGet, "/healthz", "", false)
	req.Equal(http.StatusOK, w.Code)
	req.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))

	w = f.do(t, http.MethodOptions, "/api/chat/rooms", "", false)
	req.Equal(http.StatusNoContent, w.Code)
}
