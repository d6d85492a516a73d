package rest

import (
	"chat-live/auth"
	"chat-live/domain"
	"chat-live/errors"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

const maxBodySize = 1 << 20

var validate = validator.New()

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userView struct {
	ID        domain.UserID `json:"_id"`
	Username  string        `json:"username"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
}

func (rt *Router) signup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !rt.decode(w, r, &body) {
		return
	}
	user, err := rt.auth.Signup(body.Username, body.Password)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    userView{ID: user.ID, Username: user.Username, CreatedAt: &user.CreatedAt},
	})
}

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !rt.decode(w, r, &body) {
		return
	}
	token, user, err := rt.auth.Login(body.Username, body.Password)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    userView{ID: user.ID, Username: user.Username},
	})
}

func (rt *Router) secureData(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		rt.writeError(w, err)
		return
	}
	roles, _ := r.Context().Value(auth.RolesKey).([]string)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "You are authorized!",
		"user":    map[string]any{"id": userID, "roles": roles},
	})
}

func (rt *Router) getRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := rt.chat.GetRooms(r.Context())
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (rt *Router) createRoom(w http.ResponseWriter, r *http.Request) {
	var cmd domain.CreateRoomCommand
	if !rt.decode(w, r, &cmd) {
		return
	}
	if err := validate.Struct(cmd); err != nil {
		rt.writeError(w, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err))
		return
	}
	room, err := rt.chat.CreateRoom(r.Context(), cmd)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (rt *Router) seed(w http.ResponseWriter, r *http.Request) {
	rooms, err := rt.chat.SeedRooms(r.Context())
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (rt *Router) getAllMessages(w http.ResponseWriter, r *http.Request) {
	rt.listMessages(w, r, nil)
}

func (rt *Router) getRoomMessages(w http.ResponseWriter, r *http.Request) {
	room := domain.RoomID(r.PathValue("roomId"))
	rt.listMessages(w, r, &room)
}

func (rt *Router) listMessages(w http.ResponseWriter, r *http.Request, room *domain.RoomID) {
	messages, err := rt.chat.GetMessages(r.Context(), room)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (rt *Router) postMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		rt.writeError(w, err)
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if !rt.decode(w, r, &body) {
		return
	}
	message, err := rt.chat.PostMessage(r.Context(), domain.PostMessageCommand{
		SenderID: userID,
		Text:     body.Text,
		Room:     domain.RoomID(r.PathValue("roomId")),
	})
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (rt *Router) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(dst); err != nil {
		rt.writeError(w, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err))
		return false
	}
	return true
}

// writeError maps domain errors to status codes; internal causes stay in the logs.
func (rt *Router) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		rt.log.Error("Request failed", "error", err)
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
