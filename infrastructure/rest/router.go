// Package rest exposes the request/response surface: authentication, rooms and message history.
package rest

import (
	"chat-live/auth"
	"chat-live/services"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const banner = "chat-live API is running"

type Router struct {
	log    *slog.Logger
	auth   services.IAuthService
	chat   services.IChatService
	tokens auth.Tokens
}

func NewRouter(log *slog.Logger, authService services.IAuthService, chat services.IChatService, tokens auth.Tokens) *Router {
	return &Router{log: log, auth: authService, chat: chat, tokens: tokens}
}

// Handler mounts every route on a new mux. The WebSocket endpoint, when given,
// is served from /ws on the same listener.
func (rt *Router) Handler(websocket http.Handler) http.Handler {
	mux := http.NewServeMux()
	protect := func(h http.HandlerFunc) http.Handler { return auth.Protect(rt.tokens, h) }

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, banner)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/auth/signup", rt.signup)
	mux.HandleFunc("POST /api/auth/login", rt.login)
	mux.Handle("GET /api/secure-data", protect(rt.secureData))

	mux.Handle("GET /api/chat/rooms", protect(rt.getRooms))
	mux.Handle("POST /api/chat/rooms", protect(rt.createRoom))
	mux.Handle("GET /api/chat/messages", protect(rt.getAllMessages))
	mux.HandleFunc("POST /api/chat/seed", rt.seed)
	mux.Handle("GET /api/chat/{roomId}", protect(rt.getRoomMessages))
	mux.Handle("POST /api/chat/{roomId}", protect(rt.postMessage))

	if websocket == nil {
		return rt.logging(cors(mux))
	}
	// Upgrades need the raw ResponseWriter, so the socket skips the middlewares.
	root := http.NewServeMux()
	root.Handle("GET /ws", websocket)
	root.Handle("/", rt.logging(cors(mux)))
	return root
}

// cors allows any origin, like the public API always did.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (rt *Router) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		rt.log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start))
	})
}
