// Package ws exposes the real-time event protocol over WebSocket.
package ws

import (
	"chat-live/domain"
	"chat-live/services"
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Options struct {
	BufferSize     int
	MaxMessageSize int64
	AllowedOrigins []string
}

// Handler upgrades requests and runs the pumps of each connection.
// The request context bounds the connection: cancel the server base context
// to close every socket.
type Handler struct {
	log      *slog.Logger
	upgrader websocket.Upgrader
	presence services.IPresenceService
	router   *Router
	options  Options
}

func NewHandler(log *slog.Logger, presence services.IPresenceService, router *Router, options Options) *Handler {
	origins := NewOriginPolicy(log, options.AllowedOrigins)
	return &Handler{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.Check,
		},
		presence: presence,
		router:   router,
		options:  options,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("WebSocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	id := domain.ConnectionID(uuid.NewString())
	conn := NewConnection(h.log, socket, id, h.options.BufferSize, h.options.MaxMessageSize)
	h.presence.Connect(id, conn)
	h.log.Info("Client connected", "conn_id", id, "remote_addr", r.RemoteAddr)

	go conn.writePump()

	ctx := r.Context()
	conn.readPump(ctx, func(ctx context.Context, frame []byte) {
		h.router.Route(ctx, id, frame)
	})

	// The request context may already be canceled on shutdown; presence must still be cleaned.
	h.presence.Disconnect(context.WithoutCancel(ctx), id)
	h.log.Info("Client disconnected", "conn_id", id)
}
