package ws

import (
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/errors"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Connection is one live socket. It is the EventSink of its connection id:
// events are encoded once and queued for the write pump.
type Connection struct {
	id        domain.ConnectionID
	ws        *websocket.Conn
	log       *slog.Logger
	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func NewConnection(log *slog.Logger, ws *websocket.Conn, id domain.ConnectionID, bufferSize int, maxMessageSize int64) *Connection {
	if ws != nil {
		ws.SetReadLimit(maxMessageSize)
	}
	return &Connection{
		id:     id,
		ws:     ws,
		log:    log.With("conn_id", id),
		send:   make(chan []byte, bufferSize),
		closed: make(chan struct{}),
	}
}

func (c *Connection) ID() domain.ConnectionID { return c.id }

// Consume queues the event. It waits for room in the buffer until ctx expires.
func (c *Connection) Consume(ctx context.Context, e event.Event) error {
	frame, err := event.Encode(e)
	if err != nil {
		return err
	}
	select {
	case <-c.closed:
		return errors.ErrConnectionClosed
	default:
	}
	select {
	case c.send <- frame:
		return nil
	case <-c.closed:
		return errors.ErrConnectionClosed
	case <-ctx.Done():
		c.log.Warn("Send buffer full, event dropped", "event", e.Name())
		return ctx.Err()
	}
}

// Close stops the write pump. Safe to call many times.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { close(c.closed) })
}

// readPump hands every frame to handle, one at a time, until the socket fails or ctx ends.
func (c *Connection) readPump(ctx context.Context, handle func(ctx context.Context, frame []byte)) {
	defer c.Close()

	stop := context.AfterFunc(ctx, func() { _ = c.ws.Close() })
	defer stop()

	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}
		handle(ctx, frame)
	}
}

func (c *Connection) logReadError(err error) {
	switch {
	case stderrors.Is(err, websocket.ErrReadLimit):
		c.log.Warn("Frame exceeded maximum size")
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived),
		stderrors.Is(err, io.EOF), stderrors.Is(err, net.ErrClosed):
		c.log.Debug("Client disconnected", "error", err)
	default:
		c.log.Info("WebSocket read error", "error", err)
	}
}

// writePump owns every write on the socket. Each event is its own text frame.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			if err := c.write(websocket.TextMessage, frame); err != nil {
				c.log.Debug("Write failed", "error", err)
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.log.Debug("Ping failed", "error", err)
				c.Close()
				return
			}
		case <-c.closed:
			c.flush()
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes what is still queued when the connection is closing.
func (c *Connection) flush() {
	for {
		select {
		case frame := <-c.send:
			if err := c.write(websocket.TextMessage, frame); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Connection) write(messageType int, data []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, data)
}
