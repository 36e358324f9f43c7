package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Connection is one subscribed dashboard client.
type Connection struct {
	id           string
	ws           *websocket.Conn
	send         chan []byte
	logger       *zap.Logger
	writeTimeout time.Duration
	onClose      func(id string)
}

// NewConnection builds connection wrapper.
func NewConnection(id string, ws *websocket.Conn, writeTimeout time.Duration, logger *zap.Logger, onClose func(string)) *Connection {
	return &Connection{
		id:           id,
		ws:           ws,
		send:         make(chan []byte, 16),
		logger:       logger,
		writeTimeout: writeTimeout,
		onClose:      onClose,
	}
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// Start launches read/write pumps and blocks until the client goes away.
func (c *Connection) Start(ctx context.Context) {
	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump only drains control frames; subscribers never send data.
func (c *Connection) readPump(ctx context.Context) {
	defer c.cleanup()
	c.ws.SetReadLimit(4096)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := c.ws.ReadMessage(); err != nil {
			c.logger.Debug("subscriber read closed", zap.String("conn_id", c.id), zap.Error(err))
			return
		}
	}
}

func (c *Connection) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		case msg, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send enqueues a message. Slow clients lose messages rather than block.
func (c *Connection) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("dropping outgoing message, buffer full", zap.String("conn_id", c.id))
	}
}

func (c *Connection) write(messageType int, data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(messageType, data)
}

// cleanup deregisters before closing send so no broadcast can race the close.
func (c *Connection) cleanup() {
	if c.onClose != nil {
		c.onClose(c.id)
	}
	close(c.send)
	_ = c.ws.Close()
}
