package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades HTTP connections to WebSocket subscriptions.
type Server struct {
	hub          *Hub
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
	ctx          context.Context
}

// NewServer builds ws server. Connections close when ctx is cancelled.
func NewServer(ctx context.Context, hub *Hub, writeTimeout time.Duration, logger *zap.Logger) *Server {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Server{
		hub:          hub,
		logger:       logger,
		writeTimeout: writeTimeout,
		ctx:          ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is HTTP handler for /ws/readings.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	connection := NewConnection(uuid.NewString(), conn, s.writeTimeout, s.logger, func(id string) {
		s.hub.Remove(id)
		cancel()
	})
	s.hub.Add(connection)

	go connection.Start(ctx)
	s.logger.Info("subscriber connected", zap.String("conn_id", connection.ID()), zap.String("remote", r.RemoteAddr))
}
