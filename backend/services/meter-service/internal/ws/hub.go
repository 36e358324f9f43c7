// Package ws streams saved readings to dashboard clients over WebSockets.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is the envelope pushed to subscribers.
type Event struct {
	Type   string    `json:"type"`
	Data   any       `json:"data"`
	SentAt time.Time `json:"sent_at"`
}

// Hub tracks subscriber connections and fans events out to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	logger      *zap.Logger
}

// NewHub builds connection hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		logger:      logger,
	}
}

// Add registers new connection.
func (h *Hub) Add(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn.ID()] = conn
}

// Remove removes connection.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, id)
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Broadcast sends an event to every subscriber.
func (h *Hub) Broadcast(eventType string, payload any) {
	data, err := json.Marshal(Event{Type: eventType, Data: payload, SentAt: time.Now().UTC()})
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("type", eventType), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.connections {
		conn.Send(data)
	}
}
