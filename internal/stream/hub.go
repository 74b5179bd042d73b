// Package stream pushes exported snapshots to websocket subscribers.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Message is the envelope written to every subscriber.
type Message struct {
	Type       string `json:"type"`
	Data       any    `json:"data,omitempty"`
	ServerTime int64  `json:"serverTime"`
}

// Hub fans messages out to connected websocket clients. The last message is
// replayed to clients that connect later.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
	last        []byte
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger.With("component", "stream_hub"),
	}
}

// Publish sends a message of the given type to every subscriber.
func (h *Hub) Publish(kind string, data any) {
	payload, err := json.Marshal(Message{Type: kind, Data: data, ServerTime: time.Now().UnixMilli()})
	if err != nil {
		h.logger.Error("Failed to marshal stream message", "type", kind, "error", err)
		return
	}

	h.mu.Lock()
	h.last = payload
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(payload); err != nil {
			h.logger.Debug("Failed to send stream message", "subscriber", id, "error", err)
			h.remove(id)
		}
	}
	h.logger.Debug("Stream message published", "type", kind, "subscribers", len(subs), "bytes", len(payload))
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Handle upgrades the request and keeps the connection until the client leaves.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	id := uuid.NewString()
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.subscribers[id] = sub
	last := h.last
	h.mu.Unlock()

	h.logger.Info("Stream subscriber connected", "subscriber", id, "remote_addr", r.RemoteAddr)

	if last != nil {
		if err := sub.write(last); err != nil {
			h.remove(id)
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(id)
			return
		}
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	ids := make([]string, 0, len(h.subscribers))
	for id := range h.subscribers {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.remove(id)
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()

	if !ok {
		return
	}

	sub.mu.Lock()
	_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = sub.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = sub.conn.Close()
	sub.mu.Unlock()

	h.logger.Info("Stream subscriber disconnected", "subscriber", id)
}

func (s *subscriber) write(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}
