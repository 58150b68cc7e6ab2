package ws

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans journal events out to connected dashboards
type Hub struct {
	conns map[*Connection]struct{}
	mu    sync.RWMutex
	log   logrus.FieldLogger

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection represents a WebSocket connection
type Connection struct {
	ID   string
	Send chan []byte
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Hub{
		conns:      make(map[*Connection]struct{}),
		log:        log,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for conn := range h.conns {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = struct{}{}
			h.mu.Unlock()
			h.log.WithField("conn", conn.ID).Info("dashboard connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				close(conn.Send)
				h.log.WithField("conn", conn.ID).Info("dashboard disconnected")
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Count returns the number of connected dashboards
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast sends a message to every dashboard (implements service.Broadcaster).
// It never blocks the caller; messages are dropped when the queue is full.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).WithField("type", msgType).Error("failed to encode broadcast payload")
		return
	}
	data, _ := json.Marshal(&Message{
		Type:    MessageType(msgType),
		Payload: body,
	})

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.log.WithField("type", msgType).Warn("broadcast queue full, dropping message")
	}
}

// Close stops the hub loop and closes every connection's send channel
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
