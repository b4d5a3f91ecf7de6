package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgRecommendationsReady MessageType = "recommendations_ready"
	MsgReportReady          MessageType = "report_ready"
	MsgError                MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections per attempt. An attempt's owner can
// hold several connections (tabs, devices); all receive each event.
type Hub struct {
	conns map[string]map[*Connection]bool // attemptID -> connections

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	notify     chan *ownerEvent
}

// Connection represents one WebSocket connection watching an attempt
type Connection struct {
	AttemptID string
	Send      chan []byte
	Hub       *Hub
}

type ownerEvent struct {
	AttemptID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		notify:     make(chan *ownerEvent, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.AttemptID] == nil {
				h.conns[conn.AttemptID] = make(map[*Connection]bool)
			}
			h.conns[conn.AttemptID][conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.AttemptID]; ok {
				if set[conn] {
					delete(set, conn)
					close(conn.Send)
				}
				if len(set) == 0 {
					delete(h.conns, conn.AttemptID)
				}
			}
			h.mu.Unlock()

		case event := <-h.notify:
			data, err := json.Marshal(event.Message)
			if err != nil {
				log.Printf("failed to marshal ws message: %v", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[event.AttemptID] {
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
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// NotifyOwner implements service.Notifier
func (h *Hub) NotifyOwner(attemptID string, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal ws payload: %v", err)
		return
	}
	h.notify <- &ownerEvent{
		AttemptID: attemptID,
		Message:   &Message{Type: MessageType(event), Payload: data},
	}
}
