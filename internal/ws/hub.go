package ws

import (
	"encoding/json"
	"sync"
	"time"

	"go-farm-inventory/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

// Event is the envelope pushed to every connected client.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	At      time.Time   `json:"at"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			logger.Get().WithField("clients", h.clientCount()).Info("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) clientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Notify publishes a stock_update event without blocking the caller.
// A nil hub discards events.
func (h *Hub) Notify(action, message string, data interface{}) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(Event{
		Type:    "stock_update",
		Action:  action,
		Data:    data,
		Message: message,
		At:      time.Now().UTC(),
	})
	if err != nil {
		logger.LogError("ws", "Notify", action, nil, err)
		return
	}
	go func() {
		h.Broadcast <- msg
	}()
}
