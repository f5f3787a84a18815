package notification

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// A full send buffer drops the payload rather than block the caller.
const sendBufferSize = 32

// client pairs a connection with its send queue. All writes to the conn go
// through the queue so a single goroutine owns the write side.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks one live websocket per user. A new connection for the same
// user replaces the old one. Each connection gets a dedicated write pump;
// Send only enqueues, it never touches the conn directly.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger.Named("notification.hub"),
	}
}

// Register attaches a connection for the user, closing any previous one,
// and starts its write pump.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	cl := &client{conn: conn, send: make(chan []byte, sendBufferSize)}

	h.mu.Lock()
	if old, ok := h.clients[userID]; ok {
		close(old.send)
	}
	h.clients[userID] = cl
	h.mu.Unlock()

	go h.writePump(userID, cl)
	h.logger.Debug("websocket registered", zap.String("user_id", userID))
}

// Unregister detaches the connection only if it is still the current one,
// so a replaced connection cannot evict its replacement.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[userID]; ok && current.conn == conn {
		close(current.send)
		delete(h.clients, userID)
	}
}

// Send queues a JSON payload for the user's connection. Delivery is best
// effort: no connection, a closed pump or a full buffer just reports false.
func (h *Hub) Send(userID string, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("websocket payload marshal failed", zap.Error(err))
		return false
	}

	// The lock also serializes the enqueue against a close of the channel
	// in Register or Unregister.
	h.mu.Lock()
	defer h.mu.Unlock()

	cl, ok := h.clients[userID]
	if !ok {
		return false
	}
	select {
	case cl.send <- data:
		return true
	default:
		h.logger.Debug("websocket send buffer full", zap.String("user_id", userID))
		return false
	}
}

// writePump drains the client's queue onto the conn. It is the conn's only
// writer; it stops on write failure or when the queue is closed.
func (h *Hub) writePump(userID string, cl *client) {
	for data := range cl.send {
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("websocket write failed", zap.String("user_id", userID), zap.Error(err))
			break
		}
	}

	h.mu.Lock()
	if current, ok := h.clients[userID]; ok && current == cl {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	cl.conn.Close()
}

// Connected reports how many sockets are live, for health reporting.
func (h *Hub) Connected() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
