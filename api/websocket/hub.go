package websocket

import (
	"sync"

	"github.com/OldStager01/sentinel-console/internal/logger"
)

// ClientObserver is told the connected client count after every change.
type ClientObserver interface {
	SetWebsocketClients(n int)
}

// Hub tracks connected clients. Each client is bound to the session that
// opened it and only receives that session's messages.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	settings   *WebSocketSettings
	observer   ClientObserver
}

func NewHub(settings *WebSocketSettings, observer ClientObserver) *Hub {
	if settings == nil {
		settings = NewWebSocketSettings(nil)
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, defaultBroadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		settings:   settings,
		observer:   observer,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.report(n)
			logger.WithSession(client.sessionID).Infof("WebSocket client connected (total: %d)", n)

		case client := <-h.unregister:
			if h.remove(client) {
				logger.WithSession(client.sessionID).Infof("WebSocket client disconnected (total: %d)", h.ClientCount())
			}

		case message := <-h.broadcast:
			h.fanOut(message, func(*Client) bool { return true })
		}
	}
}

// Stop closes every client and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		logger.Warn("Broadcast channel full, dropping message")
	}
}

func (h *Hub) BroadcastToSession(sessionID string, message []byte) {
	if sessionID == "" {
		return
	}
	h.fanOut(message, func(c *Client) bool { return c.sessionID == sessionID })
}

// fanOut queues message for matching clients; a client whose buffer is
// full is dropped rather than stalling the others.
func (h *Hub) fanOut(message []byte, match func(*Client) bool) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		if !match(client) {
			continue
		}
		select {
		case client.send <- message:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		if h.remove(client) {
			logger.WithSession(client.sessionID).Warn("WebSocket client too slow, disconnected")
		}
	}
}

// sendTo queues data for one client if it is still registered.
func (h *Hub) sendTo(client *Client, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return false
	}
	select {
	case client.send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) remove(client *Client) bool {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.report(n)
	}
	return ok
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	h.report(0)
}

func (h *Hub) report(n int) {
	if h.observer != nil {
		h.observer.SetWebsocketClients(n)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClientCount reports how many clients one session holds open.
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for client := range h.clients {
		if client.sessionID == sessionID {
			n++
		}
	}
	return n
}

// Full reports whether the connection cap is reached.
func (h *Hub) Full() bool {
	return h.settings.MaxConnections > 0 && h.ClientCount() >= h.settings.MaxConnections
}

func (h *Hub) Settings() *WebSocketSettings {
	return h.settings
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
