package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/OldStager01/sentinel-console/api/middleware"
	"github.com/OldStager01/sentinel-console/internal/logger"
)

// SnapshotFunc returns the current page state of a session.
type SnapshotFunc func(sessionID string) interface{}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	snapshot  SnapshotFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID string, snapshot SnapshotFunc) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, hub.settings.ClientBuffer),
		sessionID: sessionID,
		snapshot:  snapshot,
	}
}

func (c *Client) ReadPump() {
	settings := c.hub.settings
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(settings.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.WithSession(c.sessionID).Errorf("WebSocket error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.handleMessage(&msg)
		}
	}
}

func (c *Client) WritePump() {
	settings := c.hub.settings
	ticker := time.NewTicker(settings.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(settings.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One frame per message; the browser parses each as JSON.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(settings.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *IncomingMessage) {
	switch msg.Type {
	case "ping":
		c.enqueue(NewMessage(MessageTypePong, c.sessionID, nil).JSON())
	case "snapshot":
		c.sendSnapshot()
	}
}

func (c *Client) sendSnapshot() {
	if c.snapshot == nil {
		return
	}
	c.enqueue(NewMessage(MessageTypeSnapshot, c.sessionID, c.snapshot(c.sessionID)).JSON())
}

func (c *Client) enqueue(data []byte) {
	if data == nil {
		return
	}
	if !c.hub.sendTo(c, data) {
		logger.WithSession(c.sessionID).Warn("Client send channel full, dropping message")
	}
}

// ServeWebSocket upgrades the request and binds the connection to the
// caller's session. The first frame is a snapshot of the page state.
func ServeWebSocket(hub *Hub, snapshot SnapshotFunc) gin.HandlerFunc {
	settings := hub.Settings()
	upgrader := websocket.Upgrader{
		ReadBufferSize:  settings.ReadBufferSize,
		WriteBufferSize: settings.WriteBufferSize,
		CheckOrigin:     settings.CheckOrigin,
	}

	return func(c *gin.Context) {
		sessionID := middleware.GetSessionID(c)
		if sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}
		if hub.Full() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many websocket connections"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithSession(sessionID).Errorf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, sessionID, snapshot)
		hub.Register(client)
		client.sendSnapshot()

		go client.WritePump()
		go client.ReadPump()
	}
}
