package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sentinel-console/api/middleware"
	"github.com/OldStager01/sentinel-console/internal/auth"
	"github.com/OldStager01/sentinel-console/pkg/config"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

type countObserver struct {
	last chan int
}

func (o *countObserver) SetWebsocketClients(n int) {
	select {
	case o.last <- n:
	default:
	}
}

func TestNewWebSocketSettings_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.WebSocketConfig
		wantPing time.Duration
	}{
		{name: "nil config", cfg: nil, wantPing: 54 * time.Second},
		{name: "ping inside pong window", cfg: &config.WebSocketConfig{PingInterval: 20 * time.Second, PongTimeout: 30 * time.Second}, wantPing: 20 * time.Second},
		{name: "ping past pong window is pulled in", cfg: &config.WebSocketConfig{PingInterval: 90 * time.Second, PongTimeout: 30 * time.Second}, wantPing: 27 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewWebSocketSettings(tt.cfg)
			assert.Equal(t, tt.wantPing, s.PingPeriod)
			assert.Equal(t, defaultClientBuffer, s.ClientBuffer)
		})
	}
}

func TestCheckOrigin(t *testing.T) {
	s := NewWebSocketSettings(nil)
	s.AllowedOrigins = []string{"http://allowed.local"}

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{name: "no origin", origin: "", want: true},
		{name: "same host", origin: "http://console.local:8080", want: true},
		{name: "allow listed", origin: "http://allowed.local", want: true},
		{name: "foreign", origin: "http://evil.local", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://console.local:8080/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, s.CheckOrigin(req))
		})
	}
}

func TestMapEventType(t *testing.T) {
	assert.Equal(t, MessageTypeLog, mapEventType(models.EventTypeLogAppended))
	assert.Equal(t, MessageTypeResult, mapEventType(models.EventTypeResultReady))
	assert.Equal(t, MessageTypeChat, mapEventType(models.EventTypeChatTurn))
	assert.Equal(t, MessageType(""), mapEventType(models.EventType("unknown")))

	assert.Nil(t, convertToWSMessage(models.NewEvent(models.EventTypeLogAppended, "", "no session")))
}

func TestServeWebSocket_SessionScopedStream(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := auth.NewService("ws-secret", "sentinel-test", time.Hour)
	observer := &countObserver{last: make(chan int, 16)}
	hub := NewHub(NewWebSocketSettings(nil), observer)
	go hub.Run()
	defer hub.Stop()

	events := make(chan *models.Event, 4)
	bridge := NewEventBridge(hub, events)
	bridge.Start()
	defer bridge.Stop()

	r := gin.New()
	r.Use(middleware.Session(svc, middleware.SessionCookie{Name: "sid"}))
	r.GET("/ws", ServeWebSocket(hub, func(sessionID string) interface{} {
		return map[string]string{"session": sessionID}
	}))

	srv := httptest.NewServer(r)
	defer srv.Close()

	sid, token, err := svc.NewSession()
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Cookie", "sid="+token)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	read := func() OutgoingMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg OutgoingMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	first := read()
	assert.Equal(t, MessageTypeSnapshot, first.Type)
	assert.Equal(t, sid, first.SessionID)

	select {
	case n := <-observer.last:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("observer was not told about the client")
	}

	events <- models.NewEvent(models.EventTypeLogAppended, "someone-else", "not for us")
	events <- models.NewEvent(models.EventTypeLogAppended, sid, "Extracting engineered features...")

	msg := read()
	assert.Equal(t, MessageTypeLog, msg.Type)
	assert.Equal(t, "Extracting engineered features...", msg.Message)

	require.NoError(t, conn.WriteJSON(IncomingMessage{Type: "ping"}))
	assert.Equal(t, MessageTypePong, read().Type)
}

func TestServeWebSocket_FullHubRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub(&WebSocketSettings{MaxConnections: 1, ClientBuffer: 1}, nil)
	hub.clients[&Client{send: make(chan []byte, 1)}] = true

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionIDKey, "sid")
		c.Next()
	})
	r.GET("/ws", ServeWebSocket(hub, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
