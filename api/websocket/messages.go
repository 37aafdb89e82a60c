package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/sentinel-console/internal/logger"
)

type MessageType string

const (
	MessageTypeSnapshot MessageType = "snapshot"
	MessageTypeLog      MessageType = "log"
	MessageTypeStage    MessageType = "stage"
	MessageTypeResult   MessageType = "result"
	MessageTypeRun      MessageType = "run_finished"
	MessageTypeChat     MessageType = "chat"
	MessageTypeHistory  MessageType = "history"
	MessageTypeAlert    MessageType = "alert"
	MessageTypeError    MessageType = "error"
	MessageTypePong     MessageType = "pong"
)

// OutgoingMessage is the envelope of every frame sent to the browser.
type OutgoingMessage struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  string      `json:"severity,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func NewMessage(msgType MessageType, sessionID string, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		logger.Errorf("Failed to marshal websocket message: %v", err)
		return nil
	}
	return data
}

// IncomingMessage is what the browser may send. Only "ping" and
// "snapshot" are understood.
type IncomingMessage struct {
	Type string `json:"type"`
}
