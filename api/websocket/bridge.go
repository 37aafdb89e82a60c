package websocket

import (
	"context"
	"sync"

	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

// EventBridge forwards session-scoped bus events to that session's clients.
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *EventBridge) Start() {
	b.wg.Add(1)
	go b.run()
	logger.Info("WebSocket event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	b.wg.Wait()
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	msg := convertToWSMessage(event)
	if msg == nil {
		return
	}
	if data := msg.JSON(); data != nil {
		b.hub.BroadcastToSession(event.SessionID, data)
	}
}

func convertToWSMessage(event *models.Event) *OutgoingMessage {
	if event == nil || event.SessionID == "" {
		return nil
	}
	msgType := mapEventType(event.Type)
	if msgType == "" {
		return nil
	}

	return &OutgoingMessage{
		Type:      msgType,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		Severity:  string(event.Severity),
		Message:   event.Message,
		Data:      event.Data,
	}
}

func mapEventType(eventType models.EventType) MessageType {
	switch eventType {
	case models.EventTypeLogAppended:
		return MessageTypeLog
	case models.EventTypeDiagnosticStage:
		return MessageTypeStage
	case models.EventTypeResultReady:
		return MessageTypeResult
	case models.EventTypeRunFinished:
		return MessageTypeRun
	case models.EventTypeChatTurn:
		return MessageTypeChat
	case models.EventTypeHistoryRefreshed:
		return MessageTypeHistory
	case models.EventTypeAlert:
		return MessageTypeAlert
	case models.EventTypeError:
		return MessageTypeError
	default:
		return ""
	}
}
