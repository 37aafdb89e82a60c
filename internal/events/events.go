// Package events fans diagnostic activity out to the websocket stream, the
// operator log, the audit store and the alert publisher.
package events

import (
	"sync"
	"sync/atomic"

	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

type EventBus struct {
	subscribers map[models.EventType][]chan *models.Event
	allChans    []chan *models.Event
	mu          sync.RWMutex
	bufferSize  int
	closed      bool
	dropped     atomic.Int64
}

func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &EventBus{
		subscribers: make(map[models.EventType][]chan *models.Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe returns a channel receiving the given event types.
func (b *EventBus) Subscribe(eventTypes ...models.EventType) <-chan *models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *models.Event, b.bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	}
	b.allChans = append(b.allChans, ch)
	return ch
}

func (b *EventBus) SubscribeAll() <-chan *models.Event {
	return b.Subscribe(models.AllEventTypes()...)
}

// Publish never blocks. A full subscriber loses the event.
func (b *EventBus) Publish(event *models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
			logger.WithSession(event.SessionID).Warnf("Event channel full, dropping event: %s", event.Type)
		}
	}
}

func (b *EventBus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, ch := range b.allChans {
		close(ch)
	}
	b.subscribers = make(map[models.EventType][]chan *models.Event)
	b.allChans = nil
}
