// Package alerts forwards critical diagnostic results to an MQTT broker.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

// DefaultTopic routes alerts by machine type.
const DefaultTopic = "sentinel/alerts/{machine_type}"

type PublisherConfig struct {
	Topic string
	QoS   byte
}

// Publisher drains alert events and publishes them to the sink.
type Publisher struct {
	sink   Sink
	topic  string
	qos    byte
	events <-chan *models.Event

	published atomic.Int64
	failed    atomic.Int64
}

func NewPublisher(sink Sink, cfg PublisherConfig, events <-chan *models.Event) *Publisher {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		sink:   sink,
		topic:  topic,
		qos:    cfg.QoS,
		events: events,
	}
}

// Start runs until ctx is done or the event channel closes.
func (p *Publisher) Start(ctx context.Context) {
	logger.WithField("topic", p.topic).Info("Alert publisher started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Alert publisher stopped")
			return
		case event, ok := <-p.events:
			if !ok {
				logger.Info("Alert channel closed, publisher stopping")
				return
			}
			if err := p.Handle(event); err != nil {
				p.failed.Add(1)
				logger.WithSession(event.SessionID).Errorf("Failed to publish alert: %v", err)
			}
		}
	}
}

// Handle publishes one event. Events that are not alerts are ignored.
func (p *Publisher) Handle(event *models.Event) error {
	if event == nil || event.Type != models.EventTypeAlert {
		return nil
	}

	var alert models.AlertData
	switch d := event.Data.(type) {
	case models.AlertData:
		alert = d
	case *models.AlertData:
		if d == nil {
			return fmt.Errorf("alert event %s has no payload", event.ID)
		}
		alert = *d
	default:
		return fmt.Errorf("alert event %s has payload %T", event.ID, event.Data)
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	topic := FormatTopic(p.topic, alert)
	if err := p.sink.Publish(topic, p.qos, payload); err != nil {
		return err
	}

	p.published.Add(1)
	logger.WithSession(alert.SessionID).
		WithField("topic", topic).
		Infof("Published critical alert (risk %.1f%%)", alert.MaxRisk)
	return nil
}

func (p *Publisher) Published() int64 { return p.published.Load() }
func (p *Publisher) Failed() int64    { return p.failed.Load() }

// FormatTopic fills {machine_type} and {session_id} placeholders.
func FormatTopic(pattern string, alert models.AlertData) string {
	r := strings.NewReplacer(
		"{machine_type}", string(alert.MachineType),
		"{session_id}", alert.SessionID,
	)
	return r.Replace(pattern)
}
