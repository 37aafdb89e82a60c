package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

// RunRecorder persists finished diagnostic runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *models.DiagnosticRun) error
}

// EventLogger mirrors bus traffic to the operator log and hands finished
// runs to the recorder, when one is configured.
type EventLogger struct {
	recorder  RunRecorder
	eventChan <-chan *models.Event
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewEventLogger(recorder RunRecorder, eventChan <-chan *models.Event) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		recorder:  recorder,
		eventChan: eventChan,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

func (l *EventLogger) Start() {
	go l.run()
}

func (l *EventLogger) Stop() {
	l.cancel()
	<-l.done
}

func (l *EventLogger) run() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"session_id": event.SessionID,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Debug(event.Message)
	}

	if event.Type == models.EventTypeRunFinished {
		l.persistRun(event)
	}
}

func (l *EventLogger) persistRun(event *models.Event) {
	if l.recorder == nil {
		return
	}
	run, ok := event.Data.(*models.DiagnosticRun)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(l.ctx, 5*time.Second)
	defer cancel()

	if err := l.recorder.RecordRun(ctx, run); err != nil {
		logger.WithSession(run.SessionID).Errorf("Failed to persist diagnostic run %s: %v", run.ID, err)
	}
}

func (l *EventLogger) LogToJSON(event *models.Event) string {
	data, _ := json.Marshal(event)
	return string(data)
}
