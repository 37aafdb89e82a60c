package events

import (
	"fmt"

	"github.com/OldStager01/sentinel-console/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p == nil || p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) LogAppended(sessionID string, entry models.LogEntry) {
	event := models.NewEvent(models.EventTypeLogAppended, sessionID, entry.Message).
		WithSeverity(models.SeverityForLevel(entry.Level)).
		WithData(entry)
	p.publish(event)
}

func (p *Publisher) DiagnosticStage(sessionID, runID string, stage models.DiagnosticStage) {
	event := models.NewEvent(models.EventTypeDiagnosticStage, sessionID, "Diagnostic stage: "+string(stage)).
		WithData(models.StageData{Stage: stage, RunID: runID})
	if stage == models.StageFailed {
		event.WithSeverity(models.SeverityWarning)
	}
	p.publish(event)
}

func (p *Publisher) ResultReady(sessionID string, result *models.PredictionResult) {
	msg := fmt.Sprintf("Prediction ready, max risk %.1f%%", result.MaxRisk)
	event := models.NewEvent(models.EventTypeResultReady, sessionID, msg).
		WithData(result)
	if result.IsCritical() {
		event.WithSeverity(models.SeverityCritical)
	}
	p.publish(event)
}

func (p *Publisher) RunFinished(run *models.DiagnosticRun) {
	msg := "Diagnostic run " + string(run.Outcome)
	event := models.NewEvent(models.EventTypeRunFinished, run.SessionID, msg).
		WithData(run)
	if run.Outcome == models.RunFailed {
		event.WithSeverity(models.SeverityWarning)
	}
	p.publish(event)
}

func (p *Publisher) ChatTurn(sessionID string, turn models.ChatTurn) {
	event := models.NewEvent(models.EventTypeChatTurn, sessionID, "Chat turn: "+string(turn.Role)).
		WithData(turn)
	p.publish(event)
}

func (p *Publisher) HistoryRefreshed(sessionID string, records int) {
	msg := fmt.Sprintf("History refreshed, %d records", records)
	event := models.NewEvent(models.EventTypeHistoryRefreshed, sessionID, msg).
		WithData(map[string]interface{}{"records": records})
	p.publish(event)
}

func (p *Publisher) Alert(sessionID string, alert models.AlertData) {
	msg := fmt.Sprintf("Critical risk %.1f%% on %s machine", alert.MaxRisk, alert.MachineType.Label())
	event := models.NewEvent(models.EventTypeAlert, sessionID, msg).
		WithSeverity(models.SeverityCritical).
		WithData(alert)
	p.publish(event)
}

func (p *Publisher) Error(sessionID string, message string, err error) {
	event := models.NewEvent(models.EventTypeError, sessionID, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
