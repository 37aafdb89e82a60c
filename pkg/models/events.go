package models

import "time"

type EventType string

const (
	EventTypeLogAppended      EventType = "log_appended"
	EventTypeDiagnosticStage  EventType = "diagnostic_stage"
	EventTypeResultReady      EventType = "result_ready"
	EventTypeRunFinished      EventType = "run_finished"
	EventTypeChatTurn         EventType = "chat_turn"
	EventTypeHistoryRefreshed EventType = "history_refreshed"
	EventTypeAlert            EventType = "alert"
	EventTypeError            EventType = "error"
)

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// DiagnosticStage names a step of a diagnostic run.
type DiagnosticStage string

const (
	StageIngest    DiagnosticStage = "ingest"
	StageFeatures  DiagnosticStage = "features"
	StageInference DiagnosticStage = "inference"
	StageComplete  DiagnosticStage = "complete"
	StageFailed    DiagnosticStage = "failed"
)

// Event is an internal notification scoped to one console session.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	SessionID string        `json:"session_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	TraceID   string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, sessionID, message string) *Event {
	return &Event{
		ID:        NewUUID(),
		Type:      eventType,
		Severity:  SeverityInfo,
		SessionID: sessionID,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}

// SeverityForLevel maps a log level to the event severity used on the bus.
func SeverityForLevel(level LogLevel) EventSeverity {
	switch level {
	case LogWarn:
		return SeverityWarning
	case LogError:
		return SeverityCritical
	default:
		return SeverityInfo
	}
}

// AllEventTypes lists every type the bus carries.
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeLogAppended,
		EventTypeDiagnosticStage,
		EventTypeResultReady,
		EventTypeRunFinished,
		EventTypeChatTurn,
		EventTypeHistoryRefreshed,
		EventTypeAlert,
		EventTypeError,
	}
}

// StageData is the payload of a diagnostic_stage event.
type StageData struct {
	Stage DiagnosticStage `json:"stage"`
	RunID string          `json:"run_id"`
}

// AlertData is the payload of a critical-risk alert.
type AlertData struct {
	SessionID   string      `json:"session_id"`
	RunID       string      `json:"run_id"`
	MachineType MachineType `json:"machine_type"`
	MaxRisk     float64     `json:"max_risk"`
	TopMode     FailureMode `json:"top_failure_mode"`
	TopScore    float64     `json:"top_failure_score"`
	Timestamp   time.Time   `json:"timestamp"`
}
