package models

import "time"

type RunOutcome string

const (
	RunSucceeded RunOutcome = "succeeded"
	RunFailed    RunOutcome = "failed"
)

// DiagnosticRun is the audit record of one completed submission.
type DiagnosticRun struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"session_id"`
	MachineType MachineType       `json:"machine_type"`
	Request     PredictionRequest `json:"request"`
	Outcome     RunOutcome        `json:"outcome"`
	MaxRisk     *float64          `json:"max_risk,omitempty"`
	Critical    bool              `json:"critical"`
	TopMode     FailureMode       `json:"top_failure_mode,omitempty"`
	Error       string            `json:"error,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	Duration    time.Duration     `json:"duration_ns"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewDiagnosticRun(sessionID string, req PredictionRequest) *DiagnosticRun {
	return &DiagnosticRun{
		ID:          NewUUID(),
		SessionID:   sessionID,
		MachineType: req.MachineType,
		Request:     req,
		StartedAt:   time.Now(),
	}
}

func (r *DiagnosticRun) Succeed(result *PredictionResult) {
	risk := result.MaxRisk
	r.Outcome = RunSucceeded
	r.MaxRisk = &risk
	r.Critical = result.IsCritical()
	r.TopMode, _ = result.TopFailureMode()
	r.Duration = time.Since(r.StartedAt)
}

func (r *DiagnosticRun) Fail(err error) {
	r.Outcome = RunFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.Duration = time.Since(r.StartedAt)
}
