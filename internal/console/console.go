// Package console composes the per-session state of the Sentinel page: the
// form, the diagnostic pipeline, the chat transcript and the history table.
package console

import (
	"context"
	"sync"
	"time"

	"github.com/OldStager01/sentinel-console/internal/chat"
	"github.com/OldStager01/sentinel-console/internal/diagnostic"
	"github.com/OldStager01/sentinel-console/internal/history"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

// Console is one browser session. Each state slice has its own lock, so
// concurrent requests from the same browser interleave like UI events.
type Console struct {
	id        string
	createdAt time.Time

	formMu sync.RWMutex
	form   models.FormState

	pipeline *diagnostic.Pipeline
	chat     *chat.Session
	history  *history.Table

	seenMu   sync.Mutex
	lastSeen time.Time
}

// Snapshot is everything the page renders.
type Snapshot struct {
	SessionID   string                   `json:"session_id"`
	Form        models.FormState         `json:"form"`
	Result      *models.PredictionResult `json:"result"`
	Critical    bool                     `json:"critical"`
	Processing  bool                     `json:"processing"`
	Logs        []models.LogEntry        `json:"logs"`
	Transcript  []models.ChatTurn        `json:"transcript"`
	ChatPending bool                     `json:"chat_pending"`
	History     history.View             `json:"history"`
}

func (c *Console) ID() string {
	return c.id
}

func (c *Console) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Console) Form() models.FormState {
	c.formMu.RLock()
	defer c.formMu.RUnlock()
	return c.form
}

// UpdateForm replaces the form. Only the machine type is checked; numeric
// fields stay as typed.
func (c *Console) UpdateForm(form models.FormState) error {
	mt, err := models.ParseMachineType(string(form.MachineType))
	if err != nil {
		return err
	}
	form.MachineType = mt

	c.formMu.Lock()
	c.form = form
	c.formMu.Unlock()
	return nil
}

// Submit runs the diagnostic pipeline on the current form.
func (c *Console) Submit(ctx context.Context) (*models.PredictionResult, error) {
	return c.pipeline.Submit(ctx, c.Form())
}

// SendChat forwards a message with the current form as context.
func (c *Console) SendChat(ctx context.Context, message string) (models.ChatTurn, error) {
	return c.chat.Send(ctx, message, c.Form())
}

func (c *Console) Pipeline() *diagnostic.Pipeline {
	return c.pipeline
}

func (c *Console) Chat() *chat.Session {
	return c.chat
}

func (c *Console) History() *history.Table {
	return c.history
}

func (c *Console) Snapshot() Snapshot {
	return Snapshot{
		SessionID:   c.id,
		Form:        c.Form(),
		Result:      c.pipeline.Result(),
		Critical:    c.pipeline.IsCritical(),
		Processing:  c.pipeline.Processing(),
		Logs:        c.pipeline.Logs(),
		Transcript:  c.chat.Transcript(),
		ChatPending: c.chat.Pending(),
		History:     c.history.View(),
	}
}

func (c *Console) touch(now time.Time) {
	c.seenMu.Lock()
	c.lastSeen = now
	c.seenMu.Unlock()
}

func (c *Console) LastSeen() time.Time {
	c.seenMu.Lock()
	defer c.seenMu.Unlock()
	return c.lastSeen
}

// busy reports whether a diagnostic or chat exchange is still running.
func (c *Console) busy() bool {
	return c.pipeline.Processing() || c.chat.Pending()
}
