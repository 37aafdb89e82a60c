// Package chat keeps one console's conversation with the remote assistant.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/events"
	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

const (
	Greeting = "Mnemonic link established. I am Sentinel AI. How can I assist with your hardware diagnostics today?"
	Fallback = "Neural sync failed. Backend offline."
)

var (
	ErrBlankMessage = errors.New("chat message is blank")
	ErrBusy         = errors.New("chat reply pending")
)

type Observer interface {
	IncChat(outcome string)
}

// Session is an append-only transcript. One exchange runs at a time.
type Session struct {
	sessionID string
	backend   client.ChatBackend
	publisher *events.Publisher
	observer  Observer

	mu         sync.RWMutex
	transcript []models.ChatTurn
	pending    bool
}

type SessionConfig struct {
	SessionID string
	Backend   client.ChatBackend
	Publisher *events.Publisher
	Observer  Observer
}

func NewSession(cfg SessionConfig) *Session {
	return &Session{
		sessionID: cfg.SessionID,
		backend:   cfg.Backend,
		publisher: cfg.Publisher,
		observer:  cfg.Observer,
		transcript: []models.ChatTurn{
			{Role: models.RoleAssistant, Content: Greeting, Timestamp: time.Now()},
		},
	}
}

// Send appends the trimmed message as a user turn, forwards it with the
// form snapshot and appends the reply. A failed call appends Fallback
// instead; the cause is only logged. Blank messages and messages sent while
// a reply is pending leave the transcript untouched.
func (s *Session) Send(ctx context.Context, message string, stats models.FormState) (models.ChatTurn, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return models.ChatTurn{}, ErrBlankMessage
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return models.ChatTurn{}, ErrBusy
	}
	s.pending = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pending = false
		s.mu.Unlock()
	}()

	s.append(models.RoleUser, text)

	outcome := "success"
	reply := Fallback
	resp, err := s.backend.Chat(ctx, models.ChatRequest{Message: text, CurrentStats: stats})
	if err != nil {
		outcome = "fallback"
		logger.FromContext(ctx).WithError(err).Warn("Chat request failed")
	} else {
		reply = resp.Response
	}

	if s.observer != nil {
		s.observer.IncChat(outcome)
	}
	return s.append(models.RoleAssistant, reply), nil
}

func (s *Session) append(role models.ChatRole, content string) models.ChatTurn {
	turn := models.ChatTurn{Role: role, Content: content, Timestamp: time.Now()}

	s.mu.Lock()
	s.transcript = append(s.transcript, turn)
	s.mu.Unlock()

	s.publisher.ChatTurn(s.sessionID, turn)
	return turn
}

// Transcript returns a copy in send order.
func (s *Session) Transcript() []models.ChatTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ChatTurn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}
