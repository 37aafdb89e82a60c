package chat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sentinel-console/internal/chat"
	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/events"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

func newSession(backend client.ChatBackend) *chat.Session {
	return chat.NewSession(chat.SessionConfig{SessionID: "s1", Backend: backend})
}

func TestSession_Greeting(t *testing.T) {
	s := newSession(client.NewMockClient())

	transcript := s.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, models.RoleAssistant, transcript[0].Role)
	assert.Equal(t, chat.Greeting, transcript[0].Content)
}

func TestSession_SendSuccess(t *testing.T) {
	mock := client.NewMockClient()
	mock.Reply = "Tool wear is approaching the replacement window."
	bus := events.NewEventBus(10)
	defer bus.Close()
	turns := bus.Subscribe(models.EventTypeChatTurn)
	s := chat.NewSession(chat.SessionConfig{SessionID: "s1", Backend: mock, Publisher: events.NewPublisher(bus)})

	stats := models.DefaultFormState()
	stats.Torque = "40"
	turn, err := s.Send(context.Background(), "  How is my tool?  ", stats)

	require.NoError(t, err)
	assert.Equal(t, mock.Reply, turn.Content)

	transcript := s.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, models.RoleUser, transcript[1].Role)
	assert.Equal(t, "How is my tool?", transcript[1].Content)
	assert.Equal(t, models.RoleAssistant, transcript[2].Role)
	assert.Equal(t, mock.Reply, transcript[2].Content)

	require.Len(t, mock.ChatRequests, 1)
	assert.Equal(t, "How is my tool?", mock.ChatRequests[0].Message)
	assert.Equal(t, "40", mock.ChatRequests[0].CurrentStats.Torque)

	assert.Len(t, turns, 2)
}

func TestSession_SendFailureAppendsFallback(t *testing.T) {
	mock := client.NewMockClient()
	mock.ChatErr = client.ErrUpstreamStatus
	s := newSession(mock)

	turn, err := s.Send(context.Background(), "status?", models.DefaultFormState())

	require.NoError(t, err)
	assert.Equal(t, chat.Fallback, turn.Content)
	transcript := s.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, "Neural sync failed. Backend offline.", transcript[2].Content)
	assert.NotContains(t, transcript[2].Content, "status")
}

func TestSession_BlankMessageIsNoop(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{name: "empty", message: ""},
		{name: "spaces", message: "   "},
		{name: "newlines and tabs", message: "\n\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := client.NewMockClient()
			s := newSession(mock)

			_, err := s.Send(context.Background(), tt.message, models.DefaultFormState())

			assert.ErrorIs(t, err, chat.ErrBlankMessage)
			assert.Len(t, s.Transcript(), 1)
			assert.Zero(t, mock.ChatCount())
		})
	}
}

func TestSession_BusyIsNoop(t *testing.T) {
	mock := client.NewMockClient()
	entered := make(chan struct{})
	release := make(chan struct{})
	mock.ChatFunc = func(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
		close(entered)
		<-release
		return &models.ChatResponse{Response: "ok"}, nil
	}
	s := newSession(mock)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Send(context.Background(), "first", models.DefaultFormState())
	}()
	<-entered

	assert.True(t, s.Pending())
	_, err := s.Send(context.Background(), "second", models.DefaultFormState())
	assert.ErrorIs(t, err, chat.ErrBusy)

	close(release)
	<-done

	transcript := s.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, "first", transcript[1].Content)
	assert.Equal(t, "ok", transcript[2].Content)
	assert.Equal(t, 1, mock.ChatCount())
}
