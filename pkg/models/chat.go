package models

import "time"

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatTurn struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the body posted to the chat endpoint. CurrentStats carries
// the form as typed, so the assistant sees what the operator sees.
type ChatRequest struct {
	Message      string    `json:"message"`
	CurrentStats FormState `json:"current_stats"`
}

type ChatResponse struct {
	Response string `json:"response"`
}
