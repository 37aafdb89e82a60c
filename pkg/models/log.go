package models

import "time"

type LogLevel string

const (
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "err"
)

// LogEntry is one line of the diagnostic log panel.
type LogEntry struct {
	Message   string    `json:"msg"`
	Level     LogLevel  `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLogEntry(level LogLevel, message string) LogEntry {
	return LogEntry{
		Message:   message,
		Level:     level,
		Timestamp: time.Now(),
	}
}
