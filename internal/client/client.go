// Package client talks to the remote Sentinel inference service.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OldStager01/sentinel-console/pkg/models"
)

var (
	ErrRequestFailed   = errors.New("upstream request failed")
	ErrTimeout         = errors.New("upstream request timeout")
	ErrUpstreamStatus  = errors.New("unexpected upstream status")
	ErrInvalidResponse = errors.New("invalid response from upstream")
)

// StatusError carries the status of a non-2xx response.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrUpstreamStatus, e.Endpoint, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}

// Predictor scores one telemetry sample.
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error)
}

// HistorySource returns the historical dataset.
type HistorySource interface {
	FetchHistory(ctx context.Context) (*models.HistoryResponse, error)
}

// ChatBackend answers one chat message.
type ChatBackend interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// HealthChecker verifies the remote service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Client is everything the console needs from the remote service.
type Client interface {
	Predictor
	HistorySource
	ChatBackend
	HealthChecker
	Close() error
}

// Observer receives one sample per upstream call. status is zero when no
// response arrived.
type Observer interface {
	ObserveUpstream(endpoint string, status int, d time.Duration)
}

const (
	EndpointPredict = "predict"
	EndpointHistory = "history"
	EndpointChat    = "chat"
	EndpointHealth  = "health"
)
