package client

import (
	"context"
	"time"

	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/internal/resilience"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

// ResilientClient puts a circuit breaker and optional retries in front of
// another Client. Health checks bypass both so readiness reflects the
// remote service directly.
type ResilientClient struct {
	client         Client
	circuitBreaker *resilience.CircuitBreaker
	retry          resilience.RetryConfig
}

type ResilientClientConfig struct {
	Client        Client
	MaxFailures   int
	Timeout       time.Duration
	HalfOpenMax   int
	RetryAttempts int
	RetryDelay    time.Duration
	OnStateChange func(name string, from, to resilience.State)
}

func NewResilientClient(cfg ResilientClientConfig) *ResilientClient {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:          "upstream",
		MaxFailures:   cfg.MaxFailures,
		Timeout:       cfg.Timeout,
		HalfOpenMax:   cfg.HalfOpenMax,
		OnStateChange: cfg.OnStateChange,
	})

	return &ResilientClient{
		client:         cfg.Client,
		circuitBreaker: cb,
		retry: resilience.RetryConfig{
			Attempts: cfg.RetryAttempts,
			Delay:    cfg.RetryDelay,
			MaxDelay: 5 * cfg.RetryDelay,
		},
	}
}

func (c *ResilientClient) call(ctx context.Context, endpoint string, fn func(ctx context.Context) error) error {
	attempt := 0
	return resilience.Retry(ctx, c.retry, func(ctx context.Context) error {
		attempt++
		err := c.circuitBreaker.ExecuteContext(ctx, fn)
		if err != nil && attempt < c.retry.Attempts {
			logger.FromContext(ctx).Warnf("Upstream %s attempt %d/%d failed: %v",
				endpoint, attempt, c.retry.Attempts, err)
		}
		return err
	})
}

func (c *ResilientClient) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	var result *models.PredictionResult
	err := c.call(ctx, EndpointPredict, func(ctx context.Context) error {
		var err error
		result, err = c.client.Predict(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *ResilientClient) FetchHistory(ctx context.Context) (*models.HistoryResponse, error) {
	var resp *models.HistoryResponse
	err := c.call(ctx, EndpointHistory, func(ctx context.Context) error {
		var err error
		resp, err = c.client.FetchHistory(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *ResilientClient) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp *models.ChatResponse
	err := c.call(ctx, EndpointChat, func(ctx context.Context) error {
		var err error
		resp, err = c.client.Chat(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *ResilientClient) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}

func (c *ResilientClient) Close() error {
	return c.client.Close()
}

func (c *ResilientClient) CircuitState() resilience.State {
	return c.circuitBreaker.State()
}

func (c *ResilientClient) CircuitStats() resilience.Stats {
	return c.circuitBreaker.Stats()
}

func (c *ResilientClient) ResetCircuit() {
	c.circuitBreaker.Reset()
}
