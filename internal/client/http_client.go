package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/OldStager01/sentinel-console/internal/logger"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

const maxResponseBytes = 8 << 20

type HTTPClient struct {
	client   *http.Client
	baseURL  string
	observer Observer
}

type HTTPClientConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Observer Observer
}

func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		observer: cfg.Observer,
	}
}

// predictResponse keeps the required fields nullable so a body missing
// them is rejected instead of read as zero risk.
type predictResponse struct {
	Status             string                         `json:"status"`
	MaxRisk            *float64                       `json:"max_risk"`
	Predictions        map[models.FailureMode]float64 `json:"predictions"`
	Recommendations    []models.Recommendation        `json:"ai_recommendations"`
	Insights           []models.Recommendation        `json:"ai_insights"`
	EngineeredFeatures *models.EngineeredFeatures     `json:"engineered_features"`
	FeatureImportance  []models.FeatureImportance     `json:"feature_importance"`
}

func (c *HTTPClient) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	var resp predictResponse
	if err := c.do(ctx, http.MethodPost, EndpointPredict, req, &resp); err != nil {
		return nil, err
	}

	if resp.MaxRisk == nil || resp.Predictions == nil {
		return nil, fmt.Errorf("%w: prediction missing max_risk or predictions", ErrInvalidResponse)
	}

	result := &models.PredictionResult{
		Status:             resp.Status,
		MaxRisk:            *resp.MaxRisk,
		Predictions:        resp.Predictions,
		Recommendations:    resp.Recommendations,
		Insights:           resp.Insights,
		EngineeredFeatures: resp.EngineeredFeatures,
		FeatureImportance:  resp.FeatureImportance,
	}
	result.Known()

	logger.FromContext(ctx).Debugf("Prediction received, max risk %.1f", result.MaxRisk)
	return result, nil
}

func (c *HTTPClient) FetchHistory(ctx context.Context) (*models.HistoryResponse, error) {
	var resp models.HistoryResponse
	if err := c.do(ctx, http.MethodGet, EndpointHistory, nil, &resp); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debugf("History received, status %q, %d records", resp.Status, len(resp.Data))
	return &resp, nil
}

type chatResponse struct {
	Response *string `json:"response"`
}

func (c *HTTPClient) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, EndpointChat, req, &resp); err != nil {
		return nil, err
	}
	if resp.Response == nil {
		return nil, fmt.Errorf("%w: chat reply missing response", ErrInvalidResponse)
	}
	return &models.ChatResponse{Response: *resp.Response}, nil
}

func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, EndpointHealth, nil, &resp); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if resp.Status != "healthy" {
		return fmt.Errorf("%w: health status %q", ErrInvalidResponse, resp.Status)
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// do sends body as JSON (when non-nil) and decodes a 2xx reply into out.
func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	url := c.baseURL + "/" + endpoint

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrRequestFailed, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(endpoint, 0, start)
		if errors.Is(err, context.Canceled) {
			return err
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
			return fmt.Errorf("%w: %s", ErrTimeout, endpoint)
		}
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	c.observe(endpoint, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrRequestFailed, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func (c *HTTPClient) observe(endpoint string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(endpoint, status, time.Since(start))
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
