package client

import (
	"context"
	"sync"

	"github.com/OldStager01/sentinel-console/pkg/models"
)

// MockClient returns canned replies. Funcs, when set, take precedence over
// the fixed values and errors.
type MockClient struct {
	mu sync.Mutex

	Result      *models.PredictionResult
	PredictErr  error
	PredictFunc func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error)

	History     *models.HistoryResponse
	HistoryErr  error
	HistoryFunc func(ctx context.Context) (*models.HistoryResponse, error)

	Reply    string
	ChatErr  error
	ChatFunc func(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)

	HealthErr error

	PredictRequests []models.PredictionRequest
	ChatRequests    []models.ChatRequest
	HistoryCalls    int
}

func NewMockClient() *MockClient {
	return &MockClient{
		Result: &models.PredictionResult{
			MaxRisk: 12.5,
			Predictions: map[models.FailureMode]float64{
				models.FailureToolWear:        12.5,
				models.FailureHeatDissipation: 3.1,
				models.FailurePower:           1.2,
				models.FailureOverstrain:      0.8,
				models.FailureRandom:          0.1,
			},
			Recommendations: []models.Recommendation{
				{EN: "All systems nominal. Continue standard monitoring.", UR: "تمام نظام معمول کے مطابق ہیں۔"},
			},
		},
		History: &models.HistoryResponse{Status: models.HistoryStatusSuccess},
		Reply:   "Telemetry within nominal envelope.",
	}
}

func (c *MockClient) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	c.mu.Lock()
	c.PredictRequests = append(c.PredictRequests, req)
	fn, result, err := c.PredictFunc, c.Result, c.PredictErr
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	copied := *result
	return &copied, nil
}

func (c *MockClient) FetchHistory(ctx context.Context) (*models.HistoryResponse, error) {
	c.mu.Lock()
	c.HistoryCalls++
	fn, history, err := c.HistoryFunc, c.History, c.HistoryErr
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (c *MockClient) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	c.mu.Lock()
	c.ChatRequests = append(c.ChatRequests, req)
	fn, reply, err := c.ChatFunc, c.Reply, c.ChatErr
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	return &models.ChatResponse{Response: reply}, nil
}

func (c *MockClient) HealthCheck(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.HealthErr
}

func (c *MockClient) Close() error {
	return nil
}

func (c *MockClient) PredictCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.PredictRequests)
}

func (c *MockClient) ChatCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ChatRequests)
}

func (c *MockClient) HistoryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.HistoryCalls
}
