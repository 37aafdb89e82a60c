package simulator_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/simulator"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

func startSimulator(t *testing.T) (*simulator.Simulator, *httptest.Server, *client.HTTPClient) {
	t.Helper()
	sim := simulator.New(simulator.Config{})
	srv := httptest.NewServer(sim.Handler())
	t.Cleanup(srv.Close)
	c := client.NewHTTPClient(client.HTTPClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	return sim, srv, c
}

func TestSimulator_ServesClientContract(t *testing.T) {
	_, _, c := startSimulator(t)
	ctx := context.Background()

	require.NoError(t, c.HealthCheck(ctx))

	result, err := c.Predict(ctx, request(models.MachineTypeLow, 1500, 40, 310, 300, 220))
	require.NoError(t, err)
	assert.True(t, result.IsCritical())
	assert.Len(t, result.Predictions, 5)
	assert.NotEmpty(t, result.Recommendations)
	assert.NotEmpty(t, result.FeatureImportance)

	history, err := c.FetchHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.HistoryStatusSuccess, history.Status)
	assert.Len(t, history.Data, simulator.DefaultRows)

	reply, err := c.Chat(ctx, models.ChatRequest{Message: "How is power computed?"})
	require.NoError(t, err)
	assert.Contains(t, reply.Response, "Power (W)")
}

func TestSimulator_InjectedFault(t *testing.T) {
	sim, srv, c := startSimulator(t)
	ctx := context.Background()

	sim.InjectFault("predict", http.StatusServiceUnavailable, time.Minute)

	_, err := c.Predict(ctx, request(models.MachineTypeLow, 1500, 40, 310, 300, 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrUpstreamStatus)

	// Other endpoints are unaffected.
	require.NoError(t, c.HealthCheck(ctx))

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/faults", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = c.Predict(ctx, request(models.MachineTypeLow, 1500, 40, 310, 300, 10))
	assert.NoError(t, err)
}

func TestSimulator_FaultsEndpoint(t *testing.T) {
	_, srv, c := startSimulator(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "valid", body: `{"endpoint":"health","status":500,"duration":"1m"}`, status: http.StatusCreated},
		{name: "unknown endpoint", body: `{"endpoint":"metrics"}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/faults", "application/json", bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestSimulator_FaultExpires(t *testing.T) {
	sim, _, c := startSimulator(t)
	sim.InjectFault("history", http.StatusBadGateway, 20*time.Millisecond)

	_, err := c.FetchHistory(context.Background())
	require.Error(t, err)

	assert.Eventually(t, func() bool {
		_, err := c.FetchHistory(context.Background())
		return err == nil
	}, 2*time.Second, 25*time.Millisecond)
}

func TestSimulator_PredictRejectsNull(t *testing.T) {
	_, srv, _ := startSimulator(t)

	body := `{"machine_type":"L","rotational_speed":null,"torque":40,"proc_temperature":310,"air_temperature":300,"tool_wear":0}`
	resp, err := http.Post(srv.URL+"/predict", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestReply(t *testing.T) {
	ready := models.DefaultFormState()
	ready.RotationalSpeed = "1500"
	ready.Torque = "40"
	ready.ProcTempC = "36"

	tests := []struct {
		name     string
		req      models.ChatRequest
		contains string
	}{
		{name: "formula", req: models.ChatRequest{Message: "What's the POWER formula?"}, contains: "Torque(Nm)"},
		{name: "heat", req: models.ChatRequest{Message: "running hot"}, contains: "8.6K"},
		{name: "off topic", req: models.ChatRequest{Message: "who won the cup final"}, contains: "hardware diagnostics only"},
		{name: "status without telemetry", req: models.ChatRequest{Message: "machine status?", CurrentStats: models.DefaultFormState()}, contains: "No active machine telemetry"},
		{name: "status with telemetry", req: models.ChatRequest{Message: "machine status?", CurrentStats: ready}, contains: "Standard unit at 1500 RPM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, simulator.Reply(tt.req), tt.contains)
		})
	}
}
