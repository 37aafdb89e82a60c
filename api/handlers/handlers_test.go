package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sentinel-console/api/handlers"
	"github.com/OldStager01/sentinel-console/api/middleware"
	"github.com/OldStager01/sentinel-console/api/web"
	"github.com/OldStager01/sentinel-console/internal/chat"
	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/console"
	"github.com/OldStager01/sentinel-console/internal/diagnostic"
	"github.com/OldStager01/sentinel-console/internal/metrics"
	"github.com/OldStager01/sentinel-console/internal/resilience"
	"github.com/OldStager01/sentinel-console/pkg/database/queries"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

const testSession = "7f9c24e5-2b8a-4c61-9d3e-5a1f0b6c8d42"

func init() {
	gin.SetMode(gin.TestMode)
}

func historyRecords(n int) []models.HistoryRecord {
	out := make([]models.HistoryRecord, n)
	for i := range out {
		machine := "L"
		if i%5 == 0 {
			machine = "H"
		}
		out[i] = models.HistoryRecord{
			models.FieldUDI:             float64(i + 1),
			models.FieldType:            machine,
			models.FieldRotationalSpeed: 1500.0,
			models.FieldTarget:          0.0,
		}
	}
	return out
}

func newManager(t *testing.T, mock *client.MockClient) *console.Manager {
	t.Helper()
	m := console.NewManager(console.ManagerConfig{
		Config: console.Config{
			Diagnostic: diagnostic.Config{LogCapacity: 16},
			PageSize:   10,
		},
		Client:   mock,
		Observer: metrics.New(),
	})
	m.Start()
	t.Cleanup(m.Stop)
	return m
}

// withSession stands in for the session cookie middleware.
func withSession(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.SessionIDKey, id)
		c.Next()
	}
}

func newRouter(t *testing.T, mock *client.MockClient) (*gin.Engine, *console.Manager) {
	t.Helper()
	m := newManager(t, mock)
	timeouts := handlers.DefaultTimeouts()

	form := handlers.NewFormHandler(m)
	diag := handlers.NewDiagnosticHandler(m, timeouts)
	hist := handlers.NewHistoryHandler(m, timeouts)
	chatH := handlers.NewChatHandler(m, timeouts, 50)

	r := gin.New()
	r.Use(withSession(testSession))
	r.POST("/diagnostics", diag.SubmitForm)
	r.POST("/history/search", hist.SearchForm)
	r.POST("/history/page", hist.PageForm)
	r.POST("/history/refresh", hist.RefreshForm)
	r.POST("/chat", chatH.SendForm)

	v1 := r.Group("/api/v1")
	v1.GET("/form", form.Get)
	v1.PUT("/form", form.Update)
	v1.POST("/diagnostics", diag.Submit)
	v1.GET("/diagnostics/result", diag.Result)
	v1.GET("/diagnostics/logs", diag.Logs)
	v1.GET("/history", hist.Get)
	v1.POST("/history/search", hist.Search)
	v1.POST("/history/page", hist.Page)
	v1.POST("/history/refresh", hist.Refresh)
	v1.GET("/chat", chatH.Transcript)
	v1.POST("/chat", chatH.Send)
	return r, m
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(r http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func completeForm() map[string]interface{} {
	return map[string]interface{}{
		"machine_type":     "M",
		"rotational_speed": "1500",
		"torque":           "40",
		"proc_temp_c":      "36",
		"air_temp_c":       24,
		"tool_wear":        12,
	}
}

func TestFormHandler(t *testing.T) {
	r, _ := newRouter(t, client.NewMockClient())

	w := doJSON(r, http.MethodGet, "/api/v1/form", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var form models.FormState
	decode(t, w, &form)
	assert.Equal(t, models.DefaultFormState(), form)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		check      func(t *testing.T, f models.FormState)
	}{
		{
			name:       "partial update keeps other fields",
			body:       map[string]interface{}{"torque": "41.5"},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f models.FormState) {
				assert.Equal(t, "41.5", f.Torque)
				assert.Equal(t, models.MachineTypeLow, f.MachineType)
				assert.Equal(t, models.DefaultAirTempC, f.AirTempC)
			},
		},
		{
			name:       "machine type is normalized",
			body:       map[string]interface{}{"machine_type": "h", "tool_wear": 90},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f models.FormState) {
				assert.Equal(t, models.MachineTypeHigh, f.MachineType)
				assert.Equal(t, 90.0, f.ToolWear)
				assert.Equal(t, "41.5", f.Torque)
			},
		},
		{
			name:       "unknown machine type",
			body:       map[string]interface{}{"machine_type": "Q"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "oversized field",
			body:       map[string]interface{}{"rotational_speed": strings.Repeat("9", 500)},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPut, "/api/v1/form", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.check != nil {
				var f models.FormState
				decode(t, w, &f)
				tt.check(t, f)
			}
		})
	}
}

func TestDiagnosticHandler_Submit(t *testing.T) {
	tests := []struct {
		name       string
		predictErr error
		body       map[string]interface{}
		wantStatus int
		wantResult bool
	}{
		{name: "success", body: completeForm(), wantStatus: http.StatusOK, wantResult: true},
		{name: "incomplete form", wantStatus: http.StatusBadRequest},
		{name: "upstream status", predictErr: client.ErrUpstreamStatus, body: completeForm(), wantStatus: http.StatusBadGateway},
		{name: "upstream timeout", predictErr: client.ErrTimeout, body: completeForm(), wantStatus: http.StatusGatewayTimeout},
		{name: "circuit open", predictErr: resilience.ErrCircuitOpen, body: completeForm(), wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := client.NewMockClient()
			mock.PredictErr = tt.predictErr
			r, _ := newRouter(t, mock)

			w := doJSON(r, http.MethodPost, "/api/v1/diagnostics", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.body == nil {
				var resp handlers.ErrorResponse
				decode(t, w, &resp)
				assert.Equal(t, []string{"rotational_speed", "torque", "proc_temp_c"}, resp.Missing)
				assert.Equal(t, 0, mock.PredictCount())
				return
			}

			var resp handlers.ResultResponse
			decode(t, w, &resp)
			assert.False(t, resp.Processing)
			assert.NotEmpty(t, resp.Logs)
			if tt.wantResult {
				require.NotNil(t, resp.Result)
				require.NotNil(t, resp.Health)
				assert.Equal(t, 12.5, resp.Result.MaxRisk)
				assert.False(t, resp.Critical)
			} else {
				assert.Nil(t, resp.Result)
				assert.Nil(t, resp.Health)
			}
		})
	}
}

func TestDiagnosticHandler_ResultAndLogs(t *testing.T) {
	r, _ := newRouter(t, client.NewMockClient())

	w := doJSON(r, http.MethodGet, "/api/v1/diagnostics/result", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var before handlers.ResultResponse
	decode(t, w, &before)
	assert.Nil(t, before.Result)
	assert.Empty(t, before.Logs)

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/v1/diagnostics", completeForm()).Code)

	w = doJSON(r, http.MethodGet, "/api/v1/diagnostics/result", nil)
	var after handlers.ResultResponse
	decode(t, w, &after)
	require.NotNil(t, after.Result)

	w = doJSON(r, http.MethodGet, "/api/v1/diagnostics/logs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs struct {
		Logs  []models.LogEntry `json:"logs"`
		Count int               `json:"count"`
	}
	decode(t, w, &logs)
	assert.Equal(t, len(logs.Logs), logs.Count)
	assert.LessOrEqual(t, logs.Count, 16)
}

func TestDiagnosticHandler_SubmitForm(t *testing.T) {
	tests := []struct {
		name         string
		values       url.Values
		wantLocation string
	}{
		{
			name: "complete form",
			values: url.Values{
				"machine_type":     {"L"},
				"rotational_speed": {"1500"},
				"torque":           {"40"},
				"proc_temp_c":      {"36"},
				"air_temp_c":       {"25"},
				"tool_wear":        {"0"},
			},
			wantLocation: "/#checker",
		},
		{
			name:         "incomplete form",
			values:       url.Values{"machine_type": {"L"}},
			wantLocation: "/?notice=" + handlers.NoticeIncompleteForm + "#checker",
		},
		{
			name:         "invalid machine type",
			values:       url.Values{"machine_type": {"X"}},
			wantLocation: "/?notice=" + handlers.NoticeInvalidForm + "#checker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRouter(t, client.NewMockClient())
			w := doForm(r, "/diagnostics", tt.values)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
		})
	}
}

func TestHistoryHandler(t *testing.T) {
	mock := client.NewMockClient()
	mock.History = &models.HistoryResponse{Status: models.HistoryStatusSuccess, Data: historyRecords(25)}
	r, _ := newRouter(t, mock)

	w := doJSON(r, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page handlers.HistoryResponse
	decode(t, w, &page)
	assert.Equal(t, 25, page.TotalCount)
	assert.Len(t, page.Rows, 10)
	assert.Equal(t, "Showing 10 of 25 records", page.Summary)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)

	// A second read does not refetch.
	doJSON(r, http.MethodGet, "/api/v1/history", nil)
	assert.Equal(t, 1, mock.HistoryCount())

	t.Run("page actions", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/history/page", handlers.PageRequest{Action: "next"})
		require.Equal(t, http.StatusOK, w.Code)
		var v handlers.HistoryResponse
		decode(t, w, &v)
		assert.Equal(t, 1, v.Page)

		w = doJSON(r, http.MethodPost, "/api/v1/history/page", handlers.PageRequest{Action: "set", Page: 99})
		decode(t, w, &v)
		assert.Equal(t, 2, v.Page)
		assert.Len(t, v.Rows, 5)
		assert.False(t, v.HasNext)

		w = doJSON(r, http.MethodPost, "/api/v1/history/page", handlers.PageRequest{Action: "jump"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("search resets page", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/api/v1/history/search", handlers.SearchRequest{Term: "h"})
		require.Equal(t, http.StatusOK, w.Code)
		var v handlers.HistoryResponse
		decode(t, w, &v)
		assert.Equal(t, 0, v.Page)
		assert.Equal(t, 5, v.FilteredCount)
		assert.Equal(t, "h", v.Term)
	})

	t.Run("refresh failure keeps cached rows", func(t *testing.T) {
		mock.HistoryErr = client.ErrUpstreamStatus
		w := doJSON(r, http.MethodPost, "/api/v1/history/refresh", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)

		var body struct {
			Error string                   `json:"error"`
			View  handlers.HistoryResponse `json:"view"`
		}
		decode(t, w, &body)
		assert.NotEmpty(t, body.Error)
		assert.Equal(t, 25, body.View.TotalCount)
		assert.False(t, body.View.Loading)
	})

	t.Run("refresh succeeds", func(t *testing.T) {
		mock.HistoryErr = nil
		mock.History = &models.HistoryResponse{Status: models.HistoryStatusSuccess, Data: historyRecords(3)}
		w := doJSON(r, http.MethodPost, "/api/v1/history/refresh", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var v handlers.HistoryResponse
		decode(t, w, &v)
		assert.Equal(t, 3, v.TotalCount)
	})
}

func TestHistoryHandler_Forms(t *testing.T) {
	mock := client.NewMockClient()
	mock.History = &models.HistoryResponse{Status: models.HistoryStatusSuccess, Data: historyRecords(25)}
	r, m := newRouter(t, mock)
	table := m.Get(testSession).History()
	table.EnsureLoaded(context.Background())

	w := doForm(r, "/history/page", url.Values{"action": {"next"}})
	assert.Equal(t, "/#dataset", w.Header().Get("Location"))
	assert.Equal(t, 1, table.View().Page)

	w = doForm(r, "/history/search", url.Values{"term": {strings.Repeat("x", 1000)}})
	assert.Equal(t, "/?notice="+handlers.NoticeInvalidSearch+"#dataset", w.Header().Get("Location"))

	w = doForm(r, "/history/search", url.Values{"term": {"H"}})
	assert.Equal(t, "/#dataset", w.Header().Get("Location"))
	assert.Equal(t, 0, table.View().Page)
	assert.Equal(t, 5, table.View().FilteredCount)

	mock.HistoryErr = client.ErrRequestFailed
	w = doForm(r, "/history/refresh", nil)
	assert.Equal(t, "/?notice="+handlers.NoticeHistoryFailed+"#dataset", w.Header().Get("Location"))
}

func TestChatHandler(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		chatErr    error
		wantStatus int
		wantReply  string
	}{
		{name: "reply", message: "  status?  ", wantStatus: http.StatusOK, wantReply: "Telemetry within nominal envelope."},
		{name: "fallback on upstream failure", message: "status?", chatErr: client.ErrUpstreamStatus, wantStatus: http.StatusOK, wantReply: chat.Fallback},
		{name: "blank", message: "   ", wantStatus: http.StatusBadRequest},
		{name: "too long", message: strings.Repeat("a", 51), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := client.NewMockClient()
			mock.ChatErr = tt.chatErr
			r, _ := newRouter(t, mock)

			w := doJSON(r, http.MethodPost, "/api/v1/chat", handlers.ChatRequest{Message: tt.message})
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			tr := doJSON(r, http.MethodGet, "/api/v1/chat", nil)
			var transcript handlers.TranscriptResponse
			decode(t, tr, &transcript)
			assert.False(t, transcript.Pending)

			if tt.wantStatus != http.StatusOK {
				assert.Len(t, transcript.Transcript, 1)
				assert.Equal(t, 0, mock.ChatCount())
				return
			}

			var reply handlers.ChatReply
			decode(t, w, &reply)
			assert.Equal(t, models.RoleAssistant, reply.Reply.Role)
			assert.Equal(t, tt.wantReply, reply.Reply.Content)
			require.Len(t, transcript.Transcript, 3)
			assert.Equal(t, "status?", transcript.Transcript[1].Content)
		})
	}
}

func TestChatHandler_ForwardsMessageAsTyped(t *testing.T) {
	mock := client.NewMockClient()
	r, _ := newRouter(t, mock)

	w := doJSON(r, http.MethodPost, "/api/v1/chat", handlers.ChatRequest{Message: "  line one\r\nline two\x00  "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, mock.ChatRequests, 1)
	assert.Equal(t, "line one\r\nline two", mock.ChatRequests[0].Message)
}

func TestChatHandler_SendForm(t *testing.T) {
	r, m := newRouter(t, client.NewMockClient())

	w := doForm(r, "/chat", url.Values{"message": {"hello"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/#chat", w.Header().Get("Location"))
	assert.Len(t, m.Get(testSession).Chat().Transcript(), 3)

	w = doForm(r, "/chat", url.Values{"message": {""}})
	assert.Equal(t, "/#chat", w.Header().Get("Location"))
	assert.Len(t, m.Get(testSession).Chat().Transcript(), 3)

	w = doForm(r, "/chat", url.Values{"message": {strings.Repeat("a", 60)}})
	assert.Equal(t, "/?notice="+handlers.NoticeInvalidMessage+"#chat", w.Header().Get("Location"))
}

type fakeRunStore struct {
	runs     []*models.DiagnosticRun
	statsErr error
	lastSID  string
	allCalls int
}

func (f *fakeRunStore) GetByID(_ context.Context, id string) (*models.DiagnosticRun, error) {
	for _, r := range f.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, queries.ErrRunNotFound
}

func (f *fakeRunStore) GetRecent(_ context.Context, limit int) ([]*models.DiagnosticRun, error) {
	f.allCalls++
	return f.runs[:min(limit, len(f.runs))], nil
}

func (f *fakeRunStore) GetBySession(_ context.Context, sessionID string, limit int) ([]*models.DiagnosticRun, error) {
	f.lastSID = sessionID
	var out []*models.DiagnosticRun
	for _, r := range f.runs {
		if r.SessionID == sessionID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRunStore) GetStats(_ context.Context, _ time.Time) (*queries.RunStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &queries.RunStats{Total: int64(len(f.runs)), Succeeded: int64(len(f.runs))}, nil
}

func TestRunsHandler(t *testing.T) {
	other := uuid.NewString()
	store := &fakeRunStore{runs: []*models.DiagnosticRun{
		{ID: "run-1", SessionID: testSession, Outcome: models.RunSucceeded},
		{ID: "run-2", SessionID: other, Outcome: models.RunFailed},
		{ID: "run-3", SessionID: testSession, Outcome: models.RunSucceeded},
	}}

	newRunsRouter := func(store handlers.RunStore) *gin.Engine {
		h := handlers.NewRunsHandler(store)
		r := gin.New()
		r.Use(withSession(testSession))
		r.GET("/runs", h.List)
		r.GET("/runs/:id", h.Get)
		r.GET("/stats", h.Stats)
		return r
	}

	t.Run("disabled store", func(t *testing.T) {
		r := newRunsRouter(nil)
		for _, path := range []string{"/runs", "/runs/run-1", "/stats"} {
			assert.Equal(t, http.StatusServiceUnavailable, doJSON(r, http.MethodGet, path, nil).Code, path)
		}
	})

	r := newRunsRouter(store)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCount  int
	}{
		{name: "own session by default", path: "/runs", wantStatus: http.StatusOK, wantCount: 2},
		{name: "all sessions", path: "/runs?all=true", wantStatus: http.StatusOK, wantCount: 3},
		{name: "other session", path: "/runs?session=" + other, wantStatus: http.StatusOK, wantCount: 1},
		{name: "limit", path: "/runs?all=true&limit=1", wantStatus: http.StatusOK, wantCount: 1},
		{name: "bad limit", path: "/runs?limit=zero", wantStatus: http.StatusBadRequest},
		{name: "malformed session", path: "/runs?session=nope", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var body struct {
				Runs  []*models.DiagnosticRun `json:"runs"`
				Count int                     `json:"count"`
			}
			decode(t, w, &body)
			assert.Equal(t, tt.wantCount, body.Count)
		})
	}

	t.Run("get by id", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/runs/run-2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var run models.DiagnosticRun
		decode(t, w, &run)
		assert.Equal(t, other, run.SessionID)

		assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/runs/missing", nil).Code)
	})

	t.Run("stats", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/stats?window=1h", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var stats queries.RunStats
		decode(t, w, &stats)
		assert.Equal(t, int64(3), stats.Total)

		assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/stats?window=-1h", nil).Code)

		store.statsErr = errors.New("db down")
		assert.Equal(t, http.StatusInternalServerError, doJSON(r, http.MethodGet, "/stats", nil).Code)
	})
}

type stubDB struct{ err error }

func (s stubDB) HealthCheck(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		upstream   error
		db         handlers.DBChecker
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "upstream only",
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"upstream": "healthy"},
		},
		{
			name:       "upstream and database",
			db:         stubDB{},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"upstream": "healthy", "database": "healthy"},
		},
		{
			name:       "upstream down",
			upstream:   client.ErrRequestFailed,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "database down",
			db:         stubDB{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := client.NewMockClient()
			mock.HealthErr = tt.upstream
			h := handlers.NewHealthHandler(mock, tt.db)

			r := gin.New()
			r.GET("/health", h.Health)
			r.GET("/health/ready", h.Ready)
			r.GET("/health/live", h.Live)

			assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/health", nil).Code)
			assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/health/live", nil).Code)

			w := doJSON(r, http.MethodGet, "/health/ready", nil)
			require.Equal(t, tt.wantStatus, w.Code)
			var resp handlers.HealthResponse
			decode(t, w, &resp)
			if tt.wantChecks != nil {
				assert.Equal(t, tt.wantChecks, resp.Checks)
			}
		})
	}
}

func TestPageHandler_Render(t *testing.T) {
	mock := client.NewMockClient()
	release := make(chan struct{})
	mock.HistoryFunc = func(ctx context.Context) (*models.HistoryResponse, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return &models.HistoryResponse{Status: models.HistoryStatusSuccess, Data: historyRecords(25)}, nil
	}
	m := newManager(t, mock)

	tmpl, err := web.Templates(handlers.TemplateFuncs())
	require.NoError(t, err)

	page := handlers.NewPageHandler(m, handlers.DefaultTimeouts())
	diag := handlers.NewDiagnosticHandler(m, handlers.DefaultTimeouts())

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(withSession(testSession))
	r.GET("/", page.Render)
	r.POST("/api/v1/diagnostics", diag.Submit)

	w := doJSON(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SENTINEL_ML")
	assert.Contains(t, w.Body.String(), "Syncing Dataset...")

	close(release)
	table := m.Get(testSession).History()
	require.Eventually(t, func() bool { return !table.View().Loading }, time.Second, 5*time.Millisecond)

	w = doJSON(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "Syncing Dataset...")
	assert.Contains(t, body, "Showing 10 of 25 records")
	assert.Contains(t, body, "1 / 3")
	assert.Contains(t, body, `id="checker"`)
	assert.Equal(t, 1, mock.HistoryCount())

	w = doJSON(r, http.MethodGet, "/?notice="+handlers.NoticeBusy, nil)
	assert.Contains(t, w.Body.String(), "Previous request still in progress.")

	w = doJSON(r, http.MethodGet, "/?notice=bogus", nil)
	assert.NotContains(t, w.Body.String(), `role="alert"`)

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/v1/diagnostics", completeForm()).Code)
	w = doJSON(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "All systems nominal.")
}
