package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sentinel-console/api/middleware"
	"github.com/OldStager01/sentinel-console/pkg/database/queries"
	"github.com/OldStager01/sentinel-console/pkg/models"
	"github.com/OldStager01/sentinel-console/pkg/validation"
)

const (
	defaultRunsLimit  = 20
	maxRunsLimit      = 200
	defaultStatsRange = 24 * time.Hour
)

// RunStore is the read side of the diagnostic audit trail.
type RunStore interface {
	GetByID(ctx context.Context, id string) (*models.DiagnosticRun, error)
	GetRecent(ctx context.Context, limit int) ([]*models.DiagnosticRun, error)
	GetBySession(ctx context.Context, sessionID string, limit int) ([]*models.DiagnosticRun, error)
	GetStats(ctx context.Context, since time.Time) (*queries.RunStats, error)
}

type RunsHandler struct {
	store RunStore
}

// NewRunsHandler serves the audit trail. A nil store answers 503.
func NewRunsHandler(store RunStore) *RunsHandler {
	return &RunsHandler{store: store}
}

func (h *RunsHandler) enabled(c *gin.Context) bool {
	if h.store == nil {
		respondError(c, http.StatusServiceUnavailable, "diagnostic audit trail is disabled")
		return false
	}
	return true
}

// List godoc
// @Summary List diagnostic runs
// @Description Recent runs of the caller's session. all=true lists every session; session=<id> picks one.
// @Tags Diagnostics
// @Produce json
// @Param limit query int false "Maximum rows (default 20, max 200)"
// @Param all query bool false "List every session"
// @Param session query string false "Session id"
// @Success 200 {object} map[string]interface{} "Runs and count"
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Audit trail disabled"
// @Router /api/v1/diagnostics/runs [get]
func (h *RunsHandler) List(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	limit := defaultRunsLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRunsLimit)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var (
		runs []*models.DiagnosticRun
		err  error
	)
	switch {
	case c.Query("all") == "true":
		runs, err = h.store.GetRecent(ctx, limit)
	case c.Query("session") != "":
		sessionID := c.Query("session")
		if verr := validation.ValidateSessionID(sessionID); verr != nil {
			respondError(c, http.StatusBadRequest, verr.Error())
			return
		}
		runs, err = h.store.GetBySession(ctx, sessionID, limit)
	default:
		runs, err = h.store.GetBySession(ctx, middleware.GetSessionID(c), limit)
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch diagnostic runs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"count": len(runs),
	})
}

// Get godoc
// @Summary Get diagnostic run
// @Tags Diagnostics
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.DiagnosticRun
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Audit trail disabled"
// @Router /api/v1/diagnostics/runs/{id} [get]
func (h *RunsHandler) Get(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	run, err := h.store.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, queries.ErrRunNotFound) {
			respondError(c, http.StatusNotFound, "diagnostic run not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to fetch diagnostic run")
		return
	}

	c.JSON(http.StatusOK, run)
}

// Stats godoc
// @Summary Diagnostic run statistics
// @Description Totals over a trailing window
// @Tags Diagnostics
// @Produce json
// @Param window query string false "Go duration, default 24h"
// @Success 200 {object} queries.RunStats
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Audit trail disabled"
// @Router /api/v1/diagnostics/stats [get]
func (h *RunsHandler) Stats(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	window := defaultStatsRange
	if v := c.Query("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			respondError(c, http.StatusBadRequest, "window must be a positive duration")
			return
		}
		window = d
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.store.GetStats(ctx, time.Now().Add(-window))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute run statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}
