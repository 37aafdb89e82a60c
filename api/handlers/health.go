package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sentinel-console/internal/client"
)

// DBChecker is the audit store's health probe.
type DBChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	upstream client.HealthChecker
	db       DBChecker
	timeout  time.Duration
}

// NewHealthHandler builds the probes. db may be nil when the audit store is off.
func NewHealthHandler(upstream client.HealthChecker, db DBChecker) *HealthHandler {
	return &HealthHandler{upstream: upstream, db: db, timeout: 5 * time.Second}
}

type HealthResponse struct {
	Status    string            `json:"status" example:"healthy"`
	Timestamp string            `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Health godoc
// @Summary Service health
// @Description The console process is up. Dependencies are not checked.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: now(),
	})
}

// Ready godoc
// @Summary Readiness probe
// @Description Checks the inference service health endpoint and, when enabled, the audit database
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	checks := make(map[string]string)
	ready := true

	if err := h.upstream.HealthCheck(ctx); err != nil {
		checks["upstream"] = "unhealthy: " + err.Error()
		ready = false
	} else {
		checks["upstream"] = "healthy"
	}

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			ready = false
		} else {
			checks["database"] = "healthy"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:    "not ready",
			Timestamp: now(),
			Checks:    checks,
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: now(),
		Checks:    checks,
	})
}

// Live godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: now(),
	})
}
