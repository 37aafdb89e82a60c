// Package handlers serves the console page and its JSON API. Every handler
// works on the console of the caller's session cookie.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sentinel-console/api/middleware"
	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/console"
	"github.com/OldStager01/sentinel-console/internal/resilience"
)

// ConsoleManager resolves session ids to consoles.
type ConsoleManager interface {
	Get(id string) *console.Console
}

// Timeouts bounds the upstream work a single request may start.
type Timeouts struct {
	Diagnostic time.Duration
	History    time.Duration
	Chat       time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Diagnostic: 45 * time.Second,
		History:    30 * time.Second,
		Chat:       30 * time.Second,
	}
}

type ErrorResponse struct {
	Error   string   `json:"error" example:"diagnostic form incomplete"`
	Missing []string `json:"missing,omitempty" example:"torque"`
}

func consoleFor(c *gin.Context, consoles ConsoleManager) *console.Console {
	return consoles.Get(middleware.GetSessionID(c))
}

func withTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), d)
}

// upstreamStatus maps an upstream failure to the status returned to the caller.
func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, client.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Error: msg})
}

// redirectTo finishes an HTML form post by sending the browser back to a
// page anchor.
func redirectTo(c *gin.Context, anchor, notice string) {
	target := "/"
	if notice != "" {
		target += "?notice=" + notice
	}
	c.Redirect(http.StatusSeeOther, target+"#"+anchor)
}
