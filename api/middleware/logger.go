package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sentinel-console/internal/logger"
)

// RequestLogger writes one line per request. Probe and scrape traffic is
// logged at debug so it does not drown the console activity.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := map[string]interface{}{
			"status":     status,
			"method":     c.Request.Method,
			"path":       path,
			"latency_ms": latency.Milliseconds(),
			"ip":         c.ClientIP(),
			"bytes":      c.Writer.Size(),
		}

		// Unmatched paths have no route template.
		if route := c.FullPath(); route != "" && route != path {
			fields["route"] = route
		}

		if query != "" {
			fields["query"] = query
		}
		if traceID := GetTraceID(c); traceID != "" {
			fields["trace_id"] = traceID
		}
		if sessionID := GetSessionID(c); sessionID != "" {
			fields["session_id"] = sessionID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := logger.WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("server error")
		case status >= 400:
			entry.Warn("client error")
		case path == "/health" || path == "/health/live" || path == "/metrics":
			entry.Debug("request completed")
		default:
			entry.Info("request completed")
		}
	}
}
