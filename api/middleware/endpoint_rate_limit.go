package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// EndpointRateLimiter applies per-route limits on top of the global one.
// Keys combine the session and the client address, so one browser cannot
// flood the upstream through the chat or diagnostic routes.
type EndpointRateLimiter struct {
	limiters map[string]*RateLimiter
	mu       sync.RWMutex
}

func NewEndpointRateLimiter() *EndpointRateLimiter {
	return &EndpointRateLimiter{
		limiters: make(map[string]*RateLimiter),
	}
}

// AddEndpoint limits one route, matched by method and gin's FullPath.
func (erl *EndpointRateLimiter) AddEndpoint(method, path string, limit int, window time.Duration) {
	erl.mu.Lock()
	defer erl.mu.Unlock()
	erl.limiters[method+" "+path] = NewRateLimiter(limit, window)
}

func (erl *EndpointRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.Request.Method + " " + c.FullPath()

		erl.mu.RLock()
		limiter, exists := erl.limiters[route]
		erl.mu.RUnlock()

		if exists {
			key := GetSessionID(c) + "|" + c.ClientIP()
			if !limiter.Allow(key) {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":       "rate limit exceeded for this endpoint",
					"retry_after": limiter.window.Seconds(),
				})
				return
			}
		}

		c.Next()
	}
}
