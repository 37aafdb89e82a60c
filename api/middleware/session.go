package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sentinel-console/internal/auth"
	"github.com/OldStager01/sentinel-console/internal/logger"
)

const (
	SessionIDKey      = "session_id"
	DefaultCookieName = "sentinel_session"
)

type SessionCookie struct {
	Name   string
	Path   string
	Secure bool
}

// Session resolves the visitor's console from the signed session cookie.
// A missing, tampered or expired cookie starts a new session and sets a
// fresh cookie; it never rejects the request.
func Session(authService *auth.Service, cookie SessionCookie) gin.HandlerFunc {
	if cookie.Name == "" {
		cookie.Name = DefaultCookieName
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}

	return func(c *gin.Context) {
		var sessionID string

		if token, err := c.Cookie(cookie.Name); err == nil && token != "" {
			claims, err := authService.ValidateToken(token)
			switch {
			case err == nil:
				sessionID = claims.SessionID
			case err == auth.ErrExpiredToken:
				logger.Debug("Session cookie expired, starting a new session")
			default:
				logger.WithField("ip", c.ClientIP()).Warn("Rejected invalid session cookie")
			}
		}

		if sessionID == "" {
			id, token, err := authService.NewSession()
			if err != nil {
				logger.WithError(err).Error("Failed to issue session token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "failed to start session",
				})
				return
			}
			sessionID = id
			setSessionCookie(c, cookie, token, authService.TTL())
		}

		c.Set(SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))

		c.Next()
	}
}

func setSessionCookie(c *gin.Context, cookie SessionCookie, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, token, int(ttl.Seconds()), cookie.Path, "", cookie.Secure, true)
}

func GetSessionID(c *gin.Context) string {
	if id, exists := c.Get(SessionIDKey); exists {
		return id.(string)
	}
	return ""
}
