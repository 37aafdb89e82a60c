package config

import (
	"errors"
	"fmt"
	"net/url"
)

func (c *Config) Validate() error {
	var errs []error

	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Upstream
	if !c.Upstream.Mock {
		if u, err := url.Parse(c.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, errors.New("upstream.base_url must be an absolute URL"))
		}
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, errors.New("upstream.timeout must be positive"))
	}
	if c.Upstream.RetryAttempts < 1 {
		errs = append(errs, errors.New("upstream.retry_attempts must be at least 1"))
	}
	if c.Upstream.CircuitBreaker.MaxFailures <= 0 {
		errs = append(errs, errors.New("upstream.circuit_breaker.max_failures must be positive"))
	}

	// Diagnostic pacing
	if c.Diagnostic.FeatureDelay < 0 || c.Diagnostic.InferenceDelay < 0 || c.Diagnostic.CompletionDelay < 0 {
		errs = append(errs, errors.New("diagnostic delays must not be negative"))
	}
	if c.Diagnostic.InferenceDelay > 0 && c.Diagnostic.InferenceDelay < c.Diagnostic.FeatureDelay {
		errs = append(errs, errors.New("diagnostic.inference_delay must not precede feature_delay"))
	}
	if c.Diagnostic.LogCapacity < 2 {
		errs = append(errs, errors.New("diagnostic.log_capacity must be at least 2"))
	}

	if c.History.PageSize <= 0 {
		errs = append(errs, errors.New("history.page_size must be positive"))
	}
	if c.Chat.MaxMessageLength <= 0 {
		errs = append(errs, errors.New("chat.max_message_length must be positive"))
	}

	// Session
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session.cookie_name is required"))
	}
	if c.Session.TokenTTL <= 0 {
		errs = append(errs, errors.New("session.token_ttl must be positive"))
	}
	if c.App.Mode == "production" && c.Session.TokenSecret == "change-me-in-production" {
		errs = append(errs, errors.New("session.token_secret must be changed in production"))
	}
	if len(c.Session.TokenSecret) < 16 {
		errs = append(errs, errors.New("session.token_secret must be at least 16 characters"))
	}

	// API
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, errors.New("api.rate_limit must not be negative"))
	}

	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		errs = append(errs, errors.New("metrics.port must be between 0 and 65535"))
	}

	// Database, only when the audit store is on
	if c.Database.Enabled {
		switch c.Database.Driver {
		case "sqlite":
			if c.Database.Path == "" {
				errs = append(errs, errors.New("database.path is required for sqlite"))
			}
		case "", "postgres":
			if c.Database.Host == "" {
				errs = append(errs, errors.New("database.host is required"))
			}
			if c.Database.Port <= 0 || c.Database.Port > 65535 {
				errs = append(errs, errors.New("database.port must be between 1 and 65535"))
			}
			if c.Database.Name == "" {
				errs = append(errs, errors.New("database.name is required"))
			}
			if c.Database.MaxConnections <= 0 {
				errs = append(errs, errors.New("database.max_connections must be positive"))
			}
		default:
			errs = append(errs, fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver))
		}
	}

	if c.Alerts.Enabled {
		if c.Alerts.Broker == "" {
			errs = append(errs, errors.New("alerts.broker is required"))
		}
		if c.Alerts.Topic == "" {
			errs = append(errs, errors.New("alerts.topic is required"))
		}
		if c.Alerts.QoS > 2 {
			errs = append(errs, errors.New("alerts.qos must be 0, 1 or 2"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %w", errors.Join(errs...))
	}

	return nil
}
