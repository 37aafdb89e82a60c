package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultBaseURL = "https://sentinel-5aks.onrender.com"

// Load reads configuration from defaults, an optional YAML file and
// SENTINEL_* environment variables, in increasing precedence. A .env file
// in the working directory is loaded into the environment first.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/sentinel")
	}

	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sentinel-console")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "15s")

	v.SetDefault("upstream.base_url", DefaultBaseURL)
	v.SetDefault("upstream.mock", false)
	v.SetDefault("upstream.timeout", "30s")
	v.SetDefault("upstream.retry_attempts", 1)
	v.SetDefault("upstream.retry_delay", "500ms")
	v.SetDefault("upstream.circuit_breaker.max_failures", 5)
	v.SetDefault("upstream.circuit_breaker.timeout", "30s")
	v.SetDefault("upstream.circuit_breaker.half_open_max", 1)

	v.SetDefault("diagnostic.feature_delay", "400ms")
	v.SetDefault("diagnostic.inference_delay", "800ms")
	v.SetDefault("diagnostic.completion_delay", "1200ms")
	v.SetDefault("diagnostic.log_capacity", 16)
	v.SetDefault("diagnostic.request_timeout", "45s")

	v.SetDefault("history.page_size", 10)
	v.SetDefault("history.request_timeout", "30s")

	v.SetDefault("chat.max_message_length", 2000)
	v.SetDefault("chat.request_timeout", "30s")

	v.SetDefault("session.cookie_name", "sentinel_session")
	v.SetDefault("session.cookie_path", "/")
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("session.token_secret", "change-me-in-production")
	v.SetDefault("session.token_issuer", "sentinel-console")
	v.SetDefault("session.token_ttl", "24h")
	v.SetDefault("session.idle_ttl", "2h")
	v.SetDefault("session.sweep_interval", "5m")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "60s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.rate_burst", 20)
	v.SetDefault("api.max_body_bytes", 1<<20)
	v.SetDefault("api.cors.allowed_origins", []string{"*"})
	v.SetDefault("api.cors.allowed_methods", []string{"GET", "POST", "PUT", "OPTIONS"})
	v.SetDefault("api.cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "X-Trace-ID"})
	v.SetDefault("api.cors.exposed_headers", []string{"X-Trace-ID"})

	v.SetDefault("websocket.max_connections", 1000)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.max_message_size", 512)
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.client_buffer", 64)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 0)

	v.SetDefault("events.buffer_size", 256)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.path", "sentinel.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "sentinel")
	v.SetDefault("database.user", "sentinel")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.conn_max_idle_time", "5m")
	v.SetDefault("database.ping_timeout", "5s")
	v.SetDefault("database.migration_timeout", "60s")

	v.SetDefault("alerts.enabled", false)
	v.SetDefault("alerts.broker", "tcp://localhost:1883")
	v.SetDefault("alerts.client_id", "sentinel-console")
	v.SetDefault("alerts.topic", "sentinel/alerts/{machine_type}")
	v.SetDefault("alerts.qos", 1)
	v.SetDefault("alerts.connect_timeout", "10s")
}
