package config

import (
	"fmt"
	"time"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	Diagnostic DiagnosticConfig `mapstructure:"diagnostic"`
	History    HistoryConfig    `mapstructure:"history"`
	Chat       ChatConfig       `mapstructure:"chat"`
	Session    SessionConfig    `mapstructure:"session"`
	API        APIConfig        `mapstructure:"api"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Events     EventsConfig     `mapstructure:"events"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// UpstreamConfig points at the remote inference service.
type UpstreamConfig struct {
	BaseURL        string               `mapstructure:"base_url"`
	Mock           bool                 `mapstructure:"mock"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	RetryAttempts  int                  `mapstructure:"retry_attempts"`
	RetryDelay     time.Duration        `mapstructure:"retry_delay"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	Timeout     time.Duration `mapstructure:"timeout"`
	HalfOpenMax int           `mapstructure:"half_open_max"`
}

// DiagnosticConfig holds the cosmetic pacing of a run. Zero disables a delay.
type DiagnosticConfig struct {
	FeatureDelay    time.Duration `mapstructure:"feature_delay"`
	InferenceDelay  time.Duration `mapstructure:"inference_delay"`
	CompletionDelay time.Duration `mapstructure:"completion_delay"`
	LogCapacity     int           `mapstructure:"log_capacity"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type HistoryConfig struct {
	PageSize       int           `mapstructure:"page_size"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type ChatConfig struct {
	MaxMessageLength int           `mapstructure:"max_message_length"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
}

type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name"`
	CookiePath    string        `mapstructure:"cookie_path"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	TokenSecret   string        `mapstructure:"token_secret"`
	TokenIssuer   string        `mapstructure:"token_issuer"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type APIConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	RateLimit    int           `mapstructure:"rate_limit"`
	RateBurst    int           `mapstructure:"rate_burst"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	CORS         CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type WebSocketConfig struct {
	MaxConnections  int           `mapstructure:"max_connections"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongTimeout     time.Duration `mapstructure:"pong_timeout"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	ClientBuffer    int           `mapstructure:"client_buffer"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Port serves metrics separately when set; zero mounts /metrics on the API.
	Port int `mapstructure:"port"`
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

// DatabaseConfig selects the audit store. Driver is "postgres" or "sqlite";
// Path is only read for sqlite.
type DatabaseConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Driver           string        `mapstructure:"driver"`
	Path             string        `mapstructure:"path"`
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	MaxConnections   int           `mapstructure:"max_connections"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	PingTimeout      time.Duration `mapstructure:"ping_timeout"`
	MigrationTimeout time.Duration `mapstructure:"migration_timeout"`
}

func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, sslMode,
	)
}

// AlertsConfig enables MQTT publication of critical results.
type AlertsConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Broker         string        `mapstructure:"broker"`
	ClientID       string        `mapstructure:"client_id"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Topic          string        `mapstructure:"topic"`
	QoS            byte          `mapstructure:"qos"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}
