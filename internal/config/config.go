// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Input    InputConfig
	Event    EventConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxConcurrentPreviews is the maximum number of uploads classified at once (default: 4)
	MaxConcurrentPreviews int `env:"SERVER_MAX_CONCURRENT_PREVIEWS" default:"4"`

	// PreviewWait is how long an upload waits for a free slot (default: 10s)
	PreviewWait time.Duration `env:"SERVER_PREVIEW_WAIT" default:"10s"`
}

// InputConfig describes the submission spreadsheet.
type InputConfig struct {
	// Path is the spreadsheet export to build the program from
	// Supports both PROGRAM_INPUT and INPUT_PATH env vars
	Path string `env:"PROGRAM_INPUT" envAlt:"INPUT_PATH"`

	// Sheet selects the worksheet of an .xlsx file (default: first sheet)
	Sheet string `env:"INPUT_SHEET"`

	// MaxFileSize is the maximum spreadsheet size in bytes (default: 20MB)
	MaxFileSize int64 `env:"INPUT_MAX_FILE_SIZE" default:"20971520"`

	// RefreshInterval is how often the server rebuilds from Path; 0 disables (default: 5m)
	RefreshInterval time.Duration `env:"INPUT_REFRESH_INTERVAL" default:"5m"`
}

// EventConfig describes the meeting the program is built for.
type EventConfig struct {
	// Name is shown in the page title (default: Cool Stars 20)
	Name string `env:"EVENT_NAME" default:"Cool Stars 20"`

	// Days lists CODE=YYYY-MM-DD entries, comma-separated
	Days string `env:"EVENT_DAYS" default:"Sun=2018-07-29,Mon=2018-07-30,Tue=2018-07-31,Wed=2018-08-01,Thu=2018-08-02,Fri=2018-08-03,Sat=2018-08-04"`

	// UnassignedDay is the code talks without a day are placed on (default: Mon)
	UnassignedDay string `env:"EVENT_UNASSIGNED_DAY" default:"Mon"`

	// Timezone is the IANA zone of the venue (default: UTC)
	Timezone string `env:"EVENT_TIMEZONE" default:"UTC"`

	// File is an optional YAML event description that overrides the fields above
	File string `env:"EVENT_FILE"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// PreviewLimit is requests per minute for the preview endpoint (default: 10)
	PreviewLimit int `env:"RATE_LIMIT_PREVIEW" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the preview endpoint with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
