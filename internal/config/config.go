// Package config loads application settings from environment variables.
// Defaults are applied for unset values and the result is validated on
// startup so that misconfiguration fails fast.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Preview  PreviewConfig
	Table    TableConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds the optional Postgres row source. Without a URL the
// bundled rows are served from memory.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// Migrate creates and seeds the bundled tables on startup.
	Migrate bool `env:"DB_MIGRATE" default:"true"`
}

// PreviewConfig holds file preview settings.
type PreviewConfig struct {
	// MaxSize is the largest previewable file in bytes (default: 5 MiB)
	MaxSize int64 `env:"PREVIEW_MAX_SIZE" default:"5242880"`

	AllowedTypes []string `env:"PREVIEW_ALLOWED_TYPES" default:"image/jpeg,image/png,image/gif"`

	// MaxConcurrent is the number of previews read at once (default: 4)
	MaxConcurrent int           `env:"PREVIEW_MAX_CONCURRENT" default:"4"`
	MaxWaitTime   time.Duration `env:"PREVIEW_MAX_WAIT_TIME" default:"10s"`
}

// TableConfig holds table rendering settings.
type TableConfig struct {
	PageSize int `env:"TABLE_PAGE_SIZE" default:"10"`

	// Locale is the BCP 47 tag used to collate sorted columns (default: en)
	Locale string `env:"TABLE_LOCALE" default:"en"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// PreviewLimit is requests per minute for the preview endpoint (default: 20)
	PreviewLimit int `env:"RATE_LIMIT_PREVIEW" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the /api routes with X-API-Key
	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`
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
