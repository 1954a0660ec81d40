// Package config loads application settings from the environment.
// Every setting has a default except the session secret, and Validate
// reports all problems at once so a misconfigured deployment fails on
// startup.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Import   ImportConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Audit    AuditConfig

	// Locale is the display language used when a request states none.
	Locale string `env:"APP_LOCALE" envDefault:"he"`

	// PageSize is the default number of rows in list responses.
	PageSize int `env:"PAGE_SIZE" envDefault:"10"`

	// SeedPassword is given to every demo account on an empty store.
	SeedPassword string `env:"SEED_PASSWORD" envDefault:"password"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// RequestTimeout is the middleware timeout for requests.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
}

// StoreConfig selects and tunes the record store.
type StoreConfig struct {
	// Driver is "memory" (default) or "postgres".
	Driver string `env:"STORE_DRIVER" envDefault:"memory"`

	// DatabaseURL is required when Driver is postgres.
	DatabaseURL     string        `env:"DATABASE_URL"`
	MaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	MaxFileSize   int64         `env:"IMPORT_MAX_FILE_SIZE" envDefault:"10485760"`
	MaxConcurrent int           `env:"IMPORT_MAX_CONCURRENT" envDefault:"4"`
	MaxWaitTime   time.Duration `env:"IMPORT_MAX_WAIT_TIME" envDefault:"10s"`
	Timeout       time.Duration `env:"IMPORT_TIMEOUT" envDefault:"2m"`

	// FallbackEncoding decodes uploads that are not valid UTF-8. Empty or
	// "none" disables the fallback.
	FallbackEncoding string `env:"IMPORT_FALLBACK_ENCODING" envDefault:"windows-1255"`
}

// SessionConfig holds session token settings.
type SessionConfig struct {
	// Secret signs session tokens (required).
	Secret     string        `env:"SESSION_SECRET"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	CookieName string        `env:"SESSION_COOKIE" envDefault:"session"`
	Secure     bool          `env:"SESSION_SECURE" envDefault:"false"`
}

// RateLimitConfig holds per-IP rate limits.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"100"`

	// ImportLimit applies to import and preview endpoints.
	ImportLimit int `env:"RATE_LIMIT_IMPORT" envDefault:"10"`

	// LoginLimit applies to the login endpoint.
	LoginLimit int `env:"RATE_LIMIT_LOGIN" envDefault:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers are believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" envDefault:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// AuditConfig holds audit log retention settings.
type AuditConfig struct {
	RetentionDays int           `env:"AUDIT_RETENTION_DAYS" envDefault:"365"`
	CheckInterval time.Duration `env:"AUDIT_CHECK_INTERVAL" envDefault:"24h"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
