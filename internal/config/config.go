package config

import (
	"errors"
	"time"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultAccessTokenExpireMinutes is the session token lifetime.
	DefaultAccessTokenExpireMinutes = 1440

	// DefaultCORSAllowedOrigin is the admin panel dev server.
	DefaultCORSAllowedOrigin = "http://localhost:5173"

	// ServiceName identifies the process in traces.
	ServiceName = "agentdesk"
)

// Config holds the settings the HTTP server is built from.
type Config struct {
	DatabaseURL        string
	Port               string
	JWTSecret          string
	AccessTokenTTL     time.Duration
	CORSAllowedOrigins []string
	RedisURL           string
	OpenAIBaseURL      string
	AnthropicBaseURL   string
	OTLPEndpoint       string
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT secret is required")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("access token lifetime must be positive")
	}
	return nil
}
