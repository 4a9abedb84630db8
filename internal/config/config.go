// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Blob backends.
const (
	BlobBackendS3     = "s3"
	BlobBackendMemory = "memory"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"5000"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Redis backs rate limiting and the orphaned-blob queue
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Token signing
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"12h"`

	// Blob storage
	BlobBackend     string `env:"BLOB_BACKEND" envDefault:"s3"`
	BucketName      string `env:"BUCKET_NAME"`
	BucketRegion    string `env:"BUCKET_REGION"`
	AccessKey       string `env:"ACCESS_KEY"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3UsePathStyle  bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`

	// Public base URL, used by the memory blob backend to build signed URLs
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:5000"`

	SignedURLTTL    time.Duration `env:"SIGNED_URL_TTL" envDefault:"1h"`
	SignConcurrency int           `env:"SIGN_CONCURRENCY" envDefault:"8"`

	// Image handling
	ImageMaxWidth  int   `env:"IMAGE_MAX_WIDTH" envDefault:"1080"`
	ImageMaxHeight int   `env:"IMAGE_MAX_HEIGHT" envDefault:"1920"`
	MaxUploadSize  int64 `env:"MAX_UPLOAD_SIZE" envDefault:"20971520"`
	// Declared width*height above this is rejected before decoding
	ImageMaxPixels int64 `env:"IMAGE_MAX_PIXELS" envDefault:"50000000"`

	// When true, list-foundItems returns every item like list-lostItems does.
	LegacyFoundListing bool `env:"LEGACY_FOUND_LISTING" envDefault:"false"`

	// Orphaned blob sweeper; zero disables it
	OrphanSweepInterval time.Duration `env:"ORPHAN_SWEEP_INTERVAL" envDefault:"5m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting for login and security-question answers (per client IP)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// Comma-separated CIDRs or IPs of reverse proxies whose X-Forwarded-For is trusted.
	// Empty means the connection address is always the client address.
	TrustedProxies string `env:"TRUSTED_PROXIES" envDefault:""`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// GetTrustedProxies parses the comma-separated trusted proxy list into a slice.
func (c *Config) GetTrustedProxies() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	switch c.BlobBackend {
	case BlobBackendS3:
		if c.BucketName == "" || c.BucketRegion == "" {
			return errors.New("BUCKET_NAME and BUCKET_REGION are required for the s3 blob backend")
		}
	case BlobBackendMemory:
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q", c.BlobBackend)
	}

	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.SignedURLTTL <= 0 {
		return errors.New("SIGNED_URL_TTL must be positive")
	}
	if c.ImageMaxWidth <= 0 || c.ImageMaxHeight <= 0 {
		return errors.New("IMAGE_MAX_WIDTH and IMAGE_MAX_HEIGHT must be positive")
	}
	if c.ImageMaxPixels <= 0 {
		return errors.New("IMAGE_MAX_PIXELS must be positive")
	}
	return nil
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
