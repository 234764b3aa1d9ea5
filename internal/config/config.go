// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Content sources the dataset can be loaded from.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceS3       = "s3"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"APP_HOST" env-default:"0.0.0.0"`
	Port string `env:"APP_PORT" env-default:"8080"`
	Env  string `env:"APP_ENV" env-default:"development"` // "development", "production", "testing"

	// Where the blog dataset comes from at startup.
	ContentSource string `env:"CONTENT_SOURCE" env-default:"embedded"`
	ContentFile   string `env:"CONTENT_FILE"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" env-default:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" env-default:"5432"`
	DBUser     string `env:"POSTGRES_USER" env-default:"blogpress"`
	DBPassword string `env:"POSTGRES_PASSWORD" env-default:"changeme"`
	DBName     string `env:"POSTGRES_DB" env-default:"blogpress"`
	DBMaxConns int    `env:"POSTGRES_MAX_CONNS" env-default:"25"`

	// Valkey (Redis-compatible cache). The page cache is off when the host is empty.
	ValkeyHost     string `env:"VALKEY_HOST"`
	ValkeyPort     string `env:"VALKEY_PORT" env-default:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyDB       int    `env:"VALKEY_DB" env-default:"0"`

	// Response caching
	CacheTTL     time.Duration `env:"CACHE_TTL" env-default:"5m"`
	PageCacheTTL time.Duration `env:"PAGE_CACHE_TTL" env-default:"5m"`

	// Listing limits
	DefaultLimit int `env:"PAGE_LIMIT_DEFAULT" env-default:"10"`
	MaxLimit     int `env:"PAGE_LIMIT_MAX" env-default:"100"`

	// API rate limiting
	RateLimit  int           `env:"RATE_LIMIT" env-default:"120"`
	RateWindow time.Duration `env:"RATE_WINDOW" env-default:"1m"`

	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`

	// S3-compatible object storage holding a dataset JSON object
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" env-default:"us-east-1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Key       string `env:"S3_KEY" env-default:"blog.json"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or inconsistent.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.ContentSource {
	case SourceEmbedded, SourcePostgres:
	case SourceFile:
		if c.ContentFile == "" {
			return fmt.Errorf("CONTENT_FILE must be set when CONTENT_SOURCE=file")
		}
	case SourceS3:
		if c.S3Endpoint == "" || c.S3Bucket == "" || c.S3Key == "" {
			return fmt.Errorf("S3_ENDPOINT, S3_BUCKET and S3_KEY must be set when CONTENT_SOURCE=s3")
		}
	default:
		return fmt.Errorf("unknown CONTENT_SOURCE %q", c.ContentSource)
	}

	if c.DefaultLimit < 1 || c.MaxLimit < 1 {
		return fmt.Errorf("PAGE_LIMIT_DEFAULT and PAGE_LIMIT_MAX must be positive")
	}
	if c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("PAGE_LIMIT_DEFAULT (%d) exceeds PAGE_LIMIT_MAX (%d)", c.DefaultLimit, c.MaxLimit)
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("POSTGRES_MAX_CONNS must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.Env == "production" && c.ContentSource == SourcePostgres && c.DBPassword == "changeme" {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// PageCacheEnabled reports whether a Valkey host was configured.
func (c *Config) PageCacheEnabled() bool {
	return c.ValkeyHost != ""
}
