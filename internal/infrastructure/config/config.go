package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Redis   RedisConfig
	Catalog CatalogConfig
	Gallery GalleryConfig
	S3      S3Config

	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT, default=5"`
}

type SessionConfig struct {
	Secret            string        `env:"SESSION_SECRET"`
	TTL               time.Duration `env:"SESSION_TTL,           default=24h"`
	SecureCookie      bool          `env:"SESSION_COOKIE_SECURE, default=true"`
	OwnerPasswordHash string        `env:"OWNER_PASSWORD_HASH"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
}

type RedisConfig struct {
	Addr      string        `env:"REDIS_ADDR,       default=localhost:6379"`
	Password  string        `env:"REDIS_PASSWORD"`
	DB        int           `env:"REDIS_DB,         default=0"`
	OpTimeout time.Duration `env:"REDIS_OP_TIMEOUT, default=2s"`
}

type CatalogConfig struct {
	Languages            []string      `env:"CATALOG_LANGUAGES,              default=en,es,fr,de,pt,ja"`
	SnapshotDir          string        `env:"CATALOG_SNAPSHOT_DIR"`
	SourcePath           string        `env:"CATALOG_SOURCE_PATH,            default=data/catalog.csv"`
	CacheTTL             time.Duration `env:"CATALOG_CACHE_TTL,              default=6h"`
	MaxAge               time.Duration `env:"CATALOG_MAX_AGE,                default=60s"`
	StaleWhileRevalidate time.Duration `env:"CATALOG_STALE_WHILE_REVALIDATE, default=300s"`
	Warmers              int           `env:"CATALOG_WARMERS,                default=2"`
}

type GalleryConfig struct {
	MaxAttempts  int           `env:"GALLERY_MAX_ATTEMPTS,  default=10"`
	RetryBackoff time.Duration `env:"GALLERY_RETRY_BACKOFF, default=25ms"`
}

// S3Config is optional; image deletion skips object removal when Bucket is empty.
type S3Config struct {
	Bucket      string `env:"S3_BUCKET"`
	Region      string `env:"S3_REGION,       default=us-east-1"`
	Endpoint    string `env:"S3_ENDPOINT"`
	AccessKey   string `env:"S3_ACCESS_KEY"`
	SecretKey   string `env:"S3_SECRET_KEY"`
	ImagePrefix string `env:"S3_IMAGE_PREFIX, default=gallery/"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// ValidateServe checks the settings the HTTP server cannot start without.
func (c *Config) ValidateServe() error {
	if c.Session.Secret == "" {
		return errors.New("config: SESSION_SECRET is required")
	}
	if len(c.Catalog.Languages) == 0 {
		return errors.New("config: CATALOG_LANGUAGES must name at least one language")
	}
	if c.Gallery.MaxAttempts < 1 {
		return errors.New("config: GALLERY_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// Pretty reports whether logs should be human-readable.
func (c *Config) Pretty() bool { return c.Env == "development" }
