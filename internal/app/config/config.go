// Package config loads the application configuration from the environment.
package config

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinSecretLength is the shortest accepted SECRET_KEY, in bytes.
const MinSecretLength = 32

// ErrInsecureSecret means session cookies signed with SECRET_KEY could be forged.
var ErrInsecureSecret = errors.New("insecure SECRET_KEY")

// knownDefaultSecrets are placeholder keys that must never sign real sessions.
var knownDefaultSecrets = map[string]struct{}{
	"you-will-never-guess-this-secret": {},
	"secret":                           {},
	"changeme":                         {},
	"change-me":                        {},
}

type Config struct {
	Env             string        `env:"APP_ENV,          default=development"`
	Port            string        `env:"PORT,             default=8080"`
	SecretKey       string        `env:"SECRET_KEY"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	BcryptCost      int           `env:"BCRYPT_COST,      default=10"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
}

type DatabaseConfig struct {
	// URL selects the store: empty means the local SQLite file database.db.
	URL            string        `env:"DATABASE_URL"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS,     default=true"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT, default=60s"`
}

type RedisConfig struct {
	// Addr is optional; sessions live in the database when it is empty.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
	// UserCacheTTL bounds how long session lookups may serve a cached user.
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL, default=5m"`
}

type SessionConfig struct {
	TTL             time.Duration `env:"SESSION_TTL,              default=24h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL, default=1h"`
	CookieSecure    bool          `env:"COOKIE_SECURE,            default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("config: SESSION_TTL must be positive, got %s", cfg.Session.TTL)
	}
	return &cfg, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CheckSecret returns ErrInsecureSecret when SECRET_KEY is unset, short or a
// well-known placeholder.
func (c *Config) CheckSecret() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%w: not set", ErrInsecureSecret)
	}
	if _, ok := knownDefaultSecrets[c.SecretKey]; ok {
		return fmt.Errorf("%w: well-known default value", ErrInsecureSecret)
	}
	if len(c.SecretKey) < MinSecretLength {
		return fmt.Errorf("%w: must be at least %d bytes", ErrInsecureSecret, MinSecretLength)
	}
	return nil
}

// EphemeralSecret returns a random key for development runs without SECRET_KEY.
// Sessions signed with it do not survive a restart.
func EphemeralSecret() (string, error) {
	buf := make([]byte, MinSecretLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
