// Package db opens the application database through GORM.
package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	authadapters "role_portal/internal/feature/auth/adapters"
	"role_portal/internal/feature/auth/domain/entity"
)

const (
	// DefaultSQLitePath is used when DATABASE_URL is empty.
	DefaultSQLitePath = "database.db"

	retryInterval = 3 * time.Second
)

// Config describes how to reach the database.
type Config struct {
	URL            string
	ConnectTimeout time.Duration
	RunMigrations  bool
}

// Dialector maps DATABASE_URL to a GORM dialector.
//
//	""                        → SQLite file database.db
//	postgres://, postgresql:// → Postgres (pgx)
//	sqlite:///relative.db     → SQLite file relative.db
//	sqlite:////abs/path.db    → SQLite file /abs/path.db
//	anything without a scheme → SQLite file at that path
func Dialector(rawURL string) (gorm.Dialector, error) {
	switch {
	case rawURL == "":
		return sqlite.Open(DefaultSQLitePath), nil
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		return postgres.Open(rawURL), nil
	case strings.HasPrefix(rawURL, "sqlite:///"):
		path := strings.TrimPrefix(rawURL, "sqlite:///")
		if path == "" {
			return nil, fmt.Errorf("sqlite URL %q has no path", rawURL)
		}
		return sqlite.Open(path), nil
	case strings.Contains(rawURL, "://"):
		scheme, _, _ := strings.Cut(rawURL, "://")
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	default:
		return sqlite.Open(rawURL), nil
	}
}

// GormConfig is shared by the server and the tests. TranslateError turns
// driver-specific duplicate-key errors into gorm.ErrDuplicatedKey.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// Open connects to the configured database, retrying until ConnectTimeout,
// and runs migrations when enabled.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(ctx, cfg.ConnectTimeout, retryInterval, func() (*gorm.DB, error) {
		return gorm.Open(dialector, GormConfig())
	}, log)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dialect", dialector.Name()).Msg("database connected")

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// ConnectWithRetry calls open until it succeeds, ctx is cancelled, or
// timeout elapses.
func ConnectWithRetry(ctx context.Context, timeout, interval time.Duration, open func() (*gorm.DB, error), log zerolog.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open()
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("database connect failed after %s: %w", timeout, err)
		}
		log.Warn().Err(err).Dur("retry_in", interval).Msg("database connect failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Migrate creates or updates the users and sessions tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.User{}, &authadapters.SessionModel{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
