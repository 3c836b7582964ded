// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	authadapters "role_portal/internal/feature/auth/adapters"
	"role_portal/internal/feature/auth/usecase"
	"role_portal/internal/platform/session"
)

// SessionKeyPrefix namespaces session keys in Redis.
const SessionKeyPrefix = "session"

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the sessions table.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, SessionKeyPrefix)
	}
	return authadapters.NewSessionGorm(db)
}

// RunSessionHousekeeping deletes expired sessions every interval until ctx
// is cancelled. Failures are logged and retried on the next tick.
func RunSessionHousekeeping(ctx context.Context, repo usecase.SessionRepository, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		log.Info().Msg("session housekeeping disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Msg("failed to delete expired sessions")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("expired sessions removed")
			}
		}
	}
}
