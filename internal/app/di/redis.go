package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	platformredis "role_portal/internal/platform/redis"
)

// NewOptionalRedis connects to Redis when an address is configured. It
// returns nil when Redis is not configured or cannot be reached, in which
// case sessions are kept in the database.
func NewOptionalRedis(ctx context.Context, opts platformredis.Options, log zerolog.Logger) *redis.Client {
	if opts.Addr == "" {
		return nil
	}
	client, err := platformredis.NewRedisClient(ctx, opts, log)
	if err != nil {
		log.Warn().Err(err).Str("address", opts.Addr).Msg("redis unavailable, storing sessions in the database")
		return nil
	}
	return client
}
