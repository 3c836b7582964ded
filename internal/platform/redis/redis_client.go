// Package redis connects to the optional Redis session backend.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Options holds the connection settings taken from configuration.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings Redis. The caller owns the returned
// client and must Close it.
func NewRedisClient(ctx context.Context, opts Options, log zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := checkConnection(ctx, rdb); err != nil {
		log.Error().Err(err).Str("address", opts.Addr).Msg("redis connection failed")
		_ = rdb.Close()
		return nil, err
	}

	log.Info().Str("address", opts.Addr).Msg("redis connection successful")
	return rdb, nil
}

func checkConnection(ctx context.Context, rdb *redis.Client) error {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
