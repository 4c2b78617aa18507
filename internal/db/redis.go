package db

import (
	"context"
	"fmt"
	"time"

	"backend-trailmeet/internal/config"

	"github.com/redis/go-redis/v9"
)

var pingRedisFn = func(ctx context.Context, rdb *redis.Client) error { return rdb.Ping(ctx).Err() }

// ConnectRedis opens the client holding wizard drafts. An empty address
// yields a nil client and drafts stay in memory. A server that does not
// answer PING within the timeout is reported as an error and the client
// is closed.
func ConnectRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pingRedisFn(pingCtx, rdb); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}
