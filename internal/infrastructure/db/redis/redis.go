// Package redis connects the tracker to the Redis instance backing the
// notification dedup store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamtrack/tracker-api/internal/infrastructure/config"
)

// dialTimeout bounds the startup ping. It matches the notify send budget:
// a dedup lookup slower than a webhook delivery is not worth waiting for.
const dialTimeout = 5 * time.Second

// Connect builds a client from the tracker's Redis settings and verifies
// connectivity before the dedup store starts depending on it.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
