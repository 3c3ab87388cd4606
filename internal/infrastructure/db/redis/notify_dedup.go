package redis

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

const notifyDedupTTL = 5 * time.Minute

// NotifyDedup suppresses byte-identical notifications to the same channel
// inside a short window, so retried or replayed mutations do not spam the
// channel. Key format: notify:<channel>:<fnv32a of message>
type NotifyDedup struct {
	client *redis.Client
}

// NewNotifyDedup creates a NotifyDedup wrapping the given Redis client.
func NewNotifyDedup(client *redis.Client) *NotifyDedup {
	return &NotifyDedup{client: client}
}

// Seen reports whether this exact message was recently sent to the channel.
func (d *NotifyDedup) Seen(ctx context.Context, channel, message string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(channel, message)).Result()
	if err != nil {
		return false, fmt.Errorf("notify dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the message was sent (expires after notifyDedupTTL).
func (d *NotifyDedup) Mark(ctx context.Context, channel, message string) error {
	return d.client.Set(ctx, d.key(channel, message), "1", notifyDedupTTL).Err()
}

func (d *NotifyDedup) key(channel, message string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(message))
	return fmt.Sprintf("notify:%s:%d", channel, h.Sum32())
}
