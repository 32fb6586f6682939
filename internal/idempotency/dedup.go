// Package idempotency drops Telegram updates that were already delivered.
package idempotency

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "shopwizard:update:"

// Deduplicator reports whether an update id is seen for the first time.
type Deduplicator interface {
	FirstSeen(ctx context.Context, updateID int) (bool, error)
}

// RedisDeduplicator remembers update ids in redis for a fixed TTL.
type RedisDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

var _ Deduplicator = (*RedisDeduplicator)(nil)

// NewRedisDeduplicator creates a redis-backed Deduplicator.
func NewRedisDeduplicator(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisDeduplicator {
	return &RedisDeduplicator{client: client, ttl: ttl, logger: logger}
}

// FirstSeen claims the update id. It returns false when another delivery of
// the same update already claimed it within the TTL.
func (d *RedisDeduplicator) FirstSeen(ctx context.Context, updateID int) (bool, error) {
	key := keyPrefix + strconv.Itoa(updateID)

	claimed, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim update %d: %w", updateID, err)
	}
	if !claimed {
		d.logger.WithField("update_id", updateID).Info("Dropping redelivered update")
	}
	return claimed, nil
}

// Noop treats every update as new. It is used when redis is not configured.
type Noop struct{}

func (Noop) FirstSeen(context.Context, int) (bool, error) { return true, nil }

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
