// Package cache keeps short-lived delivery records in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sentMessageTTL = 24 * time.Hour

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Open parses a redis:// URL and returns a cache over a new client.
func Open(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisCache(redis.NewClient(opts)), nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func sentKey(messageID string) string {
	return "sent:" + messageID
}

// CacheSentMessage stores the send time of messageID for a day.
func (c *RedisCache) CacheSentMessage(ctx context.Context, messageID string, sentAt time.Time) error {
	err := c.client.Set(ctx, sentKey(messageID), sentAt.UTC().Format(time.RFC3339), sentMessageTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache sent message %s: %w", messageID, err)
	}
	return nil
}

// SentAt returns when messageID was sent, or false when it is not cached.
func (c *RedisCache) SentAt(ctx context.Context, messageID string) (time.Time, bool, error) {
	val, err := c.client.Get(ctx, sentKey(messageID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get sent message %s: %w", messageID, err)
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed sent time for %s: %w", messageID, err)
	}
	return t, true, nil
}
