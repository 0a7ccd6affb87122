// Package cache provides the Redis-backed suggestion cache. Caching is
// best-effort: Redis being down degrades to uncached suggestions, never to
// an error.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type RedisSuggestionCache struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisSuggestionCache(addr, password string, db int, log *logrus.Logger) *RedisSuggestionCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSuggestionCache{client: client, log: log}
}

func (c *RedisSuggestionCache) GetNames(ctx context.Context, key string) ([]string, bool) {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warn("suggestion cache read failed")
		}
		return nil, false
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		c.log.WithError(err).Warn("suggestion cache entry corrupt")
		return nil, false
	}
	return names, true
}

func (c *RedisSuggestionCache) SetNames(ctx context.Context, key string, names []string, ttl time.Duration) {
	raw, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.WithError(err).Warn("suggestion cache write failed")
	}
}

func (c *RedisSuggestionCache) Close() error {
	return c.client.Close()
}
