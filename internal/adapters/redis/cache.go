// Package redis implements secondary.Cache on Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Cache implements secondary.Cache with Redis. Keys are namespaced as
// prefix:segment:key.
type Cache struct {
	client *goredis.Client
	prefix string
}

// Open connects to the Redis server at url and checks it answers.
func Open(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return client, nil
}

// NewCache creates a new Redis cache.
func NewCache(client *goredis.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

// Get returns a live entry.
func (c *Cache) Get(ctx context.Context, segment, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.key(segment, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry %s/%s: %w", segment, key, err)
	}
	return value, true, nil
}

// Set stores an entry, replacing any existing one.
func (c *Cache) Set(ctx context.Context, segment, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(segment, key), value, expiration(ttl)).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry %s/%s: %w", segment, key, err)
	}
	return nil
}

// SetIfAbsent stores an entry only when the key is free, using SET NX.
func (c *Cache) SetIfAbsent(ctx context.Context, segment, key string, value []byte, ttl time.Duration) (bool, error) {
	stored, err := c.client.SetNX(ctx, c.key(segment, key), value, expiration(ttl)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set cache entry %s/%s: %w", segment, key, err)
	}
	return stored, nil
}

// Delete removes an entry.
func (c *Cache) Delete(ctx context.Context, segment, key string) error {
	if err := c.client.Del(ctx, c.key(segment, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry %s/%s: %w", segment, key, err)
	}
	return nil
}

func (c *Cache) key(segment, key string) string {
	if c.prefix == "" {
		return segment + ":" + key
	}
	return c.prefix + ":" + segment + ":" + key
}

// Redis treats a zero expiration as no expiry.
func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return ttl
}
