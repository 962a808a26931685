// Package cache handles Redis caching operations.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/randkey/randkey/internal/config"
)

// Cache defines the interface for caching operations.
type Cache interface {
	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Ping checks if the cache is healthy.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client.
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Set stores a value with a TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Exists checks if a key exists.
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists check failed: %w", err)
	}
	return n > 0, nil
}

// Delete removes a key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// Ping checks if the cache is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the cache connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// KeyCache records which key values are known to be allocated. Only positive
// membership is cached: a hit means the key certainly exists, a miss means
// the authoritative store must be asked.
type KeyCache struct {
	cache  Cache
	prefix string
	ttl    time.Duration
}

// DefaultKeyTTL is applied when no TTL is configured.
const DefaultKeyTTL = 24 * time.Hour

// NewKeyCache creates a KeyCache on top of a Cache.
func NewKeyCache(c Cache, prefix string, ttl time.Duration) *KeyCache {
	if prefix == "" {
		prefix = "key"
	}
	if ttl == 0 {
		ttl = DefaultKeyTTL
	}
	return &KeyCache{cache: c, prefix: prefix, ttl: ttl}
}

// CacheKey formats the cache key for a key value.
func (k *KeyCache) CacheKey(id int64) string {
	return k.prefix + ":" + strconv.FormatInt(id, 10)
}

// Contains reports whether the key value is known to be allocated.
func (k *KeyCache) Contains(ctx context.Context, id int64) (bool, error) {
	return k.cache.Exists(ctx, k.CacheKey(id))
}

// Add marks a key value as allocated.
func (k *KeyCache) Add(ctx context.Context, id int64) error {
	return k.cache.Set(ctx, k.CacheKey(id), []byte("1"), k.ttl)
}

// Remove forgets a key value.
func (k *KeyCache) Remove(ctx context.Context, id int64) error {
	return k.cache.Delete(ctx, k.CacheKey(id))
}
