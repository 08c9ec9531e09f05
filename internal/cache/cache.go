package cache

import (
	"context"
	"log"
	"time"

	"github.com/sbo24/finance-flow/internal/config"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin optional wrapper around Redis. When Redis is disabled or
// unreachable every method is a no-op, so callers never need nil checks
// beyond using the returned ok flag.
type Cache struct {
	client *redis.Client
}

// New connects to Redis per config. Connection failure is not fatal: the
// service keeps running without a cache.
func New(cfg config.RedisConfig) *Cache {
	if !cfg.Enabled {
		return &Cache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: failed to connect to Redis: %v", err)
		log.Println("Continuing without cache...")
		return &Cache{}
	}
	return &Cache{client: client}
}

// Get returns the cached value and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value with a ttl; errors are ignored, the cache is advisory.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	c.client.SetEx(ctx, key, value, ttl)
}

// Delete drops keys, used to invalidate derived data after a write.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, keys...)
}
