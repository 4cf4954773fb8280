package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/checkout-pricing/internal/resilience"
)

const cacheKeyPrefix = "quote:"

// Cache wraps Redis helpers for JSON-encoded quotes.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *resilience.Breaker
}

// CacheOption customises a Cache.
type CacheOption func(*Cache)

// WithBreaker guards Redis calls with b. While b is open reads and writes
// fail fast with resilience.ErrOpenCircuit.
func WithBreaker(b *resilience.Breaker) CacheOption {
	return func(c *Cache) { c.breaker = b }
}

// NewCache constructs a cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{client: client, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if !c.Enabled() || key == "" {
		return false, nil
	}
	var data []byte
	err := c.breaker.Do(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
		return err
	}, isRedisFailure)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if !c.Enabled() || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.breaker.Do(ctx, func() error {
		return c.client.Set(ctx, cacheKeyPrefix+key, data, c.ttl).Err()
	}, isRedisFailure)
}

func isRedisFailure(err error) bool {
	return !errors.Is(err, redis.Nil)
}
