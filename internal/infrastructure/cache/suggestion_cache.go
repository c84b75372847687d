package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/apinexus/backend/internal/domain/analytics"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// SuggestionStore caches ordered suggestion lists by key
type SuggestionStore interface {
	Get(ctx context.Context, key string) ([]domain.Suggestion, bool, error)
	Set(ctx context.Context, key string, list []domain.Suggestion) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RedisSuggestionCache stores suggestion lists as JSON in Redis.
// It is suitable for deployments where several instances serve suggestions.
type RedisSuggestionCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSuggestionCacheWithClient creates a cache over an existing client
func NewRedisSuggestionCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSuggestionCache {
	return &RedisSuggestionCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the cached list. A missing key is not an error.
func (c *RedisSuggestionCache) Get(ctx context.Context, key string) ([]domain.Suggestion, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read suggestions from redis: %w", err)
	}

	var list []domain.Suggestion
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached suggestions: %w", err)
	}
	return list, true, nil
}

// Set stores the list with the configured TTL
func (c *RedisSuggestionCache) Set(ctx context.Context, key string, list []domain.Suggestion) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write suggestions to redis: %w", err)
	}
	return nil
}

// Delete removes the key
func (c *RedisSuggestionCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete suggestions from redis: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSuggestionCache) Close() error {
	return c.client.Close()
}

// MemorySuggestionCache keeps suggestion lists in process memory.
// State is not shared across instances.
type MemorySuggestionCache struct {
	store *gocache.Cache
}

// NewMemorySuggestionCache creates an in-memory cache with the given TTL and
// expired-entry sweep interval
func NewMemorySuggestionCache(ttl, cleanupInterval time.Duration) *MemorySuggestionCache {
	return &MemorySuggestionCache{store: gocache.New(ttl, cleanupInterval)}
}

// Get returns a copy of the cached list
func (c *MemorySuggestionCache) Get(_ context.Context, key string) ([]domain.Suggestion, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	list, ok := v.([]domain.Suggestion)
	if !ok {
		return nil, false, fmt.Errorf("unexpected cached value type %T", v)
	}
	return append([]domain.Suggestion(nil), list...), true, nil
}

// Set stores a copy of the list with the default TTL
func (c *MemorySuggestionCache) Set(_ context.Context, key string, list []domain.Suggestion) error {
	c.store.SetDefault(key, append([]domain.Suggestion(nil), list...))
	return nil
}

// Delete removes the key
func (c *MemorySuggestionCache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Close drops every entry
func (c *MemorySuggestionCache) Close() error {
	c.store.Flush()
	return nil
}

var (
	_ SuggestionStore = (*RedisSuggestionCache)(nil)
	_ SuggestionStore = (*MemorySuggestionCache)(nil)
)
