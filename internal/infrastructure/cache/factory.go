package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/apinexus/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SuggestionCacheFactory creates suggestion caches based on configuration
type SuggestionCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*SuggestionCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *SuggestionCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to memory when Redis is
// unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *SuggestionCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSuggestionCacheFactory creates a new factory
func NewSuggestionCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *SuggestionCacheFactory {
	f := &SuggestionCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache connects to Redis and verifies the connection
func (f *SuggestionCacheFactory) CreateRedisCache(ctx context.Context) (*RedisSuggestionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSuggestionCacheWithClient(client, f.cacheConfig.KeyPrefix, f.cacheConfig.SuggestionTTL), nil
}

// CreateInMemoryCache creates a process-local cache
func (f *SuggestionCacheFactory) CreateInMemoryCache() *MemorySuggestionCache {
	return NewMemorySuggestionCache(f.cacheConfig.SuggestionTTL, f.cacheConfig.CleanupInterval)
}

// CreateStore returns the configured cache, or nil when caching is disabled.
// A redis backend that cannot be reached falls back to memory unless the
// fallback was turned off.
func (f *SuggestionCacheFactory) CreateStore(ctx context.Context) (SuggestionStore, error) {
	if !f.cacheConfig.Enabled() {
		f.logger.Info("suggestion cache disabled")
		return nil, nil
	}

	if f.cacheConfig.Backend != config.CacheBackendRedis {
		f.logger.Info("using in-memory suggestion cache", zap.Duration("ttl", f.cacheConfig.SuggestionTTL))
		return f.CreateInMemoryCache(), nil
	}

	store, err := f.CreateRedisCache(ctx)
	if err == nil {
		f.logger.Info("using Redis suggestion cache", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for suggestion cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory suggestion cache. "+
		"Instances will not share cached suggestions.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
