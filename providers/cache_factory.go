package providers

import (
	"log/slog"

	"skywatch.app/config"
	"skywatch.app/providers/cache"
)

// NewConditionsCache builds the configured cache backend. When Redis is
// configured but unreachable, the factory falls back to the in-memory
// cache instead of failing startup.
func NewConditionsCache(cfg *config.CacheConfig) cache.ConditionsCache {
	if cfg.Type == "redis" {
		redisCache, err := cache.NewRedisCache(&cache.RedisCacheConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			slog.Error("Redis cache unavailable, falling back to memory cache", "error", err)
			return cache.NewMemoryCache()
		}
		return redisCache
	}
	return cache.NewMemoryCache()
}
