package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"skywatch.app/models"
)

// RedisCache is a Redis-backed conditions cache
type RedisCache struct {
	client *redis.Client
}

// RedisCacheConfig holds Redis connection settings
type RedisCacheConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisCache connects to Redis and returns a conditions cache
func NewRedisCache(config *RedisCacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	slog.Info("Redis cache connected successfully", "addr", config.Addr)
	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (*models.CurrentConditions, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Error("Redis get error", "error", err, "key", key)
		}
		return nil, false
	}

	var conditions models.CurrentConditions
	if err := json.Unmarshal([]byte(val), &conditions); err != nil {
		slog.Error("Redis unmarshal error", "error", err, "key", key)
		return nil, false
	}
	return &conditions, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value *models.CurrentConditions, ttl time.Duration) {
	encoded, err := json.Marshal(value)
	if err != nil {
		slog.Error("Redis marshal error", "error", err, "key", key)
		return
	}
	if err := r.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
		slog.Error("Redis set error", "error", err, "key", key)
	}
}

func (r *RedisCache) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		slog.Error("Redis delete error", "error", err, "key", key)
	}
}

func (r *RedisCache) Clear(ctx context.Context) {
	if err := r.client.FlushDB(ctx).Err(); err != nil {
		slog.Error("Redis flush error", "error", err)
	}
}

// Close releases the underlying Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}
