package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"skywatch.app/metrics"
	"skywatch.app/models"
	"skywatch.app/providers/cache"
)

// WeatherCacheProxy caches current conditions in front of a real provider.
// Forecast calls pass through uncached; the monitor loop re-fetches them
// every cycle and staleness there would defeat the rain check.
type WeatherCacheProxy struct {
	realProvider WeatherProvider
	cache        cache.ConditionsCache
	cacheType    string
	cacheTTL     time.Duration
}

// NewWeatherCacheProxy creates a caching proxy around a weather provider
func NewWeatherCacheProxy(realProvider WeatherProvider, conditionsCache cache.ConditionsCache, cacheType string, cacheTTL time.Duration) WeatherProvider {
	return &WeatherCacheProxy{
		realProvider: realProvider,
		cache:        conditionsCache,
		cacheType:    cacheType,
		cacheTTL:     cacheTTL,
	}
}

func (p *WeatherCacheProxy) GetCurrentWeather(ctx context.Context, latitude, longitude float64, unit string) (*models.CurrentConditions, error) {
	cacheKey := p.generateCacheKey(latitude, longitude, unit)

	if cached, found := p.cache.Get(ctx, cacheKey); found {
		metrics.RecordCacheHit(p.cacheType)
		slog.Debug("weather cache hit", "key", cacheKey)
		return cached, nil
	}

	metrics.RecordCacheMiss(p.cacheType)
	slog.Debug("weather cache miss", "key", cacheKey)

	conditions, err := p.realProvider.GetCurrentWeather(ctx, latitude, longitude, unit)
	if err != nil {
		return nil, err
	}

	p.cache.Set(ctx, cacheKey, conditions, p.cacheTTL)
	return conditions, nil
}

func (p *WeatherCacheProxy) GetDailyForecast(ctx context.Context, latitude, longitude float64, days int, unit string) (*models.DailyForecast, error) {
	return p.realProvider.GetDailyForecast(ctx, latitude, longitude, days, unit)
}

func (p *WeatherCacheProxy) GetHourlyForecast(ctx context.Context, latitude, longitude float64, hours int, unit string) (*models.HourlyForecast, error) {
	return p.realProvider.GetHourlyForecast(ctx, latitude, longitude, hours, unit)
}

func (p *WeatherCacheProxy) generateCacheKey(latitude, longitude float64, unit string) string {
	return fmt.Sprintf("weather:%.4f:%.4f:%s", latitude, longitude, unit)
}
