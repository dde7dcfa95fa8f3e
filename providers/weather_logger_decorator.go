package providers

import (
	"context"
	"log/slog"
	"time"

	"skywatch.app/models"
)

// WeatherLoggerDecorator logs every provider call with its duration
type WeatherLoggerDecorator struct {
	wrappedProvider WeatherProvider
	providerName    string
}

// NewWeatherLoggerDecorator wraps a weather provider with request/response logging
func NewWeatherLoggerDecorator(provider WeatherProvider, providerName string) WeatherProvider {
	return &WeatherLoggerDecorator{
		wrappedProvider: provider,
		providerName:    providerName,
	}
}

func (d *WeatherLoggerDecorator) GetCurrentWeather(ctx context.Context, latitude, longitude float64, unit string) (*models.CurrentConditions, error) {
	startTime := time.Now()
	conditions, err := d.wrappedProvider.GetCurrentWeather(ctx, latitude, longitude, unit)
	d.log("current", latitude, longitude, time.Since(startTime), err)
	return conditions, err
}

func (d *WeatherLoggerDecorator) GetDailyForecast(ctx context.Context, latitude, longitude float64, days int, unit string) (*models.DailyForecast, error) {
	startTime := time.Now()
	forecast, err := d.wrappedProvider.GetDailyForecast(ctx, latitude, longitude, days, unit)
	d.log("daily", latitude, longitude, time.Since(startTime), err)
	return forecast, err
}

func (d *WeatherLoggerDecorator) GetHourlyForecast(ctx context.Context, latitude, longitude float64, hours int, unit string) (*models.HourlyForecast, error) {
	startTime := time.Now()
	forecast, err := d.wrappedProvider.GetHourlyForecast(ctx, latitude, longitude, hours, unit)
	d.log("hourly", latitude, longitude, time.Since(startTime), err)
	return forecast, err
}

func (d *WeatherLoggerDecorator) log(call string, latitude, longitude float64, duration time.Duration, err error) {
	if err != nil {
		slog.Error("weather provider call failed",
			"provider", d.providerName, "call", call,
			"latitude", latitude, "longitude", longitude,
			"duration", duration, "error", err)
		return
	}
	slog.Debug("weather provider call",
		"provider", d.providerName, "call", call,
		"latitude", latitude, "longitude", longitude,
		"duration", duration)
}
