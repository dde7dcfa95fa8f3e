package service

import (
	"context"

	"skywatch.app/errors"
	"skywatch.app/models"
	"skywatch.app/providers"
)

// WeatherService handles weather-related operations
type WeatherService struct {
	provider providers.WeatherProvider
}

// NewWeatherService creates a new weather service with the specified provider
func NewWeatherService(provider providers.WeatherProvider) *WeatherService {
	return &WeatherService{provider: provider}
}

func validateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return errors.NewValidationError("latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return errors.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}

// GetCurrent retrieves current conditions for a coordinate pair
func (s *WeatherService) GetCurrent(ctx context.Context, latitude, longitude float64, unit string) (*models.CurrentConditions, error) {
	if err := validateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}
	return s.provider.GetCurrentWeather(ctx, latitude, longitude, unit)
}

// GetDaily retrieves a daily forecast for a coordinate pair
func (s *WeatherService) GetDaily(ctx context.Context, latitude, longitude float64, days int, unit string) (*models.DailyForecast, error) {
	if err := validateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}
	return s.provider.GetDailyForecast(ctx, latitude, longitude, days, unit)
}

// GetHourly retrieves an hourly forecast for a coordinate pair
func (s *WeatherService) GetHourly(ctx context.Context, latitude, longitude float64, hours int, unit string) (*models.HourlyForecast, error) {
	if err := validateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}
	return s.provider.GetHourlyForecast(ctx, latitude, longitude, hours, unit)
}

// GeocodingService handles location search operations
type GeocodingService struct {
	provider providers.GeocodingProvider
}

// NewGeocodingService creates a new geocoding service
func NewGeocodingService(provider providers.GeocodingProvider) *GeocodingService {
	return &GeocodingService{provider: provider}
}

// Geocode resolves a free-text query to candidate locations
func (s *GeocodingService) Geocode(ctx context.Context, query string, limit int) ([]models.Location, error) {
	if query == "" {
		return nil, errors.NewValidationError("query cannot be empty")
	}
	return s.provider.Geocode(ctx, query, limit)
}

// ReverseGeocode resolves coordinates to an address
func (s *GeocodingService) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*models.Location, error) {
	if err := validateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}
	return s.provider.ReverseGeocode(ctx, latitude, longitude)
}
