package providers

import (
	"context"

	"skywatch.app/models"
)

// WeatherProvider defines the interface for weather data providers
type WeatherProvider interface {
	GetCurrentWeather(ctx context.Context, latitude, longitude float64, unit string) (*models.CurrentConditions, error)
	GetDailyForecast(ctx context.Context, latitude, longitude float64, days int, unit string) (*models.DailyForecast, error)
	GetHourlyForecast(ctx context.Context, latitude, longitude float64, hours int, unit string) (*models.HourlyForecast, error)
}

// GeocodingProvider defines the interface for geocoding providers
type GeocodingProvider interface {
	Geocode(ctx context.Context, query string, limit int) ([]models.Location, error)
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (*models.Location, error)
}

// PushProvider defines the interface for push notification transports
type PushProvider interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error
	Available() bool
}

// CalendarProvider defines the interface for calendar backends
type CalendarProvider interface {
	ListEvents(ctx context.Context, accessToken string, timeMin, timeMax string, maxResults int) ([]models.CalendarEvent, error)
	CreateEvent(ctx context.Context, accessToken string, event *models.CalendarEvent) (*models.CalendarEvent, error)
}
