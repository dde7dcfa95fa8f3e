package service

import (
	"context"

	"skywatch.app/models"
)

// WeatherServiceInterface defines the interface for weather lookups
type WeatherServiceInterface interface {
	GetCurrent(ctx context.Context, latitude, longitude float64, unit string) (*models.CurrentConditions, error)
	GetDaily(ctx context.Context, latitude, longitude float64, days int, unit string) (*models.DailyForecast, error)
	GetHourly(ctx context.Context, latitude, longitude float64, hours int, unit string) (*models.HourlyForecast, error)
}

// GeocodingServiceInterface defines the interface for location lookups
type GeocodingServiceInterface interface {
	Geocode(ctx context.Context, query string, limit int) ([]models.Location, error)
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (*models.Location, error)
}

// NotificationServiceInterface defines the interface for the notification channel
type NotificationServiceInterface interface {
	RegisterDevice(userID, deviceToken string) bool
	UnregisterDevice(userID string) bool
	GetDeviceToken(userID string) (string, bool)
	SendNotification(ctx context.Context, userID, title, body string, data map[string]string) bool
	SendWeatherAlert(ctx context.Context, userID string, alert *models.Alert, location, severity string) bool
	Available() bool
}

// AlertServiceInterface defines the interface for alert subscriptions and checks
type AlertServiceInterface interface {
	Subscribe(userID string, latitude, longitude float64, locationName string, opts SubscribeOptions) bool
	Unsubscribe(userID string) bool
	UpdateSubscription(userID string, updates map[string]interface{}) bool
	GetSubscription(userID string) *models.WeatherSubscription
	CheckWeatherForUser(ctx context.Context, userID string) []models.Alert
	SubscribedUserIDs() []string
}

// AgentServiceInterface defines the interface for the conversational agent
type AgentServiceInterface interface {
	SendMessage(ctx context.Context, userID, message string) (*models.ChatResponse, error)
	CreateAgent(ctx context.Context, userID string) (*models.AgentResponse, error)
	GetAgent(userID string) (*models.AgentResponse, error)
	DeleteAgent(ctx context.Context, userID string) error
	UpdatePreferences(userID string, req *models.PreferencesRequest) error
}

// CalendarServiceInterface defines the interface for calendar operations
type CalendarServiceInterface interface {
	ListEvents(ctx context.Context, userID string, daysAhead, maxResults int) ([]models.CalendarEvent, error)
	CreateReminder(ctx context.Context, req *models.CreateReminderRequest) (*models.CalendarEvent, error)
	Available(userID string) bool
}
