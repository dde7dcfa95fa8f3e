// Package models defines data structures used throughout the application
package models

import (
	"time"

	"gorm.io/gorm"
)

// Supported temperature units
const (
	UnitFahrenheit = "fahrenheit"
	UnitCelsius    = "celsius"
)

// CurrentConditions represents current weather conditions for a location
type CurrentConditions struct {
	Temperature     float64 `json:"temperature"`
	FeelsLike       float64 `json:"feels_like"`
	Humidity        float64 `json:"humidity"`
	Precipitation   float64 `json:"precipitation"`
	Rain            float64 `json:"rain"`
	CloudCover      float64 `json:"cloud_cover"`
	WindSpeed       float64 `json:"wind_speed"`
	WindDirection   float64 `json:"wind_direction"`
	WindGusts       float64 `json:"wind_gusts"`
	IsDay           bool    `json:"is_day"`
	WeatherCode     int     `json:"weather_code"`
	Description     string  `json:"weather_description"`
	TemperatureUnit string  `json:"temperature_unit"`
	Timezone        string  `json:"timezone,omitempty"`
}

// HourlyForecastPoint is a single hour of forecast data
type HourlyForecastPoint struct {
	Time                     string  `json:"time"`
	Temperature              float64 `json:"temperature"`
	FeelsLike                float64 `json:"feels_like"`
	Humidity                 float64 `json:"humidity"`
	PrecipitationProbability float64 `json:"precipitation_probability"`
	Precipitation            float64 `json:"precipitation"`
	WeatherCode              int     `json:"weather_code"`
	Description              string  `json:"weather_description"`
	CloudCover               float64 `json:"cloud_cover"`
	WindSpeed                float64 `json:"wind_speed"`
	WindGusts                float64 `json:"wind_gusts"`
	IsDay                    bool    `json:"is_day"`
}

// HourlyForecast is an ordered sequence of hourly forecast points
type HourlyForecast struct {
	Points          []HourlyForecastPoint `json:"forecasts"`
	TemperatureUnit string                `json:"temperature_unit"`
	Timezone        string                `json:"timezone,omitempty"`
}

// DailyForecastPoint is a single day of forecast data
type DailyForecastPoint struct {
	Date                     string  `json:"date"`
	WeatherCode              int     `json:"weather_code"`
	Description              string  `json:"weather_description"`
	TempHigh                 float64 `json:"temp_high"`
	TempLow                  float64 `json:"temp_low"`
	FeelsLikeHigh            float64 `json:"feels_like_high"`
	FeelsLikeLow             float64 `json:"feels_like_low"`
	Sunrise                  string  `json:"sunrise"`
	Sunset                   string  `json:"sunset"`
	Precipitation            float64 `json:"precipitation"`
	PrecipitationProbability float64 `json:"precipitation_probability"`
	WindSpeedMax             float64 `json:"wind_speed_max"`
	WindGustsMax             float64 `json:"wind_gusts_max"`
	UVIndexMax               float64 `json:"uv_index_max"`
}

// DailyForecast is an ordered sequence of daily forecast points
type DailyForecast struct {
	Points          []DailyForecastPoint `json:"forecasts"`
	TemperatureUnit string               `json:"temperature_unit"`
	Timezone        string               `json:"timezone,omitempty"`
}

// Address holds structured address components from the geocoder
type Address struct {
	HouseNumber string `json:"house_number,omitempty"`
	Road        string `json:"road,omitempty"`
	City        string `json:"city,omitempty"`
	County      string `json:"county,omitempty"`
	State       string `json:"state,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// Location is a geocoding candidate with coordinates and address details
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
	Name        string  `json:"name"`
	Type        string  `json:"type,omitempty"`
	Address     Address `json:"address"`
}

// Subscription defaults matching the documented thresholds (Fahrenheit)
const (
	DefaultTemperatureThresholdHigh = 95.0
	DefaultTemperatureThresholdLow  = 32.0
)

// WeatherSubscription is a user's weather monitoring subscription
type WeatherSubscription struct {
	UserID                   string             `json:"user_id"`
	Latitude                 float64            `json:"latitude"`
	Longitude                float64            `json:"longitude"`
	LocationName             string             `json:"location_name"`
	AlertsEnabled            bool               `json:"alerts_enabled"`
	RainAlerts               bool               `json:"rain_alerts"`
	TemperatureAlerts        bool               `json:"temperature_alerts"`
	SevereWeatherAlerts      bool               `json:"severe_weather_alerts"`
	TemperatureThresholdHigh float64            `json:"temperature_threshold_high"`
	TemperatureThresholdLow  float64            `json:"temperature_threshold_low"`
	LastChecked              *time.Time         `json:"last_checked,omitempty"`
	LastConditions           *CurrentConditions `json:"last_conditions,omitempty"`
}

// DeviceRegistration tracks a push-notification device token for a user
type DeviceRegistration struct {
	Token        string    `json:"token"`
	RegisteredAt time.Time `json:"registered_at"`
	LastUsed     time.Time `json:"last_used"`
}

// AlertKind identifies the category of a weather alert
type AlertKind string

const (
	AlertSevereWeather   AlertKind = "severe_weather"
	AlertHighWind        AlertKind = "high_wind"
	AlertRainComing      AlertKind = "rain_coming"
	AlertHighTemperature AlertKind = "high_temperature"
	AlertLowTemperature  AlertKind = "low_temperature"
)

// Alert is a transient weather alert produced by an evaluation pass.
// Alerts are produced fresh on every evaluation and never persisted.
type Alert struct {
	Kind        AlertKind `json:"type"`
	Message     string    `json:"message"`
	WeatherCode int       `json:"weather_code,omitempty"`
	WindSpeed   float64   `json:"wind_speed,omitempty"`
	WindGusts   float64   `json:"wind_gusts,omitempty"`
	Probability float64   `json:"probability,omitempty"`
	HoursAhead  int       `json:"hours_ahead,omitempty"`
	Time        string    `json:"time,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// AgentRecord maps a user to their conversational agent
type AgentRecord struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    string         `json:"user_id" gorm:"uniqueIndex;not null"`
	AgentID   string         `json:"agent_id" gorm:"index;not null"`
	Backend   string         `json:"backend" gorm:"not null"` // "letta" or "local"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserPreference stores per-user settings referenced by the agent
type UserPreference struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	UserID              string         `json:"user_id" gorm:"uniqueIndex;not null"`
	TemperatureUnit     string         `json:"temperature_unit" gorm:"default:fahrenheit"`
	HomeLatitude        *float64       `json:"home_latitude,omitempty"`
	HomeLongitude       *float64       `json:"home_longitude,omitempty"`
	HomeLocationName    string         `json:"home_location_name,omitempty"`
	NotificationEnabled bool           `json:"notification_enabled" gorm:"default:true"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

// CalendarCredential stores a user's calendar OAuth tokens
type CalendarCredential struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	UserID       string         `json:"user_id" gorm:"uniqueIndex;not null"`
	AccessToken  string         `json:"-" gorm:"not null"`
	RefreshToken string         `json:"-"`
	Expiry       time.Time      `json:"expiry"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// CalendarEvent is a calendar event returned by the calendar provider
type CalendarEvent struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AllDay      bool   `json:"all_day"`
}

// ChatRequest is a message sent to the conversational agent
type ChatRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ToolCall records a tool invocation made while answering a chat message
type ToolCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// ChatResponse is the agent's reply
type ChatResponse struct {
	Response  string     `json:"response"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	AgentID   string     `json:"agent_id"`
}

// LocationRequest carries coordinates for weather and geocoding lookups
type LocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
}

// GeocodeRequest is a free-text location search
type GeocodeRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit,omitempty"`
}

// SubscribeAlertsRequest creates or replaces a weather alert subscription
type SubscribeAlertsRequest struct {
	UserID              string  `json:"user_id" binding:"required"`
	Latitude            float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude           float64 `json:"longitude" binding:"gte=-180,lte=180"`
	LocationName        string  `json:"location_name" binding:"required"`
	RainAlerts          *bool   `json:"rain_alerts,omitempty"`
	TemperatureAlerts   *bool   `json:"temperature_alerts,omitempty"`
	SevereWeatherAlerts *bool   `json:"severe_weather_alerts,omitempty"`
}

// RegisterDeviceRequest registers a device token for push notifications
type RegisterDeviceRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	DeviceToken string `json:"device_token" binding:"required"`
}

// TestNotificationRequest sends an ad-hoc notification to a user
type TestNotificationRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body" binding:"required"`
}

// CreateReminderRequest creates a weather-related calendar reminder
type CreateReminderRequest struct {
	UserID      string    `json:"user_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	EventTime   time.Time `json:"event_time" binding:"required"`
	WeatherNote string    `json:"weather_note"`
}

// PreferencesRequest updates a user's preference settings
type PreferencesRequest struct {
	TemperatureUnit     string   `json:"temperature_unit" binding:"omitempty,tempunit"`
	HomeLatitude        *float64 `json:"home_latitude,omitempty"`
	HomeLongitude       *float64 `json:"home_longitude,omitempty"`
	HomeLocationName    string   `json:"home_location_name,omitempty"`
	NotificationEnabled *bool    `json:"notification_enabled,omitempty"`
}

// CreateAgentRequest creates a conversational agent for a user
type CreateAgentRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// AgentResponse describes a user's conversational agent
type AgentResponse struct {
	AgentID string `json:"agent_id"`
	UserID  string `json:"user_id"`
	Status  string `json:"status"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}
