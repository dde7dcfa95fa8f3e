package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"skywatch.app/errors"
)

// Config represents the application configuration structure
type Config struct {
	Server    ServerConfig    `split_words:"true"`
	Database  DatabaseConfig  `split_words:"true"`
	Weather   WeatherConfig   `split_words:"true"`
	Geocoding GeocodingConfig `split_words:"true"`
	Push      PushConfig      `split_words:"true"`
	Alerts    AlertsConfig    `split_words:"true"`
	Agent     AgentConfig     `split_words:"true"`
	Calendar  CalendarConfig  `split_words:"true"`
	Cache     CacheConfig     `split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"skywatch"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

// GetDSN returns a formatted database connection string
func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// WeatherConfig contains settings for the Open-Meteo weather client.
// Open-Meteo requires no API key.
type WeatherConfig struct {
	BaseURL     string        `envconfig:"WEATHER_API_BASE_URL" default:"https://api.open-meteo.com/v1"`
	Timeout     time.Duration `envconfig:"WEATHER_API_TIMEOUT" default:"10s"`
	DefaultUnit string        `envconfig:"WEATHER_DEFAULT_UNIT" default:"fahrenheit"`
}

// GeocodingConfig contains settings for the Nominatim geocoding client
type GeocodingConfig struct {
	BaseURL   string        `envconfig:"GEOCODING_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `envconfig:"GEOCODING_USER_AGENT" default:"skywatch.app/1.0"`
	Timeout   time.Duration `envconfig:"GEOCODING_TIMEOUT" default:"10s"`
}

// PushConfig contains push notification transport settings
type PushConfig struct {
	Endpoint    string        `envconfig:"PUSH_ENDPOINT" default:"https://fcm.googleapis.com/v1"`
	ProjectID   string        `envconfig:"PUSH_PROJECT_ID"`
	Credentials string        `envconfig:"PUSH_CREDENTIALS"`
	Timeout     time.Duration `envconfig:"PUSH_TIMEOUT" default:"10s"`
	MaxTokens   int           `envconfig:"PUSH_MAX_TOKENS" default:"10000"`
	TokenTTL    time.Duration `envconfig:"PUSH_TOKEN_TTL" default:"720h"`
}

// AlertsConfig contains settings for the weather alert monitor
type AlertsConfig struct {
	CheckInterval   time.Duration `envconfig:"ALERTS_CHECK_INTERVAL" default:"30m"`
	ForecastHours   int           `envconfig:"ALERTS_FORECAST_HOURS" default:"24"`
	RainProbability float64       `envconfig:"ALERTS_RAIN_PROBABILITY" default:"60"`
	RainWindowHours int           `envconfig:"ALERTS_RAIN_WINDOW_HOURS" default:"6"`
}

// AgentConfig contains settings for the conversational agent backend
type AgentConfig struct {
	BaseURL string        `envconfig:"AGENT_BASE_URL"`
	Timeout time.Duration `envconfig:"AGENT_TIMEOUT" default:"30s"`
}

// CalendarConfig contains Google Calendar OAuth settings
type CalendarConfig struct {
	BaseURL      string        `envconfig:"CALENDAR_BASE_URL" default:"https://www.googleapis.com/calendar/v3"`
	ClientID     string        `envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret string        `envconfig:"GOOGLE_CLIENT_SECRET"`
	Timeout      time.Duration `envconfig:"CALENDAR_TIMEOUT" default:"10s"`
}

// CacheConfig contains weather cache settings
type CacheConfig struct {
	Type          string        `envconfig:"CACHE_TYPE" default:"memory"`
	TTL           time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Geocoding.Validate(); err != nil {
		return err
	}
	if err := c.Push.Validate(); err != nil {
		return err
	}
	if err := c.Alerts.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// ValidateSSLMode validates the SSL mode configuration
func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

// Validate checks database configuration
func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > 65535 {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	if err := d.ValidateSSLMode(); err != nil {
		return err
	}
	return nil
}

// Validate checks weather client configuration
func (w *WeatherConfig) Validate() error {
	if !strings.HasPrefix(w.BaseURL, "http://") && !strings.HasPrefix(w.BaseURL, "https://") {
		return errors.NewConfigurationError("WEATHER_API_BASE_URL must start with http:// or https://", nil)
	}
	if w.DefaultUnit != "fahrenheit" && w.DefaultUnit != "celsius" {
		return errors.NewConfigurationError("WEATHER_DEFAULT_UNIT must be 'fahrenheit' or 'celsius'", nil)
	}
	return nil
}

// Validate checks geocoding client configuration
func (g *GeocodingConfig) Validate() error {
	if !strings.HasPrefix(g.BaseURL, "http://") && !strings.HasPrefix(g.BaseURL, "https://") {
		return errors.NewConfigurationError("GEOCODING_BASE_URL must start with http:// or https://", nil)
	}
	if g.UserAgent == "" {
		return errors.NewConfigurationError("GEOCODING_USER_AGENT cannot be empty", nil)
	}
	return nil
}

// Validate checks push transport configuration
func (p *PushConfig) Validate() error {
	if p.MaxTokens < 1 {
		return errors.NewConfigurationError("PUSH_MAX_TOKENS must be positive", nil)
	}
	if p.TokenTTL <= 0 {
		return errors.NewConfigurationError("PUSH_TOKEN_TTL must be positive", nil)
	}
	return nil
}

// Configured reports whether the push transport has credentials set.
// An unconfigured transport degrades to logging notifications.
func (p *PushConfig) Configured() bool {
	return p.ProjectID != "" && p.Credentials != ""
}

// Validate checks alert monitor configuration
func (a *AlertsConfig) Validate() error {
	if a.CheckInterval <= 0 {
		return errors.NewConfigurationError("ALERTS_CHECK_INTERVAL must be positive", nil)
	}
	if a.ForecastHours < 1 || a.ForecastHours > 384 {
		return errors.NewConfigurationError("ALERTS_FORECAST_HOURS must be between 1 and 384", nil)
	}
	if a.RainProbability < 0 || a.RainProbability > 100 {
		return errors.NewConfigurationError("ALERTS_RAIN_PROBABILITY must be between 0 and 100", nil)
	}
	if a.RainWindowHours < 1 {
		return errors.NewConfigurationError("ALERTS_RAIN_WINDOW_HOURS must be positive", nil)
	}
	return nil
}

// Configured reports whether the calendar integration has OAuth credentials set
func (c *CalendarConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Validate checks cache configuration
func (c *CacheConfig) Validate() error {
	if c.Type != "memory" && c.Type != "redis" {
		return errors.NewConfigurationError("CACHE_TYPE must be 'memory' or 'redis'", nil)
	}
	if c.TTL <= 0 {
		return errors.NewConfigurationError("CACHE_TTL must be positive", nil)
	}
	return nil
}
