package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		os.Clearenv()

		config, err := LoadConfig()

		require.NoError(t, err)
		require.NotNil(t, config)
		assert.Equal(t, 8080, config.Server.Port)
		assert.Equal(t, "localhost", config.Database.Host)
		assert.Equal(t, 5432, config.Database.Port)
		assert.Equal(t, "postgres", config.Database.User)
		assert.Equal(t, "skywatch", config.Database.Name)
		assert.Equal(t, "disable", config.Database.SSLMode)
		assert.Equal(t, "https://api.open-meteo.com/v1", config.Weather.BaseURL)
		assert.Equal(t, "fahrenheit", config.Weather.DefaultUnit)
		assert.Equal(t, "https://nominatim.openstreetmap.org", config.Geocoding.BaseURL)
		assert.Equal(t, 10000, config.Push.MaxTokens)
		assert.Equal(t, 720*time.Hour, config.Push.TokenTTL)
		assert.Equal(t, 30*time.Minute, config.Alerts.CheckInterval)
		assert.Equal(t, 24, config.Alerts.ForecastHours)
		assert.Equal(t, 60.0, config.Alerts.RainProbability)
		assert.Equal(t, 6, config.Alerts.RainWindowHours)
		assert.Equal(t, "memory", config.Cache.Type)
		assert.Equal(t, 5*time.Minute, config.Cache.TTL)
	})

	t.Run("CustomValues", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("SERVER_PORT", "9090"))
		require.NoError(t, os.Setenv("ALERTS_CHECK_INTERVAL", "15m"))
		require.NoError(t, os.Setenv("ALERTS_RAIN_PROBABILITY", "75"))
		require.NoError(t, os.Setenv("CACHE_TYPE", "redis"))
		require.NoError(t, os.Setenv("REDIS_ADDR", "redis:6379"))
		require.NoError(t, os.Setenv("WEATHER_DEFAULT_UNIT", "celsius"))

		config, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 9090, config.Server.Port)
		assert.Equal(t, 15*time.Minute, config.Alerts.CheckInterval)
		assert.Equal(t, 75.0, config.Alerts.RainProbability)
		assert.Equal(t, "redis", config.Cache.Type)
		assert.Equal(t, "redis:6379", config.Cache.RedisAddr)
		assert.Equal(t, "celsius", config.Weather.DefaultUnit)
	})

	t.Run("InvalidPort", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("SERVER_PORT", "99999"))

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
	})

	t.Run("InvalidCacheType", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("CACHE_TYPE", "memcached"))

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
	})

	t.Run("InvalidRainProbability", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("ALERTS_RAIN_PROBABILITY", "150"))

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
	})

	t.Run("InvalidDefaultUnit", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("WEATHER_DEFAULT_UNIT", "kelvin"))

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
	})
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		User:     "skywatch",
		Password: "secret",
		Name:     "skywatch",
		SSLMode:  "require",
	}

	dsn := cfg.GetDSN()

	assert.Contains(t, dsn, "host=db.example.com")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=skywatch")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestPushConfig_Configured(t *testing.T) {
	cfg := PushConfig{}
	assert.False(t, cfg.Configured())

	cfg.ProjectID = "project-1"
	assert.False(t, cfg.Configured())

	cfg.Credentials = "service-account-token"
	assert.True(t, cfg.Configured())
}

func TestCalendarConfig_Configured(t *testing.T) {
	cfg := CalendarConfig{}
	assert.False(t, cfg.Configured())

	cfg.ClientID = "client-id"
	cfg.ClientSecret = "client-secret"
	assert.True(t, cfg.Configured())
}
