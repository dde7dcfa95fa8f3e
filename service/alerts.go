package service

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"skywatch.app/config"
	"skywatch.app/metrics"
	"skywatch.app/models"
)

// WeatherAlertService pairs the subscription registry with the alert
// evaluation logic. It owns the per-user check that the monitor loop and
// the manual check endpoint both drive.
type WeatherAlertService struct {
	registry      *AlertRegistry
	weather       WeatherServiceInterface
	notifications NotificationServiceInterface
	clock         clockwork.Clock
	cfg           config.AlertsConfig
}

// NewWeatherAlertService creates the alert service
func NewWeatherAlertService(
	registry *AlertRegistry,
	weather WeatherServiceInterface,
	notifications NotificationServiceInterface,
	clock clockwork.Clock,
	cfg config.AlertsConfig,
) *WeatherAlertService {
	return &WeatherAlertService{
		registry:      registry,
		weather:       weather,
		notifications: notifications,
		clock:         clock,
		cfg:           cfg,
	}
}

// Subscribe inserts or replaces a user's alert subscription
func (s *WeatherAlertService) Subscribe(userID string, latitude, longitude float64, locationName string, opts SubscribeOptions) bool {
	return s.registry.Subscribe(userID, latitude, longitude, locationName, opts)
}

// Unsubscribe removes a user's alert subscription
func (s *WeatherAlertService) Unsubscribe(userID string) bool {
	return s.registry.Unsubscribe(userID)
}

// UpdateSubscription applies a partial update to an existing subscription
func (s *WeatherAlertService) UpdateSubscription(userID string, updates map[string]interface{}) bool {
	return s.registry.UpdateSubscription(userID, updates)
}

// GetSubscription returns the user's subscription, or nil when absent
func (s *WeatherAlertService) GetSubscription(userID string) *models.WeatherSubscription {
	return s.registry.Get(userID)
}

// SubscribedUserIDs returns a snapshot of subscribed users for the monitor loop
func (s *WeatherAlertService) SubscribedUserIDs() []string {
	return s.registry.UserIDs()
}

// CheckWeatherForUser evaluates current conditions against a user's
// subscription and dispatches a notification per produced alert. Missing
// or disabled subscriptions yield an empty list, never an error. A
// failed weather fetch aborts the check without touching subscription
// state; the next scheduled cycle is the retry.
func (s *WeatherAlertService) CheckWeatherForUser(ctx context.Context, userID string) []models.Alert {
	alerts := []models.Alert{}

	sub := s.registry.Get(userID)
	if sub == nil || !sub.AlertsEnabled {
		return alerts
	}

	current, err := s.weather.GetCurrent(ctx, sub.Latitude, sub.Longitude, "")
	if err != nil {
		slog.Error("Weather fetch failed, skipping check", "error", err, "user_id", userID)
		metrics.RecordMonitorCheckError()
		return alerts
	}

	forecast, err := s.weather.GetHourly(ctx, sub.Latitude, sub.Longitude, s.cfg.ForecastHours, "")
	if err != nil {
		slog.Error("Forecast fetch failed, skipping check", "error", err, "user_id", userID)
		metrics.RecordMonitorCheckError()
		return alerts
	}

	if sub.SevereWeatherAlerts {
		if alert := checkSevereWeather(current); alert != nil {
			alerts = append(alerts, *alert)
			s.dispatch(ctx, userID, alert, sub.LocationName)
		}
	}

	if sub.RainAlerts {
		if alert := checkRain(current, forecast, s.cfg.RainProbability, s.cfg.RainWindowHours); alert != nil {
			alerts = append(alerts, *alert)
			s.dispatch(ctx, userID, alert, sub.LocationName)
		}
	}

	if sub.TemperatureAlerts {
		if alert := checkTemperature(current, sub); alert != nil {
			alerts = append(alerts, *alert)
			s.dispatch(ctx, userID, alert, sub.LocationName)
		}
	}

	// State feeds the temperature dedup on the next run; written even
	// when no alerts fired.
	s.registry.SetCheckResult(userID, s.clock.Now(), current)

	return alerts
}

func (s *WeatherAlertService) dispatch(ctx context.Context, userID string, alert *models.Alert, location string) {
	metrics.RecordAlert(string(alert.Kind))
	severity := alertSeverity(alert.Kind)
	if !s.notifications.SendWeatherAlert(ctx, userID, alert, location, severity) {
		slog.Debug("Alert produced but not delivered", "user_id", userID, "kind", alert.Kind)
	}
}
