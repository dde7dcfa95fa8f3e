package service

import (
	"sync"
	"time"

	"skywatch.app/models"
)

// AlertRegistry is the in-memory store of weather alert subscriptions,
// one per user. Re-subscribing replaces the subscription in full.
type AlertRegistry struct {
	mu            sync.RWMutex
	subscriptions map[string]*models.WeatherSubscription
}

// NewAlertRegistry creates an empty subscription registry
func NewAlertRegistry() *AlertRegistry {
	return &AlertRegistry{
		subscriptions: make(map[string]*models.WeatherSubscription),
	}
}

// SubscribeOptions carries the optional toggles for a new subscription.
// Nil fields take the documented defaults (all alert categories on,
// thresholds at 95°F/32°F).
type SubscribeOptions struct {
	RainAlerts               *bool
	TemperatureAlerts        *bool
	SevereWeatherAlerts      *bool
	TemperatureThresholdHigh *float64
	TemperatureThresholdLow  *float64
}

// Subscribe inserts or fully replaces the subscription for a user.
// It never fails: an existing subscription is overwritten, not merged.
func (r *AlertRegistry) Subscribe(userID string, latitude, longitude float64, locationName string, opts SubscribeOptions) bool {
	sub := &models.WeatherSubscription{
		UserID:                   userID,
		Latitude:                 latitude,
		Longitude:                longitude,
		LocationName:             locationName,
		AlertsEnabled:            true,
		RainAlerts:               true,
		TemperatureAlerts:        true,
		SevereWeatherAlerts:      true,
		TemperatureThresholdHigh: models.DefaultTemperatureThresholdHigh,
		TemperatureThresholdLow:  models.DefaultTemperatureThresholdLow,
	}

	if opts.RainAlerts != nil {
		sub.RainAlerts = *opts.RainAlerts
	}
	if opts.TemperatureAlerts != nil {
		sub.TemperatureAlerts = *opts.TemperatureAlerts
	}
	if opts.SevereWeatherAlerts != nil {
		sub.SevereWeatherAlerts = *opts.SevereWeatherAlerts
	}
	if opts.TemperatureThresholdHigh != nil {
		sub.TemperatureThresholdHigh = *opts.TemperatureThresholdHigh
	}
	if opts.TemperatureThresholdLow != nil {
		sub.TemperatureThresholdLow = *opts.TemperatureThresholdLow
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscriptions[userID] = sub
	return true
}

// Unsubscribe removes a user's subscription, reporting whether one existed
func (r *AlertRegistry) Unsubscribe(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subscriptions[userID]; !ok {
		return false
	}
	delete(r.subscriptions, userID)
	return true
}

// UpdateSubscription applies only recognized fields from updates to an
// existing subscription. Unknown field names are silently ignored;
// callers are trusted (permissive-merge policy). Returns false when no
// subscription exists for the user.
func (r *AlertRegistry) UpdateSubscription(userID string, updates map[string]interface{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subscriptions[userID]
	if !ok {
		return false
	}

	for key, value := range updates {
		switch key {
		case "latitude":
			if v, ok := toFloat(value); ok {
				sub.Latitude = v
			}
		case "longitude":
			if v, ok := toFloat(value); ok {
				sub.Longitude = v
			}
		case "location_name":
			if v, ok := value.(string); ok {
				sub.LocationName = v
			}
		case "alerts_enabled":
			if v, ok := value.(bool); ok {
				sub.AlertsEnabled = v
			}
		case "rain_alerts":
			if v, ok := value.(bool); ok {
				sub.RainAlerts = v
			}
		case "temperature_alerts":
			if v, ok := value.(bool); ok {
				sub.TemperatureAlerts = v
			}
		case "severe_weather_alerts":
			if v, ok := value.(bool); ok {
				sub.SevereWeatherAlerts = v
			}
		case "temperature_threshold_high":
			if v, ok := toFloat(value); ok {
				sub.TemperatureThresholdHigh = v
			}
		case "temperature_threshold_low":
			if v, ok := toFloat(value); ok {
				sub.TemperatureThresholdLow = v
			}
		}
	}
	return true
}

// Get returns a copy of the user's subscription, or nil when absent.
// Copying keeps callers from mutating registry state outside the lock.
func (r *AlertRegistry) Get(userID string) *models.WeatherSubscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subscriptions[userID]
	if !ok {
		return nil
	}
	copied := *sub
	return &copied
}

// UserIDs returns a snapshot of subscribed user identifiers. The monitor
// loop takes a fresh snapshot each cycle, so membership changes mid-cycle
// are picked up on the next one.
func (r *AlertRegistry) UserIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.subscriptions))
	for id := range r.subscriptions {
		ids = append(ids, id)
	}
	return ids
}

// SetCheckResult records the outcome of an evaluation pass: the check
// timestamp and the freshly fetched conditions. Only the evaluation path
// mutates these fields.
func (r *AlertRegistry) SetCheckResult(userID string, checkedAt time.Time, conditions *models.CurrentConditions) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subscriptions[userID]
	if !ok {
		return
	}
	sub.LastChecked = &checkedAt
	sub.LastConditions = conditions
}

// Len reports the number of active subscriptions
func (r *AlertRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscriptions)
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}
