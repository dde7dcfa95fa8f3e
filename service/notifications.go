package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"skywatch.app/metrics"
	"skywatch.app/models"
	"skywatch.app/providers"
)

var severityIcons = map[string]string{
	"info":    "ℹ️",
	"warning": "⚠️",
	"severe":  "🚨",
}

// NotificationService owns the device token registry and delivers push
// notifications through the configured transport. When the transport is
// unavailable the payload is logged and the send still reports success,
// so the alert pipeline stays testable without a live push backend.
type NotificationService struct {
	push      providers.PushProvider
	clock     clockwork.Clock
	maxTokens int
	tokenTTL  time.Duration

	mu      sync.Mutex
	devices map[string]*models.DeviceRegistration
}

// NewNotificationService creates a notification service with the given
// capacity limits. maxTokens bounds the registry; tokenTTL is the
// inactivity window after which entries become evictable.
func NewNotificationService(push providers.PushProvider, clock clockwork.Clock, maxTokens int, tokenTTL time.Duration) *NotificationService {
	return &NotificationService{
		push:      push,
		clock:     clock,
		maxTokens: maxTokens,
		tokenTTL:  tokenTTL,
		devices:   make(map[string]*models.DeviceRegistration),
	}
}

// Available reports whether the underlying push transport is configured
func (s *NotificationService) Available() bool {
	return s.push.Available()
}

// RegisterDevice stores a device token for a user, overwriting any prior
// one. Returns false only when the registry is full and the user is not
// already present; existing users may always update their own entry.
func (s *NotificationService) RegisterDevice(userID, deviceToken string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.devices[userID]; !exists && len(s.devices) >= s.maxTokens {
		s.evictStaleLocked()
		if len(s.devices) >= s.maxTokens {
			slog.Warn("Device registry at capacity, rejecting registration", "user_id", userID)
			return false
		}
	}

	now := s.clock.Now()
	s.devices[userID] = &models.DeviceRegistration{
		Token:        deviceToken,
		RegisteredAt: now,
		LastUsed:     now,
	}
	return true
}

// UnregisterDevice removes a user's device token, reporting whether one existed
func (s *NotificationService) UnregisterDevice(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.devices[userID]; !ok {
		return false
	}
	delete(s.devices, userID)
	return true
}

// GetDeviceToken returns the registered token for a user. A successful
// lookup counts as use and refreshes the entry's eviction clock.
func (s *NotificationService) GetDeviceToken(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registration, ok := s.devices[userID]
	if !ok {
		return "", false
	}
	registration.LastUsed = s.clock.Now()
	return registration.Token, true
}

// DeviceCount reports the number of registered devices
func (s *NotificationService) DeviceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.devices)
}

// CleanupStaleDevices removes entries idle longer than the TTL and
// returns how many were evicted
func (s *NotificationService) CleanupStaleDevices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictStaleLocked()
}

func (s *NotificationService) evictStaleLocked() int {
	cutoff := s.clock.Now().Add(-s.tokenTTL)
	evicted := 0
	for userID, registration := range s.devices {
		if registration.LastUsed.Before(cutoff) {
			delete(s.devices, userID)
			evicted++
		}
	}
	if evicted > 0 {
		slog.Info("Evicted stale device registrations", "count", evicted)
	}
	return evicted
}

// SendNotification delivers a titled message to a user's device. Returns
// false when no token is registered. When the push transport is
// unavailable the notification is logged and reported as sent.
func (s *NotificationService) SendNotification(ctx context.Context, userID, title, body string, data map[string]string) bool {
	deviceToken, ok := s.GetDeviceToken(userID)
	if !ok {
		slog.Debug("No device token for user", "user_id", userID)
		metrics.RecordNotification("no_token")
		return false
	}

	if !s.push.Available() {
		slog.Info("Push transport unavailable, logging notification",
			"user_id", userID, "title", title, "body", body, "data", data)
		metrics.RecordNotification("logged")
		return true
	}

	if err := s.push.Send(ctx, deviceToken, title, body, data); err != nil {
		slog.Error("Failed to send notification", "error", err, "user_id", userID)
		metrics.RecordNotification("failed")
		return false
	}

	metrics.RecordNotification("sent")
	return true
}

// SendWeatherAlert sends an alert notification with a severity-tagged
// title and a structured data payload
func (s *NotificationService) SendWeatherAlert(ctx context.Context, userID string, alert *models.Alert, location, severity string) bool {
	icon, ok := severityIcons[severity]
	if !ok {
		icon = "🌤️"
	}

	title := icon + " Weather Alert - " + location
	data := map[string]string{
		"type":       "weather_alert",
		"alert_type": string(alert.Kind),
		"location":   location,
		"severity":   severity,
		"timestamp":  s.clock.Now().UTC().Format(time.RFC3339),
	}

	return s.SendNotification(ctx, userID, title, alert.Message, data)
}
