package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"skywatch.app/config"
	"skywatch.app/errors"
)

// FCMProvider implements PushProvider against the FCM HTTP v1 API.
// When credentials are not configured the provider reports itself
// unavailable and the notification service degrades to logging.
type FCMProvider struct {
	endpoint    string
	projectID   string
	credentials string
	client      *http.Client
	available   bool
}

// NewFCMProvider creates a push provider and probes its availability
func NewFCMProvider(cfg *config.PushConfig) *FCMProvider {
	provider := &FCMProvider{
		endpoint:    cfg.Endpoint,
		projectID:   cfg.ProjectID,
		credentials: cfg.Credentials,
		client:      &http.Client{Timeout: cfg.Timeout},
		available:   cfg.Configured(),
	}

	if !provider.available {
		slog.Info("Push transport not configured, notifications will be logged only")
	}
	return provider
}

// Available reports whether the push transport can deliver notifications
func (p *FCMProvider) Available() bool {
	return p.available
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmSendRequest struct {
	Message fcmMessage `json:"message"`
}

// Send delivers a titled message with an optional data payload to a device token
func (p *FCMProvider) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if !p.available {
		return errors.NewUnavailableError("push transport not configured")
	}
	if deviceToken == "" {
		return errors.NewValidationError("device token cannot be empty")
	}

	payload := fcmSendRequest{
		Message: fcmMessage{
			Token:        deviceToken,
			Notification: fcmNotification{Title: title, Body: body},
			Data:         data,
		},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return errors.NewNotificationError("failed to encode push message", err)
	}

	requestURL := fmt.Sprintf("%s/projects/%s/messages:send", p.endpoint, p.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(encoded))
	if err != nil {
		return errors.NewNotificationError("failed to build push request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.credentials)

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.NewNotificationError("failed to send push notification", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.NewNotificationError(fmt.Sprintf("push transport returned status code %d", resp.StatusCode), nil)
	}
	return nil
}
