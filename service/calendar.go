package service

import (
	"context"
	"time"

	"skywatch.app/config"
	"skywatch.app/errors"
	"skywatch.app/models"
	"skywatch.app/providers"
	"skywatch.app/repository"
)

// CalendarService wraps the calendar provider with per-user credential
// storage. Missing OAuth configuration is a permanent unavailable state,
// not a hard failure.
type CalendarService struct {
	provider    providers.CalendarProvider
	credentials *repository.CredentialRepository
	cfg         config.CalendarConfig
}

// NewCalendarService creates the calendar service
func NewCalendarService(provider providers.CalendarProvider, credentials *repository.CredentialRepository, cfg config.CalendarConfig) *CalendarService {
	return &CalendarService{
		provider:    provider,
		credentials: credentials,
		cfg:         cfg,
	}
}

// Available reports whether the calendar integration can serve a user:
// OAuth must be configured and the user must have stored credentials.
func (s *CalendarService) Available(userID string) bool {
	if !s.cfg.Configured() {
		return false
	}
	if userID == "" {
		return true
	}
	credential, err := s.credentials.FindByUserID(userID)
	return err == nil && credential != nil
}

func (s *CalendarService) accessTokenFor(userID string) (string, error) {
	if !s.cfg.Configured() {
		return "", errors.NewUnavailableError("calendar not configured, OAuth credentials missing")
	}
	credential, err := s.credentials.FindByUserID(userID)
	if err != nil {
		return "", errors.NewDatabaseError("failed to look up calendar credential", err)
	}
	if credential == nil {
		return "", errors.NewUnavailableError("calendar not connected for this user")
	}
	return credential.AccessToken, nil
}

// ListEvents returns upcoming events for a user within daysAhead days
func (s *CalendarService) ListEvents(ctx context.Context, userID string, daysAhead, maxResults int) ([]models.CalendarEvent, error) {
	accessToken, err := s.accessTokenFor(userID)
	if err != nil {
		return nil, err
	}

	if daysAhead < 1 {
		daysAhead = 7
	}
	if maxResults < 1 {
		maxResults = 10
	}

	now := time.Now().UTC()
	return s.provider.ListEvents(ctx, accessToken,
		now.Format(time.RFC3339),
		now.AddDate(0, 0, daysAhead).Format(time.RFC3339),
		maxResults)
}

// CreateReminder creates a 30-minute weather reminder event
func (s *CalendarService) CreateReminder(ctx context.Context, req *models.CreateReminderRequest) (*models.CalendarEvent, error) {
	accessToken, err := s.accessTokenFor(req.UserID)
	if err != nil {
		return nil, err
	}

	event := &models.CalendarEvent{
		Summary:     req.Title,
		Description: req.WeatherNote,
		Start:       req.EventTime.UTC().Format(time.RFC3339),
		End:         req.EventTime.Add(30 * time.Minute).UTC().Format(time.RFC3339),
	}
	return s.provider.CreateEvent(ctx, accessToken, event)
}
