package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"skywatch.app/config"
	"skywatch.app/errors"
	"skywatch.app/models"
)

// GoogleCalendarProvider implements CalendarProvider against the Google
// Calendar v3 REST API using a caller-supplied OAuth access token.
type GoogleCalendarProvider struct {
	baseURL string
	client  *http.Client
}

// NewGoogleCalendarProvider creates a Google Calendar client
func NewGoogleCalendarProvider(cfg *config.CalendarConfig) *GoogleCalendarProvider {
	return &GoogleCalendarProvider{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type googleEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

type googleEvent struct {
	ID          string          `json:"id,omitempty"`
	Summary     string          `json:"summary"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	Start       googleEventTime `json:"start"`
	End         googleEventTime `json:"end"`
}

type googleEventList struct {
	Items []googleEvent `json:"items"`
}

// ListEvents returns events in a time range, ordered by start time
func (p *GoogleCalendarProvider) ListEvents(ctx context.Context, accessToken, timeMin, timeMax string, maxResults int) ([]models.CalendarEvent, error) {
	params := url.Values{}
	params.Set("timeMin", timeMin)
	params.Set("timeMax", timeMax)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")

	requestURL := fmt.Sprintf("%s/calendars/primary/events?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to build calendar request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to reach calendar API", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("calendar API returned status code %d", resp.StatusCode), nil)
	}

	var list googleEventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode calendar events", err)
	}

	events := make([]models.CalendarEvent, 0, len(list.Items))
	for _, item := range list.Items {
		events = append(events, item.toEvent())
	}
	return events, nil
}

// CreateEvent inserts an event into the user's primary calendar
func (p *GoogleCalendarProvider) CreateEvent(ctx context.Context, accessToken string, event *models.CalendarEvent) (*models.CalendarEvent, error) {
	payload := googleEvent{
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start:       googleEventTime{DateTime: event.Start},
		End:         googleEventTime{DateTime: event.End},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to encode calendar event", err)
	}

	requestURL := fmt.Sprintf("%s/calendars/primary/events", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to build calendar request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to reach calendar API", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("calendar API returned status code %d", resp.StatusCode), nil)
	}

	var created googleEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode calendar event", err)
	}
	result := created.toEvent()
	return &result, nil
}

func (e googleEvent) toEvent() models.CalendarEvent {
	event := models.CalendarEvent{
		ID:          e.ID,
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
	}
	if e.Start.DateTime != "" {
		event.Start = e.Start.DateTime
		event.End = e.End.DateTime
	} else {
		event.Start = e.Start.Date
		event.End = e.End.Date
		event.AllDay = true
	}
	return event
}
