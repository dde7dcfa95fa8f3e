package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"skywatch.app/config"
	apperrors "skywatch.app/errors"
	"skywatch.app/models"
	"skywatch.app/service"
)

// MockWeatherService for testing
type MockWeatherService struct {
	mock.Mock
}

func (m *MockWeatherService) GetCurrent(ctx context.Context, latitude, longitude float64, unit string) (*models.CurrentConditions, error) {
	args := m.Called(ctx, latitude, longitude, unit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CurrentConditions), args.Error(1)
}

func (m *MockWeatherService) GetDaily(ctx context.Context, latitude, longitude float64, days int, unit string) (*models.DailyForecast, error) {
	args := m.Called(ctx, latitude, longitude, days, unit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyForecast), args.Error(1)
}

func (m *MockWeatherService) GetHourly(ctx context.Context, latitude, longitude float64, hours int, unit string) (*models.HourlyForecast, error) {
	args := m.Called(ctx, latitude, longitude, hours, unit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HourlyForecast), args.Error(1)
}

// MockGeocodingService for testing
type MockGeocodingService struct {
	mock.Mock
}

func (m *MockGeocodingService) Geocode(ctx context.Context, query string, limit int) ([]models.Location, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Location), args.Error(1)
}

func (m *MockGeocodingService) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*models.Location, error) {
	args := m.Called(ctx, latitude, longitude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

// MockAgentService for testing
type MockAgentService struct {
	mock.Mock
}

func (m *MockAgentService) SendMessage(ctx context.Context, userID, message string) (*models.ChatResponse, error) {
	args := m.Called(ctx, userID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatResponse), args.Error(1)
}

func (m *MockAgentService) CreateAgent(ctx context.Context, userID string) (*models.AgentResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AgentResponse), args.Error(1)
}

func (m *MockAgentService) GetAgent(userID string) (*models.AgentResponse, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AgentResponse), args.Error(1)
}

func (m *MockAgentService) DeleteAgent(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAgentService) UpdatePreferences(userID string, req *models.PreferencesRequest) error {
	args := m.Called(userID, req)
	return args.Error(0)
}

// MockCalendarService for testing
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) ListEvents(ctx context.Context, userID string, daysAhead, maxResults int) ([]models.CalendarEvent, error) {
	args := m.Called(ctx, userID, daysAhead, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CalendarEvent), args.Error(1)
}

func (m *MockCalendarService) CreateReminder(ctx context.Context, req *models.CreateReminderRequest) (*models.CalendarEvent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CalendarEvent), args.Error(1)
}

func (m *MockCalendarService) Available(userID string) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

// MockNotificationService for testing
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) RegisterDevice(userID, deviceToken string) bool {
	args := m.Called(userID, deviceToken)
	return args.Bool(0)
}

func (m *MockNotificationService) UnregisterDevice(userID string) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

func (m *MockNotificationService) GetDeviceToken(userID string) (string, bool) {
	args := m.Called(userID)
	return args.String(0), args.Bool(1)
}

func (m *MockNotificationService) SendNotification(ctx context.Context, userID, title, body string, data map[string]string) bool {
	args := m.Called(ctx, userID, title, body, data)
	return args.Bool(0)
}

func (m *MockNotificationService) SendWeatherAlert(ctx context.Context, userID string, alert *models.Alert, location, severity string) bool {
	args := m.Called(ctx, userID, alert, location, severity)
	return args.Bool(0)
}

func (m *MockNotificationService) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockAlertService for testing
type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) Subscribe(userID string, latitude, longitude float64, locationName string, opts service.SubscribeOptions) bool {
	args := m.Called(userID, latitude, longitude, locationName, opts)
	return args.Bool(0)
}

func (m *MockAlertService) Unsubscribe(userID string) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

func (m *MockAlertService) UpdateSubscription(userID string, updates map[string]interface{}) bool {
	args := m.Called(userID, updates)
	return args.Bool(0)
}

func (m *MockAlertService) GetSubscription(userID string) *models.WeatherSubscription {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.WeatherSubscription)
}

func (m *MockAlertService) CheckWeatherForUser(ctx context.Context, userID string) []models.Alert {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Alert)
}

func (m *MockAlertService) SubscribedUserIDs() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// TestServerSetup contains all the components needed for testing
type TestServerSetup struct {
	Router           *gin.Engine
	MockWeather      *MockWeatherService
	MockGeocoding    *MockGeocodingService
	MockAgent        *MockAgentService
	MockCalendar     *MockCalendarService
	MockNotification *MockNotificationService
	MockAlerts       *MockAlertService
}

func setupTestServer() *TestServerSetup {
	gin.SetMode(gin.TestMode)

	setup := &TestServerSetup{
		MockWeather:      new(MockWeatherService),
		MockGeocoding:    new(MockGeocodingService),
		MockAgent:        new(MockAgentService),
		MockCalendar:     new(MockCalendarService),
		MockNotification: new(MockNotificationService),
		MockAlerts:       new(MockAlertService),
	}

	cfg := &config.Config{}
	cfg.Server.Port = 8080

	server := NewServer(
		cfg,
		setup.MockWeather,
		setup.MockGeocoding,
		setup.MockAgent,
		setup.MockCalendar,
		setup.MockNotification,
		setup.MockAlerts,
	)
	setup.Router = server.GetRouter()
	return setup
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCurrentWeatherEndpoint(t *testing.T) {
	setup := setupTestServer()

	conditions := &models.CurrentConditions{Temperature: 72.0, Description: "Partly cloudy"}
	setup.MockWeather.On("GetCurrent", mock.Anything, 40.7128, -74.0060, "fahrenheit").Return(conditions, nil)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/weather/current",
		`{"latitude": 40.7128, "longitude": -74.0060}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var got models.CurrentConditions
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	assert.Equal(t, 72.0, got.Temperature)
	setup.MockWeather.AssertExpectations(t)
}

func TestCurrentWeatherEndpoint_InvalidCoordinates(t *testing.T) {
	setup := setupTestServer()

	recorder := performRequest(setup.Router, http.MethodPost, "/api/weather/current",
		`{"latitude": 95.0, "longitude": 0}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	setup.MockWeather.AssertNotCalled(t, "GetCurrent")
}

func TestCurrentWeatherEndpoint_ExternalAPIError(t *testing.T) {
	setup := setupTestServer()

	setup.MockWeather.On("GetCurrent", mock.Anything, 40.7128, -74.0060, "fahrenheit").
		Return(nil, apperrors.NewExternalAPIError("weather API unreachable", nil))

	recorder := performRequest(setup.Router, http.MethodPost, "/api/weather/current",
		`{"latitude": 40.7128, "longitude": -74.0060}`)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestForecastEndpoint_QueryParams(t *testing.T) {
	setup := setupTestServer()

	forecast := &models.DailyForecast{}
	setup.MockWeather.On("GetDaily", mock.Anything, 40.7128, -74.0060, 3, "celsius").Return(forecast, nil)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/weather/forecast?days=3&units=celsius",
		`{"latitude": 40.7128, "longitude": -74.0060}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	setup.MockWeather.AssertExpectations(t)
}

func TestHourlyEndpoint_DefaultHours(t *testing.T) {
	setup := setupTestServer()

	forecast := &models.HourlyForecast{}
	setup.MockWeather.On("GetHourly", mock.Anything, 40.7128, -74.0060, 24, "fahrenheit").Return(forecast, nil)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/weather/hourly",
		`{"latitude": 40.7128, "longitude": -74.0060}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	setup.MockWeather.AssertExpectations(t)
}

func TestGeocodeEndpoint(t *testing.T) {
	setup := setupTestServer()

	locations := []models.Location{{Latitude: 51.5074, Longitude: -0.1278, Name: "London"}}
	setup.MockGeocoding.On("Geocode", mock.Anything, "london", 1).Return(locations, nil)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/geocode",
		`{"query": "london", "limit": 1}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "London")
}

func TestGeocodeEndpoint_MissingQuery(t *testing.T) {
	setup := setupTestServer()

	recorder := performRequest(setup.Router, http.MethodPost, "/api/geocode", `{}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestChatEndpoint(t *testing.T) {
	setup := setupTestServer()

	response := &models.ChatResponse{Response: "Sunny and 75.", AgentID: "agent-1"}
	setup.MockAgent.On("SendMessage", mock.Anything, "user-1", "How's the weather?").Return(response, nil)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/chat",
		`{"user_id": "user-1", "message": "How's the weather?"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Sunny and 75.")
}

func TestChatEndpoint_MissingFields(t *testing.T) {
	setup := setupTestServer()

	recorder := performRequest(setup.Router, http.MethodPost, "/api/chat", `{"user_id": "user-1"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	setup.MockAgent.AssertNotCalled(t, "SendMessage")
}

func TestSubscribeAlertsEndpoint(t *testing.T) {
	setup := setupTestServer()

	setup.MockAlerts.On("Subscribe", "user-1", 40.7128, -74.0060, "New York", mock.AnythingOfType("service.SubscribeOptions")).Return(true)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/alerts/subscribe",
		`{"user_id": "user-1", "latitude": 40.7128, "longitude": -74.0060, "location_name": "New York", "rain_alerts": false}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Subscribed to weather alerts")
	setup.MockAlerts.AssertExpectations(t)
}

func TestSubscribeAlertsEndpoint_MissingLocationName(t *testing.T) {
	setup := setupTestServer()

	recorder := performRequest(setup.Router, http.MethodPost, "/api/alerts/subscribe",
		`{"user_id": "user-1", "latitude": 40.7128, "longitude": -74.0060}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	setup.MockAlerts.AssertNotCalled(t, "Subscribe")
}

func TestUnsubscribeAlertsEndpoint(t *testing.T) {
	setup := setupTestServer()

	setup.MockAlerts.On("Unsubscribe", "user-1").Return(true)

	recorder := performRequest(setup.Router, http.MethodDelete, "/api/alerts/unsubscribe/user-1", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestUnsubscribeAlertsEndpoint_NotSubscribed(t *testing.T) {
	setup := setupTestServer()

	setup.MockAlerts.On("Unsubscribe", "ghost").Return(false)

	recorder := performRequest(setup.Router, http.MethodDelete, "/api/alerts/unsubscribe/ghost", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCheckAlertsEndpoint(t *testing.T) {
	setup := setupTestServer()

	sub := &models.WeatherSubscription{UserID: "user-1"}
	alerts := []models.Alert{{Kind: models.AlertRainComing, Message: "Rain soon"}}
	setup.MockAlerts.On("GetSubscription", "user-1").Return(sub)
	setup.MockAlerts.On("CheckWeatherForUser", mock.Anything, "user-1").Return(alerts)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/alerts/check/user-1", "")

	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, float64(1), body["count"])
}

func TestCheckAlertsEndpoint_NoSubscription(t *testing.T) {
	setup := setupTestServer()

	setup.MockAlerts.On("GetSubscription", "ghost").Return(nil)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/alerts/check/ghost", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	setup.MockAlerts.AssertNotCalled(t, "CheckWeatherForUser")
}

func TestRegisterDeviceEndpoint(t *testing.T) {
	setup := setupTestServer()

	setup.MockNotification.On("RegisterDevice", "user-1", "token-abc").Return(true)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/notifications/register",
		`{"user_id": "user-1", "device_token": "token-abc"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRegisterDeviceEndpoint_RegistryFull(t *testing.T) {
	setup := setupTestServer()

	setup.MockNotification.On("RegisterDevice", "user-1", "token-abc").Return(false)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/notifications/register",
		`{"user_id": "user-1", "device_token": "token-abc"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUnregisterDeviceEndpoint(t *testing.T) {
	setup := setupTestServer()

	setup.MockNotification.On("UnregisterDevice", "user-1").Return(true)

	recorder := performRequest(setup.Router, http.MethodDelete, "/api/notifications/unregister/user-1", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestTestNotificationEndpoint(t *testing.T) {
	setup := setupTestServer()

	setup.MockNotification.On("SendNotification", mock.Anything, "user-1", "Hello", "World", map[string]string(nil)).Return(true)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/notifications/test",
		`{"user_id": "user-1", "title": "Hello", "body": "World"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAgentEndpoints(t *testing.T) {
	setup := setupTestServer()

	agent := &models.AgentResponse{AgentID: "agent-1", UserID: "user-1", Status: "active"}
	setup.MockAgent.On("CreateAgent", mock.Anything, "user-1").Return(agent, nil)
	setup.MockAgent.On("GetAgent", "user-1").Return(agent, nil)
	setup.MockAgent.On("DeleteAgent", mock.Anything, "user-1").Return(nil)

	recorder := performRequest(setup.Router, http.MethodPost, "/api/agent/create", `{"user_id": "user-1"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(setup.Router, http.MethodGet, "/api/agent/user-1", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "agent-1")

	recorder = performRequest(setup.Router, http.MethodDelete, "/api/agent/user-1", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetAgentEndpoint_NotFound(t *testing.T) {
	setup := setupTestServer()

	setup.MockAgent.On("GetAgent", "ghost").Return(nil, apperrors.NewNotFoundError("agent not found"))

	recorder := performRequest(setup.Router, http.MethodGet, "/api/agent/ghost", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdatePreferencesEndpoint(t *testing.T) {
	setup := setupTestServer()

	setup.MockAgent.On("UpdatePreferences", "user-1", mock.AnythingOfType("*models.PreferencesRequest")).Return(nil)

	recorder := performRequest(setup.Router, http.MethodPut, "/api/agent/user-1/preferences",
		`{"temperature_unit": "celsius"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestCalendarEventsEndpoint(t *testing.T) {
	setup := setupTestServer()

	events := []models.CalendarEvent{{ID: "evt-1", Summary: "Picnic"}}
	setup.MockCalendar.On("ListEvents", mock.Anything, "user-1", 3, 5).Return(events, nil)

	recorder := performRequest(setup.Router, http.MethodGet, "/api/calendar/events?user_id=user-1&days_ahead=3&max_results=5", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Picnic")
}

func TestCalendarEventsEndpoint_Unconnected(t *testing.T) {
	setup := setupTestServer()

	setup.MockCalendar.On("ListEvents", mock.Anything, "user-1", 7, 10).
		Return(nil, apperrors.NewUnavailableError("calendar not connected for user"))

	recorder := performRequest(setup.Router, http.MethodGet, "/api/calendar/events?user_id=user-1", "")

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestHealthEndpoint(t *testing.T) {
	setup := setupTestServer()

	setup.MockNotification.On("Available").Return(false)

	recorder := performRequest(setup.Router, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	services := body["services"].(map[string]interface{})
	assert.Equal(t, false, services["notifications"])
}

func TestMetricsEndpoint(t *testing.T) {
	setup := setupTestServer()

	recorder := performRequest(setup.Router, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
}
