package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"skywatch.app/config"
	skyerr "skywatch.app/errors"
	"skywatch.app/models"
	"skywatch.app/service"
)

// Server represents the HTTP server and API handler
type Server struct {
	router       *gin.Engine
	config       *config.Config
	weather      service.WeatherServiceInterface
	geocoding    service.GeocodingServiceInterface
	agent        service.AgentServiceInterface
	calendar     service.CalendarServiceInterface
	notification service.NotificationServiceInterface
	alerts       service.AlertServiceInterface
}

// validateTemperatureUnit validates the temperature unit enum value
func validateTemperatureUnit(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == models.UnitFahrenheit || value == models.UnitCelsius
}

// NewServer creates and configures a new HTTP server
func NewServer(
	config *config.Config,
	weather service.WeatherServiceInterface,
	geocoding service.GeocodingServiceInterface,
	agent service.AgentServiceInterface,
	calendar service.CalendarServiceInterface,
	notification service.NotificationServiceInterface,
	alerts service.AlertServiceInterface,
) *Server {
	router := gin.Default()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("tempunit", validateTemperatureUnit); err != nil {
			slog.Warn("Failed to register temperature unit validator", "error", err)
		}
	}

	server := &Server{
		router:       router,
		config:       config,
		weather:      weather,
		geocoding:    geocoding,
		agent:        agent,
		calendar:     calendar,
		notification: notification,
		alerts:       alerts,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.POST("/chat", s.chat)

		api.POST("/weather/current", s.currentWeather)
		api.POST("/weather/forecast", s.dailyForecast)
		api.POST("/weather/hourly", s.hourlyForecast)

		api.POST("/geocode", s.geocode)
		api.POST("/reverse-geocode", s.reverseGeocode)

		api.GET("/calendar/events", s.calendarEvents)
		api.POST("/calendar/reminder", s.createReminder)

		api.POST("/agent/create", s.createAgent)
		api.GET("/agent/:user_id", s.getAgent)
		api.DELETE("/agent/:user_id", s.deleteAgent)
		api.PUT("/agent/:user_id/preferences", s.updatePreferences)

		api.POST("/notifications/register", s.registerDevice)
		api.DELETE("/notifications/unregister/:user_id", s.unregisterDevice)
		api.POST("/notifications/test", s.testNotification)

		api.POST("/alerts/subscribe", s.subscribeAlerts)
		api.DELETE("/alerts/unsubscribe/:user_id", s.unsubscribeAlerts)
		api.POST("/alerts/check/:user_id", s.checkAlerts)

		api.GET("/health", s.health)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("invalid request format"))
		return
	}

	slog.Debug("Chat message received", "user_id", req.UserID)

	resp, err := s.agent.SendMessage(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		slog.Error("Chat error", "error", err, "user_id", req.UserID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) currentWeather(c *gin.Context) {
	var req models.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("latitude and longitude are required"))
		return
	}

	unit := c.DefaultQuery("units", "fahrenheit")

	conditions, err := s.weather.GetCurrent(c.Request.Context(), req.Latitude, req.Longitude, unit)
	if err != nil {
		slog.Error("Current weather error", "error", err, "latitude", req.Latitude, "longitude", req.Longitude)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, conditions)
}

func (s *Server) dailyForecast(c *gin.Context) {
	var req models.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("latitude and longitude are required"))
		return
	}

	days := intQuery(c, "days", 7)
	unit := c.DefaultQuery("units", "fahrenheit")

	forecast, err := s.weather.GetDaily(c.Request.Context(), req.Latitude, req.Longitude, days, unit)
	if err != nil {
		slog.Error("Forecast error", "error", err, "latitude", req.Latitude, "longitude", req.Longitude)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, forecast)
}

func (s *Server) hourlyForecast(c *gin.Context) {
	var req models.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("latitude and longitude are required"))
		return
	}

	hours := intQuery(c, "hours", 24)
	unit := c.DefaultQuery("units", "fahrenheit")

	forecast, err := s.weather.GetHourly(c.Request.Context(), req.Latitude, req.Longitude, hours, unit)
	if err != nil {
		slog.Error("Hourly forecast error", "error", err, "latitude", req.Latitude, "longitude", req.Longitude)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, forecast)
}

func (s *Server) geocode(c *gin.Context) {
	var req models.GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("query is required"))
		return
	}

	locations, err := s.geocoding.Geocode(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		slog.Error("Geocode error", "error", err, "query", req.Query)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": locations})
}

func (s *Server) reverseGeocode(c *gin.Context) {
	var req models.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("latitude and longitude are required"))
		return
	}

	location, err := s.geocoding.ReverseGeocode(c.Request.Context(), req.Latitude, req.Longitude)
	if err != nil {
		slog.Error("Reverse geocode error", "error", err, "latitude", req.Latitude, "longitude", req.Longitude)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}

func (s *Server) calendarEvents(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		s.handleError(c, skyerr.NewValidationError("user_id parameter is required"))
		return
	}

	daysAhead := intQuery(c, "days_ahead", 7)
	maxResults := intQuery(c, "max_results", 10)

	events, err := s.calendar.ListEvents(c.Request.Context(), userID, daysAhead, maxResults)
	if err != nil {
		slog.Error("Calendar events error", "error", err, "user_id", userID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

func (s *Server) createReminder(c *gin.Context) {
	var req models.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("invalid request format"))
		return
	}

	event, err := s.calendar.CreateReminder(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Create reminder error", "error", err, "user_id", req.UserID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (s *Server) createAgent(c *gin.Context) {
	var req models.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("user_id is required"))
		return
	}

	resp, err := s.agent.CreateAgent(c.Request.Context(), req.UserID)
	if err != nil {
		slog.Error("Create agent error", "error", err, "user_id", req.UserID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) getAgent(c *gin.Context) {
	userID := c.Param("user_id")

	resp, err := s.agent.GetAgent(userID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) deleteAgent(c *gin.Context) {
	userID := c.Param("user_id")

	if err := s.agent.DeleteAgent(c.Request.Context(), userID); err != nil {
		slog.Error("Delete agent error", "error", err, "user_id", userID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Agent deleted"})
}

func (s *Server) updatePreferences(c *gin.Context) {
	userID := c.Param("user_id")

	var req models.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("invalid request format"))
		return
	}

	if err := s.agent.UpdatePreferences(userID, &req); err != nil {
		slog.Error("Update preferences error", "error", err, "user_id", userID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preferences updated"})
}

func (s *Server) registerDevice(c *gin.Context) {
	var req models.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("user_id and device_token are required"))
		return
	}

	if !s.notification.RegisterDevice(req.UserID, req.DeviceToken) {
		s.handleError(c, skyerr.NewValidationError("device registry is full"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device registered"})
}

func (s *Server) unregisterDevice(c *gin.Context) {
	userID := c.Param("user_id")

	if !s.notification.UnregisterDevice(userID) {
		s.handleError(c, skyerr.NewNotFoundError("no device registered for user"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device unregistered"})
}

func (s *Server) testNotification(c *gin.Context) {
	var req models.TestNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("user_id, title and body are required"))
		return
	}

	sent := s.notification.SendNotification(c.Request.Context(), req.UserID, req.Title, req.Body, nil)
	if !sent {
		s.handleError(c, skyerr.NewNotificationError("notification could not be delivered", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification sent"})
}

func (s *Server) subscribeAlerts(c *gin.Context) {
	var req models.SubscribeAlertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, skyerr.NewValidationError("invalid request format"))
		return
	}

	opts := service.SubscribeOptions{
		RainAlerts:          req.RainAlerts,
		TemperatureAlerts:   req.TemperatureAlerts,
		SevereWeatherAlerts: req.SevereWeatherAlerts,
	}

	s.alerts.Subscribe(req.UserID, req.Latitude, req.Longitude, req.LocationName, opts)

	slog.Debug("Alert subscription created", "user_id", req.UserID, "location", req.LocationName)
	c.JSON(http.StatusOK, gin.H{"message": "Subscribed to weather alerts", "location": req.LocationName})
}

func (s *Server) unsubscribeAlerts(c *gin.Context) {
	userID := c.Param("user_id")

	if !s.alerts.Unsubscribe(userID) {
		s.handleError(c, skyerr.NewNotFoundError("no alert subscription for user"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed from weather alerts"})
}

func (s *Server) checkAlerts(c *gin.Context) {
	userID := c.Param("user_id")

	if s.alerts.GetSubscription(userID) == nil {
		s.handleError(c, skyerr.NewNotFoundError("no alert subscription for user"))
		return
	}

	alerts := s.alerts.CheckWeatherForUser(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"alerts":  alerts,
		"count":   len(alerts),
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"services": gin.H{
			"weather":       true,
			"geocoding":     true,
			"notifications": s.notification.Available(),
			"agent":         s.config.Agent.BaseURL != "",
			"calendar":      s.config.Calendar.Configured(),
		},
	})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
