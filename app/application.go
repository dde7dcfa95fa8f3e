// Package app wires configuration, storage, providers, services and the
// HTTP server into a runnable application.
package app

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
	"skywatch.app/api"
	"skywatch.app/config"
	"skywatch.app/database"
	"skywatch.app/providers"
	"skywatch.app/repository"
	"skywatch.app/scheduler"
	"skywatch.app/service"
)

// Application represents the main application with all its dependencies
type Application struct {
	config  *config.Config
	db      *gorm.DB
	server  *api.Server
	monitor *scheduler.AlertMonitor
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeDatabase() error {
	slog.Info("Initializing database...")

	db, err := database.InitDB(app.config.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		return fmt.Errorf("run database migrations: %w", err)
	}

	app.db = db
	slog.Info("Database initialized successfully")
	return nil
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	clock := clockwork.NewRealClock()

	weatherProvider := app.createWeatherProvider()
	geocodingProvider := providers.NewNominatimProvider(&app.config.Geocoding)
	pushProvider := providers.NewFCMProvider(&app.config.Push)
	calendarProvider := providers.NewGoogleCalendarProvider(&app.config.Calendar)

	agentRepo := repository.NewAgentRepository(app.db)
	preferenceRepo := repository.NewPreferenceRepository(app.db)
	credentialRepo := repository.NewCredentialRepository(app.db)

	weatherService := service.NewWeatherService(weatherProvider)
	geocodingService := service.NewGeocodingService(geocodingProvider)

	notificationService := service.NewNotificationService(
		pushProvider, clock, app.config.Push.MaxTokens, app.config.Push.TokenTTL)

	registry := service.NewAlertRegistry()
	alertService := service.NewWeatherAlertService(
		registry, weatherService, notificationService, clock, app.config.Alerts)

	fallback := service.NewKeywordResponder(weatherService, geocodingService, preferenceRepo)
	agentService := service.NewAgentService(
		providers.NewLettaClient(&app.config.Agent), fallback, agentRepo, preferenceRepo)

	calendarService := service.NewCalendarService(calendarProvider, credentialRepo, app.config.Calendar)

	app.server = api.NewServer(
		app.config,
		weatherService,
		geocodingService,
		agentService,
		calendarService,
		notificationService,
		alertService,
	)
	app.monitor = scheduler.NewAlertMonitor(
		alertService, notificationService, clock, app.config.Alerts.CheckInterval)

	slog.Info("Services initialized successfully")
	return nil
}

// createWeatherProvider assembles the Open-Meteo client with its logging
// decorator and cache proxy
func (app *Application) createWeatherProvider() providers.WeatherProvider {
	var provider providers.WeatherProvider = providers.NewOpenMeteoProvider(&app.config.Weather)
	provider = providers.NewWeatherLoggerDecorator(provider, "open-meteo")

	conditionsCache := providers.NewConditionsCache(&app.config.Cache)
	provider = providers.NewWeatherCacheProxy(
		provider, conditionsCache, app.config.Cache.Type, app.config.Cache.TTL)

	return provider
}

// Start starts the application
func (app *Application) Start() error {
	slog.Info("Starting application...")

	slog.Info("Starting alert monitor...")
	app.monitor.Start()

	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if app.monitor != nil {
		app.monitor.Stop()
	}

	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("Error closing database", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}
