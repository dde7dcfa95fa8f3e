package app

import (
	"log"
	"os"
	"sort"
	"strings"

	"skywatch.app/config"
)

// ConfigDisplayer handles configuration and environment variable display
type ConfigDisplayer struct{}

// NewConfigDisplayer creates a new configuration displayer
func NewConfigDisplayer() *ConfigDisplayer {
	return &ConfigDisplayer{}
}

// PrintConfig prints all fields in the configuration
func (cd *ConfigDisplayer) PrintConfig(cfg *config.Config) {
	log.Println("==== APPLICATION CONFIGURATION ====")

	log.Printf("SERVER:\n")
	log.Printf("  Port: %d\n", cfg.Server.Port)

	log.Printf("\nDATABASE:\n")
	log.Printf("  Host: %s\n", cfg.Database.Host)
	log.Printf("  Port: %d\n", cfg.Database.Port)
	log.Printf("  User: %s\n", cfg.Database.User)
	log.Printf("  Password: %s\n", cd.maskString(cfg.Database.Password))
	log.Printf("  Name: %s\n", cfg.Database.Name)
	log.Printf("  SSLMode: %s\n", cfg.Database.SSLMode)

	log.Printf("\nWEATHER API:\n")
	log.Printf("  Base URL: %s\n", cfg.Weather.BaseURL)
	log.Printf("  Default Unit: %s\n", cfg.Weather.DefaultUnit)

	log.Printf("\nGEOCODING:\n")
	log.Printf("  Base URL: %s\n", cfg.Geocoding.BaseURL)
	log.Printf("  User Agent: %s\n", cfg.Geocoding.UserAgent)

	log.Printf("\nPUSH:\n")
	log.Printf("  Project ID: %s\n", cfg.Push.ProjectID)
	log.Printf("  Credentials: %s\n", cd.maskString(cfg.Push.Credentials))
	log.Printf("  Max Tokens: %d\n", cfg.Push.MaxTokens)
	log.Printf("  Token TTL: %s\n", cfg.Push.TokenTTL)

	log.Printf("\nALERTS:\n")
	log.Printf("  Check Interval: %s\n", cfg.Alerts.CheckInterval)
	log.Printf("  Forecast Hours: %d\n", cfg.Alerts.ForecastHours)
	log.Printf("  Rain Probability: %.0f%%\n", cfg.Alerts.RainProbability)

	log.Printf("\nAGENT:\n")
	log.Printf("  Base URL: %s\n", cfg.Agent.BaseURL)

	log.Printf("\nCALENDAR:\n")
	log.Printf("  Configured: %t\n", cfg.Calendar.Configured())

	log.Printf("\nCACHE:\n")
	log.Printf("  Type: %s\n", cfg.Cache.Type)
	log.Printf("  TTL: %s\n", cfg.Cache.TTL)

	log.Println("===================================")
}

// PrintAllEnvVars prints all environment variables available to the application
func (cd *ConfigDisplayer) PrintAllEnvVars() {
	log.Println("==== ENVIRONMENT VARIABLES ====")

	envVars := os.Environ()
	sort.Strings(envVars)

	for _, env := range envVars {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name, value := parts[0], parts[1]
		if cd.isSensitive(name) {
			value = cd.maskString(value)
		}
		log.Printf("%s=%s\n", name, value)
	}

	log.Println("===============================")
}

func (cd *ConfigDisplayer) isSensitive(name string) bool {
	upper := strings.ToUpper(name)
	return strings.Contains(upper, "PASSWORD") ||
		strings.Contains(upper, "SECRET") ||
		strings.Contains(upper, "TOKEN") ||
		strings.Contains(upper, "CREDENTIALS") ||
		strings.Contains(upper, "KEY")
}

func (cd *ConfigDisplayer) maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
