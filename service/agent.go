package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"skywatch.app/errors"
	"skywatch.app/models"
	"skywatch.app/providers"
	"skywatch.app/repository"
)

// AgentService manages per-user conversational agents. A Letta-compatible
// agent server is the primary responder; a local keyword matcher answers
// when the server is unconfigured or unreachable. The two are variants of
// the same capability, selected per request.
type AgentService struct {
	letta       *providers.LettaClient
	fallback    *KeywordResponder
	agents      *repository.AgentRepository
	preferences *repository.PreferenceRepository
}

// NewAgentService creates the agent service. letta may be nil, in which
// case every request is answered by the local fallback.
func NewAgentService(
	letta *providers.LettaClient,
	fallback *KeywordResponder,
	agents *repository.AgentRepository,
	preferences *repository.PreferenceRepository,
) *AgentService {
	return &AgentService{
		letta:       letta,
		fallback:    fallback,
		agents:      agents,
		preferences: preferences,
	}
}

// CreateAgent provisions an agent for a user. An existing agent is
// returned as-is rather than recreated.
func (s *AgentService) CreateAgent(ctx context.Context, userID string) (*models.AgentResponse, error) {
	existing, err := s.agents.FindByUserID(userID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to look up agent", err)
	}
	if existing != nil {
		return &models.AgentResponse{AgentID: existing.AgentID, UserID: userID, Status: "active"}, nil
	}

	record := &models.AgentRecord{UserID: userID}
	if s.letta != nil {
		agentID, err := s.letta.CreateAgent(ctx, userID)
		if err == nil {
			record.AgentID = agentID
			record.Backend = "letta"
		} else {
			slog.Warn("Agent server unreachable, creating local agent", "error", err, "user_id", userID)
		}
	}
	if record.AgentID == "" {
		record.AgentID = "local-" + uuid.NewString()
		record.Backend = "local"
	}

	if err := s.agents.Upsert(record); err != nil {
		return nil, errors.NewDatabaseError("failed to store agent record", err)
	}
	return &models.AgentResponse{AgentID: record.AgentID, UserID: userID, Status: "active"}, nil
}

// GetAgent returns the agent for a user, or a not-found error
func (s *AgentService) GetAgent(userID string) (*models.AgentResponse, error) {
	record, err := s.agents.FindByUserID(userID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to look up agent", err)
	}
	if record == nil {
		return nil, errors.NewNotFoundError("agent not found")
	}
	return &models.AgentResponse{AgentID: record.AgentID, UserID: userID, Status: "active"}, nil
}

// DeleteAgent removes a user's agent from the backend and the record store
func (s *AgentService) DeleteAgent(ctx context.Context, userID string) error {
	record, err := s.agents.FindByUserID(userID)
	if err != nil {
		return errors.NewDatabaseError("failed to look up agent", err)
	}
	if record == nil {
		return errors.NewNotFoundError("agent not found")
	}

	if record.Backend == "letta" && s.letta != nil {
		if err := s.letta.DeleteAgent(ctx, record.AgentID); err != nil {
			slog.Warn("Failed to delete agent on server, removing record anyway", "error", err, "agent_id", record.AgentID)
		}
	}
	if err := s.agents.Delete(userID); err != nil {
		return errors.NewDatabaseError("failed to delete agent record", err)
	}
	return nil
}

// SendMessage routes a chat message to the user's agent, creating one on
// first contact. Primary backend failures degrade to the local responder
// for that request rather than surfacing an error.
func (s *AgentService) SendMessage(ctx context.Context, userID, message string) (*models.ChatResponse, error) {
	agent, err := s.CreateAgent(ctx, userID)
	if err != nil {
		return nil, err
	}

	record, err := s.agents.FindByUserID(userID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to look up agent", err)
	}

	if record != nil && record.Backend == "letta" && s.letta != nil {
		reply, toolCalls, err := s.letta.SendMessage(ctx, record.AgentID, message)
		if err == nil {
			response := &models.ChatResponse{Response: reply, AgentID: record.AgentID}
			for _, call := range toolCalls {
				response.ToolCalls = append(response.ToolCalls, models.ToolCall{Name: call.Name, Arguments: call.Arguments})
			}
			return response, nil
		}
		slog.Warn("Agent server failed, answering with local responder", "error", err, "user_id", userID)
	}

	return s.fallback.Respond(ctx, userID, agent.AgentID, message)
}

// UpdatePreferences stores the user's preference settings
func (s *AgentService) UpdatePreferences(userID string, req *models.PreferencesRequest) error {
	preference, err := s.preferences.FindByUserID(userID)
	if err != nil {
		return errors.NewDatabaseError("failed to look up preferences", err)
	}
	if preference == nil {
		preference = &models.UserPreference{
			UserID:              userID,
			TemperatureUnit:     "fahrenheit",
			NotificationEnabled: true,
		}
	}

	if req.TemperatureUnit != "" {
		preference.TemperatureUnit = req.TemperatureUnit
	}
	if req.HomeLatitude != nil {
		preference.HomeLatitude = req.HomeLatitude
	}
	if req.HomeLongitude != nil {
		preference.HomeLongitude = req.HomeLongitude
	}
	if req.HomeLocationName != "" {
		preference.HomeLocationName = req.HomeLocationName
	}
	if req.NotificationEnabled != nil {
		preference.NotificationEnabled = *req.NotificationEnabled
	}

	if err := s.preferences.Save(preference); err != nil {
		return errors.NewDatabaseError("failed to store preferences", err)
	}
	return nil
}

// KeywordResponder is the local conversational fallback. It matches
// message keywords against weather intents and answers from the weather
// and geocoding services directly.
type KeywordResponder struct {
	weather     WeatherServiceInterface
	geocoding   GeocodingServiceInterface
	preferences *repository.PreferenceRepository
}

// NewKeywordResponder creates the local fallback responder
func NewKeywordResponder(
	weather WeatherServiceInterface,
	geocoding GeocodingServiceInterface,
	preferences *repository.PreferenceRepository,
) *KeywordResponder {
	return &KeywordResponder{
		weather:     weather,
		geocoding:   geocoding,
		preferences: preferences,
	}
}

// Respond answers a chat message by keyword matching
func (r *KeywordResponder) Respond(ctx context.Context, userID, agentID, message string) (*models.ChatResponse, error) {
	lowered := strings.ToLower(message)
	response := &models.ChatResponse{AgentID: agentID}

	lat, lon, locationName, hasLocation := r.resolveLocation(ctx, userID, lowered, response)

	switch {
	case containsAny(lowered, "forecast", "tomorrow", "this week", "next few days"):
		if !hasLocation {
			response.Response = "I can get you a forecast, but I don't know which location. Tell me a city, or set a home location in your preferences."
			return response, nil
		}
		forecast, err := r.weather.GetDaily(ctx, lat, lon, 7, "")
		if err != nil {
			response.Response = "I couldn't reach the weather service just now. Please try again in a moment."
			return response, nil
		}
		response.ToolCalls = append(response.ToolCalls, models.ToolCall{Name: "get_weather_forecast"})
		response.Response = summarizeDaily(locationName, forecast)
		return response, nil

	case containsAny(lowered, "rain", "umbrella", "precipitation"):
		if !hasLocation {
			response.Response = "I can check for rain, but I don't know which location. Tell me a city, or set a home location in your preferences."
			return response, nil
		}
		hourly, err := r.weather.GetHourly(ctx, lat, lon, 12, "")
		if err != nil {
			response.Response = "I couldn't reach the weather service just now. Please try again in a moment."
			return response, nil
		}
		response.ToolCalls = append(response.ToolCalls, models.ToolCall{Name: "get_hourly_forecast"})
		response.Response = summarizeRain(locationName, hourly)
		return response, nil

	case containsAny(lowered, "weather", "temperature", "hot", "cold", "wind", "conditions"):
		if !hasLocation {
			response.Response = "I can check the weather, but I don't know which location. Tell me a city, or set a home location in your preferences."
			return response, nil
		}
		current, err := r.weather.GetCurrent(ctx, lat, lon, "")
		if err != nil {
			response.Response = "I couldn't reach the weather service just now. Please try again in a moment."
			return response, nil
		}
		response.ToolCalls = append(response.ToolCalls, models.ToolCall{Name: "get_current_weather"})
		response.Response = fmt.Sprintf("Right now in %s: %s, %.0f°%s (feels like %.0f°). Wind %.0f mph.",
			locationName, current.Description, current.Temperature, unitLetter(current.TemperatureUnit), current.FeelsLike, current.WindSpeed)
		return response, nil

	default:
		response.Response = "I'm a weather assistant. Ask me about current conditions, the forecast, or whether it's going to rain."
		return response, nil
	}
}

// resolveLocation finds coordinates for the message: an "in <place>"
// phrase wins, then the user's home location.
func (r *KeywordResponder) resolveLocation(ctx context.Context, userID, lowered string, response *models.ChatResponse) (float64, float64, string, bool) {
	if place := extractPlace(lowered); place != "" {
		locations, err := r.geocoding.Geocode(ctx, place, 1)
		if err == nil && len(locations) > 0 {
			response.ToolCalls = append(response.ToolCalls, models.ToolCall{Name: "geocode_location", Arguments: place})
			name := locations[0].Name
			if name == "" {
				name = place
			}
			return locations[0].Latitude, locations[0].Longitude, name, true
		}
	}

	preference, err := r.preferences.FindByUserID(userID)
	if err == nil && preference != nil && preference.HomeLatitude != nil && preference.HomeLongitude != nil {
		name := preference.HomeLocationName
		if name == "" {
			name = "your home location"
		}
		return *preference.HomeLatitude, *preference.HomeLongitude, name, true
	}

	return 0, 0, "", false
}

// extractPlace pulls the place name from an "in <place>" phrase
func extractPlace(lowered string) string {
	idx := strings.Index(lowered, " in ")
	if idx < 0 {
		return ""
	}
	place := lowered[idx+4:]
	place = strings.TrimRight(place, "?!. ")
	if cut := strings.IndexAny(place, ","); cut > 0 {
		place = place[:cut]
	}
	return strings.TrimSpace(place)
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func unitLetter(unit string) string {
	if unit == "celsius" {
		return "C"
	}
	return "F"
}

func summarizeDaily(location string, forecast *models.DailyForecast) string {
	if len(forecast.Points) == 0 {
		return fmt.Sprintf("No forecast data is available for %s right now.", location)
	}
	today := forecast.Points[0]
	summary := fmt.Sprintf("Forecast for %s: today %s, high %.0f°, low %.0f°.",
		location, strings.ToLower(today.Description), today.TempHigh, today.TempLow)
	if len(forecast.Points) > 1 {
		next := forecast.Points[1]
		summary += fmt.Sprintf(" Tomorrow %s, high %.0f°, low %.0f°.",
			strings.ToLower(next.Description), next.TempHigh, next.TempLow)
	}
	return summary
}

func summarizeRain(location string, hourly *models.HourlyForecast) string {
	for i, point := range hourly.Points {
		if point.PrecipitationProbability > 50 {
			return fmt.Sprintf("Rain looks likely in %s in about %d hour(s) (%.0f%% chance). Bring an umbrella!",
				location, i+1, point.PrecipitationProbability)
		}
	}
	return fmt.Sprintf("No significant rain expected in %s over the next %d hours.", location, len(hourly.Points))
}
