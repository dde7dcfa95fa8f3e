package service

import (
	"fmt"
	"math"

	"skywatch.app/models"
)

// WMO codes denoting thunderstorms or heavy precipitation. A current
// weather code in this set always takes priority over the wind check.
var severeWeatherCodes = map[int]bool{
	65: true, // heavy rain
	67: true, // heavy freezing rain
	75: true, // heavy snowfall
	82: true, // violent rain showers
	86: true, // heavy snow showers
	95: true, // thunderstorm
	96: true, // thunderstorm with slight hail
	99: true, // thunderstorm with heavy hail
}

// Wind thresholds in mph, matching the units the weather client reports
const (
	highWindGustThreshold  = 50.0
	highWindSpeedThreshold = 35.0
)

// Temperature must move at least this much between checks before an
// extreme re-alerts. Without this a 30-minute polling loop would
// re-notify every cycle while conditions stay level at an extreme.
const temperatureRealertDelta = 5.0

// checkSevereWeather inspects current conditions for severe weather codes
// and high winds. At most one alert is returned per call; a severe
// weather code wins even when winds also exceed their thresholds.
func checkSevereWeather(current *models.CurrentConditions) *models.Alert {
	if severeWeatherCodes[current.WeatherCode] {
		return &models.Alert{
			Kind:        models.AlertSevereWeather,
			Message:     fmt.Sprintf("Severe weather alert: %s. Take precautions!", current.Description),
			WeatherCode: current.WeatherCode,
		}
	}

	if current.WindGusts > highWindGustThreshold || current.WindSpeed > highWindSpeedThreshold {
		return &models.Alert{
			Kind:      models.AlertHighWind,
			Message:   fmt.Sprintf("High wind warning: Gusts up to %.0f mph", current.WindGusts),
			WindSpeed: current.WindSpeed,
			WindGusts: current.WindGusts,
		}
	}

	return nil
}

// checkRain warns about upcoming rain. Skipped entirely when it is
// already raining; otherwise the first of the next windowHours forecast
// points whose precipitation probability exceeds the threshold wins,
// reported 1-indexed hours ahead.
func checkRain(current *models.CurrentConditions, forecast *models.HourlyForecast, probabilityThreshold float64, windowHours int) *models.Alert {
	if current.Precipitation > 0 {
		return nil
	}
	if forecast == nil {
		return nil
	}

	points := forecast.Points
	if len(points) > windowHours {
		points = points[:windowHours]
	}

	for i, point := range points {
		if point.PrecipitationProbability > probabilityThreshold {
			return &models.Alert{
				Kind:        models.AlertRainComing,
				Message:     fmt.Sprintf("Rain expected in ~%d hour(s) (%.0f%% chance). Consider bringing an umbrella!", i+1, point.PrecipitationProbability),
				Probability: point.PrecipitationProbability,
				HoursAhead:  i + 1,
				Time:        point.Time,
			}
		}
	}

	return nil
}

// checkTemperature alerts on threshold crossings, with re-alert
// suppression while the temperature stays within temperatureRealertDelta
// of the previous check's reading. Thresholds compare with >= and <=, so
// a reading exactly at a threshold alerts.
func checkTemperature(current *models.CurrentConditions, sub *models.WeatherSubscription) *models.Alert {
	temp := current.Temperature

	if sub.LastConditions != nil {
		if math.Abs(temp-sub.LastConditions.Temperature) < temperatureRealertDelta {
			return nil
		}
	}

	if temp >= sub.TemperatureThresholdHigh {
		return &models.Alert{
			Kind:        models.AlertHighTemperature,
			Message:     fmt.Sprintf("High temperature alert: %.0f°F. Stay hydrated and limit outdoor activity!", temp),
			Temperature: temp,
		}
	}

	if temp <= sub.TemperatureThresholdLow {
		return &models.Alert{
			Kind:        models.AlertLowTemperature,
			Message:     fmt.Sprintf("Low temperature alert: %.0f°F. Bundle up and watch for ice!", temp),
			Temperature: temp,
		}
	}

	return nil
}

// alertSeverity maps an alert kind to its notification severity
func alertSeverity(kind models.AlertKind) string {
	switch kind {
	case models.AlertSevereWeather, models.AlertHighWind:
		return "severe"
	case models.AlertRainComing:
		return "warning"
	default:
		return "info"
	}
}
