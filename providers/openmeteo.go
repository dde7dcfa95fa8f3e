package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"skywatch.app/config"
	"skywatch.app/errors"
	"skywatch.app/models"
)

// OpenMeteoProvider implements WeatherProvider for the free Open-Meteo API.
// Open-Meteo requires no API key. https://open-meteo.com/
type OpenMeteoProvider struct {
	baseURL     string
	defaultUnit string
	client      *http.Client
	circuit     *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a new Open-Meteo provider
func NewOpenMeteoProvider(cfg *config.WeatherConfig) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		baseURL:     cfg.BaseURL,
		defaultUnit: cfg.DefaultUnit,
		client:      &http.Client{Timeout: cfg.Timeout},
		circuit:     cb,
	}
}

type openMeteoCurrent struct {
	Temperature2m       float64 `json:"temperature_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	RelativeHumidity2m  float64 `json:"relative_humidity_2m"`
	Precipitation       float64 `json:"precipitation"`
	Rain                float64 `json:"rain"`
	CloudCover          float64 `json:"cloud_cover"`
	WindSpeed10m        float64 `json:"wind_speed_10m"`
	WindDirection10m    float64 `json:"wind_direction_10m"`
	WindGusts10m        float64 `json:"wind_gusts_10m"`
	IsDay               int     `json:"is_day"`
	WeatherCode         int     `json:"weather_code"`
}

type openMeteoHourly struct {
	Time                     []string  `json:"time"`
	Temperature2m            []float64 `json:"temperature_2m"`
	ApparentTemperature      []float64 `json:"apparent_temperature"`
	RelativeHumidity2m       []float64 `json:"relative_humidity_2m"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	Precipitation            []float64 `json:"precipitation"`
	WeatherCode              []int     `json:"weather_code"`
	CloudCover               []float64 `json:"cloud_cover"`
	WindSpeed10m             []float64 `json:"wind_speed_10m"`
	WindGusts10m             []float64 `json:"wind_gusts_10m"`
	IsDay                    []int     `json:"is_day"`
}

type openMeteoDaily struct {
	Time                        []string  `json:"time"`
	WeatherCode                 []int     `json:"weather_code"`
	Temperature2mMax            []float64 `json:"temperature_2m_max"`
	Temperature2mMin            []float64 `json:"temperature_2m_min"`
	ApparentTemperatureMax      []float64 `json:"apparent_temperature_max"`
	ApparentTemperatureMin      []float64 `json:"apparent_temperature_min"`
	Sunrise                     []string  `json:"sunrise"`
	Sunset                      []string  `json:"sunset"`
	PrecipitationSum            []float64 `json:"precipitation_sum"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	WindSpeed10mMax             []float64 `json:"wind_speed_10m_max"`
	WindGusts10mMax             []float64 `json:"wind_gusts_10m_max"`
	UVIndexMax                  []float64 `json:"uv_index_max"`
}

type openMeteoResponse struct {
	Timezone string           `json:"timezone"`
	Current  *openMeteoCurrent `json:"current"`
	Hourly   *openMeteoHourly  `json:"hourly"`
	Daily    *openMeteoDaily   `json:"daily"`
}

// GetCurrentWeather retrieves current conditions for a coordinate pair
func (p *OpenMeteoProvider) GetCurrentWeather(ctx context.Context, latitude, longitude float64, unit string) (*models.CurrentConditions, error) {
	params := p.baseParams(latitude, longitude, unit)
	params.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,is_day,precipitation,rain,weather_code,cloud_cover,wind_speed_10m,wind_direction_10m,wind_gusts_10m")

	data, err := p.fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	if data.Current == nil {
		return nil, errors.NewExternalAPIError("weather response missing current block", nil)
	}

	c := data.Current
	return &models.CurrentConditions{
		Temperature:     c.Temperature2m,
		FeelsLike:       c.ApparentTemperature,
		Humidity:        c.RelativeHumidity2m,
		Precipitation:   c.Precipitation,
		Rain:            c.Rain,
		CloudCover:      c.CloudCover,
		WindSpeed:       c.WindSpeed10m,
		WindDirection:   c.WindDirection10m,
		WindGusts:       c.WindGusts10m,
		IsDay:           c.IsDay == 1,
		WeatherCode:     c.WeatherCode,
		Description:     WeatherCodeDescription(c.WeatherCode),
		TemperatureUnit: p.unitOrDefault(unit),
		Timezone:        data.Timezone,
	}, nil
}

// GetHourlyForecast retrieves an hourly forecast covering up to 384 hours
func (p *OpenMeteoProvider) GetHourlyForecast(ctx context.Context, latitude, longitude float64, hours int, unit string) (*models.HourlyForecast, error) {
	if hours < 1 {
		hours = 24
	}
	if hours > 384 {
		hours = 384
	}

	params := p.baseParams(latitude, longitude, unit)
	params.Set("hourly", "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation_probability,precipitation,weather_code,cloud_cover,wind_speed_10m,wind_gusts_10m,is_day")
	params.Set("forecast_hours", strconv.Itoa(hours))

	data, err := p.fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	if data.Hourly == nil {
		return nil, errors.NewExternalAPIError("weather response missing hourly block", nil)
	}

	h := data.Hourly
	points := make([]models.HourlyForecastPoint, 0, len(h.Time))
	for i := range h.Time {
		point := models.HourlyForecastPoint{Time: h.Time[i]}
		if i < len(h.Temperature2m) {
			point.Temperature = h.Temperature2m[i]
		}
		if i < len(h.ApparentTemperature) {
			point.FeelsLike = h.ApparentTemperature[i]
		}
		if i < len(h.RelativeHumidity2m) {
			point.Humidity = h.RelativeHumidity2m[i]
		}
		if i < len(h.PrecipitationProbability) {
			point.PrecipitationProbability = h.PrecipitationProbability[i]
		}
		if i < len(h.Precipitation) {
			point.Precipitation = h.Precipitation[i]
		}
		if i < len(h.WeatherCode) {
			point.WeatherCode = h.WeatherCode[i]
			point.Description = WeatherCodeDescription(h.WeatherCode[i])
		}
		if i < len(h.CloudCover) {
			point.CloudCover = h.CloudCover[i]
		}
		if i < len(h.WindSpeed10m) {
			point.WindSpeed = h.WindSpeed10m[i]
		}
		if i < len(h.WindGusts10m) {
			point.WindGusts = h.WindGusts10m[i]
		}
		if i < len(h.IsDay) {
			point.IsDay = h.IsDay[i] == 1
		}
		points = append(points, point)
	}

	return &models.HourlyForecast{
		Points:          points,
		TemperatureUnit: p.unitOrDefault(unit),
		Timezone:        data.Timezone,
	}, nil
}

// GetDailyForecast retrieves a daily forecast for 1-16 days
func (p *OpenMeteoProvider) GetDailyForecast(ctx context.Context, latitude, longitude float64, days int, unit string) (*models.DailyForecast, error) {
	if days < 1 {
		days = 7
	}
	if days > 16 {
		days = 16
	}

	params := p.baseParams(latitude, longitude, unit)
	params.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,apparent_temperature_max,apparent_temperature_min,sunrise,sunset,precipitation_sum,precipitation_probability_max,wind_speed_10m_max,wind_gusts_10m_max,uv_index_max")
	params.Set("forecast_days", strconv.Itoa(days))

	data, err := p.fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	if data.Daily == nil {
		return nil, errors.NewExternalAPIError("weather response missing daily block", nil)
	}

	d := data.Daily
	points := make([]models.DailyForecastPoint, 0, len(d.Time))
	for i := range d.Time {
		point := models.DailyForecastPoint{Date: d.Time[i]}
		if i < len(d.WeatherCode) {
			point.WeatherCode = d.WeatherCode[i]
			point.Description = WeatherCodeDescription(d.WeatherCode[i])
		}
		if i < len(d.Temperature2mMax) {
			point.TempHigh = d.Temperature2mMax[i]
		}
		if i < len(d.Temperature2mMin) {
			point.TempLow = d.Temperature2mMin[i]
		}
		if i < len(d.ApparentTemperatureMax) {
			point.FeelsLikeHigh = d.ApparentTemperatureMax[i]
		}
		if i < len(d.ApparentTemperatureMin) {
			point.FeelsLikeLow = d.ApparentTemperatureMin[i]
		}
		if i < len(d.Sunrise) {
			point.Sunrise = d.Sunrise[i]
		}
		if i < len(d.Sunset) {
			point.Sunset = d.Sunset[i]
		}
		if i < len(d.PrecipitationSum) {
			point.Precipitation = d.PrecipitationSum[i]
		}
		if i < len(d.PrecipitationProbabilityMax) {
			point.PrecipitationProbability = d.PrecipitationProbabilityMax[i]
		}
		if i < len(d.WindSpeed10mMax) {
			point.WindSpeedMax = d.WindSpeed10mMax[i]
		}
		if i < len(d.WindGusts10mMax) {
			point.WindGustsMax = d.WindGusts10mMax[i]
		}
		if i < len(d.UVIndexMax) {
			point.UVIndexMax = d.UVIndexMax[i]
		}
		points = append(points, point)
	}

	return &models.DailyForecast{
		Points:          points,
		TemperatureUnit: p.unitOrDefault(unit),
		Timezone:        data.Timezone,
	}, nil
}

func (p *OpenMeteoProvider) baseParams(latitude, longitude float64, unit string) url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("temperature_unit", p.unitOrDefault(unit))
	params.Set("wind_speed_unit", "mph")
	params.Set("precipitation_unit", "inch")
	params.Set("timezone", "auto")
	return params
}

func (p *OpenMeteoProvider) unitOrDefault(unit string) string {
	if unit == "" {
		return p.defaultUnit
	}
	return unit
}

func (p *OpenMeteoProvider) fetch(ctx context.Context, params url.Values) (*openMeteoResponse, error) {
	result, err := p.circuit.Execute(func() (interface{}, error) {
		requestURL := fmt.Sprintf("%s/forecast?%s", p.baseURL, params.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, errors.NewExternalAPIError("failed to build weather request", err)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, errors.NewExternalAPIError("failed to get weather data", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, errors.NewExternalAPIError(fmt.Sprintf("weather API returned status code %d", resp.StatusCode), nil)
		}

		var data openMeteoResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, errors.NewExternalAPIError("failed to decode weather data", err)
		}
		return &data, nil
	})
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		// circuit open or half-open rejection
		return nil, errors.NewExternalAPIError("weather provider unavailable", err)
	}

	return result.(*openMeteoResponse), nil
}
