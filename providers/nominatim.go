package providers

import (
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

// NominatimProvider implements GeocodingProvider using the free
// OpenStreetMap Nominatim service. https://nominatim.org/
type NominatimProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimProvider creates a new Nominatim geocoding provider
func NewNominatimProvider(cfg *config.GeocodingConfig) *NominatimProvider {
	return &NominatimProvider{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type nominatimAddress struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	County      string `json:"county"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

type nominatimResult struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Address     nominatimAddress `json:"address"`
}

// Geocode converts an address or place name to an ordered list of candidates
func (p *NominatimProvider) Geocode(ctx context.Context, query string, limit int) ([]models.Location, error) {
	if query == "" {
		return nil, errors.NewValidationError("query cannot be empty")
	}
	if limit < 1 {
		limit = 5
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(limit))

	var results []nominatimResult
	if err := p.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	locations := make([]models.Location, 0, len(results))
	for _, result := range results {
		locations = append(locations, result.toLocation())
	}
	return locations, nil
}

// ReverseGeocode converts coordinates to a single address
func (p *NominatimProvider) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*models.Location, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")

	var result nominatimResult
	if err := p.get(ctx, "/reverse", params, &result); err != nil {
		return nil, err
	}

	location := result.toLocation()
	if location.Latitude == 0 && location.Longitude == 0 {
		location.Latitude = latitude
		location.Longitude = longitude
	}
	return &location, nil
}

func (p *NominatimProvider) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	requestURL := fmt.Sprintf("%s%s?%s", p.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return errors.NewExternalAPIError("failed to build geocoding request", err)
	}
	// Required by Nominatim's usage policy
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.NewExternalAPIError("failed to get geocoding data", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.NewExternalAPIError(fmt.Sprintf("geocoding API returned status code %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewExternalAPIError("failed to decode geocoding data", err)
	}
	return nil
}

func (r nominatimResult) toLocation() models.Location {
	lat, _ := strconv.ParseFloat(r.Lat, 64)
	lon, _ := strconv.ParseFloat(r.Lon, 64)

	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	if city == "" {
		city = r.Address.Village
	}

	return models.Location{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: r.DisplayName,
		Name:        r.Name,
		Type:        r.Type,
		Address: models.Address{
			HouseNumber: r.Address.HouseNumber,
			Road:        r.Address.Road,
			City:        city,
			County:      r.Address.County,
			State:       r.Address.State,
			Postcode:    r.Address.Postcode,
			Country:     r.Address.Country,
			CountryCode: r.Address.CountryCode,
		},
	}
}
