package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spotshare/models"
)

const defaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// Service resolves free-text address queries to coordinates.
type Service interface {
	Search(ctx context.Context, query string, bounds *models.BoundingBox, limit int) ([]models.GeocodeResult, error)
}

// GoogleGeocoder implements Service against the Google Geocoding API.
type GoogleGeocoder struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
}

// NewGoogleGeocoder creates a geocoder with a sane request timeout.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:   apiKey,
		Endpoint: defaultEndpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// geocodeResponse mirrors the fields we read from the API payload.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Search resolves a free-text query, optionally biased to a bounding
// box, returning at most limit matches.
func (g *GoogleGeocoder) Search(ctx context.Context, query string, bounds *models.BoundingBox, limit int) ([]models.GeocodeResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if g.APIKey == "" {
		return nil, fmt.Errorf("geocoder API key is not configured")
	}

	params := url.Values{}
	params.Set("address", query)
	params.Set("key", g.APIKey)
	if bounds != nil {
		params.Set("bounds", fmt.Sprintf("%f,%f|%f,%f",
			bounds.SouthWestLat, bounds.SouthWestLng,
			bounds.NorthEastLat, bounds.NorthEastLng))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("geocoder status %s", payload.Status)
	}

	if limit <= 0 || limit > len(payload.Results) {
		limit = len(payload.Results)
	}

	results := make([]models.GeocodeResult, 0, limit)
	for _, r := range payload.Results[:limit] {
		primary, secondary := splitAddress(r.FormattedAddress)
		results = append(results, models.GeocodeResult{
			Primary:   primary,
			Secondary: secondary,
			Address:   r.FormattedAddress,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		})
	}
	return results, nil
}

// splitAddress derives a short label and the remainder from a
// formatted address.
func splitAddress(address string) (primary, secondary string) {
	parts := strings.SplitN(address, ",", 2)
	primary = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		secondary = strings.TrimSpace(parts[1])
	}
	return primary, secondary
}
