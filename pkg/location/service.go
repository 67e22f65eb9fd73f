package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bizfinder/models"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimResponse is shaped for the search API response
type NominatimResponse []struct {
	PlaceID     int64   `json:"place_id"`
	OsmType     string  `json:"osm_type"`
	OsmID       int64   `json:"osm_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Class       string  `json:"class"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
	DisplayName string  `json:"display_name"`
}

// Nominatim geocodes addresses against an OpenStreetMap Nominatim server.
type Nominatim struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

func NewNominatim(baseURL string) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Nominatim{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "bizfinder-nominatim-client/1.0",
	}
}

// Geocode looks up an address and returns the coordinates of the best hit.
func (n *Nominatim) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", "en")

	u := fmt.Sprintf("%s/search?%s", n.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.Coordinates{}, &GeocodeError{Address: address, Err: err}
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return models.Coordinates{}, &GeocodeError{Address: address, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, &GeocodeError{Address: address, Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	var results NominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Coordinates{}, &GeocodeError{Address: address, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(results) == 0 {
		return models.Coordinates{}, &GeocodeError{Address: address, Err: errors.New("no results")}
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return models.Coordinates{}, &GeocodeError{Address: address, Err: fmt.Errorf("invalid latitude %q: %w", first.Lat, err)}
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return models.Coordinates{}, &GeocodeError{Address: address, Err: fmt.Errorf("invalid longitude %q: %w", first.Lon, err)}
	}
	return models.Coordinates{Lat: lat, Lon: lon}, nil
}
