package geo

import (
	"fmt"
	"strconv"
	"strings"

	"bizfinder/models"
)

// IsCoordinatePair reports whether text looks like "lat,lon" with both parts
// numeric and inside the valid ranges.
func IsCoordinatePair(text string) bool {
	_, err := ParseCoordinates(text)
	return err == nil
}

// ParseCoordinates parses a "lat,lon" pair. Whitespace around either number
// is ignored.
func ParseCoordinates(text string) (models.Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(text), ",")
	if len(parts) != 2 {
		return models.Coordinates{}, fmt.Errorf("expected lat,lon but got %q", text)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid latitude %q: %w", parts[0], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid longitude %q: %w", parts[1], err)
	}
	if lat < -90 || lat > 90 {
		return models.Coordinates{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return models.Coordinates{}, fmt.Errorf("longitude %v out of range", lon)
	}
	return models.Coordinates{Lat: lat, Lon: lon}, nil
}

// IdentifyPlace classifies free text as either a coordinate pair or an address.
func IdentifyPlace(text string) string {
	if IsCoordinatePair(text) {
		return "coordinates"
	}
	return "address"
}

// ParseLocation turns user input into a Location. Anything that is not a
// coordinate pair is treated as an address to geocode.
func ParseLocation(text string) models.Location {
	if c, err := ParseCoordinates(text); err == nil {
		return models.Location{Coordinates: &c}
	}
	return models.Address(strings.TrimSpace(text))
}
