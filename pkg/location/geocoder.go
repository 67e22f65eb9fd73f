// Package location resolves free-text addresses to coordinates.
package location

import (
	"context"
	"errors"
	"fmt"

	"bizfinder/models"
)

// Geocoder resolves an address to a single coordinate pair.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// GeocodeError is returned when an address cannot be turned into coordinates.
// Searches cannot run without a location, so callers treat it as fatal.
type GeocodeError struct {
	Address string
	Err     error
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Address, e.Err)
}

func (e *GeocodeError) Unwrap() error {
	return e.Err
}

// Resolve returns loc's coordinates, geocoding the address when needed.
func Resolve(ctx context.Context, g Geocoder, loc models.Location) (models.Coordinates, error) {
	if loc.Resolved() {
		return *loc.Coordinates, nil
	}
	if loc.Address == "" {
		return models.Coordinates{}, &GeocodeError{Err: fmt.Errorf("empty location")}
	}
	if g == nil {
		return models.Coordinates{}, &GeocodeError{Address: loc.Address, Err: fmt.Errorf("no geocoder configured")}
	}
	c, err := g.Geocode(ctx, loc.Address)
	if err != nil {
		var geoErr *GeocodeError
		if errors.As(err, &geoErr) {
			return models.Coordinates{}, err
		}
		return models.Coordinates{}, &GeocodeError{Address: loc.Address, Err: err}
	}
	return c, nil
}
