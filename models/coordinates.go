package models

import "fmt"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lon)
}

// Location is the place a search is run against. Either Coordinates are set
// or Address holds free text that still needs geocoding.
type Location struct {
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Address     string       `json:"address,omitempty"`
}

// At returns a Location for an already known point.
func At(lat, lon float64) Location {
	return Location{Coordinates: &Coordinates{Lat: lat, Lon: lon}}
}

// Address returns a Location that has to be geocoded before use.
func Address(address string) Location {
	return Location{Address: address}
}

// Resolved reports whether the location already carries coordinates.
func (l Location) Resolved() bool {
	return l.Coordinates != nil
}

func (l Location) String() string {
	if l.Coordinates != nil {
		return l.Coordinates.String()
	}
	return l.Address
}
