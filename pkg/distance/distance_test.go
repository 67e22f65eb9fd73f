package distance

import (
	"testing"

	"bizfinder/models"

	"github.com/stretchr/testify/assert"
)

func TestGeo(t *testing.T) {
	cases := []struct {
		name string
		a, b models.Coordinates
		want float64
	}{
		{"same point", models.Coordinates{Lat: 40, Lon: -73}, models.Coordinates{Lat: 40, Lon: -73}, 0},
		{"one degree of latitude", models.Coordinates{Lat: 0, Lon: 0}, models.Coordinates{Lat: 1, Lon: 0}, 69.04},
		{"nearby pizzerias", models.Coordinates{Lat: 40.000, Lon: -73.000}, models.Coordinates{Lat: 40.001, Lon: -73.001}, 0.087},
		{"new york to los angeles", models.Coordinates{Lat: 40.7128, Lon: -74.0060}, models.Coordinates{Lat: 34.0522, Lon: -118.2437}, 2443},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Geo(tc.a, tc.b)
			assert.InEpsilon(t, tc.want+1, got+1, 0.01)
		})
	}
}

func TestGeo_Symmetric(t *testing.T) {
	points := []models.Coordinates{
		{Lat: 40.000, Lon: -73.000},
		{Lat: 40.001, Lon: -73.001},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 51.5, Lon: -0.1},
		{Lat: 0, Lon: 180},
	}
	for _, a := range points {
		for _, b := range points {
			assert.Equal(t, Geo(a, b), Geo(b, a), "Geo(%v, %v)", a, b)
		}
		assert.Zero(t, Geo(a, a))
	}
}

func TestName(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Joe's Pizza", "Joe's Pizza", 0},
		{"case-insensitive", "Joe's", "joe's", 0},
		{"both empty", "", "", 0},
		{"one empty", "", "abc", 1},
		{"missing apostrophe", "Joe's Pizza", "Joes Pizza", 1.0 / 11},
		{"completely different", "abc", "xyz", 1},
		{"unicode runes counted once", "Café", "Cafe", 0.25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Name(tc.a, tc.b), 1e-9)
		})
	}
}

func TestName_Range(t *testing.T) {
	names := []string{"", "a", "Acme Corp", "Beta Inc", "ACME CORPORATION", "Joe's Pizza", "Ünïcödé"}
	for _, a := range names {
		for _, b := range names {
			d := Name(a, b)
			assert.GreaterOrEqual(t, d, 0.0)
			assert.LessOrEqual(t, d, 1.0)
		}
		assert.Zero(t, Name(a, a))
	}
}
