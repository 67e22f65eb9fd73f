// Package distance holds the two metrics used to decide whether listings
// from different providers describe the same business: great-circle distance
// between coordinates and a normalized edit distance between names.
package distance

import (
	"unicode/utf8"

	"bizfinder/models"

	"github.com/agnivade/levenshtein"
	"github.com/golang/geo/s2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EarthRadiusMiles is the radius of the great circle used by Geo.
const EarthRadiusMiles = 3956

// Geo returns the haversine distance between a and b in miles. The points
// are put in a fixed order first so Geo(a, b) and Geo(b, a) are bit-for-bit
// equal.
func Geo(a, b models.Coordinates) float64 {
	if a.Lat > b.Lat || (a.Lat == b.Lat && a.Lon > b.Lon) {
		a, b = b, a
	}
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusMiles
}

// Name returns the Levenshtein distance between the lower-cased names divided
// by the rune length of the longer one, so the result is always in [0,1].
func Name(a, b string) float64 {
	lower := cases.Lower(language.Und)
	a, b = lower.String(a), lower.String(b)
	if a == b {
		return 0
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
