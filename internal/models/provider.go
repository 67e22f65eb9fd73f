package models

// Provider identifies the data source a per-source value came from.
type Provider string

const (
	Foursquare   Provider = "foursquare"
	Yelp         Provider = "yelp"
	GooglePlaces Provider = "google_places"
	Facebook     Provider = "facebook"
)

func (p Provider) String() string {
	return string(p)
}
