package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"bizfinder/internal/models"
	bizmodels "bizfinder/models"

	"go.uber.org/zap"
)

const (
	googlePlacesURL    = "https://maps.googleapis.com"
	googlePlacesRadius = "500"
)

func init() {
	Register(models.GooglePlaces, NewGooglePlaces)
}

type googlePlacesResponse struct {
	Results      []googlePlace `json:"results"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}

type googlePlace struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Geometry struct {
		Location *struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Vicinity         string   `json:"vicinity"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	Types            []string `json:"types"`
}

// GooglePlaces searches with the Places nearby search API.
type GooglePlaces struct {
	*client
	key string
}

func NewGooglePlaces(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	cfg.Name = models.GooglePlaces
	return &GooglePlaces{client: newClient(cfg, googlePlacesURL), key: cfg.APIKey}, nil
}

func (g *GooglePlaces) SearchLocation(ctx context.Context, loc bizmodels.Location, query string) ([]*models.Business, error) {
	ll, err := g.resolve(ctx, loc)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("location", ll.String())
	params.Set("radius", googlePlacesRadius)
	params.Set("name", query)
	params.Set("key", g.key)

	var resp googlePlacesResponse
	if err := g.getJSON(ctx, "/maps/api/place/nearbysearch/json", params, nil, &resp); err != nil {
		return nil, err
	}
	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("google places status %s: %s", resp.Status, resp.ErrorMessage)
	}

	out := make([]*models.Business, 0, len(resp.Results))
	for _, item := range resp.Results {
		if b := g.makeBusiness(item); b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

func (g *GooglePlaces) makeBusiness(item googlePlace) *models.Business {
	if item.Name == "" || item.Geometry.Location == nil {
		g.skip("missing name or coordinates", zap.String("id", item.PlaceID))
		return nil
	}
	b := models.NewBusiness(item.Geometry.Location.Lat, item.Geometry.Location.Lng, item.Name)
	b.AddID(models.GooglePlaces, item.PlaceID)

	// vicinity is "street, city"; a single segment is the street only.
	if parts := strings.Split(item.Vicinity, ","); item.Vicinity != "" {
		b.Address = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			b.City = strings.TrimSpace(parts[len(parts)-1])
		}
	}
	if item.Rating > 0 {
		b.AddRating(models.GooglePlaces, item.Rating)
	}
	if item.UserRatingsTotal > 0 {
		b.AddReviewCount(models.GooglePlaces, item.UserRatingsTotal)
	}
	b.AddCategories(models.GooglePlaces, item.Types)
	return b
}
