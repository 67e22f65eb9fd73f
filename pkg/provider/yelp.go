package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"bizfinder/internal/models"
	bizmodels "bizfinder/models"

	"go.uber.org/zap"
)

const yelpURL = "https://api.yelp.com"

func init() {
	Register(models.Yelp, NewYelp)
}

type yelpResponse struct {
	Businesses []yelpBusiness `json:"businesses"`
}

type yelpBusiness struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Coordinates struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		Address1 string `json:"address1"`
		City     string `json:"city"`
		State    string `json:"state"`
		ZipCode  string `json:"zip_code"`
		Country  string `json:"country"`
	} `json:"location"`
	Categories []struct {
		Alias string `json:"alias"`
		Title string `json:"title"`
	} `json:"categories"`
}

// Yelp searches businesses with the Yelp Fusion API.
type Yelp struct {
	*client
	apiKey string
}

func NewYelp(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	cfg.Name = models.Yelp
	return &Yelp{client: newClient(cfg, yelpURL), apiKey: cfg.APIKey}, nil
}

func (y *Yelp) SearchLocation(ctx context.Context, loc bizmodels.Location, query string) ([]*models.Business, error) {
	ll, err := y.resolve(ctx, loc)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("term", query)
	params.Set("latitude", strconv.FormatFloat(ll.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(ll.Lon, 'f', -1, 64))
	header := http.Header{}
	header.Set("Authorization", "Bearer "+y.apiKey)

	var resp yelpResponse
	if err := y.getJSON(ctx, "/v3/businesses/search", params, header, &resp); err != nil {
		return nil, err
	}

	out := make([]*models.Business, 0, len(resp.Businesses))
	for _, item := range resp.Businesses {
		if b := y.makeBusiness(item); b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

func (y *Yelp) makeBusiness(item yelpBusiness) *models.Business {
	if item.Name == "" || item.Coordinates.Latitude == nil || item.Coordinates.Longitude == nil {
		y.skip("missing name or coordinates", zap.String("id", item.ID))
		return nil
	}
	b := models.NewBusiness(*item.Coordinates.Latitude, *item.Coordinates.Longitude, item.Name)
	b.AddID(models.Yelp, item.ID)
	b.State = item.Location.State
	b.PostalCode = item.Location.ZipCode
	b.Country = item.Location.Country
	b.City = item.Location.City
	b.Address = item.Location.Address1
	b.Phone = item.Phone
	b.AddRating(models.Yelp, item.Rating)
	b.AddReviewCount(models.Yelp, item.ReviewCount)

	categories := make([]string, 0, len(item.Categories))
	for _, c := range item.Categories {
		categories = append(categories, c.Title)
	}
	b.AddCategories(models.Yelp, categories)
	return b
}
