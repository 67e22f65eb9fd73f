package provider

import (
	"context"
	"fmt"
	"net/url"

	"bizfinder/internal/models"
	bizmodels "bizfinder/models"

	"go.uber.org/zap"
)

const (
	foursquareURL     = "https://api.foursquare.com"
	foursquareVersion = "20140806"
)

func init() {
	Register(models.Foursquare, NewFoursquare)
}

type foursquareResponse struct {
	Response struct {
		Groups []struct {
			Items []foursquareVenue `json:"items"`
		} `json:"groups"`
	} `json:"response"`
}

type foursquareVenue struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Contact struct {
		Phone   string `json:"phone"`
		Twitter string `json:"twitter"`
	} `json:"contact"`
	Location struct {
		Lat        *float64 `json:"lat"`
		Lng        *float64 `json:"lng"`
		Address    string   `json:"address"`
		City       string   `json:"city"`
		State      string   `json:"state"`
		PostalCode string   `json:"postalCode"`
		CC         string   `json:"cc"`
	} `json:"location"`
	Stats struct {
		CheckinsCount int `json:"checkinsCount"`
		UsersCount    int `json:"usersCount"`
	} `json:"stats"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
}

// Foursquare searches venues with the v2 venues API.
type Foursquare struct {
	*client
	clientID     string
	clientSecret string
}

func NewFoursquare(cfg Config) (Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client id and client secret are required")
	}
	cfg.Name = models.Foursquare
	return &Foursquare{
		client:       newClient(cfg, foursquareURL),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}, nil
}

func (f *Foursquare) SearchLocation(ctx context.Context, loc bizmodels.Location, query string) ([]*models.Business, error) {
	ll, err := f.resolve(ctx, loc)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("ll", ll.String())
	params.Set("query", query)
	params.Set("client_id", f.clientID)
	params.Set("client_secret", f.clientSecret)
	params.Set("v", foursquareVersion)

	var resp foursquareResponse
	if err := f.getJSON(ctx, "/v2/venues/search", params, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Response.Groups) == 0 {
		return nil, nil
	}

	items := resp.Response.Groups[0].Items
	out := make([]*models.Business, 0, len(items))
	for _, item := range items {
		if b := f.makeBusiness(item); b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *Foursquare) makeBusiness(item foursquareVenue) *models.Business {
	if item.Name == "" || item.Location.Lat == nil || item.Location.Lng == nil {
		f.skip("missing name or coordinates", zap.String("id", item.ID))
		return nil
	}
	b := models.NewBusiness(*item.Location.Lat, *item.Location.Lng, item.Name)
	b.AddID(models.Foursquare, item.ID)
	b.Phone = item.Contact.Phone
	b.TwitterHandle = item.Contact.Twitter
	b.Website = item.URL
	b.State = item.Location.State
	b.City = item.Location.City
	b.Country = item.Location.CC
	b.PostalCode = item.Location.PostalCode
	b.Address = item.Location.Address
	b.AddCheckins(models.Foursquare, item.Stats.CheckinsCount)
	b.AddUsers(models.Foursquare, item.Stats.UsersCount)

	categories := make([]string, 0, len(item.Categories))
	for _, c := range item.Categories {
		categories = append(categories, c.Name)
	}
	b.AddCategories(models.Foursquare, categories)
	return b
}
