package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"bizfinder/internal/models"
	bizmodels "bizfinder/models"
	"bizfinder/pkg/location"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type rewriteRoundTripper struct{ base *url.URL }

func (r rewriteRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone the request to avoid mutating the original
	c := req.Clone(req.Context())
	// rewrite scheme and host to point to the test server, keep path and query
	c.URL.Scheme = r.base.Scheme
	c.URL.Host = r.base.Host
	c.Host = r.base.Host
	return http.DefaultTransport.RoundTrip(c)
}

// pointAt makes the adapter's client talk to the test server while keeping
// the production base URL, so request paths are checked as sent.
func pointAt(c *client, serverURL string) {
	u, _ := url.Parse(serverURL)
	c.httpClient = &http.Client{Transport: rewriteRoundTripper{base: u}}
}

type staticGeocoder struct {
	coords bizmodels.Coordinates
	err    error
}

func (g staticGeocoder) Geocode(context.Context, string) (bizmodels.Coordinates, error) {
	return g.coords, g.err
}

const foursquareBody = `{"response":{"groups":[{"items":[
 {"id":"fsq1","name":"Joe's Pizza","url":"http://joespizzanyc.com",
  "contact":{"phone":"2123661182","twitter":"joespizzanyc"},
  "location":{"lat":40.7305,"lng":-74.0021,"address":"7 Carmine St","city":"New York","state":"NY","postalCode":"10014","cc":"US"},
  "stats":{"checkinsCount":5000,"usersCount":3000},
  "categories":[{"name":"Pizza Place"}]},
 {"id":"fsq2","name":"","location":{"lat":1,"lng":1}},
 {"id":"fsq3","name":"No Coordinates","location":{}}
]}]}}`

func TestFoursquare_SearchLocation(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/venues/search", r.URL.Path)
		got = r.URL.Query()
		_, _ = w.Write([]byte(foursquareBody))
	}))
	defer server.Close()

	p, err := NewFoursquare(Config{Name: models.Foursquare, ClientID: "id", ClientSecret: "secret", Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	fsq := p.(*Foursquare)
	pointAt(fsq.client, server.URL)

	results, err := fsq.SearchLocation(context.Background(), bizmodels.At(40.73, -74), "pizza")
	require.NoError(t, err)

	assert.Equal(t, "40.730000,-74.000000", got.Get("ll"))
	assert.Equal(t, "pizza", got.Get("query"))
	assert.Equal(t, "id", got.Get("client_id"))
	assert.Equal(t, "secret", got.Get("client_secret"))
	assert.Equal(t, foursquareVersion, got.Get("v"))

	require.Len(t, results, 1, "malformed items are skipped")
	b := results[0]
	assert.Equal(t, "Joe's Pizza", b.Name)
	assert.Equal(t, bizmodels.Coordinates{Lat: 40.7305, Lon: -74.0021}, b.Coordinates)
	assert.Equal(t, map[models.Provider]string{models.Foursquare: "fsq1"}, b.IDs)
	assert.Equal(t, "2123661182", b.Phone)
	assert.Equal(t, "joespizzanyc", b.TwitterHandle)
	assert.Equal(t, "http://joespizzanyc.com", b.Website)
	assert.Equal(t, "7 Carmine St", b.Address)
	assert.Equal(t, "New York", b.City)
	assert.Equal(t, "NY", b.State)
	assert.Equal(t, "10014", b.PostalCode)
	assert.Equal(t, "US", b.Country)
	assert.Equal(t, 5000, b.Checkins[models.Foursquare])
	assert.Equal(t, 3000, b.Users[models.Foursquare])
	assert.Equal(t, []string{"Pizza Place"}, b.Categories[models.Foursquare])
}

func TestFoursquare_EmptyGroups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"groups":[]}}`))
	}))
	defer server.Close()

	p, err := New(Config{Name: models.Foursquare, ClientID: "id", ClientSecret: "secret", BaseURL: server.URL})
	require.NoError(t, err)
	results, err := p.SearchLocation(context.Background(), bizmodels.At(1, 1), "pizza")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestYelp_SearchLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/businesses/search", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "pizza", q.Get("term"))
		assert.Equal(t, "40.73", q.Get("latitude"))
		assert.Equal(t, "-74", q.Get("longitude"))
		_, _ = w.Write([]byte(`{"businesses":[
			{"id":"joes-pizza-new-york","name":"Joe's Pizza","phone":"+12123661182","rating":4.5,"review_count":1800,
			 "coordinates":{"latitude":40.7306,"longitude":-74.0022},
			 "location":{"address1":"7 Carmine St","city":"New York","state":"NY","zip_code":"10014","country":"US"},
			 "categories":[{"alias":"pizza","title":"Pizza"}]},
			{"id":"broken","name":"Broken","coordinates":{"latitude":null,"longitude":null}}
		]}`))
	}))
	defer server.Close()

	p, err := New(Config{Name: models.Yelp, APIKey: "key", Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	pointAt(p.(*Yelp).client, server.URL)

	results, err := p.SearchLocation(context.Background(), bizmodels.At(40.73, -74), "pizza")
	require.NoError(t, err)
	require.Len(t, results, 1)

	b := results[0]
	assert.Equal(t, "Joe's Pizza", b.Name)
	assert.Equal(t, "joes-pizza-new-york", b.IDs[models.Yelp])
	assert.Equal(t, "+12123661182", b.Phone)
	assert.Equal(t, "7 Carmine St", b.Address)
	assert.Equal(t, "10014", b.PostalCode)
	assert.Equal(t, 4.5, b.Ratings[models.Yelp])
	assert.Equal(t, 1800, b.ReviewCounts[models.Yelp])
	assert.Equal(t, []string{"Pizza"}, b.Categories[models.Yelp])
}

func TestGooglePlaces_SearchLocation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []*models.Business
		wantErr bool
	}{
		{
			name: "maps vicinity, rating and types",
			body: `{"status":"OK","results":[
				{"place_id":"ChIJ1","name":"Joe's Pizza","geometry":{"location":{"lat":40.7304,"lng":-74.0020}},
				 "vicinity":"7 Carmine Street, New York","rating":4.4,"user_ratings_total":9000,"types":["restaurant","food"]},
				{"place_id":"ChIJ2","name":"Street Only","geometry":{"location":{"lat":1,"lng":2}},"vicinity":"Carmine Street"},
				{"place_id":"ChIJ3","name":"Nowhere","geometry":{}}
			]}`,
			want: func() []*models.Business {
				joes := models.NewBusiness(40.7304, -74.0020, "Joe's Pizza")
				joes.AddID(models.GooglePlaces, "ChIJ1")
				joes.Address = "7 Carmine Street"
				joes.City = "New York"
				joes.AddRating(models.GooglePlaces, 4.4)
				joes.AddReviewCount(models.GooglePlaces, 9000)
				joes.AddCategories(models.GooglePlaces, []string{"restaurant", "food"})

				street := models.NewBusiness(1, 2, "Street Only")
				street.AddID(models.GooglePlaces, "ChIJ2")
				street.Address = "Carmine Street"
				return []*models.Business{joes, street}
			}(),
		},
		{name: "zero results", body: `{"status":"ZERO_RESULTS","results":[]}`, want: nil},
		{name: "request denied", body: `{"status":"REQUEST_DENIED","error_message":"bad key"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/maps/api/place/nearbysearch/json", r.URL.Path)
				assert.Equal(t, "key", r.URL.Query().Get("key"))
				assert.Equal(t, "pizza", r.URL.Query().Get("name"))
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p, err := New(Config{Name: models.GooglePlaces, APIKey: "key", BaseURL: server.URL})
			require.NoError(t, err)

			got, err := p.SearchLocation(context.Background(), bizmodels.At(40.73, -74), "pizza")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantLimited bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantLimited: true},
		{name: "unauthorized", status: http.StatusUnauthorized},
		{name: "server error", status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			p, err := New(Config{Name: models.Yelp, APIKey: "key", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = p.SearchLocation(context.Background(), bizmodels.At(1, 1), "pizza")
			require.Error(t, err)
			assert.Equal(t, tt.wantLimited, errors.Is(err, ErrRateLimited))
		})
	}
}

func TestAdapters_GeocodeAddresses(t *testing.T) {
	var gotLL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLL = r.URL.Query().Get("ll")
		_, _ = w.Write([]byte(`{"response":{"groups":[{"items":[]}]}}`))
	}))
	defer server.Close()

	geocoder := staticGeocoder{coords: bizmodels.Coordinates{Lat: 40.5, Lon: -73.5}}
	p, err := New(Config{Name: models.Foursquare, ClientID: "id", ClientSecret: "secret", BaseURL: server.URL, Geocoder: geocoder})
	require.NoError(t, err)

	_, err = p.SearchLocation(context.Background(), bizmodels.Address("7 Carmine St, New York"), "pizza")
	require.NoError(t, err)
	assert.Equal(t, "40.500000,-73.500000", gotLL)

	failing, err := New(Config{Name: models.Foursquare, ClientID: "id", ClientSecret: "secret", BaseURL: server.URL, Geocoder: staticGeocoder{err: errors.New("no match")}})
	require.NoError(t, err)
	_, err = failing.SearchLocation(context.Background(), bizmodels.Address("Atlantis"), "pizza")
	var geoErr *location.GeocodeError
	assert.ErrorAs(t, err, &geoErr)
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"businesses":[]}`))
	}))
	defer server.Close()

	p, err := New(Config{Name: models.Yelp, APIKey: "key", BaseURL: server.URL, RateLimit: 1 << 40})
	require.NoError(t, err)

	_, err = p.SearchLocation(context.Background(), bizmodels.At(1, 1), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.SearchLocation(ctx, bizmodels.At(1, 1), "second")
	assert.ErrorContains(t, err, "rate limit wait failed")
}
