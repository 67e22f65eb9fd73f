package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bizfinder/internal/models"
	bizmodels "bizfinder/models"
	"bizfinder/pkg/location"
	"bizfinder/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultTimeout = 10 * time.Second

// ErrRateLimited is returned when a provider answers 429.
var ErrRateLimited = errors.New("rate limit exceeded")

// client is the HTTP plumbing shared by the adapters.
type client struct {
	name       models.Provider
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	geocoder   location.Geocoder
	logger     *zap.Logger
}

func newClient(cfg Config, defaultURL string) *client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultURL
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RateLimit), 1)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &client{
		name:       cfg.Name,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		userAgent:  "bizfinder/1.0",
		geocoder:   cfg.Geocoder,
		logger:     logger.With(zap.String("provider", string(cfg.Name))),
	}
}

func (c *client) Name() models.Provider {
	return c.name
}

// resolve returns coordinates for loc, geocoding addresses.
func (c *client) resolve(ctx context.Context, loc bizmodels.Location) (bizmodels.Coordinates, error) {
	return location.Resolve(ctx, c.geocoder, loc)
}

// getJSON issues a GET against path and decodes the JSON body into out.
func (c *client) getJSON(ctx context.Context, path string, params url.Values, header http.Header, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderHTTPRequestsTotal.WithLabelValues(string(c.name), "error").Inc()
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.ProviderHTTPRequestsTotal.WithLabelValues(string(c.name), strconv.Itoa(resp.StatusCode)).Inc()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", c.name, ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: authentication failed (status %d)", c.name, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s: unexpected status %d: %s", c.name, resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", c.name, err)
	}
	return nil
}

// skip logs and counts a malformed item that cannot become a record.
func (c *client) skip(reason string, fields ...zap.Field) {
	metrics.SkippedItemsTotal.WithLabelValues(string(c.name)).Inc()
	c.logger.Debug("skipping malformed item: "+reason, fields...)
}
