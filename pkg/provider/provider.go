// Package provider defines the adapter contract every listing source
// implements and a registry that builds adapters from configuration.
//
// An adapter turns one provider's search response into canonical
// models.Business records. It owns its transport, authentication and field
// mapping; aggregation across providers happens in internal/finder.
package provider

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"bizfinder/internal/models"
	bizmodels "bizfinder/models"
	"bizfinder/pkg/location"

	"go.uber.org/zap"
)

// Provider searches one data source for businesses near a location.
type Provider interface {
	Name() models.Provider
	SearchLocation(ctx context.Context, loc bizmodels.Location, query string) ([]*models.Business, error)
}

// Config carries everything needed to build one adapter. Which credential
// fields are read depends on the provider.
type Config struct {
	Name         models.Provider
	ClientID     string
	ClientSecret string
	APIKey       string

	// BaseURL overrides the provider's public endpoint.
	BaseURL string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// RateLimit is the minimum interval between requests. Zero disables it.
	RateLimit time.Duration

	Geocoder location.Geocoder
	Logger   *zap.Logger
}

// Factory builds an adapter from its configuration.
type Factory func(cfg Config) (Provider, error)

// ConfigurationError reports a provider name with no registered adapter.
type ConfigurationError struct {
	Name models.Provider
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no such provider: %q", string(e.Name))
}

var (
	mu        sync.RWMutex
	factories = make(map[models.Provider]Factory)
)

// Register makes a provider available to New. Registering a name twice
// replaces the earlier factory.
func Register(name models.Provider, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// Registered lists the provider names New accepts, sorted.
func Registered() []models.Provider {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]models.Provider, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New builds the adapter registered under cfg.Name.
func New(cfg Config) (Provider, error) {
	mu.RLock()
	f, ok := factories[cfg.Name]
	mu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{Name: cfg.Name}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	p, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("building %s provider: %w", cfg.Name, err)
	}
	return p, nil
}
