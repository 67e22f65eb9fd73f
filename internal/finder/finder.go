// Package finder aggregates business listings from several providers into
// one deduplicated list.
//
// A search fans out to every configured provider concurrently, waits for all
// of them (each bounded by a timeout), then folds their result lists in
// configuration order. The fold is sequential: it mutates the records it
// merges, and its output depends on the order lists are folded in.
package finder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bizfinder/internal/models"
	bizmodels "bizfinder/models"
	"bizfinder/pkg/distance"
	"bizfinder/pkg/location"
	"bizfinder/pkg/metrics"
	"bizfinder/pkg/provider"

	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

// Config lists the providers to query. Order matters: it is the fold order.
type Config struct {
	Providers []provider.Config
}

// Finder runs searches across a fixed, ordered set of providers.
type Finder struct {
	providers []provider.Provider
	geocoder  location.Geocoder
	timeout   time.Duration
	logger    *zap.Logger
}

type Option func(*Finder)

func WithLogger(logger *zap.Logger) Option {
	return func(f *Finder) { f.logger = logger }
}

// WithGeocoder sets the geocoder used for address searches. It is also
// handed to configured providers that have none of their own.
func WithGeocoder(g location.Geocoder) Option {
	return func(f *Finder) { f.geocoder = g }
}

// WithTimeout bounds each provider call. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(f *Finder) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithProviders appends ready-made providers after the configured ones.
func WithProviders(providers ...provider.Provider) Option {
	return func(f *Finder) { f.providers = append(f.providers, providers...) }
}

// New builds a Finder. An unknown provider name fails here with a
// *provider.ConfigurationError, before any search runs.
func New(cfg Config, opts ...Option) (*Finder, error) {
	f := &Finder{
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	// Options may have added providers; configured ones go first.
	extra := f.providers
	f.providers = nil

	for _, pc := range cfg.Providers {
		if pc.Logger == nil {
			pc.Logger = f.logger
		}
		if pc.Geocoder == nil {
			pc.Geocoder = f.geocoder
		}
		p, err := provider.New(pc)
		if err != nil {
			return nil, err
		}
		f.providers = append(f.providers, p)
	}
	f.providers = append(f.providers, extra...)
	return f, nil
}

// Providers returns the provider names in fold order.
func (f *Finder) Providers() []models.Provider {
	names := make([]models.Provider, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return names
}

// SearchLocation queries every provider and returns the deduplicated,
// merged result. Provider failures are logged and skipped; only a geocoding
// failure or every provider failing is returned as an error.
func (f *Finder) SearchLocation(ctx context.Context, loc bizmodels.Location, query string) ([]*models.Business, error) {
	ll, err := location.Resolve(ctx, f.geocoder, loc)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("geocode_error").Inc()
		return nil, err
	}
	resolved := bizmodels.Location{Coordinates: &ll}

	lists, errs := f.fetch(ctx, resolved, query)
	if len(f.providers) > 0 && len(errs) == len(f.providers) {
		metrics.SearchesTotal.WithLabelValues("failed").Inc()
		return nil, errors.Join(append([]error{ErrAllProvidersFailed}, errs...)...)
	}

	results := Fold(lists...)
	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	f.logger.Debug("search finished",
		zap.String("query", query),
		zap.Stringer("location", resolved),
		zap.Int("results", len(results)),
		zap.Int("failed_providers", len(errs)),
	)
	return results, nil
}

// fetch calls every provider concurrently and waits for all of them. The
// returned lists are in provider order; a failed provider leaves a nil list.
func (f *Finder) fetch(ctx context.Context, loc bizmodels.Location, query string) ([][]*models.Business, []error) {
	lists := make([][]*models.Business, len(f.providers))
	failures := make([]error, len(f.providers))

	var wg sync.WaitGroup
	for i, p := range f.providers {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			lists[i], failures[i] = f.searchOne(ctx, p, loc, query)
		}(i, p)
	}
	wg.Wait() // barrier: nothing is folded until every provider is done

	var errs []error
	for _, err := range failures {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return lists, errs
}

type searchOutcome struct {
	list []*models.Business
	err  error
}

// searchOne calls p under the per-provider timeout. The call runs in its own
// goroutine so a provider that ignores ctx is abandoned at the deadline
// instead of holding up the barrier.
func (f *Finder) searchOne(ctx context.Context, p provider.Provider, loc bizmodels.Location, query string) (list []*models.Business, err error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	name := p.Name()
	start := time.Now()
	defer func() {
		metrics.ProviderSearchDuration.WithLabelValues(string(name)).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ProviderSearchesTotal.WithLabelValues(string(name), "error").Inc()
			f.logger.Warn("provider search failed",
				zap.String("provider", string(name)),
				zap.String("query", query),
				zap.Error(err),
			)
			return
		}
		metrics.ProviderSearchesTotal.WithLabelValues(string(name), "ok").Inc()
	}()

	// Buffered so an abandoned call can still deliver and exit.
	done := make(chan searchOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- searchOutcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		list, err := p.SearchLocation(ctx, loc, query)
		done <- searchOutcome{list: list, err: err}
	}()

	select {
	case out := <-done:
		list, err = out.list, out.err
	case <-ctx.Done():
		list, err = nil, ctx.Err()
	}
	if err != nil {
		return nil, &ProviderError{Provider: name, Err: err}
	}
	return list, nil
}

// SearchLocationStrictly returns the record whose name is closest to query.
// It ranks the deduplicated result and never merges anything itself. Ties
// go to the record that comes first. nil means nothing was found.
func (f *Finder) SearchLocationStrictly(ctx context.Context, loc bizmodels.Location, query string) (*models.Business, error) {
	results, err := f.SearchLocation(ctx, loc, query)
	if err != nil {
		return nil, err
	}
	return BestMatch(results, query), nil
}

// BestMatch picks the record with the smallest name distance to query.
func BestMatch(results []*models.Business, query string) *models.Business {
	var (
		best     *models.Business
		bestDist float64
	)
	for _, b := range results {
		if b == nil {
			continue
		}
		d := distance.Name(b.Name, query)
		if best == nil || d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}
