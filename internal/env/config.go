package env

import (
	"time"

	"bizfinder/internal/finder"
	"bizfinder/internal/models"
	"bizfinder/pkg/location"
	"bizfinder/pkg/provider"
)

const (
	DefaultProviders     = "foursquare,yelp,google_places"
	DefaultRateLimit     = 200 * time.Millisecond
	DefaultLogLevel      = "info"
	DefaultMetricsAddr   = ":2112"
	DefaultResultsBucket = "bizfinder-results"
)

// Config is what every binary needs to run searches.
type Config struct {
	// Providers is the fold order.
	Providers []models.Provider

	FoursquareClientID     string
	FoursquareClientSecret string
	YelpAPIKey             string
	GooglePlacesKey        string

	ProviderTimeout   time.Duration
	ProviderRateLimit time.Duration

	NominatimURL        string
	FacebookAccessToken string

	LogLevel   string
	PrettyLogs bool
}

// Load reads the search configuration. Credentials are not checked here;
// adapters reject missing ones when the finder is built.
func Load() (Config, error) {
	var r reader
	cfg := Config{
		FoursquareClientID:     r.optional("FOURSQUARE_CLIENT_ID", ""),
		FoursquareClientSecret: r.optional("FOURSQUARE_CLIENT_SECRET", ""),
		YelpAPIKey:             r.optional("YELP_API_KEY", ""),
		GooglePlacesKey:        r.optional("GOOGLE_PLACES_KEY", ""),
		ProviderTimeout:        r.duration("PROVIDER_TIMEOUT", finder.DefaultTimeout),
		ProviderRateLimit:      r.duration("PROVIDER_RATE_LIMIT", DefaultRateLimit),
		NominatimURL:           r.optional("NOMINATIM_URL", location.DefaultNominatimURL),
		FacebookAccessToken:    r.optional("FACEBOOK_ACCESS_TOKEN", ""),
		LogLevel:               r.optional("LOG_LEVEL", DefaultLogLevel),
		PrettyLogs:             r.flag("PRETTY_LOGS"),
	}
	for _, name := range r.list("FINDER_PROVIDERS", DefaultProviders) {
		cfg.Providers = append(cfg.Providers, models.Provider(name))
	}
	return cfg, r.err()
}

// FinderConfig turns the configuration into per-provider adapter configs,
// keeping the configured order.
func (c Config) FinderConfig() finder.Config {
	out := finder.Config{Providers: make([]provider.Config, 0, len(c.Providers))}
	for _, name := range c.Providers {
		pc := provider.Config{
			Name:      name,
			Timeout:   c.ProviderTimeout,
			RateLimit: c.ProviderRateLimit,
		}
		switch name {
		case models.Foursquare:
			pc.ClientID = c.FoursquareClientID
			pc.ClientSecret = c.FoursquareClientSecret
		case models.Yelp:
			pc.APIKey = c.YelpAPIKey
		case models.GooglePlaces:
			pc.APIKey = c.GooglePlacesKey
		}
		out.Providers = append(out.Providers, pc)
	}
	return out
}

// WorkerConfig is the extra configuration of the queue worker.
type WorkerConfig struct {
	KafkaBroker  string
	RequestTopic string
	GroupID      string
	// ResultTopic is optional; results are not published when empty.
	ResultTopic string

	// MinIO storage is disabled when MinioEndpoint is empty.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	ResultsBucket  string

	// DatabaseURL is optional; rows are not persisted when empty.
	DatabaseURL string
	MetricsAddr string
}

// LoadWorker reads the worker configuration. All missing required variables
// are reported in a single *MissingError.
func LoadWorker() (WorkerConfig, error) {
	var r reader
	cfg := WorkerConfig{
		KafkaBroker:    r.required("KAFKA_BROKER"),
		RequestTopic:   r.required("KAFKA_REQUEST_TOPIC"),
		GroupID:        r.required("KAFKA_GROUP_ID"),
		ResultTopic:    r.optional("KAFKA_RESULT_TOPIC", ""),
		MinioEndpoint:  r.optional("MINIO_ENDPOINT", ""),
		MinioAccessKey: r.optional("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: r.optional("MINIO_SECRET_KEY", ""),
		MinioUseSSL:    r.flag("MINIO_USE_SSL"),
		ResultsBucket:  r.optional("RESULTS_BUCKET", DefaultResultsBucket),
		DatabaseURL:    r.optional("DATABASE_URL", ""),
		MetricsAddr:    r.optional("METRICS_ADDR", DefaultMetricsAddr),
	}
	return cfg, r.err()
}
