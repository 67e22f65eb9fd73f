package main

import (
	"bizfinder/internal/env"
	"bizfinder/internal/finder"
	"bizfinder/pkg/location"
	"bizfinder/pkg/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "finder",
	Short: "Search business listings across providers",
	Long: `
finder queries every configured listing provider (Foursquare, Yelp, Google
Places) around a location, merges listings that describe the same business
and prints the result as JSON.

Providers and credentials are read from the environment or a .env file.
`,
	SilenceUsage: true,
}

// newFinder builds a finder from the environment. Logs go to stderr so they
// never mix with the JSON on stdout.
func newFinder() (*finder.Finder, *zap.Logger, error) {
	env.LoadEnv()
	cfg, err := env.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return nil, nil, err
	}
	f, err := finder.New(cfg.FinderConfig(),
		finder.WithLogger(logger),
		finder.WithGeocoder(location.NewNominatim(cfg.NominatimURL)),
		finder.WithTimeout(cfg.ProviderTimeout),
	)
	if err != nil {
		return nil, nil, err
	}
	return f, logger, nil
}
