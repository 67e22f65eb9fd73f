package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"bizfinder/internal/models"
	bizmodels "bizfinder/models"
	"bizfinder/pkg/geo"

	"github.com/spf13/cobra"
)

type searchOptions struct {
	ll      string
	address string
	strict  bool
}

var searchOpts searchOptions

var searchCmd = &cobra.Command{
	Use:   "search [--ll lat,lon | --address text] [--strict] <query>",
	Short: "Search all providers and print the merged listings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := searchOpts.location()
		if err != nil {
			return err
		}
		f, logger, err := newFinder()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		return runSearch(cmd.Context(), cmd.OutOrStdout(), f, loc, strings.Join(args, " "), searchOpts.strict)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchOpts.ll, "ll", "", "search around lat,lon")
	searchCmd.Flags().StringVar(&searchOpts.address, "address", "", "search around an address (geocoded)")
	searchCmd.Flags().BoolVar(&searchOpts.strict, "strict", false, "print only the listing whose name is closest to the query")
	searchCmd.MarkFlagsMutuallyExclusive("ll", "address")
	searchCmd.MarkFlagsOneRequired("ll", "address")
	rootCmd.AddCommand(searchCmd)
}

func (o searchOptions) location() (bizmodels.Location, error) {
	if o.ll != "" {
		c, err := geo.ParseCoordinates(o.ll)
		if err != nil {
			return bizmodels.Location{}, fmt.Errorf("--ll: %w", err)
		}
		return bizmodels.Location{Coordinates: &c}, nil
	}
	if strings.TrimSpace(o.address) == "" {
		return bizmodels.Location{}, errors.New("one of --ll or --address is required")
	}
	return bizmodels.Address(strings.TrimSpace(o.address)), nil
}

type searcher interface {
	SearchLocation(ctx context.Context, loc bizmodels.Location, query string) ([]*models.Business, error)
	SearchLocationStrictly(ctx context.Context, loc bizmodels.Location, query string) (*models.Business, error)
}

func runSearch(ctx context.Context, out io.Writer, s searcher, loc bizmodels.Location, query string, strict bool) error {
	var v any
	if strict {
		best, err := s.SearchLocationStrictly(ctx, loc, query)
		if err != nil {
			return err
		}
		v = best
	} else {
		results, err := s.SearchLocation(ctx, loc, query)
		if err != nil {
			return err
		}
		if results == nil {
			results = []*models.Business{}
		}
		v = results
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
