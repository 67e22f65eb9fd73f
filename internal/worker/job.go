// Package worker runs queued search requests through the finder and the
// enrichment pipeline.
package worker

import (
	"context"
	"time"

	"bizfinder/internal/models"
	"bizfinder/internal/service"
	bizmodels "bizfinder/models"
	"bizfinder/pkg/geo"
)

// Searcher is the part of *finder.Finder the worker needs.
type Searcher interface {
	SearchLocation(ctx context.Context, loc bizmodels.Location, query string) ([]*models.Business, error)
	SearchLocationStrictly(ctx context.Context, loc bizmodels.Location, query string) (*models.Business, error)
}

// Job is the item that flows through the pipeline. Stage one may modify the
// businesses of Result; later stages only read it.
type Job struct {
	Request *models.SearchRequest
	Result  *models.SearchResult
	// Failed is set when the search itself failed; Result.Error says why.
	Failed bool

	source *service.Fetched[*models.SearchRequest]
}

// Search runs the request and wraps the outcome in a Job. A failed search
// still yields a Job so the failure can be stored and published.
func Search(ctx context.Context, s Searcher, req *models.SearchRequest) *Job {
	job := &Job{
		Request: req,
		Result: &models.SearchResult{
			SearchID:   req.ID,
			Query:      req.Query,
			Location:   req.Location,
			Strict:     req.Strict,
			Businesses: []*models.Business{},
		},
	}

	loc := geo.ParseLocation(req.Location)
	var err error
	if req.Strict {
		var best *models.Business
		best, err = s.SearchLocationStrictly(ctx, loc, req.Query)
		if best != nil {
			job.Result.Businesses = append(job.Result.Businesses, best)
		}
	} else {
		var found []*models.Business
		found, err = s.SearchLocation(ctx, loc, req.Query)
		if found != nil {
			job.Result.Businesses = found
		}
	}
	if err != nil {
		job.Failed = true
		job.Result.Error = err.Error()
	}
	job.Result.FinishedAt = time.Now().UTC()
	return job
}
