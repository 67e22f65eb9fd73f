package worker

import (
	"context"
	"time"

	"bizfinder/internal/enrich"
	"bizfinder/internal/models"
	"bizfinder/internal/service"
	"bizfinder/pkg/geo"
	"bizfinder/pkg/metrics"

	"go.uber.org/zap"
)

// Worker turns search requests into finished, enriched jobs.
type Worker struct {
	searcher Searcher
	pipeline *enrich.Pipeline[Job]
	logger   *zap.Logger
}

func New(searcher Searcher, pipeline *enrich.Pipeline[Job], logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{searcher: searcher, pipeline: pipeline, logger: logger}
}

// Committer acknowledges a request once its job has gone through the
// pipeline.
type Committer func(ctx context.Context, f *service.Fetched[*models.SearchRequest]) error

const commitTimeout = 5 * time.Second

// Run processes requests until the channel is closed. Requests are handled
// one at a time; the finder already fans out per request. Each request is
// committed only after its job finished, so a crash mid-job redelivers it.
// commit may be nil.
func (w *Worker) Run(ctx context.Context, requests <-chan *service.Fetched[*models.SearchRequest], commit Committer) {
	jobs := make(chan *Job)
	go func() {
		defer close(jobs)
		for fetched := range requests {
			req := fetched.Data
			w.logger.Info("running search",
				zap.String("search_id", req.ID),
				zap.String("query", req.Query),
				zap.String("location", req.Location),
				zap.String("location_kind", geo.IdentifyPlace(req.Location)),
				zap.Bool("strict", req.Strict),
			)
			job := Search(ctx, w.searcher, req)
			job.source = fetched
			select {
			case jobs <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	w.pipeline.Process(ctx, jobs, func(job *Job, err error) {
		w.finish(job, err)
		if commit == nil || job.source == nil {
			return
		}
		// The job is done; acknowledge it even while shutting down.
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
		defer cancel()
		if err := commit(cctx, job.source); err != nil {
			w.logger.Error("failed to commit search request",
				zap.String("search_id", job.Result.SearchID),
				zap.Error(err),
			)
		}
	})
}

func (w *Worker) finish(job *Job, err error) {
	status := "ok"
	switch {
	case job.Failed:
		status = "search_failed"
	case err != nil:
		status = "step_failed"
	}
	metrics.JobsProcessed.WithLabelValues(status).Inc()
	w.logger.Info("search job finished",
		zap.String("search_id", job.Result.SearchID),
		zap.String("status", status),
		zap.Int("businesses", len(job.Result.Businesses)),
	)
}
