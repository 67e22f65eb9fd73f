package worker

import (
	"context"
	"errors"

	"bizfinder/internal/enrich"
	"bizfinder/internal/models"
	"bizfinder/pkg/social"
)

// ResultStore stores a finished result as an object.
type ResultStore interface {
	StoreResult(ctx context.Context, bucketName string, result *models.SearchResult) (string, error)
}

// RowStore persists the businesses of a result.
type RowStore interface {
	UpsertResult(ctx context.Context, result *models.SearchResult) error
}

// Publisher announces a finished result.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// LikesStep adds provider p's like counts to every business. A failed lookup
// does not stop the others.
func LikesStep(svc *social.Service, p models.Provider) enrich.Step[Job] {
	return func(ctx context.Context, job *Job) error {
		var errs []error
		for _, b := range job.Result.Businesses {
			if err := svc.Enrich(ctx, p, b); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

func StoreStep(store ResultStore, bucketName string) enrich.Step[Job] {
	return func(ctx context.Context, job *Job) error {
		_, err := store.StoreResult(ctx, bucketName, job.Result)
		return err
	}
}

// UpsertStep skips failed searches so earlier rows are not replaced by
// nothing.
func UpsertStep(store RowStore) enrich.Step[Job] {
	return func(ctx context.Context, job *Job) error {
		if job.Failed {
			return nil
		}
		return store.UpsertResult(ctx, job.Result)
	}
}

func PublishStep(pub Publisher) enrich.Step[Job] {
	return func(ctx context.Context, job *Job) error {
		return pub.PublishJSON(ctx, job.Result.SearchID, job.Result)
	}
}
