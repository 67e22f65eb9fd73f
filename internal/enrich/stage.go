// Package enrich runs work items through a sequence of stages. Steps inside
// a stage run in parallel; stages run one after the other.
package enrich

import (
	"context"
)

// Step mutates item in place. Steps of the same stage run concurrently on the
// same item and must not write the same fields.
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups steps that may run in parallel for a single item.
type Stage[T any] struct {
	name  string
	steps []Step[T]
}

// NewStage builds a stage. The name labels logs and metrics.
func NewStage[T any](name string, steps ...Step[T]) Stage[T] {
	return Stage[T]{name: name, steps: steps}
}
