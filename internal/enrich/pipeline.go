package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bizfinder/pkg/metrics"

	"go.uber.org/zap"
)

// Pipeline applies its stages to every item it is given. A failing step is
// logged and counted; it never stops later steps or stages.
type Pipeline[T any] struct {
	stages []Stage[T]
	logger *zap.Logger
}

func NewPipeline[T any](logger *zap.Logger, stages ...Stage[T]) *Pipeline[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline[T]{stages: stages, logger: logger}
}

// Run applies every stage to item, with a barrier between stages, and
// returns the joined step errors.
func (p *Pipeline[T]) Run(ctx context.Context, item *T) error {
	var errs []error
	for _, stage := range p.stages {
		stageErrs := make([]error, len(stage.steps))
		var wg sync.WaitGroup
		for i, step := range stage.steps {
			wg.Add(1)
			go func(i int, step Step[T]) {
				defer wg.Done()
				stageErrs[i] = step(ctx, item)
			}(i, step)
		}
		wg.Wait()

		for _, err := range stageErrs {
			if err == nil {
				continue
			}
			metrics.PipelineStepFailures.WithLabelValues(stage.name).Inc()
			p.logger.Warn("step failed", zap.String("stage", stage.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", stage.name, err))
		}
	}
	return errors.Join(errs...)
}

// Process runs every item received from in until in is closed. done, when
// not nil, is called with each item and the result of Run.
func (p *Pipeline[T]) Process(ctx context.Context, in <-chan *T, done func(item *T, err error)) {
	for item := range in {
		err := p.Run(ctx, item)
		if done != nil {
			done(item, err)
		}
	}
}
