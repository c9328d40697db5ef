package pipeline

import (
	"context"
	"time"

	"restaurantops/internal/observability"
	"restaurantops/internal/pipelineerr"
)

// Stage exposes the one operation every pipeline stage implements: given a
// Context, mutate it in place and return nil, or return a *pipelineerr.Error
// describing what went wrong. A stage must never read a key it does not
// also write or declare as an input; Runner enforces nothing beyond
// execution order here, matching spec.md's "enforced by convention and by
// tests" for that invariant. No test in this repository checks which keys
// a stage reads.
type Stage interface {
	Name() string
	Run(ctx context.Context, pc *Context) *pipelineerr.Error
}

// Runner executes a fixed ordered list of stages sequentially for one
// Context. On the first fatal failure it stops and returns that error,
// annotated with the stage name and elapsed time; non-fatal stage errors
// are recorded as "stage_warning:<stage>" metadata and do not stop the
// runner.
type Runner struct {
	stages []Stage
}

// NewRunner builds a Runner over the given stages, executed in order.
func NewRunner(stages ...Stage) *Runner {
	return &Runner{stages: stages}
}

// Run executes every stage in order against pc, stopping at the first
// fatal error. The ctx governs cancellation: it is checked at the
// boundary between stages, per spec.md §5's "observed at stage boundaries"
// rule.
func (r *Runner) Run(ctx context.Context, pc *Context) *pipelineerr.Error {
	for _, stage := range r.stages {
		select {
		case <-ctx.Done():
			return pipelineerr.New(pipelineerr.Cancelled, "run cancelled before stage",
				pipelineerr.WithStage(stage.Name()))
		default:
		}

		start := time.Now()
		err := stage.Run(ctx, pc)
		elapsed := time.Since(start)
		observability.StageDuration.WithLabelValues(stage.Name()).Observe(elapsed.Seconds())

		if err != nil {
			err = annotateIfUnset(err, stage.Name(), elapsed)
			observability.StageFailuresTotal.WithLabelValues(stage.Name(), string(err.Kind)).Inc()
			if err.Fatal() {
				return err
			}
			// Non-fatal errors are not returned to the caller; the runner
			// records them as context metadata and keeps executing.
			pc.SetMetadata("stage_warning:"+stage.Name(), err)
			continue
		}

		pc.markComplete(stage.Name(), elapsed)
	}
	return nil
}

// annotateIfUnset fills in the stage name and elapsed time on err, keeping
// any value the stage already set.
func annotateIfUnset(err *pipelineerr.Error, stage string, elapsed time.Duration) *pipelineerr.Error {
	if err.Stage != "" && err.Elapsed != 0 {
		return err
	}
	if err.Stage != "" {
		stage = err.Stage
	}
	if err.Elapsed != 0 {
		elapsed = err.Elapsed
	}
	return pipelineerr.New(err.Kind, err.Message,
		pipelineerr.WithStage(stage),
		pipelineerr.WithDetail(err.Detail),
		pipelineerr.WithElapsed(elapsed),
		pipelineerr.WithCause(err.Unwrap()),
	)
}
