// Package install drives install/remove/run for resolved packages.
package install

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Job is one unit of work executed by the Engine.
type Job interface {
	Info() string
	Run(ctx context.Context) error
}

// Engine executes jobs with bounded concurrency. Each job acquires one
// slot of the semaphore before starting and releases it on every exit
// path; completion order is unspecified.
type Engine struct {
	concurrency int
	jobs        []Job
}

// NewEngine creates an engine with the given concurrency cap.
func NewEngine(concurrency int, jobs []Job) *Engine {
	return &Engine{
		concurrency: concurrency,
		jobs:        jobs,
	}
}

// Execute runs all jobs and returns how many succeeded along with the
// per-job errors. A failing job never aborts its siblings.
func (e *Engine) Execute(ctx context.Context) (int, []error) {
	mainLogger := log.With().
		Int("concurrency", e.concurrency).
		Int("total_jobs", len(e.jobs)).
		Logger()

	if len(e.jobs) == 0 {
		mainLogger.Info().Msg("No jobs to execute")
		return 0, nil
	}

	traceID := uuid.New().String()
	mainLogger = mainLogger.With().Str("trace_id", traceID).Logger()
	mainLogger.Debug().Msg("Starting engine execution")

	if e.concurrency <= 0 {
		e.concurrency = 1
	}

	sem := make(chan struct{}, e.concurrency)
	errCh := make(chan error, len(e.jobs))
	var wg sync.WaitGroup

	for i, jb := range e.jobs {
		i, jb := i, jb
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			jobLogger := mainLogger.With().
				Int("job_index", i).
				Str("job_info", jb.Info()).
				Logger()

			jobLogger.Debug().Msg("Starting job")
			jobStartTime := time.Now()

			if err := jb.Run(ctx); err != nil {
				jobLogger.Error().
					Err(err).
					Dur("duration", time.Since(jobStartTime)).
					Msg("Job failed")
				errCh <- err
				return
			}

			jobLogger.Debug().
				Dur("duration", time.Since(jobStartTime)).
				Msg("Job completed")
		}()
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return len(e.jobs) - len(errs), errs
}
