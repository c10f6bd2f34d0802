package astar

import (
	"context"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrSharedGrid is returned when two batch jobs point at the same grid.
var ErrSharedGrid = errors.New("batch jobs must not share a grid")

// Job is one independent search handed to RunBatch.
type Job struct {
	Grid  *Grid
	Start Position
	Goal  Position
}

// RunBatch runs every job on its own grid, at most NumberOfWorkers at a time.
// Results are returned in job order. The first configuration error stops the
// batch; cancellation shows up as Cancelled outcomes.
func RunBatch(contextObject context.Context, jobs []Job, options ...Option) ([]Result, error) {
	batchOptions := newOptions(options)

	seen := mapset.NewThreadUnsafeSet()
	for i, job := range jobs {
		if job.Grid == nil {
			continue
		}
		if !seen.Add(job.Grid) {
			return nil, fmt.Errorf("%w: job %d", ErrSharedGrid, i)
		}
	}

	results := make([]Result, len(jobs))
	group, groupContext := errgroup.WithContext(contextObject)
	group.SetLimit(batchOptions.NumberOfWorkers)

	for i, job := range jobs {
		i, job := i, job
		group.Go(func() error {
			result, err := Run(groupContext, job.Grid, job.Start, job.Goal, nil, options...)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	batchOptions.Logger.Debug("batch finished",
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", batchOptions.NumberOfWorkers))
	return results, nil
}
