package renderer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile        *Tile
	PassNumber  int
	StartSample int // Samples per pixel already in the film
	Samples     int // Samples per pixel to add in this pass
	TaskID      int
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
}

// TileFunc renders one task
type TileFunc func(ctx context.Context, task TileTask) (TileResult, error)

// WorkerPool bounds the number of tiles rendered at once
type WorkerPool struct {
	numWorkers int
	sem        *semaphore.Weighted
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		sem:        semaphore.NewWeighted(int64(numWorkers)),
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every task and streams results in completion order. The
// results channel is closed once all workers are done; wait then returns the
// first error. The first failing tile cancels the tiles not yet started.
func (wp *WorkerPool) Run(ctx context.Context, tasks []TileTask, render TileFunc) (results <-chan TileResult, wait func() error) {
	out := make(chan TileResult, len(tasks))
	done := make(chan error, 1)

	go func() {
		err := wp.dispatch(ctx, tasks, render, out)
		close(out)
		done <- err
	}()

	return out, func() error { return <-done }
}

func (wp *WorkerPool) dispatch(ctx context.Context, tasks []TileTask, render TileFunc, out chan<- TileResult) error {
	eg, ctx := errgroup.WithContext(ctx)

	for _, task := range tasks {
		if err := wp.sem.Acquire(ctx, 1); err != nil {
			// A failed tile cancels ctx; report that failure rather than the cancellation.
			if werr := eg.Wait(); werr != nil {
				return werr
			}
			return fmt.Errorf("while acquiring worker for tile %d: %w", task.Tile.ID, err)
		}

		task := task // per-iteration copy (go.mod targets 1.21, pre-loopvar semantics)
		eg.Go(func() error {
			defer wp.sem.Release(1)

			result, err := render(ctx, task)
			if err != nil {
				return fmt.Errorf("while rendering tile %d: %w", task.Tile.ID, err)
			}
			out <- result
			return nil
		})
	}

	return eg.Wait()
}
