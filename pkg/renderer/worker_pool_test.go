package renderer

import (
	"context"
	"errors"
	"image"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testTasks(n int) []TileTask {
	tasks := make([]TileTask, n)
	for i := range tasks {
		tasks[i] = TileTask{Tile: NewTile(i, image.Rect(0, 0, 1, 1)), TaskID: i}
	}
	return tasks
}

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	wp := NewWorkerPool(3)
	results, wait := wp.Run(context.Background(), testTasks(10), func(ctx context.Context, task TileTask) (TileResult, error) {
		return TileResult{TaskID: task.TaskID}, nil
	})

	var ids []int
	for r := range results {
		ids = append(ids, r.TaskID)
	}
	if err := wait(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sort.Ints(ids)
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ids); diff != "" {
		t.Errorf("Task IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkerPool_BoundsConcurrency(t *testing.T) {
	wp := NewWorkerPool(2)
	var running, peak int32

	results, wait := wp.Run(context.Background(), testTasks(8), func(ctx context.Context, task TileTask) (TileResult, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return TileResult{TaskID: task.TaskID}, nil
	})
	for range results {
	}
	if err := wait(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if peak > 2 {
		t.Errorf("Expected at most 2 concurrent tiles, saw %d", peak)
	}
}

func TestWorkerPool_PropagatesError(t *testing.T) {
	errBoom := errors.New("boom")
	wp := NewWorkerPool(2)

	results, wait := wp.Run(context.Background(), testTasks(20), func(ctx context.Context, task TileTask) (TileResult, error) {
		if task.TaskID == 3 {
			return TileResult{}, errBoom
		}
		return TileResult{TaskID: task.TaskID}, nil
	})
	for range results {
	}

	if err := wait(); !errors.Is(err, errBoom) {
		t.Errorf("Expected the tile error, got %v", err)
	}
}

func TestWorkerPool_DefaultWorkers(t *testing.T) {
	if got := NewWorkerPool(0).GetNumWorkers(); got < 1 {
		t.Errorf("Expected at least one worker by default, got %d", got)
	}
}
