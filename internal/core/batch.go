package core

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers caps parallel files. Each worker holds one Argon2id
// instance (64 MiB) while deriving.
func DefaultWorkers() int {
	return min(runtime.NumCPU(), 4)
}

// FileError pairs a path with the reason it failed
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// BatchResult contains the per-file results of a batch operation
type BatchResult struct {
	Done    []string    // Files processed successfully
	Skipped []string    // Files left untouched (unchanged, or conflict without --force)
	Failed  []FileError // Files with errors
}

// OK reports whether no file failed
func (r *BatchResult) OK() bool {
	return len(r.Failed) == 0
}

type outcome int

const (
	outcomeDone outcome = iota
	outcomeSkipped
)

type fileFunc func(ctx context.Context, path string) (outcome, error)

// runBatch applies fn to every path with at most workers in flight.
// A failing file never stops its siblings. Once ctx is cancelled no new
// files start and the remaining ones are reported as failed.
func runBatch(ctx context.Context, paths []string, workers int, fn fileFunc) (*BatchResult, error) {
	if workers < 1 {
		workers = DefaultWorkers()
	}

	type slot struct {
		outcome outcome
		err     error
	}
	slots := make([]slot, len(paths))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				slots[i].err = err
				return nil
			}
			slots[i].outcome, slots[i].err = fn(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{}
	for i, s := range slots {
		switch {
		case s.err != nil:
			result.Failed = append(result.Failed, FileError{Path: paths[i], Err: s.err})
		case s.outcome == outcomeSkipped:
			result.Skipped = append(result.Skipped, paths[i])
		default:
			result.Done = append(result.Done, paths[i])
		}
	}
	return result, ctx.Err()
}
