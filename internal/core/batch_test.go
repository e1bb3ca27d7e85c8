package core

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatchCollectsPerFileResults(t *testing.T) {
	paths := []string{"a", "b", "c", "d"}
	boom := errors.New("boom")

	result, err := runBatch(context.Background(), paths, 2, func(ctx context.Context, path string) (outcome, error) {
		switch path {
		case "b":
			return 0, boom
		case "c":
			return outcomeSkipped, nil
		}
		return outcomeDone, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "d"}, result.Done)
	assert.Equal(t, []string{"c"}, result.Skipped)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "b", result.Failed[0].Path)
	assert.ErrorIs(t, result.Failed[0], boom)
	assert.False(t, result.OK())
}

func TestRunBatchRespectsWorkerLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	paths := make([]string, 20)
	for i := range paths {
		paths[i] = string(rune('a' + i))
	}

	_, err := runBatch(context.Background(), paths, 3, func(ctx context.Context, path string) (outcome, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		inFlight.Add(-1)
		return outcomeDone, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	result, err := runBatch(ctx, []string{"a", "b"}, 1, func(ctx context.Context, path string) (outcome, error) {
		calls.Add(1)
		return outcomeDone, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
	assert.Len(t, result.Failed, 2)
}
