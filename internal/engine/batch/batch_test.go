package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Process(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("Sequential", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)
		var order []int
		var processed int

		err = p.Process(context.Background(), items, func(_ context.Context, batch []int, batchIndex int) error {
			order = append(order, batchIndex)
			processed += len(batch)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 25, processed)
		assert.Equal(t, []int{0, 1, 2}, order)
	})

	t.Run("Concurrent", func(t *testing.T) {
		p, err := NewProcessor[int](5)
		require.NoError(t, err)
		var processed atomic.Int32
		var inFlight, peak atomic.Int32

		err = p.ProcessConcurrent(context.Background(), items, func(_ context.Context, batch []int, _ int) error {
			n := inFlight.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			processed.Add(int32(len(batch)))
			inFlight.Add(-1)
			return nil
		}, 2)
		require.NoError(t, err)
		assert.Equal(t, int32(25), processed.Load())
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("ErrorHandling", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)
		boom := errors.New("fail")

		err = p.Process(context.Background(), items, func(_ context.Context, _ []int, batchIndex int) error {
			if batchIndex == 1 {
				return boom
			}
			return nil
		})
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "batch 1 failed")
	})

	t.Run("ConcurrentError", func(t *testing.T) {
		p, err := NewProcessor[int](5)
		require.NoError(t, err)
		boom := errors.New("fail")

		err = p.ProcessConcurrent(context.Background(), items, func(_ context.Context, _ []int, batchIndex int) error {
			if batchIndex == 3 {
				return boom
			}
			return nil
		}, 3)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "batch 3 failed")
	})

	t.Run("Cancelled", func(t *testing.T) {
		p, err := NewProcessor[int](5)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = p.Process(ctx, items, func(context.Context, []int, int) error { return nil })
		require.ErrorIs(t, err, context.Canceled)

		err = p.ProcessConcurrent(ctx, items, func(context.Context, []int, int) error { return nil }, 2)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		assert.ErrorIs(t, p.Process(context.Background(), nil, nil), ErrEmptyItems)
		assert.ErrorIs(t, p.ProcessConcurrent(context.Background(), nil, nil, 1), ErrEmptyItems)
	})

	t.Run("NilCallback", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		assert.ErrorIs(t, p.Process(context.Background(), items, nil), ErrNilCallback)
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		_, err := NewProcessor[int](0)
		require.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int](2000)
		require.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestProcessor_ProgressCallback(t *testing.T) {
	items := make([]string, 7)
	p, err := NewProcessor[string](3)
	require.NoError(t, err)

	var mu sync.Mutex
	var snaps []ProgressSnapshot
	p.WithProgressCallback(func(s ProgressSnapshot) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})

	require.NoError(t, p.ProcessConcurrent(context.Background(), items,
		func(context.Context, []string, int) error { return nil }, 2))

	require.Len(t, snaps, 3)
	last := snaps[0]
	for _, s := range snaps {
		if s.ProcessedBatches > last.ProcessedBatches {
			last = s
		}
	}
	assert.Equal(t, 7, last.ProcessedItems)
	assert.Equal(t, 3, last.TotalBatches)
	assert.InDelta(t, 100.0, last.PercentComplete, 1e-9)
}

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10, 10)

	assert.InDelta(t, 0.0, p.PercentComplete(), 1e-9)
	assert.False(t, p.IsComplete())

	p.AddProcessed(10)
	assert.InDelta(t, 10.0, p.PercentComplete(), 1e-9)

	snap := p.Snapshot()
	assert.Equal(t, 10, snap.ProcessedItems)
	assert.Equal(t, 1, snap.ProcessedBatches)
	assert.Equal(t, 100, snap.TotalItems)
	assert.Equal(t, 10, snap.BatchSize)

	p.AddProcessed(90)
	assert.InDelta(t, 100.0, p.PercentComplete(), 1e-9)
	assert.True(t, p.IsComplete())
	assert.False(t, p.Snapshot().LastUpdateTime.Before(snap.LastUpdateTime))
}

func TestProgress_Empty(t *testing.T) {
	p := NewProgress(0, 0, 10)
	assert.InDelta(t, 0.0, p.PercentComplete(), 1e-9)
	assert.True(t, p.IsComplete())
}

func TestProcessor_Batches(t *testing.T) {
	p, err := NewProcessor[int](10)
	require.NoError(t, err)
	bounds := p.Batches(25)
	require.Len(t, bounds, 3)
	assert.Equal(t, [2]int{0, 10}, bounds[0])
	assert.Equal(t, [2]int{10, 20}, bounds[1])
	assert.Equal(t, [2]int{20, 25}, bounds[2])
	assert.Equal(t, 10, p.BatchSize())
	assert.Empty(t, p.Batches(0))
}
