package seqpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtomicMetricsCounts(t *testing.T) {
	m := &AtomicMetrics{}
	p := NewPool(Options{Workers: 2, Metrics: m})
	defer p.Stop()

	q, err := NewQueue(p, 16, false)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Dispatch(func(v any) any { return v }, i))
	}
	require.NoError(t, q.Flush())

	require.Equal(t, uint64(10), m.Dispatched())
	require.Equal(t, uint64(10), m.Executed())
	require.Equal(t, uint64(0), m.Delivered())

	for q.NextResult() != nil {
	}
	require.Equal(t, uint64(10), m.Delivered())
	require.Equal(t, int64(0), m.Dropped())
}

func TestMetricsDroppedOnDestroy(t *testing.T) {
	m := &AtomicMetrics{}
	p := NewPool(Options{Workers: 1, Metrics: m})
	defer p.Stop()

	q, err := NewQueue(p, 8, false)
	require.NoError(t, err)

	q.Detach()
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Dispatch(func(v any) any { return v }, i))
	}
	q.Destroy()

	require.Equal(t, uint64(3), m.Dispatched())
	require.Equal(t, uint64(0), m.Executed())
	require.Equal(t, int64(3), m.Dropped())
}
