package seqpool

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the pool to report dispatch and
// execution activity.
//
// Implementations must be safe for concurrent use. All methods are
// expected to be lightweight and non-blocking: they are invoked with
// the pool mutex held.
type MetricsPolicy interface {

	// IncDispatched increments the dispatched jobs counter.
	IncDispatched()

	// IncExecuted increments the executed jobs counter.
	IncExecuted()

	// IncDelivered increments the consumed results counter.
	IncDelivered()

	// AddDropped adds n to the counter of jobs discarded on queue
	// destruction without having run.
	AddDropped(n int64)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	dispatched atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	executed atomic.Uint64

	_ [56]byte

	delivered atomic.Uint64

	_ [56]byte

	dropped atomic.Int64
}

// Dispatched returns the total number of jobs admitted to queues.
func (m *AtomicMetrics) Dispatched() uint64 { return m.dispatched.Load() }

// Executed returns the total number of job functions run.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Delivered returns the total number of results taken by consumers.
func (m *AtomicMetrics) Delivered() uint64 { return m.delivered.Load() }

// Dropped returns the number of jobs freed on queue destruction
// without running.
func (m *AtomicMetrics) Dropped() int64 { return m.dropped.Load() }

func (m *AtomicMetrics) IncDispatched()    { m.dispatched.Add(1) }
func (m *AtomicMetrics) IncExecuted()      { m.executed.Add(1) }
func (m *AtomicMetrics) IncDelivered()     { m.delivered.Add(1) }
func (m *AtomicMetrics) AddDropped(n int64) { m.dropped.Add(n) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards all
// metric updates.
//
// It can be used when metrics collection is disabled and zero overhead
// is desired.
type NoopMetrics struct{}

func (m *NoopMetrics) IncDispatched()     {}
func (m *NoopMetrics) IncExecuted()       {}
func (m *NoopMetrics) IncDelivered()      {}
func (m *NoopMetrics) AddDropped(n int64) {}
