package seqpool

import (
	"context"
	"runtime"
)

// Options configure a worker Pool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is the number of worker goroutines the pool runs.
	// Defaults to runtime.GOMAXPROCS(0).
	Workers int

	// PinWorkers locks each worker to an OS thread and, on Linux,
	// pins it to a CPU core. Useful for cache-sensitive workloads,
	// not universally beneficial.
	PinWorkers bool

	// Metrics receives pool activity counters. Defaults to NoopMetrics.
	Metrics MetricsPolicy

	// Retry is the default policy used by DispatchRetry.
	Retry RetryPolicy

	// OnJobPanic, if set, is called after a job panic has been
	// recovered, with the owning queue and the panic value.
	OnJobPanic func(q *Queue, v any)

	// Ctx carries the logger used for pool lifecycle events
	// (zlog.FromContext). Defaults to context.Background().
	Ctx context.Context
}

func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
	if o.Retry.Attempts <= 0 {
		o.Retry.Attempts = defaultAttempts
	}
	if o.Retry.Initial <= 0 {
		o.Retry.Initial = defaultInitialRetry
	}
	if o.Retry.Max <= 0 {
		o.Retry.Max = defaultMaxRetry
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
}
