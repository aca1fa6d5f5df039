package seqpool

import (
	"errors"
)

var (
	// ErrQueueFull is returned by TryDispatch when the queue's
	// admission bound is reached and the caller asked not to block.
	ErrQueueFull = errors.New("seqpool: queue is full")

	// ErrShutdown is returned when dispatching to a queue whose
	// shutdown flag is set.
	ErrShutdown = errors.New("seqpool: queue is shut down")

	// ErrPoolClosed is returned for operations against a pool that
	// has been stopped or killed.
	ErrPoolClosed = errors.New("seqpool: pool closed")

	// ErrNilFunc is returned when a dispatched job has a nil JobFunc.
	ErrNilFunc = errors.New("seqpool: job func is nil")

	// ErrQueueSize is returned by NewQueue for a capacity below one.
	ErrQueueSize = errors.New("seqpool: qsize must be at least 1")
)
