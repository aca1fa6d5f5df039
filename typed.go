package seqpool

// Typed is a thin generic facade over a Queue for embedders whose jobs
// share one argument and one result type. The engine underneath stays
// heterogeneous: many Typed views with different type parameters can
// share one pool.
type Typed[T, R any] struct {
	Q *Queue
}

// NewTypedQueue creates a queue on p and wraps it.
func NewTypedQueue[T, R any](p *Pool, qsize int) (Typed[T, R], error) {
	q, err := NewQueue(p, qsize, false)
	if err != nil {
		return Typed[T, R]{}, err
	}
	return Typed[T, R]{Q: q}, nil
}

// Dispatch submits a typed job. Semantics match Queue.Dispatch.
func (tq Typed[T, R]) Dispatch(fn func(T) R, arg T) error {
	return tq.Q.Dispatch(func(v any) any { return fn(v.(T)) }, arg)
}

// TryDispatch submits a typed job without blocking.
func (tq Typed[T, R]) TryDispatch(fn func(T) R, arg T) error {
	return tq.Q.TryDispatch(func(v any) any { return fn(v.(T)) }, arg)
}

// Next returns the next in-order result without waiting. ok is false
// when no result is ready.
func (tq Typed[T, R]) Next() (R, bool) {
	return typedResult[R](tq.Q.NextResult())
}

// NextWait blocks for the next in-order result. ok is false once the
// queue is shut down and drained.
func (tq Typed[T, R]) NextWait() (R, bool) {
	return typedResult[R](tq.Q.NextResultWait())
}

func typedResult[R any](r *Result) (R, bool) {
	var zero R
	if r == nil {
		return zero, false
	}
	v, _ := r.Data().(R)
	r.Delete(nil)
	return v, true
}
