package seqpool

import (
	"context"
	"errors"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
)

// Dispatch submits a job to the queue. The job is stamped with the
// next serial number, appended to the input ring and a parked worker,
// if any, is woken. Blocks while the queue is at its admission bound;
// fails with ErrShutdown once the queue is shutting down, or with
// ErrPoolClosed once the pool is.
func (q *Queue) Dispatch(fn JobFunc, arg any) error {
	return q.dispatch(fn, arg, false)
}

// TryDispatch is the non-blocking Dispatch: a queue at its admission
// bound yields ErrQueueFull instead of waiting.
func (q *Queue) TryDispatch(fn JobFunc, arg any) error {
	return q.dispatch(fn, arg, true)
}

func (q *Queue) dispatch(fn JobFunc, arg any, nonblock bool) error {
	if fn == nil {
		return ErrNilFunc
	}
	p := q.p
	p.mu.Lock()
	defer p.mu.Unlock()

	for q.full() && !q.shutdown && !p.shutdown {
		if nonblock {
			return ErrQueueFull
		}
		q.inputNotFull.Wait()
	}
	if p.shutdown {
		return ErrPoolClosed
	}
	if q.shutdown {
		return ErrShutdown
	}

	j := getJob()
	j.fn = fn
	j.arg = arg
	j.q = q
	j.serial = q.nextSerial
	q.nextSerial++

	q.input.Add(j)
	q.nInput++
	p.njobs++
	p.metrics.IncDispatched()

	// Point the dispatch cursor at this queue so the next wake
	// prefers it.
	if q.attached {
		p.qHead = q
	}
	p.wakeOne()
	return nil
}

// DispatchRetry re-attempts a non-blocking dispatch under the pool's
// retry policy, sleeping with capped exponential backoff between
// attempts. Unlike Dispatch it is cancelable: ctx aborts the wait
// between attempts. Errors other than ErrQueueFull are returned as is.
func (q *Queue) DispatchRetry(ctx context.Context, fn JobFunc, arg any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	pol := q.p.retry
	bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

	for attempt := 1; ; attempt++ {
		err := q.TryDispatch(fn, arg)
		if err == nil || !errors.Is(err, ErrQueueFull) {
			return err
		}
		if attempt == pol.Attempts {
			return err
		}
		delay := bo.Next()
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C // drain if timer has fired
			}
			return ctx.Err()
		}
	}
}

// NextResult pops the head of the output ring without waiting.
// Results only ever appear in serial order, so the head is always the
// next deliverable serial. Returns nil when no result is ready.
func (q *Queue) NextResult() *Result {
	q.p.mu.Lock()
	defer q.p.mu.Unlock()
	return q.nextResultLocked()
}

func (q *Queue) nextResultLocked() *Result {
	if q.nOutput == 0 {
		return nil
	}
	r := q.output.Remove().(*Result)
	q.nOutput--
	q.p.metrics.IncDelivered()
	// Consuming a result frees an occupancy slot.
	q.inputNotFull.Signal()
	return r
}

// NextResultWait blocks until a result is available or no further
// result can ever appear, in which case it returns nil: the queue is
// shut down and fully drained, or the pool is shut down and the jobs
// still in flight have all deposited. On an output-suppressed queue it
// returns nil immediately.
func (q *Queue) NextResultWait() *Result {
	p := q.p
	p.mu.Lock()
	defer p.mu.Unlock()

	if q.inOnly {
		return nil
	}
	for q.nOutput == 0 {
		if p.shutdown && q.nProcessing == 0 {
			// Remaining input will never run.
			return nil
		}
		if q.shutdown && q.nInput == 0 && q.nProcessing == 0 {
			return nil
		}
		q.outputAvail.Wait()
	}
	return q.nextResultLocked()
}
