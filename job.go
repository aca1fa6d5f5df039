package seqpool

import (
	"sync"
)

// JobFunc is the function executed by a worker for a dispatched job.
// It receives the opaque argument supplied at dispatch time and returns
// the opaque payload delivered through the queue's output side.
//
// A JobFunc runs outside the pool lock and may be scheduled on any
// worker. It must not call blocking operations of its own queue
// (Dispatch, Flush, NextResultWait) and it must return: a job that
// never returns permanently occupies a processing slot.
type JobFunc func(arg any) any

// job is a pending unit of work sitting on a queue's input ring.
type job struct {
	fn     JobFunc
	arg    any
	q      *Queue
	serial uint64
}

// Result is one completed job, delivered in dispatch order.
//
// A Result is owned by its queue's output ring until a consumer removes
// it via NextResult or NextResultWait, after which the consumer owns it
// and should call Delete when done.
type Result struct {
	serial uint64
	data   any
}

// Serial returns the job's position in the queue's delivery order,
// starting at zero.
func (r *Result) Serial() uint64 { return r.serial }

// Data returns the value produced by the job function.
func (r *Result) Data() any { return r.data }

// Delete releases a consumed result. If free is non-nil it is invoked
// with the payload first; the pool never inspects payload contents, the
// hook only centralizes the common cleanup idiom. The record itself is
// recycled.
func (r *Result) Delete(free func(any)) {
	if r == nil {
		return
	}
	if free != nil {
		free(r.data)
	}
	putResult(r)
}

// Job and result records are recycled to keep allocation pressure off
// the dispatch and delivery hot paths.
var (
	jobPool    = sync.Pool{New: func() any { return new(job) }}
	resultPool = sync.Pool{New: func() any { return new(Result) }}
)

func getJob() *job { return jobPool.Get().(*job) }

func putJob(j *job) {
	j.fn, j.arg, j.q, j.serial = nil, nil, nil, 0
	jobPool.Put(j)
}

func getResult() *Result { return resultPool.Get().(*Result) }

func putResult(r *Result) {
	r.serial, r.data = 0, nil
	resultPool.Put(r)
}
