package seqpool

import (
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/eapache/queue"
	"github.com/oklog/ulid/v2"
)

// Queue is a bounded FIFO of pending jobs plus an ordered FIFO of
// completed results. A pool may run many heterogeneous queues at once;
// each queue hands its results back in the order its jobs were
// dispatched, regardless of the order workers finish them.
//
// All fields are guarded by the owning pool's mutex. While a queue is
// attached the pool may access and mutate it; job records are owned by
// the input ring, result records by the output ring until a consumer
// removes them.
type Queue struct {
	p  *Pool
	id ulid.ULID

	input  *queue.Queue // *job, FIFO
	output *queue.Queue // *Result, appended in serial order
	qsize  int

	nInput      int
	nOutput     int
	nProcessing int

	// nextSerial stamps the next dispatched job; currSerial is the
	// next serial allowed onto the output ring. The gap between them
	// is exactly the set of jobs in input or processing, which is
	// what makes the in-order deposit gate deadlock free.
	nextSerial uint64
	currSerial uint64

	shutdown bool
	inOnly   bool
	attached bool

	outputAvail    *sync.Cond // new output appended; also wakes serial-gated workers
	inputNotFull   *sync.Cond // admission bound has room again
	inputEmpty     *sync.Cond // input ring drained
	noneProcessing *sync.Cond // nProcessing hit zero

	next, prev *Queue // pool's circular list
}

// NewQueue creates a queue with capacity qsize and attaches it to the
// pool. qsize bounds the queue's total occupancy: input plus
// processing for an output-suppressed queue, input plus processing
// plus undrained output otherwise.
//
// inOnly marks the queue output-suppressed: results are discarded on
// completion, for callbacks that have side effects and no value to
// return.
func NewQueue(p *Pool, qsize int, inOnly bool) (*Queue, error) {
	if qsize < 1 {
		return nil, ErrQueueSize
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown {
		return nil, ErrPoolClosed
	}

	q := &Queue{
		p:      p,
		id:     ulid.Make(),
		input:  queue.New(),
		output: queue.New(),
		qsize:  qsize,
		inOnly: inOnly,
	}
	q.outputAvail = sync.NewCond(&p.mu)
	q.inputNotFull = sync.NewCond(&p.mu)
	q.inputEmpty = sync.NewCond(&p.mu)
	q.noneProcessing = sync.NewCond(&p.mu)

	q.attachLocked()
	lg.FromContext(p.ctx).Info("queue created",
		lg.String("queue", q.id.String()),
		lg.Int("qsize", qsize),
		lg.Any("in_only", inOnly),
	)
	return q, nil
}

// Attach splices the queue back into the pool's circular list, making
// it eligible for worker selection again. Attaching an attached queue
// is a no-op.
func (q *Queue) Attach() {
	q.p.mu.Lock()
	defer q.p.mu.Unlock()
	q.attachLocked()
}

func (q *Queue) attachLocked() {
	if q.attached {
		return
	}
	p := q.p
	if p.qHead == nil {
		q.next, q.prev = q, q
		p.qHead = q
	} else {
		head := p.qHead
		q.prev = head.prev
		q.next = head
		head.prev.next = q
		head.prev = q
	}
	q.attached = true
	// Freshly attached input may already be runnable.
	if q.nInput > 0 {
		p.wakeOne()
	}
}

// Detach removes the queue from the pool's circular list. The queue
// keeps its contents and may be reattached later; workers already
// executing its jobs still find it valid for result deposit, but no
// new jobs are selected from it.
func (q *Queue) Detach() {
	q.p.mu.Lock()
	defer q.p.mu.Unlock()
	q.detachLocked()
}

func (q *Queue) detachLocked() {
	if !q.attached {
		return
	}
	p := q.p
	if q.next == q {
		p.qHead = nil
	} else {
		q.prev.next = q.next
		q.next.prev = q.prev
		if p.qHead == q {
			p.qHead = q.next
		}
	}
	q.next, q.prev = nil, nil
	q.attached = false
}

// Shutdown stops admission: subsequent dispatches fail, while queued
// and in-flight jobs keep draining. All four condition variables are
// broadcast so blocked producers and consumers observe the flag.
// Idempotent.
func (q *Queue) Shutdown() {
	q.p.mu.Lock()
	defer q.p.mu.Unlock()
	if q.shutdown {
		return
	}
	q.shutdown = true
	q.broadcastAll()
	lg.FromContext(q.p.ctx).Info("queue shut down", lg.String("queue", q.id.String()))
}

func (q *Queue) broadcastAll() {
	q.outputAvail.Broadcast()
	q.inputNotFull.Broadcast()
	q.inputEmpty.Broadcast()
	q.noneProcessing.Broadcast()
}

// Destroy detaches the queue and releases any remaining job and
// result records. The caller must ensure no worker is still executing
// a job belonging to this queue, typically via a prior Flush.
func (q *Queue) Destroy() {
	p := q.p
	p.mu.Lock()
	defer p.mu.Unlock()

	q.detachLocked()
	q.shutdown = true
	q.broadcastAll()

	var dropped int64
	for q.input.Length() > 0 {
		putJob(q.input.Remove().(*job))
		dropped++
	}
	p.njobs -= q.nInput
	q.nInput = 0
	for q.output.Length() > 0 {
		putResult(q.output.Remove().(*Result))
	}
	q.nOutput = 0
	if dropped > 0 {
		p.metrics.AddDropped(dropped)
	}
	lg.FromContext(p.ctx).Info("queue destroyed",
		lg.String("queue", q.id.String()),
		lg.Any("dropped", dropped),
	)
}

// Flush blocks until every job dispatched on the queue before the call
// has executed to completion; results, if any, are then sitting on the
// output ring. Fails with ErrPoolClosed only if the pool shuts down
// while input remains, since those jobs can never run.
func (q *Queue) Flush() error {
	p := q.p
	p.mu.Lock()
	defer p.mu.Unlock()

	for q.nInput > 0 && !p.shutdown {
		q.inputEmpty.Wait()
	}
	if q.nInput > 0 && p.shutdown {
		return ErrPoolClosed
	}
	for q.nProcessing > 0 {
		q.noneProcessing.Wait()
	}
	return nil
}

// Empty reports whether the queue holds nothing at all: no pending
// input, no jobs being processed and no undrained output.
func (q *Queue) Empty() bool {
	q.p.mu.Lock()
	defer q.p.mu.Unlock()
	return q.nInput == 0 && q.nProcessing == 0 && q.nOutput == 0
}

// Len returns the number of completed, undrained results.
func (q *Queue) Len() int {
	q.p.mu.Lock()
	defer q.p.mu.Unlock()
	return q.nOutput
}

// Size returns everything in flight or awaiting consumption: input
// plus processing plus output.
func (q *Queue) Size() int {
	q.p.mu.Lock()
	defer q.p.mu.Unlock()
	return q.nOutput + q.nInput + q.nProcessing
}

// ID returns the queue's identity as used in log fields.
func (q *Queue) ID() string { return q.id.String() }

// full reports whether the admission bound is reached. Called with the
// pool mutex held.
func (q *Queue) full() bool {
	if q.inOnly {
		return q.nInput+q.nProcessing >= q.qsize
	}
	return q.nInput+q.nProcessing+q.nOutput >= q.qsize
}

// deposit publishes one completed job. Called by a worker with the
// pool mutex held.
//
// For an output-suppressed queue the result is discarded and the
// serial advances immediately. Otherwise the worker holds the result
// on its stack until every earlier serial has been appended: jobs are
// taken from the input ring in serial order, so the serials currently
// processing are exactly currSerial..currSerial+nProcessing-1 and the
// wait below can only ever be on a job another worker is finishing.
func (q *Queue) deposit(j *job, data any) {
	if q.inOnly {
		q.nProcessing--
		q.currSerial++
		q.inputNotFull.Signal()
		if q.nProcessing == 0 {
			q.noneProcessing.Signal()
		}
		return
	}

	for j.serial != q.currSerial {
		q.outputAvail.Wait()
	}

	r := getResult()
	r.serial = j.serial
	r.data = data
	q.output.Add(r)
	q.nOutput++
	q.currSerial++
	q.nProcessing--

	// Broadcast, not signal: both a consumer in NextResultWait and
	// sibling workers holding later serials may be waiting here.
	q.outputAvail.Broadcast()
	q.inputNotFull.Signal()
	if q.nProcessing == 0 {
		q.noneProcessing.Signal()
	}
}
