package seqpool

import (
	"context"
	"sync"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Pool multiplexes a fixed set of worker goroutines across the queues
// attached to it. The pool knows nothing about the nature of the jobs
// or where their output is going; it only schedules execution and lets
// each queue order its own results.
//
// A single pool-wide mutex guards every mutable field of the pool and
// of every attached queue. The mutex is never held while a job
// function runs.
type Pool struct {
	mu sync.Mutex

	// Circular list of attached queues. qHead is the dispatch
	// cursor: advanced on dispatch to bias the next wake toward the
	// most recently fed queue, and on job selection for round-robin
	// rotation across queues.
	qHead *Queue

	tsize   int
	workers []*worker

	// Indices of workers currently parked, so a producer can wake
	// exactly one worker per dispatched job instead of broadcasting.
	tStack   []int
	nWaiting int

	// Total input items across the pool's queues; input sitting on a
	// detached queue is counted too.
	njobs int

	shutdown bool
	stopOnce sync.Once
	wg       sync.WaitGroup

	// Hidden output-suppressed queue backing Go().
	anonQ    *Queue
	anonOnce sync.Once

	// Running average of in-flight jobs, sampled each time a worker
	// picks up a job. Dampens hysteresis from bursty input when the
	// embedder sizes its pipeline.
	nCount   uint64
	nRunning int
	runSum   uint64

	metrics    MetricsPolicy
	retry      RetryPolicy
	pin        bool
	onJobPanic func(q *Queue, v any)
	ctx        context.Context
}

// Stats is a cold-path snapshot of pool activity.
type Stats struct {
	Workers    int
	Waiting    int           // workers currently parked
	Queued     int           // input items across the pool's queues, detached ones included
	RunningAvg float64       // average in-flight jobs at job-start instants
	WaitTime   time.Duration // accumulated worker idle time
}

// NewPool creates a pool and starts opts.Workers worker goroutines.
// The pool owns its workers; queues are created separately with
// NewQueue and attached to the pool.
func NewPool(opts Options) *Pool {
	opts.FillDefaults()

	p := &Pool{
		tsize:      opts.Workers,
		workers:    make([]*worker, opts.Workers),
		tStack:     make([]int, 0, opts.Workers),
		metrics:    opts.Metrics,
		retry:      opts.Retry,
		pin:        opts.PinWorkers,
		onJobPanic: opts.OnJobPanic,
		ctx:        opts.Ctx,
	}
	for i := range p.workers {
		w := &worker{p: p, idx: i}
		w.pending = sync.NewCond(&p.mu)
		p.workers[i] = w
	}
	for _, w := range p.workers {
		p.wg.Add(1)
		go w.run()
	}
	lg.FromContext(p.ctx).Info("seqpool started", lg.Int("workers", p.tsize))
	return p
}

// Stop shuts the pool down and joins all workers. Each worker finishes
// the job it is currently executing, if any, then exits; queued but
// not-started jobs are not drained. Attached queues are not destroyed,
// but their shutdown flags are set and their condition variables
// broadcast so that blocked producers and consumers are released.
func (p *Pool) Stop() {
	p.shutdownPool()
	p.wg.Wait()
	lg.FromContext(p.ctx).Info("seqpool stopped")
}

// Kill is Stop without the join: workers are woken and abandoned. They
// still finish the single job they are executing outside the lock,
// then exit on their own. Use after a fatal error when waiting for the
// drain is pointless.
func (p *Pool) Kill() {
	p.shutdownPool()
	lg.FromContext(p.ctx).Warn("seqpool killed")
}

func (p *Pool) shutdownPool() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.shutdown = true
		for _, w := range p.workers {
			w.pending.Signal()
		}
		if q := p.qHead; q != nil {
			for {
				q.shutdown = true
				q.broadcastAll()
				q = q.next
				if q == p.qHead {
					break
				}
			}
		}
		p.mu.Unlock()
	})
}

// Go dispatches a fire-and-forget job with no result delivery. Jobs
// run on a hidden output-suppressed queue of capacity 2*Workers that
// is created on first use. Blocks when that queue is at capacity.
func (p *Pool) Go(fn JobFunc, arg any) error {
	p.anonOnce.Do(func() {
		p.anonQ, _ = NewQueue(p, 2*p.tsize, true)
	})
	if p.anonQ == nil {
		return ErrPoolClosed
	}
	return p.anonQ.Dispatch(fn, arg)
}

// Stats returns a consistent snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{
		Workers: p.tsize,
		Waiting: p.nWaiting,
		Queued:  p.njobs,
	}
	if p.nCount > 0 {
		s.RunningAvg = float64(p.runSum) / float64(p.nCount)
	}
	for _, w := range p.workers {
		s.WaitTime += w.waitTime
	}
	return s
}

// nextRunnable scans the circular queue list starting at the dispatch
// cursor for a queue with pending input whose output side still has
// room. Called with the pool mutex held.
func (p *Pool) nextRunnable() *Queue {
	q := p.qHead
	if q == nil {
		return nil
	}
	first := q
	for {
		if q.nInput > 0 && (q.inOnly || q.nOutput+q.nProcessing < q.qsize) {
			return q
		}
		q = q.next
		if q == first {
			return nil
		}
	}
}

// wakeOne pops a parked worker, if any, and signals it. Called with
// the pool mutex held after new input has been queued. When the stack
// is empty every worker is already running and will see the job on its
// next scan.
func (p *Pool) wakeOne() {
	if n := len(p.tStack); n > 0 {
		idx := p.tStack[n-1]
		p.tStack = p.tStack[:n-1]
		p.workers[idx].pending.Signal()
	}
}
