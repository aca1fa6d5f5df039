package seqpool

import (
	"runtime"
	"sync"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// worker is one long-lived pool goroutine. It repeatedly selects a
// runnable queue, extracts the head job, executes it outside the lock
// and deposits the result back on the queue.
type worker struct {
	p   *Pool
	idx int

	// pending is parked on when no queue has runnable work.
	pending *sync.Cond

	// waitTime accumulates time spent parked. Guarded by the pool
	// mutex, read by Stats.
	waitTime time.Duration
}

func (w *worker) run() {
	p := w.p
	defer p.wg.Done()

	if p.pin {
		runtime.LockOSThread()
		if err := PinToCPU(w.idx % runtime.NumCPU()); err != nil {
			lg.FromContext(p.ctx).Warn("worker pinning failed",
				lg.Int("worker", w.idx),
				lg.Any("error", err),
			)
		}
	}

	p.mu.Lock()
	for !p.shutdown {
		q := p.nextRunnable()
		if q == nil {
			// No runnable queue: park until a producer feeds one.
			p.tStack = append(p.tStack, w.idx)
			p.nWaiting++
			t0 := time.Now()
			w.pending.Wait()
			w.waitTime += time.Since(t0)
			p.nWaiting--
			continue
		}

		j := q.input.Remove().(*job)
		q.nInput--
		p.njobs--
		q.nProcessing++
		p.qHead = q.next
		if q.nInput == 0 {
			q.inputEmpty.Signal()
		}

		p.nRunning++
		p.nCount++
		p.runSum += uint64(p.nRunning)

		p.mu.Unlock()
		data := w.execute(j)
		p.mu.Lock()

		p.nRunning--
		p.metrics.IncExecuted()
		q.deposit(j, data)
		putJob(j)
	}
	p.mu.Unlock()
}

// execute runs the job function with the pool mutex released. A panic
// in the callback is contained and logged, and the job is treated as
// returning nil, so the queue's processing count always comes back
// down.
func (w *worker) execute(j *job) (data any) {
	defer func() {
		if r := recover(); r != nil {
			lg.FromContext(w.p.ctx).Error("job panicked",
				lg.Int("worker", w.idx),
				lg.String("queue", j.q.id.String()),
				lg.Any("panic", r),
			)
			w.p.reportJobPanic(j.q, r)
			data = nil
		}
	}()
	return j.fn(j.arg)
}
