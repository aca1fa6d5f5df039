package seqpool_test

import (
	"sync"
	"testing"
	"time"

	sp "github.com/Andrej220/go-utils/seqpool"
)

// Jobs that finish in reverse order must still come back in dispatch
// order: the longest sleeper is dispatched first.
func TestReverseCompletionOrder(t *testing.T) {
	p := sp.NewPool(sp.Options{Workers: 2})
	defer p.Stop()

	q, err := sp.NewQueue(p, 4, false)
	if err != nil {
		t.Fatalf("new queue: %v", err)
	}

	const n = 10
	go func() {
		for i := 0; i < n; i++ {
			d := time.Duration(n-i) * 10 * time.Millisecond
			if err := q.Dispatch(func(v any) any {
				time.Sleep(d)
				return v
			}, i); err != nil {
				t.Errorf("dispatch %d: %v", i, err)
				return
			}
		}
	}()

	for i := 0; i < n; i++ {
		r := q.NextResultWait()
		if r == nil {
			t.Fatalf("result %d: got nil", i)
		}
		if r.Serial() != uint64(i) {
			t.Fatalf("serial = %d; want %d", r.Serial(), i)
		}
		if got := r.Data().(int); got != i {
			t.Fatalf("data = %d; want %d", got, i)
		}
		r.Delete(nil)
	}
}

// Many workers racing over short jobs hammer the serial gate: workers
// frequently finish holding a premature serial and must park on the
// output condition until their predecessors append.
func TestSerialGateStress(t *testing.T) {
	p := sp.NewPool(sp.Options{Workers: 8})
	defer p.Stop()

	q, err := sp.NewQueue(p, 32, false)
	if err != nil {
		t.Fatalf("new queue: %v", err)
	}

	const n = 2000
	go func() {
		for i := 0; i < n; i++ {
			if err := q.Dispatch(func(v any) any {
				if v.(int)%7 == 0 {
					time.Sleep(time.Microsecond)
				}
				return v.(int) * 2
			}, i); err != nil {
				t.Errorf("dispatch %d: %v", i, err)
				return
			}
		}
	}()

	for i := 0; i < n; i++ {
		r := q.NextResultWait()
		if r == nil {
			t.Fatalf("result %d: got nil", i)
		}
		if r.Serial() != uint64(i) {
			t.Fatalf("serial = %d; want %d", r.Serial(), i)
		}
		if got := r.Data().(int); got != i*2 {
			t.Fatalf("data = %d; want %d", got, i*2)
		}
		r.Delete(nil)
	}
}

func TestMultiQueueRoundRobin(t *testing.T) {
	p := sp.NewPool(sp.Options{Workers: 8})
	defer p.Stop()

	const nq, jobs, qsize = 3, 50, 8

	queues := make([]*sp.Queue, nq)
	for i := range queues {
		q, err := sp.NewQueue(p, qsize, false)
		if err != nil {
			t.Fatalf("new queue %d: %v", i, err)
		}
		queues[i] = q
	}

	var wg sync.WaitGroup
	results := make([][]int, nq)
	for qi, q := range queues {
		wg.Add(1)
		go func(qi int, q *sp.Queue) {
			defer wg.Done()
			for {
				r := q.NextResult()
				if r == nil {
					if len(results[qi]) == countFor(qi, jobs, nq) {
						return
					}
					if sz := q.Size(); sz > qsize {
						t.Errorf("queue %d size = %d; admission bound %d", qi, sz, qsize)
						return
					}
					time.Sleep(time.Millisecond)
					continue
				}
				results[qi] = append(results[qi], r.Data().(int))
				r.Delete(nil)
			}
		}(qi, q)
	}

	for i := 0; i < jobs; i++ {
		q := queues[i%nq]
		if err := q.Dispatch(func(v any) any { return v }, i); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}
	wg.Wait()

	for qi, got := range results {
		want := countFor(qi, jobs, nq)
		if len(got) != want {
			t.Fatalf("queue %d delivered %d results; want %d", qi, len(got), want)
		}
		for k, v := range got {
			if v != qi+k*nq {
				t.Fatalf("queue %d result %d = %d; want %d", qi, k, v, qi+k*nq)
			}
		}
	}
}

func countFor(qi, jobs, nq int) int {
	n := jobs / nq
	if qi < jobs%nq {
		n++
	}
	return n
}

// Shutdown mid-stream: pending dispatches fail, admitted jobs drain in
// order, then the consumer sees nil.
func TestShutdownDrain(t *testing.T) {
	p := sp.NewPool(sp.Options{Workers: 4})
	defer p.Stop()

	q, err := sp.NewQueue(p, 16, false)
	if err != nil {
		t.Fatalf("new queue: %v", err)
	}

	admitted := make(chan int, 1)
	go func() {
		n := 0
		for i := 0; i < 20; i++ {
			err := q.Dispatch(func(v any) any {
				time.Sleep(20 * time.Millisecond)
				return v
			}, i)
			if err != nil {
				break
			}
			n++
		}
		admitted <- n
	}()

	time.Sleep(35 * time.Millisecond)
	q.Shutdown()

	if err := q.Dispatch(func(v any) any { return v }, 99); err != sp.ErrShutdown {
		t.Fatalf("dispatch after shutdown = %v; want ErrShutdown", err)
	}

	n := <-admitted
	if n == 0 {
		t.Fatal("no jobs admitted before shutdown")
	}

	for i := 0; i < n; i++ {
		r := q.NextResultWait()
		if r == nil {
			t.Fatalf("result %d: got nil; %d jobs were admitted", i, n)
		}
		if r.Serial() != uint64(i) {
			t.Fatalf("serial = %d; want %d", r.Serial(), i)
		}
		r.Delete(nil)
	}
	if r := q.NextResultWait(); r != nil {
		t.Fatalf("drained queue returned serial %d; want nil", r.Serial())
	}
	if !q.Empty() {
		t.Fatal("queue not empty after drain")
	}
}
