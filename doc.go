// Package seqpool provides a worker pool that multiplexes a fixed set
// of workers across multiple independent job queues, each of which
// hands back its results in submission order.
//
// Design goals
//
// The package is designed around the following principles:
//
//   - Share one worker budget across many heterogeneous job streams
//   - Return each stream's results strictly in dispatch order
//   - Bound per-queue occupancy so producers feel backpressure
//   - Wake exactly one worker per dispatched job, never the herd
//
// Rather than optimizing for minimal latency of a single task, seqpool
// optimizes for steady pipelines (e.g. streaming codecs) where each
// logical stream must consume its outputs in the order it produced its
// inputs, regardless of how long individual jobs take.
//
// Architecture overview
//
// The pool is composed of three loosely coupled layers:
//
//   1. Queues
//      Each Queue owns a bounded input ring of pending jobs and an
//      output ring of completed results. Serial numbers stamped at
//      dispatch time drive the in-order delivery gate.
//
//   2. Execution (Pool / workers)
//      Workers scan the pool's circular queue list round-robin from
//      the dispatch cursor, execute jobs with the lock released, and
//      deposit results back in serial order.
//
//   3. Job lifecycle
//      Jobs carry an opaque argument into a JobFunc; results carry the
//      opaque return value until a consumer removes and deletes them.
//      Records are recycled to keep allocations off the hot path.
//
// Locking model
//
// A single pool-wide mutex guards every field of the pool and of every
// attached queue. Condition variables are signalled only while the
// mutex is held and only when their predicate has just become true.
// The mutex is never held across a user callback.
//
// Ordering
//
// Within one queue, results come back in exactly the order their jobs
// were dispatched: a worker finishing out of turn parks on the queue's
// output condition until every earlier serial has been appended.
// Because jobs leave the input ring in serial order, the serials in
// flight are always consecutive and the gate cannot deadlock. Across
// queues no ordering is promised.
//
// Backpressure
//
// A queue's qsize bounds its total occupancy: pending input plus jobs
// being processed, plus undrained output for queues that deliver
// results. Dispatch blocks (or fails, in the TryDispatch and
// DispatchRetry forms) while the bound is reached.
//
// Shutdown
//
// Queue shutdown stops admission and lets queued and in-flight work
// drain; consumers see the tail of the output stream and then nil.
// Pool Stop joins the workers after their current job; Kill abandons
// them. Neither destroys queues, but both release anyone blocked on
// queue condition variables.
//
// Intended use cases
//
// seqpool is well suited for:
//
//   - Streaming pipelines that fan work out and merge results in order
//   - Mixing unrelated job types on one thread budget
//   - Fire-and-forget side-effect jobs via output-suppressed queues
//
// It is not a general-purpose goroutine replacement: there is no
// priority scheduling, work stealing or per-job cancellation.
package seqpool
