package seqpool

// reportJobPanic reports a recovered job panic to the embedder's
// handler.
//
// Panics are contained per job and do not stop pool execution; the
// queue's accounting is unaffected. If no handler is registered the
// event is only logged.
func (p *Pool) reportJobPanic(q *Queue, v any) {
	if p.onJobPanic != nil {
		p.onJobPanic(q, v)
	}
}
