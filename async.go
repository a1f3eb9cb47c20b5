package hfsm

import (
	"sync"

	"github.com/alitto/pond/v2"
)

// runner is the asynchronous discipline: one sequential worker fed by an
// unbounded FIFO queue. Events submitted from any number of goroutines are
// processed in enqueue order, one at a time. The gate holds every queued
// event back until Start has completed, so "start, then trigger" is safe to
// call from different goroutines without external synchronization.
type runner struct {
	pool pond.Pool
	gate chan struct{}
	once sync.Once
}

func newRunner() *runner {
	return &runner{
		pool: pond.NewPool(1),
		gate: make(chan struct{}),
	}
}

// open releases the gate. Idempotent.
func (r *runner) open() {
	r.once.Do(func() { close(r.gate) })
}

// submit enqueues one event. A failed action terminates processing of that
// event only: the failure goes to the machine's error handler and the
// worker keeps draining the queue.
func (r *runner) submit(m *Machine, event Event) {
	r.pool.Go(func() {
		<-r.gate
		if _, err := m.triggerEvent(event); err != nil {
			m.reportError(event, err)
		}
	})
}
