package dispatch

import (
	"sync"
	"sync/atomic"
	"time"
)

// Queue hands work from background goroutines to the render thread. Goroutines Post closures;
// the render loop calls Drain once per frame and the closures run there, so UI state is only
// ever touched from one goroutine.
type Queue struct {
	mu       sync.Mutex
	pending  []func()
	ready    chan struct{}
	inflight atomic.Int64
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Post schedules fn to run on the next Drain. Safe for concurrent use.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Drain runs every closure posted so far, in order, and returns how many ran. Closures posted
// while draining wait for the next call.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len returns the number of closures waiting for Drain.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Inflight returns the number of Run calls whose work has not been posted back yet.
func (q *Queue) Inflight() int {
	return int(q.inflight.Load())
}

// Run executes work on a new goroutine and posts done(result, err) back to the queue. There is
// no cancellation: done always runs, on the draining goroutine.
func Run[T any](q *Queue, work func() (T, error), done func(T, error)) {
	q.inflight.Add(1)
	go func() {
		v, err := work()
		q.Post(func() { done(v, err) })
		q.inflight.Add(-1)
	}()
}

// Settle drains repeatedly until nothing is in flight or queued, or timeout passes. It returns
// false on timeout. Meant for tests and shutdown; the render loop uses Drain.
func (q *Queue) Settle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		q.Drain()
		if q.Inflight() == 0 && q.Len() == 0 {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		select {
		case <-q.ready:
		case <-time.After(min(remaining, 10*time.Millisecond)):
		}
	}
}
