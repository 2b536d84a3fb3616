package reactor

import (
	"sync"
	"time"

	"github.com/faizol/reactor/schedulers"
)

// ObserveOn re-delivers every signal from source on sched instead of whichever
// goroutine produced it, preserving order. Grounded on Spectonic-urx's Buffered
// operator (a channel plus a pump goroutine draining it in order), generalized here
// to drain through a scheduler worker instead of a bare goroutine+channel, and to
// schedule the drain task at most once at a time regardless of how many signals
// arrive while a drain is already pending (the same "already draining" guard
// schedulers/current_thread.go uses for its trampoline).
func ObserveOn[T any](source Observable[T], sched schedulers.Scheduler) Observable[T] {
	return Create(func(downstream Observer[T]) {
		token := NewDisposable()
		downstream.SetUpstream(token)

		worker := sched.CreateWorker()
		_ = token.AddCallback(worker.Dispose)

		q := &observeOnQueue[T]{}
		upstream := source.SubscribeFunc(
			func(v T) { q.push(observeOnEvent[T]{kind: eventNext, v: v}); q.scheduleDrain(worker, downstream) },
			func(err error) { q.push(observeOnEvent[T]{kind: eventError, err: err}); q.scheduleDrain(worker, downstream) },
			func() { q.push(observeOnEvent[T]{kind: eventCompleted}); q.scheduleDrain(worker, downstream) },
		)
		_ = token.Add(upstream)
	})
}

type observeOnEventKind uint8

const (
	eventNext observeOnEventKind = iota
	eventError
	eventCompleted
)

type observeOnEvent[T any] struct {
	kind observeOnEventKind
	v    T
	err  error
}

// observeOnQueue buffers signals in arrival order between the producer's goroutine and
// the scheduler worker that delivers them downstream.
type observeOnQueue[T any] struct {
	mu       sync.Mutex
	items    []observeOnEvent[T]
	draining bool
}

func (q *observeOnQueue[T]) push(e observeOnEvent[T]) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.mu.Unlock()
}

func (q *observeOnQueue[T]) scheduleDrain(worker schedulers.Worker, downstream Observer[T]) {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()

	worker.Schedule(downstream, func(time.Time) schedulers.Directive {
		q.drainAll(downstream)
		return schedulers.None()
	})
}

func (q *observeOnQueue[T]) drainAll(downstream Observer[T]) {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		next := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		switch next.kind {
		case eventNext:
			downstream.OnNext(next.v)
		case eventError:
			downstream.OnError(next.err)
		case eventCompleted:
			downstream.OnCompleted()
		}
	}
}
