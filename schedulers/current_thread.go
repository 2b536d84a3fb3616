package schedulers

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// currentThreadScheduler hands out fresh trampoline workers.
type currentThreadScheduler struct{}

// CurrentThread returns the trampoline scheduler of spec.md §4.3. Go has no portable,
// queryable notion of "the calling OS thread" — goroutines migrate across Ms — so this
// redefines "current thread" as "current worker instance" (see DESIGN.md): each Worker
// owns one queue, and the first Schedule call on it drains that queue before
// returning; Schedule calls made from within a running Action enqueue onto that same
// queue instead of recursing, so deep chains of re-scheduling Actions do not grow the
// call stack.
func CurrentThread() Scheduler { return currentThreadScheduler{} }

func (currentThreadScheduler) CreateWorker() Worker {
	return &currentThreadWorker{queue: NewQueue[*Schedulable]()}
}

type currentThreadWorker struct {
	mu       sync.Mutex
	queue    *Queue[*Schedulable]
	draining bool
	disposed atomic.Bool
}

func (w *currentThreadWorker) Schedule(target Disposed, action Action) {
	w.enqueue(0, target, action)
}

func (w *currentThreadWorker) ScheduleDelay(delay time.Duration, target Disposed, action Action) {
	w.enqueue(delay, target, action)
}

func (w *currentThreadWorker) enqueue(delay time.Duration, target Disposed, action Action) {
	if w.disposed.Load() {
		return
	}
	due := time.Now().Add(delay).UnixNano()
	sched := &Schedulable{ID: uuid.New(), Target: target, Action: action}

	w.mu.Lock()
	w.queue.Push(due, sched)
	alreadyDraining := w.draining
	if !alreadyDraining {
		w.draining = true
	}
	w.mu.Unlock()

	if !alreadyDraining {
		w.drain()
	}
}

// drain iteratively pops the earliest due item, sleeping until it is due, and runs it.
// Re-schedules from within the action land back on w.queue via enqueue's fast path
// (draining is already true) instead of recursing into drain.
func (w *currentThreadWorker) drain() {
	defer func() {
		w.mu.Lock()
		w.draining = false
		w.mu.Unlock()
	}()

	for {
		if w.disposed.Load() {
			w.mu.Lock()
			w.queue = NewQueue[*Schedulable]()
			w.mu.Unlock()
			return
		}

		w.mu.Lock()
		dueNanos, ok := w.queue.PeekDue()
		if !ok {
			w.mu.Unlock()
			return
		}
		now := time.Now().UnixNano()
		if dueNanos > now {
			w.mu.Unlock()
			time.Sleep(time.Duration(dueNanos - now))
			continue
		}
		sched, poppedDue, ok2 := w.queue.PopReady(time.Now().UnixNano())
		w.mu.Unlock()
		if !ok2 || sched == nil {
			continue
		}

		if sched.Target != nil && sched.Target.IsDisposed() {
			continue
		}

		scheduledFor := time.Unix(0, poppedDue)
		directive := runSafely(sched.Action, scheduledFor, sched.Target)
		w.reschedule(directive, scheduledFor, sched)
	}
}

func (w *currentThreadWorker) reschedule(d Directive, scheduledFor time.Time, sched *Schedulable) {
	var due int64
	switch d.kind {
	case kindNone:
		return
	case kindDelayFromNow:
		due = time.Now().Add(d.delay).UnixNano()
	case kindDelayFromThisTimepoint:
		due = scheduledFor.Add(d.delay).UnixNano()
	case kindDelayTo:
		due = d.at.UnixNano()
	default:
		return
	}
	w.mu.Lock()
	w.queue.Push(due, sched)
	w.mu.Unlock()
}

func (w *currentThreadWorker) Dispose() { w.disposed.Store(true) }
func (w *currentThreadWorker) IsDisposed() bool { return w.disposed.Load() }
