package schedulers

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// RunLoop is the scheduler of spec.md §4.3 that owns no thread of its own: a single
// shared queue is drained only by explicit calls to Dispatch/DispatchIfReady, so a
// host loop (e.g. a GUI event loop) can pump it.
type RunLoop struct {
	mu    sync.Mutex
	queue *Queue[*Schedulable]
}

// NewRunLoop returns an empty RunLoop scheduler.
func NewRunLoop() *RunLoop {
	return &RunLoop{queue: NewQueue[*Schedulable]()}
}

// CreateWorker returns a Worker that submits onto this RunLoop's single shared queue.
// Disposing the worker only stops it accepting new schedulables; schedulables it
// already submitted stay queued and still run unless their own target reports
// disposed.
func (r *RunLoop) CreateWorker() Worker {
	return &runLoopWorker{loop: r}
}

// Dispatch blocks until one due schedulable has run.
func (r *RunLoop) Dispatch() {
	for {
		r.mu.Lock()
		dueNanos, ok := r.queue.PeekDue()
		r.mu.Unlock()
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		if wait := time.Duration(dueNanos - time.Now().UnixNano()); wait > 0 {
			time.Sleep(wait)
			continue
		}

		r.mu.Lock()
		sched, due, popped := r.queue.PopReady(time.Now().UnixNano())
		r.mu.Unlock()
		if !popped {
			continue
		}
		if sched.Target != nil && sched.Target.IsDisposed() {
			continue
		}
		r.execute(sched, due)
		return
	}
}

// DispatchIfReady runs at most one schedulable whose due time is <= now, returning
// false without blocking if none is ready.
func (r *RunLoop) DispatchIfReady() bool {
	r.mu.Lock()
	sched, due, ok := r.queue.PopReady(time.Now().UnixNano())
	r.mu.Unlock()
	if !ok {
		return false
	}
	if sched.Target != nil && sched.Target.IsDisposed() {
		return true
	}
	r.execute(sched, due)
	return true
}

// IsEmpty reports whether the queue holds no schedulables at all.
func (r *RunLoop) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queue.Len() == 0
}

// IsAnyReadySchedulable reports whether the earliest schedulable's due time is <= now.
func (r *RunLoop) IsAnyReadySchedulable() bool {
	r.mu.Lock()
	dueNanos, ok := r.queue.PeekDue()
	r.mu.Unlock()
	return ok && dueNanos <= time.Now().UnixNano()
}

func (r *RunLoop) execute(sched *Schedulable, due int64) {
	scheduledFor := time.Unix(0, due)
	directive := runSafely(sched.Action, scheduledFor, sched.Target)
	r.reschedule(directive, scheduledFor, sched)
}

func (r *RunLoop) reschedule(d Directive, scheduledFor time.Time, sched *Schedulable) {
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
	r.mu.Lock()
	r.queue.Push(due, sched)
	r.mu.Unlock()
}

// runLoopWorker is a thin handle onto a RunLoop's shared queue.
type runLoopWorker struct {
	loop     *RunLoop
	disposed atomic.Bool
}

func (w *runLoopWorker) Schedule(target Disposed, action Action) {
	w.ScheduleDelay(0, target, action)
}

func (w *runLoopWorker) ScheduleDelay(delay time.Duration, target Disposed, action Action) {
	if w.disposed.Load() {
		return
	}
	due := time.Now().Add(delay).UnixNano()
	w.loop.mu.Lock()
	w.loop.queue.Push(due, &Schedulable{ID: uuid.New(), Target: target, Action: action})
	w.loop.mu.Unlock()
}

func (w *runLoopWorker) Dispose()         { w.disposed.Store(true) }
func (w *runLoopWorker) IsDisposed() bool { return w.disposed.Load() }
