package schedulers

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// TestScheduler is the deterministic virtual-clock scheduler of spec.md §4.3/§8:
// TimeAdvance atomically moves the virtual now and synchronously fires every
// schedulable whose due time falls within the advanced window, in
// (due-time, submission-order) order, recording every submission and execution
// timepoint for assertions.
type TestScheduler struct {
	mu          sync.Mutex
	now         int64
	queue       *Queue[*Schedulable]
	schedulings []time.Time
	executions  []time.Time
}

// NewTestScheduler returns a TestScheduler whose virtual clock starts at the Unix
// epoch.
func NewTestScheduler() *TestScheduler {
	return &TestScheduler{queue: NewQueue[*Schedulable]()}
}

// CreateWorker returns a Worker that submits onto this TestScheduler's single shared
// queue. Disposing the worker only stops it accepting new schedulables; schedulables
// it already submitted stay queued and still run (and re-schedule) unless their own
// target reports disposed.
func (s *TestScheduler) CreateWorker() Worker {
	return &testSchedulerWorker{sched: s}
}

// Now returns the current virtual time.
func (s *TestScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Unix(0, s.now)
}

// TimeAdvance moves the virtual clock forward by d, firing every schedulable whose
// due time is <= the new now, in due-time/submission order. A schedulable that calls
// TimeAdvance itself nests correctly: the nested call operates against the same
// virtual clock and can move it further ahead of the outer call's own target, in
// which case the outer call simply stops once its own target has been reached without
// re-running anything the nested call already ran.
func (s *TestScheduler) TimeAdvance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d.Nanoseconds()
	s.mu.Unlock()

	for {
		s.mu.Lock()
		dueNanos, ok := s.queue.PeekDue()
		if !ok || dueNanos > target {
			if target > s.now {
				s.now = target
			}
			s.mu.Unlock()
			return
		}
		s.now = dueNanos
		sched, due, popped := s.queue.PopReady(dueNanos)
		s.mu.Unlock()
		if !popped {
			continue
		}
		if sched.Target != nil && sched.Target.IsDisposed() {
			continue
		}

		scheduledFor := time.Unix(0, due)
		s.recordExecution(scheduledFor)
		directive := runSafely(sched.Action, scheduledFor, sched.Target)
		s.reschedule(directive, scheduledFor, sched)
	}
}

// GetSchedulings returns every timepoint a schedulable was submitted for, in
// submission order (including re-schedules).
func (s *TestScheduler) GetSchedulings() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Time, len(s.schedulings))
	copy(out, s.schedulings)
	return out
}

// GetExecutions returns every timepoint a schedulable actually ran at, in the order
// it ran.
func (s *TestScheduler) GetExecutions() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Time, len(s.executions))
	copy(out, s.executions)
	return out
}

func (s *TestScheduler) recordScheduling(t time.Time) {
	s.mu.Lock()
	s.schedulings = append(s.schedulings, t)
	s.mu.Unlock()
}

func (s *TestScheduler) recordExecution(t time.Time) {
	s.mu.Lock()
	s.executions = append(s.executions, t)
	s.mu.Unlock()
}

func (s *TestScheduler) submit(delay time.Duration, target Disposed, action Action) {
	s.mu.Lock()
	due := s.now + delay.Nanoseconds()
	s.queue.Push(due, &Schedulable{ID: uuid.New(), Target: target, Action: action})
	s.mu.Unlock()
	s.recordScheduling(time.Unix(0, due))
}

func (s *TestScheduler) reschedule(d Directive, scheduledFor time.Time, sched *Schedulable) {
	s.mu.Lock()
	var due int64
	switch d.kind {
	case kindNone:
		s.mu.Unlock()
		return
	case kindDelayFromNow:
		due = s.now + d.delay.Nanoseconds()
	case kindDelayFromThisTimepoint:
		due = scheduledFor.UnixNano() + d.delay.Nanoseconds()
	case kindDelayTo:
		due = d.at.UnixNano()
	default:
		s.mu.Unlock()
		return
	}
	s.queue.Push(due, sched)
	s.mu.Unlock()
	s.recordScheduling(time.Unix(0, due))
}

type testSchedulerWorker struct {
	sched    *TestScheduler
	disposed atomic.Bool
}

func (w *testSchedulerWorker) Schedule(target Disposed, action Action) {
	if w.disposed.Load() {
		return
	}
	w.sched.submit(0, target, action)
}

func (w *testSchedulerWorker) ScheduleDelay(delay time.Duration, target Disposed, action Action) {
	if w.disposed.Load() {
		return
	}
	w.sched.submit(delay, target, action)
}

func (w *testSchedulerWorker) Dispose()         { w.disposed.Store(true) }
func (w *testSchedulerWorker) IsDisposed() bool { return w.disposed.Load() }
