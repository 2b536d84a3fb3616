package reactor

import (
	"time"

	"github.com/faizol/reactor/schedulers"
)

// Just emits each of values in order, then completes, synchronously on whatever
// goroutine calls Subscribe.
func Just[T any](values ...T) Observable[T] {
	return FromSlice(values)
}

// FromSlice emits every element of values in order, then completes. Grounded on
// Spectonic-urx's from_chan.go producer loop, generalized from draining a channel to
// draining a slice and checking disposal between sends instead of relying on a closed
// channel to signal completion.
func FromSlice[T any](values []T) Observable[T] {
	return Create(func(obs Observer[T]) {
		d := NewDisposable()
		obs.SetUpstream(d)
		for _, v := range values {
			if d.IsDisposed() {
				return
			}
			obs.OnNext(v)
		}
		if !d.IsDisposed() {
			obs.OnCompleted()
		}
	})
}

// Empty completes immediately without emitting any value.
func Empty[T any]() Observable[T] {
	return Create(func(obs Observer[T]) {
		obs.SetUpstream(NewDisposable())
		obs.OnCompleted()
	})
}

// Never never emits and never terminates; its Disposable is the only way to stop it.
func Never[T any]() Observable[T] {
	return Create(func(obs Observer[T]) {
		obs.SetUpstream(NewDisposable())
	})
}

// Throw immediately delivers err as a terminal error.
func Throw[T any](err error) Observable[T] {
	return Create(func(obs Observer[T]) {
		obs.SetUpstream(NewDisposable())
		obs.OnError(err)
	})
}

// Interval emits a monotonically increasing counter, starting at 0, every period on
// sched, never completing on its own. Successive ticks are scheduled
// delay-from-this-timepoint off the previous tick's own due time rather than off "now
// at return time", so a slow consumer or a busy scheduler does not compound drift
// across ticks (see DESIGN.md's Open Questions).
func Interval(period time.Duration, sched schedulers.Scheduler) Observable[int64] {
	return Create(func(obs Observer[int64]) {
		worker := sched.CreateWorker()
		d := NewDisposable()
		d.AddCallback(worker.Dispose)
		obs.SetUpstream(d)

		var n int64
		var tick schedulers.Action
		tick = func(time.Time) schedulers.Directive {
			if obs.IsDisposed() {
				return schedulers.None()
			}
			obs.OnNext(n)
			n++
			return schedulers.DelayFromThisTimepoint(period)
		}
		worker.ScheduleDelay(period, obs, tick)
	})
}
