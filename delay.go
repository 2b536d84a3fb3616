package reactor

import (
	"time"

	"github.com/faizol/reactor/schedulers"
)

// Delay re-emits every signal from source — values and the single terminal signal
// alike — delay after the moment it originally arrived, preserving order. Grounded on
// the delay_from_now Open-Question resolution (see DESIGN.md) and on
// original_source's delay.cpp example, whose expected output delays on_error by the
// same fixed amount as every on_next before it. Ordering across re-emitted signals
// falls out of sched's own worker, which is already due-time ordered (schedulers.Queue,
// a min-heap by due time and submission sequence).
func Delay[T any](source Observable[T], delay time.Duration, sched schedulers.Scheduler) Observable[T] {
	return Create(func(downstream Observer[T]) {
		token := NewDisposable()
		downstream.SetUpstream(token)

		worker := sched.CreateWorker()
		_ = token.AddCallback(worker.Dispose)

		schedule := func(run func()) {
			worker.ScheduleDelay(delay, downstream, func(time.Time) schedulers.Directive {
				run()
				return schedulers.None()
			})
		}

		upstream := source.SubscribeFunc(
			func(v T) { schedule(func() { downstream.OnNext(v) }) },
			func(err error) { schedule(func() { downstream.OnError(err) }) },
			func() { schedule(downstream.OnCompleted) },
		)
		_ = token.Add(upstream)
	})
}
