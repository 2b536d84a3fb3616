package reactor

import "sync"

// BlockingSubscribe subscribes to source and blocks the calling goroutine until source
// reaches a terminal signal, delivering every value to onNext as it arrives. It returns
// the terminal error, or nil on a clean completion. The wait is released by whichever
// of OnError or OnCompleted arrives first, exactly once; the subscription is then
// disposed before returning. No scheduler is involved: source is subscribed on the
// calling goroutine.
func BlockingSubscribe[T any](source Observable[T], onNext func(T)) error {
	var wg sync.WaitGroup
	wg.Add(1)

	var (
		mu       sync.Mutex
		done     bool
		terminal error
	)
	finish := func(err error) {
		mu.Lock()
		if done {
			mu.Unlock()
			return
		}
		done = true
		terminal = err
		mu.Unlock()
		wg.Done()
	}

	upstream := source.SubscribeFunc(
		func(v T) {
			if onNext != nil {
				onNext(v)
			}
		},
		func(err error) { finish(err) },
		func() { finish(nil) },
	)

	wg.Wait()
	upstream.Dispose()
	return terminal
}

// AsBlocking collects every value source emits into a slice, blocking until source
// terminates, and returns the collected values plus the terminal error (nil on a clean
// completion).
func AsBlocking[T any](source Observable[T]) ([]T, error) {
	var values []T
	err := BlockingSubscribe(source, func(v T) { values = append(values, v) })
	return values, err
}
