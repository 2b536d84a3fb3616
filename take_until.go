package reactor

// TakeUntil subscribes to source and trigger concurrently: the trigger's first
// emission or terminal (OnNext, OnError, or OnCompleted) completes (or errors) the
// output and tears down source; source's own terminal signal tears down trigger.
// Grounded on original_source's take_until.cpp ("source 1: -0-1-2-3-4-5-... / source 2
// (trigger) emits at t=5 / output: -0-1-2-3-|") and on Spectonic-urx/merge.go's
// dual-subscription fan-in idiom, specialized here to two statically-known sources
// instead of merge's reflect.Select over N channels.
func TakeUntil[T any, U any](source Observable[T], trigger Observable[U]) Observable[T] {
	return Create(func(downstream Observer[T]) {
		token := NewDisposable()
		downstream.SetUpstream(token)

		sourceSub := source.Subscribe(NewObserver(
			downstream.OnNext,
			downstream.OnError,
			downstream.OnCompleted,
		))
		_ = token.Add(sourceSub)

		triggerSub := trigger.Subscribe(NewObserver(
			func(U) { downstream.OnCompleted() },
			downstream.OnError,
			downstream.OnCompleted,
		))
		_ = token.Add(triggerSub)
	})
}
