package reactor

// Map and Filter sit outside this module's real scope (spec.md §1: "simple maps/
// filters are trivial once the contract is specified") but are kept as minimal, free
// generic functions — grounded on Spectonic-urx/public.go's Map/Filter — both to give
// the demo command something to chain and because operator tests read more naturally
// with a value transform available.

// Map transforms every value from source with fn, forwarding errors and completion
// unchanged.
func Map[T, R any](source Observable[T], fn func(T) R) Observable[R] {
	return Create(func(downstream Observer[R]) {
		upstream := NewObserver(
			func(v T) { downstream.OnNext(fn(v)) },
			downstream.OnError,
			downstream.OnCompleted,
		)
		d := source.Subscribe(upstream)
		downstream.SetUpstream(d)
	})
}

// Filter forwards only the values for which pred returns true.
func Filter[T any](source Observable[T], pred func(T) bool) Observable[T] {
	return Lift(source, func(downstream Observer[T]) Observer[T] {
		return NewObserver(
			func(v T) {
				if pred(v) {
					downstream.OnNext(v)
				}
			},
			downstream.OnError,
			downstream.OnCompleted,
		)
	})
}
