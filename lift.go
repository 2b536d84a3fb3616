package reactor

// Lift is the operator framework of spec.md §4.1: it builds a new Observable whose
// Subscribe constructs an operator-specific observer wrapping downstream (via
// newObserver), subscribes that wrapping observer upstream, and forwards the
// resulting producer disposable to downstream so cancellation composes in both
// directions. Filter is built on Lift; the other combinators in this package (concat,
// retry, repeat_when, delay, take_until, observe_on, publish) build their own
// observers directly through Create.
func Lift[T any](source Observable[T], newObserver func(downstream Observer[T]) Observer[T]) Observable[T] {
	return Create(func(downstream Observer[T]) {
		wrapping := newObserver(downstream)
		d := source.Subscribe(wrapping)
		downstream.SetUpstream(d)
	})
}
