package reactor

import "sync"

// Observable is a lazy, re-subscribable value producer: calling Subscribe runs the
// underlying subscribe function afresh each time (cold by default; Publish makes a hot
// variant). It carries no state of its own beyond the subscribe function.
type Observable[T any] struct {
	subscribeFn func(Observer[T])
}

// Create builds an Observable from a raw subscribe function. fn is responsible for
// establishing a producer-side Disposable and calling obs.SetUpstream on it (spec.md
// §4.1, step 1), then emitting OnNext/OnError/OnCompleted. Most callers should reach
// for the source constructors in sources.go instead of calling Create directly.
func Create[T any](fn func(Observer[T])) Observable[T] {
	return Observable[T]{subscribeFn: fn}
}

// Subscribe runs the Observable's producer against obs and returns the Disposable the
// producer attached via obs.SetUpstream, so callers can cancel the subscription
// independently of terminating obs directly.
func (o Observable[T]) Subscribe(obs Observer[T]) Disposable {
	rec := &upstreamRecorder[T]{Observer: obs}
	if o.subscribeFn != nil {
		o.subscribeFn(rec)
	}
	rec.mu.Lock()
	upstream := rec.upstream
	rec.mu.Unlock()
	if upstream == nil {
		upstream = NewDisposable()
		obs.SetUpstream(upstream)
	}
	return upstream
}

// SubscribeFunc is sugar over Subscribe for callers that only care about values,
// errors and completion and don't need to hold on to an Observer of their own.
func (o Observable[T]) SubscribeFunc(onNext func(T), onError func(error), onCompleted func()) Disposable {
	return o.Subscribe(NewObserver(onNext, onError, onCompleted))
}

// upstreamRecorder captures whatever Disposable the producer passes to SetUpstream so
// Subscribe can hand it back to the caller, without requiring every producer to also
// return it explicitly.
type upstreamRecorder[T any] struct {
	Observer[T]
	mu       sync.Mutex
	upstream Disposable
}

func (r *upstreamRecorder[T]) SetUpstream(d Disposable) {
	r.mu.Lock()
	r.upstream = d
	r.mu.Unlock()
	r.Observer.SetUpstream(d)
}
