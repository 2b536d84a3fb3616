package reactor

import "fmt"

// RepeatWhen re-subscribes to source every time it completes, as long as notifier's
// returned observable keeps emitting: each completion of source calls notifier() and
// subscribes to the result. The first value notifier emits triggers a fresh
// subscription to source; notifier completing without ever emitting propagates
// completion downstream instead; notifier erroring (or panicking) propagates that
// error downstream. Re-subscription trampolines through the same stage machine as
// concat so a source that completes synchronously, over and over, drains iteratively
// instead of recursing (grounded on ReactivePlusPlus's repeat_when, whose "does not
// stack overflow" test resubscribes 500,000 times on one call stack).
func RepeatWhen[T any, N any](source Observable[T], notifier func() Observable[N]) Observable[T] {
	return Create(func(downstream Observer[T]) {
		full := NewDisposable()
		rc := NewRefCountDisposable(full)
		downstream.SetUpstream(full)

		state := &repeatState[T, N]{downstream: downstream, rc: rc, source: source, notifier: notifier}
		state.resubscribeLoop(rc.AddRef())
	})
}

// Repeat re-subscribes to source n more times after it completes (n < 0 means
// unlimited), then lets the final completion through.
func Repeat[T any](source Observable[T], n int) Observable[T] {
	return Create(func(downstream Observer[T]) {
		remaining := n
		notifier := func() Observable[struct{}] {
			if remaining == 0 {
				return Empty[struct{}]()
			}
			if remaining > 0 {
				remaining--
			}
			return Just(struct{}{})
		}
		RepeatWhen(source, notifier).Subscribe(downstream)
	})
}

type repeatState[T any, N any] struct {
	downstream Observer[T]
	rc         *RefCountDisposable
	source     Observable[T]
	notifier   func() Observable[N]
	stage      stageHolder
}

// resubscribeLoop iteratively (re-)subscribes to source until either a terminal
// signal reaches downstream or the pipeline is disposed.
func (s *repeatState[T, N]) resubscribeLoop(ref Disposable) {
	for {
		if s.rc.IsDisposed() {
			return
		}
		if s.subscribeOnce(ref) {
			return
		}
	}
}

// subscribeOnce subscribes to source exactly once and reports whether the caller's
// loop should stop (true: either the subscription is now live and will resume the
// loop itself asynchronously, or a terminal signal already reached downstream
// synchronously) or keep looping without recursing (false: a synchronous notifier
// emission already decided to resubscribe).
func (s *repeatState[T, N]) subscribeOnce(ref Disposable) bool {
	s.stage.store(stageDraining)
	obs := &repeatSourceObserver[T, N]{state: s, ref: ref}
	s.source.Subscribe(obs)
	return s.stage.casFromDrainingTo(stageProcessing)
}

type repeatSourceObserver[T any, N any] struct {
	state *repeatState[T, N]
	ref   Disposable
}

func (o *repeatSourceObserver[T, N]) OnNext(v T)       { o.state.downstream.OnNext(v) }
func (o *repeatSourceObserver[T, N]) OnError(err error) { o.state.downstream.OnError(err) }

func (o *repeatSourceObserver[T, N]) OnCompleted() {
	o.ref.Clear()
	if o.state.rc.IsDisposed() {
		return
	}

	notifierObs, err := callNotifier(o.state.notifier)
	if err != nil {
		o.state.downstream.OnError(err)
		return
	}
	notifierObs.Subscribe(&repeatNotifierObserver[T, N]{outer: o})
}

func (o *repeatSourceObserver[T, N]) SetUpstream(d Disposable) { _ = o.ref.Add(d) }
func (o *repeatSourceObserver[T, N]) IsDisposed() bool          { return o.state.rc.IsDisposed() }
func (o *repeatSourceObserver[T, N]) Dispose()                  {}

// resubscribe is called once the notifier has decided to trigger a fresh run. It
// either hands control back to the subscribeOnce call still on the stack (synchronous
// notifier emission) or, if that call already returned (asynchronous notifier
// emission), starts a fresh non-recursive loop itself.
func (o *repeatSourceObserver[T, N]) resubscribe() {
	if o.state.stage.casFromDrainingTo(stageCompletedWhileDraining) {
		return
	}
	o.state.resubscribeLoop(o.ref)
}

// repeatNotifierObserver watches the observable notifier() returned for a single
// triggering value.
type repeatNotifierObserver[T any, N any] struct {
	outer    *repeatSourceObserver[T, N]
	upstream Disposable
	fired    boolOnce
}

func (n *repeatNotifierObserver[T, N]) OnNext(N) {
	if !n.fired.claim() {
		return
	}
	if n.upstream != nil {
		n.upstream.Dispose()
	}
	n.outer.resubscribe()
}

func (n *repeatNotifierObserver[T, N]) OnError(err error) {
	n.outer.state.downstream.OnError(err)
}

func (n *repeatNotifierObserver[T, N]) OnCompleted() {
	if n.fired.isClaimed() {
		return
	}
	n.outer.state.downstream.OnCompleted()
}

func (n *repeatNotifierObserver[T, N]) SetUpstream(d Disposable) { n.upstream = d }
func (n *repeatNotifierObserver[T, N]) IsDisposed() bool         { return n.fired.isClaimed() }
func (n *repeatNotifierObserver[T, N]) Dispose() {
	if n.fired.claim() && n.upstream != nil {
		n.upstream.Dispose()
	}
}

func callNotifier[N any](notifier func() Observable[N]) (obs Observable[N], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToStreamError(r)
		}
	}()
	return notifier(), nil
}

func panicToStreamError(r any) error {
	if e, ok := r.(error); ok {
		return fmt.Errorf("reactor: notifier panicked: %w", e)
	}
	return fmt.Errorf("reactor: notifier panicked: %v", r)
}
