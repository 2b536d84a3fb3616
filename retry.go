package reactor

import "fmt"

// RetryWhen re-subscribes to source every time it errors, as long as notifier keeps
// emitting in response to each error: the first value notifier's returned observable
// emits triggers a fresh subscription to source. Notifier completing without emitting
// gives up and surfaces ErrRetriesExhausted (wrapping the error that triggered the
// last attempt); notifier erroring (or panicking) propagates that error instead.
// Source completing normally ends the pipeline with no retry. Grounded on
// ReactivePlusPlus's retry/retry_when, sharing concat's drainStage trampoline so a
// source that errors synchronously, over and over, retries iteratively instead of
// recursing (the "handles stack overflow" scenario retries 500,000 times on one call
// stack).
func RetryWhen[T any, N any](source Observable[T], notifier func(err error) Observable[N]) Observable[T] {
	return Create(func(downstream Observer[T]) {
		full := NewDisposable()
		rc := NewRefCountDisposable(full)
		downstream.SetUpstream(full)

		state := &retryState[T, N]{downstream: downstream, rc: rc, source: source, notifier: notifier}
		state.resubscribeLoop(rc.AddRef())
	})
}

// Retry re-subscribes to source up to maxAttempts more times after an error
// (maxAttempts < 0 means unlimited). Once attempts run out it surfaces
// ErrRetriesExhausted wrapping the last error, so errors.Is matches either.
func Retry[T any](source Observable[T], maxAttempts int) Observable[T] {
	return Create(func(downstream Observer[T]) {
		attempted := 0
		notifier := func(error) Observable[struct{}] {
			if maxAttempts >= 0 && attempted >= maxAttempts {
				return Empty[struct{}]()
			}
			attempted++
			return Just(struct{}{})
		}
		RetryWhen(source, notifier).Subscribe(downstream)
	})
}

// RetryForever re-subscribes to source after every error, indefinitely. The only way
// to stop it is to dispose the returned subscription.
func RetryForever[T any](source Observable[T]) Observable[T] {
	return Retry(source, -1)
}

type retryState[T any, N any] struct {
	downstream Observer[T]
	rc         *RefCountDisposable
	source     Observable[T]
	notifier   func(err error) Observable[N]
	stage      stageHolder
}

func (s *retryState[T, N]) resubscribeLoop(ref Disposable) {
	for {
		if s.rc.IsDisposed() {
			return
		}
		if s.subscribeOnce(ref) {
			return
		}
	}
}

func (s *retryState[T, N]) subscribeOnce(ref Disposable) bool {
	s.stage.store(stageDraining)
	obs := &retrySourceObserver[T, N]{state: s, ref: ref}
	s.source.Subscribe(obs)
	return s.stage.casFromDrainingTo(stageProcessing)
}

type retrySourceObserver[T any, N any] struct {
	state *retryState[T, N]
	ref   Disposable
}

func (o *retrySourceObserver[T, N]) OnNext(v T) { o.state.downstream.OnNext(v) }

func (o *retrySourceObserver[T, N]) OnCompleted() {
	o.ref.Clear()
	o.state.downstream.OnCompleted()
}

func (o *retrySourceObserver[T, N]) OnError(lastErr error) {
	o.ref.Clear()
	if o.state.rc.IsDisposed() {
		return
	}

	notifierObs, callErr := callRetryNotifier(o.state.notifier, lastErr)
	if callErr != nil {
		o.state.downstream.OnError(callErr)
		return
	}
	notifierObs.Subscribe(&retryNotifierObserver[T, N]{outer: o, lastErr: lastErr})
}

func (o *retrySourceObserver[T, N]) SetUpstream(d Disposable) { _ = o.ref.Add(d) }
func (o *retrySourceObserver[T, N]) IsDisposed() bool          { return o.state.rc.IsDisposed() }
func (o *retrySourceObserver[T, N]) Dispose()                  {}

func (o *retrySourceObserver[T, N]) resubscribe() {
	if o.state.stage.casFromDrainingTo(stageCompletedWhileDraining) {
		return
	}
	o.state.resubscribeLoop(o.ref)
}

// retryNotifierObserver watches the observable notifier(lastErr) returned for a
// single triggering value.
type retryNotifierObserver[T any, N any] struct {
	outer    *retrySourceObserver[T, N]
	lastErr  error
	upstream Disposable
	fired    boolOnce
}

func (n *retryNotifierObserver[T, N]) OnNext(N) {
	if !n.fired.claim() {
		return
	}
	if n.upstream != nil {
		n.upstream.Dispose()
	}
	n.outer.resubscribe()
}

func (n *retryNotifierObserver[T, N]) OnError(err error) {
	n.outer.state.downstream.OnError(err)
}

func (n *retryNotifierObserver[T, N]) OnCompleted() {
	if n.fired.isClaimed() {
		return
	}
	n.outer.state.downstream.OnError(fmt.Errorf("%w: %w", ErrRetriesExhausted, n.lastErr))
}

func (n *retryNotifierObserver[T, N]) SetUpstream(d Disposable) { n.upstream = d }
func (n *retryNotifierObserver[T, N]) IsDisposed() bool         { return n.fired.isClaimed() }
func (n *retryNotifierObserver[T, N]) Dispose() {
	if n.fired.claim() && n.upstream != nil {
		n.upstream.Dispose()
	}
}

func callRetryNotifier[N any](notifier func(error) Observable[N], err error) (obs Observable[N], callErr error) {
	defer func() {
		if r := recover(); r != nil {
			callErr = panicToStreamError(r)
		}
	}()
	return notifier(err), nil
}
