package reactor

import "sync"

// concatState is shared by the outer observer (subscribed to the stream of
// observables) and every inner observer (subscribed to one flattened observable in
// turn). Its draining loop is the drainStage trampoline of trampoline.go, grounded on
// ReactivePlusPlus's concat_disposable.
type concatState[T any] struct {
	mu         sync.Mutex
	queue      []Observable[T]
	downstream Observer[T]
	stage      stageHolder
	rc         *RefCountDisposable
}

func (s *concatState[T]) enqueue(o Observable[T]) {
	s.mu.Lock()
	s.queue = append(s.queue, o)
	s.mu.Unlock()
}

func (s *concatState[T]) dequeue() (Observable[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		var zero Observable[T]
		return zero, false
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	return next, true
}

// subscribeInner subscribes to o and reports whether the subscription is now live
// (true: draining should stop here, the inner observer resumes it on completion) or
// already finished synchronously before Subscribe returned (false: the caller should
// keep draining in its own loop instead of recursing).
func (s *concatState[T]) subscribeInner(o Observable[T], ref Disposable) bool {
	s.stage.store(stageDraining)
	inner := &concatInnerObserver[T]{state: s, ref: ref}
	o.Subscribe(inner)
	return s.stage.casFromDrainingTo(stageProcessing)
}

// handleObservable is the one-shot entry point used the first time an observable is
// ready to run (either from the outer observer's first OnNext, or from resuming after
// an inner completed asynchronously).
func (s *concatState[T]) handleObservable(o Observable[T], ref Disposable) {
	if s.subscribeInner(o, ref) {
		return
	}
	s.drain(ref)
}

// drain iteratively pulls the next queued observable and subscribes to it, reusing the
// single ref for as long as sources keep completing synchronously, so this never grows
// the call stack regardless of how many queued sources complete back to back.
func (s *concatState[T]) drain(ref Disposable) {
	for {
		if s.rc.IsDisposed() {
			return
		}
		next, ok := s.dequeue()
		if !ok {
			s.stage.store(stageIdle)
			ref.Dispose()
			if s.rc.IsDisposed() {
				s.downstream.OnCompleted()
			}
			return
		}
		if s.subscribeInner(next, ref) {
			return
		}
	}
}

// concatInnerObserver is subscribed to one flattened observable at a time.
type concatInnerObserver[T any] struct {
	state *concatState[T]
	ref   Disposable
}

func (o *concatInnerObserver[T]) OnNext(v T) { o.state.downstream.OnNext(v) }
func (o *concatInnerObserver[T]) OnError(err error) {
	o.state.downstream.OnError(err)
}

func (o *concatInnerObserver[T]) OnCompleted() {
	o.ref.Clear()
	if o.state.stage.casFromDrainingTo(stageCompletedWhileDraining) {
		return
	}
	o.state.drain(o.ref)
}

func (o *concatInnerObserver[T]) SetUpstream(d Disposable) { _ = o.ref.Add(d) }
func (o *concatInnerObserver[T]) IsDisposed() bool         { return o.state.rc.IsDisposed() }
func (o *concatInnerObserver[T]) Dispose()                 {}

// concatOuterObserver is subscribed to the stream of observables being flattened.
type concatOuterObserver[T any] struct {
	state *concatState[T]
	ref   Disposable
}

func (o *concatOuterObserver[T]) OnNext(v Observable[T]) {
	if o.state.stage.casFromIdleTo(stageDraining) {
		o.state.handleObservable(v, o.state.rc.AddRef())
	} else {
		o.state.enqueue(v)
	}
}

func (o *concatOuterObserver[T]) OnError(err error) { o.state.downstream.OnError(err) }

func (o *concatOuterObserver[T]) OnCompleted() {
	o.ref.Dispose()
	if o.state.rc.IsDisposed() {
		o.state.downstream.OnCompleted()
	}
}

func (o *concatOuterObserver[T]) SetUpstream(d Disposable) { _ = o.ref.Add(d) }
func (o *concatOuterObserver[T]) IsDisposed() bool         { return o.state.rc.IsDisposed() }
func (o *concatOuterObserver[T]) Dispose()                 { o.ref.Dispose() }

// ConcatAll subscribes to each observable emitted by source in turn, in order,
// completing once source and every flattened observable it emitted have completed.
// An error from source or from any flattened observable terminates immediately.
func ConcatAll[T any](source Observable[Observable[T]]) Observable[T] {
	return Create(func(downstream Observer[T]) {
		full := NewDisposable()
		rc := NewRefCountDisposable(full)
		downstream.SetUpstream(full)

		state := &concatState[T]{downstream: downstream, rc: rc}
		outer := &concatOuterObserver[T]{state: state, ref: rc.AddRef()}
		source.Subscribe(outer)
	})
}

// Concat runs each of sources in order, completing once the last one completes.
func Concat[T any](sources ...Observable[T]) Observable[T] {
	return ConcatAll(FromSlice(sources))
}
