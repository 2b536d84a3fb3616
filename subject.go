package reactor

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Subject is both an Observer[T] (a sink driving every current subscriber) and a
// hot, multicast Observable[T] source (subscribing joins the live broadcast instead
// of running a fresh producer), per spec.md §4.5.
type Subject[T any] interface {
	Observer[T]
	// Observable returns the hot Observable view. Subscribing after a terminal signal
	// returns an already-disposed subscription and delivers nothing.
	Observable() Observable[T]
}

// publishSubject broadcasts every OnNext/OnError/OnCompleted to whatever observers are
// currently subscribed, taking a map snapshot under a read lock before delivering so a
// subscriber that unsubscribes mid-broadcast can't deadlock or corrupt the iteration.
type publishSubject[T any] struct {
	mu          sync.RWMutex
	listeners   map[uuid.UUID]Observer[T]
	upstream    Disposable
	terminated  bool
	completed   bool
	terminalErr error
}

// NewPublishSubject returns a Subject with no serialization of its own: callers must
// not call OnNext/OnError/OnCompleted concurrently from multiple goroutines without
// external synchronization (use NewSerializedPublishSubject if they might).
func NewPublishSubject[T any]() Subject[T] {
	return &publishSubject[T]{listeners: make(map[uuid.UUID]Observer[T])}
}

func (s *publishSubject[T]) Observable() Observable[T] {
	return Create(func(obs Observer[T]) {
		s.mu.Lock()
		if s.terminated {
			s.mu.Unlock()
			disposed := NewDisposable()
			disposed.Dispose()
			obs.SetUpstream(disposed)
			return
		}

		id := uuid.New()
		s.listeners[id] = obs
		s.mu.Unlock()
		log.Debug().Str("subscriber", id.String()).Msg("reactor: subject subscribed")

		obs.SetUpstream(NewCallbackDisposable(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
			log.Debug().Str("subscriber", id.String()).Msg("reactor: subject unsubscribed")
		}))
	})
}

func (s *publishSubject[T]) snapshot() []Observer[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.terminated {
		return nil
	}
	out := make([]Observer[T], 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func (s *publishSubject[T]) OnNext(v T) {
	for _, l := range s.snapshot() {
		l.OnNext(v)
	}
}

func (s *publishSubject[T]) terminate(completed bool, err error) []Observer[T] {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return nil
	}
	s.terminated = true
	s.completed = completed
	s.terminalErr = err
	listeners := make([]Observer[T], 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listeners = nil
	upstream := s.upstream
	s.mu.Unlock()

	if upstream != nil {
		upstream.Dispose()
	}
	return listeners
}

func (s *publishSubject[T]) OnError(err error) {
	for _, l := range s.terminate(false, err) {
		l.OnError(err)
	}
}

func (s *publishSubject[T]) OnCompleted() {
	for _, l := range s.terminate(true, nil) {
		l.OnCompleted()
	}
}

func (s *publishSubject[T]) SetUpstream(d Disposable) {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		if d != nil {
			d.Dispose()
		}
		return
	}
	s.upstream = d
	s.mu.Unlock()
}

func (s *publishSubject[T]) IsDisposed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.terminated
}

func (s *publishSubject[T]) Dispose() {
	s.terminate(true, nil)
}

// serializedSubject wraps a publishSubject with a publish-side mutex so that
// concurrent producers sharing one Subject cannot interleave partial broadcasts, per
// spec.md §4.5's serialized-subject variant.
type serializedSubject[T any] struct {
	mu    sync.Mutex
	inner *publishSubject[T]
}

// NewSerializedPublishSubject returns a Subject safe for concurrent producers.
func NewSerializedPublishSubject[T any]() Subject[T] {
	return &serializedSubject[T]{inner: &publishSubject[T]{listeners: make(map[uuid.UUID]Observer[T])}}
}

func (s *serializedSubject[T]) Observable() Observable[T] { return s.inner.Observable() }

func (s *serializedSubject[T]) OnNext(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.OnNext(v)
}

func (s *serializedSubject[T]) OnError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.OnError(err)
}

func (s *serializedSubject[T]) OnCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.OnCompleted()
}

func (s *serializedSubject[T]) SetUpstream(d Disposable) { s.inner.SetUpstream(d) }
func (s *serializedSubject[T]) IsDisposed() bool         { return s.inner.IsDisposed() }
func (s *serializedSubject[T]) Dispose()                 { s.inner.Dispose() }
