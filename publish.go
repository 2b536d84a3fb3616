package reactor

import "sync"

// ConnectableObservable multicasts one upstream subscription to however many
// observers join via Observable(), only actually subscribing to the underlying source
// once Connect is called. Grounded on Spectonic-urx's publishedObservable (a shared
// subscription fanned out to many targets), reimplemented on top of Subject[T] instead
// of the teacher's raw map-of-subscribers plus goroutine pump.
type ConnectableObservable[T any] struct {
	source Observable[T]
	subj   Subject[T]

	mu         sync.Mutex
	connection Disposable
}

// Publish wraps source so that subscribers share one upstream subscription, started
// only by Connect.
func Publish[T any](source Observable[T]) *ConnectableObservable[T] {
	return &ConnectableObservable[T]{source: source, subj: NewPublishSubject[T]()}
}

// Observable returns the multicast view. Subscribing before Connect just joins the
// subject; nothing from source flows until Connect runs.
func (c *ConnectableObservable[T]) Observable() Observable[T] {
	return c.subj.Observable()
}

// Connect subscribes the shared subject to source, if not already connected, and
// returns the Disposable that tears that subscription down.
func (c *ConnectableObservable[T]) Connect() Disposable {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connection != nil && !c.connection.IsDisposed() {
		return c.connection
	}
	c.connection = c.source.Subscribe(c.subj)
	return c.connection
}

// RefCount makes source hot and shared, connecting on the first subscriber and
// disconnecting once the last subscriber unsubscribes, per spec.md §4.4's refcount
// contract — exactly the lifecycle RefCountDisposable already models, with the
// connection itself as the counted "inner".
func RefCount[T any](source Observable[T]) Observable[T] {
	connectable := Publish(source)

	var mu sync.Mutex
	var rc *RefCountDisposable

	return Create(func(downstream Observer[T]) {
		mu.Lock()
		if rc == nil || rc.IsDisposed() {
			rc = NewRefCountDisposable(connectable.Connect())
		}
		ref := rc.AddRef()
		mu.Unlock()

		downstream.SetUpstream(ref)
		connectable.Observable().Subscribe(&refCountForwarder[T]{downstream: downstream, ref: ref})
	})
}

// refCountForwarder relays signals straight through to downstream, but routes
// whatever Disposable the subject subscription attaches into ref (the subscriber's own
// share of the refcount) instead of overwriting downstream's upstream, which Create
// has already set to ref itself.
type refCountForwarder[T any] struct {
	downstream Observer[T]
	ref        Disposable
}

func (f *refCountForwarder[T]) OnNext(v T)        { f.downstream.OnNext(v) }
func (f *refCountForwarder[T]) OnError(err error) { f.downstream.OnError(err) }
func (f *refCountForwarder[T]) OnCompleted()      { f.downstream.OnCompleted() }

func (f *refCountForwarder[T]) SetUpstream(d Disposable) { _ = f.ref.Add(d) }
func (f *refCountForwarder[T]) IsDisposed() bool         { return f.downstream.IsDisposed() }
func (f *refCountForwarder[T]) Dispose()                 { f.downstream.Dispose() }
