package reactor

import (
	"sync"
	"sync/atomic"
)

// RefCountDisposable wraps an inner Disposable behind a reference count. The inner is
// disposed exactly when the count reaches zero or when the inner is disposed directly
// (at which point all outstanding sub-disposables become disposed too; direct disposal
// is only observed when inner keeps callbacks added via AddCallback, which a
// CallbackDisposable inner does not). Once closed,
// further AddRef calls return an already-disposed sub-disposable. Used by concat.go to
// coordinate outer/inner subscription teardown.
type RefCountDisposable struct {
	mu     sync.Mutex
	inner  Disposable
	count  int
	closed bool
	subs   []*refCountSub
}

// NewRefCountDisposable returns a RefCountDisposable rooted at inner. inner is disposed
// once every sub-disposable handed out by AddRef has itself been disposed.
func NewRefCountDisposable(inner Disposable) *RefCountDisposable {
	rc := &RefCountDisposable{inner: inner}
	_ = inner.AddCallback(rc.onInnerDisposed)
	return rc
}

// AddRef returns a fresh sub-disposable and increments the reference count. If the
// refcount has already closed (count reached zero, or inner was disposed directly),
// the returned sub-disposable is already disposed.
func (rc *RefCountDisposable) AddRef() Disposable {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		sub := newRefCountSub(rc)
		sub.Dispose()
		return sub
	}
	rc.count++
	sub := newRefCountSub(rc)
	rc.subs = append(rc.subs, sub)
	rc.mu.Unlock()
	return sub
}

// IsDisposed reports whether the inner has been disposed (refcount reached zero, or
// disposed directly).
func (rc *RefCountDisposable) IsDisposed() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.closed
}

func (rc *RefCountDisposable) onInnerDisposed() {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return
	}
	rc.closed = true
	subs := rc.subs
	rc.subs = nil
	rc.mu.Unlock()

	for _, s := range subs {
		s.markDisposed()
	}
}

func (rc *RefCountDisposable) releaseOne(sub *refCountSub) {
	if !sub.released.CompareAndSwap(false, true) {
		return
	}
	sub.disposable.Dispose()

	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return
	}
	rc.count--
	for i, s := range rc.subs {
		if s == sub {
			rc.subs = append(rc.subs[:i], rc.subs[i+1:]...)
			break
		}
	}
	shouldDisposeInner := rc.count == 0
	if shouldDisposeInner {
		rc.closed = true
	}
	rc.mu.Unlock()

	if shouldDisposeInner {
		rc.inner.Dispose()
	}
}

// refCountSub is the sub-disposable handed out by RefCountDisposable.AddRef. It
// embeds a plain disposable so callers may still Add/Remove/Clear children on it.
type refCountSub struct {
	*disposable
	released atomic.Bool
	parent   *RefCountDisposable
}

func newRefCountSub(parent *RefCountDisposable) *refCountSub {
	return &refCountSub{disposable: &disposable{}, parent: parent}
}

func (s *refCountSub) Dispose() {
	s.parent.releaseOne(s)
}

func (s *refCountSub) markDisposed() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}
	s.disposable.Dispose()
}
