package reactor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	reactor "github.com/faizol/reactor"
)

func TestDisposableDisposesChildrenOnce(t *testing.T) {
	parent := reactor.NewDisposable()

	disposed := 0
	child := reactor.NewCallbackDisposable(func() { disposed++ })
	assert.NoError(t, parent.Add(child))

	parent.Dispose()
	parent.Dispose()

	assert.True(t, parent.IsDisposed())
	assert.True(t, child.IsDisposed())
	assert.Equal(t, 1, disposed)
}

func TestDisposableAddSelfIsANoOp(t *testing.T) {
	d := reactor.NewDisposable()

	assert.NoError(t, d.Add(d))
	assert.False(t, d.IsDisposed())

	d.Dispose()
	assert.True(t, d.IsDisposed())
}

func TestDisposableAddAfterDisposeDisposesImmediately(t *testing.T) {
	parent := reactor.NewDisposable()
	parent.Dispose()

	disposed := 0
	child := reactor.NewCallbackDisposable(func() { disposed++ })
	assert.NoError(t, parent.Add(child))
	assert.Equal(t, 1, disposed)
}

func TestDisposableClearKeepsParentLive(t *testing.T) {
	parent := reactor.NewDisposable()
	child := reactor.NewDisposable()
	assert.NoError(t, parent.Add(child))

	parent.Clear()

	assert.False(t, parent.IsDisposed())
	assert.True(t, child.IsDisposed())
}

func TestBoundedCompositeDisposableRejectsOverCapacity(t *testing.T) {
	d := reactor.NewBoundedCompositeDisposable(1)
	assert.NoError(t, d.Add(reactor.NewDisposable()))

	err := d.Add(reactor.NewDisposable())
	assert.True(t, errors.Is(err, reactor.ErrMoreDisposablesThanExpected))
	assert.False(t, d.IsDisposed())
}

func TestRefCountDisposableDisposesInnerOnLastRelease(t *testing.T) {
	innerDisposed := 0
	inner := reactor.NewCallbackDisposable(func() { innerDisposed++ })
	rc := reactor.NewRefCountDisposable(inner)

	a := rc.AddRef()
	b := rc.AddRef()
	assert.False(t, rc.IsDisposed())

	a.Dispose()
	assert.Equal(t, 0, innerDisposed)
	assert.False(t, rc.IsDisposed())

	b.Dispose()
	assert.Equal(t, 1, innerDisposed)
	assert.True(t, rc.IsDisposed())
}

func TestRefCountDisposableClosesAllSubsWhenInnerDisposedDirectly(t *testing.T) {
	inner := reactor.NewDisposable()
	rc := reactor.NewRefCountDisposable(inner)

	a := rc.AddRef()
	b := rc.AddRef()

	inner.Dispose()

	assert.True(t, rc.IsDisposed())
	assert.True(t, a.IsDisposed())
	assert.True(t, b.IsDisposed())
}
