package reactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	reactor "github.com/faizol/reactor"
)

func TestMapTransformsEveryValue(t *testing.T) {
	values, err := reactor.AsBlocking(reactor.Map(reactor.Just(1, 2, 3), func(v int) int { return v * v }))
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9}, values)
}

func TestFilterKeepsOnlyMatchingValues(t *testing.T) {
	values, err := reactor.AsBlocking(reactor.Filter(reactor.Just(1, 2, 3, 4, 5), func(v int) bool { return v%2 == 0 }))
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 4}, values)
}

func TestLiftForwardsUpstreamDisposalToTheWrappedObserver(t *testing.T) {
	wrapped := reactor.Lift(reactor.Never[int](), func(downstream reactor.Observer[int]) reactor.Observer[int] {
		return downstream
	})

	sub := wrapped.SubscribeFunc(func(int) {}, func(error) {}, func() {})
	sub.Dispose()
	assert.True(t, sub.IsDisposed())
}
