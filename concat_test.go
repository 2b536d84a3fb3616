package reactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	reactor "github.com/faizol/reactor"
)

func TestConcatEmitsSourcesInSequenceThenCompletes(t *testing.T) {
	values, err := reactor.AsBlocking(reactor.Concat(
		reactor.Just(1, 2),
		reactor.Just(3, 4),
		reactor.Just(5),
	))
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, values)
}

func TestConcatStopsAtTheFirstErroringSource(t *testing.T) {
	boom := assert.AnError
	values, err := reactor.AsBlocking(reactor.Concat(
		reactor.Just(1),
		reactor.Throw[int](boom),
		reactor.Just(2),
	))
	assert.Equal(t, boom, err)
	assert.Equal(t, []int{1}, values)
}

func TestConcatHandlesADeepSynchronousChainWithoutOverflowingTheStack(t *testing.T) {
	const n = 500_000
	sources := make([]reactor.Observable[int], n)
	for i := range sources {
		sources[i] = reactor.Just(i)
	}

	values, err := reactor.AsBlocking(reactor.Concat(sources...))
	assert.NoError(t, err)
	assert.Len(t, values, n)
	assert.Equal(t, 0, values[0])
	assert.Equal(t, n-1, values[n-1])
}
