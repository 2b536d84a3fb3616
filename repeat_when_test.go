package reactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	reactor "github.com/faizol/reactor"
)

func TestRepeatResubscribesTheGivenNumberOfTimes(t *testing.T) {
	attempts := 0
	source := reactor.Create(func(o reactor.Observer[int]) {
		attempts++
		o.OnNext(attempts)
		o.OnCompleted()
	})

	values, err := reactor.AsBlocking(reactor.Repeat(source, 2))
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
	assert.Equal(t, 3, attempts)
}

func TestRepeatWhenStopsWhenNotifierCompletesWithoutEmitting(t *testing.T) {
	attempts := 0
	source := reactor.Create(func(o reactor.Observer[int]) {
		attempts++
		o.OnNext(attempts)
		o.OnCompleted()
	})

	values, err := reactor.AsBlocking(reactor.RepeatWhen(source, func() reactor.Observable[struct{}] {
		return reactor.Empty[struct{}]()
	}))
	assert.NoError(t, err)
	assert.Equal(t, []int{1}, values)
	assert.Equal(t, 1, attempts)
}

func TestRepeatWhenPropagatesANotifierPanicAsAnError(t *testing.T) {
	source := reactor.Just(1)

	_, err := reactor.AsBlocking(reactor.RepeatWhen(source, func() reactor.Observable[struct{}] {
		panic("notifier exploded")
	}))
	assert.Error(t, err)
}

func TestRepeatHandlesManySynchronousResubscriptionsWithoutOverflowingTheStack(t *testing.T) {
	const n = 500_000
	attempts := 0
	source := reactor.Create(func(o reactor.Observer[int]) {
		attempts++
		o.OnCompleted()
	})

	_, err := reactor.AsBlocking(reactor.Repeat(source, n-1))
	assert.NoError(t, err)
	assert.Equal(t, n, attempts)
}
