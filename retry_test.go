package reactor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	reactor "github.com/faizol/reactor"
)

func TestRetrySucceedsAfterEnoughAttempts(t *testing.T) {
	boom := errors.New("flaky")
	attempts := 0
	source := reactor.Create(func(o reactor.Observer[int]) {
		attempts++
		if attempts < 3 {
			o.OnError(boom)
			return
		}
		o.OnNext(attempts)
		o.OnCompleted()
	})

	values, err := reactor.AsBlocking(reactor.Retry(source, 5))
	assert.NoError(t, err)
	assert.Equal(t, []int{3}, values)
	assert.Equal(t, 3, attempts)
}

func TestRetryGivesUpAfterMaxAttemptsAndWrapsTheLastError(t *testing.T) {
	boom := errors.New("always fails")
	attempts := 0
	source := reactor.Create(func(o reactor.Observer[int]) {
		attempts++
		o.OnError(boom)
	})

	_, err := reactor.AsBlocking(reactor.Retry(source, 2))
	assert.ErrorIs(t, err, reactor.ErrRetriesExhausted)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
}

func TestRetryDoesNotRetryOnCleanCompletion(t *testing.T) {
	attempts := 0
	source := reactor.Create(func(o reactor.Observer[int]) {
		attempts++
		o.OnNext(1)
		o.OnCompleted()
	})

	values, err := reactor.AsBlocking(reactor.Retry(source, 5))
	assert.NoError(t, err)
	assert.Equal(t, []int{1}, values)
	assert.Equal(t, 1, attempts)
}

func TestRetryWhenPropagatesNotifierPanicAsAnError(t *testing.T) {
	source := reactor.Throw[int](errors.New("boom"))

	_, err := reactor.AsBlocking(reactor.RetryWhen(source, func(error) reactor.Observable[struct{}] {
		panic("notifier exploded")
	}))
	assert.Error(t, err)
}
