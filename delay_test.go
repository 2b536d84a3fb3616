package reactor_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	reactor "github.com/faizol/reactor"
	"github.com/faizol/reactor/schedulers"
)

func TestDelayReemitsEveryValueAfterTheFixedDelay(t *testing.T) {
	sched := schedulers.NewTestScheduler()
	var got []int
	var completed bool

	reactor.Delay(reactor.Just(1, 2, 3), time.Second, sched).SubscribeFunc(
		func(v int) { got = append(got, v) },
		func(error) {},
		func() { completed = true },
	)

	assert.Empty(t, got)
	sched.TimeAdvance(time.Second)

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.True(t, completed)
}

func TestDelayDelaysOnErrorByTheSameFixedAmount(t *testing.T) {
	sched := schedulers.NewTestScheduler()
	boom := errors.New("boom")
	var gotErr error

	reactor.Delay(reactor.Throw[int](boom), time.Second, sched).SubscribeFunc(
		func(int) {},
		func(err error) { gotErr = err },
		func() {},
	)

	assert.Nil(t, gotErr)
	sched.TimeAdvance(time.Second)
	assert.Equal(t, boom, gotErr)
}
