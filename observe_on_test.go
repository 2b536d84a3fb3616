package reactor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	reactor "github.com/faizol/reactor"
	"github.com/faizol/reactor/schedulers"
)

func TestObserveOnPreservesOrderAcrossTheScheduler(t *testing.T) {
	sched := schedulers.NewTestScheduler()

	var got []int
	var completed bool
	reactor.ObserveOn(reactor.Just(1, 2, 3), sched).SubscribeFunc(
		func(v int) { got = append(got, v) },
		func(error) {},
		func() { completed = true },
	)

	assert.Empty(t, got)
	sched.TimeAdvance(0)

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.True(t, completed)
}

func TestObserveOnDisposingTearsDownBothTheWorkerAndTheUpstream(t *testing.T) {
	sched := schedulers.NewTestScheduler()

	var got []int
	sub := reactor.ObserveOn(reactor.Interval(time.Second, sched), sched).SubscribeFunc(
		func(v int64) { got = append(got, int(v)) },
		func(error) {},
		func() {},
	)

	sched.TimeAdvance(2 * time.Second)
	sub.Dispose()
	sched.TimeAdvance(5 * time.Second)

	assert.Equal(t, []int{0, 1}, got)
}
