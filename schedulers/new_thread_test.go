package schedulers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/faizol/reactor/schedulers"
)

func TestNewThreadRunsScheduledWorkOnItsOwnGoroutine(t *testing.T) {
	w := schedulers.NewThread().CreateWorker()
	defer w.Dispose()

	done := make(chan int, 1)
	w.Schedule(nil, func(time.Time) schedulers.Directive {
		done <- 42
		return schedulers.None()
	})

	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for scheduled work")
	}
}

func TestNewThreadHonorsScheduleDelayOrdering(t *testing.T) {
	w := schedulers.NewThread().CreateWorker()
	defer w.Dispose()

	order := make(chan string, 2)
	w.ScheduleDelay(30*time.Millisecond, nil, func(time.Time) schedulers.Directive {
		order <- "slow"
		return schedulers.None()
	})
	w.ScheduleDelay(5*time.Millisecond, nil, func(time.Time) schedulers.Directive {
		order <- "fast"
		return schedulers.None()
	})

	assert.Equal(t, "fast", <-order)
	assert.Equal(t, "slow", <-order)
}

func TestThreadPoolCollapsesOntoNWorkers(t *testing.T) {
	sched := schedulers.ThreadPool(2)
	a := sched.CreateWorker()
	b := sched.CreateWorker()
	c := sched.CreateWorker()
	defer a.Dispose()
	defer b.Dispose()
	defer c.Dispose()

	assert.Same(t, a, c)
	assert.NotSame(t, a, b)
}
