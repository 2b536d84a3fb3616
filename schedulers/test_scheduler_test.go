package schedulers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/faizol/reactor/schedulers"
)

type fakeTarget struct{ disposed bool }

func (f *fakeTarget) IsDisposed() bool { return f.disposed }

func TestTestSchedulerRunsDueActionsInOrder(t *testing.T) {
	sched := schedulers.NewTestScheduler()
	w := sched.CreateWorker()

	var order []string
	w.ScheduleDelay(2*time.Second, nil, func(time.Time) schedulers.Directive {
		order = append(order, "b")
		return schedulers.None()
	})
	w.ScheduleDelay(time.Second, nil, func(time.Time) schedulers.Directive {
		order = append(order, "a")
		return schedulers.None()
	})

	sched.TimeAdvance(3 * time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestTestSchedulerSkipsDisposedTargets(t *testing.T) {
	sched := schedulers.NewTestScheduler()
	w := sched.CreateWorker()
	target := &fakeTarget{}

	ran := false
	w.ScheduleDelay(time.Second, target, func(time.Time) schedulers.Directive {
		ran = true
		return schedulers.None()
	})
	target.disposed = true

	sched.TimeAdvance(time.Second)
	assert.False(t, ran)
}

func TestTestSchedulerHandlesNestedTimeAdvance(t *testing.T) {
	sched := schedulers.NewTestScheduler()
	w := sched.CreateWorker()

	w.Schedule(nil, func(time.Time) schedulers.Directive {
		sched.TimeAdvance(time.Second)
		return schedulers.DelayFromNow(2 * time.Second)
	})

	sched.TimeAdvance(0)

	schedulings := sched.GetSchedulings()
	executions := sched.GetExecutions()

	assert.Len(t, executions, 1)
	assert.Len(t, schedulings, 2)
	assert.Equal(t, time.Second, sched.Now().Sub(time.Unix(0, 0)))
	assert.Equal(t, 3*time.Second, schedulings[1].Sub(time.Unix(0, 0)))
}

func TestTestSchedulerDoesNotFireBeyondTheAdvancedWindow(t *testing.T) {
	sched := schedulers.NewTestScheduler()
	w := sched.CreateWorker()

	fired := 0
	w.ScheduleDelay(5*time.Second, nil, func(time.Time) schedulers.Directive {
		fired++
		return schedulers.None()
	})

	sched.TimeAdvance(time.Second)
	assert.Equal(t, 0, fired)

	sched.TimeAdvance(4 * time.Second)
	assert.Equal(t, 1, fired)
}
