package schedulers

import "sync/atomic"

// threadPoolScheduler holds N eagerly created new-thread-style workers and hands them
// out round-robin.
type threadPoolScheduler struct {
	workers []Worker
	next    atomic.Uint64
}

// ThreadPool returns a scheduler backed by n dedicated worker goroutines, created
// eagerly. Repeated CreateWorker calls with indices i and i mod n collapse onto the
// same underlying goroutine, per spec.md §4.3. Each pool worker behaves internally as
// a NewThread worker (dedicated goroutine, min-heap queue, wake-on-submit).
func ThreadPool(n int) Scheduler {
	if n < 1 {
		n = 1
	}
	s := &threadPoolScheduler{workers: make([]Worker, n)}
	for i := range s.workers {
		s.workers[i] = newNewThreadWorker()
	}
	return s
}

func (s *threadPoolScheduler) CreateWorker() Worker {
	i := s.next.Add(1) - 1
	return s.workers[int(i)%len(s.workers)]
}
