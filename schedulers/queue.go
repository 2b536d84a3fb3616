// Package schedulers implements the scheduler/worker family of spec.md §4.3:
// immediate, current-thread (trampoline), new-thread, thread-pool, run-loop, and a
// deterministic test scheduler, all sharing the due-time/submission-order queue
// discipline of spec.md §8.
package schedulers

import "container/heap"

// item is one entry in a Queue: a value due at a point in time, tagged with a
// monotonically increasing sequence number so items with equal due times drain in
// submission order (spec.md §4.3's "FIFO among equal due times").
type item[T any] struct {
	due   int64 // UnixNano, so the heap needs no clock of its own
	seq   uint64
	value T
}

type itemHeap[T any] []*item[T]

func (h itemHeap[T]) Len() int { return len(h) }
func (h itemHeap[T]) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}
func (h itemHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *itemHeap[T]) Push(x any)   { *h = append(*h, x.(*item[T])) }
func (h *itemHeap[T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Queue is a min-heap ordered by (due time, submission order). It is not itself
// goroutine-safe; every caller in this package already serializes access to its own
// Queue behind a per-worker lock or single-goroutine ownership.
type Queue[T any] struct {
	h   itemHeap[T]
	seq uint64
}

// NewQueue returns an empty Queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push inserts value due at dueNanos (UnixNano). Equal due times preserve push order.
func (q *Queue[T]) Push(dueNanos int64, value T) {
	q.seq++
	heap.Push(&q.h, &item[T]{due: dueNanos, seq: q.seq, value: value})
}

// Len reports the number of pending items.
func (q *Queue[T]) Len() int { return q.h.Len() }

// PeekDue returns the due time of the earliest item without removing it.
func (q *Queue[T]) PeekDue() (int64, bool) {
	if q.h.Len() == 0 {
		return 0, false
	}
	return q.h[0].due, true
}

// Pop removes and returns the earliest item regardless of whether it is due yet.
func (q *Queue[T]) Pop() (T, int64, bool) {
	var zero T
	if q.h.Len() == 0 {
		return zero, 0, false
	}
	it := heap.Pop(&q.h).(*item[T])
	return it.value, it.due, true
}

// PopReady removes and returns the earliest item, and its due time, only if that due
// time is <= nowNanos.
func (q *Queue[T]) PopReady(nowNanos int64) (T, int64, bool) {
	var zero T
	if q.h.Len() == 0 || q.h[0].due > nowNanos {
		return zero, 0, false
	}
	it := heap.Pop(&q.h).(*item[T])
	return it.value, it.due, true
}
