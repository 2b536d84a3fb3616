package reactor

import "sync/atomic"

// drainStage is the shared state machine behind concat, repeat_when and retry: it
// lets a draining/resubscribing loop tell a completion that happened synchronously
// (still on the same call stack as the subscribe that produced it) apart from one
// that happened asynchronously (the subscribing call already returned), so a long
// chain of synchronously-completing sources is handled iteratively instead of
// recursing. Grounded on ReactivePlusPlus's concat_disposable::ConcatStage.
type drainStage int32

const (
	stageIdle drainStage = iota
	stageDraining
	stageCompletedWhileDraining
	stageProcessing
)

// stageHolder is an atomic drainStage cell.
type stageHolder struct {
	v atomic.Int32
}

func (h *stageHolder) store(s drainStage) { h.v.Store(int32(s)) }

func (h *stageHolder) casFromDrainingTo(target drainStage) bool {
	return h.v.CompareAndSwap(int32(stageDraining), int32(target))
}

func (h *stageHolder) casFromIdleTo(target drainStage) bool {
	return h.v.CompareAndSwap(int32(stageIdle), int32(target))
}

// boolOnce is a single-claim flag, used where exactly one of several competing
// callbacks (e.g. "the first notifier emission wins") must win.
type boolOnce struct {
	v atomic.Bool
}

func (b *boolOnce) claim() bool     { return b.v.CompareAndSwap(false, true) }
func (b *boolOnce) isClaimed() bool { return b.v.Load() }
