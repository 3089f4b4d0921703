package marketplace

import "sync/atomic"

// guard latches while a state-mutating operation is in flight. An overlapping
// entry is rejected, never queued, so an external callee that calls back into
// the marketplace fails immediately.
type guard struct {
	busy int32
}

func (g *guard) enter() error {
	if !atomic.CompareAndSwapInt32(&g.busy, 0, 1) {
		return ErrReentrantCall
	}

	return nil
}

func (g *guard) exit() {
	atomic.StoreInt32(&g.busy, 0)
}
