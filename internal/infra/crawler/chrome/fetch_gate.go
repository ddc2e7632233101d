package chrome

import "sync/atomic"

// fetchGate bounds the concurrent body-fetch goroutines and lets the session
// reset drain them. Each goroutine captures the generation at spawn time;
// drain bumps the generation and then occupies every slot, so a fetch spawned
// before the drain either finishes appending before drain returns or observes
// the stale generation and drops its body.
type fetchGate struct {
	slots chan struct{}
	gen   atomic.Int64
}

func newFetchGate(concurrency int) *fetchGate {
	return &fetchGate{slots: make(chan struct{}, concurrency)}
}

func (g *fetchGate) generation() int64 {
	return g.gen.Load()
}

// acquire blocks for a slot and reports whether the caller may proceed. A
// false return means the gate was drained since spawn; the slot is already
// released and the caller must not call release.
func (g *fetchGate) acquire(gen int64) bool {
	g.slots <- struct{}{}
	if gen != g.gen.Load() {
		<-g.slots
		return false
	}
	return true
}

func (g *fetchGate) release() {
	<-g.slots
}

// drain invalidates all fetches spawned so far and waits out any that hold a
// slot. Filling the channel can only complete once every prior holder has
// released, because drained tokens are not received until the refill is done.
func (g *fetchGate) drain() {
	g.gen.Add(1)
	for i := 0; i < cap(g.slots); i++ {
		g.slots <- struct{}{}
	}
	for i := 0; i < cap(g.slots); i++ {
		<-g.slots
	}
}
