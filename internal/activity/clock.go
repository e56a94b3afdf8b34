package activity

import (
	"container/heap"
	"sync"
	"time"
)

// Timer is a handle to a pending callback.
type Timer interface {
	// Stop prevents the callback from firing and reports whether it was still pending.
	Stop() bool
}

// Clock schedules callbacks after a delay.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules callbacks with time.AfterFunc. Callbacks run on their own goroutine.
type RealClock struct{}

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualClock is a Clock driven by explicit calls to Advance.
//
// Callbacks run synchronously inside Advance, in deadline order, on the
// caller's goroutine. It is used to replay scroll traces deterministically.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending timerHeap
}

// manualTimer is a pending ManualClock callback.
type manualTimer struct {
	clock    *ManualClock
	deadline time.Duration
	seq      uint64
	fn       func()
	// index is the position in the heap, or -1 once fired or stopped.
	index int
}

// timerHeap orders timers by deadline, then by scheduling order.
type timerHeap []*manualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline == h[j].deadline {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline < h[j].deadline
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t, _ := x.(*manualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// NewManualClock creates a clock at virtual time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc implements Clock.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{clock: c, deadline: c.now + d, seq: c.seq, fn: f}
	heap.Push(&c.pending, t)
	return t
}

// Now returns the elapsed virtual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of callbacks that have not fired or been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending.Len()
}

// Advance moves virtual time forward by d and fires every callback whose
// deadline has been reached.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	c.AdvanceTo(target)
}

// AdvanceTo moves virtual time to t (never backwards) and fires due callbacks.
func (c *ManualClock) AdvanceTo(t time.Duration) {
	for {
		c.mu.Lock()
		if t < c.now {
			t = c.now
		}
		if c.pending.Len() == 0 || c.pending[0].deadline > t {
			c.now = t
			c.mu.Unlock()
			return
		}
		next, _ := heap.Pop(&c.pending).(*manualTimer)
		c.now = next.deadline
		c.mu.Unlock()

		// Callbacks may schedule or stop timers.
		next.fn()
	}
}

// Stop implements Timer.
func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.index < 0 {
		return false
	}
	heap.Remove(&c.pending, t.index)
	return true
}
