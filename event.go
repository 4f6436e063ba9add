package sbct11

import "container/heap"

// EventHandler receives timer callbacks from the queue. OnEvent may
// schedule or cancel further events.
type EventHandler interface {
	OnEvent(token int)
}

// EventQueue drives simulated time for the whole machine. The clock is a
// monotonic nanosecond counter starting at zero; deadlines are absolute.
// Two events due at the same instant fire in the order they were scheduled.
type EventQueue struct {
	now uint64
	seq uint64
	q   eventHeap
}

type event struct {
	at    uint64
	seq   uint64
	who   EventHandler
	token int
}

// Now returns the current simulated time in nanoseconds.
func (eq *EventQueue) Now() uint64 { return eq.now }

// Elapse moves the clock forward without firing anything. The CPU calls it
// once per instruction; anything that came due runs at the top of the next
// step.
func (eq *EventQueue) Elapse(ns uint64) { eq.now += ns }

// Schedule arranges for who.OnEvent(token) to run delay nanoseconds from
// now. A (who, token) pair that is already scheduled is replaced.
func (eq *EventQueue) Schedule(who EventHandler, token int, delay uint64) {
	eq.Cancel(who, token)
	eq.seq++
	heap.Push(&eq.q, &event{at: eq.now + delay, seq: eq.seq, who: who, token: token})
}

// Cancel removes a pending (who, token) event. Cancelling something that
// was never scheduled is not an error.
func (eq *EventQueue) Cancel(who EventHandler, token int) {
	for i := 0; i < len(eq.q); i++ {
		if eq.q[i].who == who && eq.q[i].token == token {
			heap.Remove(&eq.q, i)
			return
		}
	}
}

// NextDeadline reports the earliest pending deadline, if any.
func (eq *EventQueue) NextDeadline() (uint64, bool) {
	if len(eq.q) == 0 {
		return 0, false
	}
	return eq.q[0].at, true
}

// Pending reports the number of scheduled events.
func (eq *EventQueue) Pending() int { return len(eq.q) }

// Drain fires every event whose deadline has been reached, in deadline
// order. An event scheduled during a callback with an already-expired
// deadline fires in the same drain, but only after everything that was
// ready before it.
func (eq *EventQueue) Drain() {
	for len(eq.q) > 0 && eq.q[0].at <= eq.now {
		ev := heap.Pop(&eq.q).(*event)
		ev.who.OnEvent(ev.token)
	}
}

// AdvanceTo moves the clock to t if t is in the future, then drains. WAIT
// uses it to fast-forward from deadline to deadline.
func (eq *EventQueue) AdvanceTo(t uint64) {
	if t > eq.now {
		eq.now = t
	}
	eq.Drain()
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) { *h = append(*h, x.(*event)) }

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}
