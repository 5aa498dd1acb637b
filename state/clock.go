package state

import (
	"container/heap"
	"time"
)

// Clock is a discrete-event virtual clock. All simulation work runs on the
// goroutine that calls Step/Run; scheduling never blocks.
//
// Two timers scheduled for the same virtual instant fire in the order they
// were scheduled.
type Clock struct {
	now    time.Duration
	events eventHeap
	seq    uint64
}

// Timer is a cancelable handle to a scheduled callback. Each purpose gets
// its own handle (retransmit, congestion, advertisement, completion, ...);
// there is no shared self-message to compare against.
type Timer struct {
	at   time.Duration
	seq  uint64
	fn   func()
	dead bool
}

// Cancel marks the timer dead. The entry is dropped lazily when it
// surfaces from the queue.
func (t *Timer) Cancel() {
	t.dead = true
}

// Stopped reports whether the timer has fired or been canceled.
func (t *Timer) Stopped() bool {
	return t.dead
}

// When returns the virtual time the timer is due.
func (t *Timer) When() time.Duration {
	return t.at
}

func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current virtual time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Schedule arms a timer delay after the current virtual time.
func (c *Clock) Schedule(delay time.Duration, fn func()) *Timer {
	return c.ScheduleAt(c.now+delay, fn)
}

// ScheduleAt arms a timer at an absolute virtual time. Scheduling in the
// past fires at the current time.
func (c *Clock) ScheduleAt(at time.Duration, fn func()) *Timer {
	if at < c.now {
		at = c.now
	}
	c.seq++
	t := &Timer{at: at, seq: c.seq, fn: fn}
	heap.Push(&c.events, t)
	return t
}

// Step delivers the next pending event, advancing virtual time to it.
// Returns false once the queue is empty.
func (c *Clock) Step() bool {
	for c.events.Len() > 0 {
		t := heap.Pop(&c.events).(*Timer)
		if t.dead {
			continue
		}
		c.now = t.at
		t.dead = true
		t.fn()
		return true
	}
	return false
}

// Run delivers every event due at or before until, then advances virtual
// time to until.
func (c *Clock) Run(until time.Duration) {
	for c.events.Len() > 0 {
		next := c.events[0]
		if next.dead {
			heap.Pop(&c.events)
			continue
		}
		if next.at > until {
			break
		}
		c.Step()
	}
	if c.now < until {
		c.now = until
	}
}

// Pending returns the number of live events still queued.
func (c *Clock) Pending() int {
	n := 0
	for _, t := range c.events {
		if !t.dead {
			n++
		}
	}
	return n
}

type eventHeap []*Timer

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Timer))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
