package core

import (
	"container/heap"
	"log/slog"
	"time"

	"github.com/weftlabs/weft/state"
)

// TxScheduler owns the single physical transmission resource of one
// outbound link direction. At most one message occupies the resource at
// any virtual time; the rest wait in a priority queue. Higher priority
// always drains first, FIFO within a class, so sustained high-priority
// traffic can starve lower classes. That is accepted behavior.
type TxScheduler struct {
	clock *state.Clock
	log   *slog.Logger

	bandwidth float64 // Mbps
	delay     time.Duration

	busyUntil time.Duration
	inflight  *state.Timer
	queue     txQueue
	seq       uint64

	// deliver hands a fully transmitted message to the far end of the
	// link after the propagation delay.
	deliver func(msg state.Msg)

	Transmitted int
	Enqueued    int
}

func NewTxScheduler(clock *state.Clock, log *slog.Logger, bandwidth float64, delay time.Duration, deliver func(state.Msg)) *TxScheduler {
	return &TxScheduler{
		clock:     clock,
		log:       log,
		bandwidth: bandwidth,
		delay:     delay,
		deliver:   deliver,
	}
}

// Submit hands a message to the link. If the resource is free the
// transmission begins immediately, otherwise the message queues.
func (s *TxScheduler) Submit(msg state.Msg) {
	if s.busyUntil > s.clock.Now() || s.inflight != nil {
		s.seq++
		heap.Push(&s.queue, txItem{msg: msg, seq: s.seq})
		s.Enqueued++
		s.log.Debug("link busy, queued", "priority", msg.Hdr().Priority, "qlen", s.queue.Len())
		return
	}
	s.transmit(msg)
}

// InFlight reports whether a transmission currently occupies the link.
func (s *TxScheduler) InFlight() bool {
	return s.inflight != nil
}

// QueueLen returns the number of messages waiting for the link.
func (s *TxScheduler) QueueLen() int {
	return s.queue.Len()
}

func (s *TxScheduler) transmit(msg state.Msg) {
	txTime := s.txDuration(msg.Hdr().Size)
	s.busyUntil = s.clock.Now() + txTime

	// A link must never have two live completion timers.
	if s.inflight != nil && !s.inflight.Stopped() {
		s.inflight.Cancel()
	}
	s.inflight = s.clock.Schedule(txTime, s.completed)

	done := s.busyUntil + s.delay
	m := msg
	s.clock.ScheduleAt(done, func() {
		s.deliver(m)
	})
	s.Transmitted++
}

func (s *TxScheduler) completed() {
	s.inflight = nil
	if s.queue.Len() > 0 {
		next := heap.Pop(&s.queue).(txItem)
		s.transmit(next.msg)
	}
}

// txDuration models serialization time: size bytes over bandwidth Mbps.
func (s *TxScheduler) txDuration(size int) time.Duration {
	if size <= 0 {
		size = state.DefaultMsgSize
	}
	bits := float64(size) * 8
	seconds := bits / (s.bandwidth * 1e6)
	return time.Duration(seconds * float64(time.Second))
}

type txItem struct {
	msg state.Msg
	seq uint64
}

type txQueue []txItem

func (q txQueue) Len() int { return len(q) }

func (q txQueue) Less(i, j int) bool {
	pi, pj := q[i].msg.Hdr().Priority, q[j].msg.Hdr().Priority
	if pi != pj {
		return pi > pj
	}
	return q[i].seq < q[j].seq
}

func (q txQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *txQueue) Push(x any) {
	*q = append(*q, x.(txItem))
}

func (q *txQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
