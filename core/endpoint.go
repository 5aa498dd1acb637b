package core

import (
	"log/slog"
	"time"

	"github.com/weftlabs/weft/state"
)

// ConnState is the per-connection handshake/teardown state.
type ConnState int

const (
	StateClosed ConnState = iota
	StateSynSent
	StateSynReceived
	StateEstablished
	StateFinWait
	StateClosing
)

func (s ConnState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateSynSent:
		return "SYN_SENT"
	case StateSynReceived:
		return "SYN_RECEIVED"
	case StateEstablished:
		return "ESTABLISHED"
	case StateFinWait:
		return "FIN_WAIT"
	case StateClosing:
		return "CLOSING"
	}
	return "UNKNOWN"
}

// Conn is the per-peer connection record, owned exclusively by the
// endpoint that created it. Sequence numbers count messages, not bytes.
type Conn struct {
	Peer         state.Addr
	State        ConnState
	SendSeq      int64
	RecvSeq      int64
	Cwnd         float64
	Ssthresh     float64
	DupAcks      int
	LastActivity time.Duration

	retransmit *state.Timer
}

// Endpoint is the per-node transport state machine: handshakes,
// sequencing and the congestion window, one Conn per peer.
type Endpoint struct {
	env  *state.Env
	log  *slog.Logger
	self state.Addr

	conns map[state.Addr]*Conn
	guard *SynCookieGuard
	keys  *KeyExchangeSession
	send  func(state.Msg)

	cwnd0     float64
	ssthresh0 float64

	// onEstablished fires on the initiating side once the handshake
	// completes; the application collaborator produces the first data
	// send.
	onEstablished func(peer state.Addr)
	// onData hands an application payload up. The endpoint never
	// interprets payloads.
	onData func(peer state.Addr, app state.AppPayload, viaTCP bool)

	CookieDrops int
	SynDrops    int
}

func NewEndpoint(env *state.Env, log *slog.Logger, self state.Addr, guard *SynCookieGuard, keys *KeyExchangeSession, cwnd0, ssthresh0 float64, send func(state.Msg)) *Endpoint {
	if cwnd0 == 0 {
		cwnd0 = state.InitialCwnd
	}
	if ssthresh0 == 0 {
		ssthresh0 = state.InitialSsthresh
	}
	return &Endpoint{
		env:       env,
		log:       log,
		self:      self,
		conns:     make(map[state.Addr]*Conn),
		guard:     guard,
		keys:      keys,
		send:      send,
		cwnd0:     cwnd0,
		ssthresh0: ssthresh0,
	}
}

func (e *Endpoint) OnEstablished(fn func(peer state.Addr)) { e.onEstablished = fn }

func (e *Endpoint) OnData(fn func(peer state.Addr, app state.AppPayload, viaTCP bool)) {
	e.onData = fn
}

// Conn returns the connection record for peer, nil when none exists.
func (e *Endpoint) Conn(peer state.Addr) *Conn {
	return e.conns[peer]
}

// Established reports whether a connection to peer has completed the
// handshake.
func (e *Endpoint) Established(peer state.Addr) bool {
	c := e.conns[peer]
	return c != nil && c.State == StateEstablished
}

// Open initiates a connection: pick an initial sequence number, emit a
// SYN carrying a cookie for (self, peer, seq) and arm the single
// retransmit attempt.
func (e *Endpoint) Open(peer state.Addr, prio state.Priority) {
	if _, ok := e.conns[peer]; ok {
		return
	}
	seq := 1000 + e.env.Rand.Int64N(9000)
	conn := &Conn{
		Peer:         peer,
		State:        StateSynSent,
		SendSeq:      seq + 1,
		Cwnd:         e.cwnd0,
		Ssthresh:     e.ssthresh0,
		LastActivity: e.env.Clock.Now(),
	}
	e.conns[peer] = conn

	e.send(&state.TCPSyn{
		Header: state.Header{Src: e.self, Dst: peer, Priority: prio},
		Seq:    seq,
		Cookie: GenerateCookie(e.self, peer, seq),
	})
	e.log.Debug("sent SYN", "peer", peer, "seq", seq)

	conn.retransmit = e.env.Clock.Schedule(state.RetransmitDelay, func() {
		e.retransmitSyn(peer, seq, prio)
	})
}

// retransmitSyn re-sends the original SYN once. No backoff, no second
// attempt.
func (e *Endpoint) retransmitSyn(peer state.Addr, seq int64, prio state.Priority) {
	conn, ok := e.conns[peer]
	if !ok || conn.State != StateSynSent {
		return
	}
	e.log.Warn("retransmitting SYN", "peer", peer, "seq", seq)
	e.send(&state.TCPSyn{
		Header: state.Header{Src: e.self, Dst: peer, Priority: prio},
		Seq:    seq,
		Cookie: GenerateCookie(e.self, peer, seq),
	})
}

// HandleSyn runs the responder side: the per-source admission counter
// and the stateless cookie check both have to pass, otherwise the
// request is deleted silently. No reply leaks liveness to an attacker.
func (e *Endpoint) HandleSyn(m *state.TCPSyn) {
	if !e.guard.AdmitSyn(m.Src, e.env.Clock.Now()) {
		e.SynDrops++
		e.log.Warn("SYN rate limit exceeded", "src", m.Src)
		return
	}
	if !ValidateCookie(m.Cookie, m.Src, e.self, m.Seq) {
		e.CookieDrops++
		e.log.Warn("invalid SYN cookie", "src", m.Src)
		return
	}

	serverSeq := 1000 + e.env.Rand.Int64N(9000)
	e.conns[m.Src] = &Conn{
		Peer:         m.Src,
		State:        StateSynReceived,
		SendSeq:      serverSeq + 1,
		RecvSeq:      m.Seq + 1,
		Cwnd:         e.cwnd0,
		Ssthresh:     e.ssthresh0,
		LastActivity: e.env.Clock.Now(),
	}
	e.send(&state.TCPSynAck{
		Header: state.Header{Src: e.self, Dst: m.Src, Priority: state.PriorityHigh},
		Seq:    serverSeq,
		Ack:    m.Seq + 1,
		Cookie: GenerateCookie(e.self, m.Src, serverSeq),
	})
	e.log.Debug("sent SYN-ACK", "peer", m.Src, "seq", serverSeq)
}

// HandleSynAck completes the initiator side of the handshake after
// re-validating the responder's cookie. A mismatch is logged and
// dropped; retry is the retransmit timer's business, not ours.
func (e *Endpoint) HandleSynAck(m *state.TCPSynAck) {
	conn, ok := e.conns[m.Src]
	if !ok || conn.State != StateSynSent {
		e.log.Debug("SYN-ACK for unexpected connection", "src", m.Src)
		return
	}
	if !ValidateCookie(m.Cookie, m.Src, e.self, m.Seq) {
		e.CookieDrops++
		e.log.Warn("invalid SYN-ACK cookie", "src", m.Src)
		return
	}

	conn.State = StateEstablished
	conn.RecvSeq = m.Seq + 1
	conn.LastActivity = e.env.Clock.Now()
	if conn.retransmit != nil {
		conn.retransmit.Cancel()
		conn.retransmit = nil
	}

	e.send(&state.TCPAck{
		Header: state.Header{Src: e.self, Dst: m.Src, Priority: state.PriorityHigh},
		Ack:    m.Seq + 1,
	})
	e.log.Debug("connection established", "peer", m.Src)

	if e.onEstablished != nil {
		e.onEstablished(m.Src)
	}
}

// HandleAck moves a half-open responder connection to ESTABLISHED and
// grows the congestion window. The window update runs on every ACK,
// slow start below ssthresh and additive increase above it; there is no
// round-trip gating.
func (e *Endpoint) HandleAck(m *state.TCPAck) {
	conn, ok := e.conns[m.Src]
	if !ok {
		e.log.Debug("ACK for unknown connection", "src", m.Src)
		return
	}
	if conn.State == StateSynReceived {
		conn.State = StateEstablished
		e.log.Debug("connection established", "peer", m.Src)
	}
	if conn.Cwnd < conn.Ssthresh {
		conn.Cwnd *= 2
	} else {
		conn.Cwnd += 1.0 / conn.Cwnd
	}
	conn.DupAcks = 0
	conn.LastActivity = e.env.Clock.Now()
}

// HandleData acknowledges the segment and hands the payload up.
func (e *Endpoint) HandleData(m *state.TCPData) {
	if conn, ok := e.conns[m.Src]; ok {
		conn.RecvSeq = m.Seq + 1
		conn.LastActivity = e.env.Clock.Now()
	}
	e.send(&state.TCPAck{
		Header: state.Header{Src: e.self, Dst: m.Src, Priority: state.PriorityHigh},
		Ack:    m.Seq + 1,
	})
	if e.onData != nil {
		e.onData(m.Src, m.App, true)
	}
}

// HandleFin replies FIN immediately (no half-close linger) and erases
// the connection with all its per-peer bookkeeping. A FIN for an
// already-gone connection is dropped, which terminates the FIN/FIN
// exchange.
func (e *Endpoint) HandleFin(m *state.TCPFin) {
	conn, ok := e.conns[m.Src]
	if !ok {
		return
	}
	if conn.retransmit != nil {
		conn.retransmit.Cancel()
	}
	delete(e.conns, m.Src)
	e.send(&state.TCPFin{
		Header: state.Header{Src: e.self, Dst: m.Src, Priority: state.PriorityNormal},
	})
	e.log.Debug("connection closed", "peer", m.Src)
}

// SendData emits one payload on an established connection, consuming
// exactly one sequence number.
func (e *Endpoint) SendData(peer state.Addr, app state.AppPayload, prio state.Priority) {
	conn, ok := e.conns[peer]
	if !ok || conn.State != StateEstablished {
		e.log.Warn("data send on missing connection", "peer", peer)
		return
	}
	e.send(&state.TCPData{
		Header: state.Header{Src: e.self, Dst: peer, Priority: prio},
		Seq:    conn.SendSeq,
		Ack:    conn.RecvSeq,
		App:    app,
	})
	conn.SendSeq++
	conn.LastActivity = e.env.Clock.Now()
}

// Close starts teardown from this side.
func (e *Endpoint) Close(peer state.Addr) {
	conn, ok := e.conns[peer]
	if !ok {
		return
	}
	conn.State = StateFinWait
	e.send(&state.TCPFin{
		Header: state.Header{Src: e.self, Dst: peer, Priority: state.PriorityNormal},
	})
}

// CongestionTimeout is the hard reset taken when the congestion timer
// fires: half the window becomes the threshold and the window restarts
// at one, regardless of how many segments were lost.
func (e *Endpoint) CongestionTimeout(peer state.Addr) {
	conn, ok := e.conns[peer]
	if !ok {
		return
	}
	conn.Ssthresh = conn.Cwnd / 2
	conn.Cwnd = 1.0
	conn.DupAcks = 0
	e.log.Debug("congestion timeout", "peer", peer, "ssthresh", conn.Ssthresh)
}
