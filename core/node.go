package core

import (
	"github.com/weftlabs/weft/state"
)

// Node is a simulated host or router. Deliver is invoked by the event
// clock when a message finishes crossing a link; everything runs on the
// single simulation goroutine.
type Node interface {
	Identity() state.Addr
	Attach(env *state.Env, ports []*Port)
	// Start arms the node's initial timers. Called once, after every
	// node has been attached.
	Start()
	Deliver(msg state.Msg, inPort int)
}

// Port is one end of a point-to-point link. Outbound messages go through
// the port's transmission scheduler; the far end is another node's port.
type Port struct {
	Index  int
	owner  Node
	remote *Port
	sched  *TxScheduler
}

// Send submits a message for transmission on this port.
func (p *Port) Send(msg state.Msg) {
	p.sched.Submit(msg)
}

// Neighbor returns the node on the far end of the link.
func (p *Port) Neighbor() Node {
	return p.remote.owner
}

// Scheduler exposes the port's transmission scheduler.
func (p *Port) Scheduler() *TxScheduler {
	return p.sched
}
