package core

import (
	"log/slog"

	"github.com/weftlabs/weft/state"
)

// Stats counts per-node traffic for the end-of-run summary.
type Stats struct {
	Sent      int
	Received  int
	Forwarded int
	Flooded   int
	Dropped   int
}

// Host is a simulated end system: one link, a transport endpoint, a key
// exchange session, SYN-flood protection and an application collaborator
// deciding what the traffic means.
type Host struct {
	env *state.Env
	log *slog.Logger
	cfg state.NodeCfg

	port *Port
	app  App

	Endpoint *Endpoint
	Keys     *KeyExchangeSession
	Guard    *SynCookieGuard
	Stats    Stats
}

func NewHost(cfg state.NodeCfg, app App) *Host {
	return &Host{cfg: cfg, app: app}
}

func (h *Host) Identity() state.Addr { return h.cfg.Address }

func (h *Host) Attach(env *state.Env, ports []*Port) {
	h.env = env
	h.log = env.Log.With("node", h.cfg.Id)
	h.port = ports[0]
	h.Guard = NewSynCookieGuard(h.guardLimit())
	h.Keys = NewKeyExchangeSession(h.cfg.Address, state.StreamCipher{}, h.Send, h.log)
	h.Endpoint = NewEndpoint(env, h.log, h.cfg.Address, h.Guard, h.Keys, h.cfg.Cwnd, h.cfg.Ssthresh, h.Send)
	h.Endpoint.OnEstablished(func(peer state.Addr) {
		h.app.OnEstablished(h, peer)
	})
	h.Endpoint.OnData(func(peer state.Addr, app state.AppPayload, viaTCP bool) {
		h.app.OnAppData(h, peer, app, viaTCP)
	})
}

func (h *Host) guardLimit() int {
	if h.cfg.RateLimit > 0 {
		return h.cfg.RateLimit
	}
	return state.DefaultRateLimit
}

func (h *Host) Start() {
	h.env.Every(state.RateWindow, func() {
		h.Guard.ResetWindow()
		h.Guard.Sweep(h.env.Clock.Now())
	})
	if h.cfg.Role == state.RolePC {
		h.env.Clock.Schedule(h.cfg.StartAt, func() {
			h.app.Start(h)
		})
	} else {
		h.app.Start(h)
	}
}

// Send puts a message on this host's only link.
func (h *Host) Send(msg state.Msg) {
	hdr := msg.Hdr()
	if hdr.Size == 0 {
		hdr.Size = state.DefaultMsgSize
	}
	h.Stats.Sent++
	h.port.Send(msg)
}

// SendUDP emits a connectionless payload to peer.
func (h *Host) SendUDP(peer state.Addr, app state.AppPayload, prio state.Priority) {
	h.Send(&state.UDPData{
		Header: state.Header{Src: h.cfg.Address, Dst: peer, Priority: prio},
		App:    app,
	})
}

func (h *Host) Deliver(msg state.Msg, inPort int) {
	h.Stats.Received++
	src := msg.Hdr().Src

	// The resolver meters every inbound request per source; other
	// servers only guard the SYN path.
	if h.cfg.Role == state.RoleDNS {
		if !h.Guard.Admit(src) {
			h.Stats.Dropped++
			h.log.Warn("rate limit exceeded, dropping request", "src", src)
			return
		}
	}

	switch m := msg.(type) {
	case *state.KeyExchange:
		h.Keys.Handle(m)
	case *state.TCPSyn:
		h.Endpoint.HandleSyn(m)
	case *state.TCPSynAck:
		h.Endpoint.HandleSynAck(m)
	case *state.TCPAck:
		h.Endpoint.HandleAck(m)
	case *state.TCPData:
		h.Endpoint.HandleData(m)
	case *state.TCPFin:
		h.Endpoint.HandleFin(m)
	case *state.UDPData:
		h.app.OnAppData(h, src, m.App, false)
	case *state.OSPFHello, *state.LinkStateAdvert, *state.RIPUpdate, *state.RIPRequest:
		// routing chatter from the adjacent router; hosts do not route
	default:
		h.Stats.Dropped++
		h.log.Warn("unexpected message", "src", src)
	}
}

// Log exposes the host's logger to its application.
func (h *Host) Log() *slog.Logger { return h.log }

// Env exposes the simulation environment to its application.
func (h *Host) Env() *state.Env { return h.env }

// Config returns the host's configuration block.
func (h *Host) Config() state.NodeCfg { return h.cfg }
