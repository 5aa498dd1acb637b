package core

import (
	"fmt"

	"github.com/weftlabs/weft/state"
)

// App is the application collaborator attached to a host. The transport
// core calls it with opaque payloads and handshake completions; payload
// semantics live entirely here.
type App interface {
	// Start kicks off client behavior; servers are passive.
	Start(h *Host)
	// OnEstablished fires on the initiating side of a completed
	// handshake and produces the first data send for the peer's role.
	OnEstablished(h *Host, peer state.Addr)
	// OnAppData receives a payload that arrived via TCP or UDP.
	OnAppData(h *Host, peer state.Addr, p state.AppPayload, viaTCP bool)
}

// serverApp is the do-nothing client side shared by the server roles.
type serverApp struct{}

func (serverApp) Start(*Host) {}

func (serverApp) OnEstablished(*Host, state.Addr) {}

// NewApp builds the collaborator for a configured role.
func NewApp(cfg state.NodeCfg) App {
	switch cfg.Role {
	case state.RolePC:
		return &PCApp{
			protocol: cfg.Protocol,
			qname:    cfg.DnsQuery,
			dns:      cfg.DnsAddr,
			db:       cfg.DBAddr,
			mail:     cfg.MailAddr,
		}
	case state.RoleDNS:
		return &DNSApp{answer: cfg.Answer}
	case state.RoleHTTP:
		return &HTTPApp{}
	case state.RoleDB:
		return &DBApp{}
	case state.RoleMail:
		return &MailApp{}
	}
	return nil
}

// PCApp drives the workstation exchange: key exchange with the resolver,
// name lookup, HTTP fetch from the answered address, a database query
// and optionally a mail submission.
type PCApp struct {
	protocol string
	qname    string
	dns      state.Addr
	db       state.Addr
	mail     state.Addr

	httpAddr    state.Addr
	dbStarted   bool
	mailStarted bool
}

func (a *PCApp) Start(h *Host) {
	h.Keys.Initiate(a.dns)
	if a.protocol == "UDP" || a.protocol == "AUTO" {
		a.sendDNSQueryUDP(h)
	} else {
		h.Endpoint.Open(a.dns, state.PriorityHigh)
	}
}

func (a *PCApp) sendDNSQueryUDP(h *Host) {
	wire := encodeDNSQuery(a.qname)
	sealed, enc := h.Keys.Seal(a.dns, wire)
	h.SendUDP(a.dns, state.DNSQuery{Wire: sealed, Encrypted: enc, Via: "UDP"}, state.PriorityHigh)
	h.Log().Info("sent UDP DNS query", "qname", a.qname)
}

func (a *PCApp) OnEstablished(h *Host, peer state.Addr) {
	switch peer {
	case a.dns:
		wire := encodeDNSQuery(a.qname)
		sealed, enc := h.Keys.Seal(peer, wire)
		h.Endpoint.SendData(peer, state.DNSQuery{Wire: sealed, Encrypted: enc, Via: "TCP"}, state.PriorityNormal)
		h.Log().Info("sent TCP DNS query", "qname", a.qname)
	case a.db:
		query := []byte("SELECT * FROM users")
		sealed, enc := h.Keys.Seal(peer, query)
		h.Endpoint.SendData(peer, state.DBQuery{Query: sealed, Encrypted: enc}, state.PriorityNormal)
		h.Log().Info("sent DB query")
	case a.mail:
		h.Endpoint.SendData(peer, state.MailRequest{From: "pc@corp", To: "it@corp"}, state.PriorityLow)
		h.Log().Info("sent mail")
	default:
		path := []byte("/")
		sealed, enc := h.Keys.Seal(peer, path)
		h.Endpoint.SendData(peer, state.HTTPGet{Path: sealed, Encrypted: enc}, state.PriorityNormal)
		h.Log().Info("sent HTTP GET", "peer", peer)
	}
}

func (a *PCApp) OnAppData(h *Host, peer state.Addr, p state.AppPayload, viaTCP bool) {
	switch m := p.(type) {
	case state.DNSResponse:
		wire := m.Wire
		if m.Encrypted {
			wire = h.Keys.Open(peer, wire)
		}
		a.httpAddr = m.Answer
		h.Log().Info("resolved", "qname", a.qname, "answer", m.Answer, "encrypted", m.Encrypted)

		h.Keys.Initiate(a.httpAddr)
		if a.db != 0 {
			h.Keys.Initiate(a.db)
		}
		if a.protocol == "UDP" {
			path := []byte("/")
			sealed, enc := h.Keys.Seal(a.httpAddr, path)
			h.SendUDP(a.httpAddr, state.HTTPGet{Path: sealed, Encrypted: enc}, state.PriorityNormal)
		} else {
			h.Endpoint.Open(a.httpAddr, state.PriorityNormal)
		}

	case state.HTTPResponse:
		body := m.Body
		if m.Encrypted {
			body = h.Keys.Open(peer, body)
		}
		h.Log().Info("received HTTP response", "bytes", m.Bytes, "encrypted", m.Encrypted)
		_ = body
		if viaTCP && a.db != 0 && !a.dbStarted {
			a.dbStarted = true
			h.Endpoint.Open(a.db, state.PriorityNormal)
		}

	case state.DBResponse:
		result := m.Result
		if m.Encrypted {
			result = h.Keys.Open(peer, result)
		}
		h.Log().Info("received DB response", "bytes", m.Bytes, "result", string(result))
		if a.mail != 0 && !a.mailStarted {
			a.mailStarted = true
			h.Keys.Initiate(a.mail)
			h.Endpoint.Open(a.mail, state.PriorityLow)
		}

	case state.MailResponse:
		status := m.Status
		if m.Encrypted {
			status = h.Keys.Open(peer, status)
		}
		h.Log().Info("received mail response", "status", string(status))

	default:
		h.Log().Debug("unexpected payload", "peer", peer, "payload", fmt.Sprintf("%T", p))
	}
}

// DNSApp resolves every question to the configured answer address.
type DNSApp struct {
	serverApp
	answer state.Addr
}

func (a *DNSApp) OnAppData(h *Host, peer state.Addr, p state.AppPayload, viaTCP bool) {
	q, ok := p.(state.DNSQuery)
	if !ok {
		h.Log().Debug("unexpected payload", "peer", peer, "payload", fmt.Sprintf("%T", p))
		return
	}
	wire := q.Wire
	if q.Encrypted {
		wire = h.Keys.Open(peer, wire)
	}
	qname := decodeDNSQname(wire)
	h.Log().Info("received query", "qname", qname, "src", peer, "encrypted", q.Encrypted, "via", q.Via)

	answer := encodeDNSAnswer(qname, a.answer)
	sealed, enc := h.Keys.Seal(peer, answer)
	resp := state.DNSResponse{Wire: sealed, Answer: a.answer, Encrypted: enc}
	if viaTCP {
		h.Endpoint.SendData(peer, resp, state.PriorityNormal)
	} else {
		h.SendUDP(peer, resp, state.PriorityNormal)
	}
}

// HTTPApp answers GETs with a fixed page.
type HTTPApp struct {
	serverApp
}

func (a *HTTPApp) OnAppData(h *Host, peer state.Addr, p state.AppPayload, viaTCP bool) {
	get, ok := p.(state.HTTPGet)
	if !ok {
		h.Log().Debug("unexpected payload", "peer", peer, "payload", fmt.Sprintf("%T", p))
		return
	}
	path := get.Path
	if get.Encrypted {
		path = h.Keys.Open(peer, path)
	}
	h.Log().Info("received GET", "path", string(path), "src", peer)

	body := []byte("<html>it works</html>")
	sealed, enc := h.Keys.Seal(peer, body)
	resp := state.HTTPResponse{Bytes: 2048, Body: sealed, Encrypted: enc}
	if viaTCP {
		h.Endpoint.SendData(peer, resp, state.PriorityNormal)
	} else {
		h.SendUDP(peer, resp, state.PriorityNormal)
	}
}

// DBApp answers queries with a canned result set.
type DBApp struct {
	serverApp
}

func (a *DBApp) OnAppData(h *Host, peer state.Addr, p state.AppPayload, viaTCP bool) {
	q, ok := p.(state.DBQuery)
	if !ok {
		h.Log().Debug("unexpected payload", "peer", peer, "payload", fmt.Sprintf("%T", p))
		return
	}
	query := q.Query
	if q.Encrypted {
		query = h.Keys.Open(peer, query)
	}
	h.Log().Info("received query", "query", string(query), "src", peer)

	result := []byte("3 rows")
	sealed, enc := h.Keys.Seal(peer, result)
	resp := state.DBResponse{Bytes: 512, Result: sealed, Encrypted: enc}
	if viaTCP {
		h.Endpoint.SendData(peer, resp, state.PriorityNormal)
	} else {
		h.SendUDP(peer, resp, state.PriorityNormal)
	}
}

// MailApp accepts every message.
type MailApp struct {
	serverApp
}

func (a *MailApp) OnAppData(h *Host, peer state.Addr, p state.AppPayload, viaTCP bool) {
	req, ok := p.(state.MailRequest)
	if !ok {
		h.Log().Debug("unexpected payload", "peer", peer, "payload", fmt.Sprintf("%T", p))
		return
	}
	h.Log().Info("received mail", "from", req.From, "to", req.To)

	status := []byte("250 OK")
	sealed, enc := h.Keys.Seal(peer, status)
	resp := state.MailResponse{Status: sealed, Encrypted: enc}
	if viaTCP {
		h.Endpoint.SendData(peer, resp, state.PriorityNormal)
	} else {
		h.SendUDP(peer, resp, state.PriorityNormal)
	}
}
