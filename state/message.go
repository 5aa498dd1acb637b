package state

import "time"

// Addr is a logical node address, globally unique per simulated host or
// router.
type Addr int64

// Cookie is a stateless handshake token; see the guard in core.
type Cookie int64

// Priority orders messages competing for an outbound link.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	}
	return "unknown"
}

// Header carries the fields every message has. Size feeds the link
// transmission-time model.
type Header struct {
	Src      Addr
	Dst      Addr
	Priority Priority
	Size     int
}

func (h *Header) Hdr() *Header { return h }

// Msg is the closed set of messages exchanged between nodes. Dispatch is
// by type switch; adding a kind means touching every switch.
type Msg interface {
	Hdr() *Header
}

// KeyExchange carries one side's public key tag.
type KeyExchange struct {
	Header
	PublicKey PublicKey
}

// TCPSyn opens a connection. Cookie is the stateless handshake token for
// (Src, Dst, Seq).
type TCPSyn struct {
	Header
	Seq    int64
	Cookie Cookie
}

// TCPSynAck answers a SYN. Cookie covers (Src, Dst, Seq) from the
// responder's point of view.
type TCPSynAck struct {
	Header
	Seq    int64
	Ack    int64
	Cookie Cookie
}

type TCPAck struct {
	Header
	Ack int64
}

// TCPData carries one application payload per sequence number.
type TCPData struct {
	Header
	Seq int64
	Ack int64
	App AppPayload
}

type TCPFin struct {
	Header
}

// UDPData carries an application payload with no connection state.
type UDPData struct {
	Header
	App AppPayload
}

// OSPFHello announces liveness on a link; receivers learn which router
// sits at the far end of the arrival port.
type OSPFHello struct {
	Header
}

// LinkStateAdvert describes one link of the originating router. Neighbor
// is the router seen on that link via hellos, zero when unknown. Stamp is
// the origination time; records not strictly newer than the stored one
// are dropped instead of re-flooded.
type LinkStateAdvert struct {
	Header
	LinkID    int
	Cost      float64
	Bandwidth float64
	Delay     float64
	Neighbor  Addr
	Stamp     time.Duration
}

// RIPUpdate carries a full route table as "dest:metric:hops" triples
// joined by commas.
type RIPUpdate struct {
	Header
	Routes string
}

// RIPRequest asks for an immediate full-table update.
type RIPRequest struct {
	Header
}

// AppPayload is the closed set of application payloads riding TCPData and
// UDPData. The transport and routing layers never look inside; fields
// marked Encrypted carry ciphertext produced by the owning node's cipher.
type AppPayload interface {
	isAppPayload()
}

// DNSQuery wraps a wire-format DNS question. Via is "TCP" or "UDP".
type DNSQuery struct {
	Wire      []byte
	Encrypted bool
	Via       string
}

// DNSResponse wraps a wire-format DNS answer. Answer duplicates the
// resolved logical address so the client does not have to parse the wire
// blob when it is encrypted.
type DNSResponse struct {
	Wire      []byte
	Answer    Addr
	Encrypted bool
}

type HTTPGet struct {
	Path      []byte
	Encrypted bool
}

type HTTPResponse struct {
	Bytes     int
	Body      []byte
	Encrypted bool
}

type DBQuery struct {
	Query     []byte
	Encrypted bool
}

type DBResponse struct {
	Bytes     int
	Result    []byte
	Encrypted bool
}

type MailRequest struct {
	From string
	To   string
}

type MailResponse struct {
	Status    []byte
	Encrypted bool
}

func (DNSQuery) isAppPayload()     {}
func (DNSResponse) isAppPayload()  {}
func (HTTPGet) isAppPayload()      {}
func (HTTPResponse) isAppPayload() {}
func (DBQuery) isAppPayload()      {}
func (DBResponse) isAppPayload()   {}
func (MailRequest) isAppPayload()  {}
func (MailResponse) isAppPayload() {}
