package core

import (
	"log/slog"
	"time"

	"github.com/weftlabs/weft/state"
)

// RouteEntry is the authoritative route for one destination.
type RouteEntry struct {
	Dest       state.Addr
	Port       int
	Metric     float64
	HopCount   int
	LastUpdate time.Duration
}

// LsKey identifies one link of one originating router in the link-state
// database.
type LsKey struct {
	Origin state.Addr
	LinkID int
}

// LinkStateRecord is the database entry for an advertised link,
// replaced wholesale when a strictly newer advertisement arrives.
type LinkStateRecord struct {
	Cost      float64
	Bandwidth float64
	Delay     float64
	Neighbor  state.Addr
	Stamp     time.Duration
}

// Router forwards traffic between its ports and keeps the route table
// current through the configured protocol: static entries, periodic
// distance-vector exchange, or link-state flooding with traffic
// engineering costs.
type Router struct {
	env *state.Env
	log *slog.Logger
	cfg state.NodeCfg

	ports []*Port

	table map[state.Addr]RouteEntry
	lsdb  map[LsKey]LinkStateRecord

	// helloNeighbors maps a port to the router heard on it, learned
	// from hellos and carried in our advertisements so receivers can
	// reconstruct the topology graph.
	helloNeighbors map[int]state.Addr

	bandwidth   map[int]float64
	utilization map[int]float64

	synCounts map[state.Addr]int

	Stats    Stats
	SynDrops int
	LsaDrops int
}

func NewRouter(cfg state.NodeCfg) *Router {
	return &Router{cfg: cfg}
}

func (r *Router) Identity() state.Addr { return r.cfg.Address }

func (r *Router) Attach(env *state.Env, ports []*Port) {
	r.env = env
	r.log = env.Log.With("node", r.cfg.Id)
	r.ports = ports
	r.table = make(map[state.Addr]RouteEntry)
	r.lsdb = make(map[LsKey]LinkStateRecord)
	r.helloNeighbors = make(map[int]state.Addr)
	r.bandwidth = make(map[int]float64)
	r.utilization = make(map[int]float64)
	r.synCounts = make(map[state.Addr]int)

	for _, p := range ports {
		r.bandwidth[p.Index] = p.sched.bandwidth
	}
	for _, sr := range r.cfg.StaticRoutes {
		r.table[sr.Dest] = RouteEntry{
			Dest:     sr.Dest,
			Port:     sr.Port,
			Metric:   1.0,
			HopCount: 1,
		}
	}
}

func (r *Router) Start() {
	r.env.Every(state.RateWindow, func() {
		clear(r.synCounts)
	})

	switch r.cfg.Routing {
	case state.RoutingLinkState:
		r.env.EveryJittered(r.cfg.HelloInterval, time.Second, r.sendHellos)
		r.env.EveryJittered(r.cfg.LsaInterval, 2*time.Second, r.sendLinkState)
	case state.RoutingDistanceVector:
		r.env.EveryJittered(r.cfg.RipUpdateInterval, r.cfg.RipUpdateInterval, r.sendRouteUpdate)
	case state.RoutingStatic:
		// table was populated at attach time and never changes
	}
}

func (r *Router) Deliver(msg state.Msg, inPort int) {
	r.Stats.Received++

	switch m := msg.(type) {
	case *state.OSPFHello:
		r.helloNeighbors[inPort] = m.Src
		r.log.Debug("hello", "neighbor", m.Src, "port", inPort)
	case *state.LinkStateAdvert:
		r.handleLinkState(m, inPort)
	case *state.RIPUpdate:
		r.handleRouteUpdate(m, inPort)
	case *state.RIPRequest:
		r.sendRouteUpdate()
	case *state.TCPSyn:
		r.synCounts[m.Src]++
		if r.synCounts[m.Src] > r.cfg.SynRateLimit {
			r.SynDrops++
			r.log.Warn("dropping SYN, rate limit exceeded", "src", m.Src)
			return
		}
		r.forward(msg, inPort)
	default:
		r.forward(msg, inPort)
	}
}

// Route returns the installed entry for dest.
func (r *Router) Route(dest state.Addr) (RouteEntry, bool) {
	e, ok := r.table[dest]
	return e, ok
}

// Table returns a copy of the route table.
func (r *Router) Table() map[state.Addr]RouteEntry {
	out := make(map[state.Addr]RouteEntry, len(r.table))
	for k, v := range r.table {
		out[k] = v
	}
	return out
}

// forward looks the destination up and submits on the matching port,
// accounting the message size against the port's utilization. Unknown
// destinations flood out every port except the arrival one; that is the
// designed fallback, not an error path.
func (r *Router) forward(msg state.Msg, inPort int) {
	hdr := msg.Hdr()
	if hdr.Size == 0 {
		hdr.Size = state.DefaultMsgSize
	}
	if entry, ok := r.table[hdr.Dst]; ok && entry.Port >= 0 && entry.Port < len(r.ports) {
		r.utilization[entry.Port] += float64(hdr.Size) / 1e6
		r.ports[entry.Port].Send(msg)
		r.Stats.Forwarded++
		r.log.Debug("forwarded", "dst", hdr.Dst, "port", entry.Port, "priority", hdr.Priority)
		return
	}
	r.log.Debug("no route, flooding", "dst", hdr.Dst)
	r.Stats.Flooded++
	for _, p := range r.ports {
		if p.Index != inPort {
			p.Send(msg)
		}
	}
}

func (r *Router) sendHellos() {
	for _, p := range r.ports {
		p.Send(&state.OSPFHello{
			Header: state.Header{Src: r.cfg.Address, Dst: -1, Priority: state.PriorityHigh, Size: state.DefaultMsgSize},
		})
	}
}

// sendLinkState advertises each local link with a cost that rises as
// utilization approaches capacity, flooding every link's record out all
// other ports. Our own records also land in the database so the
// shortest-path computation sees local edges.
func (r *Router) sendLinkState() {
	now := r.env.Clock.Now()
	for _, p := range r.ports {
		avail := r.bandwidth[p.Index] - r.utilization[p.Index]
		rec := LinkStateRecord{
			Cost:      1.0 / (avail + 1),
			Bandwidth: avail,
			Delay:     1.0,
			Neighbor:  r.helloNeighbors[p.Index],
			Stamp:     now,
		}
		r.lsdb[LsKey{Origin: r.cfg.Address, LinkID: p.Index}] = rec

		adv := &state.LinkStateAdvert{
			Header:    state.Header{Src: r.cfg.Address, Dst: -1, Priority: state.PriorityHigh, Size: state.DefaultMsgSize},
			LinkID:    p.Index,
			Cost:      rec.Cost,
			Bandwidth: rec.Bandwidth,
			Delay:     rec.Delay,
			Neighbor:  rec.Neighbor,
			Stamp:     now,
		}
		for _, out := range r.ports {
			if out.Index != p.Index {
				out.Send(adv)
			}
		}
	}
	r.recompute()
}

// handleLinkState stores a strictly newer record, recomputes the table
// and re-floods. Records that are not newer are dropped outright; the
// freshness gate is what keeps flooding from looping forever on cyclic
// topologies.
func (r *Router) handleLinkState(m *state.LinkStateAdvert, inPort int) {
	key := LsKey{Origin: m.Src, LinkID: m.LinkID}
	if stored, ok := r.lsdb[key]; ok && m.Stamp <= stored.Stamp {
		r.LsaDrops++
		r.log.Debug("stale link-state record", "origin", m.Src, "link", m.LinkID)
		return
	}
	r.lsdb[key] = LinkStateRecord{
		Cost:      m.Cost,
		Bandwidth: m.Bandwidth,
		Delay:     m.Delay,
		Neighbor:  m.Neighbor,
		Stamp:     m.Stamp,
	}
	r.recompute()
	for _, p := range r.ports {
		if p.Index != inPort {
			p.Send(m)
		}
	}
}

// recompute replaces every router-learned entry with the shortest-path
// result; static entries for destinations outside the graph stay.
func (r *Router) recompute() {
	for dest, via := range shortestPaths(r.cfg.Address, r.lsdb) {
		r.table[dest] = RouteEntry{
			Dest:       dest,
			Port:       via.Port,
			Metric:     via.Cost,
			HopCount:   via.Hops,
			LastUpdate: r.env.Clock.Now(),
		}
	}
}

func (r *Router) sendRouteUpdate() {
	routes := encodeRoutes(r.table)
	for _, p := range r.ports {
		p.Send(&state.RIPUpdate{
			Header: state.Header{Src: r.cfg.Address, Dst: -1, Priority: state.PriorityNormal, Size: state.DefaultMsgSize},
			Routes: routes,
		})
	}
	r.log.Debug("sent route update", "entries", len(r.table))
}

// handleRouteUpdate applies the hop-increment rule: install only routes
// under the hop limit that are unknown or strictly better. Routes never
// expire here; there is no poison reverse or hold-down.
func (r *Router) handleRouteUpdate(m *state.RIPUpdate, inPort int) {
	changed := false
	for _, adv := range parseRoutes(m.Routes) {
		newMetric := adv.Metric + 1
		newHops := adv.Hops + 1
		if newHops >= state.RIPInfinity {
			continue
		}
		cur, ok := r.table[adv.Dest]
		if ok && newMetric >= cur.Metric {
			continue
		}
		r.table[adv.Dest] = RouteEntry{
			Dest:       adv.Dest,
			Port:       inPort,
			Metric:     newMetric,
			HopCount:   newHops,
			LastUpdate: r.env.Clock.Now(),
		}
		changed = true
	}
	if changed {
		r.log.Debug("updated routes", "neighbor", m.Src)
	}
}
