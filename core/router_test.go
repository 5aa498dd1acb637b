package core

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/weftlabs/weft/state"
)

func makeRouter(env *state.Env, cfg state.NodeCfg, nports int) (*Router, []*tap) {
	r := NewRouter(cfg)
	ports := make([]*Port, nports)
	taps := make([]*tap, nports)
	for i := range ports {
		ports[i], taps[i] = newTestPort(env, i)
	}
	r.Attach(env, ports)
	return r, taps
}

func staticRouterCfg() state.NodeCfg {
	return state.NodeCfg{
		Id:           "rtr",
		Address:      101,
		Role:         state.RoleRouter,
		Routing:      state.RoutingStatic,
		SynRateLimit: state.DefaultRateLimit,
		StaticRoutes: []state.StaticRouteCfg{
			{Dest: 201, Port: 0},
			{Dest: 301, Port: 1},
		},
	}
}

func udpTo(dst state.Addr) state.Msg {
	return &state.UDPData{
		Header: state.Header{Src: 201, Dst: dst, Priority: state.PriorityNormal, Size: state.DefaultMsgSize},
		App:    state.HTTPGet{Path: []byte("/")},
	}
}

func TestRouter_ForwardOnStaticRoute(t *testing.T) {
	env := newTestEnv(1)
	r, taps := makeRouter(env, staticRouterCfg(), 3)

	r.Deliver(udpTo(301), 0)
	drain(env)

	assert.Len(t, taps[1].msgs, 1)
	assert.Empty(t, taps[0].msgs)
	assert.Empty(t, taps[2].msgs)
	assert.Equal(t, 1, r.Stats.Forwarded)
	assert.InDelta(t, float64(state.DefaultMsgSize)/1e6, r.utilization[1], 1e-12)
}

func TestRouter_FloodsUnknownDestination(t *testing.T) {
	env := newTestEnv(1)
	r, taps := makeRouter(env, staticRouterCfg(), 3)

	r.Deliver(udpTo(999), 0)
	drain(env)

	assert.Empty(t, taps[0].msgs)
	assert.Len(t, taps[1].msgs, 1)
	assert.Len(t, taps[2].msgs, 1)
	assert.Equal(t, 1, r.Stats.Flooded)
}

func TestRouter_SynRateLimit(t *testing.T) {
	env := newTestEnv(1)
	cfg := staticRouterCfg()
	cfg.SynRateLimit = 2
	r, taps := makeRouter(env, cfg, 2)

	for seq := int64(1000); seq < 1003; seq++ {
		r.Deliver(&state.TCPSyn{
			Header: state.Header{Src: 201, Dst: 301, Priority: state.PriorityHigh, Size: state.DefaultMsgSize},
			Seq:    seq,
			Cookie: GenerateCookie(201, 301, seq),
		}, 0)
	}
	drain(env)

	assert.Len(t, taps[1].msgs, 2)
	assert.Equal(t, 1, r.SynDrops)
}

func TestRouter_RIPInstallAndImprove(t *testing.T) {
	env := newTestEnv(1)
	r, _ := makeRouter(env, staticRouterCfg(), 3)

	r.Deliver(&state.RIPUpdate{
		Header: state.Header{Src: 102, Dst: -1},
		Routes: "999:1:1",
	}, 2)
	entry, ok := r.Route(999)
	assert.True(t, ok)
	assert.Equal(t, 2, entry.Port)
	assert.Equal(t, 2.0, entry.Metric)
	assert.Equal(t, 2, entry.HopCount)

	// a strictly better advertisement replaces the route
	r.Deliver(&state.RIPUpdate{
		Header: state.Header{Src: 103, Dst: -1},
		Routes: "999:0.5:1",
	}, 0)
	entry, _ = r.Route(999)
	assert.Equal(t, 0, entry.Port)
	assert.Equal(t, 1.5, entry.Metric)

	// an equal one does not
	r.Deliver(&state.RIPUpdate{
		Header: state.Header{Src: 102, Dst: -1},
		Routes: "999:0.5:1",
	}, 2)
	entry, _ = r.Route(999)
	assert.Equal(t, 0, entry.Port)
}

func TestRouter_RIPHopLimit(t *testing.T) {
	env := newTestEnv(1)
	r, _ := makeRouter(env, staticRouterCfg(), 2)

	r.Deliver(&state.RIPUpdate{
		Header: state.Header{Src: 102, Dst: -1},
		Routes: "999:1:15",
	}, 1)
	_, ok := r.Route(999)
	assert.False(t, ok)
}

func TestRouter_RIPMalformedEntriesSkipped(t *testing.T) {
	env := newTestEnv(1)
	r, _ := makeRouter(env, staticRouterCfg(), 2)

	r.Deliver(&state.RIPUpdate{
		Header: state.Header{Src: 102, Dst: -1},
		Routes: "bogus,x:y:z,777:1:2",
	}, 1)
	_, ok := r.Route(777)
	assert.True(t, ok)
}

func TestRouter_RIPRequestTriggersUpdate(t *testing.T) {
	env := newTestEnv(1)
	r, taps := makeRouter(env, staticRouterCfg(), 2)

	r.Deliver(&state.RIPRequest{Header: state.Header{Src: 102, Dst: -1}}, 0)
	drain(env)

	for _, tp := range taps {
		assert.Len(t, tp.msgs, 1)
		upd, ok := tp.msgs[0].(*state.RIPUpdate)
		assert.True(t, ok)
		assert.Equal(t, "201:1:1,301:1:1", upd.Routes)
	}
}

func TestRouter_HelloRecordsNeighbor(t *testing.T) {
	env := newTestEnv(1)
	r, _ := makeRouter(env, staticRouterCfg(), 2)

	r.Deliver(&state.OSPFHello{Header: state.Header{Src: 102, Dst: -1}}, 1)
	assert.Equal(t, state.Addr(102), r.helloNeighbors[1])
}

func TestRouter_StaleLinkStateDropped(t *testing.T) {
	env := newTestEnv(1)
	r, taps := makeRouter(env, staticRouterCfg(), 3)

	adv := &state.LinkStateAdvert{
		Header:   state.Header{Src: 102, Dst: -1, Priority: state.PriorityHigh},
		LinkID:   0,
		Cost:     0.01,
		Neighbor: 103,
		Stamp:    10 * time.Second,
	}
	r.Deliver(adv, 0)
	r.Deliver(adv, 0)
	drain(env)

	assert.Equal(t, 1, r.LsaDrops)
	// the record flooded exactly once per outgoing port
	assert.Empty(t, taps[0].msgs)
	assert.Len(t, taps[1].msgs, 1)
	assert.Len(t, taps[2].msgs, 1)
}

func TestRouter_NewerLinkStateRefloods(t *testing.T) {
	env := newTestEnv(1)
	r, taps := makeRouter(env, staticRouterCfg(), 2)

	for i, stamp := range []time.Duration{10 * time.Second, 20 * time.Second} {
		r.Deliver(&state.LinkStateAdvert{
			Header:   state.Header{Src: 102, Dst: -1, Priority: state.PriorityHigh},
			LinkID:   0,
			Cost:     float64(i + 1),
			Neighbor: 103,
			Stamp:    stamp,
		}, 0)
	}
	drain(env)

	assert.Equal(t, 0, r.LsaDrops)
	assert.Len(t, taps[1].msgs, 2)
	assert.Equal(t, 2.0, r.lsdb[LsKey{Origin: 102, LinkID: 0}].Cost)
}

func TestRouteCodec_RoundTrip(t *testing.T) {
	table := map[state.Addr]RouteEntry{
		301: {Dest: 301, Metric: 1, HopCount: 1},
		201: {Dest: 201, Metric: 2.5, HopCount: 3},
	}
	encoded := encodeRoutes(table)
	assert.Equal(t, "201:2.5:3,301:1:1", encoded)

	want := []advRoute{
		{Dest: 201, Metric: 2.5, Hops: 3},
		{Dest: 301, Metric: 1, Hops: 1},
	}
	if diff := cmp.Diff(want, parseRoutes(encoded)); diff != "" {
		t.Errorf("parseRoutes mismatch (-want +got):\n%s", diff)
	}
}

func TestShortestPaths_TieBreaksOnLowestPort(t *testing.T) {
	// Two equal-cost two-hop paths from 1 to 4; the port 0 path wins.
	//
	//    1 --p0-- 2
	//    |        |
	//    p1       |
	//    |        |
	//    3 ------ 4
	lsdb := map[LsKey]LinkStateRecord{
		{Origin: 1, LinkID: 0}: {Cost: 1, Neighbor: 2},
		{Origin: 1, LinkID: 1}: {Cost: 1, Neighbor: 3},
		{Origin: 2, LinkID: 0}: {Cost: 1, Neighbor: 4},
		{Origin: 3, LinkID: 0}: {Cost: 1, Neighbor: 4},
	}
	paths := shortestPaths(1, lsdb)
	assert.Equal(t, pathResult{Port: 0, Cost: 2, Hops: 2}, paths[4])
	assert.Equal(t, pathResult{Port: 0, Cost: 1, Hops: 1}, paths[2])
	assert.Equal(t, pathResult{Port: 1, Cost: 1, Hops: 1}, paths[3])
}

func TestShortestPaths_CheaperLongerPathWins(t *testing.T) {
	lsdb := map[LsKey]LinkStateRecord{
		{Origin: 1, LinkID: 0}: {Cost: 2, Neighbor: 4},
		{Origin: 1, LinkID: 1}: {Cost: 0.5, Neighbor: 3},
		{Origin: 3, LinkID: 0}: {Cost: 0.5, Neighbor: 4},
	}
	paths := shortestPaths(1, lsdb)
	assert.Equal(t, pathResult{Port: 1, Cost: 1, Hops: 2}, paths[4])
}

func TestRouter_LinkStateInstallsRoutes(t *testing.T) {
	env := newTestEnv(1)
	cfg := staticRouterCfg()
	cfg.Routing = state.RoutingLinkState
	r, _ := makeRouter(env, cfg, 2)

	// learn the neighbor, advertise local links, then hear about the
	// neighbor's own link to a third router
	r.Deliver(&state.OSPFHello{Header: state.Header{Src: 102, Dst: -1}}, 1)
	r.sendLinkState()
	r.Deliver(&state.LinkStateAdvert{
		Header:   state.Header{Src: 102, Dst: -1, Priority: state.PriorityHigh},
		LinkID:   0,
		Cost:     0.01,
		Neighbor: 103,
		Stamp:    time.Second,
	}, 1)
	drain(env)

	entry, ok := r.Route(102)
	assert.True(t, ok)
	assert.Equal(t, 1, entry.Port)

	entry, ok = r.Route(103)
	assert.True(t, ok)
	assert.Equal(t, 1, entry.Port)
	assert.Equal(t, 2, entry.HopCount)

	// static host seeds survive the recompute
	entry, _ = r.Route(201)
	assert.Equal(t, 0, entry.Port)
}
