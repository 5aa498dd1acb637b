package integration

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/weftlabs/weft/core"
	"github.com/weftlabs/weft/state"
)

// newSim wires a scenario with a discarded logger. Tests drive the
// clock themselves.
func newSim(t *testing.T, cfg state.CentralCfg) *core.Sim {
	t.Helper()
	sim, err := core.New(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return sim
}

// chainCfg builds pc - r1 - r2 - r3 - dns with the given routing
// protocol on every router. Only the edge routers know their attached
// host; everything in the middle has to learn.
func chainCfg(routing state.RoutingProto) state.CentralCfg {
	cfg := state.CentralCfg{
		Nodes: []state.NodeCfg{
			{
				Id:       "pc",
				Address:  201,
				Role:     state.RolePC,
				DnsAddr:  301,
				DnsQuery: "intranet.corp",
				StartAt:  time.Second,
			},
			{
				Id:      "r1",
				Address: 101,
				Role:    state.RoleRouter,
				Routing: routing,
				StaticRoutes: []state.StaticRouteCfg{
					{Dest: 201, Port: 0},
				},
				RipUpdateInterval: 5 * time.Second,
				HelloInterval:     2 * time.Second,
				LsaInterval:       3 * time.Second,
			},
			{
				Id:                "r2",
				Address:           102,
				Role:              state.RoleRouter,
				Routing:           routing,
				RipUpdateInterval: 5 * time.Second,
				HelloInterval:     2 * time.Second,
				LsaInterval:       3 * time.Second,
			},
			{
				Id:      "r3",
				Address: 103,
				Role:    state.RoleRouter,
				Routing: routing,
				StaticRoutes: []state.StaticRouteCfg{
					{Dest: 301, Port: 1},
				},
				RipUpdateInterval: 5 * time.Second,
				HelloInterval:     2 * time.Second,
				LsaInterval:       3 * time.Second,
			},
			{Id: "dns", Address: 301, Role: state.RoleDNS, Answer: 301},
		},
		Links: []state.LinkCfg{
			{A: "pc", B: "r1"},
			{A: "r1", B: "r2"},
			{A: "r2", B: "r3"},
			{A: "r3", B: "dns"},
		},
		RunFor: 60 * time.Second,
		Seed:   7,
	}
	state.ExpandConfig(&cfg)
	return cfg
}
