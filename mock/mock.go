package mock

import (
	"time"

	"github.com/weftlabs/weft/state"
)

// MockCfg is the standard test topology: a pc behind two routers, with
// the resolver, web server, mail server and database each on their own
// link off the far router.
//
//	pc -- gw -- edge -- dns
//	             |  \-- http
//	             |  \-- mail
//	             \--- db
func MockCfg() state.CentralCfg {
	cfg := state.CentralCfg{
		Nodes: []state.NodeCfg{
			{
				Id:       "pc",
				Address:  201,
				Role:     state.RolePC,
				Protocol: "TCP",
				DnsAddr:  301,
				DnsQuery: "intranet.corp",
				DBAddr:   601,
				MailAddr: 501,
				StartAt:  time.Second,
			},
			{
				Id:      "gw",
				Address: 101,
				Role:    state.RoleRouter,
				Routing: state.RoutingStatic,
				StaticRoutes: []state.StaticRouteCfg{
					{Dest: 201, Port: 0},
					{Dest: 301, Port: 1},
					{Dest: 401, Port: 1},
					{Dest: 501, Port: 1},
					{Dest: 601, Port: 1},
				},
			},
			{
				Id:      "edge",
				Address: 102,
				Role:    state.RoleRouter,
				Routing: state.RoutingStatic,
				StaticRoutes: []state.StaticRouteCfg{
					{Dest: 201, Port: 0},
					{Dest: 301, Port: 1},
					{Dest: 401, Port: 2},
					{Dest: 501, Port: 3},
					{Dest: 601, Port: 4},
				},
			},
			{Id: "dns", Address: 301, Role: state.RoleDNS, Answer: 401},
			{Id: "http", Address: 401, Role: state.RoleHTTP},
			{Id: "mail", Address: 501, Role: state.RoleMail},
			{Id: "db", Address: 601, Role: state.RoleDB},
		},
		Links: []state.LinkCfg{
			{A: "pc", B: "gw"},
			{A: "gw", B: "edge"},
			{A: "edge", B: "dns"},
			{A: "edge", B: "http"},
			{A: "edge", B: "mail"},
			{A: "edge", B: "db"},
		},
		RunFor: 60 * time.Second,
		Seed:   42,
	}
	state.ExpandConfig(&cfg)
	return cfg
}
