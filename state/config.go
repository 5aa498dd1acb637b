package state

import (
	"time"
)

// Role selects the behavior attached to a node.
type Role string

const (
	RolePC     Role = "pc"
	RoleDNS    Role = "dns"
	RoleHTTP   Role = "http"
	RoleDB     Role = "db"
	RoleMail   Role = "mail"
	RoleRouter Role = "router"
)

// RoutingProto selects how a router fills its route table.
type RoutingProto string

const (
	RoutingStatic         RoutingProto = "static"
	RoutingDistanceVector RoutingProto = "distance-vector"
	RoutingLinkState      RoutingProto = "link-state"
)

// StaticRouteCfg pins a destination to an output port at startup.
type StaticRouteCfg struct {
	Dest Addr `yaml:"dest"`
	Port int  `yaml:"port"`
}

// NodeCfg configures one simulated host or router.
type NodeCfg struct {
	Id      NodeId `yaml:"id"`
	Address Addr   `yaml:"address"`
	Role    Role   `yaml:"role"`

	// Host options.
	Protocol  string        `yaml:"protocol,omitempty"`   // TCP, UDP or AUTO (pc only)
	DnsAddr   Addr          `yaml:"dns_addr,omitempty"`   // resolver used by a pc
	DnsQuery  string        `yaml:"dns_query,omitempty"`  // name a pc resolves at start
	DBAddr    Addr          `yaml:"db_addr,omitempty"`    // database a pc queries after HTTP
	MailAddr  Addr          `yaml:"mail_addr,omitempty"`  // mail server a pc submits to after the DB exchange
	Answer    Addr          `yaml:"answer,omitempty"`     // address a dns server resolves to
	StartAt   time.Duration `yaml:"start_at,omitempty"`   // when a pc begins its exchange
	RateLimit int           `yaml:"rate_limit,omitempty"` // per-source requests per window

	// Congestion control starting points, zero means default.
	Cwnd     float64 `yaml:"cwnd,omitempty"`
	Ssthresh float64 `yaml:"ssthresh,omitempty"`

	// Router options.
	Routing           RoutingProto     `yaml:"routing,omitempty"`
	SynRateLimit      int              `yaml:"syn_rate_limit,omitempty"`
	StaticRoutes      []StaticRouteCfg `yaml:"static_routes,omitempty"`
	RipUpdateInterval time.Duration    `yaml:"rip_update_interval,omitempty"`
	HelloInterval     time.Duration    `yaml:"hello_interval,omitempty"`
	LsaInterval       time.Duration    `yaml:"lsa_interval,omitempty"`
}

// LinkCfg is a point-to-point link between two configured nodes.
type LinkCfg struct {
	A         NodeId        `yaml:"a"`
	B         NodeId        `yaml:"b"`
	Bandwidth float64       `yaml:"bandwidth,omitempty"` // Mbps
	Delay     time.Duration `yaml:"delay,omitempty"`     // one-way propagation
}

// CentralCfg describes a whole scenario.
type CentralCfg struct {
	Nodes  []NodeCfg     `yaml:"nodes"`
	Links  []LinkCfg     `yaml:"links"`
	RunFor time.Duration `yaml:"run_for,omitempty"`
	Seed   uint64        `yaml:"seed,omitempty"`
}

// GetNode returns the config block for a node id, nil when unknown.
func (c *CentralCfg) GetNode(id NodeId) *NodeCfg {
	for i := range c.Nodes {
		if c.Nodes[i].Id == id {
			return &c.Nodes[i]
		}
	}
	return nil
}

// GetNodeByAddr returns the config block for an address, nil when
// unknown.
func (c *CentralCfg) GetNodeByAddr(addr Addr) *NodeCfg {
	for i := range c.Nodes {
		if c.Nodes[i].Address == addr {
			return &c.Nodes[i]
		}
	}
	return nil
}

// ExpandConfig fills zero values with the package defaults.
func ExpandConfig(cfg *CentralCfg) {
	if cfg.RunFor == 0 {
		cfg.RunFor = DefaultRunFor
	}
	for i := range cfg.Nodes {
		n := &cfg.Nodes[i]
		if n.Protocol == "" {
			n.Protocol = "TCP"
		}
		if n.RateLimit == 0 {
			n.RateLimit = DefaultRateLimit
		}
		if n.SynRateLimit == 0 {
			n.SynRateLimit = DefaultRateLimit
		}
		if n.Cwnd == 0 {
			n.Cwnd = InitialCwnd
		}
		if n.Ssthresh == 0 {
			n.Ssthresh = InitialSsthresh
		}
		if n.Routing == "" && n.Role == RoleRouter {
			n.Routing = RoutingStatic
		}
		if n.RipUpdateInterval == 0 {
			n.RipUpdateInterval = DefaultRIPUpdateInterval
		}
		if n.HelloInterval == 0 {
			n.HelloInterval = DefaultHelloInterval
		}
		if n.LsaInterval == 0 {
			n.LsaInterval = DefaultLSAInterval
		}
	}
	for i := range cfg.Links {
		l := &cfg.Links[i]
		if l.Bandwidth == 0 {
			l.Bandwidth = DefaultBandwidth
		}
		if l.Delay == 0 {
			l.Delay = DefaultLinkDelay
		}
	}
}
