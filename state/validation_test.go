package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameValidator_Valid(t *testing.T) {
	assert.NoError(t, NameValidator("1"))
	assert.NoError(t, NameValidator("pc-floor2.corp"))
	assert.NoError(t, NameValidator("edge_router"))
}

func TestNameValidator_Invalid(t *testing.T) {
	assert.Error(t, NameValidator("PC1"))
	assert.Error(t, NameValidator("node name"))
	assert.Error(t, NameValidator(""))
	assert.Error(t, NameValidator(strings.Repeat("a", 200)))
}

func validCfg() *CentralCfg {
	return &CentralCfg{
		Nodes: []NodeCfg{
			{Id: "pc", Address: 201, Role: RolePC, DnsAddr: 301},
			{Id: "rtr", Address: 101, Role: RoleRouter, Routing: RoutingStatic},
			{Id: "dns", Address: 301, Role: RoleDNS},
		},
		Links: []LinkCfg{
			{A: "pc", B: "rtr"},
			{A: "rtr", B: "dns"},
		},
	}
}

func TestCentralConfigValidator_Valid(t *testing.T) {
	assert.NoError(t, CentralConfigValidator(validCfg()))
}

func TestCentralConfigValidator_DuplicateAddress(t *testing.T) {
	cfg := validCfg()
	cfg.Nodes[2].Address = 201
	assert.Error(t, CentralConfigValidator(cfg))
}

func TestCentralConfigValidator_DuplicateId(t *testing.T) {
	cfg := validCfg()
	cfg.Nodes[2].Id = "pc"
	assert.Error(t, CentralConfigValidator(cfg))
}

func TestCentralConfigValidator_PCWithoutResolver(t *testing.T) {
	cfg := validCfg()
	cfg.Nodes[0].DnsAddr = 0
	assert.Error(t, CentralConfigValidator(cfg))
}

func TestCentralConfigValidator_UnknownRole(t *testing.T) {
	cfg := validCfg()
	cfg.Nodes[1].Role = "switch"
	assert.Error(t, CentralConfigValidator(cfg))
}

func TestCentralConfigValidator_UnknownRouting(t *testing.T) {
	cfg := validCfg()
	cfg.Nodes[1].Routing = "ospfv3"
	assert.Error(t, CentralConfigValidator(cfg))
}

func TestCentralConfigValidator_LinkToUndefinedNode(t *testing.T) {
	cfg := validCfg()
	cfg.Links = append(cfg.Links, LinkCfg{A: "rtr", B: "ghost"})
	assert.Error(t, CentralConfigValidator(cfg))
}

func TestCentralConfigValidator_SelfLink(t *testing.T) {
	cfg := validCfg()
	cfg.Links = append(cfg.Links, LinkCfg{A: "rtr", B: "rtr"})
	assert.Error(t, CentralConfigValidator(cfg))
}

func TestCentralConfigValidator_DuplicateLink(t *testing.T) {
	cfg := validCfg()
	cfg.Links = append(cfg.Links, LinkCfg{A: "rtr", B: "pc"})
	assert.Error(t, CentralConfigValidator(cfg))
}

func TestExpandConfig_Defaults(t *testing.T) {
	cfg := validCfg()
	ExpandConfig(cfg)
	assert.Equal(t, DefaultRunFor, cfg.RunFor)
	assert.Equal(t, "TCP", cfg.Nodes[0].Protocol)
	assert.Equal(t, DefaultRateLimit, cfg.Nodes[2].RateLimit)
	assert.Equal(t, InitialCwnd, cfg.Nodes[0].Cwnd)
	assert.Equal(t, InitialSsthresh, cfg.Nodes[0].Ssthresh)
	assert.Equal(t, DefaultBandwidth, cfg.Links[0].Bandwidth)
	assert.Equal(t, DefaultLinkDelay, cfg.Links[0].Delay)
}
