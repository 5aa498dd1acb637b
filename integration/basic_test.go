package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weftlabs/weft/mock"
	"github.com/weftlabs/weft/state"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFullExchange(t *testing.T) {
	sim := newSim(t, mock.MockCfg())
	sim.Run()

	pc := sim.Host("pc")
	// the workstation walked the whole chain: resolve, fetch, query,
	// mail, with a shared secret for every peer
	assert.True(t, pc.Keys.HasSecret(301))
	assert.True(t, pc.Keys.HasSecret(401))
	assert.True(t, pc.Keys.HasSecret(601))
	assert.True(t, pc.Keys.HasSecret(501))
	assert.True(t, pc.Endpoint.Established(301))
	assert.True(t, pc.Endpoint.Established(401))
	assert.True(t, pc.Endpoint.Established(601))
	assert.True(t, pc.Endpoint.Established(501))

	for _, id := range []state.NodeId{"dns", "http", "db", "mail"} {
		h := sim.Host(id)
		assert.Greater(t, h.Stats.Received, 0, "server %s saw no traffic", id)
		assert.True(t, h.Endpoint.Established(201), "server %s has no connection from the pc", id)
		assert.Zero(t, h.Endpoint.CookieDrops, "server %s dropped a legitimate cookie", id)
	}

	gw := sim.Router("gw")
	assert.Greater(t, gw.Stats.Forwarded, 0)
}

func TestFullExchangeOverUDP(t *testing.T) {
	cfg := mock.MockCfg()
	pcCfg := cfg.GetNode("pc")
	pcCfg.Protocol = "UDP"

	sim := newSim(t, cfg)
	sim.Run()

	pc := sim.Host("pc")
	// resolution and the fetch both ran connectionless
	assert.Nil(t, pc.Endpoint.Conn(301))
	assert.Nil(t, pc.Endpoint.Conn(401))
	assert.True(t, pc.Keys.HasSecret(301))
	assert.Greater(t, sim.Host("dns").Stats.Received, 0)
	assert.Greater(t, sim.Host("http").Stats.Received, 0)
}

func TestForgedCookieLeaksNothing(t *testing.T) {
	sim := newSim(t, mock.MockCfg())
	sim.Start()

	dns := sim.Host("dns")
	dns.Deliver(&state.TCPSyn{
		Header: state.Header{Src: 201, Dst: 301, Priority: state.PriorityHigh},
		Seq:    5000,
		Cookie: 1,
	}, 0)

	assert.Equal(t, 1, dns.Endpoint.CookieDrops)
	assert.Nil(t, dns.Endpoint.Conn(201))
	// nothing went back out, not even a reset
	assert.Equal(t, 0, dns.Stats.Sent)
}
