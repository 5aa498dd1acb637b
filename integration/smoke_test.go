package integration

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weftlabs/weft/mock"
	"github.com/weftlabs/weft/state"
)

func TestScenarioYAMLRoundTrip(t *testing.T) {
	cfg := mock.MockCfg()
	require.NoError(t, state.CentralConfigValidator(&cfg))

	out, err := yaml.Marshal(&cfg)
	require.NoError(t, err)

	var back state.CentralCfg
	require.NoError(t, yaml.Unmarshal(out, &back))
	state.ExpandConfig(&back)

	if diff := cmp.Diff(cfg, back); diff != "" {
		t.Errorf("config changed across YAML round trip (-want +got):\n%s", diff)
	}
}

func TestDeterministicRuns(t *testing.T) {
	first := newSim(t, mock.MockCfg())
	first.Run()
	second := newSim(t, mock.MockCfg())
	second.Run()

	for _, id := range []state.NodeId{"pc", "dns", "http", "db", "mail"} {
		assert.Equal(t, first.Host(id).Stats, second.Host(id).Stats, "node %s diverged", id)
	}
	assert.Equal(t, first.Router("gw").Stats, second.Router("gw").Stats)
	assert.Equal(t, first.Router("edge").Stats, second.Router("edge").Stats)
}
