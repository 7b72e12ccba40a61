package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssilveira/atacama/domain/entities"
	"github.com/ssilveira/atacama/infrastructure/config"
)

func testViz() config.Visualization {
	return config.Visualization{
		Layout:    "dot",
		NodeColor: "lightblue",
		EdgeColor: "gray",
		FontSize:  10,
	}
}

func buildTopology() *entities.Topology {
	topo := entities.NewTopology()
	topo.AddNode(entities.Node{Name: "r1", Platform: "junos"})
	topo.AddNode(entities.Node{Name: "r2", Platform: "ios"})
	topo.AddLink(entities.Link{Local: "r1", LocalPort: "ge-0/0/0", Remote: "r2", RemotePort: "Gi0/1", Protocol: entities.ProtocolLLDP})
	topo.AddLink(entities.Link{Local: "r1", Remote: "r3", Protocol: entities.ProtocolBGP})
	topo.AddLink(entities.Link{Local: "r2", LocalPort: "Gi0/2", Remote: "r3", Protocol: entities.ProtocolOSPF})
	return topo
}

func TestDOTRoundTrip(t *testing.T) {
	topo := buildTopology()

	dot, err := WriteDOT(topo, testViz())
	require.NoError(t, err)

	parsed, err := ParseDOT(dot)
	require.NoError(t, err)

	assert.Equal(t, topo.Nodes(), parsed.Nodes())
	assert.Equal(t, topo.Links(), parsed.Links())
}

func TestWriteDOTContainsPrefs(t *testing.T) {
	dot, err := WriteDOT(buildTopology(), testViz())
	require.NoError(t, err)

	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, `layout="dot"`)
	assert.Contains(t, dot, `"lightblue"`)
	assert.Contains(t, dot, `"lldp"`)
}

func TestDOTRoundTripAwkwardNames(t *testing.T) {
	topo := entities.NewTopology()
	topo.AddLink(entities.Link{
		Local:      "core-1.nyc",
		LocalPort:  "xe-0/0/0.100",
		Remote:     "edge 2",
		RemotePort: "Gi1/0/24",
		Protocol:   entities.ProtocolLLDP,
	})

	dot, err := WriteDOT(topo, testViz())
	require.NoError(t, err)

	parsed, err := ParseDOT(dot)
	require.NoError(t, err)
	assert.Equal(t, topo.Links(), parsed.Links())
}

func TestParseDOTRejectsUnknownProtocol(t *testing.T) {
	src := `digraph topology {
	"a" -> "b" [ label="cdp" ];
}`
	_, err := ParseDOT(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown discovery protocol")
}

func TestParseDOTGarbage(t *testing.T) {
	_, err := ParseDOT("this is not dot {{{")
	require.Error(t, err)
}
