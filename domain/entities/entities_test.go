package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Protocol
		expectErr bool
	}{
		{name: "lldp lowercase", input: "lldp", expected: ProtocolLLDP},
		{name: "ospf mixed case", input: "OSPF", expected: ProtocolOSPF},
		{name: "bgp with spaces", input: " bgp ", expected: ProtocolBGP},
		{name: "isis", input: "isis", expected: ProtocolISIS},
		{name: "unknown", input: "cdp", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProtocol(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCredentialsRedaction(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "hunter2"}

	assert.Equal(t, "admin:***", creds.String())
	assert.False(t, strings.Contains(creds.String(), "hunter2"))

	text, err := creds.MarshalText()
	require.NoError(t, err)
	assert.NotContains(t, string(text), "hunter2")
}

func TestDeviceMatchesSite(t *testing.T) {
	dev := Device{Name: "NYC-core-01", Host: "10.0.0.1"}

	assert.True(t, dev.MatchesSite(""))
	assert.True(t, dev.MatchesSite("nyc"))
	assert.True(t, dev.MatchesSite("CORE"))
	assert.False(t, dev.MatchesSite("lax"))
}

func TestDeviceAddr(t *testing.T) {
	dev := Device{Name: "r1", Host: "10.0.0.1"}
	assert.Equal(t, "10.0.0.1:22", dev.Addr("22"))

	dev.Port = 2222
	assert.Equal(t, "10.0.0.1:2222", dev.Addr("22"))
}

func TestTopologyDedupesLLDPBothEnds(t *testing.T) {
	topo := NewTopology()

	// The same physical link reported from both sides
	topo.AddLink(Link{Local: "r1", LocalPort: "ge-0/0/0", Remote: "r2", RemotePort: "ge-0/0/1", Protocol: ProtocolLLDP})
	topo.AddLink(Link{Local: "r2", LocalPort: "ge-0/0/1", Remote: "r1", RemotePort: "ge-0/0/0", Protocol: ProtocolLLDP})

	assert.Equal(t, 2, topo.NodeCount())
	assert.Equal(t, 1, topo.LinkCount())
}

func TestTopologyKeepsDirectedPeerings(t *testing.T) {
	topo := NewTopology()

	topo.AddLink(Link{Local: "r1", Remote: "r2", Protocol: ProtocolBGP})
	topo.AddLink(Link{Local: "r2", Remote: "r1", Protocol: ProtocolBGP})

	assert.Equal(t, 2, topo.LinkCount())
}

func TestTopologyNodePlatformBackfill(t *testing.T) {
	topo := NewTopology()

	// Far end of a link creates a placeholder first
	topo.AddLink(Link{Local: "r1", Remote: "r2", Protocol: ProtocolOSPF})
	topo.AddNode(Node{Name: "r2", Platform: "junos"})

	var found bool
	for _, n := range topo.Nodes() {
		if n.Name == "r2" {
			found = true
			assert.Equal(t, "junos", n.Platform)
		}
	}
	require.True(t, found)
}

func TestTopologyStableOrder(t *testing.T) {
	topo := NewTopology()
	topo.AddLink(Link{Local: "r3", Remote: "r1", Protocol: ProtocolOSPF})
	topo.AddLink(Link{Local: "r2", Remote: "r1", Protocol: ProtocolOSPF})

	nodes := topo.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "r1", nodes[0].Name)
	assert.Equal(t, "r2", nodes[1].Name)
	assert.Equal(t, "r3", nodes[2].Name)
}
