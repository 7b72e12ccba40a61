package entities

import (
	"fmt"
	"sort"
	"strings"
)

// Protocol identifies the discovery source of a topology link
type Protocol string

const (
	ProtocolLLDP Protocol = "lldp"
	ProtocolOSPF Protocol = "ospf"
	ProtocolBGP  Protocol = "bgp"
	ProtocolISIS Protocol = "isis"
)

// ParseProtocol validates and normalizes a protocol name
func ParseProtocol(name string) (Protocol, error) {
	switch Protocol(strings.ToLower(strings.TrimSpace(name))) {
	case ProtocolLLDP:
		return ProtocolLLDP, nil
	case ProtocolOSPF:
		return ProtocolOSPF, nil
	case ProtocolBGP:
		return ProtocolBGP, nil
	case ProtocolISIS:
		return ProtocolISIS, nil
	default:
		return "", fmt.Errorf("unknown discovery protocol: %s", name)
	}
}

// Directed reports whether adjacencies found via this protocol carry
// direction. LLDP neighborships are physical and undirected; routing
// peerings are kept directed as reported.
func (p Protocol) Directed() bool {
	return p != ProtocolLLDP
}

// Node is a device vertex in the topology, keyed by name
type Node struct {
	Name     string
	Platform string
}

// Link is one discovered adjacency between two nodes
type Link struct {
	Local      string
	LocalPort  string
	Remote     string
	RemotePort string
	Protocol   Protocol
}

func (l Link) normalized() Link {
	if l.Protocol.Directed() {
		return l
	}
	if l.Local <= l.Remote {
		return l
	}
	return Link{
		Local:      l.Remote,
		LocalPort:  l.RemotePort,
		Remote:     l.Local,
		RemotePort: l.LocalPort,
		Protocol:   l.Protocol,
	}
}

func (l Link) key() string {
	n := l.normalized()
	return strings.Join([]string{n.Local, n.LocalPort, n.Remote, n.RemotePort, string(n.Protocol)}, "|")
}

// Topology accumulates nodes and deduplicated links merged from every
// device's discovery responses
type Topology struct {
	nodes map[string]Node
	links map[string]Link
}

// NewTopology creates an empty topology
func NewTopology() *Topology {
	return &Topology{
		nodes: make(map[string]Node),
		links: make(map[string]Link),
	}
}

// AddNode registers a device vertex. A later node with a platform fills
// in a placeholder added earlier from the far side of a link.
func (t *Topology) AddNode(n Node) {
	if n.Name == "" {
		return
	}
	existing, ok := t.nodes[n.Name]
	if ok && existing.Platform != "" {
		return
	}
	if ok && n.Platform == "" {
		return
	}
	t.nodes[n.Name] = n
}

// AddLink records an adjacency, creating endpoint nodes as needed.
// Duplicate links (including LLDP links reported from both ends) collapse
// to a single entry.
func (t *Topology) AddLink(l Link) {
	if l.Local == "" || l.Remote == "" {
		return
	}
	t.AddNode(Node{Name: l.Local})
	t.AddNode(Node{Name: l.Remote})
	t.links[l.key()] = l.normalized()
}

// Nodes returns all vertices sorted by name
func (t *Topology) Nodes() []Node {
	out := make([]Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Links returns all adjacencies in a stable order
func (t *Topology) Links() []Link {
	keys := make([]string, 0, len(t.links))
	for k := range t.links {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Link, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.links[k])
	}
	return out
}

// NodeCount returns the number of vertices
func (t *Topology) NodeCount() int { return len(t.nodes) }

// LinkCount returns the number of deduplicated adjacencies
func (t *Topology) LinkCount() int { return len(t.links) }
