// Package export serializes a discovered topology to Graphviz DOT and
// renders it to image formats
package export

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"github.com/ssilveira/atacama/domain/entities"
	"github.com/ssilveira/atacama/infrastructure/config"
)

const graphName = "topology"

// WriteDOT serializes the topology to DOT text, applying the configured
// visualization preferences. Port names travel in the tail/head labels so
// a parsed export reconstructs the full link set.
func WriteDOT(topo *entities.Topology, viz config.Visualization) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}
	if viz.Layout != "" {
		if err := g.AddAttr(graphName, "layout", quote(viz.Layout)); err != nil {
			return "", fmt.Errorf("invalid layout %s: %w", viz.Layout, err)
		}
	}

	nodeAttrs := func(n entities.Node) map[string]string {
		attrs := map[string]string{
			"style":    quote("filled"),
			"color":    quote(viz.NodeColor),
			"fontsize": strconv.Itoa(viz.FontSize),
		}
		if n.Platform != "" {
			attrs["comment"] = quote(n.Platform)
		}
		return attrs
	}

	for _, n := range topo.Nodes() {
		if err := g.AddNode(graphName, quote(n.Name), nodeAttrs(n)); err != nil {
			return "", fmt.Errorf("failed to add node %s: %w", n.Name, err)
		}
	}

	for _, l := range topo.Links() {
		attrs := map[string]string{
			"label":    quote(string(l.Protocol)),
			"color":    quote(viz.EdgeColor),
			"fontsize": strconv.Itoa(viz.FontSize),
		}
		if l.LocalPort != "" {
			attrs["taillabel"] = quote(l.LocalPort)
		}
		if l.RemotePort != "" {
			attrs["headlabel"] = quote(l.RemotePort)
		}
		if !l.Protocol.Directed() {
			attrs["dir"] = quote("none")
		}
		if err := g.AddEdge(quote(l.Local), quote(l.Remote), true, attrs); err != nil {
			return "", fmt.Errorf("failed to add edge %s-%s: %w", l.Local, l.Remote, err)
		}
	}

	return g.String(), nil
}

// ParseDOT rebuilds a topology from DOT text produced by WriteDOT
func ParseDOT(src string) (*entities.Topology, error) {
	g, err := gographviz.Read([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse DOT: %w", err)
	}

	topo := entities.NewTopology()
	for _, n := range g.Nodes.Nodes {
		topo.AddNode(entities.Node{
			Name:     unquote(n.Name),
			Platform: unquote(n.Attrs["comment"]),
		})
	}

	for _, e := range g.Edges.Edges {
		protoName := unquote(e.Attrs["label"])
		proto, err := entities.ParseProtocol(protoName)
		if err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.Src, e.Dst, err)
		}
		topo.AddLink(entities.Link{
			Local:      unquote(e.Src),
			LocalPort:  unquote(e.Attrs["taillabel"]),
			Remote:     unquote(e.Dst),
			RemotePort: unquote(e.Attrs["headlabel"]),
			Protocol:   proto,
		})
	}

	return topo, nil
}

func quote(s string) string {
	return strconv.Quote(s)
}

func unquote(s string) string {
	if s == "" {
		return ""
	}
	if out, err := strconv.Unquote(s); err == nil {
		return out
	}
	return s
}
