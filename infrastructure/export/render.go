package export

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"
)

// Render writes the topology in the requested output format. DOT output
// is written verbatim; PNG and SVG are laid out and rasterized by
// graphviz.
func Render(ctx context.Context, dotSrc, format, path string) error {
	if format == "dot" {
		if err := os.WriteFile(path, []byte(dotSrc), 0o644); err != nil {
			return fmt.Errorf("failed to write DOT file %s: %w", path, err)
		}
		return nil
	}

	var gvFormat graphviz.Format
	switch format {
	case "png":
		gvFormat = graphviz.PNG
	case "svg":
		gvFormat = graphviz.SVG
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	g, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize graphviz: %w", err)
	}
	defer g.Close()

	graph, err := graphviz.ParseBytes([]byte(dotSrc))
	if err != nil {
		return fmt.Errorf("failed to load DOT source: %w", err)
	}
	defer func() {
		_ = graph.Close()
	}()

	if err := g.RenderFilename(ctx, graph, gvFormat, path); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}
