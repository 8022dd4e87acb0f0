package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/sumnatarya/Synapse/pkg/tree"
)

// ToDOT converts a hierarchy to Graphviz DOT format for node-link export.
// The layout engine is bypassed here: Graphviz computes its own positions,
// which is useful for very wide trees where a quick structural overview
// matters more than the interactive geometry.
func ToDOT(h *tree.Hierarchy) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	h.Walk(func(id tree.NodeID, n *tree.Node) bool {
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", id, n.Name)
		return true
	})

	buf.WriteString("\n")
	h.Walk(func(id tree.NodeID, n *tree.Node) bool {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", id, c)
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph to SVG using in-process Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
