// Package render turns layout, viewport, and highlight state into paint
// commands.
//
// Build is a pure function of its four inputs: it holds no state of its
// own, so a full repaint from scratch is always correct. Sinks (the TUI
// canvas, the SVG emitter) consume the resulting Frame and are free to
// paint incrementally as long as the result matches a full repaint.
package render

import (
	"github.com/sumnatarya/Synapse/pkg/highlight"
	"github.com/sumnatarya/Synapse/pkg/layout"
	"github.com/sumnatarya/Synapse/pkg/tree"
	"github.com/sumnatarya/Synapse/pkg/viewport"
)

// DefaultPalette colors nodes by depth, cycling when the tree is deeper
// than the palette.
var DefaultPalette = []string{
	"#4f86c6", // blue
	"#6fae7b", // green
	"#c98a4b", // amber
	"#b56576", // rose
	"#8a6fae", // violet
	"#4fa6a6", // teal
}

// HighlightColor overrides the depth palette for matched nodes.
const HighlightColor = "#e8c547"

// DimmedOpacity is the opacity applied to nodes and edges off every match
// path while a search is active.
const DimmedOpacity = 0.25

// NodePaint is one node paint command, in screen coordinates.
type NodePaint struct {
	ID      tree.NodeID `json:"id"`
	Label   string      `json:"label"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Radius  float64     `json:"radius"`
	Color   string      `json:"color"`   // fill, already resolved from depth/highlight
	Opacity float64     `json:"opacity"` // 1.0, or DimmedOpacity
	Matched bool        `json:"matched"`
	OnPath  bool        `json:"on_path"`
	Hovered bool        `json:"hovered"`
	Leaf    bool        `json:"leaf"`
}

// EdgePaint is one parent-child connector, in screen coordinates.
type EdgePaint struct {
	Child   tree.NodeID `json:"child"` // edge identity: the child endpoint
	X1      float64     `json:"x1"`
	Y1      float64     `json:"y1"`
	X2      float64     `json:"x2"`
	Y2      float64     `json:"y2"`
	Opacity float64     `json:"opacity"`
	OnPath  bool        `json:"on_path"`
}

// Frame is a complete description of one repaint: edges first, then nodes,
// both in draw order.
type Frame struct {
	Edges  []EdgePaint `json:"edges"`
	Nodes  []NodePaint `json:"nodes"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
}

// Options tunes frame geometry and colors.
type Options struct {
	Palette    []string // cyclic depth palette; nil selects DefaultPalette
	NodeRadius float64  // base radius in layout units; 0 selects 6
}

// Build produces the frame for one repaint. hover may be tree.None.
// All inputs are treated as read-only snapshots.
func Build(h *tree.Hierarchy, l *layout.Layout, vs viewport.State, hs highlight.State, hover tree.NodeID, opts Options) Frame {
	palette := opts.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	radius := opts.NodeRadius
	if radius == 0 {
		radius = 6
	}

	f := Frame{
		Edges:  make([]EdgePaint, 0, h.Len()-1),
		Nodes:  make([]NodePaint, 0, h.Len()),
		Width:  l.Bounds.Width,
		Height: l.Bounds.Height,
	}

	h.Walk(func(id tree.NodeID, n *tree.Node) bool {
		x, y := vs.Apply(l.Pos(id).X, l.Pos(id).Y)

		if n.Parent != tree.None {
			px, py := vs.Apply(l.Pos(n.Parent).X, l.Pos(n.Parent).Y)
			e := EdgePaint{
				Child: id, X1: px, Y1: py, X2: x, Y2: y,
				Opacity: 1.0,
				OnPath:  hs.PathEdges.Has(id),
			}
			if hs.Active() && !e.OnPath {
				e.Opacity = DimmedOpacity
			}
			f.Edges = append(f.Edges, e)
		}

		p := NodePaint{
			ID:      id,
			Label:   n.Name,
			X:       x,
			Y:       y,
			Radius:  radius * vs.Scale,
			Color:   palette[n.Depth%len(palette)],
			Opacity: 1.0,
			Matched: hs.Matched.Has(id),
			OnPath:  hs.PathNodes.Has(id),
			Hovered: id == hover,
			Leaf:    n.IsLeaf(),
		}
		if p.Matched {
			p.Color = HighlightColor
		}
		if hs.Dimmed(id) {
			p.Opacity = DimmedOpacity
		}
		f.Nodes = append(f.Nodes, p)
		return true
	})

	return f
}
