// Package sink renders paint frames to export formats: SVG directly, DOT
// plus in-process Graphviz for node-link output, and PNG/PDF through
// librsvg conversion.
package sink

import (
	"bytes"
	"fmt"

	"github.com/sumnatarya/Synapse/pkg/render"
)

const nodeInteractionCSS = `
    .node { transition: stroke-width 0.2s ease; stroke: #1d2733; stroke-width: 1; }
    .node.hover { stroke-width: 3; }
    .label { font-family: sans-serif; fill: #1d2733; }`

const nodeInteractionJS = `
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => el.classList.add('hover'));
      el.addEventListener('mouseleave', () => el.classList.remove('hover'));
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background  string
	fontSize    float64
	interactive bool
}

// WithBackground sets the background fill (default transparent).
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithFontSize sets the label font size in pixels (default 12).
func WithFontSize(px float64) SVGOption {
	return func(r *svgRenderer) { r.fontSize = px }
}

// WithInteraction embeds hover CSS/JS so nodes respond to the mouse when
// the SVG is opened in a browser.
func WithInteraction() SVGOption {
	return func(r *svgRenderer) { r.interactive = true }
}

// RenderSVG emits the frame as a standalone SVG document. Edges are drawn
// first as cubic connectors, then nodes as circles with labels.
func RenderSVG(f render.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{fontSize: 12}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)

	fmt.Fprintf(&buf, "  <style>%s</style>\n", nodeInteractionCSS)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	for _, e := range f.Edges {
		renderEdge(&buf, e)
	}
	for _, n := range f.Nodes {
		renderNode(&buf, n)
	}
	for _, n := range f.Nodes {
		renderLabel(&buf, n, r.fontSize)
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <script>//<![CDATA[%s//]]></script>\n", nodeInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderEdge draws a horizontal cubic connector between parent and child.
func renderEdge(buf *bytes.Buffer, e render.EdgePaint) {
	midX := (e.X1 + e.X2) / 2
	width := 1.5
	color := "#8896a6"
	if e.OnPath {
		width = 2.5
		color = "#e8c547"
	}
	fmt.Fprintf(buf,
		`  <path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke="%s" stroke-width="%.1f" opacity="%.2f"/>`+"\n",
		e.X1, e.Y1, midX, e.Y1, midX, e.Y2, e.X2, e.Y2, color, width, e.Opacity)
}

func renderNode(buf *bytes.Buffer, n render.NodePaint) {
	class := "node"
	if n.Hovered {
		class = "node hover"
	}
	fmt.Fprintf(buf,
		`  <circle id="node-%d" class="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" opacity="%.2f"/>`+"\n",
		n.ID, class, n.X, n.Y, n.Radius, n.Color, n.Opacity)
}

func renderLabel(buf *bytes.Buffer, n render.NodePaint, fontSize float64) {
	// Leaves label to the right of the circle, internal nodes above it,
	// the usual convention for left-to-right trees.
	x, y, anchor := n.X, n.Y-n.Radius-4, "middle"
	if n.Leaf {
		x, y, anchor = n.X+n.Radius+4, n.Y+fontSize/3, "start"
	}
	weight := ""
	if n.Matched {
		weight = ` font-weight="bold"`
	}
	fmt.Fprintf(buf,
		`  <text class="label" data-node="%d" x="%.1f" y="%.1f" text-anchor="%s" font-size="%.0f" opacity="%.2f"%s>%s</text>`+"\n",
		n.ID, x, y, anchor, fontSize, n.Opacity, weight, escapeXML(n.Label))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
