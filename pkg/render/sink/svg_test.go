package sink

import (
	"context"
	"strings"
	"testing"

	"github.com/sumnatarya/Synapse/pkg/highlight"
	"github.com/sumnatarya/Synapse/pkg/layout"
	"github.com/sumnatarya/Synapse/pkg/render"
	"github.com/sumnatarya/Synapse/pkg/tree"
	"github.com/sumnatarya/Synapse/pkg/viewport"
)

func frame(t *testing.T, query string) (render.Frame, *tree.Hierarchy) {
	t.Helper()
	h, err := tree.Build(&tree.RawNode{
		Name: "Physics",
		Children: []tree.RawNode{
			{Name: "Mechanics & Waves"},
			{Name: "Optics"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l, err := layout.Compute(h, layout.Bounds{Width: 800, Height: 600}, layout.Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	hs := highlight.Compute(h, query)
	return render.Build(h, l, viewport.Identity, hs, tree.None, render.Options{}), h
}

func TestRenderSVG(t *testing.T) {
	f, _ := frame(t, "")
	svg := string(RenderSVG(f))

	if !strings.HasPrefix(svg, "<svg xmlns=") {
		t.Error("missing svg root element")
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("unterminated svg document")
	}
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("circles = %d, want 3", got)
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("edge paths = %d, want 2", got)
	}
	if !strings.Contains(svg, `viewBox="0 0 800.0 600.0"`) {
		t.Error("missing viewBox")
	}
}

func TestRenderSVG_EscapesLabels(t *testing.T) {
	f, _ := frame(t, "")
	svg := string(RenderSVG(f))

	if !strings.Contains(svg, "Mechanics &amp; Waves") {
		t.Error("label ampersand not escaped")
	}
	if strings.Contains(svg, "Mechanics & Waves") {
		t.Error("raw ampersand leaked into SVG")
	}
}

func TestRenderSVG_Options(t *testing.T) {
	f, _ := frame(t, "")

	svg := string(RenderSVG(f, WithBackground("#ffffff"), WithInteraction()))
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("missing background rect")
	}
	if !strings.Contains(svg, "<script>") {
		t.Error("missing interaction script")
	}

	plain := string(RenderSVG(f))
	if strings.Contains(plain, "<script>") {
		t.Error("script emitted without WithInteraction")
	}
}

func TestRenderSVG_DimsOffPathNodes(t *testing.T) {
	f, _ := frame(t, "optics")
	svg := string(RenderSVG(f))

	if !strings.Contains(svg, `opacity="0.25"`) {
		t.Error("expected dimmed elements at reduced opacity")
	}
	if !strings.Contains(svg, render.HighlightColor) {
		t.Error("expected highlight color for the match")
	}
}

func TestToDOT(t *testing.T) {
	_, h := frame(t, "")
	dot := ToDOT(h)

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("missing digraph header")
	}
	if !strings.Contains(dot, `label="Physics"`) {
		t.Error("missing root label")
	}
	if !strings.Contains(dot, "n0 -> n1") || !strings.Contains(dot, "n0 -> n2") {
		t.Errorf("missing edges in DOT output:\n%s", dot)
	}
}

func TestRenderDOTSVG(t *testing.T) {
	_, h := frame(t, "")

	svg, err := RenderDOTSVG(context.Background(), ToDOT(h))
	if err != nil {
		t.Fatalf("RenderDOTSVG: %v", err)
	}
	out := string(svg)
	if !strings.Contains(out, "<svg") {
		t.Error("missing svg root element")
	}
	if !strings.Contains(out, "Physics") {
		t.Error("missing node label in rendered SVG")
	}
}

func TestRenderDOTSVG_InvalidInput(t *testing.T) {
	if _, err := RenderDOTSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error for unterminated DOT")
	}
}
