package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/sumnatarya/Synapse/pkg/cache"
	"github.com/sumnatarya/Synapse/pkg/tree"
)

func testTree() *tree.RawNode {
	return &tree.RawNode{
		Name: "Physics",
		Children: []tree.RawNode{
			{Name: "Mechanics", Children: []tree.RawNode{
				{Name: "Kinematics"},
				{Name: "Dynamics"},
			}},
			{Name: "Optics"},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"svg", "png", "pdf", "dot", "json"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", f, err)
		}
	}
	if err := ValidateFormat("gif"); err == nil {
		t.Error("ValidateFormat(gif) should fail")
	}
	if err := ValidateFormats([]string{"svg", "bmp"}); err == nil {
		t.Error("ValidateFormats with bad entry should fail")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Tree: testTree()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("bounds = %gx%g, want defaults", opts.Width, opts.Height)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("formats = %v, want [svg]", opts.Formats)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("png scale = %g, want %g", opts.PNGScale, DefaultPNGScale)
	}
}

func TestOptionsRequireInput(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("expected error when neither input nor tree is set")
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Tree:    testTree(),
		Formats: []string{"svg", "dot", "json"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.NodeCount != 5 {
		t.Errorf("node count = %d, want 5", result.Stats.NodeCount)
	}
	if result.Stats.MaxDepth != 2 {
		t.Errorf("max depth = %d, want 2", result.Stats.MaxDepth)
	}
	if result.Truncated {
		t.Error("shallow tree should not be truncated")
	}
	if result.TreeHash == "" {
		t.Error("expected tree hash")
	}

	svg := string(result.Artifacts["svg"])
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "Kinematics") {
		t.Error("svg artifact missing expected content")
	}
	dot := string(result.Artifacts["dot"])
	if !strings.Contains(dot, "digraph") {
		t.Error("dot artifact missing digraph header")
	}
	if !strings.Contains(string(result.Artifacts["json"]), "\"nodes\"") {
		t.Error("json artifact missing nodes field")
	}
}

func TestExecuteWithQuery(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Tree:    testTree(),
		Formats: []string{"svg"},
		Query:   "kine",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// Non-matching branches render dimmed.
	if !strings.Contains(string(result.Artifacts["svg"]), `opacity="0.25"`) {
		t.Error("expected dimmed elements in highlighted svg")
	}
}

func TestExecuteTruncatesDeepTree(t *testing.T) {
	root := &tree.RawNode{Name: "L0"}
	cur := root
	for i := 1; i < tree.MaxDepth+10; i++ {
		cur.Children = []tree.RawNode{{Name: "L"}}
		cur = &cur.Children[0]
	}

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{Tree: root})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Truncated {
		t.Error("expected truncation for deep tree")
	}
	if result.Stats.NodeCount != tree.MaxDepth {
		t.Errorf("node count = %d, want %d", result.Stats.NodeCount, tree.MaxDepth)
	}
}

func TestLayoutCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()
	opts := Options{Tree: testTree(), Formats: []string{"svg"}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should not hit cache")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit artifact cache")
	}
	if len(second.Layout.Positions) != len(first.Layout.Positions) {
		t.Error("cached layout position count mismatch")
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, Options{Tree: testTree()}); err != nil {
		t.Fatalf("prime Execute: %v", err)
	}
	result, err := runner.Execute(ctx, Options{Tree: testTree(), Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("refresh should bypass cache")
	}
}

func TestExecuteRejectsBadFormat(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(context.Background(), Options{
		Tree:    testTree(),
		Formats: []string{"tiff"},
	}); err == nil {
		t.Error("expected error for unsupported format")
	}
}
