package highlight

import (
	"testing"

	"github.com/sumnatarya/Synapse/pkg/tree"
)

func physics(t *testing.T) *tree.Hierarchy {
	t.Helper()
	h, err := tree.Build(&tree.RawNode{
		Name: "Physics",
		Children: []tree.RawNode{
			{Name: "Mechanics", Children: []tree.RawNode{
				{Name: "Kinematics"},
			}},
			{Name: "Optics"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return h
}

func byName(t *testing.T, h *tree.Hierarchy, name string) tree.NodeID {
	t.Helper()
	found := tree.None
	h.Walk(func(id tree.NodeID, n *tree.Node) bool {
		if n.Name == name {
			found = id
			return false
		}
		return true
	})
	if found == tree.None {
		t.Fatalf("node %q not found", name)
	}
	return found
}

func TestCompute_EmptyQuery(t *testing.T) {
	h := physics(t)

	for _, q := range []string{"", "   ", "\t"} {
		s := Compute(h, q)
		if s.Active() {
			t.Errorf("query %q should be inactive", q)
		}
		if len(s.Matched) != 0 || len(s.PathNodes) != 0 || len(s.PathEdges) != 0 {
			t.Errorf("query %q produced non-empty sets", q)
		}
		if s.Dimmed(h.Root()) {
			t.Errorf("nothing should be dimmed with query %q", q)
		}
	}
}

func TestCompute_MatchHighlightsRootPath(t *testing.T) {
	h := physics(t)
	s := Compute(h, "kine")

	kinematics := byName(t, h, "Kinematics")
	mechanics := byName(t, h, "Mechanics")
	root := byName(t, h, "Physics")
	optics := byName(t, h, "Optics")

	if len(s.Matched) != 1 || !s.Matched.Has(kinematics) {
		t.Errorf("Matched = %v, want exactly {Kinematics}", s.Matched)
	}

	for _, id := range []tree.NodeID{kinematics, mechanics, root} {
		if !s.PathNodes.Has(id) {
			t.Errorf("PathNodes missing %q", h.Node(id).Name)
		}
	}
	if s.PathNodes.Has(optics) {
		t.Error("Optics should not be on the highlighted path")
	}
	if !s.Dimmed(optics) {
		t.Error("Optics should be dimmed")
	}
	if s.Dimmed(mechanics) {
		t.Error("Mechanics is on a match path and must not be dimmed")
	}

	// Both edges of the chain are present; the root has no incoming edge.
	if !s.PathEdges.Has(kinematics) || !s.PathEdges.Has(mechanics) {
		t.Errorf("PathEdges = %v, want edges into Kinematics and Mechanics", s.PathEdges)
	}
	if s.PathEdges.Has(root) {
		t.Error("root must not appear in PathEdges")
	}
}

func TestCompute_CaseInsensitive(t *testing.T) {
	h := physics(t)

	for _, q := range []string{"OPTICS", "optics", "OpTiCs", "  optics  "} {
		s := Compute(h, q)
		if !s.Matched.Has(byName(t, h, "Optics")) {
			t.Errorf("query %q should match Optics", q)
		}
	}
}

func TestCompute_EveryAncestorOnPath(t *testing.T) {
	// Deep chain: match at the bottom must highlight the entire spine.
	raw := &tree.RawNode{Name: "a", Children: []tree.RawNode{
		{Name: "b", Children: []tree.RawNode{
			{Name: "c", Children: []tree.RawNode{
				{Name: "target"},
			}},
		}},
	}}
	h, err := tree.Build(raw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	s := Compute(h, "target")
	for _, id := range h.PathToRoot(byName(t, h, "target")) {
		if !s.PathNodes.Has(id) {
			t.Errorf("ancestor %q missing from path", h.Node(id).Name)
		}
		if id != h.Root() && !s.PathEdges.Has(id) {
			t.Errorf("edge into %q missing from path", h.Node(id).Name)
		}
	}
}

func TestCompute_MultipleMatchesShareAncestors(t *testing.T) {
	h := physics(t)
	// "ics" matches Physics, Mechanics, Kinematics, and Optics.
	s := Compute(h, "ics")

	if len(s.Matched) != 4 {
		t.Errorf("Matched = %d nodes, want 4", len(s.Matched))
	}
	if len(s.PathNodes) != 4 {
		t.Errorf("PathNodes = %d nodes, want all 4", len(s.PathNodes))
	}
	for id := range s.Matched {
		if s.Dimmed(id) {
			t.Errorf("matched node %q dimmed", h.Node(id).Name)
		}
	}
}

func TestCompute_NoMatches(t *testing.T) {
	h := physics(t)
	s := Compute(h, "zzz")

	if len(s.Matched) != 0 || len(s.PathNodes) != 0 {
		t.Errorf("Matched/PathNodes non-empty for no-hit query")
	}
	// Everything dims under an active query with no hits.
	if !s.Dimmed(h.Root()) {
		t.Error("root should be dimmed when the query matches nothing")
	}
}

func TestCompute_NilHierarchy(t *testing.T) {
	s := Compute(nil, "x")
	if s.Active() || len(s.Matched) != 0 {
		t.Errorf("nil hierarchy should yield the empty state, got %+v", s)
	}
}

func TestCompute_TracksGeneration(t *testing.T) {
	h := physics(t)
	s := Compute(h, "opt")
	if s.Generation != h.Generation() {
		t.Errorf("Generation = %q, want %q", s.Generation, h.Generation())
	}
}
