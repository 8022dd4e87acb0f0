// Package highlight computes search-match state over a hierarchy.
//
// State is derived entirely from (hierarchy, query) and recomputed
// wholesale on every query change - it is never patched in place, which
// rules out stale-highlight bugs after a tree rebuild by construction.
//
// Matching is a case-insensitive substring test against node names. Every
// match is connected to the root through a continuous highlighted path:
// the match itself, each of its ancestors, and each parent-child edge on
// the chain are added to the path sets even when the intermediate nodes do
// not match the query themselves.
package highlight

import (
	"strings"

	"github.com/sumnatarya/Synapse/pkg/tree"
)

// NodeSet is a set of hierarchy node IDs.
type NodeSet map[tree.NodeID]struct{}

// Has reports set membership.
func (s NodeSet) Has(id tree.NodeID) bool {
	_, ok := s[id]
	return ok
}

// EdgeID identifies the edge from a node's parent to the node itself, so
// an edge set is just a set of child IDs. The root has no incoming edge.
type EdgeID = tree.NodeID

// State classifies nodes and edges for visual emphasis. The renderer draws
// Matched nodes in the highlight color, PathNodes/PathEdges at full
// strength, and everything else dimmed - State itself only classifies, it
// does not paint.
type State struct {
	Query     string
	Matched   NodeSet
	PathNodes NodeSet
	PathEdges NodeSet

	// Generation records which hierarchy build this state was derived
	// from, so consumers can detect a stale state after a rebuild.
	Generation string
}

// Empty returns the no-highlight state, equivalent to a cleared search box.
func Empty() State {
	return State{Matched: NodeSet{}, PathNodes: NodeSet{}, PathEdges: NodeSet{}}
}

// Active reports whether a non-empty query is in effect.
func (s State) Active() bool { return s.Query != "" }

// Dimmed reports whether id should render at reduced opacity: a query is
// active and the node is on no match's root path.
func (s State) Dimmed(id tree.NodeID) bool {
	return s.Active() && !s.PathNodes.Has(id)
}

// Compute derives the highlight state for query over h. An empty (or
// all-whitespace) query yields the empty state.
func Compute(h *tree.Hierarchy, query string) State {
	s := Empty()
	if h != nil {
		s.Generation = h.Generation()
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if h == nil || q == "" {
		return s
	}
	s.Query = q

	h.Walk(func(id tree.NodeID, n *tree.Node) bool {
		if !strings.Contains(strings.ToLower(n.Name), q) {
			return true
		}
		s.Matched[id] = struct{}{}

		// Walk to the root, collecting nodes and traversed edges. Stop
		// early once a previously-marked ancestor is reached: the rest of
		// its chain is already in the sets.
		for cur := id; cur != tree.None; cur = h.Node(cur).Parent {
			if s.PathNodes.Has(cur) {
				break
			}
			s.PathNodes[cur] = struct{}{}
			if h.Node(cur).Parent != tree.None {
				s.PathEdges[cur] = struct{}{}
			}
		}
		return true
	})

	return s
}
