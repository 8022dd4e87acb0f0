// Package tree builds the internal hierarchy used by layout, search, and
// rendering from raw input trees.
//
// Input is a [RawNode] tree (typically decoded from JSON produced by an
// upstream content generator). Build normalizes it into a [Hierarchy]: a flat
// arena of nodes addressed by [NodeID], with parent back-references and
// depth values assigned top-down. The arena representation keeps upward and
// downward links as plain integer indices, so a node and its ancestors can
// be held at the same time without aliasing concerns.
//
// The hierarchy is immutable once built. Rebuilding (for a new input tree)
// produces a fresh arena with a new generation ID.
package tree

import (
	"github.com/google/uuid"

	"github.com/sumnatarya/Synapse/pkg/errors"
)

// MaxDepth is the defensive depth bound for input trees. Nodes deeper than
// this are dropped and Build reports ErrCodeTreeTooDeep alongside the
// truncated hierarchy, which is still valid and renderable.
const MaxDepth = 64

// NodeID identifies a node in a Hierarchy arena. IDs are dense indices:
// the root is always 0 and valid IDs range over [0, Hierarchy.Len()).
type NodeID int

// None is the absent-node sentinel, used for the root's parent.
const None NodeID = -1

// RawNode is the external input format: a rooted tree, root-to-leaves.
// Name is required and non-empty at the root; Details carries optional
// display content that the engine passes through untouched.
type RawNode struct {
	Name     string    `json:"name" bson:"name"`
	Details  string    `json:"details,omitempty" bson:"details,omitempty"`
	Children []RawNode `json:"children,omitempty" bson:"children,omitempty"`
}

// Node is one hierarchy entry. Children preserve input order; Parent is a
// back-reference only (the arena owns all nodes).
type Node struct {
	Name     string
	Details  string
	Depth    int // root = 0
	Parent   NodeID
	Children []NodeID
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Hierarchy is the arena-backed internal tree. The zero value is not
// usable - use Build.
type Hierarchy struct {
	nodes      []Node
	maxDepth   int
	generation string
}

// Build normalizes a raw input tree into a Hierarchy.
//
// Returns ErrCodeInvalidTree if root is nil or its name is empty; nothing
// is built in that case. Subtrees below MaxDepth levels are dropped and the
// truncated hierarchy is returned together with an ErrCodeTreeTooDeep error,
// so callers can render the partial tree and still surface the problem.
func Build(root *RawNode) (*Hierarchy, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "input tree is nil")
	}
	if root.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidTree, "root node has no name")
	}

	h := &Hierarchy{generation: uuid.NewString()}
	truncated := h.add(root, 0, None)

	if truncated {
		return h, errors.New(errors.ErrCodeTreeTooDeep,
			"tree exceeds %d levels; deeper nodes were dropped", MaxDepth)
	}
	return h, nil
}

// add appends the subtree rooted at raw, reporting whether any part of it
// was dropped for exceeding MaxDepth. Recursion depth is bounded by the
// same cap.
func (h *Hierarchy) add(raw *RawNode, depth int, parent NodeID) bool {
	id := NodeID(len(h.nodes))
	h.nodes = append(h.nodes, Node{
		Name:    raw.Name,
		Details: raw.Details,
		Depth:   depth,
		Parent:  parent,
	})
	if depth > h.maxDepth {
		h.maxDepth = depth
	}

	truncated := false
	for i := range raw.Children {
		if depth+1 >= MaxDepth {
			truncated = true
			break
		}
		childID := NodeID(len(h.nodes))
		h.nodes[id].Children = append(h.nodes[id].Children, childID)
		if h.add(&raw.Children[i], depth+1, id) {
			truncated = true
		}
	}
	return truncated
}

// Len returns the number of nodes in the hierarchy.
func (h *Hierarchy) Len() int { return len(h.nodes) }

// Root returns the root node ID (always 0 for a built hierarchy).
func (h *Hierarchy) Root() NodeID { return 0 }

// Node returns the node for id. The returned pointer is valid for the
// lifetime of the hierarchy and must not be mutated.
func (h *Hierarchy) Node(id NodeID) *Node { return &h.nodes[id] }

// Valid reports whether id addresses a node in this hierarchy.
func (h *Hierarchy) Valid(id NodeID) bool { return id >= 0 && int(id) < len(h.nodes) }

// MaxDepth returns the depth of the deepest node (root = 0).
func (h *Hierarchy) MaxDepth() int { return h.maxDepth }

// Generation returns the unique ID assigned to this build. Derived state
// (layouts, highlight sets) records the generation it was computed from so
// stale results can be detected after a rebuild.
func (h *Hierarchy) Generation() string { return h.generation }

// Walk visits every node in depth-first pre-order, which matches input
// order. Iteration stops early if fn returns false.
func (h *Hierarchy) Walk(fn func(id NodeID, n *Node) bool) {
	h.walk(0, fn)
}

func (h *Hierarchy) walk(id NodeID, fn func(id NodeID, n *Node) bool) bool {
	n := &h.nodes[id]
	if !fn(id, n) {
		return false
	}
	for _, c := range n.Children {
		if !h.walk(c, fn) {
			return false
		}
	}
	return true
}

// PathToRoot returns the chain of node IDs from id up to and including the
// root. The first element is id itself.
func (h *Hierarchy) PathToRoot(id NodeID) []NodeID {
	path := make([]NodeID, 0, h.nodes[id].Depth+1)
	for cur := id; cur != None; cur = h.nodes[cur].Parent {
		path = append(path, cur)
	}
	return path
}

// Leaves returns the IDs of all leaf nodes in depth-first order.
func (h *Hierarchy) Leaves() []NodeID {
	var leaves []NodeID
	h.Walk(func(id NodeID, n *Node) bool {
		if n.IsLeaf() {
			leaves = append(leaves, id)
		}
		return true
	})
	return leaves
}
