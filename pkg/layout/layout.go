// Package layout computes tidy-tree positions for a hierarchy.
//
// The layout is left-to-right: a node's horizontal position follows its
// depth, and its vertical position is its cross-axis slot. Positions are
// computed in two passes:
//
//  1. Cross-axis pass (bottom-up): each leaf is assigned the next free slot
//     in depth-first order, and every internal node sits at the mean of its
//     children's slots. Because sibling subtrees occupy disjoint leaf slot
//     intervals, any two nodes at the same depth in different subtrees are
//     separated by at least one slot - subtrees can never overlap.
//  2. Depth-axis pass (top-down): x = depth * depthSpacing, with
//     depthSpacing = width / (maxDepth + 1), so the deepest node always
//     lies within bounds.
//
// Slot positions are rescaled into the bounds height. For fixed
// (hierarchy, bounds) the result is bit-for-bit reproducible: there is no
// randomness and no iteration order beyond input child order.
package layout

import (
	"github.com/sumnatarya/Synapse/pkg/errors"
	"github.com/sumnatarya/Synapse/pkg/tree"
)

// Bounds is the pixel size of the render surface the layout must fit.
type Bounds struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Point is a node position in layout units. X is the depth-axis coordinate
// (grows rightward with depth), Y the cross-axis coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Layout holds computed positions for every node of one hierarchy
// generation. It is immutable once computed; a resize or tree change
// produces a whole new Layout.
type Layout struct {
	Positions  []Point `json:"positions" bson:"positions"` // indexed by tree.NodeID
	Bounds     Bounds  `json:"bounds" bson:"bounds"`
	Generation string  `json:"generation,omitempty" bson:"generation,omitempty"`
}

// Pos returns the position of id.
func (l *Layout) Pos(id tree.NodeID) Point { return l.Positions[id] }

// Options tunes layout geometry. The zero value selects the defaults.
type Options struct {
	// MarginY is the fraction of bounds height kept clear above the first
	// and below the last cross-axis slot. Default 0.05.
	MarginY float64
}

// Compute lays out the hierarchy inside bounds.
//
// Returns ErrCodeLayoutUnavailable when either dimension is zero or
// negative; callers should defer layout until a real surface size is
// observed rather than treating this as fatal.
func Compute(h *tree.Hierarchy, bounds Bounds, opts Options) (*Layout, error) {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, errors.New(errors.ErrCodeLayoutUnavailable,
			"container has zero size (%gx%g)", bounds.Width, bounds.Height)
	}
	if opts.MarginY == 0 {
		opts.MarginY = 0.05
	}

	slots := crossPass(h)
	return depthPass(h, bounds, opts, slots), nil
}

// crossPass assigns cross-axis slot values: leaves take consecutive integer
// slots in depth-first order, internal nodes the mean of their children.
// Post-order guarantees children are placed before their parent.
func crossPass(h *tree.Hierarchy) []float64 {
	slots := make([]float64, h.Len())
	nextLeaf := 0.0

	var place func(id tree.NodeID)
	place = func(id tree.NodeID) {
		n := h.Node(id)
		if n.IsLeaf() {
			slots[id] = nextLeaf
			nextLeaf++
			return
		}
		sum := 0.0
		for _, c := range n.Children {
			place(c)
			sum += slots[c]
		}
		slots[id] = sum / float64(len(n.Children))
	}
	place(h.Root())

	return slots
}

// depthPass converts depths and slots into pixel positions inside bounds.
func depthPass(h *tree.Hierarchy, bounds Bounds, opts Options, slots []float64) *Layout {
	l := &Layout{
		Positions:  make([]Point, h.Len()),
		Bounds:     bounds,
		Generation: h.Generation(),
	}

	depthSpacing := bounds.Width / float64(h.MaxDepth()+1)

	maxSlot := 0.0
	for _, s := range slots {
		if s > maxSlot {
			maxSlot = s
		}
	}

	margin := bounds.Height * opts.MarginY
	usable := bounds.Height - 2*margin
	// Single-leaf trees collapse to the vertical center.
	scale := 0.0
	if maxSlot > 0 {
		scale = usable / maxSlot
	}

	for id := range l.Positions {
		n := h.Node(tree.NodeID(id))
		y := bounds.Height / 2
		if maxSlot > 0 {
			y = margin + slots[id]*scale
		}
		l.Positions[id] = Point{
			X: float64(n.Depth) * depthSpacing,
			Y: y,
		}
	}
	return l
}
