// Package interact translates raw pointer and surface events into viewport
// updates, hover state, and node-selection callbacks.
//
// The dispatcher is the single place that decides what a gesture means: a
// pointer press followed by movement beyond a small threshold is a pan, a
// press-and-release without that movement over a node is a click. Its only
// external side effect is the node-selection callback; everything else
// mutates the viewport or local hover state. Event handling is total - no
// input sequence can fail or panic, including events arriving before a
// scene is attached.
package interact

import (
	"math"

	"github.com/sumnatarya/Synapse/pkg/layout"
	"github.com/sumnatarya/Synapse/pkg/tree"
	"github.com/sumnatarya/Synapse/pkg/viewport"
)

// DragThreshold is the pointer travel in pixels past which a press becomes
// a pan gesture instead of a click.
const DragThreshold = 5.0

// zoomStep is the scale factor applied per wheel tick.
const zoomStep = 1.1

// Callbacks connect the dispatcher to its host. Nil fields are skipped.
type Callbacks struct {
	// OnNodeSelected fires with the clicked node's name. It never fires
	// during a pan gesture.
	OnNodeSelected func(name string)

	// OnRelayout asks the host to recompute layout for new surface bounds
	// and attach the result with SetScene. The viewport is left untouched.
	OnRelayout func(bounds layout.Bounds)

	// OnHoverChanged fires when the hovered node changes; id is tree.None
	// on hover leave.
	OnHoverChanged func(id tree.NodeID)
}

// Dispatcher routes pointer, wheel, and resize events. Not safe for
// concurrent use; drive it from the single event loop.
type Dispatcher struct {
	view      *viewport.Viewport
	callbacks Callbacks

	hier *tree.Hierarchy
	lay  *layout.Layout

	// HitRadius is the pick distance around node centers in layout units,
	// scaled with zoom for hit testing.
	HitRadius float64

	hover tree.NodeID

	pressed        bool
	pressX, pressY float64
	lastX, lastY   float64
	panning        bool
}

// New creates a dispatcher driving the given viewport.
func New(view *viewport.Viewport, callbacks Callbacks) *Dispatcher {
	return &Dispatcher{
		view:      view,
		callbacks: callbacks,
		HitRadius: 10,
		hover:     tree.None,
	}
}

// SetScene attaches the hierarchy and its current layout. Call after every
// rebuild; hover resets since old node IDs are meaningless across
// generations.
func (d *Dispatcher) SetScene(h *tree.Hierarchy, l *layout.Layout) {
	d.hier = h
	d.lay = l
	d.setHover(tree.None)
}

// Hover returns the currently hovered node, or tree.None.
func (d *Dispatcher) Hover() tree.NodeID { return d.hover }

// PointerDown begins a press at screen coordinates (x, y). Any running
// centering transition is cancelled immediately.
func (d *Dispatcher) PointerDown(x, y float64) {
	d.view.CancelTransition()
	d.pressed = true
	d.panning = false
	d.pressX, d.pressY = x, y
	d.lastX, d.lastY = x, y
}

// PointerMove updates hover state and, while pressed, classifies and
// drives the pan gesture.
func (d *Dispatcher) PointerMove(x, y float64) {
	if d.pressed {
		if !d.panning && dist(x, y, d.pressX, d.pressY) > DragThreshold {
			d.panning = true
			d.setHover(tree.None)
		}
		if d.panning {
			d.view.Pan(x-d.lastX, y-d.lastY)
		}
		d.lastX, d.lastY = x, y
		return
	}
	d.setHover(d.HitTest(x, y))
}

// PointerUp ends the press. A release that never crossed the drag
// threshold and lands on a node fires the selection callback with that
// node's name. A release without a matching press is ignored.
func (d *Dispatcher) PointerUp(x, y float64) {
	if !d.pressed {
		return
	}
	wasPan := d.panning
	d.pressed = false
	d.panning = false

	if wasPan {
		return
	}
	id := d.HitTest(x, y)
	if id == tree.None {
		return
	}
	if d.callbacks.OnNodeSelected != nil {
		d.callbacks.OnNodeSelected(d.hier.Node(id).Name)
	}
}

// Wheel applies ticks of zoom at the pointer position. Positive ticks zoom
// in. The pointer location is the pivot: the point under the cursor stays
// fixed.
func (d *Dispatcher) Wheel(ticks, x, y float64) {
	if ticks == 0 {
		return
	}
	d.view.ZoomBy(math.Pow(zoomStep, ticks), x, y)
}

// Resize reports new surface bounds. Layout is recomputed by the host via
// the relayout callback; the viewport deliberately keeps its pan/zoom.
func (d *Dispatcher) Resize(width, height float64) {
	if d.callbacks.OnRelayout != nil {
		d.callbacks.OnRelayout(layout.Bounds{Width: width, Height: height})
	}
}

// Leave clears hover state, e.g. when the pointer exits the surface.
func (d *Dispatcher) Leave() {
	d.setHover(tree.None)
}

// HitTest returns the node whose screen position is nearest to (x, y)
// within the pick radius, or tree.None. Ties go to the earlier node in
// input order.
func (d *Dispatcher) HitTest(x, y float64) tree.NodeID {
	if d.hier == nil || d.lay == nil {
		return tree.None
	}

	vs := d.view.State()
	maxDist := d.HitRadius * vs.Scale
	best := tree.None
	bestDist := math.Inf(1)

	d.hier.Walk(func(id tree.NodeID, _ *tree.Node) bool {
		p := d.lay.Pos(id)
		sx, sy := vs.Apply(p.X, p.Y)
		if dd := dist(x, y, sx, sy); dd <= maxDist && dd < bestDist {
			best = id
			bestDist = dd
		}
		return true
	})
	return best
}

func (d *Dispatcher) setHover(id tree.NodeID) {
	if id == d.hover {
		return
	}
	d.hover = id
	if d.callbacks.OnHoverChanged != nil {
		d.callbacks.OnHoverChanged(id)
	}
}

func dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
