// Package viewport owns the pan/zoom state mapping layout coordinates to
// screen coordinates.
//
// The transform is affine: translate plus uniform scale. All updates are
// relative (additive pan, multiplicative zoom) and clamped, so no input
// sequence can push the state outside its bounds. The viewport survives
// layout rebuilds - resizing or swapping the tree must not reset the user's
// pan/zoom.
package viewport

// Default scale clamp bounds.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 4.0
)

// State is the affine viewport transform. Screen = layout*Scale + Translate.
type State struct {
	TranslateX float64 `json:"translate_x" bson:"translate_x"`
	TranslateY float64 `json:"translate_y" bson:"translate_y"`
	Scale      float64 `json:"scale" bson:"scale"`
}

// Identity is the resting transform before any interaction.
var Identity = State{Scale: 1.0}

// Apply maps a layout-space point to screen space.
func (s State) Apply(x, y float64) (float64, float64) {
	return x*s.Scale + s.TranslateX, y*s.Scale + s.TranslateY
}

// Invert maps a screen-space point back to layout space.
func (s State) Invert(x, y float64) (float64, float64) {
	return (x - s.TranslateX) / s.Scale, (y - s.TranslateY) / s.Scale
}

// ScaleBounds clamps the zoom range.
type ScaleBounds struct {
	Min float64 `toml:"min" json:"min"`
	Max float64 `toml:"max" json:"max"`
}

// Viewport holds the current transform and its clamp bounds. It is the
// single writer of its State: all mutations go through Pan, ZoomBy, ZoomTo,
// Reset, or the transition Tick.
type Viewport struct {
	state      State
	bounds     ScaleBounds
	transition Transition
}

// New creates a viewport at the identity transform with the given scale
// bounds. Zero bounds select the defaults [0.1, 4.0].
func New(bounds ScaleBounds) *Viewport {
	if bounds.Min == 0 {
		bounds.Min = DefaultMinScale
	}
	if bounds.Max == 0 {
		bounds.Max = DefaultMaxScale
	}
	return &Viewport{state: Identity, bounds: bounds}
}

// State returns the current transform snapshot.
func (v *Viewport) State() State { return v.state }

// Pan shifts the view by (dx, dy) screen pixels. Pan distance is unaffected
// by the current scale. Any in-flight transition is cancelled first.
func (v *Viewport) Pan(dx, dy float64) {
	v.CancelTransition()
	v.state.TranslateX += dx
	v.state.TranslateY += dy
}

// ZoomBy multiplies the scale by factor, keeping the screen-space point
// pivot fixed. The new scale is clamped to the configured bounds; at the
// clamp boundary the effective factor saturates accordingly.
func (v *Viewport) ZoomBy(factor, pivotX, pivotY float64) {
	v.CancelTransition()

	newScale := clamp(v.state.Scale*factor, v.bounds.Min, v.bounds.Max)
	ratio := newScale / v.state.Scale

	// Zoom toward cursor: translate' = pivot - (pivot - translate) * ratio.
	v.state.TranslateX = pivotX - (pivotX-v.state.TranslateX)*ratio
	v.state.TranslateY = pivotY - (pivotY-v.state.TranslateY)*ratio
	v.state.Scale = newScale
}

// ZoomTo replaces the transform wholesale, clamping the scale.
func (v *Viewport) ZoomTo(s State) {
	v.CancelTransition()
	s.Scale = clamp(s.Scale, v.bounds.Min, v.bounds.Max)
	v.state = s
}

// Reset restores the given transform, clamping the scale. Unlike ZoomTo it
// is intended for programmatic resets (initial centering, "r" key).
func (v *Viewport) Reset(s State) {
	v.CancelTransition()
	s.Scale = clamp(s.Scale, v.bounds.Min, v.bounds.Max)
	v.state = s
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
