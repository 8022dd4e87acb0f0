package viewport

import "time"

// DefaultTransitionDuration is the initial centering transition length.
const DefaultTransitionDuration = 750 * time.Millisecond

// TransitionPhase enumerates the centering-transition states.
type TransitionPhase int

const (
	// PhaseIdle means no transition is running.
	PhaseIdle TransitionPhase = iota
	// PhaseAnimating means a transition is interpolating toward its target.
	PhaseAnimating
	// PhaseCancelled means user input interrupted the transition; the
	// transform at the moment of cancellation is the new resting state.
	PhaseCancelled
)

// Transition is the one time-based process in the engine: an eased
// interpolation from a start transform to an end transform, advanced by an
// external frame clock via Tick. It is a small explicit state machine so
// cancellation semantics stay obvious: any user pan/zoom collapses it to
// idle immediately, freezing the current interpolated value.
type Transition struct {
	phase    TransitionPhase
	from, to State
	start    time.Time
	duration time.Duration
}

// Phase returns the current transition phase.
func (t *Transition) Phase() TransitionPhase { return t.phase }

// Active reports whether the transition is still animating.
func (t *Transition) Active() bool { return t.phase == PhaseAnimating }

// StartTransition begins animating from the current transform to target
// over the given duration, starting at now. A non-positive duration jumps
// straight to the target.
func (v *Viewport) StartTransition(target State, duration time.Duration, now time.Time) {
	target.Scale = clamp(target.Scale, v.bounds.Min, v.bounds.Max)
	if duration <= 0 {
		v.state = target
		v.transition = Transition{phase: PhaseIdle}
		return
	}
	v.transition = Transition{
		phase:    PhaseAnimating,
		from:     v.state,
		to:       target,
		start:    now,
		duration: duration,
	}
}

// Tick advances the running transition to the time now and reports whether
// the viewport state changed. Once the duration elapses the transition
// settles on its target and returns to idle.
func (v *Viewport) Tick(now time.Time) bool {
	if v.transition.phase != PhaseAnimating {
		return false
	}

	elapsed := now.Sub(v.transition.start)
	if elapsed >= v.transition.duration {
		v.state = v.transition.to
		v.transition.phase = PhaseIdle
		return true
	}

	p := easeInOutCubic(float64(elapsed) / float64(v.transition.duration))
	from, to := v.transition.from, v.transition.to
	v.state = State{
		TranslateX: lerp(from.TranslateX, to.TranslateX, p),
		TranslateY: lerp(from.TranslateY, to.TranslateY, p),
		Scale:      lerp(from.Scale, to.Scale, p),
	}
	return true
}

// CancelTransition abandons a running transition, leaving the current
// interpolated transform as the resting state.
func (v *Viewport) CancelTransition() {
	if v.transition.phase == PhaseAnimating {
		v.transition.phase = PhaseCancelled
	}
}

// TransitionActive reports whether a centering transition is in flight.
func (v *Viewport) TransitionActive() bool { return v.transition.Active() }

func lerp(a, b, p float64) float64 { return a + (b-a)*p }

// easeInOutCubic maps linear progress to an ease-in-out curve.
func easeInOutCubic(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := 2*p - 2
	return 1 + q*q*q/2
}
