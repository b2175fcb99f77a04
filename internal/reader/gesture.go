package reader

import "math"

// SwipeThreshold is the horizontal travel, in CSS pixels, that turns a page.
const SwipeThreshold = 50.0

// Point is a touch position in viewport coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TouchPhase identifies the kind of touch event.
type TouchPhase string

const (
	TouchStart TouchPhase = "start"
	TouchMove  TouchPhase = "move"
	TouchEnd   TouchPhase = "end"
)

// TouchEvent carries the fingers currently on the surface.
type TouchEvent struct {
	Phase   TouchPhase `json:"phase"`
	Touches []Point    `json:"touches"`
}

// GestureState is the tracker's state.
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureSwiping
	GesturePinching
)

func (s GestureState) String() string {
	switch s {
	case GestureSwiping:
		return "swiping"
	case GesturePinching:
		return "pinching"
	default:
		return "idle"
	}
}

// ActionKind is what a gesture asks the viewer to do.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionNext
	ActionPrev
	ActionZoom
)

func (k ActionKind) String() string {
	switch k {
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionZoom:
		return "zoom"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name.
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Action is the outcome of one touch event. Scale is set for ActionZoom.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Scale float64    `json:"scale,omitempty"`
}

// GestureTracker interprets touch events as either a swipe or a pinch, never
// both within one gesture.
type GestureTracker struct {
	state GestureState

	startX, lastX float64

	startDistance float64
	startScale    float64
}

// State returns the current tracker state.
func (g *GestureTracker) State() GestureState {
	return g.state
}

// Reset returns the tracker to idle.
func (g *GestureTracker) Reset() {
	*g = GestureTracker{}
}

// Handle advances the state machine. scale is the viewer's zoom at the time of
// the event; it seeds a pinch.
func (g *GestureTracker) Handle(ev TouchEvent, scale float64) Action {
	switch ev.Phase {
	case TouchStart:
		return g.start(ev.Touches, scale)
	case TouchMove:
		return g.move(ev.Touches, scale)
	case TouchEnd:
		return g.end()
	}
	return Action{}
}

func (g *GestureTracker) start(touches []Point, scale float64) Action {
	switch {
	case len(touches) >= 2:
		g.beginPinch(touches, scale)
	case len(touches) == 1 && g.state == GestureIdle:
		g.state = GestureSwiping
		g.startX = touches[0].X
		g.lastX = touches[0].X
	}
	return Action{}
}

func (g *GestureTracker) move(touches []Point, scale float64) Action {
	switch g.state {
	case GestureSwiping:
		if len(touches) >= 2 {
			g.beginPinch(touches, scale)
			return Action{}
		}
		if len(touches) == 1 {
			g.lastX = touches[0].X
		}
	case GesturePinching:
		if len(touches) < 2 || g.startDistance == 0 {
			return Action{}
		}
		ratio := distance(touches[0], touches[1]) / g.startDistance
		return Action{Kind: ActionZoom, Scale: clampScale(g.startScale * ratio)}
	}
	return Action{}
}

func (g *GestureTracker) end() Action {
	defer g.Reset()

	if g.state != GestureSwiping {
		return Action{}
	}
	travel := g.startX - g.lastX
	switch {
	case travel > SwipeThreshold:
		return Action{Kind: ActionNext}
	case travel < -SwipeThreshold:
		return Action{Kind: ActionPrev}
	}
	return Action{}
}

// beginPinch cancels any swipe in progress.
func (g *GestureTracker) beginPinch(touches []Point, scale float64) {
	g.state = GesturePinching
	g.startX, g.lastX = 0, 0
	g.startDistance = distance(touches[0], touches[1])
	g.startScale = scale
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
