package folio

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// collapseEpsilon is the scale magnitude below which a node counts as hidden.
// Hidden nodes stay ray-intersectable but are neither clickable nor hoverable.
const collapseEpsilon = 0.00001

// Transform is a position/rotation/scale triple. Rotation is Euler XYZ in
// radians.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// IdentityTransform has zero position and rotation and unit scale.
var IdentityTransform = Transform{Scale: mgl32.Vec3{1, 1, 1}}

// AABB is an axis-aligned bounding box defined by its minimum and maximum
// corners.
type AABB struct {
	Min, Max mgl32.Vec3
}

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))
)

// EmptyAABB returns a box with inverted infinite bounds. Expanding it by any
// point yields a box containing exactly that point.
func EmptyAABB() AABB {
	return AABB{
		Min: mgl32.Vec3{posInf, posInf, posInf},
		Max: mgl32.Vec3{negInf, negInf, negInf},
	}
}

// BoxFromCenter returns the box with the given center and full size.
func BoxFromCenter(center, size mgl32.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// IsEmpty reports whether max < min on any axis.
func (b AABB) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint grows the box to include p.
func (b *AABB) ExpandByPoint(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// ExpandByBox grows the box to include o. Empty boxes are ignored.
func (b *AABB) ExpandByBox(o AABB) {
	if o.IsEmpty() {
		return
	}
	b.ExpandByPoint(o.Min)
	b.ExpandByPoint(o.Max)
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box on each axis.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p mgl32.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]mgl32.Vec3 {
	lo, hi := b.Min, b.Max
	return [8]mgl32.Vec3{
		{lo[0], lo[1], lo[2]},
		{hi[0], lo[1], lo[2]},
		{lo[0], hi[1], lo[2]},
		{hi[0], hi[1], lo[2]},
		{lo[0], lo[1], hi[2]},
		{hi[0], lo[1], hi[2]},
		{lo[0], hi[1], hi[2]},
		{hi[0], hi[1], hi[2]},
	}
}

// Transformed returns the axis-aligned box enclosing b after applying m.
func (b AABB) Transformed(m mgl32.Mat4) AABB {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out.ExpandByPoint(m.Mul4x1(c.Vec4(1)).Vec3())
	}
	return out
}

// Phase is the lifecycle state shared by the gate and the container.
type Phase uint8

const (
	PhaseClosed  Phase = iota // at rest, nothing shown
	PhaseOpening              // open tween in flight
	PhaseOpen                 // fully open
	PhaseClosing              // close tween in flight
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseOpening:
		return "opening"
	case PhaseOpen:
		return "open"
	case PhaseClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventHoverEnter     EventType = iota // pointer entered a hover target
	EventHoverLeave                      // pointer left a hover target
	EventAction                          // an interaction entry was dispatched
	EventOverlayOpened                   // an overlay became active
	EventOverlayClosed                   // an overlay finished closing or was swapped out
	EventContainerPhase                  // the container changed phase
	EventReady                           // all assets loaded and hotspots resolved
)

var eventNames = [...]string{
	EventHoverEnter:     "hover_enter",
	EventHoverLeave:     "hover_leave",
	EventAction:         "action",
	EventOverlayOpened:  "overlay_opened",
	EventOverlayClosed:  "overlay_closed",
	EventContainerPhase: "container_phase",
	EventReady:          "ready",
}

// String returns the snake_case event name.
func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// CursorShape is the pointer cursor requested from the page chrome.
type CursorShape uint8

const (
	CursorDefault CursorShape = iota // arrow
	CursorPointer                    // hand, over a clickable hotspot
)

// MatchPolicy decides which node wins when several satisfy one name pattern.
type MatchPolicy uint8

const (
	MatchLast  MatchPolicy = iota // last node seen during traversal wins
	MatchFirst                    // first node seen during traversal wins
)

// HoverFallback decides what receives hover feedback when a pickable node has
// no separate hover-visual partner.
type HoverFallback uint8

const (
	HoverFallbackSelf HoverFallback = iota // hover the pickable node itself
	HoverFallbackNone                      // no hover feedback at all
)

// Direction steps through the overlay sequence.
type Direction int

const (
	DirectionPrev Direction = -1
	DirectionNext Direction = 1
)

// ParseDirection maps "next" to DirectionNext and anything else to
// DirectionPrev.
func ParseDirection(s string) Direction {
	if s == "next" {
		return DirectionNext
	}
	return DirectionPrev
}
