package folio

import (
	"strings"

	"github.com/tanema/gween/ease"
)

// HoverFunc receives hover transitions: entered is true on enter, false on exit.
type HoverFunc func(n *Node, entered bool)

// HoverResult describes the nearest hit for cursor decisions.
type HoverResult struct {
	// Target is the effective hover target (hover visual, else original).
	Target *Node
	// Original is the pickable node under the pointer.
	Original *Node
	// Hitbox is the hitbox that was hit.
	Hitbox *Hitbox
}

// HoverState tracks at most one hovered node and fires enter/exit exactly once
// per transition.
type HoverState struct {
	markers       Markers
	requireMarker bool
	current       *Node
}

// NewHoverState creates a hover state machine. With requireMarker set, only
// targets carrying the hover marker animate.
func NewHoverState(markers Markers, requireMarker bool) *HoverState {
	return &HoverState{markers: markers, requireMarker: requireMarker}
}

// Current returns the hovered node, or nil.
func (h *HoverState) Current() *Node {
	return h.current
}

// eligible reports whether target takes part in enter/exit callbacks.
// Passive targets are still reported in HoverResult for cursor handling.
func (h *HoverState) eligible(hb *Hitbox, target *Node) bool {
	if target == nil || !hb.Animates() {
		return false
	}
	if h.markers.Passive != "" && strings.Contains(target.Name, h.markers.Passive) {
		return false
	}
	if h.requireMarker && !strings.Contains(target.Name, h.markers.Hover) {
		return false
	}
	return true
}

// Apply updates the hovered node from hits (nearest first).
//
// Moving onto an ineligible target exits the previous node and leaves nothing
// hovered, so every enter is always matched by exactly one exit.
func (h *HoverState) Apply(hits []Hit, fn HoverFunc) HoverResult {
	if fn == nil {
		fn = func(*Node, bool) {}
	}
	if len(hits) == 0 {
		h.Reset(fn)
		return HoverResult{}
	}

	hb := hits[0].Hitbox
	target := hb.HoverTarget()
	res := HoverResult{Target: target, Original: hb.Original, Hitbox: hb}

	next := target
	if !h.eligible(hb, target) {
		next = nil
	}
	if next != h.current {
		if h.current != nil {
			fn(h.current, false)
		}
		if next != nil {
			fn(next, true)
		}
		h.current = next
	}
	return res
}

// Reset exits the hovered node, if any.
func (h *HoverState) Reset(fn HoverFunc) {
	if h.current == nil {
		return
	}
	prev := h.current
	h.current = nil
	if fn != nil {
		fn(prev, false)
	}
}

// CursorFor returns the cursor for a hover result: a pointer over visible
// clickable nodes, the default arrow otherwise.
func (h *HoverState) CursorFor(res HoverResult) CursorShape {
	if res.Original == nil || res.Original.Collapsed() {
		return CursorDefault
	}
	if strings.Contains(res.Original.Name, h.markers.Clickable) {
		return CursorPointer
	}
	return CursorDefault
}

const hoverProps = PropPosition | PropScale

// HoverEffects is the default HoverFunc: scale up on enter, return position
// and scale to the base pose on exit. Rotation belongs to props and is never
// touched. Collapsed targets are left alone both ways.
type HoverEffects struct {
	Animator      *Animator
	Scale         float32
	EnterDuration float32
	ExitDuration  float32
}

// Apply implements HoverFunc.
func (e HoverEffects) Apply(n *Node, entered bool) {
	if n == nil || n.Collapsed() {
		return
	}
	e.Animator.KillProps(n, hoverProps)
	if entered {
		e.Animator.Add(TweenScale(n, n.Base.Scale.Mul(e.Scale), e.EnterDuration, ease.OutBack))
		return
	}
	e.Animator.Add(TweenPose(n, n.Base, hoverProps, e.ExitDuration, ease.OutQuad))
}
