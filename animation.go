package folio

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const maxTweenFields = 9

// Property is a bitmask of the fields a TweenGroup writes. Animator.KillProps
// uses it so independent owners can animate different fields of one node.
type Property uint8

const (
	PropPosition Property = 1 << iota
	PropRotation
	PropScale
	// PropFields marks groups built by TweenFloats.
	PropFields

	PropTransform = PropPosition | PropRotation | PropScale
	PropAll       = PropTransform | PropFields
)

// TweenGroup animates up to 9 float32 fields of one target simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenRotation, TweenTransform, TweenFloats) and either call Update(dt)
// yourself or hand it to an Animator.
type TweenGroup struct {
	tweens [maxTweenFields]*gween.Tween
	fields [maxTweenFields]*float32
	count  int
	target any
	props  Property
	killed bool
	Done   bool

	// OnComplete fires once when an Animator sees the group finish. It does
	// not fire for groups removed by Animator.Kill.
	OnComplete func()
}

// Target returns the object the group writes to.
func (g *TweenGroup) Target() any {
	return g.target
}

// Props returns the fields the group writes.
func (g *TweenGroup) Props() Property {
	return g.props
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

func (g *TweenGroup) add(field *float32, to, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(*field, to, duration, fn)
	g.fields[g.count] = field
	g.count++
}

func (g *TweenGroup) addVec3(v *mgl32.Vec3, to mgl32.Vec3, duration float32, fn ease.TweenFunc) {
	for i := 0; i < 3; i++ {
		g.add(&v[i], to[i], duration, fn)
	}
}

// TweenPosition animates node.Position to the given target.
func TweenPosition(node *Node, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenPose(node, Transform{Position: to}, PropPosition, duration, fn)
}

// TweenScale animates node.Scale to the given target.
func TweenScale(node *Node, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenPose(node, Transform{Scale: to}, PropScale, duration, fn)
}

// TweenRotation animates node.Rotation (Euler radians) to the given target.
func TweenRotation(node *Node, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenPose(node, Transform{Rotation: to}, PropRotation, duration, fn)
}

// TweenTransform animates position, rotation and scale together.
func TweenTransform(node *Node, to Transform, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenPose(node, to, PropTransform, duration, fn)
}

// TweenPose animates the transform fields selected by props toward to. Fields
// outside props are left alone, as is PropFields.
func TweenPose(node *Node, to Transform, props Property, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node, props: props & PropTransform}
	if props&PropPosition != 0 {
		g.addVec3(&node.Position, to.Position, duration, fn)
	}
	if props&PropRotation != 0 {
		g.addVec3(&node.Rotation, to.Rotation, duration, fn)
	}
	if props&PropScale != 0 {
		g.addVec3(&node.Scale, to.Scale, duration, fn)
	}
	return g
}

// TweenFloats animates arbitrary fields owned by target. fields and to must
// have the same length, at most 9.
func TweenFloats(target any, fields []*float32, to []float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	if len(fields) != len(to) || len(fields) > maxTweenFields {
		panic("folio: TweenFloats field/value mismatch")
	}
	g := &TweenGroup{target: target, props: PropFields}
	for i, f := range fields {
		g.add(f, to[i], duration, fn)
	}
	return g
}

// Animator owns in-flight tween groups. Each field of a target has a single
// writer: callers kill the properties they are about to animate before
// starting a group.
type Animator struct {
	groups   []*TweenGroup
	finished []*TweenGroup
}

// NewAnimator creates an empty animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Add starts g and returns it.
func (a *Animator) Add(g *TweenGroup) *TweenGroup {
	a.groups = append(a.groups, g)
	return g
}

// Kill cancels every group writing to target without firing completion
// callbacks. Fields keep whatever value they last received. Returns the
// number of groups cancelled.
func (a *Animator) Kill(target any) int {
	return a.KillProps(target, PropAll)
}

// KillProps cancels the groups on target that write any of props. A group
// that also writes other fields is cancelled whole.
func (a *Animator) KillProps(target any, props Property) int {
	killed := 0
	kept := a.groups[:0]
	for _, g := range a.groups {
		if g.target == target && g.props&props != 0 {
			g.killed = true
			g.Done = true
			killed++
			continue
		}
		kept = append(kept, g)
	}
	for i := len(kept); i < len(a.groups); i++ {
		a.groups[i] = nil
	}
	a.groups = kept
	// Groups that finished this frame but have not been notified yet.
	for _, g := range a.finished {
		if g.target == target && g.props&props != 0 && !g.killed {
			g.killed = true
			killed++
		}
	}
	return killed
}

// Active reports whether any group is writing to target.
func (a *Animator) Active(target any) bool {
	for _, g := range a.groups {
		if g.target == target {
			return true
		}
	}
	return false
}

// Len returns the number of in-flight groups.
func (a *Animator) Len() int {
	return len(a.groups)
}

// Update advances every group by dt, drops finished ones, and then fires
// their completion callbacks. Callbacks may freely Add or Kill.
func (a *Animator) Update(dt float32) {
	for _, g := range a.groups {
		g.Update(dt)
	}

	a.finished = a.finished[:0]
	kept := a.groups[:0]
	for _, g := range a.groups {
		if g.Done {
			a.finished = append(a.finished, g)
			continue
		}
		kept = append(kept, g)
	}
	for i := len(kept); i < len(a.groups); i++ {
		a.groups[i] = nil
	}
	a.groups = kept

	for i := 0; i < len(a.finished); i++ {
		g := a.finished[i]
		if g.killed || g.OnComplete == nil {
			continue
		}
		g.OnComplete()
	}
	for i := range a.finished {
		a.finished[i] = nil
	}
	a.finished = a.finished[:0]
}
