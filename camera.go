package folio

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraPreset is a named camera pose: where the eye sits and what it orbits.
type CameraPreset struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
}

// focusAnim holds active focus tweens for position (0-2) and target (3-5).
type focusAnim struct {
	tweens [6]*gween.Tween
	done   [6]bool
}

// Camera is a perspective camera orbiting Target.
type Camera struct {
	// Position is the world-space eye position.
	Position mgl32.Vec3
	// Target is the orbit center the camera looks at.
	Target mgl32.Vec3
	// Up is the world up vector.
	Up mgl32.Vec3

	// FOV is the vertical field of view in degrees.
	FOV       float32
	Near, Far float32

	// Width and Height are the viewport size in pixels.
	Width, Height float32

	focus *focusAnim
}

// NewCamera creates a camera with a 45 degree field of view.
func NewCamera(width, height float32) *Camera {
	return &Camera{
		Up:     mgl32.Vec3{0, 1, 0},
		FOV:    45,
		Near:   0.1,
		Far:    1000,
		Width:  width,
		Height: height,
	}
}

// Aspect returns width/height, or 1 for an empty viewport.
func (c *Camera) Aspect() float32 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	return c.Width / c.Height
}

// Resize updates the viewport, which changes the projection aspect.
func (c *Camera) Resize(width, height float32) {
	c.Width = width
	c.Height = height
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
}

// Ray returns the world-space ray from the eye through the given normalized
// device coordinates. dir is normalized.
func (c *Camera) Ray(ndcX, ndcY float32) Ray {
	inv := c.Projection().Mul4(c.View()).Inv()
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	if w := far.W(); w != 0 {
		far = far.Mul(1 / w)
	}
	dir := far.Vec3().Sub(c.Position)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: c.Position, Direction: dir}
}

// WorldToScreen projects a world point to pixel coordinates (origin top-left).
// ok is false for points behind the eye.
func (c *Camera) WorldToScreen(p mgl32.Vec3) (x, y float32, ok bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(p.Vec4(1))
	if clip.W() < c.Near {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = (ndc.X()*0.5 + 0.5) * c.Width
	y = (1 - (ndc.Y()*0.5 + 0.5)) * c.Height
	return x, y, true
}

// Apply snaps the camera to a preset, cancelling any focus animation.
func (c *Camera) Apply(p CameraPreset) {
	c.focus = nil
	c.Position = p.Position
	c.Target = p.Target
}

// FocusOn animates the camera to the preset over duration seconds.
func (c *Camera) FocusOn(p CameraPreset, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		c.Apply(p)
		return
	}
	f := &focusAnim{}
	for i := 0; i < 3; i++ {
		f.tweens[i] = gween.New(c.Position[i], p.Position[i], duration, easeFn)
		f.tweens[3+i] = gween.New(c.Target[i], p.Target[i], duration, easeFn)
	}
	c.focus = f
}

// Focusing reports whether a focus animation is in flight.
func (c *Camera) Focusing() bool {
	return c.focus != nil
}

// CancelFocus stops an in-flight focus animation where it is.
func (c *Camera) CancelFocus() {
	c.focus = nil
}

// update advances the focus animation. Called from Scene.Update.
func (c *Camera) update(dt float32) {
	f := c.focus
	if f == nil {
		return
	}
	all := true
	for i := 0; i < 6; i++ {
		if f.done[i] {
			continue
		}
		val, done := f.tweens[i].Update(dt)
		if i < 3 {
			c.Position[i] = val
		} else {
			c.Target[i-3] = val
		}
		f.done[i] = done
		if !done {
			all = false
		}
	}
	if all {
		c.focus = nil
	}
}

// --- Orbit controls ---

const polarEpsilon = 0.000001

// OrbitControls rotates and dollies a Camera around its Target with damped
// inertia. Pending deltas decay by Damping each update.
type OrbitControls struct {
	// RotateSpeed scales pixel drag deltas into radians.
	RotateSpeed float32
	// ZoomSpeed scales wheel deltas into a dolly factor.
	ZoomSpeed float32
	// Damping is the fraction of pending motion applied per update (0, 1].
	Damping float32

	MinDistance, MaxDistance float32
	// MinPolar and MaxPolar clamp the angle from the up axis, in radians.
	MinPolar, MaxPolar float32

	deltaTheta float32
	deltaPhi   float32
	scale      float32
}

// NewOrbitControls returns controls with the given damping factor.
func NewOrbitControls(damping float32) *OrbitControls {
	return &OrbitControls{
		RotateSpeed: 0.005,
		ZoomSpeed:   0.1,
		Damping:     damping,
		MinDistance: 0.5,
		MaxDistance: 100,
		MinPolar:    0,
		MaxPolar:    math.Pi,
		scale:       1,
	}
}

// Rotate queues an orbit by a pointer drag of (dx, dy) pixels.
func (o *OrbitControls) Rotate(dx, dy float32) {
	o.deltaTheta -= dx * o.RotateSpeed
	o.deltaPhi -= dy * o.RotateSpeed
}

// Zoom queues a dolly. Positive deltas move the camera closer.
func (o *OrbitControls) Zoom(delta float32) {
	if delta > 0 {
		o.scale /= 1 + delta*o.ZoomSpeed
	} else if delta < 0 {
		o.scale *= 1 - delta*o.ZoomSpeed
	}
}

// Idle reports whether no motion is pending.
func (o *OrbitControls) Idle() bool {
	return abs32(o.deltaTheta) < polarEpsilon && abs32(o.deltaPhi) < polarEpsilon && o.scale == 1
}

// Update applies pending motion to cam. Returns true if the camera moved.
func (o *OrbitControls) Update(cam *Camera) bool {
	if o.Idle() {
		return false
	}
	offset := cam.Position.Sub(cam.Target)
	radius := float64(offset.Len())
	if radius == 0 {
		o.deltaTheta, o.deltaPhi, o.scale = 0, 0, 1
		return false
	}
	theta := math.Atan2(float64(offset.X()), float64(offset.Z()))
	phi := math.Acos(clamp64(float64(offset.Y())/radius, -1, 1))

	damping := o.Damping
	if damping <= 0 || damping > 1 {
		damping = 1
	}
	theta += float64(o.deltaTheta * damping)
	phi += float64(o.deltaPhi * damping)
	phi = clamp64(phi, float64(o.MinPolar), float64(o.MaxPolar))
	phi = clamp64(phi, polarEpsilon, math.Pi-polarEpsilon)

	radius = clamp64(radius*float64(o.scale), float64(o.MinDistance), float64(o.MaxDistance))

	sinPhi := math.Sin(phi)
	offset = mgl32.Vec3{
		float32(radius * sinPhi * math.Sin(theta)),
		float32(radius * math.Cos(phi)),
		float32(radius * sinPhi * math.Cos(theta)),
	}
	cam.Position = cam.Target.Add(offset)
	cam.CancelFocus()

	o.deltaTheta *= 1 - damping
	o.deltaPhi *= 1 - damping
	if abs32(o.deltaTheta) < polarEpsilon {
		o.deltaTheta = 0
	}
	if abs32(o.deltaPhi) < polarEpsilon {
		o.deltaPhi = 0
	}
	o.scale = 1
	return true
}

func clamp64(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
