package folio

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// ContainerConfig tunes the openable prop.
type ContainerConfig struct {
	// Axis is the prop rotation axis; it is scaled by Angle (radians).
	Axis  mgl32.Vec3
	Angle float32
	// OpenDuration and RevealDuration are in seconds. Closing reuses
	// OpenDuration.
	OpenDuration   float32
	RevealDuration float32
	// View is the camera pose used while the prop is open. Drifting the orbit
	// away from it closes the prop. A nil View disables the drift check.
	View          *CameraPreset
	TargetDrift   float32
	PositionDrift float32
}

// DefaultContainerConfig returns a half turn about Y revealed over a second.
func DefaultContainerConfig() ContainerConfig {
	return ContainerConfig{
		Axis:           mgl32.Vec3{0, 1, 0},
		Angle:          3.14159265,
		OpenDuration:   1,
		RevealDuration: 0.3,
		TargetDrift:    0.75,
		PositionDrift:  2.5,
	}
}

// Container drives one openable prop and the hotspots that appear on it once
// it is fully open. Hotspots stay collapsed to scale zero at every other time.
type Container struct {
	anim *Animator
	cfg  ContainerConfig

	prop     *Node
	propBase Transform
	hotspots []*Node
	bases    []mgl32.Vec3

	phase Phase

	// OnChange, when set, receives every phase change.
	OnChange func(p Phase)
}

// NewContainer creates an unbound container.
func NewContainer(anim *Animator, cfg ContainerConfig) *Container {
	return &Container{anim: anim, cfg: cfg}
}

// Bind attaches the prop and its hotspots. Hotspot scales are recorded as the
// reveal target and collapsed to zero.
func (c *Container) Bind(prop *Node, hotspots []*Node) {
	c.prop = prop
	c.propBase = prop.Transform()
	c.hotspots = c.hotspots[:0]
	c.bases = c.bases[:0]
	for _, h := range hotspots {
		if h == nil {
			continue
		}
		base := h.Base.Scale
		if base == (mgl32.Vec3{}) {
			base = h.Scale
		}
		c.hotspots = append(c.hotspots, h)
		c.bases = append(c.bases, base)
		c.anim.Kill(h)
		h.Scale = mgl32.Vec3{}
	}
	c.phase = PhaseClosed
}

// Bound reports whether a prop has been bound.
func (c *Container) Bound() bool {
	return c.prop != nil
}

// Prop returns the bound prop node.
func (c *Container) Prop() *Node {
	return c.prop
}

// Hotspots returns the bound hotspot nodes.
func (c *Container) Hotspots() []*Node {
	return c.hotspots
}

// Phase returns the current lifecycle phase.
func (c *Container) Phase() Phase {
	return c.phase
}

// Open rotates the prop open and reveals the hotspots when the rotation lands.
// It does nothing unless the container is closed.
func (c *Container) Open() {
	if c.prop == nil || c.phase != PhaseClosed {
		return
	}
	c.anim.KillProps(c.prop, PropRotation)
	to := c.propBase.Rotation.Add(c.cfg.Axis.Mul(c.cfg.Angle))
	c.setPhase(PhaseOpening)
	tw := c.anim.Add(TweenRotation(c.prop, to, c.cfg.OpenDuration, ease.InOutQuad))
	tw.OnComplete = func() {
		if c.phase != PhaseOpening {
			return
		}
		c.reveal()
		c.setPhase(PhaseOpen)
	}
}

func (c *Container) reveal() {
	for i, h := range c.hotspots {
		c.anim.Kill(h)
		c.anim.Add(TweenScale(h, c.bases[i], c.cfg.RevealDuration, ease.OutBack))
	}
}

// Close collapses every hotspot immediately and rotates the prop shut. It does
// nothing unless the container is opening or open.
func (c *Container) Close() {
	if c.prop == nil || (c.phase != PhaseOpening && c.phase != PhaseOpen) {
		return
	}
	for _, h := range c.hotspots {
		c.anim.Kill(h)
		h.Scale = mgl32.Vec3{}
	}
	c.anim.KillProps(c.prop, PropRotation)
	c.setPhase(PhaseClosing)
	tw := c.anim.Add(TweenRotation(c.prop, c.propBase.Rotation, c.cfg.OpenDuration, ease.InOutQuad))
	tw.OnComplete = func() {
		if c.phase == PhaseClosing {
			c.setPhase(PhaseClosed)
		}
	}
}

// CheckDrift closes the container when the camera has been orbited away from
// the open view. Camera focus tweens are ignored. Returns true if it closed.
func (c *Container) CheckDrift(cam *Camera) bool {
	if c.phase != PhaseOpen || c.cfg.View == nil || cam.Focusing() {
		return false
	}
	td := cam.Target.Sub(c.cfg.View.Target).Len()
	pd := cam.Position.Sub(c.cfg.View.Position).Len()
	if td <= c.cfg.TargetDrift && pd <= c.cfg.PositionDrift {
		return false
	}
	logger().Debug("camera drifted from container view; closing",
		"target_drift", td, "position_drift", pd)
	c.Close()
	return true
}

func (c *Container) setPhase(p Phase) {
	c.phase = p
	if c.OnChange != nil {
		c.OnChange(p)
	}
}
