package folio

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// --- Constants ---

const defaultDragDeadZone = 4.0 // pixels

// --- Rays ---

// Ray is a half-line from Origin along the normalized Direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB slab-tests the ray against box. It returns the distance to the
// entry point, or to the exit point when the origin is inside the box.
func (r Ray) IntersectAABB(box AABB) (float32, bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)
	for i := 0; i < 3; i++ {
		if r.Direction[i] == 0 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / r.Direction[i]
		t1 := (box.Min[i] - r.Origin[i]) * inv
		t2 := (box.Max[i] - r.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin >= 0 {
		return tmin, true
	}
	return tmax, true
}

// --- Pointer ---

// Hit is one ray/hitbox intersection.
type Hit struct {
	Hitbox   *Hitbox
	Distance float32
	Point    mgl32.Vec3
}

// Pointer holds the normalized pointer position and the scratch buffers reused
// by every Raycast.
type Pointer struct {
	// NDC is the pointer in normalized device coordinates, both axes in [-1, 1]
	// with +Y up.
	NDC mgl32.Vec2

	ray  Ray
	hits []Hit
}

// Update stores the pointer from pixel coordinates within a viewport.
// Empty viewports leave the pointer unchanged.
func (p *Pointer) Update(screenX, screenY, width, height float32) {
	if width <= 0 || height <= 0 {
		return
	}
	p.NDC[0] = screenX/width*2 - 1
	p.NDC[1] = -(screenY/height)*2 + 1
}

// Ray returns the ray built by the last Raycast.
func (p *Pointer) Ray() Ray {
	return p.ray
}

// Raycast intersects the pointer ray with every hitbox and returns the hits
// nearest first. Only hitbox bounds are tested, never the visible meshes.
// The returned slice is reused by the next call and MUST NOT be retained.
func (p *Pointer) Raycast(cam *Camera, boxes []*Hitbox) []Hit {
	p.ray = cam.Ray(p.NDC[0], p.NDC[1])
	p.hits = p.hits[:0]
	for _, hb := range boxes {
		t, ok := p.ray.IntersectAABB(hb.Bounds)
		if !ok {
			continue
		}
		p.hits = append(p.hits, Hit{Hitbox: hb, Distance: t, Point: p.ray.At(t)})
	}
	slices.SortStableFunc(p.hits, func(a, b Hit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return p.hits
}

// --- Device input ---

// pointerState tracks the primary mouse button between frames so a press and
// release without a drag becomes a click and a drag becomes an orbit.
type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
}

// processInput polls ebiten for pointer, wheel and key input and feeds the
// scene. Called from the game loop before Scene.Update.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}

	mx, my := ebiten.CursorPosition()
	s.processPointer(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	if _, wy := ebiten.Wheel(); wy != 0 {
		s.Zoom(float32(wy))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		s.CloseOverlay(nil)
	}
	if s.gate.Active() != "" {
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
			s.reportErr(s.NavigateOverlay("next"))
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
			s.reportErr(s.NavigateOverlay("prev"))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.HomeCamera()
	}
}

// processPointer runs one frame of the primary pointer: a move refreshes
// hover, a press and release inside the dead zone clicks, and anything beyond
// the dead zone orbits instead.
func (s *Scene) processPointer(x, y float64, pressed bool) {
	ps := &s.mouse
	if x != ps.lastX || y != ps.lastY || !s.pointerSeen {
		s.PointerMove(float32(x), float32(y))
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = x, y
		ps.dragging = false
	case pressed:
		if !ps.dragging {
			dx, dy := x-ps.startX, y-ps.startY
			if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
				ps.dragging = true
			}
		}
		if ps.dragging {
			s.OrbitDrag(float32(x-ps.lastX), float32(y-ps.lastY))
		}
	case ps.down:
		if !ps.dragging {
			s.Click()
		}
		ps.down = false
		ps.dragging = false
	}
	ps.lastX, ps.lastY = x, y
}

// SetDragDeadZone sets the minimum movement in pixels before a press becomes
// an orbit drag instead of a click.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}
