package folio

import (
	"cmp"
	"fmt"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// boxEdges indexes AABB.Corners pairs that form the 12 box edges.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

var (
	colorBackground = color.RGBA{0x23, 0x1e, 0x2d, 0xff}
	colorMesh       = color.RGBA{0xd8, 0xd0, 0xc0, 0xff}
	colorHovered    = color.RGBA{0xff, 0xc8, 0x57, 0xff}
	colorHitbox     = color.RGBA{0x4c, 0xe0, 0x7a, 0xff}
	colorScrim      = color.RGBA{0x00, 0x00, 0x00, 0x99}
	colorPanel      = color.RGBA{0xf5, 0xf0, 0xe6, 0xff}
)

// drawItem is one mesh queued for painter-ordered drawing.
type drawItem struct {
	node  *Node
	box   AABB
	depth float32
}

// Draw renders the room as projected box wireframes, far to near, then the
// visible overlay panels and the loading status. Drawing is never gated.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	if s.room != nil {
		s.drawRoom(screen)
	}
	if s.debug {
		for _, hb := range s.hitboxes.All() {
			s.strokeBox(screen, hb.Bounds, colorHitbox, 1)
		}
	}
	s.drawOverlays(screen)
	if !s.Ready() {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("loading %3.0f%%", s.Progress()*100), 8, 8)
	}
	s.flushScreenshots(screen)
}

func (s *Scene) drawRoom(screen *ebiten.Image) {
	hovered := s.hover.Current()
	for _, it := range paintOrder(s.room, s.camera.Position) {
		clr := meshColor(it.node)
		width := float32(1)
		if it.node == hovered {
			clr, width = colorHovered, 2
		}
		s.strokeBox(screen, it.box, clr, width)
	}
}

// paintOrder returns the visible, uncollapsed meshes under root sorted far to
// near from eye.
func paintOrder(root *Node, eye mgl32.Vec3) []drawItem {
	var items []drawItem
	root.Walk(func(n *Node) {
		if n.Kind != NodeKindMesh || !n.Visible || n.Collapsed() {
			return
		}
		box := n.Bounds.Transformed(n.WorldMatrix())
		items = append(items, drawItem{node: n, box: box, depth: box.Center().Sub(eye).Len()})
	})
	slices.SortStableFunc(items, func(a, b drawItem) int {
		return cmp.Compare(b.depth, a.depth)
	})
	return items
}

// meshColor tints a mesh by the texel at the center of its texture set.
func meshColor(n *Node) color.Color {
	if n.Material == nil || n.Material.Image == nil {
		return colorMesh
	}
	b := n.Material.Image.Bounds()
	return n.Material.Image.At(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2)
}

func (s *Scene) strokeBox(screen *ebiten.Image, box AABB, clr color.Color, width float32) {
	var pts [8][2]float32
	var ok [8]bool
	for i, c := range box.Corners() {
		pts[i][0], pts[i][1], ok[i] = s.camera.WorldToScreen(c)
	}
	for _, e := range boxEdges {
		a, b := e[0], e[1]
		if !ok[a] || !ok[b] {
			continue
		}
		vector.StrokeLine(screen, pts[a][0], pts[a][1], pts[b][0], pts[b][1], width, clr, true)
	}
}

func (s *Scene) drawOverlays(screen *ebiten.Image) {
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	for _, o := range s.gate.Overlays() {
		if !o.Visible || o.Scale <= 0 {
			continue
		}
		scrim := colorScrim
		scrim.A = uint8(float32(scrim.A) * clamp01(o.Opacity))
		vector.DrawFilledRect(screen, 0, 0, w, h, scrim, false)

		pw, ph := w*0.6*o.Scale, h*0.6*o.Scale
		px, py := (w-pw)/2, (h-ph)/2
		panel := colorPanel
		panel.A = uint8(255 * clamp01(o.Opacity))
		vector.DrawFilledRect(screen, px, py, pw, ph, panel, true)
		if o.Scale > 0.9 {
			ebitenutil.DebugPrintAt(screen, o.Title+"\n\n"+o.Body, int(px)+16, int(py)+16)
		}
	}
}

// ScreenPoint projects a world point to pixels with the scene camera.
func (s *Scene) ScreenPoint(p mgl32.Vec3) (x, y float32, ok bool) {
	return s.camera.WorldToScreen(p)
}

func clamp01(v float32) float32 {
	return max(0, min(v, 1))
}
