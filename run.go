package folio

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS draws the FPS and TPS counters in the top-right corner.
	ShowFPS bool
	// TestScript, when set, is a JSON test script driven each frame.
	TestScript []byte
	// ExitOnScriptDone closes the window once the test script finishes.
	ExitOnScriptDone bool
}

// Run opens a resizable window and drives the scene until it is closed.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	if cfg.TestScript != nil {
		runner, err := LoadTestScript(cfg.TestScript)
		if err != nil {
			return err
		}
		scene.SetTestRunner(runner)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	scene.SetChrome(ebitenChrome{})
	scene.Resize(float32(cfg.Width), float32(cfg.Height))
	return ebiten.RunGame(&game{scene: scene, cfg: cfg})
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
}

func (g *game) Update() error {
	s := g.scene
	if r := s.testRunner; r != nil {
		r.step(s)
		if r.done && g.cfg.ExitOnScriptDone && len(s.screenshotQueue) == 0 {
			return ebiten.Termination
		}
	}
	s.processInput()
	s.Update(float32(1.0 / float64(ebiten.TPS())))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.cfg.ShowFPS {
		msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-100, 8)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cam := g.scene.camera
	if int(cam.Width) != outsideWidth || int(cam.Height) != outsideHeight {
		g.scene.Resize(float32(outsideWidth), float32(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// ebitenChrome is the window chrome. Only the cursor has a native
// counterpart; controls and scrolling belong to a page, so they are logged.
type ebitenChrome struct{}

func (ebitenChrome) SetControlsVisible(visible bool) {
	logger().Debug("chrome controls", "visible", visible)
}

func (ebitenChrome) SetScrollLocked(locked bool) {
	logger().Debug("chrome scroll", "locked", locked)
}

func (ebitenChrome) SetCursor(shape CursorShape) {
	switch shape {
	case CursorPointer:
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	default:
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}
