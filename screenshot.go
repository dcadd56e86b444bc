package folio

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// Shot is a queued screenshot together with the interaction state at the
// moment it was requested. The state is written next to the image so scripted
// runs can be checked without reading pixels.
type Shot struct {
	Label     string     `yaml:"label"`
	Frame     uint64     `yaml:"frame"`
	Overlay   string     `yaml:"overlay,omitempty"`
	Gate      string     `yaml:"gate"`
	Container string     `yaml:"container"`
	Hovered   string     `yaml:"hovered,omitempty"`
	Camera    [3]float32 `yaml:"camera,flow"`
}

// name is the file stem shared by the image and its sidecar.
func (sh Shot) name() string {
	return fmt.Sprintf("%06d_%s", sh.Frame, sanitizeLabel(sh.Label))
}

// Screenshot queues a labeled capture of the next drawn frame. The scene state
// is recorded now; the pixels are read at the end of Draw.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, s.shot(label))
}

func (s *Scene) shot(label string) Shot {
	sh := Shot{
		Label:     label,
		Frame:     s.frame,
		Overlay:   s.gate.Active(),
		Gate:      s.gate.Phase().String(),
		Container: s.container.Phase().String(),
		Camera:    s.camera.Position,
	}
	if n := s.hover.Current(); n != nil {
		sh.Hovered = n.Name
	}
	return sh
}

// flushScreenshots writes every queued shot from the rendered frame.
func (s *Scene) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	bounds := screen.Bounds()
	pixels := make([]byte, 4*bounds.Dx()*bounds.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, bounds.Dx(), bounds.Dy())

	for _, sh := range s.screenshotQueue {
		path, err := writeShot(s.ScreenshotDir, sh, img)
		if err != nil {
			logger().Error("screenshot failed", "label", sh.Label, "err", err)
			continue
		}
		logger().Info("screenshot written", "path", path, "overlay", sh.Overlay)
	}
}

// writeShot writes <dir>/<frame>_<label>.png and its .yaml state sidecar and
// returns the image path.
func writeShot(dir string, sh Shot, img image.Image) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot dir %s: %w", dir, err)
	}
	base := filepath.Join(dir, sh.name())
	if err := writePNG(base+".png", img); err != nil {
		return "", err
	}
	meta, err := yaml.Marshal(sh)
	if err != nil {
		return "", fmt.Errorf("encode shot %q: %w", sh.Label, err)
	}
	if err := os.WriteFile(base+".yaml", meta, 0o644); err != nil {
		return "", fmt.Errorf("write shot %q: %w", sh.Label, err)
	}
	return base + ".png", nil
}

// unpremultiply converts the premultiplied pixels ebiten reads back into
// straight-alpha NRGBA. A short buffer leaves the remaining pixels clear.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	n := min(len(pixels), len(img.Pix)) &^ 3
	for i := 0; i < n; i += 4 {
		a := pixels[i+3]
		for c := 0; c < 3; c++ {
			v := pixels[i+c]
			if a > 0 && a < 255 {
				v = uint8(min(int(v)*255/int(a), 255))
			}
			img.Pix[i+c] = v
		}
		img.Pix[i+3] = a
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', maps everything else to
// '_', and names empty labels "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
