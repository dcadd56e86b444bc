package folio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"hover-desk", "hover-desk"},
		{"work one", "work_one"},
		{"../etc/passwd", ".._etc_passwd"},
		{"v1.2", "v1.2"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		64, 32, 16, 128, // half alpha
		10, 20, 30, 255, // opaque
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pixels, 3, 1)
	tests := []struct {
		x    int
		want color.NRGBA
	}{
		{0, color.NRGBA{127, 63, 31, 128}},
		{1, color.NRGBA{10, 20, 30, 255}},
		{2, color.NRGBA{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, 0); got != tt.want {
			t.Errorf("pixel %d = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestUnpremultiplyShortBuffer(t *testing.T) {
	img := unpremultiply([]byte{1, 2, 3}, 2, 2)
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 1, color.NRGBA{200, 100, 50, 255})
	if err := writePNG(path, src); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := got.At(1, 1).RGBA(); r>>8 != 200 {
		t.Errorf("red = %d, want 200", r>>8)
	}
}

func TestScreenshotRecordsState(t *testing.T) {
	s, _ := mountedScene(t)
	s.Screenshot("idle")
	aim(t, s, "Book")
	s.Update(0.1)
	s.Click()
	s.Screenshot("about")

	if len(s.screenshotQueue) != 2 {
		t.Fatalf("queue = %+v", s.screenshotQueue)
	}
	idle, about := s.screenshotQueue[0], s.screenshotQueue[1]
	if idle.Overlay != "" || idle.Gate != "closed" || idle.Container != "closed" || idle.Frame != 0 {
		t.Errorf("idle shot = %+v", idle)
	}
	if about.Overlay != "about" || about.Gate != "opening" || about.Frame != 1 {
		t.Errorf("about shot = %+v", about)
	}
	if about.Camera != [3]float32{0, 0, 10} {
		t.Errorf("camera = %v", about.Camera)
	}
}

func TestWriteShot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sh := Shot{Label: "hover desk", Frame: 42, Gate: "closed", Container: "open", Hovered: "Desk_Hover_Raycaster"}
	path, err := writeShot(dir, sh, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "000042_hover_desk.png"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("image missing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "000042_hover_desk.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var got Shot
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got != sh {
		t.Errorf("sidecar = %+v, want %+v", got, sh)
	}
}
