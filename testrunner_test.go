package folio

import (
	"errors"
	"fmt"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr bool
	}{
		{"valid", `{"steps":[{"action":"click","x":10,"y":20},{"action":"wait","frames":3}]}`, false},
		{"invalid json", `{"steps":`, true},
		{"no steps", `{"steps":[]}`, true},
		{"unknown action", `{"steps":[{"action":"dance"}]}`, true},
		{"page chrome steps", `{"steps":[{"action":"overlay","overlay":"about"},{"action":"navigate","dir":"next"},{"action":"close"},{"action":"button","name":"Book"},{"action":"home"}]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := LoadTestScript([]byte(tt.script))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && r.Done() {
				t.Error("fresh runner should not be done")
			}
		})
	}
}

// runScript drives the runner the way the game loop does, feeding injected
// input only while it is queued.
func runScript(t *testing.T, s *Scene, r *TestRunner) {
	t.Helper()
	s.SetTestRunner(r)
	for i := 0; i < 200 && !r.Done(); i++ {
		r.step(s)
		if len(s.injectQueue) > 0 {
			s.processInput()
		}
		s.Update(0.1)
	}
	if !r.Done() {
		t.Fatal("script did not finish")
	}
}

func TestTestRunnerClick(t *testing.T) {
	s, _ := mountedScene(t)
	book := node(t, s, "Book")
	x, y, _ := s.ScreenPoint(book.WorldPosition())
	r, err := LoadTestScript([]byte(fmt.Sprintf(`{"steps":[{"action":"click","x":%f,"y":%f}]}`, x, y)))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, s, r)
	if s.Gate().Active() != "about" {
		t.Errorf("active = %q, want about", s.Gate().Active())
	}
}

func TestTestRunnerPageChrome(t *testing.T) {
	s, _ := mountedScene(t)
	r, err := LoadTestScript([]byte(`{"steps":[
		{"action":"overlay","overlay":"about"},
		{"action":"wait","frames":6},
		{"action":"close"},
		{"action":"wait","frames":6},
		{"action":"button","name":"Telescope"},
		{"action":"navigate","dir":"next"},
		{"action":"screenshot","label":"work one"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, s, r)

	if s.Gate().Active() != "work1" {
		t.Errorf("active = %q, want work1", s.Gate().Active())
	}
	errs := r.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], ErrUnknownButton) {
		t.Errorf("errors = %v, want one ErrUnknownButton", errs)
	}
	if len(s.screenshotQueue) != 1 {
		t.Fatalf("screenshots = %+v", s.screenshotQueue)
	}
	if sh := s.screenshotQueue[0]; sh.Label != "work one" || sh.Overlay != "work1" || sh.Gate != "open" {
		t.Errorf("shot = %+v, want work1 open", sh)
	}
}

func TestTestRunnerWait(t *testing.T) {
	s := newTestScene(t, DefaultConfig())
	r, err := LoadTestScript([]byte(`{"steps":[{"action":"wait","frames":3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	frames := 0
	for !r.Done() && frames < 10 {
		r.step(s)
		frames++
	}
	if frames != 4 {
		t.Errorf("frames = %d, want 4", frames)
	}
}
