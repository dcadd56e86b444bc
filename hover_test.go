package folio

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type hoverLog struct {
	enters, exits []string
}

func (l *hoverLog) fn(n *Node, entered bool) {
	if entered {
		l.enters = append(l.enters, n.Name)
	} else {
		l.exits = append(l.exits, n.Name)
	}
}

func hitOn(n *Node) []Hit {
	return []Hit{{Hitbox: &Hitbox{Original: n, Bounds: n.WorldBounds()}}}
}

func TestHoverEnterOnce(t *testing.T) {
	h := NewHoverState(DefaultMarkers(), true)
	desk := NewMesh("Desk_Hover_Raycaster", mgl32.Vec3{1, 1, 1})
	hits := hitOn(desk)
	var log hoverLog

	for i := 0; i < 5; i++ {
		h.Apply(hits, log.fn)
	}
	if len(log.enters) != 1 || len(log.exits) != 0 {
		t.Fatalf("enters=%v exits=%v, want one enter", log.enters, log.exits)
	}
	if h.Current() != desk {
		t.Error("desk should be hovered")
	}

	h.Apply(nil, log.fn)
	h.Apply(nil, log.fn)
	if len(log.exits) != 1 {
		t.Errorf("exits = %v, want one", log.exits)
	}
	if h.Current() != nil {
		t.Error("nothing should be hovered")
	}
}

func TestHoverSwitchTargets(t *testing.T) {
	h := NewHoverState(DefaultMarkers(), true)
	a := NewMesh("A_Hover_Raycaster", mgl32.Vec3{1, 1, 1})
	b := NewMesh("B_Hover_Raycaster", mgl32.Vec3{1, 1, 1})
	var log hoverLog

	h.Apply(hitOn(a), log.fn)
	h.Apply(hitOn(b), log.fn)
	if len(log.exits) != 1 || log.exits[0] != a.Name {
		t.Errorf("exits = %v, want [A]", log.exits)
	}
	if len(log.enters) != 2 || log.enters[1] != b.Name {
		t.Errorf("enters = %v, want [A B]", log.enters)
	}
}

func TestHoverPassiveNotAnimated(t *testing.T) {
	h := NewHoverState(DefaultMarkers(), true)
	shelf := NewMesh("Shelf_Hover3_Raycaster_Pointer", mgl32.Vec3{1, 1, 1})
	var log hoverLog

	res := h.Apply(hitOn(shelf), log.fn)
	if len(log.enters) != 0 {
		t.Errorf("passive target entered: %v", log.enters)
	}
	if res.Target != shelf || res.Original != shelf {
		t.Error("passive target should still be reported")
	}
	if h.CursorFor(res) != CursorPointer {
		t.Error("passive clickable target should still show the pointer")
	}
}

func TestHoverOntoIneligibleExitsPrevious(t *testing.T) {
	h := NewHoverState(DefaultMarkers(), true)
	desk := NewMesh("Desk_Hover_Raycaster", mgl32.Vec3{1, 1, 1})
	wall := NewMesh("Wall_Raycaster", mgl32.Vec3{1, 1, 1})
	var log hoverLog

	h.Apply(hitOn(desk), log.fn)
	h.Apply(hitOn(wall), log.fn)
	if len(log.exits) != 1 || h.Current() != nil {
		t.Errorf("exits=%v current=%v, want desk exited", log.exits, nodeName(h.Current()))
	}
	h.Apply(nil, log.fn)
	if len(log.exits) != 1 {
		t.Errorf("exits = %v, want no second exit", log.exits)
	}
}

func TestHoverRequireMarker(t *testing.T) {
	chair := NewMesh("Chair_Raycaster", mgl32.Vec3{1, 1, 1})
	for _, tt := range []struct {
		require bool
		enters  int
	}{
		{true, 0},
		{false, 1},
	} {
		var log hoverLog
		NewHoverState(DefaultMarkers(), tt.require).Apply(hitOn(chair), log.fn)
		if len(log.enters) != tt.enters {
			t.Errorf("require=%v: enters = %d, want %d", tt.require, len(log.enters), tt.enters)
		}
	}
}

func TestHoverNoAnimateHitbox(t *testing.T) {
	h := NewHoverState(DefaultMarkers(), false)
	n := NewMesh("Desk_Hover_Raycaster", mgl32.Vec3{1, 1, 1})
	var log hoverLog
	h.Apply([]Hit{{Hitbox: &Hitbox{Original: n, noHover: true}}}, log.fn)
	if len(log.enters) != 0 {
		t.Errorf("enters = %v, want none", log.enters)
	}
}

// Over any sequence of frames at most one node is hovered, and every enter is
// matched by one exit once the pointer leaves.
func TestHoverEnterExitPairing(t *testing.T) {
	h := NewHoverState(DefaultMarkers(), true)
	nodes := []*Node{
		NewMesh("A_Hover_Raycaster", mgl32.Vec3{1, 1, 1}),
		NewMesh("B_Hover_Raycaster", mgl32.Vec3{1, 1, 1}),
		NewMesh("C_Hover3_Raycaster", mgl32.Vec3{1, 1, 1}),
		NewMesh("D_Raycaster", mgl32.Vec3{1, 1, 1}),
	}
	rng := rand.New(rand.NewPCG(1, 2))
	open := map[string]int{}
	fn := func(n *Node, entered bool) {
		if entered {
			open[n.Name]++
		} else {
			open[n.Name]--
		}
		total := 0
		for name, c := range open {
			if c < 0 || c > 1 {
				t.Fatalf("%s hover count = %d", name, c)
			}
			total += c
		}
		if total > 1 {
			t.Fatalf("%d nodes hovered at once", total)
		}
	}
	for i := 0; i < 500; i++ {
		k := rng.IntN(len(nodes) + 1)
		if k == len(nodes) {
			h.Apply(nil, fn)
			continue
		}
		h.Apply(hitOn(nodes[k]), fn)
	}
	h.Reset(fn)
	for name, c := range open {
		if c != 0 {
			t.Errorf("%s left with count %d", name, c)
		}
	}
}

func TestCursorFor(t *testing.T) {
	h := NewHoverState(DefaultMarkers(), true)
	book := NewMesh("Book_Raycaster_Pointer", mgl32.Vec3{1, 1, 1})
	wall := NewMesh("Wall_Raycaster", mgl32.Vec3{1, 1, 1})
	hidden := NewMesh("Note_Raycaster_Pointer", mgl32.Vec3{1, 1, 1})
	hidden.Scale = mgl32.Vec3{}

	tests := []struct {
		name string
		res  HoverResult
		want CursorShape
	}{
		{"nothing", HoverResult{}, CursorDefault},
		{"clickable", HoverResult{Original: book}, CursorPointer},
		{"plain", HoverResult{Original: wall}, CursorDefault},
		{"collapsed", HoverResult{Original: hidden}, CursorDefault},
	}
	for _, tt := range tests {
		if got := h.CursorFor(tt.res); got != tt.want {
			t.Errorf("%s: CursorFor = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestHoverEffectsScaleAndRestore(t *testing.T) {
	a := NewAnimator()
	fx := HoverEffects{Animator: a, Scale: 1.5, EnterDuration: 0.5, ExitDuration: 0.5}
	n := NewMesh("Desk_Hover_Raycaster", mgl32.Vec3{1, 1, 1})
	n.Position = mgl32.Vec3{1, 0, 0}
	n.SnapshotBase()

	fx.Apply(n, true)
	a.Update(0.5)
	if !vecNear(n.Scale, mgl32.Vec3{1.5, 1.5, 1.5}) {
		t.Errorf("hovered Scale = %v, want 1.5", n.Scale)
	}

	n.Position = mgl32.Vec3{9, 9, 9}
	fx.Apply(n, false)
	a.Update(0.5)
	if !vecNear(n.Scale, mgl32.Vec3{1, 1, 1}) || !vecNear(n.Position, mgl32.Vec3{1, 0, 0}) {
		t.Errorf("exit pose = %v / %v, want base", n.Position, n.Scale)
	}
}

func TestHoverEffectsSkipCollapsed(t *testing.T) {
	a := NewAnimator()
	fx := HoverEffects{Animator: a, Scale: 1.5, EnterDuration: 0.5, ExitDuration: 0.5}
	n := NewMesh("Note_Hover_Raycaster", mgl32.Vec3{1, 1, 1})
	n.SnapshotBase()
	n.Scale = mgl32.Vec3{}

	fx.Apply(n, true)
	fx.Apply(n, false)
	if a.Len() != 0 {
		t.Errorf("Len = %d, collapsed node should not animate", a.Len())
	}
}

func TestHoverEffectsEnterKillsExit(t *testing.T) {
	a := NewAnimator()
	fx := HoverEffects{Animator: a, Scale: 2, EnterDuration: 1, ExitDuration: 1}
	n := NewMesh("Desk_Hover_Raycaster", mgl32.Vec3{1, 1, 1})
	n.SnapshotBase()

	fx.Apply(n, true)
	fx.Apply(n, false)
	fx.Apply(n, true)
	if a.Len() != 1 {
		t.Fatalf("Len = %d, want 1 live tween per node", a.Len())
	}
}
