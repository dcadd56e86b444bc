package folio

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestHitboxes(policy MatchPolicy, fallback HoverFallback) *Hitboxes {
	return NewHitboxes(DefaultMarkers(), policy, fallback)
}

func TestMarkersBaseName(t *testing.T) {
	m := DefaultMarkers()
	tests := []struct{ in, want string }{
		{"Computer_Raycaster_Pointer", "Computer"},
		{"Desk_Hover_Raycaster", "Desk_Hover"},
		{"Lamp", "Lamp"},
	}
	for _, tt := range tests {
		if got := m.baseName(tt.in); got != tt.want {
			t.Errorf("baseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildCreatesOnePerPickableMesh(t *testing.T) {
	root := NewGroup("root")
	room := NewGroup("room")
	root.AddChild(room)
	room.AddChild(NewMesh("Desk_Hover_Raycaster", mgl32.Vec3{2, 1, 1}))
	room.AddChild(NewMesh("Lamp", mgl32.Vec3{1, 1, 1}))
	room.AddChild(NewGroup("Group_Raycaster"))

	r := newTestHitboxes(MatchLast, HoverFallbackSelf)
	if n := r.Build(root); n != 1 {
		t.Fatalf("Build = %d, want 1", n)
	}
	hb := r.All()[0]
	if hb.Original.Name != "Desk_Hover_Raycaster" {
		t.Errorf("Original = %q", hb.Original.Name)
	}
	if hb.Node.Parent != root {
		t.Error("proxy should be a child of the build root")
	}
	if hb.Node.Visible {
		t.Error("proxy should be invisible")
	}
	if r.Lookup(hb.Node) != hb {
		t.Error("Lookup should find the hitbox by proxy")
	}
	if r.Lookup(hb.Original) != nil {
		t.Error("Lookup by original should miss")
	}
}

func TestBuildBoundsAreStatic(t *testing.T) {
	root := NewGroup("root")
	desk := NewMesh("Desk_Hover_Raycaster", mgl32.Vec3{2, 2, 2})
	desk.Position = mgl32.Vec3{3, 0, 0}
	root.AddChild(desk)

	r := newTestHitboxes(MatchLast, HoverFallbackSelf)
	r.Build(root)
	before := r.All()[0].Bounds

	desk.Scale = mgl32.Vec3{3, 3, 3}
	desk.Position = mgl32.Vec3{}
	if r.All()[0].Bounds != before {
		t.Error("hitbox bounds must not follow the animated node")
	}
	want := AABB{Min: mgl32.Vec3{2, -1, -1}, Max: mgl32.Vec3{4, 1, 1}}
	if !vecNear(before.Min, want.Min) || !vecNear(before.Max, want.Max) {
		t.Errorf("Bounds = %v, want %v", before, want)
	}
}

func TestBuildFindsHoverVisual(t *testing.T) {
	root := NewGroup("root")
	pc := NewMesh("Computer_Raycaster_Pointer", mgl32.Vec3{1, 1, 1})
	visual := NewMesh("Computer_Hover", mgl32.Vec3{1, 1, 1})
	root.AddChild(pc)
	root.AddChild(visual)

	r := newTestHitboxes(MatchLast, HoverFallbackSelf)
	r.Build(root)
	hb := r.All()[0]
	if hb.HoverVisual != visual {
		t.Fatalf("HoverVisual = %v, want Computer_Hover", nodeName(hb.HoverVisual))
	}
	if hb.HoverTarget() != visual {
		t.Error("HoverTarget should prefer the visual")
	}
}

func TestBuildHoverVisualPolicy(t *testing.T) {
	tests := []struct {
		policy MatchPolicy
		want   string
	}{
		{MatchLast, "Computer_Hover_B"},
		{MatchFirst, "Computer_Hover_A"},
	}
	for _, tt := range tests {
		root := NewGroup("root")
		root.AddChild(NewMesh("Computer_Raycaster_Pointer", mgl32.Vec3{1, 1, 1}))
		root.AddChild(NewMesh("Computer_Hover_A", mgl32.Vec3{1, 1, 1}))
		root.AddChild(NewMesh("Computer_Hover_B", mgl32.Vec3{1, 1, 1}))

		r := newTestHitboxes(tt.policy, HoverFallbackSelf)
		r.Build(root)
		if got := nodeName(r.All()[0].HoverVisual); got != tt.want {
			t.Errorf("policy %d: HoverVisual = %q, want %q", tt.policy, got, tt.want)
		}
	}
}

func TestBuildHoverFallback(t *testing.T) {
	for _, tt := range []struct {
		fallback HoverFallback
		animates bool
	}{
		{HoverFallbackSelf, true},
		{HoverFallbackNone, false},
	} {
		root := NewGroup("root")
		n := NewMesh("Chair_Raycaster", mgl32.Vec3{1, 1, 1})
		root.AddChild(n)
		r := newTestHitboxes(MatchLast, tt.fallback)
		r.Build(root)
		hb := r.All()[0]
		if hb.HoverTarget() != n {
			t.Error("HoverTarget should fall back to the original")
		}
		if hb.Animates() != tt.animates {
			t.Errorf("fallback %d: Animates = %v, want %v", tt.fallback, hb.Animates(), tt.animates)
		}
	}
}

func TestBuildTwiceDuplicates(t *testing.T) {
	root := NewGroup("root")
	root.AddChild(NewMesh("Desk_Raycaster", mgl32.Vec3{1, 1, 1}))
	r := newTestHitboxes(MatchLast, HoverFallbackSelf)
	r.Build(root)
	r.Build(root)
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2 after a repeated build", r.Len())
	}
}
