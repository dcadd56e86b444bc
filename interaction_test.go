package folio

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		token string
		want  ActionKind
	}{
		{"open_container", ActionOpenContainer},
		{"focus_camera", ActionFocusCamera},
		{"show_overlay", ActionShowOverlay},
		{"rotate_prop", ActionRotateProp},
		{"  Show_Overlay ", ActionShowOverlay},
		{"explode", ActionUnknown},
		{"", ActionUnknown},
	}
	for _, tt := range tests {
		if got := ParseAction(tt.token); got != tt.want {
			t.Errorf("ParseAction(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
	for _, k := range []ActionKind{ActionOpenContainer, ActionFocusCamera, ActionShowOverlay, ActionRotateProp} {
		if ParseAction(k.String()) != k {
			t.Errorf("%v does not round-trip", k)
		}
	}
	if ActionUnknown.String() != "unknown" {
		t.Errorf("ActionUnknown.String() = %q", ActionUnknown.String())
	}
}

func TestInteractionsAddParsesToken(t *testing.T) {
	r := NewInteractions(DefaultMarkers(), MatchLast)
	e := &InteractionEntry{Pattern: "Book", Token: "show_overlay", Overlay: "about"}
	r.Add(e)
	if e.Action != ActionShowOverlay {
		t.Errorf("Action = %v, want show_overlay", e.Action)
	}
}

func interactionRoom() *Node {
	root := NewGroup("root")
	root.AddChild(NewMesh("Book_Red_Raycaster_Pointer", mgl32.Vec3{1, 1, 1}))
	root.AddChild(NewMesh("Book_Blue_Raycaster_Pointer", mgl32.Vec3{1, 1, 1}))
	root.AddChild(NewMesh("Globe_Raycaster_Pointer", mgl32.Vec3{1, 1, 1}))
	return root
}

func TestResolvePolicy(t *testing.T) {
	for _, tt := range []struct {
		policy MatchPolicy
		want   string
	}{
		{MatchLast, "Book_Blue_Raycaster_Pointer"},
		{MatchFirst, "Book_Red_Raycaster_Pointer"},
	} {
		r := NewInteractions(DefaultMarkers(), tt.policy)
		e := &InteractionEntry{Pattern: "Book", Action: ActionShowOverlay}
		r.Add(e)
		if missing := r.Resolve(interactionRoom()); len(missing) != 0 {
			t.Fatalf("missing = %v", missing)
		}
		if got := nodeName(e.Node()); got != tt.want {
			t.Errorf("policy %d: bound %q, want %q", tt.policy, got, tt.want)
		}
	}
}

func TestResolveReportsMissing(t *testing.T) {
	r := NewInteractions(DefaultMarkers(), MatchLast)
	r.Add(&InteractionEntry{Pattern: "Globe", Action: ActionRotateProp})
	r.Add(&InteractionEntry{Pattern: "Telescope", Action: ActionFocusCamera})
	missing := r.Resolve(interactionRoom())
	if len(missing) != 1 || missing[0] != "Telescope" {
		t.Errorf("missing = %v, want [Telescope]", missing)
	}
	if r.Find("Telescope").Node() != nil {
		t.Error("missing entry should stay unbound")
	}
}

func TestResolveNeverRebinds(t *testing.T) {
	root := interactionRoom()
	r := NewInteractions(DefaultMarkers(), MatchLast)
	e := &InteractionEntry{Pattern: "Globe", Action: ActionRotateProp}
	r.Add(e)
	r.Resolve(root)
	first := e.Node()

	root.AddChild(NewMesh("Globe_Big_Raycaster_Pointer", mgl32.Vec3{1, 1, 1}))
	r.Resolve(root)
	if e.Node() != first {
		t.Error("bound entry was rebound")
	}
}

func TestMatchFirstEntryWins(t *testing.T) {
	r := NewInteractions(DefaultMarkers(), MatchLast)
	general := &InteractionEntry{Pattern: "Book", Action: ActionShowOverlay, Overlay: "about"}
	specific := &InteractionEntry{Pattern: "Book_Red", Action: ActionShowOverlay, Overlay: "gallery"}
	r.Add(general)
	r.Add(specific)

	if got := r.Match("Book_Red_Raycaster_Pointer"); got != general {
		t.Errorf("Match = %+v, want the earlier entry", got)
	}
	if got := r.Match("Lamp"); got != nil {
		t.Errorf("Match(Lamp) = %v, want nil", got.Pattern)
	}
}

func TestFindExact(t *testing.T) {
	r := NewInteractions(DefaultMarkers(), MatchLast)
	r.Add(&InteractionEntry{Pattern: "Book_Red", Action: ActionShowOverlay})
	if r.Find("Book") != nil {
		t.Error("Find should not match substrings")
	}
	if r.Find("Book_Red") == nil {
		t.Error("Find should match the exact pattern")
	}
}

func TestResolveClick(t *testing.T) {
	r := NewInteractions(DefaultMarkers(), MatchLast)
	e := &InteractionEntry{Pattern: "Book", Action: ActionShowOverlay, Overlay: "about"}
	r.Add(e)

	book := NewMesh("Book_Raycaster_Pointer", mgl32.Vec3{1, 1, 1})
	plain := NewMesh("Book_Raycaster", mgl32.Vec3{1, 1, 1})
	hidden := NewMesh("Book_Hidden_Raycaster_Pointer", mgl32.Vec3{1, 1, 1})
	hidden.Scale = mgl32.Vec3{}
	globe := NewMesh("Globe_Raycaster_Pointer", mgl32.Vec3{1, 1, 1})

	tests := []struct {
		name string
		hits []Hit
		want *InteractionEntry
	}{
		{"no hits", nil, nil},
		{"clickable", hitOn(book), e},
		{"not clickable", hitOn(plain), nil},
		{"collapsed", hitOn(hidden), nil},
		{"no pattern", hitOn(globe), nil},
		{"nearest only", append(hitOn(globe), hitOn(book)...), nil},
	}
	for _, tt := range tests {
		if got := r.ResolveClick(tt.hits); got != tt.want {
			t.Errorf("%s: ResolveClick = %v, want %v", tt.name, got, tt.want)
		}
	}
}
