package folio

import (
	"fmt"
	"slices"

	"github.com/tanema/gween/ease"
)

// Overlay is one modal content panel. Scale and Opacity are animated by the
// gate; a renderer draws the panel while Visible.
type Overlay struct {
	ID      string
	Title   string
	Body    string
	Scale   float32
	Opacity float32
	Visible bool
}

// Chrome is the page surface around the 3D view: the control strip, page
// scrolling and the pointer cursor.
type Chrome interface {
	SetControlsVisible(visible bool)
	SetScrollLocked(locked bool)
	SetCursor(shape CursorShape)
}

type nopChrome struct{}

func (nopChrome) SetControlsVisible(bool) {}
func (nopChrome) SetScrollLocked(bool)    {}
func (nopChrome) SetCursor(CursorShape)   {}

// GateConfig tunes the gate's tweens and navigation order.
type GateConfig struct {
	// OpenDuration and CloseDuration are in seconds.
	OpenDuration  float32
	CloseDuration float32
	// Sequence is the overlay order stepped by Navigate.
	Sequence []string
}

// DefaultGateConfig returns half-second tweens over work1..work5.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		OpenDuration:  0.5,
		CloseDuration: 0.5,
		Sequence:      []string{"work1", "work2", "work3", "work4", "work5"},
	}
}

// Gate is the modal gate. While it is open, hover and click processing is
// suspended; rendering and orbit updates continue.
type Gate struct {
	anim   *Animator
	chrome Chrome
	cfg    GateConfig

	overlays map[string]*Overlay
	order    []string

	phase  Phase
	active string
	forced bool
	// last is the sequence index of the most recent sequence overlay shown,
	// or -1.
	last int

	// OnChange, when set, receives EventOverlayOpened and EventOverlayClosed
	// with the overlay id.
	OnChange func(ev EventType, id string)
}

// NewGate creates a closed gate. A nil chrome is replaced by a no-op.
func NewGate(anim *Animator, chrome Chrome, cfg GateConfig) *Gate {
	if chrome == nil {
		chrome = nopChrome{}
	}
	return &Gate{
		anim:     anim,
		chrome:   chrome,
		cfg:      cfg,
		overlays: make(map[string]*Overlay),
		last:     -1,
	}
}

// SetChrome swaps the page chrome. A nil chrome is replaced by a no-op.
func (g *Gate) SetChrome(c Chrome) {
	if c == nil {
		c = nopChrome{}
	}
	g.chrome = c
}

// Register adds an overlay panel. The panel starts hidden at scale zero.
// Registering an existing id replaces it.
func (g *Gate) Register(o *Overlay) {
	o.Scale = 0
	o.Opacity = 0
	o.Visible = false
	if _, ok := g.overlays[o.ID]; !ok {
		g.order = append(g.order, o.ID)
	}
	g.overlays[o.ID] = o
}

// Overlay returns the panel registered under id, or nil.
func (g *Gate) Overlay(id string) *Overlay {
	return g.overlays[id]
}

// Overlays returns every panel in registration order.
func (g *Gate) Overlays() []*Overlay {
	out := make([]*Overlay, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.overlays[id])
	}
	return out
}

// Phase returns the current lifecycle phase.
func (g *Gate) Phase() Phase {
	return g.phase
}

// Active returns the id of the overlay being shown, or "".
func (g *Gate) Active() string {
	return g.active
}

// IsOpen reports whether interaction is suspended. It is true from the moment
// Open is called until a close completes, and whenever SetOpen(true) forced it.
func (g *Gate) IsOpen() bool {
	return g.forced || g.phase != PhaseClosed
}

// SetOpen forces the gate flag without touching any overlay. Page code uses it
// while its own menus cover the scene.
func (g *Gate) SetOpen(open bool) {
	g.forced = open
}

// Open shows the overlay id. When another overlay is already showing, it is
// swapped out instantly. Opening the overlay that is already opening or open
// does nothing.
func (g *Gate) Open(id string) error {
	o := g.overlays[id]
	if o == nil {
		return fmt.Errorf("open %q: %w", id, ErrOverlayNotFound)
	}
	if g.active == id && (g.phase == PhaseOpening || g.phase == PhaseOpen) {
		return nil
	}
	g.remember(id)
	g.chrome.SetControlsVisible(false)
	g.chrome.SetScrollLocked(true)

	if g.active != "" && g.active != id {
		g.hideInstant(g.active)
		g.showInstant(o)
		return nil
	}

	g.anim.Kill(o)
	g.active = id
	g.phase = PhaseOpening
	o.Visible = true
	o.Opacity = 1
	if g.cfg.OpenDuration <= 0 {
		o.Scale = 1
		g.phase = PhaseOpen
		g.notify(EventOverlayOpened, id)
		return nil
	}
	o.Scale = 0
	tw := g.anim.Add(TweenFloats(o, []*float32{&o.Scale}, []float32{1}, g.cfg.OpenDuration, ease.OutBack))
	tw.OnComplete = func() {
		if g.active == id && g.phase == PhaseOpening {
			g.phase = PhaseOpen
		}
	}
	g.notify(EventOverlayOpened, id)
	return nil
}

// Close hides the active overlay and resumes interaction once the close tween
// finishes; onComplete runs then. With nothing active it resets the gate and
// calls onComplete immediately.
func (g *Gate) Close(onComplete func()) {
	o := g.overlays[g.active]
	if o == nil {
		g.active = ""
		g.phase = PhaseClosed
		g.forced = false
		g.restoreChrome()
		if onComplete != nil {
			onComplete()
		}
		return
	}

	id := g.active
	g.anim.Kill(o)
	g.phase = PhaseClosing
	if g.cfg.CloseDuration <= 0 {
		g.finishClose(o, id, onComplete)
		return
	}
	tw := g.anim.Add(TweenFloats(o,
		[]*float32{&o.Scale, &o.Opacity}, []float32{0, 0},
		g.cfg.CloseDuration, ease.InBack))
	tw.OnComplete = func() {
		g.finishClose(o, id, onComplete)
	}
}

func (g *Gate) finishClose(o *Overlay, id string, onComplete func()) {
	o.Visible = false
	o.Scale = 0
	o.Opacity = 0
	// A newer Open may have taken over while this close was in flight.
	if g.active == id {
		g.active = ""
		g.phase = PhaseClosed
		g.restoreChrome()
	}
	g.notify(EventOverlayClosed, id)
	if onComplete != nil {
		onComplete()
	}
}

// Navigate steps through the overlay sequence with wraparound. The current
// overlay is closed instantly before the next one opens. When the active
// overlay is outside the sequence, or nothing is active, it steps from the
// last sequence overlay shown, or from the ends of the sequence if none was.
func (g *Gate) Navigate(dir Direction) error {
	seq := g.cfg.Sequence
	if len(seq) == 0 {
		return fmt.Errorf("navigate: empty sequence: %w", ErrOverlayNotFound)
	}
	cur := slices.Index(seq, g.active)
	if cur < 0 && g.last < len(seq) {
		cur = g.last
	}
	var next int
	switch {
	case cur < 0 && dir == DirectionNext:
		next = 0
	case cur < 0:
		next = len(seq) - 1
	default:
		next = (cur + int(dir) + len(seq)) % len(seq)
	}
	o := g.overlays[seq[next]]
	if o == nil {
		return fmt.Errorf("navigate to %q: %w", seq[next], ErrOverlayNotFound)
	}
	if g.active != "" {
		g.hideInstant(g.active)
	}
	g.chrome.SetControlsVisible(false)
	g.chrome.SetScrollLocked(true)
	g.showInstant(o)
	return nil
}

func (g *Gate) hideInstant(id string) {
	o := g.overlays[id]
	if o == nil {
		return
	}
	g.anim.Kill(o)
	o.Visible = false
	o.Scale = 0
	o.Opacity = 0
	g.notify(EventOverlayClosed, id)
}

func (g *Gate) showInstant(o *Overlay) {
	g.remember(o.ID)
	g.anim.Kill(o)
	o.Visible = true
	o.Scale = 1
	o.Opacity = 1
	g.active = o.ID
	g.phase = PhaseOpen
	g.notify(EventOverlayOpened, o.ID)
}

func (g *Gate) remember(id string) {
	if i := slices.Index(g.cfg.Sequence, id); i >= 0 {
		g.last = i
	}
}

func (g *Gate) restoreChrome() {
	g.chrome.SetControlsVisible(true)
	g.chrome.SetScrollLocked(false)
}

func (g *Gate) notify(ev EventType, id string) {
	if g.OnChange != nil {
		g.OnChange(ev, id)
	}
}
