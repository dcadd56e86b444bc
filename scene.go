package folio

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type EventType
	// NodeID and Node identify the scene node involved, if any.
	NodeID uint32
	Node   string
	// Overlay is set for overlay events and show_overlay actions.
	Overlay string
	// Action is set for EventAction.
	Action ActionKind
	// Phase is set for EventContainerPhase.
	Phase Phase
}

// rotateDuration is the length of a rotate_prop spin in seconds.
const rotateDuration = 0.6

// Scene is the top-level object that owns the room graph, the camera and all
// interaction state. It is driven by one Update per frame.
type Scene struct {
	cfg   Config
	root  *Node
	store EntityStore
	debug bool

	camera *Camera
	orbit  *OrbitControls
	anim   *Animator
	chrome Chrome

	hitboxes     *Hitboxes
	hover        *HoverState
	hoverFn      HoverFunc
	interactions *Interactions
	gate         *Gate
	container    *Container

	// Input state
	pointer      Pointer
	pointerSeen  bool
	mouse        pointerState
	dragDeadZone float64
	injectQueue  []syntheticPointerEvent
	lastHover    HoverResult
	cursor       CursorShape

	// Loading state
	room     *Node
	loader   *Loader
	tracker  *LoadTracker
	textures map[string]*Texture
	onReady  []func()

	// Test automation
	testRunner      *TestRunner
	screenshotQueue []Shot

	// ScreenshotDir is where Screenshot writes PNG files and their state
	// sidecars.
	ScreenshotDir string

	frame uint64
}

// NewScene creates a scene from cfg. The room is attached later by Mount or
// Load.
func NewScene(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}
	policy, _ := cfg.matchPolicy()
	fallback, _ := cfg.hoverFallback()

	s := &Scene{
		cfg:          cfg,
		root:         NewGroup("root"),
		debug:        cfg.Debug,
		anim:         NewAnimator(),
		chrome:       nopChrome{},
		dragDeadZone: defaultDragDeadZone,
		textures:     make(map[string]*Texture),

		ScreenshotDir: "screenshots",
	}

	s.camera = NewCamera(1, 1)
	s.camera.FOV = cfg.Camera.FOV
	s.camera.Near = cfg.Camera.Near
	s.camera.Far = cfg.Camera.Far
	s.camera.Position, _ = vec3(cfg.Camera.Position, mgl32.Vec3{})
	s.camera.Target, _ = vec3(cfg.Camera.Target, mgl32.Vec3{})
	s.orbit = NewOrbitControls(cfg.Camera.Damping)

	s.hitboxes = NewHitboxes(cfg.Markers, policy, fallback)
	s.hover = NewHoverState(cfg.Markers, cfg.Hover.RequireMarker)
	s.hoverFn = HoverEffects{
		Animator:      s.anim,
		Scale:         cfg.Hover.Scale,
		EnterDuration: cfg.Hover.EnterDuration,
		ExitDuration:  cfg.Hover.ExitDuration,
	}.Apply

	s.interactions = NewInteractions(cfg.Markers, policy)
	for _, ic := range cfg.Interactions {
		s.interactions.Add(&InteractionEntry{
			Pattern: ic.Pattern,
			Token:   ic.Action,
			Action:  ParseAction(ic.Action),
			Overlay: ic.Overlay,
			Preset:  ic.Preset,
			Angle:   ic.Angle,
		})
	}

	s.gate = NewGate(s.anim, s.chrome, cfg.gateConfig())
	for _, oc := range cfg.Overlays {
		s.gate.Register(&Overlay{ID: oc.ID, Title: oc.Title, Body: oc.Body})
	}
	s.gate.OnChange = func(ev EventType, id string) {
		logger().Debug("overlay changed", "event", ev, "overlay", id)
		s.emit(InteractionEvent{Type: ev, Overlay: id})
	}

	s.container = NewContainer(s.anim, cfg.containerConfig())
	s.container.OnChange = func(p Phase) {
		logger().Debug("container phase", "phase", p)
		ev := InteractionEvent{Type: EventContainerPhase, Phase: p}
		if prop := s.container.Prop(); prop != nil {
			ev.NodeID, ev.Node = prop.ID, prop.Name
		}
		s.emit(ev)
	}

	s.tracker = NewLoadTracker(0, s.fireReady)
	return s, nil
}

// --- Accessors ---

// Root returns the scene's root node. The room and the hitbox proxies are its
// children.
func (s *Scene) Root() *Node { return s.root }

// Room returns the mounted room node, or nil before Mount.
func (s *Scene) Room() *Node { return s.room }

// Config returns the configuration the scene was built from.
func (s *Scene) Config() Config { return s.cfg }

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera { return s.camera }

// Orbit returns the orbit controls.
func (s *Scene) Orbit() *OrbitControls { return s.orbit }

// Animator returns the scene animator.
func (s *Scene) Animator() *Animator { return s.anim }

// Hitboxes returns the hitbox registry.
func (s *Scene) Hitboxes() *Hitboxes { return s.hitboxes }

// Hover returns the hover state machine.
func (s *Scene) Hover() *HoverState { return s.hover }

// Interactions returns the interaction registry.
func (s *Scene) Interactions() *Interactions { return s.interactions }

// Gate returns the modal gate.
func (s *Scene) Gate() *Gate { return s.gate }

// Container returns the container controller.
func (s *Scene) Container() *Container { return s.container }

// Pointer returns the pointer state.
func (s *Scene) Pointer() *Pointer { return &s.pointer }

// Cursor returns the cursor shape last requested from the chrome.
func (s *Scene) Cursor() CursorShape { return s.cursor }

// Texture returns a loaded texture set by name.
func (s *Scene) Texture(name string) *Texture { return s.textures[name] }

// Frame returns the number of Update calls so far.
func (s *Scene) Frame() uint64 { return s.frame }

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetChrome connects the page chrome. A nil chrome disconnects it.
func (s *Scene) SetChrome(c Chrome) {
	if c == nil {
		c = nopChrome{}
	}
	s.chrome = c
	s.gate.SetChrome(c)
	c.SetCursor(s.cursor)
}

// SetHoverFunc replaces the hover feedback callback. A nil fn restores the
// default scale effect.
func (s *Scene) SetHoverFunc(fn HoverFunc) {
	if fn == nil {
		fn = HoverEffects{
			Animator:      s.anim,
			Scale:         s.cfg.Hover.Scale,
			EnterDuration: s.cfg.Hover.EnterDuration,
			ExitDuration:  s.cfg.Hover.ExitDuration,
		}.Apply
	}
	s.hoverFn = fn
}

// SetDebugMode enables or disables per-frame debug logging and hitbox
// wireframes.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// --- Mounting and loading ---

// Mount attaches a loaded room to the scene: it records base poses, builds the
// hitboxes, resolves interactions and binds the container. Patterns that match
// nothing are returned joined and wrapping ErrResolutionMiss; the scene keeps
// running and those interactions stay inert.
func (s *Scene) Mount(room *Node) error {
	if s.room != nil {
		logger().Warn("room mounted twice; hitboxes will be duplicated", "room", room.Name)
	}
	s.room = room
	s.root.AddChild(room)
	room.Walk((*Node).SnapshotBase)
	s.assignTextures()

	s.hitboxes.Build(s.root)

	var errs []error
	missing := s.interactions.Resolve(s.root)
	for _, p := range missing {
		errs = append(errs, fmt.Errorf("interaction %q: %w", p, ErrResolutionMiss))
	}
	required := len(s.interactions.Entries())

	if pat := s.cfg.Container.Prop; pat != "" {
		required += 1 + len(s.cfg.Container.Hotspots)
		var spots []*Node
		for _, hp := range s.cfg.Container.Hotspots {
			found := s.root.FindAll(hp)
			if len(found) == 0 {
				missing = append(missing, hp)
				errs = append(errs, fmt.Errorf("container hotspot %q: %w", hp, ErrResolutionMiss))
			}
			spots = append(spots, found...)
		}
		if prop := s.pick(pat); prop != nil {
			s.container.Bind(prop, spots)
		} else {
			missing = append(missing, pat)
			errs = append(errs, fmt.Errorf("container prop %q: %w", pat, ErrResolutionMiss))
		}
	}

	s.tracker.ModelLoaded()
	s.tracker.SetHotspots(required, required-len(missing))
	if len(missing) > 0 {
		logger().Error("hotspots unresolved; scene will not report ready", "missing", missing)
	}
	logger().Info("room mounted", "room", room.Name,
		"hitboxes", s.hitboxes.Len(), "required", required)
	return errors.Join(errs...)
}

// pick returns the node matching pattern under the match policy.
func (s *Scene) pick(pattern string) *Node {
	found := s.root.FindAll(pattern)
	if len(found) == 0 {
		return nil
	}
	if policy, _ := s.cfg.matchPolicy(); policy == MatchFirst {
		return found[0]
	}
	return found[len(found)-1]
}

// Load starts loading the configured room and texture sets in the background.
// Results are applied by Update as they arrive; OnReady callbacks fire once
// everything has loaded and every hotspot resolved.
func (s *Scene) Load(ctx context.Context) error {
	if s.cfg.Assets.Model == "" {
		return errors.New("folio: load: no model configured")
	}
	if s.loader != nil {
		return errors.New("folio: load: already loading")
	}
	s.tracker = NewLoadTracker(len(s.cfg.Assets.Textures), s.fireReady)
	s.loader = NewLoader(ctx)
	names := make([]string, 0, len(s.cfg.Assets.Textures))
	for name := range s.cfg.Assets.Textures {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		s.loader.LoadTexture(name, s.cfg.Assets.Textures[name])
	}
	s.loader.LoadModel(s.cfg.Assets.Model)
	return nil
}

// Loader returns the background loader started by Load, or nil.
func (s *Scene) Loader() *Loader { return s.loader }

func (s *Scene) pollLoads() {
	if s.loader == nil {
		return
	}
	s.loader.Poll(func(r LoadResult) {
		switch {
		case r.Err != nil:
			logger().Error("asset failed to load", "path", r.Path, "err", r.Err)
		case r.Texture != nil:
			s.textures[r.Texture.Name] = r.Texture
			s.assignTextures()
			s.tracker.TextureLoaded()
		case r.Model != nil:
			if err := s.Mount(r.Model); err != nil {
				logger().Warn("room mounted with unresolved hotspots", "err", err)
			}
		}
	})
}

// assignTextures gives every textured mesh its texture set. Runs after each
// texture arrives and on mount, so order does not matter.
func (s *Scene) assignTextures() {
	if s.room == nil || len(s.textures) == 0 {
		return
	}
	var only *Texture
	if len(s.textures) == 1 {
		for _, t := range s.textures {
			only = t
		}
	}
	s.room.Walk(func(n *Node) {
		if n.Kind != NodeKindMesh || slices.Contains(s.cfg.Assets.Untextured, n.Name) {
			return
		}
		key := n.Texture
		if key == "" {
			key = s.cfg.Assets.DefaultTexture
		}
		if t := s.textures[key]; t != nil {
			n.Material = t
		} else if only != nil {
			n.Material = only
		}
	})
}

// OnReady registers fn to run once the scene is ready. If it already is, fn
// runs immediately.
func (s *Scene) OnReady(fn func()) {
	if s.tracker.Ready() {
		fn()
		return
	}
	s.onReady = append(s.onReady, fn)
}

// Ready reports whether every asset has loaded and every hotspot resolved.
func (s *Scene) Ready() bool {
	return s.tracker.Ready()
}

// Progress reports loading progress in [0, 1].
func (s *Scene) Progress() float32 {
	return s.tracker.Progress()
}

func (s *Scene) fireReady() {
	logger().Info("scene ready")
	s.emit(InteractionEvent{Type: EventReady})
	cbs := s.onReady
	s.onReady = nil
	for _, fn := range cbs {
		fn()
	}
}

// --- Frame ---

// Update advances one frame: applies finished loads, orbit and camera motion,
// tweens, container drift and pointer hover. Orbit and camera always run,
// even while the gate is open.
func (s *Scene) Update(dt float32) {
	s.frame++
	s.pollLoads()
	s.orbit.Update(s.camera)
	s.camera.update(dt)
	s.anim.Update(dt)
	s.container.CheckDrift(s.camera)
	if s.pointerSeen {
		s.refreshHover()
	}
}

// --- Device input ---

// PointerMove records the pointer position in pixels and refreshes hover.
func (s *Scene) PointerMove(x, y float32) {
	s.pointer.Update(x, y, s.camera.Width, s.camera.Height)
	s.pointerSeen = true
	s.refreshHover()
}

// Click raycasts the current pointer and dispatches the resolved interaction.
func (s *Scene) Click() {
	if s.room == nil {
		return
	}
	hits := s.pointer.Raycast(s.camera, s.hitboxes.All())
	e := s.ResolveClick(hits)
	if e == nil {
		return
	}
	s.reportErr(s.Dispatch(e))
}

// Resize updates the viewport size in pixels.
func (s *Scene) Resize(width, height float32) {
	s.camera.Resize(width, height)
}

// OrbitDrag rotates the camera around its target by a drag delta in pixels.
func (s *Scene) OrbitDrag(dx, dy float32) {
	s.orbit.Rotate(dx, dy)
}

// Zoom dollies the camera. Positive deltas move closer.
func (s *Scene) Zoom(delta float32) {
	s.orbit.Zoom(delta)
}

func (s *Scene) refreshHover() {
	if s.room == nil || s.gate.IsOpen() {
		return
	}
	hits := s.pointer.Raycast(s.camera, s.hitboxes.All())
	s.debugHits(hits)
	s.ApplyHover(hits)
}

// --- Gated interaction ---

// ApplyHover runs the hover state machine over hits and updates the cursor.
// It does nothing while the gate is open.
func (s *Scene) ApplyHover(hits []Hit) HoverResult {
	if s.gate.IsOpen() {
		return HoverResult{}
	}
	res := s.hover.Apply(hits, s.onHover)
	s.lastHover = res
	s.setCursor(s.hover.CursorFor(res))
	return res
}

// ResolveClick resolves hits to an interaction entry. It returns nil while the
// gate is open.
func (s *Scene) ResolveClick(hits []Hit) *InteractionEntry {
	if s.gate.IsOpen() {
		return nil
	}
	return s.interactions.ResolveClick(hits)
}

// LastHover returns the result of the most recent ApplyHover.
func (s *Scene) LastHover() HoverResult { return s.lastHover }

// ResetInteraction drops the hovered node and restores the default cursor.
func (s *Scene) ResetInteraction() {
	s.hover.Reset(s.onHover)
	s.lastHover = HoverResult{}
	s.setCursor(CursorDefault)
}

func (s *Scene) onHover(n *Node, entered bool) {
	s.hoverFn(n, entered)
	ev := InteractionEvent{Type: EventHoverLeave, NodeID: n.ID, Node: n.Name}
	if entered {
		ev.Type = EventHoverEnter
	}
	s.emit(ev)
}

func (s *Scene) setCursor(c CursorShape) {
	if c == s.cursor {
		return
	}
	s.cursor = c
	s.chrome.SetCursor(c)
}

// --- Dispatch ---

// Dispatch performs the action of an interaction entry. Errors are
// non-fatal and leave the scene unchanged.
func (s *Scene) Dispatch(e *InteractionEntry) error {
	var err error
	switch e.Action {
	case ActionOpenContainer:
		if !s.container.Bound() {
			return fmt.Errorf("dispatch %q: %w", e.Pattern, ErrNoContainer)
		}
		s.container.Open()
		if view := s.cfg.Container.View; view != "" {
			err = s.FocusPreset(view)
		}
	case ActionFocusCamera:
		err = s.FocusPreset(e.Preset)
	case ActionShowOverlay:
		if e.Overlay == "" {
			return fmt.Errorf("dispatch %q: %w", e.Pattern, ErrMissingOverlayID)
		}
		err = s.OpenOverlay(e.Overlay)
	case ActionRotateProp:
		err = s.rotateProp(e)
	default:
		return fmt.Errorf("dispatch %q: %q: %w", e.Pattern, e.Token, ErrUnknownAction)
	}
	if err != nil {
		return fmt.Errorf("dispatch %q: %w", e.Pattern, err)
	}
	ev := InteractionEvent{Type: EventAction, Action: e.Action, Overlay: e.Overlay}
	if n := e.Node(); n != nil {
		ev.NodeID, ev.Node = n.ID, n.Name
	}
	logger().Info("interaction", "pattern", e.Pattern, "action", e.Action)
	s.emit(ev)
	return nil
}

func (s *Scene) rotateProp(e *InteractionEntry) error {
	n := e.Node()
	if n == nil {
		return ErrUnresolvedNode
	}
	s.anim.KillProps(n, PropRotation)
	to := n.Base.Rotation.Add(mgl32.Vec3{0, e.Angle, 0})
	// Hover exit returns to the base pose, so the spin becomes the new base.
	n.Base.Rotation = to
	s.anim.Add(TweenRotation(n, to, rotateDuration, ease.OutQuad))
	return nil
}

// PressButton dispatches the entry registered under name, bypassing the
// raycast. Page buttons use it; it is not gated.
func (s *Scene) PressButton(name string) error {
	e := s.interactions.Find(name)
	if e == nil {
		return fmt.Errorf("press %q: %w", name, ErrUnknownButton)
	}
	return s.Dispatch(e)
}

// --- Page chrome API ---

// IsGateOpen reports whether scene interaction is suspended.
func (s *Scene) IsGateOpen() bool {
	return s.gate.IsOpen()
}

// SetGateOpen forces the gate flag.
func (s *Scene) SetGateOpen(open bool) {
	s.gate.SetOpen(open)
	if open {
		s.ResetInteraction()
	}
}

// OpenOverlay shows an overlay and suspends scene interaction.
func (s *Scene) OpenOverlay(id string) error {
	if err := s.gate.Open(id); err != nil {
		return err
	}
	s.ResetInteraction()
	return nil
}

// CloseOverlay hides the active overlay; onComplete runs once interaction has
// resumed.
func (s *Scene) CloseOverlay(onComplete func()) {
	s.gate.Close(onComplete)
}

// NavigateOverlay steps to the "next" or "prev" overlay in the sequence.
func (s *Scene) NavigateOverlay(dir string) error {
	return s.gate.Navigate(ParseDirection(dir))
}

// --- Camera ---

// FocusPreset tweens the camera to a configured preset.
func (s *Scene) FocusPreset(id string) error {
	p, ok := s.cfg.preset(id)
	if !ok {
		return fmt.Errorf("focus %q: %w", id, ErrUnknownPreset)
	}
	s.camera.FocusOn(p, s.cfg.Camera.FocusDuration, ease.InOutQuad)
	return nil
}

// HomeCamera returns the camera to the "home" preset, or to the configured
// start pose when no such preset exists.
func (s *Scene) HomeCamera() {
	if err := s.FocusPreset("home"); err == nil {
		return
	}
	pos, _ := vec3(s.cfg.Camera.Position, mgl32.Vec3{})
	tgt, _ := vec3(s.cfg.Camera.Target, mgl32.Vec3{})
	s.camera.FocusOn(CameraPreset{Position: pos, Target: tgt}, s.cfg.Camera.FocusDuration, ease.InOutQuad)
}

// --- Events ---

func (s *Scene) emit(ev InteractionEvent) {
	if s.store != nil {
		s.store.EmitEvent(ev)
	}
}

// reportErr logs a non-fatal interaction error.
func (s *Scene) reportErr(err error) {
	if err != nil {
		logger().Warn("interaction failed", "err", err)
	}
}
