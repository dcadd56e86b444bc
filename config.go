package folio

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// HoverConfig tunes hover feedback.
type HoverConfig struct {
	Scale         float32 `yaml:"scale" toml:"scale"`
	EnterDuration float32 `yaml:"enter_duration" toml:"enter_duration"`
	ExitDuration  float32 `yaml:"exit_duration" toml:"exit_duration"`
	// RequireMarker limits enter/exit to targets carrying the hover marker.
	RequireMarker bool `yaml:"require_marker" toml:"require_marker"`
	// Fallback is "self" or "none".
	Fallback string `yaml:"fallback" toml:"fallback"`
}

// CameraConfig is the initial camera and orbit setup.
type CameraConfig struct {
	FOV      float32   `yaml:"fov" toml:"fov"`
	Near     float32   `yaml:"near" toml:"near"`
	Far      float32   `yaml:"far" toml:"far"`
	Position []float32 `yaml:"position" toml:"position"`
	Target   []float32 `yaml:"target" toml:"target"`
	Damping  float32   `yaml:"damping" toml:"damping"`
	// FocusDuration is the preset tween length in seconds.
	FocusDuration float32 `yaml:"focus_duration" toml:"focus_duration"`
}

// PresetConfig is a named camera pose.
type PresetConfig struct {
	Position []float32 `yaml:"position" toml:"position"`
	Target   []float32 `yaml:"target" toml:"target"`
}

// InteractionConfig is one authored interaction entry.
type InteractionConfig struct {
	Pattern string  `yaml:"pattern" toml:"pattern"`
	Action  string  `yaml:"action" toml:"action"`
	Overlay string  `yaml:"overlay" toml:"overlay"`
	Preset  string  `yaml:"preset" toml:"preset"`
	Angle   float32 `yaml:"angle" toml:"angle"`
}

// OverlayConfig is one overlay panel.
type OverlayConfig struct {
	ID    string `yaml:"id" toml:"id"`
	Title string `yaml:"title" toml:"title"`
	Body  string `yaml:"body" toml:"body"`
}

// GateSection tunes the modal gate.
type GateSection struct {
	OpenDuration  float32  `yaml:"open_duration" toml:"open_duration"`
	CloseDuration float32  `yaml:"close_duration" toml:"close_duration"`
	Sequence      []string `yaml:"sequence" toml:"sequence"`
}

// ContainerSection names the openable prop and its hotspots.
type ContainerSection struct {
	// Prop is the name pattern of the prop node. Empty disables the container.
	Prop string `yaml:"prop" toml:"prop"`
	// Hotspots are name patterns of the nodes revealed when the prop opens.
	Hotspots       []string  `yaml:"hotspots" toml:"hotspots"`
	Axis           []float32 `yaml:"axis" toml:"axis"`
	Angle          float32   `yaml:"angle" toml:"angle"`
	OpenDuration   float32   `yaml:"open_duration" toml:"open_duration"`
	RevealDuration float32   `yaml:"reveal_duration" toml:"reveal_duration"`
	// View is the preset the camera focuses on when the prop opens.
	View          string  `yaml:"view" toml:"view"`
	TargetDrift   float32 `yaml:"target_drift" toml:"target_drift"`
	PositionDrift float32 `yaml:"position_drift" toml:"position_drift"`
}

// AssetsConfig lists what the loader fetches.
type AssetsConfig struct {
	Model string `yaml:"model" toml:"model"`
	// Textures maps texture set names to image files.
	Textures map[string]string `yaml:"textures" toml:"textures"`
	// DefaultTexture is assigned to meshes that name no texture.
	DefaultTexture string `yaml:"default_texture" toml:"default_texture"`
	// Untextured lists mesh names drawn flat without the texture set.
	Untextured []string `yaml:"untextured" toml:"untextured"`
}

// Config is the complete scene configuration.
type Config struct {
	Markers Markers     `yaml:"markers" toml:"markers"`
	Hover   HoverConfig `yaml:"hover" toml:"hover"`
	// MatchPolicy is "first" or "last".
	MatchPolicy  string                  `yaml:"match_policy" toml:"match_policy"`
	Camera       CameraConfig            `yaml:"camera" toml:"camera"`
	Presets      map[string]PresetConfig `yaml:"presets" toml:"presets"`
	Interactions []InteractionConfig     `yaml:"interactions" toml:"interactions"`
	Overlays     []OverlayConfig         `yaml:"overlays" toml:"overlays"`
	Gate         GateSection             `yaml:"gate" toml:"gate"`
	Container    ContainerSection        `yaml:"container" toml:"container"`
	Assets       AssetsConfig            `yaml:"assets" toml:"assets"`
	Debug        bool                    `yaml:"debug" toml:"debug"`
}

// DefaultConfig returns the configuration of the portfolio room.
func DefaultConfig() Config {
	gate := DefaultGateConfig()
	box := DefaultContainerConfig()
	overlays := []OverlayConfig{
		{ID: "about", Title: "About"},
		{ID: "contact", Title: "Contact"},
		{ID: "enter", Title: "Welcome"},
		{ID: "gallery", Title: "Gallery"},
	}
	for i := 1; i <= 5; i++ {
		overlays = append(overlays, OverlayConfig{ID: fmt.Sprintf("work%d", i), Title: fmt.Sprintf("Work %d", i)})
	}
	return Config{
		Markers: DefaultMarkers(),
		Hover: HoverConfig{
			Scale:         1.15,
			EnterDuration: 0.3,
			ExitDuration:  0.3,
			RequireMarker: true,
			Fallback:      "self",
		},
		MatchPolicy: "last",
		Camera: CameraConfig{
			FOV:           45,
			Near:          0.1,
			Far:           1000,
			Position:      []float32{5, 5.5, -11.7},
			Target:        []float32{1.4, 2.1, -1.6},
			Damping:       0.5,
			FocusDuration: 1.5,
		},
		Presets: map[string]PresetConfig{
			"home": {Position: []float32{5, 5.5, -11.7}, Target: []float32{1.4, 2.1, -1.6}},
		},
		Overlays: overlays,
		Gate: GateSection{
			OpenDuration:  gate.OpenDuration,
			CloseDuration: gate.CloseDuration,
			Sequence:      gate.Sequence,
		},
		Container: ContainerSection{
			Axis:           []float32{box.Axis[0], box.Axis[1], box.Axis[2]},
			Angle:          box.Angle,
			OpenDuration:   box.OpenDuration,
			RevealDuration: box.RevealDuration,
			TargetDrift:    box.TargetDrift,
			PositionDrift:  box.PositionDrift,
		},
		Assets: AssetsConfig{
			Untextured: []string{"Plane"},
		},
	}
}

// ParseConfig decodes data over DefaultConfig, so omitted fields keep their
// defaults. Unknown fields are rejected.
func ParseConfig(data []byte, format Format) (Config, error) {
	cfg := DefaultConfig()
	if err := decode(data, format, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML or TOML config file.
func LoadConfig(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every structural problem in the config at once.
// Unknown action tokens are not errors here; they fail at dispatch.
func (c Config) Validate() error {
	var errs []error
	if c.Markers.Pickable == "" || c.Markers.Clickable == "" || c.Markers.Hover == "" {
		errs = append(errs, errors.New("markers: pickable, hover and clickable must be set"))
	}
	if _, err := c.matchPolicy(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.hoverFallback(); err != nil {
		errs = append(errs, err)
	}
	for _, v := range [][]float32{c.Camera.Position, c.Camera.Target, c.Container.Axis} {
		if _, err := vec3(v, mgl32.Vec3{}); err != nil {
			errs = append(errs, fmt.Errorf("vector: %w", err))
		}
	}
	for id, p := range c.Presets {
		if _, err := vec3(p.Position, mgl32.Vec3{}); err != nil {
			errs = append(errs, fmt.Errorf("preset %q position: %w", id, err))
		}
		if _, err := vec3(p.Target, mgl32.Vec3{}); err != nil {
			errs = append(errs, fmt.Errorf("preset %q target: %w", id, err))
		}
	}
	overlays := make(map[string]bool, len(c.Overlays))
	for _, o := range c.Overlays {
		if o.ID == "" {
			errs = append(errs, errors.New("overlay without id"))
			continue
		}
		if overlays[o.ID] {
			errs = append(errs, fmt.Errorf("duplicate overlay %q", o.ID))
		}
		overlays[o.ID] = true
	}
	for _, id := range c.Gate.Sequence {
		if !overlays[id] {
			errs = append(errs, fmt.Errorf("gate sequence: %q: %w", id, ErrOverlayNotFound))
		}
	}
	for i, ic := range c.Interactions {
		if ic.Pattern == "" {
			errs = append(errs, fmt.Errorf("interaction %d: empty pattern", i))
		}
		if ic.Preset != "" {
			if _, ok := c.Presets[ic.Preset]; !ok {
				errs = append(errs, fmt.Errorf("interaction %q: preset %q: %w", ic.Pattern, ic.Preset, ErrUnknownPreset))
			}
		}
	}
	if v := c.Container.View; v != "" {
		if _, ok := c.Presets[v]; !ok {
			errs = append(errs, fmt.Errorf("container view %q: %w", v, ErrUnknownPreset))
		}
	}
	return errors.Join(errs...)
}

func (c Config) matchPolicy() (MatchPolicy, error) {
	switch strings.ToLower(c.MatchPolicy) {
	case "", "last":
		return MatchLast, nil
	case "first":
		return MatchFirst, nil
	default:
		return MatchLast, fmt.Errorf("match_policy %q: want first or last", c.MatchPolicy)
	}
}

func (c Config) hoverFallback() (HoverFallback, error) {
	switch strings.ToLower(c.Hover.Fallback) {
	case "", "self":
		return HoverFallbackSelf, nil
	case "none":
		return HoverFallbackNone, nil
	default:
		return HoverFallbackSelf, fmt.Errorf("hover fallback %q: want self or none", c.Hover.Fallback)
	}
}

func (c Config) preset(id string) (CameraPreset, bool) {
	p, ok := c.Presets[id]
	if !ok {
		return CameraPreset{}, false
	}
	pos, _ := vec3(p.Position, mgl32.Vec3{})
	tgt, _ := vec3(p.Target, mgl32.Vec3{})
	return CameraPreset{Position: pos, Target: tgt}, true
}

func (c Config) gateConfig() GateConfig {
	return GateConfig{
		OpenDuration:  c.Gate.OpenDuration,
		CloseDuration: c.Gate.CloseDuration,
		Sequence:      c.Gate.Sequence,
	}
}

func (c Config) containerConfig() ContainerConfig {
	axis, _ := vec3(c.Container.Axis, mgl32.Vec3{0, 1, 0})
	var view *CameraPreset
	if p, ok := c.preset(c.Container.View); ok {
		view = &p
	}
	return ContainerConfig{
		Axis:           axis,
		Angle:          c.Container.Angle,
		OpenDuration:   c.Container.OpenDuration,
		RevealDuration: c.Container.RevealDuration,
		View:           view,
		TargetDrift:    c.Container.TargetDrift,
		PositionDrift:  c.Container.PositionDrift,
	}
}
