package folio

import (
	"strings"
)

// Markers are the name fragments authored into the room model that tag nodes
// for interaction.
type Markers struct {
	// Pickable marks mesh nodes that receive a hitbox.
	Pickable string `yaml:"pickable" toml:"pickable"`
	// Hover marks nodes that animate on hover.
	Hover string `yaml:"hover" toml:"hover"`
	// Passive marks hover targets that only change the cursor.
	Passive string `yaml:"passive" toml:"passive"`
	// Clickable marks nodes whose clicks resolve to an interaction.
	Clickable string `yaml:"clickable" toml:"clickable"`
	// BaseSuffixes are stripped from a pickable name to find its hover partner.
	BaseSuffixes []string `yaml:"base_suffixes" toml:"base_suffixes"`
}

// DefaultMarkers returns the markers used by the room model.
func DefaultMarkers() Markers {
	return Markers{
		Pickable:     "Raycaster",
		Hover:        "Hover",
		Passive:      "Hover3",
		Clickable:    "Pointer",
		BaseSuffixes: []string{"_Raycaster_Pointer", "_Raycaster"},
	}
}

// baseName strips the first matching suffix from name.
func (m Markers) baseName(name string) string {
	for _, s := range m.BaseSuffixes {
		if s != "" && strings.HasSuffix(name, s) {
			return strings.TrimSuffix(name, s)
		}
	}
	return name
}

// Hitbox is an invisible box stand-in for one pickable node. Its bounds are
// captured once at build time and never follow the original's animation.
type Hitbox struct {
	// Node is the proxy inserted into the scene graph.
	Node *Node
	// Bounds is the world-space box rays are tested against.
	Bounds AABB
	// Original is the pickable node this hitbox shadows.
	Original *Node
	// HoverVisual is the separate node that receives hover feedback, if any.
	HoverVisual *Node

	noHover bool
}

// HoverTarget returns HoverVisual when set, otherwise Original.
func (h *Hitbox) HoverTarget() *Node {
	if h.HoverVisual != nil {
		return h.HoverVisual
	}
	return h.Original
}

// Animates reports whether hover feedback applies to this hitbox at all.
func (h *Hitbox) Animates() bool {
	return !h.noHover
}

// Hitboxes builds and owns the static hitboxes of a scene.
type Hitboxes struct {
	markers  Markers
	policy   MatchPolicy
	fallback HoverFallback

	list    []*Hitbox
	byProxy map[*Node]*Hitbox
	builds  int
}

// NewHitboxes creates an empty registry.
func NewHitboxes(markers Markers, policy MatchPolicy, fallback HoverFallback) *Hitboxes {
	return &Hitboxes{
		markers:  markers,
		policy:   policy,
		fallback: fallback,
		byProxy:  make(map[*Node]*Hitbox),
	}
}

// Build creates one hitbox per pickable mesh under root and inserts the
// proxies as children of root. It returns the number of hitboxes created.
//
// Build is meant to be called once after the model loads. Calling it again
// adds a second proxy for every pickable node.
func (r *Hitboxes) Build(root *Node) int {
	r.builds++
	if r.builds > 1 {
		logger().Warn("hitboxes built more than once; proxies will be duplicated",
			"builds", r.builds)
	}

	var pickables []*Node
	root.Walk(func(n *Node) {
		if n.Kind == NodeKindMesh && strings.Contains(n.Name, r.markers.Pickable) {
			pickables = append(pickables, n)
		}
	})

	created := make([]*Hitbox, 0, len(pickables))
	for _, n := range pickables {
		box := n.WorldBounds()
		if box.IsEmpty() {
			logger().Warn("pickable node has no geometry", "node", n.Name)
			continue
		}
		hb := &Hitbox{
			Node:     newProxy(n.Name+"_Hitbox", box),
			Bounds:   box,
			Original: n,
		}
		hb.HoverVisual = r.findHoverVisual(root, n)
		if hb.HoverVisual == nil && r.fallback == HoverFallbackNone {
			hb.noHover = true
		}
		created = append(created, hb)
		logger().Debug("created hitbox", "node", n.Name, "hover", nodeName(hb.HoverVisual))
	}

	// Insert after traversal so proxies never show up as candidates.
	for _, hb := range created {
		root.AddChild(hb.Node)
		r.list = append(r.list, hb)
		r.byProxy[hb.Node] = hb
	}
	logger().Info("created static hitboxes", "count", len(created), "total", len(r.list))
	return len(created)
}

// findHoverVisual searches the whole scene for a node other than n sharing n's
// base name and carrying the hover marker.
func (r *Hitboxes) findHoverVisual(root, n *Node) *Node {
	base := r.markers.baseName(n.Name)
	var found *Node
	root.Walk(func(c *Node) {
		if c == n || c.Kind == NodeKindProxy {
			return
		}
		if !strings.Contains(c.Name, base) || !strings.Contains(c.Name, r.markers.Hover) {
			return
		}
		if found == nil || r.policy == MatchLast {
			if found != nil {
				logger().Warn("multiple hover visuals match; keeping last",
					"node", n.Name, "dropped", found.Name, "kept", c.Name)
			}
			found = c
			return
		}
		logger().Warn("multiple hover visuals match; keeping first",
			"node", n.Name, "kept", found.Name, "dropped", c.Name)
	})
	return found
}

// All returns every hitbox in build order. The returned slice MUST NOT be
// mutated.
func (r *Hitboxes) All() []*Hitbox {
	return r.list
}

// Len returns the number of hitboxes.
func (r *Hitboxes) Len() int {
	return len(r.list)
}

// Lookup returns the hitbox owning a proxy node.
func (r *Hitboxes) Lookup(proxy *Node) *Hitbox {
	return r.byProxy[proxy]
}

func nodeName(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Name
}
