package folio

import (
	"strings"
)

// ActionKind is the closed set of things a hotspot click can do.
type ActionKind uint8

const (
	ActionUnknown       ActionKind = iota // token outside the closed set
	ActionOpenContainer                   // open the notebook prop
	ActionFocusCamera                     // tween the camera to a preset
	ActionShowOverlay                     // open a content overlay
	ActionRotateProp                      // spin the resolved node
)

var actionTokens = map[string]ActionKind{
	"open_container": ActionOpenContainer,
	"focus_camera":   ActionFocusCamera,
	"show_overlay":   ActionShowOverlay,
	"rotate_prop":    ActionRotateProp,
}

// ParseAction maps a config token to an ActionKind. Unrecognized tokens map
// to ActionUnknown; they are reported when dispatched, not when parsed.
func ParseAction(token string) ActionKind {
	return actionTokens[strings.ToLower(strings.TrimSpace(token))]
}

// String returns the config token for a.
func (a ActionKind) String() string {
	for tok, k := range actionTokens {
		if k == a {
			return tok
		}
	}
	return "unknown"
}

// InteractionEntry maps a node-name pattern to an action.
type InteractionEntry struct {
	// Pattern is matched by substring containment against node names.
	Pattern string
	// Action is the parsed action; Token keeps the authored string.
	Action ActionKind
	Token  string
	// Overlay is the overlay id for ActionShowOverlay.
	Overlay string
	// Preset is the camera preset id for ActionFocusCamera.
	Preset string
	// Angle is the rotation in radians for ActionRotateProp.
	Angle float32

	node *Node
}

// Node returns the scene node bound by Resolve, or nil.
func (e *InteractionEntry) Node() *Node {
	return e.node
}

// Interactions is an ordered registry of entries. Order matters: the first
// matching pattern wins.
type Interactions struct {
	markers Markers
	policy  MatchPolicy
	entries []*InteractionEntry
}

// NewInteractions creates an empty registry.
func NewInteractions(markers Markers, policy MatchPolicy) *Interactions {
	return &Interactions{markers: markers, policy: policy}
}

// Add appends an entry.
func (r *Interactions) Add(e *InteractionEntry) {
	if e.Action == ActionUnknown && e.Token != "" {
		e.Action = ParseAction(e.Token)
	}
	r.entries = append(r.entries, e)
}

// Entries returns the entries in registry order. The returned slice MUST NOT
// be mutated.
func (r *Interactions) Entries() []*InteractionEntry {
	return r.entries
}

// Resolve binds each unbound entry to a scene node whose name contains its
// pattern. Bound entries are never rebound. Returns the patterns that found
// no node.
func (r *Interactions) Resolve(root *Node) []string {
	var missing []string
	for _, e := range r.entries {
		if e.node != nil {
			continue
		}
		matches := root.FindAll(e.Pattern)
		if len(matches) == 0 {
			missing = append(missing, e.Pattern)
			logger().Warn("interaction pattern matched no node", "pattern", e.Pattern)
			continue
		}
		pick := matches[len(matches)-1]
		if r.policy == MatchFirst {
			pick = matches[0]
		}
		for _, m := range matches {
			if m != pick {
				logger().Warn("interaction pattern matched multiple nodes",
					"pattern", e.Pattern, "kept", pick.Name, "dropped", m.Name)
			}
		}
		e.node = pick
	}
	return missing
}

// Match returns the first entry whose pattern is contained in name.
func (r *Interactions) Match(name string) *InteractionEntry {
	var found *InteractionEntry
	for _, e := range r.entries {
		if e.Pattern == "" || !strings.Contains(name, e.Pattern) {
			continue
		}
		if found == nil {
			found = e
			continue
		}
		logger().Warn("node matches multiple interaction patterns; first wins",
			"node", name, "kept", found.Pattern, "dropped", e.Pattern)
	}
	return found
}

// Find returns the entry with exactly this pattern. Page buttons use it to
// dispatch without a raycast.
func (r *Interactions) Find(pattern string) *InteractionEntry {
	for _, e := range r.entries {
		if e.Pattern == pattern {
			return e
		}
	}
	return nil
}

// ResolveClick resolves the nearest hit to an entry. It returns nil when
// nothing was hit, the node is collapsed, the node lacks the clickable marker,
// or no pattern matches.
func (r *Interactions) ResolveClick(hits []Hit) *InteractionEntry {
	if len(hits) == 0 {
		return nil
	}
	orig := hits[0].Hitbox.Original
	if orig == nil || orig.Collapsed() {
		return nil
	}
	if !strings.Contains(orig.Name, r.markers.Clickable) {
		logger().Debug("clicked node is not clickable", "node", orig.Name)
		return nil
	}
	e := r.Match(orig.Name)
	if e == nil {
		logger().Warn("no interaction for clicked node", "node", orig.Name)
	}
	return e
}
