package ecs

import (
	"github.com/phanxgames/folio"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for folio interaction events.
// Subscribe to this in your ECS systems to receive hover, action, overlay and
// container events.
var InteractionEventType = events.NewEventType[folio.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) folio.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event folio.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Hotspot mirrors the interaction history of one scene node.
type Hotspot struct {
	NodeID  uint32
	Name    string
	Hovered bool
	Actions int
}

// HotspotComponent stores a Hotspot on an entity.
var HotspotComponent = donburi.NewComponentType[Hotspot]()

// Mirror keeps one entity per scene node that has been hovered or acted on.
// Entities are created on first sight and never removed.
type Mirror struct {
	world  donburi.World
	byNode map[uint32]donburi.Entity
}

// NewMirror subscribes a mirror to InteractionEventType on world. Entities
// update when the world's events are processed.
func NewMirror(world donburi.World) *Mirror {
	m := &Mirror{world: world, byNode: make(map[uint32]donburi.Entity)}
	InteractionEventType.Subscribe(world, m.handle)
	return m
}

func (m *Mirror) handle(w donburi.World, e folio.InteractionEvent) {
	if e.NodeID == 0 {
		return
	}
	switch e.Type {
	case folio.EventHoverEnter, folio.EventHoverLeave, folio.EventAction:
	default:
		return
	}
	h := m.lookup(e.NodeID, e.Node)
	switch e.Type {
	case folio.EventHoverEnter:
		h.Hovered = true
	case folio.EventHoverLeave:
		h.Hovered = false
	case folio.EventAction:
		h.Actions++
	}
}

func (m *Mirror) lookup(id uint32, name string) *Hotspot {
	ent, ok := m.byNode[id]
	if !ok || !m.world.Valid(ent) {
		ent = m.world.Create(HotspotComponent)
		m.byNode[id] = ent
		HotspotComponent.Get(m.world.Entry(ent)).NodeID = id
	}
	h := HotspotComponent.Get(m.world.Entry(ent))
	h.Name = name
	return h
}

// Hotspot returns the mirrored state of a node, or nil if it has never been
// seen.
func (m *Mirror) Hotspot(nodeID uint32) *Hotspot {
	ent, ok := m.byNode[nodeID]
	if !ok || !m.world.Valid(ent) {
		return nil
	}
	return HotspotComponent.Get(m.world.Entry(ent))
}

// Len returns the number of mirrored nodes.
func (m *Mirror) Len() int {
	return len(m.byNode)
}
