package ecs

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/folio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	require.NotNil(t, store)
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []folio.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e folio.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(folio.InteractionEvent{Type: folio.EventHoverEnter, NodeID: 42, Node: "Desk_Hover"})
	store.EmitEvent(folio.InteractionEvent{Type: folio.EventOverlayOpened, Overlay: "about"})

	// Events are queued until processed.
	assert.Empty(t, received)
	InteractionEventType.ProcessEvents(world)

	require.Len(t, received, 2)
	assert.Equal(t, folio.EventHoverEnter, received[0].Type)
	assert.Equal(t, uint32(42), received[0].NodeID)
	assert.Equal(t, "about", received[1].Overlay)
}

func TestDonburiStore_ImplementsEntityStore(t *testing.T) {
	world := donburi.NewWorld()
	var store folio.EntityStore = NewDonburiStore(world)
	_ = store
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e folio.InteractionEvent) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e folio.InteractionEvent) {
		count2++
	})

	store.EmitEvent(folio.InteractionEvent{Type: folio.EventReady})
	events.ProcessAllEvents(world)

	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
}

func TestMirror_TracksHoverAndActions(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	mirror := NewMirror(world)

	store.EmitEvent(folio.InteractionEvent{Type: folio.EventHoverEnter, NodeID: 7, Node: "Lamp_Hover"})
	store.EmitEvent(folio.InteractionEvent{Type: folio.EventAction, NodeID: 7, Node: "Lamp_Hover"})
	store.EmitEvent(folio.InteractionEvent{Type: folio.EventOverlayOpened, Overlay: "about"})
	InteractionEventType.ProcessEvents(world)

	require.Equal(t, 1, mirror.Len())
	h := mirror.Hotspot(7)
	require.NotNil(t, h)
	assert.True(t, h.Hovered)
	assert.Equal(t, 1, h.Actions)
	assert.Equal(t, "Lamp_Hover", h.Name)

	store.EmitEvent(folio.InteractionEvent{Type: folio.EventHoverLeave, NodeID: 7, Node: "Lamp_Hover"})
	InteractionEventType.ProcessEvents(world)
	assert.False(t, mirror.Hotspot(7).Hovered)
	assert.Nil(t, mirror.Hotspot(99))
}

// A mounted scene forwards hover transitions through the store.
func TestMirror_SceneHover(t *testing.T) {
	cfg := folio.DefaultConfig()
	scene, err := folio.NewScene(cfg)
	require.NoError(t, err)

	room := folio.NewGroup("room")
	desk := folio.NewMesh("Desk_Hover_Raycaster", mgl32.Vec3{2, 2, 2})
	desk.Position = scene.Camera().Target
	room.AddChild(desk)
	require.NoError(t, scene.Mount(room))

	world := donburi.NewWorld()
	scene.SetEntityStore(NewDonburiStore(world))
	mirror := NewMirror(world)

	scene.Resize(800, 600)
	scene.PointerMove(400, 300)
	InteractionEventType.ProcessEvents(world)

	h := mirror.Hotspot(desk.ID)
	require.NotNil(t, h)
	assert.True(t, h.Hovered)
}
