// Package ecs provides ECS adapters for folio's interaction events.
//
// The primary adapter is [NewDonburiStore], which bridges folio interaction
// events (hover, action, overlay, container, ready) into a [Donburi] world as
// typed events. Subscribe to [InteractionEventType] in your ECS systems to
// receive them, or attach a [Mirror] to keep one entity per touched hotspot.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//	mirror := ecs.NewMirror(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
