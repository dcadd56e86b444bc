// Package folio is the interaction layer of a 3D portfolio room for
// [Ebitengine].
//
// A room is a tree of [Node] values loaded from a YAML or TOML manifest. Mesh
// nodes whose names carry marker fragments become hotspots: folio builds a
// static invisible [Hitbox] for each one, raycasts the pointer against those
// boxes, drives hover feedback, and resolves clicks to actions through an
// ordered [Interactions] registry. A modal [Gate] suspends hover and clicks
// while an overlay is showing, and a [Container] opens a prop and reveals the
// hotspots printed on it.
//
// # Quick start
//
//	cfg, err := folio.LoadConfig("config.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	scene, err := folio.NewScene(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := scene.Load(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//	folio.Run(scene, folio.RunConfig{Title: "Room", Width: 1280, Height: 720})
//
// For full control, implement [ebiten.Game] yourself and feed device input
// through [Scene.PointerMove], [Scene.Click], [Scene.OrbitDrag] and
// [Scene.Zoom], then call [Scene.Update] and [Scene.Draw] each frame.
//
// # Markers
//
// Names are matched by substring. With the default [Markers]:
//
//   - "Raycaster" marks a mesh as pickable and gives it a hitbox.
//   - "Hover" marks a node that animates on hover. A pickable node named
//     "Desk_Raycaster" hovers its partner "Desk_Hover" if one exists.
//   - "Hover3" marks a hover target that only changes the cursor.
//   - "Pointer" marks a node whose clicks resolve to an interaction.
//
// A node scaled to (near) zero on every axis is treated as hidden: it is still
// hit by rays but is neither clickable nor animated.
//
// # Page chrome
//
// Page code talks to the scene through [Scene.IsGateOpen],
// [Scene.SetGateOpen], [Scene.OpenOverlay], [Scene.CloseOverlay],
// [Scene.NavigateOverlay] and [Scene.PressButton], and receives layout changes
// through the [Chrome] interface.
//
// ECS integration is available through the [Donburi] adapter in folio/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package folio
