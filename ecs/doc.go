// Package ecs provides ECS adapters for penumbra.
//
// The adapter is a set of [Donburi] components that attach penumbra lights
// and hulls to entities, plus sync systems that copy entity positions into
// the lighting engine each frame:
//
//	entry := world.Entry(world.Create(ecs.Position, ecs.Light))
//	ecs.Position.SetValue(entry, ecs.PositionData{X: 100, Y: 50})
//	ecs.Light.SetValue(entry, ecs.LightData{Light: torch})
//
//	// each frame, before renderer.Draw:
//	ecs.SyncLights(world)
//	ecs.SyncHulls(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
