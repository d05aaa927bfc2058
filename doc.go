// Package penumbra is a dynamic 2D lighting and shadowing engine for
// [Ebitengine].
//
// Penumbra renders point lights with physically-inspired soft shadows cast
// by convex occluder polygons (hulls). Each frame it builds a screen-sized
// light map: ambient color everywhere, plus the contribution of every
// visible light, carved by the shadows its hulls cast. The light map is then
// multiplied over the scene, darkening everything the lights don't reach.
//
// # Quick start
//
// Create a [Renderer], register hulls and lights, draw your scene into
// [Renderer.SceneImage], and composite:
//
//	type Game struct{ lighting *penumbra.Renderer }
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		scene := g.lighting.SceneImage()
//		scene.Clear()
//		// ... draw the world into scene ...
//		g.lighting.Draw(screen)
//	}
//
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// Lights and hulls are plain structs with exported fields. Mutate them
// freely, then call MarkDirty so cached shadow geometry is rebuilt:
//
//	torch := penumbra.NewLight(120, 80, 250)
//	torch.Color = penumbra.Color{R: 1, G: 0.8, B: 0.5, A: 1}
//	g.lighting.AddLight(torch)
//
//	pillar, err := penumbra.NewHull(
//		penumbra.Vec2{X: -10, Y: -10},
//		penumbra.Vec2{X: -10, Y: 10},
//		penumbra.Vec2{X: 10, Y: 10},
//		penumbra.Vec2{X: 10, Y: -10},
//	)
//	if err != nil { ... }
//	pillar.Position = penumbra.Vec2{X: 300, Y: 200}
//	pillar.MarkDirty()
//	g.lighting.Hulls().Add(pillar)
//
// # Shadows
//
// Lights have a physical radius in addition to their range. The radius
// widens the penumbra: geometry between the umbra (fully dark) and lit
// regions gets a smooth falloff computed per pixel by a Kage shader.
// A radius of zero produces hard shadows.
//
// [Light.ShadowType] selects how hulls react to a light: [ShadowTypeSolid]
// hulls block light, [ShadowTypeIlluminated] hulls are lit and cast no
// shadow.
//
// # Camera
//
// The renderer owns a [Camera] that maps world space to the light map.
// Several projection conventions are supported (screen space, Y-up centered,
// Y-up bottom-left, or a custom matrix); pan, zoom, and rotation all work
// with shadow geometry automatically.
//
// [Ebitengine]: https://ebitengine.org
package penumbra
