package penumbra

import (
	"io"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer orchestrates the lighting pipeline. It owns the scene render
// target, the light map, the camera, and the hull and light registries.
//
// Frame flow: the host draws the world into SceneImage, then calls Draw.
// Draw fills the light map with the ambient color, renders every visible
// light (shadow pass, light pass, alpha reset, all scissored to the light's
// screen bounds), and multiplies the finished light map over the scene into
// the target.
type Renderer struct {
	// AmbientColor is the light level where no light reaches. Black gives
	// full darkness outside lights; white disables the effect.
	AmbientColor Color
	// Debug enables the wireframe/shadow-volume overlay and per-frame
	// stats logging.
	Debug bool
	// DebugColor tints the debug overlay.
	DebugColor Color
	// Logger receives warnings and debug stats. Nil disables all logging.
	Logger io.Writer
	// CaptureDir is where CaptureLightMap and CaptureScene write PNG files.
	// Defaults to "captures".
	CaptureDir string

	camera *Camera
	hulls  Hulls
	lights []*Light

	scene    *ebiten.Image
	lightMap *ebiten.Image
	w, h     int

	circle      *ebiten.Image
	vertScratch []ebiten.Vertex
	imgOp       ebiten.DrawImageOptions
	triOp       ebiten.DrawTrianglesShaderOptions

	captureQueue []captureRequest

	stats frameStats
}

// circleResolution is the pixel radius of the generated footprint texture.
// The texture is stretched to each light's world bounds, so one shared
// texture serves all light sizes.
const circleResolution = 256

// NewRenderer creates a renderer with (w x h) pixel render targets and a
// default camera covering them.
func NewRenderer(w, h int) *Renderer {
	r := &Renderer{
		AmbientColor: Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
		DebugColor:   Color{R: 1, G: 0.9, B: 0.2, A: 1},
		camera:       newCamera(Rect{Width: float64(w), Height: float64(h)}),
		scene:        ebiten.NewImage(w, h),
		lightMap:     ebiten.NewImage(w, h),
		w:            w,
		h:            h,
	}
	return r
}

// Camera returns the renderer's camera.
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// Hulls returns the occluder registry.
func (r *Renderer) Hulls() *Hulls {
	return &r.hulls
}

// AddLight adds a light to the renderer.
func (r *Renderer) AddLight(l *Light) {
	if l == nil {
		return
	}
	r.lights = append(r.lights, l)
}

// RemoveLight removes a light from the renderer.
func (r *Renderer) RemoveLight(l *Light) {
	for i, existing := range r.lights {
		if existing == l {
			r.lights = append(r.lights[:i], r.lights[i+1:]...)
			return
		}
	}
}

// ClearLights removes all lights from the renderer.
func (r *Renderer) ClearLights() {
	r.lights = r.lights[:0]
}

// Lights returns the current light list. The returned slice MUST NOT be mutated.
func (r *Renderer) Lights() []*Light {
	return r.lights
}

// SceneImage returns the render target the host draws the world into each
// frame, before calling Draw.
func (r *Renderer) SceneImage() *ebiten.Image {
	return r.scene
}

// LightMap returns the internal light map. Useful for debugging; treat as
// read-only.
func (r *Renderer) LightMap() *ebiten.Image {
	return r.lightMap
}

// Size returns the render target dimensions in pixels.
func (r *Renderer) Size() (w, h int) {
	return r.w, r.h
}

// Resize deallocates and recreates the render targets at the new size and
// updates the camera viewport. Scene content is lost; draw the scene again
// before the next Draw.
func (r *Renderer) Resize(w, h int) {
	if w == r.w && h == r.h {
		return
	}
	r.scene.Deallocate()
	r.lightMap.Deallocate()
	r.scene = ebiten.NewImage(w, h)
	r.lightMap = ebiten.NewImage(w, h)
	r.w = w
	r.h = h
	r.camera.Viewport = Rect{Width: float64(w), Height: float64(h)}
	r.camera.MarkDirty()
}

// Draw renders the light map and composites the lit scene into target.
// If the target's size doesn't match the renderer's, the scene is composited
// unlit, the renderer resizes itself to the target, and the frame's lighting
// is dropped.
func (r *Renderer) Draw(target *ebiten.Image) {
	if target == nil {
		return
	}
	tb := target.Bounds()
	if tb.Dx() != r.w || tb.Dy() != r.h {
		r.logf("render target is %dx%d, expected %dx%d; resizing and dropping this frame's lighting",
			tb.Dx(), tb.Dy(), r.w, r.h)
		r.imgOp.GeoM.Reset()
		r.imgOp.ColorScale.Reset()
		r.imgOp.Blend = ebiten.BlendSourceOver
		target.DrawImage(r.scene, &r.imgOp)
		r.Resize(tb.Dx(), tb.Dy())
		return
	}

	r.stats = frameStats{}
	var start time.Time
	if r.Debug {
		start = time.Now()
	}

	hullGen := r.hulls.update()
	view := r.camera.computeViewMatrix()

	// Ambient base. Alpha starts fully lit so the first light's shadow
	// pass has a clean mask to carve.
	r.lightMap.Fill(Color{R: r.AmbientColor.R, G: r.AmbientColor.G, B: r.AmbientColor.B, A: 1}.toRGBA())

	for _, l := range r.lights {
		if !l.Enabled || l.Intensity <= 0 || l.Range() <= 0 {
			r.stats.lightsSkipped++
			continue
		}
		scissor := r.camera.scissorRect(l)
		if scissor.Empty() {
			r.stats.lightsCulled++
			continue
		}
		if r.hulls.Contains(Vec2{X: l.X, Y: l.Y}) {
			r.stats.lightsOccluded++
			continue
		}

		sub := r.lightMap.SubImage(scissor).(*ebiten.Image)

		if l.ShadowType.path().castShadows && l.CastsShadows {
			r.drawShadows(sub, l, hullGen, view)
		}

		r.drawLight(sub, l, view)
		r.resetAlpha(sub)
		r.stats.lightsRendered++
	}

	// Composite: scene first, then the light map multiplied over it.
	r.imgOp.GeoM.Reset()
	r.imgOp.ColorScale.Reset()
	r.imgOp.Blend = ebiten.BlendSourceOver
	target.DrawImage(r.scene, &r.imgOp)
	r.imgOp.Blend = blendMultiply
	target.DrawImage(r.lightMap, &r.imgOp)

	if r.Debug {
		r.drawDebugOverlay(target, view)
		r.stats.frameTime = time.Since(start)
		r.debugLog()
	}
	r.flushCaptures()
}

// drawShadows rebuilds the light's cached shadow geometry if its generation
// stamps don't match the current light and hull state, then rasterizes it
// into the scissored light map region.
func (r *Renderer) drawShadows(dst *ebiten.Image, l *Light, hullGen uint64, view [6]float64) {
	if l.gen != l.builtGen || l.builtHullGen != hullGen {
		var buildStart time.Time
		if r.Debug {
			buildStart = time.Now()
		}
		if dropped := buildShadowGeometry(l, r.hulls.List()); dropped > 0 {
			r.logf("shadow geometry budget exceeded, %d edges dropped", dropped)
		}
		l.builtGen = l.gen
		l.builtHullGen = hullGen
		if r.Debug {
			r.stats.buildTime += time.Since(buildStart)
		}
	}
	if len(l.shadowInds) == 0 {
		return
	}
	r.stats.shadowQuads += len(l.shadowVerts) / 4

	verts := r.transformShadowVerts(l.shadowVerts, view)
	r.triOp.Blend = blendShadow
	dst.DrawTrianglesShader(verts, l.shadowInds, ensureShadowShader(), &r.triOp)
}

// transformShadowVerts maps cached world-space shadow vertices to screen
// space into the scratch buffer. Attribute channels pass through untouched.
func (r *Renderer) transformShadowVerts(world []ebiten.Vertex, view [6]float64) []ebiten.Vertex {
	if cap(r.vertScratch) < len(world) {
		r.vertScratch = make([]ebiten.Vertex, len(world))
	}
	verts := r.vertScratch[:len(world)]
	copy(verts, world)
	for i := range verts {
		x, y := transformPoint(view, float64(world[i].DstX), float64(world[i].DstY))
		verts[i].DstX = float32(x)
		verts[i].DstY = float32(y)
	}
	return verts
}

// drawLight draws the light's footprint with additive blending, masked by
// the shadow alpha already in the destination.
func (r *Renderer) drawLight(dst *ebiten.Image, l *Light, view [6]float64) {
	img := l.Texture
	if img == nil {
		img = r.ensureCircle()
	}
	b := img.Bounds()
	srcW, srcH := float64(b.Dx()), float64(b.Dy())
	if srcW == 0 || srcH == 0 {
		return
	}

	op := &r.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(2*l.Scale.X/srcW, 2*l.Scale.Y/srcH)
	op.GeoM.Translate(-l.Scale.X, -l.Scale.Y)
	if l.Rotation != 0 {
		op.GeoM.Rotate(l.Rotation)
	}
	op.GeoM.Translate(l.X, l.Y)
	op.GeoM.Concat(geoMFromAffine(view))

	op.ColorScale.Reset()
	op.ColorScale.Scale(
		float32(l.Color.R*l.Intensity),
		float32(l.Color.G*l.Intensity),
		float32(l.Color.B*l.Intensity),
		1,
	)
	op.Blend = blendLight
	dst.DrawImage(img, op)
}

// resetAlpha returns the scissored region's alpha to fully lit so the next
// light starts from a clean shadow mask.
func (r *Renderer) resetAlpha(dst *ebiten.Image) {
	b := dst.Bounds()
	op := &r.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	op.ColorScale.Reset()
	op.Blend = blendAlphaReset
	dst.DrawImage(ensureWhitePixel(), op)
}

// ensureCircle lazily generates the shared feathered footprint texture.
func (r *Renderer) ensureCircle() *ebiten.Image {
	if r.circle == nil {
		r.circle = generateCircle(circleResolution)
	}
	return r.circle
}

// generateCircle creates a feathered white circle image with the given
// radius in pixels. Uses smoothstep falloff and premultiplied alpha.
func generateCircle(radius float64) *ebiten.Image {
	size := int(math.Ceil(radius * 2))
	if size < 1 {
		size = 1
	}
	img := ebiten.NewImage(size, size)
	pix := make([]byte, size*size*4)

	cx, cy := radius, radius
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx+dy*dy) / radius

			var alpha float64
			if dist >= 1 {
				alpha = 0
			} else {
				// smoothstep: 1 at center, 0 at edge
				t := 1 - dist
				alpha = t * t * (3 - 2*t)
			}

			a := uint8(alpha * 255)
			off := (y*size + x) * 4
			pix[off+0] = a // premultiplied white
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	img.WritePixels(pix)
	return img
}

// geoMFromAffine converts an internal affine matrix to an ebiten.GeoM.
func geoMFromAffine(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

// Dispose releases the renderer's GPU resources. The renderer must not be
// used afterwards.
func (r *Renderer) Dispose() {
	if r.scene != nil {
		r.scene.Deallocate()
		r.scene = nil
	}
	if r.lightMap != nil {
		r.lightMap.Deallocate()
		r.lightMap = nil
	}
	if r.circle != nil {
		r.circle.Deallocate()
		r.circle = nil
	}
	r.lights = nil
	r.hulls.Clear()
}
