package penumbra

import (
	"io"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func testRenderer(t *testing.T) (*Renderer, *ebiten.Image) {
	t.Helper()
	r := NewRenderer(128, 128)
	r.Logger = io.Discard
	return r, ebiten.NewImage(128, 128)
}

func TestNewRendererDefaults(t *testing.T) {
	r, _ := testRenderer(t)
	defer r.Dispose()

	w, h := r.Size()
	if w != 128 || h != 128 {
		t.Errorf("size = %dx%d, want 128x128", w, h)
	}
	if r.SceneImage() == nil || r.LightMap() == nil {
		t.Fatal("render targets should exist")
	}
	if b := r.SceneImage().Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("scene size = %v", b)
	}
	if r.AmbientColor == (Color{}) {
		t.Error("ambient color should default to non-zero")
	}
	if vp := r.Camera().Viewport; vp.Width != 128 || vp.Height != 128 {
		t.Errorf("camera viewport = %+v, want 128x128", vp)
	}
}

func TestRendererAddRemoveClearLights(t *testing.T) {
	r, _ := testRenderer(t)
	defer r.Dispose()

	a := NewLight(10, 10, 50)
	b := NewLight(20, 20, 50)
	r.AddLight(a)
	r.AddLight(b)
	r.AddLight(nil)
	if got := len(r.Lights()); got != 2 {
		t.Errorf("lights = %d, want 2", got)
	}

	r.RemoveLight(a)
	r.RemoveLight(a) // removing again is a no-op
	if got := len(r.Lights()); got != 1 {
		t.Errorf("lights after remove = %d, want 1", got)
	}

	r.ClearLights()
	if got := len(r.Lights()); got != 0 {
		t.Errorf("lights after clear = %d, want 0", got)
	}
}

func TestRendererDrawNoPanic(t *testing.T) {
	r, target := testRenderer(t)
	defer r.Dispose()

	// No lights at all.
	r.Draw(target)

	// A light with an occluder.
	l := NewLight(64, 64, 60)
	r.AddLight(l)
	h, err := NewHull(Vec2{X: 90, Y: 55}, Vec2{X: 110, Y: 55}, Vec2{X: 110, Y: 75}, Vec2{X: 90, Y: 75})
	if err != nil {
		t.Fatalf("NewHull: %v", err)
	}
	r.Hulls().Add(h)
	r.Draw(target)

	if r.stats.lightsRendered != 1 {
		t.Errorf("rendered = %d, want 1", r.stats.lightsRendered)
	}
	if r.stats.shadowQuads == 0 {
		t.Error("shadow quads = 0, want > 0")
	}

	// Disabled light.
	l.Enabled = false
	r.Draw(target)
	if r.stats.lightsSkipped != 1 {
		t.Errorf("skipped = %d, want 1", r.stats.lightsSkipped)
	}
	l.Enabled = true

	// Zero intensity and zero range.
	l.Intensity = 0
	r.Draw(target)
	if r.stats.lightsSkipped != 1 {
		t.Errorf("skipped zero-intensity = %d, want 1", r.stats.lightsSkipped)
	}
	l.Intensity = 1

	zero := NewLight(64, 64, 0)
	r.AddLight(zero)
	r.Draw(target)
	if r.stats.lightsSkipped != 1 {
		t.Errorf("skipped zero-range = %d, want 1", r.stats.lightsSkipped)
	}
	r.RemoveLight(zero)
}

func TestRendererDrawCullsOffscreenLight(t *testing.T) {
	r, target := testRenderer(t)
	defer r.Dispose()

	r.AddLight(NewLight(-500, -500, 50))
	r.Draw(target)

	if r.stats.lightsCulled != 1 {
		t.Errorf("culled = %d, want 1", r.stats.lightsCulled)
	}
	if r.stats.lightsRendered != 0 {
		t.Errorf("rendered = %d, want 0", r.stats.lightsRendered)
	}
}

func TestRendererDrawSkipsLightInsideHull(t *testing.T) {
	r, target := testRenderer(t)
	defer r.Dispose()

	l := NewLight(64, 64, 60)
	r.AddLight(l)
	h, _ := NewHull(Vec2{X: 50, Y: 50}, Vec2{X: 80, Y: 50}, Vec2{X: 80, Y: 80}, Vec2{X: 50, Y: 80})
	r.Hulls().Add(h)

	r.Draw(target)
	if r.stats.lightsOccluded != 1 {
		t.Errorf("occluded = %d, want 1", r.stats.lightsOccluded)
	}
}

func TestRendererDrawClearsLightDirty(t *testing.T) {
	r, target := testRenderer(t)
	defer r.Dispose()

	l := NewLight(64, 64, 60)
	r.AddLight(l)
	if !l.IsDirty() {
		t.Fatal("new light should start dirty")
	}

	r.Draw(target)
	if l.IsDirty() {
		t.Error("Draw should clear the light's dirty state")
	}

	l.MarkDirty()
	if !l.IsDirty() {
		t.Error("MarkDirty should make the light dirty again")
	}
}

func TestRendererSeesHullChangeAfterHostReads(t *testing.T) {
	r, target := testRenderer(t)
	defer r.Dispose()

	l := NewLight(64, 64, 60)
	r.AddLight(l)
	h, err := NewHull(Vec2{X: -10, Y: -10}, Vec2{X: -10, Y: 10}, Vec2{X: 10, Y: 10}, Vec2{X: 10, Y: -10})
	if err != nil {
		t.Fatalf("NewHull: %v", err)
	}
	h.Position = Vec2{X: 100, Y: 64}
	h.MarkDirty()
	r.Hulls().Add(h)

	r.Draw(target)
	if len(l.shadowVerts) != 16 {
		t.Fatalf("verts = %d, want 16", len(l.shadowVerts))
	}

	// Move the hull out of the light's reach, then read its geometry the
	// way a draw loop does before the next frame.
	h.Position = Vec2{X: 400, Y: 64}
	h.MarkDirty()
	_ = h.Bounds()

	r.Draw(target)
	if len(l.shadowVerts) != 0 {
		t.Errorf("verts = %d, want 0: stale shadow geometry for the hull's old position", len(l.shadowVerts))
	}
}

func TestRendererRebuildsForLightCulledDuringHullChange(t *testing.T) {
	r, target := testRenderer(t)
	defer r.Dispose()

	l := NewLight(64, 64, 60)
	r.AddLight(l)
	h, err := NewHull(Vec2{X: -10, Y: -10}, Vec2{X: -10, Y: 10}, Vec2{X: 10, Y: 10}, Vec2{X: 10, Y: -10})
	if err != nil {
		t.Fatalf("NewHull: %v", err)
	}
	h.Position = Vec2{X: 100, Y: 64}
	h.MarkDirty()
	r.Hulls().Add(h)

	r.Draw(target)
	if len(l.shadowVerts) != 16 {
		t.Fatalf("verts = %d, want 16", len(l.shadowVerts))
	}

	// Pan the camera so the light is culled, move the hull away, and let a
	// frame consume the hull change while the light sits off screen.
	r.Camera().X = 10000
	r.Camera().MarkDirty()
	h.Position = Vec2{X: 400, Y: 64}
	h.MarkDirty()
	r.Draw(target)
	if r.stats.lightsCulled != 1 {
		t.Fatalf("culled = %d, want 1", r.stats.lightsCulled)
	}

	// When the light re-enters view it must rebuild against the hull's new
	// position, not draw the cache from before it was culled.
	r.Camera().X = 0
	r.Camera().MarkDirty()
	r.Draw(target)
	if len(l.shadowVerts) != 0 {
		t.Errorf("verts = %d, want 0: stale shadow geometry survived the culled frame", len(l.shadowVerts))
	}
}

func TestRendererDrawIlluminatedCastsNoShadows(t *testing.T) {
	r, target := testRenderer(t)
	defer r.Dispose()

	l := NewLight(64, 64, 60)
	l.ShadowType = ShadowTypeIlluminated
	r.AddLight(l)
	h, _ := NewHull(Vec2{X: 90, Y: 55}, Vec2{X: 110, Y: 55}, Vec2{X: 110, Y: 75}, Vec2{X: 90, Y: 75})
	r.Hulls().Add(h)

	r.Draw(target)
	if r.stats.shadowQuads != 0 {
		t.Errorf("shadow quads = %d, want 0 for illuminated light", r.stats.shadowQuads)
	}
}

func TestRendererDrawTextureLight(t *testing.T) {
	r, target := testRenderer(t)
	defer r.Dispose()

	l := NewLight(64, 64, 40)
	l.Texture = ebiten.NewImage(32, 32)
	l.Texture.Fill(ColorWhite.toRGBA())
	r.AddLight(l)

	r.Draw(target)
	if r.stats.lightsRendered != 1 {
		t.Errorf("rendered = %d, want 1", r.stats.lightsRendered)
	}
}

func TestRendererDrawDebugNoPanic(t *testing.T) {
	r, target := testRenderer(t)
	defer r.Dispose()

	r.Debug = true
	r.AddLight(NewLight(64, 64, 60))
	h, _ := NewHull(Vec2{X: 90, Y: 55}, Vec2{X: 110, Y: 55}, Vec2{X: 110, Y: 75}, Vec2{X: 90, Y: 75})
	r.Hulls().Add(h)

	r.Draw(target)
	r.Draw(target) // second frame exercises the cached-geometry path
}

func TestRendererDrawResizesToTarget(t *testing.T) {
	r, _ := testRenderer(t)
	defer r.Dispose()

	big := ebiten.NewImage(256, 200)
	r.Draw(big)

	w, h := r.Size()
	if w != 256 || h != 200 {
		t.Errorf("size after mismatched draw = %dx%d, want 256x200", w, h)
	}

	// The frame after the resize renders normally.
	r.AddLight(NewLight(100, 100, 50))
	r.Draw(big)
	if r.stats.lightsRendered != 1 {
		t.Errorf("rendered = %d, want 1", r.stats.lightsRendered)
	}
}

func TestRendererResize(t *testing.T) {
	r, _ := testRenderer(t)
	defer r.Dispose()

	scene := r.SceneImage()
	r.Resize(128, 128) // same size is a no-op
	if r.SceneImage() != scene {
		t.Error("same-size resize should keep the render targets")
	}

	r.Resize(64, 32)
	w, h := r.Size()
	if w != 64 || h != 32 {
		t.Errorf("size = %dx%d, want 64x32", w, h)
	}
	if b := r.SceneImage().Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("scene size = %v, want 64x32", b)
	}
	if vp := r.Camera().Viewport; vp.Width != 64 || vp.Height != 32 {
		t.Errorf("viewport = %+v, want 64x32", vp)
	}
}

func TestRendererDispose(t *testing.T) {
	r, _ := testRenderer(t)
	r.AddLight(NewLight(0, 0, 10))

	r.Dispose()
	if r.scene != nil || r.lightMap != nil {
		t.Error("dispose should release render targets")
	}
	if len(r.Lights()) != 0 {
		t.Error("dispose should drop lights")
	}

	r.Dispose() // double dispose is safe
}

func TestGenerateCircle(t *testing.T) {
	img := generateCircle(16)
	defer img.Deallocate()

	b := img.Bounds()
	if b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("circle size = %v, want 32x32", b)
	}

	_, _, _, a := img.At(16, 16).RGBA()
	if a < 0xc000 {
		t.Errorf("center alpha = %#x, want near opaque", a)
	}
	_, _, _, a = img.At(0, 0).RGBA()
	if a != 0 {
		t.Errorf("corner alpha = %#x, want 0", a)
	}
}
