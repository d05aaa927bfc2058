package penumbra

import (
	"io"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// setupBenchRenderer creates a renderer with n lights scattered over a grid of
// square occluders.
func setupBenchRenderer(nLights int) (*Renderer, *ebiten.Image) {
	r := NewRenderer(1280, 720)
	r.Logger = io.Discard

	for i := 0; i < 8; i++ {
		for j := 0; j < 5; j++ {
			h, err := NewHull(
				Vec2{X: -15, Y: -15},
				Vec2{X: 15, Y: -15},
				Vec2{X: 15, Y: 15},
				Vec2{X: -15, Y: 15},
			)
			if err != nil {
				panic(err)
			}
			h.Position = Vec2{X: 100 + float64(i)*150, Y: 100 + float64(j)*130}
			r.Hulls().Add(h)
		}
	}
	for i := 0; i < nLights; i++ {
		x := 60 + float64(i*97%1200)
		y := 40 + float64(i*61%650)
		r.AddLight(NewLight(x, y, 180))
	}
	return r, ebiten.NewImage(1280, 720)
}

// --- Full frame ---

func benchRendererDraw(b *testing.B, nLights int) {
	r, screen := setupBenchRenderer(nLights)
	defer r.Dispose()

	r.Draw(screen) // warmup: builds shadow geometry and the circle texture

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.Draw(screen)
	}
}

func BenchmarkRendererDraw_10(b *testing.B) {
	benchRendererDraw(b, 10)
}

func BenchmarkRendererDraw_50(b *testing.B) {
	benchRendererDraw(b, 50)
}

func BenchmarkRendererDraw_10_Moving(b *testing.B) {
	r, screen := setupBenchRenderer(10)
	defer r.Dispose()
	lights := r.Lights()

	r.Draw(screen) // warmup

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		// Dirty every light so shadow geometry rebuilds each frame.
		for _, l := range lights {
			l.X += 0.5
			l.MarkDirty()
		}
		r.Draw(screen)
	}
}

// --- CPU-side geometry ---

func benchBuildShadowGeometry(b *testing.B, nHulls int) {
	hulls := make([]*Hull, 0, nHulls)
	for i := 0; i < nHulls; i++ {
		h, err := NewHull(
			Vec2{X: -10, Y: -10},
			Vec2{X: 10, Y: -10},
			Vec2{X: 10, Y: 10},
			Vec2{X: -10, Y: 10},
		)
		if err != nil {
			b.Fatal(err)
		}
		h.Position = Vec2{X: 80 + float64(i%8)*60, Y: 80 + float64(i/8)*60}
		hulls = append(hulls, h)
	}
	l := NewLight(0, 0, 800)

	buildShadowGeometry(l, hulls) // warmup sizes the slices

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buildShadowGeometry(l, hulls)
	}
}

func BenchmarkBuildShadowGeometry_4(b *testing.B) {
	benchBuildShadowGeometry(b, 4)
}

func BenchmarkBuildShadowGeometry_64(b *testing.B) {
	benchBuildShadowGeometry(b, 64)
}

func BenchmarkTransformShadowVerts(b *testing.B) {
	r, screen := setupBenchRenderer(1)
	defer r.Dispose()
	r.Draw(screen) // warmup builds the light's cached vertices

	l := r.Lights()[0]
	view := r.Camera().computeViewMatrix()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.transformShadowVerts(l.shadowVerts, view)
	}
}
