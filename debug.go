package penumbra

import (
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// frameStats holds per-frame lighting metrics.
// Only populated when Renderer.Debug is true.
type frameStats struct {
	lightsRendered int
	lightsCulled   int
	lightsOccluded int
	lightsSkipped  int
	shadowQuads    int
	buildTime      time.Duration
	frameTime      time.Duration
}

// logf writes a warning line to the renderer's logger. A nil Logger disables
// all output.
func (r *Renderer) logf(format string, args ...any) {
	if r.Logger == nil {
		return
	}
	_, _ = fmt.Fprintf(r.Logger, "[penumbra] "+format+"\n", args...)
}

// debugLog prints per-frame lighting stats to the logger.
func (r *Renderer) debugLog() {
	if !r.Debug {
		return
	}
	s := &r.stats
	r.logf("lights: %d rendered | %d culled | %d occluded | %d skipped",
		s.lightsRendered, s.lightsCulled, s.lightsOccluded, s.lightsSkipped)
	r.logf("shadow quads: %d | build: %v | frame: %v",
		s.shadowQuads, s.buildTime, s.frameTime)
}

// drawDebugOverlay renders shadow volumes as flat translucent fills and hull
// outlines as wireframes on top of the composited frame.
func (r *Renderer) drawDebugOverlay(target *ebiten.Image, view [6]float64) {
	for _, l := range r.lights {
		if !l.Enabled || len(l.shadowInds) == 0 {
			continue
		}
		verts := r.transformShadowVerts(l.shadowVerts, view)
		for i := range verts {
			verts[i].ColorR = float32(r.DebugColor.R)
			verts[i].ColorG = float32(r.DebugColor.G)
			verts[i].ColorB = float32(r.DebugColor.B)
		}
		r.triOp.Blend = ebiten.BlendSourceOver
		target.DrawTrianglesShader(verts, l.shadowInds, ensureShadowDebugShader(), &r.triOp)
	}

	for _, h := range r.hulls.List() {
		if !h.Enabled {
			continue
		}
		r.drawHullOutline(target, h, view)
	}
}

// debugLineWidth is the hull outline thickness in pixels.
const debugLineWidth = 1.5

// drawHullOutline draws a hull's edges as screen-space line quads.
func (r *Renderer) drawHullOutline(target *ebiten.Image, h *Hull, view [6]float64) {
	pts := h.WorldPoints()
	verts := make([]ebiten.Vertex, 0, len(pts)*4)
	inds := make([]uint16, 0, len(pts)*6)

	cr := float32(r.DebugColor.R)
	cg := float32(r.DebugColor.G)
	cb := float32(r.DebugColor.B)

	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		ax, ay := transformPoint(view, a.X, a.Y)
		bx, by := transformPoint(view, b.X, b.Y)

		// Perpendicular offset for line thickness.
		dx, dy := bx-ax, by-ay
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		px := -dy / length * debugLineWidth / 2
		py := dx / length * debugLineWidth / 2

		base := uint16(len(verts))
		for _, p := range [4][2]float64{
			{ax + px, ay + py},
			{ax - px, ay - py},
			{bx + px, by + py},
			{bx - px, by - py},
		} {
			verts = append(verts, ebiten.Vertex{
				DstX: float32(p[0]), DstY: float32(p[1]),
				SrcX: 0, SrcY: 0,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1,
			})
		}
		inds = append(inds, base, base+2, base+1, base+1, base+2, base+3)
	}
	if len(inds) == 0 {
		return
	}

	op := &ebiten.DrawTrianglesOptions{}
	target.DrawTriangles(verts, inds, ensureWhitePixel(), op)
}
