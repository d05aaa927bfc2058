package penumbra

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Shadow geometry is built on the CPU in world space and cached per light.
// Every hull edge contributes one quad: the edge itself plus the edge pushed
// far away from the light. Each vertex carries, for both edge endpoints, its
// coordinates in that endpoint's penumbra basis. The basis is spanned by the
// vector from the light center to the endpoint's offset point on the light
// disc rim, and the vector from the light center to the endpoint. Since
// those coordinates are linear in position, the GPU interpolates them
// exactly, and the fragment stage recovers a per-pixel occlusion value from
// the two ratios alone.
//
// The quad's outer corners are pushed along the rays from the offset points
// through the endpoints, so it covers the umbra and both penumbra wings and
// nothing else. Front-facing edges (outward normal toward the light) still
// emit quads; their fragments are rejected in the shader by a per-vertex
// clip value, keeping the vertex buffer layout uniform across all edges.

// edgeEpsilon is the relative threshold below which an edge is numerically
// degenerate with respect to a light (endpoint on the light center, or edge
// collinear with it) and is skipped.
const edgeEpsilon = 1e-9

// maxShadowVerts keeps the index buffer within uint16 range.
const maxShadowVerts = math.MaxUint16 - 3

// shadowEase maps a penumbra ratio in [-1, 1] to an occlusion fraction in
// [0, 1] with a smooth cubic: -1 at the lit boundary gives 0, +1 at the
// umbra boundary gives 1, and the midpoint falls at exactly one half.
// Input outside [-1, 1] must be clamped first; the cubic is only monotonic
// inside that interval.
func shadowEase(p float64) float64 {
	return p*(3-p*p)*0.25 + 0.5
}

// penumbraBasis is the inverted 2x2 basis for one edge endpoint. mul maps a
// world-space offset from the endpoint into (offset-axis, light-axis)
// coordinates. A nil-determinant basis (hard shadows, radius 0) is marked
// degenerate and treated as fully occluding by the shader via a constant
// neutral coordinate.
type penumbraBasis struct {
	i00, i01, i10, i11 float64
	degenerate         bool
}

// newPenumbraBasis inverts the column basis {u, v}.
func newPenumbraBasis(ux, uy, vx, vy float64) penumbraBasis {
	det := ux*vy - vx*uy
	if math.Abs(det) < edgeEpsilon {
		return penumbraBasis{degenerate: true}
	}
	inv := 1 / det
	return penumbraBasis{
		i00: vy * inv, i01: -vx * inv,
		i10: -uy * inv, i11: ux * inv,
	}
}

// mul returns the basis coordinates of the world-space offset (dx, dy).
// Degenerate bases return the neutral coordinate (1, 0): denominator zero,
// which the shader resolves to full occlusion for that side.
func (m penumbraBasis) mul(dx, dy float64) (float64, float64) {
	if m.degenerate {
		return 1, 0
	}
	return m.i00*dx + m.i01*dy, m.i10*dx + m.i11*dy
}

// buildShadowGeometry rebuilds the light's cached world-space shadow vertex
// and index buffers from the given hulls. Returns the number of edges that
// were dropped because the vertex budget ran out.
func buildShadowGeometry(l *Light, hulls []*Hull) (dropped int) {
	l.shadowVerts = l.shadowVerts[:0]
	l.shadowInds = l.shadowInds[:0]

	bounds := l.Bounds()
	for _, h := range hulls {
		if !h.Enabled {
			continue
		}
		if !h.Bounds().Intersects(bounds) {
			continue
		}
		pts := h.WorldPoints()
		for i := range pts {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			if len(l.shadowVerts) > maxShadowVerts {
				dropped++
				continue
			}
			appendEdgeShadow(l, a, b)
		}
	}
	return dropped
}

// appendEdgeShadow emits the shadow quad for one hull edge, or nothing if
// the edge is numerically degenerate with respect to the light.
func appendEdgeShadow(l *Light, a, b Vec2) {
	toAx, toAy := a.X-l.X, a.Y-l.Y
	toBx, toBy := b.X-l.X, b.Y-l.Y
	lenA := math.Hypot(toAx, toAy)
	lenB := math.Hypot(toBx, toBy)
	if lenA < edgeEpsilon || lenB < edgeEpsilon {
		return // light center on an endpoint
	}
	if math.Abs(toAx*toBy-toAy*toBx) < edgeEpsilon*lenA*lenB {
		return // edge collinear with the light: zero-width shadow
	}

	// Outward edge normal under normalized winding. Only its sign matters;
	// it feeds the per-fragment clip that rejects front-facing edges.
	ex, ey := b.X-a.X, b.Y-a.Y
	elen := math.Hypot(ex, ey)
	if elen < edgeEpsilon {
		return
	}
	nx, ny := -ey/elen, ex/elen

	// Offset points on the light disc rim, one per endpoint, rotated to
	// opposite sides. The source radius is clamped to [0, just below the
	// endpoint distance] so the projection rays always point away from the
	// light; a negative radius degrades to hard shadows.
	radius := l.Radius
	if radius < 0 {
		radius = 0
	}
	if maxR := 0.99 * math.Min(lenA, lenB); radius > maxR {
		radius = maxR
	}
	offAx, offAy := radius*toAy/lenA, -radius*toAx/lenA
	offBx, offBy := -radius*toBy/lenB, radius*toBx/lenB

	// Far corners: push each endpoint along the ray from its offset point,
	// far enough to exit the light's scissor region.
	far := 2 * (l.Range() + math.Max(lenA, lenB))
	dirAx, dirAy := toAx-offAx, toAy-offAy
	dirBx, dirBy := toBx-offBx, toBy-offBy
	dlenA := math.Hypot(dirAx, dirAy)
	dlenB := math.Hypot(dirBx, dirBy)
	if dlenA < edgeEpsilon || dlenB < edgeEpsilon {
		return
	}
	farAx, farAy := a.X+far*dirAx/dlenA, a.Y+far*dirAy/dlenA
	farBx, farBy := b.X+far*dirBx/dlenB, b.Y+far*dirBy/dlenB

	basisA := newPenumbraBasis(offAx, offAy, toAx, toAy)
	basisB := newPenumbraBasis(offBx, offBy, toBx, toBy)

	base := uint16(len(l.shadowVerts))
	for _, p := range [4][2]float64{
		{a.X, a.Y},
		{b.X, b.Y},
		{farAx, farAy},
		{farBx, farBy},
	} {
		pax, pay := basisA.mul(p[0]-a.X, p[1]-a.Y)
		pbx, pby := basisB.mul(p[0]-b.X, p[1]-b.Y)
		clip := nx*(a.X-p[0]) + ny*(a.Y-p[1])
		l.shadowVerts = append(l.shadowVerts, ebiten.Vertex{
			DstX:    float32(p[0]),
			DstY:    float32(p[1]),
			SrcX:    float32(clip),
			ColorR:  1,
			ColorG:  1,
			ColorB:  1,
			ColorA:  1,
			Custom0: float32(pax),
			Custom1: float32(pay),
			Custom2: float32(pbx),
			Custom3: float32(pby),
		})
	}
	l.shadowInds = append(l.shadowInds,
		base, base+2, base+3,
		base, base+3, base+1,
	)
}

// sideOcclusion evaluates one endpoint's occlusion fraction from its
// interpolated penumbra coordinates, mirroring the fragment shader.
func sideOcclusion(x, y float64) float64 {
	if y <= 0 {
		return 1
	}
	p := x / y
	if p < -1 {
		p = -1
	} else if p > 1 {
		p = 1
	}
	return shadowEase(p)
}

// edgeOcclusionAt computes the occlusion an edge (in normalized winding
// order) casts at the world-space point p, for a light of the given source
// radius centered at (lx, ly). This is the exact value the GPU produces at
// p: the interpolated vertex attributes are linear in position, so direct
// evaluation and rasterization agree. Returns 0 for front-facing edges
// (clip rejection) and 1 for full occlusion.
func edgeOcclusionAt(lx, ly, radius float64, a, b, p Vec2) float64 {
	toAx, toAy := a.X-lx, a.Y-ly
	toBx, toBy := b.X-lx, b.Y-ly
	lenA := math.Hypot(toAx, toAy)
	lenB := math.Hypot(toBx, toBy)
	if lenA < edgeEpsilon || lenB < edgeEpsilon {
		return 0
	}

	ex, ey := b.X-a.X, b.Y-a.Y
	nx, ny := -ey, ex
	if nx*(a.X-p.X)+ny*(a.Y-p.Y) > 0 {
		return 0
	}

	if radius < 0 {
		radius = 0
	}
	if maxR := 0.99 * math.Min(lenA, lenB); radius > maxR {
		radius = maxR
	}
	offAx, offAy := radius*toAy/lenA, -radius*toAx/lenA
	offBx, offBy := -radius*toBy/lenB, radius*toBx/lenB

	ax, ay := newPenumbraBasis(offAx, offAy, toAx, toAy).mul(p.X-a.X, p.Y-a.Y)
	bx, by := newPenumbraBasis(offBx, offBy, toBx, toBy).mul(p.X-b.X, p.Y-b.Y)
	return clamp01(sideOcclusion(ax, ay) + sideOcclusion(bx, by) - 1)
}
