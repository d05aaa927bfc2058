package penumbra

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateHull is returned by NewHull for point lists that cannot form a
// valid occluder: fewer than three distinct points, zero-length edges, or
// zero enclosed area.
var ErrDegenerateHull = errors.New("penumbra: degenerate hull")

// minEdgeLength is the shortest edge NewHull accepts, in world units.
const minEdgeLength = 1e-9

// Hull is a polygonal occluder. Local points are fixed at construction;
// Position, Rotation, and Scale place the hull in the world. After mutating
// any of them call MarkDirty so cached world geometry is rebuilt.
type Hull struct {
	// Position is the hull's world-space position.
	Position Vec2
	// Rotation is the hull's rotation in radians.
	Rotation float64
	// Scale is the per-axis scale factor. Negative components mirror the
	// hull; winding is re-normalized automatically.
	Scale Vec2
	// Enabled determines whether the hull occludes light. Disabled hulls
	// are skipped entirely.
	Enabled bool

	local []Vec2
	world []Vec2

	// gen counts mutations; builtGen is the generation the cached world
	// geometry was computed at. Reading derived geometry recomputes lazily
	// without consuming the change signal the registry watches.
	gen      uint64
	builtGen uint64

	centroid Vec2
	bounds   Rect
}

// NewHull creates a hull from the given local-space points. The points may be
// supplied in either winding order; the winding is normalized internally.
// Returns ErrDegenerateHull (wrapped) if the points cannot form a valid
// occluder.
func NewHull(points ...Vec2) (*Hull, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 points, got %d", ErrDegenerateHull, len(points))
	}
	for i := range points {
		j := (i + 1) % len(points)
		dx := points[j].X - points[i].X
		dy := points[j].Y - points[i].Y
		if math.Hypot(dx, dy) < minEdgeLength {
			return nil, fmt.Errorf("%w: zero-length edge at index %d", ErrDegenerateHull, i)
		}
	}
	if math.Abs(polygonArea(points)) < minEdgeLength {
		return nil, fmt.Errorf("%w: zero area", ErrDegenerateHull)
	}

	h := &Hull{
		Scale:   Vec2{X: 1, Y: 1},
		Enabled: true,
		local:   make([]Vec2, len(points)),
		world:   make([]Vec2, len(points)),
		gen:     1,
	}
	copy(h.local, points)
	return h, nil
}

// MarkDirty flags the hull so its world-space geometry (and every cached
// shadow that depends on it) is rebuilt on the next frame. Call after
// modifying Position, Rotation, Scale, or Enabled.
func (h *Hull) MarkDirty() {
	h.gen++
}

// Points returns the hull's local-space points. The returned slice MUST NOT
// be mutated.
func (h *Hull) Points() []Vec2 {
	return h.local
}

// WorldPoints returns the hull's transformed points in normalized winding
// order. The returned slice MUST NOT be mutated.
func (h *Hull) WorldPoints() []Vec2 {
	h.update()
	return h.world
}

// Centroid returns the average of the hull's world-space points.
func (h *Hull) Centroid() Vec2 {
	h.update()
	return h.centroid
}

// Bounds returns the hull's world-space axis-aligned bounding rect.
func (h *Hull) Bounds() Rect {
	h.update()
	return h.bounds
}

// Contains reports whether the world-space point lies inside the hull.
// Uses an even-odd ray cast, so it works for any simple polygon.
func (h *Hull) Contains(p Vec2) bool {
	h.update()
	inside := false
	pts := h.world
	j := len(pts) - 1
	for i := 0; i < len(pts); i++ {
		a, b := pts[i], pts[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// update recomputes world points, centroid, and bounds if the hull changed
// since they were last computed. World winding is normalized so outward edge
// normals point away from the interior regardless of the supplied order or
// mirroring scales.
func (h *Hull) update() {
	if h.builtGen == h.gen {
		return
	}
	h.builtGen = h.gen

	cos := math.Cos(h.Rotation)
	sin := math.Sin(h.Rotation)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	var cx, cy float64
	for i, p := range h.local {
		x := p.X * h.Scale.X
		y := p.Y * h.Scale.Y
		wx := cos*x - sin*y + h.Position.X
		wy := sin*x + cos*y + h.Position.Y
		h.world[i] = Vec2{X: wx, Y: wy}
		cx += wx
		cy += wy
		minX = math.Min(minX, wx)
		minY = math.Min(minY, wy)
		maxX = math.Max(maxX, wx)
		maxY = math.Max(maxY, wy)
	}
	n := float64(len(h.world))
	h.centroid = Vec2{X: cx / n, Y: cy / n}
	h.bounds = Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}

	if polygonArea(h.world) > 0 {
		reversePoints(h.world)
	}
}

// polygonArea returns the signed shoelace sum of the polygon. The normalized
// winding used throughout the shadow pipeline has a negative sum.
func polygonArea(pts []Vec2) float64 {
	var sum float64
	j := len(pts) - 1
	for i := 0; i < len(pts); i++ {
		sum += pts[j].X*pts[i].Y - pts[i].X*pts[j].Y
		j = i
	}
	return sum
}

func reversePoints(pts []Vec2) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
