package penumbra

import "github.com/hajimehoshi/ebiten/v2"

// ShadowType selects how hulls react to a light.
type ShadowType uint8

const (
	// ShadowTypeSolid hulls block light: their interior is dark and they
	// cast shadows.
	ShadowTypeSolid ShadowType = iota
	// ShadowTypeIlluminated hulls are lit by the light and cast no shadow.
	ShadowTypeIlluminated
	// ShadowTypeOccluded is reserved for hulls whose interior is lit while
	// the area behind them is shadowed. Currently rendered like
	// ShadowTypeSolid.
	ShadowTypeOccluded
)

// shadowPath describes the render passes a shadow type needs.
type shadowPath struct {
	castShadows bool
}

// shadowPaths dispatches per shadow type. Indexed by ShadowType.
var shadowPaths = [...]shadowPath{
	ShadowTypeSolid:       {castShadows: true},
	ShadowTypeIlluminated: {castShadows: false},
	ShadowTypeOccluded:    {castShadows: true},
}

// path returns the render path for the shadow type, defaulting to solid for
// out-of-range values.
func (t ShadowType) path() shadowPath {
	if int(t) >= len(shadowPaths) {
		return shadowPaths[ShadowTypeSolid]
	}
	return shadowPaths[t]
}

// Light is a point light source. Mutate fields freely, then call MarkDirty
// so cached shadow geometry is rebuilt.
type Light struct {
	// X and Y are the light's world-space position.
	X, Y float64
	// Scale is the light's range: the half-extents of its footprint in
	// world units per axis. Equal components give a circular light.
	Scale Vec2
	// Radius is the physical radius of the light source itself, in world
	// units. Larger radii widen the penumbra; zero gives hard shadows.
	Radius float64
	// Rotation rotates the light's footprint in radians. Only visible for
	// non-uniform Scale or custom textures.
	Rotation float64
	// Color is the light's color. Alpha is ignored; brightness comes from
	// Intensity.
	Color Color
	// Intensity scales the light's brightness. Must be >= 0; values above
	// 1 over-brighten.
	Intensity float64
	// Enabled determines whether the light is rendered at all.
	Enabled bool
	// CastsShadows determines whether hulls occlude this light.
	CastsShadows bool
	// ShadowType selects how hulls react to this light.
	ShadowType ShadowType
	// Texture, if set, replaces the default feathered-circle footprint.
	// The image is stretched to the light's bounds.
	Texture *ebiten.Image

	// gen counts mutations; builtGen and builtHullGen record the light and
	// hull generations the cached shadow geometry was built from. A skipped
	// or culled frame leaves the stamps untouched, so a pending hull change
	// is still seen when the light re-enters view.
	gen          uint64
	builtGen     uint64
	builtHullGen uint64

	// Cached world-space shadow geometry, rebuilt when the light or any
	// hull changes.
	shadowVerts []ebiten.Vertex
	shadowInds  []uint16
}

// NewLight creates an enabled, shadow-casting white light at (x, y) with a
// circular range of rangeRadius world units.
func NewLight(x, y, rangeRadius float64) *Light {
	return &Light{
		X:            x,
		Y:            y,
		Scale:        Vec2{X: rangeRadius, Y: rangeRadius},
		Radius:       rangeRadius * 0.05,
		Color:        ColorWhite,
		Intensity:    1,
		Enabled:      true,
		CastsShadows: true,
		gen:          1,
	}
}

// MarkDirty flags the light so its cached shadow geometry is rebuilt on the
// next frame. Call after modifying any field.
func (l *Light) MarkDirty() {
	l.gen++
}

// IsDirty reports whether the light changed since its shadow geometry was
// last built. Advisory: reading it never affects the renderer's rebuild.
func (l *Light) IsDirty() bool {
	return l.gen != l.builtGen
}

// Range returns the light's maximum reach in world units.
func (l *Light) Range() float64 {
	if l.Scale.X > l.Scale.Y {
		return l.Scale.X
	}
	return l.Scale.Y
}

// Bounds returns the light's world-space bounding rect. Conservative under
// rotation: it uses the larger scale component as a circumradius.
func (l *Light) Bounds() Rect {
	r := l.Range()
	return Rect{X: l.X - r, Y: l.Y - r, Width: 2 * r, Height: 2 * r}
}
