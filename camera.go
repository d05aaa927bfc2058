package penumbra

import (
	"image"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Projection selects the convention used to map world space onto the light map.
type Projection uint8

const (
	// ProjectionScreen treats world coordinates as screen pixels:
	// origin at the top-left, Y increasing downward. The default camera
	// (position 0,0, zoom 1, no rotation) is the identity transform.
	ProjectionScreen Projection = iota
	// ProjectionOriginCenter is a Y-up world with the origin at the center
	// of the viewport.
	ProjectionOriginCenter
	// ProjectionOriginBottomLeft is a Y-up world with the origin at the
	// bottom-left corner of the viewport.
	ProjectionOriginBottomLeft
	// ProjectionCustom uses Camera.CustomMatrix as the base projection.
	ProjectionCustom
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera controls the view into the world: position, zoom, rotation, and
// projection convention. Shadow geometry, light footprints, and scissor
// rectangles all pass through its view matrix, so panning or zooming the
// camera moves the whole lighting pass with it.
type Camera struct {
	// X and Y are the world-space position the camera is anchored to.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians.
	Rotation float64
	// Viewport is the screen-space rectangle the camera renders into.
	// Matches the renderer's light map size.
	Viewport Rect
	// Projection selects the world-to-screen convention.
	Projection Projection
	// CustomMatrix is the base projection used when Projection is
	// ProjectionCustom. Layout matches the internal affine format:
	// [a, b, c, d, tx, ty].
	CustomMatrix [6]float64

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	scrollTween *scrollAnim
}

// newCamera creates a Camera with default values and the given viewport.
func newCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
		dirty:    true,
	}
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Update advances any active scroll animation. Call once per frame with the
// elapsed time in seconds. Safe to skip if ScrollTo is never used.
func (c *Camera) Update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	prevX, prevY := c.X, c.Y
	if !c.scrollTween.doneX {
		val, done := c.scrollTween.tweenX.Update(dt)
		c.X = float64(val)
		c.scrollTween.doneX = done
	}
	if !c.scrollTween.doneY {
		val, done := c.scrollTween.tweenY.Update(dt)
		c.Y = float64(val)
		c.scrollTween.doneY = done
	}
	if c.scrollTween.doneX && c.scrollTween.doneY {
		c.scrollTween = nil
	}
	if c.X != prevX || c.Y != prevY {
		c.dirty = true
	}
}

// MarkDirty forces a recomputation of the view matrix. Call after modifying
// X, Y, Zoom, Rotation, Viewport, Projection, or CustomMatrix directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// InvertedY reports whether the projection flips the Y axis (world Y-up).
func (c *Camera) InvertedY() bool {
	c.computeViewMatrix()
	det := c.viewMatrix[0]*c.viewMatrix[3] - c.viewMatrix[2]*c.viewMatrix[1]
	return det < 0
}

// baseMatrix returns the projection's base transform, applied after camera
// position, zoom, and rotation.
func (c *Camera) baseMatrix() [6]float64 {
	switch c.Projection {
	case ProjectionOriginCenter:
		cx := c.Viewport.X + c.Viewport.Width/2
		cy := c.Viewport.Y + c.Viewport.Height/2
		return [6]float64{1, 0, 0, -1, cx, cy}
	case ProjectionOriginBottomLeft:
		return [6]float64{1, 0, 0, -1, c.Viewport.X, c.Viewport.Y + c.Viewport.Height}
	case ProjectionCustom:
		return c.CustomMatrix
	default:
		return identityTransform
	}
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = base(projection) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cos := math.Cos(-c.Rotation)
	sin := math.Sin(-c.Rotation)
	z := c.Zoom

	// Scale(z) * Rotate(-rot) * Translate(-X, -Y)
	sr := [6]float64{z * cos, z * sin, -z * sin, z * cos, 0, 0}
	sr[4] = -(sr[0]*c.X + sr[2]*c.Y)
	sr[5] = -(sr[1]*c.X + sr[3]*c.Y)

	c.viewMatrix = multiplyAffine(c.baseMatrix(), sr)
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	sx, sy = transformPoint(c.viewMatrix, wx, wy)
	return
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	wx, wy = transformPoint(c.invViewMatrix, sx, sy)
	return
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's visible
// area in world space.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	return rectWorldAABB(c.invViewMatrix, c.Viewport)
}

// scissorRect computes the screen-space scissor rectangle for a light: its
// world-space bounds transformed to the screen and clipped to the viewport.
// An empty rectangle means the light is entirely off screen.
func (c *Camera) scissorRect(l *Light) image.Rectangle {
	c.computeViewMatrix()
	screen := rectWorldAABB(c.viewMatrix, l.Bounds())
	clipped := screen.intersect(c.Viewport)
	if clipped.Width <= 0 || clipped.Height <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(clipped.X)),
		int(math.Floor(clipped.Y)),
		int(math.Ceil(clipped.X+clipped.Width)),
		int(math.Ceil(clipped.Y+clipped.Height)),
	)
}

// rectWorldAABB computes the axis-aligned bounding box of a rectangle
// transformed by the given affine matrix. Zero allocations.
func rectWorldAABB(m [6]float64, r Rect) Rect {
	x0, y0 := transformPoint(m, r.X, r.Y)
	x1, y1 := transformPoint(m, r.X+r.Width, r.Y)
	x2, y2 := transformPoint(m, r.X+r.Width, r.Y+r.Height)
	x3, y3 := transformPoint(m, r.X, r.Y+r.Height)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
