package ecs

import (
	"github.com/phanxgames/penumbra"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// PositionData is the world-space position of an entity.
type PositionData struct {
	X, Y float64
}

// LightData attaches a penumbra light to an entity. The light tracks the
// entity's Position (plus offset) whenever SyncLights runs.
type LightData struct {
	Light   *penumbra.Light
	OffsetX float64
	OffsetY float64
}

// HullData attaches a penumbra hull to an entity. The hull tracks the
// entity's Position (plus offset) whenever SyncHulls runs.
type HullData struct {
	Hull    *penumbra.Hull
	OffsetX float64
	OffsetY float64
}

// Donburi component types.
var (
	Position = donburi.NewComponentType[PositionData]()
	Light    = donburi.NewComponentType[LightData]()
	Hull     = donburi.NewComponentType[HullData]()
)

var (
	lightQuery = donburi.NewQuery(filter.Contains(Position, Light))
	hullQuery  = donburi.NewQuery(filter.Contains(Position, Hull))
)

// SyncLights copies entity positions into their attached lights.
// Call once per frame before the renderer draws.
func SyncLights(w donburi.World) {
	lightQuery.Each(w, func(e *donburi.Entry) {
		p := Position.Get(e)
		d := Light.Get(e)
		if d.Light == nil {
			return
		}
		x := p.X + d.OffsetX
		y := p.Y + d.OffsetY
		if x != d.Light.X || y != d.Light.Y {
			d.Light.X = x
			d.Light.Y = y
			d.Light.MarkDirty()
		}
	})
}

// SyncHulls copies entity positions into their attached hulls.
// Call once per frame before the renderer draws.
func SyncHulls(w donburi.World) {
	hullQuery.Each(w, func(e *donburi.Entry) {
		p := Position.Get(e)
		d := Hull.Get(e)
		if d.Hull == nil {
			return
		}
		pos := penumbra.Vec2{X: p.X + d.OffsetX, Y: p.Y + d.OffsetY}
		if pos != d.Hull.Position {
			d.Hull.Position = pos
			d.Hull.MarkDirty()
		}
	})
}
