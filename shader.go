package penumbra

import "github.com/hajimehoshi/ebiten/v2"

// --- Kage shader sources ---
// All shaders use //kage:unit pixels as required by Ebitengine.

// shadowShaderSrc resolves per-pixel shadow visibility from interpolated
// vertex attributes. Custom carries the penumbra coordinates of the fragment
// relative to both edge endpoints (xy for the first, zw for the second);
// src.x carries the clip value that rejects front-facing edges. Each side's
// coordinate ratio is clamped to [-1, 1] and eased into an occlusion
// fraction; a non-positive denominator means the side cannot constrain the
// fragment and counts as fully occluding, which is the neutral element of
// the combine below. The output alpha is visibility (1 = lit) and is
// accumulated into the light map with a min blend.
const shadowShaderSrc = `//kage:unit pixels
package main

func side(p vec2) float {
	if p.y <= 0 {
		return 1
	}
	t := clamp(p.x/p.y, -1, 1)
	return t*(3-t*t)*0.25 + 0.5
}

func Fragment(dst vec4, src vec2, color vec4, custom vec4) vec4 {
	if src.x > 0 {
		discard()
	}
	occlusion := clamp(side(custom.xy)+side(custom.zw)-1, 0, 1)
	return vec4(0, 0, 0, 1-occlusion)
}
`

// shadowDebugShaderSrc renders the same geometry as a flat translucent
// color, ignoring the penumbra math. Used by the renderer's debug overlay to
// visualize shadow volumes. Clip rejection is kept so the overlay matches
// what the real pass rasterizes.
const shadowDebugShaderSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4, custom vec4) vec4 {
	if src.x > 0 {
		discard()
	}
	return color * 0.35
}
`

var (
	shadowShader      *ebiten.Shader
	shadowDebugShader *ebiten.Shader
)

func ensureShadowShader() *ebiten.Shader {
	if shadowShader == nil {
		s, err := ebiten.NewShader([]byte(shadowShaderSrc))
		if err != nil {
			panic("penumbra: failed to compile shadow shader: " + err.Error())
		}
		shadowShader = s
	}
	return shadowShader
}

func ensureShadowDebugShader() *ebiten.Shader {
	if shadowDebugShader == nil {
		s, err := ebiten.NewShader([]byte(shadowDebugShaderSrc))
		if err != nil {
			panic("penumbra: failed to compile shadow debug shader: " + err.Error())
		}
		shadowDebugShader = s
	}
	return shadowDebugShader
}
