package penumbra

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Light animation helpers. These are optional conveniences: they only drive
// exported Light fields, so hosts with their own animation systems can
// ignore them entirely. Call Update once per frame from the game loop.

// Fade animates a light's intensity to a target value over a duration.
type Fade struct {
	light *Light
	tween *gween.Tween
	done  bool
}

// NewFade creates a fade from the light's current intensity.
func NewFade(l *Light, to float64, duration float32, easeFn ease.TweenFunc) *Fade {
	return &Fade{
		light: l,
		tween: gween.New(float32(l.Intensity), float32(to), duration, easeFn),
	}
}

// Update advances the fade by dt seconds and reports whether it finished.
func (f *Fade) Update(dt float32) bool {
	if f.done {
		return true
	}
	val, done := f.tween.Update(dt)
	f.light.Intensity = float64(val)
	f.done = done
	return done
}

// Pulse ping-pongs a light's intensity between Min and Max forever.
type Pulse struct {
	light  *Light
	tween  *gween.Tween
	easeFn ease.TweenFunc

	// Min and Max bound the intensity range.
	Min, Max float64
	// Duration is the time in seconds for one half cycle.
	Duration float32

	rising bool
}

// NewPulse creates a pulse starting toward Max.
func NewPulse(l *Light, minI, maxI float64, halfCycle float32, easeFn ease.TweenFunc) *Pulse {
	return &Pulse{
		light:    l,
		easeFn:   easeFn,
		Min:      minI,
		Max:      maxI,
		Duration: halfCycle,
		rising:   true,
		tween:    gween.New(float32(l.Intensity), float32(maxI), halfCycle, easeFn),
	}
}

// Update advances the pulse by dt seconds.
func (p *Pulse) Update(dt float32) {
	val, done := p.tween.Update(dt)
	p.light.Intensity = float64(val)
	if !done {
		return
	}
	p.rising = !p.rising
	to := p.Max
	if !p.rising {
		to = p.Min
	}
	p.tween = gween.New(val, float32(to), p.Duration, p.easeFn)
}

// Flicker adds torch-like variation around a base intensity using layered
// sines, so it is deterministic and needs no random source.
type Flicker struct {
	// Light is the animated light.
	Light *Light
	// Base is the center intensity.
	Base float64
	// Amount is the maximum deviation from Base.
	Amount float64
	// Speed scales how fast the flicker runs. 1 is a calm torch.
	Speed float64

	t float64
}

// Update advances the flicker by dt seconds.
func (f *Flicker) Update(dt float64) {
	speed := f.Speed
	if speed == 0 {
		speed = 1
	}
	f.t += dt * speed
	n := 0.55*math.Sin(f.t*7.3) + 0.3*math.Sin(f.t*17.1+1.3) + 0.15*math.Sin(f.t*31.7+4.1)
	f.Light.Intensity = math.Max(0, f.Base+f.Amount*n)
}
