// Package weather simulates the decorative atmosphere: the global wind
// field and the rain and leaf particle pools.
package weather

import (
	gomath "math"
	"time"

	"github.com/softmeadow/glade/pkg/math"
)

// Wind layers a few incommensurate sines into a slowly wandering
// direction, strength and gust value. Everything downstream (grass
// sway, leaf drift, ambience gain) samples the same field so the scene
// moves together.
type Wind struct {
	baseAngle    float32 // Radians, 0 = +X
	baseStrength float32 // 0..1
	t            float32
}

// NewWind sets the prevailing direction (degrees, 0 = +X) and
// strength.
func NewWind(directionDeg, strength float32) *Wind {
	w := &Wind{}
	w.Set(directionDeg, strength)
	return w
}

// Set retunes the prevailing wind.
func (w *Wind) Set(directionDeg, strength float32) {
	w.baseAngle = directionDeg * math.Pi / 180
	w.baseStrength = math.Clamp(strength, 0, 1)
}

// Update advances the field.
func (w *Wind) Update(dt time.Duration) {
	w.t += float32(dt.Seconds())
}

// Angle returns the current direction in radians, the prevailing
// direction plus a slow wander.
func (w *Wind) Angle() float32 {
	wander := 0.35*sinf(w.t*0.13) + 0.15*sinf(w.t*0.047+1.7)
	return w.baseAngle + wander
}

// Strength returns the current strength in [0, 1].
func (w *Wind) Strength() float32 {
	breath := 0.25*sinf(w.t*0.31) + 0.12*sinf(w.t*0.73+0.9)
	return math.Clamp(w.baseStrength*(1+breath), 0, 1)
}

// Gust returns the fast-moving gust factor in [0, 1], layered on top
// of Strength by the grass shader.
func (w *Wind) Gust() float32 {
	g := 0.5 + 0.3*sinf(w.t*1.9) + 0.2*sinf(w.t*3.7+2.3)
	return math.Clamp(g, 0, 1) * w.Strength()
}

// Direction returns the horizontal unit direction the wind blows
// toward.
func (w *Wind) Direction() math.Vec3 {
	a := w.Angle()
	return math.Vec3{X: cosf(a), Z: sinf(a)}
}

// Velocity returns the wind vector scaled for particle advection.
func (w *Wind) Velocity(scale float32) math.Vec3 {
	return w.Direction().Scale(w.Strength() * scale)
}

// Time returns the accumulated field time, for shaders that animate
// sway in sync with the CPU field.
func (w *Wind) Time() float32 { return w.t }

func sinf(x float32) float32 { return float32(gomath.Sin(float64(x))) }
func cosf(x float32) float32 { return float32(gomath.Cos(float64(x))) }
