// Package sky drives the day cycle. A single progressing time-of-day
// value yields the sun direction, light intensities and palette the
// renderers consume each frame.
package sky

import (
	gomath "math"
	"time"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/pkg/math"
)

// State is one frame's sky sample.
type State struct {
	Hour         float32 // 0..24
	Progress     float32 // 0..1 through the full cycle
	Phase        string  // dawn, day, dusk, night
	SunDirection math.Vec3
	SunIntensity float32
	Ambient      float32
	SunColor     [3]float32
	ZenithColor  [3]float32
	HorizonColor [3]float32
	FogColor     [3]float32
}

// Cycle accumulates frame time into a day fraction. Time only moves
// through Update, so a paused playground holds its lighting still.
type Cycle struct {
	dayLength time.Duration
	elapsed   time.Duration
	initial   float32
	paused    bool
}

// New starts a cycle at the configured hour.
func New(cfg config.SkyConfig) *Cycle {
	dayLength := cfg.DayLength
	if dayLength <= 0 {
		dayLength = 20 * time.Minute
	}
	c := &Cycle{
		dayLength: dayLength,
		paused:    cfg.Paused,
	}
	c.SetHour(cfg.StartHour)
	return c
}

// Update advances the cycle unless paused.
func (c *Cycle) Update(dt time.Duration) {
	if c.paused || dt <= 0 {
		return
	}
	c.elapsed += dt
	if c.elapsed >= c.dayLength {
		c.elapsed -= c.dayLength
	}
}

// SetHour jumps the cycle to the given hour of day.
func (c *Cycle) SetHour(hour float32) {
	frac := float64(hour) / 24
	frac = gomath.Mod(frac, 1)
	if frac < 0 {
		frac += 1
	}
	c.initial = float32(frac)
	c.elapsed = 0
}

// SetPaused freezes or resumes the cycle.
func (c *Cycle) SetPaused(paused bool) {
	c.paused = paused
}

// SetDayLength rescales the cycle, keeping the current time of day.
func (c *Cycle) SetDayLength(d time.Duration) {
	if d <= 0 {
		return
	}
	hour := c.State().Hour
	c.dayLength = d
	c.SetHour(hour)
}

// Paused reports whether the cycle is frozen.
func (c *Cycle) Paused() bool { return c.paused }

// State samples the cycle. The sun orbits in the XY plane with a
// slight Z lean so low sun angles still cast readable shadows.
func (c *Cycle) State() State {
	frac := float64(c.initial) + float64(c.elapsed)/float64(c.dayLength)
	progress := gomath.Mod(frac, 1)

	orbital := gomath.Mod(progress+0.75, 1) * 2 * gomath.Pi
	elevation := gomath.Sin(orbital)
	dir := math.Vec3{
		X: float32(gomath.Cos(orbital)),
		Y: float32(elevation),
		Z: 0.3,
	}.Normalize()

	up := float32(gomath.Max(0, elevation))
	hour := float32(progress * 24)

	s := State{
		Hour:         hour,
		Progress:     float32(progress),
		Phase:        phaseForHour(hour),
		SunDirection: dir,
		SunIntensity: 0.15 + 0.85*up,
		Ambient:      0.2 + 0.6*up,
	}
	s.SunColor = paletteAt(sunPalette, float32(progress))
	s.ZenithColor = paletteAt(zenithPalette, float32(progress))
	s.HorizonColor = paletteAt(horizonPalette, float32(progress))
	s.FogColor = mix3(s.HorizonColor, s.ZenithColor, 0.35)
	return s
}

func phaseForHour(hour float32) string {
	switch {
	case hour >= 5 && hour < 7:
		return "dawn"
	case hour >= 7 && hour < 18:
		return "day"
	case hour >= 18 && hour < 21:
		return "dusk"
	default:
		return "night"
	}
}

// Palettes keyed by day progress (0 = midnight). Dawn and dusk keys
// sit at the phase boundaries so the warm tones land with the low sun.
type paletteKey struct {
	at    float32
	color [3]float32
}

var sunPalette = []paletteKey{
	{0.00, [3]float32{0.10, 0.12, 0.25}},
	{0.22, [3]float32{0.35, 0.25, 0.30}},
	{0.27, [3]float32{1.00, 0.65, 0.40}},
	{0.35, [3]float32{1.00, 0.95, 0.85}},
	{0.50, [3]float32{1.00, 1.00, 0.95}},
	{0.70, [3]float32{1.00, 0.92, 0.80}},
	{0.78, [3]float32{1.00, 0.55, 0.30}},
	{0.85, [3]float32{0.25, 0.18, 0.30}},
	{1.00, [3]float32{0.10, 0.12, 0.25}},
}

var zenithPalette = []paletteKey{
	{0.00, [3]float32{0.01, 0.02, 0.06}},
	{0.22, [3]float32{0.04, 0.05, 0.15}},
	{0.30, [3]float32{0.25, 0.45, 0.75}},
	{0.50, [3]float32{0.30, 0.55, 0.90}},
	{0.72, [3]float32{0.25, 0.42, 0.75}},
	{0.82, [3]float32{0.05, 0.05, 0.18}},
	{1.00, [3]float32{0.01, 0.02, 0.06}},
}

var horizonPalette = []paletteKey{
	{0.00, [3]float32{0.03, 0.04, 0.09}},
	{0.22, [3]float32{0.30, 0.18, 0.25}},
	{0.27, [3]float32{0.95, 0.60, 0.35}},
	{0.35, [3]float32{0.70, 0.80, 0.92}},
	{0.50, [3]float32{0.75, 0.85, 0.95}},
	{0.70, [3]float32{0.80, 0.72, 0.62}},
	{0.78, [3]float32{0.95, 0.45, 0.25}},
	{0.85, [3]float32{0.10, 0.07, 0.15}},
	{1.00, [3]float32{0.03, 0.04, 0.09}},
}

// paletteAt interpolates a keyed palette at the given progress.
func paletteAt(keys []paletteKey, at float32) [3]float32 {
	if len(keys) == 0 {
		return [3]float32{}
	}
	if at <= keys[0].at {
		return keys[0].color
	}
	for i := 1; i < len(keys); i++ {
		if at <= keys[i].at {
			span := keys[i].at - keys[i-1].at
			if span <= 0 {
				return keys[i].color
			}
			t := (at - keys[i-1].at) / span
			return mix3(keys[i-1].color, keys[i].color, t)
		}
	}
	return keys[len(keys)-1].color
}

func mix3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		math.Lerp(a[0], b[0], t),
		math.Lerp(a[1], b[1], t),
		math.Lerp(a[2], b[2], t),
	}
}
