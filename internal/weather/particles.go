package weather

import (
	"math/rand"
	"time"

	"github.com/softmeadow/glade/pkg/math"
)

// HeightSampler tells the pools where the ground is so particles can
// expire on impact.
type HeightSampler interface {
	HeightAt(x, z float32) float32
}

// Particle is one element of a pool. Dead slots have Life <= 0 and are
// skipped by the renderer.
type Particle struct {
	Position math.Vec3
	Velocity math.Vec3
	Life     float32
	Seed     float32 // Per-particle phase for flutter and size variation
}

// Emission tuning. Rain falls inside a column that tracks the camera;
// leaves drift in a wider, shallower shell.
const (
	rainRadius   = 28.0
	rainCeiling  = 22.0
	rainFallMin  = 16.0
	rainFallMax  = 24.0
	rainShear    = 6.0 // Horizontal wind velocity at full strength
	leafRadius   = 40.0
	leafCeiling  = 9.0
	leafLifeMin  = 8.0
	leafLifeMax  = 18.0
	leafFlutter  = 1.6
	leafDriftVel = 3.2
)

// Rain is a fixed-capacity pool of falling streaks. Intensity scales
// the live count, not the capacity.
type Rain struct {
	particles []Particle
	rng       *rand.Rand
	ground    HeightSampler
	intensity float32
	enabled   bool
}

// NewRain builds a pool. The sampler may be nil; particles then expire
// at height zero.
func NewRain(capacity int, seed int64, ground HeightSampler) *Rain {
	if capacity < 0 {
		capacity = 0
	}
	return &Rain{
		particles: make([]Particle, capacity),
		rng:       rand.New(rand.NewSource(seed)),
		ground:    ground,
		intensity: 1,
	}
}

// SetEnabled toggles the rain. Disabling lets live streaks finish
// falling instead of popping out.
func (r *Rain) SetEnabled(enabled bool) { r.enabled = enabled }

// Enabled reports the toggle.
func (r *Rain) Enabled() bool { return r.enabled }

// SetIntensity scales the live particle share in [0, 1].
func (r *Rain) SetIntensity(v float32) { r.intensity = math.Clamp(v, 0, 1) }

// Intensity reports the current intensity.
func (r *Rain) Intensity() float32 { return r.intensity }

// Particles exposes the pool for instanced upload. Slots with
// Life <= 0 are dead.
func (r *Rain) Particles() []Particle { return r.particles }

// Alive counts live particles.
func (r *Rain) Alive() int {
	n := 0
	for i := range r.particles {
		if r.particles[i].Life > 0 {
			n++
		}
	}
	return n
}

// Update advances the pool around the camera position.
func (r *Rain) Update(dt time.Duration, center math.Vec3, wind *Wind) {
	secs := float32(dt.Seconds())
	if secs <= 0 {
		return
	}

	target := 0
	if r.enabled {
		target = int(r.intensity * float32(len(r.particles)))
	}

	shear := wind.Velocity(rainShear)
	alive := 0
	for i := range r.particles {
		p := &r.particles[i]
		if p.Life > 0 {
			p.Velocity.X = shear.X
			p.Velocity.Z = shear.Z
			p.Position = p.Position.Add(p.Velocity.Scale(secs))
			p.Life -= secs
			if p.Position.Y <= r.groundAt(p.Position.X, p.Position.Z) {
				p.Life = 0
			}
			if p.Life > 0 {
				alive++
			}
			continue
		}
		if alive < target {
			r.spawn(p, center)
			alive++
		}
	}
}

func (r *Rain) spawn(p *Particle, center math.Vec3) {
	angle := r.rng.Float32() * 2 * math.Pi
	dist := math.Sqrt(r.rng.Float32()) * rainRadius
	p.Position = math.Vec3{
		X: center.X + cosf(angle)*dist,
		Y: center.Y + rainCeiling*(0.6+0.4*r.rng.Float32()),
		Z: center.Z + sinf(angle)*dist,
	}
	fall := rainFallMin + r.rng.Float32()*(rainFallMax-rainFallMin)
	p.Velocity = math.Vec3{Y: -fall}
	p.Life = 4
	p.Seed = r.rng.Float32()
}

func (r *Rain) groundAt(x, z float32) float32 {
	if r.ground == nil {
		return 0
	}
	h := r.ground.HeightAt(x, z)
	if !math.IsFinite(h) {
		return 0
	}
	return h
}

// Leaves is a fixed-capacity pool of fluttering leaves advected by the
// wind.
type Leaves struct {
	particles []Particle
	rng       *rand.Rand
	ground    HeightSampler
	enabled   bool
	t         float32
}

// NewLeaves builds a pool of the given capacity.
func NewLeaves(capacity int, seed int64, ground HeightSampler) *Leaves {
	if capacity < 0 {
		capacity = 0
	}
	return &Leaves{
		particles: make([]Particle, capacity),
		rng:       rand.New(rand.NewSource(seed)),
		ground:    ground,
	}
}

// SetEnabled toggles the pool.
func (l *Leaves) SetEnabled(enabled bool) { l.enabled = enabled }

// Enabled reports the toggle.
func (l *Leaves) Enabled() bool { return l.enabled }

// SetCapacity resizes the pool, keeping surviving particles.
func (l *Leaves) SetCapacity(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	if capacity == len(l.particles) {
		return
	}
	next := make([]Particle, capacity)
	copy(next, l.particles)
	l.particles = next
}

// Particles exposes the pool for instanced upload.
func (l *Leaves) Particles() []Particle { return l.particles }

// Alive counts live particles.
func (l *Leaves) Alive() int {
	n := 0
	for i := range l.particles {
		if l.particles[i].Life > 0 {
			n++
		}
	}
	return n
}

// Update advances the pool. Leaves ride the wind with a per-particle
// flutter and settle out on the ground.
func (l *Leaves) Update(dt time.Duration, center math.Vec3, wind *Wind) {
	secs := float32(dt.Seconds())
	if secs <= 0 {
		return
	}
	l.t += secs

	drift := wind.Velocity(leafDriftVel)
	for i := range l.particles {
		p := &l.particles[i]
		if p.Life > 0 {
			phase := l.t*2.1 + p.Seed*math.Pi*2
			flutter := math.Vec3{
				X: sinf(phase) * leafFlutter * 0.4,
				Y: -0.6 + 0.35*sinf(phase*1.7),
				Z: cosf(phase*0.8) * leafFlutter * 0.4,
			}
			p.Velocity = drift.Add(flutter)
			p.Position = p.Position.Add(p.Velocity.Scale(secs))
			p.Life -= secs
			if p.Position.Y <= l.groundAt(p.Position.X, p.Position.Z)+0.05 {
				p.Life = 0
			}
			continue
		}
		if l.enabled {
			l.spawn(p, center)
		}
	}
}

func (l *Leaves) spawn(p *Particle, center math.Vec3) {
	angle := l.rng.Float32() * 2 * math.Pi
	dist := math.Sqrt(l.rng.Float32()) * leafRadius
	x := center.X + cosf(angle)*dist
	z := center.Z + sinf(angle)*dist
	p.Position = math.Vec3{
		X: x,
		Y: l.groundAt(x, z) + 1.5 + l.rng.Float32()*(leafCeiling-1.5),
		Z: z,
	}
	p.Velocity = math.Vec3{}
	p.Life = leafLifeMin + l.rng.Float32()*(leafLifeMax-leafLifeMin)
	p.Seed = l.rng.Float32()
}

func (l *Leaves) groundAt(x, z float32) float32 {
	if l.ground == nil {
		return 0
	}
	h := l.ground.HeightAt(x, z)
	if !math.IsFinite(h) {
		return 0
	}
	return h
}
