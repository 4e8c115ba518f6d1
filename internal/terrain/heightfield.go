package terrain

import (
	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/pkg/math"
)

// HeightField maps world (x, z) to terrain height. It is the single
// ground-truth surface consumed by the terrain mesh, grass placement,
// tree scatter and the collision world.
type HeightField struct {
	noise       *Noise
	noiseScale  float32
	heightScale float32
	halfSize    float32
}

// NewHeightField creates a height field from world settings.
func NewHeightField(cfg config.WorldConfig) *HeightField {
	return &HeightField{
		noise:       NewNoise(cfg.Seed, cfg.Octaves, cfg.Persistence, cfg.Lacunarity),
		noiseScale:  cfg.NoiseScale,
		heightScale: cfg.HeightScale,
		halfSize:    cfg.Size / 2,
	}
}

// HeightAt returns the terrain height at a world position. The fractal
// noise is shaped so the meadow flattens gently toward the world edge,
// keeping the playable rim walkable.
func (f *HeightField) HeightAt(x, z float32) float32 {
	n := f.noise.Sample(x*f.noiseScale, z*f.noiseScale)
	h := (n*0.5 + 0.5) * f.heightScale
	h *= f.edgeFalloff(x, z)
	if !math.IsFinite(h) {
		return 0
	}
	return h
}

// Normal returns the surface normal at a world position, from central
// differences of the height field.
func (f *HeightField) Normal(x, z float32) math.Vec3 {
	const eps = 0.35
	dx := (f.HeightAt(x+eps, z) - f.HeightAt(x-eps, z)) / (2 * eps)
	dz := (f.HeightAt(x, z+eps) - f.HeightAt(x, z-eps)) / (2 * eps)
	return math.Vec3{X: -dx, Y: 1, Z: -dz}.Normalize()
}

// Slope returns 0 for flat ground rising to 1 for a vertical face.
func (f *HeightField) Slope(x, z float32) float32 {
	return 1 - f.Normal(x, z).Y
}

// MaxHeight returns the upper bound of the field, used for tile AABBs
// and the camera far plane.
func (f *HeightField) MaxHeight() float32 {
	return f.heightScale
}

// edgeFalloff fades height to zero over the outer 15% of the world so
// tiles at the rim sit near sea level.
func (f *HeightField) edgeFalloff(x, z float32) float32 {
	if f.halfSize <= 0 {
		return 1
	}
	d := math.Abs(x)
	if math.Abs(z) > d {
		d = math.Abs(z)
	}
	fadeStart := f.halfSize * 0.85
	if d <= fadeStart {
		return 1
	}
	return 1 - math.Smoothstep(fadeStart, f.halfSize, d)
}
