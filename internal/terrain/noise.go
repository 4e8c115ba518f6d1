// Package terrain generates the procedural height field and the terrain
// surface mesh built from it.
package terrain

import "math"

// Noise is a seeded fractal value-noise sampler. Sampling is a pure
// function of (x, z) and the seed: lattice values come from a hash of
// the integer coordinates, so there is no RNG state to walk and the
// same inputs always produce the same output.
type Noise struct {
	seed        int64
	octaves     int
	persistence float64
	lacunarity  float64
}

// NewNoise creates a noise sampler. Octaves below 1 are clamped to 1.
func NewNoise(seed int64, octaves int, persistence, lacunarity float32) *Noise {
	if octaves < 1 {
		octaves = 1
	}
	return &Noise{
		seed:        seed,
		octaves:     octaves,
		persistence: float64(persistence),
		lacunarity:  float64(lacunarity),
	}
}

// Sample returns fractal noise at (x, z), normalized to [-1, 1].
func (n *Noise) Sample(x, z float32) float32 {
	frequency := 1.0
	amplitude := 1.0
	sum := 0.0
	maxAmplitude := 0.0

	fx, fz := float64(x), float64(z)
	for i := 0; i < n.octaves; i++ {
		sum += n.valueNoise(fx*frequency, fz*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= n.persistence
		frequency *= n.lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return float32(sum / maxAmplitude)
}

// valueNoise interpolates hashed lattice values with a smoothstep fade.
func (n *Noise) valueNoise(x, z float64) float64 {
	x0 := int(math.Floor(x))
	z0 := int(math.Floor(z))
	x1 := x0 + 1
	z1 := z0 + 1

	sx := fade(x - float64(x0))
	sz := fade(z - float64(z0))

	n0 := latticeValue(x0, z0, n.seed)
	n1 := latticeValue(x1, z0, n.seed)
	ix0 := mix(n0, n1, sx)

	n2 := latticeValue(x0, z1, n.seed)
	n3 := latticeValue(x1, z1, n.seed)
	ix1 := mix(n2, n3, sx)

	return mix(ix0, ix1, sz)
}

func fade(t float64) float64 {
	return t * t * (3 - 2*t)
}

func mix(a, b, t float64) float64 {
	return a + t*(b-a)
}

// latticeValue maps an integer lattice point to [-1, 1].
func latticeValue(x, z int, seed int64) float64 {
	return float64(hash3(x, z, int(seed))&0xFFFF)/0x8000 - 1.0
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}
