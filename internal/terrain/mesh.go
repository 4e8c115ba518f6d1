package terrain

import "github.com/softmeadow/glade/pkg/math"

// Vertex is a terrain mesh vertex with all attributes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [3]float32
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Mesh holds the complete terrain mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Height bands for the vertex color ramp, as fractions of the field's
// maximum height.
const (
	sandBand  = 0.08
	grassBand = 0.55
	rockBand  = 0.85
)

var (
	sandColor  = [3]float32{0.76, 0.70, 0.50}
	grassColor = [3]float32{0.33, 0.52, 0.27}
	rockColor  = [3]float32{0.45, 0.42, 0.40}
	snowColor  = [3]float32{0.92, 0.93, 0.95}
)

// BuildMesh samples the height field on a regular grid and produces a
// triangle mesh with per-vertex normals and a height/slope color ramp.
// size is the side length of the square world, resolution the vertex
// count per side (minimum 2).
func BuildMesh(field *HeightField, size float32, resolution int) *Mesh {
	if resolution < 2 {
		resolution = 2
	}

	step := size / float32(resolution-1)
	half := size / 2

	bounds := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}

	vertices := make([]Vertex, 0, resolution*resolution)
	for iz := 0; iz < resolution; iz++ {
		for ix := 0; ix < resolution; ix++ {
			x := -half + float32(ix)*step
			z := -half + float32(iz)*step
			h := field.HeightAt(x, z)
			if !math.IsFinite(h) {
				h = 0
			}
			normal := field.Normal(x, z)

			v := Vertex{
				Position: [3]float32{x, h, z},
				Normal:   [3]float32{normal.X, normal.Y, normal.Z},
				Color:    rampColor(h/maxf(field.MaxHeight(), 1e-6), 1-normal.Y),
			}
			vertices = append(vertices, v)
			updateBounds(&bounds, v.Position)
		}
	}

	indices := make([]uint32, 0, (resolution-1)*(resolution-1)*6)
	for iz := 0; iz < resolution-1; iz++ {
		for ix := 0; ix < resolution-1; ix++ {
			i0 := uint32(iz*resolution + ix)
			i1 := i0 + 1
			i2 := i0 + uint32(resolution)
			i3 := i2 + 1
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}

	return &Mesh{Vertices: vertices, Indices: indices, Bounds: bounds}
}

// rampColor blends the sand/grass/rock/snow bands by relative height,
// then pulls steep faces toward rock regardless of altitude.
func rampColor(relHeight, slope float32) [3]float32 {
	var c [3]float32
	switch {
	case relHeight < sandBand:
		c = blend(sandColor, grassColor, math.Smoothstep(0, sandBand, relHeight))
	case relHeight < grassBand:
		c = blend(grassColor, rockColor, math.Smoothstep(grassBand*0.7, grassBand, relHeight))
	case relHeight < rockBand:
		c = blend(rockColor, snowColor, math.Smoothstep(rockBand*0.85, rockBand, relHeight))
	default:
		c = snowColor
	}

	rockiness := math.Smoothstep(0.25, 0.6, slope)
	return blend(c, rockColor, rockiness)
}

func blend(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		math.Lerp(a[0], b[0], t),
		math.Lerp(a[1], b[1], t),
		math.Lerp(a[2], b[2], t),
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
