package debug

import (
	"github.com/softmeadow/glade/internal/engine/collision"
)

// GenerateBoundsWireframe creates colored line vertices for a
// wireframe box. Returns 24 vertices (12 edges, 2 endpoints each).
func GenerateBoundsWireframe(min, max [3]float32, color [3]float32) []TileVertex {
	v := func(x, y, z float32) TileVertex {
		return TileVertex{x, y, z, color[0], color[1], color[2]}
	}
	return []TileVertex{
		// Bottom face (4 edges)
		v(min[0], min[1], min[2]), v(max[0], min[1], min[2]),
		v(max[0], min[1], min[2]), v(max[0], min[1], max[2]),
		v(max[0], min[1], max[2]), v(min[0], min[1], max[2]),
		v(min[0], min[1], max[2]), v(min[0], min[1], min[2]),
		// Top face (4 edges)
		v(min[0], max[1], min[2]), v(max[0], max[1], min[2]),
		v(max[0], max[1], min[2]), v(max[0], max[1], max[2]),
		v(max[0], max[1], max[2]), v(min[0], max[1], max[2]),
		v(min[0], max[1], max[2]), v(min[0], max[1], min[2]),
		// Vertical edges (4 edges)
		v(min[0], min[1], min[2]), v(min[0], max[1], min[2]),
		v(max[0], min[1], min[2]), v(max[0], max[1], min[2]),
		v(max[0], min[1], max[2]), v(max[0], max[1], max[2]),
		v(min[0], min[1], max[2]), v(min[0], max[1], max[2]),
	}
}

// GenerateColliderWireframe creates wireframe vertices for a collision
// box, expanded by padding on all sides. Used for the character
// capsule bounds overlay.
func GenerateColliderWireframe(box collision.AABB, padding float32, color [3]float32) []TileVertex {
	min := [3]float32{box.Min.X - padding, box.Min.Y - padding, box.Min.Z - padding}
	max := [3]float32{box.Max.X + padding, box.Max.Y + padding, box.Max.Z + padding}
	return GenerateBoundsWireframe(min, max, color)
}

// BoundsWireframeVertexCount is the number of vertices in one box
// wireframe (12 edges, 2 endpoints each).
const BoundsWireframeVertexCount = 24
