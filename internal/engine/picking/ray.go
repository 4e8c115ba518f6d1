// Package picking converts viewport clicks into world-space rays and
// intersects them with the ground, the height field and bounding
// boxes. The studio uses it for click-teleport and tile inspection.
package picking

import (
	gomath "math"

	"github.com/softmeadow/glade/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    [3]float32
	Direction [3]float32 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// HeightFunc samples ground height at a world position.
type HeightFunc func(x, z float32) float32

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := (2.0*screenX/viewportW - 1.0)
	ndcY := (1.0 - 2.0*screenY/viewportH) // Flip Y

	// Unproject near and far points
	nearPoint := math.Vec4{ndcX, ndcY, -1.0, 1.0}
	farPoint := math.Vec4{ndcX, ndcY, 1.0, 1.0}

	nearWorld := invViewProj.MulVec4(nearPoint)
	farWorld := invViewProj.MulVec4(farPoint)

	// Perspective divide
	if nearWorld[3] != 0 {
		nearWorld[0] /= nearWorld[3]
		nearWorld[1] /= nearWorld[3]
		nearWorld[2] /= nearWorld[3]
	}
	if farWorld[3] != 0 {
		farWorld[0] /= farWorld[3]
		farWorld[1] /= farWorld[3]
		farWorld[2] /= farWorld[3]
	}

	origin := [3]float32{nearWorld[0], nearWorld[1], nearWorld[2]}
	dir := [3]float32{
		farWorld[0] - nearWorld[0],
		farWorld[1] - nearWorld[1],
		farWorld[2] - nearWorld[2],
	}

	// Normalize direction
	rayLen := float32(gomath.Sqrt(float64(dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2])))
	if rayLen > 0 {
		dir[0] /= rayLen
		dir[1] /= rayLen
		dir[2] /= rayLen
	}

	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) [3]float32 {
	return [3]float32{
		r.Origin[0] + t*r.Direction[0],
		r.Origin[1] + t*r.Direction[1],
		r.Origin[2] + t*r.Direction[2],
	}
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	// Ray: P = Origin + t * Direction
	// Plane: Y = planeY
	// Solve: Origin.Y + t * Direction.Y = planeY
	if gomath.Abs(float64(r.Direction[1])) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeY - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}

	x = r.Origin[0] + t*r.Direction[0]
	z = r.Origin[2] + t*r.Direction[2]
	return x, z, true
}

// IntersectHeightField marches the ray against a height field and
// returns the first crossing, refined by bisection. step controls the
// march resolution; crossings narrower than one step can be missed.
func (r Ray) IntersectHeightField(height HeightFunc, maxDist, step float32) (point [3]float32, hit bool) {
	if height == nil || step <= 0 || maxDist <= 0 {
		return point, false
	}

	prev := float32(0)
	p := r.At(0)
	below := p[1] <= height(p[0], p[2])
	if below {
		// Origin already underground; report it directly.
		return p, true
	}

	for t := step; t <= maxDist; t += step {
		p = r.At(t)
		if p[1] <= height(p[0], p[2]) {
			// Crossed between prev and t; bisect to tighten.
			lo, hi := prev, t
			for i := 0; i < 12; i++ {
				mid := (lo + hi) / 2
				q := r.At(mid)
				if q[1] <= height(q[0], q[2]) {
					hi = mid
				} else {
					lo = mid
				}
			}
			p = r.At(hi)
			p[1] = height(p[0], p[2])
			return p, true
		}
		prev = t
	}

	return point, false
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	// X slab
	if r.Direction[0] != 0 {
		t1 := (box.Min[0] - r.Origin[0]) / r.Direction[0]
		t2 := (box.Max[0] - r.Origin[0]) / r.Direction[0]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if r.Origin[0] < box.Min[0] || r.Origin[0] > box.Max[0] {
		return 0, false
	}

	// Y slab
	if r.Direction[1] != 0 {
		t1 := (box.Min[1] - r.Origin[1]) / r.Direction[1]
		t2 := (box.Max[1] - r.Origin[1]) / r.Direction[1]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if r.Origin[1] < box.Min[1] || r.Origin[1] > box.Max[1] {
		return 0, false
	}

	// Z slab
	if r.Direction[2] != 0 {
		t1 := (box.Min[2] - r.Origin[2]) / r.Direction[2]
		t2 := (box.Max[2] - r.Origin[2]) / r.Direction[2]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if r.Origin[2] < box.Min[2] || r.Origin[2] > box.Max[2] {
		return 0, false
	}

	// Check if intersection is valid
	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB creates an AABB from min and max corners, handling swapped
// axes.
func NewAABB(minX, minY, minZ, maxX, maxY, maxZ float32) AABB {
	box := AABB{
		Min: [3]float32{minX, minY, minZ},
		Max: [3]float32{maxX, maxY, maxZ},
	}
	// Ensure min < max for each axis
	if box.Min[0] > box.Max[0] {
		box.Min[0], box.Max[0] = box.Max[0], box.Min[0]
	}
	if box.Min[1] > box.Max[1] {
		box.Min[1], box.Max[1] = box.Max[1], box.Min[1]
	}
	if box.Min[2] > box.Max[2] {
		box.Min[2], box.Max[2] = box.Max[2], box.Min[2]
	}
	return box
}
