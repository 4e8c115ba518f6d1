// Package frustum provides view-frustum extraction and visibility tests.
package frustum

import (
	gomath "math"

	"github.com/softmeadow/glade/pkg/math"
)

// Plane is a plane in 3D space: Normal·p + D = 0, inside when >= 0.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// Frustum holds the six clip planes of a camera.
// Order: left, right, bottom, top, near, far.
type Frustum struct {
	planes [6]Plane
}

// FromViewProj extracts frustum planes from a view-projection matrix
// using the Gribb/Hartmann method. The matrix is column-major with
// clip = M * world, as produced by proj.Mul(view).
func FromViewProj(vp math.Mat4) Frustum {
	// Rows of the matrix in column-major storage
	row := func(i int) [4]float32 {
		return [4]float32{vp[i], vp[4+i], vp[8+i], vp[12+i]}
	}
	r1, r2, r3, r4 := row(0), row(1), row(2), row(3)

	var f Frustum
	f.planes[0] = normalizePlane(addRows(r4, r1))  // left
	f.planes[1] = normalizePlane(subRows(r4, r1))  // right
	f.planes[2] = normalizePlane(addRows(r4, r2))  // bottom
	f.planes[3] = normalizePlane(subRows(r4, r2))  // top
	f.planes[4] = normalizePlane(addRows(r4, r3))  // near
	f.planes[5] = normalizePlane(subRows(r4, r3))  // far
	return f
}

func addRows(a, b [4]float32) Plane {
	return Plane{
		Normal: math.Vec3{X: a[0] + b[0], Y: a[1] + b[1], Z: a[2] + b[2]},
		D:      a[3] + b[3],
	}
}

func subRows(a, b [4]float32) Plane {
	return Plane{
		Normal: math.Vec3{X: a[0] - b[0], Y: a[1] - b[1], Z: a[2] - b[2]},
		D:      a[3] - b[3],
	}
}

func normalizePlane(p Plane) Plane {
	length := float32(gomath.Sqrt(float64(
		p.Normal.X*p.Normal.X + p.Normal.Y*p.Normal.Y + p.Normal.Z*p.Normal.Z)))
	if length == 0 {
		return p
	}
	return Plane{
		Normal: math.Vec3{X: p.Normal.X / length, Y: p.Normal.Y / length, Z: p.Normal.Z / length},
		D:      p.D / length,
	}
}

// ContainsAABB reports whether an axis-aligned box intersects the
// frustum. Tests the most positive vertex against each plane, so a box
// straddling a plane counts as visible.
func (f *Frustum) ContainsAABB(min, max [3]float32) bool {
	for i := 0; i < 6; i++ {
		p := &f.planes[i]

		px := max[0]
		if p.Normal.X < 0 {
			px = min[0]
		}
		py := max[1]
		if p.Normal.Y < 0 {
			py = min[1]
		}
		pz := max[2]
		if p.Normal.Z < 0 {
			pz = min[2]
		}

		if p.Normal.X*px+p.Normal.Y*py+p.Normal.Z*pz+p.D < 0 {
			return false
		}
	}
	return true
}

// ContainsSphere reports whether a sphere intersects the frustum.
func (f *Frustum) ContainsSphere(center math.Vec3, radius float32) bool {
	for i := 0; i < 6; i++ {
		p := &f.planes[i]
		dist := p.Normal.X*center.X + p.Normal.Y*center.Y + p.Normal.Z*center.Z + p.D
		if dist < -radius {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether a point lies inside the frustum.
func (f *Frustum) ContainsPoint(point math.Vec3) bool {
	for i := 0; i < 6; i++ {
		p := &f.planes[i]
		if p.Normal.X*point.X+p.Normal.Y*point.Y+p.Normal.Z*point.Z+p.D < 0 {
			return false
		}
	}
	return true
}
