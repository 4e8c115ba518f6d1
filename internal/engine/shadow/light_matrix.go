package shadow

import (
	"github.com/softmeadow/glade/pkg/math"
)

// AABB is the world-space box the shadow pass must cover.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b AABB) Center() math.Vec3 {
	return math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}

// Radius returns the half-diagonal, the bounding sphere radius.
func (b AABB) Radius() float32 {
	return math.Vec3{
		X: (b.Max[0] - b.Min[0]) / 2,
		Y: (b.Max[1] - b.Min[1]) / 2,
		Z: (b.Max[2] - b.Min[2]) / 2,
	}.Length()
}

// CalculateDirectionalLightMatrix builds the sun's view-projection for
// the depth pass: an orthographic box fitted to the scene's bounding
// sphere, looking back along lightDir. lightDir points toward the sun.
func CalculateDirectionalLightMatrix(lightDir [3]float32, bounds AABB) math.Mat4 {
	center := bounds.Center()
	radius := bounds.Radius()

	distance := radius * 2
	eye := math.Vec3{
		X: center.X + lightDir[0]*distance,
		Y: center.Y + lightDir[1]*distance,
		Z: center.Z + lightDir[2]*distance,
	}

	// A near-vertical sun is parallel to the usual up vector.
	up := math.Vec3{Y: 1}
	if lightDir[1] > 0.99 || lightDir[1] < -0.99 {
		up = math.Vec3{Z: 1}
	}
	view := math.LookAt(eye, center, up)

	// Pad the ortho box a little so filtered lookups near the edge
	// still land inside the depth texture.
	half := radius * 1.1
	proj := math.Ortho(-half, half, -half, half, 0.1, distance+half)

	return proj.Mul(view)
}
