package frustum

import (
	gomath "math"
	"testing"

	"github.com/softmeadow/glade/pkg/math"
)

// testFrustum builds a 90-degree, square-aspect frustum at the origin
// looking down -Z, near 0.1, far 100. At depth z=-d the half-width is d.
func testFrustum() Frustum {
	proj := math.Perspective(float32(gomath.Pi/2), 1, 0.1, 100)
	view := math.LookAt(
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 0, Y: 0, Z: -1},
		math.Vec3{X: 0, Y: 1, Z: 0},
	)
	return FromViewProj(proj.Mul(view))
}

func TestContainsPoint(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name  string
		point math.Vec3
		want  bool
	}{
		{"in front", math.Vec3{X: 0, Y: 0, Z: -10}, true},
		{"behind camera", math.Vec3{X: 0, Y: 0, Z: 10}, false},
		{"beyond far", math.Vec3{X: 0, Y: 0, Z: -150}, false},
		{"before near", math.Vec3{X: 0, Y: 0, Z: -0.05}, false},
		{"off left", math.Vec3{X: -20, Y: 0, Z: -10}, false},
		{"off right", math.Vec3{X: 20, Y: 0, Z: -10}, false},
		{"inside left edge", math.Vec3{X: -9, Y: 0, Z: -10}, true},
		{"high above", math.Vec3{X: 0, Y: 25, Z: -10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsPoint(tt.point); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestContainsAABB(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name     string
		min, max [3]float32
		want     bool
	}{
		{"centered in view", [3]float32{-1, -1, -11}, [3]float32{1, 1, -9}, true},
		{"behind camera", [3]float32{-1, -1, 9}, [3]float32{1, 1, 11}, false},
		{"fully off right", [3]float32{30, -1, -10}, [3]float32{40, 1, -9}, false},
		{"straddling right edge", [3]float32{8, -1, -10.5}, [3]float32{12, 1, -9.5}, true},
		{"beyond far plane", [3]float32{-1, -1, -130}, [3]float32{1, 1, -120}, false},
		{"straddling far plane", [3]float32{-1, -1, -110}, [3]float32{1, 1, -90}, true},
		{"huge box containing camera", [3]float32{-500, -500, -500}, [3]float32{500, 500, 500}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsAABB(tt.min, tt.max); got != tt.want {
				t.Errorf("ContainsAABB(%v, %v) = %v, want %v", tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestContainsSphere(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name   string
		center math.Vec3
		radius float32
		want   bool
	}{
		{"in view", math.Vec3{X: 0, Y: 0, Z: -50}, 1, true},
		{"well behind", math.Vec3{X: 0, Y: 0, Z: 5}, 1, false},
		{"crossing near plane", math.Vec3{X: 0, Y: 0, Z: 0.5}, 1, true},
		{"crossing right edge", math.Vec3{X: 11, Y: 0, Z: -10}, 3, true},
		{"far outside right", math.Vec3{X: 50, Y: 0, Z: -10}, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsSphere(tt.center, tt.radius); got != tt.want {
				t.Errorf("ContainsSphere(%v, %f) = %v, want %v", tt.center, tt.radius, got, tt.want)
			}
		})
	}
}

func TestPlanesNormalized(t *testing.T) {
	f := testFrustum()
	for i, p := range f.planes {
		length := gomath.Sqrt(float64(
			p.Normal.X*p.Normal.X + p.Normal.Y*p.Normal.Y + p.Normal.Z*p.Normal.Z))
		if gomath.Abs(length-1) > 1e-4 {
			t.Errorf("plane %d normal length = %f, want 1", i, length)
		}
	}
}
