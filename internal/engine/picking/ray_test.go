package picking

import (
	gomath "math"
	"testing"

	"github.com/softmeadow/glade/pkg/math"
)

func TestScreenToRayCenterLooksForward(t *testing.T) {
	eye := math.Vec3{X: 0, Y: 10, Z: 20}
	target := math.Vec3{X: 0, Y: 0, Z: 0}
	view := math.LookAt(eye, target, math.Vec3{X: 0, Y: 1, Z: 0})
	proj := math.Perspective(1.047, 16.0/9.0, 0.1, 500)
	inv := proj.Mul(view).Inverse()

	ray := ScreenToRay(640, 360, 1280, 720, inv)

	// The center pixel ray points from the eye toward the target.
	want := target.Sub(eye).Normalize()
	got := math.Vec3{X: ray.Direction[0], Y: ray.Direction[1], Z: ray.Direction[2]}
	if d := want.Sub(got).Length(); d > 1e-3 {
		t.Fatalf("center ray direction = %+v, want %+v", got, want)
	}
}

func TestIntersectPlaneY(t *testing.T) {
	down := Ray{Origin: [3]float32{3, 10, -4}, Direction: [3]float32{0, -1, 0}}
	x, z, ok := down.IntersectPlaneY(0)
	if !ok || x != 3 || z != -4 {
		t.Fatalf("straight-down hit = (%v,%v,%v), want (3,-4,true)", x, z, ok)
	}

	up := Ray{Origin: [3]float32{0, 10, 0}, Direction: [3]float32{0, 1, 0}}
	if _, _, ok := up.IntersectPlaneY(0); ok {
		t.Error("upward ray hit a plane below the origin")
	}

	level := Ray{Origin: [3]float32{0, 10, 0}, Direction: [3]float32{1, 0, 0}}
	if _, _, ok := level.IntersectPlaneY(0); ok {
		t.Error("horizontal ray hit a horizontal plane")
	}
}

func TestIntersectHeightField(t *testing.T) {
	slope := func(x, z float32) float32 { return 0.25 * x }

	r := Ray{
		Origin:    [3]float32{0, 5, 0},
		Direction: norm([3]float32{1, -0.5, 0}),
	}

	p, hit := r.IntersectHeightField(slope, 100, 0.5)
	if !hit {
		t.Fatal("ray missed an infinite slope")
	}
	// Along the ray y = 5 - 0.5/norm * x..., verify the returned point
	// sits on the surface and in front of the origin.
	if diff := p[1] - slope(p[0], p[2]); diff > 1e-3 || diff < -1e-3 {
		t.Errorf("hit point y = %v, surface = %v", p[1], slope(p[0], p[2]))
	}
	if p[0] <= 0 {
		t.Errorf("hit point x = %v, want in front of origin", p[0])
	}

	away := Ray{Origin: [3]float32{0, 5, 0}, Direction: [3]float32{0, 1, 0}}
	if _, hit := away.IntersectHeightField(slope, 100, 0.5); hit {
		t.Error("upward ray reported a ground hit")
	}

	under := Ray{Origin: [3]float32{10, 0, 0}, Direction: [3]float32{0, -1, 0}}
	if p, hit := under.IntersectHeightField(slope, 100, 0.5); !hit || p != under.Origin {
		t.Errorf("underground origin = (%v,%v), want immediate hit at origin", p, hit)
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(-1, -1, -1, 1, 1, 1)

	tests := []struct {
		name string
		ray  Ray
		hit  bool
		t    float32
	}{
		{"head on", Ray{Origin: [3]float32{0, 0, 5}, Direction: [3]float32{0, 0, -1}}, true, 4},
		{"miss", Ray{Origin: [3]float32{5, 0, 5}, Direction: [3]float32{0, 0, -1}}, false, 0},
		{"behind", Ray{Origin: [3]float32{0, 0, 5}, Direction: [3]float32{0, 0, 1}}, false, 0},
		{"inside exits", Ray{Origin: [3]float32{0, 0, 0}, Direction: [3]float32{0, 0, -1}}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && (dist < tt.t-1e-4 || dist > tt.t+1e-4) {
				t.Fatalf("t = %v, want %v", dist, tt.t)
			}
		})
	}
}

func TestNewAABBSwapsCorners(t *testing.T) {
	box := NewAABB(1, 2, 3, -1, -2, -3)
	if box.Min != [3]float32{-1, -2, -3} || box.Max != [3]float32{1, 2, 3} {
		t.Fatalf("box = %+v, corners not swapped", box)
	}
}

func norm(v [3]float32) [3]float32 {
	l := float32(gomath.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
