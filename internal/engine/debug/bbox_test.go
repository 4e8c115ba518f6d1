package debug

import (
	"testing"

	"github.com/softmeadow/glade/internal/engine/collision"
	"github.com/softmeadow/glade/pkg/math"
)

func TestGenerateBoundsWireframe(t *testing.T) {
	min := [3]float32{-1, 0, -2}
	max := [3]float32{3, 4, 5}
	color := [3]float32{1, 0.5, 0}

	verts := GenerateBoundsWireframe(min, max, color)
	if len(verts) != BoundsWireframeVertexCount {
		t.Fatalf("len(verts) = %d, want %d", len(verts), BoundsWireframeVertexCount)
	}

	for i, v := range verts {
		if v.X != min[0] && v.X != max[0] {
			t.Fatalf("vertex %d x = %v, not on a box face", i, v.X)
		}
		if v.Y != min[1] && v.Y != max[1] {
			t.Fatalf("vertex %d y = %v, not on a box face", i, v.Y)
		}
		if v.Z != min[2] && v.Z != max[2] {
			t.Fatalf("vertex %d z = %v, not on a box face", i, v.Z)
		}
		if v.R != color[0] || v.G != color[1] || v.B != color[2] {
			t.Fatalf("vertex %d color = (%v,%v,%v), want %v", i, v.R, v.G, v.B, color)
		}
	}
}

func TestGenerateColliderWireframe(t *testing.T) {
	box := collision.AABB{
		Min: math.Vec3{X: 0, Y: 0, Z: 0},
		Max: math.Vec3{X: 1, Y: 2, Z: 1},
	}

	verts := GenerateColliderWireframe(box, 0.25, [3]float32{1, 1, 1})

	var lo, hi [3]float32
	lo = [3]float32{verts[0].X, verts[0].Y, verts[0].Z}
	hi = lo
	for _, v := range verts {
		lo[0] = min32(lo[0], v.X)
		lo[1] = min32(lo[1], v.Y)
		lo[2] = min32(lo[2], v.Z)
		hi[0] = max32(hi[0], v.X)
		hi[1] = max32(hi[1], v.Y)
		hi[2] = max32(hi[2], v.Z)
	}

	if lo != [3]float32{-0.25, -0.25, -0.25} {
		t.Errorf("padded min = %v, want (-0.25,-0.25,-0.25)", lo)
	}
	if hi != [3]float32{1.25, 2.25, 1.25} {
		t.Errorf("padded max = %v, want (1.25,2.25,1.25)", hi)
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
