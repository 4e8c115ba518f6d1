package math

import (
	"testing"
)

func TestMulWithIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.Mul(Identity())

	if got != m {
		t.Errorf("M * I = %v, want %v", got, m)
	}
}

func TestMulAppliesRightFirst(t *testing.T) {
	// Scale then translate: (1,0,0) doubles to (2,0,0), then shifts to (3,0,0).
	m := Translate(1, 0, 0).Mul(Scale(2, 2, 2))
	got := m.MulVec4(Vec4{1, 0, 0, 1})

	want := Vec4{3, 0, 0, 1}
	for i := range got {
		if Abs(got[i]-want[i]) > 1e-5 {
			t.Fatalf("transformed point = %v, want %v", got, want)
		}
	}
}

func TestTranslateColumn(t *testing.T) {
	m := Translate(5, 10, 15)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("translation column = (%v, %v, %v), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestRotateYQuarterTurn(t *testing.T) {
	m := RotateY(Pi / 2)
	got := m.MulVec4(Vec4{1, 0, 0, 1})

	// +X swings around to -Z.
	want := Vec4{0, 0, -1, 1}
	for i := range got {
		if Abs(got[i]-want[i]) > 1e-5 {
			t.Fatalf("rotated point = %v, want %v", got, want)
		}
	}
}

func TestPerspectiveShape(t *testing.T) {
	m := Perspective(Pi/4, 16.0/9.0, 0.1, 100)

	if m[11] != -1 {
		t.Errorf("m[11] = %v, want -1", m[11])
	}
	if m[15] != 0 {
		t.Errorf("m[15] = %v, want 0", m[15])
	}
	if m[0] <= 0 || m[5] <= 0 {
		t.Errorf("focal terms = (%v, %v), want positive", m[0], m[5])
	}
	// Wider aspect squeezes X relative to Y.
	if m[0] >= m[5] {
		t.Errorf("m[0] = %v should be less than m[5] = %v for a wide aspect", m[0], m[5])
	}
}

func TestOrthoMapsBoxCorners(t *testing.T) {
	m := Ortho(-10, 10, -5, 5, 0.1, 100)

	// The far top-right corner lands on NDC (1, 1, 1). Camera looks
	// down -Z, so far plane sits at z = -100.
	got := m.MulVec4(Vec4{10, 5, -100, 1})
	want := Vec4{1, 1, 1, 1}
	for i := range got {
		if Abs(got[i]-want[i]) > 1e-4 {
			t.Fatalf("far corner = %v, want %v", got, want)
		}
	}

	got = m.MulVec4(Vec4{-10, -5, -0.1, 1})
	want = Vec4{-1, -1, -1, 1}
	for i := range got {
		if Abs(got[i]-want[i]) > 1e-4 {
			t.Fatalf("near corner = %v, want %v", got, want)
		}
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{X: 3, Y: 4, Z: 5}
	m := LookAt(eye, Vec3{}, Vec3{Y: 1})

	got := m.MulVec4(Vec4{eye.X, eye.Y, eye.Z, 1})
	for i := 0; i < 3; i++ {
		if Abs(got[i]) > 1e-5 {
			t.Fatalf("eye in view space = %v, want origin", got)
		}
	}
	if Abs(got[3]-1) > 1e-6 {
		t.Fatalf("w = %v, want 1", got[3])
	}
}

func TestLookAtTargetOnNegativeZ(t *testing.T) {
	m := LookAt(Vec3{Z: 5}, Vec3{}, Vec3{Y: 1})

	// The target sits straight ahead, which view space puts on -Z.
	got := m.MulVec4(Vec4{0, 0, 0, 1})
	if Abs(got[0]) > 1e-5 || Abs(got[1]) > 1e-5 {
		t.Fatalf("target off axis: %v", got)
	}
	if got[2] >= 0 {
		t.Fatalf("target z = %v, want negative", got[2])
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Translate(3, -2, 5).Mul(RotateY(0.7)).Mul(Scale(2, 1, 0.5))
	got := m.Mul(m.Inverse())

	id := Identity()
	for i := range got {
		if Abs(got[i]-id[i]) > 1e-4 {
			t.Fatalf("M * M^-1 = %v, want identity", got)
		}
	}
}

func TestInverseUnprojectsViewProj(t *testing.T) {
	view := LookAt(Vec3{X: 10, Y: 20, Z: 30}, Vec3{X: 5, Y: 0, Z: -5}, Vec3{Y: 1})
	proj := Perspective(Pi/3, 1.6, 0.1, 500)
	vp := proj.Mul(view)
	inv := vp.Inverse()

	// Project to NDC the way the rasterizer would, then unproject the
	// way screen picking does.
	world := Vec4{4, 1, -8, 1}
	clip := vp.MulVec4(world)
	ndc := Vec4{clip[0] / clip[3], clip[1] / clip[3], clip[2] / clip[3], 1}

	back := inv.MulVec4(ndc)
	for i := 0; i < 3; i++ {
		back[i] /= back[3]
	}
	for i := 0; i < 3; i++ {
		if Abs(back[i]-world[i]) > 1e-3 {
			t.Fatalf("round-tripped point = %v, want %v", back, world)
		}
	}
}

func TestInverseSingularReturnsIdentity(t *testing.T) {
	flat := Scale(1, 0, 1)
	if got := flat.Inverse(); got != Identity() {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}
