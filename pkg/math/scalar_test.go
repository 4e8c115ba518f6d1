package math

import (
	gomath "math"
	"testing"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp(5, 0, 1) = %v, want 1", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp(-5, 0, 1) = %v, want 0", got)
	}
	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Errorf("Clamp(0.5, 0, 1) = %v, want 0.5", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Errorf("Lerp(0, 10, 0.5) = %v, want 5", got)
	}
	if got := Lerp(2, 2, 0.7); got != 2 {
		t.Errorf("Lerp(2, 2, 0.7) = %v, want 2", got)
	}
}

func TestSmoothstep(t *testing.T) {
	if got := Smoothstep(0, 1, -1); got != 0 {
		t.Errorf("Smoothstep below edge0 = %v, want 0", got)
	}
	if got := Smoothstep(0, 1, 2); got != 1 {
		t.Errorf("Smoothstep above edge1 = %v, want 1", got)
	}
	got := Smoothstep(0, 1, 0.5)
	if got < 0.499 || got > 0.501 {
		t.Errorf("Smoothstep(0, 1, 0.5) = %v, want 0.5", got)
	}
}

func TestWrapAngle(t *testing.T) {
	const pi = float32(gomath.Pi)
	got := WrapAngle(3 * pi)
	if Abs(got-pi) > 1e-5 {
		t.Errorf("WrapAngle(3*Pi) = %v, want Pi", got)
	}
	got = WrapAngle(-5 * pi / 2)
	if Abs(got+pi/2) > 1e-5 {
		t.Errorf("WrapAngle(-5*Pi/2) = %v, want -Pi/2", got)
	}
	// -Pi is outside (-Pi, Pi] and lands on the +Pi end.
	if got := WrapAngle(-pi); got != pi {
		t.Errorf("WrapAngle(-Pi) = %v, want Pi", got)
	}
}

func TestLerpAngle(t *testing.T) {
	const pi = float32(gomath.Pi)
	// Shortest arc across the -Pi/Pi seam.
	got := LerpAngle(pi-0.1, -pi+0.1, 0.5)
	if Abs(WrapAngle(got-pi)) > 1e-5 {
		t.Errorf("LerpAngle across seam = %v, want ~Pi", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Error("IsFinite(1.5) = false, want true")
	}
	if IsFinite(float32(gomath.NaN())) {
		t.Error("IsFinite(NaN) = true, want false")
	}
	if IsFinite(float32(gomath.Inf(1))) {
		t.Error("IsFinite(+Inf) = true, want false")
	}
}

