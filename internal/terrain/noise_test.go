package terrain

import (
	gomath "math"
	"testing"
)

func TestNoiseDeterministic(t *testing.T) {
	a := NewNoise(42, 4, 0.5, 2.0)
	b := NewNoise(42, 4, 0.5, 2.0)

	points := [][2]float32{
		{0, 0}, {1.5, -3.25}, {100.7, 100.7}, {-55.1, 12.9},
	}
	for _, p := range points {
		if got, want := a.Sample(p[0], p[1]), b.Sample(p[0], p[1]); got != want {
			t.Errorf("Sample(%v, %v): same seed gave %v and %v", p[0], p[1], got, want)
		}
	}
}

func TestNoiseSeedChangesField(t *testing.T) {
	a := NewNoise(1, 4, 0.5, 2.0)
	b := NewNoise(2, 4, 0.5, 2.0)

	same := 0
	const samples = 64
	for i := 0; i < samples; i++ {
		x := float32(i) * 1.37
		z := float32(i) * -2.11
		if a.Sample(x, z) == b.Sample(x, z) {
			same++
		}
	}
	if same == samples {
		t.Error("different seeds produced identical fields")
	}
}

func TestNoiseRange(t *testing.T) {
	n := NewNoise(7, 5, 0.5, 2.0)
	for i := 0; i < 500; i++ {
		x := float32(i)*0.173 - 40
		z := float32(i)*0.311 - 70
		v := n.Sample(x, z)
		if gomath.IsNaN(float64(v)) || gomath.IsInf(float64(v), 0) {
			t.Fatalf("Sample(%v, %v) = %v, want finite", x, z, v)
		}
		if v < -1.0001 || v > 1.0001 {
			t.Errorf("Sample(%v, %v) = %v, outside [-1, 1]", x, z, v)
		}
	}
}

func TestNoiseContinuity(t *testing.T) {
	n := NewNoise(9, 4, 0.5, 2.0)

	// Neighbor samples at a fine step should not jump; a discontinuity
	// here would show as seams between grass tiles.
	const step = 0.01
	prev := n.Sample(0, 0)
	for i := 1; i < 200; i++ {
		v := n.Sample(float32(i)*step, 0)
		if d := gomath.Abs(float64(v - prev)); d > 0.2 {
			t.Fatalf("jump of %v between adjacent samples at x=%v", d, float32(i)*step)
		}
		prev = v
	}
}

func TestNoiseOctavesClamped(t *testing.T) {
	n := NewNoise(3, 0, 0.5, 2.0)
	if v := n.Sample(1, 1); gomath.IsNaN(float64(v)) {
		t.Errorf("zero octaves should clamp to one, got NaN")
	}
}
