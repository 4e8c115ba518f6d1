package terrain

import (
	gomath "math"
	"testing"

	"github.com/softmeadow/glade/internal/config"
)

func testWorld() config.WorldConfig {
	return config.WorldConfig{
		Seed:        1977,
		Size:        160,
		Resolution:  64,
		HeightScale: 7,
		NoiseScale:  0.035,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2.0,
	}
}

func TestHeightFieldFiniteAndBounded(t *testing.T) {
	f := NewHeightField(testWorld())

	for i := 0; i < 400; i++ {
		x := float32(i%20)*8 - 80
		z := float32(i/20)*8 - 80
		h := f.HeightAt(x, z)
		if gomath.IsNaN(float64(h)) || gomath.IsInf(float64(h), 0) {
			t.Fatalf("HeightAt(%v, %v) = %v, want finite", x, z, h)
		}
		if h < 0 || h > f.MaxHeight() {
			t.Errorf("HeightAt(%v, %v) = %v, outside [0, %v]", x, z, h, f.MaxHeight())
		}
	}
}

func TestHeightFieldDeterministic(t *testing.T) {
	a := NewHeightField(testWorld())
	b := NewHeightField(testWorld())
	if a.HeightAt(12.5, -31.25) != b.HeightAt(12.5, -31.25) {
		t.Error("same world config produced different heights")
	}
}

func TestHeightFieldEdgeFalloff(t *testing.T) {
	cfg := testWorld()
	f := NewHeightField(cfg)

	// At the very rim the field must be flat.
	rim := cfg.Size / 2
	if h := f.HeightAt(rim, 0); h > 0.001 {
		t.Errorf("height at world edge = %v, want ~0", h)
	}
	if h := f.HeightAt(0, -rim); h > 0.001 {
		t.Errorf("height at world edge = %v, want ~0", h)
	}
}

func TestNormalUpright(t *testing.T) {
	f := NewHeightField(testWorld())

	n := f.Normal(10, 10)
	length := gomath.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z))
	if gomath.Abs(length-1) > 0.001 {
		t.Errorf("normal length = %v, want 1", length)
	}
	if n.Y <= 0 {
		t.Errorf("normal should point upward, got Y=%v", n.Y)
	}
}

func TestSlopeRange(t *testing.T) {
	f := NewHeightField(testWorld())
	for i := 0; i < 100; i++ {
		s := f.Slope(float32(i)*1.3-60, float32(i)*0.7-30)
		if s < 0 || s > 1 {
			t.Errorf("slope = %v, outside [0, 1]", s)
		}
	}
}
