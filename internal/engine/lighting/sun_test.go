package lighting

import (
	"math"
	"testing"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name      string
		azimuth   float32
		elevation float32
		want      [3]float32
	}{
		{"zenith", 0, 90, [3]float32{0, 1, 0}},
		{"horizon north", 0, 0, [3]float32{0, 0, 1}},
		{"horizon east", 90, 0, [3]float32{1, 0, 0}},
		{"midmorning", 90, 45, [3]float32{0.7071, 0.7071, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elevation)
			for i := 0; i < 3; i++ {
				if d := math.Abs(float64(got[i] - tt.want[i])); d > 1e-3 {
					t.Fatalf("SunDirection(%v,%v) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
				}
			}
		})
	}
}

func TestAnglesRoundTrip(t *testing.T) {
	cases := [][2]float32{
		{0, 45},
		{90, 10},
		{180, 60},
		{270, 5},
		{315, 80},
	}

	for _, c := range cases {
		az, el := Angles(SunDirection(c[0], c[1]))
		if d := math.Abs(float64(az - c[0])); d > 0.01 {
			t.Errorf("azimuth round trip %v -> %v", c[0], az)
		}
		if d := math.Abs(float64(el - c[1])); d > 0.01 {
			t.Errorf("elevation round trip %v -> %v", c[1], el)
		}
	}
}

func TestAnglesClampsOverUnitY(t *testing.T) {
	// Slightly denormalized input must not NaN the elevation.
	_, el := Angles([3]float32{0, 1.0001, 0})
	if math.IsNaN(float64(el)) {
		t.Fatal("elevation is NaN for y > 1")
	}
	if el != 90 {
		t.Errorf("elevation = %v, want 90", el)
	}
}
