package math

import "math"

// Pi mirrors math.Pi at float32 call sites.
const Pi = math.Pi

// Clamp limits v to the range [min, max].
func Clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Smoothstep returns the smooth Hermite interpolation of t clamped to [0, 1]
// between edge0 and edge1.
func Smoothstep(edge0, edge1, t float32) float32 {
	if edge0 == edge1 {
		if t < edge0 {
			return 0
		}
		return 1
	}
	x := Clamp((t-edge0)/(edge1-edge0), 0, 1)
	return x * x * (3 - 2*x)
}

// Sqrt computes the square root of a float32.
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// Abs returns the absolute value of a float32.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// WrapAngle wraps an angle in radians to the range (-Pi, Pi].
func WrapAngle(a float32) float32 {
	const twoPi = 2 * math.Pi
	for a > math.Pi {
		a -= twoPi
	}
	for a <= -math.Pi {
		a += twoPi
	}
	return a
}

// LerpAngle interpolates between two angles in radians along the shortest arc.
func LerpAngle(a, b, t float32) float32 {
	return a + WrapAngle(b-a)*t
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
