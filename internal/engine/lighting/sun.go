// Package lighting provides lighting utilities for 3D rendering.
package lighting

import "math"

// SunDirection converts azimuth/elevation angles in degrees to a
// normalized direction pointing toward the sun. Azimuth rotates around
// the Y axis (0 = +Z), elevation rises from the horizon (0-90).
func SunDirection(azimuth, elevation float32) [3]float32 {
	azRad := float64(azimuth) * math.Pi / 180.0
	elRad := float64(elevation) * math.Pi / 180.0

	x := float32(math.Cos(elRad) * math.Sin(azRad))
	y := float32(math.Sin(elRad))
	z := float32(math.Cos(elRad) * math.Cos(azRad))

	return [3]float32{x, y, z}
}

// Angles converts a sun direction back to azimuth/elevation degrees,
// the inverse of SunDirection for unit input. The studio seeds its sun
// sliders from the live day-cycle direction through this.
func Angles(dir [3]float32) (azimuth, elevation float32) {
	y := float64(dir[1])
	if y > 1 {
		y = 1
	}
	if y < -1 {
		y = -1
	}
	elevation = float32(math.Asin(y) * 180.0 / math.Pi)

	azimuth = float32(math.Atan2(float64(dir[0]), float64(dir[2])) * 180.0 / math.Pi)
	if azimuth < 0 {
		azimuth += 360
	}
	return azimuth, elevation
}
