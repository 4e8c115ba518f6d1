// Package texture generates the small procedural sprites the renderers
// need: particle billboards and soft markers. Everything is built in
// memory; the meadow ships no image assets.
package texture

import (
	"image"
	"image/color"
	gomath "math"
)

// LeafSprite builds a leaf-shaped RGBA sprite with a soft alpha edge.
// The leaf is two mirrored arcs meeting at the stem and tip.
func LeafSprite(size int) *image.RGBA {
	if size < 8 {
		size = 8
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Normalized coordinates, stem at the bottom.
			u := (float64(x)+0.5)/float64(size)*2 - 1
			v := (float64(y) + 0.5) / float64(size)

			// Leaf half-width along the stem axis.
			width := gomath.Sin(v*gomath.Pi) * 0.55
			d := gomath.Abs(u) / gomath.Max(width, 1e-6)
			if d > 1 {
				continue
			}

			alpha := gomath.Min(1, (1-d)*4)
			// Darker spine down the middle.
			spine := 1.0 - 0.3*gomath.Max(0, 1-gomath.Abs(u)*14)
			r := 0.55 * spine
			g := (0.42 + 0.2*v) * spine
			b := 0.12 * spine

			img.SetRGBA(x, y, color.RGBA{
				R: uint8(r * 255),
				G: uint8(g * 255),
				B: uint8(b * 255),
				A: uint8(alpha * 255),
			})
		}
	}
	return img
}

// RaindropSprite builds a vertical streak: bright in the middle,
// fading toward the ends and edges.
func RaindropSprite(width, height int) *image.RGBA {
	if width < 2 {
		width = 2
	}
	if height < 4 {
		height = 4
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := (float64(x)+0.5)/float64(width)*2 - 1
			v := (float64(y) + 0.5) / float64(height)

			across := gomath.Max(0, 1-u*u*3)
			along := gomath.Sin(v * gomath.Pi)
			alpha := across * along * 0.85

			img.SetRGBA(x, y, color.RGBA{
				R: 185,
				G: 200,
				B: 220,
				A: uint8(alpha * 255),
			})
		}
	}
	return img
}

// SoftCircle builds a radial falloff disc, used for the character's
// blob shadow when shadow mapping is off.
func SoftCircle(size int) *image.RGBA {
	if size < 8 {
		size = 8
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	half := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - half) / half
			dy := (float64(y) + 0.5 - half) / half
			d := gomath.Sqrt(dx*dx + dy*dy)
			if d > 1 {
				continue
			}
			alpha := (1 - d) * (1 - d)
			img.SetRGBA(x, y, color.RGBA{A: uint8(alpha * 255)})
		}
	}
	return img
}
