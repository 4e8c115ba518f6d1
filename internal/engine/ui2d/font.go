package ui2d

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Font is a monospace bitmap font atlas on the GPU, rasterized from
// the basicfont face at startup. Glyphs cover printable ASCII; other
// runes fall back to '?'.
type Font struct {
	texture uint32
	glyphW  int
	glyphH  int
	cols    int
	rows    int
	first   rune
	last    rune
}

const fontAtlasCols = 16

// NewFont builds the glyph atlas and uploads it. Requires a current
// GL context.
func NewFont() *Font {
	face := basicfont.Face7x13

	f := &Font{
		glyphW: face.Advance,
		glyphH: face.Ascent + face.Descent,
		cols:   fontAtlasCols,
		first:  ' ',
		last:   '~',
	}

	count := int(f.last-f.first) + 1
	f.rows = (count + f.cols - 1) / f.cols

	// White glyphs over transparent black; the text shader keys on
	// the alpha channel.
	atlas := image.NewRGBA(image.Rect(0, 0, f.cols*f.glyphW, f.rows*f.glyphH))
	d := font.Drawer{
		Dst:  atlas,
		Src:  image.White,
		Face: face,
	}
	for i := 0; i < count; i++ {
		col := i % f.cols
		row := i / f.cols
		d.Dot = fixed.P(col*f.glyphW, row*f.glyphH+face.Ascent)
		d.DrawString(string(f.first + rune(i)))
	}

	gl.GenTextures(1, &f.texture)
	gl.BindTexture(gl.TEXTURE_2D, f.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(atlas.Rect.Dx()), int32(atlas.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(atlas.Pix))
	// Nearest keeps the pixel font crisp at integer scales
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return f
}

// TextureID returns the GL texture holding the atlas.
func (f *Font) TextureID() uint32 {
	return f.texture
}

// GlyphSize returns the unscaled glyph cell dimensions in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.glyphW, f.glyphH
}

// GetGlyphUV returns the atlas UV rectangle for a rune.
func (f *Font) GetGlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < f.first || r > f.last {
		r = '?'
	}
	idx := int(r - f.first)
	col := idx % f.cols
	row := idx / f.cols

	cw := 1.0 / float32(f.cols)
	rh := 1.0 / float32(f.rows)
	u0 = float32(col) * cw
	v0 = float32(row) * rh
	return u0, v0, u0 + cw, v0 + rh
}

// MeasureText returns the pixel span of the text at the given scale,
// accounting for newlines.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}

	maxLine, line, lines := 0, 0, 1
	for _, r := range text {
		if r == '\n' {
			if line > maxLine {
				maxLine = line
			}
			line = 0
			lines++
			continue
		}
		line++
	}
	if line > maxLine {
		maxLine = line
	}

	return float32(maxLine*f.glyphW) * scale, float32(lines*f.glyphH) * scale
}

// Close releases the atlas texture.
func (f *Font) Close() {
	if f.texture != 0 {
		gl.DeleteTextures(1, &f.texture)
		f.texture = 0
	}
}
