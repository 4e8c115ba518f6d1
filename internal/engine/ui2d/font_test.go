package ui2d

import "testing"

// testFont builds the atlas geometry without touching GL.
func testFont() *Font {
	return &Font{
		glyphW: 7,
		glyphH: 13,
		cols:   16,
		rows:   6,
		first:  ' ',
		last:   '~',
	}
}

func TestMeasureText(t *testing.T) {
	f := testFont()

	tests := []struct {
		name  string
		text  string
		scale float32
		w, h  float32
	}{
		{"empty", "", 1, 0, 0},
		{"single line", "abc", 1, 21, 13},
		{"scaled", "ab", 2, 28, 26},
		{"multiline uses longest", "a\nlonger", 1, 42, 26},
		{"trailing newline", "ab\n", 1, 14, 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := f.MeasureText(tt.text, tt.scale)
			if w != tt.w || h != tt.h {
				t.Fatalf("MeasureText(%q, %v) = (%v,%v), want (%v,%v)",
					tt.text, tt.scale, w, h, tt.w, tt.h)
			}
		})
	}
}

func TestGetGlyphUV(t *testing.T) {
	f := testFont()

	// Space is the first glyph, top-left cell.
	u0, v0, u1, v1 := f.GetGlyphUV(' ')
	if u0 != 0 || v0 != 0 {
		t.Errorf("space uv origin = (%v,%v), want (0,0)", u0, v0)
	}
	if u1 != 1.0/16 || v1 != 1.0/6 {
		t.Errorf("space uv extent = (%v,%v), want one cell", u1, v1)
	}

	// Out-of-range runes fall back to '?'.
	qu := [4]float32{}
	qu[0], qu[1], qu[2], qu[3] = f.GetGlyphUV('?')
	fb := [4]float32{}
	fb[0], fb[1], fb[2], fb[3] = f.GetGlyphUV('é')
	if qu != fb {
		t.Errorf("fallback uv = %v, want '?' cell %v", fb, qu)
	}
}
