// Package ui2d draws the in-game HUD with plain OpenGL quads and a
// bitmap font atlas. The playground keeps its overlay this small on
// purpose; the full widget toolkit lives in the studio, which uses
// ImGui instead.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/softmeadow/glade/internal/engine/shader"
	"github.com/softmeadow/glade/pkg/math"
)

// Floats per vertex in the two batches. Positions are screen pixels,
// top-left origin.
const (
	solidStride = 6 // x, y, r, g, b, a
	glyphStride = 8 // x, y, u, v, r, g, b, a
)

const solidVertSrc = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vColor = aColor;
}
`

const solidFragSrc = `
#version 410 core
in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vColor;
}
`

const glyphVertSrc = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vTexCoord = aTexCoord;
    vColor = aColor;
}
`

const glyphFragSrc = `
#version 410 core
uniform sampler2D uAtlas;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(vColor.rgb, vColor.a * texture(uAtlas, vTexCoord).a);
}
`

// Renderer batches HUD geometry per frame: solid quads first, glyph
// quads over them.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solidProgram uint32
	glyphProgram uint32

	locSolidProj int32
	locGlyphProj int32
	locAtlas     int32

	solidVAO, solidVBO uint32
	glyphVAO, glyphVBO uint32

	solids []float32
	glyphs []float32

	font *Font
}

// New compiles the HUD programs and builds the batch buffers. Requires
// a current GL context.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:  width,
		screenHeight: height,
		solids:       make([]float32, 0, 4096),
		glyphs:       make([]float32, 0, 4096),
	}

	var err error
	if r.solidProgram, err = shader.CompileProgram(solidVertSrc, solidFragSrc); err != nil {
		return nil, fmt.Errorf("hud solid program: %w", err)
	}
	if r.glyphProgram, err = shader.CompileProgram(glyphVertSrc, glyphFragSrc); err != nil {
		return nil, fmt.Errorf("hud glyph program: %w", err)
	}

	r.locSolidProj = shader.GetUniform(r.solidProgram, "uProjection")
	r.locGlyphProj = shader.GetUniform(r.glyphProgram, "uProjection")
	r.locAtlas = shader.GetUniform(r.glyphProgram, "uAtlas")

	r.solidVAO, r.solidVBO = newBatch(2, 4)
	r.glyphVAO, r.glyphVBO = newBatch(2, 2, 4)

	r.font = NewFont()
	return r, nil
}

// newBatch builds a VAO/VBO pair with float attributes of the given
// component counts, packed in order.
func newBatch(comps ...int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	var stride int32
	for _, c := range comps {
		stride += c * 4
	}
	var offset uintptr
	for i, c := range comps {
		gl.VertexAttribPointerWithOffset(uint32(i), c, gl.FLOAT, false, stride, offset)
		gl.EnableVertexAttribArray(uint32(i))
		offset += uintptr(c) * 4
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

// Resize updates the pixel dimensions the projection maps to.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// GetScreenSize returns the current pixel dimensions.
func (r *Renderer) GetScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

// Begin drops last frame's batches.
func (r *Renderer) Begin() {
	r.solids = r.solids[:0]
	r.glyphs = r.glyphs[:0]
}

// End submits the batches. 3D state is saved around the draw so the
// HUD can run after the scene without disturbing it.
func (r *Renderer) End() {
	var hadBlend, hadDepth, hadCull int32
	gl.GetIntegerv(gl.BLEND, &hadBlend)
	gl.GetIntegerv(gl.DEPTH_TEST, &hadDepth)
	gl.GetIntegerv(gl.CULL_FACE, &hadCull)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	// Pixel coordinates with Y growing downward.
	proj := math.Ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)

	if len(r.solids) > 0 {
		gl.UseProgram(r.solidProgram)
		gl.UniformMatrix4fv(r.locSolidProj, 1, false, &proj[0])
		r.flush(r.solidVAO, r.solidVBO, r.solids, solidStride)
	}

	if len(r.glyphs) > 0 && r.font != nil {
		gl.UseProgram(r.glyphProgram)
		gl.UniformMatrix4fv(r.locGlyphProj, 1, false, &proj[0])
		gl.Uniform1i(r.locAtlas, 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.font.TextureID())
		r.flush(r.glyphVAO, r.glyphVBO, r.glyphs, glyphStride)
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if hadBlend == gl.FALSE {
		gl.Disable(gl.BLEND)
	}
	if hadDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
	if hadCull == gl.TRUE {
		gl.Enable(gl.CULL_FACE)
	}
}

func (r *Renderer) flush(vao, vbo uint32, verts []float32, stride int) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/stride))
}

// Close releases the GL objects and the font atlas.
func (r *Renderer) Close() {
	if r.font != nil {
		r.font.Close()
	}
	if r.solidVAO != 0 {
		gl.DeleteVertexArrays(1, &r.solidVAO)
		gl.DeleteBuffers(1, &r.solidVBO)
	}
	if r.glyphVAO != 0 {
		gl.DeleteVertexArrays(1, &r.glyphVAO)
		gl.DeleteBuffers(1, &r.glyphVBO)
	}
	if r.solidProgram != 0 {
		gl.DeleteProgram(r.solidProgram)
	}
	if r.glyphProgram != 0 {
		gl.DeleteProgram(r.glyphProgram)
	}
}

// DrawRect queues a filled rectangle.
func (r *Renderer) DrawRect(x, y, width, height float32, color Color) {
	x1, y1 := x+width, y+height
	r.solids = append(r.solids,
		x, y, color.R, color.G, color.B, color.A,
		x1, y, color.R, color.G, color.B, color.A,
		x1, y1, color.R, color.G, color.B, color.A,
		x, y, color.R, color.G, color.B, color.A,
		x1, y1, color.R, color.G, color.B, color.A,
		x, y1, color.R, color.G, color.B, color.A,
	)
}

// DrawRectOutline queues a rectangle border of the given thickness.
func (r *Renderer) DrawRectOutline(x, y, width, height, thickness float32, color Color) {
	r.DrawRect(x, y, width, thickness, color)
	r.DrawRect(x, y+height-thickness, width, thickness, color)
	r.DrawRect(x, y+thickness, thickness, height-thickness*2, color)
	r.DrawRect(x+width-thickness, y+thickness, thickness, height-thickness*2, color)
}

// DrawPanel queues a filled rectangle with a one pixel border.
func (r *Renderer) DrawPanel(x, y, width, height float32, bg, border Color) {
	r.DrawRect(x, y, width, height, bg)
	r.DrawRectOutline(x, y, width, height, 1, border)
}

// DrawText queues monospace text. Newlines advance to the next line at
// the starting x.
func (r *Renderer) DrawText(x, y float32, text string, scale float32, color Color) {
	if r.font == nil {
		return
	}

	gw, gh := r.font.GlyphSize()
	charW := float32(gw) * scale
	charH := float32(gh) * scale

	curX := x
	for _, ch := range text {
		if ch == '\n' {
			curX = x
			y += charH
			continue
		}
		u0, v0, u1, v1 := r.font.GetGlyphUV(ch)
		r.glyph(curX, y, charW, charH, u0, v0, u1, v1, color)
		curX += charW
	}
}

func (r *Renderer) glyph(x, y, w, h, u0, v0, u1, v1 float32, c Color) {
	x1, y1 := x+w, y+h
	r.glyphs = append(r.glyphs,
		x, y, u0, v0, c.R, c.G, c.B, c.A,
		x1, y, u1, v0, c.R, c.G, c.B, c.A,
		x1, y1, u1, v1, c.R, c.G, c.B, c.A,
		x, y, u0, v0, c.R, c.G, c.B, c.A,
		x1, y1, u1, v1, c.R, c.G, c.B, c.A,
		x, y1, u0, v1, c.R, c.G, c.B, c.A,
	)
}

// MeasureText returns the pixel span of text at the given scale.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	if r.font == nil {
		return 0, 0
	}
	return r.font.MeasureText(text, scale)
}
