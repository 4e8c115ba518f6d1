package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/softmeadow/glade/internal/engine/debug"
	"github.com/softmeadow/glade/internal/engine/scene/shaders"
	"github.com/softmeadow/glade/internal/engine/shader"
	"github.com/softmeadow/glade/pkg/math"
)

// OverlayRenderer draws debug overlay geometry: tile outlines, LOD
// fill quads and bounds wireframes. Vertices are streamed on every
// call; overlays are small and change whenever the field re-evaluates.
type OverlayRenderer struct {
	program     uint32
	locViewProj int32
	locAlpha    int32

	vao      uint32
	vbo      uint32
	capacity int
}

// NewOverlayRenderer creates the overlay renderer and compiles its
// shaders.
func NewOverlayRenderer() (*OverlayRenderer, error) {
	program, err := shader.CompileProgram(shaders.DebugVertexShader, shaders.DebugFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compiling debug shader: %w", err)
	}

	r := &OverlayRenderer{program: program}
	r.locViewProj = shader.GetUniform(program, "uViewProj")
	r.locAlpha = shader.GetUniform(program, "uAlpha")
	r.createBuffers()
	return r, nil
}

func (r *OverlayRenderer) createBuffers() {
	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(unsafe.Sizeof(debug.TileVertex{}))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// RenderLines draws the vertices as a line list.
func (r *OverlayRenderer) RenderLines(vertices []debug.TileVertex, viewProj math.Mat4) {
	r.render(vertices, viewProj, 1, gl.LINES)
}

// RenderTriangles draws the vertices as a blended triangle list so the
// terrain stays readable under fill overlays.
func (r *OverlayRenderer) RenderTriangles(vertices []debug.TileVertex, viewProj math.Mat4, alpha float32) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	r.render(vertices, viewProj, alpha, gl.TRIANGLES)
	gl.Disable(gl.BLEND)
}

func (r *OverlayRenderer) render(vertices []debug.TileVertex, viewProj math.Mat4, alpha float32, mode uint32) {
	if len(vertices) == 0 {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, &viewProj[0])
	gl.Uniform1f(r.locAlpha, alpha)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	size := len(vertices) * int(unsafe.Sizeof(debug.TileVertex{}))
	if len(vertices) > r.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
		r.capacity = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&vertices[0]))
	}

	gl.DrawArrays(mode, 0, int32(len(vertices)))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Destroy releases GPU resources.
func (r *OverlayRenderer) Destroy() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
	r.capacity = 0
}
