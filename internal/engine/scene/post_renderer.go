package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/softmeadow/glade/internal/engine/scene/shaders"
	"github.com/softmeadow/glade/internal/engine/shader"
)

// PostRenderer draws the rendered scene texture to the current target
// with a light grade: vignette, saturation, gamma and a wet tint that
// tracks rain intensity. With everything neutral it is a plain blit.
type PostRenderer struct {
	// Shader
	program uint32

	// Uniform locations
	locTexture    int32
	locVignette   int32
	locSaturation int32
	locGamma      int32
	locWetness    int32

	// Fullscreen quad
	vao uint32
	vbo uint32

	// Grade settings
	Vignette   float32
	Saturation float32
	Gamma      float32
	Wetness    float32
}

// NewPostRenderer creates a new post-processing renderer.
func NewPostRenderer() (*PostRenderer, error) {
	pr := &PostRenderer{
		Vignette:   0.35,
		Saturation: 1.08,
		Gamma:      1.1,
	}

	program, err := shader.CompileProgram(shaders.PostVertexShader, shaders.PostFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("post shader: %w", err)
	}
	pr.program = program

	pr.locTexture = shader.GetUniform(program, "uTexture")
	pr.locVignette = shader.GetUniform(program, "uVignette")
	pr.locSaturation = shader.GetUniform(program, "uSaturation")
	pr.locGamma = shader.GetUniform(program, "uGamma")
	pr.locWetness = shader.GetUniform(program, "uWetness")

	pr.createQuad()

	return pr, nil
}

func (pr *PostRenderer) createQuad() {
	// Fullscreen quad: position + texcoord
	vertices := []float32{
		-1, -1, 0, 0,
		1, -1, 1, 0,
		1, 1, 1, 1,
		-1, -1, 0, 0,
		1, 1, 1, 1,
		-1, 1, 0, 1,
	}

	gl.GenVertexArrays(1, &pr.vao)
	gl.BindVertexArray(pr.vao)

	gl.GenBuffers(1, &pr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, pr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// Render draws the texture to the current framebuffer. enabled=false
// still blits, but with the grade neutralized.
func (pr *PostRenderer) Render(colorTexture uint32, enabled bool) {
	if pr.vao == 0 {
		return
	}

	gl.UseProgram(pr.program)
	gl.Disable(gl.DEPTH_TEST)

	if enabled {
		gl.Uniform1f(pr.locVignette, pr.Vignette)
		gl.Uniform1f(pr.locSaturation, pr.Saturation)
		gl.Uniform1f(pr.locGamma, pr.Gamma)
		gl.Uniform1f(pr.locWetness, pr.Wetness)
	} else {
		gl.Uniform1f(pr.locVignette, 0)
		gl.Uniform1f(pr.locSaturation, 1)
		gl.Uniform1f(pr.locGamma, 1)
		gl.Uniform1f(pr.locWetness, 0)
	}

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, colorTexture)
	gl.Uniform1i(pr.locTexture, 0)

	gl.BindVertexArray(pr.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
}

// Destroy releases all resources.
func (pr *PostRenderer) Destroy() {
	if pr.vao != 0 {
		gl.DeleteVertexArrays(1, &pr.vao)
		pr.vao = 0
	}
	if pr.vbo != 0 {
		gl.DeleteBuffers(1, &pr.vbo)
		pr.vbo = 0
	}
	if pr.program != 0 {
		gl.DeleteProgram(pr.program)
		pr.program = 0
	}
}
