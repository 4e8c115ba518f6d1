package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/softmeadow/glade/internal/engine/scene/shaders"
	"github.com/softmeadow/glade/internal/engine/shader"
	"github.com/softmeadow/glade/pkg/math"
)

// SkyRenderer draws the gradient sky and sun disc as a fullscreen pass.
type SkyRenderer struct {
	// Shader
	program uint32

	// Uniform locations
	locInvViewProj  int32
	locZenithColor  int32
	locHorizonColor int32
	locSunDir       int32
	locSunColor     int32
	locSunIntensity int32

	// Fullscreen quad
	vao uint32
	vbo uint32
}

// NewSkyRenderer creates a new sky renderer.
func NewSkyRenderer() (*SkyRenderer, error) {
	sr := &SkyRenderer{}

	program, err := shader.CompileProgram(shaders.SkyVertexShader, shaders.SkyFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("sky shader: %w", err)
	}
	sr.program = program

	// Get uniform locations
	sr.locInvViewProj = shader.GetUniform(program, "uInvViewProj")
	sr.locZenithColor = shader.GetUniform(program, "uZenithColor")
	sr.locHorizonColor = shader.GetUniform(program, "uHorizonColor")
	sr.locSunDir = shader.GetUniform(program, "uSunDir")
	sr.locSunColor = shader.GetUniform(program, "uSunColor")
	sr.locSunIntensity = shader.GetUniform(program, "uSunIntensity")

	sr.createQuad()

	return sr, nil
}

func (sr *SkyRenderer) createQuad() {
	// Fullscreen quad in NDC
	vertices := []float32{
		-1, -1,
		1, -1,
		1, 1,
		-1, -1,
		1, 1,
		-1, 1,
	}

	gl.GenVertexArrays(1, &sr.vao)
	gl.BindVertexArray(sr.vao)

	gl.GenBuffers(1, &sr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, sr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position attribute (location 0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
}

// Render draws the sky. Call it first in the frame with depth writes
// off; everything else overdraws it.
func (sr *SkyRenderer) Render(viewProj math.Mat4, sunDir math.Vec3, sunColor, zenith, horizon [3]float32, sunIntensity float32) {
	if sr.vao == 0 {
		return
	}

	inv := viewProj.Inverse()

	gl.UseProgram(sr.program)
	gl.DepthMask(false)
	gl.Disable(gl.DEPTH_TEST)

	gl.UniformMatrix4fv(sr.locInvViewProj, 1, false, &inv[0])
	gl.Uniform3f(sr.locZenithColor, zenith[0], zenith[1], zenith[2])
	gl.Uniform3f(sr.locHorizonColor, horizon[0], horizon[1], horizon[2])
	gl.Uniform3f(sr.locSunDir, sunDir.X, sunDir.Y, sunDir.Z)
	gl.Uniform3f(sr.locSunColor, sunColor[0], sunColor[1], sunColor[2])
	gl.Uniform1f(sr.locSunIntensity, sunIntensity)

	gl.BindVertexArray(sr.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
}

// Destroy releases all resources.
func (sr *SkyRenderer) Destroy() {
	if sr.vao != 0 {
		gl.DeleteVertexArrays(1, &sr.vao)
		sr.vao = 0
	}
	if sr.vbo != 0 {
		gl.DeleteBuffers(1, &sr.vbo)
		sr.vbo = 0
	}
	if sr.program != 0 {
		gl.DeleteProgram(sr.program)
		sr.program = 0
	}
}
