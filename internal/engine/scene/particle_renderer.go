package scene

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/softmeadow/glade/internal/engine/scene/shaders"
	"github.com/softmeadow/glade/internal/engine/shader"
	"github.com/softmeadow/glade/internal/engine/texture"
	"github.com/softmeadow/glade/internal/weather"
	"github.com/softmeadow/glade/pkg/math"
)

// particleInstance is the per-instance attribute block for billboards,
// matching shader locations 2-4.
type particleInstance struct {
	Position [3]float32
	Seed     float32
	Life     float32
}

// ParticleRenderer draws weather particles as instanced camera-facing
// billboards. Rain quads are stretched along the fall direction, leaf
// quads spin.
type ParticleRenderer struct {
	// Shader
	program uint32

	// Uniform locations
	locViewProj int32
	locCamRight int32
	locCamUp    int32
	locSize     int32
	locStretch  int32
	locSpin     int32
	locTime     int32
	locTexture  int32
	locTint     int32

	// Quad mesh shared by all batches
	vao uint32
	vbo uint32

	// Per-frame instance buffer
	instVBO  uint32
	capacity int
	scratch  []particleInstance

	// Procedural sprites
	rainTex uint32
	leafTex uint32
	blobTex uint32
}

// NewParticleRenderer creates a particle renderer and uploads the
// procedural rain and leaf sprites.
func NewParticleRenderer() (*ParticleRenderer, error) {
	pr := &ParticleRenderer{}

	program, err := shader.CompileProgram(shaders.BillboardVertexShader, shaders.BillboardFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("billboard shader: %w", err)
	}
	pr.program = program

	// Get uniform locations
	pr.locViewProj = shader.GetUniform(program, "uViewProj")
	pr.locCamRight = shader.GetUniform(program, "uCamRight")
	pr.locCamUp = shader.GetUniform(program, "uCamUp")
	pr.locSize = shader.GetUniform(program, "uSize")
	pr.locStretch = shader.GetUniform(program, "uStretch")
	pr.locSpin = shader.GetUniform(program, "uSpin")
	pr.locTime = shader.GetUniform(program, "uTime")
	pr.locTexture = shader.GetUniform(program, "uTexture")
	pr.locTint = shader.GetUniform(program, "uTint")

	pr.createQuad()
	pr.rainTex = uploadSprite(texture.RaindropSprite(8, 32))
	pr.leafTex = uploadSprite(texture.LeafSprite(32))
	pr.blobTex = uploadSprite(texture.SoftCircle(64))

	return pr, nil
}

func (pr *ParticleRenderer) createQuad() {
	// Centered unit quad: corner XY + texcoord UV
	vertices := []float32{
		-0.5, -0.5, 0.0, 1.0,
		0.5, -0.5, 1.0, 1.0,
		0.5, 0.5, 1.0, 0.0,
		-0.5, -0.5, 0.0, 1.0,
		0.5, 0.5, 1.0, 0.0,
		-0.5, 0.5, 0.0, 0.0,
	}

	gl.GenVertexArrays(1, &pr.vao)
	gl.BindVertexArray(pr.vao)

	gl.GenBuffers(1, &pr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, pr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Corner attribute (location 0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	// TexCoord attribute (location 1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)

	// Instance attributes (locations 2-4), buffer refilled per draw
	gl.GenBuffers(1, &pr.instVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, pr.instVBO)
	instSize := int32(unsafe.Sizeof(particleInstance{}))
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, instSize, 0)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribDivisor(2, 1)
	gl.VertexAttribPointerWithOffset(3, 1, gl.FLOAT, false, instSize, 3*4)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribDivisor(3, 1)
	gl.VertexAttribPointerWithOffset(4, 1, gl.FLOAT, false, instSize, 4*4)
	gl.EnableVertexAttribArray(4)
	gl.VertexAttribDivisor(4, 1)

	gl.BindVertexArray(0)
}

func uploadSprite(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return texID
}

// RenderRain draws the live rain particles, streaked along the fall
// direction so drops read as lines rather than dots.
func (pr *ParticleRenderer) RenderRain(rain *weather.Rain, viewProj math.Mat4, camRight, camUp math.Vec3, time float32) {
	count := pr.fillInstances(rain.Particles())
	if count == 0 {
		return
	}

	pr.bindCommon(viewProj, camRight, camUp, time)
	gl.Uniform2f(pr.locSize, 0.03, 0.0)
	// The streak direction substitutes for the camera up axis.
	gl.Uniform3f(pr.locStretch, 0, 0.6, 0)
	gl.Uniform1f(pr.locSpin, 0)
	gl.Uniform4f(pr.locTint, 0.75, 0.82, 0.95, 0.55)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, pr.rainTex)
	gl.Uniform1i(pr.locTexture, 0)

	pr.draw(count)
}

// RenderLeaves draws the live leaf particles with a slow spin.
func (pr *ParticleRenderer) RenderLeaves(leaves *weather.Leaves, viewProj math.Mat4, camRight, camUp math.Vec3, time float32) {
	count := pr.fillInstances(leaves.Particles())
	if count == 0 {
		return
	}

	pr.bindCommon(viewProj, camRight, camUp, time)
	gl.Uniform2f(pr.locSize, 0.22, 0.22)
	gl.Uniform3f(pr.locStretch, 0, 0, 0)
	gl.Uniform1f(pr.locSpin, 2.4)
	gl.Uniform4f(pr.locTint, 1, 1, 1, 1)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, pr.leafTex)
	gl.Uniform1i(pr.locTexture, 0)

	pr.draw(count)
}

// RenderBlob draws one ground-aligned soft disc, the character's
// stand-in shadow when shadow mapping is off.
func (pr *ParticleRenderer) RenderBlob(viewProj math.Mat4, position math.Vec3, radius, alpha float32) {
	inst := particleInstance{
		Position: [3]float32{position.X, position.Y, position.Z},
		Life:     1,
	}
	instSize := int(unsafe.Sizeof(particleInstance{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, pr.instVBO)
	if pr.capacity < 1 {
		pr.capacity = 1
		gl.BufferData(gl.ARRAY_BUFFER, instSize, unsafe.Pointer(&inst), gl.STREAM_DRAW)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, instSize, unsafe.Pointer(&inst))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	// Ground-aligned: the quad axes are world X and Z, not the camera's.
	pr.bindCommon(viewProj, math.Vec3{X: 1}, math.Vec3{Z: -1}, 0)
	gl.Uniform2f(pr.locSize, radius*2, radius*2)
	gl.Uniform3f(pr.locStretch, 0, 0, 0)
	gl.Uniform1f(pr.locSpin, 0)
	gl.Uniform4f(pr.locTint, 1, 1, 1, alpha)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, pr.blobTex)
	gl.Uniform1i(pr.locTexture, 0)

	pr.draw(1)
}

// fillInstances copies live particles into the scratch buffer and
// uploads it. Returns the instance count.
func (pr *ParticleRenderer) fillInstances(particles []weather.Particle) int32 {
	pr.scratch = pr.scratch[:0]
	for i := range particles {
		p := &particles[i]
		if p.Life <= 0 {
			continue
		}
		pr.scratch = append(pr.scratch, particleInstance{
			Position: [3]float32{p.Position.X, p.Position.Y, p.Position.Z},
			Seed:     p.Seed,
			Life:     p.Life,
		})
	}
	if len(pr.scratch) == 0 {
		return 0
	}

	instSize := int(unsafe.Sizeof(particleInstance{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, pr.instVBO)
	if len(pr.scratch) > pr.capacity {
		pr.capacity = len(pr.scratch)
		gl.BufferData(gl.ARRAY_BUFFER, pr.capacity*instSize, unsafe.Pointer(&pr.scratch[0]), gl.STREAM_DRAW)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(pr.scratch)*instSize, unsafe.Pointer(&pr.scratch[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return int32(len(pr.scratch))
}

func (pr *ParticleRenderer) bindCommon(viewProj math.Mat4, camRight, camUp math.Vec3, time float32) {
	gl.UseProgram(pr.program)
	gl.UniformMatrix4fv(pr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(pr.locCamRight, camRight.X, camRight.Y, camRight.Z)
	gl.Uniform3f(pr.locCamUp, camUp.X, camUp.Y, camUp.Z)
	gl.Uniform1f(pr.locTime, time)
}

func (pr *ParticleRenderer) draw(count int32) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)

	gl.BindVertexArray(pr.vao)
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, 6, count)
	gl.BindVertexArray(0)

	gl.DepthMask(true)
}

// Destroy releases all resources.
func (pr *ParticleRenderer) Destroy() {
	if pr.vao != 0 {
		gl.DeleteVertexArrays(1, &pr.vao)
		pr.vao = 0
	}
	if pr.vbo != 0 {
		gl.DeleteBuffers(1, &pr.vbo)
		pr.vbo = 0
	}
	if pr.instVBO != 0 {
		gl.DeleteBuffers(1, &pr.instVBO)
		pr.instVBO = 0
	}
	if pr.rainTex != 0 {
		gl.DeleteTextures(1, &pr.rainTex)
		pr.rainTex = 0
	}
	if pr.leafTex != 0 {
		gl.DeleteTextures(1, &pr.leafTex)
		pr.leafTex = 0
	}
	if pr.blobTex != 0 {
		gl.DeleteTextures(1, &pr.blobTex)
		pr.blobTex = 0
	}
	if pr.program != 0 {
		gl.DeleteProgram(pr.program)
		pr.program = 0
	}
}
