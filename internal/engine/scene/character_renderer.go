package scene

import (
	"fmt"
	gomath "math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/softmeadow/glade/internal/engine/scene/shaders"
	"github.com/softmeadow/glade/internal/engine/shader"
	"github.com/softmeadow/glade/internal/engine/shadow"
	"github.com/softmeadow/glade/pkg/math"
)

// capsuleVertex is one vertex of the character capsule.
type capsuleVertex struct {
	Position [3]float32
	Normal   [3]float32
}

// CharacterRenderer draws the character as a lit capsule. Pose comes in
// through the model matrix, so crouching squashes and walking bobs
// without any skeletal data.
type CharacterRenderer struct {
	// Shader
	program uint32

	// Uniform locations
	locViewProj      int32
	locModel         int32
	locLightViewProj int32
	locBaseColor     int32
	locLightDir      int32
	locAmbient       int32
	locDiffuse       int32
	locCameraPos     int32
	locFogUse        int32
	locFogNear       int32
	locFogFar        int32
	locFogColor      int32
	locShadowMap     int32
	locShadowsOn     int32

	// Capsule mesh
	vao         uint32
	vbo         uint32
	vertexCount int32

	// BaseColor tints the capsule.
	BaseColor [3]float32
}

// NewCharacterRenderer creates a renderer with a capsule mesh built for
// the given standing dimensions. The mesh's feet sit at the origin.
func NewCharacterRenderer(radius, height float32) (*CharacterRenderer, error) {
	cr := &CharacterRenderer{
		BaseColor: [3]float32{0.82, 0.45, 0.25},
	}

	program, err := shader.CompileProgram(shaders.CharacterVertexShader, shaders.CharacterFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("character shader: %w", err)
	}
	cr.program = program

	// Get uniform locations
	cr.locViewProj = shader.GetUniform(program, "uViewProj")
	cr.locModel = shader.GetUniform(program, "uModel")
	cr.locLightViewProj = shader.GetUniform(program, "uLightViewProj")
	cr.locBaseColor = shader.GetUniform(program, "uBaseColor")
	cr.locLightDir = shader.GetUniform(program, "uLightDir")
	cr.locAmbient = shader.GetUniform(program, "uAmbient")
	cr.locDiffuse = shader.GetUniform(program, "uDiffuse")
	cr.locCameraPos = shader.GetUniform(program, "uCameraPos")
	cr.locFogUse = shader.GetUniform(program, "uFogUse")
	cr.locFogNear = shader.GetUniform(program, "uFogNear")
	cr.locFogFar = shader.GetUniform(program, "uFogFar")
	cr.locFogColor = shader.GetUniform(program, "uFogColor")
	cr.locShadowMap = shader.GetUniform(program, "uShadowMap")
	cr.locShadowsOn = shader.GetUniform(program, "uShadowsEnabled")

	cr.uploadCapsule(buildCapsule(radius, height))

	return cr, nil
}

func (cr *CharacterRenderer) uploadCapsule(verts []capsuleVertex) {
	gl.GenVertexArrays(1, &cr.vao)
	gl.BindVertexArray(cr.vao)

	gl.GenBuffers(1, &cr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, cr.vbo)
	vertexSize := int(unsafe.Sizeof(capsuleVertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*vertexSize, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	cr.vertexCount = int32(len(verts))
}

// Render draws the capsule with the given model matrix.
func (cr *CharacterRenderer) Render(viewProj, model math.Mat4, cameraPos math.Vec3,
	lightDir, ambient, diffuse [3]float32,
	shadowsEnabled bool, lightViewProj math.Mat4, shadowMap *shadow.Map,
	fogEnabled bool, fogNear, fogFar float32, fogColor [3]float32) {

	if cr.vao == 0 {
		return
	}

	gl.UseProgram(cr.program)

	gl.UniformMatrix4fv(cr.locViewProj, 1, false, &viewProj[0])
	gl.UniformMatrix4fv(cr.locModel, 1, false, &model[0])
	gl.Uniform3f(cr.locBaseColor, cr.BaseColor[0], cr.BaseColor[1], cr.BaseColor[2])
	gl.Uniform3f(cr.locLightDir, lightDir[0], lightDir[1], lightDir[2])
	gl.Uniform3f(cr.locAmbient, ambient[0], ambient[1], ambient[2])
	gl.Uniform3f(cr.locDiffuse, diffuse[0], diffuse[1], diffuse[2])
	gl.Uniform3f(cr.locCameraPos, cameraPos.X, cameraPos.Y, cameraPos.Z)

	if fogEnabled {
		gl.Uniform1i(cr.locFogUse, 1)
		gl.Uniform1f(cr.locFogNear, fogNear)
		gl.Uniform1f(cr.locFogFar, fogFar)
		gl.Uniform3f(cr.locFogColor, fogColor[0], fogColor[1], fogColor[2])
	} else {
		gl.Uniform1i(cr.locFogUse, 0)
	}

	if shadowsEnabled && shadowMap != nil {
		gl.Uniform1i(cr.locShadowsOn, 1)
		gl.UniformMatrix4fv(cr.locLightViewProj, 1, false, &lightViewProj[0])
		gl.ActiveTexture(gl.TEXTURE2)
		gl.BindTexture(gl.TEXTURE_2D, shadowMap.DepthTexture)
		gl.Uniform1i(cr.locShadowMap, 2)
	} else {
		gl.Uniform1i(cr.locShadowsOn, 0)
	}

	gl.BindVertexArray(cr.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, cr.vertexCount)
	gl.BindVertexArray(0)
}

// RenderShadow draws the capsule into the bound shadow map. The caller
// has already set the model matrix on the shadow program.
func (cr *CharacterRenderer) RenderShadow() {
	if cr.vao == 0 {
		return
	}
	gl.BindVertexArray(cr.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, cr.vertexCount)
	gl.BindVertexArray(0)
}

// Destroy releases all resources.
func (cr *CharacterRenderer) Destroy() {
	if cr.vao != 0 {
		gl.DeleteVertexArrays(1, &cr.vao)
		cr.vao = 0
	}
	if cr.vbo != 0 {
		gl.DeleteBuffers(1, &cr.vbo)
		cr.vbo = 0
	}
	if cr.program != 0 {
		gl.DeleteProgram(cr.program)
		cr.program = 0
	}
}

// buildCapsule builds a capsule with its feet at the origin: a
// cylinder from y=r to y=h-r capped by hemispheres. Degenerate
// dimensions fall back to a sphere.
func buildCapsule(radius, height float32) []capsuleVertex {
	const sectors = 10
	const capRings = 4

	if radius <= 0 {
		radius = 0.35
	}
	if height < 2*radius {
		height = 2 * radius
	}

	cylBottom := radius
	cylTop := height - radius

	var verts []capsuleVertex

	// Hemisphere latitude runs 0..Pi/2; negative latitudes give the
	// bottom cap.
	spherePoint := func(centerY float32, lat, lon float32) capsuleVertex {
		cl, sl := cosSin(lat)
		co, so := cosSin(lon)
		nx := cl * co
		ny := sl
		nz := cl * so
		return capsuleVertex{
			Position: [3]float32{nx * radius, centerY + ny*radius, nz * radius},
			Normal:   [3]float32{nx, ny, nz},
		}
	}

	// Cylinder side
	for i := 0; i < sectors; i++ {
		a0 := float32(i) / sectors * 2 * gomath.Pi
		a1 := float32(i+1) / sectors * 2 * gomath.Pi
		c0, s0 := cosSin(a0)
		c1, s1 := cosSin(a1)

		bl := capsuleVertex{Position: [3]float32{c0 * radius, cylBottom, s0 * radius}, Normal: [3]float32{c0, 0, s0}}
		br := capsuleVertex{Position: [3]float32{c1 * radius, cylBottom, s1 * radius}, Normal: [3]float32{c1, 0, s1}}
		tl := capsuleVertex{Position: [3]float32{c0 * radius, cylTop, s0 * radius}, Normal: [3]float32{c0, 0, s0}}
		tr := capsuleVertex{Position: [3]float32{c1 * radius, cylTop, s1 * radius}, Normal: [3]float32{c1, 0, s1}}
		verts = append(verts, bl, br, tr, bl, tr, tl)
	}

	// Hemisphere caps
	for ri := 0; ri < capRings; ri++ {
		lat0 := float32(ri) / capRings * gomath.Pi / 2
		lat1 := float32(ri+1) / capRings * gomath.Pi / 2
		for si := 0; si < sectors; si++ {
			lon0 := float32(si) / sectors * 2 * gomath.Pi
			lon1 := float32(si+1) / sectors * 2 * gomath.Pi

			// Top cap
			v00 := spherePoint(cylTop, lat0, lon0)
			v01 := spherePoint(cylTop, lat0, lon1)
			v10 := spherePoint(cylTop, lat1, lon0)
			v11 := spherePoint(cylTop, lat1, lon1)
			verts = append(verts, v00, v01, v11, v00, v11, v10)

			// Bottom cap, mirrored
			b00 := spherePoint(cylBottom, -lat0, lon0)
			b01 := spherePoint(cylBottom, -lat0, lon1)
			b10 := spherePoint(cylBottom, -lat1, lon0)
			b11 := spherePoint(cylBottom, -lat1, lon1)
			verts = append(verts, b00, b11, b01, b00, b10, b11)
		}
	}

	return verts
}
