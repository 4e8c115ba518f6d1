// Package scene provides the 3D scene rendering system for the meadow:
// terrain, grass, trees, sky, particles and the character.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/softmeadow/glade/internal/engine/scene/shaders"
	"github.com/softmeadow/glade/internal/engine/shader"
	"github.com/softmeadow/glade/internal/engine/shadow"
	"github.com/softmeadow/glade/internal/terrain"
	"github.com/softmeadow/glade/pkg/math"
)

// TerrainRenderer draws the procedural terrain mesh.
type TerrainRenderer struct {
	// Shader
	program uint32

	// Uniform locations
	locViewProj  int32
	locLightDir  int32
	locAmbient   int32
	locDiffuse   int32
	locCameraPos int32
	locFogUse    int32
	locFogNear   int32
	locFogFar    int32
	locFogColor  int32

	// Shadow uniforms
	locLightViewProj  int32
	locShadowMap      int32
	locShadowsEnabled int32

	// Terrain mesh
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	// Bounds
	MinBounds [3]float32
	MaxBounds [3]float32
}

// NewTerrainRenderer creates a new terrain renderer.
func NewTerrainRenderer() (*TerrainRenderer, error) {
	tr := &TerrainRenderer{}

	program, err := shader.CompileProgram(shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	tr.program = program

	// Get uniform locations
	tr.locViewProj = shader.GetUniform(program, "uViewProj")
	tr.locLightDir = shader.GetUniform(program, "uLightDir")
	tr.locAmbient = shader.GetUniform(program, "uAmbient")
	tr.locDiffuse = shader.GetUniform(program, "uDiffuse")
	tr.locCameraPos = shader.GetUniform(program, "uCameraPos")
	tr.locFogUse = shader.GetUniform(program, "uFogUse")
	tr.locFogNear = shader.GetUniform(program, "uFogNear")
	tr.locFogFar = shader.GetUniform(program, "uFogFar")
	tr.locFogColor = shader.GetUniform(program, "uFogColor")

	// Shadow uniforms
	tr.locLightViewProj = shader.GetUniform(program, "uLightViewProj")
	tr.locShadowMap = shader.GetUniform(program, "uShadowMap")
	tr.locShadowsEnabled = shader.GetUniform(program, "uShadowsEnabled")

	return tr, nil
}

// LoadMesh uploads a built terrain mesh to the GPU, replacing any
// previously loaded one.
func (tr *TerrainRenderer) LoadMesh(mesh *terrain.Mesh) error {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return fmt.Errorf("empty terrain mesh")
	}

	tr.clearTerrain()

	tr.MinBounds = mesh.Bounds.Min
	tr.MaxBounds = mesh.Bounds.Max
	tr.uploadTerrainMesh(mesh.Vertices, mesh.Indices)

	return nil
}

func (tr *TerrainRenderer) uploadTerrainMesh(vertices []terrain.Vertex, indices []uint32) {
	gl.GenVertexArrays(1, &tr.vao)
	gl.BindVertexArray(tr.vao)

	// VBO
	gl.GenBuffers(1, &tr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	vertexSize := int(unsafe.Sizeof(terrain.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*vertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// Color (location 2)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	// EBO
	gl.GenBuffers(1, &tr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	tr.indexCount = int32(len(indices))
}

// Render renders the terrain.
func (tr *TerrainRenderer) Render(viewProj math.Mat4, cameraPos math.Vec3, lightDir, ambient, diffuse [3]float32,
	shadowsEnabled bool, lightViewProj math.Mat4, shadowMap *shadow.Map,
	fogEnabled bool, fogNear, fogFar float32, fogColor [3]float32) {

	if tr.vao == 0 {
		return
	}

	gl.UseProgram(tr.program)

	// Set uniforms
	gl.UniformMatrix4fv(tr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(tr.locLightDir, lightDir[0], lightDir[1], lightDir[2])
	gl.Uniform3f(tr.locAmbient, ambient[0], ambient[1], ambient[2])
	gl.Uniform3f(tr.locDiffuse, diffuse[0], diffuse[1], diffuse[2])
	gl.Uniform3f(tr.locCameraPos, cameraPos.X, cameraPos.Y, cameraPos.Z)

	// Fog uniforms
	if fogEnabled {
		gl.Uniform1i(tr.locFogUse, 1)
		gl.Uniform1f(tr.locFogNear, fogNear)
		gl.Uniform1f(tr.locFogFar, fogFar)
		gl.Uniform3f(tr.locFogColor, fogColor[0], fogColor[1], fogColor[2])
	} else {
		gl.Uniform1i(tr.locFogUse, 0)
	}

	// Shadow uniforms
	if shadowsEnabled && shadowMap != nil {
		gl.Uniform1i(tr.locShadowsEnabled, 1)
		gl.UniformMatrix4fv(tr.locLightViewProj, 1, false, &lightViewProj[0])
		gl.ActiveTexture(gl.TEXTURE2)
		gl.BindTexture(gl.TEXTURE_2D, shadowMap.DepthTexture)
		gl.Uniform1i(tr.locShadowMap, 2)
	} else {
		gl.Uniform1i(tr.locShadowsEnabled, 0)
	}

	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLES, tr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// RenderShadow renders the terrain to the shadow map.
func (tr *TerrainRenderer) RenderShadow() {
	if tr.vao == 0 {
		return
	}

	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLES, tr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (tr *TerrainRenderer) clearTerrain() {
	if tr.vao != 0 {
		gl.DeleteVertexArrays(1, &tr.vao)
		tr.vao = 0
	}
	if tr.vbo != 0 {
		gl.DeleteBuffers(1, &tr.vbo)
		tr.vbo = 0
	}
	if tr.ebo != 0 {
		gl.DeleteBuffers(1, &tr.ebo)
		tr.ebo = 0
	}
	tr.indexCount = 0
}

// Destroy releases all resources.
func (tr *TerrainRenderer) Destroy() {
	tr.clearTerrain()
	if tr.program != 0 {
		gl.DeleteProgram(tr.program)
		tr.program = 0
	}
}
