package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/softmeadow/glade/internal/engine/scene/shaders"
	"github.com/softmeadow/glade/internal/engine/shader"
	"github.com/softmeadow/glade/internal/grass"
	"github.com/softmeadow/glade/pkg/math"
)

// bladeVertex is one vertex of the unit blade mesh. Bend is 0 at the
// root and 1 at the tip; the shader uses it for wind displacement.
type bladeVertex struct {
	Position [3]float32
	Bend     float32
}

// bladeMesh is the shared unit blade geometry for one detail bucket.
type bladeMesh struct {
	vbo         uint32
	vertexCount int32
}

// grassBatch is one tile's worth of uploaded instances. The VAO binds
// the bucket's shared blade VBO plus the batch's own instance VBO.
type grassBatch struct {
	lod     grass.LOD
	vao     uint32
	instVBO uint32
	count   int32
}

// GrassRenderer draws instanced grass blades. It implements
// grass.Instancer, so the grass field drives instance lifetimes.
type GrassRenderer struct {
	// Shader
	program uint32

	// Uniform locations
	locViewProj     int32
	locBladeHeight  int32
	locTime         int32
	locWindDir      int32
	locWindStrength int32
	locGust         int32
	locBaseColor    int32
	locTipColor     int32
	locAmbient      int32
	locDiffuse      int32
	locCameraPos    int32
	locFogUse       int32
	locFogNear      int32
	locFogFar       int32
	locFogColor     int32

	// Shared blade meshes, one per detail bucket
	meshes [3]bladeMesh

	// Live batches by handle
	batches map[grass.Handle]*grassBatch
	next    grass.Handle

	bladeHeight float32

	// Blade colors; dusk and dawn tint these via the sun uniforms
	BaseColor [3]float32
	TipColor  [3]float32
}

// NewGrassRenderer creates a grass renderer with one shared blade mesh
// per detail bucket. Segment counts come from the bucket configuration.
func NewGrassRenderer(buckets [3]grass.Bucket, bladeHeight float32) (*GrassRenderer, error) {
	gr := &GrassRenderer{
		batches:     make(map[grass.Handle]*grassBatch),
		bladeHeight: bladeHeight,
		BaseColor:   [3]float32{0.18, 0.34, 0.12},
		TipColor:    [3]float32{0.47, 0.66, 0.25},
	}
	if gr.bladeHeight <= 0 {
		gr.bladeHeight = 0.5
	}

	program, err := shader.CompileProgram(shaders.GrassVertexShader, shaders.GrassFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("grass shader: %w", err)
	}
	gr.program = program

	// Get uniform locations
	gr.locViewProj = shader.GetUniform(program, "uViewProj")
	gr.locBladeHeight = shader.GetUniform(program, "uBladeHeight")
	gr.locTime = shader.GetUniform(program, "uTime")
	gr.locWindDir = shader.GetUniform(program, "uWindDir")
	gr.locWindStrength = shader.GetUniform(program, "uWindStrength")
	gr.locGust = shader.GetUniform(program, "uGust")
	gr.locBaseColor = shader.GetUniform(program, "uBaseColor")
	gr.locTipColor = shader.GetUniform(program, "uTipColor")
	gr.locAmbient = shader.GetUniform(program, "uAmbient")
	gr.locDiffuse = shader.GetUniform(program, "uDiffuse")
	gr.locCameraPos = shader.GetUniform(program, "uCameraPos")
	gr.locFogUse = shader.GetUniform(program, "uFogUse")
	gr.locFogNear = shader.GetUniform(program, "uFogNear")
	gr.locFogFar = shader.GetUniform(program, "uFogFar")
	gr.locFogColor = shader.GetUniform(program, "uFogColor")

	// Build one unit blade per bucket
	for i, bucket := range buckets {
		segments := bucket.Segments
		if segments < 1 {
			segments = 1
		}
		gr.meshes[i] = uploadBladeMesh(buildBladeVertices(segments))
	}

	return gr, nil
}

// buildBladeVertices builds a unit grass blade in the XY plane: a
// tapered strip of quads capped by a tip triangle. Width tapers to a
// point at the top; height is 1 and scaled by uBladeHeight at draw
// time.
func buildBladeVertices(segments int) []bladeVertex {
	const baseHalfWidth = 0.035

	half := func(t float32) float32 {
		return baseHalfWidth * (1 - t)
	}

	verts := make([]bladeVertex, 0, (segments-1)*6+3)
	for i := 0; i < segments; i++ {
		t0 := float32(i) / float32(segments)
		t1 := float32(i+1) / float32(segments)
		w0 := half(t0)
		w1 := half(t1)

		bl := bladeVertex{Position: [3]float32{-w0, t0, 0}, Bend: t0}
		br := bladeVertex{Position: [3]float32{w0, t0, 0}, Bend: t0}

		if i == segments-1 {
			// Tip triangle
			tip := bladeVertex{Position: [3]float32{0, 1, 0}, Bend: 1}
			verts = append(verts, bl, br, tip)
			continue
		}

		tl := bladeVertex{Position: [3]float32{-w1, t1, 0}, Bend: t1}
		tr := bladeVertex{Position: [3]float32{w1, t1, 0}, Bend: t1}
		verts = append(verts, bl, br, tr, bl, tr, tl)
	}
	return verts
}

func uploadBladeMesh(verts []bladeVertex) bladeMesh {
	var m bladeMesh
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	vertexSize := int(unsafe.Sizeof(bladeVertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*vertexSize, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	m.vertexCount = int32(len(verts))
	return m
}

// Create uploads a batch of instances for one tile and returns its
// handle. Implements grass.Instancer.
func (gr *GrassRenderer) Create(lod grass.LOD, instances []grass.Instance) grass.Handle {
	if len(instances) == 0 {
		return grass.NoHandle
	}
	if lod < 0 || int(lod) >= len(gr.meshes) {
		return grass.NoHandle
	}

	batch := &grassBatch{lod: lod, count: int32(len(instances))}

	gl.GenVertexArrays(1, &batch.vao)
	gl.BindVertexArray(batch.vao)

	// Shared blade geometry (locations 0-1)
	mesh := gr.meshes[lod]
	gl.BindBuffer(gl.ARRAY_BUFFER, mesh.vbo)
	bladeSize := int32(unsafe.Sizeof(bladeVertex{}))
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, bladeSize, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 1, gl.FLOAT, false, bladeSize, 3*4)
	gl.EnableVertexAttribArray(1)

	// Per-instance data (locations 2-4)
	gl.GenBuffers(1, &batch.instVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, batch.instVBO)
	instSize := int(unsafe.Sizeof(grass.Instance{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(instances)*instSize, unsafe.Pointer(&instances[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, int32(instSize), 0)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribDivisor(2, 1)
	gl.VertexAttribPointerWithOffset(3, 1, gl.FLOAT, false, int32(instSize), 3*4)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribDivisor(3, 1)
	gl.VertexAttribPointerWithOffset(4, 1, gl.FLOAT, false, int32(instSize), 4*4)
	gl.EnableVertexAttribArray(4)
	gl.VertexAttribDivisor(4, 1)

	gl.BindVertexArray(0)

	gr.next++
	h := gr.next
	gr.batches[h] = batch
	return h
}

// Destroy releases one tile's batch. Implements grass.Instancer.
// Destroying NoHandle or an unknown handle is a no-op.
func (gr *GrassRenderer) Destroy(h grass.Handle) {
	batch, ok := gr.batches[h]
	if !ok {
		return
	}
	if batch.vao != 0 {
		gl.DeleteVertexArrays(1, &batch.vao)
	}
	if batch.instVBO != 0 {
		gl.DeleteBuffers(1, &batch.instVBO)
	}
	delete(gr.batches, h)
}

// Batches returns the number of live instance batches.
func (gr *GrassRenderer) Batches() int {
	return len(gr.batches)
}

// Render draws every visible tile's batch. The field decides
// visibility; this walks its tiles so culled batches stay resident but
// undrawn.
func (gr *GrassRenderer) Render(field *grass.Field, viewProj math.Mat4, cameraPos math.Vec3,
	time float32, windDir [2]float32, windStrength, gust float32,
	ambient, diffuse [3]float32,
	fogEnabled bool, fogNear, fogFar float32, fogColor [3]float32) {

	if len(gr.batches) == 0 {
		return
	}

	gl.UseProgram(gr.program)

	gl.UniformMatrix4fv(gr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform1f(gr.locBladeHeight, gr.bladeHeight)
	gl.Uniform1f(gr.locTime, time)
	gl.Uniform2f(gr.locWindDir, windDir[0], windDir[1])
	gl.Uniform1f(gr.locWindStrength, windStrength)
	gl.Uniform1f(gr.locGust, gust)
	gl.Uniform3f(gr.locBaseColor, gr.BaseColor[0], gr.BaseColor[1], gr.BaseColor[2])
	gl.Uniform3f(gr.locTipColor, gr.TipColor[0], gr.TipColor[1], gr.TipColor[2])
	gl.Uniform3f(gr.locAmbient, ambient[0], ambient[1], ambient[2])
	gl.Uniform3f(gr.locDiffuse, diffuse[0], diffuse[1], diffuse[2])
	gl.Uniform3f(gr.locCameraPos, cameraPos.X, cameraPos.Y, cameraPos.Z)

	if fogEnabled {
		gl.Uniform1i(gr.locFogUse, 1)
		gl.Uniform1f(gr.locFogNear, fogNear)
		gl.Uniform1f(gr.locFogFar, fogFar)
		gl.Uniform3f(gr.locFogColor, fogColor[0], fogColor[1], fogColor[2])
	} else {
		gl.Uniform1i(gr.locFogUse, 0)
	}

	for _, tile := range field.Tiles() {
		if !tile.Visible {
			continue
		}
		batch, ok := gr.batches[tile.Handle()]
		if !ok {
			continue
		}
		gl.BindVertexArray(batch.vao)
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, gr.meshes[batch.lod].vertexCount, batch.count)
	}
	gl.BindVertexArray(0)
}

// ReleaseAll drops every live batch, for a full rebuild.
func (gr *GrassRenderer) ReleaseAll() {
	for h := range gr.batches {
		gr.Destroy(h)
	}
}

// Close releases all GPU resources. Named Close rather than Destroy
// because Destroy is the grass.Instancer batch-release method.
func (gr *GrassRenderer) Close() {
	gr.ReleaseAll()
	for i := range gr.meshes {
		if gr.meshes[i].vbo != 0 {
			gl.DeleteBuffers(1, &gr.meshes[i].vbo)
			gr.meshes[i].vbo = 0
		}
	}
	if gr.program != 0 {
		gl.DeleteProgram(gr.program)
		gr.program = 0
	}
}
