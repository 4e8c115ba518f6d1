package scene

import (
	"fmt"
	gomath "math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/softmeadow/glade/internal/engine/scene/shaders"
	"github.com/softmeadow/glade/internal/engine/shader"
	"github.com/softmeadow/glade/internal/engine/shadow"
	"github.com/softmeadow/glade/internal/trees"
	"github.com/softmeadow/glade/pkg/math"
)

// treeVertex is one vertex of a tree mesh. Sway is 0 at the trunk base
// and grows toward the canopy top; the shader displaces by it.
type treeVertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [3]float32
	Sway     float32
}

// treeInstance is the per-instance attribute block, matching shader
// locations 4-6.
type treeInstance struct {
	Position [3]float32
	Yaw      float32
	Scale    float32
}

// treeKindBatch holds the mesh and instances of one tree kind.
type treeKindBatch struct {
	vao           uint32
	vbo           uint32
	instVBO       uint32
	vertexCount   int32
	instanceCount int32
}

// TreeRenderer draws the scattered trees, instanced per kind.
type TreeRenderer struct {
	// Main shader
	program uint32

	// Uniform locations
	locViewProj      int32
	locLightViewProj int32
	locTime          int32
	locWindDir       int32
	locWindStrength  int32
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

	// Instanced depth-only shader for the shadow pass
	shadowProgram      uint32
	locShadowLightProj int32

	batches [trees.Kinds]treeKindBatch
}

// NewTreeRenderer creates a tree renderer with one procedural mesh per
// tree kind.
func NewTreeRenderer() (*TreeRenderer, error) {
	tr := &TreeRenderer{}

	program, err := shader.CompileProgram(shaders.TreeVertexShader, shaders.TreeFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("tree shader: %w", err)
	}
	tr.program = program

	tr.locViewProj = shader.GetUniform(program, "uViewProj")
	tr.locLightViewProj = shader.GetUniform(program, "uLightViewProj")
	tr.locTime = shader.GetUniform(program, "uTime")
	tr.locWindDir = shader.GetUniform(program, "uWindDir")
	tr.locWindStrength = shader.GetUniform(program, "uWindStrength")
	tr.locLightDir = shader.GetUniform(program, "uLightDir")
	tr.locAmbient = shader.GetUniform(program, "uAmbient")
	tr.locDiffuse = shader.GetUniform(program, "uDiffuse")
	tr.locCameraPos = shader.GetUniform(program, "uCameraPos")
	tr.locFogUse = shader.GetUniform(program, "uFogUse")
	tr.locFogNear = shader.GetUniform(program, "uFogNear")
	tr.locFogFar = shader.GetUniform(program, "uFogFar")
	tr.locFogColor = shader.GetUniform(program, "uFogColor")
	tr.locShadowMap = shader.GetUniform(program, "uShadowMap")
	tr.locShadowsOn = shader.GetUniform(program, "uShadowsEnabled")

	shadowProgram, err := shader.CompileProgram(shaders.TreeShadowVertexShader, shaders.ShadowFragmentShader)
	if err != nil {
		tr.Destroy()
		return nil, fmt.Errorf("tree shadow shader: %w", err)
	}
	tr.shadowProgram = shadowProgram
	tr.locShadowLightProj = shader.GetUniform(shadowProgram, "uLightViewProj")

	for kind := 0; kind < trees.Kinds; kind++ {
		tr.uploadKindMesh(kind, buildTreeMesh(kind))
	}

	return tr, nil
}

func (tr *TreeRenderer) uploadKindMesh(kind int, verts []treeVertex) {
	batch := &tr.batches[kind]

	gl.GenVertexArrays(1, &batch.vao)
	gl.BindVertexArray(batch.vao)

	gl.GenBuffers(1, &batch.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, batch.vbo)
	vertexSize := int(unsafe.Sizeof(treeVertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*vertexSize, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	// Color (location 2)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)
	// Sway (location 3)
	gl.VertexAttribPointerWithOffset(3, 1, gl.FLOAT, false, int32(vertexSize), 9*4)
	gl.EnableVertexAttribArray(3)

	// Instance VBO allocated empty; SetTrees fills it
	gl.GenBuffers(1, &batch.instVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, batch.instVBO)
	instSize := int32(unsafe.Sizeof(treeInstance{}))
	gl.VertexAttribPointerWithOffset(4, 3, gl.FLOAT, false, instSize, 0)
	gl.EnableVertexAttribArray(4)
	gl.VertexAttribDivisor(4, 1)
	gl.VertexAttribPointerWithOffset(5, 1, gl.FLOAT, false, instSize, 3*4)
	gl.EnableVertexAttribArray(5)
	gl.VertexAttribDivisor(5, 1)
	gl.VertexAttribPointerWithOffset(6, 1, gl.FLOAT, false, instSize, 4*4)
	gl.EnableVertexAttribArray(6)
	gl.VertexAttribDivisor(6, 1)

	gl.BindVertexArray(0)

	batch.vertexCount = int32(len(verts))
}

// SetTrees uploads the scattered trees, grouped by kind. Replaces any
// previous set.
func (tr *TreeRenderer) SetTrees(list []trees.Tree) {
	var grouped [trees.Kinds][]treeInstance
	for _, t := range list {
		if t.Kind < 0 || t.Kind >= trees.Kinds {
			continue
		}
		grouped[t.Kind] = append(grouped[t.Kind], treeInstance{
			Position: [3]float32{t.Position.X, t.Position.Y, t.Position.Z},
			Yaw:      t.Yaw,
			Scale:    t.Scale,
		})
	}

	instSize := int(unsafe.Sizeof(treeInstance{}))
	for kind := range grouped {
		batch := &tr.batches[kind]
		batch.instanceCount = int32(len(grouped[kind]))
		if batch.instanceCount == 0 {
			continue
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, batch.instVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(grouped[kind])*instSize, unsafe.Pointer(&grouped[kind][0]), gl.STATIC_DRAW)
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	}
}

// Render draws all tree kinds.
func (tr *TreeRenderer) Render(viewProj math.Mat4, cameraPos math.Vec3,
	time float32, windDir [2]float32, windStrength float32,
	lightDir, ambient, diffuse [3]float32,
	shadowsEnabled bool, lightViewProj math.Mat4, shadowMap *shadow.Map,
	fogEnabled bool, fogNear, fogFar float32, fogColor [3]float32) {

	gl.UseProgram(tr.program)

	gl.UniformMatrix4fv(tr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform1f(tr.locTime, time)
	gl.Uniform2f(tr.locWindDir, windDir[0], windDir[1])
	gl.Uniform1f(tr.locWindStrength, windStrength)
	gl.Uniform3f(tr.locLightDir, lightDir[0], lightDir[1], lightDir[2])
	gl.Uniform3f(tr.locAmbient, ambient[0], ambient[1], ambient[2])
	gl.Uniform3f(tr.locDiffuse, diffuse[0], diffuse[1], diffuse[2])
	gl.Uniform3f(tr.locCameraPos, cameraPos.X, cameraPos.Y, cameraPos.Z)

	if fogEnabled {
		gl.Uniform1i(tr.locFogUse, 1)
		gl.Uniform1f(tr.locFogNear, fogNear)
		gl.Uniform1f(tr.locFogFar, fogFar)
		gl.Uniform3f(tr.locFogColor, fogColor[0], fogColor[1], fogColor[2])
	} else {
		gl.Uniform1i(tr.locFogUse, 0)
	}

	if shadowsEnabled && shadowMap != nil {
		gl.Uniform1i(tr.locShadowsOn, 1)
		gl.UniformMatrix4fv(tr.locLightViewProj, 1, false, &lightViewProj[0])
		gl.ActiveTexture(gl.TEXTURE2)
		gl.BindTexture(gl.TEXTURE_2D, shadowMap.DepthTexture)
		gl.Uniform1i(tr.locShadowMap, 2)
	} else {
		gl.Uniform1i(tr.locShadowsOn, 0)
	}

	for kind := range tr.batches {
		batch := &tr.batches[kind]
		if batch.instanceCount == 0 {
			continue
		}
		gl.BindVertexArray(batch.vao)
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, batch.vertexCount, batch.instanceCount)
	}
	gl.BindVertexArray(0)
}

// RenderShadow draws all trees into the bound shadow map with the
// instanced depth-only program.
func (tr *TreeRenderer) RenderShadow(lightViewProj math.Mat4) {
	gl.UseProgram(tr.shadowProgram)
	gl.UniformMatrix4fv(tr.locShadowLightProj, 1, false, &lightViewProj[0])

	for kind := range tr.batches {
		batch := &tr.batches[kind]
		if batch.instanceCount == 0 {
			continue
		}
		gl.BindVertexArray(batch.vao)
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, batch.vertexCount, batch.instanceCount)
	}
	gl.BindVertexArray(0)
}

// Destroy releases all resources.
func (tr *TreeRenderer) Destroy() {
	for kind := range tr.batches {
		batch := &tr.batches[kind]
		if batch.vao != 0 {
			gl.DeleteVertexArrays(1, &batch.vao)
			batch.vao = 0
		}
		if batch.vbo != 0 {
			gl.DeleteBuffers(1, &batch.vbo)
			batch.vbo = 0
		}
		if batch.instVBO != 0 {
			gl.DeleteBuffers(1, &batch.instVBO)
			batch.instVBO = 0
		}
	}
	if tr.program != 0 {
		gl.DeleteProgram(tr.program)
		tr.program = 0
	}
	if tr.shadowProgram != 0 {
		gl.DeleteProgram(tr.shadowProgram)
		tr.shadowProgram = 0
	}
}

// Tree palette.
var (
	trunkBrown   = [3]float32{0.36, 0.26, 0.17}
	trunkBirch   = [3]float32{0.74, 0.72, 0.64}
	coniferGreen = [3]float32{0.13, 0.30, 0.15}
	leafGreen    = [3]float32{0.24, 0.42, 0.16}
	birchGreen   = [3]float32{0.38, 0.55, 0.22}
)

// buildTreeMesh builds the unit mesh for one tree kind: a conifer with
// stacked cones, a broadleaf with a round canopy, or a slim birch. All
// meshes have their trunk base at the origin and a height around 2.5
// units before instance scaling.
func buildTreeMesh(kind int) []treeVertex {
	var verts []treeVertex

	switch kind {
	case 1: // Broadleaf
		verts = appendTrunk(verts, 0.14, 0.10, 1.2, trunkBrown)
		verts = appendCanopy(verts, [3]float32{0, 1.75, 0}, 0.85, 0.68, leafGreen)
	case 2: // Birch
		verts = appendTrunk(verts, 0.08, 0.06, 1.5, trunkBirch)
		verts = appendCanopy(verts, [3]float32{0, 1.95, 0}, 0.58, 0.52, birchGreen)
	default: // Conifer
		verts = appendTrunk(verts, 0.12, 0.09, 0.9, trunkBrown)
		verts = appendCone(verts, 0.75, 0.85, 1.65, coniferGreen)
		verts = appendCone(verts, 1.30, 0.62, 2.10, coniferGreen)
		verts = appendCone(verts, 1.80, 0.42, 2.55, coniferGreen)
	}

	// Pin the base, let the top move. Quadratic so the trunk stays
	// nearly rigid.
	var maxY float32
	for i := range verts {
		if verts[i].Position[1] > maxY {
			maxY = verts[i].Position[1]
		}
	}
	if maxY > 0 {
		for i := range verts {
			t := verts[i].Position[1] / maxY
			verts[i].Sway = t * t
		}
	}

	return verts
}

const treeSides = 6

// appendTrunk appends a tapered open cylinder from y=0 to y=height.
func appendTrunk(verts []treeVertex, baseR, topR, height float32, color [3]float32) []treeVertex {
	for i := 0; i < treeSides; i++ {
		a0 := float32(i) / treeSides * 2 * gomath.Pi
		a1 := float32(i+1) / treeSides * 2 * gomath.Pi
		c0, s0 := cosSin(a0)
		c1, s1 := cosSin(a1)

		bl := ringVertex(c0, s0, baseR, 0, color)
		br := ringVertex(c1, s1, baseR, 0, color)
		tl := ringVertex(c0, s0, topR, height, color)
		tr := ringVertex(c1, s1, topR, height, color)

		verts = append(verts, bl, br, tr, bl, tr, tl)
	}
	return verts
}

// appendCone appends an open cone with its base ring at baseY.
func appendCone(verts []treeVertex, baseY, baseR, apexY float32, color [3]float32) []treeVertex {
	// Side normal tilts up by the cone slope.
	slope := baseR / (apexY - baseY)
	for i := 0; i < treeSides; i++ {
		a0 := float32(i) / treeSides * 2 * gomath.Pi
		a1 := float32(i+1) / treeSides * 2 * gomath.Pi
		am := (a0 + a1) / 2
		c0, s0 := cosSin(a0)
		c1, s1 := cosSin(a1)
		cm, sm := cosSin(am)

		b0 := treeVertex{
			Position: [3]float32{c0 * baseR, baseY, s0 * baseR},
			Normal:   normalize3(c0, slope, s0),
			Color:    color,
		}
		b1 := treeVertex{
			Position: [3]float32{c1 * baseR, baseY, s1 * baseR},
			Normal:   normalize3(c1, slope, s1),
			Color:    color,
		}
		apex := treeVertex{
			Position: [3]float32{0, apexY, 0},
			Normal:   normalize3(cm, slope, sm),
			Color:    color,
		}
		verts = append(verts, b0, b1, apex)
	}
	return verts
}

// appendCanopy appends a squashed low-poly sphere.
func appendCanopy(verts []treeVertex, center [3]float32, rxz, ry float32, color [3]float32) []treeVertex {
	const rings, sectors = 5, 8

	point := func(ri, si int) treeVertex {
		lat := float32(ri)/rings*gomath.Pi - gomath.Pi/2
		lon := float32(si) / sectors * 2 * gomath.Pi
		cl, sl := cosSin(lat)
		co, so := cosSin(lon)
		x := cl * co * rxz
		y := sl * ry
		z := cl * so * rxz
		// Gradient of the ellipsoid at the surface point.
		n := normalize3(x/(rxz*rxz), y/(ry*ry), z/(rxz*rxz))
		return treeVertex{
			Position: [3]float32{center[0] + x, center[1] + y, center[2] + z},
			Normal:   n,
			Color:    color,
		}
	}

	for ri := 0; ri < rings; ri++ {
		for si := 0; si < sectors; si++ {
			v00 := point(ri, si)
			v01 := point(ri, si+1)
			v10 := point(ri+1, si)
			v11 := point(ri+1, si+1)
			verts = append(verts, v00, v10, v11, v00, v11, v01)
		}
	}
	return verts
}

func ringVertex(c, s, r, y float32, color [3]float32) treeVertex {
	return treeVertex{
		Position: [3]float32{c * r, y, s * r},
		Normal:   [3]float32{c, 0, s},
		Color:    color,
	}
}

func cosSin(a float32) (float32, float32) {
	return float32(gomath.Cos(float64(a))), float32(gomath.Sin(float64(a)))
}

func normalize3(x, y, z float32) [3]float32 {
	l := float32(gomath.Sqrt(float64(x*x + y*y + z*z)))
	if l == 0 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{x / l, y / l, z / l}
}
