// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// TerrainVertexShader is the vertex shader for terrain rendering.
//
//go:embed terrain.vert
var TerrainVertexShader string

// TerrainFragmentShader is the fragment shader for terrain rendering.
//
//go:embed terrain.frag
var TerrainFragmentShader string

// GrassVertexShader is the vertex shader for instanced grass blades.
//
//go:embed grass.vert
var GrassVertexShader string

// GrassFragmentShader is the fragment shader for instanced grass blades.
//
//go:embed grass.frag
var GrassFragmentShader string

// TreeVertexShader is the vertex shader for instanced trees.
//
//go:embed tree.vert
var TreeVertexShader string

// TreeFragmentShader is the fragment shader for instanced trees.
//
//go:embed tree.frag
var TreeFragmentShader string

// TreeShadowVertexShader is the instanced depth-only vertex shader used
// when trees are rendered into the shadow map.
//
//go:embed tree_shadow.vert
var TreeShadowVertexShader string

// SkyVertexShader is the vertex shader for the sky dome pass.
//
//go:embed sky.vert
var SkyVertexShader string

// SkyFragmentShader is the fragment shader for the sky dome pass.
//
//go:embed sky.frag
var SkyFragmentShader string

// BillboardVertexShader is the vertex shader for instanced particle billboards.
//
//go:embed billboard.vert
var BillboardVertexShader string

// BillboardFragmentShader is the fragment shader for instanced particle billboards.
//
//go:embed billboard.frag
var BillboardFragmentShader string

// CharacterVertexShader is the vertex shader for the character capsule.
//
//go:embed character.vert
var CharacterVertexShader string

// CharacterFragmentShader is the fragment shader for the character capsule.
//
//go:embed character.frag
var CharacterFragmentShader string

// ShadowVertexShader is the vertex shader for the shadow depth pass.
//
//go:embed shadow.vert
var ShadowVertexShader string

// ShadowFragmentShader is the fragment shader for the shadow depth pass.
//
//go:embed shadow.frag
var ShadowFragmentShader string

// PostVertexShader is the vertex shader for the fullscreen post pass.
//
//go:embed post.vert
var PostVertexShader string

// PostFragmentShader is the fragment shader for the fullscreen post pass.
//
//go:embed post.frag
var PostFragmentShader string

// DebugVertexShader is the vertex shader for debug line rendering.
//
//go:embed debug.vert
var DebugVertexShader string

// DebugFragmentShader is the fragment shader for debug line rendering.
//
//go:embed debug.frag
var DebugFragmentShader string
