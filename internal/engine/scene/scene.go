// Package scene provides the 3D rendering system for the meadow:
// terrain, instanced grass, trees, sky, weather particles and the
// character, with directional shadow mapping and distance fog.
package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/softmeadow/glade/internal/engine/framebuffer"
	"github.com/softmeadow/glade/internal/engine/scene/shaders"
	"github.com/softmeadow/glade/internal/engine/shader"
	"github.com/softmeadow/glade/internal/engine/shadow"
	"github.com/softmeadow/glade/internal/grass"
	"github.com/softmeadow/glade/internal/sky"
	"github.com/softmeadow/glade/internal/terrain"
	"github.com/softmeadow/glade/internal/trees"
	"github.com/softmeadow/glade/internal/weather"
	"github.com/softmeadow/glade/pkg/math"
)

// FOV is the vertical field of view in radians (60 degrees).
const FOV = 1.0471976

// Config contains scene configuration options.
type Config struct {
	Width            int32
	Height           int32
	ShadowResolution int32
	ShadowsEnabled   bool
	FogEnabled       bool
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:            1280,
		Height:           720,
		ShadowResolution: shadow.DefaultResolution,
		ShadowsEnabled:   true,
		FogEnabled:       true,
	}
}

// FrameInput carries everything that changes from frame to frame.
type FrameInput struct {
	View      math.Mat4
	CameraPos math.Vec3
	Time      float32 // Seconds since start, drives wind and spin animation

	Sky  sky.State
	Wind *weather.Wind

	Grass  *grass.Field
	Rain   *weather.Rain
	Leaves *weather.Leaves

	// Character pose; Visible false skips the draw (first person).
	CharacterModel   math.Mat4
	CharacterVisible bool
	CharacterFeet    math.Vec3
}

// Scene manages the complete meadow frame: shadow pass, sky, terrain,
// trees, character, grass and particles, rendered into an offscreen
// framebuffer.
type Scene struct {
	// Configuration
	config Config

	// Framebuffer for offscreen rendering
	framebuffer *framebuffer.Framebuffer

	// Renderers
	terrainRenderer   *TerrainRenderer
	grassRenderer     *GrassRenderer
	treeRenderer      *TreeRenderer
	skyRenderer       *SkyRenderer
	particleRenderer  *ParticleRenderer
	characterRenderer *CharacterRenderer
	postRenderer      *PostRenderer
	overlayRenderer   *OverlayRenderer

	// Shadow mapping
	shadowMap              *shadow.Map
	shadowProgram          uint32
	locShadowLightViewProj int32
	locShadowModel         int32
	lightViewProj          math.Mat4

	// Current environment, refreshed from the sky state each frame
	LightDir     [3]float32
	AmbientColor [3]float32
	DiffuseColor [3]float32

	// Fog settings
	FogEnabled bool
	FogNear    float32
	FogFar     float32
	FogColor   [3]float32

	// Shadows
	ShadowsEnabled bool

	// Tree pass toggle; the scatter itself stays loaded
	TreesVisible bool

	// World bounds, from the terrain mesh
	MinBounds [3]float32
	MaxBounds [3]float32

	lastViewProj math.Mat4
}

// New creates a scene. The grass buckets decide blade mesh detail and
// the character dimensions size the capsule.
func New(cfg Config, buckets [3]grass.Bucket, bladeHeight, capsuleRadius, capsuleHeight float32) (*Scene, error) {
	s := &Scene{
		config:         cfg,
		LightDir:       [3]float32{0.4, 0.8, 0.2},
		AmbientColor:   [3]float32{0.35, 0.37, 0.4},
		DiffuseColor:   [3]float32{1.0, 0.98, 0.92},
		ShadowsEnabled: cfg.ShadowsEnabled,
		TreesVisible:   true,
		FogEnabled:     cfg.FogEnabled,
		FogNear:        60,
		FogFar:         160,
		FogColor:       [3]float32{0.65, 0.75, 0.85},
	}

	// Create framebuffer
	var err error
	s.framebuffer, err = framebuffer.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}

	// Create shadow map
	s.shadowMap = shadow.NewMap(cfg.ShadowResolution)
	if s.shadowMap == nil {
		s.ShadowsEnabled = false
	}

	// Create shadow shader
	if err := s.createShadowShader(); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating shadow shader: %w", err)
	}

	// Create renderers
	s.terrainRenderer, err = NewTerrainRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating terrain renderer: %w", err)
	}

	s.grassRenderer, err = NewGrassRenderer(buckets, bladeHeight)
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating grass renderer: %w", err)
	}

	s.treeRenderer, err = NewTreeRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating tree renderer: %w", err)
	}

	s.skyRenderer, err = NewSkyRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating sky renderer: %w", err)
	}

	s.particleRenderer, err = NewParticleRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating particle renderer: %w", err)
	}

	s.characterRenderer, err = NewCharacterRenderer(capsuleRadius, capsuleHeight)
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating character renderer: %w", err)
	}

	s.postRenderer, err = NewPostRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating post renderer: %w", err)
	}

	s.overlayRenderer, err = NewOverlayRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating overlay renderer: %w", err)
	}

	return s, nil
}

func (s *Scene) createShadowShader() error {
	program, err := shader.CompileProgram(shaders.ShadowVertexShader, shaders.ShadowFragmentShader)
	if err != nil {
		return fmt.Errorf("shadow shader: %w", err)
	}
	s.shadowProgram = program
	s.locShadowLightViewProj = shader.GetUniform(program, "uLightViewProj")
	s.locShadowModel = shader.GetUniform(program, "uModel")
	return nil
}

// LoadTerrain uploads the terrain mesh and adopts its bounds for the
// shadow frustum and fog range.
func (s *Scene) LoadTerrain(mesh *terrain.Mesh) error {
	if err := s.terrainRenderer.LoadMesh(mesh); err != nil {
		return err
	}
	s.MinBounds = s.terrainRenderer.MinBounds
	s.MaxBounds = s.terrainRenderer.MaxBounds

	// Fog spans the far half of the world by default.
	size := s.MaxBounds[0] - s.MinBounds[0]
	s.FogNear = size * 0.45
	s.FogFar = size * 1.1
	return nil
}

// SetTrees forwards the scattered trees to the tree renderer.
func (s *Scene) SetTrees(list []trees.Tree) {
	s.treeRenderer.SetTrees(list)
}

// GrassInstancer returns the renderer half of the grass system; wire
// it into grass.NewField.
func (s *Scene) GrassInstancer() *GrassRenderer {
	return s.grassRenderer
}

// Render draws a full frame into the offscreen framebuffer and returns
// its color texture.
func (s *Scene) Render(in FrameInput) uint32 {
	aspect := float32(s.config.Width) / float32(s.config.Height)
	proj := math.Perspective(FOV, aspect, 0.1, 800)
	viewProj := proj.Mul(in.View)
	s.lastViewProj = viewProj

	s.applyEnvironment(in.Sky)

	// Wind parameters shared by grass and trees
	var windDir [2]float32
	var windStrength, gust float32
	if in.Wind != nil {
		d := in.Wind.Direction()
		windDir = [2]float32{d.X, d.Z}
		windStrength = in.Wind.Strength()
		gust = in.Wind.Gust()
	}

	wet := float32(0)
	if in.Rain != nil && in.Rain.Enabled() {
		wet = in.Rain.Intensity()
	}
	s.postRenderer.Wetness = wet

	// Shadow pass
	shadowsOn := s.ShadowsEnabled && s.shadowMap != nil
	if shadowsOn {
		bounds := shadow.AABB{Min: s.MinBounds, Max: s.MaxBounds}
		s.lightViewProj = shadow.CalculateDirectionalLightMatrix(s.LightDir, bounds)
		s.renderShadowPass(in)
	}

	// Main pass
	restore := s.framebuffer.BindWithViewport()
	defer restore()

	s.framebuffer.Clear(s.FogColor[0], s.FogColor[1], s.FogColor[2], 1.0)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.BLEND)

	s.skyRenderer.Render(viewProj, in.Sky.SunDirection, in.Sky.SunColor,
		in.Sky.ZenithColor, in.Sky.HorizonColor, in.Sky.SunIntensity)

	s.terrainRenderer.Render(viewProj, in.CameraPos, s.LightDir, s.AmbientColor, s.DiffuseColor,
		shadowsOn, s.lightViewProj, s.shadowMap,
		s.FogEnabled, s.FogNear, s.FogFar, s.FogColor)

	if s.TreesVisible {
		s.treeRenderer.Render(viewProj, in.CameraPos, in.Time, windDir, windStrength,
			s.LightDir, s.AmbientColor, s.DiffuseColor,
			shadowsOn, s.lightViewProj, s.shadowMap,
			s.FogEnabled, s.FogNear, s.FogFar, s.FogColor)
	}

	if in.CharacterVisible {
		s.characterRenderer.Render(viewProj, in.CharacterModel, in.CameraPos,
			s.LightDir, s.AmbientColor, s.DiffuseColor,
			shadowsOn, s.lightViewProj, s.shadowMap,
			s.FogEnabled, s.FogNear, s.FogFar, s.FogColor)

		if !shadowsOn {
			blobPos := in.CharacterFeet
			blobPos.Y += 0.03
			s.particleRenderer.RenderBlob(viewProj, blobPos, 0.55, 0.4)
		}
	}

	if in.Grass != nil {
		s.grassRenderer.Render(in.Grass, viewProj, in.CameraPos,
			in.Time, windDir, windStrength, gust,
			s.AmbientColor, s.DiffuseColor,
			s.FogEnabled, s.FogNear, s.FogFar, s.FogColor)
	}

	// Particles last; they blend and skip depth writes
	camRight := math.Vec3{X: in.View[0], Y: in.View[4], Z: in.View[8]}
	camUp := math.Vec3{X: in.View[1], Y: in.View[5], Z: in.View[9]}
	if in.Rain != nil {
		s.particleRenderer.RenderRain(in.Rain, viewProj, camRight, camUp, in.Time)
	}
	if in.Leaves != nil {
		s.particleRenderer.RenderLeaves(in.Leaves, viewProj, camRight, camUp, in.Time)
	}

	return s.framebuffer.ColorTexture()
}

// applyEnvironment derives the scene light and fog from the sky state.
func (s *Scene) applyEnvironment(st sky.State) {
	s.LightDir = [3]float32{st.SunDirection.X, st.SunDirection.Y, st.SunDirection.Z}
	s.DiffuseColor = [3]float32{
		st.SunColor[0] * st.SunIntensity,
		st.SunColor[1] * st.SunIntensity,
		st.SunColor[2] * st.SunIntensity,
	}
	// Ambient picks up the sky's zenith tint.
	s.AmbientColor = [3]float32{
		st.Ambient * (0.6 + 0.4*st.ZenithColor[0]),
		st.Ambient * (0.6 + 0.4*st.ZenithColor[1]),
		st.Ambient * (0.6 + 0.4*st.ZenithColor[2]),
	}
	s.FogColor = st.FogColor
}

func (s *Scene) renderShadowPass(in FrameInput) {
	if s.shadowMap == nil {
		return
	}

	s.shadowMap.Bind()
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(s.shadowProgram)
	gl.UniformMatrix4fv(s.locShadowLightViewProj, 1, false, &s.lightViewProj[0])

	// Terrain with identity model
	identity := math.Identity()
	gl.UniformMatrix4fv(s.locShadowModel, 1, false, &identity[0])
	s.terrainRenderer.RenderShadow()

	// Character with its pose matrix
	if in.CharacterVisible {
		model := in.CharacterModel
		gl.UniformMatrix4fv(s.locShadowModel, 1, false, &model[0])
		s.characterRenderer.RenderShadow()
	}

	// Trees use their own instanced depth program
	if s.TreesVisible {
		s.treeRenderer.RenderShadow(s.lightViewProj)
	}

	s.shadowMap.Unbind()
}

// Present draws the scene texture to the currently bound framebuffer,
// normally the window's default one, through the post pass.
func (s *Scene) Present(postFX bool) {
	s.postRenderer.Render(s.framebuffer.ColorTexture(), postFX)
}

// Resize updates the scene dimensions.
func (s *Scene) Resize(width, height int32) {
	if width == s.config.Width && height == s.config.Height {
		return
	}
	s.config.Width = width
	s.config.Height = height
	s.framebuffer.Resize(width, height)
}

// Size returns the render target dimensions.
func (s *Scene) Size() (int32, int32) {
	return s.config.Width, s.config.Height
}

// SetShadowsEnabled toggles the shadow pass at runtime.
func (s *Scene) SetShadowsEnabled(enabled bool) {
	s.ShadowsEnabled = enabled && s.shadowMap != nil
}

// LastViewProj returns the view-projection matrix of the most recent
// frame, for overlays and picking.
func (s *Scene) LastViewProj() math.Mat4 {
	return s.lastViewProj
}

// Overlay returns the debug overlay renderer. Callers draw overlays
// between Render and Present, with the scene framebuffer bound.
func (s *Scene) Overlay() *OverlayRenderer {
	return s.overlayRenderer
}

// Framebuffer exposes the offscreen target so overlays can draw into
// the same image after the main passes.
func (s *Scene) Framebuffer() *framebuffer.Framebuffer {
	return s.framebuffer
}

// ColorTexture returns the rendered color texture.
func (s *Scene) ColorTexture() uint32 {
	return s.framebuffer.ColorTexture()
}

// CaptureImage captures the current rendered scene as RGBA pixel data.
// Pixels come back top-to-bottom.
func (s *Scene) CaptureImage() ([]byte, int32, int32) {
	width, height := s.framebuffer.Size()
	pixels := s.framebuffer.ReadPixels()

	// Flip vertically; OpenGL's origin is bottom-left
	rowSize := int(width) * 4
	flipped := make([]byte, len(pixels))
	for y := 0; y < int(height); y++ {
		srcRow := (int(height) - 1 - y) * rowSize
		dstRow := y * rowSize
		copy(flipped[dstRow:dstRow+rowSize], pixels[srcRow:srcRow+rowSize])
	}

	return flipped, width, height
}

// Destroy releases all resources.
func (s *Scene) Destroy() {
	if s.terrainRenderer != nil {
		s.terrainRenderer.Destroy()
	}
	if s.grassRenderer != nil {
		s.grassRenderer.Close()
	}
	if s.treeRenderer != nil {
		s.treeRenderer.Destroy()
	}
	if s.skyRenderer != nil {
		s.skyRenderer.Destroy()
	}
	if s.particleRenderer != nil {
		s.particleRenderer.Destroy()
	}
	if s.characterRenderer != nil {
		s.characterRenderer.Destroy()
	}
	if s.postRenderer != nil {
		s.postRenderer.Destroy()
	}
	if s.overlayRenderer != nil {
		s.overlayRenderer.Destroy()
	}
	if s.shadowMap != nil {
		s.shadowMap.Destroy()
	}
	if s.shadowProgram != 0 {
		gl.DeleteProgram(s.shadowProgram)
	}
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
	}
}
