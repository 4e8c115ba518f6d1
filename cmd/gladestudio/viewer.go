package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/camera"
	"github.com/softmeadow/glade/internal/engine/debug"
	"github.com/softmeadow/glade/internal/engine/framebuffer"
	"github.com/softmeadow/glade/internal/engine/frustum"
	"github.com/softmeadow/glade/internal/engine/lighting"
	"github.com/softmeadow/glade/internal/engine/picking"
	"github.com/softmeadow/glade/internal/engine/scene"
	"github.com/softmeadow/glade/internal/game/world"
	"github.com/softmeadow/glade/internal/grass"
	"github.com/softmeadow/glade/internal/logger"
	"github.com/softmeadow/glade/internal/sky"
	"github.com/softmeadow/glade/internal/weather"
	"github.com/softmeadow/glade/pkg/math"
)

// Viewer render target size. The viewport panel scales the image to
// fit, so this stays fixed regardless of window size.
const (
	viewerWidth  = 1280
	viewerHeight = 800
)

const (
	rainCapacity = 1500
	maxStep      = 100 * time.Millisecond

	pickMaxDist = 600
	pickStep    = 0.5
)

// Viewer owns an offscreen copy of the playground: the generated
// world, the scene and the subsystems that animate it, framed by an
// orbit camera instead of the game's character-following one. The
// studio displays its output texture inside an ImGui window.
type Viewer struct {
	cfg *config.Config
	cam *camera.OrbitCamera

	world *world.World
	scene *scene.Scene

	field  *grass.Field
	wind   *weather.Wind
	rain   *weather.Rain
	leaves *weather.Leaves
	cycle  *sky.Cycle
	grid   *debug.TileGrid

	// The post pass lands here so the displayed texture and PNG
	// exports match what the game shows. The scene's own framebuffer
	// holds the raw image.
	post *framebuffer.Framebuffer

	// Tunables as last pushed into the subsystems; Update diffs the
	// live config against this, same as the game does.
	applied config.Config

	lastTick time.Time

	ShowTiles     bool
	ShowLOD       bool
	ShowCharacter bool
	shadows       bool

	// Manual sun placement. While set, the day cycle keeps running but
	// its direction is replaced before rendering.
	SunOverride  bool
	SunAzimuth   float32
	SunElevation float32

	log *zap.Logger
}

// NewViewer generates the world from the config and stands up the
// offscreen scene. Needs a current GL context.
func NewViewer(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:           cfg,
		cam:           camera.NewOrbitCamera(),
		ShowCharacter: true,
		shadows:       true,
		log:           logger.Named("viewer"),
	}

	post, err := framebuffer.New(viewerWidth, viewerHeight)
	if err != nil {
		return nil, err
	}
	v.post = post

	if err := v.build(); err != nil {
		v.post.Destroy()
		return nil, err
	}
	return v, nil
}

// build generates the world and the GL-side subsystems from the
// current config. Rebuild tears the old ones down and calls it again,
// which is also how structural settings (seed, size, blade height,
// capsule size) take effect.
func (v *Viewer) build() error {
	cfg := v.cfg
	v.world = world.Build(cfg)

	sceneCfg := scene.DefaultConfig()
	sceneCfg.Width = viewerWidth
	sceneCfg.Height = viewerHeight

	buckets := grass.DefaultBuckets(cfg.Grass.HighDensity, cfg.Grass.LowDensity, cfg.Grass.UltraLowDensity)

	sc, err := scene.New(sceneCfg, buckets, cfg.Grass.BladeHeight,
		cfg.Character.CapsuleRadius, cfg.Character.CapsuleHeight)
	if err != nil {
		return err
	}
	v.scene = sc
	if err := v.scene.LoadTerrain(v.world.Mesh); err != nil {
		v.scene.Destroy()
		v.scene = nil
		return err
	}
	v.scene.SetTrees(v.world.Trees)

	v.field = grass.NewField(grass.Config{
		WorldSize: cfg.World.Size,
		TileSize:  cfg.Grass.TileSize,
		Near:      cfg.Grass.NearDistance,
		Far:       cfg.Grass.FarDistance,
		MaxHeight: v.world.Height.MaxHeight() + cfg.Grass.BladeHeight,
		Interval:  cfg.Grass.EvalInterval,
		Buckets:   buckets,
	}, v.world.Height, v.scene.GrassInstancer())

	v.wind = weather.NewWind(cfg.Weather.WindDirection, cfg.Weather.WindStrength)

	v.rain = weather.NewRain(rainCapacity, cfg.World.Seed, v.world.Height)
	v.rain.SetEnabled(cfg.Weather.Rain)
	v.rain.SetIntensity(cfg.Weather.RainIntensity)

	v.leaves = weather.NewLeaves(cfg.Weather.LeafCount, cfg.World.Seed, v.world.Height)
	v.leaves.SetEnabled(cfg.Weather.Leaves)

	v.cycle = sky.New(cfg.Sky)
	v.grid = debug.NewTileGrid(v.field, v.world.Height)

	v.scene.SetShadowsEnabled(v.shadows)

	min, max := v.scene.MinBounds, v.scene.MaxBounds
	v.cam.FitToBounds(min[0], min[1], min[2], max[0], max[1], max[2])

	v.applied = *cfg
	v.lastTick = time.Time{}
	v.log.Info("viewer world ready",
		zap.Int64("seed", cfg.World.Seed),
		zap.Float32("size", cfg.World.Size),
		zap.Int("trees", len(v.world.Trees)),
	)
	return nil
}

func (v *Viewer) teardown() {
	if v.field != nil {
		v.field.Destroy()
		v.field = nil
	}
	if v.scene != nil {
		v.scene.Destroy()
		v.scene = nil
	}
}

// Rebuild regenerates the world from the current config. Everything
// GL-side is recreated; the camera refits to the new terrain.
func (v *Viewer) Rebuild() error {
	v.teardown()
	return v.build()
}

// Update advances the subsystems by wall time since the last call.
func (v *Viewer) Update() {
	now := time.Now()
	dt := now.Sub(v.lastTick)
	v.lastTick = now
	if dt < 0 || dt > maxStep {
		dt = maxStep
	}

	v.applyTunables()

	v.wind.Update(dt)
	v.cycle.Update(dt)

	center := math.Vec3{X: v.cam.CenterX, Y: v.cam.CenterY, Z: v.cam.CenterZ}
	v.rain.Update(dt, center, v.wind)
	v.leaves.Update(dt, center, v.wind)

	pos := v.cam.Position()
	v.field.Update(dt, pos.X, pos.Z, v.buildFrustum())
}

// applyTunables pushes changed config sections into the live
// subsystems. Structural sections (World, blade height, capsule size)
// wait for Rebuild instead.
func (v *Viewer) applyTunables() {
	cfg := v.cfg

	if cfg.Weather != v.applied.Weather {
		v.wind.Set(cfg.Weather.WindDirection, cfg.Weather.WindStrength)
		v.rain.SetEnabled(cfg.Weather.Rain)
		v.rain.SetIntensity(cfg.Weather.RainIntensity)
		v.leaves.SetEnabled(cfg.Weather.Leaves)
		if cfg.Weather.LeafCount != v.applied.Weather.LeafCount {
			v.leaves.SetCapacity(cfg.Weather.LeafCount)
		}
	}

	if cfg.Sky != v.applied.Sky {
		if cfg.Sky.StartHour != v.applied.Sky.StartHour {
			v.cycle.SetHour(cfg.Sky.StartHour)
		}
		if cfg.Sky.DayLength != v.applied.Sky.DayLength {
			v.cycle.SetDayLength(cfg.Sky.DayLength)
		}
		v.cycle.SetPaused(cfg.Sky.Paused)
	}

	if cfg.Grass != v.applied.Grass {
		v.field.SetThresholds(cfg.Grass.NearDistance, cfg.Grass.FarDistance)
		if cfg.Grass.HighDensity != v.applied.Grass.HighDensity ||
			cfg.Grass.LowDensity != v.applied.Grass.LowDensity ||
			cfg.Grass.UltraLowDensity != v.applied.Grass.UltraLowDensity {
			v.field.SetDensities(cfg.Grass.HighDensity, cfg.Grass.LowDensity, cfg.Grass.UltraLowDensity)
		}
		if cfg.Grass.EvalInterval != v.applied.Grass.EvalInterval {
			v.field.SetInterval(cfg.Grass.EvalInterval)
		}
	}

	if cfg.Trees != v.applied.Trees {
		v.scene.SetTrees(v.world.RebuildTrees(cfg.Trees))
	}

	v.applied = *cfg
}

func (v *Viewer) buildFrustum() *frustum.Frustum {
	proj := math.Perspective(scene.FOV, float32(viewerWidth)/float32(viewerHeight), 0.1, 800)
	fr := frustum.FromViewProj(proj.Mul(v.cam.ViewMatrix()))
	return &fr
}

// Render draws a frame and returns the texture to display: scene into
// its framebuffer, overlays on top, then the post pass into the
// viewer's own target.
func (v *Viewer) Render() uint32 {
	st := v.cycle.State()
	if v.SunOverride {
		d := lighting.SunDirection(v.SunAzimuth, v.SunElevation)
		st.SunDirection = math.Vec3{X: d[0], Y: d[1], Z: d[2]}
	}

	feet := v.characterFeet()
	v.scene.Render(scene.FrameInput{
		View:      v.cam.ViewMatrix(),
		CameraPos: v.cam.Position(),
		Time:      v.wind.Time(),
		Sky:       st,
		Wind:      v.wind,
		Grass:     v.field,
		Rain:      v.rain,
		Leaves:    v.leaves,

		CharacterModel:   math.Translate(feet.X, feet.Y, feet.Z),
		CharacterVisible: v.ShowCharacter,
		CharacterFeet:    feet,
	})

	if v.ShowTiles || v.ShowLOD {
		restore := v.scene.Framebuffer().BindWithViewport()
		vp := v.scene.LastViewProj()
		ov := v.scene.Overlay()
		if v.ShowLOD {
			ov.RenderTriangles(v.grid.GenerateLODOverlay(0.02), vp, 0.28)
		}
		if v.ShowTiles {
			ov.RenderLines(v.grid.GenerateTileOutlines(0.03), vp)
		}
		restore()
	}

	restore := v.post.BindWithViewport()
	v.scene.Present(v.cfg.Graphics.PostFX)
	restore()
	return v.post.ColorTexture()
}

// characterFeet is where the stand-in capsule stands: world center,
// on the ground.
func (v *Viewer) characterFeet() math.Vec3 {
	return math.Vec3{Y: v.world.Height.HeightAt(0, 0)}
}

// Capture returns the displayed image, post pass included, in
// top-to-bottom row order for PNG export.
func (v *Viewer) Capture() ([]byte, int, int) {
	w, h := v.post.Size()
	pixels := v.post.ReadPixels()

	// Flip vertically; OpenGL's origin is bottom-left
	rowSize := int(w) * 4
	flipped := make([]byte, len(pixels))
	for y := 0; y < int(h); y++ {
		src := (int(h) - 1 - y) * rowSize
		copy(flipped[y*rowSize:(y+1)*rowSize], pixels[src:src+rowSize])
	}
	return flipped, int(w), int(h)
}

// Pick casts a ray through a point on the displayed image and returns
// the ground hit plus the grass tile under it, nil when the hit falls
// outside the tile grid. relX/relY are image-relative, dispW/dispH the
// on-screen image size.
func (v *Viewer) Pick(relX, relY, dispW, dispH float32) (*debug.TileInfo, math.Vec3, bool) {
	if dispW <= 0 || dispH <= 0 {
		return nil, math.Vec3{}, false
	}
	sx := relX / dispW * viewerWidth
	sy := relY / dispH * viewerHeight

	inv := v.scene.LastViewProj().Inverse()
	ray := picking.ScreenToRay(sx, sy, viewerWidth, viewerHeight, inv)
	point, hit := ray.IntersectHeightField(v.world.Height.HeightAt, pickMaxDist, pickStep)
	if !hit {
		return nil, math.Vec3{}, false
	}
	p := math.Vec3{X: point[0], Y: point[1], Z: point[2]}
	return v.grid.TileAt(p.X, p.Z), p, true
}

// Focus recenters the orbit camera on a world point.
func (v *Viewer) Focus(p math.Vec3) {
	v.cam.SetCenter(p.X, p.Y, p.Z)
}

// SetShadows toggles the shadow pass, remembered across rebuilds.
func (v *Viewer) SetShadows(enabled bool) {
	v.shadows = enabled
	v.scene.SetShadowsEnabled(enabled)
}

// Shadows reports whether the shadow pass is on.
func (v *Viewer) Shadows() bool {
	return v.shadows
}

// SunAngles returns the day cycle's current sun placement, for
// seeding the override sliders.
func (v *Viewer) SunAngles() (azimuth, elevation float32) {
	d := v.cycle.State().SunDirection
	return lighting.Angles([3]float32{d.X, d.Y, d.Z})
}

// Stats returns the grass field counters for the panels.
func (v *Viewer) Stats() grass.Stats {
	return v.field.Stats()
}

func (v *Viewer) Destroy() {
	v.teardown()
	if v.post != nil {
		v.post.Destroy()
		v.post = nil
	}
}
