package states

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/softmeadow/glade/internal/character"
	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/camera"
	"github.com/softmeadow/glade/internal/engine/collision"
	"github.com/softmeadow/glade/internal/engine/debug"
	"github.com/softmeadow/glade/internal/engine/frustum"
	"github.com/softmeadow/glade/internal/engine/input"
	"github.com/softmeadow/glade/internal/engine/scene"
	"github.com/softmeadow/glade/internal/game/ui"
	"github.com/softmeadow/glade/internal/game/world"
	"github.com/softmeadow/glade/internal/grass"
	"github.com/softmeadow/glade/internal/logger"
	"github.com/softmeadow/glade/internal/sky"
	"github.com/softmeadow/glade/internal/weather"
	"github.com/softmeadow/glade/pkg/math"
)

// rainCapacity is the particle pool size; intensity scales the live
// count below it.
const rainCapacity = 1500

// PlayState is the playground proper: the scene, the character and
// every subsystem that ticks while the meadow runs.
type PlayState struct {
	shared  *Shared
	manager *Manager
	world   *world.World

	scene *scene.Scene
	cam   *camera.ThirdPersonCamera

	ctrl       *character.Controller
	pose       character.Pose
	colliderID collision.ColliderID

	field  *grass.Field
	wind   *weather.Wind
	rain   *weather.Rain
	leaves *weather.Leaves
	cycle  *sky.Cycle

	hud   *ui.HUD
	grid  *debug.TileGrid
	shots *debug.ScreenshotCapture

	// Tunables as last pushed into the subsystems. Each frame the live
	// config is diffed against this, so HUD edits and file reloads go
	// through one path.
	applied config.Config

	frameMs      float64
	shadows      bool
	showGrass    bool
	showTrees    bool
	showTiles    bool
	showLOD      bool
	showCollider bool
	pendingShot  bool
	dragging     bool

	log *zap.Logger
}

// NewPlayState wraps an assembled world; the GL-side setup happens in
// Enter.
func NewPlayState(shared *Shared, manager *Manager, w *world.World) *PlayState {
	return &PlayState{
		shared:  shared,
		manager: manager,
		world:   w,
		log:     logger.Named("play"),
	}
}

// Enter builds the scene and all per-run subsystems.
func (s *PlayState) Enter() error {
	cfg := s.shared.Cfg

	sceneCfg := scene.DefaultConfig()
	sceneCfg.Width = s.shared.DrawableW
	sceneCfg.Height = s.shared.DrawableH

	buckets := grass.DefaultBuckets(cfg.Grass.HighDensity, cfg.Grass.LowDensity, cfg.Grass.UltraLowDensity)

	var err error
	s.scene, err = scene.New(sceneCfg, buckets, cfg.Grass.BladeHeight,
		cfg.Character.CapsuleRadius, cfg.Character.CapsuleHeight)
	if err != nil {
		return err
	}
	if err := s.scene.LoadTerrain(s.world.Mesh); err != nil {
		return err
	}
	s.scene.SetTrees(s.world.Trees)
	s.shadows = sceneCfg.ShadowsEnabled
	s.showGrass = true
	s.showTrees = true

	s.field = grass.NewField(grass.Config{
		WorldSize: cfg.World.Size,
		TileSize:  cfg.Grass.TileSize,
		Near:      cfg.Grass.NearDistance,
		Far:       cfg.Grass.FarDistance,
		MaxHeight: s.world.Height.MaxHeight() + cfg.Grass.BladeHeight,
		Interval:  cfg.Grass.EvalInterval,
		Buckets:   buckets,
	}, s.world.Height, s.scene.GrassInstancer())

	spawn := s.world.SpawnPoint()
	s.colliderID = s.world.Collision.AddBox(collision.AABB{})
	s.ctrl = character.New(cfg.Character, s.world.Collision, s.colliderID, spawn)
	s.world.Collision.UpdateBox(s.colliderID, s.ctrl.Bounds())
	s.pose = character.Pose{}

	s.cam = camera.NewThirdPersonCamera()
	s.wind = weather.NewWind(cfg.Weather.WindDirection, cfg.Weather.WindStrength)

	s.rain = weather.NewRain(rainCapacity, cfg.World.Seed, s.world.Height)
	s.rain.SetEnabled(cfg.Weather.Rain)
	s.rain.SetIntensity(cfg.Weather.RainIntensity)

	s.leaves = weather.NewLeaves(cfg.Weather.LeafCount, cfg.World.Seed, s.world.Height)
	s.leaves.SetEnabled(cfg.Weather.Leaves)

	s.cycle = sky.New(cfg.Sky)

	s.hud = ui.NewHUD(s.shared.UI, cfg.Graphics.ShowHUD)
	s.grid = debug.NewTileGrid(s.field, s.world.Height)
	s.shots = debug.NewScreenshotCapture("screenshots", "glade")

	s.applied = *cfg
	s.log.Info("playground running",
		zap.Float32("spawn_y", spawn.Y),
		zap.Int("grass_tiles", s.field.Stats().Tiles),
	)
	return nil
}

// Exit tears down GL resources in reverse creation order.
func (s *PlayState) Exit() error {
	if s.field != nil {
		s.field.Destroy()
		s.field = nil
	}
	if s.scene != nil {
		s.scene.Destroy()
		s.scene = nil
	}
	if s.colliderID != collision.NoCollider {
		s.world.Collision.RemoveBox(s.colliderID)
		s.colliderID = collision.NoCollider
	}
	return nil
}

// Update advances one simulation frame.
func (s *PlayState) Update(dt time.Duration) error {
	s.frameMs = float64(dt) / float64(time.Millisecond)
	s.applyTunables()

	s.ctrl.Update(dt, s.readMoveInput())
	s.world.Collision.UpdateBox(s.colliderID, s.ctrl.Bounds())
	s.pose.Update(dt, s.ctrl)

	s.wind.Update(dt)
	s.cycle.Update(dt)

	p := s.ctrl.Position
	s.rain.Update(dt, p, s.wind)
	s.leaves.Update(dt, p, s.wind)

	camPos := s.cam.Position(p.X, p.Y, p.Z)
	s.field.Update(dt, camPos.X, camPos.Z, s.buildFrustum(p))

	rainLevel := float64(0)
	if s.rain.Enabled() {
		rainLevel = float64(s.shared.Cfg.Weather.RainIntensity)
	}
	s.shared.Audio.SetLevels(float64(s.wind.Strength()), rainLevel)

	s.hud.Update(dt)
	return nil
}

// buildFrustum derives the culling frustum from the current camera,
// with the same projection the scene renders with.
func (s *PlayState) buildFrustum(target math.Vec3) *frustum.Frustum {
	w, h := s.scene.Size()
	if h == 0 {
		return nil
	}
	proj := math.Perspective(scene.FOV, float32(w)/float32(h), 0.1, 800)
	view := s.cam.ViewMatrix(target.X, target.Y, target.Z)
	fr := frustum.FromViewProj(proj.Mul(view))
	return &fr
}

// readMoveInput maps held keys through the camera basis so W always
// walks away from the viewer.
func (s *PlayState) readMoveInput() character.Input {
	in := s.shared.Input

	strafe := in.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D)
	forward := in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W)

	fwdX, fwdZ := s.cam.ForwardDirection()
	rightX, rightZ := s.cam.RightDirection()

	return character.Input{
		MoveX:  fwdX*forward + rightX*strafe,
		MoveZ:  fwdZ*forward + rightZ*strafe,
		Run:    in.IsKeyDown(sdl.SCANCODE_LSHIFT),
		Jump:   in.IsKeyDown(sdl.SCANCODE_SPACE),
		Crouch: in.IsKeyDown(sdl.SCANCODE_LCTRL),
	}
}

// Render draws the frame: scene into its framebuffer, debug overlays
// on top of it, the post pass to the window, then the 2D HUD.
func (s *PlayState) Render() error {
	p := s.ctrl.Position
	view := s.cam.ViewMatrix(p.X, p.Y, p.Z)

	field := s.field
	if !s.showGrass {
		field = nil
	}

	s.scene.Render(scene.FrameInput{
		View:      view,
		CameraPos: math.Vec3{X: s.cam.PosX, Y: s.cam.PosY, Z: s.cam.PosZ},
		Time:      s.wind.Time(),
		Sky:       s.cycle.State(),
		Wind:      s.wind,
		Grass:     field,
		Rain:      s.rain,
		Leaves:    s.leaves,

		CharacterModel:   s.pose.Matrix(s.ctrl),
		CharacterVisible: true,
		CharacterFeet:    p,
	})

	if s.showTiles || s.showLOD || s.showCollider {
		restore := s.scene.Framebuffer().BindWithViewport()
		vp := s.scene.LastViewProj()
		ov := s.scene.Overlay()
		if s.showLOD {
			ov.RenderTriangles(s.grid.GenerateLODOverlay(0.02), vp, 0.28)
		}
		if s.showTiles {
			ov.RenderLines(s.grid.GenerateTileOutlines(0.03), vp)
		}
		if s.showCollider {
			wire := debug.GenerateColliderWireframe(s.ctrl.Bounds(), 0.02, [3]float32{1, 0.55, 0.1})
			ov.RenderLines(wire, vp)
		}
		restore()
	}

	if s.pendingShot {
		s.pendingShot = false
		s.captureScreenshot()
	}

	s.scene.Present(s.shared.Cfg.Graphics.PostFX)

	c := s.shared.UI
	c.Begin()
	s.hud.Render(s.frameInfo(), s.shared.Cfg)
	if s.hud.SaveRequested {
		s.hud.SaveRequested = false
		s.saveConfig()
	}
	c.End()
	return nil
}

func (s *PlayState) frameInfo() ui.Info {
	st := s.cycle.State()
	return ui.Info{
		FrameMs: s.frameMs,
		Pos:     s.ctrl.Position,
		State:   s.ctrl.State().String(),
		Grass:   s.field.Stats(),
		Phase:   st.Phase,
		Hour:    st.Hour,
		Rain:    s.rain.Alive(),
		Leaves:  s.leaves.Alive(),
	}
}

func (s *PlayState) captureScreenshot() {
	pixels, w, h := s.scene.CaptureImage()
	path, err := s.shots.CapturePixels(pixels, int(w), int(h))
	if err != nil {
		s.log.Warn("screenshot failed", zap.Error(err))
		s.hud.Notify("screenshot failed")
		return
	}
	s.log.Info("screenshot saved", zap.String("path", path))
	s.hud.Notify("saved " + path)
}

func (s *PlayState) saveConfig() {
	// No file was loaded: fall back to the user config directory.
	var err error
	if s.shared.CfgPath != "" {
		err = s.shared.Cfg.SaveTo(s.shared.CfgPath)
	} else {
		err = s.shared.Cfg.Save()
	}
	if err != nil {
		s.log.Error("config save failed", zap.Error(err))
		s.hud.Notify("save failed")
		return
	}
	s.hud.Notify("config saved")
}

// HandleEvent processes toggles, camera drag and window resizes. The
// game loop has already consumed quit and fullscreen keys.
func (s *PlayState) HandleEvent(ev input.Event) error {
	switch ev.Type {
	case input.EventKeyDown:
		s.handleKey(ev.Key)

	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_RIGHT && !s.shared.UI.WantsMouse() {
			s.dragging = true
		}

	case input.EventMouseUp:
		if ev.Button == sdl.BUTTON_RIGHT {
			s.dragging = false
		}

	case input.EventMouseMove:
		if s.dragging {
			s.cam.HandleDrag(float32(ev.RelX), float32(ev.RelY))
		}

	case input.EventMouseWheel:
		if !s.shared.UI.WantsMouse() {
			s.cam.HandleZoom(ev.WheelY)
		}

	case input.EventWindowResize:
		// Shared dims were updated by the game loop before dispatch.
		s.scene.Resize(s.shared.DrawableW, s.shared.DrawableH)
	}
	return nil
}

func (s *PlayState) handleKey(key sdl.Scancode) {
	cfg := s.shared.Cfg
	switch key {
	case sdl.SCANCODE_H:
		cfg.Graphics.ShowHUD = !cfg.Graphics.ShowHUD
		s.hud.Visible = cfg.Graphics.ShowHUD
		s.applied.Graphics = cfg.Graphics

	case sdl.SCANCODE_F1:
		s.hud.ShowSettings = !s.hud.ShowSettings

	case sdl.SCANCODE_F2:
		s.showGrass = !s.showGrass

	case sdl.SCANCODE_F3:
		s.showTrees = !s.showTrees
		s.scene.TreesVisible = s.showTrees

	case sdl.SCANCODE_O:
		s.showTiles = !s.showTiles

	case sdl.SCANCODE_G:
		s.showLOD = !s.showLOD

	case sdl.SCANCODE_B:
		s.showCollider = !s.showCollider

	case sdl.SCANCODE_R:
		cfg.Weather.Rain = !cfg.Weather.Rain

	case sdl.SCANCODE_L:
		cfg.Weather.Leaves = !cfg.Weather.Leaves

	case sdl.SCANCODE_P:
		cfg.Graphics.PostFX = !cfg.Graphics.PostFX
		s.applied.Graphics = cfg.Graphics

	case sdl.SCANCODE_M:
		cfg.Audio.Muted = !cfg.Audio.Muted

	case sdl.SCANCODE_T:
		cfg.Sky.Paused = !cfg.Sky.Paused

	case sdl.SCANCODE_F5:
		s.shadows = !s.shadows
		s.scene.SetShadowsEnabled(s.shadows)

	case sdl.SCANCODE_F12:
		s.pendingShot = true
	}
}

// applyTunables pushes config changes into the subsystems. Both HUD
// edits and file hot-reloads land in the shared config, so one diff
// against the applied snapshot covers them.
func (s *PlayState) applyTunables() {
	cfg := s.shared.Cfg
	ap := &s.applied

	if cfg.Weather != ap.Weather {
		s.wind.Set(cfg.Weather.WindDirection, cfg.Weather.WindStrength)
		s.rain.SetEnabled(cfg.Weather.Rain)
		s.rain.SetIntensity(cfg.Weather.RainIntensity)
		s.leaves.SetEnabled(cfg.Weather.Leaves)
		if cfg.Weather.LeafCount != ap.Weather.LeafCount {
			s.leaves.SetCapacity(cfg.Weather.LeafCount)
		}
		ap.Weather = cfg.Weather
	}

	if cfg.Sky != ap.Sky {
		if cfg.Sky.StartHour != ap.Sky.StartHour {
			s.cycle.SetHour(cfg.Sky.StartHour)
		}
		if cfg.Sky.DayLength != ap.Sky.DayLength {
			s.cycle.SetDayLength(cfg.Sky.DayLength)
		}
		s.cycle.SetPaused(cfg.Sky.Paused)
		ap.Sky = cfg.Sky
	}

	if cfg.Grass != ap.Grass {
		s.field.SetThresholds(cfg.Grass.NearDistance, cfg.Grass.FarDistance)
		if cfg.Grass.HighDensity != ap.Grass.HighDensity ||
			cfg.Grass.LowDensity != ap.Grass.LowDensity ||
			cfg.Grass.UltraLowDensity != ap.Grass.UltraLowDensity {
			// Repopulates every visible tile, so only on a real change.
			s.field.SetDensities(cfg.Grass.HighDensity, cfg.Grass.LowDensity, cfg.Grass.UltraLowDensity)
		}
		if cfg.Grass.EvalInterval != ap.Grass.EvalInterval {
			s.field.SetInterval(cfg.Grass.EvalInterval)
		}
		if cfg.Grass.BladeHeight != ap.Grass.BladeHeight || cfg.Grass.TileSize != ap.Grass.TileSize {
			s.hud.Notify("blade and tile settings apply after restart")
		}
		ap.Grass = cfg.Grass
	}

	if cfg.Character != ap.Character {
		s.ctrl.SetTuning(cfg.Character)
		ap.Character = cfg.Character
	}

	if cfg.Audio != ap.Audio {
		s.shared.Audio.SetMasterVolume(float64(cfg.Audio.MasterVolume))
		s.shared.Audio.SetWindVolume(float64(cfg.Audio.WindVolume))
		s.shared.Audio.SetMuted(cfg.Audio.Muted)
		ap.Audio = cfg.Audio
	}

	if cfg.Trees != ap.Trees {
		s.scene.SetTrees(s.world.RebuildTrees(cfg.Trees))
		ap.Trees = cfg.Trees
	}

	if cfg.World != ap.World {
		s.log.Warn("world settings changed, restart to rebuild the terrain")
		s.hud.Notify("world change needs a restart")
		ap.World = cfg.World
	}

	if cfg.Graphics != ap.Graphics {
		s.hud.Visible = cfg.Graphics.ShowHUD
		ap.Graphics = cfg.Graphics
	}
}
