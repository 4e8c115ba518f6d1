// Package ui draws the playground's 2D overlay: a stats readout, the
// settings panel over the live config, and transient status messages.
package ui

import (
	"fmt"
	"time"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/ui2d"
	"github.com/softmeadow/glade/internal/grass"
	"github.com/softmeadow/glade/pkg/math"
)

// Info is the frame snapshot the play state hands to the HUD. Values
// are display-only; edits go through the config instead.
type Info struct {
	FrameMs float64
	Pos     math.Vec3
	State   string
	Grass   grass.Stats
	Phase   string  // Sky phase name
	Hour    float32 // 0..24
	Rain    int     // Live raindrop count
	Leaves  int
}

const notifyDuration = 2 * time.Second

// HUD owns the overlay windows. Visible gates the whole thing; the
// settings panel has its own flag so F1 can open it with the stats
// hidden.
type HUD struct {
	ctx *ui2d.Context

	Visible      bool
	ShowSettings bool

	// Set when the settings panel's save button was clicked; the play
	// state consumes it and writes the config file.
	SaveRequested bool

	fps        float64
	fpsAccum   int
	fpsElapsed float64

	status    string
	statusFor time.Duration
}

// NewHUD creates the overlay over an initialized ui2d context.
func NewHUD(ctx *ui2d.Context, visible bool) *HUD {
	return &HUD{ctx: ctx, Visible: visible}
}

// FPS returns the smoothed frame rate.
func (h *HUD) FPS() float64 { return h.fps }

// Notify shows a transient status line above the hotkey hint.
func (h *HUD) Notify(msg string) {
	h.status = msg
	h.statusFor = notifyDuration
}

// Update advances the FPS average and the status timer.
func (h *HUD) Update(dt time.Duration) {
	h.fpsAccum++
	h.fpsElapsed += dt.Seconds()

	// Refresh the readout every half second
	if h.fpsElapsed >= 0.5 {
		h.fps = float64(h.fpsAccum) / h.fpsElapsed
		h.fpsAccum = 0
		h.fpsElapsed = 0
	}

	if h.statusFor > 0 {
		h.statusFor -= dt
		if h.statusFor < 0 {
			h.statusFor = 0
		}
	}
}

// Render draws the overlay inside an open ui2d frame and returns true
// when a widget changed the config.
func (h *HUD) Render(info Info, cfg *config.Config) bool {
	if !h.Visible && !h.ShowSettings {
		return false
	}

	before := *cfg

	if h.Visible {
		h.renderStats(info)
	}
	if h.ShowSettings {
		h.renderSettings(cfg)
	}
	if h.statusFor > 0 {
		h.renderStatus()
	}

	return *cfg != before
}

func (h *HUD) renderStats(info Info) {
	c := h.ctx
	if !c.BeginWindow("hud-stats", 12, 12, 272, 348, "glade") {
		return
	}
	defer c.EndWindow()

	c.Row(16)
	fpsColor := ui2d.ColorHighlight
	if h.fps < 30 {
		fpsColor = ui2d.ColorRed
	}
	c.LabelColored(fmt.Sprintf("%.0f fps", h.fps), fpsColor)
	c.SameLine()
	c.LabelColored(fmt.Sprintf(" %.1f ms", info.FrameMs), ui2d.ColorTextDim)

	c.Row(16)
	c.Label(fmt.Sprintf("pos %.1f %.1f %.1f", info.Pos.X, info.Pos.Y, info.Pos.Z))
	c.Row(16)
	c.Label("state " + info.State)

	c.Separator()
	c.Row(16)
	c.LabelColored("grass", ui2d.ColorTextDim)
	c.Row(16)
	c.Label(fmt.Sprintf("tiles %d  visible %d  culled %d", info.Grass.Tiles, info.Grass.Visible, info.Grass.Culled))
	c.Row(16)
	c.Label(fmt.Sprintf("blades %d  rebuilt %d", info.Grass.Instances, info.Grass.Rebuilt))

	c.Separator()
	c.Row(16)
	c.Label(fmt.Sprintf("%s  %02d:%02d", info.Phase, int(info.Hour), int(info.Hour*60)%60))
	c.Row(16)
	c.Label(fmt.Sprintf("rain %d  leaves %d", info.Rain, info.Leaves))

	c.Separator()
	c.Row(16)
	c.LabelColored("wasd move  shift run  ctrl crouch", ui2d.ColorTextDim)
	c.Row(16)
	c.LabelColored("space jump  rmb orbit  wheel zoom", ui2d.ColorTextDim)
	c.Row(16)
	c.LabelColored("f1 settings  h hud  o tiles  b box", ui2d.ColorTextDim)
	c.Row(16)
	c.LabelColored("f2 grass  f3 trees  g lod  f5 shadow", ui2d.ColorTextDim)
	c.Row(16)
	c.LabelColored("r rain  l leaves  p post  f12 shot", ui2d.ColorTextDim)
}

func (h *HUD) renderSettings(cfg *config.Config) {
	c := h.ctx
	screenW, _ := c.GetScreenSize()
	if !c.BeginWindow("hud-settings", screenW-344, 12, 332, 680, "settings") {
		return
	}
	defer c.EndWindow()

	const sw = 192 // Slider track width, leaves room for the value text

	c.Row(16)
	c.LabelColored("wind", ui2d.ColorTextDim)
	c.Row(18)
	cfg.Weather.WindDirection = c.Slider("wind-dir", sw, cfg.Weather.WindDirection, 0, 360, "dir")
	c.Row(18)
	cfg.Weather.WindStrength = c.Slider("wind-str", sw, cfg.Weather.WindStrength, 0, 1, "strength")

	c.Separator()
	c.Row(16)
	c.LabelColored("weather", ui2d.ColorTextDim)
	c.Row(18)
	cfg.Weather.Rain = c.Checkbox("rain", "rain", cfg.Weather.Rain)
	c.Row(18)
	cfg.Weather.RainIntensity = c.Slider("rain-int", sw, cfg.Weather.RainIntensity, 0, 1, "intensity")
	c.Row(18)
	cfg.Weather.Leaves = c.Checkbox("leaves", "falling leaves", cfg.Weather.Leaves)

	c.Separator()
	c.Row(16)
	c.LabelColored("sky", ui2d.ColorTextDim)
	c.Row(18)
	cfg.Sky.StartHour = c.Slider("sky-hour", sw, cfg.Sky.StartHour, 0, 24, "hour")
	c.Row(18)
	cfg.Sky.Paused = c.Checkbox("sky-pause", "pause cycle", cfg.Sky.Paused)

	c.Separator()
	c.Row(16)
	c.LabelColored("grass", ui2d.ColorTextDim)
	c.Row(18)
	cfg.Grass.NearDistance = c.Slider("grass-near", sw, cfg.Grass.NearDistance, 5, 120, "near")
	c.Row(18)
	cfg.Grass.FarDistance = c.Slider("grass-far", sw, cfg.Grass.FarDistance, 10, 200, "far")
	c.Row(18)
	cfg.Grass.HighDensity = c.SliderInt("grass-high", sw, cfg.Grass.HighDensity, 16, 512, "high")
	c.Row(18)
	cfg.Grass.LowDensity = c.SliderInt("grass-low", sw, cfg.Grass.LowDensity, 4, 128, "low")
	c.Row(18)
	cfg.Grass.UltraLowDensity = c.SliderInt("grass-ultra", sw, cfg.Grass.UltraLowDensity, 1, 48, "ultra")

	c.Separator()
	c.Row(16)
	c.LabelColored("character", ui2d.ColorTextDim)
	c.Row(18)
	cfg.Character.WalkSpeed = c.Slider("char-walk", sw, cfg.Character.WalkSpeed, 1, 8, "walk")
	c.Row(18)
	cfg.Character.RunSpeed = c.Slider("char-run", sw, cfg.Character.RunSpeed, 2, 14, "run")
	c.Row(18)
	cfg.Character.JumpImpulse = c.Slider("char-jump", sw, cfg.Character.JumpImpulse, 2, 10, "jump")
	c.Row(18)
	cfg.Character.Gravity = c.Slider("char-grav", sw, cfg.Character.Gravity, 5, 30, "gravity")

	c.Separator()
	c.Row(16)
	c.LabelColored("audio", ui2d.ColorTextDim)
	c.Row(18)
	cfg.Audio.MasterVolume = c.Slider("audio-master", sw, cfg.Audio.MasterVolume, 0, 1, "master")
	c.Row(18)
	cfg.Audio.WindVolume = c.Slider("audio-wind", sw, cfg.Audio.WindVolume, 0, 1, "wind")
	c.Row(18)
	cfg.Audio.Muted = c.Checkbox("audio-mute", "mute", cfg.Audio.Muted)

	c.Separator()
	c.Row(24)
	if c.Button("save", 150, "Save config") {
		h.SaveRequested = true
	}
	if c.Button("close", 150, "Close") {
		h.ShowSettings = false
	}
}

// renderStatus draws the transient message near the bottom center.
func (h *HUD) renderStatus() {
	c := h.ctx
	w, sh := c.GetScreenSize()
	if !c.BeginWindow("hud-status", w/2-160, sh-80, 320, 56, "") {
		return
	}
	defer c.EndWindow()

	c.Row(16)
	c.LabelCentered(h.status)
}

// RenderLoading draws the centered build progress window. Used by the
// loading state, which has no other UI.
func RenderLoading(c *ui2d.Context, fraction float32, label string) {
	w, sh := c.GetScreenSize()
	if !c.BeginWindow("loading", w/2-180, sh/2-48, 360, 96, "building glade") {
		return
	}
	defer c.EndWindow()

	c.Row(16)
	c.LabelCentered(label)
	c.Row(20)
	c.ProgressBar(fraction, 344, 18, fmt.Sprintf("%.0f%%", fraction*100))
}
