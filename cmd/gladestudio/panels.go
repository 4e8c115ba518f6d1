package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/softmeadow/glade/internal/engine/debug"
	"github.com/softmeadow/glade/pkg/math"
)

// lastMousePos tracks the previous mouse position for viewport drag
// deltas.
var lastMousePos imgui.Vec2

// inspection is a picked ground point and the grass tile under it,
// nil when the point falls outside the tile grid.
type inspection struct {
	tile  *debug.TileInfo
	point math.Vec3
}

// sliderInt bridges cimgui's int32 sliders to the config's int fields.
func sliderInt(label string, v *int, min, max int32) bool {
	v32 := int32(*v)
	if imgui.SliderIntV(label, &v32, min, max, "%d", imgui.SliderFlagsNone) {
		*v = int(v32)
		return true
	}
	return false
}

func sliderFloat(label string, v *float32, min, max float32, format string) bool {
	return imgui.SliderFloatV(label, v, min, max, format, imgui.SliderFlagsNone)
}

// renderControlsPanel draws the left-hand parameter sections. Most
// widgets edit the shared config directly; the viewer diffs it every
// frame, so edits take effect immediately.
func (app *App) renderControlsPanel() {
	cfg := app.cfg

	if imgui.TreeNodeExStrV("World", imgui.TreeNodeFlagsDefaultOpen) {
		imgui.Text("Seed:")
		imgui.SameLine()
		imgui.SetNextItemWidth(110)
		imgui.InputTextWithHint("##seed", "integer", &app.seedText, 0, nil)
		imgui.SameLine()
		if imgui.Button("Random") {
			app.seedText = strconv.FormatInt(rand.Int63n(1_000_000), 10)
		}

		sliderFloat("Size", &cfg.World.Size, 40, 240, "%.0f m")
		sliderInt("Resolution", &cfg.World.Resolution, 16, 192)
		sliderFloat("Height scale", &cfg.World.HeightScale, 1, 15, "%.1f")
		sliderFloat("Noise scale", &cfg.World.NoiseScale, 0.005, 0.1, "%.3f")

		if imgui.ButtonV("Rebuild world", imgui.NewVec2(-1, 0)) {
			app.rebuildWorld()
		}
		imgui.TreePop()
	}

	imgui.Separator()

	if imgui.TreeNodeExStrV("Grass", imgui.TreeNodeFlagsDefaultOpen) {
		sliderFloat("Near", &cfg.Grass.NearDistance, 5, 120, "%.0f m")
		sliderFloat("Far", &cfg.Grass.FarDistance, 10, 200, "%.0f m")
		if cfg.Grass.FarDistance < cfg.Grass.NearDistance {
			cfg.Grass.FarDistance = cfg.Grass.NearDistance
		}
		sliderInt("High density", &cfg.Grass.HighDensity, 16, 512)
		sliderInt("Low density", &cfg.Grass.LowDensity, 4, 128)
		sliderInt("Ultra density", &cfg.Grass.UltraLowDensity, 1, 48)

		st := app.viewer.Stats()
		imgui.TextDisabled(fmt.Sprintf("tiles %d, visible %d, culled %d", st.Tiles, st.Visible, st.Culled))
		imgui.TextDisabled(fmt.Sprintf("blades %d, rebuilt %d", st.Instances, st.Rebuilt))
		imgui.TreePop()
	}

	imgui.Separator()

	if imgui.TreeNodeExStrV("Trees", imgui.TreeNodeFlagsNone) {
		imgui.Checkbox("Enabled", &cfg.Trees.Enabled)
		sliderInt("Count", &cfg.Trees.Count, 0, 400)
		sliderFloat("Spacing", &cfg.Trees.MinSpacing, 1, 10, "%.1f m")
		sliderFloat("Max slope", &cfg.Trees.MaxSlope, 0, 1, "%.2f")
		imgui.TreePop()
	}

	imgui.Separator()

	if imgui.TreeNodeExStrV("Weather", imgui.TreeNodeFlagsDefaultOpen) {
		sliderFloat("Wind dir", &cfg.Weather.WindDirection, 0, 360, "%.0f deg")
		sliderFloat("Wind", &cfg.Weather.WindStrength, 0, 1, "%.2f")
		imgui.Checkbox("Rain", &cfg.Weather.Rain)
		if cfg.Weather.Rain {
			sliderFloat("Intensity", &cfg.Weather.RainIntensity, 0, 1, "%.2f")
		}
		imgui.Checkbox("Falling leaves", &cfg.Weather.Leaves)
		if cfg.Weather.Leaves {
			sliderInt("Leaf count", &cfg.Weather.LeafCount, 0, 600)
		}
		imgui.TreePop()
	}

	imgui.Separator()

	if imgui.TreeNodeExStrV("Sky & light", imgui.TreeNodeFlagsDefaultOpen) {
		st := app.viewer.cycle.State()
		imgui.Text(fmt.Sprintf("%02d:%02d (%s)", int(st.Hour), int(st.Hour*60)%60, st.Phase))

		if sliderFloat("Hour", &app.hour, 0, 24, "%.1f") {
			cfg.Sky.StartHour = app.hour
		}
		if sliderFloat("Day length", &app.dayLengthSec, 30, 1800, "%.0f s") {
			cfg.Sky.DayLength = time.Duration(app.dayLengthSec) * time.Second
		}
		imgui.Checkbox("Pause cycle", &cfg.Sky.Paused)

		if imgui.Checkbox("Override sun", &app.viewer.SunOverride) {
			if app.viewer.SunOverride {
				app.viewer.SunAzimuth, app.viewer.SunElevation = app.viewer.SunAngles()
			}
		}
		if app.viewer.SunOverride {
			sliderFloat("Azimuth", &app.viewer.SunAzimuth, 0, 360, "%.0f deg")
			sliderFloat("Elevation", &app.viewer.SunElevation, -10, 90, "%.0f deg")
		}
		imgui.TreePop()
	}

	imgui.Separator()

	if imgui.TreeNodeExStrV("Character", imgui.TreeNodeFlagsNone) {
		sliderFloat("Walk speed", &cfg.Character.WalkSpeed, 1, 8, "%.1f")
		sliderFloat("Run speed", &cfg.Character.RunSpeed, 2, 14, "%.1f")
		sliderFloat("Crouch speed", &cfg.Character.CrouchSpeed, 0.5, 4, "%.1f")
		sliderFloat("Jump impulse", &cfg.Character.JumpImpulse, 2, 10, "%.1f")
		sliderFloat("Gravity", &cfg.Character.Gravity, 5, 30, "%.1f")
		sliderFloat("Capsule radius", &cfg.Character.CapsuleRadius, 0.2, 0.6, "%.2f")
		sliderFloat("Capsule height", &cfg.Character.CapsuleHeight, 1.2, 2.2, "%.2f")
		imgui.TextDisabled("movement applies in the game;")
		imgui.TextDisabled("capsule size needs a rebuild")
		imgui.TreePop()
	}

	imgui.Separator()

	if imgui.TreeNodeExStrV("Display", imgui.TreeNodeFlagsNone) {
		imgui.Checkbox("Post pass", &cfg.Graphics.PostFX)
		shadows := app.viewer.Shadows()
		if imgui.Checkbox("Shadows", &shadows) {
			app.viewer.SetShadows(shadows)
		}
		imgui.Checkbox("Tile grid", &app.viewer.ShowTiles)
		imgui.Checkbox("LOD overlay", &app.viewer.ShowLOD)
		imgui.Checkbox("Show character", &app.viewer.ShowCharacter)
		imgui.TreePop()
	}

	imgui.Separator()

	if imgui.ButtonV("Save config", imgui.NewVec2(-1, 0)) {
		app.saveConfig()
	}
}

// renderViewport draws the offscreen scene into the center panel and
// handles orbit, zoom and click-to-inspect on the image.
func (app *App) renderViewport() {
	app.viewer.Update()
	texID := app.viewer.Render()

	viewerW := float32(viewerWidth)
	viewerH := float32(viewerHeight)
	aspect := viewerW / viewerH

	// Fit the image into the panel, keeping aspect
	avail := imgui.ContentRegionAvail()
	displayW := avail.X
	displayH := displayW / aspect
	if displayH > avail.Y {
		displayH = avail.Y
		displayW = displayH * aspect
	}
	startX := imgui.CursorPosX()
	if displayW < avail.X {
		imgui.SetCursorPosX(startX + (avail.X-displayW)/2)
	}

	imagePos := imgui.CursorScreenPos()
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(texID))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(displayW, displayH),
		imgui.NewVec2(0, 1), // UV flipped; OpenGL's origin is bottom-left
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0.1, 0.1, 0.12, 1.0),
		imgui.NewVec4(1, 1, 1, 1),
	)

	if imgui.IsItemHovered() {
		mousePos := imgui.MousePos()
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			app.viewer.cam.HandleDrag(mousePos.X-lastMousePos.X, mousePos.Y-lastMousePos.Y)
		} else if imgui.IsMouseClickedBool(0) {
			relX := mousePos.X - imagePos.X
			relY := mousePos.Y - imagePos.Y
			if tile, point, ok := app.viewer.Pick(relX, relY, displayW, displayH); ok {
				app.inspect = &inspection{tile: tile, point: point}
			}
		}
		lastMousePos = mousePos

		wheel := imgui.CurrentIO().MouseWheel()
		if wheel != 0 {
			app.viewer.cam.HandleZoom(wheel)
		}
	}

	imgui.TextDisabled("drag to orbit, scroll to zoom, click to inspect, WASD to pan")
}

// renderInspector shows the last picked ground point and tile.
func (app *App) renderInspector() {
	ins := app.inspect
	h := app.viewer.world.Height

	imgui.Text(fmt.Sprintf("Ground: %.1f, %.1f, %.1f", ins.point.X, ins.point.Y, ins.point.Z))
	imgui.Text(fmt.Sprintf("Slope: %.2f", h.Slope(ins.point.X, ins.point.Z)))
	n := h.Normal(ins.point.X, ins.point.Z)
	imgui.Text(fmt.Sprintf("Normal: %.2f, %.2f, %.2f", n.X, n.Y, n.Z))

	imgui.Separator()

	if t := ins.tile; t != nil {
		imgui.Text(fmt.Sprintf("Tile %d, %d", t.GridX, t.GridZ))
		imgui.Text(fmt.Sprintf("Center: %.1f, %.1f", t.CenterX, t.CenterZ))
		imgui.Text(fmt.Sprintf("LOD: %s", t.LOD))
		imgui.Text(fmt.Sprintf("Distance: %.1f m", t.Distance))
		imgui.Text(fmt.Sprintf("Visible: %v", t.Visible))
		imgui.Text(fmt.Sprintf("Populated: %v", t.Populated))
		imgui.Text(fmt.Sprintf("Blades: %d", t.Density))
	} else {
		imgui.TextDisabled("Outside the grass grid")
	}

	imgui.Separator()

	if imgui.ButtonV("Focus Camera", imgui.NewVec2(-1, 0)) {
		app.viewer.Focus(ins.point)
	}
	if imgui.ButtonV("Close", imgui.NewVec2(-1, 0)) {
		app.inspect = nil
	}
}

func (app *App) renderStatusBar() {
	st := app.viewer.Stats()
	sky := app.viewer.cycle.State()
	imgui.Text(fmt.Sprintf(
		"seed %d | %.0fm world | %d trees | tiles %d/%d visible | %d blades | %02d:%02d %s | %.0f fps",
		app.cfg.World.Seed, app.cfg.World.Size, len(app.viewer.world.Trees),
		st.Visible, st.Tiles, st.Instances,
		int(sky.Hour), int(sky.Hour*60)%60, sky.Phase, app.fps,
	))
}
