// Command gladestudio is the tuning workbench for the meadow. It runs
// the playground offscreen inside an ImGui shell: an orbit-camera
// viewport, live panels for every tunable, a tile inspector and PNG
// export. Configs saved here are what the game loads.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/debug"
	"github.com/softmeadow/glade/internal/engine/ui"
	"github.com/softmeadow/glade/internal/logger"
)

const (
	controlsPanelWidth  = 340
	inspectorPanelWidth = 300
	statusBarHeight     = 30

	notifyDuration = 2 * time.Second
)

func main() {
	runtime.LockOSThread()

	config.ParseFlags()
	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := NewApp(cfg, cfgPath)
	if err != nil {
		logger.Error("studio startup failed", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
}

// App holds the studio's UI state around the offscreen viewer.
type App struct {
	backend *ui.Backend
	cfg     *config.Config
	cfgPath string
	viewer  *Viewer
	shots   *debug.ScreenshotCapture

	// Widget mirrors for config fields cimgui cannot edit in place.
	seedText     string
	hour         float32
	dayLengthSec float32

	inspect *inspection

	// Deferred work processed at the top of render. The file dialog
	// runs in a goroutine and only queues a path; the capture itself
	// must touch GL on the main thread.
	screenshotRequested bool
	pendingExportPath   string

	notification     string
	notificationTime time.Time

	fpsFrames int
	fpsMark   time.Time
	fps       float64

	log *zap.Logger
}

// NewApp creates the window, the GL context and the viewer.
func NewApp(cfg *config.Config, cfgPath string) (*App, error) {
	app := &App{
		cfg:          cfg,
		cfgPath:      cfgPath,
		shots:        debug.NewScreenshotCapture("screenshots", "studio"),
		seedText:     strconv.FormatInt(cfg.World.Seed, 10),
		hour:         cfg.Sky.StartHour,
		dayLengthSec: float32(cfg.Sky.DayLength / time.Second),
		fpsMark:      time.Now(),
		log:          logger.Named("studio"),
	}

	backend, err := ui.NewBackend("glade studio", 1440, 900)
	if err != nil {
		return nil, err
	}
	app.backend = backend

	viewer, err := NewViewer(cfg)
	if err != nil {
		return nil, err
	}
	app.viewer = viewer

	app.log.Info("studio ready",
		zap.Int64("seed", cfg.World.Seed),
		zap.String("config", cfgPath),
	)
	return app, nil
}

// Run starts the main loop; blocks until the window closes.
func (app *App) Run() {
	app.backend.Run(app.render)
}

func (app *App) Close() {
	if app.viewer != nil {
		app.viewer.Destroy()
		app.viewer = nil
	}
}

// render draws one studio frame.
func (app *App) render() {
	// Deferred capture first, so it reads the frame the user saw when
	// they pressed the key.
	if app.screenshotRequested {
		app.screenshotRequested = false
		app.quickScreenshot()
	}

	// Export path queued by the dialog goroutine; SDL and GL work must
	// happen on the main thread.
	if app.pendingExportPath != "" {
		path := app.pendingExportPath
		app.pendingExportPath = ""
		app.exportPNG(path)
	}

	app.handleKeyboard()
	app.countFrame()
	app.renderMenuBar()

	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	contentHeight := workSize.Y - statusBarHeight

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(controlsPanelWidth, contentHeight))
	if imgui.BeginV("Controls", nil, flags) {
		app.renderControlsPanel()
	}
	imgui.End()

	viewportWidth := workSize.X - controlsPanelWidth
	if app.inspect != nil {
		viewportWidth -= inspectorPanelWidth
	}

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+controlsPanelWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(viewportWidth, contentHeight))
	if imgui.BeginV("Viewport", nil, flags) {
		app.renderViewport()
	}
	imgui.End()

	if app.inspect != nil {
		imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+controlsPanelWidth+viewportWidth, workPos.Y))
		imgui.SetNextWindowSize(imgui.NewVec2(inspectorPanelWidth, contentHeight))
		if imgui.BeginV("Inspector", nil, flags) {
			app.renderInspector()
		}
		imgui.End()
	}

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, statusBarHeight))
	statusFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar
	if imgui.BeginV("##StatusBar", nil, statusFlags) {
		app.renderStatusBar()
	}
	imgui.End()

	app.renderNotification(workPos)
}

func (app *App) renderMenuBar() {
	if !imgui.BeginMainMenuBar() {
		return
	}
	if imgui.BeginMenu("File") {
		if imgui.MenuItemBoolV("Export PNG...", "Ctrl+E", false, true) {
			app.exportDialog()
		}
		if imgui.MenuItemBoolV("Save Config", "Ctrl+S", false, true) {
			app.saveConfig()
		}
		imgui.Separator()
		if imgui.MenuItemBool("Exit") {
			os.Exit(0)
		}
		imgui.EndMenu()
	}
	if imgui.BeginMenu("World") {
		if imgui.MenuItemBoolV("Rebuild", "Ctrl+R", false, true) {
			app.rebuildWorld()
		}
		imgui.EndMenu()
	}
	if imgui.BeginMenu("View") {
		if imgui.MenuItemBoolV("Tile grid", "", app.viewer.ShowTiles, true) {
			app.viewer.ShowTiles = !app.viewer.ShowTiles
		}
		if imgui.MenuItemBoolV("LOD overlay", "", app.viewer.ShowLOD, true) {
			app.viewer.ShowLOD = !app.viewer.ShowLOD
		}
		if imgui.MenuItemBoolV("Post pass", "", app.cfg.Graphics.PostFX, true) {
			app.cfg.Graphics.PostFX = !app.cfg.Graphics.PostFX
		}
		if imgui.MenuItemBoolV("Character", "", app.viewer.ShowCharacter, true) {
			app.viewer.ShowCharacter = !app.viewer.ShowCharacter
		}
		imgui.Separator()
		if imgui.MenuItemBoolV("Screenshot", "F12", false, true) {
			app.screenshotRequested = true
		}
		imgui.EndMenu()
	}
	imgui.EndMainMenuBar()
}

// renderNotification shows a short-lived overlay in the viewport
// corner after saves and exports.
func (app *App) renderNotification(workPos imgui.Vec2) {
	if app.notification == "" || time.Since(app.notificationTime) > notifyDuration {
		return
	}
	notifyFlags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoFocusOnAppearing
	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+controlsPanelWidth+10, workPos.Y+10))
	imgui.SetNextWindowBgAlpha(0.85)
	if imgui.BeginV("##Notify", nil, notifyFlags) {
		imgui.Text(app.notification)
	}
	imgui.End()
}

func (app *App) notify(msg string) {
	app.notification = msg
	app.notificationTime = time.Now()
}

func (app *App) handleKeyboard() {
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF12)) {
		app.screenshotRequested = true
	}

	ctrlE := imgui.KeyChord(imgui.ModCtrl) | imgui.KeyChord(imgui.KeyE)
	if imgui.IsKeyChordPressed(ctrlE) {
		app.exportDialog()
	}
	ctrlS := imgui.KeyChord(imgui.ModCtrl) | imgui.KeyChord(imgui.KeyS)
	if imgui.IsKeyChordPressed(ctrlS) {
		app.saveConfig()
	}
	ctrlR := imgui.KeyChord(imgui.ModCtrl) | imgui.KeyChord(imgui.KeyR)
	if imgui.IsKeyChordPressed(ctrlR) {
		app.rebuildWorld()
	}

	// WASD pans the orbit camera, unless a widget has the keyboard.
	if imgui.IsAnyItemActive() {
		return
	}
	var forward, right float32
	if ui.IsKeyDown(imgui.KeyW) {
		forward++
	}
	if ui.IsKeyDown(imgui.KeyS) {
		forward--
	}
	if ui.IsKeyDown(imgui.KeyD) {
		right++
	}
	if ui.IsKeyDown(imgui.KeyA) {
		right--
	}
	if forward != 0 || right != 0 {
		app.viewer.cam.HandleMovement(forward, right, 0)
	}
}

func (app *App) countFrame() {
	app.fpsFrames++
	if elapsed := time.Since(app.fpsMark); elapsed >= 500*time.Millisecond {
		app.fps = float64(app.fpsFrames) / elapsed.Seconds()
		app.fpsFrames = 0
		app.fpsMark = time.Now()
	}
}

// rebuildWorld parses the seed box and regenerates everything.
func (app *App) rebuildWorld() {
	seed, err := strconv.ParseInt(app.seedText, 10, 64)
	if err != nil {
		app.notify("seed must be an integer")
		return
	}
	app.cfg.World.Seed = seed
	app.inspect = nil

	if err := app.viewer.Rebuild(); err != nil {
		app.log.Error("world rebuild failed", zap.Error(err))
		app.notify("rebuild failed")
		return
	}
	app.notify(fmt.Sprintf("world rebuilt, seed %d", seed))
}

// quickScreenshot saves the current viewport into ./screenshots
// without a dialog.
func (app *App) quickScreenshot() {
	pixels, w, h := app.viewer.Capture()
	path, err := app.shots.CapturePixels(pixels, w, h)
	if err != nil {
		app.log.Warn("screenshot failed", zap.Error(err))
		app.notify("screenshot failed")
		return
	}
	app.log.Info("screenshot saved", zap.String("path", path))
	app.notify("saved " + path)
}

// exportDialog asks for a destination and queues the export.
// NOTE: SDL/Cocoa window operations must happen on main thread,
// so we just set pendingExportPath here and process it in render().
func (app *App) exportDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("PNG image", "png").
			Title("Export viewport").
			Save()
		if err != nil {
			if err != dialog.ErrCancelled {
				app.log.Warn("export dialog failed", zap.Error(err))
			}
			return
		}
		app.pendingExportPath = filename
	}()
}

func (app *App) exportPNG(path string) {
	if filepath.Ext(path) == "" {
		path += ".png"
	}
	pixels, w, h := app.viewer.Capture()
	img, err := debug.WrapPixels(pixels, w, h)
	if err == nil {
		err = debug.SavePNG(path, img)
	}
	if err != nil {
		app.log.Warn("export failed", zap.String("path", path), zap.Error(err))
		app.notify("export failed")
		return
	}
	app.log.Info("viewport exported", zap.String("path", path))
	app.notify("exported " + path)
}

func (app *App) saveConfig() {
	// No file was loaded: fall back to the user config directory.
	var err error
	if app.cfgPath != "" {
		err = app.cfg.SaveTo(app.cfgPath)
	} else {
		err = app.cfg.Save()
	}
	if err != nil {
		app.log.Warn("config save failed", zap.Error(err))
		app.notify("config save failed")
		return
	}
	app.notify("config saved")
}
