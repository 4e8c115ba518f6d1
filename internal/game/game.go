// Package game owns the playground loop: window and GL setup, input,
// audio, config watching and the state machine that runs on top.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/softmeadow/glade/internal/audio"
	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/engine/input"
	"github.com/softmeadow/glade/internal/engine/renderer"
	"github.com/softmeadow/glade/internal/engine/ui2d"
	"github.com/softmeadow/glade/internal/engine/window"
	"github.com/softmeadow/glade/internal/game/states"
	"github.com/softmeadow/glade/internal/logger"
)

// maxFrameDelta caps dt after a stall (debugger, window drag) so the
// simulation never takes one giant step.
const maxFrameDelta = 100 * time.Millisecond

// Game is the playground application.
type Game struct {
	cfg     *config.Config
	cfgPath string

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	uiCtx    *ui2d.Context
	audio    *audio.Manager
	watcher  *config.Watcher

	manager *states.Manager
	shared  *states.Shared

	running    bool
	fullscreen bool
	log        *zap.Logger
}

// New wires up every subsystem. The window comes first since it owns
// the GL context everything else initializes against.
func New(cfg *config.Config, cfgPath string) (*Game, error) {
	g := &Game{
		cfg:        cfg,
		cfgPath:    cfgPath,
		fullscreen: cfg.Graphics.Fullscreen,
		log:        logger.Named("game"),
	}

	var err error
	g.window, err = window.New(window.Config{
		Title:      "glade",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	// Scene rendering works in drawable pixels; UI layout works in
	// window points. The two differ on high-DPI displays.
	drawW, drawH := g.window.DrawableSize()
	winW, winH := g.window.GetSize()

	g.renderer, err = renderer.New(renderer.Config{
		Width:  drawW,
		Height: drawH,
		VSync:  cfg.Graphics.VSync,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	g.input = input.New()

	g.uiCtx, err = ui2d.NewContext(winW, winH)
	if err != nil {
		g.renderer.Close()
		g.window.Close()
		return nil, fmt.Errorf("creating UI context: %w", err)
	}

	// Sound is optional; a machine without an audio device still runs.
	g.audio = audio.New(cfg.Audio)
	if err := g.audio.Init(); err != nil {
		g.log.Warn("audio unavailable", zap.Error(err))
	}

	if cfgPath != "" {
		g.watcher, err = config.Watch(cfgPath)
		if err != nil {
			g.log.Warn("config watch unavailable", zap.Error(err))
			g.watcher = nil
		}
	}

	g.shared = &states.Shared{
		Cfg:       cfg,
		CfgPath:   cfgPath,
		UI:        g.uiCtx,
		Input:     g.input,
		Audio:     g.audio,
		DrawableW: int32(drawW),
		DrawableH: int32(drawH),
		WindowW:   winW,
		WindowH:   winH,
	}

	g.manager = states.NewManager()
	g.manager.Change(states.NewLoadingState(g.shared, g.manager))

	g.log.Info("game initialized",
		zap.Int("window_w", winW),
		zap.Int("window_h", winH),
		zap.Int("drawable_w", drawW),
		zap.Int("drawable_h", drawH),
	)
	return g, nil
}

// Run drives the main loop until quit.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting main loop")

	for g.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime)
		lastTime = frameStart
		if dt > maxFrameDelta {
			dt = maxFrameDelta
		}

		if g.input.Update() {
			g.running = false
			break
		}
		if err := g.processEvents(); err != nil {
			return fmt.Errorf("event error: %w", err)
		}
		g.pollConfigWatch()

		if err := g.manager.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		g.renderer.Begin()
		if err := g.manager.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("frame stats",
				zap.Int("fps", frameCount),
				zap.Duration("dt", dt),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		g.limitFrameRate(frameStart)
	}

	return nil
}

// processEvents feeds the UI input state, handles the few global keys
// and forwards everything else to the current state.
func (g *Game) processEvents() error {
	ui := g.uiCtx.Input()

	for _, ev := range g.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			g.handleResize(ev.Width, ev.Height)

		case input.EventKeyDown:
			switch ev.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
				continue
			case sdl.SCANCODE_F11:
				g.fullscreen = !g.fullscreen
				g.window.SetFullscreen(g.fullscreen)
				continue
			}

		case input.EventMouseMove:
			ui.MouseX = float32(ev.MouseX)
			ui.MouseY = float32(ev.MouseY)

		case input.EventMouseDown:
			switch ev.Button {
			case sdl.BUTTON_LEFT:
				ui.MouseLeftDown = true
				ui.MouseLeftClicked = true
			case sdl.BUTTON_RIGHT:
				ui.MouseRightDown = true
			case sdl.BUTTON_MIDDLE:
				ui.MouseMiddleDown = true
			}

		case input.EventMouseUp:
			switch ev.Button {
			case sdl.BUTTON_LEFT:
				ui.MouseLeftDown = false
			case sdl.BUTTON_RIGHT:
				ui.MouseRightDown = false
			case sdl.BUTTON_MIDDLE:
				ui.MouseMiddleDown = false
			}

		case input.EventMouseWheel:
			ui.ScrollX += ev.WheelX
			ui.ScrollY += ev.WheelY
		}

		if err := g.manager.HandleEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// handleResize refreshes every size-dependent surface. Width and
// height arrive in window points; the drawable size is queried fresh.
func (g *Game) handleResize(width, height int) {
	drawW, drawH := g.window.DrawableSize()

	g.renderer.Resize(drawW, drawH)
	g.uiCtx.Resize(width, height)

	g.shared.WindowW = width
	g.shared.WindowH = height
	g.shared.DrawableW = int32(drawW)
	g.shared.DrawableH = int32(drawH)
}

// pollConfigWatch applies a pending file change without blocking the
// frame. The new values land in the shared config; states pick up the
// diff on their next update.
func (g *Game) pollConfigWatch() {
	if g.watcher == nil {
		return
	}

	select {
	case <-g.watcher.Events:
		fresh, err := config.Reload(g.cfgPath)
		if err != nil {
			g.log.Warn("config reload failed", zap.Error(err))
			return
		}
		if fresh.Graphics.Width != g.cfg.Graphics.Width ||
			fresh.Graphics.Height != g.cfg.Graphics.Height ||
			fresh.Graphics.Fullscreen != g.cfg.Graphics.Fullscreen {
			g.log.Info("window settings apply at next start")
		}
		*g.cfg = *fresh
		g.log.Info("config reloaded", zap.String("path", g.cfgPath))

	case err := <-g.watcher.Errors:
		g.log.Warn("config watch error", zap.Error(err))

	default:
	}
}

// limitFrameRate sleeps off the remainder of the frame budget when a
// cap is configured and VSync is not already pacing the loop.
func (g *Game) limitFrameRate(frameStart time.Time) {
	limit := g.cfg.Graphics.FPSLimit
	if limit <= 0 || g.cfg.Graphics.VSync {
		return
	}

	budget := time.Second / time.Duration(limit)
	if spent := time.Since(frameStart); spent < budget {
		time.Sleep(budget - spent)
	}
}

// Close tears everything down in reverse init order. The current
// state exits first since its GL resources need the context alive.
func (g *Game) Close() {
	g.log.Info("shutting down")

	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if cur := g.manager.Current(); cur != nil {
		if err := cur.Exit(); err != nil {
			g.log.Warn("state exit failed", zap.Error(err))
		}
	}
	if g.audio != nil {
		g.audio.Close()
	}
	if g.uiCtx != nil {
		g.uiCtx.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
