// Package main runs the glade playground: a procedural meadow with
// instanced grass, weather, a day cycle and a controllable character.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/softmeadow/glade/internal/config"
	"github.com/softmeadow/glade/internal/game"
	"github.com/softmeadow/glade/internal/logger"
)

func init() {
	// SDL and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== glade ===",
		zap.Int64("seed", cfg.World.Seed),
		zap.String("config", cfgPath),
	)

	g, err := game.New(cfg, cfgPath)
	if err != nil {
		logger.Error("initialization failed", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("fatal error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("goodbye")
}
