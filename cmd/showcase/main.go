package main

import (
	"PBRShowcase/internal/config"
	"PBRShowcase/internal/engine"
	"PBRShowcase/internal/logger"
	"PBRShowcase/internal/renderer"
	"PBRShowcase/internal/showcase"
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML scene file overlaid on the built-in scene")
	debug := flag.Bool("debug", false, "debug logging, wireframe scene and GL error checks")
	width := flag.Int("width", 0, "window width, overrides the scene file")
	height := flag.Int("height", 0, "window height, overrides the scene file")
	flag.Parse()

	logger.Init(*debug)
	defer logger.Sync()
	renderer.Debug = *debug

	if err := run(*configPath, *width, *height); err != nil {
		logger.Log.Error("Showcase stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(configPath string, width, height int) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if width > 0 {
		cfg.Window.Width = width
	}
	if height > 0 {
		cfg.Window.Height = height
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := engine.New(engine.Options{
		Title:  cfg.Window.Title,
		Width:  int32(cfg.Window.Width),
		Height: int32(cfg.Window.Height),
		VSync:  cfg.Window.VSync,
	})
	defer c.Dispose()

	s, err := showcase.Build(c, cfg)
	if err != nil {
		return err
	}
	s.LoadModel()
	return c.Run(ctx)
}
