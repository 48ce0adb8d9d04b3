package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"

	"DoorScene/internal/config"
	"DoorScene/internal/engine"
	"DoorScene/internal/logger"
	"DoorScene/internal/renderer"
	"DoorScene/internal/scene"

	"fyne.io/fyne/v2/data/binding"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Door size change per arrow key press.
const step = 0.25

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "doorscene.yaml", "path to the YAML config file")
	debug := flag.Bool("debug", false, "draw wireframes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init()
		logger.Log.Fatal("Invalid configuration", zap.String("path", *configPath), zap.Error(err))
	}
	if err := logger.InitLevel(cfg.LogLevel); err != nil {
		logger.Init()
		logger.Log.Warn("Unknown log level, using info", zap.String("level", cfg.LogLevel))
	}
	defer logger.Log.Sync()
	renderer.Debug = *debug

	logger.Log.Info("DoorScene starting",
		zap.String("mode", cfg.Mode),
		zap.String("assets", cfg.AssetBase()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Log.Error("DoorScene exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	background := renderer.NewScene().Background

	win := engine.NewWindow(cfg.Window)
	if err := win.Open(background); err != nil {
		return err
	}
	defer win.Close()

	gl := renderer.NewOpenGLRenderer()
	fbWidth, fbHeight := win.Size()
	if err := gl.Init(int32(fbWidth), int32(fbHeight)); err != nil {
		return err
	}

	base := cfg.AssetBase()
	cache := renderer.NewTextureCache(renderer.BaseResolver(base), renderer.FetcherFor(base))

	width, height := binding.NewFloat(), binding.NewFloat()
	_ = width.Set(float64(cfg.Door.Width))
	_ = height.Set(float64(cfg.Door.Height))
	win.OnKey(doorKeys(width, height))

	manager := scene.New(scene.Options{
		Config:    cfg,
		Target:    gl,
		Viewport:  win,
		Scheduler: win,
		Cache:     cache,
	})

	unmount, err := scene.Mount(ctx, scene.MountOptions{
		Manager: manager,
		Resize:  win,
		Width:   width,
		Height:  height,
	})
	if err != nil {
		// The window stays open on a blank viewport until the user closes it.
		logger.Log.Error("Scene failed to mount", zap.Error(err))
		win.OnIdle(func() { gl.Clear(background) })
		win.Run(ctx)
		return nil
	}
	win.AttachControls(manager.Objects().Controls)

	win.Run(ctx)

	win.AttachControls(nil)
	return unmount()
}

// doorKeys maps the arrow keys onto the door size bindings, clamped to the
// ranges the scene accepts.
func doorKeys(width, height binding.Float) engine.KeyHandler {
	nudge := func(b binding.Float, delta float64, clamp func(float64) float64) {
		v, err := b.Get()
		if err != nil {
			return
		}
		if err := b.Set(clamp(v + delta)); err != nil {
			logger.Log.Warn("Door parameter not set", zap.Error(err))
		}
	}
	return func(key glfw.Key, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		switch key {
		case glfw.KeyRight:
			nudge(width, step, scene.ClampWidth)
		case glfw.KeyLeft:
			nudge(width, -step, scene.ClampWidth)
		case glfw.KeyUp:
			nudge(height, step, scene.ClampHeight)
		case glfw.KeyDown:
			nudge(height, -step, scene.ClampHeight)
		}
	}
}
