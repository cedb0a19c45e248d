package main

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/life"
	"github.com/gogpu/life/gpu"
)

// runWindow opens a gogpu window and renders one generation per draw.
// Draws are event-driven: an animation token keeps them coming at VSync
// while running, and Space stops it, so a paused window only redraws when
// the host asks.
func runWindow(cfg config, opts []life.Option, logger *slog.Logger) error {
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("Game of Life").
		WithSize(int(cfg.width)*cfg.scale, int(cfg.height)*cfg.scale).
		WithContinuousRender(false))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		dev     *gpu.Device
		o       *life.Orchestrator
		anim    *gogpu.AnimationToken
		paused  atomic.Bool
		reload  atomic.Bool
		started bool
	)

	if cfg.watch && cfg.pattern != "" {
		go watchPattern(ctx, cfg.pattern, func() { reload.Store(true) }, logger)
	}

	app.OnDraw(func(dc *gogpu.Context) {
		if !started {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			var err error
			dev, err = gpu.FromProvider(provider)
			if err != nil {
				logger.Error("gpu device unavailable", "err", err)
				app.Quit()
				return
			}
			o, err = life.New(dev, cfg.width, cfg.height, opts...)
			if err != nil {
				logger.Error("orchestrator setup failed", "err", err)
				app.Quit()
				return
			}
			if err := loadInto(o, cfg.pattern); err != nil {
				logger.Warn("pattern not loaded", "path", cfg.pattern, "err", err)
			}
			logger.Info("window ready", "backend", dc.Backend(), "grid_width", cfg.width, "grid_height", cfg.height)
			anim = app.StartAnimation()
			started = true
		}

		if reload.Swap(false) {
			if err := loadInto(o, cfg.pattern); err != nil {
				logger.Warn("pattern reload failed", "path", cfg.pattern, "err", err)
			} else {
				logger.Info("pattern reloaded", "path", cfg.pattern)
			}
		}

		view, ok := any(dc.SurfaceView()).(hal.TextureView)
		if !ok || view == nil {
			return
		}
		sw, sh := dc.SurfaceSize()
		dev.SetSurface(view, uint32(sw), uint32(sh))

		var err error
		if paused.Load() {
			err = o.Redisplay()
		} else {
			err = o.Frame()
		}
		if err != nil {
			logger.Error("frame failed", "generation", o.Generation(), "err", err)
			app.Quit()
		}
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key != gpucontext.KeySpace {
			return
		}
		p := !paused.Load()
		paused.Store(p)
		if p && anim != nil {
			anim.Stop()
			anim = nil
		} else if !p && started {
			anim = app.StartAnimation()
		}
		logger.Info("pause toggled", "paused", p)
	})

	app.OnClose(func() {
		cancel()
		if anim != nil {
			anim.Stop()
		}
		if o != nil {
			o.Close()
		}
		if dev != nil {
			dev.Close()
		}
	})

	return app.Run()
}
