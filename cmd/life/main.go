// Command life runs Conway's Game of Life on the GPU.
//
// Usage:
//
//	life [flags]
//
// With -headless the simulation runs on the CPU device for -frames frames
// and the final surface is written to -output. Otherwise a window opens and
// steps one generation per frame; Space pauses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/gogpu/life"
	"github.com/gogpu/life/internal/metrics"
	"github.com/gogpu/life/internal/watch"
)

// config is the parsed command line.
type config struct {
	width, height uint16
	headless      bool
	frames        int
	output        string
	scale         int
	pattern       string
	watch         bool
	pace          time.Duration
	metricsAddr   string
}

func main() {
	var (
		width       = flag.Int("width", 256, "grid width in cells")
		height      = flag.Int("height", 256, "grid height in cells")
		headless    = flag.Bool("headless", false, "run on the CPU device without a window")
		frames      = flag.Int("frames", 100, "frames to run in headless mode")
		output      = flag.String("output", "life.png", "snapshot written after a headless run (.png, .jpg, .bmp, .tif, .pgm)")
		scale       = flag.Int("scale", 3, "window and snapshot pixels per cell")
		pattern     = flag.String("pattern", "", "pattern file (.cells, .txt or an image); random seed when empty")
		watch       = flag.Bool("watch", false, "reload -pattern when the file changes")
		pace        = flag.Duration("pace", life.DefaultFramePace, "sleep after each frame; 0 disables")
		metricsAddr = flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :9090")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	life.SetLogger(logger)

	cfg, err := newConfig(*width, *height, *frames, *scale)
	if err != nil {
		log.Fatalf("life: %v", err)
	}
	cfg.headless = *headless
	cfg.output = *output
	cfg.pattern = *pattern
	cfg.watch = *watch
	cfg.pace = *pace
	cfg.metricsAddr = *metricsAddr
	if err := cfg.validate(); err != nil {
		log.Fatalf("life: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		log.Fatalf("life: %v", err)
	}
}

func newConfig(width, height, frames, scale int) (config, error) {
	if width <= 0 || width > math.MaxUint16 || height <= 0 || height > math.MaxUint16 {
		return config{}, fmt.Errorf("grid size %dx%d out of range", width, height)
	}
	if frames < 0 {
		return config{}, fmt.Errorf("negative frame count %d", frames)
	}
	if scale < 1 {
		scale = 1
	}
	return config{
		width:  uint16(width),
		height: uint16(height),
		frames: frames,
		scale:  scale,
	}, nil
}

// validate rejects flag combinations that newConfig cannot see.
func (c config) validate() error {
	if c.watch && c.headless {
		return errors.New("-watch needs a window; it has no effect with -headless")
	}
	if c.watch && c.pattern == "" {
		return errors.New("-watch needs -pattern")
	}
	return nil
}

func run(cfg config, logger *slog.Logger) error {
	opts := []life.Option{life.WithFramePace(cfg.pace)}
	if cfg.metricsAddr != "" {
		frames := metrics.New()
		opts = append(opts, life.WithObserver(frames))
		go serveMetrics(cfg.metricsAddr, frames.Handler(), logger)
	}
	if cfg.headless {
		return runHeadless(cfg, opts)
	}
	return runWindow(cfg, opts, logger)
}

func serveMetrics(addr string, h http.Handler, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("metrics server exited", "err", err)
	}
}

// loadGrid reads a pattern file and centers it on a grid of the viewport
// size.
func loadGrid(path string, width, height uint16) (*life.Grid, error) {
	p, err := life.LoadPattern(path)
	if err != nil {
		return nil, err
	}
	return p.Centered(int(width), int(height)), nil
}

// loadInto loads path into o when path is set.
func loadInto(o *life.Orchestrator, path string) error {
	if path == "" {
		return nil
	}
	w, h := o.Size()
	g, err := loadGrid(path, w, h)
	if err != nil {
		return err
	}
	return o.Load(g)
}

// watchPattern calls reload on every change of path until ctx is done.
func watchPattern(ctx context.Context, path string, reload func(), logger *slog.Logger) {
	if err := watch.File(ctx, path, func(string) { reload() }); err != nil {
		logger.Warn("pattern watch stopped", "path", path, "err", err)
	}
}
