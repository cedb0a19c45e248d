package main

import (
	"fmt"

	"github.com/gogpu/life"
)

// runHeadless steps the automaton on the CPU device and saves the final
// surface.
func runHeadless(cfg config, opts []life.Option) error {
	dev := life.NewSoftwareDevice(cfg.width, cfg.height)
	o, err := life.New(dev, cfg.width, cfg.height, opts...)
	if err != nil {
		return err
	}
	defer o.Close()

	if err := loadInto(o, cfg.pattern); err != nil {
		return err
	}
	for i := 0; i < cfg.frames; i++ {
		if err := o.Frame(); err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}
	}

	w, h := dev.SurfaceSize()
	img := life.Snapshot(dev.Surface(), int(w), int(h))
	caption := fmt.Sprintf("generation %d", o.Generation())
	if err := life.SaveSnapshot(cfg.output, img, cfg.scale, caption); err != nil {
		return err
	}
	life.Logger().Info("snapshot written", "path", cfg.output, "generation", o.Generation())
	return nil
}
