// Package life runs Conway's Game of Life on a graphics device.
//
// # Overview
//
// The automaton state lives in an RGBA float image, one texel per cell. Each
// frame a simulation pass samples the previous generation and writes the
// next one into a second image, then a display pass copies the new
// generation to the output surface. The two images swap roles every frame
// (ping-pong buffering), so no draw ever reads the image it writes.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/life"
//		"github.com/gogpu/life/gpu"
//	)
//
//	dev, err := gpu.Open()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
//	o, err := life.New(dev, 256, 256)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer o.Close()
//
//	for {
//		if err := o.Frame(); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Devices
//
// A Device allocates images, geometry and programs and hands out one
// Recorder per frame. Two implementations exist:
//   - gpu: hal device (Vulkan, Metal, DX12, GLES) running WGSL shaders
//   - SoftwareDevice: CPU rasterizer with the same sampling and coverage
//     rules, used headless and in tests
//
// # Phases
//
// The first frame seeds the automaton from a pseudo-random hash of the
// texel coordinate. Every later frame applies the Game of Life rule with
// clamp-to-edge borders. Orchestrator.Load skips seeding and steps a
// host-provided Grid instead.
//
// # Coordinate System
//
//   - Cell (0,0) is the top-left texel
//   - X increases right
//   - Y increases down
package life

// Version is the current version of the module.
const Version = "0.1.0"
