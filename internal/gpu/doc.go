//go:build !nogpu

// Package gpu implements life.Device on a gogpu/wgpu hal device.
//
// This is an internal package; the public entry points live in
// github.com/gogpu/life/gpu.
//
// # Resources
//
//   - Image: RGBA32Float texture usable as a sampled texture, a render
//     attachment and a copy destination, plus one view
//   - Geometry: vertex buffer in life.VertexStride layout
//   - Program: shader module, bind group layout, pipeline layout and render
//     pipeline for one pass; bind groups are cached per source image
//
// One clamp-to-edge nearest sampler and one 16-byte uniform buffer are
// shared by every program.
//
// # Frames
//
// Begin waits for the previous frame's fence value, so at most one frame is
// in flight. Every clear+draw pair encodes one render pass with LoadOpClear;
// Submit signals the next fence value.
package gpu
