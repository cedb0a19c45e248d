//go:build !nogpu

// Package gpu creates hardware life.Device implementations.
//
// Use Open for a standalone device (headless or with your own surface), or
// FromProvider to share the device of a host window such as gogpu:
//
//	app := gogpu.NewApp(gogpu.DefaultConfig())
//	dev, err := gpu.FromProvider(app.GPUContextProvider())
//	...
//	app.OnDraw(func(dc *gogpu.Context) {
//		sv, _ := any(dc.SurfaceView()).(hal.TextureView)
//		w, h := dc.SurfaceSize()
//		dev.SetSurface(sv, uint32(w), uint32(h))
//		_ = o.Frame()
//	})
package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	gpuimpl "github.com/gogpu/life/internal/gpu"
)

// Device is a hal-backed life.Device.
type Device = gpuimpl.Device

// Option configures a Device.
type Option = gpuimpl.Option

// Option constructors.
var (
	WithSurfaceFormat = gpuimpl.WithSurfaceFormat
	WithBackend       = gpuimpl.WithBackend
	WithFrameTimeout  = gpuimpl.WithFrameTimeout
)

// Errors returned by device construction and frames.
var (
	ErrBackendUnavailable = gpuimpl.ErrBackendUnavailable
	ErrNoAdapter          = gpuimpl.ErrNoAdapter
	ErrNoSurface          = gpuimpl.ErrNoSurface
	ErrFrameTimeout       = gpuimpl.ErrFrameTimeout
	ErrNoHalDevice        = gpuimpl.ErrNoHalDevice
	ErrDeviceClosed       = gpuimpl.ErrDeviceClosed
)

// Open creates a device that owns its hal instance and device.
func Open(opts ...Option) (*Device, error) {
	return gpuimpl.Open(opts...)
}

// FromProvider creates a device on a host's shared hal device.
func FromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	return gpuimpl.FromProvider(provider, opts...)
}

// New creates a device on an existing hal device and queue.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	return gpuimpl.New(device, queue, opts...)
}
