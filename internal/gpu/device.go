//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/life"
)

// ImageFormat is the texel format of every automaton image: four 32-bit
// float channels, sampled without filtering.
const ImageFormat = gputypes.TextureFormatRGBA32Float

// DefaultFrameTimeout bounds the wait for the previous frame in Begin.
const DefaultFrameTimeout = 5 * time.Second

// Device errors.
var (
	// ErrBackendUnavailable is returned when the requested hal backend is
	// not compiled in.
	ErrBackendUnavailable = errors.New("gpu: backend not available")

	// ErrNoAdapter is returned when the backend reports no adapters.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrNoSurface is returned when a display draw runs before SetSurface.
	ErrNoSurface = errors.New("gpu: no surface view set")

	// ErrFrameTimeout is returned when the previous frame did not finish.
	ErrFrameTimeout = errors.New("gpu: timed out waiting for previous frame")

	// ErrNoHalDevice is returned when a provider does not expose hal types.
	ErrNoHalDevice = errors.New("gpu: provider does not expose a hal device")

	// ErrDeviceClosed is returned when a closed device is used.
	ErrDeviceClosed = errors.New("gpu: device is closed")
)

// Config holds device configuration.
type Config struct {
	// SurfaceFormat is the color format of the output surface the display
	// pass renders to.
	SurfaceFormat gputypes.TextureFormat

	// Backend selects the hal backend Open creates an instance on.
	Backend gputypes.Backend

	// FrameTimeout bounds the wait for the previous frame.
	FrameTimeout time.Duration

	// backendSet records an explicit WithBackend.
	backendSet bool
}

// DefaultConfig returns the default device configuration.
func DefaultConfig() Config {
	return Config{
		SurfaceFormat: gputypes.TextureFormatBGRA8Unorm,
		Backend:       gputypes.BackendVulkan,
		FrameTimeout:  DefaultFrameTimeout,
	}
}

// Option configures a Device.
type Option func(*Config)

// WithSurfaceFormat sets the output surface format.
func WithSurfaceFormat(f gputypes.TextureFormat) Option {
	return func(c *Config) {
		if f != gputypes.TextureFormatUndefined {
			c.SurfaceFormat = f
		}
	}
}

// WithBackend sets the hal backend Open uses. An explicit Vulkan backend
// on Open also switches shaders to naga-compiled SPIR-V; every other device
// hands WGSL to the hal, which compiles it for its own backend.
func WithBackend(b gputypes.Backend) Option {
	return func(c *Config) {
		c.Backend = b
		c.backendSet = true
	}
}

// WithFrameTimeout sets the previous-frame wait bound. Non-positive values
// keep the default.
func WithFrameTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.FrameTimeout = d
		}
	}
}

// Device implements life.Device on a hal device and queue.
//
// Begin waits for the previous frame's fence before recording the next one,
// capping the device at one frame in flight. The shared uniform buffer and
// the two images are rewritten every frame, so this cap is what keeps them
// out of reach of a frame still executing.
//
// Device is not safe for concurrent use.
type Device struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // set when Open created the device
	cfg      Config
	spirv    bool // shaders as SPIR-V instead of WGSL

	programs map[*program]struct{}

	sampler hal.Sampler
	locals  hal.Buffer

	fence      hal.Fence
	fenceValue uint64
	inflight   hal.CommandBuffer

	surface                     hal.TextureView
	surfaceWidth, surfaceHeight uint32

	closed bool
}

var _ life.Device = (*Device)(nil)

// New creates a Device on an existing hal device and queue. The caller keeps
// ownership of both.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	d := &Device{device: device, queue: queue, cfg: cfg, programs: make(map[*program]struct{})}
	if err := d.init(); err != nil {
		d.release()
		return nil, err
	}
	slogger().Debug("gpu: device ready", "surface_format", cfg.SurfaceFormat)
	return d, nil
}

func (d *Device) init() error {
	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "life_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	d.sampler = sampler

	locals, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "life_locals",
		Size:  life.LocalsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create locals buffer: %w", err)
	}
	d.locals = locals

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	d.fence = fence
	return nil
}

// Open creates an instance on the configured backend, opens the first
// discrete or integrated adapter (or the first adapter) and returns a
// Device that owns them.
func Open(opts ...Option) (*Device, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	backend, ok := hal.GetBackend(cfg.Backend)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, cfg.Backend)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	d, err := New(openDev.Device, openDev.Queue, opts...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.spirv = cfg.backendSet && cfg.Backend == gputypes.BackendVulkan
	slogger().Info("gpu: device opened", "adapter", selected.Info.Name, "spirv", d.spirv)
	return d, nil
}

// FromProvider creates a Device on the hal device shared by a host such as
// a gogpu window. The provider must implement HalDevice() any and
// HalQueue() any. Its surface format is used unless an option overrides it.
func FromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHalDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHalDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHalDevice)
	}
	opts = append([]Option{WithSurfaceFormat(provider.SurfaceFormat())}, opts...)
	return New(device, queue, opts...)
}

// Config returns the device configuration.
func (d *Device) Config() Config { return d.cfg }

// SetLogger sets the logger for the gpu package. life.New calls it.
func (d *Device) SetLogger(l *slog.Logger) { setLogger(l) }

// SetSurface sets the view the display pass renders to. Hosts call it
// every frame with the acquired surface texture view.
func (d *Device) SetSurface(view hal.TextureView, width, height uint32) {
	d.surface = view
	d.surfaceWidth, d.surfaceHeight = width, height
}

// SurfaceSize returns the size passed to SetSurface.
func (d *Device) SurfaceSize() (width, height uint32) {
	return d.surfaceWidth, d.surfaceHeight
}

// Wait blocks until the last submitted frame has finished.
func (d *Device) Wait() error {
	if d.fenceValue == 0 || d.fence == nil {
		return nil
	}
	ok, err := d.device.Wait(d.fence, d.fenceValue, d.cfg.FrameTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: fence value %d", ErrFrameTimeout, d.fenceValue)
	}
	if d.inflight != nil {
		d.device.FreeCommandBuffer(d.inflight)
		d.inflight = nil
	}
	return nil
}

// Close waits for the GPU and releases the shared resources. A device
// created by Open also destroys its hal device and instance.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true
	if err := d.Wait(); err != nil {
		slogger().Warn("gpu: close without idle GPU", "err", err)
	}
	d.release()
	if d.instance != nil {
		d.device.Destroy()
		d.instance.Destroy()
		d.instance = nil
	}
}

func (d *Device) release() {
	if d.fence != nil {
		d.device.DestroyFence(d.fence)
		d.fence = nil
	}
	if d.locals != nil {
		d.device.DestroyBuffer(d.locals)
		d.locals = nil
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
}
