//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/life"
	"github.com/gogpu/life/internal/shaders"
)

// image is a texture with one view used both for sampling and as a render
// attachment.
type image struct {
	dev           *Device
	label         string
	width, height uint16
	texture       hal.Texture
	view          hal.TextureView
}

func (i *image) Label() string                { return i.label }
func (i *image) Size() (width, height uint16) { return i.width, i.height }

// geometry is an immutable vertex buffer.
type geometry struct {
	dev    *Device
	buffer hal.Buffer
	count  uint32
}

func (g *geometry) VertexCount() uint32 { return g.count }

// program is the render pipeline of one pass.
type program struct {
	dev            *Device
	kind           life.PassKind
	shader         hal.ShaderModule
	bindLayout     hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout
	pipeline       hal.RenderPipeline

	// bindGroups caches one bind group per source image.
	bindGroups map[*image]hal.BindGroup
}

func (p *program) Kind() life.PassKind { return p.kind }

// CreateImage implements life.Device.
func (d *Device) CreateImage(label string, width, height uint16) (life.Image, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: image %q is %dx%d", life.ErrInvalidSize, label, width, height)
	}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        ImageFormat,
		Usage: gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        ImageFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view %q: %w", label, err)
	}
	slogger().Debug("gpu: image created", "label", label, "width", width, "height", height)
	return &image{dev: d, label: label, width: width, height: height, texture: tex, view: view}, nil
}

// WriteImage implements life.Device.
func (d *Device) WriteImage(img life.Image, pixels []float32) error {
	im, err := d.image(img)
	if err != nil {
		return err
	}
	w, h := uint32(im.width), uint32(im.height)
	if len(pixels) != int(w*h*4) {
		return fmt.Errorf("%w: %d floats for a %dx%d image", life.ErrInvalidSize, len(pixels), w, h)
	}
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  im.texture,
			MipLevel: 0,
		},
		texelBytes(pixels),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 16,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	return nil
}

// texelBytes packs float32 texels little-endian, the layout of ImageFormat.
func texelBytes(pixels []float32) []byte {
	buf := make([]byte, len(pixels)*4)
	for i, v := range pixels {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DestroyImage implements life.Device. Bind groups that sample img are
// destroyed before its view.
func (d *Device) DestroyImage(img life.Image) {
	im, ok := img.(*image)
	if !ok || im.dev != d {
		return
	}
	for p := range d.programs {
		if bg, ok := p.bindGroups[im]; ok {
			d.device.DestroyBindGroup(bg)
			delete(p.bindGroups, im)
		}
	}
	if im.view != nil {
		d.device.DestroyTextureView(im.view)
	}
	if im.texture != nil {
		d.device.DestroyTexture(im.texture)
	}
	im.dev, im.view, im.texture = nil, nil, nil
}

// CreateGeometry implements life.Device.
func (d *Device) CreateGeometry(label string, vertices []life.Vertex) (life.Geometry, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	data := life.VertexBytes(vertices)
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer %q: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	return &geometry{dev: d, buffer: buf, count: uint32(len(vertices))}, nil
}

// DestroyGeometry implements life.Device.
func (d *Device) DestroyGeometry(g life.Geometry) {
	geo, ok := g.(*geometry)
	if !ok || geo.dev != d {
		return
	}
	if geo.buffer != nil {
		d.device.DestroyBuffer(geo.buffer)
	}
	geo.dev, geo.buffer = nil, nil
}

// CreateProgram implements life.Device.
func (d *Device) CreateProgram(kind life.PassKind) (life.Program, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	src, err := d.shaderSource(kind)
	if err != nil {
		return nil, err
	}
	label := "life_" + kind.String()
	p := &program{dev: d, kind: kind, bindGroups: make(map[*image]hal.BindGroup)}
	if err := p.init(label, src); err != nil {
		d.DestroyProgram(p)
		return nil, fmt.Errorf("create %s program: %w", kind, err)
	}
	d.programs[p] = struct{}{}
	slogger().Debug("gpu: program created", "kind", kind, "spirv", d.spirv)
	return p, nil
}

func (d *Device) shaderSource(kind life.PassKind) (hal.ShaderSource, error) {
	return shaders.Source(kind, d.spirv)
}

func (p *program) init(label string, src hal.ShaderSource) error {
	dev := p.dev.device

	shader, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: src,
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	p.shader = shader

	// Binding 0: Locals (simulation only)
	// Binding 1: source texture
	// Binding 2: sampler
	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    shaders.BindingTexture,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    shaders.BindingSampler,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeNonFiltering},
		},
	}
	if p.kind == life.PassSimulation {
		entries = append([]gputypes.BindGroupLayoutEntry{{
			Binding:    shaders.BindingLocals,
			Visibility: gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		}}, entries...)
	}
	bindLayout, err := dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipelineLayout, err := dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipelineLayout = pipelineLayout

	format := ImageFormat
	if p.kind == life.PassDisplay {
		format = p.dev.cfg.SurfaceFormat
	}
	pipeline, err := dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: pipelineLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: shaders.VertexEntry,
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: shaders.FragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// quadVertexLayout describes life.Vertex: position at location 0, uv at
// location 1.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: life.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			},
		},
	}
}

// bindGroup returns the cached bind group for src, creating it on first use.
func (p *program) bindGroup(src *image) (hal.BindGroup, error) {
	if bg, ok := p.bindGroups[src]; ok {
		return bg, nil
	}
	d := p.dev
	entries := []gputypes.BindGroupEntry{
		{Binding: shaders.BindingTexture, Resource: gputypes.TextureViewBinding{TextureView: src.view.NativeHandle()}},
		{Binding: shaders.BindingSampler, Resource: gputypes.SamplerBinding{Sampler: d.sampler.NativeHandle()}},
	}
	if p.kind == life.PassSimulation {
		entries = append([]gputypes.BindGroupEntry{{
			Binding:  shaders.BindingLocals,
			Resource: gputypes.BufferBinding{Buffer: d.locals.NativeHandle(), Offset: 0, Size: life.LocalsSize},
		}}, entries...)
	}
	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   fmt.Sprintf("life_%s_%s_bind", p.kind, src.label),
		Layout:  p.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group for %q: %w", src.label, err)
	}
	p.bindGroups[src] = bg
	return bg, nil
}

// DestroyProgram implements life.Device.
func (d *Device) DestroyProgram(prog life.Program) {
	p, ok := prog.(*program)
	if !ok || p.dev != d {
		return
	}
	delete(d.programs, p)
	for src, bg := range p.bindGroups {
		d.device.DestroyBindGroup(bg)
		delete(p.bindGroups, src)
	}
	if p.pipeline != nil {
		d.device.DestroyRenderPipeline(p.pipeline)
	}
	if p.pipelineLayout != nil {
		d.device.DestroyPipelineLayout(p.pipelineLayout)
	}
	if p.bindLayout != nil {
		d.device.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.shader != nil {
		d.device.DestroyShaderModule(p.shader)
	}
	p.dev = nil
	p.pipeline, p.pipelineLayout, p.bindLayout, p.shader = nil, nil, nil, nil
}

func (d *Device) image(img life.Image) (*image, error) {
	im, ok := img.(*image)
	if !ok || im.dev != d {
		return nil, fmt.Errorf("%w: image %v", life.ErrForeignResource, img)
	}
	return im, nil
}
