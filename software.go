package life

import (
	"fmt"
	"log/slog"
)

// SoftwareDevice is a CPU Device. It rasterizes the quad with the same
// pixel-center and clamp/nearest sampling rules a GPU applies, so the
// headless driver and the tests see what the GPU would draw.
type SoftwareDevice struct {
	width, height uint16
	surface       []float32

	locals Locals
	frame  []DrawStats
	log    *slog.Logger
}

// DrawStats records one executed draw.
type DrawStats struct {
	// Kind is the pass the draw ran.
	Kind PassKind

	// Target is the label of the render target; "surface" for the output.
	Target string

	// Width and Height are the target dimensions.
	Width, Height int

	// Invocations counts fragment invocations per target pixel, row-major.
	Invocations []uint32
}

// Covered reports whether every pixel of the target ran exactly once.
func (s DrawStats) Covered() bool {
	for _, n := range s.Invocations {
		if n != 1 {
			return false
		}
	}
	return len(s.Invocations) == s.Width*s.Height
}

type softImage struct {
	dev           *SoftwareDevice
	label         string
	width, height uint16
	pix           []float32
}

func (i *softImage) Label() string                { return i.label }
func (i *softImage) Size() (width, height uint16) { return i.width, i.height }

type softGeometry struct {
	dev      *SoftwareDevice
	vertices []Vertex
}

func (g *softGeometry) VertexCount() uint32 { return uint32(len(g.vertices)) }

type softProgram struct {
	dev  *SoftwareDevice
	kind PassKind
}

func (p *softProgram) Kind() PassKind { return p.kind }

// NewSoftwareDevice creates a device whose output surface is
// width x height texels, cleared to transparent black.
func NewSoftwareDevice(width, height uint16) *SoftwareDevice {
	return &SoftwareDevice{
		width:   width,
		height:  height,
		surface: make([]float32, int(width)*int(height)*4),
	}
}

// SetLogger sets the device logger. New calls it with the package logger.
func (d *SoftwareDevice) SetLogger(l *slog.Logger) {
	d.log = l
}

func (d *SoftwareDevice) logger() *slog.Logger {
	if d.log != nil {
		return d.log
	}
	return Logger()
}

// CreateImage implements Device.
func (d *SoftwareDevice) CreateImage(label string, width, height uint16) (Image, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: image %q is %dx%d", ErrInvalidSize, label, width, height)
	}
	d.logger().Debug("software: image created", "label", label, "width", width, "height", height)
	return &softImage{
		dev:    d,
		label:  label,
		width:  width,
		height: height,
		pix:    make([]float32, int(width)*int(height)*4),
	}, nil
}

// CreateGeometry implements Device.
func (d *SoftwareDevice) CreateGeometry(label string, vertices []Vertex) (Geometry, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("life: geometry %q: %d vertices is not a triangle list", label, len(vertices))
	}
	d.logger().Debug("software: geometry created", "label", label, "vertices", len(vertices))
	return &softGeometry{dev: d, vertices: append([]Vertex(nil), vertices...)}, nil
}

// CreateProgram implements Device.
func (d *SoftwareDevice) CreateProgram(kind PassKind) (Program, error) {
	if kind != PassSimulation && kind != PassDisplay {
		return nil, fmt.Errorf("life: unknown pass %s", kind)
	}
	return &softProgram{dev: d, kind: kind}, nil
}

// WriteImage implements Device.
func (d *SoftwareDevice) WriteImage(img Image, pixels []float32) error {
	si, err := d.image(img)
	if err != nil {
		return err
	}
	if len(pixels) != len(si.pix) {
		return fmt.Errorf("%w: %d floats for a %dx%d image", ErrInvalidSize, len(pixels), si.width, si.height)
	}
	copy(si.pix, pixels)
	return nil
}

// ReadImage returns a copy of img's texels.
func (d *SoftwareDevice) ReadImage(img Image) ([]float32, error) {
	si, err := d.image(img)
	if err != nil {
		return nil, err
	}
	return append([]float32(nil), si.pix...), nil
}

// Surface returns a copy of the output surface texels.
func (d *SoftwareDevice) Surface() []float32 {
	return append([]float32(nil), d.surface...)
}

// SurfaceSize returns the output surface dimensions.
func (d *SoftwareDevice) SurfaceSize() (width, height uint16) {
	return d.width, d.height
}

// LastFrame returns the draws executed by the most recent Submit.
func (d *SoftwareDevice) LastFrame() []DrawStats {
	return d.frame
}

// DestroyImage implements Device.
func (d *SoftwareDevice) DestroyImage(img Image) {
	if si, ok := img.(*softImage); ok && si.dev == d {
		si.dev = nil
		si.pix = nil
	}
}

// DestroyGeometry implements Device.
func (d *SoftwareDevice) DestroyGeometry(g Geometry) {
	if sg, ok := g.(*softGeometry); ok && sg.dev == d {
		sg.dev = nil
		sg.vertices = nil
	}
}

// DestroyProgram implements Device.
func (d *SoftwareDevice) DestroyProgram(p Program) {
	if sp, ok := p.(*softProgram); ok && sp.dev == d {
		sp.dev = nil
	}
}

// Begin implements Device.
func (d *SoftwareDevice) Begin() (Recorder, error) {
	return &softRecorder{dev: d}, nil
}

func (d *SoftwareDevice) image(img Image) (*softImage, error) {
	si, ok := img.(*softImage)
	if !ok || si.dev != d {
		return nil, fmt.Errorf("%w: image %v", ErrForeignResource, img)
	}
	return si, nil
}

// target resolves a render target; nil is the surface.
func (d *SoftwareDevice) target(img Image) (pix []float32, width, height int, label string, err error) {
	if img == nil {
		return d.surface, int(d.width), int(d.height), "surface", nil
	}
	si, err := d.image(img)
	if err != nil {
		return nil, 0, 0, "", err
	}
	return si.pix, int(si.width), int(si.height), si.label, nil
}

// softRecorder queues commands and runs them in order on Submit.
type softRecorder struct {
	dev  *SoftwareDevice
	cmds []func(d *SoftwareDevice) error
	done bool
}

func (r *softRecorder) Clear(target Image, c Color) {
	r.cmds = append(r.cmds, func(d *SoftwareDevice) error {
		pix, _, _, _, err := d.target(target)
		if err != nil {
			return err
		}
		for i := 0; i < len(pix); i += 4 {
			pix[i+0], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
		}
		return nil
	})
}

func (r *softRecorder) UpdateLocals(l Locals) {
	r.cmds = append(r.cmds, func(d *SoftwareDevice) error {
		d.locals = l
		return nil
	})
}

func (r *softRecorder) Draw(p *Pipeline) error {
	if r.done {
		return ErrRecorderDone
	}
	if err := p.Validate(); err != nil {
		return err
	}
	prog, ok := p.Program.(*softProgram)
	if !ok || prog.dev != r.dev {
		return fmt.Errorf("%w: program", ErrForeignResource)
	}
	geom, ok := p.Geometry.(*softGeometry)
	if !ok || geom.dev != r.dev {
		return fmt.Errorf("%w: geometry", ErrForeignResource)
	}
	src, err := r.dev.image(p.Source)
	if err != nil {
		return err
	}
	if _, _, _, _, err := r.dev.target(p.Target); err != nil {
		return err
	}

	// Bindings are captured now; pixel data is read when the command runs.
	target := p.Target
	r.cmds = append(r.cmds, func(d *SoftwareDevice) error {
		pix, w, h, label, err := d.target(target)
		if err != nil {
			return err
		}
		frag := fragmentFor(prog.kind, src, d.locals)
		stats := DrawStats{
			Kind:        prog.kind,
			Target:      label,
			Width:       w,
			Height:      h,
			Invocations: make([]uint32, w*h),
		}
		rasterize(geom.vertices, w, h, func(x, y int, uv [2]float32) {
			c := frag(uv)
			i := (y*w + x) * 4
			pix[i+0], pix[i+1], pix[i+2], pix[i+3] = c[0], c[1], c[2], c[3]
			stats.Invocations[y*w+x]++
		})
		d.frame = append(d.frame, stats)
		return nil
	})
	return nil
}

func (r *softRecorder) Submit() error {
	if r.done {
		return ErrRecorderDone
	}
	r.done = true
	r.dev.frame = nil
	for i, cmd := range r.cmds {
		if err := cmd(r.dev); err != nil {
			return fmt.Errorf("life: software command %d: %w", i, err)
		}
	}
	r.cmds = nil
	return nil
}

func (r *softRecorder) Discard() {
	r.done = true
	r.cmds = nil
}
