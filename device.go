package life

import (
	"errors"
	"fmt"
)

// Device errors.
var (
	// ErrInvalidSize is returned when a viewport or image has a zero dimension.
	ErrInvalidSize = errors.New("life: width and height must be non-zero")

	// ErrSelfAliasing is returned when a draw would read and write the same image.
	ErrSelfAliasing = errors.New("life: image bound as both source and target")

	// ErrNilProgram is returned when a pipeline has no program.
	ErrNilProgram = errors.New("life: pipeline program is nil")

	// ErrNoSource is returned when a pipeline has no source image bound.
	ErrNoSource = errors.New("life: pipeline source is not bound")

	// ErrForeignResource is returned when a resource created by another
	// device is handed to a device.
	ErrForeignResource = errors.New("life: resource belongs to a different device")

	// ErrRecorderDone is returned when a recorder is used after Submit.
	ErrRecorderDone = errors.New("life: recorder already submitted")

	// ErrClosed is returned when a closed orchestrator is used.
	ErrClosed = errors.New("life: orchestrator is closed")

	// ErrNilDevice is returned when New is called without a device.
	ErrNilDevice = errors.New("life: device is nil")

	// ErrGridSize is returned when a grid does not match the viewport.
	ErrGridSize = errors.New("life: grid size does not match viewport")
)

// PassKind selects which fragment program a Program runs.
type PassKind int

const (
	// PassSimulation reads generation N and writes generation N+1.
	PassSimulation PassKind = iota

	// PassDisplay copies an image to the output surface.
	PassDisplay
)

// String returns the string representation of PassKind.
func (k PassKind) String() string {
	switch k {
	case PassSimulation:
		return "Simulation"
	case PassDisplay:
		return "Display"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Color is a linear RGBA clear value.
type Color struct {
	R, G, B, A float32
}

// Clear colors used by the two passes.
var (
	// Background clears the simulation target before drawing.
	Background = Color{R: 0, G: 0, B: 0, A: 1}

	// Sentinel clears the output surface; it only shows where the quad
	// failed to cover.
	Sentinel = Color{R: 1, G: 0, B: 0, A: 1}
)

// Image is a device-resident RGBA float buffer readable as a sampled
// texture and writable as a render target.
type Image interface {
	// Label returns the debug label given at creation.
	Label() string

	// Size returns the image dimensions in texels.
	Size() (width, height uint16)
}

// Program is a compiled shader pipeline for one PassKind.
type Program interface {
	Kind() PassKind
}

// Geometry is a device-resident vertex buffer.
type Geometry interface {
	VertexCount() uint32
}

// Device allocates resources and hands out per-frame recorders.
//
// Devices are not safe for concurrent use; the orchestrator drives them
// from a single goroutine.
type Device interface {
	// CreateImage allocates a width x height RGBA float image.
	CreateImage(label string, width, height uint16) (Image, error)

	// CreateGeometry uploads an immutable vertex buffer.
	CreateGeometry(label string, vertices []Vertex) (Geometry, error)

	// CreateProgram compiles the shader pipeline for kind.
	CreateProgram(kind PassKind) (Program, error)

	// WriteImage replaces the contents of img. pixels holds 4 floats per
	// texel in row-major order, top row first.
	WriteImage(img Image, pixels []float32) error

	// Begin starts recording one frame.
	Begin() (Recorder, error)

	DestroyImage(img Image)
	DestroyGeometry(g Geometry)
	DestroyProgram(p Program)
}

// Recorder records the commands of one frame. Commands execute in
// submission order against the resources bound at each Draw, so a Draw
// that reads an image sees every earlier Draw's writes to it.
type Recorder interface {
	// Clear clears target to c before its next draw. A nil target is the
	// output surface.
	Clear(target Image, c Color)

	// UpdateLocals uploads the simulation uniform block.
	UpdateLocals(l Locals)

	// Draw records a draw of p with its current bindings.
	Draw(p *Pipeline) error

	// Submit hands the recorded frame to the device.
	Submit() error

	// Discard drops the recorded commands without executing them.
	Discard()
}
