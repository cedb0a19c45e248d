package life

import (
	"fmt"
	"time"
)

// FrameStats describes one recorded frame.
type FrameStats struct {
	// Generation is the number of frames recorded so far, this one included.
	Generation uint64

	// Phase is the phase the frame was recorded in.
	Phase Phase

	// Duration is the time spent recording, pacing excluded.
	Duration time.Duration
}

// FrameObserver receives FrameStats after every recorded frame.
type FrameObserver interface {
	ObserveFrame(FrameStats)
}

// Orchestrator owns the double-buffered images and both passes and records
// one simulation step plus one display blit per frame.
//
// Per frame, in order:
//  1. bind against the swapped roles: simulation reads the current Write
//     image and targets the current Read image, display reads that target
//  2. compute Locals from the viewport and phase
//  3. clear + upload + draw simulation, then clear + draw display
//  4. once both draws record (and, in Frame, the submit succeeds): swap the
//     roles, keep the bindings, advance the phase and the generation
//  5. sleep for the configured frame pace
//
// A frame that fails before step 4 leaves the orchestrator as it was.
//
// The display source is bound before the simulation draw runs; recorders
// execute draws in submission order, so the display reads the generation
// written in the same frame.
//
// Orchestrator is not safe for concurrent use.
type Orchestrator struct {
	device Device
	opts   options

	width, height uint16

	phase      Phase
	generation uint64

	quad        Geometry
	simProgram  Program
	dispProgram Program
	images      *DoubleBuffer[Image]

	simulation Pipeline
	display    Pipeline

	closed bool
}

// New allocates the quad, both programs and both images on dev.
// Any allocation failure aborts construction, releases what was already
// created and returns the error.
func New(dev Device, width, height uint16, opts ...Option) (*Orchestrator, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}

	o := &Orchestrator{
		device: dev,
		opts:   defaultOptions(),
		width:  width,
		height: height,
		phase:  PhaseSeeding,
	}
	for _, opt := range opts {
		opt(&o.opts)
	}
	propagateLogger(dev)

	if err := o.init(); err != nil {
		o.release()
		return nil, err
	}

	Logger().Info("life: orchestrator ready",
		"width", width, "height", height, "pace", o.opts.pace)
	return o, nil
}

func (o *Orchestrator) init() error {
	label := o.opts.label
	vertices := FullScreenQuad()

	quad, err := o.device.CreateGeometry(label+"_quad", vertices[:])
	if err != nil {
		return fmt.Errorf("create quad: %w", err)
	}
	o.quad = quad

	simProgram, err := o.device.CreateProgram(PassSimulation)
	if err != nil {
		return fmt.Errorf("create simulation program: %w", err)
	}
	o.simProgram = simProgram

	dispProgram, err := o.device.CreateProgram(PassDisplay)
	if err != nil {
		return fmt.Errorf("create display program: %w", err)
	}
	o.dispProgram = dispProgram

	var imgs [2]Image
	for i := range imgs {
		img, err := o.device.CreateImage(fmt.Sprintf("%s_image%d", label, i), o.width, o.height)
		if err != nil {
			for _, created := range imgs[:i] {
				o.device.DestroyImage(created)
			}
			return fmt.Errorf("create image %d: %w", i, err)
		}
		imgs[i] = img
	}
	o.images = NewDoubleBuffer(imgs[0], imgs[1])

	o.simulation = Pipeline{
		Program:  simProgram,
		Geometry: quad,
		Source:   imgs[1],
		Target:   imgs[0],
	}
	o.display = Pipeline{
		Program:  dispProgram,
		Geometry: quad,
		Source:   imgs[0],
	}
	return nil
}

// Render records one frame into rec. It does not submit rec. State moves to
// the next generation only if both passes record.
func (o *Orchestrator) Render(rec Recorder) error {
	commit, err := o.record(rec)
	if err != nil {
		return err
	}
	commit()
	return nil
}

// Frame begins a recorder on the device, renders into it and submits it.
// A frame that fails to record or submit leaves the orchestrator unchanged.
func (o *Orchestrator) Frame() error {
	if o.closed {
		return ErrClosed
	}
	rec, err := o.device.Begin()
	if err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	commit, err := o.record(rec)
	if err != nil {
		rec.Discard()
		return err
	}
	if err := rec.Submit(); err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}
	commit()
	return nil
}

// record encodes the next frame against the swapped bindings without
// touching o. The returned commit applies the swap, phase and generation.
func (o *Orchestrator) record(rec Recorder) (commit func(), err error) {
	if o.closed {
		return nil, ErrClosed
	}
	start := time.Now()

	// Roles as they will be after the swap.
	src, dst := o.images.Write(), o.images.Read()
	sim := o.simulation
	sim.Source, sim.Target = src, dst
	disp := o.display
	disp.Source = dst

	phase := o.phase
	rec.Clear(dst, Background)
	rec.UpdateLocals(NewLocals(o.width, o.height, phase))
	if err := rec.Draw(&sim); err != nil {
		return nil, fmt.Errorf("simulation pass: %w", err)
	}
	rec.Clear(nil, Sentinel)
	if err := rec.Draw(&disp); err != nil {
		return nil, fmt.Errorf("display pass: %w", err)
	}

	return func() {
		o.images.Swap()
		o.simulation, o.display = sim, disp
		o.phase = phase.Next()
		o.generation++
		if phase == PhaseSeeding {
			Logger().Info("life: seed frame recorded", "generation", o.generation)
		}
		Logger().Debug("life: frame recorded",
			"generation", o.generation,
			"source", src.Label(),
			"target", dst.Label())

		if o.opts.observer != nil {
			o.opts.observer.ObserveFrame(FrameStats{
				Generation: o.generation,
				Phase:      phase,
				Duration:   time.Since(start),
			})
		}

		if o.opts.pace > 0 {
			o.opts.sleep(o.opts.pace)
		}
	}, nil
}

// Redisplay records and submits only the display pass, showing the newest
// generation again without stepping. Hosts use it while paused.
func (o *Orchestrator) Redisplay() error {
	if o.closed {
		return ErrClosed
	}
	rec, err := o.device.Begin()
	if err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	rec.Clear(nil, Sentinel)
	if err := rec.Draw(&o.display); err != nil {
		rec.Discard()
		return fmt.Errorf("display pass: %w", err)
	}
	if err := rec.Submit(); err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}
	return nil
}

// Load uploads g into the image the next frame reads and moves the
// orchestrator to PhaseStepping, so the next frame steps g instead of
// seeding.
func (o *Orchestrator) Load(g *Grid) error {
	if o.closed {
		return ErrClosed
	}
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrGridSize)
	}
	if g.Width != int(o.width) || g.Height != int(o.height) {
		return fmt.Errorf("%w: grid %dx%d, viewport %dx%d",
			ErrGridSize, g.Width, g.Height, o.width, o.height)
	}
	if err := o.device.WriteImage(o.images.Write(), g.Pixels()); err != nil {
		return fmt.Errorf("load grid: %w", err)
	}
	o.phase = PhaseStepping
	return nil
}

// Phase returns the phase the next frame will be recorded in.
func (o *Orchestrator) Phase() Phase { return o.phase }

// Generation returns the number of frames recorded.
func (o *Orchestrator) Generation() uint64 { return o.generation }

// Size returns the viewport size.
func (o *Orchestrator) Size() (width, height uint16) { return o.width, o.height }

// Newest returns the image holding the newest generation; the display pass
// samples it.
func (o *Orchestrator) Newest() Image { return o.images.Write() }

// Images returns both images in slot order.
func (o *Orchestrator) Images() [2]Image { return o.images.Slots() }

// Simulation returns a copy of the simulation pipeline's current bindings.
func (o *Orchestrator) Simulation() Pipeline { return o.simulation }

// Display returns a copy of the display pipeline's current bindings.
func (o *Orchestrator) Display() Pipeline { return o.display }

// Close releases every device resource owned by the orchestrator. If the
// device has a Wait() error method, Close waits for in-flight work first.
// Close is idempotent.
func (o *Orchestrator) Close() {
	if o.closed {
		return
	}
	o.closed = true
	if w, ok := o.device.(interface{ Wait() error }); ok {
		if err := w.Wait(); err != nil {
			Logger().Warn("life: wait before release failed", "err", err)
		}
	}
	o.release()
}

// release destroys resources in reverse creation order.
func (o *Orchestrator) release() {
	if o.images != nil {
		for _, img := range o.images.Slots() {
			o.device.DestroyImage(img)
		}
		o.images = nil
	}
	if o.dispProgram != nil {
		o.device.DestroyProgram(o.dispProgram)
		o.dispProgram = nil
	}
	if o.simProgram != nil {
		o.device.DestroyProgram(o.simProgram)
		o.simProgram = nil
	}
	if o.quad != nil {
		o.device.DestroyGeometry(o.quad)
		o.quad = nil
	}
}
