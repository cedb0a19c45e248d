//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/life"
)

// pendingClear is a Clear not yet folded into a render pass.
type pendingClear struct {
	target life.Image // nil is the surface
	color  life.Color
}

// recorder encodes one frame into a single command encoder.
type recorder struct {
	dev     *Device
	encoder hal.CommandEncoder
	clear   *pendingClear
	done    bool
	err     error
}

// Begin implements life.Device. It waits for the previous frame first.
func (d *Device) Begin() (life.Recorder, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if err := d.Wait(); err != nil {
		return nil, err
	}
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "life_frame_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("life_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	return &recorder{dev: d, encoder: encoder}, nil
}

// Clear records a clear of target. It is applied by the next draw to the
// same target, or as a pass of its own otherwise.
func (r *recorder) Clear(target life.Image, c life.Color) {
	if r.done {
		return
	}
	if r.clear != nil && r.clear.target != target {
		r.flushClear()
	}
	r.clear = &pendingClear{target: target, color: c}
}

// UpdateLocals writes the uniform block through the queue. The previous
// frame has finished, so the buffer is not in use.
func (r *recorder) UpdateLocals(l life.Locals) {
	if r.done {
		return
	}
	r.dev.queue.WriteBuffer(r.dev.locals, 0, l.Bytes())
}

func (r *recorder) Draw(p *life.Pipeline) error {
	if r.done {
		return life.ErrRecorderDone
	}
	if err := p.Validate(); err != nil {
		return err
	}
	prog, ok := p.Program.(*program)
	if !ok || prog.dev != r.dev {
		return fmt.Errorf("%w: program", life.ErrForeignResource)
	}
	geo, ok := p.Geometry.(*geometry)
	if !ok || geo.dev != r.dev {
		return fmt.Errorf("%w: geometry", life.ErrForeignResource)
	}
	src, err := r.dev.image(p.Source)
	if err != nil {
		return err
	}
	view, err := r.targetView(p.Target)
	if err != nil {
		return err
	}
	bg, err := prog.bindGroup(src)
	if err != nil {
		return err
	}

	load, clearValue := gputypes.LoadOpLoad, gputypes.Color{}
	if r.clear != nil && r.clear.target == p.Target {
		load, clearValue = gputypes.LoadOpClear, toColor(r.clear.color)
		r.clear = nil
	} else if r.clear != nil {
		r.flushClear()
	}

	rp := r.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "life_" + prog.kind.String() + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearValue,
		}},
	})
	rp.SetPipeline(prog.pipeline)
	rp.SetBindGroup(0, bg, nil)
	rp.SetVertexBuffer(0, geo.buffer, 0)
	rp.Draw(geo.count, 1, 0, 0)
	rp.End()
	return nil
}

// flushClear encodes the pending clear as an empty render pass.
func (r *recorder) flushClear() {
	c := r.clear
	r.clear = nil
	view, err := r.targetView(c.target)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}
	rp := r.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "life_clear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: toColor(c.color),
		}},
	})
	rp.End()
}

func (r *recorder) targetView(target life.Image) (hal.TextureView, error) {
	if target == nil {
		if r.dev.surface == nil {
			return nil, ErrNoSurface
		}
		return r.dev.surface, nil
	}
	im, err := r.dev.image(target)
	if err != nil {
		return nil, err
	}
	return im.view, nil
}

func (r *recorder) Submit() error {
	if r.done {
		return life.ErrRecorderDone
	}
	if r.clear != nil {
		r.flushClear()
	}
	if r.err != nil {
		r.Discard()
		return r.err
	}
	r.done = true

	cmdBuf, err := r.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	d := r.dev
	next := d.fenceValue + 1
	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, d.fence, next); err != nil {
		d.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("submit: %w", err)
	}
	d.fenceValue = next
	d.inflight = cmdBuf
	slogger().Debug("gpu: frame submitted", "fence", next)
	return nil
}

func (r *recorder) Discard() {
	if r.done {
		return
	}
	r.done = true
	r.clear = nil
	r.encoder.DiscardEncoding()
}

func toColor(c life.Color) gputypes.Color {
	return gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}
