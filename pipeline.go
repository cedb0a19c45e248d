package life

// Pipeline is one pass: an immutable program and geometry plus the image
// bindings the orchestrator reassigns every frame.
type Pipeline struct {
	Program  Program
	Geometry Geometry

	// Source is sampled by the fragment program.
	Source Image

	// Target receives the draw. Nil selects the output surface.
	Target Image
}

// VertexCount returns the number of vertices drawn.
func (p *Pipeline) VertexCount() uint32 {
	if p.Geometry == nil {
		return 0
	}
	return p.Geometry.VertexCount()
}

// Validate checks that the bindings form a legal draw.
func (p *Pipeline) Validate() error {
	if p.Program == nil {
		return ErrNilProgram
	}
	if p.Source == nil {
		return ErrNoSource
	}
	if p.Target != nil && p.Source == p.Target {
		return ErrSelfAliasing
	}
	return nil
}
