package life

import "fmt"

// Phase is the orchestrator's two-state machine.
//
//	Seeding -> (first frame) -> Stepping
//
// There is no transition back to Seeding.
type Phase int

const (
	// PhaseSeeding is the very first frame: the simulation shader synthesizes
	// an initial pattern instead of reading neighbor state.
	PhaseSeeding Phase = iota

	// PhaseStepping applies the Game of Life rule to the previous generation.
	PhaseStepping
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	switch p {
	case PhaseSeeding:
		return "Seeding"
	case PhaseStepping:
		return "Stepping"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// SeedFlag returns the uniform value selecting the shader branch.
func (p Phase) SeedFlag() float32 {
	if p == PhaseSeeding {
		return 1
	}
	return 0
}

// Next returns the phase that follows p. Stepping is absorbing.
func (p Phase) Next() Phase {
	return PhaseStepping
}
