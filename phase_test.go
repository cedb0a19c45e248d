package life

import "testing"

func TestPhaseString(t *testing.T) {
	tests := []struct {
		p    Phase
		want string
	}{
		{PhaseSeeding, "Seeding"},
		{PhaseStepping, "Stepping"},
		{Phase(7), "Unknown(7)"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tt.p), got, tt.want)
		}
	}
}

func TestPhaseSingleForwardTransition(t *testing.T) {
	p := PhaseSeeding
	seeds := 0
	for i := 0; i < 100; i++ {
		if p.SeedFlag() == 1 {
			seeds++
			if i != 0 {
				t.Errorf("seed flag set on step %d", i)
			}
		}
		p = p.Next()
	}
	if seeds != 1 {
		t.Errorf("seed flag set %d times, want 1", seeds)
	}
	if p.Next() != PhaseStepping {
		t.Error("Stepping is not absorbing")
	}
}
