package life

import (
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.pace != DefaultFramePace {
		t.Errorf("pace = %v, want %v", o.pace, DefaultFramePace)
	}
	if o.sleep == nil {
		t.Error("sleep is nil")
	}
	if o.label != "life" {
		t.Errorf("label = %q, want %q", o.label, "life")
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(t *testing.T, o options)
	}{
		{
			name: "WithFramePace",
			opt:  WithFramePace(5 * time.Millisecond),
			check: func(t *testing.T, o options) {
				if o.pace != 5*time.Millisecond {
					t.Errorf("pace = %v, want 5ms", o.pace)
				}
			},
		},
		{
			name: "WithFramePace negative clamps to zero",
			opt:  WithFramePace(-time.Second),
			check: func(t *testing.T, o options) {
				if o.pace != 0 {
					t.Errorf("pace = %v, want 0", o.pace)
				}
			},
		},
		{
			name: "WithSleep nil keeps default",
			opt:  WithSleep(nil),
			check: func(t *testing.T, o options) {
				if o.sleep == nil {
					t.Error("sleep replaced with nil")
				}
			},
		},
		{
			name: "WithLabel empty keeps default",
			opt:  WithLabel(""),
			check: func(t *testing.T, o options) {
				if o.label != "life" {
					t.Errorf("label = %q, want life", o.label)
				}
			},
		},
		{
			name: "WithLabel",
			opt:  WithLabel("demo"),
			check: func(t *testing.T, o options) {
				if o.label != "demo" {
					t.Errorf("label = %q, want demo", o.label)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			tt.opt(&o)
			tt.check(t, o)
		})
	}
}
