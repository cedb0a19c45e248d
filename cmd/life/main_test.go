package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/life"
	imageio "github.com/gogpu/life/internal/image"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name                  string
		width, height, frames int
		wantErr               bool
	}{
		{"valid", 64, 32, 10, false},
		{"zero width", 0, 32, 10, true},
		{"too tall", 64, 70000, 10, true},
		{"negative frames", 64, 64, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newConfig(tt.width, tt.height, tt.frames, 1)
			if (err != nil) != tt.wantErr {
				t.Errorf("newConfig error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	cfg, _ := newConfig(8, 8, 1, 0)
	if cfg.scale != 1 {
		t.Errorf("scale = %d, want 1 for non-positive input", cfg.scale)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config
		wantErr bool
	}{
		{"window", config{}, false},
		{"headless", config{headless: true}, false},
		{"watch in window", config{watch: true, pattern: "p.cells"}, false},
		{"watch headless", config{watch: true, headless: true, pattern: "p.cells"}, true},
		{"watch without pattern", config{watch: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunHeadlessWithPattern(t *testing.T) {
	dir := t.TempDir()
	pattern := filepath.Join(dir, "blinker.cells")
	if err := os.WriteFile(pattern, []byte("!Name: Blinker\nOOO\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.png")

	cfg, err := newConfig(9, 9, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	cfg.headless = true
	cfg.pattern = pattern
	cfg.output = output

	if err := runHeadless(cfg, []life.Option{life.WithFramePace(0)}); err != nil {
		t.Fatalf("runHeadless failed: %v", err)
	}

	img, err := imageio.Load(output)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 18 || b.Dy() != 18+life.CaptionHeight {
		t.Errorf("snapshot size = %dx%d, want 18x%d", b.Dx(), b.Dy(), 18+life.CaptionHeight)
	}

	// Blinker centered at (3..5, 4) turns vertical at x=4 after one frame.
	live := func(cx, cy int) bool {
		r, _, _, _ := img.At(cx*2, cy*2).RGBA()
		return r > 0x8000
	}
	if !live(4, 3) || !live(4, 4) {
		t.Error("expected vertical blinker cells at (4,3) and (4,4)")
	}
	if live(3, 4) || live(5, 4) {
		t.Error("horizontal blinker ends should be dead after one frame")
	}
}

func TestLoadGridCenters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "block.cells")
	if err := os.WriteFile(path, []byte("OO\nOO\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	g, err := loadGrid(path, 6, 6)
	if err != nil {
		t.Fatalf("loadGrid failed: %v", err)
	}
	want := []life.Cell{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}}
	got := g.Live()
	if len(got) != len(want) {
		t.Fatalf("live cells = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("live[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
