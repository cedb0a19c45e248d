package life

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	imageio "github.com/gogpu/life/internal/image"
)

const gliderCells = `!Name: Glider
!
.O
..O
OOO
`

func TestParsePlaintext(t *testing.T) {
	p, err := ParsePlaintext(strings.NewReader(gliderCells))
	if err != nil {
		t.Fatalf("ParsePlaintext failed: %v", err)
	}
	if !cellsEqual(p, Glider) {
		t.Errorf("pattern = %v, want %v", p, Glider)
	}
	if w, h := p.Bounds(); w != 3 || h != 3 {
		t.Errorf("Bounds = %dx%d, want 3x3", w, h)
	}
}

func TestParsePlaintextAsterisk(t *testing.T) {
	p, err := ParsePlaintext(strings.NewReader("***\r\n"))
	if err != nil {
		t.Fatalf("ParsePlaintext failed: %v", err)
	}
	if !cellsEqual(p, Blinker) {
		t.Errorf("pattern = %v, want %v", p, Blinker)
	}
}

func TestParsePlaintextEmpty(t *testing.T) {
	if _, err := ParsePlaintext(strings.NewReader("!only a comment\n...\n")); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("ParsePlaintext = %v, want ErrEmptyPattern", err)
	}
}

func blockImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for _, c := range Block {
		img.SetGray(c.X+1, c.Y+1, color.Gray{Y: 255})
	}
	img.SetGray(0, 3, color.Gray{Y: 100}) // below threshold
	return img
}

func TestPatternFromImage(t *testing.T) {
	p, err := PatternFromImage(blockImage())
	if err != nil {
		t.Fatalf("PatternFromImage failed: %v", err)
	}
	want := Pattern{{1, 1}, {2, 1}, {1, 2}, {2, 2}}
	if !cellsEqual(p, want) {
		t.Errorf("pattern = %v, want %v", p, want)
	}

	// Offset bounds are normalized to the top-left corner.
	sub := blockImage().SubImage(image.Rect(1, 1, 3, 3))
	p, err = PatternFromImage(sub)
	if err != nil {
		t.Fatalf("PatternFromImage(sub) failed: %v", err)
	}
	if !cellsEqual(p, Block) {
		t.Errorf("sub pattern = %v, want %v", p, Block)
	}

	if _, err := PatternFromImage(image.NewGray(image.Rect(0, 0, 2, 2))); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("black image: %v, want ErrEmptyPattern", err)
	}
}

func TestLoadPattern(t *testing.T) {
	dir := t.TempDir()
	want := Pattern{{1, 1}, {2, 1}, {1, 2}, {2, 2}}

	for _, ext := range []string{".png", ".pgm", ".bmp"} {
		path := filepath.Join(dir, "block"+ext)
		if err := imageio.Save(path, blockImage()); err != nil {
			t.Fatalf("save %s: %v", ext, err)
		}
		p, err := LoadPattern(path)
		if err != nil {
			t.Fatalf("LoadPattern(%s) failed: %v", ext, err)
		}
		if !cellsEqual(p, want) {
			t.Errorf("%s: pattern = %v, want %v", ext, p, want)
		}
	}

	cells := filepath.Join(dir, "glider.cells")
	if err := os.WriteFile(cells, []byte(gliderCells), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPattern(cells)
	if err != nil {
		t.Fatalf("LoadPattern(.cells) failed: %v", err)
	}
	if !cellsEqual(p, Glider) {
		t.Errorf(".cells pattern = %v, want %v", p, Glider)
	}
}

func TestLoadPatternErrors(t *testing.T) {
	if _, err := LoadPattern("glider.rle"); !errors.Is(err, ErrUnsupportedPattern) {
		t.Errorf("LoadPattern(.rle) = %v, want ErrUnsupportedPattern", err)
	}
	if _, err := LoadPattern(filepath.Join(t.TempDir(), "missing.cells")); err == nil {
		t.Error("LoadPattern of a missing file succeeded")
	}
}

func TestPatternCentered(t *testing.T) {
	g := Blinker.Centered(7, 5)
	want := []Cell{{2, 2}, {3, 2}, {4, 2}}
	if got := g.Live(); !cellsEqual(got, want) {
		t.Errorf("Live = %v, want %v", got, want)
	}
}
