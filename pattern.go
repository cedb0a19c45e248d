package life

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	imageio "github.com/gogpu/life/internal/image"
)

// Pattern errors.
var (
	// ErrUnsupportedPattern is returned for an unknown pattern file extension.
	ErrUnsupportedPattern = errors.New("life: unsupported pattern format")

	// ErrEmptyPattern is returned when a pattern has no live cells.
	ErrEmptyPattern = errors.New("life: pattern has no live cells")
)

// Pattern is a set of live cells relative to its top-left corner.
type Pattern []Cell

// Common patterns.
var (
	// Blinker is a period-2 oscillator, horizontal phase.
	Blinker = Pattern{{0, 0}, {1, 0}, {2, 0}}

	// Block is a still life.
	Block = Pattern{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

	// Glider travels one cell diagonally every four generations.
	Glider = Pattern{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
)

// Bounds returns the pattern's width and height.
func (p Pattern) Bounds() (width, height int) {
	for _, c := range p {
		if c.X+1 > width {
			width = c.X + 1
		}
		if c.Y+1 > height {
			height = c.Y + 1
		}
	}
	return width, height
}

// ParsePlaintext reads the plaintext ".cells" format: lines starting with
// '!' are comments, 'O' or '*' is live, anything else is dead.
func ParsePlaintext(r io.Reader) (Pattern, error) {
	var p Pattern
	sc := bufio.NewScanner(r)
	y := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "!") {
			continue
		}
		for x, ch := range line {
			if ch == 'O' || ch == '*' {
				p = append(p, Cell{X: x, Y: y})
			}
		}
		y++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("life: read pattern: %w", err)
	}
	if len(p) == 0 {
		return nil, ErrEmptyPattern
	}
	return p, nil
}

// PatternFromImage treats every pixel brighter than 50% luminance as live.
func PatternFromImage(img image.Image) (Pattern, error) {
	b := img.Bounds()
	var p Pattern
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if gray.Y >= 128 {
				p = append(p, Cell{X: x - b.Min.X, Y: y - b.Min.Y})
			}
		}
	}
	if len(p) == 0 {
		return nil, ErrEmptyPattern
	}
	return p, nil
}

// LoadPattern reads a pattern file. Supported: .cells/.txt plaintext,
// .png, .jpg/.jpeg, .bmp, .tif/.tiff, .webp and .pgm images.
func LoadPattern(path string) (Pattern, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".cells" || ext == ".txt" {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("life: open pattern: %w", err)
		}
		defer func() { _ = f.Close() }()
		return ParsePlaintext(f)
	}

	if imageio.FormatOf(path) == imageio.FormatUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPattern, ext)
	}
	img, err := imageio.Load(path)
	if err != nil {
		return nil, fmt.Errorf("life: load pattern %s: %w", filepath.Base(path), err)
	}
	return PatternFromImage(img)
}

// Centered returns a grid of the given size with p placed in its middle.
func (p Pattern) Centered(width, height int) *Grid {
	g := NewGrid(width, height)
	pw, ph := p.Bounds()
	g.Place(p, (width-pw)/2, (height-ph)/2)
	return g
}
