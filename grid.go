package life

// Cell is a grid coordinate. Y grows downward; row 0 is the top texel row.
type Cell struct {
	X, Y int
}

// Grid is a host-side automaton state.
type Grid struct {
	Width, Height int
	Cells         []bool // row-major
}

// NewGrid returns an all-dead grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]bool, width*height),
	}
}

// Alive reports whether (x, y) is live. Out-of-range cells are dead.
func (g *Grid) Alive(x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return false
	}
	return g.Cells[y*g.Width+x]
}

// Set sets the state of (x, y). Out-of-range cells are ignored.
func (g *Grid) Set(x, y int, alive bool) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return
	}
	g.Cells[y*g.Width+x] = alive
}

// Live returns the live cells in row-major order.
func (g *Grid) Live() []Cell {
	var live []Cell
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Cells[y*g.Width+x] {
				live = append(live, Cell{X: x, Y: y})
			}
		}
	}
	return live
}

// Place sets every cell of p, offset by (x, y), live.
func (g *Grid) Place(p Pattern, x, y int) {
	for _, c := range p {
		g.Set(x+c.X, y+c.Y, true)
	}
}

// Step returns the next generation with clamped borders: a neighbor
// coordinate beyond an edge reads the edge cell, the way a clamp-to-edge
// sampler does. At a corner this reads the corner cell itself.
func (g *Grid) Step() *Grid {
	return g.step(func(v, n int) int {
		if v < 0 {
			return 0
		}
		if v >= n {
			return n - 1
		}
		return v
	})
}

// StepToroidal returns the next generation with wrapped borders.
func (g *Grid) StepToroidal() *Grid {
	return g.step(func(v, n int) int {
		return ((v % n) + n) % n
	})
}

func (g *Grid) step(wrap func(v, n int) int) *Grid {
	next := NewGrid(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx := wrap(x+dx, g.Width)
					ny := wrap(y+dy, g.Height)
					if g.Cells[ny*g.Width+nx] {
						neighbors++
					}
				}
			}
			alive := g.Cells[y*g.Width+x]
			next.Cells[y*g.Width+x] = neighbors == 3 || (alive && neighbors == 2)
		}
	}
	return next
}

// Pixels encodes the grid as RGBA float texels: live (1,1,1,1), dead (0,0,0,1).
func (g *Grid) Pixels() []float32 {
	px := make([]float32, len(g.Cells)*4)
	for i, alive := range g.Cells {
		var v float32
		if alive {
			v = 1
		}
		px[i*4+0] = v
		px[i*4+1] = v
		px[i*4+2] = v
		px[i*4+3] = 1
	}
	return px
}

// GridFromPixels decodes RGBA float texels by thresholding red at 0.5.
func GridFromPixels(width, height int, px []float32) *Grid {
	g := NewGrid(width, height)
	for i := range g.Cells {
		if i*4 >= len(px) {
			break
		}
		g.Cells[i] = px[i*4] > 0.5
	}
	return g
}

// Equal reports whether g and other have the same size and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != other.Cells[i] {
			return false
		}
	}
	return true
}
