package life

import "math"

// rasterize runs fn for every pixel whose center lies inside one of the
// triangles in vertices. Pixels on an edge shared by two triangles go to
// exactly one of them.
func rasterize(vertices []Vertex, width, height int, fn func(x, y int, uv [2]float32)) {
	for t := 0; t+2 < len(vertices); t += 3 {
		rasterizeTriangle(vertices[t], vertices[t+1], vertices[t+2], width, height, fn)
	}
}

type rasterPoint struct {
	x, y float64
	uv   [2]float64
}

func toRaster(v Vertex, width, height int) rasterPoint {
	return rasterPoint{
		x:  (float64(v.Position[0]) + 1) / 2 * float64(width),
		y:  (1 - float64(v.Position[1])) / 2 * float64(height),
		uv: [2]float64{float64(v.UV[0]), float64(v.UV[1])},
	}
}

// edge is twice the signed area of (a, b, p).
func edge(a, b rasterPoint, px, py float64) float64 {
	return (px-a.x)*(b.y-a.y) - (py-a.y)*(b.x-a.x)
}

// ownsEdge is the tie-break for centers exactly on edge a->b. It holds for
// exactly one of a->b and b->a, so a shared edge is drawn once.
func ownsEdge(a, b rasterPoint) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return dy > 0 || (dy == 0 && dx < 0)
}

func inside(w float64, a, b rasterPoint) bool {
	return w > 0 || (w == 0 && ownsEdge(a, b))
}

func rasterizeTriangle(v0, v1, v2 Vertex, width, height int, fn func(x, y int, uv [2]float32)) {
	p0, p1, p2 := toRaster(v0, width, height), toRaster(v1, width, height), toRaster(v2, width, height)
	area := edge(p0, p1, p2.x, p2.y)
	if area == 0 {
		return
	}
	if area < 0 {
		p1, p2 = p2, p1
		area = -area
	}

	minX := clampInt(int(math.Floor(math.Min(p0.x, math.Min(p1.x, p2.x)))), 0, width)
	maxX := clampInt(int(math.Ceil(math.Max(p0.x, math.Max(p1.x, p2.x)))), 0, width)
	minY := clampInt(int(math.Floor(math.Min(p0.y, math.Min(p1.y, p2.y)))), 0, height)
	maxY := clampInt(int(math.Ceil(math.Max(p0.y, math.Max(p1.y, p2.y)))), 0, height)

	for y := minY; y < maxY; y++ {
		cy := float64(y) + 0.5
		for x := minX; x < maxX; x++ {
			cx := float64(x) + 0.5
			w0 := edge(p1, p2, cx, cy)
			w1 := edge(p2, p0, cx, cy)
			w2 := edge(p0, p1, cx, cy)
			if !inside(w0, p1, p2) || !inside(w1, p2, p0) || !inside(w2, p0, p1) {
				continue
			}
			b0, b1, b2 := w0/area, w1/area, w2/area
			fn(x, y, [2]float32{
				float32(b0*p0.uv[0] + b1*p1.uv[0] + b2*p2.uv[0]),
				float32(b0*p0.uv[1] + b1*p1.uv[1] + b2*p2.uv[1]),
			})
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sampleNearest reads img at uv with clamp-to-edge addressing and nearest
// filtering.
func sampleNearest(img *softImage, u, v float32) [4]float32 {
	w, h := int(img.width), int(img.height)
	x := clampInt(int(math.Floor(float64(u)*float64(w))), 0, w-1)
	y := clampInt(int(math.Floor(float64(v)*float64(h))), 0, h-1)
	i := (y*w + x) * 4
	return [4]float32{img.pix[i], img.pix[i+1], img.pix[i+2], img.pix[i+3]}
}

type fragmentFunc func(uv [2]float32) [4]float32

func fragmentFor(kind PassKind, src *softImage, l Locals) fragmentFunc {
	if kind == PassDisplay {
		return func(uv [2]float32) [4]float32 {
			return sampleNearest(src, uv[0], uv[1])
		}
	}
	return func(uv [2]float32) [4]float32 {
		return lifeFragment(src, l, uv)
	}
}

// neighborOffsets lists the eight Moore neighbors in texel units.
var neighborOffsets = [8][2]float32{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// lifeFragment computes one cell of the next generation.
func lifeFragment(src *softImage, l Locals, uv [2]float32) [4]float32 {
	if l.SeedFlag > 0.5 {
		v := float32(0)
		if seedHash(uv) >= 0.5 {
			v = 1
		}
		return [4]float32{v, v, v, 1}
	}

	var n float32
	for _, off := range neighborOffsets {
		n += sampleNearest(src,
			uv[0]+off[0]*l.InverseSize[0],
			uv[1]+off[1]*l.InverseSize[1])[0]
	}
	alive := sampleNearest(src, uv[0], uv[1])[0] > 0.5

	v := float32(0)
	if (n > 2.5 && n < 3.5) || (alive && n > 1.5 && n < 2.5) {
		v = 1
	}
	return [4]float32{v, v, v, 1}
}

// seedHash is the shader's pseudo-random seed: fract(sin(dot(uv, k)) * m).
func seedHash(uv [2]float32) float32 {
	d := float64(uv[0])*12.9898 + float64(uv[1])*78.233
	s := math.Sin(d) * 43758.5453
	return float32(s - math.Floor(s))
}
