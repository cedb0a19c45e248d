package life

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFullScreenQuadCorners(t *testing.T) {
	quad := FullScreenQuad()
	for i, v := range quad {
		// uv is the affine image of position: u = (x+1)/2, v = (1-y)/2.
		wantU := (v.Position[0] + 1) / 2
		wantV := (1 - v.Position[1]) / 2
		if v.UV[0] != wantU || v.UV[1] != wantV {
			t.Errorf("vertex %d: uv = %v, want (%v, %v)", i, v.UV, wantU, wantV)
		}
		if math.Abs(float64(v.Position[0])) != 1 || math.Abs(float64(v.Position[1])) != 1 {
			t.Errorf("vertex %d: position %v is not a viewport corner", i, v.Position)
		}
	}
}

func TestFullScreenQuadIsCopy(t *testing.T) {
	q := FullScreenQuad()
	q[0].Position[0] = 42
	if FullScreenQuad()[0].Position[0] == 42 {
		t.Error("FullScreenQuad returned shared storage")
	}
}

func TestVertexBytes(t *testing.T) {
	quad := FullScreenQuad()
	b := VertexBytes(quad[:])
	if len(b) != QuadVertexCount*VertexStride {
		t.Fatalf("len = %d, want %d", len(b), QuadVertexCount*VertexStride)
	}
	for i, v := range quad {
		off := i * VertexStride
		got := [4]float32{
			math.Float32frombits(binary.LittleEndian.Uint32(b[off:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[off+4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[off+8:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[off+12:])),
		}
		want := [4]float32{v.Position[0], v.Position[1], v.UV[0], v.UV[1]}
		if got != want {
			t.Errorf("vertex %d = %v, want %v", i, got, want)
		}
	}
}

// TestQuadCoversEveryPixelOnce rasterizes the quad at several sizes and
// checks each pixel center is shaded exactly once.
func TestQuadCoversEveryPixelOnce(t *testing.T) {
	quad := FullScreenQuad()
	sizes := [][2]int{{1, 1}, {2, 2}, {7, 5}, {64, 64}, {256, 256}, {33, 100}}
	for _, s := range sizes {
		w, h := s[0], s[1]
		counts := make([]int, w*h)
		rasterize(quad[:], w, h, func(x, y int, _ [2]float32) {
			counts[y*w+x]++
		})
		for i, n := range counts {
			if n != 1 {
				t.Errorf("%dx%d: pixel (%d,%d) shaded %d times", w, h, i%w, i/w, n)
				break
			}
		}
	}
}

func TestQuadUVAtPixelCenters(t *testing.T) {
	quad := FullScreenQuad()
	const w, h = 8, 4
	rasterize(quad[:], w, h, func(x, y int, uv [2]float32) {
		wantU := (float64(x) + 0.5) / w
		wantV := (float64(y) + 0.5) / h
		if math.Abs(float64(uv[0])-wantU) > 1e-5 || math.Abs(float64(uv[1])-wantV) > 1e-5 {
			t.Errorf("pixel (%d,%d): uv = %v, want (%v, %v)", x, y, uv, wantU, wantV)
		}
	})
}
