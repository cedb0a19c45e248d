package life

import (
	"encoding/binary"
	"math"
)

// VertexStride is the byte stride of one Vertex in a vertex buffer.
// Layout:
//
//	position (vec2<f32>) = 8 bytes (location 0)
//	uv       (vec2<f32>) = 8 bytes (location 1)
const VertexStride = 16

// QuadVertexCount is the number of vertices drawn per pass.
const QuadVertexCount = 6

// Vertex is one corner of the full-screen quad.
type Vertex struct {
	// Position in normalized device coordinates.
	Position [2]float32

	// UV addresses the source texture; (0,0) is the top-left texel.
	UV [2]float32
}

// fullScreenQuad holds two triangles covering the viewport. NDC y points up
// while texture rows grow downward, so the bottom edge maps to v = 1.
var fullScreenQuad = [QuadVertexCount]Vertex{
	{Position: [2]float32{-1, -1}, UV: [2]float32{0, 1}},
	{Position: [2]float32{1, -1}, UV: [2]float32{1, 1}},
	{Position: [2]float32{-1, 1}, UV: [2]float32{0, 0}},
	{Position: [2]float32{-1, 1}, UV: [2]float32{0, 0}},
	{Position: [2]float32{1, -1}, UV: [2]float32{1, 1}},
	{Position: [2]float32{1, 1}, UV: [2]float32{1, 0}},
}

// FullScreenQuad returns the six vertices shared by both passes.
// The returned array is a copy.
func FullScreenQuad() [QuadVertexCount]Vertex {
	return fullScreenQuad
}

// VertexBytes serializes vertices in VertexStride layout, little-endian.
func VertexBytes(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		off := i * VertexStride
		binary.LittleEndian.PutUint32(buf[off+0:], math.Float32bits(v.Position[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v.Position[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v.UV[0]))
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(v.UV[1]))
	}
	return buf
}
