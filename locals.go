package life

import (
	"encoding/binary"
	"math"
)

// LocalsSize is the byte size of the Locals uniform block. The WGSL struct
// is vec2<f32> + f32, padded to 16 bytes by uniform layout rules.
const LocalsSize = 16

// Locals is the uniform block read by the simulation shader.
type Locals struct {
	// InverseSize is (1/width, 1/height): one texel step in uv space.
	InverseSize [2]float32

	// SeedFlag is 1 on the seeding frame and 0 afterwards.
	SeedFlag float32
}

// NewLocals computes the uniform block for a viewport and phase.
func NewLocals(width, height uint16, phase Phase) Locals {
	return Locals{
		InverseSize: [2]float32{1 / float32(width), 1 / float32(height)},
		SeedFlag:    phase.SeedFlag(),
	}
}

// Bytes serializes the block in uniform buffer layout, little-endian.
func (l Locals) Bytes() []byte {
	buf := make([]byte, LocalsSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(l.InverseSize[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(l.InverseSize[1]))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(l.SeedFlag))
	return buf
}
