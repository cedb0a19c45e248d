// Package shaders holds the WGSL programs of both passes and selects the
// source form a backend consumes.
package shaders

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/life"
)

//go:embed vertex.wgsl
var vertexSource string

//go:embed life.wgsl
var lifeSource string

//go:embed display.wgsl
var displaySource string

// Entry points shared by every program.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Bind group slots. The display program has no uniform and leaves
// BindingLocals unused so both passes bind the texture at the same slot.
const (
	BindingLocals  = 0
	BindingTexture = 1
	BindingSampler = 2
)

// WGSL returns the complete module (shared vertex stage plus fragment) for
// kind.
func WGSL(kind life.PassKind) (string, error) {
	switch kind {
	case life.PassSimulation:
		return vertexSource + "\n" + lifeSource, nil
	case life.PassDisplay:
		return vertexSource + "\n" + displaySource, nil
	default:
		return "", fmt.Errorf("shaders: no program for pass %s", kind)
	}
}

// SPIRV compiles the module for kind to SPIR-V words with naga.
func SPIRV(kind life.PassKind) ([]uint32, error) {
	src, err := WGSL(kind)
	if err != nil {
		return nil, err
	}
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("shaders: compile %s: %w", kind, err)
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// Source returns the shader source for kind: naga-compiled SPIR-V when
// spirv is set, WGSL otherwise.
func Source(kind life.PassKind, spirv bool) (hal.ShaderSource, error) {
	if spirv {
		words, err := SPIRV(kind)
		if err != nil {
			return hal.ShaderSource{}, err
		}
		return hal.ShaderSource{SPIRV: words}, nil
	}
	src, err := WGSL(kind)
	if err != nil {
		return hal.ShaderSource{}, err
	}
	return hal.ShaderSource{WGSL: src}, nil
}
