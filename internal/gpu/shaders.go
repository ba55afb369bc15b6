// Package gpu draws ramp-mapped triangle meshes through the wgpu HAL.
package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// Embedded WGSL shader sources.

//go:embed shaders/ramp.wgsl
var rampShaderSource string

// Entry points of the ramp shader.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// RampShaderSource returns the WGSL source of the ramp shader.
func RampShaderSource() string { return rampShaderSource }

// ValidateShader compiles src with naga and returns the first error.
// The resulting SPIR-V is discarded.
func ValidateShader(src string) error {
	if src == "" {
		return fmt.Errorf("shader source is empty")
	}
	if _, err := naga.Compile(src); err != nil {
		return fmt.Errorf("compile shader: %w", err)
	}
	return nil
}
