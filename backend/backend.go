package backend

import (
	"errors"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrForeignRamp is returned when Draw receives a ramp texture loaded
	// by a different backend.
	ErrForeignRamp = errors.New("backend: ramp texture belongs to another backend")

	// ErrEmptyRamp is returned when LoadRamp receives an image without pixels.
	ErrEmptyRamp = errors.New("backend: empty ramp image")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU rasterizer backend.
	BackendSoftware = "software"
	// BackendWGPU is the name of the GPU backend (gogpu/wgpu).
	BackendWGPU = "wgpu"
)
