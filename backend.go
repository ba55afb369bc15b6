package rampmap

import (
	"context"
	"image"
)

// Backend draws meshes with a color ramp onto a canvas.
//
// Implementations live in the backend/ subpackages and are selected through
// the backend registry or passed directly with WithBackend.
type Backend interface {
	// Name returns the backend identifier (e.g. "software", "wgpu").
	Name() string

	// Init prepares the backend to draw on a canvas of the given size.
	// Calling Init again resizes the target and keeps loaded ramps valid.
	Init(canvas Canvas) error

	// LoadRamp uploads a one-pixel-tall ramp image and returns a handle
	// that Draw samples from.
	LoadRamp(ctx context.Context, ramp *image.RGBA) (RampTexture, error)

	// Draw clears the target and draws mesh as a triangle list. Fragments
	// of vertices with v == 1 are discarded; others take the ramp color at u.
	Draw(mesh *Mesh, ramp RampTexture) error

	// Clear resets the target to transparent.
	Clear() error

	// Close releases all backend resources.
	Close()
}

// RampTexture is a backend-owned ramp image.
type RampTexture interface {
	// Width returns the ramp width in texels.
	Width() int

	// Release frees the texture. Further use is undefined.
	Release()
}

// ImageBackend is implemented by backends whose target can be read back.
type ImageBackend interface {
	Backend

	// Image returns the current target contents.
	Image() (*image.RGBA, error)
}
