// Package wgpu provides a GPU rendering backend using gogpu/wgpu.
//
// The backend draws the rampmap triangle list with a single render
// pipeline: the vertex stage passes clip-space positions and the (u, v)
// ramp coordinates through, and the fragment stage samples the ramp
// texture at u with linear filtering, discarding fragments of missing
// cells (v at or above one half). Frames are rendered into an offscreen
// texture and copied back so Image returns the pixels.
//
// # Registration
//
// Importing the package registers the backend under the name "wgpu" with
// the highest selection priority:
//
//	import _ "github.com/gogpu/rampmap/backend/wgpu"
//
//	r, err := backend.NewRenderer(canvas) // wgpu, or software without a GPU
//
// # Devices
//
// By default Init opens a Vulkan device, preferring discrete and
// integrated GPUs. WithVariant selects another HAL backend and
// WithDeviceProvider shares the device of a host application:
//
//	b := wgpu.New(wgpu.WithDeviceProvider(app))
//	r, err := rampmap.New(canvas, rampmap.WithBackend(b))
package wgpu
