// Package backend provides the rampmap backend registry and the software
// backend.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The software backend is registered when this package is imported. The
// GPU backend registers itself when its package is imported:
//
//	import _ "github.com/gogpu/rampmap/backend/wgpu"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	// Get the default (best available) backend
//	b := backend.Default()
//
//	// Or request a specific backend
//	b := backend.Get("software")
//
// InitDefault goes one step further and falls back to the next backend
// when Init fails, for example when no GPU adapter is present.
//
// # Usage with Renderer
//
//	r, err := backend.NewRenderer(rampmap.Canvas{Width: 800, Height: 600})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
// # Available Backends
//
// - "software": CPU triangle rasterizer (always available)
// - "wgpu": GPU rendering via gogpu/wgpu (backend/wgpu)
package backend
