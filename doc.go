// Package rampmap renders a 2D scalar field as a continuously shaded
// color-ramp surface.
//
// # Overview
//
// A Grid of float samples (a NaN or infinite sample is missing) is turned
// into a triangle mesh in three steps:
//
//   - SampleGrid places one Cell per sample on the canvas and records the
//     range of valid samples.
//   - Smooth blends the corner intensities of neighboring cells so that
//     shared corners carry one value and the surface shades continuously.
//   - BuildMesh emits two triangles per cell with a ramp coordinate u in
//     [0, 1] and a missing flag v per vertex.
//
// Tessellate runs all three. The mesh is drawn by a Backend that samples a
// one-pixel-tall ramp texture at u and discards fragments whose v is 1.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/rampmap"
//	    "github.com/gogpu/rampmap/backend"
//	)
//
//	r, err := rampmap.New(rampmap.Canvas{Width: 512, Height: 512},
//	    rampmap.WithBackend(backend.NewSoftwareBackend()))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	ramp, err := r.PrepareColorRamp(ctx, []rampmap.ColorStop{
//	    {Offset: 0, Color: rampmap.Hex("#0000ff")},
//	    {Offset: 1, Color: rampmap.Hex("#ff0000")},
//	})
//	if err != nil {
//	    return err
//	}
//	err = r.Render(grid, ramp)
//
// # Coordinate System
//
// Row index j drives the x axis and column index i drives the y axis:
// cell (j, i) is centered at x = XSpacing*j, y = Height - YSpacing*i in
// canvas pixels. Clip-space output is clamped to [-1, 1].
//
// # Backends
//
// The backend package provides a software backend that rasterizes on the
// CPU into an *image.RGBA and keeps a registry of backends. Importing
// backend/wgpu registers a GPU backend drawing through gogpu/wgpu into an
// offscreen texture. backend.NewRenderer picks the best registered one.
//
// # Color Ramps
//
// PrepareColorRamp builds the ramp from ColorStops; identical stop sets
// share one cached image. ParseColor and ParseStops read CSS-style colors
// such as "#f80", "rgb(0, 128, 255)" and "steelblue". The preset package
// offers named ramps (blackbody, blue-red, heat, ...) built from the
// gonum/plot palettes, and PrepareRampImage loads a ramp from a colormap
// image strip.
//
// The rampmap command in cmd/rampmap renders JSON or CSV grids to PNG,
// JPEG, BMP or TIFF files.
package rampmap

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
