// Package raster rasterizes ramp-mapped triangle lists on the CPU.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/rampmap/internal/blend"
)

// Shader returns the premultiplied fragment color for ramp coordinate u.
type Shader func(u float64) color.RGBA

// discardThreshold separates missing (v = 1) from valid (v = 0) fragments.
const discardThreshold = 0.5

// Vertex is a clip-space vertex with its ramp coordinate and missing flag.
type Vertex struct {
	X, Y float64 // clip space, [-1, 1], +Y up
	U, V float64
}

// screenVertex holds a vertex transformed to pixel coordinates.
type screenVertex struct {
	X, Y float64
	U, V float64
}

// Rasterizer draws triangles into an RGBA image.
type Rasterizer struct {
	dst *image.RGBA
}

// NewRasterizer creates a rasterizer drawing into dst.
func NewRasterizer(dst *image.RGBA) *Rasterizer {
	return &Rasterizer{dst: dst}
}

// Width returns the target width.
func (r *Rasterizer) Width() int { return r.dst.Bounds().Dx() }

// Height returns the target height.
func (r *Rasterizer) Height() int { return r.dst.Bounds().Dy() }

// Clear sets every pixel to transparent.
func (r *Rasterizer) Clear() {
	clear(r.dst.Pix)
}

func (r *Rasterizer) toScreen(v Vertex) screenVertex {
	return screenVertex{
		X: (v.X + 1) * 0.5 * float64(r.Width()),
		Y: (1 - v.Y) * 0.5 * float64(r.Height()),
		U: v.U,
		V: v.V,
	}
}

// DrawTriangle rasterizes one triangle, sampling pixel centers.
//
// Pixels on an edge shared by two triangles are covered exactly once using
// a top-left fill rule. Fragments whose interpolated v is at or above one
// half are discarded; the rest are shaded at their interpolated u and
// composited source-over. It returns the number of pixels written.
func (r *Rasterizer) DrawTriangle(a, b, c Vertex, shade Shader) int {
	return r.drawTriangle(a, b, c, shade, 0, r.Height())
}

// drawTriangle rasterizes the part of a triangle in rows [y0, y1).
func (r *Rasterizer) drawTriangle(a, b, c Vertex, shade Shader, y0, y1 int) int {
	sv := [3]screenVertex{r.toScreen(a), r.toScreen(b), r.toScreen(c)}
	area := edge(sv[0], sv[1], sv[2])
	if area == 0 || math.IsNaN(area) {
		return 0
	}
	if area < 0 {
		sv[1], sv[2] = sv[2], sv[1]
		area = -area
	}

	minX := int(math.Max(0, math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(float64(y0), math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(y1-1), math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))

	tl0 := isTopLeft(sv[1], sv[2])
	tl1 := isTopLeft(sv[2], sv[0])
	tl2 := isTopLeft(sv[0], sv[1])

	bounds := r.dst.Bounds()
	written := 0
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := screenVertex{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			w0 := edge(sv[1], sv[2], p)
			w1 := edge(sv[2], sv[0], p)
			w2 := edge(sv[0], sv[1], p)
			if !inside(w0, tl0) || !inside(w1, tl1) || !inside(w2, tl2) {
				continue
			}
			w0, w1, w2 = w0/area, w1/area, w2/area

			v := w0*sv[0].V + w1*sv[1].V + w2*sv[2].V
			if v >= discardThreshold {
				continue
			}
			u := w0*sv[0].U + w1*sv[1].U + w2*sv[2].U

			px, py := bounds.Min.X+x, bounds.Min.Y+y
			dst := r.dst.RGBAAt(px, py)
			r.dst.SetRGBA(px, py, blend.Over(shade(u), dst))
			written++
		}
	}
	return written
}

// DrawList rasterizes a packed triangle list of (x, y, u, v) float32
// vertices. Trailing vertices that do not form a full triangle are ignored.
func (r *Rasterizer) DrawList(vertices []float32, shade Shader) int {
	return r.DrawListRows(vertices, shade, 0, r.Height())
}

// DrawListRows is DrawList limited to pixel rows [y0, y1). Calls on
// disjoint row ranges touch disjoint pixels and may run concurrently.
func (r *Rasterizer) DrawListRows(vertices []float32, shade Shader, y0, y1 int) int {
	y0, y1 = max(y0, 0), min(y1, r.Height())
	if y0 >= y1 {
		return 0
	}
	const floats = 4
	n := len(vertices) / floats
	written := 0
	for k := 0; k+2 < n; k += 3 {
		written += r.drawTriangle(
			unpack(vertices[k*floats:]),
			unpack(vertices[(k+1)*floats:]),
			unpack(vertices[(k+2)*floats:]),
			shade, y0, y1,
		)
	}
	return written
}

func unpack(f []float32) Vertex {
	return Vertex{X: float64(f[0]), Y: float64(f[1]), U: float64(f[2]), V: float64(f[3])}
}

// edge returns twice the signed area of (a, b, p).
func edge(a, b, p screenVertex) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// isTopLeft reports whether a→b is a top or left edge of a triangle with
// positive area in y-down pixel space.
func isTopLeft(a, b screenVertex) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	return (dy == 0 && dx > 0) || dy < 0
}

func inside(w float64, topLeft bool) bool {
	if topLeft {
		return w >= 0
	}
	return w > 0
}
