package rampmap

import (
	"encoding/binary"
	"math"
)

// Vertex buffer layout shared by every backend.
const (
	// FloatsPerVertex is the number of float32 components per vertex:
	// clip-space x, clip-space y, ramp coordinate u, missing flag v.
	FloatsPerVertex = 4
	// VertexStride is the size of one vertex in bytes.
	VertexStride = FloatsPerVertex * 4
	// VerticesPerCell is the number of vertices emitted for each cell.
	VerticesPerCell = 6
)

// zeroSpanU is the ramp coordinate used when all valid samples are equal.
const zeroSpanU = 0.5

// Vertex is one unpacked mesh vertex.
type Vertex struct {
	X, Y float32 // clip space, [-1, 1]
	U    float32 // ramp coordinate, [0, 1]
	V    float32 // 1 for missing cells, 0 otherwise
}

// Missing reports whether the vertex belongs to a missing cell.
func (v Vertex) Missing() bool { return v.V == 1 }

// Mesh is a packed triangle list ready for upload.
type Mesh struct {
	// Vertices holds FloatsPerVertex components per vertex.
	Vertices []float32

	drawable bool
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Vertices) / FloatsPerVertex
}

// Drawable reports whether the mesh contains at least one vertex of a
// non-missing cell.
func (m *Mesh) Drawable() bool { return m != nil && m.drawable }

// Vertex returns vertex k.
func (m *Mesh) Vertex(k int) Vertex {
	f := m.Vertices[k*FloatsPerVertex : (k+1)*FloatsPerVertex]
	return Vertex{X: f[0], Y: f[1], U: f[2], V: f[3]}
}

// Bytes returns the vertex data as little-endian float32 values.
func (m *Mesh) Bytes() []byte {
	buf := make([]byte, len(m.Vertices)*4)
	for k, f := range m.Vertices {
		binary.LittleEndian.PutUint32(buf[k*4:], math.Float32bits(f))
	}
	return buf
}

// cellQuad lists the corner used by each of the six vertices of a cell,
// together with the sign of its x and y offset from the cell center.
var cellQuad = [VerticesPerCell]struct {
	dx, dy float64
	corner Corner
}{
	{-1, -1, NW},
	{+1, -1, NE},
	{-1, +1, SW},
	{-1, +1, SW},
	{+1, -1, NE},
	{+1, +1, SE},
}

// BuildMesh emits two triangles per cell.
//
// Corner intensities are normalized against b: a positive span maps
// [Min, Max] onto [0, 1], a zero span maps every valid corner to 0.5, and a
// grid without valid samples produces u = 0 everywhere. Missing cells get
// v = 1 on all six vertices so the fragment stage discards them.
func BuildMesh(c *Cells, b Bounds, layout Layout) *Mesh {
	n := c.Len()
	m := &Mesh{Vertices: make([]float32, 0, n*VerticesPerCell*FloatsPerVertex)}
	if n == 0 {
		return m
	}

	_, kind := b.Span()
	// Halved operands keep the difference finite for extreme bounds.
	halfSpan := b.Max/2 - b.Min/2
	normalize := func(v float64) float64 {
		switch kind {
		case SpanPositive:
			return clamp01((v/2 - b.Min/2) / halfSpan)
		case SpanZero:
			return zeroSpanU
		default:
			return 0
		}
	}

	w := float64(layout.Canvas.Width)
	h := float64(layout.Canvas.Height)
	hw, hh := layout.HalfExtents()
	for k := range c.Items {
		cell := &c.Items[k]
		fx, fy := cell.X/w, cell.Y/h
		var flag float32
		if cell.Missing {
			flag = 1
		} else {
			m.drawable = true
		}
		for _, q := range cellQuad {
			u := 0.0
			if !cell.Missing {
				u = normalize(cell.Corners[q.corner])
			}
			m.Vertices = append(m.Vertices,
				float32(toClip(fx+q.dx*hw)),
				float32(toClip(fy+q.dy*hh)),
				float32(u),
				flag,
			)
		}
	}
	return m
}

// toClip maps a canvas fraction to clip space, clamped to [-1, 1].
func toClip(f float64) float64 {
	return clamp(2*f-1, -1, 1)
}

// clamp limits v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }
