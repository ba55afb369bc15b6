package rampmap

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Grid is an immutable rectangular field of samples.
// A NaN or infinite sample marks a missing value.
type Grid struct {
	rows, cols int
	data       []float64 // row-major
}

// NewGrid copies rows into a new Grid.
// Every row must have the same length; ragged input returns ErrRaggedGrid.
// A nil or zero-length input yields an empty grid.
func NewGrid(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return &Grid{}, nil
	}
	cols := len(rows[0])
	if cols == 0 {
		return &Grid{}, nil
	}
	data := make([]float64, 0, len(rows)*cols)
	for j, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrRaggedGrid, j, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Grid{rows: len(rows), cols: cols, data: data}, nil
}

// MustGrid is like NewGrid but panics on ragged input.
func MustGrid(rows [][]float64) *Grid {
	g, err := NewGrid(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// FromMatrix copies a gonum matrix into a Grid. Matrix row r becomes grid
// row r. NaN and infinite elements are treated as missing.
func FromMatrix(m mat.Matrix) *Grid {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return &Grid{}
	}
	g := &Grid{rows: r, cols: c, data: make([]float64, r*c)}
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			g.data[j*c+i] = m.At(j, i)
		}
	}
	return g
}

// Dims returns the number of rows and columns.
func (g *Grid) Dims() (rows, cols int) {
	if g == nil {
		return 0, 0
	}
	return g.rows, g.cols
}

// Len returns the number of samples.
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.data)
}

// Empty reports whether the grid has no samples.
func (g *Grid) Empty() bool { return g.Len() == 0 }

// Square reports whether the grid has as many rows as columns.
func (g *Grid) Square() bool { return g.rows == g.cols }

// At returns the sample at row j, column i.
func (g *Grid) At(j, i int) float64 {
	return g.data[j*g.cols+i]
}

// Missing reports whether the sample at row j, column i is NaN or infinite.
func (g *Grid) Missing(j, i int) bool {
	return isMissing(g.At(j, i))
}

// Rows returns a copy of the grid as nested slices.
func (g *Grid) Rows() [][]float64 {
	out := make([][]float64, g.rows)
	for j := range out {
		out[j] = append([]float64(nil), g.data[j*g.cols:(j+1)*g.cols]...)
	}
	return out
}
