package rampmap

import "math"

// Corner names one of the four intensity slots of a Cell.
//
// Names follow the traversal frame of the grid: N is the edge at the lower
// canvas-fraction y of the cell and W the edge at the lower x.
type Corner uint8

const (
	NW Corner = iota
	NE
	SE
	SW
)

var cornerNames = [...]string{"NW", "NE", "SE", "SW"}

func (c Corner) String() string {
	if int(c) < len(cornerNames) {
		return cornerNames[c]
	}
	return "Corner(?)"
}

// Cell is one grid sample together with its corner-intensity slots.
type Cell struct {
	J, I    int        // grid row and column
	X, Y    float64    // world position in canvas pixels
	Raw     float64    // original sample, NaN when missing
	Corners [4]float64 // indexed by Corner
	Missing bool // Raw is NaN or infinite
}

// Corner returns the value of slot k.
func (c *Cell) Corner(k Corner) float64 { return c.Corners[k] }

// Cells is a flat arena of cells in row-major traversal order.
// Neighbors are located by index arithmetic: (j, i) lives at j*Cols+i.
type Cells struct {
	Rows, Cols int
	Items      []Cell
}

// Len returns the number of cells.
func (c *Cells) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// Index returns the arena index of (j, i) and whether it lies in the grid.
func (c *Cells) Index(j, i int) (int, bool) {
	if j < 0 || i < 0 || j >= c.Rows || i >= c.Cols {
		return 0, false
	}
	return j*c.Cols + i, true
}

// At returns the cell at (j, i). It panics if (j, i) is outside the grid.
func (c *Cells) At(j, i int) *Cell {
	k, ok := c.Index(j, i)
	if !ok {
		panic("rampmap: cell index out of range")
	}
	return &c.Items[k]
}

// slot addresses one corner of one cell in the arena.
type slot struct {
	cell   int
	corner Corner
}

func (c *Cells) value(s slot) float64 { return c.Items[s.cell].Corners[s.corner] }

func (c *Cells) set(s slot, v float64) { c.Items[s.cell].Corners[s.corner] = v }

// isMissing reports whether v is unusable as an intensity: NaN or infinite.
func isMissing(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
