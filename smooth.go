package rampmap

import "math"

// Smooth blends corner intensities across cell boundaries in place.
//
// Cells are visited in row-major order and each visit merges the visited
// cell's corners with those of already-visited neighbors: left (j, i-1),
// up (j-1, i), up-left (j-1, i-1) and up-right (j-1, i+1). A merge replaces
// every participating slot with the participants' mean. A merge is skipped
// when any participant is missing or lies outside the grid.
//
// The last column, the first row and the first column use reduced merge
// sets; the bottom row is not treated specially.
func Smooth(c *Cells) {
	if c.Len() == 0 {
		return
	}
	for j := 0; j < c.Rows; j++ {
		for i := 0; i < c.Cols; i++ {
			smoothCell(c, j, i)
		}
	}
}

// smoothCell applies the merges for the cell at (j, i).
func smoothCell(c *Cells, j, i int) {
	self, _ := c.Index(j, i)
	upLeft, okUL := c.Index(j-1, i-1)
	up, okU := c.Index(j-1, i)
	upRight, okUR := c.Index(j-1, i+1)
	left, okL := c.Index(j, i-1)

	switch {
	case j == 0 && i == 0:
		// Nothing visited yet.
	case j > 0 && i == c.Cols-1:
		// Last column.
		if okUL && okU && okL {
			c.merge(slot{upLeft, NE}, slot{up, SE}, slot{left, NW}, slot{self, SW})
		}
		if okU {
			c.merge(slot{up, NE}, slot{self, NW})
		}
	case j == 0:
		// First row.
		if okL {
			c.merge(slot{self, SW}, slot{left, NW})
			c.merge(slot{self, SE}, slot{left, NE})
		}
	case i == 0:
		// First column.
		if okU {
			c.merge(slot{self, SW}, slot{up, SE})
		}
		if okU && okUR {
			c.merge(slot{up, NE}, slot{upRight, SE}, slot{self, NW})
		}
	default:
		c.merge(slot{upLeft, NE}, slot{up, SE}, slot{left, NW}, slot{self, SW})
		c.merge(slot{up, NE}, slot{upRight, SE}, slot{self, NW})
		c.merge(slot{self, SE}, slot{left, NE})
	}
}

// merge averages the given slots and writes the mean back to each of them.
// It does nothing if any slot is missing.
func (c *Cells) merge(slots ...slot) {
	var sum float64
	for _, s := range slots {
		v := c.value(s)
		if isMissing(v) {
			return
		}
		sum += v
	}
	n := float64(len(slots))
	mean := sum / n
	if math.IsInf(mean, 0) {
		// The sum overflowed; average the scaled values instead.
		mean = 0
		for _, s := range slots {
			mean += c.value(s) / n
		}
	}
	for _, s := range slots {
		c.set(s, mean)
	}
}
