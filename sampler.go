package rampmap

// SampleGrid converts g into a cell arena laid out by layout and returns the
// bounds of its valid samples.
//
// Cells are emitted row by row, one per sample. Every corner slot starts
// out equal to the raw sample. Missing samples do not contribute to the
// bounds. An empty grid yields zero cells and invalid bounds.
func SampleGrid(g *Grid, layout Layout) (*Cells, Bounds) {
	rows, cols := g.Dims()
	cells := &Cells{Rows: rows, Cols: cols}
	var b Bounds
	if rows == 0 || cols == 0 {
		return cells, b
	}

	h := float64(layout.Canvas.Height)
	cells.Items = make([]Cell, 0, rows*cols)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			v := g.At(j, i)
			b.Add(v)
			cells.Items = append(cells.Items, Cell{
				J:       j,
				I:       i,
				X:       layout.XSpacing * float64(j),
				Y:       h - layout.YSpacing*float64(i),
				Raw:     v,
				Corners: [4]float64{v, v, v, v},
				Missing: isMissing(v),
			})
		}
	}
	return cells, b
}
