package rampmap

// Tessellate runs the full CPU pipeline on g: sampling, optional corner
// smoothing and mesh emission. Only WithInterpolation affects the result;
// other options are ignored.
func Tessellate(g *Grid, canvas Canvas, opts ...Option) (*Mesh, error) {
	if err := canvas.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	return tessellate(g, canvas, o.interpolate), nil
}

func tessellate(g *Grid, canvas Canvas, interpolate bool) *Mesh {
	rows, cols := g.Dims()
	layout := NewLayout(canvas, rows, cols)
	cells, bounds := SampleGrid(g, layout)
	if interpolate {
		Smooth(cells)
	}
	return BuildMesh(cells, bounds, layout)
}
