package parallel

// Band is a half-open range of pixel rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int { return b.Y1 - b.Y0 }

// SplitRows divides height rows into at most n contiguous bands of at
// least minRows rows each. Band sizes differ by at most one row.
func SplitRows(height, n, minRows int) []Band {
	if height <= 0 {
		return nil
	}
	minRows = max(minRows, 1)
	n = max(min(n, height/minRows), 1)

	bands := make([]Band, 0, n)
	base, extra := height/n, height%n
	y := 0
	for i := range n {
		rows := base
		if i < extra {
			rows++
		}
		bands = append(bands, Band{Y0: y, Y1: y + rows})
		y += rows
	}
	return bands
}

// ForEachBand splits height rows across the pool and calls fn once per
// band, returning when every band is done. Bands never overlap, so fn may
// write the rows of its band without locking.
func ForEachBand(p *WorkerPool, height, minRows int, fn func(Band)) {
	bands := SplitRows(height, p.Workers(), minRows)
	if len(bands) == 1 {
		fn(bands[0])
		return
	}
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}
