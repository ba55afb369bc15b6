package main

import (
	"io"
	"math"

	"github.com/gogpu/rampmap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a rendered grid.
type Summary struct {
	Rows, Cols int
	Missing    int
	Min, Max   float64
	Mean       float64
	StdDev     float64
	Vertices   int
	Backend    string
	Output     string
}

// Summarize collects statistics over the valid samples of g.
func Summarize(g *rampmap.Grid) Summary {
	rows, cols := g.Dims()
	s := Summary{Rows: rows, Cols: cols}
	valid := make([]float64, 0, g.Len())
	for j := range rows {
		for i := range cols {
			if g.Missing(j, i) {
				s.Missing++
				continue
			}
			valid = append(valid, g.At(j, i))
		}
	}
	if len(valid) == 0 {
		s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min, s.Max = floats.Min(valid), floats.Max(valid)
	if len(valid) == 1 {
		s.Mean, s.StdDev = valid[0], 0
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(valid, nil)
	return s
}

// Print writes s for a human reader in tag's number format.
func (s Summary) Print(w io.Writer, tag language.Tag) {
	p := message.NewPrinter(tag)
	p.Fprintf(w, "rendered %d×%d grid (%d cells, %d missing) with %s backend\n",
		s.Rows, s.Cols, s.Rows*s.Cols, s.Missing, s.Backend)
	if math.IsNaN(s.Min) {
		p.Fprintf(w, "no valid samples\n")
	} else {
		p.Fprintf(w, "range %.4g to %.4g, mean %.4g, sd %.4g\n", s.Min, s.Max, s.Mean, s.StdDev)
	}
	p.Fprintf(w, "%d vertices written to %s\n", s.Vertices, s.Output)
}
