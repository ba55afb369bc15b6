package rampmap

import "fmt"

// Canvas is the pixel size of the drawing surface.
type Canvas struct {
	Width, Height int
}

// Validate returns ErrInvalidCanvas unless both dimensions are positive.
func (c Canvas) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, c.Width, c.Height)
	}
	return nil
}

// Layout places grid cells on a canvas.
//
// The x axis is driven by the row index and the y axis by the column index,
// so XSpacing divides the canvas width among rows and YSpacing divides the
// canvas height among columns. For square grids this is the same as
// dividing by the column count on both axes.
type Layout struct {
	Canvas   Canvas
	XSpacing float64 // world units between cell centers along x
	YSpacing float64 // world units between cell centers along y
}

// NewLayout returns the layout for a rows×cols grid on canvas.
// Zero rows or columns give zero spacing.
func NewLayout(canvas Canvas, rows, cols int) Layout {
	l := Layout{Canvas: canvas}
	if rows > 0 {
		l.XSpacing = float64(canvas.Width) / float64(rows)
	}
	if cols > 0 {
		l.YSpacing = float64(canvas.Height) / float64(cols)
	}
	return l
}

// HalfExtents returns the half width and half height of a cell
// in canvas-fraction space.
func (l Layout) HalfExtents() (hw, hh float64) {
	return l.XSpacing / float64(l.Canvas.Width) / 2, l.YSpacing / float64(l.Canvas.Height) / 2
}
