package rampmap

import "errors"

var (
	// ErrRaggedGrid is returned by NewGrid when rows differ in length.
	ErrRaggedGrid = errors.New("rampmap: grid rows have different lengths")

	// ErrInvalidCanvas is returned for a canvas with a non-positive dimension.
	ErrInvalidCanvas = errors.New("rampmap: invalid canvas size")

	// ErrRampNotLoaded is returned by Render before a color ramp is prepared.
	ErrRampNotLoaded = errors.New("rampmap: color ramp not loaded")

	// ErrNoStops is returned when a color ramp is built without stops.
	ErrNoStops = errors.New("rampmap: color ramp has no stops")

	// ErrInvalidStop is returned for a stop offset outside [0, 1].
	ErrInvalidStop = errors.New("rampmap: invalid color stop")

	// ErrEmptyRampImage is returned by RampFromImage for an empty image.
	ErrEmptyRampImage = errors.New("rampmap: empty ramp image")

	// ErrInvalidColor is returned when a color string cannot be parsed.
	ErrInvalidColor = errors.New("rampmap: invalid color")

	// ErrNoBackend is returned when no render backend is available.
	ErrNoBackend = errors.New("rampmap: no render backend available")

	// ErrClosed is returned by operations on a closed Renderer.
	ErrClosed = errors.New("rampmap: renderer closed")

	// ErrNothingToRedraw is returned by Redraw before the first Render.
	ErrNothingToRedraw = errors.New("rampmap: nothing to redraw")
)
