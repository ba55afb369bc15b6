package rampmap

import "log/slog"

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := rampmap.New(canvas,
//	    rampmap.WithBackend(backend.NewSoftwareBackend()),
//	    rampmap.WithInterpolation(false),
//	)
type Option func(*options)

// options holds optional configuration for Renderer and Tessellate.
type options struct {
	backend     Backend
	interpolate bool
	rampWidth   int
	colorSpace  ColorSpace
	logger      *slog.Logger
}

// defaultOptions returns the default options.
func defaultOptions() options {
	return options{
		interpolate: true,
		rampWidth:   DefaultRampWidth,
		colorSpace:  ColorSpaceSRGB,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBackend sets the backend the Renderer draws with.
// The Renderer initializes it and closes it on Close.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithInterpolation enables or disables corner smoothing.
// Smoothing is enabled by default; without it every cell is drawn flat.
func WithInterpolation(enabled bool) Option {
	return func(o *options) {
		o.interpolate = enabled
	}
}

// WithRampWidth sets the width in pixels of ramp textures.
// Non-positive widths select DefaultRampWidth.
func WithRampWidth(width int) Option {
	return func(o *options) {
		if width <= 0 {
			width = DefaultRampWidth
		}
		o.rampWidth = width
	}
}

// WithRampColorSpace sets the space in which ramp stops are blended.
func WithRampColorSpace(space ColorSpace) Option {
	return func(o *options) {
		o.colorSpace = space
	}
}

// WithLogger sets a logger for a single Renderer, overriding the package
// logger returned by Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
