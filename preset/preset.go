// Package preset provides named color ramps built from perceptual color
// maps.
//
// The Moreland maps come from gonum.org/v1/plot/palette/moreland and the
// hue palettes from gonum.org/v1/plot/palette. Each preset is sampled into
// evenly spaced stops:
//
//	stops, err := preset.Stops("kindlmann", 16)
//	ramp, err := r.PrepareColorRamp(ctx, stops)
package preset

import (
	"errors"
	"fmt"
	"image/color"
	"slices"

	"github.com/gogpu/rampmap"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// DefaultStops is the number of stops sampled when Stops is given n < 2.
const DefaultStops = 16

// ErrUnknown is returned for a preset name that is not registered.
var ErrUnknown = errors.New("preset: unknown color ramp")

// source produces the colors of a preset at n evenly spaced positions.
type source func(n int) ([]color.Color, error)

var presets = map[string]source{
	"blackbody":          colorMap(moreland.BlackBody),
	"extended-blackbody": colorMap(moreland.ExtendedBlackBody),
	"kindlmann":          colorMap(moreland.Kindlmann),
	"extended-kindlmann": colorMap(moreland.ExtendedKindlmann),
	"blue-red":           diverging(moreland.SmoothBlueRed),
	"blue-tan":           diverging(moreland.SmoothBlueTan),
	"green-purple":       diverging(moreland.SmoothGreenPurple),
	"green-red":          diverging(moreland.SmoothGreenRed),
	"purple-orange":      diverging(moreland.SmoothPurpleOrange),
	"heat": func(n int) ([]color.Color, error) {
		return palette.Heat(n, 1).Colors(), nil
	},
	"rainbow": func(n int) ([]color.Color, error) {
		// Blue through red; the full hue circle would wrap back to red.
		return palette.Rainbow(n, palette.Blue, palette.Red, 1, 1, 1).Colors(), nil
	},
}

func colorMap(newMap func() palette.ColorMap) source {
	return func(n int) ([]color.Color, error) {
		cm := newMap()
		cm.SetMin(0)
		cm.SetMax(1)
		return sample(cm, n)
	}
}

func diverging(newMap func() palette.DivergingColorMap) source {
	return func(n int) ([]color.Color, error) {
		cm := newMap()
		cm.SetMin(0)
		cm.SetMax(1)
		cm.SetConvergePoint(0.5)
		return sample(cm, n)
	}
}

// sample evaluates cm, ranged over [0, 1], at n evenly spaced points.
func sample(cm palette.ColorMap, n int) ([]color.Color, error) {
	colors := make([]color.Color, n)
	for k := range n {
		c, err := cm.At(float64(k) / float64(n-1))
		if err != nil {
			return nil, err
		}
		colors[k] = c
	}
	return colors, nil
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Stops samples the named preset into n evenly spaced color stops, the
// first at offset 0 and the last at offset 1.
func Stops(name string, n int) ([]rampmap.ColorStop, error) {
	src, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	if n < 2 {
		n = DefaultStops
	}
	colors, err := src(n)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	stops := make([]rampmap.ColorStop, len(colors))
	for k, c := range colors {
		stops[k] = rampmap.ColorStop{
			Offset: float64(k) / float64(len(colors)-1),
			Color:  rampmap.FromColor(c),
		}
	}
	return stops, nil
}

// Reverse returns stops mirrored end to end.
func Reverse(stops []rampmap.ColorStop) []rampmap.ColorStop {
	out := make([]rampmap.ColorStop, len(stops))
	for k, s := range stops {
		out[len(stops)-1-k] = rampmap.ColorStop{Offset: 1 - s.Offset, Color: s.Color}
	}
	return out
}
