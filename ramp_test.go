package rampmap

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func redGreenStops() []ColorStop {
	return []ColorStop{
		{Offset: 0, Color: RGB(1, 0, 0)},
		{Offset: 1, Color: RGB(0, 1, 0)},
	}
}

func TestBuildRampImage(t *testing.T) {
	img, err := BuildRampImage(redGreenStops(), 0, ColorSpaceSRGB)
	if err != nil {
		t.Fatalf("BuildRampImage() error = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, DefaultRampWidth, 1) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	first, last := img.RGBAAt(0, 0), img.RGBAAt(DefaultRampWidth-1, 0)
	if first.R < 250 || first.G > 5 || first.A != 255 {
		t.Errorf("first texel = %v, want red", first)
	}
	if last.G < 250 || last.R > 5 || last.A != 255 {
		t.Errorf("last texel = %v, want green", last)
	}
	mid := img.RGBAAt(DefaultRampWidth/2, 0)
	if mid.R < 120 || mid.R > 130 || mid.G < 125 || mid.G > 135 {
		t.Errorf("middle texel = %v, want an even blend", mid)
	}
}

func TestBuildRampImageLinearSpace(t *testing.T) {
	stops := []ColorStop{{Offset: 0, Color: RGB(0, 0, 0)}, {Offset: 1, Color: RGB(1, 1, 1)}}
	srgb, _ := BuildRampImage(stops, 10, ColorSpaceSRGB)
	linear, _ := BuildRampImage(stops, 10, ColorSpaceLinear)
	// Blending in linear light brightens the encoded midpoint.
	if a, b := srgb.RGBAAt(5, 0).R, linear.RGBAAt(5, 0).R; b <= a {
		t.Errorf("linear midpoint %d not brighter than srgb midpoint %d", b, a)
	}
}

func TestBuildRampImageEqualOffsets(t *testing.T) {
	stops := []ColorStop{
		{Offset: 0.5, Color: RGB(1, 0, 0)},
		{Offset: 0.5, Color: RGB(0, 0, 1)},
		{Offset: 0, Color: RGB(0, 0, 0)},
		{Offset: 1, Color: RGB(1, 1, 1)},
	}
	img, err := BuildRampImage(stops, 100, ColorSpaceSRGB)
	if err != nil {
		t.Fatal(err)
	}
	// The earlier of two stops at the same offset ends the lower segment.
	if c := img.RGBAAt(49, 0); c.R < 240 || c.B > 10 {
		t.Errorf("texel 49 = %v, want red", c)
	}
	if c := img.RGBAAt(50, 0); c.B < 240 || c.R > 15 {
		t.Errorf("texel 50 = %v, want blue", c)
	}
}

func TestBuildRampImageSingleStop(t *testing.T) {
	img, err := BuildRampImage([]ColorStop{{Offset: 0.3, Color: RGB(0, 0, 1)}}, 4, ColorSpaceSRGB)
	if err != nil {
		t.Fatal(err)
	}
	for x := range 4 {
		if c := img.RGBAAt(x, 0); c != (color.RGBA{B: 255, A: 255}) {
			t.Errorf("texel %d = %v, want blue", x, c)
		}
	}
}

func TestBuildRampImageInvalid(t *testing.T) {
	tests := []struct {
		name  string
		stops []ColorStop
		want  error
	}{
		{"nil", nil, ErrNoStops},
		{"above one", []ColorStop{{Offset: 1.5}}, ErrInvalidStop},
		{"negative", []ColorStop{{Offset: 0}, {Offset: -0.1}}, ErrInvalidStop},
		{"nan", []ColorStop{{Offset: math.NaN()}}, ErrInvalidStop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildRampImage(tt.stops, 10, ColorSpaceSRGB); !errors.Is(err, tt.want) {
				t.Errorf("BuildRampImage() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSampleRamp(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	tests := []struct {
		u    float64
		want uint8
	}{
		{-3, 0},
		{0, 0},
		{0.25, 0},
		{0.5, 128},
		{0.75, 255},
		{1, 255},
		{7, 255},
	}
	for _, tt := range tests {
		if got := SampleRamp(img, tt.u); got.R != tt.want || got.A != 255 {
			t.Errorf("SampleRamp(%v) = %v, want R %d", tt.u, got, tt.want)
		}
	}
	if got := SampleRamp(image.NewRGBA(image.Rectangle{}), 0.5); got != (color.RGBA{}) {
		t.Errorf("SampleRamp(empty) = %v", got)
	}
}

func TestStopSpecOffset(t *testing.T) {
	tests := []struct {
		spec StopSpec
		want float64
	}{
		{StopSpec{Percent: 0.3, Value: 0.9}, 0.3},
		{StopSpec{Value: 0.7}, 0.7},
		{StopSpec{}, 0},
	}
	for _, tt := range tests {
		if got := tt.spec.Offset(); got != tt.want {
			t.Errorf("%+v.Offset() = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestParseStops(t *testing.T) {
	got, err := ParseStops([]StopSpec{
		{Color: "#000", Percent: 0},
		{Color: "white", Value: 1},
	})
	if err != nil {
		t.Fatalf("ParseStops() error = %v", err)
	}
	want := []ColorStop{
		{Offset: 0, Color: RGB(0, 0, 0)},
		{Offset: 1, Color: RGB(1, 1, 1)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseStops() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseStops([]StopSpec{{Color: "nope"}}); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("ParseStops(bad color) error = %v, want ErrInvalidColor", err)
	}
}

func TestCachedRampImage(t *testing.T) {
	stops := []ColorStop{
		{Offset: 1, Color: RGB(0.2, 0.4, 0.6)},
		{Offset: 0, Color: RGB(0.9, 0.1, 0.3)},
	}
	before := rampImages.Stats()
	a, err := cachedRampImage(stops, 37, ColorSpaceLinear)
	if err != nil {
		t.Fatal(err)
	}
	a.Pix[0] = 7

	// Reordered stops produce the same ramp and hit the cache.
	b, err := cachedRampImage([]ColorStop{stops[1], stops[0]}, 37, ColorSpaceLinear)
	if err != nil {
		t.Fatal(err)
	}
	after := rampImages.Stats()
	if after.Hits-before.Hits != 1 || after.Misses-before.Misses != 1 {
		t.Errorf("cache hits/misses delta = %d/%d, want 1/1",
			after.Hits-before.Hits, after.Misses-before.Misses)
	}

	want, _ := BuildRampImage(stops, 37, ColorSpaceLinear)
	if diff := cmp.Diff(want.Pix, b.Pix); diff != "" {
		t.Errorf("cached ramp differs from a fresh build (-want +got):\n%s", diff)
	}

	if _, err := cachedRampImage(nil, 37, ColorSpaceSRGB); !errors.Is(err, ErrNoStops) {
		t.Errorf("cachedRampImage(nil) error = %v", err)
	}
}

func TestRampFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 3))
	for x := range 8 {
		src.SetRGBA(x, 0, color.RGBA{R: 255, A: 255})
		src.SetRGBA(x, 1, color.RGBA{G: 255, A: 255})
		src.SetRGBA(x, 2, color.RGBA{B: 255, A: 255})
	}
	ramp, err := RampFromImage(src, 5)
	if err != nil {
		t.Fatalf("RampFromImage() error = %v", err)
	}
	if ramp.Bounds() != image.Rect(0, 0, 5, 1) {
		t.Fatalf("bounds = %v", ramp.Bounds())
	}
	for x := range 5 {
		if c := ramp.RGBAAt(x, 0); c != (color.RGBA{G: 255, A: 255}) {
			t.Errorf("texel %d = %v, want the middle row color", x, c)
		}
	}

	if _, err := RampFromImage(image.NewRGBA(image.Rectangle{}), 5); !errors.Is(err, ErrEmptyRampImage) {
		t.Errorf("RampFromImage(empty) error = %v", err)
	}
}
