package rampmap

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gogpu/rampmap/internal/cache"
	icolor "github.com/gogpu/rampmap/internal/color"
	"golang.org/x/image/draw"
)

// DefaultRampWidth is the width in pixels of a ramp texture.
const DefaultRampWidth = 100

// ColorSpace selects how ramp colors are interpolated between stops.
type ColorSpace = icolor.ColorSpace

const (
	// ColorSpaceSRGB blends encoded components, like a browser canvas gradient.
	ColorSpaceSRGB = icolor.ColorSpaceSRGB
	// ColorSpaceLinear blends in linear RGB.
	ColorSpaceLinear = icolor.ColorSpaceLinear
)

// ColorStop is a color at a position along the ramp.
type ColorStop struct {
	Offset float64 // position along the ramp, 0.0 to 1.0
	Color  RGBA
}

// StopSpec is a loosely specified stop as found in configuration files.
// The offset is Percent if non-zero, otherwise Value, otherwise 0.
type StopSpec struct {
	Color   string  `json:"color" toml:"color"`
	Percent float64 `json:"percent,omitempty" toml:"percent"`
	Value   float64 `json:"value,omitempty" toml:"value"`
}

// Offset returns the stop position selected by s.
func (s StopSpec) Offset() float64 {
	if s.Percent != 0 {
		return s.Percent
	}
	return s.Value
}

// ParseStops converts specs to color stops, preserving order.
func ParseStops(specs []StopSpec) ([]ColorStop, error) {
	stops := make([]ColorStop, 0, len(specs))
	for k, s := range specs {
		c, err := ParseColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", k, err)
		}
		stops = append(stops, ColorStop{Offset: s.Offset(), Color: c})
	}
	return stops, nil
}

// validateStops checks that there is at least one stop and that every
// offset lies in [0, 1].
func validateStops(stops []ColorStop) error {
	if len(stops) == 0 {
		return ErrNoStops
	}
	for k, s := range stops {
		if math.IsNaN(s.Offset) || s.Offset < 0 || s.Offset > 1 {
			return fmt.Errorf("%w: stop %d offset %v outside [0, 1]", ErrInvalidStop, k, s.Offset)
		}
	}
	return nil
}

// sortStops returns a copy of stops ordered by offset. Stops with equal
// offsets keep their relative order, producing a hard edge.
func sortStops(stops []ColorStop) []ColorStop {
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return sorted
}

// colorAtOffset returns the ramp color at t. sorted must be non-empty and
// ordered by offset. Positions before the first stop or after the last one
// take that stop's color.
func colorAtOffset(sorted []ColorStop, t float64, space ColorSpace) RGBA {
	idx := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Offset > t
	})
	if idx == 0 {
		return sorted[0].Color
	}
	if idx >= len(sorted) {
		return sorted[len(sorted)-1].Color
	}
	s1, s2 := sorted[idx-1], sorted[idx]
	localT := (t - s1.Offset) / (s2.Offset - s1.Offset)
	return fromF32(icolor.Lerp(toF32(s1.Color), toF32(s2.Color), float32(localT), space))
}

func toF32(c RGBA) icolor.ColorF32 {
	return icolor.ColorF32{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: float32(c.A)}
}

func fromF32(c icolor.ColorF32) RGBA {
	return RGBA{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

// BuildRampImage renders stops as a horizontal linear gradient into a
// width×1 image. Pixel x samples the gradient at (x+0.5)/width.
func BuildRampImage(stops []ColorStop, width int, space ColorSpace) (*image.RGBA, error) {
	if err := validateStops(stops); err != nil {
		return nil, err
	}
	if width <= 0 {
		width = DefaultRampWidth
	}
	sorted := sortStops(stops)
	img := image.NewRGBA(image.Rect(0, 0, width, 1))
	for x := 0; x < width; x++ {
		t := (float64(x) + 0.5) / float64(width)
		img.Set(x, 0, colorAtOffset(sorted, t, space).NRGBA())
	}
	return img, nil
}

// RampFromImage resamples the middle row of src into a width×1 ramp,
// for colormaps distributed as image strips. Width 0 selects
// DefaultRampWidth.
func RampFromImage(src image.Image, width int) (*image.RGBA, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptyRampImage
	}
	if width <= 0 {
		width = DefaultRampWidth
	}
	mid := b.Min.Y + b.Dy()/2
	dst := image.NewRGBA(image.Rect(0, 0, width, 1))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, image.Rect(b.Min.X, mid, b.Max.X, mid+1), draw.Src, nil)
	return dst, nil
}

// rampImages holds recently built ramps keyed by stops, width and space.
var rampImages = cache.New[string, *image.RGBA](32)

func rampKey(sorted []ColorStop, width int, space ColorSpace) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(width))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(int(space)))
	for _, s := range sorted {
		for _, f := range [...]float64{s.Offset, s.Color.R, s.Color.G, s.Color.B, s.Color.A} {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
	}
	return b.String()
}

// cachedRampImage is BuildRampImage backed by rampImages. The result is a
// private copy the caller may keep.
func cachedRampImage(stops []ColorStop, width int, space ColorSpace) (*image.RGBA, error) {
	if err := validateStops(stops); err != nil {
		return nil, err
	}
	if width <= 0 {
		width = DefaultRampWidth
	}
	img, err := rampImages.GetOrCreate(rampKey(sortStops(stops), width, space), func() (*image.RGBA, error) {
		return BuildRampImage(stops, width, space)
	})
	if err != nil {
		return nil, err
	}
	cp := image.NewRGBA(img.Bounds())
	copy(cp.Pix, img.Pix)
	return cp, nil
}

// ColorRamp is a ramp texture that has been built and handed to a backend.
type ColorRamp struct {
	stops   []ColorStop
	image   *image.RGBA
	texture RampTexture
	owner   Backend
}

// Stops returns the stops the ramp was built from, sorted by offset.
func (r *ColorRamp) Stops() []ColorStop {
	return append([]ColorStop(nil), r.stops...)
}

// Image returns the ramp pixels.
func (r *ColorRamp) Image() *image.RGBA { return r.image }

// Width returns the ramp width in pixels.
func (r *ColorRamp) Width() int { return r.image.Bounds().Dx() }

// At returns the ramp color at u in [0, 1], linearly filtered between
// texel centers and clamped to the edge texels.
func (r *ColorRamp) At(u float64) color.RGBA {
	return SampleRamp(r.image, u)
}

// release frees the backend texture.
func (r *ColorRamp) release() {
	if r.texture != nil {
		r.texture.Release()
		r.texture = nil
	}
}

// SampleRamp looks up u in a one-pixel-tall ramp image with linear
// filtering and clamp-to-edge addressing. The result is premultiplied.
func SampleRamp(img *image.RGBA, u float64) color.RGBA {
	w := img.Bounds().Dx()
	if w == 0 {
		return color.RGBA{}
	}
	p := clamp01(u)*float64(w) - 0.5
	x0 := int(math.Floor(p))
	f := p - float64(x0)
	x1 := x0 + 1
	x0 = min(max(x0, 0), w-1)
	x1 = min(max(x1, 0), w-1)

	minX := img.Bounds().Min.X
	a := img.RGBAAt(minX+x0, img.Bounds().Min.Y)
	b := img.RGBAAt(minX+x1, img.Bounds().Min.Y)
	mix := func(p, q uint8) uint8 {
		return uint8(float64(p)*(1-f) + float64(q)*f + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
