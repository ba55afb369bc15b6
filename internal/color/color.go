// Package color provides the color space math used to build ramp textures.
package color

// ColorSpace selects the space in which ramp colors are interpolated.
type ColorSpace uint8

const (
	// ColorSpaceSRGB interpolates gamma-encoded components directly,
	// matching how browser canvas gradients are composited.
	ColorSpaceSRGB ColorSpace = iota
	// ColorSpaceLinear converts to linear RGB, interpolates, and converts back.
	ColorSpaceLinear
)

func (s ColorSpace) String() string {
	switch s {
	case ColorSpaceLinear:
		return "linear"
	default:
		return "srgb"
	}
}

// ColorF32 represents a color with float32 components in [0,1].
// RGB components are sRGB-encoded unless stated otherwise.
// Alpha is always linear.
type ColorF32 struct {
	R, G, B, A float32
}

// Lerp interpolates between two sRGB colors at t in the given space.
// The result is sRGB-encoded.
func Lerp(a, b ColorF32, t float32, space ColorSpace) ColorF32 {
	if space == ColorSpaceLinear {
		a, b = SRGBToLinearColor(a), SRGBToLinearColor(b)
	}
	out := ColorF32{
		R: a.R + t*(b.R-a.R),
		G: a.G + t*(b.G-a.G),
		B: a.B + t*(b.B-a.B),
		A: a.A + t*(b.A-a.A),
	}
	if space == ColorSpaceLinear {
		out = LinearToSRGBColor(out)
	}
	return out
}
