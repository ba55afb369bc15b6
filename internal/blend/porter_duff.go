// Package blend implements the Porter-Duff operators used when compositing
// ramp fragments onto a target.
//
// All operations work on premultiplied alpha values in the range 0-255.
package blend

import "image/color"

// Over composites src over dst.
func Over(src, dst color.RGBA) color.RGBA {
	r, g, b, a := blendSourceOver(src.R, src.G, src.B, src.A, dst.R, dst.G, dst.B, dst.A)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// blendSourceOver computes S + D*(1-Sa).
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addDiv255(sr, mulDiv255(dr, invSa)),
		addDiv255(sg, mulDiv255(dg, invSa)),
		addDiv255(sb, mulDiv255(db, invSa)),
		addDiv255(sa, mulDiv255(da, invSa))
}

// mulDiv255 computes a*b/255 rounded to nearest.
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// addDiv255 adds two byte values with clamping to 255.
func addDiv255(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}
