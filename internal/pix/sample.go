package pix

import "math"

// SpreadMode determines how sampling handles coordinates outside [0,1].
type SpreadMode uint8

const (
	// SpreadPad clamps coordinates to the edge (default).
	// Depth maps and the stereogram texture sample with this mode.
	SpreadPad SpreadMode = iota

	// SpreadRepeat tiles the image; coordinates wrap at the boundaries.
	// Background tiles sample with this mode.
	SpreadRepeat
)

// String returns a string representation of the spread mode.
func (s SpreadMode) String() string {
	switch s {
	case SpreadPad:
		return "Pad"
	case SpreadRepeat:
		return "Repeat"
	default:
		return "Unknown"
	}
}

// applySpread maps a normalized coordinate into [0,1) per the spread mode.
func applySpread(t float64, mode SpreadMode) float64 {
	switch mode {
	case SpreadRepeat:
		return t - math.Floor(t)
	default:
		return clampFloat(t, 0, 1)
	}
}

// wrapCoord maps an integer pixel coordinate into [0, n) per the spread mode.
// Bilinear sampling needs this for the +1 neighbor so that repeat-mode
// interpolation blends across the tile seam instead of clamping at it.
func wrapCoord(x, n int, mode SpreadMode) int {
	if mode == SpreadRepeat {
		x %= n
		if x < 0 {
			x += n
		}
		return x
	}
	return clampInt(x, 0, n-1)
}

// SampleNearest samples the buffer at normalized coordinates (u, v) by
// selecting the pixel containing the coordinate. (0,0) is top-left and
// (1,1) is bottom-right.
func SampleNearest(b *Buffer, u, v float64, mode SpreadMode) (r, g, bl, a uint8) {
	w, h := b.Bounds()

	u = applySpread(u, mode)
	v = applySpread(v, mode)

	x := int(math.Floor(u * float64(w)))
	y := int(math.Floor(v * float64(h)))

	// u or v exactly 1.0 lands one past the last pixel.
	x = clampInt(x, 0, w-1)
	y = clampInt(y, 0, h-1)

	return b.GetRGBA(x, y)
}

// SampleBilinear samples the buffer at normalized coordinates (u, v),
// interpolating between the 4 neighboring pixels with linear weights.
// Neighbor coordinates follow the spread mode, so repeat-mode sampling
// is seamless across tile boundaries.
func SampleBilinear(b *Buffer, u, v float64, mode SpreadMode) (r, g, bl, a uint8) {
	w, h := b.Bounds()

	u = applySpread(u, mode)
	v = applySpread(v, mode)

	// Continuous pixel coordinates with pixel centers at +0.5.
	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := wrapCoord(x0+1, w, mode)
	y1 := wrapCoord(y0+1, h, mode)
	x0 = wrapCoord(x0, w, mode)
	y0 = wrapCoord(y0, h, mode)

	r00, g00, b00, a00 := b.GetRGBA(x0, y0)
	r10, g10, b10, a10 := b.GetRGBA(x1, y0)
	r01, g01, b01, a01 := b.GetRGBA(x0, y1)
	r11, g11, b11, a11 := b.GetRGBA(x1, y1)

	r = uint8(lerp2D(float64(r00), float64(r10), float64(r01), float64(r11), tx, ty))
	g = uint8(lerp2D(float64(g00), float64(g10), float64(g01), float64(g11), tx, ty))
	bl = uint8(lerp2D(float64(b00), float64(b10), float64(b01), float64(b11), tx, ty))
	a = uint8(lerp2D(float64(a00), float64(a10), float64(a01), float64(a11), tx, ty))

	return r, g, bl, a
}

// SampleRed is SampleBilinear restricted to the red channel.
// Depth lookups are red-only, so skipping the other channels keeps the
// per-pixel displacement path cheap.
func SampleRed(b *Buffer, u, v float64, mode SpreadMode) float64 {
	w, h := b.Bounds()

	u = applySpread(u, mode)
	v = applySpread(v, mode)

	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := wrapCoord(x0+1, w, mode)
	y1 := wrapCoord(y0+1, h, mode)
	x0 = wrapCoord(x0, w, mode)
	y0 = wrapCoord(y0, h, mode)

	return lerp2D(
		float64(b.Red(x0, y0)), float64(b.Red(x1, y0)),
		float64(b.Red(x0, y1)), float64(b.Red(x1, y1)),
		tx, ty,
	)
}

// clampInt clamps an integer value to [minVal, maxVal].
func clampInt(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// clampFloat clamps a float64 value to [minVal, maxVal].
func clampFloat(val, minVal, maxVal float64) float64 {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// lerp performs linear interpolation between a and b. The incremental
// form keeps lerp(a, a, t) exactly a, so uniform regions survive
// resampling byte-identical.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// lerp2D performs bilinear interpolation on a 2x2 grid.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	v0 := lerp(v00, v10, tx)
	v1 := lerp(v01, v11, tx)
	return lerp(v0, v1, ty)
}
