package sis

// StripGeometry holds the derived strip dimensions for one render
// configuration. It is recomputed whenever the render width, strip count,
// or sub-strip count changes; it is never set directly.
type StripGeometry struct {
	// Pixels is the strip width in pixels: the smallest integer at least
	// renderWidth/numStrips that is also a multiple of numSubStrips.
	Pixels int

	// Fraction is Pixels / renderWidth, the strip width in normalized
	// screen coordinates.
	Fraction float64
}

// ComputeStripGeometry derives pixel-aligned strip dimensions.
//
// Rounding the strip width up to a multiple of the sub-strip count puts
// every strip and sub-strip boundary on an exact pixel column. The
// compositor reads and writes pixel-aligned column ranges of the shared
// texture; fractional boundaries would corrupt the read-after-write
// chain between strips.
//
// Non-positive inputs are coerced to 1, so the result is always usable.
func ComputeStripGeometry(renderWidth, numStrips, numSubStrips int) StripGeometry {
	if renderWidth <= 0 {
		renderWidth = 1
	}
	if numStrips <= 0 {
		numStrips = 1
	}
	if numSubStrips <= 0 {
		numSubStrips = 1
	}

	pixels := (renderWidth + numStrips - 1) / numStrips
	for pixels%numSubStrips != 0 {
		pixels++
	}

	return StripGeometry{
		Pixels:   pixels,
		Fraction: float64(pixels) / float64(renderWidth),
	}
}

// AutoStripCount resolves the automatic strip count for a render width:
// ceil(8 * renderWidth / 1000). Requesting a negative strip count on the
// Renderer selects this resolution.
func AutoStripCount(renderWidth int) int {
	if renderWidth <= 0 {
		return 1
	}
	return (8*renderWidth + 999) / 1000
}
