package sis

import "fmt"

// BackgroundMode selects how the leftmost reference strip is filled.
//
// The reference strip is the only part of the stereogram that is not
// derived from previously committed pixels, so its mode decides the
// visual character of the whole image.
type BackgroundMode uint8

const (
	// BackgroundNoise seeds the reference strip with procedural
	// grayscale noise. The noise is a pure function of pixel position
	// and the configured seed, so renders are reproducible.
	BackgroundNoise BackgroundMode = iota

	// BackgroundTile fills the reference strip from a user-supplied
	// texture, stretched to the strip quad and wrapped on overflow.
	// Scroll offsets shift the sampled region without re-uploading.
	BackgroundTile

	backgroundModeCount
)

// String returns a human-readable name for the mode.
func (m BackgroundMode) String() string {
	switch m {
	case BackgroundNoise:
		return "Noise"
	case BackgroundTile:
		return "Tile"
	default:
		return fmt.Sprintf("BackgroundMode(%d)", uint8(m))
	}
}

// IsValid reports whether m is one of the defined background modes.
func (m BackgroundMode) IsValid() bool {
	return m < backgroundModeCount
}

// Config holds the renderer parameters that shape strip geometry and
// background generation. Zero values are not usable directly; start
// from DefaultConfig and override.
type Config struct {
	// Width and Height are the output stereogram dimensions in pixels.
	Width  int
	Height int

	// NumStrips is the requested strip count. A negative value selects
	// an automatic count derived from Width. Zero and one both mean a
	// single strip, which renders the background only.
	NumStrips int

	// NumSubStrips subdivides each strip into serially committed
	// sub-strips. Higher values reduce the worst-case sampling lag
	// between a pixel and the committed region it reads from.
	NumSubStrips int

	// DepthFactor scales normalized depth into a horizontal sampling
	// displacement, expressed as a fraction of the render width.
	DepthFactor float64

	// Background selects the reference strip fill.
	Background BackgroundMode

	// NoiseSeed perturbs the noise hash. Stepping the seed is the
	// animation mechanism for noise backgrounds.
	NoiseSeed float64

	// TileScrollX and TileScrollY offset tile sampling in texture
	// space. One full unit scrolls one tile period.
	TileScrollX float64
	TileScrollY float64
}

// DefaultConfig returns the renderer defaults: 640x480 output, automatic
// strip count, two sub-strips per strip and a moderate depth factor.
func DefaultConfig() Config {
	return Config{
		Width:        640,
		Height:       480,
		NumStrips:    -1,
		NumSubStrips: 2,
		DepthFactor:  0.02,
		Background:   BackgroundNoise,
	}
}
