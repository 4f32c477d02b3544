// Package sis renders single-image stereograms (SIS) from depth maps.
//
// # Overview
//
// A single-image stereogram is a wide image that, viewed with crossed or
// parallel eyes, reveals a hidden relief. sis generates one by strip
// compositing: the leftmost strip is filled with a background pattern
// (seeded noise or a scrolling tile), and every following strip is
// synthesized by re-sampling the already-committed output one strip-width
// to the left, shifted horizontally in proportion to the depth map. Each
// strip is committed into the shared stereogram texture before the next
// strip renders, because that next strip reads the pixels just written.
//
// # Quick Start
//
//	import "github.com/gogpu/sis"
//
//	// Depth map: any image whose red channel encodes depth.
//	depth, _ := sis.TextureFromImage(img)
//
//	r, _ := sis.NewRenderer(1024, 768)
//	defer r.Close()
//
//	if err := r.Render(depth); err != nil {
//	    log.Fatal(err)
//	}
//	out := r.Image() // *image.RGBA snapshot of the stereogram
//
// # Architecture
//
// The library is organized into:
//   - Public API: Renderer, Texture, Program, StripGeometry
//   - Internal: pix (pixel buffers, sampling), parallel (row shading pool)
//   - Backends: software compositing built in; backend/wgpu adds an
//     optional GPU accelerator (blank import to enable)
//
// Rendering is strictly serial along the strip axis; pixel shading inside
// one strip draw runs in parallel across rows.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Normalized screen coordinates in [0,1] with pixel centers at +0.5
package sis

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
