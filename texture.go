package sis

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/sis/internal/pix"
)

// Texture errors.
var (
	// ErrNilImage is returned when constructing a texture from a nil
	// image.
	ErrNilImage = errors.New("sis: nil image")

	// ErrInvalidTextureSize is returned for zero or negative texture
	// dimensions.
	ErrInvalidTextureSize = errors.New("sis: invalid texture size")
)

// Texture is a CPU-resident image sampled by strip shaders. Depth maps
// arrive as red-channel textures, background tiles as color textures,
// and the stereogram itself is an RGB texture owned by the renderer.
type Texture struct {
	buf *pix.Buffer
}

// NewTexture creates a blank RGB texture of the given size.
func NewTexture(width, height int) (*Texture, error) {
	buf, err := pix.New(width, height, pix.FormatRGB8)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, width, height)
	}
	return &Texture{buf: buf}, nil
}

// TextureFromImage converts a decoded image into a texture. Grayscale
// images keep their single channel, which makes them cheap depth
// sources; everything else converts to RGBA.
func TextureFromImage(img image.Image) (*Texture, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, w, h)
	}

	switch src := img.(type) {
	case *image.Gray:
		buf, err := pix.New(w, h, pix.FormatGray8)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), src.Pix[off:off+w])
		}
		return &Texture{buf: buf}, nil

	case *image.RGBA:
		buf, err := pix.New(w, h, pix.FormatRGBA8)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), src.Pix[off:off+w*4])
		}
		return &Texture{buf: buf}, nil

	default:
		rgba := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)
		return TextureFromImage(rgba)
	}
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	return t.buf.Width()
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	return t.buf.Height()
}

// Bounds returns the texture rectangle anchored at the origin.
func (t *Texture) Bounds() image.Rectangle {
	w, h := t.buf.Bounds()
	return image.Rect(0, 0, w, h)
}

// Format returns the GPU texture format matching the CPU layout.
// Grayscale textures upload as single-channel; RGB expands to RGBA on
// upload, so both map to the RGBA format.
func (t *Texture) Format() gputypes.TextureFormat {
	if t.buf.Format() == pix.FormatGray8 {
		return gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// RGBA returns the texture as tightly packed RGBA bytes, 4 per pixel,
// row-major. Grayscale replicates into the color channels and opaque
// alpha is synthesized where the source has none. Accelerators use this
// as their upload form.
func (t *Texture) RGBA() []uint8 {
	w, h := t.buf.Bounds()
	out := make([]uint8, w*h*4)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := t.buf.GetRGBA(x, y)
			out[i+0] = r
			out[i+1] = g
			out[i+2] = b
			out[i+3] = a
			i += 4
		}
	}
	return out
}

// Image copies the texture into a standard library RGBA image.
func (t *Texture) Image() *image.RGBA {
	w, h := t.buf.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		i := 0
		for x := 0; x < w; x++ {
			r, g, b, a := t.buf.GetRGBA(x, y)
			row[i+0] = r
			row[i+1] = g
			row[i+2] = b
			row[i+3] = a
			i += 4
		}
	}
	return img
}

// Clone returns a deep copy of the texture.
func (t *Texture) Clone() *Texture {
	return &Texture{buf: t.buf.Clone()}
}
