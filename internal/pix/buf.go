package pix

import "errors"

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("pix: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("pix: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("pix: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("pix: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside buffer bounds.
	ErrOutOfBounds = errors.New("pix: coordinates out of bounds")
)

// Buffer is a contiguous pixel buffer with row stride.
//
// Buffer is the storage behind every texture the renderer touches: the
// stereogram (RGB8), depth maps (Gray8 or any RGBA-decoded image), tiles,
// and the scratch strip the compositor renders into before each commit.
//
// Thread safety: Buffer is safe for concurrent read access. Writes require
// external synchronization; the compositor guarantees that strip writes
// never overlap reads of the same region.
type Buffer struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// New creates a pixel buffer with the given dimensions and format.
// Returns an error if dimensions are invalid or the format is unknown.
func New(width, height int, format Format) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	data := make([]byte, stride*height)

	return &Buffer{
		data:   data,
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw creates a Buffer from existing data without copying.
// The caller must ensure data remains valid for the lifetime of the Buffer.
// Stride must be at least format.RowBytes(width).
func FromRaw(data []byte, width, height int, format Format, stride int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	minStride := format.RowBytes(width)
	if stride < minStride {
		return nil, ErrInvalidStride
	}

	requiredSize := stride * height
	if len(data) < requiredSize {
		return nil, ErrDataTooSmall
	}

	return &Buffer{
		data:   data[:requiredSize],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Clone creates a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	newData := make([]byte, len(b.data))
	copy(newData, b.data)

	return &Buffer{
		data:   newData,
		width:  b.width,
		height: b.height,
		stride: b.stride,
		format: b.format,
	}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Stride returns the number of bytes per row (including padding).
func (b *Buffer) Stride() int {
	return b.stride
}

// Format returns the pixel format.
func (b *Buffer) Format() Format {
	return b.format
}

// Bounds returns the buffer dimensions as (width, height).
func (b *Buffer) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice.
func (b *Buffer) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *Buffer) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	end := start + b.format.RowBytes(b.width)
	return b.data[start:end]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *Buffer) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// GetRGBA returns the color at (x, y) as (r, g, b, a) in 0-255 range.
// For grayscale formats, r=g=b=gray and a=255.
// For formats without alpha, a=255.
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *Buffer) GetRGBA(x, y int) (r, g, bl, a uint8) {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return 0, 0, 0, 0
	}

	switch b.format {
	case FormatGray8:
		v := b.data[offset]
		return v, v, v, 255
	case FormatRGB8:
		return b.data[offset], b.data[offset+1], b.data[offset+2], 255
	case FormatRGBA8:
		return b.data[offset], b.data[offset+1], b.data[offset+2], b.data[offset+3]
	default:
		return 0, 0, 0, 0
	}
}

// SetRGBA sets the color at (x, y) from (r, g, b, a) in 0-255 range.
// For grayscale formats, uses standard luminance weights.
// Returns ErrOutOfBounds if coordinates are outside buffer bounds.
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) error {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}

	switch b.format {
	case FormatGray8:
		// Standard luminance: 0.299*R + 0.587*G + 0.114*B
		gray := (int(r)*299 + int(g)*587 + int(bl)*114) / 1000
		b.data[offset] = byte(gray)
	case FormatRGB8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
	case FormatRGBA8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
		b.data[offset+3] = a
	}

	return nil
}

// Red returns the red channel at (x, y), or 0 if out of bounds.
// Depth maps encode their sample in the red channel, so this is the
// hot accessor for depth lookups.
func (b *Buffer) Red(x, y int) uint8 {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return 0
	}
	return b.data[offset]
}

// Clear sets all pixels to zero (black, transparent for RGBA).
func (b *Buffer) Clear() {
	clear(b.data)
}

// Fill sets all pixels to the given RGBA color.
func (b *Buffer) Fill(r, g, bl, a uint8) {
	for y := range b.height {
		for x := range b.width {
			_ = b.SetRGBA(x, y, r, g, bl, a)
		}
	}
}

// CopyColumns copies width columns starting at column srcX of src into
// this buffer at column dstX. Rows are copied over the full shared height.
// The copy is clamped to both buffers' bounds; the number of columns
// actually copied is returned. Both buffers must share the same format.
func (b *Buffer) CopyColumns(dstX int, src *Buffer, srcX, width int) int {
	if src == nil || b.format != src.format || width <= 0 {
		return 0
	}
	if dstX < 0 || srcX < 0 {
		return 0
	}
	if dstX+width > b.width {
		width = b.width - dstX
	}
	if srcX+width > src.width {
		width = src.width - srcX
	}
	if width <= 0 {
		return 0
	}

	height := b.height
	if src.height < height {
		height = src.height
	}

	bpp := b.format.BytesPerPixel()
	n := width * bpp
	for y := 0; y < height; y++ {
		dstOff := y*b.stride + dstX*bpp
		srcOff := y*src.stride + srcX*bpp
		copy(b.data[dstOff:dstOff+n], src.data[srcOff:srcOff+n])
	}
	return width
}

// ByteSize returns the total size of the pixel data in bytes.
func (b *Buffer) ByteSize() int {
	return len(b.data)
}
