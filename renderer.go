package sis

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/sis/internal/pix"
)

// Renderer errors.
var (
	// ErrNilDepth is returned by Render when the depth texture is nil.
	ErrNilDepth = errors.New("sis: nil depth texture")

	// ErrNoTileTexture is returned by Render when the background mode
	// is BackgroundTile but no tile texture has been set.
	ErrNoTileTexture = errors.New("sis: tile background selected but no tile texture set")

	// ErrInvalidBackgroundMode is returned when a background mode
	// outside the two defined values is requested.
	ErrInvalidBackgroundMode = errors.New("sis: invalid background mode")

	// ErrRendererClosed is returned by operations on a closed renderer.
	ErrRendererClosed = errors.New("sis: renderer is closed")
)

// Renderer composites single-image stereograms strip by strip.
//
// The leftmost reference strip is filled by a background program, noise
// or tile. Every following sub-strip is shaded by the displacement
// program, which reads the stereogram itself one strip-width to the
// left, then is committed into the stereogram before the next sub-strip
// is drawn. That commit ordering is the algorithm: each draw depends on
// pixels the previous draw just wrote.
//
// A Renderer owns its stereogram texture, its scratch strip and its
// worker pool. It is not safe for concurrent use; Render must not run
// concurrently with any setter.
type Renderer struct {
	cfg Config

	// Resolved from cfg on every geometry-affecting change.
	strips int
	subs   int
	geom   StripGeometry

	stereogram *Texture
	scratch    *pix.Buffer
	tile       *Texture

	noiseProg    *Program
	tileProg     *Program
	displaceProg *Program

	raster *rasterizer

	closed bool
}

// NewRenderer creates a renderer producing width x height stereograms.
// Non-positive dimensions are coerced to 1; degenerate configuration
// must never break the frame loop.
func NewRenderer(width, height int, opts ...RendererOption) (*Renderer, error) {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.cfg
	cfg.Width = coerceMin(width, 1)
	cfg.Height = coerceMin(height, 1)
	if !cfg.Background.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBackgroundMode, cfg.Background)
	}

	r := &Renderer{
		cfg:    cfg,
		tile:   o.tile,
		raster: newRasterizer(o.workers),

		noiseProg:    NewNoiseProgram(),
		tileProg:     NewTileProgram(),
		displaceProg: NewDisplaceProgram(),
	}
	if err := r.reshape(); err != nil {
		r.raster.close()
		return nil, err
	}

	Logger().Debug("renderer created",
		"width", cfg.Width, "height", cfg.Height,
		"strips", r.strips, "subStrips", r.subs,
		"stripPixels", r.geom.Pixels)

	return r, nil
}

// reshape resolves the strip layout from the current config and
// recreates the stereogram and scratch buffers when their sizes
// changed. Buffers are reused across frames otherwise; the per-strip
// loop never allocates.
func (r *Renderer) reshape() error {
	strips := r.cfg.NumStrips
	if strips < 0 {
		strips = AutoStripCount(r.cfg.Width)
	}
	r.strips = coerceMin(strips, 1)
	r.subs = coerceMin(r.cfg.NumSubStrips, 1)
	r.geom = ComputeStripGeometry(r.cfg.Width, r.strips, r.subs)

	w, h := r.cfg.Width, r.cfg.Height
	if r.stereogram == nil || r.stereogram.Width() != w || r.stereogram.Height() != h {
		t, err := NewTexture(w, h)
		if err != nil {
			return err
		}
		r.stereogram = t
	}

	scratchW := r.geom.Pixels + r.subs
	if r.scratch == nil || r.scratch.Width() != scratchW || r.scratch.Height() != h {
		buf, err := pix.New(scratchW, h, pix.FormatRGB8)
		if err != nil {
			return err
		}
		r.scratch = buf
	}
	return nil
}

// SetSize reconfigures the output dimensions. The stereogram texture is
// recreated, so previously rendered contents are discarded. Must not be
// called while Render is in flight.
func (r *Renderer) SetSize(width, height int) {
	width = coerceMin(width, 1)
	height = coerceMin(height, 1)
	if width == r.cfg.Width && height == r.cfg.Height {
		return
	}
	r.cfg.Width = width
	r.cfg.Height = height
	_ = r.reshape()
}

// SetNumStrips sets the strip count. Negative values select an
// automatic count derived from the render width; zero is coerced to
// one.
func (r *Renderer) SetNumStrips(n int) {
	if n == r.cfg.NumStrips {
		return
	}
	r.cfg.NumStrips = n
	_ = r.reshape()
}

// SetNumSubStrips sets the sub-strip subdivision. Values below one are
// coerced to one.
func (r *Renderer) SetNumSubStrips(n int) {
	n = coerceMin(n, 1)
	if n == r.cfg.NumSubStrips {
		return
	}
	r.cfg.NumSubStrips = n
	_ = r.reshape()
}

// SetDepthFactor sets the displacement scale. Typical values sit in
// [0.01, 0.02]; the value is not clamped.
func (r *Renderer) SetDepthFactor(f float64) {
	r.cfg.DepthFactor = f
}

// SetBackgroundMode selects the reference strip fill. Only
// BackgroundNoise and BackgroundTile are accepted.
func (r *Renderer) SetBackgroundMode(m BackgroundMode) error {
	if !m.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidBackgroundMode, m)
	}
	r.cfg.Background = m
	return nil
}

// SetTileTexture sets the texture sampled by the tile background. A nil
// texture clears it; rendering in tile mode without one fails.
func (r *Renderer) SetTileTexture(t *Texture) {
	r.tile = t
}

// SetTileScroll sets the tile-space scroll offset. One full unit
// scrolls one tile period; values outside [0,1] simply wrap.
func (r *Renderer) SetTileScroll(x, y float64) {
	r.cfg.TileScrollX = x
	r.cfg.TileScrollY = y
}

// SetNoiseSeed sets the noise hash seed. Equal seeds reproduce the
// exact background; stepping the seed animates it.
func (r *Renderer) SetNoiseSeed(seed float64) {
	r.cfg.NoiseSeed = seed
}

// Config returns a copy of the current configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Geometry returns the derived strip geometry.
func (r *Renderer) Geometry() StripGeometry {
	return r.geom
}

// NumStrips returns the resolved strip count, with auto and degenerate
// requests already applied.
func (r *Renderer) NumStrips() int {
	return r.strips
}

// NumSubStrips returns the resolved sub-strip count.
func (r *Renderer) NumSubStrips() int {
	return r.subs
}

// Size returns the output dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.cfg.Width, r.cfg.Height
}

// Texture returns the stereogram texture. The same texture instance is
// repainted by every Render call; callers needing a stable snapshot
// should Clone it.
func (r *Renderer) Texture() *Texture {
	return r.stereogram
}

// Image returns the current stereogram as a standard library image.
func (r *Renderer) Image() *image.RGBA {
	return r.stereogram.Image()
}

// Render paints one full stereogram from the given depth texture.
//
// The call performs one reference draw plus (strips-1)*subStrips
// displacement draws, each committed before the next begins. It either
// paints the whole texture and returns nil, or returns an error with
// the texture contents undefined for this frame.
func (r *Renderer) Render(depth *Texture) error {
	if r.closed {
		return ErrRendererClosed
	}
	if depth == nil {
		return ErrNilDepth
	}

	bg, err := r.backgroundProgram()
	if err != nil {
		return err
	}

	w, h := r.cfg.Width, r.cfg.Height
	p := r.geom.Pixels
	subPx := p / r.subs

	// Reference strip: the full first strip plus slack columns that
	// guard against rounding gaps at strip boundaries, committed at
	// column 0.
	refWidth := p + r.subs
	if refWidth > w {
		refWidth = w
	}
	quad := StripQuad{
		X:            0,
		QuadWidth:    p,
		Width:        refWidth,
		ScreenWidth:  w,
		ScreenHeight: h,
	}
	if err := r.drawStrip(quad, bg); err != nil {
		return err
	}
	r.commitStrip(0, refWidth)

	if r.strips == 1 {
		return nil
	}

	if err := r.setDisplaceUniforms(depth); err != nil {
		return err
	}

	// Each sub-strip reads pixels one strip-width left of itself, which
	// the previous iterations just committed. The loop is serial by
	// construction; only rows within one draw shade in parallel.
	for strip := 1; strip < r.strips; strip++ {
		for sub := 0; sub < r.subs; sub++ {
			index := r.subs*strip + sub
			x0 := index * subPx
			if x0 >= w {
				continue
			}
			width := subPx + r.subs
			if x0+width > w {
				width = w - x0
			}

			q := StripQuad{
				X:            x0,
				QuadWidth:    subPx,
				Width:        width,
				ScreenWidth:  w,
				ScreenHeight: h,
			}
			if err := r.drawStrip(q, r.displaceProg); err != nil {
				return err
			}
			r.commitStrip(x0, width)
		}
	}
	return nil
}

// backgroundProgram returns the program for the reference strip with
// its uniforms loaded from the current config.
func (r *Renderer) backgroundProgram() (*Program, error) {
	switch r.cfg.Background {
	case BackgroundNoise:
		if err := r.noiseProg.SetFloat(UniformSeed, r.cfg.NoiseSeed); err != nil {
			return nil, err
		}
		return r.noiseProg, nil

	case BackgroundTile:
		if r.tile == nil {
			return nil, ErrNoTileTexture
		}
		if err := r.tileProg.SetTexture(UniformTile, r.tile); err != nil {
			return nil, err
		}
		if err := r.tileProg.SetVec2(UniformScroll, r.cfg.TileScrollX, r.cfg.TileScrollY); err != nil {
			return nil, err
		}
		return r.tileProg, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidBackgroundMode, r.cfg.Background)
	}
}

// setDisplaceUniforms loads the displacement program for this frame.
func (r *Renderer) setDisplaceUniforms(depth *Texture) error {
	if err := r.displaceProg.SetTexture(UniformStereogram, r.stereogram); err != nil {
		return err
	}
	if err := r.displaceProg.SetTexture(UniformDepth, depth); err != nil {
		return err
	}
	if err := r.displaceProg.SetFloat(UniformStripSize, r.geom.Fraction); err != nil {
		return err
	}
	if err := r.displaceProg.SetFloat(UniformDepthStripSize, 1.0/float64(r.strips+1)); err != nil {
		return err
	}
	return r.displaceProg.SetFloat(UniformDepthFactor, r.cfg.DepthFactor)
}

// drawStrip shades one strip quad into the scratch buffer, through the
// registered accelerator when one is available and willing.
func (r *Renderer) drawStrip(quad StripQuad, prog *Program) error {
	if a := Accelerator(); a != nil {
		target := AccelTarget{
			Data:   r.scratch.Data(),
			Width:  r.scratch.Width(),
			Height: r.scratch.Height(),
			Stride: r.scratch.Stride(),
		}
		err := a.RenderStrip(target, quad, prog)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrFallbackToCPU) {
			return err
		}
		Logger().Debug("accelerator declined strip",
			"accelerator", a.Name(), "x", quad.X, "reason", err)
	}
	return r.raster.renderStrip(r.scratch, quad, prog)
}

// commitStrip copies the first width columns of the scratch strip into
// the stereogram at column x0, clamped to the stereogram bounds. After
// it returns, later draws observe the new pixels; this is the
// read-after-write synchronization point of the whole algorithm.
func (r *Renderer) commitStrip(x0, width int) int {
	n := r.stereogram.buf.CopyColumns(x0, r.scratch, 0, width)
	Logger().Debug("strip committed", "x", x0, "width", n)
	return n
}

// Close releases the renderer's worker pool. The stereogram texture
// stays readable. Close is idempotent; Render fails afterwards.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.raster.close()
}

// coerceMin returns v or at least lo.
func coerceMin(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}
