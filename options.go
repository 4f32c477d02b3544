package sis

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	// Defaults: automatic strip count, noise background
//	r, err := sis.NewRenderer(640, 480)
//
//	// Tile background with explicit strip layout
//	r, err := sis.NewRenderer(640, 480,
//		sis.WithNumStrips(8),
//		sis.WithNumSubStrips(2),
//		sis.WithBackgroundMode(sis.BackgroundTile),
//		sis.WithTileTexture(tile))
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	cfg     Config
	tile    *Texture
	workers int
}

// defaultRendererOptions returns the default renderer options.
func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		cfg: DefaultConfig(),
	}
}

// WithNumStrips sets the strip count. Negative values select an
// automatic count derived from the render width.
func WithNumStrips(n int) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.NumStrips = n
	}
}

// WithNumSubStrips sets the sub-strip subdivision per strip.
func WithNumSubStrips(n int) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.NumSubStrips = n
	}
}

// WithDepthFactor sets the displacement scale applied to depth samples.
func WithDepthFactor(f float64) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.DepthFactor = f
	}
}

// WithBackgroundMode selects the reference strip fill.
func WithBackgroundMode(m BackgroundMode) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.Background = m
	}
}

// WithNoiseSeed sets the initial noise seed.
func WithNoiseSeed(seed float64) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.NoiseSeed = seed
	}
}

// WithTileTexture sets the tile sampled by the tile background mode.
func WithTileTexture(t *Texture) RendererOption {
	return func(o *rendererOptions) {
		o.tile = t
	}
}

// WithTileScroll sets the initial tile scroll offset.
func WithTileScroll(x, y float64) RendererOption {
	return func(o *rendererOptions) {
		o.cfg.TileScrollX = x
		o.cfg.TileScrollY = y
	}
}

// WithWorkers sets the worker count for software strip shading.
// Values <= 0 select GOMAXPROCS.
func WithWorkers(n int) RendererOption {
	return func(o *rendererOptions) {
		o.workers = n
	}
}
