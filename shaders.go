package sis

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/gogpu/sis/internal/pix"
)

// Embedded WGSL shader sources.
// Accelerators compile these; the software rasterizer mirrors their
// fragment logic in the bind closures below.

//go:embed shaders/noise.wgsl
var noiseShaderSource string

//go:embed shaders/tile.wgsl
var tileShaderSource string

//go:embed shaders/displace.wgsl
var displaceShaderSource string

// Uniform names declared by the built-in programs. The WGSL sources
// use the same names for their parameter fields.
const (
	UniformSeed           = "seed"
	UniformTile           = "tile"
	UniformScroll         = "scroll"
	UniformStereogram     = "stereogram"
	UniformDepth          = "depth"
	UniformStripSize      = "stripSize"
	UniformDepthStripSize = "depthStripSize"
	UniformDepthFactor    = "depthFactor"
)

// NewNoiseProgram returns the seeded noise background program.
//
// The fragment hashes the screen-space coordinate with the classic
// fract(sin(dot(uv, k))) construction and replicates the result across
// R, G and B. The seed perturbs the hash multiplier; equal seeds give
// bit-identical strips, so stepping the seed is the animation hook.
func NewNoiseProgram() *Program {
	return newProgram("noise", noiseShaderSource,
		[]UniformDecl{
			{Name: UniformSeed, Kind: UniformFloat},
		},
		bindNoise,
	)
}

// NewTileProgram returns the tiled background program. The tile is
// stretched across the strip quad and wraps on overflow; the scroll
// vector shifts the sampled region in tile space.
func NewTileProgram() *Program {
	return newProgram("tile", tileShaderSource,
		[]UniformDecl{
			{Name: UniformTile, Kind: UniformTexture},
			{Name: UniformScroll, Kind: UniformVec2},
		},
		bindTile,
	)
}

// NewDisplaceProgram returns the stereo displacement program: each
// output pixel samples the committed stereogram one strip-width to the
// left, shifted right by a depth-proportional displacement.
func NewDisplaceProgram() *Program {
	return newProgram("displace", displaceShaderSource,
		[]UniformDecl{
			{Name: UniformStereogram, Kind: UniformTexture},
			{Name: UniformDepth, Kind: UniformTexture},
			{Name: UniformStripSize, Kind: UniformFloat},
			{Name: UniformDepthStripSize, Kind: UniformFloat},
			{Name: UniformDepthFactor, Kind: UniformFloat},
		},
		bindDisplace,
	)
}

// noiseRand is the shader hash fract(sin(dot(uv, k)) * (m + seed)).
// It is a pure function of its inputs; no state survives between calls.
func noiseRand(u, v, seed float64) float64 {
	t := math.Sin(u*12.9898+v*78.233) * (43758.5453 + seed)
	return t - math.Floor(t)
}

func bindNoise(p *Program, quad StripQuad) (fragmentFunc, error) {
	seed, err := p.Float(UniformSeed)
	if err != nil {
		return nil, err
	}
	if quad.ScreenWidth <= 0 || quad.ScreenHeight <= 0 {
		return nil, fmt.Errorf("sis: program %q: empty screen", p.name)
	}

	invW := 1.0 / float64(quad.ScreenWidth)
	invH := 1.0 / float64(quad.ScreenHeight)

	return func(px, py int) (uint8, uint8, uint8) {
		u := (float64(px) + 0.5) * invW
		v := (float64(py) + 0.5) * invH
		c := uint8(noiseRand(u, v, seed)*255.0 + 0.5)
		return c, c, c
	}, nil
}

func bindTile(p *Program, quad StripQuad) (fragmentFunc, error) {
	tex, err := p.Texture(UniformTile)
	if err != nil {
		return nil, err
	}
	scrollX, scrollY, err := p.Vec2(UniformScroll)
	if err != nil {
		return nil, err
	}
	if quad.QuadWidth <= 0 || quad.ScreenHeight <= 0 {
		return nil, fmt.Errorf("sis: program %q: empty quad", p.name)
	}

	invQuad := 1.0 / float64(quad.QuadWidth)
	invH := 1.0 / float64(quad.ScreenHeight)
	x0 := quad.X
	buf := tex.buf

	return func(px, py int) (uint8, uint8, uint8) {
		u := (float64(px-x0)+0.5)*invQuad + scrollX
		v := (float64(py)+0.5)*invH + scrollY
		r, g, b, _ := pix.SampleBilinear(buf, u, v, pix.SpreadRepeat)
		return r, g, b
	}, nil
}

func bindDisplace(p *Program, quad StripQuad) (fragmentFunc, error) {
	stereo, err := p.Texture(UniformStereogram)
	if err != nil {
		return nil, err
	}
	depth, err := p.Texture(UniformDepth)
	if err != nil {
		return nil, err
	}
	stripSize, err := p.Float(UniformStripSize)
	if err != nil {
		return nil, err
	}
	depthStripSize, err := p.Float(UniformDepthStripSize)
	if err != nil {
		return nil, err
	}
	depthFactor, err := p.Float(UniformDepthFactor)
	if err != nil {
		return nil, err
	}
	if depthStripSize <= 0 {
		return nil, fmt.Errorf("sis: program %q: depthStripSize must be positive", p.name)
	}
	if quad.ScreenWidth <= 0 || quad.ScreenHeight <= 0 {
		return nil, fmt.Errorf("sis: program %q: empty screen", p.name)
	}

	invW := 1.0 / float64(quad.ScreenWidth)
	invH := 1.0 / float64(quad.ScreenHeight)
	stereoBuf := stereo.buf
	depthBuf := depth.buf

	return func(px, py int) (uint8, uint8, uint8) {
		u := (float64(px) + 0.5) * invW
		v := (float64(py) + 0.5) * invH

		// Anchor the depth lookup so the displaced strips sweep the
		// whole depth map once, independent of sub-strip subdivision.
		du := (u/depthStripSize - 1.0) * stripSize
		delta := pix.SampleRed(depthBuf, du, v, pix.SpreadPad) / 255.0 * depthFactor

		// Read one strip-width left of this fragment, corrected by the
		// depth displacement. Those pixels were committed by an earlier
		// draw; the compositor's ordering guarantees it.
		r, g, b, _ := pix.SampleNearest(stereoBuf, u+delta-stripSize, v, pix.SpreadPad)
		return r, g, b
	}, nil
}
