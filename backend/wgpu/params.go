//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/sis"
)

// Params buffer sizes in bytes. Must match the Params uniform structs
// in the WGSL sources.
const (
	noiseParamsSize    = 32
	tileParamsSize     = 48
	displaceParamsSize = 48
)

// drawData carries one strip draw in upload form: the serialized params
// buffer, the read-only storage buffers in binding order, and the
// shaded span in pixels.
type drawData struct {
	params []byte
	inputs [][]byte
	width  int
	height int
}

// prepareDraw reads the program's uniforms and serializes them into GPU
// buffer contents. Texture uniforms become packed RGBA storage buffers.
func prepareDraw(quad sis.StripQuad, prog *sis.Program) (drawData, error) {
	draw := drawData{width: quad.Width, height: quad.ScreenHeight}

	switch prog.Name() {
	case "noise":
		seed, err := prog.Float(sis.UniformSeed)
		if err != nil {
			return drawData{}, err
		}
		draw.params = encodeNoiseParams(quad, seed)

	case "tile":
		tile, err := prog.Texture(sis.UniformTile)
		if err != nil {
			return drawData{}, err
		}
		scrollX, scrollY, err := prog.Vec2(sis.UniformScroll)
		if err != nil {
			return drawData{}, err
		}
		draw.params = encodeTileParams(quad, tile.Width(), tile.Height(), scrollX, scrollY)
		draw.inputs = [][]byte{packTexture(tile)}

	case "displace":
		stereo, err := prog.Texture(sis.UniformStereogram)
		if err != nil {
			return drawData{}, err
		}
		depth, err := prog.Texture(sis.UniformDepth)
		if err != nil {
			return drawData{}, err
		}
		stripSize, err := prog.Float(sis.UniformStripSize)
		if err != nil {
			return drawData{}, err
		}
		depthStripSize, err := prog.Float(sis.UniformDepthStripSize)
		if err != nil {
			return drawData{}, err
		}
		depthFactor, err := prog.Float(sis.UniformDepthFactor)
		if err != nil {
			return drawData{}, err
		}
		draw.params = encodeDisplaceParams(quad, depth.Width(), depth.Height(),
			stripSize, depthStripSize, depthFactor)
		draw.inputs = [][]byte{packTexture(stereo), packTexture(depth)}

	default:
		return drawData{}, sis.ErrFallbackToCPU
	}
	return draw, nil
}

func encodeNoiseParams(quad sis.StripQuad, seed float64) []byte {
	buf := make([]byte, noiseParamsSize)
	writeQuad(buf, quad)
	writeFloat32(buf, 24, float32(seed))
	return buf
}

func encodeTileParams(quad sis.StripQuad, tileW, tileH int, scrollX, scrollY float64) []byte {
	buf := make([]byte, tileParamsSize)
	writeQuad(buf, quad)
	writeUint32(buf, 20, uint32(tileW)) //nolint:gosec // dimensions always fit uint32
	writeUint32(buf, 24, uint32(tileH)) //nolint:gosec // dimensions always fit uint32
	writeFloat32(buf, 32, float32(scrollX))
	writeFloat32(buf, 36, float32(scrollY))
	return buf
}

func encodeDisplaceParams(quad sis.StripQuad, depthW, depthH int, stripSize, depthStripSize, depthFactor float64) []byte {
	buf := make([]byte, displaceParamsSize)
	writeQuad(buf, quad)
	writeUint32(buf, 20, uint32(depthW)) //nolint:gosec // dimensions always fit uint32
	writeUint32(buf, 24, uint32(depthH)) //nolint:gosec // dimensions always fit uint32
	writeFloat32(buf, 32, float32(stripSize))
	writeFloat32(buf, 36, float32(depthStripSize))
	writeFloat32(buf, 40, float32(depthFactor))
	return buf
}

// writeQuad serializes the common leading fields every Params struct
// starts with: screen size, quad position and the shaded width.
func writeQuad(buf []byte, quad sis.StripQuad) {
	writeUint32(buf, 0, uint32(quad.ScreenWidth))  //nolint:gosec // dimensions always fit uint32
	writeUint32(buf, 4, uint32(quad.ScreenHeight)) //nolint:gosec // dimensions always fit uint32
	writeUint32(buf, 8, uint32(quad.X))            //nolint:gosec // dimensions always fit uint32
	writeUint32(buf, 12, uint32(quad.QuadWidth))   //nolint:gosec // dimensions always fit uint32
	writeUint32(buf, 16, uint32(quad.Width))       //nolint:gosec // dimensions always fit uint32
}

// Byte serialization helpers for GPU buffer upload.

func writeUint32(buf []byte, offset int, val uint32) {
	buf[offset] = byte(val)
	buf[offset+1] = byte(val >> 8)
	buf[offset+2] = byte(val >> 16)
	buf[offset+3] = byte(val >> 24)
}

func writeFloat32(buf []byte, offset int, val float32) {
	writeUint32(buf, offset, math.Float32bits(val))
}

// packTexture returns the texture's pixels as little-endian packed RGBA
// words, red in the low byte, matching the array<u32> layout the
// shaders index.
func packTexture(t *sis.Texture) []byte {
	rgba := t.RGBA()
	out := make([]byte, len(rgba))
	for i := 0; i < len(rgba); i += 4 {
		packed := uint32(rgba[i]) |
			uint32(rgba[i+1])<<8 |
			uint32(rgba[i+2])<<16 |
			uint32(rgba[i+3])<<24
		binary.LittleEndian.PutUint32(out[i:], packed)
	}
	return out
}

// unpackStrip copies packed RGBA words read back from the GPU into the
// target's RGB rows. The packed buffer is width words per row; the
// target row stride may be larger than the written span.
func unpackStrip(packed []byte, target sis.AccelTarget, width, height int) {
	for y := 0; y < height; y++ {
		row := target.Data[y*target.Stride:]
		for x := 0; x < width; x++ {
			val := binary.LittleEndian.Uint32(packed[(y*width+x)*4:])
			row[x*3+0] = uint8(val & 0xFF)         //nolint:gosec // masked to 8 bits
			row[x*3+1] = uint8((val >> 8) & 0xFF)  //nolint:gosec // masked to 8 bits
			row[x*3+2] = uint8((val >> 16) & 0xFF) //nolint:gosec // masked to 8 bits
		}
	}
}
