//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/gogpu/sis"
)

func u32At(t *testing.T, buf []byte, offset int) uint32 {
	t.Helper()
	return binary.LittleEndian.Uint32(buf[offset:])
}

func f32At(t *testing.T, buf []byte, offset int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestWriteUint32(t *testing.T) {
	buf := make([]byte, 4)
	writeUint32(buf, 0, 0x12345678)

	// Little-endian check
	if buf[0] != 0x78 || buf[1] != 0x56 || buf[2] != 0x34 || buf[3] != 0x12 {
		t.Errorf("writeUint32 = %v, want little-endian 0x12345678", buf)
	}
}

func TestWriteFloat32(t *testing.T) {
	buf := make([]byte, 4)
	writeFloat32(buf, 0, 1.0)

	if got := f32At(t, buf, 0); got != 1.0 {
		t.Errorf("writeFloat32 round trip = %v, want 1.0", got)
	}
}

func TestParamsSizes(t *testing.T) {
	quad := sis.StripQuad{X: 108, QuadWidth: 54, Width: 56, ScreenWidth: 640, ScreenHeight: 480}

	tests := []struct {
		name string
		buf  []byte
		want int
	}{
		{"noise", encodeNoiseParams(quad, 0), noiseParamsSize},
		{"tile", encodeTileParams(quad, 8, 8, 0, 0), tileParamsSize},
		{"displace", encodeDisplaceParams(quad, 64, 48, 0.16875, 0.16875, 0.02), displaceParamsSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.buf) != tt.want {
				t.Errorf("len = %d, want %d", len(tt.buf), tt.want)
			}
			// WGSL uniform structs are 16-byte aligned.
			if len(tt.buf)%16 != 0 {
				t.Errorf("len %% 16 = %d, want 0", len(tt.buf)%16)
			}
		})
	}
}

func TestEncodeNoiseParams(t *testing.T) {
	quad := sis.StripQuad{X: 108, QuadWidth: 54, Width: 56, ScreenWidth: 640, ScreenHeight: 480}
	buf := encodeNoiseParams(quad, 3.5)

	if got := u32At(t, buf, 0); got != 640 {
		t.Errorf("screen_width = %d, want 640", got)
	}
	if got := u32At(t, buf, 4); got != 480 {
		t.Errorf("screen_height = %d, want 480", got)
	}
	if got := u32At(t, buf, 8); got != 108 {
		t.Errorf("quad_x = %d, want 108", got)
	}
	if got := u32At(t, buf, 12); got != 54 {
		t.Errorf("quad_width = %d, want 54", got)
	}
	if got := u32At(t, buf, 16); got != 56 {
		t.Errorf("shade_width = %d, want 56", got)
	}
	if got := f32At(t, buf, 24); got != 3.5 {
		t.Errorf("seed = %v, want 3.5", got)
	}
}

func TestEncodeTileParams(t *testing.T) {
	quad := sis.StripQuad{X: 0, QuadWidth: 80, Width: 82, ScreenWidth: 640, ScreenHeight: 480}
	buf := encodeTileParams(quad, 32, 16, 0.25, -0.5)

	if got := u32At(t, buf, 20); got != 32 {
		t.Errorf("tile_width = %d, want 32", got)
	}
	if got := u32At(t, buf, 24); got != 16 {
		t.Errorf("tile_height = %d, want 16", got)
	}
	if got := f32At(t, buf, 32); got != 0.25 {
		t.Errorf("scroll.x = %v, want 0.25", got)
	}
	if got := f32At(t, buf, 36); got != -0.5 {
		t.Errorf("scroll.y = %v, want -0.5", got)
	}
}

func TestEncodeDisplaceParams(t *testing.T) {
	quad := sis.StripQuad{X: 108, QuadWidth: 54, Width: 56, ScreenWidth: 640, ScreenHeight: 480}
	buf := encodeDisplaceParams(quad, 320, 240, 0.16875, 0.16875, 0.02)

	if got := u32At(t, buf, 20); got != 320 {
		t.Errorf("depth_width = %d, want 320", got)
	}
	if got := u32At(t, buf, 24); got != 240 {
		t.Errorf("depth_height = %d, want 240", got)
	}
	if got := f32At(t, buf, 32); got != 0.16875 {
		t.Errorf("strip_size = %v, want 0.16875", got)
	}
	if got := f32At(t, buf, 36); got != 0.16875 {
		t.Errorf("depth_strip_size = %v, want 0.16875", got)
	}
	if got := f32At(t, buf, 40); got != float32(0.02) {
		t.Errorf("depth_factor = %v, want 0.02", got)
	}
}

func TestPackTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	copy(img.Pix, []uint8{10, 20, 30, 255, 40, 50, 60, 128})
	tex, err := sis.TextureFromImage(img)
	if err != nil {
		t.Fatalf("TextureFromImage: %v", err)
	}

	packed := packTexture(tex)
	if len(packed) != 8 {
		t.Fatalf("len = %d, want 8", len(packed))
	}

	// Red in the low byte, alpha in the high byte.
	if got := binary.LittleEndian.Uint32(packed[0:]); got != 0xFF1E140A {
		t.Errorf("word 0 = %#08x, want 0xFF1E140A", got)
	}
	if got := binary.LittleEndian.Uint32(packed[4:]); got != 0x803C3228 {
		t.Errorf("word 1 = %#08x, want 0x803C3228", got)
	}
}

func TestUnpackStrip(t *testing.T) {
	packed := make([]byte, 2*2*4)
	binary.LittleEndian.PutUint32(packed[0:], 0xFF332211)
	binary.LittleEndian.PutUint32(packed[4:], 0xFF665544)
	binary.LittleEndian.PutUint32(packed[8:], 0xFF998877)
	binary.LittleEndian.PutUint32(packed[12:], 0xFFCCBBAA)

	// Target rows are wider than the strip; bytes past the written
	// span must stay untouched.
	data := make([]uint8, 2*9)
	for i := range data {
		data[i] = 0xEE
	}
	target := sis.AccelTarget{Data: data, Width: 3, Height: 2, Stride: 9}

	unpackStrip(packed, target, 2, 2)

	want := []uint8{
		0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0xEE, 0xEE, 0xEE,
		0x77, 0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xEE, 0xEE, 0xEE,
	}
	for i, w := range want {
		if data[i] != w {
			t.Fatalf("data[%d] = %#02x, want %#02x", i, data[i], w)
		}
	}
}

func TestPrepareDrawNoise(t *testing.T) {
	prog := sis.NewNoiseProgram()
	if err := prog.SetFloat(sis.UniformSeed, 7); err != nil {
		t.Fatalf("SetFloat: %v", err)
	}
	quad := sis.StripQuad{X: 0, QuadWidth: 80, Width: 82, ScreenWidth: 640, ScreenHeight: 480}

	draw, err := prepareDraw(quad, prog)
	if err != nil {
		t.Fatalf("prepareDraw: %v", err)
	}
	if len(draw.params) != noiseParamsSize {
		t.Errorf("params len = %d, want %d", len(draw.params), noiseParamsSize)
	}
	if len(draw.inputs) != 0 {
		t.Errorf("inputs = %d, want 0", len(draw.inputs))
	}
	if draw.width != 82 || draw.height != 480 {
		t.Errorf("span = %dx%d, want 82x480", draw.width, draw.height)
	}
}

func TestPrepareDrawDisplace(t *testing.T) {
	stereo, err := sis.NewTexture(640, 480)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	depth, err := sis.NewTexture(320, 240)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}

	prog := sis.NewDisplaceProgram()
	if err := prog.SetTexture(sis.UniformStereogram, stereo); err != nil {
		t.Fatalf("SetTexture: %v", err)
	}
	if err := prog.SetTexture(sis.UniformDepth, depth); err != nil {
		t.Fatalf("SetTexture: %v", err)
	}
	if err := prog.SetFloat(sis.UniformStripSize, 0.16875); err != nil {
		t.Fatalf("SetFloat: %v", err)
	}
	if err := prog.SetFloat(sis.UniformDepthStripSize, 0.16875); err != nil {
		t.Fatalf("SetFloat: %v", err)
	}
	if err := prog.SetFloat(sis.UniformDepthFactor, 0.02); err != nil {
		t.Fatalf("SetFloat: %v", err)
	}
	quad := sis.StripQuad{X: 108, QuadWidth: 54, Width: 56, ScreenWidth: 640, ScreenHeight: 480}

	draw, err := prepareDraw(quad, prog)
	if err != nil {
		t.Fatalf("prepareDraw: %v", err)
	}
	if len(draw.params) != displaceParamsSize {
		t.Errorf("params len = %d, want %d", len(draw.params), displaceParamsSize)
	}
	if len(draw.inputs) != 2 {
		t.Fatalf("inputs = %d, want 2", len(draw.inputs))
	}
	if len(draw.inputs[0]) != 640*480*4 {
		t.Errorf("stereogram upload = %d bytes, want %d", len(draw.inputs[0]), 640*480*4)
	}
	if len(draw.inputs[1]) != 320*240*4 {
		t.Errorf("depth upload = %d bytes, want %d", len(draw.inputs[1]), 320*240*4)
	}
}

func TestPrepareDrawMissingUniform(t *testing.T) {
	prog := sis.NewNoiseProgram()
	quad := sis.StripQuad{X: 0, QuadWidth: 80, Width: 82, ScreenWidth: 640, ScreenHeight: 480}

	_, err := prepareDraw(quad, prog)
	if !errors.Is(err, sis.ErrUniformNotSet) {
		t.Errorf("err = %v, want ErrUniformNotSet", err)
	}
}

func BenchmarkEncodeDisplaceParams(b *testing.B) {
	quad := sis.StripQuad{X: 108, QuadWidth: 54, Width: 56, ScreenWidth: 640, ScreenHeight: 480}
	b.ReportAllocs()
	for b.Loop() {
		encodeDisplaceParams(quad, 320, 240, 0.16875, 0.16875, 0.02)
	}
}

func BenchmarkPackTexture(b *testing.B) {
	tex, err := sis.NewTexture(640, 480)
	if err != nil {
		b.Fatalf("NewTexture: %v", err)
	}
	b.ReportAllocs()
	for b.Loop() {
		packTexture(tex)
	}
}
