package pix

import (
	"math"
	"testing"
)

// checkerboard2x2 returns a 2x2 RGB buffer:
//
//	(0,0)=10  (1,0)=30
//	(0,1)=50  (1,1)=70
//
// with the value stored in all three channels.
func checkerboard2x2(t *testing.T) *Buffer {
	t.Helper()
	b, err := New(2, 2, FormatRGB8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	vals := [2][2]uint8{{10, 30}, {50, 70}}
	for y := range 2 {
		for x := range 2 {
			v := vals[y][x]
			if err := b.SetRGBA(x, y, v, v, v, 255); err != nil {
				t.Fatalf("SetRGBA() error = %v", err)
			}
		}
	}
	return b
}

func TestSampleNearest(t *testing.T) {
	b := checkerboard2x2(t)

	tests := []struct {
		name string
		u, v float64
		mode SpreadMode
		want uint8
	}{
		{"top-left quadrant", 0.25, 0.25, SpreadPad, 10},
		{"top-right quadrant", 0.75, 0.25, SpreadPad, 30},
		{"bottom-left quadrant", 0.25, 0.75, SpreadPad, 50},
		{"bottom-right quadrant", 0.75, 0.75, SpreadPad, 70},
		{"exact 1.0 clamps to last pixel", 1.0, 1.0, SpreadPad, 70},
		{"pad clamps negative", -0.5, 0.25, SpreadPad, 10},
		{"pad clamps past 1", 1.5, 0.25, SpreadPad, 30},
		{"repeat wraps past 1", 1.25, 0.25, SpreadRepeat, 10},
		{"repeat wraps negative", -0.75, 0.25, SpreadRepeat, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, bl, a := SampleNearest(b, tt.u, tt.v, tt.mode)
			if r != tt.want || g != tt.want || bl != tt.want {
				t.Errorf("SampleNearest(%v,%v) = (%d,%d,%d), want %d in all channels",
					tt.u, tt.v, r, g, bl, tt.want)
			}
			if a != 255 {
				t.Errorf("SampleNearest() alpha = %d, want 255", a)
			}
		})
	}
}

func TestSampleBilinearCenter(t *testing.T) {
	b := checkerboard2x2(t)

	// The exact center of the 2x2 grid blends all four pixels equally.
	r, _, _, _ := SampleBilinear(b, 0.5, 0.5, SpreadPad)
	want := (10 + 30 + 50 + 70) / 4
	if int(r) != want {
		t.Errorf("SampleBilinear(0.5,0.5) red = %d, want %d", r, want)
	}
}

func TestSampleBilinearPixelCenter(t *testing.T) {
	b := checkerboard2x2(t)

	// Sampling exactly at a pixel center returns that pixel untouched.
	r, _, _, _ := SampleBilinear(b, 0.25, 0.25, SpreadPad)
	if r != 10 {
		t.Errorf("SampleBilinear at pixel center = %d, want 10", r)
	}
}

func TestSampleBilinearRepeatSeam(t *testing.T) {
	b := checkerboard2x2(t)

	// Halfway between the last column and the wrapped first column.
	// In repeat mode u=0 lies on the seam: the blend of columns 1 and 0.
	r, _, _, _ := SampleBilinear(b, 0.0, 0.25, SpreadRepeat)
	want := (10 + 30) / 2
	if int(r) != want {
		t.Errorf("SampleBilinear repeat seam = %d, want %d", r, want)
	}

	// Pad mode clamps both neighbors to column 0 instead.
	r, _, _, _ = SampleBilinear(b, 0.0, 0.25, SpreadPad)
	if r != 10 {
		t.Errorf("SampleBilinear pad edge = %d, want 10", r)
	}
}

func TestSampleRedMatchesBilinear(t *testing.T) {
	b, err := New(4, 4, FormatRGB8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for y := range 4 {
		for x := range 4 {
			v := uint8(x*40 + y*13)
			_ = b.SetRGBA(x, y, v, 0, 0, 255)
		}
	}

	coords := []struct{ u, v float64 }{
		{0.1, 0.1}, {0.5, 0.5}, {0.9, 0.3}, {0.33, 0.77}, {1.0, 1.0},
	}
	for _, c := range coords {
		r, _, _, _ := SampleBilinear(b, c.u, c.v, SpreadPad)
		red := SampleRed(b, c.u, c.v, SpreadPad)
		if math.Abs(red-float64(r)) > 1 {
			t.Errorf("SampleRed(%v,%v) = %v, SampleBilinear red = %d", c.u, c.v, red, r)
		}
	}
}

func TestWrapCoord(t *testing.T) {
	tests := []struct {
		name string
		x    int
		n    int
		mode SpreadMode
		want int
	}{
		{"in range pad", 3, 8, SpreadPad, 3},
		{"below range pad", -2, 8, SpreadPad, 0},
		{"above range pad", 9, 8, SpreadPad, 7},
		{"in range repeat", 3, 8, SpreadRepeat, 3},
		{"wrap above", 9, 8, SpreadRepeat, 1},
		{"wrap below", -1, 8, SpreadRepeat, 7},
		{"wrap exact multiple", 16, 8, SpreadRepeat, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapCoord(tt.x, tt.n, tt.mode); got != tt.want {
				t.Errorf("wrapCoord(%d, %d, %v) = %d, want %d", tt.x, tt.n, tt.mode, got, tt.want)
			}
		})
	}
}

func TestApplySpread(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		mode SpreadMode
		want float64
	}{
		{"pad in range", 0.5, SpreadPad, 0.5},
		{"pad clamps low", -0.25, SpreadPad, 0},
		{"pad clamps high", 1.75, SpreadPad, 1},
		{"repeat in range", 0.5, SpreadRepeat, 0.5},
		{"repeat wraps high", 1.75, SpreadRepeat, 0.75},
		{"repeat wraps low", -0.25, SpreadRepeat, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applySpread(tt.t, tt.mode); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("applySpread(%v, %v) = %v, want %v", tt.t, tt.mode, got, tt.want)
			}
		})
	}
}

func TestSpreadModeString(t *testing.T) {
	if got := SpreadPad.String(); got != "Pad" {
		t.Errorf("SpreadPad.String() = %q, want Pad", got)
	}
	if got := SpreadRepeat.String(); got != "Repeat" {
		t.Errorf("SpreadRepeat.String() = %q, want Repeat", got)
	}
	if got := SpreadMode(9).String(); got != "Unknown" {
		t.Errorf("SpreadMode(9).String() = %q, want Unknown", got)
	}
}
