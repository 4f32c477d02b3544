package sis

import (
	"math"
	"testing"
)

func TestComputeStripGeometry(t *testing.T) {
	tests := []struct {
		name         string
		renderWidth  int
		numStrips    int
		numSubStrips int
		wantPixels   int
	}{
		{"exact division", 640, 8, 1, 80},
		{"rounds up to sub-strip multiple", 640, 6, 2, 108},
		{"single strip", 640, 1, 1, 640},
		{"single strip two subs", 640, 1, 2, 640},
		{"sub-strips force large round-up", 100, 7, 4, 16},
		{"width one", 1, 1, 1, 1},
		{"zero strips coerced", 640, 0, 1, 640},
		{"zero sub-strips coerced", 640, 6, 0, 107},
		{"zero width coerced", 0, 3, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ComputeStripGeometry(tt.renderWidth, tt.numStrips, tt.numSubStrips)
			if g.Pixels != tt.wantPixels {
				t.Errorf("Pixels = %d, want %d", g.Pixels, tt.wantPixels)
			}

			w := tt.renderWidth
			if w <= 0 {
				w = 1
			}
			wantFraction := float64(tt.wantPixels) / float64(w)
			if math.Abs(g.Fraction-wantFraction) > 1e-12 {
				t.Errorf("Fraction = %v, want %v", g.Fraction, wantFraction)
			}
		})
	}
}

// TestStripGeometryInvariants checks the alignment and bounds guarantees
// across a sweep of configurations: the strip width divides evenly into
// sub-strips, covers at least width/strips, and never overshoots by more
// than one sub-strip's worth of rounding.
func TestStripGeometryInvariants(t *testing.T) {
	widths := []int{1, 7, 100, 256, 640, 641, 1000, 1920, 3839}
	strips := []int{1, 2, 3, 6, 7, 16, 33}
	subs := []int{1, 2, 3, 4, 8}

	for _, w := range widths {
		for _, s := range strips {
			for _, u := range subs {
				g := ComputeStripGeometry(w, s, u)

				if g.Pixels%u != 0 {
					t.Errorf("ComputeStripGeometry(%d,%d,%d).Pixels = %d, not a multiple of %d",
						w, s, u, g.Pixels, u)
				}

				ceilDiv := (w + s - 1) / s
				if g.Pixels < ceilDiv {
					t.Errorf("ComputeStripGeometry(%d,%d,%d).Pixels = %d < ceil(w/s) = %d",
						w, s, u, g.Pixels, ceilDiv)
				}

				if float64(g.Pixels) >= float64(w)/float64(s)+float64(u)+1 {
					t.Errorf("ComputeStripGeometry(%d,%d,%d).Pixels = %d overshoots w/s + u",
						w, s, u, g.Pixels)
				}

				if g.Fraction <= 0 {
					t.Errorf("ComputeStripGeometry(%d,%d,%d).Fraction = %v, want > 0",
						w, s, u, g.Fraction)
				}
			}
		}
	}
}

func TestAutoStripCount(t *testing.T) {
	tests := []struct {
		name        string
		renderWidth int
		want        int
	}{
		{"640 wide", 640, 6},
		{"1000 wide", 1000, 8},
		{"1024 wide", 1024, 9},
		{"125 exact boundary", 125, 1},
		{"126 rounds up", 126, 2},
		{"tiny", 1, 1},
		{"zero width", 0, 1},
		{"negative width", -100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutoStripCount(tt.renderWidth); got != tt.want {
				t.Errorf("AutoStripCount(%d) = %d, want %d", tt.renderWidth, got, tt.want)
			}
		})
	}
}

// TestGeometryAutoScenario pins the documented 640-wide auto configuration:
// auto resolves to 6 strips, and with 2 sub-strips the strip is 108 pixels,
// 0.16875 of the render width.
func TestGeometryAutoScenario(t *testing.T) {
	width := 640

	strips := AutoStripCount(width)
	if strips != 6 {
		t.Fatalf("AutoStripCount(640) = %d, want 6", strips)
	}

	g := ComputeStripGeometry(width, strips, 2)
	if g.Pixels != 108 {
		t.Errorf("Pixels = %d, want 108", g.Pixels)
	}
	if math.Abs(g.Fraction-0.16875) > 1e-12 {
		t.Errorf("Fraction = %v, want 0.16875", g.Fraction)
	}
}
