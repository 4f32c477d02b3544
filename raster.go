package sis

import (
	"fmt"

	"github.com/gogpu/sis/internal/parallel"
	"github.com/gogpu/sis/internal/pix"
)

// rasterizer shades strip quads into a scratch buffer on the CPU.
//
// Rows are distributed across a worker pool. Parallelism across rows of
// one draw is safe: every fragment reads only textures committed by
// earlier draws, and each row writes a disjoint slice of the scratch.
// The serial ordering between draws stays with the compositor.
type rasterizer struct {
	pool *parallel.WorkerPool
}

// newRasterizer creates a rasterizer with the given worker count.
// workers <= 0 selects GOMAXPROCS.
func newRasterizer(workers int) *rasterizer {
	return &rasterizer{pool: parallel.NewWorkerPool(workers)}
}

// renderStrip shades quad.Width columns of the strip into dst, starting
// at dst column 0. Output column x corresponds to absolute screen
// column quad.X + x.
func (rz *rasterizer) renderStrip(dst *pix.Buffer, quad StripQuad, prog *Program) error {
	if dst.Format() != pix.FormatRGB8 {
		return fmt.Errorf("sis: rasterizer requires an RGB scratch buffer, got %s", dst.Format())
	}

	frag, err := prog.bindFragment(quad)
	if err != nil {
		return err
	}

	width := quad.Width
	if dw := dst.Width(); width > dw {
		width = dw
	}
	height := quad.ScreenHeight
	if dh := dst.Height(); height > dh {
		height = dh
	}
	if width <= 0 || height <= 0 {
		return nil
	}

	x0 := quad.X
	rz.pool.ForEachRow(height, func(y int) {
		row := dst.RowBytes(y)
		i := 0
		for x := 0; x < width; x++ {
			r, g, b := frag(x0+x, y)
			row[i+0] = r
			row[i+1] = g
			row[i+2] = b
			i += 3
		}
	})
	return nil
}

// close releases the worker pool.
func (rz *rasterizer) close() {
	rz.pool.Close()
}
