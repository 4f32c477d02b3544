// Command sisgen renders single-image stereograms from depth maps.
//
// A depth map's red channel drives the displacement; brighter pixels
// float closer to the viewer when the image is free-viewed. Without a
// -depth file, sisgen renders a procedural radial relief.
//
// Examples:
//
//	sisgen -depth relief.png -o out.png
//	sisgen -mode tile -tile pattern.png -depth relief.png -o out.webp
//	sisgen -frames 30 -seedstep 1 -o anim.png
//
// Depth and tile inputs may be PNG, JPEG, GIF, TGA, WebP, BMP or TIFF.
// Output is PNG or WebP, chosen by the -o extension. Depth inputs are
// resampled to the render size with Catmull-Rom before rendering.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gogpu/sis"
	xdraw "golang.org/x/image/draw"

	// Register additional input formats for image.Decode.
	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	// Enable GPU strip shading when a device is available.
	_ "github.com/gogpu/sis/backend/wgpu"
)

func main() {
	var (
		width      = flag.Int("width", 640, "render width")
		height     = flag.Int("height", 480, "render height")
		strips     = flag.Int("strips", -1, "strip count (negative = auto from width)")
		subs       = flag.Int("subs", 2, "sub-strips per strip")
		factor     = flag.Float64("depthfactor", 0.02, "displacement per unit depth, as a fraction of render width")
		mode       = flag.String("mode", "noise", "background mode: noise or tile")
		seed       = flag.Float64("seed", 0, "noise seed")
		scrollX    = flag.Float64("scrollx", 0, "tile scroll offset x")
		scrollY    = flag.Float64("scrolly", 0, "tile scroll offset y")
		tilePath   = flag.String("tile", "", "tile image (required for -mode tile)")
		depthPath  = flag.String("depth", "", "depth map (red channel = depth; procedural relief when empty)")
		output     = flag.String("o", "sis.png", "output file (.png or .webp)")
		frames     = flag.Int("frames", 1, "frame count; above 1 writes numbered files")
		seedStep   = flag.Float64("seedstep", 1, "per-frame noise seed increment")
		scrollStep = flag.Float64("scrollstep", 0, "per-frame tile scroll x increment")
		super      = flag.Int("supersample", 1, "render at N times the size, downscale the output")
		verbose    = flag.Bool("v", false, "log render progress to stderr")
	)
	flag.Parse()

	if *verbose {
		sis.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	bg, err := parseMode(*mode)
	if err != nil {
		log.Fatalf("sisgen: %v", err)
	}

	ss := *super
	if ss < 1 {
		ss = 1
	}
	rw, rh := *width*ss, *height*ss

	opts := []sis.RendererOption{
		sis.WithNumStrips(*strips),
		sis.WithNumSubStrips(*subs),
		sis.WithDepthFactor(*factor),
		sis.WithBackgroundMode(bg),
		sis.WithNoiseSeed(*seed),
		sis.WithTileScroll(*scrollX, *scrollY),
	}
	if *tilePath != "" {
		tile, err := loadTexture(*tilePath)
		if err != nil {
			log.Fatalf("sisgen: load tile: %v", err)
		}
		opts = append(opts, sis.WithTileTexture(tile))
	}

	r, err := sis.NewRenderer(rw, rh, opts...)
	if err != nil {
		log.Fatalf("sisgen: %v", err)
	}
	defer r.Close()

	depth, err := loadDepth(*depthPath, rw, rh)
	if err != nil {
		log.Fatalf("sisgen: load depth: %v", err)
	}

	n := *frames
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			r.SetNoiseSeed(*seed + float64(i)**seedStep)
			r.SetTileScroll(*scrollX+float64(i)**scrollStep, *scrollY)
		}
		if err := r.Render(depth); err != nil {
			log.Fatalf("sisgen: render frame %d: %v", i, err)
		}

		img := r.Image()
		if ss > 1 {
			img = downscale(img, *width, *height)
		}
		path := framePath(*output, i, n)
		if err := saveImage(path, img); err != nil {
			log.Fatalf("sisgen: %v", err)
		}
		log.Printf("wrote %s (%dx%d)", path, *width, *height)
	}
}

func parseMode(s string) (sis.BackgroundMode, error) {
	switch strings.ToLower(s) {
	case "noise":
		return sis.BackgroundNoise, nil
	case "tile":
		return sis.BackgroundTile, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want noise or tile)", s)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func loadTexture(path string) (*sis.Texture, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	return sis.TextureFromImage(img)
}

// loadDepth reads the depth map, or builds the procedural relief when
// no path is given. File inputs are resampled to the render size so
// small maps don't sample blocky.
func loadDepth(path string, w, h int) (*sis.Texture, error) {
	if path == "" {
		return sis.TextureFromImage(proceduralDepth(w, h))
	}
	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		img = resample(img, w, h)
	}
	return sis.TextureFromImage(img)
}

// resample stretches src to w x h with Catmull-Rom, keeping grayscale
// inputs grayscale.
func resample(src image.Image, w, h int) image.Image {
	r := image.Rect(0, 0, w, h)
	var dst xdraw.Image
	if _, ok := src.(*image.Gray); ok {
		dst = image.NewGray(r)
	} else {
		dst = image.NewRGBA(r)
	}
	xdraw.CatmullRom.Scale(dst, r, src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// downscale shrinks a supersampled render to the requested output size.
func downscale(img *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// proceduralDepth builds a radial relief: a hemispheric dome rising
// toward the image center, black at the rim and beyond.
func proceduralDepth(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	rmax := math.Min(cx, cy) * 0.85
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			d := math.Sqrt(dx*dx+dy*dy) / rmax
			if d < 1 {
				v := math.Sqrt(1 - d*d)
				img.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
			}
		}
	}
	return img
}

// framePath numbers the output when rendering a sequence:
// out.png becomes out_0003.png for frame 3.
func framePath(output string, frame, frames int) string {
	if frames <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	base := strings.TrimSuffix(output, ext)
	return fmt.Sprintf("%s_%04d%s", base, frame, ext)
}

func saveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
