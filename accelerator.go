package sis

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the accelerator cannot handle this strip draw.
// The caller should transparently fall back to software shading.
var ErrFallbackToCPU = errors.New("sis: falling back to CPU rendering")

// StripQuad describes one screen-aligned strip quad to shade.
//
// X and QuadWidth position the quad in output pixels. Width is the span
// actually shaded: QuadWidth plus the commit slack, already clamped to the
// output's right edge, so shaded pixels and committed pixels coincide.
type StripQuad struct {
	// X is the quad's left edge in output pixels.
	X int

	// QuadWidth is the quad width in pixels. Background programs map
	// their local texture coordinate over this span.
	QuadWidth int

	// Width is the shaded width in pixels (QuadWidth + commit slack,
	// clamped).
	Width int

	// ScreenWidth and ScreenHeight are the full output dimensions.
	// Screen-space shader coordinates normalize against these.
	ScreenWidth  int
	ScreenHeight int
}

// AccelTarget provides pixel buffer access for accelerator output.
// The Data slice holds tightly packed RGB, 3 bytes per pixel, laid out
// row by row with the given Stride. The buffer is at least quad.Width
// columns wide; accelerators write the shaded strip into columns
// [0, quad.Width) of every row.
type AccelTarget struct {
	Data          []uint8
	Width, Height int
	Stride        int // bytes per row
}

// StripAccelerator is an optional GPU acceleration provider for strip
// shading.
//
// When registered via RegisterAccelerator, the Renderer tries the
// accelerator first for every strip draw. If the accelerator returns
// ErrFallbackToCPU or any error, shading transparently falls back to the
// software path. Commits stay on the CPU either way, which preserves the
// read-after-write ordering between strips.
//
// Implementations are provided by backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/sis/backend/wgpu" // enables GPU shading
type StripAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// RenderStrip shades one strip quad with the given program into target.
	// The program carries the uniform values, including the depth map and
	// stereogram textures for displacement draws.
	// Returns ErrFallbackToCPU if the draw cannot be accelerated.
	RenderStrip(target AccelTarget, quad StripQuad, prog *Program) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share GPU resources with an external provider (e.g., a windowing host).
// When SetDeviceProvider is called, the accelerator reuses the provided
// GPU device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   StripAccelerator
)

// RegisterAccelerator registers an accelerator for optional GPU shading.
//
// Only one accelerator can be registered. Subsequent calls replace the
// previous one. The accelerator's Init() method is called during
// registration; if Init() fails, the accelerator is not registered and
// the error is returned.
//
// Typical usage via blank import in backend packages:
//
//	func init() {
//	    sis.RegisterAccelerator(New())
//	}
func RegisterAccelerator(a StripAccelerator) error {
	if a == nil {
		return errors.New("sis: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Accelerator returns the currently registered accelerator, or nil if none.
func Accelerator() StripAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling GPU device sharing. If no accelerator is registered
// or it doesn't support device sharing, this is a no-op.
//
// The provider should implement HalDevice() any and HalQueue() any methods
// that return wgpu/hal types.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
