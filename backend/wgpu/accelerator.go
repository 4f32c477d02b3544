//go:build !nogpu

package wgpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sis"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

func init() {
	if err := sis.RegisterAccelerator(New()); err != nil {
		sis.Logger().Warn("wgpu accelerator not available", "err", err)
	}
}

// Accelerator shades strip quads with wgpu/hal compute shaders. It
// implements sis.StripAccelerator.
//
// Each RenderStrip call uploads the program's uniforms and textures,
// dispatches the matching compute pipeline, and reads the shaded pixels
// back into the caller's buffer. The stereogram texture is re-uploaded
// on every displacement draw so the shader always reads the pixels the
// compositor committed before this strip.
type Accelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// One compute pipeline per shader program, keyed by program name.
	pipelines map[string]*pipeline

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

var (
	_ sis.StripAccelerator    = (*Accelerator)(nil)
	_ sis.DeviceProviderAware = (*Accelerator)(nil)
)

// New returns an unconnected accelerator. Init acquires the GPU;
// sis.RegisterAccelerator calls it during registration.
func New() *Accelerator { return &Accelerator{} }

func (a *Accelerator) Name() string { return "wgpu" }

// Init acquires a GPU device and builds the compute pipelines. It
// returns an error when no usable GPU is available or a shader fails
// to compile; the caller then skips registration and rendering stays
// on the software path.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		a.closeLocked()
		return err
	}
	return nil
}

// Close releases all GPU resources. Shared devices obtained through
// SetDeviceProvider are detached but not destroyed.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeLocked()
}

func (a *Accelerator) closeLocked() {
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
			a.device = nil
		}
		if a.instance != nil {
			a.instance.Destroy()
			a.instance = nil
		}
	} else {
		// Shared resources belong to the provider.
		a.device = nil
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetLogger sets the logger for the accelerator and its dispatch path.
// Called by sis.SetLogger to propagate logging configuration.
func (a *Accelerator) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// SetDeviceProvider switches the accelerator to a shared GPU device
// from an external provider (e.g., a windowing host). The provider must
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Destroy own resources if we created them.
	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	// Recreate pipelines with the shared device.
	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("wgpu: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("wgpu: switched to shared GPU device")
	return nil
}

// RenderStrip shades one strip quad on the GPU. Programs without a
// compiled pipeline, and accelerators without a device, decline with
// sis.ErrFallbackToCPU so the caller shades on the CPU instead.
func (a *Accelerator) RenderStrip(target sis.AccelTarget, quad sis.StripQuad, prog *sis.Program) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return sis.ErrFallbackToCPU
	}
	p, ok := a.pipelines[prog.Name()]
	if !ok {
		return sis.ErrFallbackToCPU
	}
	if quad.Width <= 0 || quad.ScreenHeight <= 0 {
		return nil
	}
	draw, err := prepareDraw(quad, prog)
	if err != nil {
		return err
	}
	if err := a.dispatch(p, draw, target); err != nil {
		return fmt.Errorf("wgpu: %s dispatch: %w", prog.Name(), err)
	}
	return nil
}

func (a *Accelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("wgpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("wgpu: open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		return err
	}
	a.gpuReady = true
	slogger().Info("wgpu: strip accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *Accelerator) createPipelines() error {
	specs := []pipelineSpec{
		{name: "noise", wgsl: sis.NewNoiseProgram().WGSL(), inputs: 0},
		{name: "tile", wgsl: sis.NewTileProgram().WGSL(), inputs: 1},
		{name: "displace", wgsl: sis.NewDisplaceProgram().WGSL(), inputs: 2},
	}
	a.pipelines = make(map[string]*pipeline, len(specs))
	for _, spec := range specs {
		p, err := newPipeline(a.device, spec)
		if err != nil {
			a.destroyPipelines()
			return err
		}
		a.pipelines[spec.name] = p
	}
	return nil
}

func (a *Accelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	for _, p := range a.pipelines {
		p.destroy(a.device)
	}
	a.pipelines = nil
}
