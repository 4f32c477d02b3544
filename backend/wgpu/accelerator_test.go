//go:build !nogpu

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/sis"
)

func TestAcceleratorName(t *testing.T) {
	if got := New().Name(); got != "wgpu" {
		t.Errorf("Name() = %q, want %q", got, "wgpu")
	}
}

// A fresh accelerator has no device, so every draw declines and the
// compositor keeps shading on the CPU.
func TestRenderStripWithoutDevice(t *testing.T) {
	a := New()
	prog := sis.NewNoiseProgram()
	quad := sis.StripQuad{X: 0, QuadWidth: 80, Width: 82, ScreenWidth: 640, ScreenHeight: 480}

	err := a.RenderStrip(sis.AccelTarget{}, quad, prog)
	if !errors.Is(err, sis.ErrFallbackToCPU) {
		t.Errorf("err = %v, want ErrFallbackToCPU", err)
	}
}

func TestCloseWithoutInit(t *testing.T) {
	a := New()
	a.Close()
	a.Close()
}

func TestSetDeviceProviderRejectsBadProvider(t *testing.T) {
	a := New()

	t.Run("no HAL methods", func(t *testing.T) {
		if err := a.SetDeviceProvider(struct{}{}); err == nil {
			t.Error("SetDeviceProvider accepted a provider without HAL methods")
		}
	})

	t.Run("nil device", func(t *testing.T) {
		if err := a.SetDeviceProvider(nilProvider{}); err == nil {
			t.Error("SetDeviceProvider accepted a nil device")
		}
	})
}

type nilProvider struct{}

func (nilProvider) HalDevice() any { return nil }
func (nilProvider) HalQueue() any  { return nil }
