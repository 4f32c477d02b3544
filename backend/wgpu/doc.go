// Package wgpu provides GPU-accelerated strip shading using gogpu/wgpu.
//
// The package registers a sis.StripAccelerator on import. Each strip
// draw dispatches one of the embedded compute shaders (noise, tile,
// displace) through wgpu/hal, reads the shaded pixels back, and hands
// them to the compositor. Strip commits stay on the CPU, which
// preserves the serial read-after-write ordering between strips.
//
// # Usage
//
// Enable GPU shading with a blank import:
//
//	import _ "github.com/gogpu/sis/backend/wgpu"
//
// If no usable GPU is found, or shader compilation fails, registration
// is skipped with a warning through the sis logger and rendering stays
// on the software path. Per-draw failures fall back the same way.
//
// # Device sharing
//
// Hosts that already own a wgpu device can share it instead of letting
// this package create its own instance:
//
//	sis.SetAcceleratorDeviceProvider(provider)
//
// The provider must expose HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
//
// # Build tags
//
// Building with -tags nogpu compiles this package down to its
// documentation; no accelerator is registered and no GPU code is linked.
package wgpu
