//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// pipelineSpec describes the bind layout of one shader program: a
// uniform params buffer at binding 0, inputs read-only storage buffers,
// and a read_write output buffer at the last binding.
type pipelineSpec struct {
	name   string
	wgsl   string
	inputs int
}

// pipeline holds the compiled GPU objects for one shader program.
type pipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	layout     hal.PipelineLayout
	compute    hal.ComputePipeline
	inputs     int
}

func newPipeline(device hal.Device, spec pipelineSpec) (*pipeline, error) {
	spirv, err := compileShader(spec.wgsl)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile %s shader: %w", spec.name, err)
	}

	p := &pipeline{inputs: spec.inputs}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  spec.name,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s shader module: %w", spec.name, err)
	}
	p.shader = shader

	entries := make([]gputypes.BindGroupLayoutEntry, 0, spec.inputs+2)
	entries = append(entries, gputypes.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	})
	for i := 0; i < spec.inputs; i++ {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i + 1), //nolint:gosec // binding index fits uint32
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		})
	}
	entries = append(entries, gputypes.BindGroupLayoutEntry{
		Binding:    uint32(spec.inputs + 1), //nolint:gosec // binding index fits uint32
		Visibility: gputypes.ShaderStageCompute,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
	})

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   spec.name + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("wgpu: create %s bind group layout: %w", spec.name, err)
	}
	p.bindLayout = bindLayout

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            spec.name + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("wgpu: create %s pipeline layout: %w", spec.name, err)
	}
	p.layout = layout

	compute, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   spec.name + "_pipeline",
		Layout:  layout,
		Compute: hal.ComputeState{Module: shader, EntryPoint: "main"},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("wgpu: create %s compute pipeline: %w", spec.name, err)
	}
	p.compute = compute

	return p, nil
}

func (p *pipeline) destroy(device hal.Device) {
	if p.compute != nil {
		device.DestroyComputePipeline(p.compute)
		p.compute = nil
	}
	if p.layout != nil {
		device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// compileShader compiles WGSL to SPIR-V words via naga.
func compileShader(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, err
	}
	return spirvWords(spirvBytes), nil
}

// spirvWords converts little-endian SPIR-V bytes to the uint32 word
// stream the shader module descriptor expects.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
