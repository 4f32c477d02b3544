//go:build !nogpu

package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sis"
	"github.com/gogpu/wgpu/hal"
)

const fenceTimeout = 5 * time.Second

// dispatch runs one strip draw: upload params and inputs, dispatch the
// compute pipeline over the shaded span, copy the output to a staging
// buffer and read it back into the target rows.
func (a *Accelerator) dispatch(p *pipeline, draw drawData, target sis.AccelTarget) error {
	width, height := uint32(draw.width), uint32(draw.height) //nolint:gosec // dimensions always fit uint32
	outSize := uint64(width) * uint64(height) * 4

	paramsBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "strip_params", Size: uint64(len(draw.params)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paramsBuf)
	a.queue.WriteBuffer(paramsBuf, 0, draw.params)

	inputBufs := make([]hal.Buffer, 0, len(draw.inputs))
	defer func() {
		for _, b := range inputBufs {
			a.device.DestroyBuffer(b)
		}
	}()
	for i, input := range draw.inputs {
		buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "strip_input", Size: uint64(len(input)),
			Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create input buffer %d: %w", i, err)
		}
		inputBufs = append(inputBufs, buf)
		a.queue.WriteBuffer(buf, 0, input)
	}

	outBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "strip_out", Size: outSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create output buffer: %w", err)
	}
	defer a.device.DestroyBuffer(outBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "strip_staging", Size: outSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	entries := make([]gputypes.BindGroupEntry, 0, len(inputBufs)+2)
	entries = append(entries, gputypes.BindGroupEntry{
		Binding:  0,
		Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: uint64(len(draw.params))},
	})
	for i, buf := range inputBufs {
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(i + 1), //nolint:gosec // binding index fits uint32
			Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: uint64(len(draw.inputs[i]))},
		})
	}
	entries = append(entries, gputypes.BindGroupEntry{
		Binding:  uint32(len(inputBufs) + 1), //nolint:gosec // binding index fits uint32
		Resource: gputypes.BufferBinding{Buffer: outBuf.NativeHandle(), Offset: 0, Size: outSize},
	})

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "strip_bind", Layout: p.bindLayout, Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "strip_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("strip"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "strip_pass"})
	computePass.SetPipeline(p.compute)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.Dispatch((width+7)/8, (height+7)/8, 1)
	computePass.End()

	encoder.CopyBufferToBuffer(outBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, outSize)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackStrip(readback, target, draw.width, draw.height)
	return nil
}
