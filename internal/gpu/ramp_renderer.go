package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// rampVertexStride is the byte stride per vertex.
// Layout per vertex:
//
//	position (vec2<f32>) = 8 bytes (location 0)
//	texcoord (vec2<f32>) = 8 bytes (location 1)
const rampVertexStride = 16

// copyPitchAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// RampRenderer draws ramp-mapped triangle lists into an offscreen target
// and reads the result back to the CPU.
//
// A RampRenderer is not safe for concurrent use.
type RampRenderer struct {
	dev *Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler

	target     hal.Texture
	targetView hal.TextureView
	width      uint32
	height     uint32

	vertBuf hal.Buffer
	vertCap uint64

	pixels *image.RGBA
}

// NewRampRenderer compiles the ramp pipeline on dev.
func NewRampRenderer(dev *Device) (*RampRenderer, error) {
	if dev == nil || dev.device == nil {
		return nil, fmt.Errorf("gpu: device not open")
	}
	r := &RampRenderer{dev: dev}
	if err := r.createPipeline(); err != nil {
		r.destroyPipeline()
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	return r, nil
}

func (r *RampRenderer) createPipeline() error {
	device := r.dev.device

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "ramp_shader",
		Source: hal.ShaderSource{WGSL: rampShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile ramp shader: %w", err)
	}
	r.shader = shader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ramp_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "ramp_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "ramp_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: vertexEntryPoint,
			Buffers:    rampVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.dev.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	r.pipeline = pipeline

	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "ramp_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	r.sampler = sampler
	return nil
}

func rampVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: rampVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			},
		},
	}
}

// Resize creates the offscreen target for a w×h canvas. The target is
// recreated only when the size changes.
func (r *RampRenderer) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("gpu: invalid target size %dx%d", w, h)
	}
	uw, uh := uint32(w), uint32(h) //nolint:gosec // canvas dimensions fit uint32
	if r.target != nil && r.width == uw && r.height == uh {
		return nil
	}
	r.destroyTarget()

	target, err := r.dev.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "ramp_target",
		Size:          hal.Extent3D{Width: uw, Height: uh, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        r.dev.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	r.target = target

	view, err := r.dev.device.CreateTextureView(target, &hal.TextureViewDescriptor{
		Label:         "ramp_target_view",
		Format:        r.dev.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.destroyTarget()
		return fmt.Errorf("create target view: %w", err)
	}
	r.targetView = view
	r.width, r.height = uw, uh
	r.pixels = image.NewRGBA(image.Rect(0, 0, w, h))
	return nil
}

// Size returns the current target dimensions.
func (r *RampRenderer) Size() (int, int) {
	return int(r.width), int(r.height)
}

// RampTexture is a ramp image uploaded to the GPU together with the bind
// group that samples it.
type RampTexture struct {
	owner     *RampRenderer
	tex       hal.Texture
	view      hal.TextureView
	bindGroup hal.BindGroup
	width     int
}

// Width returns the ramp width in texels.
func (t *RampTexture) Width() int { return t.width }

// Release destroys the GPU resources of the ramp. Safe to call twice.
func (t *RampTexture) Release() {
	if t == nil || t.owner == nil || t.owner.dev.device == nil {
		return
	}
	device := t.owner.dev.device
	if t.bindGroup != nil {
		device.DestroyBindGroup(t.bindGroup)
		t.bindGroup = nil
	}
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
		t.tex = nil
	}
	t.owner = nil
}

// LoadRamp uploads a one-row ramp image.
func (r *RampRenderer) LoadRamp(img *image.RGBA) (*RampTexture, error) {
	b := img.Bounds()
	w := b.Dx()
	if w <= 0 || b.Dy() < 1 {
		return nil, fmt.Errorf("gpu: empty ramp image")
	}
	uw := uint32(w) //nolint:gosec // ramp width fits uint32
	device := r.dev.device
	t := &RampTexture{owner: r, width: w}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "ramp_texture",
		Size:          hal.Extent3D{Width: uw, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create ramp texture: %w", err)
	}
	t.tex = tex

	row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y):][:w*4]
	if err := r.dev.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0, Aspect: gputypes.TextureAspectAll},
		row,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uw * 4, RowsPerImage: 1},
		&hal.Extent3D{Width: uw, Height: 1, DepthOrArrayLayers: 1},
	); err != nil {
		t.Release()
		return nil, fmt.Errorf("upload ramp: %w", err)
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "ramp_texture_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("create ramp view: %w", err)
	}
	t.view = view

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "ramp_bind",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: r.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("create ramp bind group: %w", err)
	}
	t.bindGroup = bindGroup

	slogger().Debug("gpu: ramp uploaded", "width", w)
	return t, nil
}

// Draw clears the target, draws count vertices from the packed vertex data
// sampling ramp, and reads the result back.
func (r *RampRenderer) Draw(vertices []byte, count int, ramp *RampTexture) error {
	if r.target == nil {
		return fmt.Errorf("gpu: target not created")
	}
	if ramp == nil || ramp.owner != r || ramp.bindGroup == nil {
		return fmt.Errorf("gpu: ramp texture not loaded by this renderer")
	}
	if count > 0 {
		if err := r.uploadVertices(vertices); err != nil {
			return err
		}
	}
	return r.encodeAndReadback(func(rp hal.RenderPassEncoder) {
		if count == 0 {
			return
		}
		rp.SetPipeline(r.pipeline)
		rp.SetBindGroup(0, ramp.bindGroup, nil)
		rp.SetVertexBuffer(0, r.vertBuf, 0)
		rp.Draw(uint32(count), 1, 0, 0) //nolint:gosec // vertex count fits uint32
	})
}

// Clear resets the target to transparent.
func (r *RampRenderer) Clear() error {
	if r.target == nil {
		return fmt.Errorf("gpu: target not created")
	}
	return r.encodeAndReadback(func(hal.RenderPassEncoder) {})
}

// Pixels returns the target contents from the last draw or clear. The
// returned image is owned by the renderer until the next call.
func (r *RampRenderer) Pixels() *image.RGBA { return r.pixels }

func (r *RampRenderer) uploadVertices(data []byte) error {
	size := uint64(len(data))
	if r.vertBuf == nil || r.vertCap < size {
		if r.vertBuf != nil {
			r.dev.device.DestroyBuffer(r.vertBuf)
			r.vertBuf = nil
		}
		capacity := max(size, 2*r.vertCap)
		buf, err := r.dev.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "ramp_vertices",
			Size:  capacity,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			r.vertCap = 0
			return fmt.Errorf("create vertex buffer: %w", err)
		}
		r.vertBuf = buf
		r.vertCap = capacity
	}
	if err := r.dev.queue.WriteBuffer(r.vertBuf, 0, data); err != nil {
		return fmt.Errorf("upload vertices: %w", err)
	}
	return nil
}

// encodeAndReadback records a render pass that clears the target and runs
// record, copies the target to a staging buffer, submits, waits and reads
// the pixels back.
func (r *RampRenderer) encodeAndReadback(record func(hal.RenderPassEncoder)) error {
	device := r.dev.device
	w, h := r.width, r.height

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "ramp_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("ramp_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "ramp_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       r.targetView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	record(rp)
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ramp_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(r.target, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: r.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	if _, err := r.dev.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}

	mapping, err := device.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	defer func() { _ = device.UnmapBuffer(staging) }()
	readback := unsafe.Slice((*byte)(mapping.Ptr), stagingSize) //nolint:gosec // mapping covers stagingSize bytes

	for row := uint32(0); row < h; row++ {
		src := readback[int(row)*int(alignedBytesPerRow):][:bytesPerRow]
		dst := r.pixels.Pix[int(row)*r.pixels.Stride:][:bytesPerRow]
		copy(dst, src)
	}
	if r.dev.format == gputypes.TextureFormatBGRA8Unorm {
		swapRB(r.pixels.Pix)
	}
	return nil
}

// swapRB converts BGRA pixels to RGBA in place.
func swapRB(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

// Destroy releases all GPU resources held by the renderer. Ramp textures
// loaded through it must be released first.
func (r *RampRenderer) Destroy() {
	if r.dev == nil || r.dev.device == nil {
		return
	}
	if r.vertBuf != nil {
		r.dev.device.DestroyBuffer(r.vertBuf)
		r.vertBuf = nil
		r.vertCap = 0
	}
	r.destroyTarget()
	r.destroyPipeline()
}

func (r *RampRenderer) destroyTarget() {
	if r.targetView != nil {
		r.dev.device.DestroyTextureView(r.targetView)
		r.targetView = nil
	}
	if r.target != nil {
		r.dev.device.DestroyTexture(r.target)
		r.target = nil
	}
	r.width, r.height = 0, 0
}

// destroyPipeline releases pipeline resources in reverse creation order.
func (r *RampRenderer) destroyPipeline() {
	device := r.dev.device
	if r.sampler != nil {
		device.DestroySampler(r.sampler)
		r.sampler = nil
	}
	if r.pipeline != nil {
		device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}
