package wgpu

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rampmap"
	"github.com/gogpu/rampmap/backend"
	"github.com/gogpu/rampmap/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// init registers the wgpu backend on package import.
func init() {
	backend.Register(backend.BackendWGPU, func() rampmap.Backend {
		return New()
	})
}

// Option configures a WGPUBackend.
type Option func(*WGPUBackend)

// WithVariant selects the HAL backend to open a device on.
// The default is Vulkan.
func WithVariant(v gputypes.Backend) Option {
	return func(b *WGPUBackend) {
		b.variant = v
	}
}

// WithDeviceProvider draws on a device shared by a host application
// instead of opening one. The device is not destroyed on Close.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(b *WGPUBackend) {
		b.provider = p
	}
}

// WGPUBackend draws meshes with the ramp render pipeline into an offscreen
// texture and reads each frame back.
//
// WGPUBackend is safe for concurrent use; calls are serialized.
type WGPUBackend struct {
	mu       sync.Mutex
	variant  gputypes.Backend
	provider gpucontext.DeviceProvider

	dev      *gpu.Device
	renderer *gpu.RampRenderer
}

// New creates a wgpu backend. No GPU resources are acquired until Init.
func New(opts ...Option) *WGPUBackend {
	b := &WGPUBackend{variant: gputypes.BackendVulkan}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend identifier.
func (b *WGPUBackend) Name() string {
	return backend.BackendWGPU
}

// SetLogger routes GPU and HAL diagnostics to l.
func (b *WGPUBackend) SetLogger(l *slog.Logger) {
	gpu.SetLogger(l)
	hal.SetLogger(l)
}

// AdapterInfo describes the adapter in use. It is zero before Init.
func (b *WGPUBackend) AdapterInfo() gputypes.AdapterInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dev == nil {
		return gputypes.AdapterInfo{}
	}
	return b.dev.Info()
}

// Init acquires a device and pipeline on first use and sizes the
// offscreen target to canvas. Ramps loaded earlier stay valid.
func (b *WGPUBackend) Init(canvas rampmap.Canvas) error {
	if err := canvas.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderer == nil {
		if err := b.openLocked(); err != nil {
			return err
		}
	}
	if err := b.renderer.Resize(canvas.Width, canvas.Height); err != nil {
		return fmt.Errorf("wgpu: resize target: %w", err)
	}
	return nil
}

func (b *WGPUBackend) openLocked() error {
	var (
		dev *gpu.Device
		err error
	)
	if b.provider != nil {
		dev, err = gpu.FromProvider(b.provider)
	} else {
		dev, err = gpu.OpenDevice(b.variant)
	}
	if err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	renderer, err := gpu.NewRampRenderer(dev)
	if err != nil {
		dev.Release()
		return fmt.Errorf("wgpu: %w", err)
	}
	b.dev, b.renderer = dev, renderer
	return nil
}

// LoadRamp uploads ramp into a GPU texture.
func (b *WGPUBackend) LoadRamp(ctx context.Context, ramp *image.RGBA) (rampmap.RampTexture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ramp == nil || ramp.Bounds().Empty() {
		return nil, backend.ErrEmptyRamp
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renderer == nil {
		return nil, backend.ErrNotInitialized
	}
	tex, err := b.renderer.LoadRamp(ramp)
	if err != nil {
		return nil, fmt.Errorf("wgpu: %w", err)
	}
	return &rampTexture{owner: b, tex: tex}, nil
}

// rampTexture guards Release with the backend lock.
type rampTexture struct {
	owner *WGPUBackend
	tex   *gpu.RampTexture
}

func (t *rampTexture) Width() int { return t.tex.Width() }

func (t *rampTexture) Release() {
	if t.owner == nil {
		return
	}
	t.owner.mu.Lock()
	t.tex.Release()
	t.owner.mu.Unlock()
	t.owner = nil
}

// Draw clears the target and draws mesh with ramp.
func (b *WGPUBackend) Draw(mesh *rampmap.Mesh, ramp rampmap.RampTexture) error {
	rt, ok := ramp.(*rampTexture)
	if !ok || rt.owner != b {
		return backend.ErrForeignRamp
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renderer == nil {
		return backend.ErrNotInitialized
	}
	if mesh == nil || mesh.VertexCount() == 0 {
		return b.renderer.Clear()
	}
	if err := b.renderer.Draw(mesh.Bytes(), mesh.VertexCount(), rt.tex); err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	return nil
}

// Clear resets the target to transparent.
func (b *WGPUBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renderer == nil {
		return backend.ErrNotInitialized
	}
	return b.renderer.Clear()
}

// Image returns a copy of the last frame read back from the GPU.
func (b *WGPUBackend) Image() (*image.RGBA, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renderer == nil || b.renderer.Pixels() == nil {
		return nil, backend.ErrNotInitialized
	}
	px := b.renderer.Pixels()
	cp := image.NewRGBA(px.Bounds())
	copy(cp.Pix, px.Pix)
	return cp, nil
}

// Close destroys the pipeline and releases the device if it is owned.
// Close is idempotent.
func (b *WGPUBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renderer != nil {
		b.renderer.Destroy()
		b.renderer = nil
	}
	if b.dev != nil {
		b.dev.Release()
		b.dev = nil
	}
}

var _ rampmap.ImageBackend = (*WGPUBackend)(nil)
