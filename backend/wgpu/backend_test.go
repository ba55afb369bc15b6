package wgpu

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rampmap"
	"github.com/gogpu/rampmap/backend"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

func newNoopBackend(t *testing.T, w, h int) *WGPUBackend {
	t.Helper()
	b := New(WithVariant(gputypes.BackendEmpty))
	if err := b.Init(rampmap.Canvas{Width: w, Height: h}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

func redRamp(t *testing.T) *image.RGBA {
	t.Helper()
	img, err := rampmap.BuildRampImage([]rampmap.ColorStop{
		{Offset: 0, Color: rampmap.Hex("#ff0000")},
		{Offset: 1, Color: rampmap.Hex("#00ff00")},
	}, rampmap.DefaultRampWidth, rampmap.ColorSpaceSRGB)
	if err != nil {
		t.Fatalf("BuildRampImage: %v", err)
	}
	return img
}

func TestWGPUBackendRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendWGPU) {
		t.Fatal("wgpu backend not registered on import")
	}
	b := backend.Get(backend.BackendWGPU)
	if b == nil || b.Name() != "wgpu" {
		t.Fatalf("Get(wgpu) = %v", b)
	}
	if d := backend.Default(); d.Name() != backend.BackendWGPU {
		t.Errorf("Default() = %q, want wgpu", d.Name())
	}
}

func TestWGPUBackendInit(t *testing.T) {
	b := newNoopBackend(t, 16, 8)
	if got := b.AdapterInfo().Name; got != "Noop Adapter" {
		t.Errorf("adapter = %q, want Noop Adapter", got)
	}
	img, err := b.Image()
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 16, 8) {
		t.Errorf("Image bounds = %v", img.Bounds())
	}

	// Re-init resizes the target.
	if err := b.Init(rampmap.Canvas{Width: 4, Height: 4}); err != nil {
		t.Fatalf("re-Init() error = %v", err)
	}
	img, _ = b.Image()
	if img.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Errorf("Image bounds after resize = %v", img.Bounds())
	}

	if err := b.Init(rampmap.Canvas{}); !errors.Is(err, rampmap.ErrInvalidCanvas) {
		t.Errorf("Init(empty) error = %v, want ErrInvalidCanvas", err)
	}
}

func TestWGPUBackendUnavailableVariant(t *testing.T) {
	b := New(WithVariant(gputypes.BackendBrowserWebGPU))
	defer b.Close()
	if err := b.Init(rampmap.Canvas{Width: 4, Height: 4}); err == nil {
		t.Error("Init on unregistered HAL backend succeeded")
	}
}

func TestWGPUBackendNotInitialized(t *testing.T) {
	b := New(WithVariant(gputypes.BackendEmpty))
	if err := b.Clear(); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("Clear() error = %v, want ErrNotInitialized", err)
	}
	if _, err := b.LoadRamp(context.Background(), redRamp(t)); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("LoadRamp() error = %v, want ErrNotInitialized", err)
	}
	if _, err := b.Image(); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("Image() error = %v, want ErrNotInitialized", err)
	}
}

func TestWGPUBackendDraw(t *testing.T) {
	b := newNoopBackend(t, 10, 10)
	ramp, err := b.LoadRamp(context.Background(), redRamp(t))
	if err != nil {
		t.Fatalf("LoadRamp() error = %v", err)
	}
	defer ramp.Release()
	if ramp.Width() != rampmap.DefaultRampWidth {
		t.Errorf("ramp width = %d", ramp.Width())
	}

	grid := rampmap.MustGrid([][]float64{{1, 2}, {3, math.NaN()}})
	mesh, err := rampmap.Tessellate(grid, rampmap.Canvas{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Tessellate() error = %v", err)
	}
	if err := b.Draw(mesh, ramp); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if err := b.Draw(nil, ramp); err != nil {
		t.Fatalf("Draw(nil) error = %v", err)
	}
	if err := b.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
}

func TestWGPUBackendLoadRampErrors(t *testing.T) {
	b := newNoopBackend(t, 4, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.LoadRamp(ctx, redRamp(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadRamp(cancelled) error = %v", err)
	}
	if _, err := b.LoadRamp(context.Background(), nil); !errors.Is(err, backend.ErrEmptyRamp) {
		t.Errorf("LoadRamp(nil) error = %v, want ErrEmptyRamp", err)
	}
}

func TestWGPUBackendForeignRamp(t *testing.T) {
	a := newNoopBackend(t, 4, 4)
	b := newNoopBackend(t, 4, 4)
	ramp, err := a.LoadRamp(context.Background(), redRamp(t))
	if err != nil {
		t.Fatalf("LoadRamp() error = %v", err)
	}
	if err := b.Draw(&rampmap.Mesh{}, ramp); !errors.Is(err, backend.ErrForeignRamp) {
		t.Errorf("Draw(foreign) error = %v, want ErrForeignRamp", err)
	}
	ramp.Release()
	ramp.Release()
	if err := a.Draw(&rampmap.Mesh{}, ramp); !errors.Is(err, backend.ErrForeignRamp) {
		t.Errorf("Draw(released) error = %v, want ErrForeignRamp", err)
	}
}

func TestWGPUBackendCloseIdempotent(t *testing.T) {
	b := New(WithVariant(gputypes.BackendEmpty))
	if err := b.Init(rampmap.Canvas{Width: 4, Height: 4}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	b.Close()
	b.Close()
	if err := b.Clear(); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("Clear() after Close error = %v", err)
	}
}

func TestWGPUBackendWithRenderer(t *testing.T) {
	canvas := rampmap.Canvas{Width: 12, Height: 12}
	r, err := rampmap.New(canvas, rampmap.WithBackend(New(WithVariant(gputypes.BackendEmpty))))
	if err != nil {
		t.Fatalf("rampmap.New() error = %v", err)
	}
	defer r.Close()

	ramp, err := r.PrepareColorRamp(context.Background(), []rampmap.ColorStop{
		{Offset: 0, Color: rampmap.Hex("#000000")},
		{Offset: 1, Color: rampmap.Hex("#ffffff")},
	})
	if err != nil {
		t.Fatalf("PrepareColorRamp() error = %v", err)
	}
	grid := rampmap.MustGrid([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	if err := r.Render(grid, ramp); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := r.Redraw(); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
}

// noopProvider shares a noop HAL device through gpucontext.
type noopProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p *noopProvider) Device() gpucontext.Device { return p.device }
func (p *noopProvider) Queue() gpucontext.Queue { return p.queue }
func (p *noopProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (p *noopProvider) Adapter() gpucontext.Adapter { return nil }
func (p *noopProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{Name: "shared"} }
func (p *noopProvider) HalDevice() any { return p.device }
func (p *noopProvider) HalQueue() any { return p.queue }

var _ gpucontext.DeviceProvider = (*noopProvider)(nil)

func TestWGPUBackendDeviceProvider(t *testing.T) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	defer instance.Destroy()
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer openDev.Device.Destroy()

	b := New(WithDeviceProvider(&noopProvider{device: openDev.Device, queue: openDev.Queue}))
	if err := b.Init(rampmap.Canvas{Width: 6, Height: 6}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer b.Close()
	if got := b.AdapterInfo().Name; got != "shared" {
		t.Errorf("adapter = %q, want shared", got)
	}

	ramp, err := b.LoadRamp(context.Background(), redRamp(t))
	if err != nil {
		t.Fatalf("LoadRamp() error = %v", err)
	}
	defer ramp.Release()
	mesh, _ := rampmap.Tessellate(rampmap.MustGrid([][]float64{{1}}), rampmap.Canvas{Width: 6, Height: 6})
	if err := b.Draw(mesh, ramp); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
}
