package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // Register Vulkan backend.
)

// ErrNoAdapter is returned when a HAL backend reports no adapters.
var ErrNoAdapter = errors.New("gpu: no GPU adapters found")

// ErrBackendUnavailable is returned when the requested HAL backend is not
// registered in this build.
var ErrBackendUnavailable = errors.New("gpu: HAL backend not available")

// Device is an opened HAL device and its queue.
//
// A Device either owns its instance and device (OpenDevice) or borrows them
// from a host application (FromProvider). Release only destroys what it owns.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     gputypes.AdapterInfo
	format   gputypes.TextureFormat
	external bool
}

// OpenDevice opens a device on the given HAL backend, preferring discrete
// and integrated GPUs over other adapter types.
func OpenDevice(variant gputypes.Backend) (*Device, error) {
	backend, ok := hal.GetBackend(variant)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, variant)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
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
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	slogger().Info("gpu: device opened",
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType.String(),
		"backend", selected.Info.Backend.String())
	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		info:     selected.Info,
		format:   gputypes.TextureFormatRGBA8Unorm,
	}, nil
}

// FromProvider wraps the device shared by a host application.
//
// The provider must expose hal.Device and hal.Queue, either through
// HalDevice/HalQueue accessors or directly from Device/Queue.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	if provider == nil {
		return nil, fmt.Errorf("gpu: nil device provider")
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	var rawDevice, rawQueue any
	if hp, ok := provider.(halProvider); ok {
		rawDevice, rawQueue = hp.HalDevice(), hp.HalQueue()
	} else {
		rawDevice, rawQueue = provider.Device(), provider.Queue()
	}
	device, ok := rawDevice.(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider device is not hal.Device")
	}
	queue, ok := rawQueue.(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider queue is not hal.Queue")
	}
	format := provider.SurfaceFormat()
	if format != gputypes.TextureFormatBGRA8Unorm {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	info := provider.AdapterInfo()
	slogger().Info("gpu: using shared device", "adapter", info.Name)
	return &Device{
		device:   device,
		queue:    queue,
		info:     gputypes.AdapterInfo{Name: info.Name},
		format:   format,
		external: true,
	}, nil
}

// Info returns the adapter description.
func (d *Device) Info() gputypes.AdapterInfo { return d.info }

// Format returns the render target format.
func (d *Device) Format() gputypes.TextureFormat { return d.format }

// External reports whether the device belongs to a host application.
func (d *Device) External() bool { return d.external }

// Release destroys the device and instance if they are owned.
func (d *Device) Release() {
	if d == nil || d.external {
		return
	}
	if d.device != nil {
		_ = d.device.WaitIdle()
		d.device.Destroy()
		d.device = nil
		d.queue = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}
