package backend

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/rampmap"
	"github.com/gogpu/rampmap/internal/parallel"
	"github.com/gogpu/rampmap/internal/raster"
)

// minBandRows is the smallest row band handed to a worker. Frames shorter
// than two bands are drawn on the calling goroutine.
const minBandRows = 64

// SoftwareBackend is a CPU-based rendering backend.
// It rasterizes meshes into an *image.RGBA with the same fill and discard
// rules the GPU backend applies.
type SoftwareBackend struct {
	mu     sync.Mutex
	target *image.RGBA
	raster *raster.Rasterizer
	pool   *parallel.WorkerPool
	logger *slog.Logger
}

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() rampmap.Backend {
		return NewSoftwareBackend()
	})
}

// NewSoftwareBackend creates a new software rendering backend.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{}
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string {
	return BackendSoftware
}

// SetLogger sets the logger used for draw diagnostics.
func (b *SoftwareBackend) SetLogger(l *slog.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = l
}

func (b *SoftwareBackend) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return rampmap.Logger()
}

// Init allocates a transparent target of the canvas size.
func (b *SoftwareBackend) Init(canvas rampmap.Canvas) error {
	if err := canvas.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.target = image.NewRGBA(image.Rect(0, 0, canvas.Width, canvas.Height))
	b.raster = raster.NewRasterizer(b.target)
	if b.pool == nil && canvas.Height >= 2*minBandRows {
		b.pool = parallel.NewWorkerPool(0)
	}
	return nil
}

// Close releases the target and stops the band workers.
func (b *SoftwareBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.target = nil
	b.raster = nil
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
	}
}

// softwareRamp is a ramp image held in memory.
type softwareRamp struct {
	owner *SoftwareBackend
	img   *image.RGBA
}

func (t *softwareRamp) Width() int { return t.img.Bounds().Dx() }

func (t *softwareRamp) Release() { t.owner = nil }

// LoadRamp copies ramp so later changes by the caller do not affect draws.
func (b *SoftwareBackend) LoadRamp(ctx context.Context, ramp *image.RGBA) (rampmap.RampTexture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ramp == nil || ramp.Bounds().Empty() {
		return nil, ErrEmptyRamp
	}
	cp := image.NewRGBA(image.Rect(0, 0, ramp.Bounds().Dx(), 1))
	for x := range cp.Bounds().Dx() {
		cp.SetRGBA(x, 0, ramp.RGBAAt(ramp.Bounds().Min.X+x, ramp.Bounds().Min.Y))
	}
	return &softwareRamp{owner: b, img: cp}, nil
}

// Draw clears the target and rasterizes mesh, shading each fragment with
// the linearly filtered ramp color at its u.
func (b *SoftwareBackend) Draw(mesh *rampmap.Mesh, ramp rampmap.RampTexture) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.raster == nil {
		return ErrNotInitialized
	}
	sr, ok := ramp.(*softwareRamp)
	if !ok || sr.owner != b {
		return ErrForeignRamp
	}
	b.raster.Clear()
	if mesh == nil {
		return nil
	}
	shade := func(u float64) color.RGBA {
		return rampmap.SampleRamp(sr.img, u)
	}
	written := b.drawLocked(mesh.Vertices, shade)
	b.log().Debug("software: mesh drawn",
		"vertices", mesh.VertexCount(), "pixels", written)
	return nil
}

// drawLocked rasterizes vertices, splitting tall frames into row bands
// drawn on the worker pool.
func (b *SoftwareBackend) drawLocked(vertices []float32, shade raster.Shader) int {
	if b.pool == nil {
		return b.raster.DrawList(vertices, shade)
	}
	var written atomic.Int64
	parallel.ForEachBand(b.pool, b.raster.Height(), minBandRows, func(band parallel.Band) {
		written.Add(int64(b.raster.DrawListRows(vertices, shade, band.Y0, band.Y1)))
	})
	return int(written.Load())
}

// Clear resets the target to transparent.
func (b *SoftwareBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.raster == nil {
		return ErrNotInitialized
	}
	b.raster.Clear()
	return nil
}

// Image returns a copy of the target.
func (b *SoftwareBackend) Image() (*image.RGBA, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.target == nil {
		return nil, ErrNotInitialized
	}
	cp := image.NewRGBA(b.target.Bounds())
	copy(cp.Pix, b.target.Pix)
	return cp, nil
}

var _ rampmap.ImageBackend = (*SoftwareBackend)(nil)
