package rampmap

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
)

// live tracks backends owned by open Renderers so SetLogger can reach them.
// The value is the Renderer's own logger from WithLogger, or nil.
var (
	liveMu sync.Mutex
	live   = make(map[Backend]*slog.Logger)
)

// Renderer draws grids through a Backend in two phases: PrepareColorRamp
// loads a ramp texture, then Render tessellates a grid and draws it.
//
// A Renderer is safe for concurrent use; calls are serialized.
type Renderer struct {
	mu      sync.Mutex
	opts    options
	backend Backend
	canvas  Canvas
	ramp    *ColorRamp // most recently prepared
	last    *Mesh
	lastRmp *ColorRamp
	closed  bool
}

// New creates a Renderer for canvas and initializes its backend.
// A backend must be supplied with WithBackend; the backend registry offers
// a constructor that picks one automatically. Without a backend New
// returns ErrNoBackend.
func New(canvas Canvas, opts ...Option) (*Renderer, error) {
	if err := canvas.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	if o.backend == nil {
		return nil, ErrNoBackend
	}
	r := &Renderer{opts: o, backend: o.backend, canvas: canvas}
	if o.logger != nil {
		propagateLogger(o.backend, o.logger)
	} else {
		propagateLogger(o.backend, Logger())
	}
	if err := o.backend.Init(canvas); err != nil {
		o.backend.Close()
		return nil, fmt.Errorf("rampmap: init %s backend: %w", o.backend.Name(), err)
	}
	if err := o.backend.Clear(); err != nil {
		o.backend.Close()
		return nil, fmt.Errorf("rampmap: clear %s backend: %w", o.backend.Name(), err)
	}

	liveMu.Lock()
	live[o.backend] = o.logger
	liveMu.Unlock()

	r.log().Info("rampmap: renderer ready",
		"backend", o.backend.Name(), "width", canvas.Width, "height", canvas.Height)
	return r, nil
}

func (r *Renderer) log() *slog.Logger {
	if r.opts.logger != nil {
		return r.opts.logger
	}
	return Logger()
}

// Backend returns the backend the Renderer draws with.
func (r *Renderer) Backend() Backend { return r.backend }

// Canvas returns the current canvas size.
func (r *Renderer) Canvas() Canvas {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canvas
}

// SetInterpolation enables or disables corner smoothing for later renders.
func (r *Renderer) SetInterpolation(enabled bool) {
	r.mu.Lock()
	r.opts.interpolate = enabled
	r.mu.Unlock()
}

// PrepareColorRamp builds a ramp texture from stops and loads it into the
// backend. The returned ramp becomes the current ramp; the previous one is
// released. Ready reports false until this succeeds.
func (r *Renderer) PrepareColorRamp(ctx context.Context, stops []ColorStop) (*ColorRamp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.releaseRampLocked(ctx); err != nil {
		return nil, err
	}
	img, err := cachedRampImage(stops, r.opts.rampWidth, r.opts.colorSpace)
	if err != nil {
		return nil, err
	}
	return r.loadRampLocked(ctx, img, sortStops(stops))
}

// PrepareRampImage loads a ramp resampled from the middle row of src, as
// produced by RampFromImage. It otherwise behaves like PrepareColorRamp.
func (r *Renderer) PrepareRampImage(ctx context.Context, src image.Image) (*ColorRamp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.releaseRampLocked(ctx); err != nil {
		return nil, err
	}
	img, err := RampFromImage(src, r.opts.rampWidth)
	if err != nil {
		return nil, err
	}
	return r.loadRampLocked(ctx, img, nil)
}

func (r *Renderer) releaseRampLocked(ctx context.Context) error {
	if r.closed {
		return ErrClosed
	}
	if r.ramp != nil {
		r.ramp.release()
		r.ramp = nil
	}
	return ctx.Err()
}

func (r *Renderer) loadRampLocked(ctx context.Context, img *image.RGBA, stops []ColorStop) (*ColorRamp, error) {
	tex, err := r.backend.LoadRamp(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("rampmap: load ramp: %w", err)
	}
	r.ramp = &ColorRamp{stops: stops, image: img, texture: tex, owner: r.backend}
	r.log().Debug("rampmap: ramp loaded", "width", img.Bounds().Dx(), "stops", len(stops))
	return r.ramp, nil
}

// Ready reports whether a color ramp is loaded.
func (r *Renderer) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed && r.ramp != nil
}

// Render tessellates g and draws it with ramp. A nil ramp selects the
// current one. Grids with nothing drawable clear the canvas instead.
func (r *Renderer) Render(g *Grid, ramp *ColorRamp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderLocked(g, ramp)
}

func (r *Renderer) renderLocked(g *Grid, ramp *ColorRamp) error {
	if r.closed {
		return ErrClosed
	}
	if ramp == nil {
		ramp = r.ramp
	}
	if ramp == nil || ramp.texture == nil || ramp.owner != r.backend {
		return ErrRampNotLoaded
	}

	mesh := tessellate(g, r.canvas, r.opts.interpolate)
	r.last, r.lastRmp = mesh, ramp
	rows, cols := g.Dims()
	r.log().Debug("rampmap: mesh built",
		"rows", rows, "cols", cols, "vertices", mesh.VertexCount(), "interpolate", r.opts.interpolate)
	return r.drawLocked()
}

func (r *Renderer) drawLocked() error {
	if !r.last.Drawable() {
		r.log().Debug("rampmap: nothing to draw", "vertices", r.last.VertexCount())
		return r.backend.Clear()
	}
	if err := r.backend.Draw(r.last, r.lastRmp.texture); err != nil {
		return fmt.Errorf("rampmap: draw: %w", err)
	}
	return nil
}

// Redraw draws the most recent mesh again without re-tessellating.
func (r *Renderer) Redraw() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.last == nil {
		return ErrNothingToRedraw
	}
	if r.lastRmp.texture == nil {
		return ErrRampNotLoaded
	}
	return r.drawLocked()
}

// Mesh returns the most recently rendered mesh, or nil.
func (r *Renderer) Mesh() *Mesh {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Reinit resizes the backend target to canvas and renders g with the
// current ramp.
func (r *Renderer) Reinit(canvas Canvas, g *Grid) error {
	if err := canvas.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if err := r.backend.Init(canvas); err != nil {
		return fmt.Errorf("rampmap: reinit %s backend: %w", r.backend.Name(), err)
	}
	r.canvas = canvas
	if err := r.backend.Clear(); err != nil {
		return err
	}
	r.log().Info("rampmap: renderer resized", "width", canvas.Width, "height", canvas.Height)
	return r.renderLocked(g, nil)
}

// Close clears the target, releases the current ramp and closes the
// backend. Close is idempotent.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true

	if err := r.backend.Clear(); err != nil {
		r.log().Warn("rampmap: clear on close", "err", err)
	}
	if r.ramp != nil {
		r.ramp.release()
		r.ramp = nil
	}
	r.last, r.lastRmp = nil, nil
	r.backend.Close()

	liveMu.Lock()
	delete(live, r.backend)
	liveMu.Unlock()
	r.log().Info("rampmap: renderer closed", "backend", r.backend.Name())
}
