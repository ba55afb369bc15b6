package rampmap

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
)

var errFake = errors.New("fake backend failure")

// fakeBackend records calls instead of drawing.
type fakeBackend struct {
	mu sync.Mutex

	canvas   Canvas
	initErr  error
	loadErr  error
	drawErr  error
	inits    int
	clears   int
	draws    int
	closed   bool
	released int
	lastMesh *Mesh
	logger   *slog.Logger
}

type fakeTexture struct {
	b     *fakeBackend
	width int
	freed bool
}

func (t *fakeTexture) Width() int { return t.width }

func (t *fakeTexture) Release() {
	if t.freed {
		return
	}
	t.freed = true
	t.b.mu.Lock()
	t.b.released++
	t.b.mu.Unlock()
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) SetLogger(l *slog.Logger) {
	b.mu.Lock()
	b.logger = l
	b.mu.Unlock()
}

func (b *fakeBackend) Init(canvas Canvas) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initErr != nil {
		return b.initErr
	}
	b.canvas = canvas
	b.inits++
	return nil
}

func (b *fakeBackend) LoadRamp(ctx context.Context, ramp *image.RGBA) (RampTexture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return &fakeTexture{b: b, width: ramp.Bounds().Dx()}, nil
}

func (b *fakeBackend) Draw(mesh *Mesh, ramp RampTexture) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drawErr != nil {
		return b.drawErr
	}
	if t, ok := ramp.(*fakeTexture); !ok || t.freed {
		return errors.New("fake: released texture")
	}
	b.draws++
	b.lastMesh = mesh
	return nil
}

func (b *fakeBackend) Clear() error {
	b.mu.Lock()
	b.clears++
	b.mu.Unlock()
	return nil
}

func (b *fakeBackend) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

func (b *fakeBackend) counts() (inits, clears, draws int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inits, b.clears, b.draws
}
