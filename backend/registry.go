package backend

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/gogpu/rampmap"
)

// Factory creates a new backend instance.
type Factory func() rampmap.Backend

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendWGPU, BackendSoftware}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a backend instance by name.
// Returns nil if the backend is not registered.
func Get(name string) rampmap.Backend {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available backend based on priority.
// Priority order: wgpu > software, then any other backend by name.
// Returns nil if no backends are registered.
func Default() rampmap.Backend {
	for _, name := range orderedNames() {
		if b := Get(name); b != nil {
			return b
		}
	}
	return nil
}

// Ordered returns the registered backend names in the order Default and
// InitDefault try them.
func Ordered() []string {
	return orderedNames()
}

// orderedNames returns registered names in selection order.
func orderedNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for _, name := range backendPriority {
		if _, ok := backends[name]; ok {
			names = append(names, name)
		}
	}
	rest := make([]string, 0, len(backends))
	for name := range backends {
		if !slices.Contains(backendPriority, name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// MustDefault returns the default backend or panics.
func MustDefault() rampmap.Backend {
	b := Default()
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}

// InitDefault returns the highest-priority backend that initializes on
// canvas. Backends that fail Init are closed and the next one is tried.
func InitDefault(canvas rampmap.Canvas) (rampmap.Backend, error) {
	names := orderedNames()
	var lastErr error
	for _, name := range names {
		b := Get(name)
		if b == nil {
			continue
		}
		if err := b.Init(canvas); err != nil {
			rampmap.Logger().Warn("backend: init failed, trying next",
				"backend", name, "error", err)
			b.Close()
			lastErr = err
			continue
		}
		return b, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendNotAvailable, lastErr)
	}
	return nil, ErrBackendNotAvailable
}

// NewRenderer creates a rampmap.Renderer on the best backend that
// initializes on canvas. An explicit rampmap.WithBackend in opts wins.
func NewRenderer(canvas rampmap.Canvas, opts ...rampmap.Option) (*rampmap.Renderer, error) {
	if err := canvas.Validate(); err != nil {
		return nil, err
	}
	b, err := InitDefault(canvas)
	if err != nil {
		return nil, err
	}
	all := make([]rampmap.Option, 0, len(opts)+1)
	all = append(all, rampmap.WithBackend(b))
	all = append(all, opts...)
	r, err := rampmap.New(canvas, all...)
	if err != nil {
		b.Close()
		return nil, err
	}
	if r.Backend() != b {
		b.Close()
	}
	return r, nil
}
