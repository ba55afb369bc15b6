package rampmap

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package logger. SetLogger may run concurrently
// with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for rampmap and the backends it drives.
// By default rampmap produces no log output. Pass nil to restore silence.
// Backends of Renderers created with WithLogger keep that logger.
//
// Log levels used by rampmap:
//   - [slog.LevelDebug]: mesh sizes, ramp widths, skipped draws
//   - [slog.LevelInfo]: backend initialization and shutdown
//   - [slog.LevelWarn]: non-fatal issues such as resource release errors
//
// Example:
//
//	rampmap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	liveMu.Lock()
	backends := make([]Backend, 0, len(live))
	for b, own := range live {
		if own == nil {
			backends = append(backends, b)
		}
	}
	liveMu.Unlock()
	for _, b := range backends {
		propagateLogger(b, l)
	}
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes l to b if b implements loggerSetter.
func propagateLogger(b Backend, l *slog.Logger) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
