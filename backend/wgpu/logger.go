//go:build !nogpu

package wgpu

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr stores the active logger. Accessed atomically for thread safety.
// A nil entry means none has been set yet; slogger then falls back to a
// silent logger. The fallback is lazy because this package's accelerator
// registration runs during init, before any store could happen.
var loggerPtr atomic.Pointer[slog.Logger]

// slogger returns the current package logger.
// All logging in this package goes through this function.
func slogger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return slog.New(nopHandler{})
}

// setLogger updates the package-level logger.
// Called from Accelerator.SetLogger when sis.SetLogger propagates.
func setLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}
