// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glint

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/glint/audio"
	"github.com/gogpu/glint/device"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for glint and its sub-packages.
// By default, glint produces no log output. Pass nil to restore the
// default silent behavior.
//
// SetLogger is safe for concurrent use: it stores the new logger
// atomically and forwards it to the device and audio packages.
//
// Log levels used by glint:
//   - [slog.LevelDebug]: internal diagnostics (deferred deletions, context switches)
//   - [slog.LevelInfo]: lifecycle events (driver selected, audio device open)
//   - [slog.LevelWarn]: non-fatal issues (resource release deferred past shutdown)
//
// Example:
//
//	glint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	device.SetLogger(l)
	audio.SetLogger(l)
}

// Logger returns the current logger used by glint.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
