// SPDX-FileCopyrightText: Marc Lajoie <marc@joyloc.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps a slog.Logger and is the logging facility used throughout joyloc.
type Logger struct {
	*slog.Logger
}

// New returns a new Logger that writes human-readable log output to STDERR. Output on
// STDOUT is reserved for the waybar status line.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a new Logger writing to the given writer at the given level.
func NewLogger(level slog.Level, writer io.Writer) *Logger {
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return &Logger{slog.New(handler)}
}

// Err returns a slog.Attr for an error value, so errors are logged with a consistent key.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}
