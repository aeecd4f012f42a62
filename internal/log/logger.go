// Package log wraps log/slog with the settings and helpers used across staffplan.
package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/VladislavFirsov/staffplan/contracts"
)

// Logger is a structured logger. The zero value is not usable; use New, Default or Nop.
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New creates a Logger from config.
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == FormatText {
		handler = slog.NewTextHandler(config.Output, opts)
	} else {
		handler = slog.NewJSONHandler(config.Output, opts)
	}

	l := slog.New(handler)
	if config.ServiceName != "" {
		l = l.With("service", config.ServiceName)
	}
	return &Logger{slog: l, config: config}
}

// Default creates a logger with DefaultConfig.
func Default() *Logger {
	return New(DefaultConfig())
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{
		slog:   slog.New(slog.DiscardHandler),
		config: Config{Level: LevelError, Output: io.Discard},
	}
}

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), config: l.config}
}

// WithError attaches the error message and its kind.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With("error", err.Error(), "error_kind", ErrorKind(err))
}

// ErrorKind classifies an engine error into a stable short name.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, contracts.ErrValidation):
		return "validation"
	case errors.Is(err, contracts.ErrCycle):
		return "cycle"
	case errors.Is(err, contracts.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, contracts.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slog.DebugContext(ctx, msg, args...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slog.InfoContext(ctx, msg, args...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slog.WarnContext(ctx, msg, args...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slog.ErrorContext(ctx, msg, args...)
}

// Enabled reports whether records at level are emitted.
func (l *Logger) Enabled(ctx context.Context, level Level) bool {
	return l.slog.Enabled(ctx, level.slogLevel())
}

// Slog exposes the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Config returns the configuration the logger was built with.
func (l *Logger) Config() Config {
	return l.config
}
