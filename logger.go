package paperwise

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with viewer-specific helpers so operations log
// with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil, a
// text handler to stderr at Info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// LogOpen logs the outcome of an open operation.
func (l *Logger) LogOpen(ctx context.Context, path string, pages int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "document opened",
			"path", path,
			"pages", pages,
		)
	}
}

// LogRender logs the outcome of a foreground page render.
func (l *Logger) LogRender(ctx context.Context, page int, zoom float64, cached bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "render failed",
			"page", page,
			"zoom", zoom,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "render completed",
			"page", page,
			"zoom", zoom,
			"cached", cached,
		)
	}
}

// LogSearch logs the outcome of a search operation.
func (l *Logger) LogSearch(ctx context.Context, matches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"matches", matches,
		)
	}
}
