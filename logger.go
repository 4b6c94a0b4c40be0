package winnow

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with winnow-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSequence adds a sequence id field to the logger.
func (l *Logger) WithSequence(id uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("seq_id", id),
	}
}

// WithFile adds a file path field to the logger.
func (l *Logger) WithFile(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", path),
	}
}

// WithParams adds the winnowing parameters to the logger.
func (l *Logger) WithParams(p Params) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", p.KmerSize, "w", p.WindowSize, "alphabet", p.AlphabetSize),
	}
}

// LogSequenceStart logs that minimizers are about to be inserted.
// Use on a logger from WithSequence.
func (l *Logger) LogSequenceStart(ctx context.Context, name string, length int) {
	l.DebugContext(ctx, "inserting minimizers",
		"name", name,
		"length", length,
	)
}

// LogSequence logs a completed sequence.
func (l *Logger) LogSequence(ctx context.Context, inserted int, symmetric int64) {
	l.DebugContext(ctx, "inserted minimizers",
		"minimizers", inserted,
		"symmetric_skipped", symmetric,
	)
}

// LogFile logs a processed input file. Use on a logger from WithFile.
func (l *Logger) LogFile(ctx context.Context, sequences int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "file failed",
			"sequences", sequences,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "file indexed",
			"sequences", sequences,
			"elapsed", elapsed,
		)
	}
}

// LogSave logs a save operation.
func (l *Logger) LogSave(ctx context.Context, name string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "sketch saved",
			"name", name,
			"bytes", size,
		)
	}
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(ctx context.Context, name string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "sketch loaded",
			"name", name,
			"records", records,
		)
	}
}
