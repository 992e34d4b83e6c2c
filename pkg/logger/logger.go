package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the service logger from cfg: stdout in the configured format,
// plus an optional rotating file and Sentry. Context extractors apply to
// every destination.
//
// The returned cleanup closes the log file and flushes Sentry; call it last
// during shutdown.
func New(cfg Config, extractors ...ContextExtractor) (*slog.Logger, func()) {
	return newLogger(os.Stdout, cfg, extractors...)
}

func newLogger(stdout io.Writer, cfg Config, extractors ...ContextExtractor) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: cfg.level()}
	handlers := []slog.Handler{newHandler(stdout, cfg.Format, opts)}
	var cleanups []func()

	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.FileMaxSizeMB,
			MaxBackups: cfg.FileMaxBackups,
			MaxAge:     cfg.FileMaxAgeDays,
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(file, opts))
		cleanups = append(cleanups, func() { _ = file.Close() })
	}

	if cfg.Sentry.DSN != "" {
		h, err := newSentryHandler(cfg.Sentry)
		if err != nil {
			slog.New(handlers[0]).Error("failed to initialize Sentry", slog.Any("error", err))
		} else {
			handlers = append(handlers, h)
			cleanups = append(cleanups, func() { sentry.Flush(2 * time.Second) })
		}
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = newMultiHandler(handlers...)
	}

	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}
	return slog.New(NewLogHandlerDecorator(h, extractors...)), cleanup
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// Shutdown returns a shutdown hook running cleanup.
func Shutdown(cleanup func()) func(context.Context) error {
	return func(context.Context) error {
		cleanup()
		return nil
	}
}
