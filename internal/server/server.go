// Package server runs the outreach HTTP API with ordered startup and
// shutdown hooks, stopping on SIGINT or SIGTERM.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Run starts the HTTP server and blocks until a signal arrives, the base
// context is cancelled or the listener fails. Startup hooks run before the
// first request is served; shutdown hooks run after the HTTP server drained.
// A failing startup hook or listener returns at once without running the
// shutdown hooks.
func Run(handler http.Handler, opts ...Option) error {
	cfg := newConfig(opts...)
	logger := cfg.logger

	ctx, cancel := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			logger.ErrorContext(ctx, "startup hook failed", slog.Any("error", err))
			return err
		}
	}

	srv := &http.Server{
		Addr:              cfg.address,
		Handler:           handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      cfg.writeTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	if cfg.onListen != nil {
		cfg.onListen(ln.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.shutdownTimeout)
	defer shutdownCancel()

	errs := []error{serveErr}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, runHooks(shutdownCtx, cfg, logger))

	if err := errors.Join(errs...); err != nil {
		logger.Error("shutdown completed with errors", slog.Any("error", err))
		return err
	}

	logger.Info("shutdown completed")
	return nil
}

// runHooks runs every shutdown hook and joins their errors.
func runHooks(ctx context.Context, cfg *config, logger *slog.Logger) error {
	var errs []error
	for _, hook := range cfg.shutdownHooks {
		if err := hook(ctx); err != nil {
			logger.ErrorContext(ctx, "shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
