package server

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultAddress           = ":8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 60 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Hook runs at startup or shutdown.
type Hook func(context.Context) error

// Option configures Run.
type Option func(*config)

type config struct {
	baseCtx         context.Context
	logger          *slog.Logger
	address         string
	startupHooks    []Hook
	shutdownHooks   []Hook
	onListen        func(addr string)
	shutdownTimeout time.Duration
	writeTimeout    time.Duration
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		address:         defaultAddress,
		shutdownTimeout: defaultShutdownTimeout,
		writeTimeout:    defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.baseCtx == nil {
		cfg.baseCtx = context.Background()
	}
	return cfg
}

// Address sets the listen address. Defaults to ":8080".
func Address(addr string) Option {
	return func(c *config) {
		if addr != "" {
			c.address = addr
		}
	}
}

// Logger sets the logger.
func Logger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShutdownTimeout bounds the HTTP drain and all shutdown hooks together.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// WriteTimeout sets the HTTP write timeout. Draft generation calls slow
// models, so the default is 60 seconds.
func WriteTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// StartupHook registers a function to run before the listener accepts
// requests. Hooks run in registration order; the first error aborts Run.
//
// Example:
//
//	server.StartupHook(manager.StartFunc())
func StartupHook(fn Hook) Option {
	return func(c *config) {
		if fn != nil {
			c.startupHooks = append(c.startupHooks, fn)
		}
	}
}

// ShutdownHook registers a cleanup function to run after the HTTP server
// stops. Hooks run in registration order and all of them run even if one fails.
//
// Example:
//
//	server.ShutdownHook(manager.Shutdown())
//	server.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn Hook) Option {
	return func(c *config) {
		if fn != nil {
			c.shutdownHooks = append(c.shutdownHooks, fn)
		}
	}
}

// WithContext sets the base context. Cancelling it shuts the server down
// like a signal does.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// onListen is called with the bound address. Test hook.
func onListen(fn func(addr string)) Option {
	return func(c *config) {
		c.onListen = fn
	}
}
