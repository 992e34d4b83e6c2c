package campaign

import (
	"log/slog"
	"time"
)

// config holds scheduler configuration.
type config struct {
	logger    *slog.Logger
	now       func() time.Time
	registry  *Registry
	observers observers
}

// Option configures the scheduler.
type Option func(*config)

// WithLogger sets the logger for scheduling and delivery events.
// If not set, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry injects the status registry.
// Defaults to a fresh empty registry.
func WithRegistry(r *Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithObserver adds an observer for lifecycle events.
// May be given several times; observers are called in order.
//
// Example:
//
//	campaign.WithObserver(metrics.NewCollector(reg)),
//	campaign.WithObserver(history.NewRecorder(store, history.WithLogger(log))),
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithClock overrides the time source used for outcome timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
