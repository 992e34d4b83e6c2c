package mailer

import (
	"log/slog"

	"github.com/dmitrymomot/outreach/pkg/storage"
)

// Option configures a Mailer.
type Option func(*Mailer)

// WithImages sets the storage that payload image keys are loaded from.
// Without it, image keys are ignored.
func WithImages(s storage.Storage) Option {
	return func(m *Mailer) {
		m.images = s
	}
}

// WithLogger sets the logger.
// If not set, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}
