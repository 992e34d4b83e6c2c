package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/outreach/pkg/campaign"
)

const defaultWriteTimeout = 5 * time.Second

// Recorder is a campaign.Observer that appends every outcome to a Store.
// Write errors are logged: history never changes a unit's outcome.
type Recorder struct {
	campaign.NopObserver

	store   Store
	logger  *slog.Logger
	timeout time.Duration
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithLogger sets the logger for write failures.
func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithWriteTimeout bounds each Append call. Default: 5 seconds.
func WithWriteTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
		timeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Finished implements campaign.Observer.
func (r *Recorder) Finished(ctx context.Context, o campaign.Outcome) {
	// The delivery context may already be done; the write gets its own deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := r.store.Append(ctx, FromOutcome(o)); err != nil {
		r.logger.ErrorContext(ctx, "history write failed",
			slog.String("unit_id", o.Unit.ID),
			slog.String("campaign_id", o.Unit.CampaignID),
			slog.Any("error", err),
		)
	}
}

var _ campaign.Observer = (*Recorder)(nil)
