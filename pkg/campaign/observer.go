package campaign

import (
	"context"
	"time"
)

// Outcome describes one finished unit of work.
type Outcome struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Unit       Unit
	Response   []byte
	Error      string
	StatusCode int
	Misfired   bool
}

// Observer receives lifecycle events from the scheduler.
// Calls happen synchronously on the goroutine that caused the event,
// so implementations must be quick or hand work off.
type Observer interface {
	// Scheduled is called after a batch is registered.
	Scheduled(ctx context.Context, units []Unit)
	// Finished is called when a unit reaches a terminal status.
	Finished(ctx context.Context, o Outcome)
	// Cancelled is called after a campaign is cancelled with the number of
	// sends that were stopped before they started.
	Cancelled(ctx context.Context, campaignID string, cancelled int)
}

// NopObserver ignores every event. Embed it to implement only part of Observer.
type NopObserver struct{}

func (NopObserver) Scheduled(context.Context, []Unit) {}
func (NopObserver) Finished(context.Context, Outcome) {}
func (NopObserver) Cancelled(context.Context, string, int) {}

// observers fans events out to several observers.
type observers []Observer

func (o observers) Scheduled(ctx context.Context, units []Unit) {
	for _, ob := range o {
		ob.Scheduled(ctx, units)
	}
}

func (o observers) Finished(ctx context.Context, out Outcome) {
	for _, ob := range o {
		ob.Finished(ctx, out)
	}
}

func (o observers) Cancelled(ctx context.Context, campaignID string, cancelled int) {
	for _, ob := range o {
		ob.Cancelled(ctx, campaignID, cancelled)
	}
}
