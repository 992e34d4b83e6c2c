package main

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/outreach/pkg/campaign"
)

// reportLiveUnits logs the number of tracked send units every five minutes.
type reportLiveUnits struct {
	registry *campaign.Registry
	logger   *slog.Logger
}

func (t *reportLiveUnits) Name() string     { return "report_live_units" }
func (t *reportLiveUnits) Schedule() string { return "*/5 * * * *" }

func (t *reportLiveUnits) Handle(ctx context.Context) error {
	t.logger.InfoContext(ctx, "live units", slog.Int("count", t.registry.Len()))
	return nil
}
