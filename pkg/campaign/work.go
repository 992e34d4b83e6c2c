package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// unitWork is the deferred action bound to one send unit.
// It holds copies of everything it needs so nothing is shared between units.
type unitWork struct {
	sendTime   time.Time
	scheduler  *Scheduler
	deliver    DeliveryFunc
	unitID     string
	campaignID string
	payload    Payload
}

// Run delivers the email and records the outcome in the registry.
// A unit that is no longer registered was cancelled and is not delivered.
func (w *unitWork) Run(ctx context.Context) {
	s := w.scheduler
	log := s.logger.With(
		slog.String("unit_id", w.unitID),
		slog.String("campaign_id", w.campaignID),
	)

	if _, err := s.registry.SetStatus(w.unitID, StatusSending); err != nil {
		log.DebugContext(ctx, "unit skipped", slog.Any("reason", err))
		return
	}

	started := s.now()
	code, body, err := w.invoke(ctx)

	final := StatusFailed
	if err == nil && code == StatusOK {
		final = StatusSent
	}

	u, serr := s.registry.SetStatus(w.unitID, final)
	if serr != nil {
		// Cancelled while delivering: report the outcome for a detached unit.
		u = w.unit(final)
	}

	out := Outcome{
		Unit:       u,
		StartedAt:  started,
		FinishedAt: s.now(),
		StatusCode: code,
		Response:   body,
	}
	if err != nil {
		out.Error = err.Error()
	}

	if final == StatusSent {
		log.InfoContext(ctx, "email sent", slog.String("recipient", w.payload.Recipient))
	} else {
		log.WarnContext(ctx, "email delivery failed",
			slog.String("recipient", w.payload.Recipient),
			slog.Int("status", code),
			slog.String("response", string(body)),
			slog.Any("error", err),
		)
	}

	s.observers.Finished(ctx, out)
	w.sweep(ctx, log)
}

// Misfire marks the unit failed without delivering it.
func (w *unitWork) Misfire(ctx context.Context, late time.Duration) {
	s := w.scheduler
	log := s.logger.With(
		slog.String("unit_id", w.unitID),
		slog.String("campaign_id", w.campaignID),
	)

	u, err := s.registry.SetStatus(w.unitID, StatusFailed)
	if err != nil {
		return
	}

	log.WarnContext(ctx, "email send time missed", slog.Duration("late", late))

	now := s.now()
	s.observers.Finished(ctx, Outcome{
		Unit:       u,
		StartedAt:  now,
		FinishedAt: now,
		Error:      fmt.Sprintf("%s by %s", ErrMisfired, late),
		Misfired:   true,
	})
	w.sweep(ctx, log)
}

// invoke calls the delivery function, turning a panic into an error.
func (w *unitWork) invoke(ctx context.Context) (code int, body []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			code, body = 0, nil
			err = fmt.Errorf("%w: %v", ErrDeliveryPanic, r)
		}
	}()

	code, body = w.deliver(ctx, w.payload)
	return code, body, nil
}

func (w *unitWork) sweep(ctx context.Context, log *slog.Logger) {
	if n := w.scheduler.registry.SweepCampaign(w.campaignID); n > 0 {
		log.InfoContext(ctx, "campaign finished", slog.Int("units", n))
	}
}

func (w *unitWork) unit(status Status) Unit {
	return Unit{
		ID:         w.unitID,
		CampaignID: w.campaignID,
		SendTime:   w.sendTime,
		Status:     status,
		Recipient:  w.payload.Recipient,
		Payload:    w.payload,
	}
}
