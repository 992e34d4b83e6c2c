package campaign

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/outreach/pkg/job"
)

// Executor runs registered jobs at or after a wall-clock time.
// *job.Manager satisfies it.
type Executor interface {
	// Schedule registers j under id to run at the given time.
	Schedule(id string, at time.Time, j job.Job) error
	// Cancel removes a pending registration.
	// Returns job.ErrJobNotFound if id already ran or was never registered.
	Cancel(id string) error
}

// Scheduler computes send times for email batches, registers a deferred
// unit of work per email and tracks every unit in the registry until its
// campaign finishes or is cancelled.
type Scheduler struct {
	executor  Executor
	registry  *Registry
	logger    *slog.Logger
	now       func() time.Time
	observers observers

	// batchMu serialises batch registration with cancellation, so a cancel
	// never sees units whose jobs are not registered yet.
	batchMu sync.Mutex
}

// NewScheduler creates a scheduler that registers work with exec.
func NewScheduler(exec Executor, opts ...Option) (*Scheduler, error) {
	if exec == nil {
		return nil, ErrExecutorRequired
	}

	cfg := &config{now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.registry == nil {
		cfg.registry = NewRegistry()
	}

	return &Scheduler{
		executor:  exec,
		registry:  cfg.registry,
		logger:    cfg.logger,
		now:       cfg.now,
		observers: cfg.observers,
	}, nil
}

// Registry returns the status registry backing the scheduler.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// ScheduleBatch plans total emails evenly across [start, end] for one campaign.
// Every unit shares payload and differs only in send time. It returns once all
// units are registered; delivery happens later on executor goroutines.
func (s *Scheduler) ScheduleBatch(ctx context.Context, deliver DeliveryFunc, start, end time.Time, total int, campaignID string, payload Payload) ([]Unit, error) {
	switch {
	case deliver == nil:
		return nil, ErrNilDelivery
	case total < 1:
		return nil, ErrInvalidCount
	case end.Before(start):
		return nil, ErrInvalidWindow
	case campaignID == "":
		return nil, ErrInvalidCampaign
	}

	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	times := SendTimes(start, end, total)
	units := make([]Unit, len(times))
	for i, at := range times {
		units[i] = Unit{
			ID:         UnitID(at, campaignID, i),
			CampaignID: campaignID,
			SendTime:   at,
			Status:     StatusScheduled,
			Recipient:  payload.Recipient,
			Payload:    payload,
		}
	}

	if err := s.registry.Insert(units...); err != nil {
		return nil, err
	}

	for i, u := range units {
		w := &unitWork{
			scheduler:  s,
			deliver:    deliver,
			payload:    u.Payload,
			unitID:     u.ID,
			campaignID: u.CampaignID,
			sendTime:   u.SendTime,
		}
		if err := s.executor.Schedule(u.ID, u.SendTime, w); err != nil {
			s.rollback(units[:i], units)
			return nil, fmt.Errorf("campaign: register unit %s: %w", u.ID, err)
		}
	}

	s.logger.InfoContext(ctx, "campaign batch scheduled",
		slog.String("campaign_id", campaignID),
		slog.String("recipient", payload.Recipient),
		slog.Int("units", len(units)),
		slog.Time("start", start),
		slog.Time("end", end),
	)
	s.observers.Scheduled(ctx, units)

	return units, nil
}

// rollback undoes a partially registered batch.
func (s *Scheduler) rollback(registered, inserted []Unit) {
	for _, u := range registered {
		_ = s.executor.Cancel(u.ID)
	}
	ids := make(map[string]struct{}, len(inserted))
	for _, u := range inserted {
		ids[u.ID] = struct{}{}
	}
	s.registry.RemoveFunc(func(u Unit) bool {
		_, ok := ids[u.ID]
		return ok
	})
}

// CancelCampaign stops every unit of a campaign that has not started yet and
// drops all of the campaign's units from the registry, whatever their status.
// A delivery already in progress finishes but is no longer tracked.
// Returns the number of cancelled sends; an unknown campaign yields 0.
func (s *Scheduler) CancelCampaign(ctx context.Context, campaignID string) int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	removed := s.registry.RemoveFunc(func(u Unit) bool {
		return u.CampaignID == campaignID
	})
	if len(removed) == 0 {
		return 0
	}

	cancelled := 0
	for _, u := range removed {
		if u.Status == StatusScheduled {
			cancelled++
		}
		if err := s.executor.Cancel(u.ID); err != nil && !errors.Is(err, job.ErrJobNotFound) {
			s.logger.WarnContext(ctx, "failed to cancel unit",
				slog.String("unit_id", u.ID),
				slog.String("campaign_id", campaignID),
				slog.Any("error", err),
			)
		}
	}

	s.logger.InfoContext(ctx, "campaign cancelled",
		slog.String("campaign_id", campaignID),
		slog.Int("cancelled", cancelled),
		slog.Int("removed", len(removed)),
	)
	s.observers.Cancelled(ctx, campaignID, cancelled)

	return cancelled
}

// ListAll returns a snapshot of every registered unit keyed by unit id.
func (s *Scheduler) ListAll() map[string]Unit {
	return s.registry.Snapshot()
}

// Units returns the registered units ordered by unit id.
func (s *Scheduler) Units() []Unit {
	snapshot := s.registry.Snapshot()
	units := slices.Collect(maps.Values(snapshot))
	slices.SortFunc(units, func(a, b Unit) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return units
}

// Summary counts the live units of one campaign by status.
type Summary struct {
	Counts     map[Status]int `json:"counts"`
	NextSend   time.Time      `json:"next_send,omitzero"`
	CampaignID string         `json:"campaign_id"`
	Recipient  string         `json:"recipient"`
	Total      int            `json:"total"`
}

// Campaigns summarises live campaigns ordered by campaign id.
func (s *Scheduler) Campaigns() []Summary {
	byID := make(map[string]*Summary)
	for _, u := range s.registry.Snapshot() {
		sum, ok := byID[u.CampaignID]
		if !ok {
			sum = &Summary{
				CampaignID: u.CampaignID,
				Recipient:  u.Recipient,
				Counts:     make(map[Status]int),
			}
			byID[u.CampaignID] = sum
		}
		sum.Counts[u.Status]++
		sum.Total++
		if u.Status == StatusScheduled && (sum.NextSend.IsZero() || u.SendTime.Before(sum.NextSend)) {
			sum.NextSend = u.SendTime
		}
	}

	out := make([]Summary, 0, len(byID))
	for _, sum := range byID {
		out = append(out, *sum)
	}
	slices.SortFunc(out, func(a, b Summary) int {
		return cmp.Compare(a.CampaignID, b.CampaignID)
	})
	return out
}
